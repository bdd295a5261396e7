package actions

import (
	"strings"
	"time"

	"github.com/and161185/orderdesk/internal/model"
)

// Action names a buyer control that can be offered on an order.
type Action string

const (
	Cancel               Action = "cancel"
	Dispute              Action = "dispute"
	ApproveDelivery      Action = "approve-delivery"
	RequestRevision      Action = "request-revision"
	RespondCancellation  Action = "respond-cancellation"
	WithdrawCancellation Action = "withdraw-cancellation"
	RespondDispute       Action = "respond-dispute"
	CancelDispute        Action = "cancel-dispute"
	MakeSettlementOffer  Action = "settlement-offer"
	RequestArbitration   Action = "request-arbitration"
	CancelArbitration    Action = "cancel-arbitration"
	RespondExtension     Action = "respond-extension"
	RespondOffer         Action = "respond-offer"
	Rate                 Action = "rate"
)

// Availability is the set of actions the viewer may take right now.
type Availability struct {
	CanCancel               bool `json:"canCancel"`
	CanDispute              bool `json:"canDispute"`
	CanApproveDelivery      bool `json:"canApproveDelivery"`
	CanRequestRevision      bool `json:"canRequestRevision"`
	CanRespondCancellation  bool `json:"canRespondCancellation"`
	CanWithdrawCancellation bool `json:"canWithdrawCancellation"`
	CanRespondDispute       bool `json:"canRespondDispute"`
	CanCancelDispute        bool `json:"canCancelDispute"`
	CanMakeSettlementOffer  bool `json:"canMakeSettlementOffer"`
	CanRequestArbitration   bool `json:"canRequestArbitration"`
	CanCancelArbitration    bool `json:"canCancelArbitration"`
	CanRespondExtension     bool `json:"canRespondExtension"`
	CanRespondOffer         bool `json:"canRespondOffer"`
	CanRate                 bool `json:"canRate"`

	// milestone orders only
	CancellableMilestones []int `json:"cancellableMilestones,omitempty"`
	DisputableMilestones  []int `json:"disputableMilestones,omitempty"`
}

// Allows reports whether action is currently available.
func (a Availability) Allows(action Action) bool {
	switch action {
	case Cancel:
		return a.CanCancel
	case Dispute:
		return a.CanDispute
	case ApproveDelivery:
		return a.CanApproveDelivery
	case RequestRevision:
		return a.CanRequestRevision
	case RespondCancellation:
		return a.CanRespondCancellation
	case WithdrawCancellation:
		return a.CanWithdrawCancellation
	case RespondDispute:
		return a.CanRespondDispute
	case CancelDispute:
		return a.CanCancelDispute
	case MakeSettlementOffer:
		return a.CanMakeSettlementOffer
	case RequestArbitration:
		return a.CanRequestArbitration
	case CancelArbitration:
		return a.CanCancelArbitration
	case RespondExtension:
		return a.CanRespondExtension
	case RespondOffer:
		return a.CanRespondOffer
	case Rate:
		return a.CanRate
	}
	return false
}

// Resolve computes the actions available to viewerID on o at now.
func Resolve(o *model.Order, viewerID string, now time.Time) Availability {
	if o == nil {
		return Availability{}
	}
	p := party{order: o, viewer: viewerID}
	var a Availability

	cr := o.CancellationRequest
	if o.Metadata.IsMilestoneOrder() {
		a.CancellableMilestones = CancellableMilestones(o)
		a.DisputableMilestones = DisputableMilestones(o)
		a.CanCancel = !cr.Pending() && len(a.CancellableMilestones) > 0
	} else {
		a.CanCancel = !cr.Pending() && o.Status.Is(model.InProgress, model.Active)
	}

	a.CanDispute = HasDelivery(o) && !o.Status.Is(model.Completed, model.Disputed)

	delivered := o.Status.Is(model.Delivered)
	a.CanApproveDelivery = delivered
	a.CanRequestRevision = delivered && !o.RevisionRequest.Pending()

	if cr.Pending() {
		mine := p.is(cr.RequestedBy)
		a.CanWithdrawCancellation = mine
		a.CanRespondCancellation = !mine
	}

	if d := o.DisputeInfo; disputeActive(o) {
		responded := d != nil && !d.RespondedAt.IsZero()
		payers := distinctPayers(d)
		paid := d.PaidBy(viewerID)

		a.CanRespondDispute = !responded && !p.isClaimant()
		a.CanCancelDispute = p.isClaimant()
		a.CanMakeSettlementOffer = responded && payers < 2
		a.CanRequestArbitration = responded && !paid
		a.CanCancelArbitration = paid && payers < 2
	}

	if ext := o.ExtensionRequest; ext != nil && ext.Status == model.RequestPending {
		a.CanRespondExtension = true
	}

	if o.Status.Is(model.OfferCreated) {
		deadline, ok := o.Metadata.ResponseDeadline.Time()
		a.CanRespondOffer = !ok || now.Before(deadline)
	}

	a.CanRate = o.Status.Is(model.Completed) && o.Rating == nil
	return a
}

// HasDelivery reports whether any work has been delivered on the order.
func HasDelivery(o *model.Order) bool {
	return len(o.DeliveryFiles) > 0 ||
		!o.DeliveredDate.IsZero() ||
		strings.TrimSpace(o.DeliveryMessage) != "" ||
		o.Status.Is(model.Delivered, model.Revision) ||
		len(o.Metadata.DeliveredMilestones()) > 0
}

// CancellableMilestones are the milestone indices neither delivered nor
// settled by a dispute.
func CancellableMilestones(o *model.Order) []int {
	taken := make(map[int]bool)
	for _, i := range o.Metadata.DeliveredMilestones() {
		taken[i] = true
	}
	for _, i := range o.Metadata.DisputeResolvedMilestoneIndices {
		taken[i] = true
	}
	var out []int
	for i := range o.Metadata.Milestones {
		if !taken[i] {
			out = append(out, i)
		}
	}
	return out
}

// DisputableMilestones are the delivered milestone indices not already
// settled by a dispute.
func DisputableMilestones(o *model.Order) []int {
	resolved := make(map[int]bool)
	for _, i := range o.Metadata.DisputeResolvedMilestoneIndices {
		resolved[i] = true
	}
	var out []int
	for _, i := range o.Metadata.DeliveredMilestones() {
		if !resolved[i] && i >= 0 && i < len(o.Metadata.Milestones) {
			out = append(out, i)
		}
	}
	return out
}

func disputeActive(o *model.Order) bool {
	d := o.DisputeInfo
	if d.Closed() {
		return false
	}
	return (d != nil && !d.CreatedAt.IsZero()) || o.Status.Is(model.Disputed)
}

func distinctPayers(d *model.DisputeInfo) int {
	if d == nil {
		return 0
	}
	seen := make(map[string]bool)
	for _, p := range d.ArbitrationPayments {
		if p.UserID != "" {
			seen[p.UserID] = true
		}
	}
	return len(seen)
}

// party answers "is this reference the viewer" for ids and role names.
type party struct {
	order  *model.Order
	viewer string
}

func (p party) viewerIsClient() bool {
	return p.order.ClientID == "" || p.order.ClientID == p.viewer
}

func (p party) is(ref string) bool {
	switch {
	case ref == "":
		return false
	case ref == p.viewer:
		return true
	case ref == model.RoleClient || ref == p.order.ClientID:
		return p.viewerIsClient()
	case ref == model.RoleProfessional || ref == p.order.ProfessionalID:
		return !p.viewerIsClient()
	}
	return false
}

func (p party) isClaimant() bool {
	if d := p.order.DisputeInfo; d != nil && d.ClaimantID != "" {
		return p.is(d.ClaimantID)
	}
	return p.viewerIsClient()
}
