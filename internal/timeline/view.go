package timeline

import (
	"time"

	"github.com/and161185/orderdesk/internal/model"
)

// view carries the order being rendered and who is looking at it.
type view struct {
	order  *model.Order
	viewer string
	now    time.Time
}

// viewerIsClient treats clientId as the single canonical buyer identity. An
// order without a clientId is assumed to be rendered for its buyer.
func (v *view) viewerIsClient() bool {
	return v.order.ClientID == "" || v.order.ClientID == v.viewer
}

func (v *view) professionalName() string {
	if v.order.Professional != "" {
		return v.order.Professional
	}
	return "The professional"
}

func (v *view) clientName() string {
	if v.order.ClientName != "" {
		return v.order.ClientName
	}
	return "The client"
}

// otherParty names whoever the viewer is dealing with.
func (v *view) otherParty() string {
	if v.viewerIsClient() {
		return v.professionalName()
	}
	return v.clientName()
}

// role maps a user id or a role name to "client" or "professional"; unknown
// references map to "".
func (v *view) role(ref string) string {
	switch {
	case ref == "":
		return ""
	case ref == model.RoleClient || ref == v.order.ClientID:
		return model.RoleClient
	case ref == model.RoleProfessional || ref == v.order.ProfessionalID:
		return model.RoleProfessional
	}
	return ""
}

func (v *view) isViewer(ref string) bool {
	if ref != "" && ref == v.viewer {
		return true
	}
	switch v.role(ref) {
	case model.RoleClient:
		return v.viewerIsClient()
	case model.RoleProfessional:
		return !v.viewerIsClient()
	}
	return false
}

func (v *view) nameOf(ref string) string {
	switch v.role(ref) {
	case model.RoleClient:
		return v.clientName()
	case model.RoleProfessional:
		return v.professionalName()
	}
	return "The other party"
}

// claimantID is the party that opened the dispute. Disputes without an
// explicit claimant are attributed to the buyer, who is the only side able to
// open one from this view.
func (v *view) claimantID() string {
	if d := v.order.DisputeInfo; d != nil && d.ClaimantID != "" {
		return d.ClaimantID
	}
	if v.order.ClientID != "" {
		return v.order.ClientID
	}
	return v.viewer
}

func (v *view) viewerIsClaimant() bool {
	return v.claimantID() == v.viewer || (v.claimantID() == v.order.ClientID && v.viewerIsClient())
}

func (v *view) claimantName() string {
	if d := v.order.DisputeInfo; d != nil && d.ClaimantName != "" {
		return d.ClaimantName
	}
	return v.nameOf(v.claimantID())
}

func (v *view) respondentName() string {
	if d := v.order.DisputeInfo; d != nil && d.RespondentName != "" {
		return d.RespondentName
	}
	if v.role(v.claimantID()) == model.RoleProfessional {
		return v.clientName()
	}
	return v.professionalName()
}
