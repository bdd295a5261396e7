// Package modal tracks the single dialog a buyer has open on an order.
package modal

import (
	"fmt"

	"github.com/and161185/orderdesk/internal/actions"
	"github.com/and161185/orderdesk/internal/errs"
)

type Kind string

const (
	None                   Kind = ""
	Cancel                 Kind = "cancel"
	CancellationResponse   Kind = "cancellation-response"
	WithdrawCancellation   Kind = "withdraw-cancellation"
	Revision               Kind = "revision"
	ApproveDelivery        Kind = "approve-delivery"
	Dispute                Kind = "dispute"
	SingleMilestoneConfirm Kind = "single-milestone-confirm"
	DisputeResponse        Kind = "dispute-response"
	CancelDispute          Kind = "cancel-dispute"
	SettlementOffer        Kind = "settlement-offer"
	Arbitration            Kind = "arbitration"
	CancelArbitration      Kind = "cancel-arbitration"
	Extension              Kind = "extension"
	Offer                  Kind = "offer"
	Rating                 Kind = "rating"
)

// guards maps every modal to the action it leads to.
var guards = map[Kind]actions.Action{
	Cancel:                 actions.Cancel,
	CancellationResponse:   actions.RespondCancellation,
	WithdrawCancellation:   actions.WithdrawCancellation,
	Revision:               actions.RequestRevision,
	ApproveDelivery:        actions.ApproveDelivery,
	Dispute:                actions.Dispute,
	SingleMilestoneConfirm: actions.Dispute,
	DisputeResponse:        actions.RespondDispute,
	CancelDispute:          actions.CancelDispute,
	SettlementOffer:        actions.MakeSettlementOffer,
	Arbitration:            actions.RequestArbitration,
	CancelArbitration:      actions.CancelArbitration,
	Extension:              actions.RespondExtension,
	Offer:                  actions.RespondOffer,
	Rating:                 actions.Rate,
}

// ParseKind validates a modal name received from a client.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if k == None {
		return None, nil
	}
	if _, ok := guards[k]; !ok {
		return None, fmt.Errorf("%q: %w", s, errs.ErrUnknownModal)
	}
	return k, nil
}

// Action returns the action the modal leads to.
func (k Kind) Action() (actions.Action, bool) {
	a, ok := guards[k]
	return a, ok
}

// Machine holds at most one active modal. It is not safe for concurrent use.
type Machine struct {
	active Kind
}

func (m *Machine) Active() Kind {
	return m.active
}

// Open replaces the active modal with kind. Opening None closes.
func (m *Machine) Open(kind Kind, av actions.Availability) error {
	if kind == None {
		m.active = None
		return nil
	}
	action, ok := guards[kind]
	if !ok {
		return fmt.Errorf("%q: %w", kind, errs.ErrUnknownModal)
	}
	if kind == SingleMilestoneConfirm {
		return fmt.Errorf("open the dispute first: %w", errs.ErrActionUnavailable)
	}
	if !av.Allows(action) {
		return fmt.Errorf("%s: %w", kind, errs.ErrActionUnavailable)
	}
	m.active = kind
	return nil
}

// Confirm advances a dispute into the single-milestone confirmation step.
func (m *Machine) Confirm() error {
	if m.active != Dispute {
		return fmt.Errorf("no dispute to confirm: %w", errs.ErrActionUnavailable)
	}
	m.active = SingleMilestoneConfirm
	return nil
}

func (m *Machine) Close() {
	m.active = None
}

// Revalidate closes the active modal when a fresher snapshot no longer
// allows its action. It reports whether the modal was closed.
func (m *Machine) Revalidate(av actions.Availability) bool {
	if m.active == None {
		return false
	}
	if action, ok := guards[m.active]; ok && av.Allows(action) {
		return false
	}
	m.active = None
	return true
}
