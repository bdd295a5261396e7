package timeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/and161185/orderdesk/internal/format"
	"github.com/and161185/orderdesk/internal/model"
)

func disputeOpened(v *view) []Event {
	o := v.order
	d := o.DisputeInfo
	hasDispute := d != nil && !d.CreatedAt.IsZero()
	if !hasDispute && !strings.EqualFold(o.DeliveryStatus, "dispute") && !o.Status.Is(model.Disputed) {
		return nil
	}
	if d == nil {
		d = &model.DisputeInfo{}
	}

	responded := !d.RespondedAt.IsZero()
	deadline := format.DateTime(d.ResponseDeadline)

	ev := Event{
		ID:    "dispute-opened",
		At:    d.CreatedAt.Ptr(),
		Color: ColorPurple,
		Icon:  IconScale,
	}
	if v.viewerIsClaimant() {
		ev.Title = "Dispute Opened"
		ev.Description = "You opened a dispute on this order."
		switch {
		case responded:
			ev.Message = fmt.Sprintf("%s has responded. Use the negotiation period to agree on a settlement.", v.respondentName())
		case deadline != "":
			ev.Message = fmt.Sprintf("⏳ Awaiting Response: %s has until %s to respond. If they do not respond in time, the dispute will be closed in your favour.", v.respondentName(), deadline)
		default:
			ev.Message = fmt.Sprintf("⏳ Awaiting Response: %s has not responded yet.", v.respondentName())
		}
	} else {
		ev.Title = "Dispute Raised"
		ev.Description = fmt.Sprintf("%s opened a dispute on this order.", v.claimantName())
		switch {
		case responded:
			ev.Message = "You responded to this dispute."
		case deadline != "":
			ev.Message = fmt.Sprintf("⚠️ Action required: respond before %s, otherwise the dispute will be closed in %s's favour.", deadline, v.claimantName())
		default:
			ev.Message = "⚠️ Action required: respond to this dispute as soon as possible."
		}
	}
	if d.Reason != "" {
		ev.Message += "\n\nReason: " + d.Reason
	}
	return []Event{ev}
}

func disputeResponded(v *view) []Event {
	d := v.order.DisputeInfo
	if d == nil || d.RespondedAt.IsZero() {
		return nil
	}

	ev := Event{
		ID:          "dispute-responded",
		At:          d.RespondedAt.Ptr(),
		Title:       "Dispute Response Received",
		Description: fmt.Sprintf("%s responded to the dispute.", v.respondentName()),
		Color:       ColorPurple,
		Icon:        IconScale,
	}
	if !v.viewerIsClaimant() {
		ev.Title = "You Responded to the Dispute"
		ev.Description = "You responded to the dispute."
	}

	var parts []string
	if deadline := format.DateTime(d.NegotiationDeadline); deadline != "" {
		parts = append(parts, fmt.Sprintf("Negotiation is open until %s.", deadline))
	}
	if d.ArbitrationFeeAmount != nil {
		parts = append(parts, fmt.Sprintf("If you cannot agree, either party can ask for arbitration; the fee is %s per party.", format.Amount(d.ArbitrationFeeAmount)))
	}
	ev.Message = strings.Join(parts, " ")
	return []Event{ev}
}

// firstPayments returns the earliest payment of every distinct payer, ordered
// by payment time.
func firstPayments(d *model.DisputeInfo) []model.ArbitrationPayment {
	if d == nil {
		return nil
	}
	byPayer := make(map[string]model.ArbitrationPayment)
	var order []string
	for _, p := range d.ArbitrationPayments {
		if p.UserID == "" {
			continue
		}
		prev, ok := byPayer[p.UserID]
		if !ok {
			order = append(order, p.UserID)
			byPayer[p.UserID] = p
			continue
		}
		if sortKey(p.PaidAt.Ptr()) < sortKey(prev.PaidAt.Ptr()) {
			byPayer[p.UserID] = p
		}
	}
	out := make([]model.ArbitrationPayment, 0, len(order))
	for _, id := range order {
		out = append(out, byPayer[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return sortKey(out[i].PaidAt.Ptr()) < sortKey(out[j].PaidAt.Ptr())
	})
	return out
}

func arbitrationFeePaid(v *view) []Event {
	d := v.order.DisputeInfo
	payments := firstPayments(d)
	if len(payments) != 1 {
		return nil
	}
	p := payments[0]
	deadline := format.DateTime(d.ArbitrationFeeDeadline)

	ev := Event{
		ID:    "arbitration-fee-paid",
		At:    p.PaidAt.Ptr(),
		Title: "Arbitration Fee Paid",
		Color: ColorPurple,
		Icon:  IconCoin,
	}
	if v.isViewer(p.UserID) {
		ev.Description = "You paid the arbitration fee."
		ev.Message = fmt.Sprintf("Waiting for %s to pay the arbitration fee.", v.otherParty())
		if deadline != "" {
			ev.Message = fmt.Sprintf("Waiting for %s to pay the arbitration fee before %s. If they do not pay, the dispute will be decided in your favour.", v.otherParty(), deadline)
		}
	} else {
		payer := v.nameOf(p.UserID)
		ev.Description = fmt.Sprintf("%s paid the arbitration fee.", payer)
		ev.Message = "⚠️ Pay the arbitration fee to move the dispute to arbitration."
		if deadline != "" {
			ev.Message = fmt.Sprintf("⚠️ Pay the arbitration fee before %s, otherwise the dispute will be decided in %s's favour.", deadline, payer)
		}
	}
	return []Event{ev}
}

func arbitrationFeesPaid(v *view) []Event {
	payments := firstPayments(v.order.DisputeInfo)
	if len(payments) < 2 {
		return nil
	}
	latest := payments[len(payments)-1]
	return []Event{{
		ID:          "arbitration-fees-paid",
		At:          latest.PaidAt.Ptr(),
		Title:       "Arbitration Fees Paid",
		Description: "Both parties paid the arbitration fee. An arbitrator will now review the dispute.",
		Message:     fmt.Sprintf("The last fee was received on %s.", format.DateTime(latest.PaidAt)),
		Color:       ColorPurple,
		Icon:        IconCoin,
	}}
}

func disputeClosed(v *view) []Event {
	d := v.order.DisputeInfo
	if d == nil || d.ClosedAt.IsZero() {
		return nil
	}
	c := closureNarrative(v)
	return []Event{{
		ID:          "dispute-closed",
		At:          d.ClosedAt.Ptr(),
		Title:       "Dispute Closed",
		Description: c.text,
		Message:     c.detail,
		Color:       ColorPurple,
		Icon:        IconFlag,
	}}
}

func settlementOffers(v *view) []Event {
	d := v.order.DisputeInfo
	if d == nil {
		return nil
	}
	events := make([]Event, 0, len(d.OfferHistory))
	for i, offer := range d.OfferHistory {
		amount := format.Amount(offer.Amount)
		role := model.RoleProfessional
		if offer.Role == model.RoleClient {
			role = model.RoleClient
		}
		ev := Event{
			ID:    fmt.Sprintf("settlement-offer-%d", i+1),
			At:    offer.OfferedAt.Ptr(),
			Color: ColorBlue,
			Icon:  IconDeal,
		}
		if v.isViewer(role) {
			ev.Title = "Settlement Offer Sent"
			ev.Description = fmt.Sprintf("You offered to settle the dispute for %s.", amount)
		} else {
			ev.Title = "Settlement Offer Received"
			ev.Description = fmt.Sprintf("%s offered to settle the dispute for %s.", v.nameOf(role), amount)
		}
		events = append(events, ev)
	}
	return events
}

func offerRejections(v *view) []Event {
	rejections := collectRejections(v)
	events := make([]Event, 0, len(rejections))
	for _, r := range rejections {
		subject := "the latest settlement offer"
		if r.Amount != "" {
			subject = fmt.Sprintf("the %s settlement offer", r.Amount)
		}
		ev := Event{
			ID:    r.ID,
			At:    r.At.Ptr(),
			Title: "Settlement Offer Rejected",
			Color: ColorRed,
			Icon:  IconCancel,
		}
		switch {
		case v.isViewer(r.By):
			ev.Description = fmt.Sprintf("You rejected %s.", subject)
		case v.role(r.By) != "":
			ev.Description = fmt.Sprintf("%s rejected %s.", v.nameOf(r.By), subject)
		default:
			ev.Description = fmt.Sprintf("%s was rejected.", strings.ToUpper(subject[:1])+subject[1:])
		}
		events = append(events, ev)
	}
	return events
}
