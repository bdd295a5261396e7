package actions

import (
	"strings"

	"github.com/and161185/orderdesk/internal/errs"
	"github.com/and161185/orderdesk/internal/format"
	"github.com/and161185/orderdesk/internal/model"
	"github.com/shopspring/decimal"
)

// offerTolerance absorbs rounding in amounts typed by the buyer.
var offerTolerance = decimal.New(1, -2)

// OfferCeiling is the largest settlement amount the buyer may ask for: the
// total of the selected milestones, or the order's refundable amount when no
// milestone is selected.
func OfferCeiling(o *model.Order, selected []int) decimal.Decimal {
	if len(selected) > 0 {
		total := decimal.Zero
		milestones := o.Metadata.Milestones
		for _, i := range selected {
			if i < 0 || i >= len(milestones) {
				continue
			}
			total = total.Add(milestoneTotal(milestones[i]))
		}
		return total
	}
	if o.RefundableAmount != nil {
		return o.RefundableAmount.Value()
	}
	return o.AmountValue.Value()
}

func milestoneTotal(m model.Milestone) decimal.Decimal {
	price := m.Price
	if price == nil {
		price = m.Amount
	}
	qty := int64(1)
	if m.NoOf != nil {
		qty = int64(*m.NoOf)
	}
	return price.Value().Mul(decimal.NewFromInt(qty))
}

// NeedsSingleMilestoneConfirmation reports that the buyer is about to dispute
// one milestone out of several delivered ones, which rules out disputing the
// rest later.
func NeedsSingleMilestoneConfirmation(o *model.Order, selected []int) bool {
	return len(selected) == 1 && len(o.Metadata.DeliveredMilestones()) > 1
}

// ValidateDisputeDraft checks a dispute before it is sent to the marketplace.
// It returns a *errs.ValidationError for bad input and
// errs.ErrConfirmationRequired when the single-milestone guard applies and
// the buyer has not confirmed.
func ValidateDisputeDraft(o *model.Order, draft model.DisputeDraft) error {
	if strings.TrimSpace(draft.Requirements) == "" {
		return errs.Invalid("requirements", "describe what was agreed")
	}
	if strings.TrimSpace(draft.UnmetRequirements) == "" {
		return errs.Invalid("unmetRequirements", "describe what was not delivered")
	}

	milestoneOrder := o.Metadata.IsMilestoneOrder()
	if milestoneOrder && len(DisputableMilestones(o)) > 0 && len(draft.MilestoneIndices) == 0 {
		return errs.Invalid("milestoneIndices", "select at least one milestone")
	}
	seen := make(map[int]bool, len(draft.MilestoneIndices))
	for _, i := range draft.MilestoneIndices {
		if !milestoneOrder || i < 0 || i >= len(o.Metadata.Milestones) || seen[i] {
			return errs.Invalid("milestoneIndices", "unknown milestone")
		}
		seen[i] = true
	}

	amount, ok := format.ParseAmount(draft.OfferAmount)
	if !ok {
		return errs.Invalid("offerAmount", "enter a valid amount")
	}
	if amount.IsNegative() {
		return errs.Invalid("offerAmount", "amount cannot be negative")
	}
	ceiling := OfferCeiling(o, draft.MilestoneIndices)
	if amount.GreaterThan(ceiling.Add(offerTolerance)) {
		return errs.Invalid("offerAmount", "amount cannot exceed "+format.Money(ceiling))
	}

	if len(draft.Evidence) == 0 {
		return errs.Invalid("evidence", "attach at least one file")
	}

	if NeedsSingleMilestoneConfirmation(o, draft.MilestoneIndices) && !draft.ConfirmSingleMilestone {
		return errs.ErrConfirmationRequired
	}
	return nil
}

// ValidateSettlementOffer checks a negotiation offer against the balance
// under dispute: the disputed milestones, or the whole order.
func ValidateSettlementOffer(o *model.Order, req model.SettlementOfferRequest) error {
	amount, ok := format.ParseAmount(req.Amount)
	if !ok {
		return errs.Invalid("amount", "enter a valid amount")
	}
	if amount.IsNegative() {
		return errs.Invalid("amount", "amount cannot be negative")
	}
	var selected []int
	if o.DisputeInfo != nil {
		selected = o.DisputeInfo.MilestoneIndices
	}
	ceiling := OfferCeiling(o, selected)
	if amount.GreaterThan(ceiling.Add(offerTolerance)) {
		return errs.Invalid("amount", "amount cannot exceed "+format.Money(ceiling))
	}
	return nil
}
