package timeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/and161185/orderdesk/internal/format"
	"github.com/and161185/orderdesk/internal/model"
)

// Rejection is a settlement offer that one of the parties turned down.
type Rejection struct {
	ID     string
	At     model.Timestamp
	By     string // user id or role
	Amount string // formatted, empty when unknown
}

// collectRejections reads the "Rejected the £<amount>" messages first, adds
// structured offer rejections the messages do not already cover, and falls
// back to the last-rejection summary when neither reports anything.
func collectRejections(v *view) []Rejection {
	d := v.order.DisputeInfo
	if d == nil {
		return nil
	}
	out := messageSource{}.Rejections(d)
	for _, r := range (offerHistorySource{}).Rejections(d) {
		if !coveredBy(out, r) {
			out = append(out, r)
		}
	}
	if len(out) > 0 {
		return out
	}
	return summarySource{}.Rejections(d)
}

// coveredBy reports whether r is already in list, matched by amount or by
// rejection time.
func coveredBy(list []Rejection, r Rejection) bool {
	at, hasTime := r.At.Time()
	for _, other := range list {
		if r.Amount != "" && other.Amount == r.Amount {
			return true
		}
		if hasTime {
			if t, ok := other.At.Time(); ok && t.Equal(at) {
				return true
			}
		}
	}
	return false
}

// offerHistorySource reads structured rejections recorded on offers.
type offerHistorySource struct{}

func (offerHistorySource) Rejections(d *model.DisputeInfo) []Rejection {
	var out []Rejection
	for i, offer := range d.OfferHistory {
		if offer.RejectedAt.IsZero() {
			continue
		}
		by := offer.RejectedBy
		if by == "" {
			by = model.RoleClient
			if offer.Role == model.RoleClient {
				by = model.RoleProfessional
			}
		}
		out = append(out, Rejection{
			ID:     fmt.Sprintf("offer-rejected-%d", i+1),
			At:     offer.RejectedAt,
			By:     by,
			Amount: format.Amount(offer.Amount),
		})
	}
	return out
}

const rejectionPrefix = "Rejected the £"

var rejectedAmount = regexp.MustCompile(`Rejected the £\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

// messageSource recognises free-text "Rejected the £<amount>" messages posted
// by older clients.
type messageSource struct{}

func (messageSource) Rejections(d *model.DisputeInfo) []Rejection {
	var out []Rejection
	for i, msg := range d.Messages {
		if !strings.Contains(msg.Message, rejectionPrefix) {
			continue
		}
		amount := ""
		if m := rejectedAmount.FindStringSubmatch(msg.Message); m != nil {
			amount = format.MoneyString(strings.ReplaceAll(m[1], ",", ""))
		} else if d.LastRejectedOffer != nil {
			amount = format.Amount(d.LastRejectedOffer)
		}
		out = append(out, Rejection{
			ID:     fmt.Sprintf("offer-rejected-msg-%d", i+1),
			At:     msg.CreatedAt,
			By:     msg.UserID,
			Amount: amount,
		})
	}
	return out
}

// summarySource falls back to the last-rejection summary fields.
type summarySource struct{}

func (summarySource) Rejections(d *model.DisputeInfo) []Rejection {
	if d.LastOfferRejectedAt.IsZero() {
		return nil
	}
	amount := ""
	if d.LastRejectedOffer != nil {
		amount = format.Amount(d.LastRejectedOffer)
	}
	return []Rejection{{
		ID:     "offer-rejected-latest",
		At:     d.LastOfferRejectedAt,
		By:     d.LastOfferRejectedBy,
		Amount: amount,
	}}
}
