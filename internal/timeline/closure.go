package timeline

import (
	"fmt"
	"strings"

	"github.com/and161185/orderdesk/internal/format"
	"github.com/and161185/orderdesk/internal/model"
)

const unpaidFeeNote = "unpaid arbitration fee"

type closure struct {
	rule   string
	text   string
	detail string
}

type closureRule struct {
	name   string
	match  func(v *view, d *model.DisputeInfo) bool
	render func(v *view, d *model.DisputeInfo) (text, detail string)
}

// closureRules decide how a closed dispute is described. They are evaluated
// top to bottom and the first match wins.
var closureRules = []closureRule{
	{
		name: "client-accepted-settlement",
		match: func(v *view, d *model.DisputeInfo) bool {
			return d.AcceptedByRole == model.RoleClient
		},
		render: func(v *view, d *model.DisputeInfo) (string, string) {
			amount := settledAmount(d, model.RoleProfessional)
			if v.viewerIsClient() {
				return fmt.Sprintf("Settled: you accepted %s's offer of %s.", v.professionalName(), amount), ""
			}
			return fmt.Sprintf("Settled: %s accepted your offer of %s.", v.clientName(), amount), ""
		},
	},
	{
		name: "professional-accepted-settlement",
		match: func(v *view, d *model.DisputeInfo) bool {
			return d.AcceptedByRole == model.RoleProfessional
		},
		render: func(v *view, d *model.DisputeInfo) (string, string) {
			amount := settledAmount(d, model.RoleClient)
			if v.viewerIsClient() {
				return fmt.Sprintf("Settled: %s accepted your offer of %s.", v.professionalName(), amount), ""
			}
			return fmt.Sprintf("Settled: you accepted %s's offer of %s.", v.clientName(), amount), ""
		},
	},
	{
		name: "arbitration-decision",
		match: func(v *view, d *model.DisputeInfo) bool {
			return strings.TrimSpace(d.AdminDecision) != ""
		},
		render: func(v *view, d *model.DisputeInfo) (string, string) {
			detail := d.AdminDecision
			if d.DecisionNotes != "" {
				detail += "\n\n" + d.DecisionNotes
			}
			switch {
			case d.WinnerID == "":
				return "The arbitrator has made a decision on this dispute.", detail
			case v.isViewer(d.WinnerID):
				return "The arbitrator decided the dispute in your favour.", detail
			}
			return fmt.Sprintf("The arbitrator decided the dispute in %s's favour.", v.nameOf(d.WinnerID)), detail
		},
	},
	{
		name: "arbitration-fee-unpaid",
		match: func(v *view, d *model.DisputeInfo) bool {
			return d.AutoClosed && strings.Contains(strings.ToLower(d.DecisionNotes), unpaidFeeNote)
		},
		render: func(v *view, d *model.DisputeInfo) (string, string) {
			if v.isViewer(d.WinnerID) {
				return "Arbitration fee unpaid: the dispute was decided in your favour.", ""
			}
			return fmt.Sprintf("Arbitration fee unpaid: the dispute was decided in %s's favour.", winnerName(v, d)), ""
		},
	},
	{
		name: "auto-closed",
		match: func(v *view, d *model.DisputeInfo) bool {
			return d.AutoClosed
		},
		render: func(v *view, d *model.DisputeInfo) (string, string) {
			if v.isViewer(d.WinnerID) {
				return fmt.Sprintf("The dispute was closed automatically in your favour because %s did not respond in time.", v.respondentName()), d.DecisionNotes
			}
			return fmt.Sprintf("The dispute was closed automatically in %s's favour.", winnerName(v, d)), d.DecisionNotes
		},
	},
	{
		name:  "fallback",
		match: func(v *view, d *model.DisputeInfo) bool { return true },
		render: func(v *view, d *model.DisputeInfo) (string, string) {
			if notes := strings.TrimSpace(d.DecisionNotes); notes != "" {
				return notes, ""
			}
			return "The dispute has been closed.", ""
		},
	},
}

func closureNarrative(v *view) closure {
	d := v.order.DisputeInfo
	if d == nil {
		d = &model.DisputeInfo{}
	}
	for _, r := range closureRules {
		if r.match(v, d) {
			text, detail := r.render(v, d)
			return closure{rule: r.name, text: text, detail: detail}
		}
	}
	return closure{}
}

func winnerName(v *view, d *model.DisputeInfo) string {
	if d.WinnerID != "" && v.role(d.WinnerID) != "" {
		return v.nameOf(d.WinnerID)
	}
	return v.otherParty()
}

// settledAmount is the latest offer made by role, or a generic phrase when
// there is none.
func settledAmount(d *model.DisputeInfo, role string) string {
	for i := len(d.OfferHistory) - 1; i >= 0; i-- {
		offer := d.OfferHistory[i]
		isClient := offer.Role == model.RoleClient
		if isClient == (role == model.RoleClient) {
			return format.Amount(offer.Amount)
		}
	}
	return "the latest settlement"
}
