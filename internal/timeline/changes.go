package timeline

import (
	"fmt"
	"sort"

	"github.com/and161185/orderdesk/internal/format"
	"github.com/and161185/orderdesk/internal/model"
)

func revisions(v *view) []Event {
	var events []Event
	multiple := len(v.order.RevisionRequest) > 1
	for i, req := range v.order.RevisionRequest {
		if req.Status == "" {
			continue
		}
		description := fmt.Sprintf("You asked %s for a revision.", v.professionalName())
		if multiple {
			description = fmt.Sprintf("You asked %s for a %s revision.", v.professionalName(), format.Ordinal(i+1))
		}
		message := req.ClientMessage
		if message == "" {
			message = req.Reason
		}
		events = append(events, Event{
			ID:          fmt.Sprintf("revision-%d", i+1),
			At:          req.RequestedAt.Ptr(),
			Title:       "Revision Requested",
			Description: description,
			Message:     message,
			Files:       req.ClientFiles,
			Color:       ColorOrange,
			Icon:        IconRefresh,
		})
	}
	return events
}

func additionalInformation(v *view) []Event {
	info := v.order.AdditionalInformation
	if info == nil || info.SubmittedAt.IsZero() {
		return nil
	}
	return []Event{{
		ID:          "additional-information",
		At:          info.SubmittedAt.Ptr(),
		Title:       "Additional Information Submitted",
		Description: fmt.Sprintf("You shared additional information with %s.", v.professionalName()),
		Message:     info.Message,
		Files:       info.Files,
		Color:       ColorBlue,
		Icon:        IconInfo,
	}}
}

func extension(v *view) []Event {
	ext := v.order.ExtensionRequest
	if ext == nil {
		return nil
	}

	var events []Event
	newDate := format.DateTime(ext.NewDeliveryDate)
	if !ext.RequestedAt.IsZero() {
		description := fmt.Sprintf("%s asked for more time to deliver.", v.professionalName())
		if newDate != "" {
			description = fmt.Sprintf("%s asked to move the delivery date to %s.", v.professionalName(), newDate)
		}
		events = append(events, Event{
			ID:          "extension-requested",
			At:          ext.RequestedAt.Ptr(),
			Title:       "Extension Requested",
			Description: description,
			Message:     ext.Reason,
			Color:       ColorOrange,
			Icon:        IconClock,
		})
	}
	if !ext.RespondedAt.IsZero() && ext.Status != model.RequestPending {
		ev := Event{
			ID:          "extension-responded",
			At:          ext.RespondedAt.Ptr(),
			Title:       "Extension Rejected",
			Description: "The extension was declined; the original delivery date still applies.",
			Color:       ColorRed,
			Icon:        IconCancel,
		}
		if ext.Status == model.RequestApproved {
			ev.Title = "Extension Approved"
			ev.Description = "The extension was approved."
			if newDate != "" {
				ev.Description = fmt.Sprintf("The delivery date is now %s.", newDate)
			}
			ev.Color = ColorGreen
			ev.Icon = IconCheck
		}
		events = append(events, ev)
	}
	return events
}

// deliveries emits one event per delivery batch. The "#N" label follows the
// chronological order of the batches, not their position in the timeline.
func deliveries(v *view) []Event {
	batches := Deliveries(v.order)
	if len(batches) == 0 {
		return nil
	}

	chrono := make([]Batch, len(batches))
	copy(chrono, batches)
	sort.SliceStable(chrono, func(i, j int) bool {
		ki, kj := sortKey(chrono[i].At), sortKey(chrono[j].At)
		if ki != kj {
			return ki < kj
		}
		return chrono[i].Number < chrono[j].Number
	})

	events := make([]Event, 0, len(chrono))
	for i, b := range chrono {
		events = append(events, Event{
			ID:          fmt.Sprintf("delivery-%d", b.Number),
			At:          b.At,
			Title:       fmt.Sprintf("#%d Work Delivered", i+1),
			Description: fmt.Sprintf("%s delivered the work. Review it and approve or request a revision.", v.professionalName()),
			Message:     b.Message,
			Files:       b.Files,
			Color:       ColorGreen,
			Icon:        IconPackage,
		})
	}
	return events
}

func cancellation(v *view) []Event {
	o := v.order
	cr := o.CancellationRequest
	if cr == nil {
		return nil
	}

	var events []Event
	if !cr.RequestedAt.IsZero() && cr.Status != "" {
		byViewer := v.isViewer(cr.RequestedBy)
		description := fmt.Sprintf("%s asked to cancel this order.", v.nameOf(cr.RequestedBy))
		if byViewer {
			description = "You asked to cancel this order."
		}
		message := cr.Reason
		if cr.Pending() && !byViewer && !cr.ResponseDeadline.IsZero() {
			note := fmt.Sprintf("⚠️ Respond before %s, otherwise the order will be cancelled automatically.", format.DateTime(cr.ResponseDeadline))
			if message != "" {
				message += "\n\n"
			}
			message += note
		}
		events = append(events, Event{
			ID:          "cancellation-requested",
			At:          cr.RequestedAt.Ptr(),
			Title:       "Cancellation Requested",
			Description: description,
			Message:     message,
			Files:       cr.Files,
			Color:       ColorOrange,
			Icon:        IconCancel,
		})
	}

	respondedAt := cr.RespondedAt
	if respondedAt.IsZero() {
		respondedAt = cr.RequestedAt
	}
	switch {
	case cr.Status == model.RequestApproved && o.Status.Is(model.Cancelled):
		events = append(events, Event{
			ID:          "order-cancelled",
			At:          respondedAt.Ptr(),
			Title:       "Order Cancelled",
			Description: "The cancellation was accepted and the order has been cancelled.",
			Color:       ColorRed,
			Icon:        IconCancel,
		})
	case cr.Status == model.RequestRejected && !cr.RespondedAt.IsZero():
		events = append(events, Event{
			ID:          "cancellation-rejected",
			At:          cr.RespondedAt.Ptr(),
			Title:       "Cancellation Rejected",
			Description: "The cancellation request was declined and the order continues.",
			Message:     cr.RejectionReason,
			Color:       ColorGray,
			Icon:        IconCancel,
		})
	case cr.Status == model.RequestWithdrawn && !cr.RespondedAt.IsZero():
		events = append(events, Event{
			ID:          "cancellation-withdrawn",
			At:          cr.RespondedAt.Ptr(),
			Title:       "Cancellation Withdrawn",
			Description: "The cancellation request was withdrawn.",
			Color:       ColorGray,
			Icon:        IconRefresh,
		})
	}
	return events
}

func disputeCancellation(v *view) []Event {
	md := v.order.Metadata
	var description string
	switch md.DisputeCancelledByRole {
	case model.RoleProfessional:
		if v.viewerIsClient() {
			description = fmt.Sprintf("%s withdrew the dispute.", v.professionalName())
		} else {
			description = "You withdrew the dispute."
		}
	case model.RoleClient:
		if v.viewerIsClient() {
			description = "You withdrew the dispute."
		} else {
			description = fmt.Sprintf("%s withdrew the dispute.", v.clientName())
		}
	default:
		return nil
	}
	return []Event{{
		ID:          "dispute-cancelled",
		At:          md.DisputeCancelledAt.Ptr(),
		Title:       "Dispute Withdrawn",
		Description: description + " The order continues as normal.",
		Color:       ColorGray,
		Icon:        IconScale,
	}}
}
