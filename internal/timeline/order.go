package timeline

import (
	"fmt"
	"strings"

	"github.com/and161185/orderdesk/internal/format"
	"github.com/and161185/orderdesk/internal/model"
)

func orderPlaced(v *view) []Event {
	placed := v.order.PlacedAt()
	if placed.IsZero() {
		return nil
	}
	return []Event{{
		ID:          "order-placed",
		At:          placed.Ptr(),
		Title:       "Order Placed",
		Description: fmt.Sprintf("You placed an order with %s.", v.professionalName()),
		Color:       ColorBlue,
		Icon:        IconCart,
	}}
}

func offerLifecycle(v *view) []Event {
	o := v.order
	var events []Event

	if o.Status.Is(model.OfferCreated, model.OfferExpired) {
		events = append(events, Event{
			ID:          "offer-received",
			At:          o.PlacedAt().Ptr(),
			Title:       "Offer Received",
			Description: fmt.Sprintf("%s sent you a custom offer.", v.professionalName()),
			Color:       ColorBlue,
			Icon:        IconOffer,
		})

		if deadline := o.Metadata.ResponseDeadline; !deadline.IsZero() {
			ev := Event{
				ID:          "offer-response-deadline",
				At:          deadline.Ptr(),
				Title:       "Expected Response Time",
				Description: fmt.Sprintf("Respond to the offer by %s.", format.DateTime(deadline)),
				Color:       ColorOrange,
				Icon:        IconClock,
			}
			t, ok := deadline.Time()
			if o.Status.Is(model.OfferExpired) || (ok && !v.now.Before(t)) {
				ev.Title = "Offer Expired"
				ev.Description = fmt.Sprintf("The offer expired on %s without a response.", format.DateTime(deadline))
				ev.Color = ColorGray
			}
			events = append(events, ev)
		}
	}

	if strings.EqualFold(o.Metadata.CustomOfferStatus, "rejected") && o.Metadata.CustomOfferRejectedBy == model.RoleClient {
		events = append(events, Event{
			ID:          "custom-offer-rejected",
			At:          o.Metadata.CustomOfferRejectedAt.Ptr(),
			Title:       "Offer Rejected",
			Description: fmt.Sprintf("You rejected the custom offer from %s.", v.professionalName()),
			Message:     o.Metadata.CustomOfferRejectionReason,
			Color:       ColorRed,
			Icon:        IconCancel,
		})
	}
	return events
}

func acceptance(v *view) []Event {
	o := v.order
	if !o.AcceptedByProfessional || o.AcceptedAt.IsZero() {
		return nil
	}
	return []Event{{
		ID:          "order-accepted",
		At:          o.AcceptedAt.Ptr(),
		Title:       "Order Accepted",
		Description: fmt.Sprintf("%s accepted the order and started working on it.", v.professionalName()),
		Color:       ColorGreen,
		Icon:        IconCheck,
	}}
}

func completion(v *view) []Event {
	o := v.order
	if !o.Status.Is(model.Completed) {
		return nil
	}

	ev := Event{
		ID:          "order-completed",
		At:          o.CompletedDate.Ptr(),
		Title:       "Order Completed",
		Description: "The order is complete.",
		Color:       ColorGreen,
		Icon:        IconFlag,
	}
	switch {
	case !o.Metadata.AutoApprovedAt.IsZero():
		ev.Description = "The delivery was approved automatically and the order is complete."
	case o.DisputeInfo.Closed():
		ev.Description = "The order was completed after the dispute was closed."
	}
	if o.DisputeInfo.Closed() {
		ev.Message = closureNarrative(v).text
	}
	return []Event{ev}
}
