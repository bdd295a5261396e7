package actions

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/and161185/orderdesk/internal/format"
	"github.com/and161185/orderdesk/internal/model"
)

// Deadlines are the live instants the buyer sees counting down. Unknown
// deadlines are nil.
type Deadlines struct {
	Appointment          *time.Time `json:"appointmentDeadline,omitempty"`
	OfferResponse        *time.Time `json:"offerResponseDeadline,omitempty"`
	WorkStart            *time.Time `json:"workStartTime,omitempty"`
	Delivery             *time.Time `json:"deliveryDeadline,omitempty"`
	CancellationResponse *time.Time `json:"cancellationResponseDeadline,omitempty"`
	DisputeResponse      *time.Time `json:"disputeResponseDeadline,omitempty"`
	Negotiation          *time.Time `json:"negotiationDeadline,omitempty"`
	ArbitrationFee       *time.Time `json:"arbitrationFeeDeadline,omitempty"`
	AutoApproval         *time.Time `json:"autoApprovalDeadline,omitempty"`
}

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3 PM", "3PM"}

var dayCount = regexp.MustCompile(`\d+(?:\.\d+)?`)

func ComputeDeadlines(o *model.Order, now time.Time) Deadlines {
	var dl Deadlines
	if o == nil {
		return dl
	}

	dl.Appointment = appointmentDeadline(o)

	if o.Status.Is(model.OfferCreated) {
		dl.OfferResponse = o.Metadata.ResponseDeadline.Ptr()
	}

	if !o.Status.Is(model.Completed, model.Cancelled, model.CancellationPending) {
		dl.WorkStart = workStartTime(o, now)
	}

	switch {
	case bookingEnd(o) != nil:
		dl.Delivery = bookingEnd(o)
	case !o.ScheduledDate.IsZero():
		dl.Delivery = endOfDay(o.ScheduledDate)
	default:
		dl.Delivery = dl.Appointment
	}

	if cr := o.CancellationRequest; cr.Pending() {
		dl.CancellationResponse = cr.ResponseDeadline.Ptr()
	}
	if d := o.DisputeInfo; d != nil && !d.Closed() {
		if d.RespondedAt.IsZero() {
			dl.DisputeResponse = d.ResponseDeadline.Ptr()
		} else {
			dl.Negotiation = d.NegotiationDeadline.Ptr()
			dl.ArbitrationFee = d.ArbitrationFeeDeadline.Ptr()
		}
	}
	if o.Status.Is(model.Delivered) && o.Metadata.AutoApprovedAt.IsZero() {
		dl.AutoApproval = o.Metadata.AutoApprovedDeadlineAt.Ptr()
	}
	return dl
}

// appointmentDeadline picks the first known source: an approved or pending
// extension, the booking, the online delivery window, the scheduled date, or
// the placement date plus the delivery days.
func appointmentDeadline(o *model.Order) *time.Time {
	if ext := o.ExtensionRequest; ext != nil && (ext.Status == model.RequestApproved || ext.Status == model.RequestPending) {
		if t := endOfDay(ext.NewDeliveryDate); t != nil {
			return t
		}
	}
	if t := bookingStart(o); t != nil {
		return t
	}
	placed, placedOK := o.Date.Time()
	if days, ok := onlineDeliveryDays(o.Metadata.OnlineDeliveryDays); ok && placedOK {
		t := format.EndOfDay(placed.AddDate(0, 0, days))
		return &t
	}
	if t := endOfDay(o.ScheduledDate); t != nil {
		return t
	}
	if o.Metadata.DeliveryDays != nil && placedOK {
		t := format.EndOfDay(placed.AddDate(0, 0, *o.Metadata.DeliveryDays))
		return &t
	}
	return nil
}

// workStartTime is the first candidate that is not in the past.
func workStartTime(o *model.Order, now time.Time) *time.Time {
	candidates := []*time.Time{effectiveExpectedDelivery(o), bookingStart(o), o.ScheduledDate.Ptr()}
	for _, t := range candidates {
		if t != nil && !t.Before(now) {
			return t
		}
	}
	return nil
}

func effectiveExpectedDelivery(o *model.Order) *time.Time {
	if ext := o.ExtensionRequest; ext != nil && ext.Status == model.RequestApproved {
		if t := ext.NewDeliveryDate.Ptr(); t != nil {
			return t
		}
	}
	return o.ExpectedDelivery.Ptr()
}

// onlineDeliveryDays reads strings like "3-5 days" and returns the largest
// number rounded up.
func onlineDeliveryDays(s string) (int, bool) {
	best := -1.0
	for _, tok := range dayCount.FindAllString(s, -1) {
		if f, err := strconv.ParseFloat(tok, 64); err == nil && f > best {
			best = f
		}
	}
	if best < 0 {
		return 0, false
	}
	return int(math.Ceil(best)), true
}

func bookingStart(o *model.Order) *time.Time {
	b := o.Metadata.Booking
	if b == nil {
		return nil
	}
	if b.StartTime == "" {
		return endOfDay(b.Date)
	}
	return atClock(b.Date, b.StartTime)
}

func bookingEnd(o *model.Order) *time.Time {
	b := o.Metadata.Booking
	if b == nil || b.EndTime == "" {
		return nil
	}
	return atClock(b.Date, b.EndTime)
}

// atClock combines the calendar day of date with a wall-clock time such as
// "14:30" or "2:30 PM".
func atClock(date model.Timestamp, clock string) *time.Time {
	day, ok := date.Time()
	if !ok {
		return nil
	}
	clock = strings.ToUpper(strings.TrimSpace(clock))
	for _, layout := range clockLayouts {
		c, err := time.Parse(layout, clock)
		if err != nil {
			continue
		}
		t := time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC)
		return &t
	}
	return endOfDay(date)
}

// endOfDay moves date-only values to the last millisecond of their day.
func endOfDay(ts model.Timestamp) *time.Time {
	t, ok := ts.Time()
	if !ok {
		return nil
	}
	if ts.DateOnly() {
		t = format.EndOfDay(t)
	}
	return &t
}
