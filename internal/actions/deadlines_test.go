package actions

import (
	"testing"
	"time"

	"github.com/and161185/orderdesk/internal/model"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d, h, mi int) time.Time {
	return time.Date(y, m, d, h, mi, 0, 0, time.UTC)
}

func endOf(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

func TestAppointmentDeadlinePriority(t *testing.T) {
	base := func() *model.Order {
		return &model.Order{
			Status:        model.InProgress,
			Date:          "2024-06-01T09:00:00Z",
			ScheduledDate: "2024-06-20",
			Metadata: model.Metadata{
				OnlineDeliveryDays: "3-5 days",
				DeliveryDays:       intPtr(10),
				Booking:            &model.Booking{Date: "2024-06-15", StartTime: "2:30 PM", EndTime: "16:00"},
			},
			ExtensionRequest: &model.ExtensionRequest{Status: model.RequestApproved, NewDeliveryDate: "2024-06-25"},
		}
	}

	o := base()
	require.Equal(t, endOf(2024, 6, 25), *ComputeDeadlines(o, now).Appointment)

	o.ExtensionRequest.Status = model.RequestRejected
	require.Equal(t, day(2024, 6, 15, 14, 30), *ComputeDeadlines(o, now).Appointment)

	o.Metadata.Booking = nil
	require.Equal(t, endOf(2024, 6, 6), *ComputeDeadlines(o, now).Appointment)

	o.Metadata.OnlineDeliveryDays = "about a week"
	require.Equal(t, endOf(2024, 6, 20), *ComputeDeadlines(o, now).Appointment)

	o.ScheduledDate = ""
	require.Equal(t, endOf(2024, 6, 11), *ComputeDeadlines(o, now).Appointment)

	o.Metadata.DeliveryDays = nil
	require.Nil(t, ComputeDeadlines(o, now).Appointment)
}

func TestOnlineDeliveryDays(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3-5 days", 5, true},
		{"2.5 days", 3, true},
		{"7", 7, true},
		{"", 0, false},
		{"soon", 0, false},
	}
	for _, tt := range tests {
		got, ok := onlineDeliveryDays(tt.in)
		require.Equal(t, tt.ok, ok, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}

func TestDeliveryDeadline(t *testing.T) {
	o := &model.Order{
		Status:        model.InProgress,
		ScheduledDate: "2024-06-20",
		Metadata:      model.Metadata{Booking: &model.Booking{Date: "2024-06-15", StartTime: "10:00", EndTime: "16:00"}},
	}
	require.Equal(t, day(2024, 6, 15, 16, 0), *ComputeDeadlines(o, now).Delivery)

	o.Metadata.Booking = nil
	require.Equal(t, endOf(2024, 6, 20), *ComputeDeadlines(o, now).Delivery)

	o.ScheduledDate = ""
	o.Date = "2024-06-01"
	o.Metadata.DeliveryDays = intPtr(2)
	dl := ComputeDeadlines(o, now)
	require.Equal(t, endOf(2024, 6, 3), *dl.Delivery)
	require.Equal(t, dl.Appointment, dl.Delivery)
}

func TestWorkStartTime(t *testing.T) {
	o := &model.Order{
		Status:           model.InProgress,
		ExpectedDelivery: "2024-05-30T10:00:00Z",
		ScheduledDate:    "2024-06-03T08:00:00Z",
		Metadata:         model.Metadata{Booking: &model.Booking{Date: "2024-06-02", StartTime: "09:00"}},
	}

	require.Equal(t, day(2024, 6, 2, 9, 0), *ComputeDeadlines(o, now).WorkStart)

	o.ExtensionRequest = &model.ExtensionRequest{Status: model.RequestApproved, NewDeliveryDate: "2024-06-01T18:00:00Z"}
	require.Equal(t, day(2024, 6, 1, 18, 0), *ComputeDeadlines(o, now).WorkStart)

	require.Nil(t, ComputeDeadlines(o, day(2024, 7, 1, 0, 0)).WorkStart)

	o.Status = model.CancellationPending
	require.Nil(t, ComputeDeadlines(o, now).WorkStart)
}

func TestDisputeDeadlines(t *testing.T) {
	o := &model.Order{
		Status:   model.OfferCreated,
		Metadata: model.Metadata{ResponseDeadline: "2024-06-02T10:00:00Z", AutoApprovedDeadlineAt: "2024-06-09T10:00:00Z"},
		DisputeInfo: &model.DisputeInfo{
			CreatedAt:              "2024-05-20T10:00:00Z",
			ResponseDeadline:       "2024-05-22T10:00:00Z",
			NegotiationDeadline:    "2024-05-29T10:00:00Z",
			ArbitrationFeeDeadline: "2024-06-05T10:00:00Z",
		},
	}

	dl := ComputeDeadlines(o, now)
	require.Equal(t, day(2024, 6, 2, 10, 0), *dl.OfferResponse)
	require.Equal(t, day(2024, 5, 22, 10, 0), *dl.DisputeResponse)
	require.Nil(t, dl.Negotiation)
	require.Nil(t, dl.AutoApproval)

	o.Status = model.Delivered
	o.DisputeInfo.RespondedAt = "2024-05-21T10:00:00Z"
	dl = ComputeDeadlines(o, now)
	require.Nil(t, dl.OfferResponse)
	require.Nil(t, dl.DisputeResponse)
	require.Equal(t, day(2024, 5, 29, 10, 0), *dl.Negotiation)
	require.Equal(t, day(2024, 6, 5, 10, 0), *dl.ArbitrationFee)
	require.Equal(t, day(2024, 6, 9, 10, 0), *dl.AutoApproval)
}
