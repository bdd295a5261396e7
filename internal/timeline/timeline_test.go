package timeline

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/and161185/orderdesk/internal/model"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func findEvent(t *testing.T, events []Event, id string) Event {
	t.Helper()
	for _, e := range events {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("event %q not found in %v", id, ids(events))
	return Event{}
}

func ids(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

// busyOrder exercises most rules at once.
func busyOrder() *model.Order {
	return &model.Order{
		ID:                     "o-1",
		Professional:           "Jane Plumber",
		ProfessionalID:         "P1",
		ClientID:               "C1",
		ClientName:             "Bob",
		Status:                 model.Completed,
		Date:                   "2024-01-01",
		AcceptedByProfessional: true,
		AcceptedAt:             "2024-01-02T09:00:00Z",
		CompletedDate:          "2024-04-01T09:00:00Z",
		DeliveredDate:          "2024-02-05T10:00:00Z",
		DeliveryFiles: []model.DeliveryFile{
			{File: model.File{URL: "u1", FileName: "a.png"}, DeliveryNumber: 1, UploadedAt: "2024-02-01T10:00Z"},
			{File: model.File{URL: "u2", FileName: "b.png"}, DeliveryNumber: 2, UploadedAt: "2024-02-05T10:00Z"},
		},
		DeliveryMessage: "[Delivery #1]\nfirst\n\n[Delivery #2]\nsecond",
		RevisionRequest: model.RevisionRequests{
			{Status: model.RequestCompleted, RequestedAt: "2024-02-02T10:00:00Z", ClientMessage: "bigger logo"},
			{Status: model.RequestCompleted, RequestedAt: "2024-02-03T10:00:00Z", Reason: "wrong colour"},
		},
		ExtensionRequest: &model.ExtensionRequest{
			Status:          model.RequestApproved,
			NewDeliveryDate: "2024-02-10",
			RequestedAt:     "2024-01-20T10:00:00Z",
			RespondedAt:     "2024-01-21T10:00:00Z",
		},
		AdditionalInformation: &model.AdditionalInformation{SubmittedAt: "2024-01-03T10:00:00Z", Message: "gate code 1234"},
		CancellationRequest: &model.CancellationRequest{
			RequestedBy:     "P1",
			Status:          model.RequestRejected,
			RequestedAt:     "2024-01-10T10:00:00Z",
			RespondedAt:     "2024-01-11T10:00:00Z",
			RejectionReason: "please finish",
		},
		DisputeInfo: &model.DisputeInfo{
			ClaimantID:             "C1",
			CreatedAt:              "2024-02-10T10:00:00Z",
			RespondedAt:            "2024-02-11T10:00:00Z",
			NegotiationDeadline:    "2024-02-18T10:00:00Z",
			ArbitrationFeeDeadline: "2024-02-25T10:00:00Z",
			ArbitrationFeeAmount:   model.NewAmount(25),
			ArbitrationPayments: []model.ArbitrationPayment{
				{UserID: "C1", PaidAt: "2024-02-19T10:00:00Z"},
				{UserID: "P1", PaidAt: "2024-02-20T10:00:00Z"},
			},
			OfferHistory: []model.SettlementOffer{
				{Role: "client", Amount: model.NewAmount(40), OfferedAt: "2024-02-12T10:00:00Z"},
				{Role: "professional", Amount: model.NewAmount(60), OfferedAt: "2024-02-13T10:00:00Z"},
			},
			Messages: []model.DisputeMessage{
				{UserID: "P1", Message: "Rejected the £40.00 offer", CreatedAt: "2024-02-12T12:00:00Z"},
			},
			ClosedAt:      "2024-03-01T10:00:00Z",
			AdminDecision: "Partial refund of £30",
			WinnerID:      "C1",
		},
	}
}

func TestBuild_OrderPlacedOnly(t *testing.T) {
	o := &model.Order{ID: "o-1", Status: model.InProgress, Date: "2024-01-01"}

	events := Build(o, "C1", now)

	require.Len(t, events, 1)
	require.Equal(t, "Order Placed", events[0].Title)
	require.NotNil(t, events[0].At)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *events[0].At)
}

func TestBuild_Totality(t *testing.T) {
	statuses := []model.OrderStatus{
		model.OfferCreated, model.OfferExpired, model.InProgress, model.Revision, model.Delivered,
		model.CancellationPending, model.Cancelled, model.Rejected, "",
	}
	for _, s := range statuses {
		events := Build(&model.Order{ID: "o", Status: s, Date: "2024-01-01"}, "C1", now)
		for _, e := range events {
			require.Contains(t, []string{"order-placed", "offer-received"}, e.ID, "status %q", s)
		}
	}

	require.Empty(t, Build(&model.Order{ID: "o"}, "C1", now))
	require.Nil(t, Build(nil, "C1", now))
}

func TestBuild_MalformedDates(t *testing.T) {
	o := &model.Order{
		ID:     "o",
		Status: model.Completed,
		Date:   "yesterday",
		ExtensionRequest: &model.ExtensionRequest{
			Status:          model.RequestPending,
			NewDeliveryDate: "soon",
			RequestedAt:     "2024-01-20T10:00:00Z",
		},
	}

	events := Build(o, "C1", now)

	placed := findEvent(t, events, "order-placed")
	require.Nil(t, placed.At)
	ext := findEvent(t, events, "extension-requested")
	require.Equal(t, "The professional asked for more time to deliver.", ext.Description)
	require.Equal(t, "extension-requested", events[0].ID)
}

func TestBuild_SortedNewestFirst(t *testing.T) {
	events := Build(busyOrder(), "C1", now)
	require.Greater(t, len(events), 10)

	for i := 0; i+1 < len(events); i++ {
		require.GreaterOrEqual(t, sortKey(events[i].At), sortKey(events[i+1].At), "%s before %s", events[i].ID, events[i+1].ID)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	o := busyOrder()
	first, err := json.Marshal(Build(o, "C1", now))
	require.NoError(t, err)
	second, err := json.Marshal(Build(o, "C1", now))
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

func TestBuild_DeliveryBatches(t *testing.T) {
	o := &model.Order{
		ID:     "o",
		Status: model.Delivered,
		DeliveryFiles: []model.DeliveryFile{
			{File: model.File{URL: "u1"}, DeliveryNumber: 1, UploadedAt: "2024-02-01T10:00Z"},
			{File: model.File{URL: "u2"}, DeliveryNumber: 2, UploadedAt: "2024-02-05T10:00Z"},
		},
		DeliveryMessage: "[Delivery #1]\nfirst\n\n[Delivery #2]\nsecond",
	}

	events := Build(o, "C1", now)

	require.Len(t, events, 2)
	require.Equal(t, "#2 Work Delivered", events[0].Title)
	require.Equal(t, "second", events[0].Message)
	require.Equal(t, time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC), *events[0].At)
	require.Equal(t, "#1 Work Delivered", events[1].Title)
	require.Equal(t, "first", events[1].Message)
	require.Equal(t, "u1", events[1].Files[0].URL)
}

func TestBuild_DeliveryLabelsFollowTime(t *testing.T) {
	// delivery numbers do not match upload order
	o := &model.Order{
		ID: "o",
		DeliveryFiles: []model.DeliveryFile{
			{File: model.File{URL: "late"}, DeliveryNumber: 1, UploadedAt: "2024-03-10T10:00:00Z"},
			{File: model.File{URL: "early"}, DeliveryNumber: 2, UploadedAt: "2024-03-01T10:00:00Z"},
			{File: model.File{URL: "mid"}, DeliveryNumber: 3, UploadedAt: "2024-03-05T10:00:00Z"},
		},
	}

	events := Build(o, "C1", now)

	require.Equal(t, "#1 Work Delivered", findEvent(t, events, "delivery-2").Title)
	require.Equal(t, "#2 Work Delivered", findEvent(t, events, "delivery-3").Title)
	require.Equal(t, "#3 Work Delivered", findEvent(t, events, "delivery-1").Title)
	require.Equal(t, []string{"delivery-1", "delivery-3", "delivery-2"}, ids(events))
}

func TestBuild_OfferLifecycle(t *testing.T) {
	o := &model.Order{
		ID:       "o",
		Status:   model.OfferCreated,
		Date:     "2024-05-01T10:00:00Z",
		Metadata: model.Metadata{ResponseDeadline: "2024-06-03T10:00:00Z"},
	}

	pending := findEvent(t, Build(o, "C1", now), "offer-response-deadline")
	require.Equal(t, "Expected Response Time", pending.Title)

	expired := findEvent(t, Build(o, "C1", now.Add(72*time.Hour)), "offer-response-deadline")
	require.Equal(t, "Offer Expired", expired.Title)

	o.Status = model.OfferExpired
	require.Equal(t, "Offer Expired", findEvent(t, Build(o, "C1", now), "offer-response-deadline").Title)

	o.Metadata.CustomOfferStatus = "rejected"
	o.Metadata.CustomOfferRejectedBy = "client"
	o.Metadata.CustomOfferRejectedAt = "2024-05-02T10:00:00Z"
	require.Equal(t, "Offer Rejected", findEvent(t, Build(o, "C1", now), "custom-offer-rejected").Title)
}

func TestBuild_RevisionsKeepDistinctIDs(t *testing.T) {
	events := Build(busyOrder(), "C1", now)

	first := findEvent(t, events, "revision-1")
	second := findEvent(t, events, "revision-2")
	require.Equal(t, "bigger logo", first.Message)
	require.Equal(t, "wrong colour", second.Message)
	require.Contains(t, second.Description, "2nd")
}

func TestBuild_CancellationEvents(t *testing.T) {
	o := &model.Order{
		ID:       "o",
		ClientID: "C1",
		Status:   model.CancellationPending,
		CancellationRequest: &model.CancellationRequest{
			RequestedBy:      "P1",
			Status:           model.RequestPending,
			Reason:           "sick",
			RequestedAt:      "2024-05-01T10:00:00Z",
			ResponseDeadline: "2024-05-03T10:00:00Z",
		},
		ProfessionalID: "P1",
		Professional:   "Jane",
	}

	requested := findEvent(t, Build(o, "C1", now), "cancellation-requested")
	require.Equal(t, "Jane asked to cancel this order.", requested.Description)
	require.True(t, strings.HasPrefix(requested.Message, "sick"))
	require.Contains(t, requested.Message, "3 May 2024, 10:00")

	o.Status = model.Cancelled
	o.CancellationRequest.Status = model.RequestApproved
	o.CancellationRequest.RespondedAt = "2024-05-02T10:00:00Z"
	events := Build(o, "C1", now)
	require.Equal(t, "order-cancelled", events[0].ID)
	require.NotContains(t, findEvent(t, events, "cancellation-requested").Message, "Respond before")
}

func TestBuild_DisputeOpenedClaimantAwaiting(t *testing.T) {
	o := &model.Order{
		ID:       "o",
		ClientID: "U1",
		Status:   model.Disputed,
		DisputeInfo: &model.DisputeInfo{
			ClaimantID:       "U1",
			CreatedAt:        "2024-05-20T10:00:00Z",
			ResponseDeadline: "2024-05-22T10:00:00Z",
		},
	}

	ev := findEvent(t, Build(o, "U1", now), "dispute-opened")

	require.True(t, strings.HasPrefix(ev.Message, "⏳ Awaiting Response"), ev.Message)
	require.Contains(t, ev.Message, "22 May 2024, 10:00")
}

func TestBuild_DisputeOpenedRespondent(t *testing.T) {
	o := &model.Order{
		ID:             "o",
		ClientID:       "C1",
		ProfessionalID: "P1",
		Professional:   "Jane",
		DisputeInfo: &model.DisputeInfo{
			ClaimantID:       "P1",
			CreatedAt:        "2024-05-20T10:00:00Z",
			ResponseDeadline: "2024-05-22T10:00:00Z",
		},
	}

	ev := findEvent(t, Build(o, "C1", now), "dispute-opened")
	require.Equal(t, "Dispute Raised", ev.Title)
	require.True(t, strings.HasPrefix(ev.Message, "⚠️"), ev.Message)

	o.DisputeInfo.RespondedAt = "2024-05-21T10:00:00Z"
	ev = findEvent(t, Build(o, "C1", now), "dispute-opened")
	require.Equal(t, "You responded to this dispute.", ev.Message)
}

func TestBuild_DisputeResponded(t *testing.T) {
	ev := findEvent(t, Build(busyOrder(), "C1", now), "dispute-responded")
	require.Equal(t, "Dispute Response Received", ev.Title)
	require.Contains(t, ev.Message, "18 Feb 2024, 10:00")
	require.Contains(t, ev.Message, "£25.00 per party")
}

func TestBuild_ArbitrationPayments(t *testing.T) {
	o := busyOrder()
	o.DisputeInfo.ArbitrationPayments = o.DisputeInfo.ArbitrationPayments[:1]

	events := Build(o, "C1", now)
	one := findEvent(t, events, "arbitration-fee-paid")
	require.Equal(t, "You paid the arbitration fee.", one.Description)
	require.Contains(t, one.Message, "Jane Plumber")

	viewedByPro := Build(o, "P1", now)
	require.True(t, strings.HasPrefix(findEvent(t, viewedByPro, "arbitration-fee-paid").Message, "⚠️"))

	// a duplicate payment from the same payer is still one payer
	o.DisputeInfo.ArbitrationPayments = append(o.DisputeInfo.ArbitrationPayments, model.ArbitrationPayment{UserID: "C1", PaidAt: "2024-02-21T10:00:00Z"})
	events = Build(o, "C1", now)
	findEvent(t, events, "arbitration-fee-paid")
	for _, e := range events {
		require.NotEqual(t, "arbitration-fees-paid", e.ID)
	}

	both := findEvent(t, Build(busyOrder(), "C1", now), "arbitration-fees-paid")
	require.Equal(t, time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC), *both.At)
	for _, e := range Build(busyOrder(), "C1", now) {
		require.NotEqual(t, "arbitration-fee-paid", e.ID)
	}
}

func TestBuild_SettlementOffers(t *testing.T) {
	events := Build(busyOrder(), "C1", now)

	sent := findEvent(t, events, "settlement-offer-1")
	require.Equal(t, "Settlement Offer Sent", sent.Title)
	require.Contains(t, sent.Description, "£40.00")

	received := findEvent(t, events, "settlement-offer-2")
	require.Equal(t, "Settlement Offer Received", received.Title)
	require.Equal(t, "Jane Plumber offered to settle the dispute for £60.00.", received.Description)
}

func TestBuild_RejectionFromMessageIsNotDuplicated(t *testing.T) {
	o := busyOrder()
	o.DisputeInfo.LastOfferRejectedAt = "2024-02-12T12:00:00Z"
	o.DisputeInfo.LastOfferRejectedBy = "professional"

	var rejections []Event
	for _, e := range Build(o, "C1", now) {
		if e.Title == "Settlement Offer Rejected" {
			rejections = append(rejections, e)
		}
	}

	require.Len(t, rejections, 1)
	require.Equal(t, "offer-rejected-msg-1", rejections[0].ID)
	require.Equal(t, "Jane Plumber rejected the £40.00 settlement offer.", rejections[0].Description)
}

func TestBuild_RejectionFallbacks(t *testing.T) {
	o := busyOrder()
	o.DisputeInfo.Messages = []model.DisputeMessage{{UserID: "C1", Message: "Rejected the £ offer", CreatedAt: "2024-02-14T10:00:00Z"}}

	ev := findEvent(t, Build(o, "C1", now), "offer-rejected-msg-1")
	require.Equal(t, "You rejected the latest settlement offer.", ev.Description)

	o.DisputeInfo.Messages = nil
	o.DisputeInfo.LastOfferRejectedAt = "2024-02-14T10:00:00Z"
	o.DisputeInfo.LastOfferRejectedBy = "C1"
	o.DisputeInfo.LastRejectedOffer = model.NewAmount(60)
	ev = findEvent(t, Build(o, "C1", now), "offer-rejected-latest")
	require.Equal(t, "You rejected the £60.00 settlement offer.", ev.Description)

	o.DisputeInfo.OfferHistory[1].RejectedAt = "2024-02-14T11:00:00Z"
	events := Build(o, "C1", now)
	ev = findEvent(t, events, "offer-rejected-2")
	require.Equal(t, "You rejected the £60.00 settlement offer.", ev.Description)
	for _, e := range events {
		require.NotEqual(t, "offer-rejected-latest", e.ID)
	}
}

func TestBuild_StructuredAndMessageRejections(t *testing.T) {
	o := busyOrder()
	o.DisputeInfo.OfferHistory[1].RejectedAt = "2024-02-14T11:00:00Z"

	events := Build(o, "C1", now)

	fromMessage := findEvent(t, events, "offer-rejected-msg-1")
	require.Equal(t, "Jane Plumber rejected the £40.00 settlement offer.", fromMessage.Description)
	structured := findEvent(t, events, "offer-rejected-2")
	require.Equal(t, "You rejected the £60.00 settlement offer.", structured.Description)

	o.DisputeInfo.OfferHistory[0].RejectedAt = "2024-02-12T12:00:00Z"
	o.DisputeInfo.OfferHistory[0].RejectedBy = "P1"
	var rejections []string
	for _, e := range Build(o, "C1", now) {
		if e.Title == "Settlement Offer Rejected" {
			rejections = append(rejections, e.ID)
		}
	}
	require.ElementsMatch(t, []string{"offer-rejected-msg-1", "offer-rejected-2"}, rejections)
}

func TestBuild_CompletionAfterUnpaidArbitrationFee(t *testing.T) {
	o := &model.Order{
		ID:            "o",
		ClientID:      "U1",
		Status:        model.Completed,
		CompletedDate: "2024-05-01T10:00:00Z",
		DisputeInfo: &model.DisputeInfo{
			ClaimantID:    "U1",
			AutoClosed:    true,
			DecisionNotes: "Closed automatically: unpaid arbitration fee by respondent",
			WinnerID:      "U1",
		},
	}

	ev := findEvent(t, Build(o, "U1", now), "order-completed")

	require.Equal(t, "Arbitration fee unpaid: the dispute was decided in your favour.", ev.Message)
}

func TestClosureRulesPriority(t *testing.T) {
	tests := []struct {
		name    string
		dispute model.DisputeInfo
		rule    string
	}{
		{"client accepted wins over admin decision", model.DisputeInfo{AcceptedByRole: "client", AdminDecision: "x"}, "client-accepted-settlement"},
		{"professional accepted", model.DisputeInfo{AcceptedByRole: "professional", AutoClosed: true}, "professional-accepted-settlement"},
		{"admin decision wins over auto close", model.DisputeInfo{AdminDecision: "refund", AutoClosed: true, DecisionNotes: "unpaid arbitration fee"}, "arbitration-decision"},
		{"unpaid fee", model.DisputeInfo{AutoClosed: true, DecisionNotes: "Unpaid Arbitration Fee"}, "arbitration-fee-unpaid"},
		{"generic auto close", model.DisputeInfo{AutoClosed: true, DecisionNotes: "no response"}, "auto-closed"},
		{"fallback", model.DisputeInfo{DecisionNotes: "closed by support"}, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.dispute
			v := &view{order: &model.Order{ClientID: "C1", DisputeInfo: &d}, viewer: "C1", now: now}
			require.Equal(t, tt.rule, closureNarrative(v).rule)
		})
	}
}

func TestBuild_DisputeClosedByArbitrator(t *testing.T) {
	ev := findEvent(t, Build(busyOrder(), "C1", now), "dispute-closed")
	require.Equal(t, "The arbitrator decided the dispute in your favour.", ev.Description)
	require.Equal(t, "Partial refund of £30", ev.Message)

	ev = findEvent(t, Build(busyOrder(), "P1", now), "dispute-closed")
	require.Equal(t, "The arbitrator decided the dispute in Bob's favour.", ev.Description)
}

func TestBuild_DisputeCancellation(t *testing.T) {
	o := &model.Order{ID: "o", Professional: "Jane", Metadata: model.Metadata{DisputeCancelledByRole: "professional", DisputeCancelledAt: "2024-05-01T10:00:00Z"}}
	ev := findEvent(t, Build(o, "C1", now), "dispute-cancelled")
	require.True(t, strings.HasPrefix(ev.Description, "Jane withdrew the dispute."))

	o.Metadata.DisputeCancelledByRole = "client"
	ev = findEvent(t, Build(o, "C1", now), "dispute-cancelled")
	require.True(t, strings.HasPrefix(ev.Description, "You withdrew the dispute."))
}
