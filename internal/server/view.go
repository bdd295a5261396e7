package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/and161185/orderdesk/internal/actions"
	"github.com/and161185/orderdesk/internal/errs"
	"github.com/and161185/orderdesk/internal/format"
	"github.com/and161185/orderdesk/internal/marketplace"
	"github.com/and161185/orderdesk/internal/modal"
	"github.com/and161185/orderdesk/internal/model"
	"github.com/and161185/orderdesk/internal/timeline"
	"github.com/and161185/orderdesk/internal/watch"
)

type orderSummary struct {
	ID               string            `json:"id"`
	Service          string            `json:"service,omitempty"`
	Professional     string            `json:"professional,omitempty"`
	ClientName       string            `json:"clientName,omitempty"`
	Status           model.OrderStatus `json:"status"`
	Amount           string            `json:"amount"`
	RefundableAmount string            `json:"refundableAmount,omitempty"`
	PlacedAt         string            `json:"placedAt,omitempty"`
	Milestone        bool              `json:"milestone"`
}

func summarize(o *model.Order) orderSummary {
	sum := orderSummary{
		ID:           o.ID,
		Service:      o.Service,
		Professional: o.Professional,
		ClientName:   o.ClientName,
		Status:       o.Status,
		Amount:       format.Amount(o.AmountValue),
		PlacedAt:     format.DateTime(o.PlacedAt()),
		Milestone:    o.Metadata.IsMilestoneOrder(),
	}
	if o.RefundableAmount != nil {
		sum.RefundableAmount = format.Amount(o.RefundableAmount)
	}
	return sum
}

type orderView struct {
	Order        orderSummary         `json:"order"`
	Timeline     []timeline.Event     `json:"timeline"`
	Availability actions.Availability `json:"availability"`
	Deadlines    actions.Deadlines    `json:"deadlines"`
	ActiveModal  modal.Kind           `json:"activeModal,omitempty"`
	Pending      bool                 `json:"pending"`
	Stale        bool                 `json:"stale"`
	FetchedAt    time.Time            `json:"fetchedAt"`
}

func (srv *Server) buildView(s *watch.Session) orderView {
	snap := s.Snapshot()
	now := srv.registry.Now()
	viewerID := s.Key().ViewerID

	return orderView{
		Order:        summarize(&snap.Order),
		Timeline:     timeline.Build(&snap.Order, viewerID, now),
		Availability: actions.Resolve(&snap.Order, viewerID, now),
		Deadlines:    actions.ComputeDeadlines(&snap.Order, now),
		ActiveModal:  s.ActiveModal(),
		Pending:      s.Pending(),
		Stale:        s.Stale(),
		FetchedAt:    snap.FetchedAt,
	}
}

type listItem struct {
	Order        orderSummary         `json:"order"`
	Availability actions.Availability `json:"availability"`
	Deadlines    actions.Deadlines    `json:"deadlines"`
}

type listView struct {
	Orders []listItem `json:"orders"`
	Stale  bool       `json:"stale"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a failed request to its response. Anything unclassified
// came from the marketplace round trip.
func (srv *Server) writeError(w http.ResponseWriter, err error) {
	var validation *errs.ValidationError
	var apiErr *marketplace.APIError

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"field": validation.Field,
			"error": validation.Message,
		})
	case errors.Is(err, errs.ErrConfirmationRequired):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   err.Error(),
			"confirm": true,
		})
	case errors.Is(err, errs.ErrActionUnavailable), errors.Is(err, errs.ErrRequestPending):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, errs.ErrOrderNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, errs.ErrUnknownModal):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &apiErr):
		http.Error(w, apiErr.Message, http.StatusBadGateway)
	default:
		srv.deps.Logger.Errorf("marketplace request: %v", err)
		http.Error(w, "marketplace unavailable", http.StatusBadGateway)
	}
}
