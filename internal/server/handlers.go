package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/and161185/orderdesk/internal/actions"
	"github.com/and161185/orderdesk/internal/errs"
	"github.com/and161185/orderdesk/internal/middleware"
	"github.com/and161185/orderdesk/internal/modal"
	"github.com/and161185/orderdesk/internal/model"
	"github.com/and161185/orderdesk/internal/watch"
	"github.com/go-chi/chi/v5"
)

func orderID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// open opens or refreshes a session. A session closed while loading has
// nothing to show.
func (srv *Server) open(ctx context.Context, viewerID, orderID string) (*watch.Session, error) {
	s, err := srv.registry.Open(ctx, viewerID, orderID)
	if err != nil {
		return nil, err
	}
	if s.Snapshot() == nil {
		return nil, errs.ErrOrderNotFound
	}
	return s, nil
}

// session returns the open session for the request, opening it on first use.
func (srv *Server) session(ctx context.Context, viewerID, orderID string) (*watch.Session, error) {
	if s, ok := srv.registry.Get(viewerID, orderID); ok && s.Snapshot() != nil {
		return s, nil
	}
	return srv.open(ctx, viewerID, orderID)
}

func (srv *Server) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.ViewerID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orders, stale, err := srv.registry.ListOrders(r.Context(), viewerID)
	if err != nil {
		srv.writeError(w, err)
		return
	}

	now := srv.registry.Now()
	list := listView{Orders: make([]listItem, 0, len(orders)), Stale: stale}
	for i := range orders {
		o := &orders[i]
		list.Orders = append(list.Orders, listItem{
			Order:        summarize(o),
			Availability: actions.Resolve(o, viewerID, now),
			Deadlines:    actions.ComputeDeadlines(o, now),
		})
	}
	writeJSON(w, http.StatusOK, list)
}

// GetOrderHandler opens the order, or refreshes it when already open.
func (srv *Server) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.ViewerID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	s, err := srv.open(r.Context(), viewerID, orderID(r))
	if err != nil {
		srv.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, srv.buildView(s))
}

func (srv *Server) CloseOrderHandler(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.ViewerID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	srv.registry.Close(viewerID, orderID(r))
	w.WriteHeader(http.StatusNoContent)
}

// ResolveHandler waits for a freshly placed order to appear, then opens it.
func (srv *Server) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.ViewerID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := srv.registry.ResolveDeepLink(r.Context(), viewerID, orderID(r))
	if err != nil {
		srv.writeError(w, err)
		return
	}
	s, err := srv.open(r.Context(), viewerID, order.ID)
	if err != nil {
		srv.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, srv.buildView(s))
}

func (srv *Server) OpenModalHandler(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.ViewerID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req model.ModalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	kind, err := modal.ParseKind(req.Modal)
	if err != nil {
		srv.writeError(w, err)
		return
	}

	s, err := srv.session(r.Context(), viewerID, orderID(r))
	if err != nil {
		srv.writeError(w, err)
		return
	}
	if err := s.OpenModal(kind, srv.registry.Availability(s)); err != nil {
		srv.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, srv.buildView(s))
}

func (srv *Server) CloseModalHandler(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.ViewerID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	s, ok := srv.registry.Get(viewerID, orderID(r))
	if !ok || s.Snapshot() == nil {
		http.Error(w, "order not open", http.StatusNotFound)
		return
	}
	s.CloseModal()
	writeJSON(w, http.StatusOK, srv.buildView(s))
}

// mutation is one buyer action: validate runs against the current snapshot
// before call sends it to the marketplace.
type mutation struct {
	action   actions.Action
	validate func(o *model.Order) error
	call     func(ctx context.Context, viewerID, orderID string) error
}

func (srv *Server) mutate(w http.ResponseWriter, r *http.Request, m mutation) {
	viewerID, ok := middleware.ViewerID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	s, err := srv.session(r.Context(), viewerID, orderID(r))
	if err != nil {
		srv.writeError(w, err)
		return
	}
	if !srv.registry.Availability(s).Allows(m.action) {
		srv.writeError(w, errs.ErrActionUnavailable)
		return
	}
	if m.validate != nil {
		if err := m.validate(&s.Snapshot().Order); err != nil {
			srv.writeError(w, err)
			return
		}
	}

	id := s.Key().OrderID
	err = srv.registry.Mutate(r.Context(), s, func(ctx context.Context) error {
		return m.call(ctx, viewerID, id)
	})
	if err != nil {
		srv.deps.Logger.Infof("%s on %s by %s failed: %v", m.action, id, viewerID, err)
		srv.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, srv.buildView(s))
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Invalid("body", "malformed request")
	}
	return nil
}

func (srv *Server) CancelHandler(w http.ResponseWriter, r *http.Request) {
	var req model.CancelRequest
	if err := decodeBody(r, &req); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.mutate(w, r, mutation{
		action:   actions.Cancel,
		validate: func(*model.Order) error { return actions.ValidateCancel(req) },
		call: func(ctx context.Context, viewerID, id string) error {
			return srv.market.CancelOrder(ctx, viewerID, id, req)
		},
	})
}

func (srv *Server) RequestCancellationHandler(w http.ResponseWriter, r *http.Request) {
	var req model.CancelRequest
	if err := decodeBody(r, &req); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.mutate(w, r, mutation{
		action:   actions.Cancel,
		validate: func(*model.Order) error { return actions.ValidateCancel(req) },
		call: func(ctx context.Context, viewerID, id string) error {
			return srv.market.RequestCancellation(ctx, viewerID, id, req)
		},
	})
}

func (srv *Server) RespondCancellationHandler(w http.ResponseWriter, r *http.Request) {
	var resp model.CancellationResponse
	if err := decodeBody(r, &resp); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.mutate(w, r, mutation{
		action:   actions.RespondCancellation,
		validate: func(*model.Order) error { return actions.ValidateCancellationResponse(resp) },
		call: func(ctx context.Context, viewerID, id string) error {
			return srv.market.RespondCancellation(ctx, viewerID, id, resp)
		},
	})
}

func (srv *Server) WithdrawCancellationHandler(w http.ResponseWriter, r *http.Request) {
	srv.mutate(w, r, mutation{
		action: actions.WithdrawCancellation,
		call:   srv.market.WithdrawCancellation,
	})
}

func (srv *Server) RevisionHandler(w http.ResponseWriter, r *http.Request) {
	var req model.RevisionRequestInput
	if err := decodeBody(r, &req); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.mutate(w, r, mutation{
		action:   actions.RequestRevision,
		validate: func(*model.Order) error { return actions.ValidateRevision(req) },
		call: func(ctx context.Context, viewerID, id string) error {
			return srv.market.RequestRevision(ctx, viewerID, id, req)
		},
	})
}

func (srv *Server) RespondDisputeHandler(w http.ResponseWriter, r *http.Request) {
	var resp model.DisputeResponse
	if err := decodeBody(r, &resp); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.mutate(w, r, mutation{
		action:   actions.RespondDispute,
		validate: func(*model.Order) error { return actions.ValidateDisputeResponse(resp) },
		call: func(ctx context.Context, viewerID, id string) error {
			return srv.market.RespondDispute(ctx, viewerID, id, resp)
		},
	})
}

func (srv *Server) SettlementOfferHandler(w http.ResponseWriter, r *http.Request) {
	var req model.SettlementOfferRequest
	if err := decodeBody(r, &req); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.mutate(w, r, mutation{
		action:   actions.MakeSettlementOffer,
		validate: func(o *model.Order) error { return actions.ValidateSettlementOffer(o, req) },
		call: func(ctx context.Context, viewerID, id string) error {
			return srv.market.MakeSettlementOffer(ctx, viewerID, id, req)
		},
	})
}

func (srv *Server) CancelDisputeHandler(w http.ResponseWriter, r *http.Request) {
	srv.mutate(w, r, mutation{action: actions.CancelDispute, call: srv.market.CancelDispute})
}

func (srv *Server) RequestArbitrationHandler(w http.ResponseWriter, r *http.Request) {
	srv.mutate(w, r, mutation{action: actions.RequestArbitration, call: srv.market.RequestArbitration})
}

func (srv *Server) CancelArbitrationHandler(w http.ResponseWriter, r *http.Request) {
	srv.mutate(w, r, mutation{action: actions.CancelArbitration, call: srv.market.CancelArbitration})
}

func (srv *Server) ApproveDeliveryHandler(w http.ResponseWriter, r *http.Request) {
	srv.mutate(w, r, mutation{action: actions.ApproveDelivery, call: srv.market.AcceptDelivery})
}

func (srv *Server) RatingHandler(w http.ResponseWriter, r *http.Request) {
	var req model.RatingRequest
	if err := decodeBody(r, &req); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.mutate(w, r, mutation{
		action:   actions.Rate,
		validate: func(*model.Order) error { return actions.ValidateRating(req) },
		call: func(ctx context.Context, viewerID, id string) error {
			return srv.market.SubmitRating(ctx, viewerID, id, req)
		},
	})
}

func (srv *Server) RespondExtensionHandler(w http.ResponseWriter, r *http.Request) {
	var resp model.ExtensionResponse
	if err := decodeBody(r, &resp); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.mutate(w, r, mutation{
		action: actions.RespondExtension,
		call: func(ctx context.Context, viewerID, id string) error {
			return srv.market.RespondExtension(ctx, viewerID, id, resp)
		},
	})
}

// RespondOfferHandler accepts or rejects the custom offer the order was
// created from.
func (srv *Server) RespondOfferHandler(w http.ResponseWriter, r *http.Request) {
	var resp model.CustomOfferResponse
	if err := decodeBody(r, &resp); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.mutate(w, r, mutation{
		action:   actions.RespondOffer,
		validate: func(*model.Order) error { return actions.ValidateCustomOfferResponse(resp) },
		call: func(ctx context.Context, viewerID, id string) error {
			return srv.market.RespondCustomOffer(ctx, viewerID, id, resp)
		},
	})
}
