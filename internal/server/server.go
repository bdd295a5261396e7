package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/and161185/orderdesk/internal/config"
	"github.com/and161185/orderdesk/internal/deps"
	"github.com/and161185/orderdesk/internal/middleware"
	"github.com/and161185/orderdesk/internal/model"
	"github.com/and161185/orderdesk/internal/watch"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=server.go -destination=../mocks/server_mocks.go -package=mocks

// Mutator sends the buyer's actions to the marketplace.
type Mutator interface {
	CancelOrder(ctx context.Context, viewerID, orderID string, req model.CancelRequest) error
	RequestCancellation(ctx context.Context, viewerID, orderID string, req model.CancelRequest) error
	RespondCancellation(ctx context.Context, viewerID, orderID string, resp model.CancellationResponse) error
	WithdrawCancellation(ctx context.Context, viewerID, orderID string) error
	RequestRevision(ctx context.Context, viewerID, orderID string, req model.RevisionRequestInput) error
	CreateDispute(ctx context.Context, viewerID, orderID string, draft model.DisputeDraft) error
	RespondDispute(ctx context.Context, viewerID, orderID string, resp model.DisputeResponse) error
	MakeSettlementOffer(ctx context.Context, viewerID, orderID string, req model.SettlementOfferRequest) error
	CancelDispute(ctx context.Context, viewerID, orderID string) error
	RequestArbitration(ctx context.Context, viewerID, orderID string) error
	CancelArbitration(ctx context.Context, viewerID, orderID string) error
	AcceptDelivery(ctx context.Context, viewerID, orderID string) error
	SubmitRating(ctx context.Context, viewerID, orderID string, req model.RatingRequest) error
	RespondExtension(ctx context.Context, viewerID, orderID string, resp model.ExtensionResponse) error
	RespondCustomOffer(ctx context.Context, viewerID, orderID string, resp model.CustomOfferResponse) error
}

type Server struct {
	registry *watch.Registry
	market   Mutator
	poller   *watch.Poller
	config   *config.Config
	deps     *deps.Deps
}

func NewServer(registry *watch.Registry, market Mutator, config *config.Config, deps *deps.Deps) *Server {
	return &Server{
		registry: registry,
		market:   market,
		poller:   watch.NewPoller(registry, config.PollInterval, deps.Logger),
		config:   config,
		deps:     deps,
	}
}

func (srv *Server) buildRouter() http.Handler {
	router := chi.NewRouter()
	router.Use(chiMiddleware.StripSlashes)
	router.Use(middleware.LogMiddleware(srv.deps.Logger))
	router.Use(middleware.DecompressMiddleware)
	router.Use(middleware.CompressMiddleware(srv.deps.Logger))

	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(srv.deps.TokenManager))

		r.Get("/api/orders", srv.ListOrdersHandler)
		r.Route("/api/orders/{id}", func(r chi.Router) {
			r.Get("/", srv.GetOrderHandler)
			r.Delete("/", srv.CloseOrderHandler)
			r.Get("/resolve", srv.ResolveHandler)
			r.Put("/modal", srv.OpenModalHandler)
			r.Delete("/modal", srv.CloseModalHandler)

			r.Post("/cancel", srv.CancelHandler)
			r.Post("/cancellation", srv.RequestCancellationHandler)
			r.Post("/cancellation/respond", srv.RespondCancellationHandler)
			r.Post("/cancellation/withdraw", srv.WithdrawCancellationHandler)
			r.Post("/revision", srv.RevisionHandler)
			r.Post("/dispute", srv.CreateDisputeHandler)
			r.Delete("/dispute", srv.CancelDisputeHandler)
			r.Post("/dispute/respond", srv.RespondDisputeHandler)
			r.Post("/dispute/offer", srv.SettlementOfferHandler)
			r.Post("/dispute/arbitration", srv.RequestArbitrationHandler)
			r.Delete("/dispute/arbitration", srv.CancelArbitrationHandler)
			r.Post("/approve", srv.ApproveDeliveryHandler)
			r.Post("/rating", srv.RatingHandler)
			r.Post("/extension/respond", srv.RespondExtensionHandler)
			r.Post("/offer/respond", srv.RespondOfferHandler)
		})
	})

	return router
}

// Run serves the API and polls open sessions until ctx is done.
func (srv *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    srv.config.RunAddress,
		Handler: srv.buildRouter(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv.deps.Logger.Infof("listening on %s", srv.config.RunAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return srv.poller.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
