package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	interfaces "github.com/tdex-network/tdex-feevalidator/internal/interfaces"
	"github.com/tdex-network/tdex-feevalidator/internal/interfaces/http/handler"
)

const shutdownTimeout = 10 * time.Second

type service struct {
	opts     ServiceOpts
	server   *http.Server
	listener net.Listener
}

type ServiceOpts struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	FeeValidationSvc handler.FeeValidationService
}

func (o ServiceOpts) validate() error {
	if len(o.Address) <= 0 {
		return fmt.Errorf("missing listening address")
	}
	if o.FeeValidationSvc == nil {
		return fmt.Errorf("fee validation app service must not be null")
	}
	return nil
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	return &service{opts: opts}, nil
}

// NewRouter returns the routes of the HTTP interface.
func NewRouter(svc handler.FeeValidationService) http.Handler {
	h := handler.NewFeeValidationHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", handler.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/fee/validate", h.Validate)
		r.Post("/fee/validate/batch", h.ValidateBatch)
		r.Get("/fee/validations/{id}", h.GetValidation)
		r.Get("/tx/{txid}/validations", h.ListValidationsForTx)
		r.Get("/tx/{txid}/confirmations", h.Confirmations)
		r.Get("/cycles/{height}", h.CycleInfo)
		r.Get("/params/{height}", h.FeeParams)

		r.Post("/ledger/params", h.AddParamChanges)
		r.Post("/ledger/cycles", h.AddCycles)
		r.Post("/ledger/burntxs", h.AddBurnTxs)
	})
	return r
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	s.listener = lis
	s.server = &http.Server{
		Handler:      NewRouter(s.opts.FeeValidationSvc),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	go func() {
		if err := s.server.Serve(lis); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http interface stopped unexpectedly")
		}
	}()

	log.Infof("http interface is listening on %s", lis.Addr())
	return nil
}

func (s *service) Stop() {
	if s.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http interface")
	}
	log.Debug("disabled http interface")
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"status":     ww.Status(),
			"elapsed":    time.Since(start).String(),
		}).Debugf("%s %s", r.Method, r.URL.Path)
	})
}
