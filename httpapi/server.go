// Package httpapi exposes the decision engines and the decision log over a
// small HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/verdantio/verdant/estimate"
	"github.com/verdantio/verdant/game"
	"github.com/verdantio/verdant/store"
	"github.com/verdantio/verdant/util"
)

// DecisionStore is the slice of the store the API needs. Implemented by
// store.DB; nil when no decision log is configured.
type DecisionStore interface {
	RecentDecisions(limit int) ([]store.Decision, error)
}

// Server serves the operator HTTP API
type Server struct {
	estimator *estimate.Estimator
	selector  *game.Selector
	decisions DecisionStore
	router    chi.Router
	srv       *http.Server
	logger    *logrus.Entry
}

// NewServer creates a Server listening on addr. decisions may be nil.
func NewServer(addr string, estimator *estimate.Estimator, selector *game.Selector,
	decisions DecisionStore) *Server {
	s := &Server{
		estimator: estimator,
		selector:  selector,
		decisions: decisions,
		logger:    util.Logger.WithField("module", "httpapi"),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(rr chi.Router) {
		rr.Post("/estimate", s.handleEstimate)
		rr.Post("/game/move", s.handleGameMove)
		rr.Get("/decisions", s.handleDecisions)
	})
	s.router = r
	s.srv = &http.Server{Addr: addr, Handler: r}
	return s
}

// Router returns the underlying handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving on a background goroutine
func (s *Server) Start() {
	s.logger.WithField("addr", s.srv.Addr).Info("starting http api")
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("http api server error")
		}
	}()
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping http api")
	return s.srv.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("error encoding response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	merr, ok := err.(*util.Error)
	if !ok {
		merr = util.NewInternalError(err)
	}
	status := http.StatusInternalServerError
	switch merr.Code {
	case util.EC_BadRequest, util.EC_NotSpecified, util.EC_Parse,
		util.EC_Range, util.EC_InvalidData, util.EC_InvalidState:
		status = http.StatusBadRequest
	case util.EC_NotImplemented:
		status = http.StatusNotImplemented
	}
	s.writeJSON(w, status, map[string]interface{}{
		"result":  "error",
		"code":    merr.Code,
		"message": merr.Error(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var data struct {
		SoilMoisture *float64 `json:"soilMoisture"`
		Temperature  *float64 `json:"temperature"`
		AirHumidity  *float64 `json:"airHumidity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.writeError(w, util.NewParseError("estimate request", err))
		return
	}
	for name, field := range map[string]*float64{
		"soilMoisture": data.SoilMoisture,
		"temperature":  data.Temperature,
		"airHumidity":  data.AirHumidity,
	} {
		if err := util.CheckNotNil(field, name); err != nil {
			s.writeError(w, err)
			return
		}
	}
	minutes := s.estimator.Estimate(estimate.Readings{
		SoilMoisture: *data.SoilMoisture,
		Temperature:  *data.Temperature,
		AirHumidity:  *data.AirHumidity,
	})
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"result":  "success",
		"minutes": minutes,
	})
}

func (s *Server) handleGameMove(w http.ResponseWriter, r *http.Request) {
	var data struct {
		RunningTotal *int `json:"runningTotal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.writeError(w, util.NewParseError("game move request", err))
		return
	}
	if err := util.CheckNotNil(data.RunningTotal, "runningTotal"); err != nil {
		s.writeError(w, err)
		return
	}
	move, err := s.selector.SelectMove(*data.RunningTotal)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": "success",
		"move":   move,
		"said":   game.SpokenNumbers(*data.RunningTotal, move),
	})
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	if s.decisions == nil {
		s.writeError(w, util.NewError(util.EC_NotImplemented, "decision log not configured"))
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &limit); err != nil || limit <= 0 {
			s.writeError(w, util.NewError(util.EC_Range, fmt.Sprintf("invalid limit: %q", v)))
			return
		}
	}
	decisions, err := s.decisions.RecentDecisions(limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"result":    "success",
		"decisions": decisions,
	})
}
