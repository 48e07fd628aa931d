package server

import (
	"net/http"

	"github.com/zenstudy/backend/internal/middleware"
	"github.com/zenstudy/backend/internal/models"
)

type addPointsRequest struct {
	Points int `json:"points"`
}

type addPointsResponse struct {
	models.UserStats
	NewBadges []models.Badge `json:"newBadges,omitempty"`
}

// handleGetStats returns stored points plus counts recomputed from the live
// task set.
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	stats, err := s.statsService.Get(r.Context(), accountID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleAddPoints records a reward event (timer sessions post +15/+25 here).
func (s *Server) handleAddPoints(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	var req addPointsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	update, err := s.statsService.AddPoints(r.Context(), accountID, req.Points)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, addPointsResponse{
		UserStats: *update.Stats,
		NewBadges: update.NewBadges,
	})
}

// handleDashboard returns the aggregated view the planner page renders.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	dashboard, err := s.statsService.GetDashboard(r.Context(), accountID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
