package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/johnny-papercut/fantasy/internal/ingest"
	"github.com/johnny-papercut/fantasy/internal/pkg/storage"
	"github.com/johnny-papercut/fantasy/internal/scoreboard"
)

const defaultChangesLimit = 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if _, err := s.store.AllLeagues(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status})
}

type updateResponse struct {
	Week      int      `json:"week"`
	Succeeded int      `json:"succeeded"`
	Failed    []string `json:"failed,omitempty"`
}

func updateResponseFrom(result *ingest.Result) updateResponse {
	resp := updateResponse{Week: result.Week, Succeeded: result.Succeeded}
	for _, f := range result.Failures {
		resp.Failed = append(resp.Failed, f.League.Name)
	}
	return resp
}

func (s *Server) handleUpdateAll(w http.ResponseWriter, r *http.Request) {
	result, err := s.ingestor.RefreshAll(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updateResponseFrom(result))
}

func (s *Server) handleUpdateScores(w http.ResponseWriter, r *http.Request) {
	result, err := s.ingestor.RefreshScores(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updateResponseFrom(result))
}

func (s *Server) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	profile := r.PathValue("profile")
	mode := scoreboard.ParseMode(r.URL.Query().Get("mode"))

	board, err := s.assembler.Assemble(r.Context(), profile, mode, time.Now().UTC())
	if err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	limit := defaultChangesLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	changes, err := s.store.RecentChanges(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, changes)
}
