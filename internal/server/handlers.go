package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rustyeddy/parlay/config"
	"github.com/rustyeddy/parlay/journal"
	"github.com/rustyeddy/parlay/pkg/invariant"
)

const maxBodyBytes = 1 << 20

// HealthCheck returns service health
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "parlay",
	})
}

// Evaluate scores a slip. Malformed bodies are 400; slips that break an
// engine invariant are 422. Profile violations are part of a 200 body.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var slip config.Slip
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&slip); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if len(slip.Legs) == 0 {
		respondError(w, http.StatusBadRequest, "invalid request: no legs")
		return
	}

	resp, err := s.eval.EvaluateRequest(slip.Request(s.cfg))
	if err != nil {
		if invariant.Is(err) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.log.Error("evaluate", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "evaluation failed")
		return
	}

	rec, err := journal.NewRecord(slip.Name, resp, s.now())
	if err == nil {
		err = s.journal.RecordEvaluation(rec)
	}
	if err != nil {
		s.log.Warn("journal", zap.String("parlay_id", resp.ParlayID), zap.Error(err))
	} else {
		w.Header().Set("X-Evaluation-ID", rec.EvalID)
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetEvaluation returns a journaled response by eval id.
func (s *Server) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	lookup, ok := s.journal.(Lookup)
	if !ok {
		respondError(w, http.StatusNotImplemented, "journal does not support lookups")
		return
	}

	rec, err := lookup.GetEvaluation(chi.URLParam(r, "evalID"))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	resp, err := rec.DecodeResponse()
	if err != nil {
		s.log.Error("decode journaled response", zap.String("eval_id", rec.EvalID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "stored evaluation is unreadable")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
