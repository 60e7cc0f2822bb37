package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/juasmart/juasmart/pkg/log"
	"github.com/juasmart/juasmart/pkg/storage"
	"github.com/juasmart/juasmart/pkg/types"
)

func newAssessmentID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

func (s *Server) handleSaveAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := s.getUserEmail(r)

	var a types.Assessment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode assessment", slog.Any("error", err))
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if a.Profile.MonthlyKWH <= 0 {
		writeJSONError(w, "assessment has no consumption profile", http.StatusBadRequest)
		return
	}

	if a.ID == "" {
		a.ID = newAssessmentID()
	}
	a.UserEmail = email
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	if err := s.storage.SaveAssessment(ctx, a); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to save assessment", slog.String("id", a.ID), slog.Any("error", err))
		writeJSONError(w, "failed to save assessment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(a); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := s.getUserEmail(r)

	assessments, err := s.storage.ListAssessments(ctx, email)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list assessments", slog.Any("error", err))
		writeJSONError(w, "failed to list assessments", http.StatusInternalServerError)
		return
	}

	// Always return an array, even if empty
	if assessments == nil {
		assessments = []types.Assessment{}
	}

	writeJSON(w, assessments)
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := s.getUserEmail(r)
	id := r.PathValue("id")

	a, err := s.storage.GetAssessment(ctx, email, id)
	if err != nil {
		if errors.Is(err, storage.ErrAssessmentNotFound) {
			writeJSONError(w, "assessment not found", http.StatusNotFound)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to get assessment", slog.String("id", id), slog.Any("error", err))
		writeJSONError(w, "failed to get assessment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, a)
}

func (s *Server) handleDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := s.getUserEmail(r)
	id := r.PathValue("id")

	if err := s.storage.DeleteAssessment(ctx, email, id); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to delete assessment", slog.String("id", id), slog.Any("error", err))
		writeJSONError(w, "failed to delete assessment", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssessmentReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := s.getUserEmail(r)
	id := r.PathValue("id")

	a, err := s.storage.GetAssessment(ctx, email, id)
	if err != nil {
		if errors.Is(err, storage.ErrAssessmentNotFound) {
			writeJSONError(w, "assessment not found", http.StatusNotFound)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to get assessment", slog.String("id", id), slog.Any("error", err))
		writeJSONError(w, "failed to get assessment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(renderReport(a))); err != nil {
		panic(http.ErrAbortHandler)
	}
}
