package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/applicant-ranker/internal/dictionary"
	"github.com/jonathan/applicant-ranker/internal/normalize"
	"github.com/jonathan/applicant-ranker/internal/types"
)

// RankRequest represents the request body for /rank
type RankRequest struct {
	Job        *types.JobRequirements `json:"job"`
	Applicants []types.ApplicantData  `json:"applicants"`
}

// CompareRequest represents the request body for /compare
type CompareRequest struct {
	Job        *types.JobRequirements `json:"job"`
	Applicant1 *types.ApplicantData   `json:"applicant1"`
	Applicant2 *types.ApplicantData   `json:"applicant2"`
}

// NormalizeRequest represents the request body for /normalize
type NormalizeRequest struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// NormalizeResponse represents the response for /normalize
type NormalizeResponse struct {
	Kind       string                      `json:"kind"`
	Input      string                      `json:"input"`
	Expression string                      `json:"expression"`
	Normalized string                      `json:"normalized"`
	Terms      []types.NormalizationResult `json:"terms"`
}

// HealthResponse represents the response for /health
type HealthResponse struct {
	Status       string             `json:"status"`
	Dictionaries *dictionary.Status `json:"dictionaries,omitempty"`
}

// decode reads a JSON body bounded by MaxBodyBytes.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout > 0 {
		return context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	}
	return context.WithCancel(r.Context())
}

// handleRank ranks applicants for a job
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	if s.pipeline == nil {
		s.failure(w, r, errUnavailable)
		return
	}

	var req RankRequest
	if err := s.decode(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	if req.Job == nil {
		s.failure(w, r, &ErrValidation{Field: "job", Message: "is required"})
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	result, err := s.pipeline.RankApplicantsForJob(ctx, req.Job, req.Applicants)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleCompare compares two applicants head to head
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if s.pipeline == nil {
		s.failure(w, r, errUnavailable)
		return
	}

	var req CompareRequest
	if err := s.decode(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	switch {
	case req.Job == nil:
		s.failure(w, r, &ErrValidation{Field: "job", Message: "is required"})
		return
	case req.Applicant1 == nil || req.Applicant2 == nil:
		s.failure(w, r, &ErrValidation{Field: "applicant1/applicant2", Message: "both applicants are required"})
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	result, err := s.pipeline.CompareApplicants(ctx, req.Job, req.Applicant1, req.Applicant2)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleNormalize canonicalizes a single degree or eligibility line
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	if s.normalizer == nil {
		s.failure(w, r, errUnavailable)
		return
	}

	var req NormalizeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	domain, err := domainFor(req.Kind)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	normalized, terms := s.normalizer.NormalizeTerms(ctx, domain, req.Value)
	if terms == nil {
		terms = []types.NormalizationResult{}
	}
	s.jsonResponse(w, http.StatusOK, NormalizeResponse{
		Kind:       strings.ToLower(strings.TrimSpace(req.Kind)),
		Input:      req.Value,
		Expression: normalize.ParseExpression(req.Value).Kind.String(),
		Normalized: normalized,
		Terms:      terms,
	})
}

func domainFor(kind string) (dictionary.Domain, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "degree", "degrees":
		return dictionary.Degrees, nil
	case "eligibility", "eligibilities":
		return dictionary.Eligibilities, nil
	default:
		return "", &ErrValidation{Field: "kind", Message: fmt.Sprintf("must be degree or eligibility, got %q", kind)}
	}
}

// handleHealth returns server health status and dictionary load state
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if s.normalizer != nil {
		status := s.normalizer.Loader().Status()
		resp.Dictionaries = &status
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
