package api

import (
	"net/http"

	"github.com/sprite-ai/prrev/internal/model"
	"github.com/sprite-ai/prrev/internal/render"
	"github.com/sprite-ai/prrev/internal/review"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Review ---

type reviewRequest struct {
	Diff string `json:"diff"`
}

type reviewResponse struct {
	Report   review.Report              `json:"report"`
	Files    []model.FileAnalysisResult `json:"files"`
	Degraded []string                   `json:"degraded,omitempty"`
	Markdown string                     `json:"markdown"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if req.Diff == "" {
		writeError(w, http.StatusBadRequest, "diff is required")
		return
	}

	eng, err := s.newEngine()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "creating engine: "+err.Error())
		return
	}

	res, err := eng.ReviewDiff(r.Context(), req.Diff)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reviewing diff: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, reviewResponse{
		Report:   res.Report,
		Files:    res.Files,
		Degraded: res.Degraded,
		Markdown: render.Markdown(res.Report, ""),
	})
}

// --- Score ---

// scoreRequest carries pre-computed per-file findings. Scoring is
// pure, so this endpoint needs no AI backend at all.
type scoreRequest struct {
	Files []model.FileAnalysisResult `json:"files"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, "files is required")
		return
	}

	rep := review.Aggregate(req.Files, s.cfg.Policy())
	writeJSON(w, http.StatusOK, rep)
}
