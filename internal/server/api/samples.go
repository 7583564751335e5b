package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// SamplesHandler stores recorded samples and trains the template they belong to.
type SamplesHandler struct {
	store    *store.Store
	trainer  *gesture.Trainer
	onChange func()
}

// NewSamplesHandler creates a SamplesHandler. onChange, when not nil, runs
// after a template has been retrained.
func NewSamplesHandler(s *store.Store, onChange func()) *SamplesHandler {
	return &SamplesHandler{store: s, trainer: gesture.NewTrainer(), onChange: onChange}
}

// ServeHTTP handles /api/templates/{id}/samples.
func (h *SamplesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/templates/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 || parts[0] == "" || parts[1] != "samples" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	templateID := parts[0]

	switch r.Method {
	case http.MethodGet:
		h.list(w, r, templateID)
	case http.MethodPost:
		h.create(w, r, templateID)
	case http.MethodDelete:
		h.delete(w, r, templateID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createSamplesRequest struct {
	Samples []json.RawMessage `json:"samples"`
}

type sampleResponse struct {
	ID          int64           `json:"id"`
	TemplateID  string          `json:"template_id"`
	SampleIndex int             `json:"sample_index"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   string          `json:"created_at"`
}

type listSamplesResponse struct {
	Samples []sampleResponse `json:"samples"`
}

type trainResponse struct {
	Template templateResponse `json:"template"`
	Points   int              `json:"points"`
}

func (h *SamplesHandler) list(w http.ResponseWriter, r *http.Request, templateID string) {
	samples, err := h.store.Samples().GetByTemplateID(templateID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}

	response := listSamplesResponse{
		Samples: make([]sampleResponse, 0, len(samples)),
	}
	for _, s := range samples {
		response.Samples = append(response.Samples, sampleResponse{
			ID:          s.ID,
			TemplateID:  s.TemplateID,
			SampleIndex: s.SampleIndex,
			Data:        s.Data,
			CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// create replaces the samples of a template and retrains it. Samples that
// cannot be trained are rejected before anything is written.
func (h *SamplesHandler) create(w http.ResponseWriter, r *http.Request, templateID string) {
	t, err := h.store.Templates().GetByID(templateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to verify template")
		return
	}

	var req createSamplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, "At least one sample is required")
		return
	}

	var save func(string, []geometry.Point) error
	var trained []geometry.Point
	switch t.Type {
	case store.TemplateTypeDynamic:
		trained, err = h.trainer.TrainDynamic(req.Samples)
		save = h.store.Templates().SetPath
	default:
		trained, err = h.trainer.TrainStatic(req.Samples)
		save = h.store.Templates().SetLandmarks
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Samples().Create(templateID, req.Samples); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save samples")
		return
	}
	if err := save(templateID, trained); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save trained template")
		return
	}

	t.Samples = len(req.Samples)
	if h.onChange != nil {
		h.onChange()
	}

	writeJSON(w, http.StatusCreated, trainResponse{Template: toResponse(t), Points: len(trained)})
}

// delete drops the recorded samples. The trained template is kept.
func (h *SamplesHandler) delete(w http.ResponseWriter, r *http.Request, templateID string) {
	if err := h.store.Samples().DeleteByTemplateID(templateID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete samples")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
