// Package api provides the HTTP handlers for managing trained pose and path
// templates.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/store"
)

// DefaultTolerance is applied when a template is created without one.
const DefaultTolerance = 0.15

// TemplateHandler handles HTTP requests for template resources.
type TemplateHandler struct {
	store    *store.Store
	onChange func()
}

// NewTemplateHandler creates a TemplateHandler. onChange, when not nil, runs
// after every successful write so matchers can be reloaded.
func NewTemplateHandler(s *store.Store, onChange func()) *TemplateHandler {
	return &TemplateHandler{store: s, onChange: onChange}
}

// ServeHTTP routes /api/templates and /api/templates/{id}.
func (h *TemplateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/templates")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type templateRequest struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Label     string  `json:"label"`
	Tolerance float64 `json:"tolerance"`
}

type templateResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Label     string  `json:"label,omitempty"`
	Tolerance float64 `json:"tolerance"`
	Samples   int     `json:"samples"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type listTemplatesResponse struct {
	Templates []templateResponse `json:"templates"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(t *store.Template) templateResponse {
	return templateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Type:      string(t.Type),
		Label:     t.Label,
		Tolerance: t.Tolerance,
		Samples:   t.Samples,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func validType(t store.TemplateType) bool {
	return t == store.TemplateTypeStatic || t == store.TemplateTypeDynamic
}

// validLabel rejects the wildcard, which would make a trained pose match
// every expectation.
func validLabel(l string) bool {
	return hand.Label(l) != hand.Any
}

func (h *TemplateHandler) changed() {
	if h.onChange != nil {
		h.onChange()
	}
}

// lookup writes the error response itself and returns nil when the template
// cannot be loaded.
func (h *TemplateHandler) lookup(w http.ResponseWriter, id string) *store.Template {
	t, err := h.store.Templates().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Template not found")
			return nil
		}
		writeError(w, http.StatusInternalServerError, "Failed to get template")
		return nil
	}
	return t
}

func (h *TemplateHandler) list(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.Templates().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list templates")
		return
	}

	response := listTemplatesResponse{
		Templates: make([]templateResponse, 0, len(templates)),
	}
	for _, t := range templates {
		response.Templates = append(response.Templates, toResponse(t))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *TemplateHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if t := h.lookup(w, id); t != nil {
		writeJSON(w, http.StatusOK, toResponse(t))
	}
}

func (h *TemplateHandler) create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	typ := store.TemplateType(req.Type)
	if typ == "" {
		typ = store.TemplateTypeStatic
	}
	if !validType(typ) {
		writeError(w, http.StatusBadRequest, "Invalid template type")
		return
	}
	if !validLabel(req.Label) {
		writeError(w, http.StatusBadRequest, "Invalid label")
		return
	}

	tolerance := req.Tolerance
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}

	if _, err := h.store.Templates().GetByName(req.Name); err == nil {
		writeError(w, http.StatusConflict, "Template name already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to check template name")
		return
	}

	t := &store.Template{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Type:      typ,
		Label:     req.Label,
		Tolerance: tolerance,
	}
	if err := h.store.Templates().Create(t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(t))
}

func (h *TemplateHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	t := h.lookup(w, id)
	if t == nil {
		return
	}

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" {
		t.Name = req.Name
	}
	if req.Type != "" {
		typ := store.TemplateType(req.Type)
		if !validType(typ) {
			writeError(w, http.StatusBadRequest, "Invalid template type")
			return
		}
		t.Type = typ
	}
	if req.Label != "" {
		if !validLabel(req.Label) {
			writeError(w, http.StatusBadRequest, "Invalid label")
			return
		}
		t.Label = req.Label
	}
	if req.Tolerance != 0 {
		t.Tolerance = req.Tolerance
	}

	if err := h.store.Templates().Update(t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update template")
		return
	}

	h.changed()
	writeJSON(w, http.StatusOK, toResponse(t))
}

func (h *TemplateHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Templates().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete template")
		return
	}

	h.changed()
	w.WriteHeader(http.StatusNoContent)
}
