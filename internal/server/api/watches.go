// Package api provides HTTP API handlers for the wristwear try-on service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/wristwear/internal/store"
)

// WatchHandler handles HTTP requests for watch catalog resources.
type WatchHandler struct {
	store *store.Store
}

// NewWatchHandler creates a new WatchHandler with the given store.
func NewWatchHandler(s *store.Store) *WatchHandler {
	return &WatchHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *WatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse the path to determine if this is a collection or item request
	// Expected paths: /api/watches or /api/watches/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/watches")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/watches
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

	// Item endpoint: /api/watches/{id}
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

// Request and response types

type createWatchRequest struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImagePath   string  `json:"image_path"`
	CaseSize    int     `json:"case_size"`
	Style       string  `json:"style"`
}

type updateWatchRequest struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImagePath   string  `json:"image_path"`
	CaseSize    int     `json:"case_size"`
	Style       string  `json:"style"`
}

type watchResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImagePath   string  `json:"image_path"`
	CaseSize    int     `json:"case_size"`
	Style       string  `json:"style"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type listWatchesResponse struct {
	Watches []watchResponse `json:"watches"`
	Total   int             `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Watch to a watchResponse.
func toResponse(w *store.Watch) watchResponse {
	return watchResponse{
		ID:          w.ID,
		Name:        w.Name,
		Brand:       w.Brand,
		Price:       w.Price,
		Description: w.Description,
		ImagePath:   w.ImagePath,
		CaseSize:    w.CaseSize,
		Style:       string(w.Style),
		CreatedAt:   w.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   w.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
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

// validStyle reports whether s is a known catalog style.
func validStyle(s store.Style) bool {
	switch s {
	case store.StyleClassic, store.StyleSports, store.StyleLuxury:
		return true
	}
	return false
}

// list handles GET /api/watches and returns the catalog.
func (h *WatchHandler) list(w http.ResponseWriter, r *http.Request) {
	watches, err := h.store.Watches().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list watches")
		return
	}

	response := listWatchesResponse{
		Watches: make([]watchResponse, 0, len(watches)),
		Total:   len(watches),
	}

	for _, watch := range watches {
		response.Watches = append(response.Watches, toResponse(watch))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/watches/{id} and returns a single watch.
func (h *WatchHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	watch, err := h.store.Watches().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Watch not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get watch")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(watch))
}

// create handles POST /api/watches and adds a catalog entry.
func (h *WatchHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate required fields
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.ImagePath == "" {
		writeError(w, http.StatusBadRequest, "Image path is required")
		return
	}

	style := store.Style(req.Style)
	if style == "" {
		style = store.StyleClassic
	}
	if !validStyle(style) {
		writeError(w, http.StatusBadRequest, "Invalid style")
		return
	}

	caseSize := req.CaseSize
	if caseSize == 0 {
		caseSize = 40
	}

	watch := &store.Watch{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Brand:       req.Brand,
		Price:       req.Price,
		Description: req.Description,
		ImagePath:   req.ImagePath,
		CaseSize:    caseSize,
		Style:       style,
	}

	if err := h.store.Watches().Create(watch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create watch")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(watch))
}

// update handles PUT /api/watches/{id} and updates an existing watch.
func (h *WatchHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	watch, err := h.store.Watches().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Watch not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get watch")
		return
	}

	var req updateWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Update fields if provided
	if req.Name != "" {
		watch.Name = req.Name
	}
	if req.Brand != "" {
		watch.Brand = req.Brand
	}
	if req.Price != 0 {
		watch.Price = req.Price
	}
	if req.Description != "" {
		watch.Description = req.Description
	}
	if req.ImagePath != "" {
		watch.ImagePath = req.ImagePath
	}
	if req.CaseSize != 0 {
		watch.CaseSize = req.CaseSize
	}
	if req.Style != "" {
		style := store.Style(req.Style)
		if !validStyle(style) {
			writeError(w, http.StatusBadRequest, "Invalid style")
			return
		}
		watch.Style = style
	}

	if err := h.store.Watches().Update(watch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update watch")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(watch))
}

// delete handles DELETE /api/watches/{id} and removes a catalog entry.
func (h *WatchHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Watches().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Watch not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete watch")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
