package api

import (
	"log/slog"
	"net/http"

	"github.com/aibrochure/brochure-api/internal/api/shared"
	"github.com/aibrochure/brochure-api/internal/domain"
	"github.com/aibrochure/brochure-api/internal/service"
	"github.com/aibrochure/brochure-api/internal/store"
)

// BrochureHandler handles brochure generation and management API requests.
type BrochureHandler struct {
	brochureService service.BrochureService
	logger          *slog.Logger
}

// NewBrochureHandler creates a new BrochureHandler with the given
// dependencies.
func NewBrochureHandler(brochureService service.BrochureService, logger *slog.Logger) *BrochureHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BrochureHandler{
		brochureService: brochureService,
		logger:          logger.With(slog.String("handler", "brochure")),
	}
}

// Generate handles POST /brochures/generate. It submits an asynchronous
// generation task and answers immediately with the task ID; clients poll
// GetGenerationStatus for progress.
func (h *BrochureHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req GenerateBrochureRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	started, err := h.brochureService.StartGeneration(r.Context(), userID, domain.GenerationRequest{
		Name:   req.Name,
		Prompt: req.Prompt,
		Layout: req.Layout,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, started)
}

// GetGenerationStatus handles GET /brochures/generate/{taskId}/status.
// Unknown task IDs answer 200 with the stable not_found status body.
func (h *BrochureHandler) GetGenerationStatus(w http.ResponseWriter, r *http.Request) {
	_, taskID, ok := requireUserAndPathUUID(w, r, "taskId")
	if !ok {
		return
	}

	status := h.brochureService.GetTaskStatus(r.Context(), taskID)
	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// List handles GET /brochures. Supports page, page_size, and search query
// parameters.
func (h *BrochureHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	params := store.BrochureListParams{
		Page:        queryInt(r, "page", 1),
		PageSize:    queryInt(r, "page_size", 0),
		TitleSearch: r.URL.Query().Get("search"),
	}

	brochures, total, err := h.brochureService.ListBrochures(r.Context(), userID, params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list brochures")
		return
	}

	items := make([]BrochureResponse, 0, len(brochures))
	for _, b := range brochures {
		items = append(items, toBrochureResponse(b))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BrochureListResponse{
		Brochures: items,
		Total:     total,
		Page:      params.Page,
		PageSize:  params.PageSize,
	})
}

// Get handles GET /brochures/{id}.
func (h *BrochureHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, brochureID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	brochure, err := h.brochureService.GetBrochure(r.Context(), userID, brochureID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toBrochureResponse(brochure))
}

// Update handles PUT /brochures/{id}.
func (h *BrochureHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, brochureID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateBrochureRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	brochure, err := h.brochureService.UpdateBrochure(r.Context(), userID, brochureID, req.Title, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toBrochureResponse(brochure))
}

// Delete handles DELETE /brochures/{id}.
func (h *BrochureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, brochureID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.brochureService.DeleteBrochure(r.Context(), userID, brochureID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
