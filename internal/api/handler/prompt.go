package handler

import (
	"encoding/json"
	"net/http"

	"github.com/m4dpr0f/cjsr-sub004/internal/api/request"
	"github.com/m4dpr0f/cjsr-sub004/internal/api/response"
	"github.com/m4dpr0f/cjsr-sub004/internal/services/prompt"
	"github.com/m4dpr0f/cjsr-sub004/internal/storage"
)

// PromptHandler manages the prompt pool over HTTP
type PromptHandler struct {
	prompts *prompt.Service
	storage storage.Storage
}

// NewPromptHandler creates a PromptHandler
func NewPromptHandler(prompts *prompt.Service, store storage.Storage) *PromptHandler {
	return &PromptHandler{
		prompts: prompts,
		storage: store,
	}
}

// Load handles POST /api/v1/prompts, replacing the pool for future races.
// Races already past their countdown keep their frozen prompt.
func (h *PromptHandler) Load(w http.ResponseWriter, r *http.Request) {
	var req request.LoadPromptsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if len(req.Prompts) == 0 {
		WriteError(w, NewInvalidRequestError("No prompts provided"))
		return
	}

	// Persist first so the live pool never diverges from storage
	if err := h.storage.SavePrompts(r.Context(), req.Prompts); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.prompts.LoadPrompts(req.Prompts); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PromptsLoaded{Count: h.prompts.Count()})
}

// Count handles GET /api/v1/prompts
func (h *PromptHandler) Count(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.PromptsLoaded{Count: h.prompts.Count()})
}
