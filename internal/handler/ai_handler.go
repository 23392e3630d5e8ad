package handler

import (
	"net/http"

	"smartnotes-server/internal/ai"
	"smartnotes-server/internal/domain"
	"smartnotes-server/internal/service"
	"smartnotes-server/pkg/response"
)

type AIHandler struct {
	service *service.AIService
}

func NewAIHandler(service *service.AIService) *AIHandler {
	return &AIHandler{
		service: service,
	}
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

type ImproveResponse struct {
	ImprovedText string `json:"improvedText"`
}

type TagsResponse struct {
	Tags []string `json:"tags"`
}

type ModelsResponse struct {
	Models []ai.Model `json:"models"`
}

func (h *AIHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var req domain.TextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	summary, err := h.service.Summarize(r.Context(), &req)
	if err != nil {
		writeError(w, r, err, "Failed to generate summary")
		return
	}

	response.Success(w, SummaryResponse{Summary: summary})
}

func (h *AIHandler) Improve(w http.ResponseWriter, r *http.Request) {
	var req domain.TextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	improved, err := h.service.Improve(r.Context(), &req)
	if err != nil {
		writeError(w, r, err, "Failed to improve text")
		return
	}

	response.Success(w, ImproveResponse{ImprovedText: improved})
}

func (h *AIHandler) Tags(w http.ResponseWriter, r *http.Request) {
	var req domain.TextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	tags, err := h.service.GenerateTags(r.Context(), &req)
	if err != nil {
		writeError(w, r, err, "Failed to generate tags")
		return
	}

	response.Success(w, TagsResponse{Tags: tags})
}

func (h *AIHandler) Models(w http.ResponseWriter, r *http.Request) {
	models, err := h.service.ListModels(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to list models")
		return
	}

	response.Success(w, ModelsResponse{Models: models})
}
