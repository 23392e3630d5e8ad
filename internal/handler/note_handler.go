package handler

import (
	"net/http"

	"smartnotes-server/internal/domain"
	"smartnotes-server/internal/middleware"
	"smartnotes-server/internal/service"
	"smartnotes-server/pkg/response"

	"github.com/gorilla/mux"
)

type NoteHandler struct {
	service *service.NoteService
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{
		service: service,
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.NoteInput
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(r)

	note, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err, "Failed to create note")
		return
	}

	response.Created(w, domain.NoteResponse{Note: note})
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	notes, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "Failed to fetch notes")
		return
	}

	response.Success(w, domain.NoteListResponse{Notes: notes})
}

func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	notes, err := h.service.Search(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err, "Failed to search notes")
		return
	}

	response.Success(w, domain.NoteListResponse{Notes: notes})
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	userID := middleware.GetUserID(r)

	note, err := h.service.GetByID(r.Context(), userID, noteID)
	if err != nil {
		writeError(w, r, err, "Failed to fetch note")
		return
	}

	response.Success(w, domain.NoteResponse{Note: note})
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]

	var req domain.NoteInput
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(r)

	note, err := h.service.Update(r.Context(), userID, noteID, req)
	if err != nil {
		writeError(w, r, err, "Failed to update note")
		return
	}

	response.Success(w, domain.NoteResponse{Note: note})
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	userID := middleware.GetUserID(r)

	if err := h.service.Delete(r.Context(), userID, noteID); err != nil {
		writeError(w, r, err, "Failed to delete note")
		return
	}

	response.Message(w, http.StatusOK, "Note deleted successfully")
}
