package handler

import (
	"errors"
	"net/http"

	"smartnotes-server/internal/domain"
	"smartnotes-server/internal/middleware"
	"smartnotes-server/internal/service"
	"smartnotes-server/pkg/response"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		writeError(w, r, err, "Failed to fetch user")
		return
	}

	response.Success(w, domain.UserResponse{User: user})
}
