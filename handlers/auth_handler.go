package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type tokenRequest struct {
	Password string `json:"password" validate:"required"`
}

// Token godoc
// @Summary Получить токен организатора
// @Tags auth
// @Accept json
// @Produce json
// @Param input body tokenRequest true "Пароль организатора"
// @Success 200 {object} services.TokenResult
// @Failure 401 {object} map[string]string
// @Router /auth/token [post]
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var input tokenRequest
	if !readAndValidate(w, r, &input) {
		return
	}

	result, err := h.authService.IssueToken(r.Context(), input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
