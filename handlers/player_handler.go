package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

type PlayerHandler struct {
	tournamentService services.TournamentService
}

func NewPlayerHandler(ts services.TournamentService) *PlayerHandler {
	return &PlayerHandler{tournamentService: ts}
}

type createPlayerRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateHandler godoc
// @Summary Создать игрока
// @Tags players
// @Accept json
// @Produce json
// @Param input body createPlayerRequest true "Имя игрока"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /players [post]
func (h *PlayerHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input createPlayerRequest
	if !readAndValidate(w, r, &input) {
		return
	}

	player, err := h.tournamentService.CreatePlayer(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler godoc
// @Summary Получить игрока
// @Tags players
// @Produce json
// @Param playerID path int true "Player ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /players/{playerID} [get]
func (h *PlayerHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.tournamentService.GetPlayer(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
