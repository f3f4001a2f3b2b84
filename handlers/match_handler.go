package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// winner_id отсутствует или null, если ничья
type recordMatchRequest struct {
	Player1ID int  `json:"player1_id" validate:"required,gt=0"`
	Player2ID int  `json:"player2_id" validate:"required,gt=0"`
	WinnerID  *int `json:"winner_id,omitempty" validate:"omitempty,gt=0"`
}

// RecordHandler godoc
// @Summary Записать результат матча
// @Tags matches
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body recordMatchRequest true "Результат"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Игроки совпадают или победитель не участник"
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string "Игрок не зарегистрирован"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches [post]
func (h *MatchHandler) RecordHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input recordMatchRequest
	if !readAndValidate(w, r, &input) {
		return
	}

	match, err := h.matchService.RecordMatch(r.Context(), tournamentID, input.Player1ID, input.Player2ID, input.WinnerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary Журнал матчей турнира
// @Tags matches
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/matches [get]
func (h *MatchHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListMatches(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
