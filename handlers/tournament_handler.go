package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	standingsService  services.StandingsService
	pairingService    services.PairingService
}

func NewTournamentHandler(ts services.TournamentService, ss services.StandingsService, ps services.PairingService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		standingsService:  ss,
		pairingService:    ps,
	}
}

type createTournamentRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type registerPlayerRequest struct {
	PlayerID int `json:"player_id" validate:"required,gt=0"`
}

// CreateHandler godoc
// @Summary Создать турнир
// @Tags tournaments
// @Accept json
// @Produce json
// @Param input body createTournamentRequest true "Название турнира"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input createTournamentRequest
	if !readAndValidate(w, r, &input) {
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler godoc
// @Summary Получить турнир
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RegisterPlayerHandler godoc
// @Summary Зарегистрировать игрока в турнире
// @Tags tournaments
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body registerPlayerRequest true "Игрок"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Турнир или игрок не найден"
// @Failure 409 {object} map[string]string "Игрок уже зарегистрирован"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/registrations [post]
func (h *TournamentHandler) RegisterPlayerHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input registerPlayerRequest
	if !readAndValidate(w, r, &input) {
		return
	}

	if err := h.tournamentService.RegisterPlayer(r.Context(), tournamentID, input.PlayerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{"tournament_id": tournamentID, "player_id": input.PlayerID}
	if err := writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CountPlayersHandler godoc
// @Summary Количество зарегистрированных игроков
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments/{tournamentID}/players/count [get]
func (h *TournamentHandler) CountPlayersHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	count, err := h.tournamentService.CountPlayers(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"count": count}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StandingsHandler godoc
// @Summary Турнирная таблица
// @Description Порядок: больше побед выше, при равенстве меньший id игрока выше.
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/standings [get]
func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ranking, err := h.standingsService.Rank(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": ranking.Standings()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PairingsHandler godoc
// @Summary Пары следующего раунда
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Нечётное число игроков"
// @Router /tournaments/{tournamentID}/pairings [get]
func (h *TournamentHandler) PairingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	pairings, err := h.pairingService.PairNextRound(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"pairings": pairings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SnapshotHandler godoc
// @Summary Снимок турнира: таблица и журнал матчей
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} models.TournamentSnapshot
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/snapshot [get]
func (h *TournamentHandler) SnapshotHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.tournamentService.Snapshot(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, snapshot, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetHandler godoc
// @Summary Сбросить турнир
// @Description Удаляет матчи, таблицу и регистрации. Если настроено хранилище, снимок архивируется до сброса.
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID} [delete]
func (h *TournamentHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.tournamentService.ResetTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{
		"tournament_id":        tournamentID,
		"matches_removed":      len(snapshot.Matches),
		"players_unregistered": len(snapshot.Standings),
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
