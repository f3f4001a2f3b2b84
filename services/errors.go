package services

import (
	"errors"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/repositories"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidMatch       = errors.New("invalid match: players must differ and the winner must be one of them")
	ErrUnregisteredPlayer = errors.New("player is not registered in this tournament")
	ErrOddPlayerCount     = brackets.ErrOddPlayerCount

	// Ошибки конфликтов
	ErrRegistrationConflict = repositories.ErrRegistrationConflict

	// Ошибки аутентификации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAuthDisabled         = errors.New("organizer authentication is not configured")

	// Ресурс не найден
	ErrPlayerNotFound     = repositories.ErrPlayerNotFound
	ErrTournamentNotFound = repositories.ErrTournamentNotFound
)

// mapStoreError переводит ошибки хранилища в ошибки сервисного слоя.
func mapStoreError(err error) error {
	if errors.Is(err, repositories.ErrStandingNotFound) {
		return ErrUnregisteredPlayer
	}
	return err
}
