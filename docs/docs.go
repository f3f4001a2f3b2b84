// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/token": {"post": {"tags": ["auth"], "summary": "Получить токен организатора", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/players": {"post": {"tags": ["players"], "summary": "Создать игрока", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}},
        "/players/{playerID}": {"get": {"tags": ["players"], "summary": "Получить игрока", "parameters": [{"type": "integer", "name": "playerID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/tournaments": {"post": {"tags": ["tournaments"], "summary": "Создать турнир", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/tournaments/{tournamentID}": {
            "get": {"tags": ["tournaments"], "summary": "Получить турнир", "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["tournaments"], "summary": "Сбросить турнир", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/tournaments/{tournamentID}/registrations": {"post": {"tags": ["tournaments"], "summary": "Зарегистрировать игрока в турнире", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}},
        "/tournaments/{tournamentID}/players/count": {"get": {"tags": ["tournaments"], "summary": "Количество зарегистрированных игроков", "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/tournaments/{tournamentID}/standings": {"get": {"tags": ["tournaments"], "summary": "Турнирная таблица", "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/tournaments/{tournamentID}/pairings": {"get": {"tags": ["tournaments"], "summary": "Пары следующего раунда", "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/tournaments/{tournamentID}/matches": {
            "get": {"tags": ["matches"], "summary": "Журнал матчей турнира", "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["matches"], "summary": "Записать результат матча", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/tournaments/{tournamentID}/snapshot": {"get": {"tags": ["tournaments"], "summary": "Снимок турнира", "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/healthz": {"get": {"tags": ["system"], "summary": "Проверка доступности", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Swiss Tournament API",
	Description:      "Standings, match results and next-round pairings for Swiss-system tournaments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
