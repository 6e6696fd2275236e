// Package docs registers the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Issue an operator token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.LoginInput"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/services.TokenResult"}}, "401": {"description": "Unauthorized"}}
            }
        },
        "/tournaments": {
            "get": {"tags": ["tournaments"], "summary": "List stored tournaments", "responses": {"200": {"description": "OK"}}},
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Create a tournament and draw the regional qualifiers",
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.CreateTournamentInput"}}],
                "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {
                "tags": ["tournaments"],
                "summary": "Get the full tournament aggregate",
                "parameters": [{"type": "string", "in": "path", "name": "tournamentID", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Delete a tournament and its records",
                "parameters": [{"type": "string", "in": "path", "name": "tournamentID", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/tournaments/{tournamentID}/qualifiers": {
            "get": {
                "tags": ["tournaments"],
                "summary": "List the qualifier groups, optionally of one region",
                "parameters": [
                    {"type": "string", "in": "path", "name": "tournamentID", "required": true},
                    {"type": "string", "in": "query", "name": "region", "required": false}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/tournaments/{tournamentID}/groups/{groupID}/matches/{matchID}/result": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["results"],
                "summary": "Record a group match result",
                "parameters": [
                    {"type": "string", "in": "path", "name": "tournamentID", "required": true},
                    {"type": "string", "in": "path", "name": "groupID", "required": true},
                    {"type": "string", "in": "path", "name": "matchID", "required": true},
                    {"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.GroupResultInput"}}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/tournaments/{tournamentID}/groups/{groupID}/matches/{matchID}/simulate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["simulation"],
                "summary": "Simulate one group match with the match-outcome service",
                "parameters": [
                    {"type": "string", "in": "path", "name": "tournamentID", "required": true},
                    {"type": "string", "in": "path", "name": "groupID", "required": true},
                    {"type": "string", "in": "path", "name": "matchID", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/tournaments/{tournamentID}/knockout/matches/{matchID}/result": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["results"],
                "summary": "Record a knockout match result",
                "parameters": [
                    {"type": "string", "in": "path", "name": "tournamentID", "required": true},
                    {"type": "string", "in": "path", "name": "matchID", "required": true},
                    {"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.KnockoutResultInput"}}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}
            }
        }
    },
    "definitions": {
        "services.LoginInput": {"type": "object", "properties": {"password": {"type": "string"}}},
        "services.TokenResult": {"type": "object", "properties": {"token": {"type": "string"}, "expires_at": {"type": "string"}}},
        "services.CreateTournamentInput": {"type": "object", "properties": {"name": {"type": "string"}, "team_ids": {"type": "array", "items": {"type": "string"}}}},
        "services.GroupResultInput": {"type": "object", "properties": {"home_score": {"type": "integer"}, "away_score": {"type": "integer"}}},
        "services.KnockoutResultInput": {"type": "object", "properties": {
            "home_score": {"type": "integer"},
            "away_score": {"type": "integer"},
            "penalties": {"type": "object", "properties": {"home": {"type": "integer"}, "away": {"type": "integer"}}}
        }}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cup Simulator API",
	Description:      "Qualifiers, World Cup groups and knockout bracket of a simulated national-team cup.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
