// Package docs registers the OpenAPI document served at /swagger/doc.json
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
        "/v1/questions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List the question bank",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.QuestionsResponse"}}
                }
            }
        },
        "/v1/levels": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List severity bands and their guidance",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/v1/levels/{level}/recommendations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Recommendations for one severity level",
                "parameters": [
                    {"type": "string", "description": "minimal, mild, moderate or severe", "name": "level", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/crisis-contacts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Crisis helplines",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/v1/score": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["screening"],
                "summary": "Score a complete answer list without a session",
                "parameters": [
                    {"description": "answers in question order", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ScoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ResultView"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/sessions": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Start a screening session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.StartSessionResponse"}}
                }
            }
        },
        "/v1/sessions/{id}": {
            "get": {
                "security": [{"SessionToken": []}],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Session progress",
                "parameters": [
                    {"type": "string", "description": "session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/sessions/{id}/answers/{questionId}": {
            "put": {
                "security": [{"SessionToken": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Answer one question",
                "parameters": [
                    {"type": "string", "description": "session ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "question ID", "name": "questionId", "in": "path", "required": true},
                    {"description": "chosen option value", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.SubmitAnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SubmitAnswerResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/sessions/{id}/result": {
            "get": {
                "security": [{"SessionToken": []}],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Result of a complete session",
                "parameters": [
                    {"type": "string", "description": "session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ResultView"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/sessions/{id}/reset": {
            "post": {
                "security": [{"SessionToken": []}],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Discard all answers and start over",
                "parameters": [
                    {"type": "string", "description": "session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionView"}}
                }
            }
        },
        "/v1/results/summary": {
            "get": {
                "security": [{"AdminKey": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Archived results per level",
                "parameters": [
                    {"type": "integer", "description": "number of recent results", "name": "recent", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ResultSummary"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "screening.Option": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "value": {"type": "integer"}
            }
        },
        "screening.Question": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "prompt": {"type": "string"},
                "options": {"type": "array", "items": {"$ref": "#/definitions/screening.Option"}}
            }
        },
        "model.CrisisContact": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "contact": {"type": "string"},
                "description": {"type": "string"},
                "type": {"type": "string"},
                "link": {"type": "string"}
            }
        },
        "model.QuestionsResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "disclaimer": {"type": "string"},
                "maxScore": {"type": "integer"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/screening.Question"}}
            }
        },
        "model.ScoreRequest": {
            "type": "object",
            "properties": {
                "answers": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "model.ResultView": {
            "type": "object",
            "properties": {
                "score": {"type": "integer"},
                "maxScore": {"type": "integer"},
                "level": {"type": "string", "enum": ["minimal", "mild", "moderate", "severe"]},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "color": {"type": "string"},
                "recommendations": {"type": "array", "items": {"type": "string"}},
                "crisisContacts": {"type": "array", "items": {"$ref": "#/definitions/model.CrisisContact"}}
            }
        },
        "model.StartSessionResponse": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "token": {"type": "string"},
                "expiresAt": {"type": "string", "format": "date-time"},
                "totalQuestions": {"type": "integer"}
            }
        },
        "model.SessionView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string", "enum": ["in_progress", "complete"]},
                "answeredCount": {"type": "integer"},
                "totalQuestions": {"type": "integer"},
                "answers": {"type": "object", "additionalProperties": {"type": "integer"}},
                "startedAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"},
                "completedAt": {"type": "string", "format": "date-time"}
            }
        },
        "model.SubmitAnswerRequest": {
            "type": "object",
            "properties": {
                "value": {"type": "integer"}
            }
        },
        "model.SubmitAnswerResponse": {
            "type": "object",
            "properties": {
                "session": {"$ref": "#/definitions/model.SessionView"},
                "result": {"$ref": "#/definitions/model.ResultView"}
            }
        },
        "model.LevelCount": {
            "type": "object",
            "properties": {
                "level": {"type": "string"},
                "count": {"type": "integer"}
            }
        },
        "model.ResultSummary": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "levels": {"type": "array", "items": {"$ref": "#/definitions/model.LevelCount"}},
                "recent": {"type": "array", "items": {"type": "object"}}
            }
        }
    },
    "securityDefinitions": {
        "SessionToken": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "AdminKey": {"type": "apiKey", "name": "X-Admin-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "MindWell Screening API",
	Description:      "Mental health screening questionnaire scoring with per-caller sessions",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
