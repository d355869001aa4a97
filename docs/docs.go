// Package docs registers the OpenAPI description served at /swagger/.
// Regenerate with: swag init -g cmd/checkin/main.go -o docs
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
        "/attendees": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["attendees"],
                "summary": "Register an attendee",
                "parameters": [
                    {"description": "Registration form", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "409": {"description": "error.code: conflict (email or dni already registered)", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/attendees/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["attendees"],
                "summary": "Get an attendee",
                "parameters": [{"type": "integer", "description": "Attendee ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/attendees/{id}/qr.png": {
            "get": {
                "produces": ["image/png"],
                "tags": ["attendees"],
                "summary": "Attendee QR code",
                "parameters": [
                    {"type": "integer", "description": "Attendee ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Image size in pixels (default 256, max 1024)", "name": "size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/talks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["talks"],
                "summary": "List talks",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}
            }
        },
        "/checkin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checkin"],
                "summary": "General check-in",
                "parameters": [{"description": "Scanned QR content", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ScanRequest"}}],
                "responses": {
                    "200": {"description": "data.status is ok or failed", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "error.code: service_unavailable", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/checkin/lookup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checkin"],
                "summary": "Identify a QR code",
                "parameters": [{"description": "Scanned QR content", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ScanRequest"}}],
                "responses": {"200": {"description": "data.status is ok or failed", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}
            }
        },
        "/talks/{talkID}/checkin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checkin"],
                "summary": "Talk check-in",
                "parameters": [
                    {"type": "integer", "description": "Talk ID", "name": "talkID", "in": "path", "required": true},
                    {"description": "Scanned QR content", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ScanRequest"}}
                ],
                "responses": {"200": {"description": "data.status is ok or failed", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Administrator login",
                "parameters": [{"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/admin/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Dashboard statistics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}
            }
        },
        "/admin/exports/report": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["admin"],
                "summary": "Export the general report",
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "data.status: ok", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}
            }
        }
    },
    "definitions": {
        "controllers.RegisterRequest": {
            "type": "object",
            "required": ["company", "dni", "email", "name"],
            "properties": {
                "company": {"type": "string"},
                "dni": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "talk_ids": {"type": "array", "items": {"type": "integer"}},
                "title": {"type": "string"}
            }
        },
        "controllers.ScanRequest": {
            "type": "object",
            "properties": {"code": {"type": "string"}}
        },
        "controllers.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {"data": {}, "error": {"$ref": "#/definitions/helpers.APIError"}}
        }
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
	Title:            "QR Check-in API",
	Description:      "Event registration and QR code check-in.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
