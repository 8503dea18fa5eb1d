// Package docs holds the OpenAPI description served under /swagger/.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/events": {
            "get": {"tags": ["events"], "summary": "List events", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "query", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "start_date", "in": "query"},
                    {"type": "string", "name": "end_date", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Create an event",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateEventRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/events/{eventID}": {
            "get": {"tags": ["events"], "summary": "Get an event",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Update event details",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Delete an event",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/events/{eventID}/image": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Upload the event image",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "eventID", "in": "path", "required": true},
                    {"type": "file", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/events/{eventID}/rsvp": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["rsvp"], "summary": "RSVP to an event",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Already registered"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["rsvp"], "summary": "Cancel an RSVP",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not registered"}}}
        },
        "/dashboard": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Role-based dashboard",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/categories": {
            "get": {"tags": ["categories"], "summary": "List categories with event counts",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Create a category",
                "parameters": [{"name": "category", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CategoryRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Name taken"}}}
        },
        "/categories/{categoryID}": {
            "get": {"tags": ["categories"], "summary": "Get a category",
                "parameters": [{"type": "string", "name": "categoryID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Update a category",
                "parameters": [{"type": "string", "name": "categoryID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Delete a category",
                "parameters": [{"type": "string", "name": "categoryID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/health": {"get": {"tags": ["system"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/ready": {"get": {"tags": ["system"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Unavailable"}}}}
    },
    "definitions": {
        "helpers.APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}},
        "helpers.APIResponse": {"type": "object", "properties": {"data": {}, "error": {"$ref": "#/definitions/helpers.APIError"}}},
        "controllers.CreateEventRequest": {"type": "object", "properties": {
            "name": {"type": "string"}, "description": {"type": "string"},
            "date": {"type": "string", "example": "2025-06-01"}, "time": {"type": "string", "example": "18:30"},
            "location": {"type": "string"}, "category_id": {"type": "string"}}},
        "controllers.CategoryRequest": {"type": "object", "properties": {
            "name": {"type": "string"}, "description": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Event Hub API",
	Description:      "Events, categories, RSVPs and role-based dashboards. Uploaded event images are normalized to WebP.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
