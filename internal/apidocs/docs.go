// Package apidocs registers the OpenAPI document of the generation server
// with swag so that /swagger/ can serve it.
package apidocs

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
        "/api/generate": {
            "post": {
                "description": "Streams a generated HTML page as plain text. An empty currentContext requests the first page of a session; otherwise the next page reached by the action in prompt. The body is relayed unsanitized. A failure after streaming began aborts the connection.",
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["Generation"],
                "summary": "Generate a page",
                "parameters": [
                    {
                        "description": "Generation request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/generate.Request"}
                    }
                ],
                "responses": {
                    "200": {"description": "Raw page markup", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/api/images/search": {
            "get": {
                "description": "Relays a Pixabay image search. per_page is raised to at least 3; safesearch is always on.",
                "produces": ["application/json"],
                "tags": ["Images"],
                "summary": "Search images",
                "parameters": [
                    {"type": "string", "description": "Search terms", "name": "q", "in": "query", "required": true},
                    {"type": "string", "description": "all, photo, illustration, vector (default: photo)", "name": "image_type", "in": "query"},
                    {"type": "integer", "description": "Results per page, minimum 3 (default: 3)", "name": "per_page", "in": "query"},
                    {"type": "integer", "description": "Page number (default: 1)", "name": "page", "in": "query"},
                    {"type": "string", "description": "horizontal or vertical", "name": "orientation", "in": "query"},
                    {"type": "string", "description": "Pixabay category", "name": "category", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/images.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/api/v1/generations": {
            "get": {
                "description": "Returns recorded generations, newest first.",
                "produces": ["application/json"],
                "tags": ["Generation"],
                "summary": "List generations",
                "parameters": [
                    {"type": "string", "description": "Filter by session ID", "name": "session_id", "in": "query"},
                    {"type": "string", "description": "initial or navigation", "name": "kind", "in": "query"},
                    {"type": "boolean", "description": "Filter by outcome", "name": "success", "in": "query"},
                    {"type": "string", "description": "Events after this time (RFC 3339)", "name": "start_time", "in": "query"},
                    {"type": "string", "description": "Events before this time (RFC 3339)", "name": "end_time", "in": "query"},
                    {"type": "integer", "description": "Maximum events (default: 50, max: 1000)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Events to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.generationListResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.errorResponse": {
            "type": "object",
            "properties": {
                "details": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "api.generationListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/audit.Event"}},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"}
            }
        },
        "audit.Event": {
            "type": "object",
            "properties": {
                "cached_pages": {"type": "integer"},
                "duration_ms": {"type": "integer"},
                "error_message": {"type": "string"},
                "fragments": {"type": "integer"},
                "id": {"type": "string"},
                "keyword": {"type": "string"},
                "kind": {"type": "string"},
                "model": {"type": "string"},
                "prompt_chars": {"type": "integer"},
                "request_id": {"type": "string"},
                "response_chars": {"type": "integer"},
                "session_id": {"type": "string"},
                "success": {"type": "boolean"},
                "timestamp": {"type": "string"}
            }
        },
        "generate.Request": {
            "type": "object",
            "properties": {
                "cachedPages": {"type": "array", "items": {"type": "string"}},
                "currentContext": {"type": "string"},
                "prompt": {"type": "string"},
                "sessionId": {"type": "string"}
            }
        },
        "images.Hit": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "imageHeight": {"type": "integer"},
                "imageWidth": {"type": "integer"},
                "largeImageURL": {"type": "string"},
                "previewURL": {"type": "string"},
                "tags": {"type": "string"},
                "webformatURL": {"type": "string"}
            }
        },
        "images.Result": {
            "type": "object",
            "properties": {
                "hits": {"type": "array", "items": {"$ref": "#/definitions/images.Hit"}},
                "total": {"type": "integer"},
                "totalHits": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "DreamRender API",
	Description:      "On-demand generation of an infinite, navigable website.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
