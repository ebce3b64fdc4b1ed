// Package docs holds the hand-maintained Swagger document served at /swagger.
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
        "/media/videos/chunks": {
            "post": {
                "security": [{"TokenAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "Upload one video chunk",
                "parameters": [
                    {"type": "file", "description": "Chunk bytes", "name": "chunk", "in": "formData", "required": true},
                    {"type": "integer", "description": "Zero-based chunk index", "name": "chunkIndex", "in": "formData", "required": true},
                    {"type": "integer", "description": "Number of chunks", "name": "totalChunks", "in": "formData", "required": true},
                    {"type": "string", "description": "Client-chosen upload id", "name": "uploadId", "in": "formData", "required": true},
                    {"type": "string", "description": "Original filename", "name": "filename", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/media/videos/finalize": {
            "post": {
                "security": [{"TokenAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "Assemble an uploaded video",
                "parameters": [
                    {"description": "Finalize request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.FinalizeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/media/images/chunks": {
            "post": {
                "security": [{"TokenAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "Upload one image chunk",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/media/images/finalize": {
            "post": {
                "security": [{"TokenAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "Assemble an uploaded image",
                "parameters": [
                    {"description": "Finalize request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.FinalizeRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/media/uploads/{uploadId}": {
            "get": {
                "security": [{"TokenAuth": []}],
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "Upload session status",
                "parameters": [{"type": "string", "description": "Upload id", "name": "uploadId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            },
            "delete": {
                "security": [{"TokenAuth": []}],
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "Cancel an upload",
                "parameters": [{"type": "string", "description": "Upload id", "name": "uploadId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/videos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "List videos",
                "parameters": [
                    {"type": "integer", "description": "Page (1-based)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (max 50)", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/videos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "Get video by ID",
                "parameters": [{"type": "string", "description": "Video ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            },
            "put": {
                "security": [{"TokenAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "Update video metadata",
                "parameters": [
                    {"type": "string", "description": "Video ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.UpdateVideoRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            },
            "delete": {
                "security": [{"TokenAuth": []}],
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "Delete a video and its file",
                "parameters": [{"type": "string", "description": "Video ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        }
    },
    "definitions": {
        "http.FinalizeRequest": {
            "type": "object",
            "required": ["uploadId"],
            "properties": {
                "alt": {"type": "string"},
                "description": {"type": "string"},
                "filename": {"type": "string"},
                "originalFilename": {"type": "string"},
                "title": {"type": "string"},
                "totalChunks": {"type": "integer"},
                "uploadId": {"type": "string"}
            }
        },
        "http.UpdateVideoRequest": {
            "type": "object",
            "properties": {
                "alt": {"type": "string"},
                "description": {"type": "string"},
                "title": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "TokenAuth": {
            "description": "Signed token issued by the marketplace service.",
            "type": "apiKey",
            "name": "token",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8082",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Media Service API",
	Description:      "Chunked media uploads, media serving and video metadata for the estate marketplace",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
