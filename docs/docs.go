package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Ticket Insights API",
    "description": "Natural-language questions over the support ticket warehouse",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/": {
      "get": {
        "tags": ["system"],
        "summary": "Service status",
        "produces": ["application/json"],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/StatusResponse"}}}
      }
    },
    "/healthz": {
      "get": {
        "tags": ["system"],
        "summary": "Health check",
        "produces": ["application/json"],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/StatusResponse"}},
          "503": {"description": "Warehouse unavailable", "schema": {"$ref": "#/definitions/ErrorResponse"}}
        }
      }
    },
    "/api/test": {
      "post": {
        "tags": ["query"],
        "summary": "Echo test",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [{"in": "body", "name": "request", "required": false, "schema": {"$ref": "#/definitions/QueryRequest"}}],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/TestResponse"}}}
      }
    },
    "/api/query": {
      "post": {
        "tags": ["query"],
        "summary": "Ask a question about tickets",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/QueryRequest"}}],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/QueryResponse"}},
          "400": {"description": "No usable SQL", "schema": {"$ref": "#/definitions/ErrorResponse"}},
          "408": {"description": "Query timed out", "schema": {"$ref": "#/definitions/ErrorResponse"}},
          "500": {"description": "Query failed", "schema": {"$ref": "#/definitions/ErrorResponse"}}
        }
      }
    },
    "/api/list-models": {
      "get": {
        "tags": ["system"],
        "summary": "List generative models",
        "produces": ["application/json"],
        "parameters": [{"in": "header", "name": "X-Admin-Key", "type": "string", "required": false}],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/ModelsResponse"}},
          "401": {"description": "Invalid admin key", "schema": {"$ref": "#/definitions/ErrorResponse"}},
          "502": {"description": "Upstream error", "schema": {"$ref": "#/definitions/ErrorResponse"}},
          "503": {"description": "Not configured", "schema": {"$ref": "#/definitions/ErrorResponse"}}
        }
      }
    }
  },
  "definitions": {
    "Chart": {
      "type": "object",
      "properties": {
        "labels": {"type": "array", "items": {"type": "string"}},
        "values": {"type": "array", "items": {"type": "number"}}
      }
    },
    "QueryRequest": {
      "type": "object",
      "properties": {"query": {"type": "string", "maxLength": 2000}}
    },
    "QueryResponse": {
      "type": "object",
      "properties": {
        "text": {"type": "string"},
        "chart": {"$ref": "#/definitions/Chart"},
        "data_count": {"type": "integer"},
        "raw_data": {"type": "array", "items": {"type": "object"}},
        "tickets": {"type": "array", "items": {"type": "object", "additionalProperties": {"type": "string"}}},
        "sql_executed": {"type": "string"},
        "intent": {"type": "string"},
        "timestamp": {"type": "string"}
      }
    },
    "ErrorResponse": {
      "type": "object",
      "properties": {
        "text": {"type": "string"},
        "chart": {"$ref": "#/definitions/Chart"},
        "error": {
          "type": "object",
          "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        }
      }
    },
    "StatusResponse": {
      "type": "object",
      "properties": {"status": {"type": "string"}}
    },
    "TestResponse": {
      "type": "object",
      "properties": {"text": {"type": "string"}, "chart": {"$ref": "#/definitions/Chart"}}
    },
    "ModelsResponse": {
      "type": "object",
      "properties": {
        "models": {"type": "array", "items": {"type": "string"}},
        "count": {"type": "integer"}
      }
    }
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
