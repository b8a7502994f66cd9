package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Bizon Consulting Backend",
    "description": "Commercial-district analysis and startup consulting API",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/healthz": {
      "get": {
        "tags": ["system"],
        "summary": "Health check",
        "produces": ["application/json"],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/api/analysis": {
      "post": {
        "tags": ["analysis"],
        "summary": "Commercial-district analysis",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [
          {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.AnalysisRequest"}}
        ],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AnalysisResult"}},
          "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
          "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
        }
      }
    },
    "/api/consulting": {
      "post": {
        "tags": ["consulting"],
        "summary": "Startup consulting",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [
          {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ConsultingRequest"}}
        ],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ConsultingResult"}},
          "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
        }
      }
    },
    "/api/consulting/chat": {
      "post": {
        "tags": ["consulting"],
        "summary": "Consulting chat",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [
          {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ChatRequest"}}
        ],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ChatResponse"}},
          "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
        }
      }
    },
    "/api/public-config": {
      "get": {
        "tags": ["system"],
        "summary": "Public configuration for the presentation layer",
        "produces": ["application/json"],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/api/industries": {
      "get": {
        "tags": ["analysis"],
        "summary": "Industry menu with provider codes",
        "produces": ["application/json"],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/api/debug/upstream": {
      "post": {
        "tags": ["debug"],
        "summary": "Probe one open-data endpoint",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [
          {"in": "header", "name": "X-Admin-Key", "type": "string", "required": false},
          {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpstreamProbeRequest"}}
        ],
        "responses": {
          "200": {"description": "OK"},
          "401": {"description": "Unauthorized"},
          "502": {"description": "Bad Gateway"}
        }
      }
    }
  },
  "definitions": {
    "handlers.ErrorResponse": {
      "type": "object",
      "properties": {
        "error": {
          "type": "object",
          "properties": {
            "code": {"type": "string"},
            "message": {"type": "string"},
            "details": {}
          }
        }
      }
    },
    "handlers.AnalysisRequest": {
      "type": "object",
      "required": ["address", "industry"],
      "properties": {
        "address": {"type": "string"},
        "industry": {"type": "string"}
      }
    },
    "handlers.ConsultingRequest": {
      "type": "object",
      "required": ["budget", "location", "industry"],
      "properties": {
        "budget": {"type": "string"},
        "location": {"type": "string"},
        "industry": {"type": "string"},
        "experience": {"type": "string"},
        "goals": {"type": "string"}
      }
    },
    "handlers.ChatRequest": {
      "type": "object",
      "required": ["messages"],
      "properties": {
        "messages": {"type": "array", "items": {"$ref": "#/definitions/models.ChatMessage"}},
        "context": {"$ref": "#/definitions/models.ConsultingInput"}
      }
    },
    "handlers.ChatResponse": {
      "type": "object",
      "properties": {"message": {"type": "string"}}
    },
    "handlers.UpstreamProbeRequest": {
      "type": "object",
      "required": ["endpoint"],
      "properties": {
        "endpoint": {"type": "string"},
        "address": {"type": "string"},
        "industry": {"type": "string"},
        "analyNo": {"type": "string"},
        "params": {"type": "object", "additionalProperties": {"type": "string"}}
      }
    },
    "models.ChatMessage": {
      "type": "object",
      "properties": {"role": {"type": "string"}, "content": {"type": "string"}}
    },
    "models.ConsultingInput": {
      "type": "object",
      "properties": {
        "budget": {"type": "string"},
        "location": {"type": "string"},
        "industry": {"type": "string"},
        "experience": {"type": "string"},
        "goals": {"type": "string"}
      }
    },
    "models.AnalysisResult": {
      "type": "object",
      "properties": {
        "coordinates": {"type": "object"},
        "traffic": {"type": "object"},
        "competition": {"type": "object"},
        "sales": {"type": "object"},
        "growth": {"type": "object"},
        "climateScore": {"type": "integer"},
        "recommendations": {"type": "array", "items": {"type": "string"}},
        "codes": {"type": "object"},
        "dataSource": {"type": "string", "enum": ["real", "demo"]}
      }
    },
    "models.ConsultingResult": {
      "type": "object",
      "properties": {
        "feasibilityScore": {"type": "integer"},
        "feasibilityComment": {"type": "string"},
        "recommendedItems": {"type": "array", "items": {"type": "object"}},
        "budgetBreakdown": {"type": "array", "items": {"type": "object"}},
        "availableSupports": {"type": "array", "items": {"type": "object"}},
        "keyAdvice": {"type": "array", "items": {"type": "string"}}
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
