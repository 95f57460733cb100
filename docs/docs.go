// Package docs holds the OpenAPI description served at /swagger/*.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/events": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "List events",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "page offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.EventListResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/events/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get event",
                "parameters": [{"type": "string", "description": "event id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Event"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/links/{token}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["links"],
                "summary": "Resolve purchase link",
                "parameters": [{"type": "string", "description": "link token", "name": "token", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.LinkView"}},
                    "410": {"description": "Gone", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/orders": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Place an order",
                "parameters": [{"description": "order", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.CreateOrderInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "403": {"description": "purchase link required", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "409": {"description": "sold out or event closed", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/orders/{code}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Order status",
                "parameters": [{"type": "string", "description": "order code", "name": "code", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Order"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/orders/{code}/slip": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Upload payment slip",
                "parameters": [
                    {"type": "string", "description": "order code", "name": "code", "in": "path", "required": true},
                    {"type": "file", "description": "JPEG, PNG or PDF, at most 5 MiB", "name": "slip", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/refunds/{token}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["refunds"],
                "summary": "Refund status",
                "parameters": [{"type": "string", "description": "refund token", "name": "token", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.RefundLink"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["refunds"],
                "summary": "Submit refund details",
                "parameters": [
                    {"type": "string", "description": "refund token", "name": "token", "in": "path", "required": true},
                    {"description": "bank account", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.BankDetails"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.RefundLink"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "410": {"description": "expired", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin login",
                "parameters": [{"description": "credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/admin/events": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create event",
                "parameters": [{"description": "event", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.EventInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Event"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/admin/events/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Update event",
                "parameters": [
                    {"type": "string", "description": "event id", "name": "id", "in": "path", "required": true},
                    {"description": "event", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.EventInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Event"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/admin/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List orders",
                "parameters": [
                    {"type": "string", "description": "pending, paid, confirmed, rejected or cancelled", "name": "status", "in": "query"},
                    {"type": "string", "description": "event id", "name": "event_id", "in": "query"},
                    {"type": "integer", "default": 10, "description": "page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "page offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.OrderListResult"}}
                }
            }
        },
        "/admin/orders/{code}/confirm": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Confirm payment",
                "parameters": [{"type": "string", "description": "order code", "name": "code", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Order"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/admin/orders/{code}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Cancel order",
                "parameters": [
                    {"type": "string", "description": "order code", "name": "code", "in": "path", "required": true},
                    {"description": "reason", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/handler.reasonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.CancelResult"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/admin/links": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Generate purchase link",
                "parameters": [{"description": "link", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.generateLinkRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.GeneratedLink"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {"error": {"$ref": "#/definitions/handler.errorEnvelope"}, "request_id": {"type": "string"}}
        },
        "handler.generateLinkRequest": {
            "type": "object",
            "properties": {"event_id": {"type": "string"}, "label": {"type": "string"}, "max_uses": {"type": "integer"}, "ttl_hours": {"type": "integer"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {"password": {"type": "string"}}
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {"expires_at": {"type": "string"}, "token": {"type": "string"}}
        },
        "handler.reasonRequest": {
            "type": "object",
            "properties": {"reason": {"type": "string"}}
        },
        "model.BankDetails": {
            "type": "object",
            "properties": {"account_name": {"type": "string"}, "account_number": {"type": "string"}, "bank_name": {"type": "string"}}
        },
        "model.Event": {
            "type": "object",
            "properties": {
                "available_seats": {"type": "integer"},
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "price": {"type": "integer"},
                "requires_link": {"type": "boolean"},
                "starts_at": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "closed"]},
                "title": {"type": "string"},
                "total_seats": {"type": "integer"},
                "updated_at": {"type": "string"},
                "venue": {"type": "string"}
            }
        },
        "model.GeneratedLink": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "event_id": {"type": "string"},
                "expires_at": {"type": "string"},
                "label": {"type": "string"},
                "max_uses": {"type": "integer"},
                "revoked": {"type": "boolean"},
                "token": {"type": "string"},
                "used_count": {"type": "integer"}
            }
        },
        "model.Order": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "created_at": {"type": "string"},
                "customer_name": {"type": "string"},
                "email": {"type": "string"},
                "event_id": {"type": "string"},
                "has_slip": {"type": "boolean"},
                "id": {"type": "string"},
                "paid_at": {"type": "string"},
                "phone": {"type": "string"},
                "quantity": {"type": "integer"},
                "reject_reason": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "paid", "confirmed", "rejected", "cancelled"]},
                "total_amount": {"type": "integer"},
                "unit_price": {"type": "integer"},
                "updated_at": {"type": "string"}
            }
        },
        "model.RefundLink": {
            "type": "object",
            "properties": {
                "account_name": {"type": "string"},
                "account_number": {"type": "string"},
                "amount": {"type": "integer"},
                "bank_name": {"type": "string"},
                "completed_at": {"type": "string"},
                "created_at": {"type": "string"},
                "expires_at": {"type": "string"},
                "order_code": {"type": "string"},
                "status": {"type": "string", "enum": ["open", "submitted", "completed"]},
                "submitted_at": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "service.CancelResult": {
            "type": "object",
            "properties": {"order": {"$ref": "#/definitions/model.Order"}, "refund": {"$ref": "#/definitions/model.RefundLink"}}
        },
        "service.CreateOrderInput": {
            "type": "object",
            "properties": {
                "customer_name": {"type": "string"},
                "email": {"type": "string"},
                "event_id": {"type": "string"},
                "link_token": {"type": "string"},
                "phone": {"type": "string"},
                "quantity": {"type": "integer"}
            }
        },
        "service.EventInput": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "price": {"type": "integer"},
                "requires_link": {"type": "boolean"},
                "starts_at": {"type": "string"},
                "title": {"type": "string"},
                "total_seats": {"type": "integer"},
                "venue": {"type": "string"}
            }
        },
        "service.EventListResult": {
            "type": "object",
            "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/model.Event"}}, "total": {"type": "integer"}}
        },
        "service.LinkView": {
            "type": "object",
            "properties": {"event": {"$ref": "#/definitions/model.Event"}, "expires_at": {"type": "string"}, "remaining": {"type": "integer"}, "token": {"type": "string"}}
        },
        "service.OrderListResult": {
            "type": "object",
            "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/model.Order"}}, "total": {"type": "integer"}}
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
	Title:            "Ticket API",
	Description:      "Event ticket sales with payment slip review and admin notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
