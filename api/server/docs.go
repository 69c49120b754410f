// Package server holds the generated OpenAPI document for the broker
// link service. Regenerate with `swag init` after changing handler
// annotations.
package server

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
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/v1/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.AuthResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.Envelope"}}
                }
            }
        },
        "/v1/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in with email and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/http.Envelope"}}
                }
            }
        },
        "/v1/auth/verify": {
            "get": {
                "tags": ["auth"],
                "summary": "Validate the identity token",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VerifyResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.Envelope"}}
                }
            }
        },
        "/v1/auth/verify-account": {
            "post": {
                "tags": ["auth"],
                "summary": "Mark an account as verified",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.VerifyAccountRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.Envelope"}}
                }
            }
        },
        "/v1/broker/credentials": {
            "get": {
                "tags": ["broker"],
                "summary": "Get broker link state",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.CredentialsView"}}
                }
            },
            "put": {
                "tags": ["broker"],
                "summary": "Store Fyers credentials and exchange an auth code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.FyersCredentialsRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.CredentialsView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.Envelope"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/http.Envelope"}}
                }
            }
        },
        "/v1/broker/zerodha/credentials": {
            "get": {
                "tags": ["broker"],
                "summary": "Get Zerodha link state",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.CredentialsView"}}
                }
            },
            "put": {
                "tags": ["broker"],
                "summary": "Store Zerodha credentials and exchange a request token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.ZerodhaCredentialsRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.CredentialsView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.Envelope"}}
                }
            }
        },
        "/v1/broker/validate": {
            "post": {
                "tags": ["broker"],
                "summary": "Validate the stored broker session",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ValidateResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/http.Envelope"}}
                }
            }
        },
        "/v1/broker/clear-tokens": {
            "post": {
                "tags": ["broker"],
                "summary": "Clear stored broker sessions",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.Envelope"}}
                }
            }
        },
        "/v1/broker/verification": {
            "get": {
                "tags": ["broker"],
                "summary": "Get broker link verification status",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VerificationResponse"}}
                }
            }
        },
        "/v1/broker/settings": {
            "put": {
                "tags": ["broker"],
                "summary": "Update trading risk limits",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.RiskLimitsRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.Envelope"}}
                }
            }
        },
        "/v1/portfolio/funds": {
            "get": {
                "tags": ["portfolio"],
                "summary": "Get fund limits from the linked broker",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.FundsResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/http.Envelope"}}
                }
            }
        },
        "/v1/portfolio/positions": {
            "get": {
                "tags": ["portfolio"],
                "summary": "Get open positions from the linked broker",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.PositionsResponse"}}
                }
            }
        },
        "/v1/portfolio/holdings": {
            "get": {
                "tags": ["portfolio"],
                "summary": "Get holdings from the linked broker",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.HoldingsResponse"}}
                }
            }
        },
        "/.well-known/jwks.json": {
            "get": {
                "tags": ["discovery"],
                "summary": "Get the JSON Web Key Set",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/livez": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/readyz": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness probe",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "ready"},
                    "503": {"description": "unavailable"}
                }
            }
        }
    },
    "definitions": {
        "http.Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "http.RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "jane@example.com"},
                "name": {"type": "string", "example": "Jane Trader"},
                "password": {"type": "string"}
            }
        },
        "http.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "jane@example.com"},
                "password": {"type": "string"}
            }
        },
        "http.VerifyAccountRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "jane@example.com"}
            }
        },
        "http.UserView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "verified": {"type": "boolean"},
                "provider": {"type": "string"}
            }
        },
        "http.AuthResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/http.UserView"}
            }
        },
        "http.VerifyResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/http.UserView"}
            }
        },
        "http.FyersCredentialsRequest": {
            "type": "object",
            "properties": {
                "client_id": {"type": "string"},
                "secret_key": {"type": "string"},
                "auth_code": {"type": "string"}
            }
        },
        "http.ZerodhaCredentialsRequest": {
            "type": "object",
            "properties": {
                "api_key": {"type": "string"},
                "api_secret": {"type": "string"},
                "request_token": {"type": "string"}
            }
        },
        "http.CredentialsView": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "provider": {"type": "string"},
                "configured": {"type": "boolean"},
                "authorized": {"type": "boolean"},
                "client_id_masked": {"type": "string"},
                "client_id": {"type": "string", "description": "base64-obscured"},
                "secret_key": {"type": "string", "description": "base64-obscured"},
                "access_token": {"type": "string"},
                "refresh_token": {"type": "string"},
                "token_valid": {"type": "boolean"}
            }
        },
        "http.ValidateResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "valid": {"type": "boolean"}
            }
        },
        "http.VerificationResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "status": {"type": "string"},
                "detail": {"type": "string"},
                "authorize_url": {"type": "string"}
            }
        },
        "http.RiskLimitsRequest": {
            "type": "object",
            "properties": {
                "max_order_value": {"type": "string", "example": "250000"},
                "max_daily_loss": {"type": "string", "example": "10000"},
                "max_open_lots": {"type": "integer", "example": 10},
                "paper_trade_only": {"type": "boolean"}
            }
        },
        "http.FundsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "limits": {"type": "array", "items": {"$ref": "#/definitions/http.FundLimitView"}}
            }
        },
        "http.FundLimitView": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "equity": {"type": "string"},
                "commodity": {"type": "string"}
            }
        },
        "http.PositionsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "positions": {"type": "array", "items": {"$ref": "#/definitions/http.PositionView"}}
            }
        },
        "http.PositionView": {
            "type": "object",
            "properties": {
                "symbol": {"type": "string"},
                "quantity": {"type": "integer"},
                "avg_price": {"type": "string"},
                "pnl": {"type": "string"},
                "side": {"type": "string"},
                "product": {"type": "string"}
            }
        },
        "http.HoldingsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "holdings": {"type": "array", "items": {"$ref": "#/definitions/http.HoldingView"}}
            }
        },
        "http.HoldingView": {
            "type": "object",
            "properties": {
                "symbol": {"type": "string"},
                "isin": {"type": "string"},
                "quantity": {"type": "integer"},
                "cost_price": {"type": "string"},
                "last_price": {"type": "string"},
                "pnl": {"type": "string"}
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
	Title:            "BrokerLink API",
	Description:      "Trading account management: identity, broker credential linking and portfolio reads.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
