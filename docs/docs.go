// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag/v2"

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
				"description": "Report liveness and the reachability of the database",
				"produces": [
					"application/json"
				],
				"tags": [
					"system"
				],
				"summary": "Health check",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.HealthResponse"
						}
					},
					"503": {
						"description": "Service Unavailable",
						"schema": {
							"$ref": "#/definitions/handler.HealthResponse"
						}
					}
				}
			}
		},
		"/auth/signup": {
			"post": {
				"description": "Create an account. Usernames are unique.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Sign up",
				"parameters": [
					{
						"description": "Account",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.SignupRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handler.SignupResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/login": {
			"post": {
				"description": "Verify the credentials and set the session cookie",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Log in",
				"parameters": [
					{
						"description": "Credentials",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.LoginRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handler.LoginResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/logout": {
			"post": {
				"description": "Revoke the session token and clear the cookie",
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Log out",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.MessageResponse"
						}
					}
				}
			}
		},
		"/auth/protected": {
			"get": {
				"description": "Greet the user owning the session cookie",
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Session check",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.MessageResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/payers": {
			"get": {
				"description": "List payers, optionally filtered by a case-insensitive name fragment",
				"produces": [
					"application/json"
				],
				"tags": [
					"payers"
				],
				"summary": "List payers",
				"parameters": [
					{
						"type": "string",
						"description": "Name fragment",
						"name": "name",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.PayerListResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"description": "Register a payer",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"payers"
				],
				"summary": "Create payer",
				"parameters": [
					{
						"description": "Payer",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.CreatePayerRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handler.PayerResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/payers/{id}": {
			"get": {
				"description": "Get a payer by ID",
				"produces": [
					"application/json"
				],
				"tags": [
					"payers"
				],
				"summary": "Get payer",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.PayerResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"description": "Update the supplied fields. Omitted and null fields are left unchanged.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"payers"
				],
				"summary": "Update payer",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Fields to change",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.UpdatePayerRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.PayerResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			},
			"patch": {
				"description": "Update the supplied fields. Omitted and null fields are left unchanged.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"payers"
				],
				"summary": "Update payer",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Fields to change",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.UpdatePayerRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.PayerResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"description": "Delete a payer that no order references",
				"tags": [
					"payers"
				],
				"summary": "Delete payer",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"406": {
						"description": "Not Acceptable",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/orders": {
			"get": {
				"description": "List invoice orders, optionally filtered by a case-insensitive payer name fragment",
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "List orders",
				"parameters": [
					{
						"type": "string",
						"description": "Payer name fragment",
						"name": "payer_name",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.OrderListResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"description": "Create an invoice order",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Create order",
				"parameters": [
					{
						"description": "Order",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.CreateOrderRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handler.OrderResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/orders/file": {
			"post": {
				"description": "Import the orders of an HTML bank statement and number them",
				"consumes": [
					"multipart/form-data"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Upload bank statement",
				"parameters": [
					{
						"type": "file",
						"description": "Bank statement",
						"name": "file",
						"in": "formData",
						"required": true
					},
					{
						"type": "string",
						"description": "Invoice code prefix",
						"name": "code_fixed_part",
						"in": "formData"
					},
					{
						"type": "integer",
						"description": "First invoice number",
						"name": "code_starting_number",
						"in": "formData"
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/handler.OrderListResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"413": {
						"description": "Request Entity Too Large",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/orders/{id}": {
			"get": {
				"description": "Get an order by ID",
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Get order",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.OrderResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"description": "Update the supplied fields. Omitted and null fields are left unchanged.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Update order",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Fields to change",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.UpdateOrderRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.OrderResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			},
			"patch": {
				"description": "Update the supplied fields. Omitted and null fields are left unchanged.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Update order",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Fields to change",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.UpdateOrderRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.OrderResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"description": "Delete an order",
				"tags": [
					"orders"
				],
				"summary": "Delete order",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/invoices": {
			"get": {
				"description": "Build the data printed on the invoice of an order",
				"produces": [
					"application/json"
				],
				"tags": [
					"invoices"
				],
				"summary": "Invoice context",
				"parameters": [
					{
						"type": "string",
						"description": "Order number",
						"name": "number",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.InvoiceContextResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/pdfs": {
			"get": {
				"description": "Render the invoice of an order as a PDF attachment",
				"produces": [
					"application/pdf"
				],
				"tags": [
					"invoices"
				],
				"summary": "Invoice PDF",
				"parameters": [
					{
						"type": "string",
						"description": "Order number",
						"name": "number",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "file"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"dto.ErrorInfo": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"request_id": {
					"type": "string"
				},
				"details": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.ValidationDetail"
					}
				}
			}
		},
		"dto.ValidationDetail": {
			"type": "object",
			"properties": {
				"field": {
					"type": "string"
				},
				"message": {
					"type": "string"
				}
			}
		},
		"dto.MessageData": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string",
					"example": "Payer deleted successfully"
				}
			}
		},
		"dto.CreatePayerRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string",
					"maxLength": 200,
					"example": "ANA GARCIA LOPEZ"
				},
				"nif": {
					"type": "string",
					"maxLength": 50
				},
				"address": {
					"type": "string",
					"maxLength": 300
				},
				"zip_code": {
					"type": "string",
					"maxLength": 20
				},
				"city": {
					"type": "string",
					"maxLength": 100
				},
				"province": {
					"type": "string",
					"maxLength": 100
				}
			},
			"required": [
				"name"
			]
		},
		"dto.UpdatePayerRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"nif": {
					"type": "string"
				},
				"address": {
					"type": "string"
				},
				"zip_code": {
					"type": "string"
				},
				"city": {
					"type": "string"
				},
				"province": {
					"type": "string"
				}
			}
		},
		"dto.CreateOrderRequest": {
			"type": "object",
			"properties": {
				"payer_name": {
					"type": "string",
					"example": "ANA GARCIA LOPEZ"
				},
				"date": {
					"type": "string",
					"example": "2024-01-31"
				},
				"quantity": {
					"type": "number",
					"example": 150
				},
				"number": {
					"type": "string",
					"example": "TEST-0001"
				}
			}
		},
		"dto.UpdateOrderRequest": {
			"type": "object",
			"properties": {
				"payer_name": {
					"type": "string"
				},
				"date": {
					"type": "string"
				},
				"quantity": {
					"type": "number"
				},
				"number": {
					"type": "string"
				}
			}
		},
		"dto.SignupRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string",
					"minLength": 3,
					"maxLength": 100
				},
				"password": {
					"type": "string",
					"minLength": 8,
					"maxLength": 72
				},
				"nif": {
					"type": "string"
				},
				"address": {
					"type": "string"
				},
				"zip_code": {
					"type": "string"
				},
				"city": {
					"type": "string"
				},
				"province": {
					"type": "string"
				},
				"email": {
					"type": "string"
				}
			},
			"required": [
				"password",
				"username"
			]
		},
		"dto.LoginRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			},
			"required": [
				"password",
				"username"
			]
		},
		"dto.UserResponse": {
			"type": "object",
			"properties": {
				"public_id": {
					"type": "string"
				},
				"username": {
					"type": "string"
				},
				"nif": {
					"type": "string"
				},
				"email": {
					"type": "string"
				}
			}
		},
		"dto.SignupResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string",
					"example": "registered successfully"
				},
				"user": {
					"$ref": "#/definitions/dto.UserResponse"
				}
			}
		},
		"dto.LoginResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string",
					"example": "Login successful"
				},
				"expires_at": {
					"type": "integer"
				},
				"user": {
					"$ref": "#/definitions/dto.UserResponse"
				}
			}
		},
		"invoicing.PayerView": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"nif": {
					"type": "string"
				},
				"address": {
					"type": "string"
				},
				"zip_code": {
					"type": "string"
				},
				"city": {
					"type": "string"
				},
				"province": {
					"type": "string"
				},
				"id": {
					"type": "string",
					"format": "uuid"
				}
			}
		},
		"invoicing.OrderView": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string",
					"format": "uuid"
				},
				"payer_name": {
					"type": "string"
				},
				"date": {
					"type": "string"
				},
				"quantity": {
					"type": "number"
				},
				"number": {
					"type": "string"
				},
				"payer_id": {
					"type": "string",
					"format": "uuid"
				}
			}
		},
		"invoicing.Line": {
			"type": "object",
			"properties": {
				"units": {
					"type": "number"
				},
				"price": {
					"type": "number"
				},
				"subtotal": {
					"type": "number"
				}
			}
		},
		"invoicing.PayerList": {
			"type": "object",
			"properties": {
				"payers": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/invoicing.PayerView"
					}
				}
			}
		},
		"invoicing.OrderList": {
			"type": "object",
			"properties": {
				"orders": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/invoicing.OrderView"
					}
				}
			}
		},
		"invoicing.InvoiceContext": {
			"type": "object",
			"properties": {
				"invoice_number": {
					"type": "string"
				},
				"invoice_date": {
					"type": "string"
				},
				"client_name": {
					"type": "string"
				},
				"client_address": {
					"type": "string"
				},
				"client_zip_code": {
					"type": "string"
				},
				"client_city": {
					"type": "string"
				},
				"client_province": {
					"type": "string"
				},
				"client_nif": {
					"type": "string"
				},
				"professional_name": {
					"type": "string"
				},
				"professional_address": {
					"type": "string"
				},
				"professional_zip_code": {
					"type": "string"
				},
				"professional_city": {
					"type": "string"
				},
				"professional_province": {
					"type": "string"
				},
				"professional_nif": {
					"type": "string"
				},
				"professional_email": {
					"type": "string"
				},
				"total_bi": {
					"type": "string"
				},
				"discount_qty": {
					"type": "string"
				},
				"iva_qty": {
					"type": "string"
				},
				"irpf_qty": {
					"type": "string"
				},
				"Total_a_pagar": {
					"type": "string"
				},
				"logo_path": {
					"type": "string"
				},
				"order_lines": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/invoicing.Line"
					}
				}
			}
		},
		"handler.HealthData": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string",
					"example": "ok"
				},
				"checks": {
					"type": "object",
					"additionalProperties": {
						"type": "string"
					}
				},
				"time": {
					"type": "string"
				}
			}
		},
		"handler.ErrorResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": false
				},
				"error": {
					"$ref": "#/definitions/dto.ErrorInfo"
				}
			}
		},
		"handler.PayerResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"data": {
					"$ref": "#/definitions/invoicing.PayerView"
				}
			}
		},
		"handler.PayerListResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"data": {
					"$ref": "#/definitions/invoicing.PayerList"
				}
			}
		},
		"handler.OrderResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"data": {
					"$ref": "#/definitions/invoicing.OrderView"
				}
			}
		},
		"handler.OrderListResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"data": {
					"$ref": "#/definitions/invoicing.OrderList"
				}
			}
		},
		"handler.InvoiceContextResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"data": {
					"$ref": "#/definitions/invoicing.InvoiceContext"
				}
			}
		},
		"handler.MessageResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"data": {
					"$ref": "#/definitions/dto.MessageData"
				}
			}
		},
		"handler.SignupResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"data": {
					"$ref": "#/definitions/dto.SignupResponse"
				}
			}
		},
		"handler.LoginResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"data": {
					"$ref": "#/definitions/dto.LoginResponse"
				}
			}
		},
		"handler.HealthResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean",
					"example": true
				},
				"data": {
					"$ref": "#/definitions/handler.HealthData"
				}
			}
		}
	},
	"securityDefinitions": {
		"CookieAuth": {
			"type": "apiKey",
			"name": "token",
			"in": "cookie"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Facturator API",
	Description:      "Invoicing back office: payers, invoice orders, bank statement import and PDF invoices.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
