package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutor Platform API",
        "description": "Tutoring contracts, session calendars, daily reports and progress forecasting",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and token management"},
        {"name": "Contracts", "description": "Tutoring contracts and session generation"},
        {"name": "Sessions", "description": "Per-session status and rescheduling"},
        {"name": "Reports", "description": "Tutor daily reports"},
        {"name": "Progress", "description": "Unit progress and completion forecasting"},
        {"name": "Units", "description": "Curriculum unit management"},
        {"name": "Wallet", "description": "Wallet ledger"},
        {"name": "Support", "description": "Support tickets"},
        {"name": "Statistics", "description": "Platform statistics"},
        {"name": "Exports", "description": "Asynchronous calendar/progress exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contracts": {
            "get": {
                "tags": ["Contracts"],
                "summary": "List all contracts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Contracts"],
                "summary": "Create contract and generate session calendar",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateContractRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload or status"}
                }
            }
        },
        "/contracts/mine": {
            "get": {
                "tags": ["Contracts"],
                "summary": "List own contracts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contracts/{id}/status": {
            "patch": {
                "tags": ["Contracts"],
                "summary": "Apply lifecycle transition",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"status": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid status or illegal transition"},
                    "404": {"description": "Contract not found"}
                }
            }
        },
        "/contracts/{id}/tutor": {
            "put": {
                "tags": ["Contracts"],
                "summary": "Assign main tutor and regenerate sessions",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"main_tutor_id": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contracts/{id}/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List contract sessions in date order",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contracts/{id}/progress": {
            "get": {
                "tags": ["Progress"],
                "summary": "Aggregate daily reports into per-unit progress",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Contract, child or sessions missing"}
                }
            }
        },
        "/sessions/{id}/status": {
            "patch": {
                "tags": ["Sessions"],
                "summary": "Mark session completed or cancelled",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"status": {"type": "string"}}}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/sessions/{id}/reschedule": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Move session within allowance",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RescheduleSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Reschedule allowance exhausted"}
                }
            }
        },
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Create daily report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDailyReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Report already exists for session"}
                }
            }
        },
        "/children/{id}/forecast": {
            "get": {
                "tags": ["Progress"],
                "summary": "Project curriculum completion",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No learning history for child"}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue an export job",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CreateContractRequest": {
            "type": "object",
            "properties": {
                "parent_id": {"type": "string"},
                "child_id": {"type": "string"},
                "package_id": {"type": "string"},
                "start_date": {"type": "string", "example": "2026-01-05"},
                "end_date": {"type": "string", "example": "2026-06-30"},
                "day_mask": {"type": "integer", "description": "Bit 0 = Monday through bit 6 = Sunday"},
                "start_time": {"type": "string", "example": "15:00"},
                "end_time": {"type": "string", "example": "16:30"},
                "is_online": {"type": "boolean"},
                "status": {"type": "string", "enum": ["pending", "active", "completed", "cancelled"]}
            },
            "required": ["parent_id", "child_id", "package_id", "start_date", "end_date", "day_mask", "start_time", "end_time", "status"]
        },
        "RescheduleSessionRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2026-02-10"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"}
            },
            "required": ["date", "start_time", "end_time"]
        },
        "CreateDailyReportRequest": {
            "type": "object",
            "properties": {
                "child_id": {"type": "string"},
                "booking_id": {"type": "string"},
                "unit_id": {"type": "string"},
                "on_track": {"type": "boolean"},
                "has_homework": {"type": "boolean"},
                "notes": {"type": "string"}
            },
            "required": ["child_id", "booking_id", "unit_id"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["calendar", "progress"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "subject_id": {"type": "string"}
            },
            "required": ["type", "format", "subject_id"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
