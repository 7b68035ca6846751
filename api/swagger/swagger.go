package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Report Card API",
        "description": "Report card aggregation service for schools",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Authentication", "description": "Login and session info"},
        {"name": "Report Cards", "description": "Student report cards and class summaries"},
        {"name": "Attendance", "description": "Attendance intake and summaries"},
        {"name": "Grade Scales", "description": "Grade band management"},
        {"name": "Exam Results", "description": "Exam result intake"}
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
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user info",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/report-cards/student/{studentId}": {
            "get": {
                "tags": ["Report Cards"],
                "summary": "Student report card",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "semesterId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "semesterId missing"},
                    "403": {"description": "Not the caller's own record"},
                    "404": {"description": "Student or semester not found"}
                }
            }
        },
        "/report-cards/student/{studentId}/export": {
            "get": {
                "tags": ["Report Cards"],
                "summary": "Export a report card as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "semesterId", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "required": false, "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Invalid parameters"},
                    "403": {"description": "Not the caller's own record"}
                }
            }
        },
        "/report-cards/class/{classId}": {
            "get": {
                "tags": ["Report Cards"],
                "summary": "Class report summary",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "semesterId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "semesterId missing"},
                    "404": {"description": "Semester not found"}
                }
            }
        },
        "/attendance": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record an attendance sheet",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid sheet"}
                }
            }
        },
        "/attendance/summary/{studentId}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Attendance summary for a semester",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "semesterId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "semesterId missing"},
                    "403": {"description": "Not the caller's own record"}
                }
            }
        },
        "/grade-scales": {
            "get": {
                "tags": ["Grade Scales"],
                "summary": "List grade bands",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Grade Scales"],
                "summary": "Create grade band",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Overlapping band"}
                }
            }
        },
        "/grade-scales/{id}": {
            "put": {
                "tags": ["Grade Scales"],
                "summary": "Update grade band",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Band not found"}
                }
            },
            "delete": {
                "tags": ["Grade Scales"],
                "summary": "Delete grade band",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Band not found"}
                }
            }
        },
        "/exam-results": {
            "post": {
                "tags": ["Exam Results"],
                "summary": "Record one exam result",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Marks out of range"},
                    "404": {"description": "Exam not found"}
                }
            }
        },
        "/exam-results/bulk": {
            "post": {
                "tags": ["Exam Results"],
                "summary": "Record exam results in bulk",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid payload"}
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
