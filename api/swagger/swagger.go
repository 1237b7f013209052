package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Acadify API",
        "description": "School records service with per-class grading formulas and GPA aggregation",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and token lifecycle"},
        {"name": "Classes", "description": "Class offerings"},
        {"name": "Formulas", "description": "Grading formulas and conversion tables"},
        {"name": "Grades", "description": "Score ledgers and grade records"},
        {"name": "GPA", "description": "GPA aggregation"},
        {"name": "Reports", "description": "Report card exports"}
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
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes",
                "parameters": [
                    {"name": "teacherId", "in": "query", "type": "string"},
                    {"name": "schoolYear", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{id}/formula": {
            "get": {
                "tags": ["Formulas"],
                "summary": "Get class grading formula",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Formula"}}
                }
            },
            "put": {
                "tags": ["Formulas"],
                "summary": "Replace class grading formula",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Formula"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Formula"}},
                    "409": {"description": "Formula locked after grades were recorded"}
                }
            }
        },
        "/assessments/{id}/grades/{studentId}": {
            "get": {
                "tags": ["Grades"],
                "summary": "Get grade record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Grade"}}
                }
            }
        },
        "/assessments/{id}/grades/{studentId}/items": {
            "post": {
                "tags": ["Grades"],
                "summary": "Record a score item",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordScoreItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Grade"}}
                }
            }
        },
        "/assessments/{id}/grades/{studentId}/override": {
            "post": {
                "tags": ["Grades"],
                "summary": "Override the final grade",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OverrideRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Grade"}}
                }
            },
            "delete": {
                "tags": ["Grades"],
                "summary": "Remove a manual override",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Grade"}}
                }
            }
        },
        "/students/{id}/gpa/semester": {
            "get": {
                "tags": ["GPA"],
                "summary": "Semester GPA",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "schoolYear", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "method", "in": "query", "type": "string", "enum": ["weighted", "simple", "major_only"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GPAResult"}}
                }
            }
        },
        "/students/{id}/gpa/cumulative": {
            "get": {
                "tags": ["GPA"],
                "summary": "Cumulative GPA",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "method", "in": "query", "type": "string", "enum": ["weighted", "simple", "major_only"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GPAResult"}}
                }
            }
        },
        "/students/{id}/report-card": {
            "get": {
                "tags": ["Reports"],
                "summary": "Student report card",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "schoolYear", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK"}
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
        "CreateClassRequest": {
            "type": "object",
            "properties": {
                "subject_code": {"type": "string"},
                "subject_name": {"type": "string"},
                "units": {"type": "integer"},
                "is_major_subject": {"type": "boolean"},
                "section": {"type": "string"},
                "schedule": {"type": "string"},
                "room": {"type": "string"},
                "max_students": {"type": "integer"},
                "components": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/FormulaComponent"}
                },
                "passing_grade": {"type": "number"},
                "use_conversion": {"type": "boolean"}
            },
            "required": ["subject_code", "subject_name", "units"]
        },
        "Formula": {
            "type": "object",
            "properties": {
                "components": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/FormulaComponent"}
                },
                "passing_grade": {"type": "number"},
                "use_conversion": {"type": "boolean"}
            }
        },
        "FormulaComponent": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "weight": {"type": "number"},
                "max_points": {"type": "number"}
            },
            "required": ["name", "weight"]
        },
        "RecordScoreItemRequest": {
            "type": "object",
            "properties": {
                "component": {"type": "string"},
                "score": {"type": "number"},
                "max": {"type": "number"},
                "label": {"type": "string"},
                "date": {"type": "string"}
            },
            "required": ["component", "max", "label"]
        },
        "OverrideRequest": {
            "type": "object",
            "properties": {
                "grade": {"type": "number"},
                "reason": {"type": "string"}
            },
            "required": ["grade", "reason"]
        },
        "Grade": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "assessment_id": {"type": "string"},
                "student_id": {"type": "string"},
                "component_scores": {"type": "object"},
                "calculated_percentage": {"type": "number"},
                "calculated_grade": {"type": "number"},
                "is_overridden": {"type": "boolean"},
                "override_grade": {"type": "number"},
                "override_reason": {"type": "string"},
                "final_grade": {"type": "number"}
            }
        },
        "GPAResult": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "method": {"type": "string"},
                "gpa": {"type": "number"},
                "class_count": {"type": "integer"},
                "total_units": {"type": "integer"},
                "school_year": {"type": "string"},
                "semester": {"type": "string"}
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
                "pagination": {"type": "object"},
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
