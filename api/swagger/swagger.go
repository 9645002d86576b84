package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Clash detection and auto-timetabling for term planning",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Clashes", "description": "Grid snapshot clash detection"},
        {"name": "Auto", "description": "Constraint-based timetable generation"},
        {"name": "Timetables", "description": "Saved plans with selections and events"}
    ],
    "paths": {
        "/clashes": {
            "post": {
                "tags": ["Clashes"],
                "summary": "Compute clash groups and render hints for a grid snapshot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ComputeClashesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auto": {
            "post": {
                "tags": ["Auto"],
                "summary": "Pick one class per activity honouring the given constraints",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AutoTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Solver budget exhausted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List saved timetables",
                "parameters": [
                    {"name": "termCode", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetables"],
                "summary": "Save a new timetable",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Load one saved timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "tags": ["Timetables"],
                "summary": "Rename a timetable and replace its contents",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetables"],
                "summary": "Delete a saved timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/timetables/{id}/events": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Attach a custom event to a timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Event"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/events/{eventId}": {
            "put": {
                "tags": ["Timetables"],
                "summary": "Update a custom event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "eventId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Event"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetables"],
                "summary": "Delete a custom event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "eventId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/timetables/{id}/export": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Download a timetable as CSV or PDF",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        }
    },
    "definitions": {
        "ComputeClashesRequest": {
            "type": "object",
            "properties": {
                "classes": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ClashPeriod"}
                },
                "events": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ClashEvent"}
                }
            }
        },
        "ClashPeriod": {
            "type": "object",
            "properties": {
                "classId": {"type": "string"},
                "courseCode": {"type": "string"},
                "activity": {"type": "string"},
                "day": {"type": "integer"},
                "start": {"type": "number"},
                "end": {"type": "number"},
                "weeks": {"type": "array", "items": {"type": "integer"}},
                "locations": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["classId", "courseCode", "activity"]
        },
        "ClashEvent": {
            "type": "object",
            "properties": {
                "eventId": {"type": "string"},
                "name": {"type": "string"},
                "day": {"type": "integer"},
                "start": {"type": "number"},
                "end": {"type": "number"}
            },
            "required": ["eventId"]
        },
        "AutoTimetableRequest": {
            "type": "object",
            "properties": {
                "activities": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AutoActivity"}
                },
                "constraints": {"$ref": "#/definitions/AutoConstraints"}
            },
            "required": ["activities", "constraints"]
        },
        "AutoActivity": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"},
                "activity": {"type": "string"},
                "candidates": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AutoCandidate"}
                }
            },
            "required": ["courseCode", "activity", "candidates"]
        },
        "AutoCandidate": {
            "type": "object",
            "properties": {
                "classId": {"type": "string"},
                "mode": {"type": "string", "enum": ["hybrid", "in_person", "online"]},
                "slots": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AutoSlot"}
                }
            },
            "required": ["classId", "slots"]
        },
        "AutoSlot": {
            "type": "object",
            "properties": {
                "day": {"type": "integer"},
                "start": {"type": "number"},
                "duration": {"type": "number"}
            },
            "required": ["day", "duration"]
        },
        "AutoConstraints": {
            "type": "object",
            "properties": {
                "earliestStart": {"type": "number"},
                "latestEnd": {"type": "number"},
                "days": {"type": "array", "items": {"type": "integer"}},
                "minBreakHours": {"type": "number"},
                "maxDaysOnCampus": {"type": "integer"},
                "mode": {"type": "string", "enum": ["hybrid", "in_person", "online"]}
            },
            "required": ["latestEnd", "days", "maxDaysOnCampus"]
        },
        "CreateTimetableRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "termCode": {"type": "string"},
                "selections": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Selection"}
                },
                "events": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Event"}
                }
            },
            "required": ["name", "termCode"]
        },
        "UpdateTimetableRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "selections": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Selection"}
                },
                "events": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Event"}
                }
            },
            "required": ["name"]
        },
        "Selection": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"},
                "activity": {"type": "string"},
                "classId": {"type": "string"},
                "day": {"type": "integer"},
                "start": {"type": "number"},
                "end": {"type": "number"},
                "weeks": {"type": "array", "items": {"type": "integer"}},
                "locations": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["courseCode", "activity", "classId", "day"]
        },
        "Event": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "color": {"type": "string"},
                "day": {"type": "integer"},
                "start": {"type": "number"},
                "end": {"type": "number"}
            },
            "required": ["name", "day"]
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
