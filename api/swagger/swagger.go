package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable API",
        "description": "Student timetables resolved from the school's schedule workbooks.",
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
        {
            "name": "Roster",
            "description": "Roster loading and persisted snapshots"
        },
        {
            "name": "Students",
            "description": "Per-student timetables"
        },
        {
            "name": "Overlaps",
            "description": "Shared credit hours between students"
        },
        {
            "name": "Exports",
            "description": "Calendar, PDF and analysis files"
        }
    ],
    "paths": {
        "/roster": {
            "get": {
                "tags": [
                    "Roster"
                ],
                "summary": "Installed roster",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "503": {
                        "description": "Roster not loaded",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/roster/reload": {
            "post": {
                "tags": [
                    "Roster"
                ],
                "summary": "Re-read the source workbooks",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Source malformed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/roster/snapshots": {
            "get": {
                "tags": [
                    "Roster"
                ],
                "summary": "Persisted roster loads",
                "parameters": [
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer",
                        "description": "Maximum rows",
                        "required": false
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/roster/snapshots/{id}/students/{studentId}": {
            "get": {
                "tags": [
                    "Roster"
                ],
                "summary": "Persisted timetable of one student in a past load",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "description": "Snapshot ID",
                        "required": true
                    },
                    {
                        "name": "studentId",
                        "in": "path",
                        "type": "integer",
                        "description": "Student ID",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/students": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "List students",
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "description": "Page",
                        "required": false
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer",
                        "description": "Page size",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "503": {
                        "description": "Roster not loaded",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/students/{key}": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "Get a student",
                "parameters": [
                    {
                        "name": "key",
                        "in": "path",
                        "type": "string",
                        "description": "Student id, name or \"<id> <name>\"",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "503": {
                        "description": "Roster not loaded",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/students/{key}/timetable": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "Student timetable view",
                "parameters": [
                    {
                        "name": "key",
                        "in": "path",
                        "type": "string",
                        "description": "Student id, name or \"<id> <name>\"",
                        "required": true
                    },
                    {
                        "name": "day",
                        "in": "query",
                        "type": "string",
                        "description": "Day alias such as 월, 화요일, wed",
                        "required": false
                    },
                    {
                        "name": "period",
                        "in": "query",
                        "type": "integer",
                        "description": "Period 1-9",
                        "required": false
                    },
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "description": "First day",
                        "required": false
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "description": "Last day",
                        "required": false
                    },
                    {
                        "name": "periodFrom",
                        "in": "query",
                        "type": "integer",
                        "description": "First period",
                        "required": false
                    },
                    {
                        "name": "periodTo",
                        "in": "query",
                        "type": "integer",
                        "description": "Last period",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/students/{key}/blocks": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "Student timetable blocks",
                "parameters": [
                    {
                        "name": "key",
                        "in": "path",
                        "type": "string",
                        "description": "Student id, name or \"<id> <name>\"",
                        "required": true
                    },
                    {
                        "name": "day",
                        "in": "query",
                        "type": "string",
                        "description": "Day alias such as 월, 화요일, wed",
                        "required": false
                    },
                    {
                        "name": "period",
                        "in": "query",
                        "type": "integer",
                        "description": "Period 1-9",
                        "required": false
                    },
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "description": "First day",
                        "required": false
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "description": "Last day",
                        "required": false
                    },
                    {
                        "name": "periodFrom",
                        "in": "query",
                        "type": "integer",
                        "description": "First period",
                        "required": false
                    },
                    {
                        "name": "periodTo",
                        "in": "query",
                        "type": "integer",
                        "description": "Last period",
                        "required": false
                    },
                    {
                        "name": "gaps",
                        "in": "query",
                        "type": "boolean",
                        "description": "Include free periods",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/students/{key}/rankings": {
            "get": {
                "tags": [
                    "Overlaps"
                ],
                "summary": "Students sharing the most credit hours",
                "parameters": [
                    {
                        "name": "key",
                        "in": "path",
                        "type": "string",
                        "description": "Student id, name or \"<id> <name>\"",
                        "required": true
                    },
                    {
                        "name": "top",
                        "in": "query",
                        "type": "integer",
                        "description": "Number of entries",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/students/{key}/calendar.csv": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Google Calendar import file",
                "parameters": [
                    {
                        "name": "key",
                        "in": "path",
                        "type": "string",
                        "description": "Student id, name or \"<id> <name>\"",
                        "required": true
                    }
                ],
                "produces": [
                    "text/csv"
                ],
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/students/{key}/timetable.pdf": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Printable weekly timetable",
                "parameters": [
                    {
                        "name": "key",
                        "in": "path",
                        "type": "string",
                        "description": "Student id, name or \"<id> <name>\"",
                        "required": true
                    }
                ],
                "produces": [
                    "application/pdf"
                ],
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/overlaps": {
            "get": {
                "tags": [
                    "Overlaps"
                ],
                "summary": "Pairs of students sharing many credit hours",
                "parameters": [
                    {
                        "name": "threshold",
                        "in": "query",
                        "type": "integer",
                        "description": "Minimum shared credit hours",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "503": {
                        "description": "Roster not loaded",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/exports/analysis": {
            "post": {
                "tags": [
                    "Exports"
                ],
                "summary": "Build the analysis workbook in the background",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/AnalysisExportRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Exports disabled",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Export job status",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "description": "Job ID",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/exports/download": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Download a finished export",
                "parameters": [
                    {
                        "name": "token",
                        "in": "query",
                        "type": "string",
                        "description": "Signed token",
                        "required": true
                    }
                ],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Link expired"
                    }
                }
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
            }
        },
        "AnalysisExportRequest": {
            "type": "object",
            "properties": {
                "threshold": {
                    "type": "integer",
                    "minimum": 1,
                    "maximum": 60
                }
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
