// Package docs registers the OpenAPI description served at /swagger.
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
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign up",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["chamber"],
                "summary": "Get chamber state",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ChamberState"}}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/v1/programs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["programs"],
                "summary": "List programs",
                "responses": {"200": {"description": "count, programs"}, "500": {"description": "Internal Server Error"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["programs"],
                "summary": "Create program",
                "parameters": [{"description": "Program", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SmokingProgram"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/api/v1/programs/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["programs"],
                "summary": "Get program",
                "parameters": [{"type": "string", "description": "Program name", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SmokingProgram"}}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["programs"],
                "summary": "Update program",
                "parameters": [
                    {"type": "string", "description": "Program name", "name": "name", "in": "path", "required": true},
                    {"description": "Program", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SmokingProgram"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["programs"],
                "summary": "Delete program",
                "parameters": [{"type": "string", "description": "Program name", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/panel/press": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["panel"],
                "summary": "Press a panel button",
                "parameters": [{"description": "Button payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PressRequest"}}],
                "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "503": {"description": "Service Unavailable"}}
            }
        },
        "/api/v1/panel/frame": {
            "get": {
                "produces": ["application/json"],
                "tags": ["panel"],
                "summary": "Get the OLED frame",
                "responses": {"200": {"description": "rows"}, "503": {"description": "Service Unavailable"}}
            }
        },
        "/api/v1/logs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List logs",
                "parameters": [
                    {"type": "string", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "description": "End of range; date-only means end of day", "name": "to", "in": "query"},
                    {"enum": ["START", "EMERGENCY_STOP", "STEP_ADVANCE", "PROGRAM_FINISHED", "ERROR", "INTERRUPTED"], "type": "string", "description": "Event type", "name": "type", "in": "query"},
                    {"type": "string", "description": "Run id", "name": "run_id", "in": "query"},
                    {"type": "string", "description": "Program name", "name": "program", "in": "query"}
                ],
                "responses": {"200": {"description": "count, events"}, "400": {"description": "Bad Request"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/v1/runs/{run_id}/events": {
            "get": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "Events of one run, oldest first",
                "parameters": [
                    {"type": "string", "description": "Run id", "name": "run_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "count, events"}, "404": {"description": "Not Found"}, "500": {"description": "Internal Server Error"}}
            }
        }
    },
    "definitions": {
        "handlers.PressRequest": {
            "type": "object",
            "properties": {"button": {"type": "string", "example": "OK"}}
        },
        "models.ProgramStep": {
            "type": "object",
            "properties": {
                "target_temp_c": {"type": "integer"},
                "target_humidity": {"type": "integer"},
                "duration_minutes": {"type": "integer"},
                "hysteresis_c": {"type": "integer"},
                "wait_for_temp": {"type": "boolean"},
                "wait_for_humidity": {"type": "boolean"},
                "compressor_pwm": {"type": "integer"},
                "fan_pwm": {"type": "integer"}
            }
        },
        "models.SmokingProgram": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "steps": {"type": "array", "items": {"$ref": "#/definitions/models.ProgramStep"}},
                "is_built_in": {"type": "boolean"}
            }
        },
        "models.ProgramSummary": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "steps": {"type": "integer"},
                "is_built_in": {"type": "boolean"}
            }
        },
        "models.ChamberState": {
            "type": "object",
            "properties": {
                "networkMode": {"type": "string"},
                "ssid": {"type": "string"},
                "ip": {"type": "string"},
                "mode": {"type": "string"},
                "runId": {"type": "string"},
                "currentProgramName": {"type": "string"},
                "currentStepIndex": {"type": "integer"},
                "stepCount": {"type": "integer"},
                "stepTimeLeft": {"type": "string"},
                "waitingForTemp": {"type": "boolean"},
                "emergencyStop": {"type": "boolean"},
                "tempChamber": {"type": "number"},
                "tempSmoke": {"type": "number"},
                "tempProduct": {"type": "number"},
                "humidity": {"type": "number"},
                "heaterOn": {"type": "boolean"},
                "smokePWM": {"type": "integer"},
                "fanPWM": {"type": "integer"},
                "programs": {"type": "array", "items": {"$ref": "#/definitions/models.ProgramSummary"}},
                "updatedAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Smoking Chamber API",
	Description:      "Program management, chamber state and remote panel for the smoking chamber controller.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
