// Package docs registra la especificación OpenAPI servida en /swagger.
// Regenerar con: swag init -g cmd/api/main.go
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
        "/members": {
            "get": {"produces": ["application/json"], "tags": ["members"], "summary": "Listar miembros del hogar",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/household.FamilyMember"}}}}},
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["members"], "summary": "Crear miembro",
                "parameters": [{"description": "Miembro", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/session.createMemberRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/household.FamilyMember"}}, "400": {"description": "invalid json / name required", "schema": {"type": "string"}}}}
        },
        "/members/{memberID}": {
            "delete": {"tags": ["members"], "summary": "Eliminar miembro", "description": "Elimina en cascada sus asignaciones y el registro de tomas de éstas.",
                "parameters": [{"type": "string", "description": "ID del miembro", "name": "memberID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "not found", "schema": {"type": "string"}}}}
        },
        "/medications": {
            "get": {"produces": ["application/json"], "tags": ["medications"], "summary": "Listar medicamentos",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/household.Medication"}}}}},
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["medications"], "summary": "Crear medicamento",
                "parameters": [{"description": "Medicamento", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/session.createMedicationRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/household.Medication"}}, "400": {"description": "invalid json / name required", "schema": {"type": "string"}}}}
        },
        "/medications/{medicationID}": {
            "delete": {"tags": ["medications"], "summary": "Eliminar medicamento", "description": "Elimina en cascada las asignaciones que lo usan.",
                "parameters": [{"type": "string", "description": "ID del medicamento", "name": "medicationID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "not found", "schema": {"type": "string"}}}}
        },
        "/assignments": {
            "get": {"produces": ["application/json"], "tags": ["assignments"], "summary": "Listar asignaciones",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/session.assignmentResponse"}}}}},
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["assignments"], "summary": "Asignar medicamento a un miembro",
                "description": "start_date vacío = hoy. Horas en formato HH:MM; weekdays 0=domingo (solo weekly).",
                "parameters": [{"description": "Asignación", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/session.createAssignmentRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/session.assignmentResponse"}}, "400": {"description": "invalid json / invalid schedule", "schema": {"type": "string"}}, "404": {"description": "member or medication not found", "schema": {"type": "string"}}}}
        },
        "/assignments/{assignmentID}": {
            "patch": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["assignments"], "summary": "Modificar pauta o estado activo",
                "description": "Desactivar conserva el registro de tomas; al reactivar vuelve a aplicarse.",
                "parameters": [{"type": "string", "description": "ID de la asignación", "name": "assignmentID", "in": "path", "required": true},
                    {"description": "Campos a modificar", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/session.updateAssignmentRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session.assignmentResponse"}}, "400": {"description": "invalid json / invalid schedule", "schema": {"type": "string"}}, "404": {"description": "not found", "schema": {"type": "string"}}}},
            "delete": {"tags": ["assignments"], "summary": "Eliminar asignación", "description": "Borra también sus entradas del registro de tomas.",
                "parameters": [{"type": "string", "description": "ID de la asignación", "name": "assignmentID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "not found", "schema": {"type": "string"}}}}
        },
        "/doses": {
            "get": {"produces": ["application/json"], "tags": ["doses"], "summary": "Tomas de un día", "description": "Lista resuelta (orden por hora) y agrupada por franja. date vacío = hoy.",
                "parameters": [{"type": "string", "description": "Día YYYY-MM-DD", "name": "date", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session.dayResponse"}}, "400": {"description": "date must be YYYY-MM-DD", "schema": {"type": "string"}}}}
        },
        "/doses/next": {
            "get": {"produces": ["application/json"], "tags": ["doses"], "summary": "Próxima toma abierta de hoy",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session.doseResponse"}}, "204": {"description": "sin tomas abiertas"}}}
        },
        "/doses/snooze-options": {
            "get": {"produces": ["application/json"], "tags": ["doses"], "summary": "Opciones de posponer",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session.snoozeOptionsResponse"}}}}
        },
        "/export": {
            "get": {"produces": ["application/json"], "tags": ["export"], "summary": "Exportar datos",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}}
        },
        "/doses/{assignmentID}/{time}/status": {
            "put": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["doses"], "summary": "Cambiar estado de una toma",
                "description": "Sobrescribe el estado (taken, skipped, snoozed, pending). snooze_until es obligatorio para snoozed.",
                "parameters": [{"type": "string", "description": "ID de la asignación", "name": "assignmentID", "in": "path", "required": true},
                    {"type": "string", "description": "Hora programada HH:MM", "name": "time", "in": "path", "required": true},
                    {"description": "Nuevo estado", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/session.setStatusRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session.logEntryResponse"}}, "400": {"description": "invalid json / invalid input", "schema": {"type": "string"}}, "404": {"description": "not found", "schema": {"type": "string"}}}}
        },
        "/doses/{assignmentID}/{time}/snooze": {
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["doses"], "summary": "Posponer una toma",
                "description": "Pospone minutes minutos desde ahora (sugeridos 10, 15, 30; máximo 1440).",
                "parameters": [{"type": "string", "description": "ID de la asignación", "name": "assignmentID", "in": "path", "required": true},
                    {"type": "string", "description": "Hora programada HH:MM", "name": "time", "in": "path", "required": true},
                    {"description": "Día y minutos", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/session.snoozeRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session.logEntryResponse"}}, "400": {"description": "invalid json / invalid input", "schema": {"type": "string"}}, "404": {"description": "not found", "schema": {"type": "string"}}}}
        }
    },
    "definitions": {
        "session.snoozeOptionsResponse": {"type": "object", "properties": {
            "presets": {"type": "array", "items": {"type": "integer"}}, "max_minutes": {"type": "integer"}}},
        "household.FamilyMember": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "relation": {"type": "string"}}},
        "household.Medication": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "dosage": {"type": "string"}, "notes": {"type": "string"}}},
        "household.Frequency": {"type": "string", "enum": ["daily", "weekly", "customTimes"]},
        "doselog.Status": {"type": "string", "enum": ["pending", "taken", "snoozed", "skipped"]},
        "doses.Part": {"type": "string", "enum": ["morning", "afternoon", "evening", "night"]},
        "session.createMemberRequest": {"type": "object", "properties": {"name": {"type": "string"}, "relation": {"type": "string"}}},
        "session.createMedicationRequest": {"type": "object", "properties": {"name": {"type": "string"}, "dosage": {"type": "string"}, "notes": {"type": "string"}}},
        "session.scheduleRequest": {"type": "object", "properties": {
            "frequency": {"$ref": "#/definitions/household.Frequency"},
            "times": {"type": "array", "items": {"type": "string"}},
            "start_date": {"type": "string"}, "end_date": {"type": "string"},
            "weekdays": {"type": "array", "items": {"type": "integer"}}}},
        "session.scheduleResponse": {"type": "object", "properties": {
            "frequency": {"$ref": "#/definitions/household.Frequency"},
            "times": {"type": "array", "items": {"type": "string"}},
            "start_date": {"type": "string"}, "end_date": {"type": "string"},
            "weekdays": {"type": "array", "items": {"type": "integer"}}}},
        "session.createAssignmentRequest": {"type": "object", "properties": {
            "member_id": {"type": "string"}, "medication_id": {"type": "string"},
            "schedule": {"$ref": "#/definitions/session.scheduleRequest"}, "is_active": {"type": "boolean"}}},
        "session.updateAssignmentRequest": {"type": "object", "properties": {
            "schedule": {"$ref": "#/definitions/session.scheduleRequest"}, "is_active": {"type": "boolean"}}},
        "session.assignmentResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "member_id": {"type": "string"}, "medication_id": {"type": "string"},
            "schedule": {"$ref": "#/definitions/session.scheduleResponse"}, "is_active": {"type": "boolean"}}},
        "session.memberSummary": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}}},
        "session.medSummary": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "dosage": {"type": "string"}}},
        "session.doseResponse": {"type": "object", "properties": {
            "key": {"type": "string"}, "date": {"type": "string"}, "assignment_id": {"type": "string"},
            "member": {"$ref": "#/definitions/session.memberSummary"}, "medication": {"$ref": "#/definitions/session.medSummary"},
            "time": {"type": "string"}, "scheduled_at": {"type": "string"}, "status": {"$ref": "#/definitions/doselog.Status"},
            "snooze_until": {"type": "string"}, "due_at": {"type": "string"}, "is_due": {"type": "boolean"}}},
        "session.sectionResponse": {"type": "object", "properties": {
            "part": {"$ref": "#/definitions/doses.Part"}, "doses": {"type": "array", "items": {"$ref": "#/definitions/session.doseResponse"}}}},
        "session.dayResponse": {"type": "object", "properties": {
            "date": {"type": "string"},
            "doses": {"type": "array", "items": {"$ref": "#/definitions/session.doseResponse"}},
            "sections": {"type": "array", "items": {"$ref": "#/definitions/session.sectionResponse"}}}},
        "session.setStatusRequest": {"type": "object", "properties": {
            "date": {"type": "string"}, "status": {"$ref": "#/definitions/doselog.Status"}, "snooze_until": {"type": "string"}}},
        "session.snoozeRequest": {"type": "object", "properties": {"date": {"type": "string"}, "minutes": {"type": "integer"}}},
        "session.logEntryResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "date": {"type": "string"}, "assignment_id": {"type": "string"}, "time": {"type": "string"},
            "status": {"$ref": "#/definitions/doselog.Status"}, "snooze_until": {"type": "string"}, "updated_at": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Medication Reminder API",
	Description:      "Agenda de tomas de medicación del hogar: miembros, medicamentos, pautas y estado diario de cada toma.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
