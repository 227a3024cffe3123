package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Dersly API",
        "description": "Personal student planner: course schedule, deadlines, GPA tracking and calendar export",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Weekly course schedule"},
        {"name": "Tasks", "description": "Assignments, exams, projects and quizzes"},
        {"name": "Reminders", "description": "Deadline urgency and stored reminders"},
        {"name": "Grades", "description": "Grade book and GPA calculators"},
        {"name": "Calendar", "description": "iCalendar export"},
        {"name": "Backup", "description": "Whole-session export and restore"},
        {"name": "Profile", "description": "Session user profile"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "parameters": [
                    {"name": "sort", "in": "query", "type": "string", "description": "Ordering: id (default) or schedule"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Add a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Schedule conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Courses"],
                "summary": "Replace course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/courses/conflict": {
            "get": {
                "tags": ["Courses"],
                "summary": "Check a candidate slot for conflicts",
                "parameters": [
                    {"name": "day", "in": "query", "required": true, "type": "string"},
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"},
                    {"name": "excludeId", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List tasks",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "courseId", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Tasks"],
                "summary": "Add a task",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TaskRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tasks/upcoming": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Pending tasks due within a window",
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tasks/{id}": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Get task",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Tasks"],
                "summary": "Replace task",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Tasks"],
                "summary": "Delete task",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/tasks/{id}/toggle": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Flip task completion state",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reminders": {
            "get": {
                "tags": ["Reminders"],
                "summary": "Deadline reminders for pending tasks",
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Reminders"],
                "summary": "Store a standalone reminder",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReminderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reminders/urgent": {
            "get": {
                "tags": ["Reminders"],
                "summary": "Reminders due today or overdue",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reminders/counts": {
            "get": {
                "tags": ["Reminders"],
                "summary": "Reminder counts by urgency band",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reminders/period/{period}": {
            "get": {
                "tags": ["Reminders"],
                "summary": "Reminders in a named window",
                "parameters": [
                    {"name": "period", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reminders/task/{id}": {
            "get": {
                "tags": ["Reminders"],
                "summary": "Urgency classification for one task",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grades": {
            "get": {
                "tags": ["Grades"],
                "summary": "List grade entries",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Grades"],
                "summary": "Record a grade",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grades/statistics": {
            "get": {
                "tags": ["Grades"],
                "summary": "Cumulative and per-semester GPA figures",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grades/scales": {
            "get": {
                "tags": ["Grades"],
                "summary": "List built-in grading scales",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grades/convert": {
            "get": {
                "tags": ["Grades"],
                "summary": "Convert a grade token to points",
                "parameters": [
                    {"name": "scale", "in": "query", "required": true, "type": "string"},
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grades/required": {
            "get": {
                "tags": ["Grades"],
                "summary": "Required average to reach a target GPA",
                "parameters": [
                    {"name": "currentGpa", "in": "query", "required": true, "type": "number"},
                    {"name": "currentCredits", "in": "query", "required": true, "type": "integer"},
                    {"name": "targetGpa", "in": "query", "required": true, "type": "number"},
                    {"name": "newCredits", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grades/report": {
            "get": {
                "tags": ["Grades"],
                "summary": "Download the grade book",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/calendar/tasks": {
            "get": {
                "tags": ["Calendar"],
                "summary": "All pending tasks as one calendar document",
                "responses": {
                    "200": {"description": "iCalendar download"}
                }
            }
        },
        "/calendar/tasks/{id}": {
            "get": {
                "tags": ["Calendar"],
                "summary": "One task as a calendar event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "iCalendar download"}
                }
            }
        },
        "/calendar/courses/{id}": {
            "get": {
                "tags": ["Calendar"],
                "summary": "One course as a weekly recurring event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "weeks", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "iCalendar download"}
                }
            }
        },
        "/calendar/schedule": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Full weekly schedule as one calendar document",
                "parameters": [
                    {"name": "weeks", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "iCalendar download"}
                }
            }
        },
        "/backup/export": {
            "get": {
                "tags": ["Backup"],
                "summary": "Download the session as a JSON backup",
                "responses": {
                    "200": {"description": "JSON download"}
                }
            }
        },
        "/backup/import": {
            "post": {
                "tags": ["Backup"],
                "summary": "Restore the session from a JSON backup",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid document", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/backup/info": {
            "get": {
                "tags": ["Backup"],
                "summary": "Session storage summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/backup/clear": {
            "post": {
                "tags": ["Backup"],
                "summary": "Wipe the session",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/profile": {
            "get": {
                "tags": ["Profile"],
                "summary": "Get the session profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Profile"],
                "summary": "Create or replace the session profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Profile"],
                "summary": "Delete the session profile",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "CourseRequest": {
            "type": "object",
            "properties": {
                "course_name": {"type": "string"},
                "course_code": {"type": "string"},
                "day": {"type": "string"},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "10:30"},
                "color": {"type": "string"},
                "credits": {"type": "integer"}
            },
            "required": ["course_name", "course_code", "day", "start_time", "end_time", "credits"]
        },
        "TaskRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "type": {"type": "string", "enum": ["assignment", "exam", "project", "quiz"]},
                "due_date": {"type": "string"},
                "priority": {"type": "string", "enum": ["low", "medium", "high"]},
                "status": {"type": "string", "enum": ["pending", "completed"]}
            },
            "required": ["title", "type", "due_date", "priority"]
        },
        "ReminderRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "note": {"type": "string"},
                "remind_at": {"type": "string"}
            },
            "required": ["title", "remind_at"]
        },
        "GradeRequest": {
            "type": "object",
            "properties": {
                "course_name": {"type": "string"},
                "grade": {"type": "number"},
                "credits": {"type": "integer"},
                "semester": {"type": "string", "enum": ["Fall", "Spring", "Summer"]},
                "year": {"type": "integer"}
            },
            "required": ["course_name", "grade", "credits", "semester", "year"]
        },
        "ProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "student_id": {"type": "string"},
                "department": {"type": "string"},
                "class_year": {"type": "integer"},
                "preferred_scale": {"type": "string"}
            },
            "required": ["name", "email"]
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
