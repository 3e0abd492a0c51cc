package store

// JSON schemas for the catalog documents. They check document shape, not
// business rules; a document that fails here is treated as empty rather than
// aborting the request that loaded it.

const usersSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"required": ["roll_no", "password", "full_name"],
		"properties": {
			"roll_no": {"type": "string"},
			"password": {"type": "string"},
			"full_name": {"type": "string"},
			"branch": {"type": "string"},
			"year": {"type": "string"},
			"batch": {"type": "string"},
			"email": {"type": "string"}
		}
	}
}`

const facultySchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"required": ["faculty_id", "password", "full_name"],
		"properties": {
			"faculty_id": {"type": "string"},
			"password": {"type": "string"},
			"full_name": {"type": "string"},
			"department": {"type": "string"},
			"email": {"type": "string"}
		}
	}
}`

const subjectsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "name"],
		"properties": {
			"id": {"type": "string"},
			"name": {"type": "string"},
			"practical_ids": {"type": "array", "items": {"type": "string"}}
		}
	}
}`

const practicalsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "name"],
		"properties": {
			"id": {"type": "string"},
			"name": {"type": "string"}
		}
	}
}`

const questionsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "practical_id", "question", "options", "answer"],
		"properties": {
			"id": {"type": "integer"},
			"practical_id": {"type": "string"},
			"question": {"type": "string"},
			"options": {
				"type": "object",
				"required": ["A", "B", "C", "D"]
			},
			"answer": {"type": "string", "enum": ["A", "B", "C", "D"]}
		}
	}
}`
