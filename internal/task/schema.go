package task

// Schema is the JSON Schema (draft 2020-12) for the tasks file. It is
// written alongside the tasks file by `tasktrack init` and used by
// `tasktrack doctor` to validate persisted state.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "tasktrack tasks file",
  "description": "Ordered collection of tasks, insertion order = creation order",
  "type": "array",
  "items": {
    "type": "object",
    "additionalProperties": false,
    "required": ["id", "description", "status", "createdAt", "updatedAt"],
    "properties": {
      "id": {
        "type": "integer",
        "minimum": 1
      },
      "description": {
        "type": "string",
        "minLength": 1
      },
      "status": {
        "enum": ["todo", "in-progress", "done"]
      },
      "createdAt": {
        "type": "string",
        "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}$"
      },
      "updatedAt": {
        "type": "string",
        "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}$"
      }
    }
  }
}
`
