package store

// RecordSchema is the JSON Schema every persisted session line must satisfy.
// Annotation fields are optional on read so a raw ingestion batch is also a
// valid store file.
const RecordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": [
    "id", "title", "description", "track", "level", "type", "industry",
    "category", "speakers", "day", "room", "start_time_local", "end_time_local",
    "start_time_ref_tz", "end_time_ref_tz", "duration", "path"
  ],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "title": {"type": "string"},
    "description": {"type": "string"},
    "track": {"type": "string"},
    "level": {"type": "string"},
    "type": {"type": "string"},
    "industry": {"type": "string"},
    "category": {"type": "string"},
    "areas_of_interest": {"type": "array", "items": {"type": "string"}},
    "speakers": {"type": "array", "items": {"type": "string"}},
    "day": {"type": "string"},
    "room": {"type": "string"},
    "start_time_local": {"type": "string"},
    "end_time_local": {"type": "string"},
    "start_time_ref_tz": {"type": "string"},
    "end_time_ref_tz": {"type": "string"},
    "duration": {"type": "string"},
    "path": {"type": "string"},
    "rating": {"type": ["integer", "null"], "minimum": 0, "maximum": 5},
    "rating_notes": {"type": ["string", "null"]},
    "rated_at": {"type": ["string", "null"], "format": "date-time"},
    "interest": {"type": ["integer", "null"], "minimum": 0, "maximum": 5},
    "interest_notes": {"type": ["string", "null"]},
    "interest_at": {"type": ["string", "null"], "format": "date-time"},
    "tags": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`
