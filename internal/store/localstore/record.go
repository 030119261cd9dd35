package localstore

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/tasks/internal/model"
)

// recordSchema accepts the current record shape and the underscore-prefixed
// shape written by the browser build.
const recordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "anyOf": [
    {
      "required": ["id"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "title": {"type": "string"},
        "done": {"type": "boolean"},
        "isDone": {"type": "boolean"}
      }
    },
    {
      "required": ["_id"],
      "properties": {
        "_id": {"type": "string", "minLength": 1},
        "_title": {"type": "string"},
        "_isDone": {"type": "boolean"}
      }
    }
  ]
}`

var schema = jsonschema.MustCompileString("task-record.schema.json", recordSchema)

// record is the union of every persisted shape.
type record struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Done   *bool  `json:"done"`
	IsDone *bool  `json:"isDone"`

	LegacyID     string `json:"_id"`
	LegacyTitle  string `json:"_title"`
	LegacyIsDone bool   `json:"_isDone"`
}

// Parse decodes one medium value into a task. It fails for anything that
// is not JSON or does not carry a task id and a non-blank title.
func Parse(value string) (model.Task, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return model.Task{}, fmt.Errorf("json unmarshal: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return model.Task{}, fmt.Errorf("not a task record: %w", err)
	}

	var r record
	if err := json.Unmarshal([]byte(value), &r); err != nil {
		return model.Task{}, fmt.Errorf("json unmarshal: %w", err)
	}

	var task model.Task
	if r.ID == "" {
		task = model.Task{ID: r.LegacyID, Title: r.LegacyTitle, Done: r.LegacyIsDone}
	} else {
		task = model.Task{ID: r.ID, Title: r.Title}
		switch {
		case r.Done != nil:
			task.Done = *r.Done
		case r.IsDone != nil:
			task.Done = *r.IsDone
		}
	}
	if strings.TrimSpace(task.Title) == "" {
		return model.Task{}, model.ErrEmptyTitle
	}
	return task, nil
}

// parseEntry is Parse plus the check that the record belongs to the key it
// is stored under.
func parseEntry(key, value string) (model.Task, error) {
	task, err := Parse(value)
	if err != nil {
		return model.Task{}, err
	}
	if task.ID != key {
		return model.Task{}, fmt.Errorf("record id %q stored under key %q", task.ID, key)
	}
	return task, nil
}
