package wire

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaError reports a success body that does not match its kind.
type SchemaError struct {
	Type    Type
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid %s response: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("invalid %s response: %s: %s", e.Type, e.Path, e.Message)
}

const taskListSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["tasks"],
  "properties": {
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["uuid", "name", "completed"],
        "properties": {
          "uuid": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "completed": {"type": "boolean"}
        }
      }
    }
  }
}`

var schemaSources = map[Type]string{
	TypeFindOrCreateList: `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["todoListUuid"],
  "properties": {
    "todoListUuid": {"type": "string", "minLength": 1}
  }
}`,
	TypeAddTask: `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["taskUuid"],
  "properties": {
    "taskUuid": {"type": "string", "minLength": 1}
  }
}`,
	TypeListTasks:   taskListSchema,
	TypeFilterTasks: taskListSchema,
}

var (
	schemasOnce sync.Once
	schemas     map[Type]*jsonschema.Schema
	schemasErr  error
)

func compileSchemas() (map[Type]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		compiled := make(map[Type]*jsonschema.Schema, len(schemaSources))
		for t, src := range schemaSources {
			url := "mem://responses/" + string(t) + ".json"
			if err := compiler.AddResource(url, strings.NewReader(src)); err != nil {
				schemasErr = fmt.Errorf("add schema %s: %w", t, err)
				return
			}
			schema, err := compiler.Compile(url)
			if err != nil {
				schemasErr = fmt.Errorf("compile schema %s: %w", t, err)
				return
			}
			compiled[t] = schema
		}
		schemas = compiled
	})
	return schemas, schemasErr
}

// validate checks a decoded success body against the schema of its kind.
func validate(t Type, v any) error {
	compiled, err := compileSchemas()
	if err != nil {
		return err
	}
	schema, ok := compiled[t]
	if !ok {
		return nil
	}
	if err := schema.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return &SchemaError{Type: t, Message: err.Error()}
		}
		leaf := firstLeaf(ve)
		return &SchemaError{Type: t, Path: leaf.InstanceLocation, Message: leaf.Message}
	}
	return nil
}

func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
