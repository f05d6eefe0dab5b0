package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/homework-go/internal/task"
)

//go:embed tasks.schema.json
var tasksSchema []byte

const tasksSchemaURL = "tasks.schema.json"

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors is the full list of problems found in one collection.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return fmt.Sprintf("%d validation error(s): %s", len(e), strings.Join(msgs, "; "))
}

// AsValidationErrors extracts the issue list from err, if it carries one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Source returns the embedded JSON Schema document.
func Source() []byte {
	out := make([]byte, len(tasksSchema))
	copy(out, tasksSchema)
	return out
}

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(tasksSchemaURL, bytes.NewReader(tasksSchema)); err != nil {
		return nil, fmt.Errorf("load tasks schema: %w", err)
	}
	schema, err := compiler.Compile(tasksSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile tasks schema: %w", err)
	}
	return schema, nil
})

// Validate checks raw JSON against the task schema, migrates every record,
// and enforces the collection rules: estimates at most task.MaxMinutes,
// readable due dates, and unique ids. Any problem aborts the whole
// collection; the returned error is then ValidationErrors.
func Validate(data []byte, n Normalizer) ([]task.Task, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}

	schema, err := compiled()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		var issues ValidationErrors
		collectSchemaErrors(&issues, err)
		return nil, issues
	}

	records, err := Decode(data)
	if err != nil {
		return nil, err
	}

	tasks := make([]task.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, r.Task(n))
	}
	if issues := CheckRules(tasks); len(issues) > 0 {
		return nil, issues
	}
	return tasks, nil
}

// CheckRules reports the domain rules a collection breaks.
func CheckRules(tasks []task.Task) ValidationErrors {
	var issues ValidationErrors
	seen := make(map[string]int, len(tasks))
	for i, t := range tasks {
		path := fmt.Sprintf("[%d]", i)
		if t.EstimatedMinutes < 0 {
			issues = append(issues, &ValidationError{
				Path: path + ".estimatedMinutes",
				Err:  fmt.Errorf("task %q: estimatedMinutes cannot be negative", label(t)),
			})
		}
		if t.EstimatedMinutes > task.MaxMinutes {
			issues = append(issues, &ValidationError{
				Path: path + ".estimatedMinutes",
				Err:  fmt.Errorf("task %q: estimatedMinutes must be <= %d (24 hours)", label(t), task.MaxMinutes),
			})
		}
		if t.DueDate != "" {
			if _, ok := t.Due(); !ok {
				issues = append(issues, &ValidationError{
					Path: path + ".dueDate",
					Err:  fmt.Errorf("task %q: unreadable date %q", label(t), t.DueDate),
				})
			}
		}
		if first, dup := seen[t.ID]; dup {
			issues = append(issues, &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("duplicate id %q (first used at [%d])", t.ID, first),
			})
			continue
		}
		seen[t.ID] = i
	}
	return issues
}

func label(t task.Task) string {
	if t.ID != "" {
		return t.ID
	}
	return t.Title
}

func collectSchemaErrors(issues *ValidationErrors, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		*issues = append(*issues, &ValidationError{Err: err})
		return
	}
	collectCauses(issues, ve)
}

func collectCauses(issues *ValidationErrors, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*issues = append(*issues, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectCauses(issues, cause)
	}
}

// jsonPointerToPath turns "/0/priority" into "[0].priority".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
