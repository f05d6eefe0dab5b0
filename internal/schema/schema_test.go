package schema

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/homework-go/internal/task"
)

func fixedNormalizer() Normalizer {
	n := 0
	return Normalizer{
		Now: func() time.Time { return time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		},
	}
}

func TestRecordShape(t *testing.T) {
	records, err := Decode([]byte(`[
		{"id": "a", "title": "new", "dueDate": "2025-11-10", "isCompleted": true},
		{"id": "b", "title": "old", "deadline": "2025-11-11", "status": "виконано"},
		{"id": "c", "title": "old bool", "status": true}
	]`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []Shape{ShapeCurrent, ShapeLegacy, ShapeLegacy}
	for i, shape := range want {
		if records[i].Shape != shape {
			t.Errorf("record %d shape = %s, want %s", i, records[i].Shape, shape)
		}
	}
}

func TestMigrateLegacy(t *testing.T) {
	data := []byte(`[
		{"id": "1", "title": "Essay", "deadline": "2025-11-10", "status": "виконано", "priority": "high"},
		{"id": "2", "title": "Lab", "deadline": "2025-11-12", "status": "в процесі"},
		{"id": "3", "title": "Quiz", "status": "true"},
		{"id": "4", "title": "Both", "deadline": "2025-01-01", "dueDate": "2025-02-02", "status": "виконано", "isCompleted": false},
		{"title": "Bare"}
	]`)

	tasks, _, err := Migrate(data, fixedNormalizer())
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if len(tasks) != 5 {
		t.Fatalf("got %d tasks, want 5", len(tasks))
	}

	if tasks[0].DueDate != "2025-11-10" || !tasks[0].IsCompleted || tasks[0].Priority != task.PriorityHigh {
		t.Errorf("legacy done task migrated wrong: %+v", tasks[0])
	}
	if tasks[1].IsCompleted {
		t.Error("in-progress legacy status should not be completed")
	}
	if !tasks[2].IsCompleted {
		t.Error(`status "true" should be completed`)
	}
	if tasks[3].DueDate != "2025-02-02" || tasks[3].IsCompleted {
		t.Errorf("current keys must win over legacy keys: %+v", tasks[3])
	}

	bare := tasks[4]
	if bare.ID != "gen-1" {
		t.Errorf("ID = %q, want generated id", bare.ID)
	}
	if bare.Priority != task.PriorityMedium || bare.EstimatedMinutes != 0 || bare.IsCompleted {
		t.Errorf("defaults not applied: %+v", bare)
	}
	if bare.CreatedAt != "2025-11-01T08:00:00.000Z" {
		t.Errorf("CreatedAt = %q", bare.CreatedAt)
	}
}

func TestMigrateRejectsNonArray(t *testing.T) {
	if _, _, err := Migrate([]byte(`{"tasks": []}`), Normalizer{}); err == nil {
		t.Fatal("expected error for non-array document")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantPaths []string
	}{
		{
			name:  "valid current shape",
			input: `[{"id": "a", "title": "T", "priority": "low", "dueDate": "2025-11-10T10:00:00Z", "estimatedMinutes": 60, "isCompleted": false, "createdAt": "2025-11-01T00:00:00Z"}]`,
		},
		{
			name:  "valid legacy shape",
			input: `[{"id": "a", "title": "T", "deadline": "2025-11-10", "status": "не виконано"}]`,
		},
		{
			name:  "unknown keys ignored",
			input: `[{"id": "a", "title": "T", "color": "red"}]`,
		},
		{
			name:      "bad priority",
			input:     `[{"id": "a", "priority": "urgent"}]`,
			wantErr:   true,
			wantPaths: []string{"[0].priority"},
		},
		{
			name:      "negative minutes",
			input:     `[{"id": "a", "estimatedMinutes": -5}]`,
			wantErr:   true,
			wantPaths: []string{"[0].estimatedMinutes"},
		},
		{
			name:      "fractional minutes",
			input:     `[{"id": "a", "estimatedMinutes": 1.5}]`,
			wantErr:   true,
			wantPaths: []string{"[0].estimatedMinutes"},
		},
		{
			name:      "over daily cap",
			input:     `[{"id": "ok", "estimatedMinutes": 1440}, {"id": "big", "estimatedMinutes": 1441}]`,
			wantErr:   true,
			wantPaths: []string{"[1].estimatedMinutes"},
		},
		{
			name:      "minutes beyond int range",
			input:     `[{"id": "a", "dueDate": "2025-11-10", "estimatedMinutes": 9223372036854775808}]`,
			wantErr:   true,
			wantPaths: []string{"[0].estimatedMinutes"},
		},
		{
			name:      "unreadable due date",
			input:     `[{"id": "a", "dueDate": "someday"}]`,
			wantErr:   true,
			wantPaths: []string{"[0].dueDate"},
		},
		{
			name:      "duplicate ids",
			input:     `[{"id": "a"}, {"id": "a"}]`,
			wantErr:   true,
			wantPaths: []string{"[1].id"},
		},
		{
			name:      "not an array",
			input:     `{"id": "a"}`,
			wantErr:   true,
			wantPaths: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := Validate([]byte(tt.input), fixedNormalizer())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if len(tasks) == 0 {
					t.Error("expected tasks")
				}
				return
			}
			issues, ok := AsValidationErrors(err)
			if !ok {
				t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
			}
			for _, want := range tt.wantPaths {
				found := false
				for _, issue := range issues {
					if issue.Path == want {
						found = true
					}
				}
				if !found {
					t.Errorf("expected an issue at %q, got %v", want, issues)
				}
			}
		})
	}
}

func TestValidateSyntaxError(t *testing.T) {
	_, err := Validate([]byte(`[{"id": `), Normalizer{})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := AsValidationErrors(err); ok {
		t.Error("syntax errors are not validation issue lists")
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	err := error(ValidationErrors{
		{Path: "[0].priority", Err: errors.New("bad")},
		{Path: "", Err: errors.New("worse")},
	})
	msg := err.Error()
	if !strings.Contains(msg, "2 validation error(s)") || !strings.Contains(msg, "[0].priority: bad") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"/", ""},
		{"/0", "[0]"},
		{"/0/priority", "[0].priority"},
		{"#/3/due~1date", "[3].due/date"},
		{"/a/b", "a.b"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := jsonPointerToPath(tt.input); got != tt.want {
				t.Errorf("jsonPointerToPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSourceIsCopy(t *testing.T) {
	src := Source()
	if !strings.Contains(string(src), "estimatedMinutes") {
		t.Fatal("embedded schema missing")
	}
	src[0] = 'X'
	if Source()[0] == 'X' {
		t.Error("Source must return a copy")
	}
}

func TestMigrateClampsHugeMinutes(t *testing.T) {
	tasks, _, err := Migrate([]byte(`[{"id": "a", "estimatedMinutes": 1e300}, {"id": "b", "estimatedMinutes": -3}]`), fixedNormalizer())
	if err != nil {
		t.Fatal(err)
	}
	if tasks[0].EstimatedMinutes != task.MaxMinutes+1 {
		t.Errorf("huge estimate = %d, want %d", tasks[0].EstimatedMinutes, task.MaxMinutes+1)
	}
	if tasks[1].EstimatedMinutes != 0 {
		t.Errorf("negative estimate = %d, want 0", tasks[1].EstimatedMinutes)
	}
	if issues := CheckRules(tasks); len(issues) != 1 || issues[0].Path != "[0].estimatedMinutes" {
		t.Errorf("CheckRules = %v", issues)
	}
}

func TestCheckRulesRejectsNegativeMinutes(t *testing.T) {
	issues := CheckRules([]task.Task{{ID: "a", EstimatedMinutes: -1}})
	if len(issues) != 1 || issues[0].Path != "[0].estimatedMinutes" {
		t.Errorf("CheckRules = %v", issues)
	}
}

func TestMigrateReportsGenerated(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"complete records", `[{"id": "a", "createdAt": "2025-11-01T00:00:00Z"}]`, false},
		{"missing id", `[{"title": "T", "createdAt": "2025-11-01T00:00:00Z"}]`, true},
		{"empty id", `[{"id": "", "createdAt": "2025-11-01T00:00:00Z"}]`, true},
		{"missing createdAt", `[{"id": "a"}]`, true},
		{"empty file", `[]`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, generated, err := Migrate([]byte(tt.input), fixedNormalizer())
			if err != nil {
				t.Fatal(err)
			}
			if generated != tt.want {
				t.Errorf("generated = %v, want %v", generated, tt.want)
			}
		})
	}
}
