package task

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{"rfc3339 utc", "2025-11-10T08:00:00Z", time.Date(2025, 11, 10, 8, 0, 0, 0, time.UTC), true},
		{"rfc3339 millis", "2025-11-10T08:00:00.000Z", time.Date(2025, 11, 10, 8, 0, 0, 0, time.UTC), true},
		{"rfc3339 offset", "2025-11-10T10:00:00+02:00", time.Date(2025, 11, 10, 8, 0, 0, 0, time.UTC), true},
		{"date only is utc", "2025-11-10", time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC), true},
		{"surrounding space", " 2025-11-10 ", time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "tomorrow", time.Time{}, false},
		{"invalid day", "2025-02-30", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTime(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseTime(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimeLocalWallClock(t *testing.T) {
	got, ok := ParseTime("2025-11-10T14:30")
	if !ok {
		t.Fatal("expected datetime-local value to parse")
	}
	want := time.Date(2025, 11, 10, 14, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParsePriority(t *testing.T) {
	for _, p := range Priorities() {
		got, err := ParsePriority(strings.ToUpper(string(p)))
		if err != nil {
			t.Fatalf("ParsePriority(%q): %v", p, err)
		}
		if got != p {
			t.Errorf("got %q, want %q", got, p)
		}
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestPriorityRank(t *testing.T) {
	if PriorityLow.Rank() >= PriorityMedium.Rank() || PriorityMedium.Rank() >= PriorityHigh.Rank() {
		t.Error("expected low < medium < high")
	}
	if Priority("urgent").Rank() != 0 {
		t.Error("expected unknown priority to rank 0")
	}
}

func TestFilter(t *testing.T) {
	tasks := []Task{
		{ID: "1", IsCompleted: true},
		{ID: "2"},
		{ID: "3", IsCompleted: true},
	}

	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{"1", "2", "3"}},
		{FilterActive, []string{"2"}},
		{FilterCompleted, []string{"1", "3"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := tt.filter.Apply(tasks)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tasks, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}

	if _, err := ParseFilter("done"); err == nil {
		t.Error("expected error for unknown filter")
	}
	if f, err := ParseFilter(""); err != nil || f != FilterAll {
		t.Errorf("ParseFilter(\"\") = %q, %v", f, err)
	}
}

func TestTaskJSONShape(t *testing.T) {
	task := Task{
		ID:               "T1",
		Title:            "Essay",
		Priority:         PriorityHigh,
		DueDate:          "2025-11-10",
		EstimatedMinutes: 90,
		CreatedAt:        "2025-11-01T08:00:00.000Z",
	}
	data, err := json.Marshal(task)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, key := range []string{`"dueDate"`, `"isCompleted":false`, `"estimatedMinutes":90`, `"createdAt"`} {
		if !strings.Contains(out, key) {
			t.Errorf("expected %s in %s", key, out)
		}
	}
	if strings.Contains(out, "description") {
		t.Errorf("empty description should be omitted: %s", out)
	}
}

func TestSummarize(t *testing.T) {
	tasks := []Task{
		{ID: "1", Priority: PriorityHigh, IsCompleted: true, DueDate: "2025-11-10"},
		{ID: "2", Priority: PriorityLow, DueDate: "2025-12-01T09:00:00Z"},
		{ID: "3", Priority: PriorityHigh, DueDate: "not a date"},
	}
	s := Summarize(tasks)

	if s.Total != 3 || s.Completed != 1 || s.Active != 2 {
		t.Errorf("counts = %d/%d/%d, want 3/1/2", s.Total, s.Completed, s.Active)
	}
	if s.Percent != 33 {
		t.Errorf("Percent = %d, want 33", s.Percent)
	}
	if s.ByPriority[PriorityHigh] != 2 || s.ByPriority[PriorityLow] != 1 || s.ByPriority[PriorityMedium] != 0 {
		t.Errorf("ByPriority = %v", s.ByPriority)
	}
	if s.LatestDue != "2025-12-01T09:00:00Z" {
		t.Errorf("LatestDue = %q", s.LatestDue)
	}

	empty := Summarize(nil)
	if empty.Percent != 0 || empty.LatestDue != "" {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestIndexAndClone(t *testing.T) {
	tasks := []Task{{ID: "a"}, {ID: "b"}}
	if Index(tasks, "b") != 1 || Index(tasks, "z") != -1 {
		t.Error("Index returned wrong position")
	}
	c := Clone(tasks)
	c[0].ID = "changed"
	if tasks[0].ID != "a" {
		t.Error("Clone shares backing array")
	}
}
