package capacity

import (
	"testing"
	"time"

	"github.com/nibzard/homework-go/internal/task"
)

func TestTotals(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", DueDate: "2025-11-10T08:00:00Z", EstimatedMinutes: 60},
		{ID: "2", DueDate: "2025-11-10T12:00:00Z", EstimatedMinutes: 120},
		{ID: "3", EstimatedMinutes: 500},
		{ID: "4", DueDate: "whenever", EstimatedMinutes: 45},
		{ID: "5", DueDate: "2025-11-11", EstimatedMinutes: 30},
	}

	totals := Totals(tasks, Options{})
	if got := totals["2025-11-10"]; got != 180 {
		t.Errorf("2025-11-10 total = %d, want 180", got)
	}
	if got := totals["2025-11-11"]; got != 30 {
		t.Errorf("2025-11-11 total = %d, want 30", got)
	}
	if len(totals) != 2 {
		t.Errorf("expected 2 day keys, got %d: %v", len(totals), totals)
	}
}

func TestTotalsGroupsInUTCByDefault(t *testing.T) {
	// 01:00 at UTC+2 is 23:00 UTC on the previous day.
	tasks := []task.Task{
		{ID: "1", DueDate: "2025-11-10T01:00:00+02:00", EstimatedMinutes: 10},
	}
	totals := Totals(tasks, Options{})
	if totals["2025-11-09"] != 10 {
		t.Errorf("expected UTC grouping to put the task on 2025-11-09, got %v", totals)
	}

	zone := time.FixedZone("UTC+2", 2*60*60)
	local := Totals(tasks, Options{Location: zone})
	if local["2025-11-10"] != 10 {
		t.Errorf("expected zone grouping to put the task on 2025-11-10, got %v", local)
	}
}

func TestWillExceedDailyLimit(t *testing.T) {
	base := []task.Task{
		{ID: "base", DueDate: "2025-11-11T08:00:00Z", EstimatedMinutes: 1400},
	}

	tests := []struct {
		name  string
		day   string
		added int
		want  bool
	}{
		{"over the limit", "2025-11-11", 60, true},
		{"just under", "2025-11-11", 39, false},
		{"exactly at limit", "2025-11-11", 40, false},
		{"one past", "2025-11-11", 41, true},
		{"other day", "2025-11-12", 1440, false},
		{"other day over", "2025-11-12", 1441, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WillExceedDailyLimit(base, tt.day, tt.added, Options{}); got != tt.want {
				t.Errorf("WillExceedDailyLimit(%s, %d) = %v, want %v", tt.day, tt.added, got, tt.want)
			}
		})
	}
}

func TestIsOverbooked(t *testing.T) {
	at := func(minutes int) []task.Task {
		return []task.Task{
			{ID: "a", DueDate: "2025-11-12T09:00:00Z", EstimatedMinutes: minutes - 1},
			{ID: "b", DueDate: "2025-11-12T18:00:00Z", EstimatedMinutes: 1},
		}
	}

	if !IsOverbooked(at(721), "2025-11-12", Options{}) {
		t.Error("expected 721 minutes to be overbooked")
	}
	if IsOverbooked(at(720), "2025-11-12", Options{}) {
		t.Error("expected exactly 720 minutes not to be overbooked")
	}
	if IsOverbooked(nil, "2025-11-12", Options{}) {
		t.Error("expected an empty day not to be overbooked")
	}
	if !IsOverbooked(at(61), "2025-11-12", Options{Threshold: 60}) {
		t.Error("expected custom threshold to apply")
	}
}

func TestDays(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", DueDate: "2025-11-12", EstimatedMinutes: 800},
		{ID: "2", DueDate: "2025-11-10", EstimatedMinutes: 30},
		{ID: "3", DueDate: "2025-11-10T20:00:00Z", EstimatedMinutes: 30},
		{ID: "4"},
	}
	days := Days(tasks, Options{})
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Day != "2025-11-10" || days[0].Minutes != 60 || days[0].Tasks != 2 || days[0].Overbooked {
		t.Errorf("unexpected first day: %+v", days[0])
	}
	if days[1].Day != "2025-11-12" || !days[1].Overbooked {
		t.Errorf("unexpected second day: %+v", days[1])
	}

	over := OverbookedDays(tasks, Options{})
	if !over["2025-11-12"] || over["2025-11-10"] {
		t.Errorf("OverbookedDays = %v", over)
	}
}

func TestEffectiveOptions(t *testing.T) {
	var o Options
	if o.EffectiveLimit() != DefaultLimit || o.EffectiveThreshold() != DefaultThreshold {
		t.Error("zero Options should use defaults")
	}
	o = Options{Limit: 600, Threshold: 300}
	if o.EffectiveLimit() != 600 || o.EffectiveThreshold() != 300 {
		t.Error("explicit Options should override defaults")
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{150, "2h30m"},
		{725, "12h05m"},
		{1440, "24h"},
	}
	for _, tt := range tests {
		if got := FormatMinutes(tt.in); got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
