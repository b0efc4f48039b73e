package ai

import (
	"reflect"
	"testing"

	"gymbot/internal/models"
)

func TestSanitizeConstraints(t *testing.T) {
	tests := []struct {
		name string
		in   models.Constraints
		want models.Constraints
	}{
		{
			name: "empty input gets defaults",
			in:   models.Constraints{},
			want: models.Constraints{
				Days:            []string{},
				DurationMinutes: 30,
				Weeks:           1,
				ProgramSplit:    "custom",
				PerDayFocus:     map[string]string{},
			},
		},
		{
			name: "invalid duration replaced",
			in:   models.Constraints{DurationMinutes: 50},
			want: models.Constraints{
				Days: []string{}, DurationMinutes: 30, Weeks: 1,
				ProgramSplit: "custom", PerDayFocus: map[string]string{},
			},
		},
		{
			name: "valid duration kept",
			in:   models.Constraints{DurationMinutes: 45},
			want: models.Constraints{
				Days: []string{}, DurationMinutes: 45, Weeks: 1,
				ProgramSplit: "custom", PerDayFocus: map[string]string{},
			},
		},
		{
			name: "days filtered and deduplicated",
			in:   models.Constraints{Days: []string{"Mon", "Funday", "Wed", "Mon", "Sun"}},
			want: models.Constraints{
				Days: []string{"Mon", "Wed", "Sun"}, DurationMinutes: 30, Weeks: 1,
				ProgramSplit: "custom", PerDayFocus: map[string]string{},
			},
		},
		{
			name: "days_per_week clamped to 7",
			in:   models.Constraints{DaysPerWeek: 9},
			want: models.Constraints{
				Days: []string{}, DaysPerWeek: 7, DurationMinutes: 30, Weeks: 1,
				ProgramSplit: "custom", PerDayFocus: map[string]string{},
			},
		},
		{
			name: "negative days_per_week to zero",
			in:   models.Constraints{DaysPerWeek: -1},
			want: models.Constraints{
				Days: []string{}, DurationMinutes: 30, Weeks: 1,
				ProgramSplit: "custom", PerDayFocus: map[string]string{},
			},
		},
		{
			name: "weeks clamped to 12",
			in:   models.Constraints{Weeks: 52},
			want: models.Constraints{
				Days: []string{}, DurationMinutes: 30, Weeks: 12,
				ProgramSplit: "custom", PerDayFocus: map[string]string{},
			},
		},
		{
			name: "bad time dropped",
			in:   models.Constraints{Time: "7pm"},
			want: models.Constraints{
				Days: []string{}, DurationMinutes: 30, Weeks: 1, Time: "",
				ProgramSplit: "custom", PerDayFocus: map[string]string{},
			},
		},
		{
			name: "good time kept",
			in:   models.Constraints{Time: "19:30"},
			want: models.Constraints{
				Days: []string{}, DurationMinutes: 30, Weeks: 1, Time: "19:30",
				ProgramSplit: "custom", PerDayFocus: map[string]string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeConstraints(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SanitizeConstraints() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSanitizeConstraintsIdempotent(t *testing.T) {
	inputs := []models.Constraints{
		{},
		{Days: []string{"Mon", "Mon", "Xxx"}, DaysPerWeek: 15, DurationMinutes: 50, Weeks: 0, Time: "99:99"},
		{Days: []string{"Tue", "Sat"}, DaysPerWeek: 2, DurationMinutes: 60, Weeks: 4, Time: "06:30", ProgramSplit: "upper_lower"},
	}

	for _, in := range inputs {
		once := SanitizeConstraints(in)
		twice := SanitizeConstraints(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("sanitize не идемпотентен: %+v != %+v", once, twice)
		}
	}
}

func TestIsValidTime(t *testing.T) {
	tests := []struct {
		time string
		want bool
	}{
		{"19:00", true},
		{"00:00", true},
		{"23:59", true},
		{"24:00", false},
		{"19:60", false},
		{"9:00", false},
		{"19-00", false},
		{"", false},
		{"19:000", false},
	}

	for _, tt := range tests {
		if got := IsValidTime(tt.time); got != tt.want {
			t.Errorf("IsValidTime(%q) = %v, want %v", tt.time, got, tt.want)
		}
	}
}

func TestRequestedDays(t *testing.T) {
	tests := []struct {
		name string
		cons models.Constraints
		want []string
	}{
		{
			name: "explicit days win",
			cons: models.Constraints{Days: []string{"Tue", "Sat"}, DaysPerWeek: 5},
			want: []string{"Tue", "Sat"},
		},
		{
			name: "preset for three days",
			cons: models.Constraints{DaysPerWeek: 3, DurationMinutes: 30, Weeks: 1},
			want: []string{"Mon", "Wed", "Fri"},
		},
		{
			name: "unknown count falls back to three day preset",
			cons: models.Constraints{},
			want: []string{"Mon", "Wed", "Fri"},
		},
		{
			name: "full week preset",
			cons: models.Constraints{DaysPerWeek: 7},
			want: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RequestedDays(tt.cons); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RequestedDays() = %v, want %v", got, tt.want)
			}
		})
	}
}
