package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	for _, name := range []string{"", "Local", "UTC", "Europe/Rome", "America/New_York"} {
		loc, err := LoadLocation(name)
		if err != nil || loc == nil {
			t.Errorf("LoadLocation(%q) = %v, %v", name, loc, err)
		}
	}
	if _, err := LoadLocation("Invalid/Timezone"); err == nil {
		t.Error("LoadLocation(Invalid/Timezone) should fail")
	}
	if ValidateTimezone("Mars/Olympus") {
		t.Error("ValidateTimezone(Mars/Olympus) = true")
	}
}

func TestParseRaceDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "padded", input: "30/03/2025", want: time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)},
		{name: "unpadded", input: "5/4/2025", want: time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)},
		{name: "iso is rejected", input: "2025-03-30", wantErr: true},
		{name: "day out of range", input: "32/01/2025", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRaceDate(tt.input, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRaceDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseRaceDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	base := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		to   time.Time
		want int
	}{
		{name: "same instant", to: base, want: 0},
		{name: "later today rounds up", to: base.Add(2 * time.Hour), want: 1},
		{name: "yesterday midnight", to: time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), want: -1},
		{name: "ten days", to: base.AddDate(0, 0, 10), want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntil(base, tt.to); got != tt.want {
				t.Errorf("DaysUntil() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2025, 6, 1, 23, 59, 59, 10, time.UTC)
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := StartOfDay(in); !got.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
}
