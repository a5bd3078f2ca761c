package timeutil

import (
	"testing"
	"time"

	"checkinboard/internal/models"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"morning", "09:05", "9:05 AM"},
		{"noon", "12:00", "12:00 PM"},
		{"midnight", "00:00", "12:00 AM"},
		{"evening", "19:30", "7:30 PM"},
		{"last slot", "23:45", "11:45 PM"},
		{"empty", "", ""},
		{"garbage", "not-a-time", ""},
		{"missing minutes", "19", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTime(tt.input); got != tt.want {
				t.Errorf("FormatTime(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatCurrentTime(t *testing.T) {
	tests := []struct {
		name     string
		hour     int
		minute   int
		wantTime string
		wantAMPM string
	}{
		{"afternoon", 15, 4, "3:04", "PM"},
		{"hour zero displays as 12", 0, 30, "12:30", "AM"},
		{"noon", 12, 0, "12:00", "PM"},
		{"single digit minute padded", 9, 7, "9:07", "AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instant := time.Date(2024, 6, 1, tt.hour, tt.minute, 0, 0, time.UTC)
			clock := FormatCurrentTime(instant)
			if clock.Time != tt.wantTime || clock.AMPM != tt.wantAMPM {
				t.Errorf("FormatCurrentTime(%02d:%02d) = %q %q, want %q %q",
					tt.hour, tt.minute, clock.Time, clock.AMPM, tt.wantTime, tt.wantAMPM)
			}
		})
	}
}

func TestCalculateEndTime(t *testing.T) {
	blocks := func(durations ...int) []models.ActivityBlock {
		out := make([]models.ActivityBlock, len(durations))
		for i, d := range durations {
			out[i] = models.ActivityBlock{Duration: d}
		}
		return out
	}

	tests := []struct {
		name   string
		start  string
		blocks []models.ActivityBlock
		want   string
	}{
		{"two blocks", "19:00", blocks(60, 30), "20:30"},
		{"rolls over midnight", "23:30", blocks(60), "00:30"},
		{"no blocks ends at start", "19:00", blocks(), "19:00"},
		{"zero duration block ignored", "10:00", blocks(0, 45), "10:45"},
		{"full day wraps to start", "08:15", blocks(240, 240, 240, 240, 240, 240), "08:15"},
		{"empty start", "", blocks(60), ""},
		{"nil blocks", "19:00", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateEndTime(tt.start, tt.blocks); got != tt.want {
				t.Errorf("CalculateEndTime(%q) = %q, want %q", tt.start, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{90, "1h 30m"},
		{60, "1h"},
		{45, "45m"},
		{0, ""},
		{240, "4h"},
		{135, "2h 15m"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestTimeOptions(t *testing.T) {
	opts := TimeOptions()

	if len(opts) != 96 {
		t.Fatalf("expected 96 slots, got %d", len(opts))
	}
	if opts[0] != "00:00" {
		t.Errorf("first slot = %q, want 00:00", opts[0])
	}
	if opts[len(opts)-1] != "23:45" {
		t.Errorf("last slot = %q, want 23:45", opts[len(opts)-1])
	}
	for i := 1; i < len(opts); i++ {
		if opts[i] <= opts[i-1] {
			t.Errorf("slots not strictly increasing at %d: %q then %q", i, opts[i-1], opts[i])
		}
	}

	// Cached: repeated calls return the same values.
	again := TimeOptions()
	for i := range opts {
		if opts[i] != again[i] {
			t.Fatalf("TimeOptions not stable at index %d", i)
		}
	}
}

func TestValidSlot(t *testing.T) {
	for _, slot := range TimeOptions() {
		if !ValidSlot(slot) {
			t.Errorf("generated slot %q rejected", slot)
		}
	}

	invalid := []string{"", "24:00", "19:10", "9:00", "19:60", "aa:bb"}
	for _, s := range invalid {
		if ValidSlot(s) {
			t.Errorf("ValidSlot(%q) = true, want false", s)
		}
	}
}

func TestSessionLengths(t *testing.T) {
	lengths := SessionLengths()
	if len(lengths) != 16 {
		t.Fatalf("expected 16 session lengths, got %d", len(lengths))
	}
	if lengths[0] != 15 || lengths[15] != 240 {
		t.Errorf("session length range = [%d, %d], want [15, 240]", lengths[0], lengths[15])
	}
	for _, l := range lengths {
		if !ValidSessionLength(l) {
			t.Errorf("generated length %d rejected", l)
		}
	}
	for _, l := range []int{0, 10, 250, 37, -15} {
		if ValidSessionLength(l) {
			t.Errorf("ValidSessionLength(%d) = true, want false", l)
		}
	}
}
