// Package timeutil holds the board's wall-clock string arithmetic.
//
// Stored times are 24-hour "HH:MM" strings quantized to 15 minutes; the board
// displays 12-hour times. All functions here are pure.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"checkinboard/internal/models"
)

const minutesPerDay = 24 * 60

// Clock is a live 12-hour clock reading for the board header.
type Clock struct {
	Time string `json:"time"`
	AMPM string `json:"ampm"`
}

// FormatTime converts a 24-hour "HH:MM" string to "h:mm AM/PM" display form.
// Empty or unparseable input yields "". Hours are not range-checked: the
// stored slots are always 00-23, and out-of-range behavior is deliberately
// left as-is rather than silently normalized.
func FormatTime(time24 string) string {
	if time24 == "" {
		return ""
	}
	hh, mm, ok := splitHHMM(time24)
	if !ok {
		return ""
	}
	ampm := "AM"
	if hh >= 12 {
		ampm = "PM"
	}
	h12 := hh % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, mm, ampm)
}

// FormatCurrentTime converts a clock reading to its 12-hour board display.
// Hour zero displays as 12.
func FormatCurrentTime(t time.Time) Clock {
	hh := t.Hour()
	mm := t.Minute()
	ampm := "AM"
	if hh >= 12 {
		ampm = "PM"
	}
	h12 := hh % 12
	if h12 == 0 {
		h12 = 12
	}
	return Clock{
		Time: fmt.Sprintf("%d:%02d", h12, mm),
		AMPM: ampm,
	}
}

// CalculateEndTime adds the total block duration to a "HH:MM" start time and
// returns the 24-hour end time. The arithmetic is minutes modulo one day, so
// sessions roll over midnight. A nil block list or empty start yields "".
func CalculateEndTime(start string, blocks []models.ActivityBlock) string {
	if start == "" || blocks == nil {
		return ""
	}
	hh, mm, ok := splitHHMM(start)
	if !ok {
		return ""
	}
	total := 0
	for _, b := range blocks {
		total += b.Duration
	}
	end := (hh*60 + mm + total) % minutesPerDay
	if end < 0 {
		end += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", end/60, end%60)
}

// FormatDuration renders minutes as "1h 30m", "1h", or "45m". Zero is "".
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return ""
	}
	h := minutes / 60
	m := minutes % 60
	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	if m > 0 {
		if h > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%dm", m)
	}
	return b.String()
}

var timeOptions = generateTimeOptions()

// TimeOptions returns the 96 legal start slots, "00:00" through "23:45" in
// 15-minute steps. The slice is computed once; callers must not modify it.
func TimeOptions() []string {
	return timeOptions
}

func generateTimeOptions() []string {
	opts := make([]string, 0, 96)
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m += 15 {
			opts = append(opts, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return opts
}

// ValidSlot reports whether s is one of the 96 quantized start slots.
func ValidSlot(s string) bool {
	hh, mm, ok := splitHHMM(s)
	if !ok {
		return false
	}
	return hh >= 0 && hh < 24 && mm >= 0 && mm < 60 && mm%15 == 0 && len(s) == 5
}

var sessionLengths = generateSessionLengths()

// SessionLengths returns the 16 legal block durations: 15 through 240
// minutes in 15-minute steps.
func SessionLengths() []int {
	return sessionLengths
}

func generateSessionLengths() []int {
	lengths := make([]int, 0, 16)
	for i := 1; i <= 16; i++ {
		lengths = append(lengths, i*15)
	}
	return lengths
}

// ValidSessionLength reports whether minutes is a legal block duration.
func ValidSessionLength(minutes int) bool {
	return minutes >= 15 && minutes <= 240 && minutes%15 == 0
}

func splitHHMM(s string) (hh, mm int, ok bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	mm, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return hh, mm, true
}
