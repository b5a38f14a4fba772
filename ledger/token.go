package ledger

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	slotDatePattern  = regexp.MustCompile(`^(\d{1,2})_(\d{1,2})_(\d{4})$`)
	slotTimePattern  = regexp.MustCompile(`^(?i)(\d{1,2}):(\d{2})\s?(AM|PM)$`)
	slotClockPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):00$`)
	isoDatePattern   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	isoTimePattern   = regexp.MustCompile(`^(\d{2}):(\d{2})(?::(\d{2}))?$`)
)

// ParseSlotDate converts a D_M_YYYY token into an ISO YYYY-MM-DD date.
func ParseSlotDate(token string) (string, error) {
	m := slotDatePattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return "", malformed("Invalid slot date %q, expected D_M_YYYY", token)
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if !validDate(year, month, day) {
		return "", malformed("Invalid slot date %q", token)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

// ParseSlotTime converts an H:MM AM/PM token into a 24-hour HH:MM:00 time.
func ParseSlotTime(token string) (string, error) {
	m := slotTimePattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return "", malformed("Invalid slot time %q, expected H:MM AM/PM", token)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return "", malformed("Invalid slot time %q", token)
	}

	pm := strings.EqualFold(m[3], "PM")
	switch {
	case pm && hour != 12:
		hour += 12
	case !pm && hour == 12:
		hour = 0
	}
	return fmt.Sprintf("%02d:%02d:00", hour, minute), nil
}

// FormatSlotDate renders an ISO date back into its D_M_YYYY token.
func FormatSlotDate(iso string) (string, error) {
	m := isoDatePattern.FindStringSubmatch(iso)
	if m == nil {
		return "", malformed("Invalid ISO date %q", iso)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if !validDate(year, month, day) {
		return "", malformed("Invalid ISO date %q", iso)
	}
	return fmt.Sprintf("%d_%d_%d", day, month, year), nil
}

// FormatSlotTime renders a 24-hour time back into its H:MM AM/PM token.
func FormatSlotTime(clock string) (string, error) {
	m := isoTimePattern.FindStringSubmatch(clock)
	if m == nil {
		return "", malformed("Invalid time %q", clock)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return "", malformed("Invalid time %q", clock)
	}

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix), nil
}

// NormalizeSlot parses both request tokens at once.
func NormalizeSlot(dateToken, timeToken string) (date, clock string, err error) {
	if date, err = ParseSlotDate(dateToken); err != nil {
		return "", "", err
	}
	if clock, err = ParseSlotTime(timeToken); err != nil {
		return "", "", err
	}
	return date, clock, nil
}

// canonicalSlot reports whether date and clock are exactly what NormalizeSlot produces.
func canonicalSlot(date, clock string) bool {
	d := isoDatePattern.FindStringSubmatch(date)
	c := slotClockPattern.FindStringSubmatch(clock)
	if d == nil || c == nil {
		return false
	}
	year, _ := strconv.Atoi(d[1])
	month, _ := strconv.Atoi(d[2])
	day, _ := strconv.Atoi(d[3])
	hour, _ := strconv.Atoi(c[1])
	minute, _ := strconv.Atoi(c[2])
	return validDate(year, month, day) && hour <= 23 && minute <= 59
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day && int(t.Month()) == month
}
