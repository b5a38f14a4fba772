package utils

import (
	"fmt"
	"time"
)

var diagnosisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDiagnosisDate reads a diagnosis date in loc. An empty value means now.
func ParseDiagnosisDate(raw string, loc *time.Location, now time.Time) (time.Time, error) {
	if raw == "" {
		return now.In(loc), nil
	}
	for _, layout := range diagnosisDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid diagnosis date %q", raw)
}
