package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// SlotMap holds every booked slot of a doctor: ISO date -> 24-hour times in booking order.
// It is stored as JSON text so any SQL column type can hold it.
type SlotMap map[string][]string

// Value implements the driver.Valuer interface
func (m SlotMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	jsonData, err := json.Marshal(map[string][]string(m))
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (m *SlotMap) Scan(value interface{}) error {
	if value == nil {
		*m = SlotMap{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal SlotMap: unsupported type %T", value)
	}

	parsed := map[string][]string{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("failed to unmarshal SlotMap: %w", err)
		}
	}
	*m = parsed
	return nil
}

// GormDataType keeps the column a plain text column.
func (SlotMap) GormDataType() string {
	return "text"
}

// Has reports whether time is already held on date.
func (m SlotMap) Has(date, time string) bool {
	for _, t := range m[date] {
		if t == time {
			return true
		}
	}
	return false
}

// Add appends time to the date's sequence, creating it when absent.
func (m SlotMap) Add(date, time string) {
	m[date] = append(m[date], time)
}

// Remove drops the first occurrence of time on date and reports whether anything was removed.
// The date key is kept even when its sequence becomes empty.
func (m SlotMap) Remove(date, time string) bool {
	times, ok := m[date]
	if !ok {
		return false
	}
	for i, t := range times {
		if t == time {
			m[date] = append(times[:i:i], times[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate without aliasing the original.
func (m SlotMap) Clone() SlotMap {
	out := make(SlotMap, len(m))
	for date, times := range m {
		out[date] = append([]string(nil), times...)
	}
	return out
}

// PruneBefore removes dates earlier than cutoff (ISO dates compare lexically) and dates with no
// slots left. It returns the number of removed dates.
func (m SlotMap) PruneBefore(cutoff string) int {
	removed := 0
	for date, times := range m {
		if date < cutoff || len(times) == 0 {
			delete(m, date)
			removed++
		}
	}
	return removed
}

// Dates returns the keys in ascending order.
func (m SlotMap) Dates() []string {
	dates := make([]string, 0, len(m))
	for date := range m {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}
