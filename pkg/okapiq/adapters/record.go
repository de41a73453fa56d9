package adapters

import (
	"strconv"
	"strings"
)

// Typed accessors over the loosely-shaped Record map, tolerant of
// missing keys and of the handful of numeric shapes JSON decoding can
// produce (float64, int, string-that-parses).

func (r Record) str(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (r Record) float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func (r Record) intVal(key string) (int, bool) {
	f, ok := r.float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Name returns the "name" field.
func (r Record) Name() (string, bool) { return r.str("name") }

// Address returns the "address" field.
func (r Record) Address() (string, bool) { return r.str("address") }

// Phone returns the "phone" field.
func (r Record) Phone() (string, bool) { return r.str("phone") }

// Website returns the "website" field.
func (r Record) Website() (string, bool) { return r.str("website") }

// Rating returns the "rating" field.
func (r Record) Rating() (float64, bool) { return r.float("rating") }

// ReviewCount returns the "review_count" field.
func (r Record) ReviewCount() (int, bool) { return r.intVal("review_count") }

// EstimatedRevenue returns the "estimated_revenue" field.
func (r Record) EstimatedRevenue() (float64, bool) { return r.float("estimated_revenue") }

// EmployeeCount returns the "employee_count" field.
func (r Record) EmployeeCount() (int, bool) { return r.intVal("employee_count") }

// YearsInBusiness returns the "years_in_business" field.
func (r Record) YearsInBusiness() (int, bool) { return r.intVal("years_in_business") }

// OwnerName returns the "owner_name" field.
func (r Record) OwnerName() (string, bool) { return r.str("owner_name") }

// Coordinates returns the "lat"/"lng" fields if both are present.
func (r Record) Coordinates() (lat, lng float64, ok bool) {
	lat, okLat := r.float("lat")
	lng, okLng := r.float("lng")
	return lat, lng, okLat && okLng
}

// newRecord is a small builder used by adapters to keep Fetch bodies readable.
func newRecord(fields map[string]interface{}) Record {
	return Record(fields)
}
