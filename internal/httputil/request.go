package httputil

import (
	"fmt"
	"net/http"
	"strconv"
)

// FormInt parses an integer form field, returning def when the field is
// absent or blank.
func FormInt(r *http.Request, field string, def int) (int, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("field %q: expected integer, got %q", field, raw)
	}
	return n, nil
}

// FormBool parses a checkbox-style form field. Absent or blank means def;
// "1", "true", "on" and "yes" mean true, anything else false.
func FormBool(r *http.Request, field string, def bool) bool {
	raw := r.FormValue(field)
	if raw == "" {
		return def
	}
	switch raw {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// FormString returns a form field, or def when the field is absent or blank.
func FormString(r *http.Request, field, def string) string {
	if raw := r.FormValue(field); raw != "" {
		return raw
	}
	return def
}
