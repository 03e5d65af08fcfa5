package handler

import (
	"strconv"
	"strings"
)

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// dateOrder maps the form value to the day-first flag, falling back to the
// configured default. "dmy" is day-first, "mdy" month-first.
func dateOrder(s, def string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dmy", "dayfirst", "day-first":
		return true
	case "mdy", "monthfirst", "month-first":
		return false
	default:
		return !strings.EqualFold(def, "mdy")
	}
}
