package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Month names accepted by the textual tier, Italian and English, full and
// abbreviated.
var monthNames = map[string]time.Month{
	"gen": 1, "gennaio": 1, "feb": 2, "febbraio": 2, "mar": 3, "marzo": 3,
	"apr": 4, "aprile": 4, "mag": 5, "maggio": 5, "giu": 6, "giugno": 6,
	"lug": 7, "luglio": 7, "ago": 8, "agosto": 8, "set": 9, "sett": 9,
	"settembre": 9, "ott": 10, "ottobre": 10, "nov": 11, "novembre": 11,
	"dic": 12, "dicembre": 12,

	"jan": 1, "january": 1, "february": 2, "march": 3, "april": 4, "may": 5,
	"jun": 6, "june": 6, "jul": 7, "july": 7, "aug": 8, "august": 8,
	"sep": 9, "september": 9, "oct": 10, "october": 10, "november": 11,
	"dec": 12, "december": 12,
}

var (
	reNumericDate = regexp.MustCompile(`^(\d{1,4})[./-](\d{1,2})[./-](\d{1,4})$`)
	reDayMonth    = regexp.MustCompile(`^(\d{1,2})\s+(\p{L}+)\s*,?\s*(\d{4})?$`)
	reMonthDay    = regexp.MustCompile(`^(\p{L}+)\s+(\d{1,2})\s*,?\s*(\d{4})?$`)
)

// relParser handles relative phrases ("tomorrow", "next friday") against a
// supplied reference time.
var relParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ParseDate turns a heterogeneous date string into a concrete date. Tiers, in
// priority order: numeric with -, / or . separators (day-first or year-first),
// Italian/English month names, relative phrases against ref. Never errors:
// unrecognized input returns false and the caller records the field as absent.
//
// Ambiguous day/month order (both components <= 12) follows dayFirst; a
// component > 12 is taken as the day unconditionally.
func ParseDate(s string, dayFirst bool, ref time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := reNumericDate.FindStringSubmatch(s); m != nil {
		return parseNumericDate(m, dayFirst)
	}

	// "18 febbraio 2026", "18 feb"
	if m := reDayMonth.FindStringSubmatch(s); m != nil {
		if month, ok := monthNames[strings.ToLower(m[2])]; ok {
			return mkDate(yearOr(m[3], ref), int(month), atoiSafe(m[1]))
		}
	}
	// "Feb 17, 2026", "February 17"
	if m := reMonthDay.FindStringSubmatch(s); m != nil {
		if month, ok := monthNames[strings.ToLower(m[1])]; ok {
			return mkDate(yearOr(m[3], ref), int(month), atoiSafe(m[2]))
		}
	}

	if !ref.IsZero() {
		if r, err := relParser.Parse(s, ref); err == nil && r != nil {
			t := r.Time
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

func parseNumericDate(m []string, dayFirst bool) (time.Time, bool) {
	a, b, c := atoiSafe(m[1]), atoiSafe(m[2]), atoiSafe(m[3])

	// year-first: 2026-02-18
	if len(m[1]) == 4 {
		return mkDate(a, b, c)
	}

	year := c
	if len(m[3]) == 2 {
		year += 2000
	}

	day, month := a, b
	switch {
	case a > 12 && b <= 12:
		day, month = a, b
	case b > 12 && a <= 12:
		day, month = b, a
	case !dayFirst:
		day, month = b, a
	}
	return mkDate(year, month, day)
}

// mkDate validates by round-trip: time.Date normalizes Feb 30 into March,
// which we must reject.
func mkDate(year, month, day int) (time.Time, bool) {
	if year < 1000 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

func yearOr(s string, ref time.Time) int {
	if s == "" {
		if ref.IsZero() {
			return time.Now().Year()
		}
		return ref.Year()
	}
	return atoiSafe(s)
}

func atoiSafe(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// FormatDate renders the canonical ISO form used across the dataset.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
