package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-import-service/internal/importer/service"
)

var ref = time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)

func TestParseDateCanonicalForms(t *testing.T) {
	// every supported spelling of the same date must land on one canonical value
	inputs := []string{
		"18 febbraio 2026",
		"18/02/2026",
		"2026-02-18",
		"18.02.2026",
		"18-02-2026",
		"Feb 18, 2026",
		"February 18, 2026",
		"18 feb 2026",
	}
	for _, in := range inputs {
		got, ok := service.ParseDate(in, true, ref)
		require.True(t, ok, "input %q", in)
		assert.Equal(t, "2026-02-18", service.FormatDate(got), "input %q", in)
	}
}

func TestParseDateAmbiguousOrder(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		dayFirst bool
		want     string
	}{
		{"both <= 12, day-first policy", "05/03/2026", true, "2026-03-05"},
		{"both <= 12, month-first policy", "05/03/2026", false, "2026-05-03"},
		{"first > 12 is the day regardless", "13/05/2026", false, "2026-05-13"},
		{"second > 12 is the day regardless", "05/13/2026", true, "2026-05-13"},
		{"two-digit year", "18/02/26", true, "2026-02-18"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := service.ParseDate(tt.in, tt.dayFirst, ref)
			require.True(t, ok)
			assert.Equal(t, tt.want, service.FormatDate(got))
		})
	}
}

func TestParseDateDefaultsYearFromReference(t *testing.T) {
	got, ok := service.ParseDate("18 febbraio", true, ref)
	require.True(t, ok)
	assert.Equal(t, "2026-02-18", service.FormatDate(got))
}

func TestParseDateRelative(t *testing.T) {
	got, ok := service.ParseDate("tomorrow", true, ref)
	require.True(t, ok)
	assert.Equal(t, "2026-02-18", service.FormatDate(got))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	// unparsable input must come back as an explicit empty, never a guess
	for _, in := range []string{
		"",
		"   ",
		"not a date",
		"30 febbraio 2026", // normalizes to March in time.Date, must be rejected
		"99/99/2026",
		"0/0/0",
	} {
		_, ok := service.ParseDate(in, true, ref)
		assert.False(t, ok, "input %q", in)
	}
}
