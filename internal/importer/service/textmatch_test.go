package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"order-import-service/internal/importer/service"
)

func TestTokenize(t *testing.T) {
	got := service.Tokenize("The USB-C Cable, per la TV!")
	assert.Equal(t, map[string]struct{}{
		"usb": {}, "cable": {}, "la": {}, "tv": {},
	}, got)
}

func TestSimilarityBounds(t *testing.T) {
	assert.Equal(t, 0.0, service.Similarity("", "USB Cable"))
	assert.Equal(t, 0.0, service.Similarity("USB Cable", ""))
	assert.Equal(t, 0.0, service.Similarity("!!", "??"))
	assert.Equal(t, 1.0, service.Similarity("USB Cable Black", "USB Cable Black"))

	// never exceeds 1 even with the substring bonus in play
	s := service.Similarity("usb cable", "usb cable ")
	assert.LessOrEqual(t, s, 1.0)
}

func TestSimilarityOrdering(t *testing.T) {
	// more shared tokens, higher score
	a := service.Similarity("USB Cable Black 2m", "USB Cable Black")
	b := service.Similarity("USB Cable Black 2m", "USB Cable")
	c := service.Similarity("USB Cable Black 2m", "HDMI Adapter")
	assert.Greater(t, a, b)
	assert.Greater(t, b, c)
}

func TestSimilarityTruncatedTitle(t *testing.T) {
	// truncated token: "Wht" must still pull toward "White", not "Black"
	white := service.Similarity("USB Cable Wht 2m", "USB Cable White")
	black := service.Similarity("USB Cable Wht 2m", "USB Cable Black")
	assert.Greater(t, white, black)
}

func TestSimilaritySubstringBonus(t *testing.T) {
	short := "USB Cable"
	long := "USB Cable Black Extra Long 2m"
	with := service.Similarity(short, long)

	// plain token overlap for the same pair is 2/6; the substring relation
	// must raise it without reaching 1
	assert.Greater(t, with, 0.34)
	assert.Less(t, with, 1.0)
}

func TestSimilarityUnrelated(t *testing.T) {
	s := service.Similarity("Phone Case", "Kitchen Sponge Set")
	assert.Less(t, s, service.AcceptThreshold)
}
