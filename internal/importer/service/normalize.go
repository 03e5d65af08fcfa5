package service

import (
	"regexp"
	"strconv"
	"strings"

	"order-import-service/internal/importer/model"
)

// DefaultPlatforms is the predefined platform vocabulary of the tracker.
// The platform normalizer canonicalizes case-insensitively against this list;
// unmatched values pass through verbatim so arbitrary platforms stay usable.
var DefaultPlatforms = []string{
	"Amazon", "Amazon.it", "eBay", "AliExpress", "Alibaba", "Etsy", "Wish",
	"Shein", "Temu", "Zalando", "ASOS", "Vinted", "Subito.it", "Wallapop",
	"Depop", "Banggood", "Gearbest", "DHgate", "Joom", "LightInTheBox",
	"Farfetch", "Yoox", "MediaWorld", "Unieuro", "Euronics", "Decathlon",
	"Ikea", "Leroy Merlin", "Zara", "H&M", "Altro",
}

var (
	reCurrency = regexp.MustCompile(`(?i)[€$£]|eur|usd|gbp`)
	reInteger  = regexp.MustCompile(`-?\d+`)
)

// cleanString trims ordinary and non-breaking whitespace.
func cleanString(s string) string {
	s = strings.NewReplacer(" ", " ", " ", " ", " ", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizePrice strips currency symbols and whitespace, accepts a comma
// decimal separator when no period is present, and rejects negatives and
// leftover junk. "5,59€" -> 5.59.
func NormalizePrice(s string) (float64, bool) {
	s = reCurrency.ReplaceAllString(cleanString(s), "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// NormalizeQuantity parses the first integer found, flooring to 1 when the
// value is missing, unparsable, zero or negative.
func NormalizeQuantity(s string) int {
	m := reInteger.FindString(s)
	if m == "" {
		return 1
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// NormalizePlatform canonicalizes a platform name against the known list.
func NormalizePlatform(s string, known []string) string {
	s = cleanString(s)
	if s == "" {
		return ""
	}
	for _, p := range known {
		if strings.EqualFold(s, p) {
			return p
		}
	}
	return s
}

// RecordFromRow builds the canonical record for one raw row. Malformed
// values become explicit empties; they are reported back so the session can
// log them without aborting the row.
func RecordFromRow(row map[string]string, cols Mapping, opt model.Options, idx int) (model.Record, []string) {
	get := func(field string) string {
		if key, ok := cols[field]; ok {
			return cleanString(row[key])
		}
		return ""
	}

	var malformed []string
	rec := model.Record{
		Row:             idx,
		Platform:        NormalizePlatform(get(model.FieldPlatform), opt.Platforms),
		SiteOrderID:     get(model.FieldSiteOrderID),
		TrackingNumber:  strings.ToUpper(get(model.FieldTrackingNumber)),
		Description:     get(model.FieldDescription),
		Seller:          get(model.FieldSeller),
		ImageURL:        get(model.FieldImageURL),
		Link:            get(model.FieldLink),
		Status:          get(model.FieldStatus),
		Destination:     get(model.FieldDestination),
		Carrier:         get(model.FieldCarrier),
		LastMileCarrier: get(model.FieldLastMileCarrier),
		Quantity:        1,
	}
	if rec.Platform == "" {
		rec.Platform = NormalizePlatform(opt.DefaultPlatform, opt.Platforms)
	}

	if raw := get(model.FieldOrderDate); raw != "" {
		if t, ok := ParseDate(raw, opt.DayFirst, opt.Reference); ok {
			rec.OrderDate = FormatDate(t)
		} else {
			malformed = append(malformed, model.FieldOrderDate)
		}
	}
	if raw := get(model.FieldEstimatedDelivery); raw != "" {
		if t, ok := ParseDate(raw, opt.DayFirst, opt.Reference); ok {
			rec.EstimatedDelivery = FormatDate(t)
		} else {
			malformed = append(malformed, model.FieldEstimatedDelivery)
		}
	}
	if raw := get(model.FieldPrice); raw != "" {
		if v, ok := NormalizePrice(raw); ok {
			rec.Price = &v
		} else {
			malformed = append(malformed, model.FieldPrice)
		}
	}
	if raw := get(model.FieldQuantity); raw != "" {
		rec.Quantity = NormalizeQuantity(raw)
	}

	return rec, malformed
}
