package service

import (
	"fmt"
	"regexp"
	"strings"

	"order-import-service/internal/importer/model"
)

// Mapping binds canonical field names to the actual header keys of one file.
type Mapping map[string]string

// Header vocabulary, Italian first since that is what the exporters of the
// original app produce. Order within a list matters: earlier aliases win on
// exact normalized match.
var fieldAliases = map[string][]string{
	model.FieldPlatform:          {"piattaforma", "platform", "sito", "site", "negozio", "store"},
	model.FieldSiteOrderID:       {"id ordine", "site order id", "order id", "numero ordine", "order number", "ordine"},
	model.FieldTrackingNumber:    {"tracking", "tracking number", "numero tracking", "codice spedizione", "numero spedizione"},
	model.FieldOrderDate:         {"data ordine", "order date", "data", "date"},
	model.FieldDescription:       {"descrizione", "description", "articolo", "titolo", "title", "nome prodotto", "product name", "item"},
	model.FieldSeller:            {"venditore", "seller", "sold by", "venduto da"},
	model.FieldPrice:             {"prezzo", "price", "importo", "totale", "total", "amount"},
	model.FieldQuantity:          {"quantita", "q ta", "quantity", "qty", "pezzi", "pz"},
	model.FieldImageURL:          {"immagine", "image", "image url", "foto"},
	model.FieldLink:              {"link", "url", "product link", "link prodotto"},
	model.FieldStatus:            {"stato", "status"},
	model.FieldEstimatedDelivery: {"consegna prevista", "estimated delivery", "cons prevista", "delivery date", "data consegna"},
	model.FieldDestination:       {"destinazione", "destination", "indirizzo", "address"},
	model.FieldCarrier:           {"corriere", "carrier"},
	model.FieldLastMileCarrier:   {"last mile carrier", "corriere finale", "last mile"},
}

var reHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey: lowercase, strip punctuation and NBSP variants, collapse
// spaces, so "Q.tà" and "q ta" compare equal.
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", " ", " ", " ", "à", "a", "è", "e", "é", "e", "ì", "i", "ò", "o", "ù", "u").Replace(s)
	s = reHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// ResolveColumns detects which header maps to which canonical field,
// independent of column order. Exact normalized matches win over containment
// matches; a header already claimed by one field is not reused by another.
//
// A file from which neither a description nor any strong identifier column
// can be resolved cannot produce a single usable row, so that is a structural
// error reported before any per-row work.
func ResolveColumns(headers []string) (Mapping, error) {
	norm := make(map[string]string, len(headers)) // normalized -> original
	for _, h := range headers {
		if n := normHeaderKey(h); n != "" {
			if _, exists := norm[n]; !exists {
				norm[n] = h
			}
		}
	}

	cols := Mapping{}
	claimed := map[string]bool{}

	// pass 1: exact normalized match
	for _, field := range model.MergeableFields {
		for _, alias := range fieldAliases[field] {
			if orig, ok := norm[alias]; ok && !claimed[orig] {
				cols[field] = orig
				claimed[orig] = true
				break
			}
		}
	}
	// quantity is not in MergeableFields but still a column
	if _, done := cols[model.FieldQuantity]; !done {
		for _, alias := range fieldAliases[model.FieldQuantity] {
			if orig, ok := norm[alias]; ok && !claimed[orig] {
				cols[model.FieldQuantity] = orig
				claimed[orig] = true
				break
			}
		}
	}

	// pass 2: containment for composite headers like "prezzo totale (eur)"
	for field, aliases := range fieldAliases {
		if _, done := cols[field]; done {
			continue
		}
		bestKey, bestLen := "", 0
		for n, orig := range norm {
			if claimed[orig] {
				continue
			}
			for _, alias := range aliases {
				if strings.Contains(n, alias) && len(alias) > bestLen {
					bestKey, bestLen = orig, len(alias)
				}
			}
		}
		if bestKey != "" {
			cols[field] = bestKey
			claimed[bestKey] = true
		}
	}

	_, hasDesc := cols[model.FieldDescription]
	_, hasTrack := cols[model.FieldTrackingNumber]
	_, hasSiteID := cols[model.FieldSiteOrderID]
	if !hasDesc && !hasTrack && !hasSiteID {
		return nil, fmt.Errorf("no usable columns: need at least a description, tracking or order id header (got %d headers)", len(headers))
	}
	return cols, nil
}
