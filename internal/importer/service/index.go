package service

import (
	"sort"
	"strings"

	"order-import-service/internal/importer/model"
)

// Index answers "which existing orders could this record refer to?" in O(1)
// amortized time instead of scanning the whole dataset per incoming row.
// Built once per session from the snapshot and immutable afterwards: rows are
// only ever compared against the pre-analysis dataset, never against each
// other.
type Index struct {
	byTracking map[string][]*model.Order
	bySiteID   map[string][]*model.Order
	byBucket   map[string][]*model.Order // (site order id, seller) line-item groups

	// description fallback for records carrying no strong identifier:
	// trigram -> set of normalized descriptions -> orders
	byDesc map[string][]*model.Order
	inv    map[string]map[string]struct{}
}

// Tier names surfaced alongside resolutions for preview transparency.
const (
	TierTracking    = "tracking"
	TierSiteID      = "site_order_id"
	TierBucket      = "order_seller"
	TierDescription = "description"
)

func BuildIndex(orders []model.Order) *Index {
	idx := &Index{
		byTracking: make(map[string][]*model.Order),
		bySiteID:   make(map[string][]*model.Order),
		byBucket:   make(map[string][]*model.Order),
		byDesc:     make(map[string][]*model.Order),
		inv:        make(map[string]map[string]struct{}),
	}
	for i := range orders {
		o := &orders[i]
		if k := trackingKey(o.TrackingNumber); k != "" {
			idx.byTracking[k] = append(idx.byTracking[k], o)
		}
		if id := strings.TrimSpace(o.SiteOrderID); id != "" {
			idx.bySiteID[id] = append(idx.bySiteID[id], o)
			idx.byBucket[bucketKey(id, o.Seller)] = append(idx.byBucket[bucketKey(id, o.Seller)], o)
		}
		if nn := normText(o.Description); nn != "" {
			idx.byDesc[nn] = append(idx.byDesc[nn], o)
			for g := range trigramSet(nn) {
				bucket, ok := idx.inv[g]
				if !ok {
					bucket = make(map[string]struct{})
					idx.inv[g] = bucket
				}
				bucket[nn] = struct{}{}
			}
		}
	}
	return idx
}

// Candidates returns the candidate set from the strongest key the record
// carries: tracking first, then site order id, then the composite bucket.
// An empty incoming key contributes no candidates at its tier.
func (idx *Index) Candidates(rec model.Record) ([]*model.Order, string) {
	if k := trackingKey(rec.TrackingNumber); k != "" {
		if list := idx.byTracking[k]; len(list) > 0 {
			return list, TierTracking
		}
	}
	if id := strings.TrimSpace(rec.SiteOrderID); id != "" {
		if list := idx.bySiteID[id]; len(list) > 0 {
			return list, TierSiteID
		}
		if rec.Seller != "" {
			if list := idx.byBucket[bucketKey(id, rec.Seller)]; len(list) > 0 {
				return list, TierBucket
			}
		}
	}
	return nil, ""
}

// DescCandidates gathers orders whose descriptions share at least one trigram
// with the given one, in deterministic order. Used only when no strong key
// produced candidates.
func (idx *Index) DescCandidates(desc string) []*model.Order {
	nn := normText(desc)
	if nn == "" {
		return nil
	}
	seen := make(map[string]struct{})
	for g := range trigramSet(nn) {
		for cand := range idx.inv[g] {
			seen[cand] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)

	var out []*model.Order
	for _, n := range names {
		out = append(out, idx.byDesc[n]...)
	}
	return out
}

func trigramSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	if s == "" {
		return m
	}
	p := " " + s + " "
	r := []rune(p)
	if len(r) < 3 {
		m[p] = struct{}{}
		return m
	}
	for i := 0; i <= len(r)-3; i++ {
		m[string(r[i:i+3])] = struct{}{}
	}
	return m
}

func trackingKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func bucketKey(siteID, seller string) string {
	return strings.TrimSpace(siteID) + "\x00" + strings.ToLower(strings.TrimSpace(seller))
}
