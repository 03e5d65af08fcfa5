package service

import (
	"sort"

	"order-import-service/internal/importer/model"
)

// AcceptThreshold is the minimum description similarity for picking one of
// several line-items sharing an order id. Low enough to still catch heavily
// truncated titles, high enough to reject clearly unrelated items; below it
// the resolver prefers a duplicate insert over corrupting the wrong record.
const AcceptThreshold = 0.15

// DescThreshold guards the description-only fallback used when a record
// carries no strong identifier at all. Much stricter than AcceptThreshold:
// here the description is the only evidence.
const DescThreshold = 0.6

// Resolution pairs an incoming record with at most one existing order.
// A nil Target means insert.
type Resolution struct {
	Target *model.Order
	Score  *float64
	Tier   string
}

// Resolve picks the merge target for one record:
//
//  1. tiered index lookup (tracking, site order id, composite bucket);
//  2. zero candidates and no strong key -> description-only fallback over the
//     trigram index, accepted at DescThreshold;
//  3. zero candidates -> insert;
//  4. one candidate -> merge into it;
//  5. several (multi-item order) -> best description similarity, ties broken
//     by lowest order id, falling back to insert below AcceptThreshold.
func Resolve(rec model.Record, idx *Index) Resolution {
	cands, tier := idx.Candidates(rec)
	switch len(cands) {
	case 0:
		if hasStrongKey(rec) {
			// the record names an order nothing in the dataset knows
			return Resolution{}
		}
		return resolveByDescription(rec, idx)
	case 1:
		return Resolution{Target: cands[0], Tier: tier}
	}

	best, score := bestMatch(rec.Description, cands)
	if score < AcceptThreshold {
		return Resolution{Score: &score, Tier: tier}
	}
	return Resolution{Target: best, Score: &score, Tier: tier}
}

// resolveByDescription is what keeps a re-import of identifier-less rows
// idempotent: the row inserted on the first pass is found again by its own
// description on the second.
func resolveByDescription(rec model.Record, idx *Index) Resolution {
	cands := idx.DescCandidates(rec.Description)
	if len(cands) == 0 {
		return Resolution{}
	}
	best, score := bestMatch(rec.Description, cands)
	if score < DescThreshold {
		return Resolution{Score: &score, Tier: TierDescription}
	}
	return Resolution{Target: best, Score: &score, Tier: TierDescription}
}

// bestMatch scores every candidate's description, ties broken by lowest
// order id for a deterministic, stable choice.
func bestMatch(desc string, cands []*model.Order) (*model.Order, float64) {
	sorted := make([]*model.Order, len(cands))
	copy(sorted, cands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var best *model.Order
	bestScore := -1.0
	for _, cand := range sorted {
		if s := Similarity(desc, cand.Description); s > bestScore {
			best, bestScore = cand, s
		}
	}
	return best, bestScore
}

func hasStrongKey(rec model.Record) bool {
	return trackingKey(rec.TrackingNumber) != "" || rec.SiteOrderID != ""
}
