package service

import (
	"fmt"
	"time"

	"order-import-service/internal/importer/model"
)

// PlatformUnknown is the platform fallback applied at insert time.
const PlatformUnknown = "Sconosciuto"

// Plan turns a resolution into the concrete per-row change set.
//
// Merges are strictly fill-the-gaps: a field is written only when the target's
// current value is empty, so manual edits and richer earlier imports are never
// clobbered by a later, possibly lower-quality source. When nothing would
// change the plan degrades to a skip instead of issuing a redundant write.
// The planner never maps import status text onto the delivered flag; that is
// an explicit separate step owned by the storage side.
func Plan(rec model.Record, res Resolution, ref time.Time) model.MergePlan {
	if res.Target == nil {
		ApplyInsertDefaults(&rec, ref)
		return model.MergePlan{
			Row:      rec.Row,
			Decision: model.DecisionInsert,
			Score:    res.Score,
			Record:   rec,
		}
	}

	var changed []string
	for _, field := range model.MergeableFields {
		if !rec.Empty(field) && res.Target.Empty(field) {
			changed = append(changed, field)
		}
	}

	plan := model.MergePlan{
		Row:      rec.Row,
		TargetID: res.Target.ID,
		Score:    res.Score,
		Record:   rec,
	}
	if len(changed) == 0 {
		plan.Decision = model.DecisionSkip
		return plan
	}
	plan.Decision = model.DecisionMerge
	plan.Changed = changed
	return plan
}

// ApplyInsertDefaults fills the fields an inserted order must carry: order
// date defaults to the session reference date, platform and description get
// placeholder values. Quantity is already defaulted to 1 by normalization.
func ApplyInsertDefaults(rec *model.Record, ref time.Time) {
	if rec.OrderDate == "" {
		if ref.IsZero() {
			ref = time.Now()
		}
		rec.OrderDate = FormatDate(ref)
	}
	if rec.Platform == "" {
		rec.Platform = PlatformUnknown
	}
	if rec.Description == "" {
		rec.Description = fmt.Sprintf("Articolo importato (riga %d)", rec.Row+1)
	}
	if rec.Quantity < 1 {
		rec.Quantity = 1
	}
}
