package model

import "time"

// Record is the canonical shape of one incoming row after normalization.
// Absent or unparsable source values stay as zero values; the engine never
// guesses, except Quantity whose documented default is 1.
type Record struct {
	Row               int      `json:"row"` // 0-based position in the source file
	Platform          string   `json:"platform,omitempty"`
	SiteOrderID       string   `json:"site_order_id,omitempty"`
	TrackingNumber    string   `json:"tracking_number,omitempty"`
	OrderDate         string   `json:"order_date,omitempty"` // ISO yyyy-mm-dd
	Description       string   `json:"description,omitempty"`
	Seller            string   `json:"seller,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	Quantity          int      `json:"quantity"`
	ImageURL          string   `json:"image_url,omitempty"`
	Link              string   `json:"link,omitempty"`
	Status            string   `json:"status,omitempty"`
	EstimatedDelivery string   `json:"estimated_delivery,omitempty"` // ISO yyyy-mm-dd
	Destination       string   `json:"destination,omitempty"`
	Carrier           string   `json:"carrier,omitempty"`
	LastMileCarrier   string   `json:"last_mile_carrier,omitempty"`
}

// Order is a persisted order as read from the dataset snapshot.
type Order struct {
	ID        int64 `json:"id"`
	Delivered bool  `json:"is_delivered"`
	Record
}

// Canonical field names, matching the dataset column names.
const (
	FieldPlatform          = "platform"
	FieldSiteOrderID       = "site_order_id"
	FieldTrackingNumber    = "tracking_number"
	FieldOrderDate         = "order_date"
	FieldDescription       = "description"
	FieldSeller            = "seller"
	FieldPrice             = "price"
	FieldQuantity          = "quantity"
	FieldImageURL          = "image_url"
	FieldLink              = "link"
	FieldStatus            = "status"
	FieldEstimatedDelivery = "estimated_delivery"
	FieldDestination       = "destination"
	FieldCarrier           = "carrier"
	FieldLastMileCarrier   = "last_mile_carrier"
)

// MergeableFields lists the fields the planner may fill on an existing order.
// Quantity is excluded: an existing order always carries a quantity, so the
// fill-the-gaps rule could never change it.
var MergeableFields = []string{
	FieldPlatform,
	FieldSiteOrderID,
	FieldTrackingNumber,
	FieldOrderDate,
	FieldDescription,
	FieldSeller,
	FieldPrice,
	FieldImageURL,
	FieldLink,
	FieldStatus,
	FieldEstimatedDelivery,
	FieldDestination,
	FieldCarrier,
	FieldLastMileCarrier,
}

// StringField returns the string form of a named field and whether the field
// is a string field at all (price is numeric and handled separately).
func (r Record) StringField(name string) (string, bool) {
	switch name {
	case FieldPlatform:
		return r.Platform, true
	case FieldSiteOrderID:
		return r.SiteOrderID, true
	case FieldTrackingNumber:
		return r.TrackingNumber, true
	case FieldOrderDate:
		return r.OrderDate, true
	case FieldDescription:
		return r.Description, true
	case FieldSeller:
		return r.Seller, true
	case FieldImageURL:
		return r.ImageURL, true
	case FieldLink:
		return r.Link, true
	case FieldStatus:
		return r.Status, true
	case FieldEstimatedDelivery:
		return r.EstimatedDelivery, true
	case FieldDestination:
		return r.Destination, true
	case FieldCarrier:
		return r.Carrier, true
	case FieldLastMileCarrier:
		return r.LastMileCarrier, true
	default:
		return "", false
	}
}

// Empty reports whether the named field carries no value.
func (r Record) Empty(name string) bool {
	if name == FieldPrice {
		return r.Price == nil
	}
	s, ok := r.StringField(name)
	return ok && s == ""
}

type Decision string

const (
	DecisionInsert Decision = "insert"
	DecisionMerge  Decision = "merge"
	DecisionSkip   Decision = "skip"
)

// MergePlan is the frozen per-row decision presented for preview.
type MergePlan struct {
	Row      int      `json:"row"`
	Decision Decision `json:"decision"`
	TargetID int64    `json:"target_id,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	Changed  []string `json:"changed_fields,omitempty"`
	Record   Record   `json:"record"`
}

// DuplicateAction tells the commit step what to do with rows the resolver
// matched to an existing order: fill its gaps, insert a separate record
// anyway, or leave it alone.
type DuplicateAction string

const (
	DuplicateMerge DuplicateAction = "merge"
	DuplicateNew   DuplicateAction = "new"
	DuplicateSkip  DuplicateAction = "skip"
)

// RowOutcome is the commit result for a single row.
type RowOutcome struct {
	Row      int      `json:"row"`
	Decision Decision `json:"decision"`
	OrderID  int64    `json:"order_id,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Report enumerates every committed row's outcome; a failed row never aborts
// the rest of the sequence.
type Report struct {
	Inserted int          `json:"inserted"`
	Merged   int          `json:"merged"`
	Skipped  int          `json:"skipped"`
	Failed   int          `json:"failed"`
	Rows     []RowOutcome `json:"rows"`
}

// Options carries the per-session normalization policy.
type Options struct {
	// DayFirst resolves ambiguous numeric dates like 05/03/2026. Day-first is
	// the default, matching Italian-locale exports.
	DayFirst bool
	// Platforms is the known-platform vocabulary; recognized values are
	// canonicalized, anything else passes through verbatim.
	Platforms []string
	// DefaultPlatform is applied to rows whose platform cell is empty,
	// e.g. when the whole file is known to come from one marketplace.
	DefaultPlatform string
	// Reference is "today" for partial and relative date phrases.
	Reference time.Time
}
