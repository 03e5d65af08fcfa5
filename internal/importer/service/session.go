package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"order-import-service/internal/importer/model"
)

// State of one import session. Transitions are one-way:
// Pending -> Analyzing -> Previewed -> Committed | Cancelled.
// A changed source file means a new session, never re-analysis.
type State string

const (
	StatePending   State = "pending"
	StateAnalyzing State = "analyzing"
	StatePreviewed State = "previewed"
	StateCommitted State = "committed"
	StateCancelled State = "cancelled"
)

// Dataset is the storage collaborator: a full snapshot read at analysis
// start plus a per-plan apply. No multi-record transactional guarantee is
// assumed; each apply fails independently.
type Dataset interface {
	Snapshot(ctx context.Context) ([]model.Order, error)
	Apply(ctx context.Context, p model.MergePlan) (int64, error)
}

var (
	ErrNotPreviewed = errors.New("session is not in previewed state")
	ErrConsumed     = errors.New("session already committed or cancelled")
)

// Session is the unit of work spanning one batch analysis through commit or
// cancel. It owns the raw rows for its lifetime and freezes the plan list
// once previewed.
type Session struct {
	ID      string
	Created time.Time

	mu    sync.Mutex
	state State
	rows  []map[string]string
	opts  model.Options
	plans []model.MergePlan
	log   zerolog.Logger
}

func NewSession(rows []map[string]string, opts model.Options, log zerolog.Logger) *Session {
	if opts.Reference.IsZero() {
		opts.Reference = time.Now()
	}
	if len(opts.Platforms) == 0 {
		opts.Platforms = DefaultPlatforms
	}
	id := uuid.NewString()
	return &Session{
		ID:      id,
		Created: time.Now(),
		state:   StatePending,
		rows:    rows,
		opts:    opts,
		log:     log.With().Str("session", id).Logger(),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Analyze runs the per-row pipeline (normalize -> resolve -> plan) over the
// whole batch, in row order, against a snapshot taken once up front. Column
// detection failures are structural: reported before any per-row work, the
// session stays pending. Rows are not cross-deduplicated against each other,
// only against the snapshot.
func (s *Session) Analyze(ctx context.Context, ds Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePending {
		return fmt.Errorf("analyze from state %q", s.state)
	}

	if len(s.rows) == 0 {
		return errors.New("no rows to analyze")
	}
	cols, err := ResolveColumns(headerKeys(s.rows[0]))
	if err != nil {
		return err
	}

	s.state = StateAnalyzing
	snapshot, err := ds.Snapshot(ctx)
	if err != nil {
		s.state = StatePending
		return fmt.Errorf("dataset snapshot: %w", err)
	}
	idx := BuildIndex(snapshot)

	s.plans = make([]model.MergePlan, 0, len(s.rows))
	for i, row := range s.rows {
		rec, malformed := RecordFromRow(row, cols, s.opts, i)
		if len(malformed) > 0 {
			s.log.Warn().Int("row", i).Strs("fields", malformed).Msg("malformed fields, kept empty")
		}
		res := Resolve(rec, idx)
		s.plans = append(s.plans, Plan(rec, res, s.opts.Reference))
	}

	s.rows = nil // raw rows are owned by the session and die with analysis
	s.state = StatePreviewed
	s.log.Info().Int("plans", len(s.plans)).Msg("analysis complete")
	return nil
}

// Plans returns the frozen preview list, in source row order.
func (s *Session) Plans() ([]model.MergePlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePreviewed {
		return nil, ErrNotPreviewed
	}
	out := make([]model.MergePlan, len(s.plans))
	copy(out, s.plans)
	return out, nil
}

// Commit applies the user-approved subset of plans, sequentially and in row
// order. Each apply fails independently: a storage error on one record is
// recorded and the sequence continues. Context cancellation stops further
// writes; everything applied so far stays applied and is reported.
//
// action controls what happens to rows the resolver matched: merge fills the
// target's gaps (default), new inserts a separate record anyway, skip leaves
// the target untouched.
func (s *Session) Commit(ctx context.Context, ds Dataset, rows []int, action model.DuplicateAction) (model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StatePreviewed:
	case StateCommitted, StateCancelled:
		return model.Report{}, ErrConsumed
	default:
		return model.Report{}, ErrNotPreviewed
	}
	if action == "" {
		action = model.DuplicateMerge
	}

	selected := make(map[int]bool, len(rows))
	for _, r := range rows {
		selected[r] = true
	}

	var rep model.Report
	for _, plan := range s.plans {
		if !selected[plan.Row] {
			continue
		}
		if err := ctx.Err(); err != nil {
			s.log.Warn().Err(err).Int("row", plan.Row).Msg("commit interrupted")
			break
		}

		p := adjustForAction(plan, action, s.opts.Reference)
		if p.Decision == model.DecisionSkip {
			rep.Skipped++
			rep.Rows = append(rep.Rows, model.RowOutcome{Row: p.Row, Decision: p.Decision, OrderID: p.TargetID})
			continue
		}

		id, err := ds.Apply(ctx, p)
		out := model.RowOutcome{Row: p.Row, Decision: p.Decision, OrderID: id}
		if err != nil {
			out.Error = err.Error()
			rep.Failed++
			s.log.Error().Err(err).Int("row", p.Row).Str("decision", string(p.Decision)).Msg("apply failed")
		} else if p.Decision == model.DecisionInsert {
			rep.Inserted++
		} else {
			rep.Merged++
		}
		rep.Rows = append(rep.Rows, out)
	}

	s.state = StateCommitted
	s.log.Info().
		Int("inserted", rep.Inserted).
		Int("merged", rep.Merged).
		Int("skipped", rep.Skipped).
		Int("failed", rep.Failed).
		Msg("commit complete")
	return rep, nil
}

// Cancel discards the session without touching storage. Cancelling twice is
// a no-op; cancelling a committed session is an error.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateCancelled:
		return nil
	case StateCommitted:
		return ErrConsumed
	}
	s.state = StateCancelled
	s.plans = nil
	s.rows = nil
	return nil
}

// adjustForAction rewrites matched-row plans per the duplicate action chosen
// at commit time.
func adjustForAction(p model.MergePlan, action model.DuplicateAction, ref time.Time) model.MergePlan {
	if p.Decision == model.DecisionInsert {
		return p
	}
	switch action {
	case model.DuplicateNew:
		rec := p.Record
		ApplyInsertDefaults(&rec, ref)
		return model.MergePlan{Row: p.Row, Decision: model.DecisionInsert, Score: p.Score, Record: rec}
	case model.DuplicateSkip:
		p.Decision = model.DecisionSkip
		p.Changed = nil
		return p
	default:
		return p
	}
}

func headerKeys(row map[string]string) []string {
	out := make([]string, 0, len(row))
	for k := range row {
		out = append(out, k)
	}
	return out
}
