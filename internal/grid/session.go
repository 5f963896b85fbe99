package grid

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/turnity/turnity/internal/domain"
)

// FreeLabel is shown for empty and rest cells.
const FreeLabel = "Libre"

// Backend is every endpoint a grid session calls.
type Backend interface {
	WeekSource
	ShiftSource
	Catalog
	ShiftSink
}

// Total is one employee's hour tally for a week.
type Total struct {
	Employee domain.EmployeeRef
	Hours    int
	Target   float64
	Status   domain.HoursStatus
}

// Session is the controller for one mounted grid. It owns the lookup store
// and is driven from a single goroutine; the Fetch* and Send methods only
// touch immutable collaborators and may run elsewhere, their results being
// handed back through the matching Apply/Finish method.
type Session struct {
	user      domain.User
	scope     Scope
	employees []domain.EmployeeRef

	partitioner *Partitioner
	loader      *Loader
	catalog     Catalog
	submitter   *Submitter
	log         logrus.FieldLogger

	ref      time.Time
	weeks    []domain.Week
	week     int
	weeksErr error

	store       *Store
	weeklyHours map[WeekHoursKey]float64
	loadState   LoadState
	loadErr     error
	loadSeq     uint64

	editor     *Editor
	generation uint64

	busy      bool
	outcome   *Outcome
	incidents []domain.Incident
}

// SessionOptions configures NewSession.
type SessionOptions struct {
	User      domain.User
	Scope     Scope
	Employees []domain.EmployeeRef
	Backend   Backend
	Reference time.Time
	Log       logrus.FieldLogger
}

// NewSession mounts a grid for the given scope and roster. Only
// administrators and managers may open one.
func NewSession(opts SessionOptions) (*Session, error) {
	if !opts.User.CanAccess(domain.RoleManager) {
		return nil, ErrForbidden
	}
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}
	log = log.WithFields(logrus.Fields{
		"store":      opts.Scope.Store.ID,
		"department": opts.Scope.Department.ID,
	})
	ref := opts.Reference
	if ref.IsZero() {
		ref = time.Now()
	}
	return &Session{
		user:        opts.User,
		scope:       opts.Scope,
		employees:   opts.Employees,
		partitioner: NewPartitioner(opts.Backend, log),
		loader:      NewLoader(opts.Backend, log),
		catalog:     opts.Backend,
		submitter:   NewSubmitter(opts.Backend, log),
		log:         log,
		ref:         domain.Day(ref),
		store:       NewStore(),
		weeklyHours: make(map[WeekHoursKey]float64),
	}, nil
}

func (s *Session) User() domain.User                     { return s.user }
func (s *Session) Scope() Scope                          { return s.scope }
func (s *Session) Employees() []domain.EmployeeRef       { return s.employees }
func (s *Session) Reference() time.Time                  { return s.ref }
func (s *Session) Weeks() []domain.Week                  { return s.weeks }
func (s *Session) SelectedWeek() int                     { return s.week }
func (s *Session) WeeksErr() error                       { return s.weeksErr }
func (s *Session) Store() *Store                         { return s.store }
func (s *Session) LoadState() LoadState                  { return s.loadState }
func (s *Session) LoadErr() error                        { return s.loadErr }
func (s *Session) Editor() *Editor                       { return s.editor }
func (s *Session) Busy() bool                            { return s.busy }
func (s *Session) Incidents() []domain.Incident          { return s.incidents }
func (s *Session) WeeklyHours() map[WeekHoursKey]float64 { return s.weeklyHours }

// LastOutcome is the most recent submission outcome, or nil.
func (s *Session) LastOutcome() *Outcome { return s.outcome }

// MonthLabel is the reference month as YYYY-MM.
func (s *Session) MonthLabel() string { return s.ref.Format("2006-01") }

// ShiftMonth moves the reference date by delta months, pinned to the 15th
// so the partition request always lands inside the target month.
func (s *Session) ShiftMonth(delta int) time.Time {
	first := time.Date(s.ref.Year(), s.ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	s.ref = first.AddDate(0, delta, 14)
	return s.ref
}

// SetReference jumps to the month containing ref.
func (s *Session) SetReference(ref time.Time) {
	s.ref = domain.Day(ref)
}

// FetchWeeks asks the partitioner for ref's month.
func (s *Session) FetchWeeks(ctx context.Context, ref time.Time) ([]domain.Week, error) {
	return s.partitioner.Weeks(ctx, ref)
}

// ApplyWeeks installs a partition result. On success the list is replaced,
// week 1 is selected, the previous month's cells are dropped and the load
// state returns to idle. On failure the previous list is kept and err is
// returned.
func (s *Session) ApplyWeeks(weeks []domain.Week, err error) error {
	if err != nil {
		s.weeksErr = err
		return err
	}
	s.weeksErr = nil
	s.weeks = weeks
	s.week = 0
	s.store.Clear()
	s.weeklyHours = make(map[WeekHoursKey]float64)
	s.loadSeq++
	s.loadState = LoadIdle
	s.loadErr = nil
	s.CloseEditor()
	return nil
}

// LoadRequest is a pending stored-shift load.
type LoadRequest struct {
	Seq       uint64
	Employees []domain.EmployeeRef
	Weeks     []domain.Week
}

// BeginLoad marks the store as loading. Loads need the weeks first.
func (s *Session) BeginLoad() (LoadRequest, error) {
	if len(s.weeks) == 0 {
		return LoadRequest{}, ErrNoWeeks
	}
	s.loadSeq++
	s.loadState = LoadLoading
	s.loadErr = nil
	return LoadRequest{Seq: s.loadSeq, Employees: s.employees, Weeks: s.weeks}, nil
}

// FetchLoad runs a load request.
func (s *Session) FetchLoad(ctx context.Context, req LoadRequest) (*LoadResult, error) {
	return s.loader.Load(ctx, req.Employees, req.Weeks)
}

// ApplyLoad installs a load result by full replacement. A failed load
// leaves the store empty. Results for a superseded request are ignored.
func (s *Session) ApplyLoad(seq uint64, res *LoadResult, err error) bool {
	if seq != s.loadSeq {
		return false
	}
	if err != nil {
		s.store.Clear()
		s.weeklyHours = make(map[WeekHoursKey]float64)
		s.loadState = LoadFailed
		s.loadErr = err
		s.log.WithError(err).Warn("stored shifts load failed")
		return true
	}
	s.store.Replace(res.Cells)
	s.weeklyHours = res.WeeklyHours
	if s.weeklyHours == nil {
		s.weeklyHours = make(map[WeekHoursKey]float64)
	}
	s.loadState = LoadLoaded
	s.loadErr = nil
	return true
}

// LoadMonth fetches the reference month's weeks and stored shifts in order.
func (s *Session) LoadMonth(ctx context.Context) error {
	weeks, err := s.FetchWeeks(ctx, s.ref)
	if err := s.ApplyWeeks(weeks, err); err != nil {
		return err
	}
	return s.Reload(ctx)
}

// Reload refetches stored shifts for the current weeks, discarding local
// edits.
func (s *Session) Reload(ctx context.Context) error {
	req, err := s.BeginLoad()
	if err != nil {
		return err
	}
	res, err := s.FetchLoad(ctx, req)
	s.ApplyLoad(req.Seq, res, err)
	return err
}

// SelectWeek selects the 0-based week i.
func (s *Session) SelectWeek(i int) error {
	if i < 0 || i >= len(s.weeks) {
		return fmt.Errorf("week %d out of range 1-%d", i+1, len(s.weeks))
	}
	s.week = i
	return nil
}

// CycleWeek moves the selection by delta, wrapping around.
func (s *Session) CycleWeek(delta int) {
	n := len(s.weeks)
	if n == 0 {
		return
	}
	s.week = ((s.week+delta)%n + n) % n
}

// WeekDays lists the selected week's days.
func (s *Session) WeekDays() []time.Time {
	if len(s.weeks) == 0 {
		return nil
	}
	return s.weeks[s.week].Days()
}

// Cell returns the shift assigned to an employee on a day.
func (s *Session) Cell(employeeID string, date time.Time) (domain.AssignedShift, bool) {
	return s.store.Get(NewKey(employeeID, date))
}

// CellLabel is the cell text: the shift label, or FreeLabel.
func (s *Session) CellLabel(employeeID string, date time.Time) string {
	shift, ok := s.Cell(employeeID, date)
	if !ok {
		return FreeLabel
	}
	if label := shift.Label(); label != "" {
		return label
	}
	return FreeLabel
}

// ContractedHours is an employee's target for the 0-based week.
func (s *Session) ContractedHours(emp domain.EmployeeRef, weekIdx int) float64 {
	return EffectiveHours(s.weeklyHours, emp, weekIdx+1)
}

// Totals sums each employee's assigned hours over the 0-based week.
func (s *Session) Totals(weekIdx int) []Total {
	if weekIdx < 0 || weekIdx >= len(s.weeks) {
		return nil
	}
	days := s.weeks[weekIdx].Days()
	out := make([]Total, 0, len(s.employees))
	for _, emp := range s.employees {
		target := s.ContractedHours(emp, weekIdx)
		sum := 0
		for _, d := range days {
			if shift, ok := s.Cell(emp.ID, d); ok {
				sum += shift.EffectiveHours(target)
			}
		}
		out = append(out, Total{
			Employee: emp,
			Hours:    sum,
			Target:   target,
			Status:   domain.CompareHours(float64(sum), target),
		})
	}
	return out
}

// OpenEditor closes any open editor and opens a fresh one on cell. The new
// generation makes answers addressed to the previous editor stale.
func (s *Session) OpenEditor(cell Key) (*Editor, []CatalogRequest) {
	s.CloseEditor()
	s.generation++
	var existing *domain.AssignedShift
	if shift, ok := s.store.Get(cell); ok {
		existing = &shift
	}
	ed, reqs := NewEditor(s.generation, cell, existing, s.log)
	s.editor = ed
	return ed, reqs
}

func (s *Session) CloseEditor() {
	s.editor = nil
}

// FetchCatalog runs an editor catalog request.
func (s *Session) FetchCatalog(ctx context.Context, req CatalogRequest) CatalogResult {
	return FetchCatalog(ctx, s.catalog, req)
}

// ApplyCatalog hands a catalog result to the open editor. It reports false
// when no editor is open or the result is stale.
func (s *Session) ApplyCatalog(res CatalogResult) bool {
	if s.editor == nil {
		return false
	}
	return s.editor.Apply(res)
}

// ApplyIntent mutates the store from an editor intent and closes the editor.
func (s *Session) ApplyIntent(in Intent) error {
	if !s.hasEmployee(in.Cell.EmployeeID) {
		return fmt.Errorf("employee %s is not on this roster", in.Cell.EmployeeID)
	}
	if in.Deleted {
		s.store.Delete(in.Cell)
	} else {
		if err := in.Shift.Validate(); err != nil {
			return fmt.Errorf("invalid shift for %s: %w", in.Cell, err)
		}
		s.store.Put(in.Cell, in.Shift)
	}
	s.CloseEditor()
	return nil
}

// SaveEditor applies the open editor's save intent.
func (s *Session) SaveEditor() error {
	if s.editor == nil {
		return ErrNoEditor
	}
	in, err := s.editor.Save()
	if err != nil {
		return err
	}
	return s.ApplyIntent(in)
}

// DeleteFromEditor applies the open editor's delete intent.
func (s *Session) DeleteFromEditor() error {
	if s.editor == nil {
		return ErrNoEditor
	}
	in, err := s.editor.Delete()
	if err != nil {
		return err
	}
	return s.ApplyIntent(in)
}

func (s *Session) hasEmployee(id string) bool {
	for _, e := range s.employees {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Employee looks up a roster entry by id.
func (s *Session) Employee(id string) (domain.EmployeeRef, bool) {
	for _, e := range s.employees {
		if e.ID == id {
			return e, true
		}
	}
	return domain.EmployeeRef{}, false
}

// BuildPayload builds the month submission from the current store.
func (s *Session) BuildPayload() (Payload, error) {
	return BuildPayload(BuildInput{
		Store:       s.store,
		Scope:       s.scope,
		Weeks:       s.weeks,
		Employees:   s.employees,
		WeeklyHours: s.weeklyHours,
	})
}

// Loaded returns ErrNotLoaded unless the store holds the current month's
// stored shifts.
func (s *Session) Loaded() error {
	if s.loadState != LoadLoaded {
		return fmt.Errorf("%w (%s)", ErrNotLoaded, s.loadState)
	}
	return nil
}

// BeginSubmit clears the previous outcome and incidents, builds the
// payload and marks the session busy until FinishSubmit. The store must be
// loaded.
func (s *Session) BeginSubmit() (Payload, error) {
	if s.busy {
		return Payload{}, ErrSubmitInFlight
	}
	if err := s.Loaded(); err != nil {
		return Payload{}, err
	}
	s.outcome = nil
	s.incidents = nil
	p, err := s.BuildPayload()
	if err != nil {
		return Payload{}, err
	}
	s.busy = true
	return p, nil
}

// Send posts a payload built by BeginSubmit.
func (s *Session) Send(ctx context.Context, p Payload) (Outcome, error) {
	return s.submitter.Submit(ctx, p)
}

// FinishSubmit records an outcome and releases the busy flag.
func (s *Session) FinishSubmit(out Outcome) {
	s.busy = false
	s.outcome = &out
	s.incidents = out.Incidents
}

// Submit runs BeginSubmit, Send and FinishSubmit in sequence. Validation
// errors are returned without an outcome.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	p, err := s.BeginSubmit()
	if err != nil {
		return Outcome{}, err
	}
	out, err := s.Send(ctx, p)
	s.FinishSubmit(out)
	return out, err
}
