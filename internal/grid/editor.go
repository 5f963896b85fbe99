package grid

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/turnity/turnity/internal/domain"
)

// Phase is the editor step the operator is on.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseHour
	PhaseShift
	PhaseBreak
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseHour:
		return "hour"
	case PhaseShift:
		return "shift"
	case PhaseBreak:
		return "break"
	default:
		return "unknown"
	}
}

// CatalogKind names one of the editor's three reference lists.
type CatalogKind int

const (
	CatalogHours CatalogKind = iota
	CatalogShifts
	CatalogBreaks
)

func (k CatalogKind) String() string {
	switch k {
	case CatalogHours:
		return "hours"
	case CatalogShifts:
		return "shifts"
	case CatalogBreaks:
		return "breaks"
	default:
		return "unknown"
	}
}

// CatalogRequest is a catalog fetch issued by an editor. Generation
// identifies the editor instance and Seq the request within it; results
// are applied only when both still match.
type CatalogRequest struct {
	Generation uint64
	Seq        uint64
	Kind       CatalogKind
	Arg        string
}

// CatalogResult is the answer to a CatalogRequest.
type CatalogResult struct {
	Request CatalogRequest
	Hours   []string
	Shifts  []domain.ShiftDefinition
	Breaks  []string
	Err     error
}

// Catalog is the backend shift catalog.
type Catalog interface {
	HourBuckets(ctx context.Context) ([]string, error)
	ShiftsByHours(ctx context.Context, hour string) ([]domain.ShiftDefinition, error)
	Breaks(ctx context.Context, code string) ([]string, error)
}

// FetchCatalog runs req against c. It touches no editor state and may run
// on any goroutine.
func FetchCatalog(ctx context.Context, c Catalog, req CatalogRequest) CatalogResult {
	res := CatalogResult{Request: req}
	switch req.Kind {
	case CatalogHours:
		res.Hours, res.Err = c.HourBuckets(ctx)
	case CatalogShifts:
		res.Shifts, res.Err = c.ShiftsByHours(ctx, req.Arg)
	case CatalogBreaks:
		res.Breaks, res.Err = c.Breaks(ctx, req.Arg)
	default:
		res.Err = fmt.Errorf("unknown catalog kind %d", int(req.Kind))
	}
	return res
}

// Intent is what an editor emits on save or delete.
type Intent struct {
	Cell    Key
	Shift   domain.AssignedShift
	Deleted bool
}

// Editor is the per-cell shift picker. A new Editor is built every time a
// cell is opened; its generation tags every catalog request so answers for
// an earlier editor are discarded.
type Editor struct {
	generation uint64
	cell       Key
	existing   *domain.AssignedShift
	log        logrus.FieldLogger

	seq     uint64
	pending map[CatalogKind]uint64

	hoursLoaded bool
	hours       []string
	shifts      []domain.ShiftDefinition
	breaks      []string

	hour  domain.HourBucket
	shift *domain.ShiftDefinition
	brk   string

	err error
}

// NewEditor opens an editor for cell. existing is the cell's current shift,
// or nil for an empty cell. The returned requests must be fetched and fed
// back through Apply.
func NewEditor(generation uint64, cell Key, existing *domain.AssignedShift, log logrus.FieldLogger) (*Editor, []CatalogRequest) {
	e := &Editor{
		generation: generation,
		cell:       NewKey(cell.EmployeeID, cell.Date),
		log:        log.WithField("cell", cell.String()),
		pending:    make(map[CatalogKind]uint64),
	}
	reqs := []CatalogRequest{e.request(CatalogHours, "")}
	if existing == nil {
		return e, reqs
	}

	cp := *existing
	e.existing = &cp
	switch cp.Kind {
	case domain.KindRest:
		e.hour = domain.ParseHourBucket(domain.RestToken)
	case domain.KindSpecialLeave:
		e.hour = domain.ParseHourBucket(cp.Leave.Token())
	case domain.KindTimed:
		e.hour = domain.ParseHourBucket(strconv.Itoa(cp.HoursBucket))
		if cp.Shift != nil {
			def := *cp.Shift
			e.shift = &def
			e.brk = cp.Break
			reqs = append(reqs, e.request(CatalogShifts, e.hour.Token))
			if def.Code != "" {
				reqs = append(reqs, e.request(CatalogBreaks, def.Code))
			}
		}
	}
	return e, reqs
}

func (e *Editor) request(kind CatalogKind, arg string) CatalogRequest {
	e.seq++
	e.pending[kind] = e.seq
	return CatalogRequest{Generation: e.generation, Seq: e.seq, Kind: kind, Arg: arg}
}

func (e *Editor) Generation() uint64 { return e.generation }
func (e *Editor) Cell() Key          { return e.cell }

// Editing reports whether the editor was opened on an assigned cell.
func (e *Editor) Editing() bool { return e.existing != nil }

func (e *Editor) Hours() []string                  { return e.hours }
func (e *Editor) Shifts() []domain.ShiftDefinition { return e.shifts }
func (e *Editor) Breaks() []string                 { return e.breaks }

// SelectedHour is the chosen hour token, or "".
func (e *Editor) SelectedHour() string { return e.hour.Token }

// SelectedShift is the chosen timed shift, or nil.
func (e *Editor) SelectedShift() *domain.ShiftDefinition { return e.shift }

// SelectedBreak is the chosen break, or "".
func (e *Editor) SelectedBreak() string { return e.brk }

// Err is the last catalog failure, if any.
func (e *Editor) Err() error { return e.err }

// Pending reports whether any catalog request is still unanswered.
func (e *Editor) Pending() bool { return len(e.pending) > 0 }

func (e *Editor) Phase() Phase {
	switch {
	case !e.hoursLoaded:
		return PhaseLoading
	case e.hour.Kind == domain.BucketInvalid || e.hour.SkipsShiftSelection():
		return PhaseHour
	case e.shift == nil:
		return PhaseShift
	default:
		return PhaseBreak
	}
}

// CanSave reports whether an hour is chosen and, for a timed bucket, a
// shift as well. The break is optional.
func (e *Editor) CanSave() bool {
	if e.hour.Kind == domain.BucketInvalid {
		return false
	}
	return e.hour.SkipsShiftSelection() || e.shift != nil
}

// CanDelete reports whether the editor was opened on an assigned cell.
func (e *Editor) CanDelete() bool { return e.existing != nil }

// SelectHour chooses an hour bucket. Choosing a timed bucket returns the
// shift catalog request for it.
func (e *Editor) SelectHour(token string) (*CatalogRequest, error) {
	b := domain.ParseHourBucket(token)
	if b.Kind == domain.BucketInvalid && b.Token != "" {
		return nil, fmt.Errorf("unknown hour %q", token)
	}
	e.hour = b
	e.shift = nil
	e.brk = ""
	e.shifts = nil
	e.breaks = nil
	delete(e.pending, CatalogShifts)
	delete(e.pending, CatalogBreaks)

	if b.Kind != domain.BucketTimed {
		return nil, nil
	}
	req := e.request(CatalogShifts, b.Token)
	return &req, nil
}

// SelectShift chooses a shift from the loaded catalog by code and returns
// the break catalog request for it.
func (e *Editor) SelectShift(code string) (*CatalogRequest, error) {
	if e.hour.Kind != domain.BucketTimed {
		return nil, fmt.Errorf("hour %q takes no shift", e.hour.Token)
	}
	var found *domain.ShiftDefinition
	for i := range e.shifts {
		if e.shifts[i].Code == code {
			def := e.shifts[i]
			found = &def
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("shift %q is not offered for %s hours", code, e.hour.Token)
	}
	e.shift = found
	e.brk = ""
	e.breaks = nil
	req := e.request(CatalogBreaks, found.Code)
	return &req, nil
}

// SelectBreak chooses a break from the loaded list. "" clears the choice.
func (e *Editor) SelectBreak(brk string) error {
	if e.shift == nil {
		return fmt.Errorf("choose a shift before a break")
	}
	if brk == "" {
		e.brk = ""
		return nil
	}
	for _, b := range e.breaks {
		if b == brk {
			e.brk = brk
			return nil
		}
	}
	return fmt.Errorf("break %q is not offered for shift %s", brk, e.shift.Code)
}

// Apply stores a catalog result. Results from another editor generation,
// or superseded by a newer request of the same kind, are dropped and Apply
// returns false. A failed fetch clears the corresponding list.
func (e *Editor) Apply(res CatalogResult) bool {
	req := res.Request
	if req.Generation != e.generation {
		return false
	}
	if seq, ok := e.pending[req.Kind]; !ok || seq != req.Seq {
		return false
	}
	delete(e.pending, req.Kind)

	if res.Err != nil {
		e.err = res.Err
		e.log.WithError(res.Err).WithField("catalog", req.Kind.String()).Warn("catalog fetch failed")
	}

	switch req.Kind {
	case CatalogHours:
		e.hoursLoaded = true
		e.hours = res.Hours
		e.matchHourToken()
	case CatalogShifts:
		e.shifts = res.Shifts
		if res.Err != nil {
			e.breaks = nil
		}
	case CatalogBreaks:
		e.breaks = res.Breaks
	}
	return true
}

// matchHourToken swaps a preloaded hour for the catalog's spelling of the
// same bucket, e.g. "X" for "DESCANSO - X".
func (e *Editor) matchHourToken() {
	if e.hour.Kind == domain.BucketInvalid {
		return
	}
	for _, tok := range e.hours {
		if tok == e.hour.Token {
			return
		}
	}
	for _, tok := range e.hours {
		b := domain.ParseHourBucket(tok)
		if b.Kind == e.hour.Kind && b.Hours == e.hour.Hours && b.Leave == e.hour.Leave {
			e.hour = b
			return
		}
	}
}

// Save builds the save intent for the current selection.
func (e *Editor) Save() (Intent, error) {
	if !e.CanSave() {
		return Intent{}, ErrNotReady
	}
	var shift domain.AssignedShift
	switch e.hour.Kind {
	case domain.BucketRest:
		shift = domain.RestShift()
	case domain.BucketSpecial:
		shift = domain.LeaveShift(e.hour.Leave)
	case domain.BucketTimed:
		shift = domain.TimedShift(*e.shift, e.hour.Hours, e.brk)
	}
	if err := shift.Validate(); err != nil {
		return Intent{}, fmt.Errorf("building shift: %w", err)
	}
	return Intent{Cell: e.cell, Shift: shift}, nil
}

// Delete builds the deletion intent. Only valid in edit mode.
func (e *Editor) Delete() (Intent, error) {
	if !e.CanDelete() {
		return Intent{}, ErrNothingToDelete
	}
	return Intent{Cell: e.cell, Deleted: true}, nil
}
