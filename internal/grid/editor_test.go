package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/logging"
	"github.com/turnity/turnity/internal/testutil"
)

func newEditor(t *testing.T, existing *domain.AssignedShift) (*Editor, []CatalogRequest) {
	t.Helper()
	return NewEditor(1, NewKey("100", day("2024-06-03")), existing, logging.Discard())
}

func hoursResult(req CatalogRequest, hours ...string) CatalogResult {
	return CatalogResult{Request: req, Hours: hours}
}

func TestEditor_NewCellFlow(t *testing.T) {
	ed, reqs := newEditor(t, nil)
	require.Len(t, reqs, 1)
	assert.Equal(t, CatalogHours, reqs[0].Kind)
	assert.Equal(t, PhaseLoading, ed.Phase())
	assert.False(t, ed.CanSave())
	assert.False(t, ed.CanDelete())

	require.True(t, ed.Apply(hoursResult(reqs[0], "DESCANSO - X", "8", "VACACIONES")))
	assert.Equal(t, PhaseHour, ed.Phase())

	shiftsReq, err := ed.SelectHour("8")
	require.NoError(t, err)
	require.NotNil(t, shiftsReq)
	assert.Equal(t, CatalogShifts, shiftsReq.Kind)
	assert.Equal(t, "8", shiftsReq.Arg)
	assert.Equal(t, PhaseShift, ed.Phase())
	assert.False(t, ed.CanSave(), "timed hour needs a shift")

	def := testutil.NewTestShiftDef("M8", "06:00:00", 8)
	require.True(t, ed.Apply(CatalogResult{Request: *shiftsReq, Shifts: []domain.ShiftDefinition{def}}))

	breaksReq, err := ed.SelectShift("M8")
	require.NoError(t, err)
	assert.Equal(t, CatalogBreaks, breaksReq.Kind)
	assert.Equal(t, "M8", breaksReq.Arg)
	assert.Equal(t, PhaseBreak, ed.Phase())
	assert.True(t, ed.CanSave(), "break is optional")

	require.True(t, ed.Apply(CatalogResult{Request: *breaksReq, Breaks: []string{"00:30:00"}}))
	require.NoError(t, ed.SelectBreak("00:30:00"))

	in, err := ed.Save()
	require.NoError(t, err)
	assert.False(t, in.Deleted)
	assert.Equal(t, "100@2024-06-03", in.Cell.String())
	assert.Equal(t, domain.KindTimed, in.Shift.Kind)
	assert.Equal(t, 8, in.Shift.HoursBucket)
	assert.Equal(t, "00:30:00", in.Shift.Break)
	assert.Equal(t, "M8", in.Shift.Shift.Code)
}

func TestEditor_SpecialTokenSkipsShiftSelection(t *testing.T) {
	ed, reqs := newEditor(t, nil)
	ed.Apply(hoursResult(reqs[0], "8", "VACACIONES"))

	req, err := ed.SelectHour("VACACIONES")
	require.NoError(t, err)
	assert.Nil(t, req)
	assert.True(t, ed.CanSave())
	assert.Equal(t, PhaseHour, ed.Phase())

	in, err := ed.Save()
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveShift(domain.LeaveVacation), in.Shift)
}

func TestEditor_RestBucketSavesRest(t *testing.T) {
	ed, reqs := newEditor(t, nil)
	ed.Apply(hoursResult(reqs[0], "DESCANSO - X", "8"))

	_, err := ed.SelectHour("DESCANSO - X")
	require.NoError(t, err)

	in, err := ed.Save()
	require.NoError(t, err)
	assert.Equal(t, domain.KindRest, in.Shift.Kind)
}

func TestEditor_SaveBeforeReady(t *testing.T) {
	ed, reqs := newEditor(t, nil)
	ed.Apply(hoursResult(reqs[0], "8"))

	_, err := ed.Save()
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = ed.SelectHour("8")
	require.NoError(t, err)
	_, err = ed.Save()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestEditor_RejectsUnknownSelections(t *testing.T) {
	ed, reqs := newEditor(t, nil)
	ed.Apply(hoursResult(reqs[0], "8"))

	_, err := ed.SelectHour("banana")
	assert.Error(t, err)

	_, err = ed.SelectHour("8")
	require.NoError(t, err)
	_, err = ed.SelectShift("NOPE")
	assert.Error(t, err)
	assert.Error(t, ed.SelectBreak("00:30:00"), "no shift chosen yet")
}

func TestEditor_ChangingHourClearsDownstream(t *testing.T) {
	ed, reqs := newEditor(t, nil)
	ed.Apply(hoursResult(reqs[0], "8", "6"))
	req, _ := ed.SelectHour("8")
	ed.Apply(CatalogResult{Request: *req, Shifts: []domain.ShiftDefinition{testutil.NewTestShiftDef("M8", "06:00:00", 8)}})
	_, err := ed.SelectShift("M8")
	require.NoError(t, err)

	_, err = ed.SelectHour("6")
	require.NoError(t, err)
	assert.Nil(t, ed.SelectedShift())
	assert.Empty(t, ed.Shifts())
	assert.Empty(t, ed.Breaks())
	assert.Equal(t, "", ed.SelectedBreak())
}

func TestEditor_SupersededRequestDropped(t *testing.T) {
	ed, reqs := newEditor(t, nil)
	ed.Apply(hoursResult(reqs[0], "8", "6"))

	first, _ := ed.SelectHour("8")
	second, _ := ed.SelectHour("6")

	assert.False(t, ed.Apply(CatalogResult{Request: *first, Shifts: []domain.ShiftDefinition{testutil.NewTestShiftDef("M8", "06:00:00", 8)}}))
	assert.Empty(t, ed.Shifts())

	assert.True(t, ed.Apply(CatalogResult{Request: *second, Shifts: []domain.ShiftDefinition{testutil.NewTestShiftDef("M6", "07:00:00", 6)}}))
	assert.Equal(t, "M6", ed.Shifts()[0].Code)
}

func TestEditor_OtherGenerationDropped(t *testing.T) {
	ed, reqs := newEditor(t, nil)
	stale := reqs[0]
	stale.Generation = 99

	assert.False(t, ed.Apply(hoursResult(stale, "8")))
	assert.Equal(t, PhaseLoading, ed.Phase())
}

func TestEditor_CatalogFailureClearsList(t *testing.T) {
	ed, reqs := newEditor(t, nil)
	ed.Apply(hoursResult(reqs[0], "8"))
	req, _ := ed.SelectHour("8")

	boom := errors.New("boom")
	assert.True(t, ed.Apply(CatalogResult{Request: *req, Err: boom}))
	assert.Empty(t, ed.Shifts())
	assert.ErrorIs(t, ed.Err(), boom)
	assert.False(t, ed.Pending())
}

func TestEditor_HourCatalogFailureStillLeavesLoading(t *testing.T) {
	ed, reqs := newEditor(t, nil)

	ed.Apply(CatalogResult{Request: reqs[0], Err: errors.New("down")})
	assert.Equal(t, PhaseHour, ed.Phase())
	assert.Empty(t, ed.Hours())
}

func TestEditor_EditModePreloadsTimedShift(t *testing.T) {
	existing := domain.TimedShift(testutil.NewTestShiftDef("T8", "14:00:00", 8), 8, "01:00:00")
	ed, reqs := newEditor(t, &existing)

	require.Len(t, reqs, 3)
	assert.Equal(t, CatalogHours, reqs[0].Kind)
	assert.Equal(t, CatalogShifts, reqs[1].Kind)
	assert.Equal(t, "8", reqs[1].Arg)
	assert.Equal(t, CatalogBreaks, reqs[2].Kind)
	assert.Equal(t, "T8", reqs[2].Arg)

	assert.True(t, ed.Editing())
	assert.True(t, ed.CanDelete())
	assert.Equal(t, "8", ed.SelectedHour())
	assert.Equal(t, "T8", ed.SelectedShift().Code)
	assert.Equal(t, "01:00:00", ed.SelectedBreak())
	assert.True(t, ed.CanSave())
}

func TestEditor_EditModeRestMatchesCatalogToken(t *testing.T) {
	existing := domain.RestShift()
	ed, reqs := newEditor(t, &existing)
	require.Len(t, reqs, 1)

	ed.Apply(hoursResult(reqs[0], "DESCANSO - X", "8"))
	assert.Equal(t, "DESCANSO - X", ed.SelectedHour())
}

func TestEditor_DeleteOnlyInEditMode(t *testing.T) {
	ed, _ := newEditor(t, nil)
	_, err := ed.Delete()
	assert.ErrorIs(t, err, ErrNothingToDelete)

	existing := domain.LeaveShift(domain.LeaveDisability)
	ed, _ = newEditor(t, &existing)
	in, err := ed.Delete()
	require.NoError(t, err)
	assert.True(t, in.Deleted)
	assert.Equal(t, "100@2024-06-03", in.Cell.String())
}

func TestSession_EditorRemountIsolation(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	s := loadedSession(t, fb)
	require.NoError(t, s.ApplyIntent(Intent{
		Cell:  NewKey("100", day("2024-06-03")),
		Shift: domain.TimedShift(testutil.NewTestShiftDef("M8", "06:00:00", 8), 8, "00:30:00"),
	}))

	a, reqsA := s.OpenEditor(NewKey("100", day("2024-06-03")))
	fetchAll(t, s, reqsA...)
	require.Equal(t, "M8", a.SelectedShift().Code)
	require.NotEmpty(t, a.Breaks())
	lateShifts := s.FetchCatalog(t.Context(), reqsA[1])
	lateBreaks := s.FetchCatalog(t.Context(), reqsA[2])

	s.CloseEditor()
	b, reqsB := s.OpenEditor(NewKey("200", day("2024-06-04")))

	assert.False(t, s.ApplyCatalog(lateShifts), "cell A's answer must not land in cell B")
	assert.False(t, s.ApplyCatalog(lateBreaks))
	assert.Empty(t, b.Shifts())
	assert.Empty(t, b.Breaks())
	assert.Nil(t, b.SelectedShift())
	assert.Equal(t, "", b.SelectedHour())
	assert.Greater(t, b.Generation(), a.Generation())

	fetchAll(t, s, reqsB...)
	assert.NotEmpty(t, b.Hours())
	assert.Empty(t, b.Shifts())
}

func TestSession_OpenEditorReplacesOpenEditor(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	s := loadedSession(t, fb)

	a, reqsA := s.OpenEditor(NewKey("100", day("2024-06-03")))
	b, _ := s.OpenEditor(NewKey("100", day("2024-06-04")))

	assert.Same(t, b, s.Editor())
	assert.NotSame(t, a, b)
	assert.False(t, s.ApplyCatalog(s.FetchCatalog(t.Context(), reqsA[0])))
}

func TestSession_SaveAndDeleteThroughEditor(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	s := loadedSession(t, fb)
	cell := NewKey("200", day("2024-06-05"))

	_, reqs := s.OpenEditor(cell)
	fetchAll(t, s, reqs...)
	_, err := s.Editor().SelectHour("INCAPACIDAD")
	require.NoError(t, err)
	require.NoError(t, s.SaveEditor())
	assert.Nil(t, s.Editor())
	assert.Equal(t, "INCAPACIDAD", s.CellLabel("200", day("2024-06-05")))

	_, reqs = s.OpenEditor(cell)
	fetchAll(t, s, reqs...)
	require.NoError(t, s.DeleteFromEditor())
	assert.Equal(t, FreeLabel, s.CellLabel("200", day("2024-06-05")))

	assert.ErrorIs(t, s.SaveEditor(), ErrNoEditor)
}
