package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/grid"
)

// PlanEntry is one cell change in a plan file. Hour is a catalog hour
// token ("8", "X", "VACACIONES", ...); Shift and Break are only read for
// timed hours. Delete clears the cell instead.
type PlanEntry struct {
	Employee string `json:"employee"`
	Date     string `json:"date"`
	Hour     string `json:"hour,omitempty"`
	Shift    string `json:"shift,omitempty"`
	Break    string `json:"break,omitempty"`
	Delete   bool   `json:"delete,omitempty"`
}

func (e PlanEntry) String() string {
	return e.Employee + " " + e.Date
}

// readPlan decodes a JSON array of plan entries.
func readPlan(r io.Reader) ([]PlanEntry, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var entries []PlanEntry
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	return entries, nil
}

// applyPlan runs every entry through a shift editor on g, the same way the
// interactive grid does, fetching catalogs synchronously. It stops at the
// first entry that cannot be applied.
func applyPlan(ctx context.Context, g *grid.Session, entries []PlanEntry) error {
	for i, e := range entries {
		if err := applyPlanEntry(ctx, g, e); err != nil {
			g.CloseEditor()
			return fmt.Errorf("plan entry %d (%s): %w", i+1, e, err)
		}
	}
	return nil
}

func applyPlanEntry(ctx context.Context, g *grid.Session, e PlanEntry) error {
	date, err := domain.ParseDate(e.Date)
	if err != nil {
		return err
	}
	if domain.WeekIndexOf(g.Weeks(), date) < 0 {
		return fmt.Errorf("%s is outside the loaded weeks", e.Date)
	}
	if _, ok := g.Employee(e.Employee); !ok {
		return fmt.Errorf("employee %s is not on this roster", e.Employee)
	}

	ed, reqs := g.OpenEditor(grid.NewKey(e.Employee, date))
	if err := fetchCatalogs(ctx, g, ed, reqs...); err != nil {
		return err
	}

	if e.Delete {
		return g.DeleteFromEditor()
	}

	req, err := ed.SelectHour(e.Hour)
	if err != nil {
		return err
	}
	if req != nil {
		if err := fetchCatalogs(ctx, g, ed, *req); err != nil {
			return err
		}
		if e.Shift == "" {
			return fmt.Errorf("hour %s needs a shift", e.Hour)
		}
		req, err = ed.SelectShift(e.Shift)
		if err != nil {
			return err
		}
		if err := fetchCatalogs(ctx, g, ed, *req); err != nil {
			return err
		}
		if e.Break != "" {
			if err := ed.SelectBreak(e.Break); err != nil {
				return err
			}
		}
	}
	return g.SaveEditor()
}

func fetchCatalogs(ctx context.Context, g *grid.Session, ed *grid.Editor, reqs ...grid.CatalogRequest) error {
	for _, r := range reqs {
		g.ApplyCatalog(g.FetchCatalog(ctx, r))
	}
	if err := ed.Err(); err != nil {
		return fmt.Errorf("loading shift catalog: %w", err)
	}
	return nil
}
