package notes

import (
	"context"
	"fmt"
	"time"

	"github.com/existflow/journal/internal/model"
	"golang.org/x/sync/errgroup"
)

// EntrySource is the part of the store periodic collection reads from
type EntrySource interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListEntriesInRange(ctx context.Context, projectID int64, start, end time.Time) ([]model.Entry, error)
}

// RangeLabel renders a date range as "YYYY-MM-DD to YYYY-MM-DD"
func RangeLabel(start, end time.Time) string {
	return fmt.Sprintf("%s to %s", model.FormatDate(start), model.FormatDate(end))
}

// PeriodBounds returns the inclusive timestamp bounds covering the calendar days
// from startDay through endDay. Days are taken in UTC.
func PeriodBounds(startDay, endDay time.Time) (time.Time, time.Time) {
	startDay, endDay = startDay.UTC(), endDay.UTC()
	start := time.Date(startDay.Year(), startDay.Month(), startDay.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
	return start, end
}

// CollectPeriodicNotes gathers each project's entries between start and end.
// Projects are fetched concurrently; the result keeps the store's project order.
// Projects without entries are included with empty notes.
func CollectPeriodicNotes(ctx context.Context, src EntrySource, start, end time.Time) ([]ProjectNotes, error) {
	projects, err := src.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ProjectNotes, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range projects {
		i, p := i, p
		g.Go(func() error {
			entries, err := src.ListEntriesInRange(gctx, p.ID, start, end)
			if err != nil {
				return fmt.Errorf("project %d: %w", p.ID, err)
			}
			out[i] = ProjectNotes{Project: p.Name, Notes: JoinEntries(entries)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
