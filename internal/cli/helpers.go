package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/journal/internal/db"
	"github.com/existflow/journal/internal/model"
)

// parseID parses a numeric id argument
func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %q", kind, s)
	}
	return id, nil
}

// resolveProject picks the project from the --project flag, falling back to the current context
func resolveProject(ctx context.Context, database *db.DB, flagValue string) (model.Project, error) {
	raw := flagValue
	if raw == "" {
		raw = GetCurrentContext()
	}
	if raw == "" {
		return model.Project{}, fmt.Errorf("no project given: use --project or 'journal context set <project-id>'")
	}

	id, err := parseID("project", raw)
	if err != nil {
		return model.Project{}, err
	}

	p, err := database.GetProject(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return model.Project{}, fmt.Errorf("project not found: %d", id)
	}
	return p, err
}

// parseDateArg accepts YYYY-MM-DD or an RFC 3339 timestamp, plus "today" and "yesterday"
func parseDateArg(s string) (time.Time, error) {
	now := time.Now().UTC()
	switch strings.ToLower(s) {
	case "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	return model.ParseDateOrTimestamp(s)
}

// notFound rewrites ErrNotFound into a short user-facing message
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf(format, args...)
	}
	return err
}

// truncate shortens a string to n runes with ellipsis
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
