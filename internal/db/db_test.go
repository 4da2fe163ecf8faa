package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/existflow/journal/internal/db"
	"github.com/existflow/journal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(context.Background(), db.Options{
		Driver: db.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "journal.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOpenBadPath(t *testing.T) {
	t.Parallel()

	_, err := db.Open(context.Background(), db.Options{Path: "/dev/null/journal.db"})
	assert.Error(t, err)
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := db.Open(context.Background(), db.Options{Driver: "mysql"})
	assert.EqualError(t, err, `unsupported database driver "mysql"`)
}

func TestOpenIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	first, err := db.Open(ctx, db.Options{Path: path})
	require.NoError(t, err)
	_, err = first.CreateProject(ctx, "Alpha")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.Open(ctx, db.Options{Path: path})
	require.NoError(t, err)
	defer second.Close()

	projects, err := second.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestCreateProjectDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	database := openDB(t)

	id, err := database.CreateProject(ctx, "Alpha")
	require.NoError(t, err)

	p, err := database.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", p.Name)
	assert.Nil(t, p.Parent)
	assert.Equal(t, model.TypeProject, p.Type)
}

func TestGetProjectNotFound(t *testing.T) {
	t.Parallel()
	database := openDB(t)

	_, err := database.GetProject(context.Background(), 42)
	assert.True(t, errors.Is(err, db.ErrNotFound))
}

func TestRenameAndRetypeProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	database := openDB(t)

	id, err := database.CreateProject(ctx, "Alpha")
	require.NoError(t, err)

	require.NoError(t, database.RenameProject(ctx, id, "Beta"))
	require.NoError(t, database.SetProjectType(ctx, id, model.TypeMilestone))

	p, err := database.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Beta", p.Name)
	assert.Equal(t, model.TypeMilestone, p.Type)

	err = database.RenameProject(ctx, id+100, "Gamma")
	assert.True(t, errors.Is(err, db.ErrNotFound))
}

func TestListProjectsGroupsChildrenUnderParent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	database := openDB(t)

	alpha, _ := database.CreateProject(ctx, "Alpha")
	beta, _ := database.CreateProject(ctx, "Beta")
	betaChild, _ := database.CreateProject(ctx, "Beta child")
	alphaChild, _ := database.CreateProject(ctx, "Alpha child")

	require.NoError(t, database.SetProjectParent(ctx, betaChild, &beta))
	require.NoError(t, database.SetProjectParent(ctx, alphaChild, &alpha))

	projects, err := database.ListProjects(ctx)
	require.NoError(t, err)

	var names []string
	for _, p := range projects {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Alpha", "Alpha child", "Beta", "Beta child"}, names)
	require.NotNil(t, projects[1].Parent)
	assert.Equal(t, alpha, *projects[1].Parent)

	// Clearing the parent moves the project back to the top level
	require.NoError(t, database.SetProjectParent(ctx, alphaChild, nil))
	p, err := database.GetProject(ctx, alphaChild)
	require.NoError(t, err)
	assert.Nil(t, p.Parent)
}

func TestDeleteProjectLeavesDependents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	database := openDB(t)

	id, _ := database.CreateProject(ctx, "Alpha")
	_, err := database.CreateEntry(ctx, id, date("2024-01-01T00:00:00Z"), date("2024-01-01T00:00:00Z"), "A")
	require.NoError(t, err)
	_, err = database.CreateStatus(ctx, id, 10, date("2024-01-01T00:00:00Z"), date("2024-01-31T00:00:00Z"))
	require.NoError(t, err)

	require.NoError(t, database.DeleteProject(ctx, id))

	_, err = database.GetProject(ctx, id)
	assert.True(t, errors.Is(err, db.ErrNotFound))

	entries, err := database.ListEntries(ctx, id)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	status, err := database.ListStatus(ctx, &id)
	require.NoError(t, err)
	assert.Len(t, status, 1)
}

func TestDeleteProjectCascade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	database := openDB(t)

	id, _ := database.CreateProject(ctx, "Alpha")
	other, _ := database.CreateProject(ctx, "Beta")
	_, _ = database.CreateEntry(ctx, id, date("2024-01-01T00:00:00Z"), date("2024-01-01T00:00:00Z"), "A")
	_, _ = database.CreateEntry(ctx, other, date("2024-01-01T00:00:00Z"), date("2024-01-01T00:00:00Z"), "B")
	_, _ = database.CreateStatus(ctx, id, 10, date("2024-01-01T00:00:00Z"), date("2024-01-31T00:00:00Z"))

	require.NoError(t, database.DeleteProjectCascade(ctx, id))

	entries, err := database.ListEntries(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, entries)

	status, err := database.ListStatus(ctx, &id)
	require.NoError(t, err)
	assert.Empty(t, status)

	entries, err = database.ListEntries(ctx, other)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	err = database.DeleteProjectCascade(ctx, id)
	assert.True(t, errors.Is(err, db.ErrNotFound))
}

func TestEntriesLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	database := openDB(t)

	id, _ := database.CreateProject(ctx, "Alpha")
	first, err := database.CreateEntry(ctx, id, date("2024-01-01T09:30:00Z"), date("2024-01-01T09:30:00Z"), "A")
	require.NoError(t, err)
	second, err := database.CreateEntry(ctx, id, date("2024-01-02T08:00:00Z"), date("2024-01-02T08:00:00Z"), "B")
	require.NoError(t, err)

	entries, err := database.ListEntries(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0].ID)
	assert.Equal(t, "A", entries[0].Content)
	assert.True(t, date("2024-01-01T09:30:00Z").Equal(entries[0].DateCreated))

	updated := date("2024-02-01T12:00:00Z")
	require.NoError(t, database.UpdateEntry(ctx, id, second, "B2", updated))

	e, err := database.GetEntry(ctx, id, second)
	require.NoError(t, err)
	assert.Equal(t, "B2", e.Content)
	require.NotNil(t, e.DateUpdated)
	assert.True(t, updated.Equal(*e.DateUpdated))

	// Entry ids are scoped to their project
	err = database.UpdateEntry(ctx, id+1, second, "nope", updated)
	assert.True(t, errors.Is(err, db.ErrNotFound))

	require.NoError(t, database.DeleteEntry(ctx, id, first))
	entries, err = database.ListEntries(ctx, id)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestListEntriesInRangeInclusive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	database := openDB(t)

	id, _ := database.CreateProject(ctx, "Alpha")
	for _, d := range []string{
		"2024-01-01T00:00:00Z",
		"2024-01-05T12:00:00Z",
		"2024-01-10T00:00:00Z",
		"2024-01-11T00:00:00Z",
	} {
		_, err := database.CreateEntry(ctx, id, date(d), date(d), d)
		require.NoError(t, err)
	}

	entries, err := database.ListEntriesInRange(ctx, id, date("2024-01-01T00:00:00Z"), date("2024-01-10T00:00:00Z"))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2024-01-01T00:00:00Z", entries[0].Content)
	assert.Equal(t, "2024-01-10T00:00:00Z", entries[2].Content)
}

func TestCreateStatusStoresDateOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	database := openDB(t)

	id, _ := database.CreateProject(ctx, "Alpha")
	sid, err := database.CreateStatus(ctx, id, 50, date("2024-03-01T10:00:00Z"), date("2024-03-10T23:00:00Z"))
	require.NoError(t, err)

	var start, end string
	require.NoError(t, database.QueryRow(`SELECT start_date, end_date FROM status WHERE id = ?`, sid).Scan(&start, &end))
	assert.Equal(t, "2024-03-01", start)
	assert.Equal(t, "2024-03-10", end)

	require.NoError(t, database.UpdateStatus(ctx, id, sid, 75, date("2024-04-02T18:45:00Z"), date("2024-04-20T01:00:00Z")))
	require.NoError(t, database.QueryRow(`SELECT start_date, end_date FROM status WHERE id = ?`, sid).Scan(&start, &end))
	assert.Equal(t, "2024-04-02", start)
	assert.Equal(t, "2024-04-20", end)

	list, err := database.ListStatus(ctx, &id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 75, list[0].Progress)
}

func TestStatusProgressIsNotClamped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	database := openDB(t)

	id, _ := database.CreateProject(ctx, "Alpha")
	_, err := database.CreateStatus(ctx, id, 150, date("2024-03-01T00:00:00Z"), date("2024-03-02T00:00:00Z"))
	require.NoError(t, err)

	current, err := database.CurrentStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 150, current.Progress)
}

func TestCurrentStatusIsMostRecent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	database := openDB(t)

	clock := date("2024-01-01T00:00:00Z")
	database.SetClock(func() time.Time { return clock })

	alpha, _ := database.CreateProject(ctx, "Alpha")
	beta, _ := database.CreateProject(ctx, "Beta")

	_, err := database.CurrentStatus(ctx, alpha)
	assert.True(t, errors.Is(err, db.ErrNotFound))

	_, _ = database.CreateStatus(ctx, alpha, 10, clock, clock)
	clock = clock.Add(48 * time.Hour)
	latest, _ := database.CreateStatus(ctx, alpha, 40, clock, clock)
	clock = clock.Add(time.Hour)
	betaLatest, _ := database.CreateStatus(ctx, beta, 5, clock, clock)

	current, err := database.CurrentStatus(ctx, alpha)
	require.NoError(t, err)
	assert.Equal(t, latest, current.ID)
	assert.Equal(t, 40, current.Progress)

	all, err := database.LatestStatuses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, latest, all[alpha].ID)
	assert.Equal(t, betaLatest, all[beta].ID)

	everything, err := database.ListStatus(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

func TestDeleteStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	database := openDB(t)

	id, _ := database.CreateProject(ctx, "Alpha")
	sid, _ := database.CreateStatus(ctx, id, 10, date("2024-01-01T00:00:00Z"), date("2024-01-02T00:00:00Z"))

	require.NoError(t, database.DeleteStatus(ctx, id, sid))
	err := database.DeleteStatus(ctx, id, sid)
	assert.True(t, errors.Is(err, db.ErrNotFound))
}

func TestGetSettingFallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	database := openDB(t)

	value, ok, err := database.GetSetting(ctx, "missing-key", "fallback")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fallback", value)

	value, ok, err = database.GetSetting(ctx, "missing-key", "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSetSettingUpserts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	database := openDB(t)

	require.NoError(t, database.SetSetting(ctx, "openai-api-key", "first"))
	require.NoError(t, database.SetSetting(ctx, "openai-api-key", "second"))

	value, ok, err := database.GetSetting(ctx, "openai-api-key", "fallback")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)

	// An empty stored value behaves like an absent one
	require.NoError(t, database.SetSetting(ctx, "openai-api-key", ""))
	value, _, err = database.GetSetting(ctx, "openai-api-key", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", value)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM settings`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestClosedDatabaseReturnsStorageError(t *testing.T) {
	t.Parallel()
	database := openDB(t)
	require.NoError(t, database.Close())

	_, err := database.ListProjects(context.Background())
	var storageErr *db.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "list projects", storageErr.Op)
}
