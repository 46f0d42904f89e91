package storage

import (
	"context"
	"hours/internal/timeutil"
	"hours/worklog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustDay(t *testing.T, raw string) time.Time {
	t.Helper()
	day, err := timeutil.ParseDay(raw)
	require.NoError(t, err)
	return day
}

func seedAcme(t *testing.T, store *SQLiteStore) worklog.Client {
	t.Helper()
	client, err := store.AddClient(context.Background(), "Acme", 100, "EUR")
	require.NoError(t, err)
	return client
}

func logEntry(t *testing.T, store *SQLiteStore, client, project, task, day string, hours float64) worklog.Entry {
	t.Helper()
	entry, err := store.AddEntry(context.Background(), worklog.NewEntry{
		ClientName: client,
		Project:    project,
		Task:       task,
		Day:        mustDay(t, day),
		Hours:      hours,
	})
	require.NoError(t, err)
	return entry
}

func entryIDs(entries []worklog.Entry) []int64 {
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids
}

func TestOpenSQLite_FileStorePersistsAcrossHandles(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "nested", "logs.db")
	store, err := OpenSQLite(dbPath, nil)
	require.NoError(t, err)
	seedAcme(t, store)
	logEntry(t, store, "Acme", "P", "task1", "2021-01-01", 8)
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(dbPath, nil)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.GetEntries(context.Background(), EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Acme", entries[0].Client.Name)
	assert.Equal(t, "2021-01-01", timeutil.FormatDay(entries[0].Day))
}

func TestAddClient_RejectsDuplicateName(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	seedAcme(t, store)

	_, err := store.AddClient(context.Background(), "Acme", 120, "USD")
	require.ErrorIs(t, err, ErrDuplicateName)

	clients, err := store.ListClients(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, 100.0, clients[0].Rate)
}

func TestAddClient_ValidatesFields(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)

	_, err := store.AddClient(context.Background(), "Acme", 0, "EUR")
	require.ErrorIs(t, err, worklog.ErrValidation)

	_, err = store.AddClient(context.Background(), "", 100, "EUR")
	require.ErrorIs(t, err, worklog.ErrValidation)

	_, err = store.AddClient(context.Background(), "   ", 100, "EUR")
	require.ErrorIs(t, err, worklog.ErrValidation)

	_, err = store.AddClient(context.Background(), "Acme", 100, " ")
	require.ErrorIs(t, err, worklog.ErrValidation)

	clients, err := store.ListClients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestUpdateClient_RejectsBlankCurrency(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	seedAcme(t, store)
	ctx := context.Background()

	for _, currency := range []string{"", "  "} {
		_, err := store.UpdateClient(ctx, "Acme", worklog.ClientPatch{Currency: worklog.Ptr(currency)})
		require.ErrorIs(t, err, worklog.ErrValidation)
	}

	stored, err := store.GetClientByName(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "EUR", stored.Currency)
}

func TestUpdateClient_ChangesOnlySuppliedFields(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	seedAcme(t, store)
	ctx := context.Background()

	updated, err := store.UpdateClient(ctx, "Acme", worklog.ClientPatch{Rate: worklog.Ptr(120.0)})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.Rate)
	assert.Equal(t, "EUR", updated.Currency)

	updated, err = store.UpdateClient(ctx, "Acme", worklog.ClientPatch{Currency: worklog.Ptr("USD")})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.Rate)
	assert.Equal(t, "USD", updated.Currency)

	stored, err := store.GetClientByName(ctx, "Acme")
	require.NoError(t, err)
	if diff := cmp.Diff(updated, stored); diff != "" {
		t.Fatalf("stored client differs (-want +got):\n%s", diff)
	}

	_, err = store.UpdateClient(ctx, "Globex", worklog.ClientPatch{Rate: worklog.Ptr(1.0)})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveClient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing client", func(t *testing.T) {
		store := openTestStore(t)
		require.ErrorIs(t, store.RemoveClient(ctx, "Acme", false), ErrNotFound)
	})

	t.Run("client without entries", func(t *testing.T) {
		store := openTestStore(t)
		seedAcme(t, store)
		require.NoError(t, store.RemoveClient(ctx, "Acme", false))

		_, err := store.GetClientByName(ctx, "Acme")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("client with entries is kept without cascade", func(t *testing.T) {
		store := openTestStore(t)
		seedAcme(t, store)
		logEntry(t, store, "Acme", "P", "task1", "2021-01-01", 8)

		require.ErrorIs(t, store.RemoveClient(ctx, "Acme", false), ErrClientHasEntries)

		entries, err := store.GetEntries(ctx, EntryFilter{})
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("cascade removes entries of that client only", func(t *testing.T) {
		store := openTestStore(t)
		seedAcme(t, store)
		_, err := store.AddClient(ctx, "Globex", 80, "USD")
		require.NoError(t, err)
		logEntry(t, store, "Acme", "P", "task1", "2021-01-01", 8)
		kept := logEntry(t, store, "Globex", "G", "task2", "2021-01-02", 4)

		require.NoError(t, store.RemoveClient(ctx, "Acme", true))

		entries, err := store.GetEntries(ctx, EntryFilter{})
		require.NoError(t, err)
		assert.Equal(t, []int64{kept.ID}, entryIDs(entries))
	})
}

func TestAddEntry_RequiresExistingClient(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)

	_, err := store.AddEntry(context.Background(), worklog.NewEntry{
		ClientName: "Nobody",
		Project:    "P",
		Day:        mustDay(t, "2021-01-01"),
		Hours:      8,
	})
	require.ErrorIs(t, err, ErrNotFound)

	entries, err := store.GetEntries(context.Background(), EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetEntries_ReturnsCreatedRecordsOrderedByDayThenID(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	seedAcme(t, store)

	first := logEntry(t, store, "Acme", "project", "task1", "2021-01-01", 8)
	third := logEntry(t, store, "Acme", "project2", "task3", "2021-01-03", 8)
	second := logEntry(t, store, "Acme", "project", "task2", "2021-01-02", 8)
	sameDay := logEntry(t, store, "Acme", "project", "", "2021-01-01", 2)

	entries, err := store.GetEntries(context.Background(), EntryFilter{})
	require.NoError(t, err)

	want := []worklog.Entry{first, sameDay, second, third}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("unexpected entries (-want +got):\n%s", diff)
	}
	assert.Equal(t, "", entries[1].Task)
}

func TestGetEntries_RangeIsInclusiveLowerExclusiveUpper(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	seedAcme(t, store)

	first := logEntry(t, store, "Acme", "P", "a", "2021-01-01", 8)
	second := logEntry(t, store, "Acme", "P", "b", "2021-01-02", 8)
	logEntry(t, store, "Acme", "P2", "c", "2021-01-03", 8)

	from := mustDay(t, "2021-01-01")
	to := mustDay(t, "2021-01-03")
	entries, err := store.GetEntries(context.Background(), EntryFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID, second.ID}, entryIDs(entries))

	total := 0.0
	for _, entry := range entries {
		total += entry.Hours
	}
	assert.Equal(t, 16.0, total)
}

func TestGetEntries_FiltersByClient(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()
	seedAcme(t, store)
	_, err := store.AddClient(ctx, "Globex", 80, "USD")
	require.NoError(t, err)

	logEntry(t, store, "Acme", "P", "a", "2021-01-01", 8)
	globex := logEntry(t, store, "Globex", "G", "b", "2021-01-01", 3)

	entries, err := store.GetEntries(ctx, EntryFilter{ClientName: "Globex"})
	require.NoError(t, err)
	assert.Equal(t, []int64{globex.ID}, entryIDs(entries))
	assert.Equal(t, "USD", entries[0].Client.Currency)

	_, err = store.GetEntries(ctx, EntryFilter{ClientName: "Initech"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateEntry_PartialUpdateLeavesOtherFieldsUntouched(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()
	seedAcme(t, store)
	original := logEntry(t, store, "Acme", "P", "review", "2021-01-01", 8)

	tests := []struct {
		name   string
		patch  worklog.EntryPatch
		mutate func(*worklog.Entry)
	}{
		{
			name:   "project",
			patch:  worklog.EntryPatch{Project: worklog.Ptr("P2")},
			mutate: func(e *worklog.Entry) { e.Project = "P2" },
		},
		{
			name:   "zero hours",
			patch:  worklog.EntryPatch{Hours: worklog.Ptr(0.0)},
			mutate: func(e *worklog.Entry) { e.Hours = 0 },
		},
		{
			name:   "empty task",
			patch:  worklog.EntryPatch{Task: worklog.Ptr("")},
			mutate: func(e *worklog.Entry) { e.Task = "" },
		},
		{
			name:   "day",
			patch:  worklog.EntryPatch{Day: worklog.Ptr(mustDay(t, "2021-02-01"))},
			mutate: func(e *worklog.Entry) { e.Day = mustDay(t, "2021-02-01") },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before, err := store.GetEntry(ctx, original.ID)
			require.NoError(t, err)

			updated, err := store.UpdateEntry(ctx, original.ID, tc.patch)
			require.NoError(t, err)

			want := before
			tc.mutate(&want)
			if diff := cmp.Diff(want, updated); diff != "" {
				t.Fatalf("unexpected returned entry (-want +got):\n%s", diff)
			}

			stored, err := store.GetEntry(ctx, original.ID)
			require.NoError(t, err)
			if diff := cmp.Diff(want, stored); diff != "" {
				t.Fatalf("unexpected stored entry (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpdateEntry_Errors(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()
	seedAcme(t, store)
	entry := logEntry(t, store, "Acme", "P", "a", "2021-01-01", 8)

	_, err := store.UpdateEntry(ctx, entry.ID+100, worklog.EntryPatch{Hours: worklog.Ptr(1.0)})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.UpdateEntry(ctx, entry.ID, worklog.EntryPatch{Hours: worklog.Ptr(-2.0)})
	require.ErrorIs(t, err, worklog.ErrValidation)

	_, err = store.UpdateEntry(ctx, entry.ID, worklog.EntryPatch{Project: worklog.Ptr("")})
	require.ErrorIs(t, err, worklog.ErrValidation)

	_, err = store.UpdateEntry(ctx, entry.ID, worklog.EntryPatch{Project: worklog.Ptr("  ")})
	require.ErrorIs(t, err, worklog.ErrValidation)

	stored, err := store.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "P", stored.Project)
}

func TestAddEntry_RejectsBlankProject(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()
	seedAcme(t, store)

	_, err := store.AddEntry(ctx, worklog.NewEntry{
		ClientName: "Acme",
		Project:    "  ",
		Day:        mustDay(t, "2021-01-01"),
		Hours:      8,
	})
	require.ErrorIs(t, err, worklog.ErrValidation)

	entries, err := store.GetEntries(ctx, EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDuplicateLastEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty log", func(t *testing.T) {
		store := openTestStore(t)
		_, err := store.DuplicateLastEntry(ctx, worklog.DuplicateOverrides{})
		require.ErrorIs(t, err, ErrEmptyLog)
	})

	t.Run("without overrides clones the latest created entry", func(t *testing.T) {
		store := openTestStore(t)
		seedAcme(t, store)
		logEntry(t, store, "Acme", "P", "late day", "2021-01-05", 8)
		latest := logEntry(t, store, "Acme", "P2", "early day", "2021-01-02", 6)

		clone, err := store.DuplicateLastEntry(ctx, worklog.DuplicateOverrides{})
		require.NoError(t, err)
		assert.Greater(t, clone.ID, latest.ID)

		want := latest
		want.ID = clone.ID
		if diff := cmp.Diff(want, clone); diff != "" {
			t.Fatalf("unexpected clone (-want +got):\n%s", diff)
		}
	})

	t.Run("single override changes only that field", func(t *testing.T) {
		store := openTestStore(t)
		seedAcme(t, store)
		latest := logEntry(t, store, "Acme", "P", "a", "2021-01-02", 6)

		clone, err := store.DuplicateLastEntry(ctx, worklog.DuplicateOverrides{
			EntryPatch: worklog.EntryPatch{Task: worklog.Ptr("b")},
		})
		require.NoError(t, err)

		want := latest
		want.ID = clone.ID
		want.Task = "b"
		if diff := cmp.Diff(want, clone); diff != "" {
			t.Fatalf("unexpected clone (-want +got):\n%s", diff)
		}
	})

	t.Run("client override", func(t *testing.T) {
		store := openTestStore(t)
		seedAcme(t, store)
		globex, err := store.AddClient(ctx, "Globex", 80, "USD")
		require.NoError(t, err)
		logEntry(t, store, "Acme", "P", "a", "2021-01-02", 6)

		clone, err := store.DuplicateLastEntry(ctx, worklog.DuplicateOverrides{
			ClientName: worklog.Ptr("Globex"),
			EntryPatch: worklog.EntryPatch{Day: worklog.Ptr(mustDay(t, "2021-01-03")), Hours: worklog.Ptr(0.0)},
		})
		require.NoError(t, err)
		assert.Equal(t, globex, clone.Client)
		assert.Equal(t, "2021-01-03", timeutil.FormatDay(clone.Day))
		assert.Equal(t, 0.0, clone.Hours)
		assert.Equal(t, "a", clone.Task)

		_, err = store.DuplicateLastEntry(ctx, worklog.DuplicateOverrides{ClientName: worklog.Ptr("Initech")})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty project override is rejected", func(t *testing.T) {
		store := openTestStore(t)
		seedAcme(t, store)
		latest := logEntry(t, store, "Acme", "P", "a", "2021-01-02", 6)

		_, err := store.DuplicateLastEntry(ctx, worklog.DuplicateOverrides{
			EntryPatch: worklog.EntryPatch{Project: worklog.Ptr("")},
		})
		require.ErrorIs(t, err, worklog.ErrValidation)

		entries, err := store.GetEntries(ctx, EntryFilter{})
		require.NoError(t, err)
		assert.Equal(t, []int64{latest.ID}, entryIDs(entries))
	})
}

func TestRemoveEntries_IgnoresUnknownIDs(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()
	seedAcme(t, store)

	first := logEntry(t, store, "Acme", "project", "task1", "2021-01-01", 8)
	second := logEntry(t, store, "Acme", "project", "task2", "2021-01-02", 8)
	third := logEntry(t, store, "Acme", "project2", "task3", "2021-01-03", 8)

	removed, err := store.RemoveEntries(ctx, []int64{first.ID, second.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	entries, err := store.GetEntries(ctx, EntryFilter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{third.ID}, entryIDs(entries))

	removed, err = store.RemoveEntries(ctx, []int64{first.ID})
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = store.RemoveEntries(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestAddEntries_IsAllOrNothing(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	seedAcme(t, store)
	ctx := context.Background()

	_, err := store.AddEntries(ctx, []worklog.NewEntry{
		{ClientName: "Acme", Project: "P", Day: mustDay(t, "2021-01-04"), Hours: 8},
		{ClientName: "Globex", Project: "P", Day: mustDay(t, "2021-01-05"), Hours: 8},
	})
	require.ErrorIs(t, err, ErrNotFound)

	entries, err := store.GetEntries(ctx, EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)

	added, err := store.AddEntries(ctx, []worklog.NewEntry{
		{ClientName: "Acme", Project: "P", Task: "a", Day: mustDay(t, "2021-01-04"), Hours: 8},
		{ClientName: "Acme", Project: "P", Task: "b", Day: mustDay(t, "2021-01-05"), Hours: 4},
	})
	require.NoError(t, err)
	require.Len(t, added, 2)

	entries, err = store.GetEntries(ctx, EntryFilter{})
	require.NoError(t, err)
	assert.Equal(t, entryIDs(added), entryIDs(entries))
	assert.Equal(t, "b", entries[1].Task)
}

func TestAddEntries_ValidatesBeforeWriting(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	seedAcme(t, store)

	_, err := store.AddEntries(context.Background(), []worklog.NewEntry{
		{ClientName: "Acme", Project: "P", Day: mustDay(t, "2021-01-04"), Hours: 25},
	})
	require.ErrorIs(t, err, worklog.ErrValidation)
	assert.ErrorContains(t, err, "entry 1")
}
