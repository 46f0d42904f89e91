package cmd

import (
	"context"
	"testing"
	"time"

	"hours/internal/timeutil"
	"hours/storage"
	"hours/worklog"
)

// testNow is a fixed clock: mid-March 2021.
var testNow = time.Date(2021, time.March, 15, 10, 30, 0, 0, time.Local)

func openCmdStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.OpenSQLite(storage.MemoryPath, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedClient(t *testing.T, store *storage.SQLiteStore, name string, rate float64, currency string) {
	t.Helper()
	if _, err := store.AddClient(context.Background(), name, rate, currency); err != nil {
		t.Fatalf("add client %s: %v", name, err)
	}
}

func seedEntry(t *testing.T, store *storage.SQLiteStore, client, project, day string, hours float64) worklog.Entry {
	t.Helper()
	parsed, err := timeutil.ParseDay(day)
	if err != nil {
		t.Fatalf("parse day %s: %v", day, err)
	}
	entry, err := store.AddEntry(context.Background(), worklog.NewEntry{
		ClientName: client,
		Project:    project,
		Task:       "work",
		Day:        parsed,
		Hours:      hours,
	})
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	return entry
}

func allEntries(t *testing.T, store *storage.SQLiteStore) []worklog.Entry {
	t.Helper()
	entries, err := store.GetEntries(context.Background(), storage.EntryFilter{})
	if err != nil {
		t.Fatalf("get entries: %v", err)
	}
	return entries
}
