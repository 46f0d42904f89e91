package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hours/internal/logging"
	"hours/internal/timeutil"
	"hours/storage/migrations"
	"hours/worklog"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MemoryPath opens an ephemeral store that lives as long as the store handle.
const MemoryPath = ":memory:"

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateName    = errors.New("client name already exists")
	ErrEmptyLog         = errors.New("no entries logged yet")
	ErrClientHasEntries = errors.New("client still has entries")
)

// goose keeps its base FS and dialect in package state.
var migrateMu sync.Mutex

type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// EntryFilter narrows GetEntries. From is inclusive, To is exclusive;
// zero values disable the corresponding condition.
type EntryFilter struct {
	ClientName string
	From       *time.Time
	To         *time.Time
}

func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection: an in-memory database exists per connection, and the
	// CLI never issues overlapping statements.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := newSQLiteStore(db, logger)
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	store.logger.Debug("sqlite store opened", "path", path)
	return store, nil
}

func newSQLiteStore(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SQLiteStore{db: db, logger: logger.With("component", "storage")}
}

func sqliteDSN(path string) (string, error) {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("database path is empty")
	}
	if path == MemoryPath {
		return MemoryPath + "?" + pragmas, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create database directory: %w", err)
	}
	return path + "?" + pragmas, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AddClient(ctx context.Context, name string, rate float64, currency string) (worklog.Client, error) {
	client := worklog.Client{Name: name, Rate: rate, Currency: currency}
	if err := worklog.Validate(client); err != nil {
		return worklog.Client{}, err
	}

	err := withTx(ctx, s.db, func(tx dbtx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM client WHERE name = ?;`, name).Scan(&exists); err != nil {
			return fmt.Errorf("check client %q: %w", name, err)
		}
		if exists > 0 {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}

		res, err := tx.ExecContext(ctx, `INSERT INTO client (name, rate, currency) VALUES (?, ?, ?);`, name, rate, currency)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %q", ErrDuplicateName, name)
			}
			return fmt.Errorf("insert client %q: %w", name, err)
		}
		client.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("read inserted client id: %w", err)
		}
		return nil
	})
	if err != nil {
		return worklog.Client{}, err
	}

	s.logger.Debug("client added", "id", client.ID, "name", client.Name)
	return client, nil
}

// UpdateClient changes only the fields supplied in patch.
func (s *SQLiteStore) UpdateClient(ctx context.Context, name string, patch worklog.ClientPatch) (worklog.Client, error) {
	if err := worklog.Validate(patch); err != nil {
		return worklog.Client{}, err
	}

	var client worklog.Client
	err := withTx(ctx, s.db, func(tx dbtx) error {
		var err error
		client, err = getClientByName(ctx, tx, name)
		if err != nil {
			return err
		}
		if patch.Rate != nil {
			client.Rate = *patch.Rate
		}
		if patch.Currency != nil {
			client.Currency = *patch.Currency
		}

		if _, err := tx.ExecContext(ctx, `UPDATE client SET rate = ?, currency = ? WHERE id = ?;`, client.Rate, client.Currency, client.ID); err != nil {
			return fmt.Errorf("update client %q: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return worklog.Client{}, err
	}

	s.logger.Debug("client updated", "id", client.ID, "name", client.Name)
	return client, nil
}

// RemoveClient deletes a client. Clients that still own entries are only
// removed together with their entries when cascade is set.
func (s *SQLiteStore) RemoveClient(ctx context.Context, name string, cascade bool) error {
	var removedEntries int64
	err := withTx(ctx, s.db, func(tx dbtx) error {
		client, err := getClientByName(ctx, tx, name)
		if err != nil {
			return err
		}

		var owned int64
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM entry WHERE client_id = ?;`, client.ID).Scan(&owned); err != nil {
			return fmt.Errorf("count entries of client %q: %w", name, err)
		}
		if owned > 0 {
			if !cascade {
				return fmt.Errorf("%w: %q owns %d entries", ErrClientHasEntries, name, owned)
			}
			res, err := tx.ExecContext(ctx, `DELETE FROM entry WHERE client_id = ?;`, client.ID)
			if err != nil {
				return fmt.Errorf("delete entries of client %q: %w", name, err)
			}
			removedEntries, _ = res.RowsAffected()
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM client WHERE id = ?;`, client.ID); err != nil {
			return fmt.Errorf("delete client %q: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("client removed", "name", name, "entries_removed", removedEntries)
	return nil
}

func (s *SQLiteStore) GetClientByName(ctx context.Context, name string) (worklog.Client, error) {
	return getClientByName(ctx, s.db, name)
}

func (s *SQLiteStore) ListClients(ctx context.Context) ([]worklog.Client, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, rate, currency FROM client ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	clients := make([]worklog.Client, 0, 16)
	for rows.Next() {
		var client worklog.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Rate, &client.Currency); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}

	return clients, nil
}

func (s *SQLiteStore) AddEntry(ctx context.Context, draft worklog.NewEntry) (worklog.Entry, error) {
	if err := worklog.Validate(draft); err != nil {
		return worklog.Entry{}, err
	}

	var entry worklog.Entry
	err := withTx(ctx, s.db, func(tx dbtx) error {
		client, err := getClientByName(ctx, tx, draft.ClientName)
		if err != nil {
			return err
		}
		entry = worklog.Entry{
			Day:     timeutil.StartOfDay(draft.Day),
			Hours:   draft.Hours,
			Project: draft.Project,
			Task:    draft.Task,
			Client:  client,
		}
		entry.ID, err = insertEntry(ctx, tx, entry)
		return err
	})
	if err != nil {
		return worklog.Entry{}, err
	}

	s.logger.Debug("entry added", "id", entry.ID, "client", entry.Client.Name, "day", timeutil.FormatDay(entry.Day))
	return entry, nil
}

// AddEntries inserts all drafts in one transaction; either every entry is
// stored or none is.
func (s *SQLiteStore) AddEntries(ctx context.Context, drafts []worklog.NewEntry) ([]worklog.Entry, error) {
	for i, draft := range drafts {
		if err := worklog.Validate(draft); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	if len(drafts) == 0 {
		return nil, nil
	}

	entries := make([]worklog.Entry, 0, len(drafts))
	err := withTx(ctx, s.db, func(tx dbtx) error {
		clients := make(map[string]worklog.Client)
		for _, draft := range drafts {
			client, ok := clients[draft.ClientName]
			if !ok {
				var err error
				client, err = getClientByName(ctx, tx, draft.ClientName)
				if err != nil {
					return err
				}
				clients[draft.ClientName] = client
			}

			entry := worklog.Entry{
				Day:     timeutil.StartOfDay(draft.Day),
				Hours:   draft.Hours,
				Project: draft.Project,
				Task:    draft.Task,
				Client:  client,
			}
			id, err := insertEntry(ctx, tx, entry)
			if err != nil {
				return err
			}
			entry.ID = id
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("entries added", "count", len(entries))
	return entries, nil
}

// DuplicateLastEntry clones the most recently created entry (highest id),
// replacing the fields supplied in overrides.
func (s *SQLiteStore) DuplicateLastEntry(ctx context.Context, overrides worklog.DuplicateOverrides) (worklog.Entry, error) {
	if err := worklog.Validate(overrides.EntryPatch); err != nil {
		return worklog.Entry{}, err
	}

	var entry worklog.Entry
	err := withTx(ctx, s.db, func(tx dbtx) error {
		last, err := queryEntries(ctx, tx, entrySelect+` ORDER BY e.id DESC LIMIT 1;`)
		if err != nil {
			return err
		}
		if len(last) == 0 {
			return ErrEmptyLog
		}

		entry = overrides.EntryPatch.Apply(last[0])
		entry.Day = timeutil.StartOfDay(entry.Day)
		if overrides.ClientName != nil {
			entry.Client, err = getClientByName(ctx, tx, *overrides.ClientName)
			if err != nil {
				return err
			}
		}

		entry.ID, err = insertEntry(ctx, tx, entry)
		return err
	})
	if err != nil {
		return worklog.Entry{}, err
	}

	s.logger.Debug("entry duplicated", "id", entry.ID, "client", entry.Client.Name, "day", timeutil.FormatDay(entry.Day))
	return entry, nil
}

// GetEntries returns matching entries ordered by day, then by id.
func (s *SQLiteStore) GetEntries(ctx context.Context, filter EntryFilter) ([]worklog.Entry, error) {
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if filter.ClientName != "" {
		client, err := getClientByName(ctx, s.db, filter.ClientName)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, "e.client_id = ?")
		args = append(args, client.ID)
	}
	if filter.From != nil {
		conditions = append(conditions, "e.day >= ?")
		args = append(args, timeutil.FormatDay(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "e.day < ?")
		args = append(args, timeutil.FormatDay(*filter.To))
	}

	query := entrySelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.day, e.id;"

	return queryEntries(ctx, s.db, query, args...)
}

func (s *SQLiteStore) GetEntry(ctx context.Context, id int64) (worklog.Entry, error) {
	return getEntry(ctx, s.db, id)
}

// UpdateEntry changes only the fields supplied in patch.
func (s *SQLiteStore) UpdateEntry(ctx context.Context, id int64, patch worklog.EntryPatch) (worklog.Entry, error) {
	if err := worklog.Validate(patch); err != nil {
		return worklog.Entry{}, err
	}

	var entry worklog.Entry
	err := withTx(ctx, s.db, func(tx dbtx) error {
		current, err := getEntry(ctx, tx, id)
		if err != nil {
			return err
		}
		entry = patch.Apply(current)
		entry.Day = timeutil.StartOfDay(entry.Day)

		const updateStmt = `
UPDATE entry
SET day = ?,
	hours = ?,
	project = ?,
	task = ?
WHERE id = ?;`
		if _, err := tx.ExecContext(ctx, updateStmt,
			timeutil.FormatDay(entry.Day),
			entry.Hours,
			entry.Project,
			nullableText(entry.Task),
			entry.ID,
		); err != nil {
			return fmt.Errorf("update entry %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return worklog.Entry{}, err
	}

	s.logger.Debug("entry updated", "id", entry.ID)
	return entry, nil
}

// RemoveEntries deletes the entries with the given ids in one transaction.
// Unknown ids are ignored; the number of deleted rows is returned.
func (s *SQLiteStore) RemoveEntries(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	var removed int64
	err := withTx(ctx, s.db, func(tx dbtx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM entry WHERE id IN (`+strings.Join(placeholders, ", ")+`);`, args...)
		if err != nil {
			return fmt.Errorf("delete entries: %w", err)
		}
		removed, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("read deleted row count: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("entries removed", "requested", len(ids), "removed", removed)
	return removed, nil
}

const entrySelect = `
SELECT
	e.id,
	e.day,
	e.hours,
	e.project,
	e.task,
	c.id,
	c.name,
	c.rate,
	c.currency
FROM entry e
JOIN client c ON c.id = e.client_id`

func getClientByName(ctx context.Context, q dbtx, name string) (worklog.Client, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, rate, currency FROM client WHERE name = ? LIMIT 2;`, name)
	if err != nil {
		return worklog.Client{}, fmt.Errorf("query client %q: %w", name, err)
	}
	defer rows.Close()

	matches := make([]worklog.Client, 0, 1)
	for rows.Next() {
		var client worklog.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Rate, &client.Currency); err != nil {
			return worklog.Client{}, fmt.Errorf("scan client: %w", err)
		}
		matches = append(matches, client)
	}
	if err := rows.Err(); err != nil {
		return worklog.Client{}, fmt.Errorf("iterate clients: %w", err)
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return worklog.Client{}, fmt.Errorf("client %q: %w", name, ErrNotFound)
	default:
		return worklog.Client{}, fmt.Errorf("client %q is not unique: %w", name, ErrNotFound)
	}
}

func getEntry(ctx context.Context, q dbtx, id int64) (worklog.Entry, error) {
	entries, err := queryEntries(ctx, q, entrySelect+` WHERE e.id = ?;`, id)
	if err != nil {
		return worklog.Entry{}, err
	}
	if len(entries) == 0 {
		return worklog.Entry{}, fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	return entries[0], nil
}

func insertEntry(ctx context.Context, q dbtx, entry worklog.Entry) (int64, error) {
	const insertStmt = `
INSERT INTO entry (
	day,
	hours,
	project,
	task,
	client_id
) VALUES (?, ?, ?, ?, ?);`

	res, err := q.ExecContext(ctx, insertStmt,
		timeutil.FormatDay(entry.Day),
		entry.Hours,
		entry.Project,
		nullableText(entry.Task),
		entry.Client.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted entry id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid inserted entry id %d", id)
	}
	return id, nil
}

func queryEntries(ctx context.Context, q dbtx, query string, args ...any) ([]worklog.Entry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]worklog.Entry, 0, 64)
	for rows.Next() {
		var (
			entry  worklog.Entry
			dayRaw string
			task   sql.NullString
		)
		if err := rows.Scan(
			&entry.ID,
			&dayRaw,
			&entry.Hours,
			&entry.Project,
			&task,
			&entry.Client.ID,
			&entry.Client.Name,
			&entry.Client.Rate,
			&entry.Client.Currency,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		entry.Day, err = timeutil.ParseDay(dayRaw)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", entry.ID, err)
		}
		entry.Task = task.String

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

func nullableText(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
