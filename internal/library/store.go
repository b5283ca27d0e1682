package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"fidelity/internal/config"
)

// ErrNotFound indicates the requested catalog record does not exist.
var ErrNotFound = errors.New("media file not found")

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the library database and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.LibraryDB
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Insert adds a new catalog record and returns it with its assigned ID.
func (s *Store) Insert(ctx context.Context, path string, format Format, checksum string) (*MediaFile, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}
	if !KnownFormat(format) {
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO media_files (path, format, checksum, added_at, modified_at)
         VALUES (?, ?, ?, ?, ?)`,
		path,
		string(format),
		nullableString(checksum),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert media file: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Update persists field mutations of an existing record. The verification
// core calls this after every checksum change.
func (s *Store) Update(ctx context.Context, file *MediaFile) error {
	if file == nil || file.ID == 0 {
		return errors.New("media file with assigned ID is required")
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE media_files SET path = ?, format = ?, checksum = ?, modified_at = ? WHERE id = ?`,
		file.Path,
		string(file.Format),
		nullableString(file.Checksum),
		timestamp,
		file.ID,
	)
	if err != nil {
		return fmt.Errorf("update media file: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update media file %d: %w", file.ID, ErrNotFound)
	}
	return nil
}

// GetByID fetches one record by primary key.
func (s *Store) GetByID(ctx context.Context, id int64) (*MediaFile, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	return scanMediaFile(row)
}

// GetByPath fetches one record by its unique path.
func (s *Store) GetByPath(ctx context.Context, path string) (*MediaFile, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE path = ?", path)
	return scanMediaFile(row)
}

// Items returns the records matching the query terms, ordered by path. Each
// term is a case-insensitive path substring; all terms must match. An empty
// query selects the whole catalog.
func (s *Store) Items(ctx context.Context, query []string) ([]*MediaFile, error) {
	stmt := selectColumns
	args := make([]any, 0, len(query))
	clauses := make([]string, 0, len(query))
	for _, term := range query {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		clauses = append(clauses, "path LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(term)+"%")
	}
	if len(clauses) > 0 {
		stmt += " WHERE " + strings.Join(clauses, " AND ")
	}
	stmt += " ORDER BY path"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query media files: %w", err)
	}
	defer rows.Close()

	var files []*MediaFile
	for rows.Next() {
		file, err := scanMediaFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media files: %w", err)
	}
	return files, nil
}

// Count reports the number of records in the catalog.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM media_files").Scan(&count); err != nil {
		return 0, fmt.Errorf("count media files: %w", err)
	}
	return count, nil
}

const selectColumns = "SELECT id, path, format, checksum, added_at, modified_at FROM media_files"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMediaFile(row rowScanner) (*MediaFile, error) {
	var (
		file       MediaFile
		format     string
		checksum   sql.NullString
		addedAt    string
		modifiedAt string
	)
	err := row.Scan(&file.ID, &file.Path, &format, &checksum, &addedAt, &modifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan media file: %w", err)
	}
	file.Format = Format(format)
	if checksum.Valid {
		file.Checksum = checksum.String
	}
	if parsed, err := time.Parse(time.RFC3339Nano, addedAt); err == nil {
		file.AddedAt = parsed
	}
	if parsed, err := time.Parse(time.RFC3339Nano, modifiedAt); err == nil {
		file.ModifiedAt = parsed
	}
	return &file, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}
