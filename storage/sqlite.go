package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// schema holds the fixed tables shared by every document. Per-document
// tables named extracted_table_N are created on demand during Save.
const schema = `
CREATE TABLE IF NOT EXISTS extracted_text (content TEXT);
CREATE TABLE IF NOT EXISTS extracted_links (link TEXT, page_number INTEGER);
CREATE TABLE IF NOT EXISTS extracted_images (image BLOB, image_format TEXT, resolution TEXT, page_number INTEGER);
`

// OpenDB opens the SQLite database at path and applies the pragmas the
// sink relies on. The caller must blank-import an SQLite driver:
//
//	import _ "modernc.org/sqlite"
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	return db, nil
}

// SQLStorage writes extraction results to an SQLite database. Text, links and
// images go into fixed tables; each extracted table becomes its own
// extracted_table_N table keyed on the table's header row.
type SQLStorage struct {
	extractor extractor
	db        *sql.DB
	log       zerolog.Logger
	tableSeq  int
}

// NewSQLStorage creates a SQL sink over db and ensures the fixed tables
// exist. The sink does not own the database handle.
func NewSQLStorage(ex extractor, db *sql.DB) (*SQLStorage, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return &SQLStorage{extractor: ex, db: db, log: zerolog.Nop(), tableSeq: 1}, nil
}

// WithLogger sets the logger used for per-item warnings and returns the
// sink for chaining.
func (s *SQLStorage) WithLogger(log zerolog.Logger) *SQLStorage {
	s.log = log
	return s
}

// Save extracts all content and writes it to the database in one
// transaction.
func (s *SQLStorage) Save() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.saveText(tx); err != nil {
		return err
	}
	if err := s.saveLinks(tx); err != nil {
		return err
	}
	if err := s.saveImages(tx); err != nil {
		return err
	}
	if err := s.saveTables(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	s.log.Info().Msg("saved extraction to database")
	return nil
}

func (s *SQLStorage) saveText(tx *sql.Tx) error {
	text, err := s.extractor.Text()
	if err != nil {
		return err
	}
	if text.Content == "" {
		return nil
	}
	if _, err := tx.Exec("INSERT INTO extracted_text (content) VALUES (?)", text.Content); err != nil {
		return fmt.Errorf("inserting text: %w", err)
	}
	return nil
}

func (s *SQLStorage) saveLinks(tx *sql.Tx) error {
	links, err := s.extractor.Links()
	if err != nil {
		return err
	}
	for _, link := range links {
		if _, err := tx.Exec("INSERT INTO extracted_links (link, page_number) VALUES (?, ?)",
			link.URL, nullableLocation(link.Location)); err != nil {
			return fmt.Errorf("inserting link: %w", err)
		}
	}
	return nil
}

func (s *SQLStorage) saveImages(tx *sql.Tx) error {
	images, err := s.extractor.Images()
	if err != nil {
		return err
	}
	for _, img := range images {
		if _, err := tx.Exec(
			"INSERT INTO extracted_images (image, image_format, resolution, page_number) VALUES (?, ?, ?, ?)",
			img.Data, img.Format, img.Resolution, nullableLocation(img.Location)); err != nil {
			return fmt.Errorf("inserting image: %w", err)
		}
	}
	return nil
}

func (s *SQLStorage) saveTables(tx *sql.Tx) error {
	tables, err := s.extractor.Tables()
	if err != nil {
		return err
	}

	for _, table := range tables {
		if table.IsEmpty() {
			continue
		}

		name := fmt.Sprintf("extracted_table_%d", s.tableSeq)
		s.tableSeq++

		cols := sanitizeColumns(table.Header())
		if err := s.ensureTable(tx, name, cols); err != nil {
			s.log.Warn().Err(err).Str("table", name).Msg("skipping table")
			continue
		}

		quoted := make([]string, len(cols))
		for i, col := range cols {
			quoted[i] = quoteIdent(col)
		}
		insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			name, strings.Join(quoted, ", "), placeholders(len(cols)))

		for _, row := range table.Rows[1:] {
			if len(row) != len(cols) {
				s.log.Warn().
					Str("table", name).
					Int("cells", len(row)).
					Int("columns", len(cols)).
					Msg("skipping row with mismatched cell count")
				continue
			}
			args := make([]any, len(row))
			for i, cell := range row {
				args[i] = cell
			}
			if _, err := tx.Exec(insert, args...); err != nil {
				s.log.Warn().Err(err).Str("table", name).Msg("skipping row")
			}
		}
	}
	return nil
}

// ensureTable creates the per-document table, or adds any header columns
// missing from an existing one.
func (s *SQLStorage) ensureTable(tx *sql.Tx, name string, cols []string) error {
	var found string
	err := tx.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&found)
	switch {
	case err == sql.ErrNoRows:
		defs := make([]string, len(cols))
		for i, col := range cols {
			defs[i] = quoteIdent(col) + " TEXT"
		}
		create := fmt.Sprintf("CREATE TABLE %s (id INTEGER PRIMARY KEY AUTOINCREMENT, %s)",
			name, strings.Join(defs, ", "))
		if _, err := tx.Exec(create); err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("checking %s: %w", name, err)
	}

	existing, err := tableColumns(tx, name)
	if err != nil {
		return err
	}
	for _, col := range cols {
		if existing[col] {
			continue
		}
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", name, quoteIdent(col))
		if _, err := tx.Exec(alter); err != nil {
			return fmt.Errorf("adding column %s to %s: %w", col, name, err)
		}
	}
	return nil
}

func tableColumns(tx *sql.Tx, name string) (map[string]bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", name))
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", name, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid      int
			col, typ string
			notNull  int
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &col, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("reading columns of %s: %w", name, err)
		}
		cols[col] = true
	}
	return cols, rows.Err()
}

// sanitizeColumns turns header cells into SQL-friendly column names:
// trimmed, with spaces, hyphens and periods replaced by underscores.
func sanitizeColumns(header []string) []string {
	out := make([]string, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		col = strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(col)
		out[i] = col
	}
	return out
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// nullableLocation maps the zero location to SQL NULL.
func nullableLocation(location int) any {
	if location == 0 {
		return nil
	}
	return location
}
