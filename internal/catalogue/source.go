package catalogue

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
)

// Source loads a complete catalogue.
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// FileSource reads a JSON or YAML catalogue file.
type FileSource struct {
	Path string
}

// Load reads and decodes the file
func (f FileSource) Load(ctx context.Context) (*Snapshot, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue %s: %w", f.Path, err)
	}

	entries, err := Decode(data, FormatForPath(f.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalogue %s: %w", f.Path, err)
	}

	return NewSnapshot(f.Path, entries), nil
}

// DefaultQuery selects catalogue rows when SQLSource.Query is empty.
const DefaultQuery = "SELECT name, pattern, syllables_per_pada FROM chandas ORDER BY id"

// SQLSource reads the catalogue from a database table. The query must
// return three columns: name, pattern and the (nullable) syllables-per-line hint.
type SQLSource struct {
	DB    *sql.DB
	Query string
	// Name describes the source in snapshots and logs
	Name string
}

// Load runs the query and parses each row's pattern
func (s SQLSource) Load(ctx context.Context) (*Snapshot, error) {
	query := s.Query
	if query == "" {
		query = DefaultQuery
	}

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalogue: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			name    sql.NullString
			pattern sql.NullString
			hint    sql.NullInt64
		)
		if err := rows.Scan(&name, &pattern, &hint); err != nil {
			return nil, fmt.Errorf("failed to scan catalogue row: %w", err)
		}
		// rows without a name are skipped
		if !name.Valid || strings.TrimSpace(name.String) == "" {
			continue
		}
		entry := NewEntry(strings.TrimSpace(name.String), pattern.String, 0)
		if hint.Valid && hint.Int64 > 0 {
			entry.SyllablesPerLine = int(hint.Int64)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalogue rows: %w", err)
	}

	if len(entries) == 0 {
		return nil, ErrEmptyCatalogue
	}

	name := s.Name
	if name == "" {
		name = "sql"
	}
	return NewSnapshot(name, entries), nil
}
