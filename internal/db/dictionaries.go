package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
)

// DefaultDictionaryTable is the table read by DictionaryStore when none is configured.
const DefaultDictionaryTable = "canonical_dictionaries"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ErrDictionaryNotFound is returned when no document is stored under a name.
var ErrDictionaryNotFound = errors.New("dictionary document not found")

// DictionaryStore reads dictionary documents owned by the persistence layer.
// The table is expected to hold (name text, document text); the document is the
// same YAML/JSON accepted from files.
type DictionaryStore struct {
	db    *DB
	table string
	name  string
}

// NewDictionaryStore returns a dictionary.Source reading the document stored under name.
func NewDictionaryStore(db *DB, table, name string) (*DictionaryStore, error) {
	if table == "" {
		table = DefaultDictionaryTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid dictionary table name %q", table)
	}
	if name == "" {
		return nil, fmt.Errorf("dictionary name is required")
	}
	return &DictionaryStore{db: db, table: table, name: name}, nil
}

// Name implements dictionary.Source.
func (s *DictionaryStore) Name() string {
	return fmt.Sprintf("postgres:%s/%s", s.table, s.name)
}

// Load implements dictionary.Source.
func (s *DictionaryStore) Load(ctx context.Context) ([]byte, error) {
	if s.db == nil || s.db.pool == nil {
		return nil, fmt.Errorf("database is not connected")
	}

	var document string
	err := s.db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT document FROM %s WHERE name = $1`, s.table),
		s.name,
	).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDictionaryNotFound, s.name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary %s: %w", s.name, err)
	}

	return []byte(document), nil
}
