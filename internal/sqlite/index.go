package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// Index is a snapshot of an AddressBook loaded into an in-memory SQLite
// database. Changes to the book after Open are not visible.
type Index struct {
	db      *sql.DB
	entries []types.Entry
}

// Open builds an index over book. The caller must Close it.
func Open(book *types.AddressBook) (*Index, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating index schema: %w", err)
		}
	}

	idx := &Index{db: db, entries: book.Entries()}
	if err := idx.load(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// load inserts every entry in a single transaction.
func (idx *Index) load() error {
	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning index load: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertContact)
	if err != nil {
		return fmt.Errorf("preparing contact insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range idx.entries {
		r := e.Record
		emails := make([]string, len(r.Emails))
		for j, em := range r.Emails {
			emails[j] = string(em)
		}
		var birthday sql.NullString
		if r.Birthday != nil {
			birthday = sql.NullString{String: r.Birthday.String(), Valid: true}
		}
		if _, err := stmt.Exec(i, r.ID, e.Name, r.PhoneDigits(), strings.Join(emails, " "), birthday); err != nil {
			return fmt.Errorf("indexing %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index load: %w", err)
	}
	return nil
}

// ByName returns entries whose name contains query, case-sensitively.
func (idx *Index) ByName(query string) ([]types.Entry, error) {
	return idx.query(selectByName, query)
}

// ByPhone returns entries whose concatenated phone digits contain query.
func (idx *Index) ByPhone(query string) ([]types.Entry, error) {
	return idx.query(selectByPhone, query)
}

// Len returns the number of indexed contacts.
func (idx *Index) Len() (int, error) {
	var n int
	if err := idx.db.QueryRow("SELECT COUNT(*) FROM contacts").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting contacts: %w", err)
	}
	return n, nil
}

func (idx *Index) query(q, arg string) ([]types.Entry, error) {
	// instr matches the empty string everywhere; an empty query finds nothing.
	if arg == "" {
		return nil, nil
	}
	rows, err := idx.db.Query(q, arg)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var matches []types.Entry
	for rows.Next() {
		var ordinal int
		if err := rows.Scan(&ordinal); err != nil {
			return nil, fmt.Errorf("scanning index row: %w", err)
		}
		matches = append(matches, idx.entries[ordinal])
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating index rows: %w", err)
	}
	return matches, nil
}

// Close releases the database.
func (idx *Index) Close() error {
	return idx.db.Close()
}
