// Package search answers substring queries over an AddressBook.
//
// A query that parses as an integer literal is matched against the
// concatenated phone numbers of each record; any other query is matched
// against the record name, case-sensitively. Results follow the book's
// insertion order. Two engines implement the same rules: Memory scans the
// book directly and the SQLite engine queries an in-memory index built from
// a snapshot of the book.
package search

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/phonebook/internal/sqlite"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// Field selects which part of a record a query is matched against.
type Field string

// Searchable fields.
const (
	FieldName  Field = "name"
	FieldPhone Field = "phone"
)

// ErrUnknownField is returned for a field other than name or phone.
var ErrUnknownField = errors.New("unknown search field")

// Engine runs searches. Close releases any resources held by the engine.
type Engine interface {
	// Search picks the field from the query's shape and returns the matches.
	Search(query string) ([]types.Entry, error)

	// SearchField matches query against the given field.
	SearchField(field Field, query string) ([]types.Entry, error)

	Close() error
}

// ParseField converts a user-supplied field name.
func ParseField(s string) (Field, error) {
	switch Field(strings.ToLower(s)) {
	case FieldName:
		return FieldName, nil
	case FieldPhone:
		return FieldPhone, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownField)
	}
}

// FieldFor returns FieldPhone when query is an integer literal and FieldName
// otherwise. Literals too large for int64 still count as integers.
func FieldFor(query string) Field {
	_, err := strconv.ParseInt(query, 10, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return FieldPhone
	}
	return FieldName
}

// Open returns the engine for backend over book. An empty backend selects
// the memory engine.
func Open(backend string, book *types.AddressBook) (Engine, error) {
	switch backend {
	case "", types.SearchMemory:
		return NewMemory(book), nil
	case types.SearchSQLite:
		idx, err := sqlite.Open(book)
		if err != nil {
			return nil, fmt.Errorf("open sqlite index: %w", err)
		}
		return &sqliteEngine{idx: idx}, nil
	default:
		return nil, fmt.Errorf("%q: %w", backend, types.ErrSearchBackendUnknown)
	}
}

// Search returns every record matching query, choosing the field with
// FieldFor. An empty query matches nothing.
func Search(book *types.AddressBook, query string) []types.Entry {
	return ByField(book, FieldFor(query), query)
}

// ByField returns every record whose field contains query as a substring.
// Unknown fields and an empty query match nothing.
func ByField(book *types.AddressBook, field Field, query string) []types.Entry {
	if query == "" {
		return nil
	}
	var matches []types.Entry
	for name, r := range book.All() {
		var haystack string
		switch field {
		case FieldName:
			haystack = name
		case FieldPhone:
			haystack = r.PhoneDigits()
		default:
			return nil
		}
		if strings.Contains(haystack, query) {
			matches = append(matches, types.Entry{Name: name, Record: r})
		}
	}
	return matches
}

// ListAll formats every record in insertion order. It returns false when
// the book is empty.
func ListAll(book *types.AddressBook) ([]string, bool) {
	if book.Len() == 0 {
		return nil, false
	}
	lines := make([]string, 0, book.Len())
	for _, r := range book.All() {
		lines = append(lines, r.String())
	}
	return lines, true
}

// Format renders entries one per line.
func Format(entries []types.Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Record.String()
	}
	return strings.Join(lines, "\n")
}

// Memory searches the book directly. It always sees the book's current
// contents.
type Memory struct {
	book *types.AddressBook
}

var _ Engine = (*Memory)(nil)

// NewMemory returns a memory engine over book.
func NewMemory(book *types.AddressBook) *Memory {
	return &Memory{book: book}
}

func (m *Memory) Search(query string) ([]types.Entry, error) {
	return Search(m.book, query), nil
}

func (m *Memory) SearchField(field Field, query string) ([]types.Entry, error) {
	if field != FieldName && field != FieldPhone {
		return nil, fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	return ByField(m.book, field, query), nil
}

func (m *Memory) Close() error { return nil }

// sqliteEngine adapts sqlite.Index to Engine. The index is a snapshot taken
// when the engine was opened.
type sqliteEngine struct {
	idx *sqlite.Index
}

var _ Engine = (*sqliteEngine)(nil)

func (s *sqliteEngine) Search(query string) ([]types.Entry, error) {
	return s.SearchField(FieldFor(query), query)
}

func (s *sqliteEngine) SearchField(field Field, query string) ([]types.Entry, error) {
	switch field {
	case FieldName:
		return s.idx.ByName(query)
	case FieldPhone:
		return s.idx.ByPhone(query)
	default:
		return nil, fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
}

func (s *sqliteEngine) Close() error {
	return s.idx.Close()
}
