package types

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AddressBook maps contact names to Records. Keys are unique and kept in
// insertion order so listings and searches are deterministic. Names are
// normalized to title case on every insert and lookup.
type AddressBook struct {
	order   []string
	records map[string]*Record
}

// Entry pairs a normalized name with its Record.
type Entry struct {
	Name   string
	Record *Record
}

// NewAddressBook returns an empty AddressBook.
func NewAddressBook() *AddressBook {
	return &AddressBook{records: make(map[string]*Record)}
}

// NormalizeName trims surrounding space and title-cases name, for example
// "maria" and "MARIA" both become "Maria".
func NormalizeName(name string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(name))
}

// AddRecord inserts r under its normalized name, rewriting r.Name to the
// normalized form. An existing record with the same name is replaced and
// keeps its position. Returns ErrInvalidName for a blank or non-UTF-8 name.
func (b *AddressBook) AddRecord(r *Record) error {
	if r == nil || !utf8.ValidString(r.Name) {
		return ErrInvalidName
	}
	key := NormalizeName(r.Name)
	if key == "" {
		return ErrInvalidName
	}
	r.Name = key
	if b.records == nil {
		b.records = make(map[string]*Record)
	}
	if _, ok := b.records[key]; !ok {
		b.order = append(b.order, key)
	}
	b.records[key] = r
	return nil
}

// FindRecord returns the record stored under the normalized name.
func (b *AddressBook) FindRecord(name string) (*Record, bool) {
	r, ok := b.records[NormalizeName(name)]
	return r, ok
}

// RemoveRecord deletes the record stored under the normalized name.
// Returns ErrNotFound if there is none.
func (b *AddressBook) RemoveRecord(name string) error {
	key := NormalizeName(name)
	if _, ok := b.records[key]; !ok {
		return fmt.Errorf("%q: %w", key, ErrNotFound)
	}
	delete(b.records, key)
	b.order = slices.DeleteFunc(b.order, func(n string) bool { return n == key })
	return nil
}

// All yields every (name, record) pair in insertion order. Each call starts
// a fresh traversal.
func (b *AddressBook) All() iter.Seq2[string, *Record] {
	return func(yield func(string, *Record) bool) {
		for _, name := range b.order {
			if !yield(name, b.records[name]) {
				return
			}
		}
	}
}

// Entries returns All as a slice.
func (b *AddressBook) Entries() []Entry {
	entries := make([]Entry, 0, len(b.order))
	for name, r := range b.All() {
		entries = append(entries, Entry{Name: name, Record: r})
	}
	return entries
}

// Names returns the keys in insertion order.
func (b *AddressBook) Names() []string {
	return slices.Clone(b.order)
}

// Len returns the number of records.
func (b *AddressBook) Len() int {
	return len(b.order)
}
