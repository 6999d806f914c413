package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// Header values written on the first line of every file.
const (
	formatName    = "phonebook"
	formatVersion = 1
)

// headerJSON is the first line of the file.
type headerJSON struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
	Count   int    `json:"count"`
}

// recordJSON represents one contact line.
type recordJSON struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Phones   []string `json:"phones"`
	Emails   []string `json:"emails"`
	Birthday string   `json:"birthday,omitempty"`
}

// Save writes every record in book to path, replacing the file atomically.
func Save(book *types.AddressBook, path string) error {
	lines := make([]json.RawMessage, 0, book.Len()+1)

	header, err := json.Marshal(headerJSON{Format: formatName, Version: formatVersion, Count: book.Len()})
	if err != nil {
		return fmt.Errorf("marshaling header: %w", err)
	}
	lines = append(lines, header)

	for name, r := range book.All() {
		rec := dehydrate(name, r)
		if err := checkUTF8(rec); err != nil {
			return fmt.Errorf("saving %q: %w", name, err)
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling %q: %w", name, err)
		}
		lines = append(lines, line)
	}

	if err := writeJSONL(path, lines); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Load reads the file at path into a new AddressBook. A missing or empty
// file yields an empty book. Content that cannot be read back in full
// returns an error wrapping types.ErrCorruptStore.
func Load(path string) (*types.AddressBook, error) {
	lines, err := readJSONL(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.NewAddressBook(), nil
		}
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, corrupt(path, 0, err)
		}
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if len(lines) == 0 {
		return types.NewAddressBook(), nil
	}

	var header headerJSON
	if err := decodeStrict(lines[0], &header); err != nil {
		return nil, corrupt(path, 1, err)
	}
	if header.Format != formatName || header.Version != formatVersion {
		return nil, corrupt(path, 1, fmt.Errorf("unsupported format %q version %d", header.Format, header.Version))
	}
	if header.Count != len(lines)-1 {
		return nil, corrupt(path, 1, fmt.Errorf("header counts %d records, file has %d", header.Count, len(lines)-1))
	}

	book := types.NewAddressBook()
	for i, line := range lines[1:] {
		lineNo := i + 2
		var rec recordJSON
		if err := decodeStrict(line, &rec); err != nil {
			return nil, corrupt(path, lineNo, err)
		}
		r, err := hydrate(rec)
		if err != nil {
			return nil, corrupt(path, lineNo, err)
		}
		if _, dup := book.FindRecord(r.Name); dup {
			return nil, corrupt(path, lineNo, fmt.Errorf("duplicate contact %q", r.Name))
		}
		if err := book.AddRecord(r); err != nil {
			return nil, corrupt(path, lineNo, err)
		}
	}
	return book, nil
}

// dehydrate converts a record to its line representation.
func dehydrate(name string, r *types.Record) recordJSON {
	rec := recordJSON{
		ID:     r.ID,
		Name:   name,
		Phones: make([]string, len(r.Phones)),
		Emails: make([]string, len(r.Emails)),
	}
	for i, p := range r.Phones {
		rec.Phones[i] = string(p)
	}
	for i, e := range r.Emails {
		rec.Emails[i] = string(e)
	}
	if r.Birthday != nil {
		rec.Birthday = r.Birthday.String()
	}
	return rec
}

// checkUTF8 rejects values that encoding/json would rewrite, so a saved
// file always loads back to the same strings.
func checkUTF8(rec recordJSON) error {
	values := append([]string{rec.ID, rec.Name, rec.Birthday}, rec.Phones...)
	values = append(values, rec.Emails...)
	for _, v := range values {
		if !utf8.ValidString(v) {
			return fmt.Errorf("value %q is not valid UTF-8", v)
		}
	}
	return nil
}

// hydrate rebuilds a record, re-running every field validator.
func hydrate(rec recordJSON) (*types.Record, error) {
	if _, err := uuid.Parse(rec.ID); err != nil {
		return nil, fmt.Errorf("record id %q: %w", rec.ID, err)
	}
	r, err := types.NewRecord(rec.Name, rec.Phones, rec.Emails, rec.Birthday)
	if err != nil {
		return nil, err
	}
	// NewRecord drops empty and repeated values; saved data has neither.
	if len(r.Phones) != len(rec.Phones) || len(r.Emails) != len(rec.Emails) {
		return nil, errors.New("empty or duplicate phone or email")
	}
	r.ID = rec.ID
	return r, nil
}

// decodeStrict unmarshals a single JSON value and rejects unknown fields
// and trailing data.
func decodeStrict(line []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON value")
	}
	return nil
}

func corrupt(path string, line int, err error) error {
	if line == 0 {
		return fmt.Errorf("%s: %w: %v", path, types.ErrCorruptStore, err)
	}
	return fmt.Errorf("%s line %d: %w: %v", path, line, types.ErrCorruptStore, err)
}

// Stat reports whether path holds saved data, without loading it.
func Stat(path string) (exists bool, size int64, err error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}
