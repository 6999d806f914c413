// Package sqlite implements an in-memory SQLite search index over an
// AddressBook.
package sqlite

// Schema DDL for the search index. ordinal is the record's position in the
// book and drives result order. phones holds the concatenated phone digits.
const (
	createContacts = `CREATE TABLE contacts (
    ordinal INTEGER PRIMARY KEY,
    record_id TEXT NOT NULL,
    name TEXT NOT NULL UNIQUE,
    phones TEXT NOT NULL,
    emails TEXT NOT NULL,
    birthday TEXT
);`

	insertContact = `INSERT INTO contacts (ordinal, record_id, name, phones, emails, birthday)
VALUES (?, ?, ?, ?, ?, ?)`

	selectByName  = `SELECT ordinal FROM contacts WHERE instr(name, ?) > 0 ORDER BY ordinal`
	selectByPhone = `SELECT ordinal FROM contacts WHERE instr(phones, ?) > 0 ORDER BY ordinal`
)

// schemaDDL lists all CREATE statements.
var schemaDDL = []string{
	createContacts,
}
