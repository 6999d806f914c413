// Package types defines the contact record model, the field validators, the
// AddressBook container, and the standard error values for phonebook.
package types
