package domain

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	FieldEmail      = "email"
	FieldName       = "name"
	FieldPhone      = "phone"
	FieldMobile     = "mobile"
	FieldTitle      = "title"
	FieldDepartment = "department"
	FieldCompany    = "company"
	FieldOffice     = "office"
	FieldCity       = "city"
)

// KnownFields lists the contact fields both systems can carry. FieldEmail is
// the natural key and never appears in a FieldDelta.
var KnownFields = []string{
	FieldEmail,
	FieldName,
	FieldPhone,
	FieldMobile,
	FieldTitle,
	FieldDepartment,
	FieldCompany,
	FieldOffice,
	FieldCity,
}

func IsKnownField(field string) bool {
	for _, known := range KnownFields {
		if known == field {
			return true
		}
	}
	return false
}

type Contact struct {
	// Key is the normalized email address that identifies the contact.
	Key string
	// Address is the email address as the source spelled it.
	Address string
	Name    string
	Fields  map[string]string
}

type ContactCollection map[string]Contact

func NormalizeKey(email string) string {
	return strings.ToLower(NormalizeValue(email))
}

func NormalizeValue(value string) string {
	return strings.TrimSpace(norm.NFC.String(value))
}

// NewContact builds a contact from raw field values. Empty values are dropped
// so that "absent" and "blank" compare the same way.
func NewContact(email string, name string, fields map[string]string) Contact {
	contact := Contact{
		Key:     NormalizeKey(email),
		Address: NormalizeValue(email),
		Name:    NormalizeValue(name),
		Fields:  make(map[string]string, len(fields)),
	}

	for field, value := range fields {
		if field == FieldEmail || field == FieldName {
			continue
		}
		normalized := NormalizeValue(value)
		if normalized == "" {
			continue
		}
		contact.Fields[field] = normalized
	}

	return contact
}

// Attributes returns every reconciled field of the contact, name included.
func (c Contact) Attributes() map[string]string {
	attrs := make(map[string]string, len(c.Fields)+1)
	for field, value := range c.Fields {
		attrs[field] = value
	}
	if c.Name != "" {
		attrs[FieldName] = c.Name
	}

	return attrs
}

func (c Contact) Value(field string) (string, bool) {
	if field == FieldName {
		return c.Name, c.Name != ""
	}
	value, ok := c.Fields[field]
	return value, ok
}

// EmailAddress returns the address to write to a directory, keeping the
// casing the source used.
func (c Contact) EmailAddress() string {
	if c.Address != "" {
		return c.Address
	}
	return c.Key
}

func (c Contact) clone() Contact {
	fields := make(map[string]string, len(c.Fields))
	for field, value := range c.Fields {
		fields[field] = value
	}

	return Contact{Key: c.Key, Address: c.Address, Name: c.Name, Fields: fields}
}

func (c ContactCollection) Add(contact Contact) error {
	if strings.TrimSpace(contact.Key) == "" {
		return fmt.Errorf("contact key is required")
	}
	if _, ok := c[contact.Key]; ok {
		return fmt.Errorf("duplicate contact key %q", contact.Key)
	}

	c[contact.Key] = contact
	return nil
}

func (c ContactCollection) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

func (c ContactCollection) Clone() ContactCollection {
	clone := make(ContactCollection, len(c))
	for key, contact := range c {
		clone[key] = contact.clone()
	}

	return clone
}
