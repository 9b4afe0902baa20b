package powershell

import (
	"fmt"
	"strings"

	"github.com/bnema/spo-contact-sync/internal/domain"
)

type listRecord struct {
	line    int
	values  map[string]string
	lastKey string
}

// parseContacts reads Format-List output ("Key : Value" lines, records
// separated by blank lines) and maps each record's columns to contact fields
// through columns. A key repeated inside one block starts a new record.
// Records without any mapped column are ignored.
func parseContacts(system domain.SystemID, lines []string, columns map[string]string) (domain.ContactCollection, error) {
	contacts := domain.ContactCollection{}
	var current *listRecord

	flush := func() error {
		if current == nil {
			return nil
		}
		record := current
		current = nil
		return addRecord(system, contacts, record, columns)
	}

	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimRight(raw, " \t")

		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}

		if current != nil && current.lastKey != "" && startsIndented(line) {
			current.values[current.lastKey] = strings.TrimSpace(current.values[current.lastKey] + " " + strings.TrimSpace(line))
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &domain.ParseError{
				System: system,
				Line:   lineNo,
				Text:   raw,
				Reason: `expected "Key : Value"`,
			}
		}

		if current != nil {
			if _, seen := current.values[key]; seen {
				if err := flush(); err != nil {
					return nil, err
				}
			}
		}
		if current == nil {
			current = &listRecord{line: lineNo, values: map[string]string{}}
		}
		current.values[key] = strings.TrimSpace(value)
		current.lastKey = key
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return contacts, nil
}

func addRecord(system domain.SystemID, contacts domain.ContactCollection, record *listRecord, columns map[string]string) error {
	fields := map[string]string{}
	for column, value := range record.values {
		field, ok := columns[column]
		if !ok {
			continue
		}
		fields[field] = value
	}
	if len(fields) == 0 {
		return nil
	}

	email := fields[domain.FieldEmail]
	if domain.NormalizeKey(email) == "" {
		return &domain.ParseError{System: system, Line: record.line, Reason: "record has no email address"}
	}

	contact := domain.NewContact(email, fields[domain.FieldName], fields)
	if err := contacts.Add(contact); err != nil {
		return &domain.ParseError{System: system, Line: record.line, Reason: err.Error()}
	}

	return nil
}

func startsIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// failureMessage picks the most useful line of a failed command's output.
func failureMessage(lines []string) string {
	last := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "ERROR: ") {
			return strings.TrimPrefix(trimmed, "ERROR: ")
		}
		if trimmed != "" {
			last = trimmed
		}
	}
	if last == "" {
		return "no output"
	}

	return fmt.Sprintf("%.512s", last)
}
