package corpus

import "fmt"

// MalformedRecordError is returned when a non-blank line doesn't have exactly the four expected
// fields.
type MalformedRecordError struct {
	// Line number, starting at 1.
	Line int

	Text   string
	Fields int
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d: expected %d fields, got %d: %q",
		e.Line, numFields, e.Fields, e.Text)
}
