package capture

import (
	"context"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
)

var fieldIDPattern = regexp.MustCompile(`^[0-9A-Fa-f]{32}$`)

// TableCell qualifies a field identity with a table row and column.
type TableCell struct {
	Row    int `json:"row"    yaml:"row"`
	Column int `json:"column" yaml:"column"`
}

// FieldIdentity names a field either by its stable ID or by its Name. When
// both are set the ID wins on the server. Cell is nil for non-table fields.
type FieldIdentity struct {
	ID   string     `json:"id,omitempty"   yaml:"id,omitempty"`
	Name string     `json:"name,omitempty" yaml:"name,omitempty"`
	Cell *TableCell `json:"cell,omitempty" yaml:"cell,omitempty"`
}

// FieldByID identifies a field by its stable identifier.
func FieldByID(id string) FieldIdentity {
	return FieldIdentity{ID: id}
}

// FieldByName identifies a field by its schema name.
func FieldByName(name string) FieldIdentity {
	return FieldIdentity{Name: name}
}

// ParseFieldIdentity treats a 32 digit hex string as an id and anything else as a name.
func ParseFieldIdentity(ref string) FieldIdentity {
	if fieldIDPattern.MatchString(ref) {
		return FieldByID(ref)
	}

	return FieldByName(ref)
}

// InTable returns a copy of f qualified with a table cell.
func (f FieldIdentity) InTable(row, column int) FieldIdentity {
	f.Cell = &TableCell{Row: row, Column: column}

	return f
}

// IsTableCell reports whether f addresses a table cell.
func (f FieldIdentity) IsTableCell() bool {
	return f.Cell != nil
}

// Key is a stable map key for f: the id when present, the name otherwise.
func (f FieldIdentity) Key() string {
	key := f.ID
	if key == "" {
		key = f.Name
	}

	if f.Cell != nil {
		key = fmt.Sprintf("%s[%d,%d]", key, f.Cell.Row, f.Cell.Column)
	}

	return key
}

// String implements fmt.Stringer.
func (f FieldIdentity) String() string {
	return f.Key()
}

// Validate requires an id or a name and a non-negative cell.
func (f FieldIdentity) Validate() error {
	if f.ID == "" && f.Name == "" {
		return ErrFieldIdentityRequired
	}

	if f.Cell != nil {
		return validation.ValidateStruct(f.Cell,
			validation.Field(&f.Cell.Row, validation.Min(0)),
			validation.Field(&f.Cell.Column, validation.Min(0)),
		)
	}

	return nil
}

// RuntimeField is a field identity paired with a value.
type RuntimeField struct {
	FieldIdentity

	Value string `json:"value" yaml:"value"`
}

// Field builds a RuntimeField from an id-or-name reference.
func Field(ref, value string) RuntimeField {
	return RuntimeField{FieldIdentity: ParseFieldIdentity(ref), Value: value}
}

// Validate checks the embedded identity.
func (f RuntimeField) Validate() error {
	return f.FieldIdentity.Validate()
}

// FieldUpdater is the shared field update capability of folders and documents.
type FieldUpdater interface {
	UpdateFieldValues(ctx context.Context, ownerID string, fields ...RuntimeField) error
}

// UpdateFieldValue writes a single field through updater as a batch of one.
func UpdateFieldValue(ctx context.Context, updater FieldUpdater, ownerID string, field RuntimeField) error {
	return updater.UpdateFieldValues(ctx, ownerID, field)
}

// ValidateFieldUpdates reports every malformed entry of a batch, not just the first.
func ValidateFieldUpdates(fields []RuntimeField) error {
	if len(fields) == 0 {
		return ErrNoFieldUpdates
	}

	var result *multierror.Error

	seen := make(map[string]int, len(fields))

	for i, field := range fields {
		err := field.Validate()
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("field %d: %w", i, err))

			continue
		}

		if first, ok := seen[field.Key()]; ok {
			result = multierror.Append(result, fmt.Errorf("field %d: %w %q (first at %d)", i, ErrDuplicateFieldUpdate, field.Key(), first))

			continue
		}

		seen[field.Key()] = i
	}

	return result.ErrorOrNil()
}

// FieldsByKey indexes field values by FieldIdentity.Key and by name.
func FieldsByKey(values []FieldValue) map[string]FieldValue {
	index := make(map[string]FieldValue, len(values)*2)

	for _, value := range values {
		index[value.Key()] = value
		if value.Name != "" && value.ID != "" {
			named := value.FieldIdentity
			named.ID = ""
			index[named.Key()] = value
		}
	}

	return index
}
