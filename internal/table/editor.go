package table

import (
	"errors"
	"fmt"
	"log"

	"contract-admin-api/internal/entityconfig"
	"contract-admin-api/internal/mapper"
)

var (
	ErrCellNotEditable = errors.New("cell is not editable")
	ErrUnknownColumn   = errors.New("column has no backend mapping")
)

// CellEdit is the commit payload handed to the caller when a cell edit is
// confirmed: the display column plus the resolved backend field.
type CellEdit struct {
	Row        mapper.Row
	Column     string
	NewValue   interface{}
	RealColumn string
}

// CommitFunc persists one inline edit (a single-field patch upstream).
type CommitFunc func(edit CellEdit) error

// Editor enforces which cells may enter edit mode and applies the
// only-after-success local mutation rule.
type Editor struct {
	// ColumnMapping resolves header -> backend key.
	ColumnMapping map[string]string
	// NonEditable headers never enter edit mode.
	NonEditable []string
	// SelectColumns lists the option set of select/checkbox columns.
	SelectColumns map[string][]entityconfig.Option
}

// CanEdit reports whether the column accepts inline editing. The first
// column and id-like columns are always read-only.
func (e Editor) CanEdit(column string, isFirstColumn bool) bool {
	if isFirstColumn || isIDColumn(column) {
		return false
	}
	for _, h := range e.NonEditable {
		if h == column {
			return false
		}
	}
	_, mapped := e.ColumnMapping[column]
	return mapped
}

// Commit resolves the backend field, invokes the caller's persist function,
// and only mutates the local row when it succeeds. Failures are logged and
// leave the row exactly as it was.
func (e Editor) Commit(row mapper.Row, column string, newValue interface{}, isFirstColumn bool, persist CommitFunc) error {
	if !e.CanEdit(column, isFirstColumn) {
		return fmt.Errorf("%w: %s", ErrCellNotEditable, column)
	}

	realColumn, ok := e.ColumnMapping[column]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}

	edit := CellEdit{
		Row:        row,
		Column:     column,
		NewValue:   newValue,
		RealColumn: realColumn,
	}

	if err := persist(edit); err != nil {
		log.Printf("table: inline edit failed for column %s: %v", column, err)
		return err
	}

	row[column] = newValue
	return nil
}

// CommitCheckboxSet submits the full replacement array for a multi-select
// column. values must be a subset of the column's configured options.
func (e Editor) CommitCheckboxSet(row mapper.Row, column string, values []string, persist CommitFunc) error {
	opts, ok := e.SelectColumns[column]
	if !ok {
		return fmt.Errorf("%w: %s is not a select column", ErrCellNotEditable, column)
	}

	allowed := make(map[string]bool, len(opts))
	for _, o := range opts {
		allowed[o.Value] = true
	}
	for _, v := range values {
		if !allowed[v] {
			return fmt.Errorf("value %q is not an option of column %s", v, column)
		}
	}

	return e.Commit(row, column, append([]string(nil), values...), false, persist)
}
