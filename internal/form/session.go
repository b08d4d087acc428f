package form

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"contract-admin-api/internal/entityconfig"
)

type FieldState string

const (
	FieldPristine FieldState = "pristine"
	FieldDirty    FieldState = "dirty"
	FieldValid    FieldState = "valid"
	FieldInvalid  FieldState = "invalid"
)

type FormState string

const (
	FormClean        FormState = "clean"
	FormDirty        FormState = "dirty"
	FormSubmitting   FormState = "submitting"
	FormSubmitted    FormState = "submitted"
	FormSubmitFailed FormState = "submit-failed"
)

var (
	ErrUnknownField       = errors.New("unknown form field")
	ErrFormInvalid        = errors.New("form has invalid fields")
	ErrNoPendingConfirm   = errors.New("no confirmation pending")
	ErrConfirmationNeeded = errors.New("action requires confirmation")
)

// Session tracks one open form: values, per-field and whole-form state, and
// the confirmation step that gates submit/clear. Values are strings except
// for checkbox-with-options and multidate fields, which hold string slices.
type Session struct {
	fields   []Field
	byName   map[string]int
	patterns map[string]*regexp.Regexp

	values  map[string]interface{}
	initial map[string]interface{}

	fieldStates map[string]FieldState
	fieldErrors map[string]string
	state       FormState

	keepValuesOnSubmit bool
	selectAllFields    map[string]bool

	pendingSubmit bool
	pendingClear  bool
}

type SessionOption func(*Session)

// KeepValuesOnSubmit leaves the form populated after a successful submit.
func KeepValuesOnSubmit() SessionOption {
	return func(s *Session) { s.keepValuesOnSubmit = true }
}

// WithSelectAll enables bulk select/deselect on the named checkbox fields.
func WithSelectAll(names ...string) SessionOption {
	return func(s *Session) {
		for _, n := range names {
			s.selectAllFields[n] = true
		}
	}
}

func NewSession(fields []Field, initial map[string]interface{}, opts ...SessionOption) *Session {
	s := &Session{
		fields:          fields,
		byName:          make(map[string]int, len(fields)),
		patterns:        make(map[string]*regexp.Regexp, len(fields)),
		values:          map[string]interface{}{},
		initial:         map[string]interface{}{},
		fieldStates:     make(map[string]FieldState, len(fields)),
		fieldErrors:     map[string]string{},
		state:           FormClean,
		selectAllFields: map[string]bool{},
	}

	for i, f := range fields {
		s.byName[f.Name] = i
		s.fieldStates[f.Name] = FieldPristine
		if f.Pattern != "" {
			re, err := regexp.Compile(f.Pattern)
			if err != nil {
				log.Printf("form: invalid pattern for field %s: %v", f.Name, err)
			} else {
				s.patterns[f.Name] = re
			}
		}
	}

	for k, v := range initial {
		if _, ok := s.byName[k]; ok {
			s.initial[k] = v
			s.values[k] = v
		}
	}

	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) field(name string) (*Field, error) {
	i, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return &s.fields[i], nil
}

// SetValue applies one user edit: the allowed-chars filter runs first, the
// field turns dirty, and validation re-runs immediately.
func (s *Session) SetValue(name, value string) error {
	f, err := s.field(name)
	if err != nil {
		return err
	}

	if f.Type != entityconfig.TypeFile {
		value = f.FilterInput(value)
	}
	s.values[name] = value
	s.touch(name)
	return nil
}

// SetArrayValue replaces the whole value of a checkbox-set or multidate
// field.
func (s *Session) SetArrayValue(name string, values []string) error {
	f, err := s.field(name)
	if err != nil {
		return err
	}
	if f.Type != entityconfig.TypeCheckbox && f.Type != entityconfig.TypeMultidate {
		return fmt.Errorf("field %s does not hold an array value", name)
	}

	s.values[name] = append([]string(nil), values...)
	s.touch(name)
	return nil
}

// SelectAll checks every option of a bulk-enabled checkbox field.
func (s *Session) SelectAll(name string) error {
	f, err := s.field(name)
	if err != nil {
		return err
	}
	if !s.selectAllFields[name] || f.Type != entityconfig.TypeCheckbox {
		return fmt.Errorf("field %s does not support select all", name)
	}

	all := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		all = append(all, o.Value)
	}
	s.values[name] = all
	s.touch(name)
	return nil
}

// DeselectAll unchecks every option of a bulk-enabled checkbox field.
func (s *Session) DeselectAll(name string) error {
	f, err := s.field(name)
	if err != nil {
		return err
	}
	if !s.selectAllFields[name] || f.Type != entityconfig.TypeCheckbox {
		return fmt.Errorf("field %s does not support deselect all", name)
	}

	s.values[name] = []string{}
	s.touch(name)
	return nil
}

func (s *Session) touch(name string) {
	s.fieldStates[name] = FieldDirty
	if s.state == FormClean || s.state == FormSubmitted || s.state == FormSubmitFailed {
		s.state = FormDirty
	}
	s.validateField(name)
}

func (s *Session) validateField(name string) {
	f, err := s.field(name)
	if err != nil {
		return
	}

	if f.Required && isEmpty(s.values[name]) {
		s.fieldStates[name] = FieldInvalid
		s.fieldErrors[name] = "Este campo es obligatorio"
		return
	}

	if str, ok := s.values[name].(string); ok && str != "" {
		if re := s.patterns[name]; re != nil && !re.MatchString(str) {
			s.fieldStates[name] = FieldInvalid
			msg := f.PatternMessage
			if msg == "" {
				msg = "Valor inválido"
			}
			s.fieldErrors[name] = msg
			return
		}
	}

	if f.Type == entityconfig.TypeMultidate {
		if dates, ok := s.values[name].([]string); ok {
			for _, d := range dates {
				if _, err := time.Parse("2006-01-02", strings.TrimSpace(d)); err != nil {
					s.fieldStates[name] = FieldInvalid
					s.fieldErrors[name] = "Fecha inválida: " + d
					return
				}
			}
		}
	}

	s.fieldStates[name] = FieldValid
	delete(s.fieldErrors, name)
}

// Validate runs every field's checks (the blur/submit pass) and reports
// whether the form may be submitted.
func (s *Session) Validate() bool {
	for _, f := range s.fields {
		s.validateField(f.Name)
	}
	return len(s.fieldErrors) == 0
}

// CanSubmit mirrors the disabled state of the submit control.
func (s *Session) CanSubmit() bool {
	for _, f := range s.fields {
		if f.Required && isEmpty(s.values[f.Name]) {
			return false
		}
		if s.fieldStates[f.Name] == FieldInvalid {
			return false
		}
	}
	return true
}

// RequestSubmit opens the confirmation step. Invalid forms never reach it.
func (s *Session) RequestSubmit() error {
	if !s.Validate() {
		return ErrFormInvalid
	}
	s.pendingSubmit = true
	return nil
}

// ConfirmSubmit runs the caller's submit handler. Handler errors are caught
// and logged, the form keeps its values, and the confirmation overlay is
// dismissed no matter what.
func (s *Session) ConfirmSubmit(handler func(values map[string]interface{}) error) error {
	if !s.pendingSubmit {
		return ErrNoPendingConfirm
	}
	defer func() { s.pendingSubmit = false }()

	if !s.Validate() {
		return ErrFormInvalid
	}

	s.state = FormSubmitting
	err := handler(s.Values())
	if err != nil {
		log.Printf("form: submit handler failed: %v", err)
		s.state = FormSubmitFailed
		return err
	}

	s.state = FormSubmitted
	if !s.keepValuesOnSubmit {
		s.reset()
	}
	return nil
}

// CancelConfirm dismisses a pending confirmation without mutating anything.
func (s *Session) CancelConfirm() {
	s.pendingSubmit = false
	s.pendingClear = false
}

// RequestClear opens the clear-form confirmation.
func (s *Session) RequestClear() {
	s.pendingClear = true
}

// ConfirmClear resets the form to its initial values.
func (s *Session) ConfirmClear() error {
	if !s.pendingClear {
		return ErrNoPendingConfirm
	}
	s.pendingClear = false
	s.reset()
	return nil
}

// Close reports whether the form may be discarded without confirmation.
// Dirty forms require the caller to confirm first; the caller owns that
// dialog and calls Close(true) once the user agrees.
func (s *Session) Close(confirmed bool) error {
	if s.IsDirty() && !confirmed {
		return ErrConfirmationNeeded
	}
	return nil
}

func (s *Session) reset() {
	s.values = map[string]interface{}{}
	for k, v := range s.initial {
		s.values[k] = v
	}
	for _, f := range s.fields {
		s.fieldStates[f.Name] = FieldPristine
	}
	s.fieldErrors = map[string]string{}
	if s.state != FormSubmitted {
		s.state = FormClean
	}
}

// IsDirty reports whether any field moved off its initial value.
func (s *Session) IsDirty() bool {
	return s.state == FormDirty || s.state == FormSubmitFailed || s.state == FormSubmitting
}

// PendingConfirmation reports whether a blocking confirmation is open.
func (s *Session) PendingConfirmation() bool {
	return s.pendingSubmit || s.pendingClear
}

// Values returns a copy of the current values.
func (s *Session) Values() map[string]interface{} {
	out := make(map[string]interface{}, len(s.values))
	for k, v := range s.values {
		if arr, ok := v.([]string); ok {
			out[k] = append([]string(nil), arr...)
			continue
		}
		out[k] = v
	}
	return out
}

// FieldState returns the state of one field.
func (s *Session) FieldState(name string) FieldState {
	return s.fieldStates[name]
}

// FieldError returns the validation message of one field, if any.
func (s *Session) FieldError(name string) string {
	return s.fieldErrors[name]
}

// State returns the whole-form state.
func (s *Session) State() FormState {
	return s.state
}

func isEmpty(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []string:
		return len(x) == 0
	case []interface{}:
		return len(x) == 0
	}
	return false
}
