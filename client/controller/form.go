package controller

import (
	"fmt"
	"maps"
)

// Field declares one editable form field. Required fields are validated
// locally before any network call.
type Field struct {
	Name     string
	Label    string
	Required bool
}

// ValidationError is a field-level rejection; it never reaches the server.
type ValidationError struct {
	Field string
	Label string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Label)
}

// NewForm builds the draft session of a create/edit dialog. The draft lives
// until submitted successfully or explicitly cancelled.
func NewForm(fields ...Field) *Form {
	f := &Form{fields: fields}
	f.reset()
	return f
}

type Form struct {
	fields []Field
	values map[string]string
	open   bool
}

func (f *Form) reset() {
	values := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		values[field.Name] = ""
	}
	f.values = values
}

// Open resets the draft to empty defaults and shows the dialog.
func (f *Form) Open() {
	f.reset()
	f.open = true
}

// Close discards the draft.
func (f *Form) Close() {
	f.reset()
	f.open = false
}

func (f *Form) IsOpen() bool {
	return f.open
}

func (f *Form) Set(name string, value string) {
	f.values[name] = value
}

func (f *Form) Get(name string) string {
	return f.values[name]
}

// Values returns a copy of the draft.
func (f *Form) Values() map[string]string {
	return maps.Clone(f.values)
}

// Validate rejects the first missing required field. It runs before any
// network call; a failing draft never leaves the device.
func (f *Form) Validate() error {
	for _, field := range f.fields {
		if field.Required && f.values[field.Name] == "" {
			return &ValidationError{Field: field.Name, Label: field.Label}
		}
	}
	return nil
}

// BeginPicker opens a nested, cancelable editing scope for one field, the
// date/time sub-picker. The rest of the draft is untouched either way;
// cancelling leaves the field's previous value in place.
func (f *Form) BeginPicker(name string) *Picker {
	return &Picker{form: f, field: name, value: f.values[name]}
}

type Picker struct {
	form  *Form
	field string
	value string
}

func (p *Picker) Set(value string) {
	p.value = value
}

// Commit writes the picked value into the draft.
func (p *Picker) Commit() {
	p.form.values[p.field] = p.value
}

// Cancel discards the picked value; the draft keeps its previous one.
func (p *Picker) Cancel() {
	p.value = p.form.values[p.field]
}
