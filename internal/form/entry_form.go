package form

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/patientor/patientor/internal/domain/entry"
)

var (
	// ErrNotSubmittable is returned by Submit when the form is untouched or
	// still has validation errors.
	ErrNotSubmittable = errors.New("form is not ready to submit")
	ErrUnknownField   = errors.New("unknown form field")
)

// SubmitFunc receives the validated draft. The form performs no I/O itself.
type SubmitFunc func(ctx context.Context, d entry.Draft) error

// Reasoner is implemented by errors that carry a message meant for the user,
// such as the error text returned by the patient API.
type Reasoner interface {
	Reason() string
}

// EntryForm holds the state of the add-entry form: the draft being edited,
// the current error map, and the banner shown after a rejected submission.
// Every edit re-runs validation over the whole draft.
type EntryForm struct {
	initial  entry.Draft
	values   entry.Draft
	errors   entry.Errors
	banner   string
	validate func(entry.Draft) entry.Errors
}

// Option configures an EntryForm.
type Option func(*EntryForm)

// WithValidator replaces entry.Validate, e.g. with entry.ValidateLegacy.
func WithValidator(v func(entry.Draft) entry.Errors) Option {
	return func(f *EntryForm) { f.validate = v }
}

// NewEntryForm returns a blank HealthCheck form.
func NewEntryForm(opts ...Option) *EntryForm {
	initial := entry.Draft{
		Type:      entry.TypeHealthCheck,
		Discharge: &entry.Discharge{},
		SickLeave: &entry.SickLeave{},
	}
	f := &EntryForm{
		initial:  initial,
		values:   initial.Clone(),
		errors:   entry.Errors{},
		validate: entry.Validate,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *EntryForm) Values() entry.Draft { return f.values.Clone() }
func (f *EntryForm) Type() entry.Type    { return f.values.Type }
func (f *EntryForm) Banner() string      { return f.banner }

func (f *EntryForm) Errors() entry.Errors {
	cp := make(entry.Errors, len(f.errors))
	for k, v := range f.errors {
		cp[k] = v
	}
	return cp
}

// Dirty reports whether the draft differs from the initial values.
func (f *EntryForm) Dirty() bool {
	return !reflect.DeepEqual(normalize(f.values), normalize(f.initial))
}

// Valid reports whether the last validation pass found no errors.
func (f *EntryForm) Valid() bool { return f.errors.Valid() }

// CanSubmit mirrors the state of the submit button.
func (f *EntryForm) CanSubmit() bool { return f.Dirty() && f.Valid() }

// Validate re-runs validation and returns the resulting errors.
func (f *EntryForm) Validate() entry.Errors {
	f.errors = f.validate(f.values)
	return f.Errors()
}

// SetType switches the variant. Errors belonging to the previous variant are
// not cleared explicitly; the validation pass that follows simply does not
// produce them.
func (f *EntryForm) SetType(t entry.Type) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", entry.ErrUnknownType, t)
	}
	f.values.Type = t
	f.Validate()
	return nil
}

// Set assigns a single field addressed by its path, e.g. "discharge.date".
func (f *EntryForm) Set(field, value string) error {
	v := &f.values
	switch field {
	case "type":
		return f.SetType(entry.Type(value))
	case "date":
		v.Date = value
	case "description":
		v.Description = value
	case "specialist":
		v.Specialist = value
	case "diagnosisCodes":
		f.SetDiagnosisCodes(splitCodes(value))
		return nil
	case "healthCheckRating":
		if strings.TrimSpace(value) == "" {
			v.HealthCheckRating = nil
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("healthCheckRating: %w", err)
		}
		v.HealthCheckRating = entry.Rating(entry.HealthCheckRating(n))
	case "discharge.date":
		f.discharge().Date = value
	case "discharge.criteria":
		f.discharge().Criteria = value
	case "employerName":
		v.EmployerName = value
	case "sickLeave.startDate":
		f.sickLeave().StartDate = value
	case "sickLeave.endDate":
		f.sickLeave().EndDate = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	f.Validate()
	return nil
}

// SetDiagnosisCodes replaces the selected diagnosis codes.
func (f *EntryForm) SetDiagnosisCodes(codes []string) {
	if len(codes) == 0 {
		f.values.DiagnosisCodes = nil
	} else {
		f.values.DiagnosisCodes = append([]string(nil), codes...)
	}
	f.Validate()
}

// Load replaces the whole draft, as when a filled-in form arrives in one
// request, and validates it.
func (f *EntryForm) Load(d entry.Draft) {
	f.values = d.Clone()
	if f.values.Discharge == nil {
		f.values.Discharge = &entry.Discharge{}
	}
	if f.values.SickLeave == nil {
		f.values.SickLeave = &entry.SickLeave{}
	}
	f.Validate()
}

// Reset discards all edits, errors and the banner.
func (f *EntryForm) Reset() {
	f.values = f.initial.Clone()
	f.errors = entry.Errors{}
	f.banner = ""
}

// Submit validates once more and, if the form can be submitted, hands the
// draft to fn. When fn fails the draft is kept and the banner shows the
// failure so the user can correct it and resubmit.
func (f *EntryForm) Submit(ctx context.Context, fn SubmitFunc) error {
	f.Validate()
	if !f.CanSubmit() {
		return ErrNotSubmittable
	}

	if err := fn(ctx, f.Values()); err != nil {
		var r Reasoner
		if errors.As(err, &r) && r.Reason() != "" {
			f.banner = r.Reason()
		} else {
			f.banner = err.Error()
		}
		return err
	}
	f.banner = ""
	return nil
}

func (f *EntryForm) discharge() *entry.Discharge {
	if f.values.Discharge == nil {
		f.values.Discharge = &entry.Discharge{}
	}
	return f.values.Discharge
}

func (f *EntryForm) sickLeave() *entry.SickLeave {
	if f.values.SickLeave == nil {
		f.values.SickLeave = &entry.SickLeave{}
	}
	return f.values.SickLeave
}

func splitCodes(s string) []string {
	var codes []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

// normalize treats absent and blank nested objects as equal so that Dirty
// does not flip just because a sub-object was allocated.
func normalize(d entry.Draft) entry.Draft {
	cp := d.Clone()
	if cp.Discharge != nil && *cp.Discharge == (entry.Discharge{}) {
		cp.Discharge = nil
	}
	if cp.SickLeave.Blank() {
		cp.SickLeave = nil
	}
	if len(cp.DiagnosisCodes) == 0 {
		cp.DiagnosisCodes = nil
	}
	return cp
}
