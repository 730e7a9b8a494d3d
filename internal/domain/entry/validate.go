package entry

import (
	"sort"
	"strings"
)

const (
	MsgRequired       = "Field is required"
	MsgDateFormat     = "Date is in incorrect format"
	MsgRatingRange    = "Rating must be between 0 and 3"
	MsgUnknownType    = "Unknown entry type"
	MsgSickLeaveOrder = "End date must not be before start date"
)

// Errors maps a field path ("date", "discharge.criteria", ...) to a
// human-readable message. An empty map means the draft is valid.
type Errors map[string]string

func (e Errors) Valid() bool { return len(e) == 0 }

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Fields returns the failing field paths in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Nested groups dotted paths into sub-objects, e.g. "discharge.date" becomes
// {"discharge": {"date": ...}}.
func (e Errors) Nested() map[string]interface{} {
	out := make(map[string]interface{}, len(e))
	for path, msg := range e {
		head, tail, ok := strings.Cut(path, ".")
		if !ok {
			out[path] = msg
			continue
		}
		sub, _ := out[head].(map[string]string)
		if sub == nil {
			sub = make(map[string]string)
			out[head] = sub
		}
		sub[tail] = msg
	}
	return out
}

func checkDate(errs Errors, field, value string) {
	switch {
	case strings.TrimSpace(value) == "":
		errs[field] = MsgRequired
	case !IsDate(value):
		errs[field] = MsgDateFormat
	}
}

func checkRequired(errs Errors, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = MsgRequired
	}
}

func validateBase(d Draft, errs Errors) {
	checkRequired(errs, "description", d.Description)
	checkRequired(errs, "specialist", d.Specialist)
	checkDate(errs, "date", d.Date)
}

// Validate checks a draft against the rules of its variant.
//
// A health-check rating of 0 (Healthy) is a valid answer; only an unset
// rating is reported as missing. Sick leave is both-or-neither: a missing or
// fully blank sick leave passes, a half-filled one reports the blank date.
func Validate(d Draft) Errors {
	errs := Errors{}
	validateBase(d, errs)

	switch d.Type {
	case TypeHealthCheck:
		switch {
		case d.HealthCheckRating == nil:
			errs["healthCheckRating"] = MsgRequired
		case !d.HealthCheckRating.Valid():
			errs["healthCheckRating"] = MsgRatingRange
		}
	case TypeHospital:
		validateDischarge(d.Discharge, errs)
	case TypeOccupationalHealthcare:
		checkRequired(errs, "employerName", d.EmployerName)
		validateSickLeave(d.SickLeave, errs)
	case "":
		errs["type"] = MsgRequired
	default:
		errs["type"] = MsgUnknownType
	}
	return errs
}

func validateDischarge(dis *Discharge, errs Errors) {
	if dis == nil {
		dis = &Discharge{}
	}
	checkDate(errs, "discharge.date", dis.Date)
	checkRequired(errs, "discharge.criteria", dis.Criteria)
}

func validateSickLeave(sl *SickLeave, errs Errors) {
	if sl.Blank() {
		return
	}
	checkDate(errs, "sickLeave.startDate", sl.StartDate)
	checkDate(errs, "sickLeave.endDate", sl.EndDate)
	if errs.Has("sickLeave.startDate") || errs.Has("sickLeave.endDate") {
		return
	}
	start, _ := ParseDate(sl.StartDate)
	end, _ := ParseDate(sl.EndDate)
	if end.Before(start) {
		errs["sickLeave.endDate"] = MsgSickLeaveOrder
	}
}

// ValidateLegacy reproduces the checks of the first version of the entry
// form: a zero rating counts as missing and both sick-leave dates are
// required even when the whole sick leave was left blank. It is kept so the
// old behaviour stays pinned by tests; new code uses Validate.
func ValidateLegacy(d Draft) Errors {
	errs := Errors{}
	validateBase(d, errs)

	switch d.Type {
	case TypeHealthCheck:
		if d.HealthCheckRating == nil || *d.HealthCheckRating == 0 {
			errs["healthCheckRating"] = MsgRequired
		}
	case TypeHospital:
		validateDischarge(d.Discharge, errs)
	case TypeOccupationalHealthcare:
		sl := d.SickLeave
		if sl == nil {
			sl = &SickLeave{}
		}
		checkDate(errs, "sickLeave.startDate", sl.StartDate)
		checkDate(errs, "sickLeave.endDate", sl.EndDate)
		checkRequired(errs, "employerName", d.EmployerName)
	}
	return errs
}
