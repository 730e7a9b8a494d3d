package form

import "github.com/patientor/patientor/internal/domain/entry"

type FieldKind string

const (
	KindText      FieldKind = "text"
	KindNumber    FieldKind = "number"
	KindSelect    FieldKind = "select"
	KindDiagnosis FieldKind = "diagnosis"
)

// Field describes one input of the entry form.
type Field struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder,omitempty"`
	Kind        FieldKind `json:"kind"`
	Min         *int      `json:"min,omitempty"`
	Max         *int      `json:"max,omitempty"`
	Options     []Choice  `json:"options,omitempty"`
}

// Choice is one option of a select input.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TypeOptions lists the entry types offered by the type selector.
func TypeOptions() []Choice {
	types := entry.Types()
	out := make([]Choice, len(types))
	for i, t := range types {
		out[i] = Choice{Value: string(t), Label: string(t)}
	}
	return out
}

func intp(n int) *int { return &n }

var commonFields = []Field{
	{Name: "type", Label: "Type", Kind: KindSelect},
	{Name: "date", Label: "Entry input date", Placeholder: "YYYY-MM-DD", Kind: KindText},
	{Name: "description", Label: "Description", Placeholder: "Description", Kind: KindText},
	{Name: "specialist", Label: "Specialist", Placeholder: "Specialist's name", Kind: KindText},
	{Name: "diagnosisCodes", Label: "Diagnoses", Kind: KindDiagnosis},
}

// FieldsFor returns the inputs shown for a given entry type, common fields
// first.
func FieldsFor(t entry.Type) []Field {
	fields := make([]Field, len(commonFields))
	copy(fields, commonFields)
	fields[0].Options = TypeOptions()

	switch t {
	case entry.TypeHospital:
		fields = append(fields,
			Field{Name: "discharge.date", Label: "Discharge date", Placeholder: "YYYY-MM-DD", Kind: KindText},
			Field{Name: "discharge.criteria", Label: "Discharge criteria", Placeholder: "Criteria", Kind: KindText},
		)
	case entry.TypeHealthCheck:
		fields = append(fields,
			Field{Name: "healthCheckRating", Label: "Health check rating", Kind: KindNumber,
				Min: intp(int(entry.Healthy)), Max: intp(int(entry.CriticalRisk))},
		)
	case entry.TypeOccupationalHealthcare:
		fields = append(fields,
			Field{Name: "employerName", Label: "Employer", Placeholder: "Employer's name", Kind: KindText},
			Field{Name: "sickLeave.startDate", Label: "Sickleave start", Placeholder: "YYYY-MM-DD", Kind: KindText},
			Field{Name: "sickLeave.endDate", Label: "Sickleave end", Placeholder: "YYYY-MM-DD", Kind: KindText},
		)
	}
	return fields
}

// Fields returns the inputs visible for the form's current type.
func (f *EntryForm) Fields() []Field {
	return FieldsFor(f.values.Type)
}
