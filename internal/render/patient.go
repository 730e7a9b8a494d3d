package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/patientor/patientor/internal/domain/diagnosis"
	"github.com/patientor/patientor/internal/domain/patient"
)

// Gender picks the icon shown next to a patient's name. Unlike entry types,
// gender falls back to a neutral icon.
func Gender(g patient.Gender) Icon {
	switch g {
	case patient.GenderMale:
		return Icon{Name: "mars"}
	case patient.GenderFemale:
		return Icon{Name: "venus"}
	}
	return Icon{Name: "genderless"}
}

type EntryView struct {
	Variant
	Diagnoses []diagnosis.Diagnosis `json:"diagnoses,omitempty"`
}

// PatientView is everything the patient page displays.
type PatientView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	GenderIcon  Icon        `json:"gender_icon"`
	SSN         string      `json:"ssn"`
	Occupation  string      `json:"occupation"`
	DateOfBirth string      `json:"date_of_birth"`
	Entries     []EntryView `json:"entries"`
}

// Patient builds the page view for p, resolving diagnosis codes against known.
func Patient(p patient.Full, known map[string]diagnosis.Diagnosis) PatientView {
	v := PatientView{
		ID:          p.ID,
		Name:        p.Name,
		GenderIcon:  Gender(p.Gender),
		SSN:         p.SSN,
		Occupation:  p.Occupation,
		DateOfBirth: p.DateOfBirth,
		Entries:     make([]EntryView, 0, len(p.Entries)),
	}
	for _, e := range p.Entries {
		ev := EntryView{Variant: Entry(e)}
		if codes := e.Info().DiagnosisCodes; len(codes) > 0 {
			ev.Diagnoses = diagnosis.Resolve(codes, known)
		}
		v.Entries = append(v.Entries, ev)
	}
	return v
}

// WriteText prints v as plain text for the command line.
func WriteText(w io.Writer, v PatientView) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", v.Name, v.GenderIcon.Name)
	fmt.Fprintf(&b, "ssn: %s\n", v.SSN)
	fmt.Fprintf(&b, "occupation: %s\n", v.Occupation)
	fmt.Fprintf(&b, "date of birth: %s\n", v.DateOfBirth)

	if len(v.Entries) > 0 {
		b.WriteString("\nentries\n")
	}
	for _, e := range v.Entries {
		fmt.Fprintf(&b, "  %s [%s] %s\n", e.Date, e.Icon.Name, e.Description)
		if e.Rating != nil {
			if e.Rating.Color != "" {
				fmt.Fprintf(&b, "    rating: %s %s\n", e.Rating.Color, e.Rating.Name)
			} else {
				fmt.Fprintf(&b, "    rating: %s\n", e.Rating.Name)
			}
		}
		for _, d := range e.Diagnoses {
			fmt.Fprintf(&b, "    - %s\n", d.Label())
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
