package patient

import (
	"fmt"
	"strings"

	"github.com/patientor/patientor/internal/domain/entry"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Patient is the summary row shown in the patient list.
type Patient struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Occupation string `json:"occupation"`
	Gender     Gender `json:"gender"`
}

// Full is the detailed record fetched when a patient is opened. Entries only
// ever grow by appending.
type Full struct {
	Patient
	SSN         string     `json:"ssn"`
	DateOfBirth string     `json:"dateOfBirth"`
	Entries     entry.List `json:"entries"`
}

func (f Full) Summary() Patient {
	return f.Patient
}

// NewPatient is the body of a create-patient request.
type NewPatient struct {
	Name        string `json:"name"`
	SSN         string `json:"ssn"`
	DateOfBirth string `json:"dateOfBirth"`
	Occupation  string `json:"occupation"`
	Gender      Gender `json:"gender"`
}

func (n NewPatient) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(n.SSN) == "" {
		return fmt.Errorf("ssn is required")
	}
	if strings.TrimSpace(n.DateOfBirth) == "" {
		return fmt.Errorf("dateOfBirth is required")
	}
	if !entry.IsDate(n.DateOfBirth) {
		return fmt.Errorf("dateOfBirth is in incorrect format")
	}
	if strings.TrimSpace(n.Occupation) == "" {
		return fmt.Errorf("occupation is required")
	}
	if !n.Gender.Valid() {
		return fmt.Errorf("gender must be one of male, female, other")
	}
	return nil
}
