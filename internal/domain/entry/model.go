package entry

import (
	"encoding/json"
	"fmt"
)

// Type is the discriminator carried in the "type" field of every entry.
type Type string

const (
	TypeHealthCheck            Type = "HealthCheck"
	TypeHospital               Type = "Hospital"
	TypeOccupationalHealthcare Type = "OccupationalHealthcare"
)

// Types returns the entry types in the order they are offered to users.
func Types() []Type {
	return []Type{TypeHealthCheck, TypeHospital, TypeOccupationalHealthcare}
}

func (t Type) Valid() bool {
	switch t {
	case TypeHealthCheck, TypeHospital, TypeOccupationalHealthcare:
		return true
	}
	return false
}

// HealthCheckRating is the four-level ordinal recorded by a health check.
type HealthCheckRating int

const (
	Healthy HealthCheckRating = iota
	LowRisk
	HighRisk
	CriticalRisk
)

func (r HealthCheckRating) Valid() bool {
	return r >= Healthy && r <= CriticalRisk
}

func (r HealthCheckRating) String() string {
	switch r {
	case Healthy:
		return "Healthy"
	case LowRisk:
		return "LowRisk"
	case HighRisk:
		return "HighRisk"
	case CriticalRisk:
		return "CriticalRisk"
	}
	return fmt.Sprintf("HealthCheckRating(%d)", int(r))
}

// Base holds the fields shared by every entry variant.
type Base struct {
	ID             string   `json:"id"`
	Date           string   `json:"date"`
	Description    string   `json:"description"`
	Specialist     string   `json:"specialist"`
	DiagnosisCodes []string `json:"diagnosisCodes,omitempty"`
}

// Entry is one medical-record event. The set of implementations is closed:
// HealthCheckEntry, HospitalEntry and OccupationalHealthcareEntry.
type Entry interface {
	EntryType() Type
	Info() Base
	isEntry()
}

type Discharge struct {
	Date     string `json:"date"`
	Criteria string `json:"criteria"`
}

type SickLeave struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Blank reports whether neither sick-leave date was filled in.
func (s *SickLeave) Blank() bool {
	return s == nil || (s.StartDate == "" && s.EndDate == "")
}

type HealthCheckEntry struct {
	Base
	HealthCheckRating HealthCheckRating `json:"healthCheckRating"`
}

type HospitalEntry struct {
	Base
	Discharge Discharge `json:"discharge"`
}

type OccupationalHealthcareEntry struct {
	Base
	EmployerName string     `json:"employerName"`
	SickLeave    *SickLeave `json:"sickLeave,omitempty"`
}

func (HealthCheckEntry) EntryType() Type            { return TypeHealthCheck }
func (HospitalEntry) EntryType() Type               { return TypeHospital }
func (OccupationalHealthcareEntry) EntryType() Type { return TypeOccupationalHealthcare }

func (e HealthCheckEntry) Info() Base            { return e.Base }
func (e HospitalEntry) Info() Base               { return e.Base }
func (e OccupationalHealthcareEntry) Info() Base { return e.Base }

func (HealthCheckEntry) isEntry()            {}
func (HospitalEntry) isEntry()               {}
func (OccupationalHealthcareEntry) isEntry() {}

func (e HealthCheckEntry) MarshalJSON() ([]byte, error) {
	type plain HealthCheckEntry
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeHealthCheck, plain(e)})
}

func (e HospitalEntry) MarshalJSON() ([]byte, error) {
	type plain HospitalEntry
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeHospital, plain(e)})
}

func (e OccupationalHealthcareEntry) MarshalJSON() ([]byte, error) {
	type plain OccupationalHealthcareEntry
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeOccupationalHealthcare, plain(e)})
}
