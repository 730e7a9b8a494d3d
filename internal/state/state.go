package state

import (
	"sort"

	"github.com/patientor/patientor/internal/domain/diagnosis"
	"github.com/patientor/patientor/internal/domain/entry"
	"github.com/patientor/patientor/internal/domain/patient"
)

// State is the session cache. Values are treated as immutable: Reduce never
// writes into a map it was handed, it replaces every map it changes.
type State struct {
	Patients         map[string]patient.Patient
	PatientsFullData map[string]patient.Full
	Diagnoses        map[string]diagnosis.Diagnosis
}

func New() State {
	return State{
		Patients:         make(map[string]patient.Patient),
		PatientsFullData: make(map[string]patient.Full),
		Diagnoses:        make(map[string]diagnosis.Diagnosis),
	}
}

// Patient returns the full record for id if it has been fetched.
func (s State) Patient(id string) (patient.Full, bool) {
	p, ok := s.PatientsFullData[id]
	return p, ok
}

// PatientList returns the patient summaries ordered by name, then id.
func (s State) PatientList() []patient.Patient {
	out := make([]patient.Patient, 0, len(s.Patients))
	for _, p := range s.Patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// DiagnosisList returns the known diagnoses ordered by code.
func (s State) DiagnosisList() []diagnosis.Diagnosis {
	out := make([]diagnosis.Diagnosis, 0, len(s.Diagnoses))
	for _, d := range s.Diagnoses {
		out = append(out, d)
	}
	diagnosis.SortByCode(out)
	return out
}

func copyPatients(m map[string]patient.Patient, extra int) map[string]patient.Patient {
	cp := make(map[string]patient.Patient, len(m)+extra)
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func copyFullData(m map[string]patient.Full, extra int) map[string]patient.Full {
	cp := make(map[string]patient.Full, len(m)+extra)
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func copyDiagnoses(m map[string]diagnosis.Diagnosis, extra int) map[string]diagnosis.Diagnosis {
	cp := make(map[string]diagnosis.Diagnosis, len(m)+extra)
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func cloneFull(p patient.Full) patient.Full {
	cp := p
	if p.Entries != nil {
		cp.Entries = append(entry.List(nil), p.Entries...)
	}
	return cp
}
