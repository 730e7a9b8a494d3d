package state

import (
	"fmt"

	"github.com/patientor/patientor/internal/domain/entry"
)

// Reduce returns the state that results from applying a to s. It has no side
// effects and never modifies s. Unrecognised actions return s unchanged.
//
// AddDiagnosisEntryAction requires the patient to be present in
// PatientsFullData; dispatching it for an unknown patient is a programming
// error and panics.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case SetPatientListAction:
		patients := copyPatients(s.Patients, len(act.Patients))
		for _, p := range act.Patients {
			if _, exists := patients[p.ID]; !exists {
				patients[p.ID] = p
			}
		}
		s.Patients = patients
		return s

	case AddPatientAction:
		patients := copyPatients(s.Patients, 1)
		patients[act.Patient.ID] = act.Patient
		s.Patients = patients
		return s

	case UpdatePatientFullDataAction:
		full := copyFullData(s.PatientsFullData, 1)
		full[act.Patient.ID] = cloneFull(act.Patient)
		s.PatientsFullData = full
		return s

	case AddDiagnosisEntryAction:
		current, ok := s.PatientsFullData[act.PatientID]
		if !ok {
			panic(fmt.Sprintf("state: add entry for patient %q that has not been loaded", act.PatientID))
		}
		updated := current
		updated.Entries = make(entry.List, 0, len(current.Entries)+1)
		updated.Entries = append(updated.Entries, current.Entries...)
		updated.Entries = append(updated.Entries, act.Entry)

		full := copyFullData(s.PatientsFullData, 0)
		full[act.PatientID] = updated
		s.PatientsFullData = full
		return s

	case SetDiagnosisListAction:
		diagnoses := copyDiagnoses(s.Diagnoses, len(act.Diagnoses))
		for _, d := range act.Diagnoses {
			if _, exists := diagnoses[d.Code]; !exists {
				diagnoses[d.Code] = d
			}
		}
		s.Diagnoses = diagnoses
		return s
	}
	return s
}
