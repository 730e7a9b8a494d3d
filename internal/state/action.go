package state

import (
	"github.com/patientor/patientor/internal/domain/diagnosis"
	"github.com/patientor/patientor/internal/domain/entry"
	"github.com/patientor/patientor/internal/domain/patient"
)

// Kind names an action for logging.
type Kind string

const (
	KindSetPatientList        Kind = "SET_PATIENT_LIST"
	KindAddPatient            Kind = "ADD_PATIENT"
	KindUpdatePatientFullData Kind = "UPDATE_PATIENT_FULL_DATA"
	KindAddDiagnosisEntry     Kind = "ADD_DIAGNOSIS_ENTRY"
	KindSetDiagnosisList      Kind = "SET_DIAGNOSIS_LIST"
)

// Action is anything that can be dispatched to a Store. Reduce ignores
// actions it does not recognise.
type Action interface {
	Kind() Kind
}

type SetPatientListAction struct {
	Patients []patient.Patient
}

type AddPatientAction struct {
	Patient patient.Patient
}

type UpdatePatientFullDataAction struct {
	Patient patient.Full
}

type AddDiagnosisEntryAction struct {
	PatientID string
	Entry     entry.Entry
}

type SetDiagnosisListAction struct {
	Diagnoses []diagnosis.Diagnosis
}

func (SetPatientListAction) Kind() Kind        { return KindSetPatientList }
func (AddPatientAction) Kind() Kind            { return KindAddPatient }
func (UpdatePatientFullDataAction) Kind() Kind { return KindUpdatePatientFullData }
func (AddDiagnosisEntryAction) Kind() Kind     { return KindAddDiagnosisEntry }
func (SetDiagnosisListAction) Kind() Kind      { return KindSetDiagnosisList }

func SetPatientList(list []patient.Patient) Action {
	return SetPatientListAction{Patients: list}
}

func AddPatient(p patient.Patient) Action {
	return AddPatientAction{Patient: p}
}

func UpdatePatientFullData(p patient.Full) Action {
	return UpdatePatientFullDataAction{Patient: p}
}

func AddDiagnosisEntry(patientID string, e entry.Entry) Action {
	return AddDiagnosisEntryAction{PatientID: patientID, Entry: e}
}

func SetDiagnosisList(list []diagnosis.Diagnosis) Action {
	return SetDiagnosisListAction{Diagnoses: list}
}
