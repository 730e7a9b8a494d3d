package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/patientor/patientor/internal/domain/diagnosis"
	"github.com/patientor/patientor/internal/domain/entry"
	"github.com/patientor/patientor/internal/domain/patient"
	"github.com/patientor/patientor/internal/form"
	"github.com/patientor/patientor/internal/state"
)

// ErrPatientNotLoaded is returned when an entry is submitted for a patient
// whose full record is not in the cache.
var ErrPatientNotLoaded = errors.New("patient not loaded")

// PatientAPI is the part of the external patient API the session uses.
type PatientAPI interface {
	ListPatients(ctx context.Context) ([]patient.Patient, error)
	GetPatient(ctx context.Context, id string) (*patient.Full, error)
	CreatePatient(ctx context.Context, np patient.NewPatient) (*patient.Patient, error)
	AddEntry(ctx context.Context, id string, d entry.Draft) (entry.Entry, error)
	ListDiagnoses(ctx context.Context) ([]diagnosis.Diagnosis, error)
}

// Service runs the fetch-and-dispatch flows on top of a Store.
type Service struct {
	store  *state.Store
	api    PatientAPI
	logger zerolog.Logger
}

func NewService(store *state.Store, api PatientAPI, logger zerolog.Logger) *Service {
	return &Service{store: store, api: api, logger: logger}
}

func (s *Service) Store() *state.Store { return s.store }

// Load fills the patient list and the diagnosis catalogue. A failed fetch is
// logged and leaves its part of the cache as it was; the failures are
// returned joined.
func (s *Service) Load(ctx context.Context) error {
	var errs []error

	patients, err := s.api.ListPatients(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch patient list")
		errs = append(errs, err)
	} else {
		s.store.Dispatch(state.SetPatientList(patients))
	}

	diagnoses, err := s.api.ListDiagnoses(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch diagnosis list")
		errs = append(errs, err)
	} else {
		s.store.Dispatch(state.SetDiagnosisList(diagnoses))
	}

	return errors.Join(errs...)
}

// OpenPatient returns the full record for id, fetching it only when it is not
// cached yet. A fetch failure is logged, leaves the cache unchanged and is
// returned to the caller.
func (s *Service) OpenPatient(ctx context.Context, id string) (patient.Full, error) {
	if p, ok := s.store.State().Patient(id); ok {
		return p, nil
	}

	fetched, err := s.api.GetPatient(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("patient_id", id).Msg("failed to fetch patient")
		return patient.Full{}, fmt.Errorf("open patient %s: %w", id, err)
	}

	// Another request may have loaded (and appended to) the record while
	// this fetch was in flight.
	if p, ok := s.store.State().Patient(id); ok {
		return p, nil
	}
	next := s.store.Dispatch(state.UpdatePatientFullData(*fetched))
	p, _ := next.Patient(id)
	return p, nil
}

// AddPatient validates and creates a patient, then adds it to the list.
func (s *Service) AddPatient(ctx context.Context, np patient.NewPatient) (patient.Patient, error) {
	if err := np.Validate(); err != nil {
		return patient.Patient{}, err
	}
	created, err := s.api.CreatePatient(ctx, np)
	if err != nil {
		return patient.Patient{}, err
	}
	s.store.Dispatch(state.AddPatient(*created))
	return *created, nil
}

// SubmitEntry submits f for patientID. On success the created entry is
// appended to the cached record; on failure the form keeps its draft and
// shows the server's message.
func (s *Service) SubmitEntry(ctx context.Context, patientID string, f *form.EntryForm) (entry.Entry, error) {
	if _, ok := s.store.State().Patient(patientID); !ok {
		return nil, fmt.Errorf("submit entry for %s: %w", patientID, ErrPatientNotLoaded)
	}

	var created entry.Entry
	err := f.Submit(ctx, func(ctx context.Context, d entry.Draft) error {
		e, err := s.api.AddEntry(ctx, patientID, d)
		if err != nil {
			return err
		}
		created = e
		return nil
	})
	if err != nil {
		if !errors.Is(err, form.ErrNotSubmittable) {
			s.logger.Warn().Err(err).Str("patient_id", patientID).Msg("entry submission rejected")
		}
		return nil, err
	}

	s.store.Dispatch(state.AddDiagnosisEntry(patientID, created))
	s.logger.Info().
		Str("patient_id", patientID).
		Str("entry_id", created.Info().ID).
		Str("type", string(created.EntryType())).
		Msg("entry added")
	return created, nil
}
