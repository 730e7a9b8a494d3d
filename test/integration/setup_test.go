package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/patientor/patientor/internal/domain/diagnosis"
	"github.com/patientor/patientor/internal/domain/entry"
	"github.com/patientor/patientor/internal/domain/patient"
	"github.com/patientor/patientor/internal/handler"
	"github.com/patientor/patientor/internal/platform/apiclient"
	"github.com/patientor/patientor/internal/platform/middleware"
	"github.com/patientor/patientor/internal/session"
	"github.com/patientor/patientor/internal/state"
)

// patientAPI is an in-memory stand-in for the external patient API. It
// checks drafts the way the real server does and answers errors as
// {"error": "..."}.
type patientAPI struct {
	mu        sync.Mutex
	patients  map[string]*patient.Full
	diagnoses []diagnosis.Diagnosis
	gets      int
}

func newPatientAPI() *patientAPI {
	return &patientAPI{
		patients: map[string]*patient.Full{
			"d2773336-f723-11e9-8f0b-362b9e155667": {
				Patient: patient.Patient{
					ID: "d2773336-f723-11e9-8f0b-362b9e155667", Name: "John McClane",
					Occupation: "New york city cop", Gender: patient.GenderMale,
				},
				SSN: "090786-122X", DateOfBirth: "1986-07-09",
				Entries: entry.List{
					entry.HospitalEntry{
						Base: entry.Base{
							ID: "d811e46d-70b3-4d90-b090-4535c7cf8fb1", Date: "2015-01-02",
							Specialist: "MD House", Description: "Healing time appr. 2 weeks.",
							DiagnosisCodes: []string{"S62.5"},
						},
						Discharge: entry.Discharge{Date: "2015-01-16", Criteria: "Thumb has healed."},
					},
				},
			},
			"d2773598-f723-11e9-8f0b-362b9e155667": {
				Patient: patient.Patient{
					ID: "d2773598-f723-11e9-8f0b-362b9e155667", Name: "Martin Riggs",
					Occupation: "Cop", Gender: patient.GenderMale,
				},
				SSN: "300179-77A", DateOfBirth: "1979-01-30",
			},
		},
		diagnoses: []diagnosis.Diagnosis{
			{Code: "M24.2", Name: "Disorder of ligament", Latin: strPtr("Morbositas ligamenti")},
			{Code: "S62.5", Name: "Fracture of thumb", Latin: strPtr("Fractura [ossis] pollicis")},
			{Code: "Z57.1", Name: "Occupational exposure to radiation"},
		},
	}
}

func strPtr(s string) *string { return &s }

func (a *patientAPI) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/diagnoses", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		writeJSON(w, http.StatusOK, a.diagnoses)
	})
	mux.HandleFunc("/api/patients", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			a.listPatients(w)
		case http.MethodPost:
			a.createPatient(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/patients/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/patients/")
		id, tail, _ := strings.Cut(rest, "/")
		switch {
		case tail == "" && r.Method == http.MethodGet:
			a.getPatient(w, id)
		case tail == "entries" && r.Method == http.MethodPost:
			a.addEntry(w, r, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	return mux
}

func (a *patientAPI) listPatients(w http.ResponseWriter) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]patient.Patient, 0, len(a.patients))
	for _, p := range a.patients {
		out = append(out, p.Summary())
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *patientAPI) getCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gets
}

func (a *patientAPI) getPatient(w http.ResponseWriter, id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gets++
	p, ok := a.patients[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "patient not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *patientAPI) createPatient(w http.ResponseWriter, r *http.Request) {
	var np patient.NewPatient
	if err := json.NewDecoder(r.Body).Decode(&np); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformatted body"})
		return
	}
	if err := np.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	p := &patient.Full{
		Patient:     patient.Patient{ID: uuid.NewString(), Name: np.Name, Occupation: np.Occupation, Gender: np.Gender},
		SSN:         np.SSN,
		DateOfBirth: np.DateOfBirth,
	}
	a.patients[p.ID] = p
	writeJSON(w, http.StatusOK, p.Summary())
}

func (a *patientAPI) addEntry(w http.ResponseWriter, r *http.Request, id string) {
	var d entry.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformatted body"})
		return
	}
	if errs := entry.Validate(d); !errs.Valid() {
		field := errs.Fields()[0]
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("Incorrect or missing %s", field),
		})
		return
	}
	if d.Specialist == "Dr. Nobody" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown specialist"})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.patients[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "patient not found"})
		return
	}

	base := entry.Base{
		ID: uuid.NewString(), Date: d.Date, Description: d.Description,
		Specialist: d.Specialist, DiagnosisCodes: d.DiagnosisCodes,
	}
	var e entry.Entry
	switch d.Type {
	case entry.TypeHealthCheck:
		e = entry.HealthCheckEntry{Base: base, HealthCheckRating: *d.HealthCheckRating}
	case entry.TypeHospital:
		e = entry.HospitalEntry{Base: base, Discharge: *d.Discharge}
	case entry.TypeOccupationalHealthcare:
		oe := entry.OccupationalHealthcareEntry{Base: base, EmployerName: d.EmployerName}
		if !d.SickLeave.Blank() {
			oe.SickLeave = d.SickLeave
		}
		e = oe
	}
	p.Entries = append(p.Entries, e)
	writeJSON(w, http.StatusOK, e)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// stack is a fully wired front end talking to its own fake patient API.
type stack struct {
	api  *patientAPI
	svc  *session.Service
	echo *echo.Echo
}

func newStack(t *testing.T) *stack {
	t.Helper()
	api := newPatientAPI()
	upstream := httptest.NewServer(api.routes())
	t.Cleanup(upstream.Close)

	logger := zerolog.Nop()
	client := apiclient.New(apiclient.Config{
		BaseURL: upstream.URL + "/api",
		Timeout: 5 * time.Second,
	}, logger)
	svc := session.NewService(state.NewStore(state.New(), logger), client, logger)

	e := echo.New()
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit("1M"))
	handler.NewHandler(svc, logger).RegisterRoutes(e.Group("/api"))
	return &stack{api: api, svc: svc, echo: e}
}

func (s *stack) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}
