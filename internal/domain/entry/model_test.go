package entry

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDecode_Hospital(t *testing.T) {
	raw := `{"id":"e1","type":"Hospital","date":"2015-01-02","specialist":"MD House",
		"description":"Healing time appr. 2 weeks.","diagnosisCodes":["S62.5"],
		"discharge":{"date":"2015-01-16","criteria":"Thumb has healed."}}`
	e, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, ok := e.(HospitalEntry)
	if !ok {
		t.Fatalf("expected HospitalEntry, got %T", e)
	}
	if h.ID != "e1" || h.Discharge.Criteria != "Thumb has healed." {
		t.Errorf("unexpected entry: %+v", h)
	}
	if len(h.DiagnosisCodes) != 1 || h.DiagnosisCodes[0] != "S62.5" {
		t.Errorf("unexpected diagnosis codes: %v", h.DiagnosisCodes)
	}
}

func TestDecode_OccupationalWithoutSickLeave(t *testing.T) {
	raw := `{"id":"e2","type":"OccupationalHealthcare","date":"2019-08-05","specialist":"MD House",
		"description":"Potential burnout","employerName":"HyPD"}`
	e, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := e.(OccupationalHealthcareEntry)
	if o.SickLeave != nil {
		t.Errorf("expected nil sick leave, got %+v", o.SickLeave)
	}
	if o.EntryType() != TypeOccupationalHealthcare {
		t.Errorf("unexpected type %s", o.EntryType())
	}
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"id":"x","type":"Dental"}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestDecode_RatingOutOfRange(t *testing.T) {
	raw := `{"id":"e4","type":"HealthCheck","date":"2019-10-20","specialist":"MD House",
		"description":"Yearly control visit.","healthCheckRating":7}`
	e, err := Decode([]byte(raw))
	if !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v (%+v)", err, e)
	}
	if e != nil {
		t.Errorf("expected no entry, got %+v", e)
	}
}

func TestList_UnmarshalJSON_RatingOutOfRange(t *testing.T) {
	var l List
	err := json.Unmarshal([]byte(`[{"id":"e5","type":"HealthCheck","healthCheckRating":-1}]`), &l)
	if !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
}

func TestMarshal_IncludesTypeTag(t *testing.T) {
	e := HealthCheckEntry{
		Base:              Base{ID: "e3", Date: "2019-10-20", Description: "Yearly control visit.", Specialist: "MD House"},
		HealthCheckRating: Healthy,
	}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"type":"HealthCheck"`) {
		t.Errorf("expected type tag in %s", s)
	}
	if !strings.Contains(s, `"healthCheckRating":0`) {
		t.Errorf("expected zero rating to be written in %s", s)
	}

	back, err := Decode(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.(HealthCheckEntry).Info().ID != "e3" {
		t.Errorf("expected id e3, got %+v", back)
	}
}

func TestList_UnmarshalJSON(t *testing.T) {
	raw := `[{"id":"a","type":"HealthCheck","date":"2019-10-20","specialist":"x","description":"y","healthCheckRating":1},
		{"id":"b","type":"Hospital","date":"2015-01-02","specialist":"x","description":"y","discharge":{"date":"2015-01-16","criteria":"ok"}}]`
	var l List
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(l))
	}
	if l[0].EntryType() != TypeHealthCheck || l[1].EntryType() != TypeHospital {
		t.Errorf("unexpected order: %s, %s", l[0].EntryType(), l[1].EntryType())
	}
}

func TestList_UnmarshalJSON_BadEntry(t *testing.T) {
	var l List
	err := json.Unmarshal([]byte(`[{"id":"a","type":"Nope"}]`), &l)
	if err == nil || !strings.Contains(err.Error(), "entries[0]") {
		t.Fatalf("expected indexed error, got %v", err)
	}
}

func TestDraft_MarshalJSON_VariantShape(t *testing.T) {
	d := Draft{
		Type:              TypeHospital,
		Date:              "2020-01-01",
		Description:       "d",
		Specialist:        "s",
		HealthCheckRating: Rating(HighRisk),
		Discharge:         &Discharge{Date: "2020-01-05", Criteria: "ok"},
		EmployerName:      "Acme",
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(b, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := body["discharge"]; !ok {
		t.Error("expected discharge in hospital draft")
	}
	for _, k := range []string{"healthCheckRating", "employerName", "sickLeave", "id"} {
		if _, ok := body[k]; ok {
			t.Errorf("did not expect %s in hospital draft body", k)
		}
	}
}

func TestDraft_MarshalJSON_OmitsBlankSickLeave(t *testing.T) {
	d := Draft{Type: TypeOccupationalHealthcare, EmployerName: "Acme", SickLeave: &SickLeave{}}
	b, _ := json.Marshal(d)
	if strings.Contains(string(b), "sickLeave") {
		t.Errorf("expected blank sick leave to be omitted, got %s", b)
	}
}

func TestDraft_Clone_Independent(t *testing.T) {
	d := Draft{DiagnosisCodes: []string{"Z57.1"}, Discharge: &Discharge{Date: "a"}, HealthCheckRating: Rating(LowRisk)}
	cp := d.Clone()
	cp.DiagnosisCodes[0] = "changed"
	cp.Discharge.Date = "b"
	*cp.HealthCheckRating = CriticalRisk
	if d.DiagnosisCodes[0] != "Z57.1" || d.Discharge.Date != "a" || *d.HealthCheckRating != LowRisk {
		t.Errorf("clone shares memory with original: %+v", d)
	}
}

func TestHealthCheckRating_String(t *testing.T) {
	if CriticalRisk.String() != "CriticalRisk" {
		t.Errorf("unexpected %s", CriticalRisk)
	}
	if HealthCheckRating(9).Valid() {
		t.Error("expected 9 to be out of range")
	}
}
