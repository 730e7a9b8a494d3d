package entry

import "encoding/json"

// Draft is an entry payload that has not been assigned an id yet. It carries
// the fields of every variant; which of them are meaningful depends on Type.
// HealthCheckRating is a pointer so that "not chosen" and Healthy (0) stay
// distinguishable.
type Draft struct {
	Type              Type               `json:"type"`
	Date              string             `json:"date"`
	Description       string             `json:"description"`
	Specialist        string             `json:"specialist"`
	DiagnosisCodes    []string           `json:"diagnosisCodes,omitempty"`
	HealthCheckRating *HealthCheckRating `json:"healthCheckRating,omitempty"`
	Discharge         *Discharge         `json:"discharge,omitempty"`
	EmployerName      string             `json:"employerName,omitempty"`
	SickLeave         *SickLeave         `json:"sickLeave,omitempty"`
}

// Rating returns a pointer to r, for filling Draft.HealthCheckRating.
func Rating(r HealthCheckRating) *HealthCheckRating {
	return &r
}

// Clone returns a deep copy of d.
func (d Draft) Clone() Draft {
	cp := d
	if d.DiagnosisCodes != nil {
		cp.DiagnosisCodes = append([]string(nil), d.DiagnosisCodes...)
	}
	if d.HealthCheckRating != nil {
		r := *d.HealthCheckRating
		cp.HealthCheckRating = &r
	}
	if d.Discharge != nil {
		dis := *d.Discharge
		cp.Discharge = &dis
	}
	if d.SickLeave != nil {
		sl := *d.SickLeave
		cp.SickLeave = &sl
	}
	return cp
}

// MarshalJSON writes only the fields that belong to the draft's variant, which
// is the body shape the patient API expects. A blank sick leave is omitted.
func (d Draft) MarshalJSON() ([]byte, error) {
	body := map[string]interface{}{
		"type":        d.Type,
		"date":        d.Date,
		"description": d.Description,
		"specialist":  d.Specialist,
	}
	if len(d.DiagnosisCodes) > 0 {
		body["diagnosisCodes"] = d.DiagnosisCodes
	}
	switch d.Type {
	case TypeHealthCheck:
		if d.HealthCheckRating != nil {
			body["healthCheckRating"] = int(*d.HealthCheckRating)
		}
	case TypeHospital:
		if d.Discharge != nil {
			body["discharge"] = d.Discharge
		}
	case TypeOccupationalHealthcare:
		body["employerName"] = d.EmployerName
		if !d.SickLeave.Blank() {
			body["sickLeave"] = d.SickLeave
		}
	}
	return json.Marshal(body)
}
