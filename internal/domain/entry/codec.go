package entry

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownType is returned when a payload carries a type tag outside the
// three known entry variants.
var ErrUnknownType = errors.New("unknown entry type")

// ErrInvalidRating is returned when a health check payload carries a rating
// outside 0..3.
var ErrInvalidRating = errors.New("invalid health check rating")

// Decode unmarshals a single tagged entry payload into its concrete variant.
func Decode(data []byte) (Entry, error) {
	var head struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}

	switch head.Type {
	case TypeHealthCheck:
		var e HealthCheckEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s entry: %w", head.Type, err)
		}
		if !e.HealthCheckRating.Valid() {
			return nil, fmt.Errorf("decode %s entry: %w: %d", head.Type, ErrInvalidRating, int(e.HealthCheckRating))
		}
		return e, nil
	case TypeHospital:
		var e HospitalEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s entry: %w", head.Type, err)
		}
		return e, nil
	case TypeOccupationalHealthcare:
		var e OccupationalHealthcareEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s entry: %w", head.Type, err)
		}
		return e, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, head.Type)
}

// List is an ordered sequence of entries that round-trips through JSON with
// its type tags intact.
type List []Entry

func (l *List) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode entries: %w", err)
	}
	if raw == nil {
		*l = nil
		return nil
	}
	out := make(List, 0, len(raw))
	for i, r := range raw {
		e, err := Decode(r)
		if err != nil {
			return fmt.Errorf("entries[%d]: %w", i, err)
		}
		out = append(out, e)
	}
	*l = out
	return nil
}
