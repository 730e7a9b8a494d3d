package render

import (
	"fmt"

	"github.com/patientor/patientor/internal/domain/entry"
)

// Icon names follow the Semantic UI icon set used by the web client.
type Icon struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type VariantKind string

const (
	VariantHospital     VariantKind = "hospital"
	VariantOccupational VariantKind = "occupational"
	VariantHealthCheck  VariantKind = "healthcheck"
)

// Variant is the display card for a single entry.
type Variant struct {
	Kind        VariantKind `json:"kind"`
	EntryID     string      `json:"entry_id"`
	Date        string      `json:"date"`
	Icon        Icon        `json:"icon"`
	Description string      `json:"description"`
	Rating      *Icon       `json:"rating,omitempty"`
}

// unreachable is the exhaustiveness guard for closed switches.
func unreachable(what string, v interface{}) {
	panic(fmt.Sprintf("unhandled %s: %#v", what, v))
}

// Entry selects the display variant for e. Every entry type must have a case;
// anything else panics.
func Entry(e entry.Entry) Variant {
	switch e := e.(type) {
	case entry.HospitalEntry:
		return Variant{
			Kind:        VariantHospital,
			EntryID:     e.ID,
			Date:        e.Date,
			Icon:        Icon{Name: "hospital symbol"},
			Description: e.Description,
		}
	case entry.OccupationalHealthcareEntry:
		return Variant{
			Kind:        VariantOccupational,
			EntryID:     e.ID,
			Date:        e.Date,
			Icon:        Icon{Name: "stethoscope"},
			Description: e.Description,
		}
	case entry.HealthCheckEntry:
		rating := Rating(e.HealthCheckRating)
		return Variant{
			Kind:        VariantHealthCheck,
			EntryID:     e.ID,
			Date:        e.Date,
			Icon:        Icon{Name: "user md"},
			Description: e.Description,
			Rating:      &rating,
		}
	}
	unreachable("entry type", e)
	return Variant{}
}

// Rating maps a health-check rating to its severity icon. Ratings outside
// 0..3 panic.
func Rating(r entry.HealthCheckRating) Icon {
	switch r {
	case entry.Healthy:
		return Icon{Name: "heart", Color: "red"}
	case entry.LowRisk:
		return Icon{Name: "heart", Color: "yellow"}
	case entry.HighRisk:
		return Icon{Name: "heart", Color: "black"}
	case entry.CriticalRisk:
		return Icon{Name: "ambulance"}
	}
	unreachable("health rating", r)
	return Icon{}
}
