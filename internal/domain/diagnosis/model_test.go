package diagnosis

import "testing"

func TestLabel(t *testing.T) {
	d := Diagnosis{Code: "M24.2", Name: "Disorder of ligament"}
	if d.Label() != "M24.2 Disorder of ligament" {
		t.Errorf("unexpected label %q", d.Label())
	}
	if (Diagnosis{Code: "Z57.1"}).Label() != "Z57.1" {
		t.Error("expected bare code when name is empty")
	}
}

func TestSortByCode(t *testing.T) {
	list := []Diagnosis{{Code: "Z57.1"}, {Code: "M24.2"}, {Code: "J10.1"}}
	SortByCode(list)
	if list[0].Code != "J10.1" || list[2].Code != "Z57.1" {
		t.Errorf("unexpected order: %v", list)
	}
}

func TestResolve_KeepsOrderAndUnknownCodes(t *testing.T) {
	known := map[string]Diagnosis{
		"M24.2": {Code: "M24.2", Name: "Disorder of ligament"},
	}
	got := Resolve([]string{"Z99", "M24.2"}, known)
	if len(got) != 2 {
		t.Fatalf("expected 2 diagnoses, got %d", len(got))
	}
	if got[0].Code != "Z99" || got[0].Name != "" {
		t.Errorf("expected unknown code passthrough, got %+v", got[0])
	}
	if got[1].Name != "Disorder of ligament" {
		t.Errorf("expected resolved name, got %+v", got[1])
	}
}
