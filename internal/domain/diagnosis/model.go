package diagnosis

import "sort"

// Diagnosis is a code from the diagnosis catalogue (ICD-10 style). It never
// changes once fetched.
type Diagnosis struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Latin *string `json:"latin,omitempty"`
}

// Label renders the diagnosis the way it appears in pickers: "code name".
func (d Diagnosis) Label() string {
	if d.Name == "" {
		return d.Code
	}
	return d.Code + " " + d.Name
}

// SortByCode orders diagnoses by code in place.
func SortByCode(list []Diagnosis) {
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
}

// Resolve looks each code up in known, keeping the order of codes. Unknown
// codes are returned with an empty name.
func Resolve(codes []string, known map[string]Diagnosis) []Diagnosis {
	out := make([]Diagnosis, 0, len(codes))
	for _, code := range codes {
		if d, ok := known[code]; ok {
			out = append(out, d)
			continue
		}
		out = append(out, Diagnosis{Code: code})
	}
	return out
}
