package patient

import (
	"sort"

	"github.com/cliniva/cliniva/internal/platform/textmatch"
)

// Search tuning. The weights bias matches toward the fields a receptionist
// is most likely typing; the thresholds cut off matches too distant to be
// useful.
const (
	fuzzyMinQueryLen    = 2
	fuzzyFieldThreshold = 0.4
	fuzzyItemCutoff     = 0.3

	weightName             = 0.4
	weightPatientID        = 0.3
	weightPhone            = 0.2
	weightEmergencyContact = 0.1
)

// Search runs the two-tier lookup over a doctor's patients. The substring
// pass is authoritative: when it finds anything, its results are returned
// and the fuzzy pass never runs. The fuzzy pass only catches typos when
// exact matching comes up empty.
func Search(patients []*Patient, query string) []*Patient {
	query = textmatch.Fold(query)
	if query == "" {
		return []*Patient{}
	}

	if results := substringPass(patients, query); len(results) > 0 {
		return results
	}
	return fuzzyPass(patients, query)
}

func substringPass(patients []*Patient, query string) []*Patient {
	results := []*Patient{}
	for _, p := range patients {
		if textmatch.ContainsFold(p.Name, query) ||
			textmatch.ContainsFold(p.PatientID, query) ||
			textmatch.ContainsFold(p.Phone, query) ||
			textmatch.ContainsFold(p.EmergencyContact.Name, query) ||
			textmatch.TokensContainedFold(p.Name, query) {
			results = append(results, p)
		}
	}

	// Exact name matches first, then names starting with the query, then
	// the rest alphabetically.
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := nameRank(results[i].Name, query), nameRank(results[j].Name, query)
		if ri != rj {
			return ri < rj
		}
		return textmatch.Fold(results[i].Name) < textmatch.Fold(results[j].Name)
	})
	return results
}

func nameRank(name, query string) int {
	folded := textmatch.Fold(name)
	switch {
	case folded == query:
		return 0
	case len(folded) >= len(query) && folded[:len(query)] == query:
		return 1
	default:
		return 2
	}
}

type scored struct {
	patient *Patient
	score   float64
}

func fuzzyPass(patients []*Patient, query string) []*Patient {
	if len([]rune(query)) < fuzzyMinQueryLen {
		return []*Patient{}
	}

	fields := func(p *Patient) []struct {
		value  string
		weight float64
	} {
		return []struct {
			value  string
			weight float64
		}{
			{p.Name, weightName},
			{p.PatientID, weightPatientID},
			{p.Phone, weightPhone},
			{p.EmergencyContact.Name, weightEmergencyContact},
		}
	}

	matches := []scored{}
	for _, p := range patients {
		best := -1.0
		for _, f := range fields(p) {
			raw := textmatch.Score(query, f.value)
			if raw > fuzzyFieldThreshold {
				continue
			}
			// Heavier fields tolerate more distance.
			adjusted := raw * (1 - f.weight)
			if best < 0 || adjusted < best {
				best = adjusted
			}
		}
		if best >= 0 && best <= fuzzyItemCutoff {
			matches = append(matches, scored{patient: p, score: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score < matches[j].score
		}
		return textmatch.Fold(matches[i].patient.Name) < textmatch.Fold(matches[j].patient.Name)
	})

	results := make([]*Patient, len(matches))
	for i, m := range matches {
		results[i] = m.patient
	}
	return results
}
