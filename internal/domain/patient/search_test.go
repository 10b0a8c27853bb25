package patient

import "testing"

func named(name, patientID, phone, ecName string) *Patient {
	return &Patient{
		Name:             name,
		PatientID:        patientID,
		Phone:            phone,
		EmergencyContact: EmergencyContact{Name: ecName},
	}
}

func names(patients []*Patient) []string {
	out := make([]string, len(patients))
	for i, p := range patients {
		out[i] = p.Name
	}
	return out
}

func TestSearch_SubstringByEachField(t *testing.T) {
	patients := []*Patient{
		named("Rakesh Gupta", "P25080001", "9825550147", "Sunita Gupta"),
		named("Meena Shah", "P25080002", "9825550222", "Kiran Shah"),
	}

	cases := []struct {
		query string
		want  string
	}{
		{"rakesh", "Rakesh Gupta"},
		{"P25080002", "Meena Shah"},
		{"0147", "Rakesh Gupta"},
		{"kiran", "Meena Shah"},
	}
	for _, tc := range cases {
		got := Search(patients, tc.query)
		if len(got) != 1 || got[0].Name != tc.want {
			t.Errorf("Search(%q) = %v, want [%s]", tc.query, names(got), tc.want)
		}
	}
}

func TestSearch_TokensMatchNameInAnyOrder(t *testing.T) {
	patients := []*Patient{
		named("Rakesh Gupta", "P25080001", "9825550147", ""),
		named("Rakesh Verma", "P25080002", "9825550222", ""),
	}

	got := Search(patients, "gupta rakesh")
	if len(got) != 1 || got[0].Name != "Rakesh Gupta" {
		t.Errorf("expected token query to match Rakesh Gupta only, got %v", names(got))
	}
}

func TestSearch_OrderingExactThenPrefixThenAlpha(t *testing.T) {
	patients := []*Patient{
		named("Annika Rao", "P1", "1", ""),
		named("Ann", "P2", "2", ""),
		named("Joanne Dias", "P3", "3", ""),
		named("Anna Mathew", "P4", "4", ""),
	}

	got := names(Search(patients, "ann"))
	want := []string{"Ann", "Anna Mathew", "Annika Rao", "Joanne Dias"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSearch_SubstringIsAuthoritativeOverFuzzy(t *testing.T) {
	patients := []*Patient{
		named("Rakesh Gupta", "P1", "1", ""),
		// Close in edit distance to "rakes" but no substring match.
		named("Rakas Iyer", "P2", "2", ""),
	}

	got := Search(patients, "rakes")
	if len(got) != 1 || got[0].Name != "Rakesh Gupta" {
		t.Errorf("expected substring pass to win, got %v", names(got))
	}
}

func TestSearch_FuzzyCatchesTypo(t *testing.T) {
	patients := []*Patient{
		named("Rakesh Gupta", "P25080001", "9825550147", ""),
		named("Meena Shah", "P25080002", "9825550222", ""),
	}

	// "rakseh" is a transposition of "rakesh": no substring match anywhere,
	// so the fuzzy pass must find it.
	got := Search(patients, "rakseh")
	if len(got) != 1 || got[0].Name != "Rakesh Gupta" {
		t.Errorf("expected fuzzy match for typo, got %v", names(got))
	}
}

func TestSearch_FuzzyCutoffExcludesDistantMatches(t *testing.T) {
	patients := []*Patient{
		named("Meena Shah", "P25080002", "9825550222", ""),
	}

	got := Search(patients, "xyzqw")
	if len(got) != 0 {
		t.Errorf("expected no matches for unrelated query, got %v", names(got))
	}
}

func TestSearch_ShortQuerySkipsFuzzy(t *testing.T) {
	patients := []*Patient{
		named("Meena Shah", "P25080002", "9825550222", ""),
	}

	// One character is below the fuzzy minimum; with no substring match the
	// result is empty rather than a noisy edit-distance guess.
	if got := Search(patients, "x"); len(got) != 0 {
		t.Errorf("expected no matches, got %v", names(got))
	}
	// But a single character still matches as a substring.
	if got := Search(patients, "m"); len(got) != 1 {
		t.Errorf("expected substring match, got %v", names(got))
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	patients := []*Patient{named("Meena Shah", "P1", "1", "")}
	if got := Search(patients, "  "); len(got) != 0 {
		t.Errorf("expected no matches for blank query, got %v", names(got))
	}
}
