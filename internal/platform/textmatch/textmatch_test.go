package textmatch

import "testing"

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Rakesh Gupta", "rAKesh") {
		t.Error("expected case-insensitive substring match")
	}
	if ContainsFold("Rakesh Gupta", "sharma") {
		t.Error("did not expect a match")
	}
}

func TestTokensContainedFold(t *testing.T) {
	if !TokensContainedFold("Gupta, Rakesh", "Rakesh Gupta") {
		t.Error("expected order-insensitive token match")
	}
	if TokensContainedFold("Rakesh Gupta", "Rakesh Sharma") {
		t.Error("did not expect a match when one token is absent")
	}
	if TokensContainedFold("Rakesh Gupta", "   ") {
		t.Error("blank query must not match")
	}
}

func TestEscapeQuery(t *testing.T) {
	escaped := EscapeQuery("a+b(c")
	if escaped != `a\+b\(c` {
		t.Errorf("unexpected escape result %q", escaped)
	}
}

func TestDigitRun(t *testing.T) {
	if got := DigitRun("(982) 555-0147"); got != "9825550147" {
		t.Errorf("expected digit run 9825550147, got %q", got)
	}
	if got := DigitRun("rakesh"); got != "" {
		t.Errorf("expected empty digit run, got %q", got)
	}
}

func TestScore_ExactAndClose(t *testing.T) {
	if got := Score("rakesh", "Rakesh"); got != 0 {
		t.Errorf("expected 0 for exact match, got %f", got)
	}

	close := Score("rakes", "Rakesh Gupta")
	far := Score("zzzzz", "Rakesh Gupta")
	if close >= far {
		t.Errorf("expected close query to score lower: close=%f far=%f", close, far)
	}
}

func TestScore_TokenLevel(t *testing.T) {
	// Token-level scoring: "gupta" against the second token beats scoring
	// against the whole name.
	if got := Score("gupta", "Rakesh Gupta"); got != 0 {
		t.Errorf("expected token-level exact match, got %f", got)
	}
}
