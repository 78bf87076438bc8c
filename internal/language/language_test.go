package language

import "testing"

func TestResolveCatalogVoice(t *testing.T) {
	target, err := Resolve("pt", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if target.Voice != "pt-BR-FranciscaNeural" {
		t.Fatalf("voice = %q", target.Voice)
	}
	if target.TranslateCode != "pt" {
		t.Fatalf("translate code = %q", target.TranslateCode)
	}
	if target.DisplayName != "Portuguese" {
		t.Fatalf("display name = %q", target.DisplayName)
	}
}

func TestResolveGenderSuffix(t *testing.T) {
	target, err := Resolve("es-m", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if target.Voice != "es-MX-JorgeNeural" {
		t.Fatalf("voice = %q", target.Voice)
	}
	if target.TranslateCode != "es" {
		t.Fatalf("translate code = %q, want bare prefix", target.TranslateCode)
	}
}

func TestResolveOverrideWins(t *testing.T) {
	target, err := Resolve("fr", map[string]string{"fr": "fr-CA-SylvieNeural"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if target.Voice != "fr-CA-SylvieNeural" {
		t.Fatalf("voice = %q, want override", target.Voice)
	}
}

func TestResolveUnknownPrefixFallsBack(t *testing.T) {
	target, err := Resolve("nl", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if target.Voice != fallbackVoice {
		t.Fatalf("voice = %q, want fallback", target.Voice)
	}
}

func TestResolveRejectsGarbage(t *testing.T) {
	if _, err := Resolve("", nil); err == nil {
		t.Fatal("expected error for empty code")
	}
	if _, err := Resolve("zzz9", nil); err == nil {
		t.Fatal("expected error for unparseable code")
	}
}

func TestSupportedIsSortedAndComplete(t *testing.T) {
	targets := Supported()
	if len(targets) != len(voiceCatalog) {
		t.Fatalf("got %d targets, want %d", len(targets), len(voiceCatalog))
	}
	for i := 1; i < len(targets); i++ {
		if targets[i-1].Code >= targets[i].Code {
			t.Fatalf("targets out of order at %d: %q >= %q", i, targets[i-1].Code, targets[i].Code)
		}
	}
}
