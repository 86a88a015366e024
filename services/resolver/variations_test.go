package resolver

import "testing"

func TestGenerateVariations_PriorityOrder(t *testing.T) {
	q := Query{
		Title:      "Arijit Singh - Tum Hi Ho (Official Video) | Aashiqui 2",
		Artist:     "T-Series",
		DurationMs: 261000,
	}

	variations := GenerateVariations(q)

	expected := []Variation{
		{Title: "Arijit Singh - Tum Hi Ho", Artist: "T-Series", Strategy: StrategyExactMatch},
		{Title: "Arijit Singh - Tum Hi Ho", Artist: "T-Series", Strategy: StrategyFuzzySearch},
		{Title: "Tum Hi Ho", Artist: "T-Series", Strategy: StrategyFuzzySearch},
		{Title: "Arijit Singh - Tum Hi Ho", Strategy: StrategyFuzzyTitleOnly},
		{Title: "Tum Hi Ho", Artist: "Arijit Singh", Strategy: StrategyFuzzySearch},
		{Title: "Tum Hi Ho", Artist: "Arijit Singh", Strategy: StrategyExactMatch},
		{Title: "Tum Hi Ho", Strategy: StrategyFuzzyTitleOnly},
		{Title: "Arijit Singh - Tum Hi Ho (Official Video) | Aashiqui 2", Strategy: StrategyFuzzyTitleOnly},
	}

	if len(variations) != len(expected) {
		t.Fatalf("Expected %d variations, got %d: %+v", len(expected), len(variations), variations)
	}
	for i, want := range expected {
		if variations[i] != want {
			t.Errorf("Variation %d = %+v, want %+v", i, variations[i], want)
		}
	}
}

func TestGenerateVariations_CleanTitleNoDuplicates(t *testing.T) {
	// A title with nothing to strip collapses most steps into duplicates
	q := Query{Title: "Bohemian Rhapsody", Artist: "Queen"}

	variations := GenerateVariations(q)

	expected := []Variation{
		{Title: "Bohemian Rhapsody", Artist: "Queen", Strategy: StrategyExactMatch},
		{Title: "Bohemian Rhapsody", Artist: "Queen", Strategy: StrategyFuzzySearch},
		{Title: "Bohemian Rhapsody", Strategy: StrategyFuzzyTitleOnly},
	}

	if len(variations) != len(expected) {
		t.Fatalf("Expected %d variations, got %d: %+v", len(expected), len(variations), variations)
	}
	for i, want := range expected {
		if variations[i] != want {
			t.Errorf("Variation %d = %+v, want %+v", i, variations[i], want)
		}
	}
}

func TestGenerateVariations_FeatClauseFallback(t *testing.T) {
	q := Query{Title: "Some Song ft. Guest Artist", Artist: "Main Artist"}

	variations := GenerateVariations(q)

	want := Variation{Title: "Some Song", Artist: "Main Artist", Strategy: StrategyFuzzySearch}
	found := false
	for _, v := range variations {
		if v == want {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected feat-stripped variation %+v in %+v", want, variations)
	}

	// the feat-stripped query is the loosest fallback, so it comes last
	if variations[len(variations)-1] != want {
		t.Errorf("Expected feat-stripped variation last, got %+v", variations[len(variations)-1])
	}
}

func TestGenerateVariations_Dedup(t *testing.T) {
	q := Query{Title: "Hello (Official Video)", Artist: "Adele"}

	variations := GenerateVariations(q)

	seen := make(map[Variation]struct{})
	for _, v := range variations {
		if _, dup := seen[v]; dup {
			t.Fatalf("Duplicate variation: %+v", v)
		}
		seen[v] = struct{}{}
	}
}

func TestGenerateVariations_EmptyTitleSkipped(t *testing.T) {
	q := Query{Title: "", Artist: "Queen"}

	for _, v := range GenerateVariations(q) {
		if v.Title == "" {
			t.Fatalf("Variation with empty title generated: %+v", v)
		}
	}
}
