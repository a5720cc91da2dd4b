package classify

import "testing"

func TestClassify(t *testing.T) {
	var cases = []struct {
		about string
		types []string
		title string
		want  string
	}{
		{"precedence", []string{"Review", "Meta-Analysis"}, "Something", MetaAnalysis},
		{"rct over observational", []string{"Comparative Study", "Randomized Controlled Trial"}, "", RCT},
		{"guideline over review", []string{"Review", "Practice Guideline"}, "", Guideline},
		{"editorial over observational", []string{"Case Reports", "Letter"}, "", Editorial},
		{"case insensitive types", []string{"  systematic   REVIEW "}, "", Review},
		{"title fallback rct", nil, "A Randomized Controlled Trial of X", RCT},
		{"unknown types fall through to title", []string{"Journal Article"}, "Outcomes: a retrospective cohort", Observational},
		{"types beat title", []string{"Editorial"}, "A meta-analysis of everything", Editorial},
		{"title meta-analysis first", nil, "Systematic review and meta-analysis of RCTs", MetaAnalysis},
		{"title guideline", nil, "2024 Consensus statement on airway management", Guideline},
		{"title review", nil, "Regional anesthesia: a narrative review", Review},
		{"title reply", nil, "Reply to Smith et al.", Editorial},
		{"title british spelling", nil, "A randomised trial", RCT},
		{"nothing", nil, "Anesthesia and the brain", Unclassified},
		{"empty", nil, "", Unclassified},
	}
	for _, c := range cases {
		if got := Classify(c.types, c.title); got != c.want {
			t.Errorf("%s: got %q, want %q", c.about, got, c.want)
		}
	}
}

func TestCategoriesCoverTable(t *testing.T) {
	known := make(map[string]bool)
	for _, c := range Categories {
		known[c] = true
	}
	for k, v := range publicationTypes {
		if !known[v] {
			t.Errorf("type %q maps to unknown category %q", k, v)
		}
	}
	for _, r := range titleRules {
		if !known[r.category] {
			t.Errorf("rule %s maps to unknown category %q", r.re, r.category)
		}
	}
	if len(precedence) != len(Categories)-1 {
		t.Errorf("precedence should cover all categories but Unclassified")
	}
}
