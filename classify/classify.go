// Package classify assigns dashboard categories to articles. PubMed
// publication types are trusted over title heuristics.
package classify

import (
	"regexp"

	"github.com/miku/tocfeed/normal"
)

// Categories, as shown on the dashboard.
const (
	MetaAnalysis  = "Meta-analysis"
	RCT           = "Randomized Controlled Trial"
	Observational = "Observational Study"
	Guideline     = "Guideline/Consensus"
	Review        = "Review"
	Editorial     = "Editorial/Commentary"
	Unclassified  = "Unclassified"
)

// Categories lists all categories in display order.
var Categories = []string{
	MetaAnalysis,
	RCT,
	Observational,
	Guideline,
	Review,
	Editorial,
	Unclassified,
}

// precedence resolves conflicts between publication types, first wins.
var precedence = []string{
	MetaAnalysis,
	RCT,
	Guideline,
	Review,
	Editorial,
	Observational,
}

// publicationTypes maps lowercased PubMed publication types to categories.
// Types not listed, e.g. "Journal Article", carry no signal.
var publicationTypes = map[string]string{
	"meta-analysis":                         MetaAnalysis,
	"network meta-analysis":                 MetaAnalysis,
	"randomized controlled trial":           RCT,
	"controlled clinical trial":             RCT,
	"pragmatic clinical trial":              RCT,
	"equivalence trial":                     RCT,
	"clinical trial":                        RCT,
	"clinical trial, phase i":               RCT,
	"clinical trial, phase ii":              RCT,
	"clinical trial, phase iii":             RCT,
	"clinical trial, phase iv":              RCT,
	"adaptive clinical trial":               RCT,
	"guideline":                             Guideline,
	"practice guideline":                    Guideline,
	"consensus development conference":      Guideline,
	"consensus development conference, nih": Guideline,
	"review":                                Review,
	"systematic review":                     Review,
	"scoping review":                        Review,
	"editorial":                             Editorial,
	"comment":                               Editorial,
	"letter":                                Editorial,
	"news":                                  Editorial,
	"observational study":                   Observational,
	"comparative study":                     Observational,
	"case reports":                          Observational,
	"validation study":                      Observational,
	"evaluation study":                      Observational,
}

// rule is a title heuristic.
type rule struct {
	re       *regexp.Regexp
	category string
}

// titleRules are tried in order, first match wins.
var titleRules = []rule{
	{regexp.MustCompile(`(?i)\bmeta[- ]?analy(sis|ses|tic)\b`), MetaAnalysis},
	{regexp.MustCompile(`(?i)\brandomi[sz]ed\b|\bcontrolled trial\b|\brct\b|\bclinical trial\b`), RCT},
	{regexp.MustCompile(`(?i)\bguidelines?\b|\bconsensus\b|\brecommendations?\b|\bposition statement\b`), Guideline},
	{regexp.MustCompile(`(?i)\breviews?\b|\boverview\b`), Review},
	{regexp.MustCompile(`(?i)\beditorial\b|\bcommentary\b|\breply\b|\bletter\b|\bcorrespondence\b|\bperspective\b`), Editorial},
	{regexp.MustCompile(`(?i)\bcohort\b|\bretrospective\b|\bprospective\b|\bobservational\b|\bcase[- ]control\b|\bcross[- ]sectional\b|\bregistry\b`), Observational},
}

// Classify returns the category for an article. Publication types are
// consulted first, then the title, else the article is Unclassified.
func Classify(types []string, title string) string {
	if c, ok := FromPublicationTypes(types); ok {
		return c
	}
	if c, ok := FromTitle(title); ok {
		return c
	}
	return Unclassified
}

// FromPublicationTypes maps publication types to the category with the
// highest precedence. Returns false if no type is known.
func FromPublicationTypes(types []string) (string, bool) {
	found := make(map[string]bool)
	for _, t := range types {
		if c, ok := publicationTypes[normal.Label(t)]; ok {
			found[c] = true
		}
	}
	for _, c := range precedence {
		if found[c] {
			return c, true
		}
	}
	return "", false
}

// FromTitle applies the title rules.
func FromTitle(title string) (string, bool) {
	for _, r := range titleRules {
		if r.re.MatchString(title) {
			return r.category, true
		}
	}
	return "", false
}
