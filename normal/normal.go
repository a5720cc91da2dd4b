// Package normal contains small string normalizers shared by the article and
// metrics pipelines.
package normal

import (
	"regexp"
	"strings"
)

// Pipeline applies a list of normalizers in order.
type Pipeline struct {
	Normalizer []Normalizer
}

func (p *Pipeline) Normalize(s string) string {
	for _, n := range p.Normalizer {
		s = n.Normalize(s)
	}
	return s
}

type Normalizer interface {
	Normalize(string) string
}

// NormalizerFunc adapts a plain function.
type NormalizerFunc func(string) string

func (f NormalizerFunc) Normalize(s string) string { return f(s) }

// SimpleNormalizer lowercases.
type SimpleNormalizer struct{}

func (s *SimpleNormalizer) Normalize(v string) string {
	return strings.ToLower(v)
}

// CollapseWSNormalizer replaces runs of whitespace with a single space and
// trims the result.
type CollapseWSNormalizer struct{}

func (s *CollapseWSNormalizer) Normalize(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

var (
	// titlePipeline is applied to every title variant we keep.
	titlePipeline = &Pipeline{Normalizer: []Normalizer{&CollapseWSNormalizer{}}}
	// keyPipeline yields a case insensitive key for identifiers.
	keyPipeline = &Pipeline{Normalizer: []Normalizer{
		NormalizerFunc(strings.TrimSpace),
		&SimpleNormalizer{},
	}}

	// labelPipeline is used for case insensitive lookups of labels, like
	// publication types or column names.
	labelPipeline = &Pipeline{Normalizer: []Normalizer{
		&CollapseWSNormalizer{},
		&SimpleNormalizer{},
	}}

	issnHyphenated   = regexp.MustCompile(`^\d{4}-\d{3}[\dX]$`)
	issnUnhyphenated = regexp.MustCompile(`^\d{7}[\dX]$`)
	issnDashes       = strings.NewReplacer("–", "-", "—", "-", "‐", "-", "−", "-")
)

// Title collapses internal whitespace and trims.
func Title(s string) string {
	return titlePipeline.Normalize(s)
}

// DOIKey returns the lowercased, trimmed DOI, usable as a map key.
func DOIKey(doi string) string {
	return keyPipeline.Normalize(doi)
}

// Label returns a lowercase, whitespace collapsed version of s.
func Label(s string) string {
	return labelPipeline.Normalize(s)
}

// ISSN normalizes an ISSN to ####-#### with an uppercase check digit. Input
// with or without hyphen is accepted; anything else is returned trimmed and
// uppercased.
func ISSN(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "")
	s = issnDashes.Replace(s)
	switch {
	case issnHyphenated.MatchString(s):
		return s
	case issnUnhyphenated.MatchString(s):
		return s[:4] + "-" + s[4:]
	default:
		return s
	}
}
