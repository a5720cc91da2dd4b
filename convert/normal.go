package convert

import "strings"

// doiPrefixes are stripped, case insensitive and in order.
var doiPrefixes = []string{"doi:", "http://", "https://", "doi.org/", "dx.doi.org/"}

// cleanDOI strips surrounding whitespace and resolver prefixes. The rest of
// the value is kept as is, including the case of the suffix; crossref
// deposits are not always well formed, but they still identify the work.
func cleanDOI(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, prefix := range doiPrefixes {
		if len(raw) >= len(prefix) && strings.EqualFold(raw[:len(prefix)], prefix) {
			raw = raw[len(prefix):]
		}
	}
	if len(raw) > 9 && raw[7:9] == "//" && strings.HasPrefix(raw, "10.1037//") {
		raw = raw[:8] + raw[9:]
	}
	return strings.TrimSpace(raw)
}
