package convert

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/miku/tocfeed/catalog"
	"github.com/miku/tocfeed/dateutil"
	"github.com/miku/tocfeed/normal"
	"github.com/miku/tocfeed/schema/crossref"
	"github.com/miku/tocfeed/schema/toc"
)

const (
	// MaxAuthors is the number of authors named in the author string.
	MaxAuthors = 10
	// SourceCrossref is recorded as provenance on each item.
	SourceCrossref = "crossref"
)

// CrossrefWorkToItem converts a crossref work into an item of the given
// journal. Today is the run date.
func CrossrefWorkToItem(src catalog.Source, work *crossref.Work, today time.Time) (*toc.Item, error) {
	if work == nil {
		return nil, ErrSkipNoWork
	}
	var title string
	if len(work.Title) > 0 {
		title = normal.Title(work.Title[0])
	}
	if title == "" {
		return nil, ErrSkipNoTitle
	}
	var (
		doi = cleanDOI(work.DOI)
		url = strings.TrimSpace(work.URL)
	)
	if url == "" && doi != "" {
		url = "https://doi.org/" + doi
	}
	item := &toc.Item{
		Journal:      src.Name,
		JournalShort: src.Short,
		Title:        title,
		Authors:      FormatAuthors(work.Author),
		DOI:          doi,
		URL:          url,
		AOP:          AheadOfPrint(work),
		Type:         work.Type,
		Publisher:    work.Publisher,
		Source:       SourceCrossref,
		Tier:         src.Tier,
	}
	// A published date is never in the future; an item with only future
	// dates is treated as undated.
	if t, ok := ResolveDate(work, today); ok && !t.After(dateutil.Today(today)) {
		s := t.Format(dateutil.Layout)
		item.Published = &s
	}
	return item, nil
}

// FormatAuthors renders up to MaxAuthors authors as "Family G.", joined by
// comma. Authors without a family name are left out. If there are more than
// MaxAuthors entries, " et al." is appended.
func FormatAuthors(authors []crossref.Author) string {
	var names []string
	for i, a := range authors {
		if i == MaxAuthors {
			break
		}
		family := strings.TrimSpace(a.Family)
		given := strings.TrimSpace(a.Given)
		switch {
		case family != "" && given != "":
			r, _ := utf8.DecodeRuneInString(given)
			names = append(names, family+" "+string(r)+".")
		case family != "":
			names = append(names, family)
		}
	}
	if len(names) == 0 {
		return ""
	}
	s := strings.Join(names, ", ")
	if len(authors) > MaxAuthors {
		s += " et al."
	}
	return s
}

// dateOf returns the day of a crossref date field. Date parts are preferred,
// date-time and timestamp are fallbacks.
func dateOf(d crossref.Date) (time.Time, bool) {
	if t, ok := dateutil.FromParts(d.Parts()); ok {
		return t, true
	}
	if d.DateTime != "" {
		if t, err := dateutil.Parse(d.DateTime); err == nil {
			return dateutil.Today(t), true
		}
	}
	if d.Timestamp > 0 {
		return dateutil.Today(time.UnixMilli(d.Timestamp)), true
	}
	return time.Time{}, false
}

// ResolveDate picks the publication date of a work from the candidates, in
// order: published-online, published-print, issued, created, indexed and
// deposited. The latest candidate not after today wins. If all candidates
// lie in the future, the earliest of them is used.
func ResolveDate(work *crossref.Work, today time.Time) (time.Time, bool) {
	today = dateutil.Today(today)
	var (
		fields = []crossref.Date{
			work.PublishedOnline,
			work.PublishedPrint,
			work.Issued,
			work.Created,
			work.Indexed,
			work.Deposited,
		}
		past, future time.Time
	)
	for _, f := range fields {
		t, ok := dateOf(f)
		if !ok {
			continue
		}
		if t.After(today) {
			if future.IsZero() || t.Before(future) {
				future = t
			}
			continue
		}
		if past.IsZero() || t.After(past) {
			past = t
		}
	}
	switch {
	case !past.IsZero():
		return past, true
	case !future.IsZero():
		return future, true
	default:
		return time.Time{}, false
	}
}

// AheadOfPrint reports whether a work was available online before its print
// or issue date. Without a published-online date, issued stands in for the
// online date.
func AheadOfPrint(work *crossref.Work) bool {
	online, ok := dateOf(work.PublishedOnline)
	issuedAsOnline := false
	if !ok {
		if online, ok = dateOf(work.Issued); !ok {
			return false
		}
		issuedAsOnline = true
	}
	var candidates []crossref.Date
	candidates = append(candidates, work.PublishedPrint)
	if !issuedAsOnline {
		candidates = append(candidates, work.Issued)
	}
	var earliest time.Time
	for _, c := range candidates {
		t, ok := dateOf(c)
		if !ok {
			continue
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	return earliest.IsZero() || earliest.After(online)
}
