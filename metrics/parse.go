package metrics

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/miku/tocfeed/normal"
	"github.com/miku/tocfeed/schema/sjr"
)

var (
	ErrHTMLPage       = errors.New("got HTML page instead of tabular data")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoYear         = errors.New("could not detect latest year")
)

var bom = []byte("\xef\xbb\xbf")

// columnNames lists accepted header names per role, lowercased.
var columnNames = struct {
	Year, ISSN, SJR, Title []string
}{
	Year:  []string{"year"},
	ISSN:  []string{"issn", "issns"},
	SJR:   []string{"sjr", "sjr value"},
	Title: []string{"title", "journal", "source title"},
}

// Columns holds the header index of each required column.
type Columns struct {
	Year  int
	ISSN  int
	SJR   int
	Title int
}

func (c Columns) last() int {
	return max(c.Year, c.ISSN, c.SJR, c.Title)
}

// Table is the parsed subset of an export.
type Table struct {
	// Year is the latest year found, all records are from this year.
	Year   int
	ByISSN map[string]sjr.Record
	// Rows is the number of data rows read.
	Rows int
}

// SniffDelimiter returns the field delimiter of a sample, usually the header
// line: comma if there are more commas than semicolons, semicolon otherwise.
func SniffDelimiter(sample []byte) rune {
	if bytes.Count(sample, []byte(",")) > bytes.Count(sample, []byte(";")) {
		return ','
	}
	return ';'
}

// DetectColumns finds the required columns in a header, case insensitive.
// The leftmost matching column wins.
func DetectColumns(header []string) (Columns, error) {
	index := make(map[string]int)
	for i, h := range header {
		h = normal.Label(strings.TrimPrefix(h, string(bom)))
		if _, ok := index[h]; !ok {
			index[h] = i
		}
	}
	var missing []string
	find := func(role string, names []string) int {
		for _, name := range names {
			if i, ok := index[name]; ok {
				return i
			}
		}
		missing = append(missing, role)
		return -1
	}
	cols := Columns{
		Year:  find("year", columnNames.Year),
		ISSN:  find("issn", columnNames.ISSN),
		SJR:   find("sjr", columnNames.SJR),
		Title: find("title", columnNames.Title),
	}
	if len(missing) > 0 {
		detected := header
		if len(detected) > 20 {
			detected = detected[:20]
		}
		return cols, fmt.Errorf("%w: %s, detected: %q",
			ErrMissingColumns, strings.Join(missing, ", "), detected)
	}
	return cols, nil
}

// IsHTML reports whether b looks like an HTML document.
func IsHTML(b []byte) bool {
	sample := b
	if len(sample) > 1024 {
		sample = sample[:1024]
	}
	s := strings.ToLower(strings.TrimSpace(string(bytes.TrimPrefix(sample, bom))))
	if strings.HasPrefix(s, "<!doctype html") || strings.HasPrefix(s, "<html") {
		return true
	}
	return strings.HasPrefix(s, "<") && (strings.Contains(s, "<head") || strings.Contains(s, "<body"))
}

// htmlTitle returns the page title, if any.
func htmlTitle(b []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return ""
	}
	return normal.Title(doc.Find("title").First().Text())
}

// ParseSJR parses an SJR value, accepting a comma as decimal separator.
func ParseSJR(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

type row struct {
	year  int
	issns string
	sjr   string
	title string
}

// Parse reads a delimited export and returns the SJR values of the latest
// year for the wanted ISSNs. If an ISSN occurs more than once, the maximum
// value is kept.
func Parse(b []byte, wanted map[string]bool) (*Table, error) {
	b = bytes.TrimPrefix(b, bom)
	if IsHTML(b) {
		if title := htmlTitle(b); title != "" {
			return nil, fmt.Errorf("%w: %s", ErrHTMLPage, title)
		}
		return nil, ErrHTMLPage
	}
	headerLine := b
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		headerLine = b[:i]
	}
	r := csv.NewReader(bytes.NewReader(b))
	r.Comma = SniffDelimiter(headerLine)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty export", ErrMissingColumns)
	}
	if err != nil {
		return nil, err
	}
	cols, err := DetectColumns(header)
	if err != nil {
		return nil, err
	}
	var (
		rows   []row
		latest int
		n      int
	)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		n++
		if len(record) <= cols.last() {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(record[cols.Year]))
		if err != nil {
			continue
		}
		if year > latest {
			latest = year
		}
		rows = append(rows, row{
			year:  year,
			issns: record[cols.ISSN],
			sjr:   record[cols.SJR],
			title: strings.TrimSpace(record[cols.Title]),
		})
	}
	if latest == 0 {
		return nil, ErrNoYear
	}
	table := &Table{Year: latest, ByISSN: make(map[string]sjr.Record), Rows: n}
	for _, r := range rows {
		if r.year != latest {
			continue
		}
		value, ok := ParseSJR(r.sjr)
		if !ok {
			continue
		}
		for _, v := range strings.Split(r.issns, ",") {
			issn := normal.ISSN(v)
			if issn == "" || !wanted[issn] {
				continue
			}
			if existing, ok := table.ByISSN[issn]; ok && existing.SJR >= value {
				continue
			}
			table.ByISSN[issn] = sjr.Record{SJR: value, TitleSource: r.title}
		}
	}
	return table, nil
}
