package crossref

type DatePart []int64

// Date is a crossref date field. Only date-parts is guaranteed for the
// published-* and issued fields; created, indexed and deposited also carry a
// date-time and timestamp.
type Date struct {
	DateParts []DatePart `json:"date-parts,omitempty"`
	DateTime  string     `json:"date-time,omitempty"`
	Timestamp int64      `json:"timestamp,omitempty"`
}

// Parts returns the first date-parts triple or nil.
func (d Date) Parts() []int64 {
	if len(d.DateParts) == 0 {
		return nil
	}
	return d.DateParts[0]
}

// IsZero reports whether the field carries no date information at all.
func (d Date) IsZero() bool {
	return len(d.Parts()) == 0 && d.DateTime == "" && d.Timestamp == 0
}

// Author is a crossref author.
type Author struct {
	Family   string `json:"family,omitempty"`
	Given    string `json:"given,omitempty"`
	Name     string `json:"name,omitempty"` // organizational authors
	Sequence string `json:"sequence,omitempty"`
	ORCID    string `json:"ORCID,omitempty"`
}

// Work is a crossref API works 1.0.0 document, as documented in
// https://www.crossref.org/documentation/retrieve-metadata/rest-api/, reduced
// to the fields a table of contents needs. This struct only contains the
// message part.
type Work struct {
	Author         []Author `json:"author,omitempty"`
	ContainerTitle []string `json:"container-title,omitempty"`
	Created        Date     `json:"created"`
	DOI            string   `json:"DOI"`
	Deposited      Date     `json:"deposited"`
	ISSN           []string `json:"ISSN,omitempty"`
	Indexed        Date     `json:"indexed"`
	Issue          string   `json:"issue,omitempty"`
	Issued         Date     `json:"issued"`
	Page           string   `json:"page,omitempty"`
	// Published is the earliest of published-print and published-online, as
	// computed by crossref.
	Published       Date     `json:"published"`
	PublishedOnline Date     `json:"published-online"`
	PublishedPrint  Date     `json:"published-print"`
	Publisher       string   `json:"publisher,omitempty"`
	Subject         []string `json:"subject,omitempty"`
	Title           []string `json:"title,omitempty"`
	Type            string   `json:"type,omitempty"`
	URL             string   `json:"URL"`
	Volume          string   `json:"volume,omitempty"`
}

// WorksResponse is the envelope of a works query.
type WorksResponse struct {
	Message struct {
		Items        []Work `json:"items"`
		ItemsPerPage int64  `json:"items-per-page"`
		NextCursor   string `json:"next-cursor"`
		TotalResults int64  `json:"total-results"`
	} `json:"message"`
	MessageType    string `json:"message-type"`
	MessageVersion string `json:"message-version"`
	Status         string `json:"status"`
}
