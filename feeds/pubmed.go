package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/miku/tocfeed/schema/pubmed"
	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// EUtils is a minimal NCBI E-utilities client, cf.
// https://www.ncbi.nlm.nih.gov/books/NBK25497/.
type EUtils struct {
	Client     Doer
	ESearchURL string
	EFetchURL  string
	// Tool, Email, APIKey and UserAgent are sent along with every request,
	// if set.
	Tool      string
	Email     string
	APIKey    string
	UserAgent string
	// SearchLimiter and FetchLimiter throttle esearch and efetch calls
	// separately, both optional.
	SearchLimiter *rate.Limiter
	FetchLimiter  *rate.Limiter
}

func (e *EUtils) header() http.Header {
	h := http.Header{}
	if e.UserAgent != "" {
		h.Set("User-Agent", e.UserAgent)
	}
	return h
}

func (e *EUtils) addIdentity(vs url.Values) {
	if e.Tool != "" {
		vs.Set("tool", e.Tool)
	}
	if e.Email != "" {
		vs.Set("email", e.Email)
	}
	if e.APIKey != "" {
		vs.Set("api_key", e.APIKey)
	}
}

// LookupPMID resolves a DOI to a PMID. An empty string and nil error means
// PubMed has no record for the DOI.
func (e *EUtils) LookupPMID(ctx context.Context, doi string) (string, error) {
	if err := wait(ctx, e.SearchLimiter); err != nil {
		return "", err
	}
	vs := url.Values{}
	vs.Set("db", "pubmed")
	vs.Set("term", doi+"[doi]")
	vs.Set("retmode", "json")
	e.addIdentity(vs)
	link := fmt.Sprintf("%s?%s", e.ESearchURL, vs.Encode())
	b, err := Get(ctx, e.Client, link, e.header())
	if err != nil {
		return "", fmt.Errorf("esearch: %w", err)
	}
	var resp pubmed.ESearchResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return "", fmt.Errorf("esearch: decode failed with %w", err)
	}
	return resp.FirstID(), nil
}

// PublicationTypes fetches records for the given PMIDs in one request and
// returns the publication types keyed by PMID. PMIDs without a record are
// absent from the result.
func (e *EUtils) PublicationTypes(ctx context.Context, pmids []string) (map[string][]string, error) {
	result := make(map[string][]string)
	if len(pmids) == 0 {
		return result, nil
	}
	if err := wait(ctx, e.FetchLimiter); err != nil {
		return nil, err
	}
	vs := url.Values{}
	vs.Set("db", "pubmed")
	vs.Set("id", strings.Join(pmids, ","))
	vs.Set("retmode", "xml")
	e.addIdentity(vs)
	link := fmt.Sprintf("%s?%s", e.EFetchURL, vs.Encode())
	header := e.header()
	header.Set("Accept", "application/xml")
	b, err := Get(ctx, e.Client, link, header)
	if err != nil {
		return nil, fmt.Errorf("efetch: %w", err)
	}
	var set pubmed.ArticleSet
	if err := xml.Unmarshal(b, &set); err != nil {
		return nil, fmt.Errorf("efetch: decode failed with %w", err)
	}
	for _, article := range set.Articles {
		pmid := article.PMID()
		if pmid == "" {
			continue
		}
		result[pmid] = article.PublicationTypes()
	}
	log.WithFields(log.Fields{
		"requested": len(pmids),
		"found":     len(result),
	}).Debug("efetch: done")
	return result, nil
}
