package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/miku/tocfeed/schema/crossref"
	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultRows is used when no row count is configured.
const DefaultRows = 30

// CrossrefHarvester fetches the most recent works of a journal from the
// crossref API.
type CrossrefHarvester struct {
	Client      Doer
	ApiEndpoint string
	ApiEmail    string
	Rows        int
	UserAgent   string
	// Limiter spaces out consecutive requests, optional.
	Limiter *rate.Limiter
}

// addOptionalEmail appends mailto parameter.
func (c *CrossrefHarvester) addOptionalEmail(vs url.Values) {
	if c.ApiEmail != "" {
		vs.Add("mailto", c.ApiEmail)
	}
}

func (c *CrossrefHarvester) rows() int {
	if c.Rows <= 0 {
		return DefaultRows
	}
	return c.Rows
}

// Recent returns up to Rows works for a single ISSN, newest published first.
func (c *CrossrefHarvester) Recent(ctx context.Context, issn string) ([]crossref.Work, error) {
	if err := wait(ctx, c.Limiter); err != nil {
		return nil, err
	}
	vs := url.Values{}
	vs.Add("filter", "issn:"+issn)
	vs.Add("sort", "published")
	vs.Add("order", "desc")
	vs.Add("rows", strconv.Itoa(c.rows()))
	c.addOptionalEmail(vs)
	link := fmt.Sprintf("%s?%s", c.ApiEndpoint, vs.Encode())
	log.WithField("issn", issn).Debugf("crossref: fetching %s", link)
	header := http.Header{}
	header.Set("User-Agent", c.UserAgent)
	header.Set("Accept", "application/json")
	b, err := Get(ctx, c.Client, link, header)
	if err != nil {
		return nil, fmt.Errorf("crossref: %w", err)
	}
	var wr crossref.WorksResponse
	if err := json.Unmarshal(b, &wr); err != nil {
		return nil, fmt.Errorf("crossref: decode failed with %w", err)
	}
	if wr.Status != "" && wr.Status != "ok" {
		return nil, fmt.Errorf("crossref failed with status: %s", wr.Status)
	}
	log.WithFields(log.Fields{
		"issn":  issn,
		"items": len(wr.Message.Items),
		"total": wr.Message.TotalResults,
	}).Debug("crossref: done")
	return wr.Message.Items, nil
}
