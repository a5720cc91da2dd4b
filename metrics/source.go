package metrics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/miku/tocfeed/feeds"
)

// DefaultReferer is sent along, since the export refuses some requests
// without it.
const DefaultReferer = "https://www.scimagojr.com/journalrank.php"

var (
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicGzip = []byte{0x1f, 0x8b}
)

// Source is an upstream SJR export.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPSource fetches an export over HTTP. Gzip and zstd compressed payloads
// are decompressed transparently.
type HTTPSource struct {
	Label     string
	URL       string
	Client    feeds.Doer
	UserAgent string
	Referer   string
}

func (s *HTTPSource) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return s.URL
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	header := http.Header{}
	header.Set("Accept", "text/plain,text/csv,application/octet-stream,*/*")
	if s.UserAgent != "" {
		header.Set("User-Agent", s.UserAgent)
	}
	if s.Referer != "" {
		header.Set("Referer", s.Referer)
	}
	b, err := feeds.Get(ctx, s.Client, s.URL, header)
	if err != nil {
		return nil, err
	}
	return decompress(b)
}

// decompress detects compressed payloads by magic bytes and returns
// everything else as is.
func decompress(b []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(b, magicZstd):
		dec, err := zstd.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err := io.ReadAll(dec)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out, nil
	case bytes.HasPrefix(b, magicGzip):
		zr, err := pgzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return out, nil
	default:
		return b, nil
	}
}
