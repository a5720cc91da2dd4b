package metrics

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/miku/tocfeed/catalog"
	"github.com/miku/tocfeed/schema/sjr"
	"github.com/segmentio/encoding/json"
)

var journals = []catalog.Source{
	{Name: "Anesthesiology", Short: "Anesth", ISSN: catalog.ISSNList{"0003-3022", "1528-1175"}},
	{Name: "British Journal of Anaesthesia", Short: "BJA", ISSN: catalog.ISSNList{"0007-0912"}},
	{Name: "Unranked", Short: "U", ISSN: catalog.ISSNList{"1111-1111"}},
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// newServer serves body with status.
func newServer(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("missing user agent")
		}
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func newSource(server *httptest.Server, label string) *HTTPSource {
	return &HTTPSource{
		Label:     label,
		URL:       server.URL,
		Client:    server.Client(),
		UserAgent: "test-agent",
		Referer:   DefaultReferer,
	}
}

func gzipped(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := pgzip.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestBuildFallback(t *testing.T) {
	primary := newServer(t, http.StatusForbidden, []byte("<html><head><title>403</title></head></html>"))
	mirror := newServer(t, http.StatusOK, gzipped(t, []byte(semicolonExport)))
	b := &Builder{
		Sources: []Source{newSource(primary, "primary"), newSource(mirror, "mirror")},
		Now:     func() time.Time { return testNow },
	}
	ds, err := b.Build(context.Background(), journals)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ds.SourceUsed != "mirror" || ds.SJRYear != 2023 || ds.GeneratedAt != "2024-06-01T12:00:00Z" {
		t.Fatalf("unexpected dataset: %+v", ds)
	}
	if ds.Coverage != (sjr.Coverage{Matched: 3, TotalSources: 3}) {
		t.Fatalf("unexpected coverage: %+v", ds.Coverage)
	}
	if ds.SourceName != SourceName || ds.SourceNote == "" {
		t.Fatalf("missing source description")
	}
}

func TestBuildHTMLBlockPage(t *testing.T) {
	primary := newServer(t, http.StatusOK, []byte("<!DOCTYPE html><html><head><title>Attention Required</title></head></html>"))
	b := &Builder{Sources: []Source{newSource(primary, "primary")}}
	_, err := b.Build(context.Background(), journals)
	if !errors.Is(err, ErrAllSourcesFailed) || !errors.Is(err, ErrHTMLPage) {
		t.Fatalf("got %v, want ErrAllSourcesFailed wrapping ErrHTMLPage", err)
	}
}

func TestBuildNoSources(t *testing.T) {
	_, err := (&Builder{}).Build(context.Background(), journals)
	if !errors.Is(err, ErrAllSourcesFailed) {
		t.Fatalf("got %v, want ErrAllSourcesFailed", err)
	}
}

func TestUpdateKeepsPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal_metrics.json")
	previous := []byte(`{"sjr_year": 2022}`)
	if err := os.WriteFile(path, previous, 0644); err != nil {
		t.Fatal(err)
	}
	primary := newServer(t, http.StatusServiceUnavailable, nil)
	mirror := newServer(t, http.StatusBadGateway, nil)
	b := &Builder{Sources: []Source{newSource(primary, "primary"), newSource(mirror, "mirror")}}
	outcome, err := Update(context.Background(), b, journals, path)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if outcome != Kept {
		t.Fatalf("got %v, want kept", outcome)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, previous) {
		t.Fatalf("previous file modified: %s", got)
	}
}

func TestUpdateFailsWithoutPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal_metrics.json")
	primary := newServer(t, http.StatusServiceUnavailable, nil)
	mirror := newServer(t, http.StatusServiceUnavailable, nil)
	b := &Builder{Sources: []Source{newSource(primary, "primary"), newSource(mirror, "mirror")}}
	if _, err := Update(context.Background(), b, journals, path); !errors.Is(err, ErrAllSourcesFailed) {
		t.Fatalf("got %v, want ErrAllSourcesFailed", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("no file should be written, stat: %v", err)
	}
}

func TestUpdateWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal_metrics.json")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	primary := newServer(t, http.StatusOK, []byte(semicolonExport))
	b := &Builder{Sources: []Source{newSource(primary, "primary")}, Now: func() time.Time { return testNow }}
	outcome, err := Update(context.Background(), b, journals, path)
	if err != nil || outcome != Written {
		t.Fatalf("Update: %v, %v", outcome, err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var ds sjr.Dataset
	if err := json.NewDecoder(f).Decode(&ds); err != nil {
		t.Fatal(err)
	}
	if ds.ByISSN["0007-0912"].SJR != 1.5 || ds.SourceUsed != "primary" {
		t.Fatalf("unexpected dataset: %+v", ds)
	}
}

func TestDecompress(t *testing.T) {
	data := []byte(semicolonExport)
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	var cases = []struct {
		about string
		in    []byte
	}{
		{"plain", data},
		{"gzip", gzipped(t, data)},
		{"zstd", enc.EncodeAll(data, nil)},
	}
	enc.Close()
	for _, c := range cases {
		got, err := decompress(c.in)
		if err != nil {
			t.Fatalf("%s: %v", c.about, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%s: payload mismatch", c.about)
		}
	}
}

func TestHTTPSourceHeaders(t *testing.T) {
	var header http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header
		io.WriteString(w, "ok")
	}))
	defer server.Close()
	src := newSource(server, "")
	if src.Name() != server.URL {
		t.Errorf("Name should default to URL, got %s", src.Name())
	}
	if _, err := src.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if header.Get("Referer") != DefaultReferer || header.Get("Accept") == "" {
		t.Errorf("unexpected headers: %v", header)
	}
}
