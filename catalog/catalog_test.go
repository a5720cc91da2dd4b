package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "sources.json", `[
  {"name": "The Lancet", "short": "Lancet", "issn": ["0140-6736", "1474547x"], "tier": 1},
  {"name": "BMJ", "issn": "0959-8138"}
]`)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []Source{
		{Name: "The Lancet", Short: "Lancet", ISSN: ISSNList{"0140-6736", "1474-547X"}, Tier: 1},
		{Name: "BMJ", Short: "BMJ", ISSN: ISSNList{"0959-8138"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "sources.yaml", `
- name: JAMA
  issn: 0098-7484
- name: NEJM
  short: NEJM
  issn:
    - 0028-4793
    - 1533-4406
`)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []Source{
		{Name: "JAMA", Short: "JAMA", ISSN: ISSNList{"0098-7484"}},
		{Name: "NEJM", Short: "NEJM", ISSN: ISSNList{"0028-4793", "1533-4406"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	var cases = []struct {
		about   string
		name    string
		content string
		err     error
	}{
		{"syntax", "sources.json", `[{"name": `, ErrMalformed},
		{"no name", "sources.json", `[{"issn": "0959-8138"}]`, ErrMalformed},
		{"no issn", "sources.json", `[{"name": "BMJ", "issn": []}]`, ErrMalformed},
		{"issn object", "sources.json", `[{"name": "BMJ", "issn": {"a": 1}}]`, ErrMalformed},
	}
	for _, c := range cases {
		path := writeFile(t, c.name, c.content)
		if _, err := Load(path); !errors.Is(err, c.err) {
			t.Errorf("%s: got %v, want %v", c.about, err, c.err)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: got %v, want ErrNotFound", err)
	}
}

func TestISSNs(t *testing.T) {
	sources := []Source{
		{Name: "A", ISSN: ISSNList{"1111-1111", "2222-2222"}},
		{Name: "B", ISSN: ISSNList{"2222-2222", "3333-3333"}},
	}
	want := []string{"1111-1111", "2222-2222", "3333-3333"}
	if diff := cmp.Diff(want, ISSNs(sources)); diff != "" {
		t.Fatalf("ISSNs mismatch (-want +got):\n%s", diff)
	}
}
