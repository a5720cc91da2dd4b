// Package catalog loads the list of journals to harvest.
//
// A catalog is a JSON (or YAML) list of sources:
//
//	[
//	  {"name": "The Lancet", "short": "Lancet", "issn": ["0140-6736", "1474-547X"], "tier": 1},
//	  {"name": "BMJ", "issn": "0959-8138"}
//	]
//
// The issn field may be a single string or a list; short defaults to name.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/miku/tocfeed/normal"
	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when the catalog file does not exist.
	ErrNotFound = errors.New("catalog not found")
	// ErrMalformed is returned for unparsable catalogs or invalid entries.
	ErrMalformed = errors.New("malformed catalog")
)

// Source describes a single journal.
type Source struct {
	Name  string   `json:"name" yaml:"name"`
	Short string   `json:"short,omitempty" yaml:"short,omitempty"`
	ISSN  ISSNList `json:"issn" yaml:"issn"`
	Tier  int      `json:"tier,omitempty" yaml:"tier,omitempty"`
}

// ISSNList accepts either a single string or a list of strings.
type ISSNList []string

// UnmarshalJSON accepts "1234-5678" as well as ["1234-5678", ...].
func (l *ISSNList) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = ISSNList{s}
		return nil
	}
	var vs []string
	if err := json.Unmarshal(b, &vs); err != nil {
		return fmt.Errorf("issn must be a string or a list of strings: %w", err)
	}
	*l = vs
	return nil
}

// UnmarshalYAML is the YAML equivalent of UnmarshalJSON.
func (l *ISSNList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = ISSNList{value.Value}
		return nil
	case yaml.SequenceNode:
		var vs []string
		if err := value.Decode(&vs); err != nil {
			return err
		}
		*l = vs
		return nil
	default:
		return fmt.Errorf("issn must be a string or a list of strings (line %d)", value.Line)
	}
}

// Load reads and validates a catalog. Files ending in .yml or .yaml are
// parsed as YAML, everything else as JSON.
func Load(path string) ([]Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	var sources []Source
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(b, &sources)
	default:
		err = json.Unmarshal(b, &sources)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return normalize(sources)
}

// normalize fills in defaults and rejects entries without name or ISSN.
func normalize(sources []Source) ([]Source, error) {
	result := make([]Source, 0, len(sources))
	for i, s := range sources {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrMalformed, i)
		}
		s.Short = strings.TrimSpace(s.Short)
		if s.Short == "" {
			s.Short = s.Name
		}
		var issns ISSNList
		for _, v := range s.ISSN {
			if v = normal.ISSN(v); v != "" {
				issns = append(issns, v)
			}
		}
		if len(issns) == 0 {
			return nil, fmt.Errorf("%w: %s has no issn", ErrMalformed, s.Name)
		}
		s.ISSN = issns
		result = append(result, s)
	}
	return result, nil
}

// ISSNs returns the distinct ISSNs of all sources, in catalog order.
func ISSNs(sources []Source) []string {
	var (
		seen   = make(map[string]bool)
		result []string
	)
	for _, s := range sources {
		for _, issn := range s.ISSN {
			if seen[issn] {
				continue
			}
			seen[issn] = true
			result = append(result, issn)
		}
	}
	return result
}
