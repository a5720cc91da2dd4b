package pipeline

import (
	"sort"
	"strings"

	"github.com/miku/tocfeed/normal"
	"github.com/miku/tocfeed/schema/toc"
	log "github.com/sirupsen/logrus"
)

// DedupeStats counts what Dedupe did.
type DedupeStats struct {
	Original   int
	Unique     int
	Duplicates int
	Invalid    int // items without DOI and URL
}

// Key returns the deduplication key of an item: the lowercased DOI, else the
// URL. Empty if the item has neither.
func Key(it *toc.Item) string {
	if k := normal.DOIKey(it.DOI); k != "" {
		return k
	}
	return strings.TrimSpace(it.URL)
}

// Dedupe keeps the first item for each key and drops items without key.
func Dedupe(items []toc.Item) ([]toc.Item, DedupeStats) {
	stats := DedupeStats{Original: len(items)}
	var (
		seen   = make(map[string]bool)
		result = make([]toc.Item, 0, len(items))
	)
	for _, it := range items {
		key := Key(&it)
		switch {
		case key == "":
			stats.Invalid++
			log.WithField("title", it.Title).Debug("skipping item without doi and url")
		case seen[key]:
			stats.Duplicates++
			log.WithField("key", key).Debug("dropping duplicate")
		default:
			seen[key] = true
			result = append(result, it)
		}
	}
	stats.Unique = len(result)
	log.WithFields(log.Fields{
		"original":   stats.Original,
		"unique":     stats.Unique,
		"duplicates": stats.Duplicates,
		"invalid":    stats.Invalid,
	}).Info("deduplication completed")
	return result, stats
}

// SortByPublished orders items by published date, newest first, undated items
// last. The sort is stable.
func SortByPublished(items []toc.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Published, items[j].Published
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
}

// Cap truncates items to at most limit entries. A limit of zero or less
// disables the cap.
func Cap(items []toc.Item, limit int) []toc.Item {
	if limit <= 0 || len(items) <= limit {
		return items
	}
	return items[:limit]
}
