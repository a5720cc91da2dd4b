// Package convert turns upstream records into table of contents items.
package convert

import (
	"errors"
)

// Skip marks a record that cannot become an item. Callers usually drop the
// record and move on.
type Skip struct {
	err error
}

func (s Skip) Error() string {
	return s.err.Error()
}

var (
	ErrSkipNoTitle = Skip{err: errors.New("no title")}
	ErrSkipNoWork  = Skip{err: errors.New("no work")}
)

// IsSkip reports whether err is a Skip.
func IsSkip(err error) bool {
	var s Skip
	return errors.As(err, &s)
}
