// Package docnum generates sequential human-readable document numbers
// of the form {PREFIX}/{YEAR}/{SEQ:03d}, e.g. EEL/2026/007. The sequence
// restarts at 1 each calendar year and increments over the highest
// number already persisted for that year.
//
// The package is pure: callers look up the highest existing number for
// the year series (ordering by length first, then lexicographically, so
// numbers past 999 still compare numerically) and let Next compute the
// successor. Uniqueness under concurrent writers is the caller's job,
// via a unique constraint plus retry on conflict.
package docnum

import (
	"fmt"
	"strconv"
	"strings"
)

// Series identifies one document number sequence by its organisation prefix.
type Series struct {
	Prefix string
}

// YearPrefix returns the shared prefix of every number issued in the
// given year, e.g. "EEL/2026/". Useful as a LIKE pattern.
func (s Series) YearPrefix(year int) string {
	return fmt.Sprintf("%s/%d/", s.Prefix, year)
}

// Format renders a number. Sequences are zero-padded to three digits;
// past 999 the width grows rather than wrapping.
func (s Series) Format(year, seq int) string {
	return fmt.Sprintf("%s/%d/%03d", s.Prefix, year, seq)
}

// Next computes the number following last within the year series.
// last is the highest number already issued this year, or "" when the
// series is empty, in which case the sequence seeds at 1.
func (s Series) Next(year int, last string) (string, error) {
	seq := 1
	if last != "" {
		n, err := Sequence(last)
		if err != nil {
			return "", err
		}
		seq = n + 1
	}
	return s.Format(year, seq), nil
}

// Sequence parses the trailing numeric segment of a document number.
func Sequence(number string) (int, error) {
	i := strings.LastIndex(number, "/")
	if i < 0 || i == len(number)-1 {
		return 0, fmt.Errorf("docnum: malformed document number %q", number)
	}
	n, err := strconv.Atoi(number[i+1:])
	if err != nil {
		return 0, fmt.Errorf("docnum: malformed sequence in %q: %w", number, err)
	}
	return n, nil
}
