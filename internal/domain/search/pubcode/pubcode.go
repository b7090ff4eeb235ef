// Package pubcode parses repository publication codes such as CRS-1234.
package pubcode

import (
	"regexp"
	"strconv"
	"strings"
)

// Prefix identifies what a publication code points at.
type Prefix string

// Publication code prefixes.
const (
	// Sample publications.
	Sample Prefix = "CRS"
	// Reaction publications.
	Reaction Prefix = "CRR"
	// Derived records (analyses); resolved through the parent publication.
	Derived Prefix = "CRD"
)

var pattern = regexp.MustCompile(`(CRR|CRS|CRD)-\d+`)

// Code is a parsed publication code.
type Code struct {
	Prefix Prefix
	ID     int64
}

// Mentions reports whether s contains something that looks like a publication code.
// A mention switches the search to the chemotion id lookup even if the code itself is
// later rejected by Parse.
func Mentions(s string) bool {
	return pattern.MatchString(s)
}

// Parse accepts exactly PREFIX-NUMBER with a single separator.
func Parse(s string) (Code, bool) {
	if !Mentions(s) {
		return Code{}, false
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Code{}, false
	}
	p := Prefix(parts[0])
	switch p {
	case Sample, Reaction, Derived:
	default:
		return Code{}, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return Code{}, false
	}
	return Code{Prefix: p, ID: id}, true
}

// String renders the code.
func (c Code) String() string {
	return string(c.Prefix) + "-" + strconv.FormatInt(c.ID, 10)
}
