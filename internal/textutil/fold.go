package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldKey returns a grouping key for value: whitespace runs collapse to a
// single space and letters are Unicode case-folded, so "Oil on Canvas" and
// "oil  on canvas" share a key.
func FoldKey(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return cases.Fold().String(strings.Join(fields, " "))
}
