// Package present formats counts and names for status messages. Nothing in
// the rocket model depends on it for correctness.
package present

import (
	"strconv"
	"strings"

	"github.com/huandu/xstrings"
	"github.com/jinzhu/inflection"
)

// Noun returns noun pluralized for count n: engine, engines.
func Noun(n int, noun string) string {
	if n == 1 || n == -1 {
		return noun
	}
	return inflection.Plural(noun)
}

// Count renders "1 engine", "9 engines".
func Count(n int, noun string) string {
	return strconv.Itoa(n) + " " + Noun(n, noun)
}

// DisplayName turns a manifest id such as first_stage or second-stage into
// FirstStage. Names already in CamelCase are kept.
func DisplayName(id string) string {
	id = strings.TrimSpace(id)
	if !strings.ContainsAny(id, "_- ") {
		return xstrings.FirstRuneToUpper(id)
	}
	return xstrings.ToCamelCase(id)
}
