package extract

import (
	"regexp"
	"strings"
)

// phraseRegexp compiles a case-insensitive alternation of literal phrases.
// Alternatives are tried in list order, so earlier phrases win at the same position.
func phraseRegexp(phrases []string) *regexp.Regexp {
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("(?i)" + strings.Join(quoted, "|"))
}
