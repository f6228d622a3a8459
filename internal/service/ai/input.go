package ai

import (
	"regexp"
	"strings"

	"github.com/kapu/affiliate-hub-go/internal/constants"
	"github.com/kapu/affiliate-hub-go/internal/util"
)

var controlCharsPattern = regexp.MustCompile(`[\x00-\x1F\x7F]`)
var whitespacePattern = regexp.MustCompile(`\s+`)

// SanitizeQuery strips control characters, collapses whitespace and caps the
// query at the configured rune limit.
func SanitizeQuery(input string) string {
	withoutControl := controlCharsPattern.ReplaceAllString(input, " ")
	normalized := whitespacePattern.ReplaceAllString(withoutControl, " ")
	trimmed := strings.TrimSpace(normalized)

	return util.TruncateRunes(trimmed, constants.AIInputLimits.MaxQueryLength)
}
