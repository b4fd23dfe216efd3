package interview

import (
	"regexp"

	"mockprep/interview/internal/models"
)

// the sentinel must stand as its own token; INTERVIEW_COMPLETED does not count
var completionPattern = regexp.MustCompile(`\b` + regexp.QuoteMeta(models.CompletionSentinel) + `\b`)

// IsCompletionSignal reports whether provider text asks to end the interview,
// either as the whole reply or embedded in surrounding text.
func IsCompletionSignal(text string) bool {
	return completionPattern.MatchString(text)
}
