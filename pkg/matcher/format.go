package matcher

import (
	"fmt"
	"strings"

	"github.com/papercomputeco/namematch/pkg/vector"
)

// NoMatchesMessage is shown when a search produced no results.
const NoMatchesMessage = "No matches found for your query or an error occurred. Please try again or ensure the collection has names."

// FormatMarkdown renders search results the way the chat page shows them:
// the best match followed by every match with its score.
func FormatMarkdown(matches []vector.Match) string {
	if len(matches) == 0 {
		return NoMatchesMessage
	}

	var b strings.Builder
	b.WriteString("Here are the top matches:\n\n")
	fmt.Fprintf(&b, "**Best Match:** '%s' (Score: %.4f)\n\n", matches[0].Text, matches[0].Score)
	b.WriteString("**Other Similar Matches:**\n")
	for _, m := range matches {
		fmt.Fprintf(&b, "- '%s' (Score: %.4f)\n", m.Text, m.Score)
	}
	return b.String()
}
