package shared

import (
	"fmt"
	"strings"

	"github.com/joe/auto-download/pkg/errors"
)

// RenderErrorDetails renders err with the suggestions pkg/errors has for it.
func RenderErrorDetails(err error, maxWidth int) string {
	if err == nil {
		return ""
	}

	enriched := errors.NewEnricher().Enrich(err, "")

	msg := enriched.Error()
	if maxWidth > 0 && len(msg) > maxWidth {
		msg = msg[:max(maxWidth-3, 0)] + "..."
	}

	var builder strings.Builder

	fmt.Fprintf(&builder, "%s %s\n", ErrorSymbol(), RenderError(msg))

	suggestions := errors.FormatSuggestions(enriched)
	if suggestions != "" {
		builder.WriteString("\n")
		builder.WriteString(RenderLabel("Suggestions:"))
		builder.WriteString("\n")
		builder.WriteString(suggestions)
		builder.WriteString("\n")
	}

	return builder.String()
}
