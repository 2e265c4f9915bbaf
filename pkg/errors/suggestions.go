package errors

import "fmt"

// SuggestionGenerator generates actionable suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

type suggestionGenerator struct{}

// Generate returns actionable suggestions based on the error category and affected path.
//
//nolint:cyclop // one branch per category
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	switch category {
	case CategoryConfig:
		return g.configSuggestions()
	case CategoryConnection:
		return g.connectionSuggestions()
	case CategoryCursor:
		return g.cursorSuggestions(affectedPath)
	case CategoryPermission:
		return g.permissionSuggestions(affectedPath)
	case CategoryDiskSpace:
		return g.diskSpaceSuggestions(affectedPath)
	case CategoryPath:
		return g.pathSuggestions(affectedPath)
	case CategoryCopy:
		return g.copySuggestions()
	case CategoryUnknown:
		return g.unknownSuggestions(affectedPath)
	default:
		return g.unknownSuggestions(affectedPath)
	}
}

func (g *suggestionGenerator) configSuggestions() []string {
	return []string{
		"Run 'auto-download init' to create the configuration",
		"Pass --config-dir if the configuration lives somewhere else",
		"Check that every source directory has a non-empty target root",
	}
}

func (g *suggestionGenerator) connectionSuggestions() []string {
	return []string{
		"Check that the host is reachable and the SSH server is running",
		"Make sure your key is loaded in ssh-agent or stored in ~/.ssh",
		"Add the host key to ~/.ssh/known_hosts with 'ssh <user>@<host>' first",
	}
}

func (g *suggestionGenerator) copySuggestions() []string {
	return []string{
		"Check the memory card for errors; readers and cards fail more often than disks",
		"Run the download again: files already copied are skipped",
		"Verify there is space left at the destination",
	}
}

func (g *suggestionGenerator) cursorSuggestions(path string) []string {
	suggestions := []string{
		"The progress file on the card is damaged",
	}

	if path != "" {
		suggestions = append(suggestions, "Delete "+path+" to download everything again")
	} else {
		suggestions = append(suggestions, "Delete the .auto-download folder on the card to download everything again")
	}

	return suggestions
}

func (g *suggestionGenerator) diskSpaceSuggestions(path string) []string {
	suggestions := []string{
		"Free up space on the destination device",
		"Check available space with 'df -h'",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify disk usage for the filesystem containing "+path)
	}

	return suggestions
}

func (g *suggestionGenerator) pathSuggestions(path string) []string {
	suggestions := []string{
		"Verify the card is mounted and the path is spelled correctly",
	}

	if path != "" {
		suggestions = append(suggestions, "Check if the path exists: "+path)
	}

	return append(suggestions, "Check the source directories listed in the configuration")
}

func (g *suggestionGenerator) permissionSuggestions(path string) []string {
	suggestions := []string{
		"Ensure you can read the card and write to the destination",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Check permissions with 'ls -la %s'", path))
	} else {
		suggestions = append(suggestions, "Check permissions with 'ls -la' on the affected path")
	}

	return append(suggestions, "Cards with a write-protect switch must be unlocked to save progress")
}

func (g *suggestionGenerator) unknownSuggestions(path string) []string {
	suggestions := []string{
		"Check the error message for more details",
		"Run again with --verbose to see every step",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify the path is accessible: "+path)
	}

	return suggestions
}
