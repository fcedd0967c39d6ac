package mcp

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/repomate/internal/gitrepo"
)

// maxListedFiles caps how many file names each change line shows.
const maxListedFiles = 5

// suggestCommitMessage builds a commit message suggestion from the working
// tree state. Template-based, not a diff-content analysis.
func suggestCommitMessage(status gitrepo.RepoStatus, style string) string {
	if !status.HasChanges {
		return "No changes to describe"
	}

	changes := make([]string, 0, 4)

	if len(status.StagedFiles) > 0 {
		changes = append(changes, "Staged: "+strings.Join(firstN(status.StagedFiles), ", "))

		if extra := len(status.StagedFiles) - maxListedFiles; extra > 0 {
			changes = append(changes, fmt.Sprintf("  ...and %d more", extra))
		}
	}

	if len(status.ModifiedFiles) > 0 {
		changes = append(changes, "Modified: "+strings.Join(firstN(status.ModifiedFiles), ", "))
	}

	if len(status.UntrackedFiles) > 0 {
		changes = append(changes, "New: "+strings.Join(firstN(status.UntrackedFiles), ", "))
	}

	fileCount := len(status.StagedFiles) + len(status.ModifiedFiles) + len(status.UntrackedFiles)

	var message string
	if style == "conventional" {
		message = fmt.Sprintf("%s: update %d file(s)", conventionalPrefix(status), fileCount)
	} else {
		message = fmt.Sprintf("Update %d file(s)", fileCount)
	}

	return fmt.Sprintf("Suggested message: %s\n\nChanges detected:\n%s",
		message, strings.Join(changes, "\n"))
}

// conventionalPrefix picks a Conventional Commits type from the changed file
// names. New files read as a feature; otherwise test and doc files get their
// own types and everything else is chore.
func conventionalPrefix(status gitrepo.RepoStatus) string {
	if len(status.UntrackedFiles) > 0 {
		return "feat"
	}

	tracked := make([]string, 0, len(status.ModifiedFiles)+len(status.StagedFiles))
	tracked = append(tracked, status.ModifiedFiles...)
	tracked = append(tracked, status.StagedFiles...)

	if anyContains(tracked, "test") {
		return "test"
	}

	if anyContains(tracked, "readme") || anyContains(tracked, "doc") {
		return "docs"
	}

	return "chore"
}

func firstN(files []string) []string {
	if len(files) > maxListedFiles {
		return files[:maxListedFiles]
	}

	return files
}

func anyContains(files []string, substr string) bool {
	for _, f := range files {
		if strings.Contains(strings.ToLower(f), substr) {
			return true
		}
	}

	return false
}
