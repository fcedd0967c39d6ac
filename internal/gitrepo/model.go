// Package gitrepo binds a filesystem path to a libgit2 repository and exposes
// the version-control operations served by the MCP tools and the CLI.
//
// Every operation opens the repository from disk and releases it before
// returning; no handle survives a call, so the state observed by one call is
// never stale from a previous one.
package gitrepo

import "time"

// shortSHALen is the display prefix length for commit identifiers.
// Prefixes this short are a convenience, not guaranteed collision-free.
const shortSHALen = 7

// HeadRef identifies where HEAD points: a named local branch, or a bare
// commit (detached). The zero value means "unknown" and only occurs for
// uninitialized repositories.
type HeadRef struct {
	// Name is the branch name when HEAD is attached, empty otherwise.
	Name string

	// Detached reports that HEAD points directly at a commit.
	Detached bool
}

// detachedLabel is the historical display label for a detached HEAD. It is
// used in rendered text only, never as a structured branch name.
const detachedLabel = "HEAD (detached)"

// Label renders the ref for human-readable output.
func (h HeadRef) Label() string {
	if h.Detached {
		return detachedLabel
	}

	return h.Name
}

// RepoStatus is a snapshot of the repository's working state.
type RepoStatus struct {
	// IsInitialized reports whether a valid repository exists at the path.
	IsInitialized bool `json:"is_initialized"`

	// CurrentBranch is the active branch name. Omitted when the repository is
	// uninitialized or HEAD is detached; HeadDetached disambiguates the two.
	CurrentBranch string `json:"current_branch,omitempty"`

	// HeadDetached reports that HEAD points at a commit rather than a branch.
	HeadDetached bool `json:"head_detached,omitempty"`

	// HasChanges is true iff any of the three file sets is non-empty.
	HasChanges bool `json:"has_changes"`

	StagedFiles    []string `json:"staged_files"`
	ModifiedFiles  []string `json:"modified_files"`
	UntrackedFiles []string `json:"untracked_files"`
}

// CommitInfo describes a single historical commit. Values are immutable
// snapshots; they hold no reference back to the repository.
type CommitInfo struct {
	// SHA is the full 40-hex-char commit identifier.
	SHA string `json:"sha"`

	// ShortSHA is the first 7 hex chars, for display only.
	ShortSHA string `json:"short_sha"`

	// Message is the trimmed commit message, possibly multi-line.
	Message string `json:"message"`

	Author      string `json:"author"`
	AuthorEmail string `json:"author_email"`

	// Timestamp is the committer time, normalized to UTC.
	Timestamp time.Time `json:"timestamp"`
}

// CommitList is a bounded, newest-first slice of history.
type CommitList struct {
	Commits []CommitInfo `json:"commits"`

	// TotalCount is the number of commits actually returned, not the full
	// history length.
	TotalCount int `json:"total_count"`

	// Branch is the label the traversal resolved to: the active branch name
	// when the input ref was an attached "HEAD", otherwise the literal input.
	Branch string `json:"branch"`
}

// FileChange describes one file in a commit-to-commit diff.
type FileChange struct {
	// Filename is the post-change path, falling back to the pre-change path
	// for deletions.
	Filename string `json:"filename"`

	// Status is one of: added, deleted, renamed, modified.
	Status string `json:"status"`

	// Additions and Deletions are counted from the unified patch body: lines
	// prefixed +/- excluding the +++/--- header lines.
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`

	// Patch is the raw unified-diff text, omitted when the backend produced
	// none. Invalid UTF-8 is replaced rather than failing the diff.
	Patch string `json:"patch,omitempty"`
}

// CommitDiff is a tree-level comparison between two commits.
type CommitDiff struct {
	// FromCommit and ToCommit echo the caller's identifiers unresolved.
	FromCommit string `json:"from_commit"`
	ToCommit   string `json:"to_commit"`

	// Files is in backend order; no sorting is applied.
	Files []FileChange `json:"files"`

	TotalAdditions int `json:"total_additions"`
	TotalDeletions int `json:"total_deletions"`

	// Summary reads "N files changed, A insertions(+), D deletions(-)".
	Summary string `json:"summary"`
}

// BranchInfo describes one local branch.
type BranchInfo struct {
	Name string `json:"name"`

	// IsCurrent is true iff Name equals the attached HEAD's branch; false for
	// every branch when HEAD is detached.
	IsCurrent bool `json:"is_current"`

	// LastCommitSHA is the 7-char prefix of the branch tip.
	LastCommitSHA string `json:"last_commit_sha"`

	// LastCommitMessage is the first line of the tip's message, trimmed.
	LastCommitMessage string `json:"last_commit_message"`
}
