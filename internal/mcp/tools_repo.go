package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/repomate/internal/gitrepo"
)

// Defaults applied when optional tool parameters are omitted.
const (
	defaultListLimit    = 50
	defaultListRef      = "HEAD"
	defaultResetMode    = "soft"
	defaultSuggestStyle = "conventional"
)

// Parameter validation errors surfaced as IsError tool results.
var (
	errMessageRequired    = errors.New("message parameter is required")
	errBranchNameRequired = errors.New("branch_name parameter is required")
	errCommitShaRequired  = errors.New("commit_sha parameter is required")
	errFromToRequired     = errors.New("from_commit and to_commit parameters are required")
)

// InitializeRepoInput is the input for the initialize_repo tool.
type InitializeRepoInput struct {
	RepoPath string `json:"repo_path,omitempty" jsonschema:"absolute path to the directory to initialize; created if absent; defaults to the configured repository"`

	// InitialCommit defaults to true when omitted.
	InitialCommit *bool `json:"initial_commit,omitempty" jsonschema:"create a README.md and an initial commit when the repository is fresh (default true)"`
}

// RepoPathInput is the input for tools that only take a repository path.
type RepoPathInput struct {
	RepoPath string `json:"repo_path,omitempty" jsonschema:"absolute path to the repository; defaults to the configured repository"`
}

// CommitAllInput is the input for the commit_all_changes tool.
type CommitAllInput struct {
	RepoPath string `json:"repo_path,omitempty" jsonschema:"absolute path to the repository; defaults to the configured repository"`
	Message  string `json:"message" jsonschema:"descriptive commit message; common prefixes: feat:, fix:, docs:, refactor:, test:"`
}

// ListCommitsInput is the input for the list_commits tool.
type ListCommitsInput struct {
	RepoPath string `json:"repo_path,omitempty" jsonschema:"absolute path to the repository; defaults to the configured repository"`
	Branch   string `json:"branch,omitempty" jsonschema:"branch name, tag, or commit SHA to start listing from (default HEAD)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of commits to return (default 50)"`
}

// RollbackInput is the input for the rollback_to_commit tool.
type RollbackInput struct {
	RepoPath  string `json:"repo_path,omitempty" jsonschema:"absolute path to the repository; defaults to the configured repository"`
	CommitSha string `json:"commit_sha" jsonschema:"full or short SHA of the commit to reset to"`
	Mode      string `json:"mode,omitempty" jsonschema:"reset mode: soft keeps index and working tree, mixed keeps the working tree only, hard discards all uncommitted work (default soft)"`
}

// CompareCommitsInput is the input for the compare_commits tool.
type CompareCommitsInput struct {
	RepoPath   string `json:"repo_path,omitempty" jsonschema:"absolute path to the repository; defaults to the configured repository"`
	FromCommit string `json:"from_commit" jsonschema:"the source (older) commit SHA or ref"`
	ToCommit   string `json:"to_commit" jsonschema:"the target (newer) commit SHA or ref"`
}

// CreateBranchInput is the input for the create_branch tool.
type CreateBranchInput struct {
	RepoPath   string `json:"repo_path,omitempty" jsonschema:"absolute path to the repository; defaults to the configured repository"`
	BranchName string `json:"branch_name" jsonschema:"name of the new branch, e.g. feature/new-login"`
	FromRef    string `json:"from_ref,omitempty" jsonschema:"commit SHA or branch to start the new branch from; defaults to current HEAD"`
}

// SwitchBranchInput is the input for the switch_branch tool.
type SwitchBranchInput struct {
	RepoPath   string `json:"repo_path,omitempty" jsonschema:"absolute path to the repository; defaults to the configured repository"`
	BranchName string `json:"branch_name" jsonschema:"name of an existing local branch to switch to"`
}

// GenerateCommitMessageInput is the input for the generate_commit_message
// tool.
type GenerateCommitMessageInput struct {
	RepoPath string `json:"repo_path,omitempty" jsonschema:"absolute path to the repository; defaults to the configured repository"`
	Style    string `json:"style,omitempty" jsonschema:"message style: conventional (feat:/test:/docs:/chore:) or simple (default conventional)"`
}

// registerTools declares every tool with its caller-facing description.
// Descriptions are part of the external contract: MCP clients choose tools
// by reading them.
func (s *Server) registerTools() {
	addTool(s, &mcpsdk.Tool{
		Name: "initialize_repo",
		Description: "Initialize a new git repository at the specified path. " +
			"Creates the directory if it does not exist. Safe to call on an existing " +
			"repository: it returns a success message without modifying it. When " +
			"initial_commit is true and the repository is fresh, a README.md is created " +
			"(if absent) and an initial commit is recorded.",
	}, s.handleInitializeRepo)

	addTool(s, &mcpsdk.Tool{
		Name: "get_repo_status",
		Description: "Get the current status of the git repository: initialization " +
			"state, current branch, and the staged, modified, and untracked file lists. " +
			"Use before committing to verify what will be included.",
	}, s.handleGetRepoStatus)

	addTool(s, &mcpsdk.Tool{
		Name: "commit_all_changes",
		Description: "Stage ALL changes (including untracked and deleted files) and " +
			"create a commit, the equivalent of `git add -A && git commit -m`. " +
			"Initializes the repository first if needed. Returns the new commit SHA, " +
			"or \"No changes to commit\" when the tree is clean.",
	}, s.handleCommitAll)

	addTool(s, &mcpsdk.Tool{
		Name: "list_commits",
		Description: "List commit history for a branch or ref, newest first, up to " +
			"limit entries. Each commit includes full and short SHA, message, author, " +
			"and timestamp.",
	}, s.handleListCommits)

	addTool(s, &mcpsdk.Tool{
		Name: "rollback_to_commit",
		Description: "Reset the current branch head to a previous commit. Mode " +
			"\"soft\" keeps changes staged, \"mixed\" unstages them but keeps files, " +
			"\"hard\" is DESTRUCTIVE and permanently discards all uncommitted work.",
	}, s.handleRollback)

	addTool(s, &mcpsdk.Tool{
		Name: "compare_commits",
		Description: "Compare two commits and return the per-file diff: status " +
			"(added/modified/deleted/renamed), line counts, and unified patches, plus " +
			"overall totals and a summary line.",
	}, s.handleCompareCommits)

	addTool(s, &mcpsdk.Tool{
		Name: "create_branch",
		Description: "Create a new git branch without switching to it. To start " +
			"working on the branch, call switch_branch afterwards.",
	}, s.handleCreateBranch)

	addTool(s, &mcpsdk.Tool{
		Name: "switch_branch",
		Description: "Switch the repository to an existing local branch, updating " +
			"the working directory to match (a `git checkout`).",
	}, s.handleSwitchBranch)

	addTool(s, &mcpsdk.Tool{
		Name: "list_branches",
		Description: "List all local branches with the current branch marked, one " +
			"line per branch with its tip commit.",
	}, s.handleListBranches)

	addTool(s, &mcpsdk.Tool{
		Name: "generate_commit_message",
		Description: "Suggest a commit message from the current staged/modified/" +
			"untracked files. Uses a simple template heuristic (not diff-content " +
			"analysis): conventional style picks a feat/test/docs/chore prefix from " +
			"the file names, simple style returns \"Update N file(s)\".",
	}, s.handleGenerateCommitMessage)
}

func (s *Server) handleInitializeRepo(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input InitializeRepoInput,
) (*mcpsdk.CallToolResult, MessageOutput, error) {
	sess, err := s.session(input.RepoPath)
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	initialCommit := true
	if input.InitialCommit != nil {
		initialCommit = *input.InitialCommit
	}

	msg, err := sess.Initialize(initialCommit)
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	return textResult(msg)
}

func (s *Server) handleGetRepoStatus(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input RepoPathInput,
) (*mcpsdk.CallToolResult, gitrepo.RepoStatus, error) {
	sess, err := s.session(input.RepoPath)
	if err != nil {
		return errorResult[gitrepo.RepoStatus](err)
	}

	status, err := sess.Status()
	if err != nil {
		return errorResult[gitrepo.RepoStatus](err)
	}

	return jsonResult(status)
}

func (s *Server) handleCommitAll(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input CommitAllInput,
) (*mcpsdk.CallToolResult, MessageOutput, error) {
	if strings.TrimSpace(input.Message) == "" {
		return errorResult[MessageOutput](errMessageRequired)
	}

	sess, err := s.session(input.RepoPath)
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	// The one auto-initializing operation: committing is a "save point"
	// gesture, so a missing repository is created rather than reported.
	if !sess.IsInitialized() {
		_, initErr := sess.Initialize(false)
		if initErr != nil {
			return errorResult[MessageOutput](initErr)
		}
	}

	result, err := sess.CommitAll(input.Message)
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	return textResult(result)
}

func (s *Server) handleListCommits(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input ListCommitsInput,
) (*mcpsdk.CallToolResult, gitrepo.CommitList, error) {
	sess, err := s.session(input.RepoPath)
	if err != nil {
		return errorResult[gitrepo.CommitList](err)
	}

	branch := input.Branch
	if branch == "" {
		branch = defaultListRef
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	commits, err := sess.ListCommits(branch, limit)
	if err != nil {
		return errorResult[gitrepo.CommitList](err)
	}

	return jsonResult(commits)
}

func (s *Server) handleRollback(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input RollbackInput,
) (*mcpsdk.CallToolResult, MessageOutput, error) {
	if input.CommitSha == "" {
		return errorResult[MessageOutput](errCommitShaRequired)
	}

	sess, err := s.session(input.RepoPath)
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	mode := input.Mode
	if mode == "" {
		mode = defaultResetMode
	}

	newHead, err := sess.Rollback(input.CommitSha, mode)
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	return textResult(fmt.Sprintf("Rolled back to %s. New HEAD: %s (mode: %s)",
		gitrepo.ShortSHA(input.CommitSha), gitrepo.ShortSHA(newHead), mode))
}

func (s *Server) handleCompareCommits(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input CompareCommitsInput,
) (*mcpsdk.CallToolResult, gitrepo.CommitDiff, error) {
	if input.FromCommit == "" || input.ToCommit == "" {
		return errorResult[gitrepo.CommitDiff](errFromToRequired)
	}

	sess, err := s.session(input.RepoPath)
	if err != nil {
		return errorResult[gitrepo.CommitDiff](err)
	}

	diff, err := sess.CompareCommits(input.FromCommit, input.ToCommit)
	if err != nil {
		return errorResult[gitrepo.CommitDiff](err)
	}

	return jsonResult(diff)
}

func (s *Server) handleCreateBranch(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input CreateBranchInput,
) (*mcpsdk.CallToolResult, MessageOutput, error) {
	if input.BranchName == "" {
		return errorResult[MessageOutput](errBranchNameRequired)
	}

	sess, err := s.session(input.RepoPath)
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	name, err := sess.CreateBranch(input.BranchName, input.FromRef)
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	return textResult(fmt.Sprintf("Created branch: %s", name))
}

func (s *Server) handleSwitchBranch(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input SwitchBranchInput,
) (*mcpsdk.CallToolResult, MessageOutput, error) {
	if input.BranchName == "" {
		return errorResult[MessageOutput](errBranchNameRequired)
	}

	sess, err := s.session(input.RepoPath)
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	current, err := sess.SwitchBranch(input.BranchName)
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	return textResult(fmt.Sprintf("Switched to branch: %s", current))
}

func (s *Server) handleListBranches(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input RepoPathInput,
) (*mcpsdk.CallToolResult, MessageOutput, error) {
	sess, err := s.session(input.RepoPath)
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	branches, err := sess.ListBranches()
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	return textResult(renderBranchListing(branches))
}

// renderBranchListing formats branches one per line, current branch starred.
func renderBranchListing(branches []gitrepo.BranchInfo) string {
	lines := make([]string, 0, len(branches))

	for _, b := range branches {
		marker := "  "
		if b.IsCurrent {
			marker = "* "
		}

		lines = append(lines, fmt.Sprintf("%s%s (%s): %s",
			marker, b.Name, b.LastCommitSHA, b.LastCommitMessage))
	}

	return strings.Join(lines, "\n")
}

func (s *Server) handleGenerateCommitMessage(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input GenerateCommitMessageInput,
) (*mcpsdk.CallToolResult, MessageOutput, error) {
	sess, err := s.session(input.RepoPath)
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	status, err := sess.Status()
	if err != nil {
		return errorResult[MessageOutput](err)
	}

	style := input.Style
	if style == "" {
		style = defaultSuggestStyle
	}

	return textResult(suggestCommitMessage(status, style))
}
