package gitrepo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	git2go "github.com/libgit2/git2go/v34"
)

// Sentinel errors for session operations.
var (
	// ErrNotInitialized is returned when an operation requires an existing
	// repository and the path does not hold one.
	ErrNotInitialized = errors.New("repository not initialized")

	// ErrUnknownRef is returned when a caller-supplied branch, tag, or commit
	// identifier does not resolve.
	ErrUnknownRef = errors.New("unknown reference")

	// ErrBranchNotFound is returned when a named local branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrInvalidResetMode is returned for a rollback mode outside
	// soft/mixed/hard. Checked before the repository is touched.
	ErrInvalidResetMode = errors.New("invalid reset mode")

	// ErrEmptyHistory is returned when an operation needs a HEAD commit and
	// the repository has none.
	ErrEmptyHistory = errors.New("repository has no commits")
)

// readmeContent is the placeholder written when Initialize creates a fresh
// repository with an initial commit and no README.md exists yet.
const readmeContent = "# Project\n\nInitialized by repomate.\n"

// initialCommitMessage is the message used for the auto-created first commit.
const initialCommitMessage = "Initial commit"

// msgNoChanges is the exact string CommitAll returns for a clean tree.
const msgNoChanges = "No changes to commit"

// fallbackSigName and fallbackSigEmail identify commits created when the
// repository has no user.name/user.email configured.
const (
	fallbackSigName  = "repomate"
	fallbackSigEmail = "repomate@localhost"
)

// resetModes maps the accepted rollback modes to libgit2 reset types.
var resetModes = map[string]git2go.ResetType{
	"soft":  git2go.ResetSoft,
	"mixed": git2go.ResetMixed,
	"hard":  git2go.ResetHard,
}

// Session binds version-control operations to a single repository path.
// It holds no open handle: each operation opens the repository from disk and
// frees it before returning. Concurrent mutating calls against the same path
// race at the libgit2 level; the session adds no locking of its own.
type Session struct {
	path string
}

// NewSession creates a session for the given directory. The path is
// canonicalized to an absolute path once, at construction.
func NewSession(path string) (*Session, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve repository path: %w", err)
	}

	return &Session{path: abs}, nil
}

// Path returns the canonicalized repository path.
func (s *Session) Path() string {
	return s.path
}

// open opens the repository, translating any failure into ErrNotInitialized.
// Callers must Free the returned repository.
func (s *Session) open() (*git2go.Repository, error) {
	repo, err := git2go.OpenRepository(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w at %s: call initialize_repo first", ErrNotInitialized, s.path)
	}

	return repo, nil
}

// IsInitialized reports whether a valid repository exists at the path.
// It never fails; nonexistent directories report false.
func (s *Session) IsInitialized() bool {
	repo, err := git2go.OpenRepository(s.path)
	if err != nil {
		return false
	}

	repo.Free()

	return true
}

// Initialize creates a repository at the path, creating the directory tree
// first when absent. Calling it on an existing repository is a no-op that
// only changes the returned message. When createInitialCommit is true and the
// repository is fresh, a README.md is created (if absent), everything present
// is staged, and an "Initial commit" is recorded.
func (s *Session) Initialize(createInitialCommit bool) (string, error) {
	err := os.MkdirAll(s.path, 0o755)
	if err != nil {
		return "", fmt.Errorf("create repository directory: %w", err)
	}

	if s.IsInitialized() {
		return fmt.Sprintf("Repository already initialized at %s", s.path), nil
	}

	repo, err := git2go.InitRepository(s.path, false)
	if err != nil {
		return "", fmt.Errorf("init repository: %w", err)
	}
	defer repo.Free()

	if createInitialCommit {
		msg, ok := s.createInitialCommit(repo)
		if ok {
			return msg, nil
		}
	}

	return fmt.Sprintf("Initialized empty git repository at %s", s.path), nil
}

// createInitialCommit stages the working tree (seeding a README.md when none
// exists) and records the first commit. The false return covers every failure
// path: the fallback to the generic "initialized empty repository" message is
// intentional, committing nothing is not an error during initialization.
func (s *Session) createInitialCommit(repo *git2go.Repository) (string, bool) {
	readmePath := filepath.Join(s.path, "README.md")

	_, statErr := os.Stat(readmePath)
	if os.IsNotExist(statErr) {
		writeErr := os.WriteFile(readmePath, []byte(readmeContent), 0o644)
		if writeErr != nil {
			return "", false
		}
	}

	idx, err := repo.Index()
	if err != nil {
		return "", false
	}
	defer idx.Free()

	err = idx.AddAll([]string{"*"}, git2go.IndexAddDefault, nil)
	if err != nil {
		return "", false
	}

	err = idx.Write()
	if err != nil {
		return "", false
	}

	unborn, err := repo.IsHeadUnborn()
	if err != nil || !unborn {
		// Commits already exist; nothing to seed.
		return "", false
	}

	treeOid, err := idx.WriteTree()
	if err != nil {
		return "", false
	}

	tree, err := repo.LookupTree(treeOid)
	if err != nil {
		return "", false
	}
	defer tree.Free()

	if tree.EntryCount() == 0 {
		// Nothing staged; swallowed by design, the caller gets the generic
		// initialization message instead of an error.
		return "", false
	}

	sig := s.signature(repo)

	oid, err := repo.CreateCommit("HEAD", sig, sig, initialCommitMessage, tree)
	if err != nil {
		return "", false
	}

	return fmt.Sprintf("Initialized repository with initial commit: %s", shortSHA(oid.String())), true
}

// signature resolves the commit signature from repository config, falling
// back to a fixed identity when user.name/user.email are unset.
func (s *Session) signature(repo *git2go.Repository) *git2go.Signature {
	sig, err := repo.DefaultSignature()
	if err != nil {
		return &git2go.Signature{
			Name:  fallbackSigName,
			Email: fallbackSigEmail,
			When:  time.Now(),
		}
	}

	return sig
}

// Status reports the repository's current state. For paths that hold no
// repository it returns the zero status without opening anything.
func (s *Session) Status() (RepoStatus, error) {
	if !s.IsInitialized() {
		return RepoStatus{
			IsInitialized:  false,
			HasChanges:     false,
			StagedFiles:    []string{},
			ModifiedFiles:  []string{},
			UntrackedFiles: []string{},
		}, nil
	}

	repo, err := s.open()
	if err != nil {
		return RepoStatus{}, err
	}
	defer repo.Free()

	head, err := s.headRef(repo)
	if err != nil {
		return RepoStatus{}, err
	}

	staged, modified, untracked, err := collectFileStates(repo)
	if err != nil {
		return RepoStatus{}, err
	}

	return RepoStatus{
		IsInitialized:  true,
		CurrentBranch:  head.Name,
		HeadDetached:   head.Detached,
		HasChanges:     len(staged) > 0 || len(modified) > 0 || len(untracked) > 0,
		StagedFiles:    staged,
		ModifiedFiles:  modified,
		UntrackedFiles: untracked,
	}, nil
}

// stagedMask and wtMask classify libgit2 status flags into the three file
// sets exposed by RepoStatus.
const (
	stagedMask = git2go.StatusIndexNew | git2go.StatusIndexModified |
		git2go.StatusIndexDeleted | git2go.StatusIndexRenamed | git2go.StatusIndexTypeChange

	wtMask = git2go.StatusWtModified | git2go.StatusWtDeleted |
		git2go.StatusWtTypeChange | git2go.StatusWtRenamed
)

// collectFileStates walks the libgit2 status list and buckets entries into
// staged, modified, and untracked path sets, in backend order.
func collectFileStates(repo *git2go.Repository) (staged, modified, untracked []string, err error) {
	staged, modified, untracked = []string{}, []string{}, []string{}

	opts := &git2go.StatusOptions{
		Show:  git2go.StatusShowIndexAndWorkdir,
		Flags: git2go.StatusOptIncludeUntracked | git2go.StatusOptRecurseUntrackedDirs,
	}

	list, err := repo.StatusList(opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read status: %w", err)
	}
	defer list.Free()

	count, err := list.EntryCount()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("count status entries: %w", err)
	}

	for i := 0; i < count; i++ {
		entry, entryErr := list.ByIndex(i)
		if entryErr != nil {
			return nil, nil, nil, fmt.Errorf("read status entry: %w", entryErr)
		}

		if entry.Status&stagedMask != 0 {
			staged = append(staged, deltaPath(entry.HeadToIndex))
		}

		if entry.Status&wtMask != 0 {
			modified = append(modified, deltaPath(entry.IndexToWorkdir))
		}

		if entry.Status&git2go.StatusWtNew != 0 {
			untracked = append(untracked, deltaPath(entry.IndexToWorkdir))
		}
	}

	return staged, modified, untracked, nil
}

// deltaPath prefers the pre-change path, matching how status entries are
// reported by path.
func deltaPath(delta git2go.DiffDelta) string {
	if delta.OldFile.Path != "" {
		return delta.OldFile.Path
	}

	return delta.NewFile.Path
}

// CommitAll stages every change in the working tree (the equivalent of
// `git add -A`, including untracked and deleted paths) and commits it with
// the given message. On a clean tree it returns the literal
// "No changes to commit" string and records nothing. It never initializes a
// repository; callers wanting that must do so first.
func (s *Session) CommitAll(message string) (string, error) {
	repo, err := s.open()
	if err != nil {
		return "", err
	}
	defer repo.Free()

	idx, err := repo.Index()
	if err != nil {
		return "", fmt.Errorf("open index: %w", err)
	}
	defer idx.Free()

	err = idx.AddAll([]string{"*"}, git2go.IndexAddDefault, nil)
	if err != nil {
		return "", fmt.Errorf("stage files: %w", err)
	}

	// AddAll does not record deletions; UpdateAll does.
	err = idx.UpdateAll([]string{"*"}, nil)
	if err != nil {
		return "", fmt.Errorf("stage deletions: %w", err)
	}

	err = idx.Write()
	if err != nil {
		return "", fmt.Errorf("write index: %w", err)
	}

	headCommit, headTree, err := headCommitAndTree(repo)
	if err != nil {
		return "", err
	}

	if headCommit != nil {
		defer headCommit.Free()
	}

	if headTree != nil {
		defer headTree.Free()
	}

	clean, err := indexMatchesTree(repo, idx, headTree)
	if err != nil {
		return "", err
	}

	if clean {
		return msgNoChanges, nil
	}

	treeOid, err := idx.WriteTree()
	if err != nil {
		return "", fmt.Errorf("write tree: %w", err)
	}

	tree, err := repo.LookupTree(treeOid)
	if err != nil {
		return "", fmt.Errorf("lookup tree: %w", err)
	}
	defer tree.Free()

	sig := s.signature(repo)

	var parents []*git2go.Commit
	if headCommit != nil {
		parents = append(parents, headCommit)
	}

	oid, err := repo.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	if err != nil {
		return "", fmt.Errorf("create commit: %w", err)
	}

	return oid.String(), nil
}

// headCommitAndTree returns the HEAD commit and its tree, or nils for an
// unborn HEAD. Callers free both when non-nil.
func headCommitAndTree(repo *git2go.Repository) (*git2go.Commit, *git2go.Tree, error) {
	unborn, err := repo.IsHeadUnborn()
	if err != nil {
		return nil, nil, fmt.Errorf("inspect HEAD: %w", err)
	}

	if unborn {
		return nil, nil, nil
	}

	ref, err := repo.Head()
	if err != nil {
		return nil, nil, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	commit, err := repo.LookupCommit(ref.Target())
	if err != nil {
		return nil, nil, fmt.Errorf("lookup HEAD commit: %w", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		commit.Free()

		return nil, nil, fmt.Errorf("get HEAD tree: %w", err)
	}

	return commit, tree, nil
}

// indexMatchesTree reports whether the staged index is identical to the given
// tree (nil tree means an unborn HEAD, matched only by an empty index).
func indexMatchesTree(repo *git2go.Repository, idx *git2go.Index, tree *git2go.Tree) (bool, error) {
	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return false, fmt.Errorf("get diff options: %w", err)
	}

	diff, err := repo.DiffTreeToIndex(tree, idx, &opts)
	if err != nil {
		return false, fmt.Errorf("diff index against HEAD: %w", err)
	}
	defer diff.Free()

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return false, fmt.Errorf("count index deltas: %w", err)
	}

	return numDeltas == 0, nil
}

// ListCommits walks history from the resolved ref, newest first, stopping at
// limit entries or exhaustion.
func (s *Session) ListCommits(ref string, limit int) (CommitList, error) {
	repo, err := s.open()
	if err != nil {
		return CommitList{}, err
	}
	defer repo.Free()

	start, err := resolveCommit(repo, ref)
	if err != nil {
		return CommitList{}, fmt.Errorf("%w: branch or ref %q", ErrUnknownRef, ref)
	}
	defer start.Free()

	walk, err := repo.Walk()
	if err != nil {
		return CommitList{}, fmt.Errorf("create revwalk: %w", err)
	}
	defer walk.Free()

	err = walk.Push(start.Id())
	if err != nil {
		return CommitList{}, fmt.Errorf("push %s to revwalk: %w", ref, err)
	}

	walk.Sorting(git2go.SortTime)

	commits := []CommitInfo{}

	for len(commits) < limit {
		oid := new(git2go.Oid)

		// Walker errors signal exhaustion.
		nextErr := walk.Next(oid)
		if nextErr != nil {
			break
		}

		commit, lookupErr := repo.LookupCommit(oid)
		if lookupErr != nil {
			continue
		}

		commits = append(commits, commitInfo(commit))
		commit.Free()
	}

	label := ref
	if ref == "HEAD" {
		head, headErr := s.headRef(repo)
		if headErr != nil {
			return CommitList{}, headErr
		}

		label = head.Label()
	}

	return CommitList{
		Commits:    commits,
		TotalCount: len(commits),
		Branch:     label,
	}, nil
}

// commitInfo snapshots a commit into the serializable record.
func commitInfo(commit *git2go.Commit) CommitInfo {
	sha := commit.Id().String()
	author := commit.Author()
	committer := commit.Committer()

	return CommitInfo{
		SHA:         sha,
		ShortSHA:    shortSHA(sha),
		Message:     strings.TrimSpace(commit.Message()),
		Author:      author.Name,
		AuthorEmail: author.Email,
		Timestamp:   committer.When.UTC(),
	}
}

// Rollback resets the current branch to the target commit. The mode is
// validated before the repository is touched; hard discards uncommitted work
// irrecoverably.
func (s *Session) Rollback(target, mode string) (string, error) {
	resetType, ok := resetModes[mode]
	if !ok {
		return "", fmt.Errorf("%w: %q (must be one of: soft, mixed, hard)", ErrInvalidResetMode, mode)
	}

	repo, err := s.open()
	if err != nil {
		return "", err
	}
	defer repo.Free()

	commit, err := resolveCommit(repo, target)
	if err != nil {
		return "", fmt.Errorf("reset to %s: %w", target, err)
	}
	defer commit.Free()

	checkoutOpts := git2go.CheckoutOptions{Strategy: git2go.CheckoutForce}

	err = repo.ResetToCommit(commit, resetType, &checkoutOpts)
	if err != nil {
		return "", fmt.Errorf("reset to %s: %w", target, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD after reset: %w", err)
	}
	defer head.Free()

	return head.Target().String(), nil
}

// CompareCommits computes a tree-level diff between two commits. Rename
// detection runs so the "renamed" status is reachable.
func (s *Session) CompareCommits(from, to string) (CommitDiff, error) {
	repo, err := s.open()
	if err != nil {
		return CommitDiff{}, err
	}
	defer repo.Free()

	fromTree, err := commitTree(repo, from)
	if err != nil {
		return CommitDiff{}, err
	}
	defer fromTree.Free()

	toTree, err := commitTree(repo, to)
	if err != nil {
		return CommitDiff{}, err
	}
	defer toTree.Free()

	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return CommitDiff{}, fmt.Errorf("get diff options: %w", err)
	}

	diff, err := repo.DiffTreeToTree(fromTree, toTree, &opts)
	if err != nil {
		return CommitDiff{}, fmt.Errorf("diff commits: %w", err)
	}
	defer diff.Free()

	findOpts, err := git2go.DefaultDiffFindOptions()
	if err == nil {
		// Best effort; without it renames surface as delete+add pairs.
		_ = diff.FindSimilar(&findOpts)
	}

	files, totalAdd, totalDel, err := collectFileChanges(diff)
	if err != nil {
		return CommitDiff{}, err
	}

	summary := fmt.Sprintf("%d files changed, %d insertions(+), %d deletions(-)",
		len(files), totalAdd, totalDel)

	return CommitDiff{
		FromCommit:     from,
		ToCommit:       to,
		Files:          files,
		TotalAdditions: totalAdd,
		TotalDeletions: totalDel,
		Summary:        summary,
	}, nil
}

// commitTree resolves a ref to its commit tree.
func commitTree(repo *git2go.Repository, ref string) (*git2go.Tree, error) {
	commit, err := resolveCommit(repo, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid commit %q", ErrUnknownRef, ref)
	}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("get tree for %s: %w", ref, err)
	}

	return tree, nil
}

// collectFileChanges flattens diff deltas into FileChange records, in the
// order the backend reports them.
func collectFileChanges(diff *git2go.Diff) (files []FileChange, totalAdd, totalDel int, err error) {
	files = []FileChange{}

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("count deltas: %w", err)
	}

	for i := 0; i < numDeltas; i++ {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			return nil, 0, 0, fmt.Errorf("read delta: %w", deltaErr)
		}

		patchText := patchString(diff, i)
		additions, deletions := countPatchLines(patchText)

		totalAdd += additions
		totalDel += deletions

		filename := delta.NewFile.Path
		if filename == "" {
			filename = delta.OldFile.Path
		}

		files = append(files, FileChange{
			Filename:  filename,
			Status:    deltaStatus(delta.Status),
			Additions: additions,
			Deletions: deletions,
			Patch:     patchText,
		})
	}

	return files, totalAdd, totalDel, nil
}

// patchString renders the unified patch for one delta. Failures and invalid
// UTF-8 degrade to an absent/replaced patch rather than failing the diff.
func patchString(diff *git2go.Diff, index int) string {
	patch, err := diff.Patch(index)
	if err != nil || patch == nil {
		return ""
	}

	text, err := patch.String()

	freeErr := patch.Free()
	_ = freeErr

	if err != nil {
		return ""
	}

	return strings.ToValidUTF8(text, "�")
}

// deltaStatus maps a libgit2 delta to the external status vocabulary.
// Precedence: added, deleted, renamed, then modified for everything else.
func deltaStatus(status git2go.Delta) string {
	switch status {
	case git2go.DeltaAdded:
		return "added"
	case git2go.DeltaDeleted:
		return "deleted"
	case git2go.DeltaRenamed:
		return "renamed"
	default:
		return "modified"
	}
}

// countPatchLines counts added/removed lines in a unified patch body,
// excluding the +++/--- file header lines.
func countPatchLines(patch string) (additions, deletions int) {
	if patch == "" {
		return 0, 0
	}

	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			additions++
		case strings.HasPrefix(line, "-"):
			deletions++
		}
	}

	return additions, deletions
}

// CreateBranch creates a new branch pointer at fromRef (or HEAD when empty)
// without switching the working tree to it.
func (s *Session) CreateBranch(name, fromRef string) (string, error) {
	repo, err := s.open()
	if err != nil {
		return "", err
	}
	defer repo.Free()

	var target *git2go.Commit

	if fromRef != "" {
		target, err = resolveCommit(repo, fromRef)
		if err != nil {
			return "", fmt.Errorf("%w: invalid ref %q", ErrUnknownRef, fromRef)
		}
	} else {
		target, err = headCommit(repo)
		if err != nil {
			return "", err
		}
	}
	defer target.Free()

	branch, err := repo.CreateBranch(name, target, false)
	if err != nil {
		return "", fmt.Errorf("create branch %q: %w", name, err)
	}
	branch.Free()

	return name, nil
}

// SwitchBranch checks out the named local branch (working tree and index
// updated to its tip) and returns the now-active branch name.
func (s *Session) SwitchBranch(name string) (string, error) {
	repo, err := s.open()
	if err != nil {
		return "", err
	}
	defer repo.Free()

	branch, err := repo.LookupBranch(name, git2go.BranchLocal)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBranchNotFound, name)
	}
	defer branch.Free()

	commit, err := repo.LookupCommit(branch.Target())
	if err != nil {
		return "", fmt.Errorf("lookup branch tip: %w", err)
	}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("get branch tree: %w", err)
	}
	defer tree.Free()

	checkoutOpts := git2go.CheckoutOptions{
		Strategy: git2go.CheckoutSafe | git2go.CheckoutRecreateMissing,
	}

	err = repo.CheckoutTree(tree, &checkoutOpts)
	if err != nil {
		return "", fmt.Errorf("checkout branch %q: %w", name, err)
	}

	err = repo.SetHead("refs/heads/" + name)
	if err != nil {
		return "", fmt.Errorf("move HEAD to %q: %w", name, err)
	}

	head, err := s.headRef(repo)
	if err != nil {
		return "", err
	}

	return head.Name, nil
}

// ListBranches returns one entry per local branch, in backend order.
// IsCurrent is false on every entry when HEAD is detached.
func (s *Session) ListBranches() ([]BranchInfo, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}
	defer repo.Free()

	head, err := s.headRef(repo)
	if err != nil {
		return nil, err
	}

	current := ""
	if !head.Detached {
		current = head.Name
	}

	iter, err := repo.NewBranchIterator(git2go.BranchLocal)
	if err != nil {
		return nil, fmt.Errorf("iterate branches: %w", err)
	}
	defer iter.Free()

	branches := []BranchInfo{}

	err = iter.ForEach(func(branch *git2go.Branch, _ git2go.BranchType) error {
		name, nameErr := branch.Name()
		if nameErr != nil {
			return fmt.Errorf("read branch name: %w", nameErr)
		}

		tip, tipErr := repo.LookupCommit(branch.Target())
		if tipErr != nil {
			return fmt.Errorf("lookup tip of %q: %w", name, tipErr)
		}
		defer tip.Free()

		branches = append(branches, BranchInfo{
			Name:              name,
			IsCurrent:         current != "" && name == current,
			LastCommitSHA:     shortSHA(tip.Id().String()),
			LastCommitMessage: firstLine(tip.Message()),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return branches, nil
}

// headRef resolves where HEAD points, covering detached and unborn states.
// An unborn HEAD still reports its symbolic branch name, matching what
// `git status` shows for a fresh repository.
func (s *Session) headRef(repo *git2go.Repository) (HeadRef, error) {
	detached, err := repo.IsHeadDetached()
	if err != nil {
		return HeadRef{}, fmt.Errorf("inspect HEAD: %w", err)
	}

	if detached {
		return HeadRef{Detached: true}, nil
	}

	ref, err := repo.References.Lookup("HEAD")
	if err != nil {
		return HeadRef{}, fmt.Errorf("lookup HEAD: %w", err)
	}
	defer ref.Free()

	return HeadRef{Name: strings.TrimPrefix(ref.SymbolicTarget(), "refs/heads/")}, nil
}

// headCommit returns the commit HEAD points at.
func headCommit(repo *git2go.Repository) (*git2go.Commit, error) {
	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyHistory, err)
	}
	defer ref.Free()

	commit, err := repo.LookupCommit(ref.Target())
	if err != nil {
		return nil, fmt.Errorf("lookup HEAD commit: %w", err)
	}

	return commit, nil
}

// resolveCommit resolves any revision expression (SHA, short SHA, branch,
// tag, HEAD) to its commit object.
func resolveCommit(repo *git2go.Repository, ref string) (*git2go.Commit, error) {
	obj, err := repo.RevparseSingle(ref)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", ref, err)
	}
	defer obj.Free()

	peeled, err := obj.Peel(git2go.ObjectCommit)
	if err != nil {
		return nil, fmt.Errorf("peel %q to commit: %w", ref, err)
	}
	defer peeled.Free()

	commit, err := repo.LookupCommit(peeled.Id())
	if err != nil {
		return nil, fmt.Errorf("lookup commit %q: %w", ref, err)
	}

	return commit, nil
}

// ShortSHA exposes the display prefix used across results.
func ShortSHA(sha string) string {
	return shortSHA(sha)
}

func shortSHA(sha string) string {
	if len(sha) <= shortSHALen {
		return sha
	}

	return sha[:shortSHALen]
}

// firstLine returns the trimmed first line of a commit message.
func firstLine(message string) string {
	trimmed := strings.TrimSpace(message)

	line, _, _ := strings.Cut(trimmed, "\n")

	return strings.TrimSpace(line)
}
