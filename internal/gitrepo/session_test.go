package gitrepo_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/repomate/internal/gitrepo"
)

// testRepo wraps a test repository for integration testing.
type testRepo struct {
	t      *testing.T
	path   string
	native *git2go.Repository
}

// newTestRepo creates a new test repository.
func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	return &testRepo{t: t, path: dir, native: repo}
}

// session creates a session bound to the test repository path.
func (tr *testRepo) session() *gitrepo.Session {
	tr.t.Helper()

	sess, err := gitrepo.NewSession(tr.path)
	require.NoError(tr.t, err)

	return sess
}

// createFile creates a file in the working directory.
func (tr *testRepo) createFile(name, content string) {
	tr.t.Helper()

	path := filepath.Join(tr.path, name)
	dir := filepath.Dir(path)

	if dir != tr.path {
		err := os.MkdirAll(dir, 0o755)
		require.NoError(tr.t, err)
	}

	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(tr.t, err)
}

// deleteFile removes a file from the working directory.
func (tr *testRepo) deleteFile(name string) {
	tr.t.Helper()

	err := os.Remove(filepath.Join(tr.path, name))
	require.NoError(tr.t, err)
}

// commit stages all files and creates a commit, returning the full SHA.
func (tr *testRepo) commit(message string) string {
	tr.t.Helper()

	index, err := tr.native.Index()
	require.NoError(tr.t, err)

	defer index.Free()

	err = index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil)
	require.NoError(tr.t, err)

	err = index.UpdateAll([]string{"*"}, nil)
	require.NoError(tr.t, err)

	err = index.Write()
	require.NoError(tr.t, err)

	treeID, err := index.WriteTree()
	require.NoError(tr.t, err)

	tree, err := tr.native.LookupTree(treeID)
	require.NoError(tr.t, err)

	defer tree.Free()

	sig := &git2go.Signature{
		Name:  "Test User",
		Email: "test@example.com",
		When:  time.Now(),
	}

	var parents []*git2go.Commit

	head, err := tr.native.Head()
	if err == nil {
		headCommit, lookupErr := tr.native.LookupCommit(head.Target())
		require.NoError(tr.t, lookupErr)

		parents = append(parents, headCommit)

		head.Free()
	}

	oid, err := tr.native.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(tr.t, err)

	for _, parent := range parents {
		parent.Free()
	}

	return oid.String()
}

// Session construction tests.

func TestNewSessionResolvesAbsolutePath(t *testing.T) {
	sess, err := gitrepo.NewSession(".")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(sess.Path()))
}

// Status tests.

func TestStatusUninitialized(t *testing.T) {
	sess, err := gitrepo.NewSession(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)

	status, err := sess.Status()
	require.NoError(t, err)

	assert.False(t, status.IsInitialized)
	assert.False(t, status.HasChanges)
	assert.Empty(t, status.CurrentBranch)
	assert.Empty(t, status.StagedFiles)
	assert.Empty(t, status.ModifiedFiles)
	assert.Empty(t, status.UntrackedFiles)
}

func TestStatusBucketsFiles(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("tracked.txt", "v1")
	tr.commit("base")

	// Staged: new file added to the index.
	tr.createFile("staged.txt", "staged")
	idx, err := tr.native.Index()
	require.NoError(t, err)

	defer idx.Free()

	require.NoError(t, idx.AddByPath("staged.txt"))
	require.NoError(t, idx.Write())

	// Modified: tracked file changed in the working tree only.
	tr.createFile("tracked.txt", "v2")

	// Untracked: present on disk, unknown to the index.
	tr.createFile("untracked.txt", "new")

	status, err := tr.session().Status()
	require.NoError(t, err)

	assert.True(t, status.IsInitialized)
	assert.True(t, status.HasChanges)
	assert.Contains(t, status.StagedFiles, "staged.txt")
	assert.Contains(t, status.ModifiedFiles, "tracked.txt")
	assert.Contains(t, status.UntrackedFiles, "untracked.txt")
}

func TestStatusReportsBranchBeforeFirstCommit(t *testing.T) {
	tr := newTestRepo(t)

	status, err := tr.session().Status()
	require.NoError(t, err)

	assert.True(t, status.IsInitialized)
	assert.False(t, status.HeadDetached)
	assert.NotEmpty(t, status.CurrentBranch)
}

func TestStatusDetachedHead(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a")
	sha := tr.commit("first")

	oid, err := git2go.NewOid(sha)
	require.NoError(t, err)
	require.NoError(t, tr.native.SetHeadDetached(oid))

	status, err := tr.session().Status()
	require.NoError(t, err)

	assert.True(t, status.HeadDetached)
	assert.Empty(t, status.CurrentBranch)
}

// Initialize tests.

func TestInitializeFreshWithInitialCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project")

	sess, err := gitrepo.NewSession(path)
	require.NoError(t, err)

	msg, err := sess.Initialize(true)
	require.NoError(t, err)

	assert.Contains(t, msg, "Initialized repository with initial commit:")
	assert.FileExists(t, filepath.Join(path, "README.md"))

	commits, err := sess.ListCommits("HEAD", 10)
	require.NoError(t, err)
	require.Len(t, commits.Commits, 1)
	assert.Equal(t, "Initial commit", commits.Commits[0].Message)
}

func TestInitializeFreshWithoutInitialCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project")

	sess, err := gitrepo.NewSession(path)
	require.NoError(t, err)

	msg, err := sess.Initialize(false)
	require.NoError(t, err)

	assert.Contains(t, msg, "Initialized empty git repository")
	assert.NoFileExists(t, filepath.Join(path, "README.md"))
	assert.True(t, sess.IsInitialized())
}

func TestInitializeIdempotent(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("keep.txt", "keep")
	sha := tr.commit("first")

	msg, err := tr.session().Initialize(true)
	require.NoError(t, err)

	assert.Contains(t, msg, "already initialized")

	// Existing history is untouched.
	commits, err := tr.session().ListCommits("HEAD", 10)
	require.NoError(t, err)
	require.Len(t, commits.Commits, 1)
	assert.Equal(t, sha, commits.Commits[0].SHA)
}

func TestInitializeKeepsExistingReadme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project")
	require.NoError(t, os.MkdirAll(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "README.md"), []byte("mine\n"), 0o644))

	sess, err := gitrepo.NewSession(path)
	require.NoError(t, err)

	_, err = sess.Initialize(true)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(path, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "mine\n", string(content))
}

// CommitAll tests.

func TestCommitAllCleanTree(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a")
	tr.commit("first")

	result, err := tr.session().CommitAll("nothing here")
	require.NoError(t, err)

	assert.Equal(t, "No changes to commit", result)
}

func TestCommitAllNewFile(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a")
	tr.commit("first")

	tr.createFile("b.txt", "b")

	sha, err := tr.session().CommitAll("add b")
	require.NoError(t, err)
	assert.Len(t, sha, 40)

	status, err := tr.session().Status()
	require.NoError(t, err)
	assert.False(t, status.HasChanges)

	commits, err := tr.session().ListCommits("HEAD", 10)
	require.NoError(t, err)
	require.Len(t, commits.Commits, 2)
	assert.Equal(t, "add b", commits.Commits[0].Message)
	assert.Equal(t, sha, commits.Commits[0].SHA)
}

func TestCommitAllRecordsDeletions(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("doomed.txt", "bye")
	tr.createFile("kept.txt", "hi")
	tr.commit("first")

	tr.deleteFile("doomed.txt")

	_, err := tr.session().CommitAll("remove doomed")
	require.NoError(t, err)

	status, err := tr.session().Status()
	require.NoError(t, err)
	assert.False(t, status.HasChanges)
}

func TestCommitAllFirstCommit(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a")

	sha, err := tr.session().CommitAll("first ever")
	require.NoError(t, err)
	assert.Len(t, sha, 40)

	commits, err := tr.session().ListCommits("HEAD", 10)
	require.NoError(t, err)
	assert.Len(t, commits.Commits, 1)
}

func TestCommitAllUninitialized(t *testing.T) {
	sess, err := gitrepo.NewSession(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)

	_, err = sess.CommitAll("msg")
	require.ErrorIs(t, err, gitrepo.ErrNotInitialized)
}

// ListCommits tests.

func TestListCommitsNewestFirstWithLimit(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "1")
	tr.commit("one")
	tr.createFile("a.txt", "2")
	tr.commit("two")
	tr.createFile("a.txt", "3")
	tr.commit("three")

	commits, err := tr.session().ListCommits("HEAD", 2)
	require.NoError(t, err)

	require.Len(t, commits.Commits, 2)
	assert.Equal(t, 2, commits.TotalCount)
	assert.Equal(t, "three", commits.Commits[0].Message)
	assert.Equal(t, "two", commits.Commits[1].Message)
	assert.Equal(t, commits.Commits[0].SHA[:7], commits.Commits[0].ShortSHA)
}

func TestListCommitsResolvesHeadLabel(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a")
	tr.commit("first")

	commits, err := tr.session().ListCommits("HEAD", 10)
	require.NoError(t, err)

	assert.NotEqual(t, "HEAD", commits.Branch)
	assert.NotEmpty(t, commits.Branch)
}

func TestListCommitsUnknownRef(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a")
	tr.commit("first")

	_, err := tr.session().ListCommits("no-such-branch", 10)
	require.ErrorIs(t, err, gitrepo.ErrUnknownRef)
}

// Rollback tests.

func TestRollbackInvalidModeLeavesRepoUntouched(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "1")
	first := tr.commit("one")
	tr.createFile("a.txt", "2")
	second := tr.commit("two")

	_, err := tr.session().Rollback(first, "yolo")
	require.ErrorIs(t, err, gitrepo.ErrInvalidResetMode)

	commits, err := tr.session().ListCommits("HEAD", 10)
	require.NoError(t, err)
	assert.Equal(t, second, commits.Commits[0].SHA)
}

func TestRollbackHardDiscardsWork(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "1")
	first := tr.commit("one")
	tr.createFile("b.txt", "later")
	tr.commit("two")

	newHead, err := tr.session().Rollback(first, "hard")
	require.NoError(t, err)

	assert.Equal(t, first, newHead)
	assert.NoFileExists(t, filepath.Join(tr.path, "b.txt"))

	status, err := tr.session().Status()
	require.NoError(t, err)
	assert.False(t, status.HasChanges)
}

func TestRollbackSoftKeepsChangesStaged(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "1")
	first := tr.commit("one")
	tr.createFile("b.txt", "later")
	tr.commit("two")

	newHead, err := tr.session().Rollback(first, "soft")
	require.NoError(t, err)

	assert.Equal(t, first, newHead)
	assert.FileExists(t, filepath.Join(tr.path, "b.txt"))

	status, err := tr.session().Status()
	require.NoError(t, err)
	assert.Contains(t, status.StagedFiles, "b.txt")
}

func TestRollbackShortSHA(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "1")
	first := tr.commit("one")
	tr.createFile("a.txt", "2")
	tr.commit("two")

	newHead, err := tr.session().Rollback(first[:7], "mixed")
	require.NoError(t, err)

	assert.Equal(t, first, newHead)
}

func TestRollbackUnknownCommit(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "1")
	tr.commit("one")

	_, err := tr.session().Rollback("deadbeefdeadbeefdeadbeefdeadbeefdeadbeef", "soft")
	require.Error(t, err)
}

// CompareCommits tests.

func TestCompareCommits(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "line1\n")
	first := tr.commit("one")
	tr.createFile("a.txt", "line1\nline2\n")
	tr.createFile("b.txt", "fresh\n")
	second := tr.commit("two")

	diff, err := tr.session().CompareCommits(first, second)
	require.NoError(t, err)

	assert.Equal(t, first, diff.FromCommit)
	assert.Equal(t, second, diff.ToCommit)
	require.Len(t, diff.Files, 2)

	byName := map[string]gitrepo.FileChange{}
	for _, f := range diff.Files {
		byName[f.Filename] = f
	}

	assert.Equal(t, "modified", byName["a.txt"].Status)
	assert.Equal(t, 1, byName["a.txt"].Additions)
	assert.Equal(t, "added", byName["b.txt"].Status)
	assert.Equal(t, 1, byName["b.txt"].Additions)
	assert.NotEmpty(t, byName["a.txt"].Patch)

	assert.Equal(t, 2, diff.TotalAdditions)
	assert.Equal(t, 0, diff.TotalDeletions)
	assert.Equal(t, "2 files changed, 2 insertions(+), 0 deletions(-)", diff.Summary)
}

func TestCompareCommitsDeletedFile(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("gone.txt", "x\n")
	tr.createFile("stay.txt", "y\n")
	first := tr.commit("one")
	tr.deleteFile("gone.txt")
	second := tr.commit("two")

	diff, err := tr.session().CompareCommits(first, second)
	require.NoError(t, err)

	require.Len(t, diff.Files, 1)
	assert.Equal(t, "gone.txt", diff.Files[0].Filename)
	assert.Equal(t, "deleted", diff.Files[0].Status)
	assert.Equal(t, 1, diff.TotalDeletions)
}

func TestCompareCommitsUnknownCommit(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a")
	sha := tr.commit("one")

	_, err := tr.session().CompareCommits(sha, "bogus")
	require.ErrorIs(t, err, gitrepo.ErrUnknownRef)
}

// Branch tests.

func TestCreateBranchDoesNotSwitch(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a")
	tr.commit("first")

	sess := tr.session()

	before, err := sess.Status()
	require.NoError(t, err)

	name, err := sess.CreateBranch("feature/x", "")
	require.NoError(t, err)
	assert.Equal(t, "feature/x", name)

	after, err := sess.Status()
	require.NoError(t, err)
	assert.Equal(t, before.CurrentBranch, after.CurrentBranch)
}

func TestCreateBranchFromRef(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "1")
	first := tr.commit("one")
	tr.createFile("a.txt", "2")
	tr.commit("two")

	sess := tr.session()

	_, err := sess.CreateBranch("old-state", first)
	require.NoError(t, err)

	commits, err := sess.ListCommits("old-state", 10)
	require.NoError(t, err)
	require.Len(t, commits.Commits, 1)
	assert.Equal(t, first, commits.Commits[0].SHA)
}

func TestCreateBranchInvalidRef(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a")
	tr.commit("first")

	_, err := tr.session().CreateBranch("nope", "not-a-ref")
	require.ErrorIs(t, err, gitrepo.ErrUnknownRef)
}

func TestSwitchBranch(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a")
	tr.commit("first")

	sess := tr.session()

	_, err := sess.CreateBranch("feature/y", "")
	require.NoError(t, err)

	current, err := sess.SwitchBranch("feature/y")
	require.NoError(t, err)
	assert.Equal(t, "feature/y", current)

	status, err := sess.Status()
	require.NoError(t, err)
	assert.Equal(t, "feature/y", status.CurrentBranch)
}

func TestSwitchBranchNotFound(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a")
	tr.commit("first")

	_, err := tr.session().SwitchBranch("missing")
	require.ErrorIs(t, err, gitrepo.ErrBranchNotFound)
}

func TestListBranchesMarksCurrent(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a")
	tr.commit("first line\nbody text")

	sess := tr.session()

	_, err := sess.CreateBranch("other", "")
	require.NoError(t, err)

	branches, err := sess.ListBranches()
	require.NoError(t, err)
	require.Len(t, branches, 2)

	currentCount := 0

	for _, b := range branches {
		if b.IsCurrent {
			currentCount++
		}

		assert.Len(t, b.LastCommitSHA, 7)
		assert.Equal(t, "first line", b.LastCommitMessage)
	}

	assert.Equal(t, 1, currentCount)
}

func TestListBranchesDetachedHeadHasNoCurrent(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a")
	sha := tr.commit("first")

	oid, err := git2go.NewOid(sha)
	require.NoError(t, err)
	require.NoError(t, tr.native.SetHeadDetached(oid))

	branches, err := tr.session().ListBranches()
	require.NoError(t, err)
	require.NotEmpty(t, branches)

	for _, b := range branches {
		assert.False(t, b.IsCurrent)
	}
}

// Helper tests.

func TestShortSHA(t *testing.T) {
	assert.Equal(t, "abcdefa", gitrepo.ShortSHA("abcdefabcdefabcdefabcdefabcdefabcdefabcd"))
	assert.Equal(t, "abc", gitrepo.ShortSHA("abc"))
}
