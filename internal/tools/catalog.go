// Package tools implements the operation catalog and dispatcher that expose
// version-control operations to automated agents. Every operation is invoked
// by name with a JSON argument object and returns a uniform result envelope.
package tools

// Operation names in the catalog.
const (
	OpInitializeRepo        = "initialize_repo"
	OpGetRepoStatus         = "get_repo_status"
	OpCommitAllChanges      = "commit_all_changes"
	OpListCommits           = "list_commits"
	OpRollbackToCommit      = "rollback_to_commit"
	OpCompareCommits        = "compare_commits"
	OpCreateBranch          = "create_branch"
	OpSwitchBranch          = "switch_branch"
	OpListBranches          = "list_branches"
	OpGenerateCommitMessage = "generate_commit_message"
)

// ArgSpec describes one argument in an operation's input contract. The
// dispatcher validates requests against these specs before any engine work.
type ArgSpec struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // string, int, or bool
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Enum        []string `json:"enum,omitempty"`
	Default     any      `json:"default,omitempty"`
}

// OpSpec describes one operation in the catalog.
type OpSpec struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Args        []ArgSpec `json:"args"`
}

// repoPathArg is shared by every operation. It is optional at the argument
// level because a server-wide default path may stand in for it.
func repoPathArg() ArgSpec {
	return ArgSpec{
		Name:        "repo_path",
		Type:        "string",
		Description: "Path to the repository; falls back to the configured default path",
	}
}

// Catalog returns the full operation catalog in a fixed order.
func Catalog() []OpSpec {
	return []OpSpec{
		{
			Name:        OpInitializeRepo,
			Description: "Initialize a git repository, creating the directory if needed. Idempotent.",
			Args: []ArgSpec{
				repoPathArg(),
				{Name: "initial_commit", Type: "bool", Description: "Create a baseline commit in a fresh repository", Default: true},
			},
		},
		{
			Name:        OpGetRepoStatus,
			Description: "Report working tree state. Read-only; never initializes anything.",
			Args:        []ArgSpec{repoPathArg()},
		},
		{
			Name:        OpCommitAllChanges,
			Description: "Stage every change and commit it. A clean tree is a no-op, not an error.",
			Args: []ArgSpec{
				repoPathArg(),
				{Name: "message", Type: "string", Description: "Commit message", Required: true},
			},
		},
		{
			Name:        OpListCommits,
			Description: "List commits newest first.",
			Args: []ArgSpec{
				repoPathArg(),
				{Name: "branch", Type: "string", Description: "Branch or ref to walk", Default: "HEAD"},
				{Name: "limit", Type: "int", Description: "Maximum commits to return (capped at 500)", Default: 50},
			},
		},
		{
			Name:        OpRollbackToCommit,
			Description: "Move the current branch back to a commit. Hard mode discards uncommitted work.",
			Args: []ArgSpec{
				repoPathArg(),
				{Name: "commit_sha", Type: "string", Description: "Full or abbreviated commit sha, or a ref", Required: true},
				{Name: "mode", Type: "string", Description: "Reset mode", Enum: []string{"soft", "mixed", "hard"}, Default: "soft"},
			},
		},
		{
			Name:        OpCompareCommits,
			Description: "Compare two commits and summarize per-file changes.",
			Args: []ArgSpec{
				repoPathArg(),
				{Name: "from_commit", Type: "string", Description: "Comparison base", Required: true},
				{Name: "to_commit", Type: "string", Description: "Comparison target", Required: true},
			},
		},
		{
			Name:        OpCreateBranch,
			Description: "Create a branch without switching to it.",
			Args: []ArgSpec{
				repoPathArg(),
				{Name: "branch_name", Type: "string", Description: "Name of the new branch", Required: true},
				{Name: "from_ref", Type: "string", Description: "Starting point; current HEAD when empty"},
			},
		},
		{
			Name:        OpSwitchBranch,
			Description: "Check out an existing branch. Blocked by uncommitted changes unless forced.",
			Args: []ArgSpec{
				repoPathArg(),
				{Name: "branch_name", Type: "string", Description: "Branch to switch to", Required: true},
				{Name: "force", Type: "bool", Description: "Switch even with uncommitted changes", Default: false},
			},
		},
		{
			Name:        OpListBranches,
			Description: "List local branches ordered by name.",
			Args:        []ArgSpec{repoPathArg()},
		},
		{
			Name:        OpGenerateCommitMessage,
			Description: "Synthesize a commit message from the pending change set. Deterministic.",
			Args: []ArgSpec{
				repoPathArg(),
				{Name: "style", Type: "string", Description: "Message style", Enum: []string{"conventional", "simple"}, Default: "conventional"},
			},
		},
	}
}

// FindOp looks up an operation spec by name.
func FindOp(name string) (OpSpec, bool) {
	for _, op := range Catalog() {
		if op.Name == name {
			return op, true
		}
	}
	return OpSpec{}, false
}
