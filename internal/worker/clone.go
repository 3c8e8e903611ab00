package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/halyard-dev/halyard/internal/core"
)

// tokenUser is the username GitHub expects alongside an installation token.
const tokenUser = "x-access-token"

// GitCloner implements core.Cloner with shallow clones pinned to the exact
// commit a job names. Installation tokens never appear in returned errors.
type GitCloner struct {
	logger *slog.Logger
}

// NewGitCloner creates a cloner.
func NewGitCloner(logger *slog.Logger) *GitCloner {
	if logger == nil {
		logger = slog.Default()
	}
	return &GitCloner{logger: logger.With("component", "cloner")}
}

// Clone fetches the repository into p.Dir and checks out p.CommitSHA. The
// clone is depth-1 on the job's branch; when the commit is no longer the
// branch head it is fetched explicitly before checkout.
func (c *GitCloner) Clone(ctx context.Context, p core.CloneParams) error {
	auth := &githttp.BasicAuth{Username: tokenUser, Password: p.Token}

	opts := &git.CloneOptions{
		URL:          p.RepoURL,
		Auth:         auth,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	}
	if p.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(p.Branch)
	}

	repo, err := git.PlainCloneContext(ctx, p.Dir, false, opts)
	if err != nil {
		return redactToken(fmt.Errorf("git clone: %w", err), p.Token)
	}

	hash := plumbing.NewHash(p.CommitSHA)

	// The shallow clone only carries the branch head. If the job pins an
	// older commit, fetch it directly; GitHub allows fetching by SHA.
	if _, err := repo.CommitObject(hash); err != nil {
		fetchErr := repo.FetchContext(ctx, &git.FetchOptions{
			Auth:     auth,
			Depth:    1,
			RefSpecs: []config.RefSpec{config.RefSpec(p.CommitSHA + ":refs/remotes/origin/" + p.CommitSHA)},
			Tags:     git.NoTags,
		})
		if fetchErr != nil && !errors.Is(fetchErr, git.NoErrAlreadyUpToDate) {
			return redactToken(fmt.Errorf("git fetch %s: %w", p.CommitSHA, fetchErr), p.Token)
		}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: hash, Force: true}); err != nil {
		return fmt.Errorf("git checkout %s: %w", p.CommitSHA, err)
	}

	c.logger.Info("repository cloned", "repo_url", p.RepoURL, "commit", p.CommitSHA, "dir", p.Dir)
	return nil
}

// redactToken strips the credential from transport errors before they reach
// logs or status callbacks.
func redactToken(err error, token string) error {
	if err == nil || token == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, token) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(msg, token, "[REDACTED]"))
}
