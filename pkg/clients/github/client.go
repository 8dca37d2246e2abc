package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"go.uber.org/zap"
)

var (
	// ErrBranchExists is returned by CreateBranch when the ref is already there.
	ErrBranchExists = errors.New("branch already exists")
	// ErrNotFound covers missing repositories, refs and files.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by UpdateFile when the blob SHA precondition is stale.
	ErrConflict = errors.New("file changed since it was read")
)

// File is a tracked file as read from one revision.
type File struct {
	Path    string
	Content string
	SHA     string
}

// Commit identifies a commit created by UpdateFile.
type Commit struct {
	SHA string
	URL string
}

// Client defines the operations needed against the hosting service
type Client interface {
	DefaultBranch(ctx context.Context) (string, error)
	BranchHead(ctx context.Context, branch string) (string, error)
	CreateBranch(ctx context.Context, branch, sha string) error
	GetFile(ctx context.Context, path, ref string) (*File, error)
	UpdateFile(ctx context.Context, path, branch, message, content, sha string) (*Commit, error)
}

// Config identifies the target repository and how to reach it.
type Config struct {
	Token          string
	Owner          string
	Repo           string
	BaseURL        string
	CallTimeout    time.Duration
	CommitterName  string
	CommitterEmail string
}

type clientImpl struct {
	gh     *gh.Client
	cfg    Config
	logger *zap.Logger
}

// NewClient creates a new GitHub client for one repository
func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	client := gh.NewClient(&http.Client{}).WithAuthToken(cfg.Token)

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("error parsing GitHub API URL %q: %w", cfg.BaseURL, err)
		}
		client.BaseURL = u
	}

	return &clientImpl{
		gh:     client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

func (c *clientImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.CallTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.cfg.CallTimeout)
}

func (c *clientImpl) DefaultBranch(ctx context.Context) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	repo, _, err := c.gh.Repositories.Get(ctx, c.cfg.Owner, c.cfg.Repo)
	if err != nil {
		return "", fmt.Errorf("error reading repository %s/%s: %w", c.cfg.Owner, c.cfg.Repo, classify(err))
	}

	return repo.GetDefaultBranch(), nil
}

func (c *clientImpl) BranchHead(ctx context.Context, branch string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	ref, _, err := c.gh.Git.GetRef(ctx, c.cfg.Owner, c.cfg.Repo, "heads/"+branch)
	if err != nil {
		return "", fmt.Errorf("error reading head of %s: %w", branch, classify(err))
	}

	sha := ref.GetObject().GetSHA()
	if sha == "" {
		return "", fmt.Errorf("error reading head of %s: empty object SHA", branch)
	}
	return sha, nil
}

func (c *clientImpl) CreateBranch(ctx context.Context, branch, sha string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, _, err := c.gh.Git.CreateRef(ctx, c.cfg.Owner, c.cfg.Repo, &gh.Reference{
		Ref:    gh.String("refs/heads/" + branch),
		Object: &gh.GitObject{SHA: gh.String(sha)},
	})
	if err != nil {
		if isRefExists(err) {
			return ErrBranchExists
		}
		return fmt.Errorf("error creating branch %s: %w", branch, classify(err))
	}

	c.logger.Info("created branch", zap.String("branch", branch), zap.String("sha", sha))
	return nil
}

func (c *clientImpl) GetFile(ctx context.Context, path, ref string) (*File, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	file, _, _, err := c.gh.Repositories.GetContents(ctx, c.cfg.Owner, c.cfg.Repo, path,
		&gh.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return nil, fmt.Errorf("error reading %s at %s: %w", path, ref, classify(err))
	}
	if file == nil {
		return nil, fmt.Errorf("error reading %s at %s: path is a directory", path, ref)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("error decoding %s at %s: %w", path, ref, err)
	}

	return &File{
		Path:    path,
		Content: content,
		SHA:     file.GetSHA(),
	}, nil
}

func (c *clientImpl) UpdateFile(ctx context.Context, path, branch, message, content, sha string) (*Commit, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(message),
		Content: []byte(content),
		SHA:     gh.String(sha),
		Branch:  gh.String(branch),
	}
	if c.cfg.CommitterName != "" && c.cfg.CommitterEmail != "" {
		opts.Committer = &gh.CommitAuthor{
			Name:  gh.String(c.cfg.CommitterName),
			Email: gh.String(c.cfg.CommitterEmail),
		}
	}

	res, _, err := c.gh.Repositories.UpdateFile(ctx, c.cfg.Owner, c.cfg.Repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("error committing %s to %s: %w", path, branch, classify(err))
	}

	commit := &Commit{
		SHA: res.Commit.GetSHA(),
		URL: res.Commit.GetHTMLURL(),
	}
	c.logger.Info("committed file",
		zap.String("path", path),
		zap.String("branch", branch),
		zap.String("commit", commit.SHA),
	)
	return commit, nil
}

// classify maps GitHub API statuses onto the package sentinels while keeping
// the original error in the chain.
func classify(err error) error {
	var errResp *gh.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return err
	}

	switch errResp.Response.StatusCode {
	case http.StatusNotFound:
		return errors.Join(ErrNotFound, err)
	case http.StatusConflict, http.StatusPreconditionFailed:
		return errors.Join(ErrConflict, err)
	}
	return err
}

func isRefExists(err error) bool {
	var errResp *gh.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return false
	}
	return errResp.Response.StatusCode == http.StatusUnprocessableEntity &&
		strings.Contains(strings.ToLower(errResp.Message), "reference already exists")
}
