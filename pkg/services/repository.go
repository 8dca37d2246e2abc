package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/newtglobalgit/dmap-saas-request/pkg/clients/github"
	"github.com/newtglobalgit/dmap-saas-request/pkg/models"
	"github.com/newtglobalgit/dmap-saas-request/pkg/utils"
)

// RepositoryUpdater records a request on its own branch of the terraform repository
type RepositoryUpdater interface {
	Update(ctx context.Context, req models.ResourceRequest) (*UpdateResult, error)
}

// UpdateResult describes the commit made for a request.
type UpdateResult struct {
	Branch    string
	Created   bool
	CommitSHA string
	CommitURL string
}

type repositoryUpdaterImpl struct {
	client     github.Client
	filePath   string
	baseBranch string
	logger     *zap.Logger
}

// NewRepositoryUpdater creates a new updater for filePath. An empty baseBranch
// means the repository's default branch is looked up on every update.
func NewRepositoryUpdater(client github.Client, filePath, baseBranch string, logger *zap.Logger) RepositoryUpdater {
	return &repositoryUpdaterImpl{
		client:     client,
		filePath:   filePath,
		baseBranch: baseBranch,
		logger:     logger,
	}
}

func (u *repositoryUpdaterImpl) Update(ctx context.Context, req models.ResourceRequest) (*UpdateResult, error) {
	base := u.baseBranch
	if base == "" {
		var err error
		base, err = u.client.DefaultBranch(ctx)
		if err != nil {
			return nil, remoteError("resolve default branch", "", err)
		}
	}

	head, err := u.client.BranchHead(ctx, base)
	if err != nil {
		return nil, remoteError("resolve base head", base, err)
	}

	branch := utils.BranchName(req.FullName)
	log := u.logger.With(zap.String("branch", branch), zap.String("base", base))

	created := true
	if err := u.client.CreateBranch(ctx, branch, head); err != nil {
		if !errors.Is(err, github.ErrBranchExists) {
			return nil, remoteError("create branch", branch, err)
		}
		created = false
		log.Info("branch already exists, updating it")
	}

	file, err := u.client.GetFile(ctx, u.filePath, branch)
	if err != nil && created && errors.Is(err, github.ErrNotFound) {
		// A new ref can take a moment to become readable; it points at head.
		log.Debug("new branch not readable yet, reading base head", zap.Error(err))
		file, err = u.client.GetFile(ctx, u.filePath, head)
	}
	if err != nil {
		return nil, remoteError("read "+u.filePath, branch, err)
	}

	content, err := ReplaceTagsBlock(file.Content, req)
	if err != nil {
		return nil, &UpdateError{Kind: UpdateBlockNotFound, Op: "rewrite tags block", Branch: branch, Err: err}
	}

	message := fmt.Sprintf("Update tags with information for %s", req.FullName)
	commit, err := u.client.UpdateFile(ctx, u.filePath, branch, message, content, file.SHA)
	if err != nil {
		if errors.Is(err, github.ErrConflict) {
			return nil, &UpdateError{Kind: UpdateConflict, Op: "commit " + u.filePath, Branch: branch, Err: err}
		}
		return nil, remoteError("commit "+u.filePath, branch, err)
	}

	log.Info("recorded request",
		zap.Bool("branch_created", created),
		zap.String("commit", commit.SHA),
	)

	return &UpdateResult{
		Branch:    branch,
		Created:   created,
		CommitSHA: commit.SHA,
		CommitURL: commit.URL,
	}, nil
}

func remoteError(op, branch string, err error) error {
	return &UpdateError{Kind: UpdateRemote, Op: op, Branch: branch, Err: err}
}
