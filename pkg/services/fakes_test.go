package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/newtglobalgit/dmap-saas-request/pkg/clients/github"
)

type fakeBranch struct {
	head    string
	content string
	commits int
}

// fakeGitHub is an in-memory repository holding one tracked file per branch.
type fakeGitHub struct {
	mu       sync.Mutex
	defBr    string
	branches map[string]*fakeBranch
	path     string

	createErr  error
	getErr     error
	updateErr  error
	lagNewRefs bool // first read of a freshly created branch returns ErrNotFound

	lagged      map[string]bool
	updateCalls int
	// beforeUpdate runs before the precondition check, e.g. to simulate a concurrent edit.
	beforeUpdate func(f *fakeGitHub, branch string)
}

func newFakeGitHub(path, content string) *fakeGitHub {
	return &fakeGitHub{
		defBr:    "main",
		path:     path,
		branches: map[string]*fakeBranch{"main": {head: "c0", content: content}},
		lagged:   map[string]bool{},
	}
}

func blobSHA(content string) string {
	sum := sha1.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

func (f *fakeGitHub) DefaultBranch(ctx context.Context) (string, error) {
	return f.defBr, nil
}

func (f *fakeGitHub) BranchHead(ctx context.Context, branch string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.branches[branch]
	if !ok {
		return "", fmt.Errorf("ref heads/%s: %w", branch, github.ErrNotFound)
	}
	return b.head, nil
}

func (f *fakeGitHub) CreateBranch(ctx context.Context, branch, sha string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.branches[branch]; ok {
		return github.ErrBranchExists
	}
	for _, b := range f.branches {
		if b.head == sha {
			f.branches[branch] = &fakeBranch{head: sha, content: b.content}
			if f.lagNewRefs {
				f.lagged[branch] = true
			}
			return nil
		}
	}
	return fmt.Errorf("object %s: %w", sha, github.ErrNotFound)
}

func (f *fakeGitHub) GetFile(ctx context.Context, path, ref string) (*github.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if path != f.path {
		return nil, fmt.Errorf("%s: %w", path, github.ErrNotFound)
	}
	if f.lagged[ref] {
		delete(f.lagged, ref)
		return nil, fmt.Errorf("%s at %s: %w", path, ref, github.ErrNotFound)
	}
	if b, ok := f.branches[ref]; ok {
		return &github.File{Path: path, Content: b.content, SHA: blobSHA(b.content)}, nil
	}
	for _, b := range f.branches {
		if b.head == ref {
			return &github.File{Path: path, Content: b.content, SHA: blobSHA(b.content)}, nil
		}
	}
	return nil, fmt.Errorf("ref %s: %w", ref, github.ErrNotFound)
}

func (f *fakeGitHub) UpdateFile(ctx context.Context, path, branch, message, content, sha string) (*github.Commit, error) {
	if f.beforeUpdate != nil {
		f.beforeUpdate(f, branch)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	b, ok := f.branches[branch]
	if !ok {
		return nil, fmt.Errorf("branch %s: %w", branch, github.ErrNotFound)
	}
	if blobSHA(b.content) != sha {
		return nil, fmt.Errorf("%s is at %s but expected %s: %w", path, blobSHA(b.content), sha, github.ErrConflict)
	}
	b.commits++
	b.content = content
	b.head = fmt.Sprintf("%s-%d", branch, b.commits)
	return &github.Commit{SHA: b.head}, nil
}

func (f *fakeGitHub) content(branch string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.branches[branch].content
}

func (f *fakeGitHub) commits(branch string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.branches[branch].commits
}
