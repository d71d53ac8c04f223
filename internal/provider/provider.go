// Package provider implements git hosting clients. They supply the
// changed files of a pull request and accept review comments; nothing
// else about the host leaks into the review pipeline.
package provider

import (
	"context"
	"fmt"

	"github.com/sprite-ai/prrev/internal/model"
)

// PullRequest is the metadata the pipeline needs about a PR.
type PullRequest struct {
	Number       int    `json:"number"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	SourceBranch string `json:"source_branch"`
	TargetBranch string `json:"target_branch"`
	State        string `json:"state"`
	URL          string `json:"url"`
}

// Client is the hosting-provider abstraction.
type Client interface {
	// GetPullRequest fetches PR metadata.
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)

	// ListFiles returns the changed files of a PR.
	ListFiles(ctx context.Context, owner, repo string, number int) ([]model.FileChange, error)

	// PostReview publishes a summary comment (Path == "") and inline
	// comments (Path and Line set) on a PR.
	PostReview(ctx context.Context, owner, repo string, number int, comments []model.Comment) error

	Name() string
}

// New creates a provider client by name.
func New(name, baseURL, token string) (Client, error) {
	switch name {
	case "github":
		return NewGitHub(baseURL, token), nil
	case "gitlab":
		return NewGitLab(baseURL, token), nil
	case "bitbucket":
		return NewBitbucket(baseURL, token), nil
	case "fake":
		return NewFake(), nil
	default:
		return nil, fmt.Errorf("unknown git provider: %s", name)
	}
}
