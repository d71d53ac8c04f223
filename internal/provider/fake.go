package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/sprite-ai/prrev/internal/model"
)

// Fake is an in-memory Client for tests and offline demo runs. It
// serves seeded pull requests and records every posted comment.
type Fake struct {
	mu      sync.Mutex
	pulls   map[int]*PullRequest
	files   map[int][]model.FileChange
	Posted  []model.Comment
	PostErr error
}

func NewFake() *Fake {
	return &Fake{
		pulls: make(map[int]*PullRequest),
		files: make(map[int][]model.FileChange),
	}
}

func (f *Fake) Name() string { return "fake" }

// Seed registers a pull request and its changed files.
func (f *Fake) Seed(pr *PullRequest, files []model.FileChange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pulls[pr.Number] = pr
	f.files[pr.Number] = files
}

func (f *Fake) GetPullRequest(_ context.Context, _, _ string, number int) (*PullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.pulls[number]
	if !ok {
		return nil, fmt.Errorf("pull request %d not found", number)
	}
	return pr, nil
}

func (f *Fake) ListFiles(_ context.Context, _, _ string, number int) ([]model.FileChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	files, ok := f.files[number]
	if !ok {
		return nil, fmt.Errorf("pull request %d not found", number)
	}
	out := make([]model.FileChange, len(files))
	copy(out, files)
	return out, nil
}

func (f *Fake) PostReview(_ context.Context, _, _ string, _ int, comments []model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PostErr != nil {
		return f.PostErr
	}
	f.Posted = append(f.Posted, comments...)
	return nil
}
