package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sprite-ai/prrev/internal/model"
)

// GitHub implements Client against the GitHub REST API.
type GitHub struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewGitHub creates a GitHub client. baseURL defaults to the public
// API when empty.
func NewGitHub(baseURL, token string) *GitHub {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &GitHub{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *GitHub) Name() string { return "github" }

func (g *GitHub) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	var pr struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		State  string `json:"state"`
		URL    string `json:"html_url"`
		User   struct {
			Login string `json:"login"`
		} `json:"user"`
		Head struct {
			Ref string `json:"ref"`
		} `json:"head"`
		Base struct {
			Ref string `json:"ref"`
		} `json:"base"`
	}

	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number)
	if err := g.getJSON(ctx, path, &pr); err != nil {
		return nil, err
	}

	return &PullRequest{
		Number:       pr.Number,
		Title:        pr.Title,
		Author:       pr.User.Login,
		SourceBranch: pr.Head.Ref,
		TargetBranch: pr.Base.Ref,
		State:        pr.State,
		URL:          pr.URL,
	}, nil
}

func (g *GitHub) ListFiles(ctx context.Context, owner, repo string, number int) ([]model.FileChange, error) {
	var files []struct {
		Filename  string `json:"filename"`
		Status    string `json:"status"`
		Additions int    `json:"additions"`
		Deletions int    `json:"deletions"`
		Patch     string `json:"patch"`
	}

	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/files?per_page=100", owner, repo, number)
	if err := g.getJSON(ctx, path, &files); err != nil {
		return nil, err
	}

	changes := make([]model.FileChange, 0, len(files))
	for _, f := range files {
		changes = append(changes, model.FileChange{
			Path:         f.Filename,
			Status:       f.Status,
			LinesAdded:   f.Additions,
			LinesDeleted: f.Deletions,
			Patch:        f.Patch,
		})
	}
	return changes, nil
}

func (g *GitHub) PostReview(ctx context.Context, owner, repo string, number int, comments []model.Comment) error {
	type inlineComment struct {
		Path string `json:"path"`
		Line int    `json:"line"`
		Side string `json:"side"`
		Body string `json:"body"`
	}
	review := struct {
		Body     string          `json:"body"`
		Event    string          `json:"event"`
		Comments []inlineComment `json:"comments,omitempty"`
	}{Event: "COMMENT"}

	for _, c := range comments {
		if c.Path == "" {
			review.Body = c.Body
			continue
		}
		review.Comments = append(review.Comments, inlineComment{
			Path: c.Path,
			Line: c.Line,
			Side: "RIGHT",
			Body: c.Body,
		})
	}

	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews", owner, repo, number)
	return g.postJSON(ctx, path, review)
}

func (g *GitHub) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("github API error (status %d): %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, v)
}

func (g *GitHub) postJSON(ctx context.Context, path string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	g.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 && resp.StatusCode != 201 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("github API error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

func (g *GitHub) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
}
