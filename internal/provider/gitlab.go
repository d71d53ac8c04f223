package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sprite-ai/prrev/internal/model"
)

// GitLab implements Client against the GitLab REST API. PR numbers
// map to merge request IIDs.
type GitLab struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewGitLab creates a GitLab client. baseURL defaults to gitlab.com
// when empty.
func NewGitLab(baseURL, token string) *GitLab {
	if baseURL == "" {
		baseURL = "https://gitlab.com/api/v4"
	}
	return &GitLab{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *GitLab) Name() string { return "gitlab" }

func projectID(owner, repo string) string {
	return url.PathEscape(owner + "/" + repo)
}

func (g *GitLab) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	var mr struct {
		IID    int    `json:"iid"`
		Title  string `json:"title"`
		State  string `json:"state"`
		WebURL string `json:"web_url"`
		Author struct {
			Username string `json:"username"`
		} `json:"author"`
		SourceBranch string `json:"source_branch"`
		TargetBranch string `json:"target_branch"`
	}

	path := fmt.Sprintf("/projects/%s/merge_requests/%d", projectID(owner, repo), number)
	if err := g.getJSON(ctx, path, &mr); err != nil {
		return nil, err
	}

	return &PullRequest{
		Number:       mr.IID,
		Title:        mr.Title,
		Author:       mr.Author.Username,
		SourceBranch: mr.SourceBranch,
		TargetBranch: mr.TargetBranch,
		State:        mr.State,
		URL:          mr.WebURL,
	}, nil
}

func (g *GitLab) ListFiles(ctx context.Context, owner, repo string, number int) ([]model.FileChange, error) {
	var resp struct {
		Changes []struct {
			OldPath     string `json:"old_path"`
			NewPath     string `json:"new_path"`
			NewFile     bool   `json:"new_file"`
			DeletedFile bool   `json:"deleted_file"`
			RenamedFile bool   `json:"renamed_file"`
			Diff        string `json:"diff"`
		} `json:"changes"`
	}

	path := fmt.Sprintf("/projects/%s/merge_requests/%d/changes", projectID(owner, repo), number)
	if err := g.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}

	changes := make([]model.FileChange, 0, len(resp.Changes))
	for _, c := range resp.Changes {
		status := "modified"
		switch {
		case c.NewFile:
			status = "added"
		case c.DeletedFile:
			status = "deleted"
		case c.RenamedFile:
			status = "renamed"
		}
		added, deleted := countDiffLines(c.Diff)
		changes = append(changes, model.FileChange{
			Path:         c.NewPath,
			Status:       status,
			LinesAdded:   added,
			LinesDeleted: deleted,
			Patch:        c.Diff,
		})
	}
	return changes, nil
}

// countDiffLines tallies added and deleted lines in a diff fragment.
// GitLab's changes endpoint reports no counters itself.
func countDiffLines(diff string) (added, deleted int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			deleted++
		}
	}
	return
}

func (g *GitLab) PostReview(ctx context.Context, owner, repo string, number int, comments []model.Comment) error {
	// GitLab has no single review call; every comment becomes a note.
	// Inline locations are prefixed into the body rather than anchored,
	// which keeps the client off the version-sensitive position API.
	base := fmt.Sprintf("/projects/%s/merge_requests/%d/notes", projectID(owner, repo), number)
	for _, c := range comments {
		body := c.Body
		if c.Path != "" {
			body = fmt.Sprintf("`%s:%d`\n\n%s", c.Path, c.Line, c.Body)
		}
		if err := g.postJSON(ctx, base, map[string]string{"body": body}); err != nil {
			return err
		}
	}
	return nil
}

func (g *GitLab) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gitlab request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("gitlab API error (status %d): %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, v)
}

func (g *GitLab) postJSON(ctx context.Context, path string, v any) error {
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
		return fmt.Errorf("gitlab request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 && resp.StatusCode != 201 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gitlab API error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

func (g *GitLab) setHeaders(req *http.Request) {
	if g.token != "" {
		req.Header.Set("PRIVATE-TOKEN", g.token)
	}
}
