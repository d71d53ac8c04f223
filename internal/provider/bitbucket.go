package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sprite-ai/prrev/internal/diff"
	"github.com/sprite-ai/prrev/internal/model"
)

// Bitbucket implements Client against the Bitbucket Cloud 2.0 API.
// The owner segment is the workspace; PR numbers map to pull request
// IDs.
type Bitbucket struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewBitbucket creates a Bitbucket client. baseURL defaults to the
// Cloud API when empty.
func NewBitbucket(baseURL, token string) *Bitbucket {
	if baseURL == "" {
		baseURL = "https://api.bitbucket.org/2.0"
	}
	return &Bitbucket{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (b *Bitbucket) Name() string { return "bitbucket" }

func (b *Bitbucket) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	var pr struct {
		ID     int    `json:"id"`
		Title  string `json:"title"`
		State  string `json:"state"`
		Author struct {
			DisplayName string `json:"display_name"`
			Nickname    string `json:"nickname"`
		} `json:"author"`
		Source struct {
			Branch struct {
				Name string `json:"name"`
			} `json:"branch"`
		} `json:"source"`
		Destination struct {
			Branch struct {
				Name string `json:"name"`
			} `json:"branch"`
		} `json:"destination"`
		Links struct {
			HTML struct {
				Href string `json:"href"`
			} `json:"html"`
		} `json:"links"`
	}

	path := fmt.Sprintf("/repositories/%s/%s/pullrequests/%d", owner, repo, number)
	if err := b.getJSON(ctx, path, &pr); err != nil {
		return nil, err
	}

	author := pr.Author.Nickname
	if author == "" {
		author = pr.Author.DisplayName
	}
	return &PullRequest{
		Number:       pr.ID,
		Title:        pr.Title,
		Author:       author,
		SourceBranch: pr.Source.Branch.Name,
		TargetBranch: pr.Destination.Branch.Name,
		State:        pr.State,
		URL:          pr.Links.HTML.Href,
	}, nil
}

// ListFiles fetches the PR's raw unified diff; Bitbucket has no
// per-file changes endpoint with patches, so the diff is parsed and
// split locally.
func (b *Bitbucket) ListFiles(ctx context.Context, owner, repo string, number int) ([]model.FileChange, error) {
	path := fmt.Sprintf("/repositories/%s/%s/pullrequests/%d/diff", owner, repo, number)
	raw, err := b.getText(ctx, path)
	if err != nil {
		return nil, err
	}

	ds, err := diff.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing pull request diff: %w", err)
	}
	return ds.FileChanges(), nil
}

func (b *Bitbucket) PostReview(ctx context.Context, owner, repo string, number int, comments []model.Comment) error {
	// One comment per call; inline comments anchor to a line in the
	// new version via inline.to.
	type inline struct {
		Path string `json:"path"`
		To   int    `json:"to"`
	}
	type content struct {
		Raw string `json:"raw"`
	}
	type comment struct {
		Content content `json:"content"`
		Inline  *inline `json:"inline,omitempty"`
	}

	path := fmt.Sprintf("/repositories/%s/%s/pullrequests/%d/comments", owner, repo, number)
	for _, c := range comments {
		payload := comment{Content: content{Raw: c.Body}}
		if c.Path != "" {
			payload.Inline = &inline{Path: c.Path, To: c.Line}
		}
		if err := b.postJSON(ctx, path, payload); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bitbucket) getJSON(ctx context.Context, path string, v any) error {
	body, err := b.get(ctx, path)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (b *Bitbucket) getText(ctx context.Context, path string) (string, error) {
	body, err := b.get(ctx, path)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (b *Bitbucket) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", b.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	b.setHeaders(req)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bitbucket request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("bitbucket API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (b *Bitbucket) postJSON(ctx context.Context, path string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	b.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("bitbucket request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 && resp.StatusCode != 201 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bitbucket API error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

func (b *Bitbucket) setHeaders(req *http.Request) {
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
}
