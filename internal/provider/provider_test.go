package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sprite-ai/prrev/internal/model"
)

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New("perforce", "", ""); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewKnownProviders(t *testing.T) {
	for _, name := range []string{"github", "gitlab", "bitbucket", "fake"} {
		c, err := New(name, "", "")
		if err != nil {
			t.Errorf("New(%q): %v", name, err)
			continue
		}
		if c.Name() != name {
			t.Errorf("Name() = %q, want %q", c.Name(), name)
		}
	}
}

func TestGitHubGetPullRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widgets/pulls/42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`{
			"number": 42,
			"title": "Add retry logic",
			"state": "open",
			"html_url": "https://github.com/acme/widgets/pull/42",
			"user": {"login": "drew"},
			"head": {"ref": "feature/retry"},
			"base": {"ref": "main"}
		}`))
	}))
	defer srv.Close()

	gh := NewGitHub(srv.URL, "tok")
	pr, err := gh.GetPullRequest(context.Background(), "acme", "widgets", 42)
	if err != nil {
		t.Fatalf("GetPullRequest: %v", err)
	}
	if pr.Number != 42 || pr.Title != "Add retry logic" || pr.Author != "drew" {
		t.Errorf("unexpected PR: %+v", pr)
	}
	if pr.SourceBranch != "feature/retry" || pr.TargetBranch != "main" {
		t.Errorf("unexpected branches: %+v", pr)
	}
}

func TestGitHubListFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"filename": "internal/server.go", "status": "modified", "additions": 10, "deletions": 2, "patch": "@@ -1 +1 @@"},
			{"filename": "docs/api.md", "status": "added", "additions": 30, "deletions": 0, "patch": ""}
		]`))
	}))
	defer srv.Close()

	gh := NewGitHub(srv.URL, "")
	files, err := gh.ListFiles(context.Background(), "acme", "widgets", 42)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if files[0].Path != "internal/server.go" || files[0].LinesAdded != 10 || files[0].LinesDeleted != 2 {
		t.Errorf("unexpected first file: %+v", files[0])
	}
	if files[1].Status != "added" {
		t.Errorf("unexpected status: %s", files[1].Status)
	}
}

func TestGitHubPostReview(t *testing.T) {
	var got struct {
		Body     string `json:"body"`
		Event    string `json:"event"`
		Comments []struct {
			Path string `json:"path"`
			Line int    `json:"line"`
			Side string `json:"side"`
			Body string `json:"body"`
		} `json:"comments"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(201)
	}))
	defer srv.Close()

	gh := NewGitHub(srv.URL, "tok")
	comments := []model.Comment{
		{Body: "## Review Summary\n\nScore: 85"},
		{Body: "Unchecked error", Path: "internal/server.go", Line: 12},
	}
	if err := gh.PostReview(context.Background(), "acme", "widgets", 42, comments); err != nil {
		t.Fatalf("PostReview: %v", err)
	}
	if got.Event != "COMMENT" {
		t.Errorf("event = %q, want COMMENT", got.Event)
	}
	if !strings.Contains(got.Body, "Review Summary") {
		t.Errorf("summary not used as review body: %q", got.Body)
	}
	if len(got.Comments) != 1 || got.Comments[0].Path != "internal/server.go" || got.Comments[0].Line != 12 {
		t.Errorf("unexpected inline comments: %+v", got.Comments)
	}
}

func TestGitHubErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		w.Write([]byte(`{"message": "Not Found"}`))
	}))
	defer srv.Close()

	gh := NewGitHub(srv.URL, "")
	if _, err := gh.GetPullRequest(context.Background(), "acme", "widgets", 1); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestGitLabListFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/projects/acme%2Fwidgets/merge_requests/7/changes" {
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
		}
		if got := r.Header.Get("PRIVATE-TOKEN"); got != "glt" {
			t.Errorf("unexpected token header %q", got)
		}
		w.Write([]byte(`{
			"changes": [
				{
					"old_path": "app.rb",
					"new_path": "app.rb",
					"new_file": false,
					"deleted_file": false,
					"renamed_file": false,
					"diff": "@@ -1,3 +1,4 @@\n context\n-old line\n+new line\n+another line\n"
				},
				{
					"old_path": "legacy.rb",
					"new_path": "legacy.rb",
					"new_file": false,
					"deleted_file": true,
					"renamed_file": false,
					"diff": "@@ -1,2 +0,0 @@\n-gone\n-also gone\n"
				}
			]
		}`))
	}))
	defer srv.Close()

	gl := NewGitLab(srv.URL, "glt")
	files, err := gl.ListFiles(context.Background(), "acme", "widgets", 7)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if files[0].LinesAdded != 2 || files[0].LinesDeleted != 1 {
		t.Errorf("line counts = +%d/-%d, want +2/-1", files[0].LinesAdded, files[0].LinesDeleted)
	}
	if files[1].Status != "deleted" || files[1].LinesDeleted != 2 {
		t.Errorf("unexpected deleted file: %+v", files[1])
	}
}

func TestGitLabPostReviewNotes(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var note struct {
			Body string `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
			t.Errorf("decode: %v", err)
		}
		bodies = append(bodies, note.Body)
		w.WriteHeader(201)
	}))
	defer srv.Close()

	gl := NewGitLab(srv.URL, "glt")
	comments := []model.Comment{
		{Body: "summary"},
		{Body: "inline issue", Path: "app.rb", Line: 3},
	}
	if err := gl.PostReview(context.Background(), "acme", "widgets", 7, comments); err != nil {
		t.Fatalf("PostReview: %v", err)
	}
	if len(bodies) != 2 {
		t.Fatalf("got %d notes, want 2", len(bodies))
	}
	if bodies[0] != "summary" {
		t.Errorf("first note = %q", bodies[0])
	}
	if !strings.Contains(bodies[1], "app.rb:3") {
		t.Errorf("inline note missing location: %q", bodies[1])
	}
}

func TestBitbucketGetPullRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repositories/acme/widgets/pullrequests/5" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer bbt" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`{
			"id": 5,
			"title": "Tighten input validation",
			"state": "OPEN",
			"author": {"display_name": "Jo Doe", "nickname": "jo"},
			"source": {"branch": {"name": "fix/validation"}},
			"destination": {"branch": {"name": "main"}},
			"links": {"html": {"href": "https://bitbucket.org/acme/widgets/pull-requests/5"}}
		}`))
	}))
	defer srv.Close()

	bb := NewBitbucket(srv.URL, "bbt")
	pr, err := bb.GetPullRequest(context.Background(), "acme", "widgets", 5)
	if err != nil {
		t.Fatalf("GetPullRequest: %v", err)
	}
	if pr.Number != 5 || pr.Title != "Tighten input validation" || pr.Author != "jo" {
		t.Errorf("unexpected PR: %+v", pr)
	}
	if pr.SourceBranch != "fix/validation" || pr.TargetBranch != "main" {
		t.Errorf("unexpected branches: %+v", pr)
	}
}

func TestBitbucketListFiles(t *testing.T) {
	rawDiff := "diff --git a/app.go b/app.go\n" +
		"--- a/app.go\n" +
		"+++ b/app.go\n" +
		"@@ -1,2 +1,3 @@\n" +
		" package app\n" +
		"-var old int\n" +
		"+var renamed int\n" +
		"+var extra int\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repositories/acme/widgets/pullrequests/5/diff" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(rawDiff))
	}))
	defer srv.Close()

	bb := NewBitbucket(srv.URL, "")
	files, err := bb.ListFiles(context.Background(), "acme", "widgets", 5)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if files[0].Path != "app.go" || files[0].LinesAdded != 2 || files[0].LinesDeleted != 1 {
		t.Errorf("unexpected file: %+v", files[0])
	}
	if !strings.Contains(files[0].Patch, "+var renamed int") {
		t.Errorf("patch not carried: %q", files[0].Patch)
	}
}

func TestBitbucketPostReview(t *testing.T) {
	type payload struct {
		Content struct {
			Raw string `json:"raw"`
		} `json:"content"`
		Inline *struct {
			Path string `json:"path"`
			To   int    `json:"to"`
		} `json:"inline"`
	}
	var got []payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("unexpected method %s", r.Method)
		}
		var p payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode: %v", err)
		}
		got = append(got, p)
		w.WriteHeader(201)
	}))
	defer srv.Close()

	bb := NewBitbucket(srv.URL, "bbt")
	comments := []model.Comment{
		{Body: "summary"},
		{Body: "inline issue", Path: "app.go", Line: 3},
	}
	if err := bb.PostReview(context.Background(), "acme", "widgets", 5, comments); err != nil {
		t.Fatalf("PostReview: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d comments, want 2", len(got))
	}
	if got[0].Content.Raw != "summary" || got[0].Inline != nil {
		t.Errorf("unexpected summary comment: %+v", got[0])
	}
	if got[1].Inline == nil || got[1].Inline.Path != "app.go" || got[1].Inline.To != 3 {
		t.Errorf("unexpected inline comment: %+v", got[1])
	}
}

func TestFakeRoundTrip(t *testing.T) {
	f := NewFake()
	f.Seed(&PullRequest{Number: 1, Title: "demo"}, []model.FileChange{
		{Path: "main.go", Status: "modified"},
	})

	pr, err := f.GetPullRequest(context.Background(), "o", "r", 1)
	if err != nil {
		t.Fatalf("GetPullRequest: %v", err)
	}
	if pr.Title != "demo" {
		t.Errorf("title = %q", pr.Title)
	}

	files, err := f.ListFiles(context.Background(), "o", "r", 1)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0].Path != "main.go" {
		t.Errorf("unexpected files: %+v", files)
	}

	if err := f.PostReview(context.Background(), "o", "r", 1, []model.Comment{{Body: "hi"}}); err != nil {
		t.Fatalf("PostReview: %v", err)
	}
	if len(f.Posted) != 1 {
		t.Errorf("posted = %d, want 1", len(f.Posted))
	}

	if _, err := f.GetPullRequest(context.Background(), "o", "r", 99); err == nil {
		t.Fatal("expected error for unknown PR")
	}
}
