package diff

import (
	"strings"
	"testing"
)

const sampleDiff = `diff --git a/handler.go b/handler.go
index abc1234..def5678 100644
--- a/handler.go
+++ b/handler.go
@@ -10,4 +10,6 @@ func handle(w http.ResponseWriter, r *http.Request) {
 	id := r.URL.Query().Get("id")
-	row := db.QueryRow("SELECT * FROM users WHERE id = " + id)
+	row := db.QueryRow("SELECT * FROM users WHERE id = ?", id)
+	log.Printf("lookup %s", id)
 	_ = row
 }
diff --git a/util.py b/util.py
new file mode 100644
--- /dev/null
+++ b/util.py
@@ -0,0 +1,2 @@
+def helper():
+    return 1
`

func TestParse(t *testing.T) {
	ds, err := Parse(sampleDiff)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(ds.Files))
	}

	f := ds.Files[0]
	if f.Name() != "handler.go" {
		t.Errorf("name = %q", f.Name())
	}
	if f.AddedLines != 2 || f.DeletedLines != 1 {
		t.Errorf("counts = +%d -%d, want +2 -1", f.AddedLines, f.DeletedLines)
	}
	if f.Status() != "modified" {
		t.Errorf("status = %q", f.Status())
	}

	py := ds.Files[1]
	if !py.IsNew || py.Status() != "added" {
		t.Errorf("new file not detected: %+v", py)
	}

	files, added, deleted := ds.Stats()
	if files != 2 || added != 4 || deleted != 1 {
		t.Errorf("stats = %d/%d/%d", files, added, deleted)
	}
}

func TestFileChanges(t *testing.T) {
	ds, err := Parse(sampleDiff)
	if err != nil {
		t.Fatal(err)
	}
	changes := ds.FileChanges()
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	c := changes[0]
	if c.Path != "handler.go" || c.LinesAdded != 2 || c.LinesDeleted != 1 {
		t.Errorf("change = %+v", c)
	}
	if !strings.Contains(c.Patch, "+	row := db.QueryRow") {
		t.Errorf("patch missing added line:\n%s", c.Patch)
	}
	if !strings.Contains(c.Patch, "@@ -10,4 +10,6 @@") {
		t.Errorf("patch missing hunk header:\n%s", c.Patch)
	}
}

func TestParseEmpty(t *testing.T) {
	ds, err := Parse("")
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Files) != 0 {
		t.Errorf("expected no files, got %d", len(ds.Files))
	}
}

func TestLanguageForPath(t *testing.T) {
	cases := []struct {
		path, want string
	}{
		{"main.go", "go"},
		{"lib/util.py", "python"},
		{"app.TS", "typescript"},
		{"README.md", "markdown"},
		{"Makefile", ""},
		{"script.xyz", ""},
	}
	for _, c := range cases {
		if got := LanguageForPath(c.path); got != c.want {
			t.Errorf("LanguageForPath(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}
