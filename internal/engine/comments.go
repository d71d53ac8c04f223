package engine

import (
	"github.com/sprite-ai/prrev/internal/model"
	"github.com/sprite-ai/prrev/internal/render"
)

// BuildComments turns a result into the comments to post back to the
// provider: one summary comment plus, when enabled, one inline
// comment per key issue that carries a line number.
func (e *Engine) BuildComments(res *Result) []model.Comment {
	title := ""
	if res.PR != nil {
		title = res.PR.Title
	}
	comments := []model.Comment{{Body: render.Markdown(res.Report, title)}}

	if !e.cfg.Review.InlineComments {
		return comments
	}
	for _, f := range res.Report.KeyIssues {
		if f.LineStart <= 0 || f.File == "" {
			continue
		}
		comments = append(comments, model.Comment{
			Body: render.Comment(f),
			Path: f.File,
			Line: f.LineStart,
		})
	}
	return comments
}
