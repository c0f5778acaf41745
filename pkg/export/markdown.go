// Package export renders news articles as Markdown, for the detail view,
// the clipboard and digest files.
package export

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/vanderheijden86/newsboard/pkg/model"
)

// CommentTimeLayout is how comment timestamps are shown, in local time.
const CommentTimeLayout = "2006-01-02 15:04"

// FormatCommentTime renders a comment timestamp in local time, or returns
// it unchanged when it cannot be parsed.
func FormatCommentTime(c model.Comment) string {
	ts, ok := c.Time()
	if !ok {
		return c.Timestamp
	}
	return ts.In(time.Local).Format(CommentTimeLayout)
}

// ArticleMarkdown renders one article with its comment thread. level is
// the heading depth of the title.
func ArticleMarkdown(item model.NewsItem, roster model.Roster, level int) string {
	if level < 1 {
		level = 1
	}
	h := strings.Repeat("#", level)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n\n", h, item.Title)
	fmt.Fprintf(&sb, "*By %s*\n\n", roster.DisplayName(item.AuthorID))
	sb.WriteString(item.Body)
	fmt.Fprintf(&sb, "\n\n%s# Comments (%d)\n\n", h, len(item.Comments))
	if len(item.Comments) == 0 {
		sb.WriteString("No comments yet.\n")
	}
	for _, c := range item.Comments {
		fmt.Fprintf(&sb, "> **%s** (%s):\n> %s\n\n",
			roster.DisplayName(c.UserID), FormatCommentTime(c), strings.ReplaceAll(c.Text, "\n", "\n> "))
	}
	return sb.String()
}

// GenerateMarkdown creates a digest of the whole board.
func GenerateMarkdown(items []model.NewsItem, roster model.Roster, title string, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "Generated: %s\n\n", now.Format(time.RFC1123))

	comments := 0
	authors := make(map[model.ID]struct{})
	for _, n := range items {
		comments += len(n.Comments)
		authors[n.AuthorID] = struct{}{}
	}
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- **Articles**: %d\n", len(items))
	fmt.Fprintf(&sb, "- **Comments**: %d\n", comments)
	fmt.Fprintf(&sb, "- **Authors**: %d\n\n", len(authors))

	sb.WriteString("## Contents\n\n")
	for _, n := range items {
		fmt.Fprintf(&sb, "- %s (%s, %d comments)\n", n.Title, roster.DisplayName(n.AuthorID), len(n.Comments))
	}
	sb.WriteString("\n---\n\n")

	for _, n := range items {
		sb.WriteString(ArticleMarkdown(n, roster, 2))
		sb.WriteString("---\n\n")
	}
	return sb.String()
}

// SortByDiscussion orders articles by comment count, most discussed
// first, then by title. The input is not modified.
func SortByDiscussion(items []model.NewsItem) []model.NewsItem {
	out := append([]model.NewsItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Comments) != len(out[j].Comments) {
			return len(out[i].Comments) > len(out[j].Comments)
		}
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

// SaveMarkdownToFile writes a digest of items to filename.
func SaveMarkdownToFile(items []model.NewsItem, roster model.Roster, filename string) error {
	content := GenerateMarkdown(SortByDiscussion(items), roster, "News Board Digest", time.Now())
	return os.WriteFile(filename, []byte(content), 0o644)
}
