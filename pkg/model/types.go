package model

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/samber/lo"
)

// MinBodyLength is the minimum article body length, counted in characters.
const MinBodyLength = 20

// TimestampLayout is the ISO-8601 form used for comment timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ID identifies a user, article or comment. The store may send ids as JSON
// numbers or strings; both decode to the same textual value.
type ID string

// UnmarshalJSON accepts a JSON number or string.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("decode id %s: not a number or string", data)
	}
	*id = ID(data)
	return nil
}

// MarshalJSON writes integer-looking ids as numbers and everything else as
// strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.isInteger() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) isInteger() bool {
	if id == "" || (len(id) > 1 && id[0] == '0') {
		return false
	}
	_, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil
}

// String returns the textual id.
func (id ID) String() string { return string(id) }

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool { return id == "" }

// User is a board member. Users are read-only from the client's side.
type User struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Comment is a single entry in an article's comment thread.
type Comment struct {
	ID        ID     `json:"id"`
	Text      string `json:"text"`
	UserID    ID     `json:"user_id"`
	Timestamp string `json:"timestamp"`
}

// Time parses the comment timestamp. ok is false when it is not ISO-8601.
func (c Comment) Time() (t time.Time, ok bool) {
	t, err := time.Parse(time.RFC3339Nano, c.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NewComment builds a comment authored by userID at now. The id is the
// submission time in milliseconds, so two comments submitted within the same
// millisecond share an id.
func NewComment(text string, userID ID, now time.Time) (Comment, error) {
	if text == "" {
		return Comment{}, ErrEmptyComment
	}
	return Comment{
		ID:        ID(strconv.FormatInt(now.UnixMilli(), 10)),
		Text:      text,
		UserID:    userID,
		Timestamp: now.UTC().Format(TimestampLayout),
	}, nil
}

// NewsItem is an article together with its comment thread.
type NewsItem struct {
	ID       ID        `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	AuthorID ID        `json:"author_id"`
	Comments []Comment `json:"comments"`
}

// Clone creates a copy of the item that shares no comment storage.
func (n NewsItem) Clone() NewsItem {
	clone := n
	if n.Comments != nil {
		clone.Comments = make([]Comment, len(n.Comments))
		copy(clone.Comments, n.Comments)
	}
	return clone
}

// OwnedBy reports whether u authored the item. This only decides which
// controls the client shows; the API server is responsible for enforcing
// who may change an article.
func (n NewsItem) OwnedBy(u *User) bool {
	return u != nil && !n.AuthorID.IsZero() && n.AuthorID == u.ID
}

// WithComment returns a copy of the item with c appended.
func (n NewsItem) WithComment(c Comment) NewsItem {
	clone := n.Clone()
	clone.Comments = append(clone.Comments, c)
	return clone
}

// NewsDraft is the payload for creating an article.
type NewsDraft struct {
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	AuthorID ID        `json:"author_id"`
	Comments []Comment `json:"comments"`
}

// NewDraft validates the body and returns a draft with an empty comment
// thread.
func NewDraft(title, body string, author ID) (NewsDraft, error) {
	if err := ValidateBody(body); err != nil {
		return NewsDraft{}, err
	}
	return NewsDraft{
		Title:    title,
		Body:     body,
		AuthorID: author,
		Comments: []Comment{},
	}, nil
}

// NewsPatch is a partial update. Nil fields are left untouched by the server.
type NewsPatch struct {
	Title    *string    `json:"title,omitempty"`
	Body     *string    `json:"body,omitempty"`
	Comments *[]Comment `json:"comments,omitempty"`
}

// ContentPatch changes only the title and body.
func ContentPatch(title, body string) (NewsPatch, error) {
	if err := ValidateBody(body); err != nil {
		return NewsPatch{}, err
	}
	return NewsPatch{Title: &title, Body: &body}, nil
}

// CommentsPatch replaces the whole comment thread.
func CommentsPatch(comments []Comment) NewsPatch {
	if comments == nil {
		comments = []Comment{}
	}
	return NewsPatch{Comments: &comments}
}

// ValidateBody enforces the minimum body length. Whitespace counts.
func ValidateBody(body string) error {
	if utf8.RuneCountInString(body) < MinBodyLength {
		return ErrBodyTooShort
	}
	return nil
}

// FilterByTitle returns the items whose lowercased title contains the
// lowercased query. An empty query returns every item.
func FilterByTitle(items []NewsItem, query string) []NewsItem {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	return lo.Filter(items, func(n NewsItem, _ int) bool {
		return strings.Contains(strings.ToLower(n.Title), q)
	})
}

// UnknownUserName is shown for ids missing from the roster.
const UnknownUserName = "Unknown"

// Roster is the cached list of all users.
type Roster []User

// Find looks up a user by id.
func (r Roster) Find(id ID) (User, bool) {
	return lo.Find(r, func(u User) bool { return u.ID == id })
}

// DisplayName resolves id to a user name, or UnknownUserName.
func (r Roster) DisplayName(id ID) string {
	if u, ok := r.Find(id); ok {
		return u.Name
	}
	return UnknownUserName
}
