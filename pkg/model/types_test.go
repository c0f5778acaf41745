package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"pgregory.net/rapid"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ID
	}{
		{"Number", `7`, "7"},
		{"String", `"7"`, "7"},
		{"Slug", `"a1b2"`, "a1b2"},
		{"Null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ID
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestID_UnmarshalJSONRejectsObjects(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`{"x":1}`), &id); err == nil {
		t.Fatal("expected error decoding an object as id")
	}
}

func TestID_MarshalJSON(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{"7", `7`},
		{"1700000000000", `1700000000000`},
		{"a1b2", `"a1b2"`},
		{"007", `"007"`},
		{"", `""`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.id)
		if err != nil {
			t.Fatalf("Marshal(%q) error: %v", tt.id, err)
		}
		if string(got) != tt.want {
			t.Errorf("Marshal(%q) = %s, want %s", tt.id, got, tt.want)
		}
	}
}

func TestNewsItem_DecodeMixedIDs(t *testing.T) {
	raw := `{"id":"7","title":"Budget Cuts","body":"b","author_id":2,"comments":[{"id":1700000000000,"text":"hi","user_id":"3","timestamp":"2026-01-02T03:04:05.000Z"}]}`
	var item NewsItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if item.ID != "7" || item.AuthorID != "2" {
		t.Errorf("unexpected ids: id=%q author=%q", item.ID, item.AuthorID)
	}
	if len(item.Comments) != 1 || item.Comments[0].UserID != "3" {
		t.Fatalf("unexpected comments: %#v", item.Comments)
	}
}

func TestNewsItem_OwnedBy(t *testing.T) {
	item := NewsItem{ID: "7", Title: "Budget Cuts", Body: "...", AuthorID: "2", Comments: []Comment{}}

	if !item.OwnedBy(&User{ID: "2", Name: "Ann"}) {
		t.Error("expected user 2 to own item 7")
	}
	if item.OwnedBy(&User{ID: "3", Name: "Bob"}) {
		t.Error("did not expect user 3 to own item 7")
	}
	if item.OwnedBy(nil) {
		t.Error("did not expect a nil user to own anything")
	}
	orphan := NewsItem{ID: "8"}
	if orphan.OwnedBy(&User{}) {
		t.Error("an empty author id must never match")
	}
}

func TestNewsItem_CloneIsIndependent(t *testing.T) {
	item := NewsItem{ID: "1", Comments: []Comment{{ID: "1", Text: "first"}}}
	clone := item.Clone()
	clone.Comments[0].Text = "changed"
	if item.Comments[0].Text != "first" {
		t.Error("Clone shares comment storage with the original")
	}
}

func TestNewsItem_WithComment(t *testing.T) {
	prior := []Comment{{ID: "1", Text: "first", UserID: "2"}}
	item := NewsItem{ID: "1", Comments: prior}
	c := Comment{ID: "2", Text: "second", UserID: "3"}

	got := item.WithComment(c)
	if len(got.Comments) != 2 || got.Comments[1] != c {
		t.Fatalf("WithComment = %#v", got.Comments)
	}
	if len(item.Comments) != 1 {
		t.Error("WithComment mutated the original item")
	}
}

func TestNewComment(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.FixedZone("X", 3600))
	c, err := NewComment("looks good", "2", now)
	if err != nil {
		t.Fatalf("NewComment: %v", err)
	}
	if c.ID != ID("1772597167008") {
		t.Errorf("ID = %q, want unix millis", c.ID)
	}
	if c.Timestamp != "2026-03-04T04:06:07.008Z" {
		t.Errorf("Timestamp = %q", c.Timestamp)
	}
	if c.UserID != "2" || c.Text != "looks good" {
		t.Errorf("unexpected comment %#v", c)
	}
	if ts, ok := c.Time(); !ok || !ts.Equal(now) {
		t.Errorf("Time() = %v, %v; want %v", ts, ok, now)
	}
}

func TestNewComment_Empty(t *testing.T) {
	if _, err := NewComment("", "2", time.Now()); !errors.Is(err, ErrEmptyComment) {
		t.Errorf("expected ErrEmptyComment, got %v", err)
	}
	if _, err := NewComment(" ", "2", time.Now()); err != nil {
		t.Errorf("a single space is a valid comment, got %v", err)
	}
}

func TestValidateBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"Empty", "", false},
		{"Nineteen", strings.Repeat("a", 19), false},
		{"Twenty", strings.Repeat("a", 20), true},
		{"WhitespaceCounts", strings.Repeat(" ", 20), true},
		{"RunesNotBytes", strings.Repeat("é", 19), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBody(tt.body)
			if (err == nil) != tt.ok {
				t.Errorf("ValidateBody(%q) = %v, want ok=%v", tt.body, err, tt.ok)
			}
			if err != nil && !errors.Is(err, ErrBodyTooShort) {
				t.Errorf("expected ErrBodyTooShort, got %v", err)
			}
		})
	}
}

func TestNewDraft_EncodesEmptyComments(t *testing.T) {
	d, err := NewDraft("Title", strings.Repeat("x", 25), "2")
	if err != nil {
		t.Fatalf("NewDraft: %v", err)
	}
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"comments":[]`) {
		t.Errorf("expected empty comments array, got %s", raw)
	}
	if !strings.Contains(string(raw), `"author_id":2`) {
		t.Errorf("expected numeric author_id, got %s", raw)
	}
}

func TestContentPatch_OnlyTitleAndBody(t *testing.T) {
	p, err := ContentPatch("New", strings.Repeat("y", 20))
	if err != nil {
		t.Fatalf("ContentPatch: %v", err)
	}
	raw, _ := json.Marshal(p)
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatal(err)
	}
	if len(fields) != 2 {
		t.Errorf("expected only title and body, got %s", raw)
	}
	if _, err := ContentPatch("New", "short"); !errors.Is(err, ErrBodyTooShort) {
		t.Errorf("expected ErrBodyTooShort, got %v", err)
	}
}

func TestCommentsPatch_NilBecomesEmpty(t *testing.T) {
	raw, _ := json.Marshal(CommentsPatch(nil))
	if string(raw) != `{"comments":[]}` {
		t.Errorf("CommentsPatch(nil) = %s", raw)
	}
}

func TestFilterByTitle(t *testing.T) {
	items := []NewsItem{
		{ID: "1", Title: "Budget Cuts"},
		{ID: "2", Title: "New Budget"},
		{ID: "3", Title: "Sports"},
	}
	tests := []struct {
		query string
		want  []ID
	}{
		{"", []ID{"1", "2", "3"}},
		{"budget", []ID{"1", "2"}},
		{"BUDGET", []ID{"1", "2"}},
		{"cuts", []ID{"1"}},
		{"weather", nil},
		{" ", []ID{"1", "2"}},
	}
	for _, tt := range tests {
		got := FilterByTitle(items, tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("FilterByTitle(%q) = %d items, want %d", tt.query, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].ID != tt.want[i] {
				t.Errorf("FilterByTitle(%q)[%d] = %q, want %q", tt.query, i, got[i].ID, tt.want[i])
			}
		}
	}
}

func TestRoster_DisplayName(t *testing.T) {
	r := Roster{{ID: "1", Name: "Ann"}, {ID: "2", Name: "Bob"}}
	if got := r.DisplayName("2"); got != "Bob" {
		t.Errorf("DisplayName(2) = %q", got)
	}
	if got := r.DisplayName("9"); got != UnknownUserName {
		t.Errorf("DisplayName(9) = %q, want %q", got, UnknownUserName)
	}
	var empty Roster
	if got := empty.DisplayName("1"); got != UnknownUserName {
		t.Errorf("empty roster DisplayName = %q", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	if !IsUserFacing(ErrUnauthorized) || !IsUserFacing(ErrBodyTooShort) {
		t.Error("validation errors should be user facing")
	}
	if IsUserFacing(errors.New("connection refused")) {
		t.Error("transport errors are not user facing")
	}
}

func TestUserMessage(t *testing.T) {
	wrapped := fmt.Errorf("login 9: %w", ErrUnknownUser)
	if got := UserMessage(wrapped); got != "Selected user no longer exists" {
		t.Errorf("UserMessage(wrapped) = %q", got)
	}
	if got := UserMessage(errors.New("boom")); got != "boom" {
		t.Errorf("UserMessage(other) = %q", got)
	}
}

func newsItemGen() *rapid.Generator[NewsItem] {
	return rapid.Custom(func(t *rapid.T) NewsItem {
		return NewsItem{
			ID:       ID(rapid.StringMatching(`[1-9][0-9]{0,3}`).Draw(t, "id")),
			Title:    rapid.StringMatching(`[a-zA-Z ]{0,16}`).Draw(t, "title"),
			AuthorID: ID(rapid.StringMatching(`[1-5]`).Draw(t, "author")),
		}
	})
}

func TestFilterByTitle_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOf(newsItemGen()).Draw(t, "items")
		query := rapid.StringMatching(`[a-zA-Z ]{0,4}`).Draw(t, "query")

		got := FilterByTitle(items, query)

		want := 0
		for _, n := range items {
			if strings.Contains(strings.ToLower(n.Title), strings.ToLower(query)) {
				want++
			}
		}
		if len(got) != want {
			t.Fatalf("FilterByTitle(%q) kept %d items, want %d", query, len(got), want)
		}
		for _, n := range got {
			if !strings.Contains(strings.ToLower(n.Title), strings.ToLower(query)) {
				t.Fatalf("item %q does not match %q", n.Title, query)
			}
		}
		if query == "" && len(got) != len(items) {
			t.Fatalf("empty query dropped items")
		}
	})
}

func TestOwnedBy_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		item := newsItemGen().Draw(t, "item")
		user := User{ID: ID(rapid.StringMatching(`[1-5]`).Draw(t, "user"))}
		if item.OwnedBy(&user) != (item.AuthorID == user.ID) {
			t.Fatalf("OwnedBy(%q) on author %q disagrees with id equality", user.ID, item.AuthorID)
		}
	})
}
