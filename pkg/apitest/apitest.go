// Package apitest runs an in-memory stand-in for the news REST API so the
// gateway and the UI can be exercised end to end in tests.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/newsboard/pkg/model"
)

// Request is one recorded call against the fake API.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Server is a json-server style fake of /users and /news.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    []model.User
	news     []model.NewsItem
	nextID   int
	requests []Request
	failures map[string]int // "METHOD /path" -> status to return once
}

// New starts a fake API seeded with users and news. Call Close when done.
func New(users []model.User, news []model.NewsItem) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		users:    append([]model.User(nil), users...),
		failures: make(map[string]int),
		nextID:   1,
	}
	for _, n := range news {
		s.news = append(s.news, n.Clone())
		if id, err := strconv.Atoi(n.ID.String()); err == nil && id >= s.nextID {
			s.nextID = id + 1
		}
	}

	r := gin.New()
	r.Use(s.record)
	r.GET("/users", s.listUsers)
	r.GET("/news", s.listNews)
	r.GET("/news/:id", s.getNews)
	r.POST("/news", s.createNews)
	r.PATCH("/news/:id", s.patchNews)
	r.DELETE("/news/:id", s.deleteNews)

	s.Server = httptest.NewServer(r)
	return s
}

// FailNext makes the next request matching method and path answer with
// status instead of being served.
func (s *Server) FailNext(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// Requests returns a copy of every request seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsFor returns recorded requests with the given method and path.
func (s *Server) RequestsFor(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// CountMutations returns how many POST, PATCH and DELETE calls were made.
func (s *Server) CountMutations() int {
	n := 0
	for _, r := range s.Requests() {
		switch r.Method {
		case http.MethodPost, http.MethodPatch, http.MethodDelete:
			n++
		}
	}
	return n
}

// News returns a snapshot of the stored articles.
func (s *Server) News() []model.NewsItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.NewsItem, len(s.news))
	for i, n := range s.news {
		out[i] = n.Clone()
	}
	return out
}

// SetNews replaces the stored articles, simulating another client's writes.
func (s *Server) SetNews(news []model.NewsItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.news = nil
	for _, n := range news {
		s.news = append(s.news, n.Clone())
	}
}

func (s *Server) record(c *gin.Context) {
	body, _ := c.GetRawData()
	c.Request.Body = http.NoBody
	if len(body) > 0 {
		c.Set("body", body)
	}

	key := c.Request.Method + " " + c.Request.URL.Path
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: c.Request.Method, Path: c.Request.URL.Path, Body: body})
	status, fail := s.failures[key]
	if fail {
		delete(s.failures, key)
	}
	s.mu.Unlock()

	if fail {
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.Next()
}

func (s *Server) listUsers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.users)
}

func (s *Server) listNews(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.news
	if out == nil {
		out = []model.NewsItem{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getNews(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(model.ID(c.Param("id")))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	c.JSON(http.StatusOK, s.news[i])
}

func (s *Server) createNews(c *gin.Context) {
	var item model.NewsItem
	if err := json.Unmarshal(bodyOf(c), &item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID.IsZero() {
		item.ID = model.ID(strconv.Itoa(s.nextID))
		s.nextID++
	}
	s.news = append(s.news, item)
	c.JSON(http.StatusCreated, item)
}

// patchNews merges only the fields present in the body.
func (s *Server) patchNews(c *gin.Context) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(bodyOf(c), &fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(model.ID(c.Param("id")))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	item := s.news[i]
	for key, raw := range fields {
		var err error
		switch key {
		case "title":
			err = json.Unmarshal(raw, &item.Title)
		case "body":
			err = json.Unmarshal(raw, &item.Body)
		case "author_id":
			err = json.Unmarshal(raw, &item.AuthorID)
		case "comments":
			err = json.Unmarshal(raw, &item.Comments)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	s.news[i] = item
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteNews(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(model.ID(c.Param("id")))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	s.news = append(s.news[:i], s.news[i+1:]...)
	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) indexOf(id model.ID) int {
	for i, n := range s.news {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func bodyOf(c *gin.Context) []byte {
	if v, ok := c.Get("body"); ok {
		return v.([]byte)
	}
	return nil
}
