// Package service implements the posts HTTP API: a thin REST layer over a
// PostStore, plus the status and shutdown resources that the contract-test
// harness relies on.
package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/blogware/posts-contract-tests/apidef"
	"github.com/blogware/posts-contract-tests/framework"
	"github.com/blogware/posts-contract-tests/model"
	"github.com/blogware/posts-contract-tests/store"
)

const (
	ServiceName    = "posts-service"
	ServiceVersion = "1.2.0"
)

// PostsService is the HTTP handler for the whole API surface. It holds no
// per-request state; all state lives in the store.
type PostsService struct {
	router       *mux.Router
	store        store.PostStore
	logger       framework.Logger
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

func New(postStore store.PostStore, logger framework.Logger) *PostsService {
	if logger == nil {
		logger = framework.NullLogger()
	}
	s := &PostsService{
		router:     mux.NewRouter(),
		store:      postStore,
		logger:     logger,
		shutdownCh: make(chan struct{}),
	}
	s.router.HandleFunc("/", s.getStatus).Methods("GET")
	s.router.HandleFunc("/", s.requestShutdown).Methods("DELETE")
	s.router.HandleFunc("/posts", s.listPosts).Methods("GET")
	s.router.HandleFunc("/posts", s.createPost).Methods("POST")
	s.router.HandleFunc("/posts/{id}", s.updatePost).Methods("PUT")
	s.router.HandleFunc("/posts/{id}", s.deletePost).Methods("DELETE")
	s.router.Use(s.logRequests)
	return s
}

func (s *PostsService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ShutdownRequested is closed when a client asks the service to exit via
// DELETE /. The process that started the server decides what to do with it.
func (s *PostsService) ShutdownRequested() <-chan struct{} {
	return s.shutdownCh
}

func (s *PostsService) getStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, apidef.ServiceStatus{
		Name:         ServiceName,
		Version:      ServiceVersion,
		Capabilities: []string{"crud", "status", "shutdown"},
	})
}

func (s *PostsService) requestShutdown(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
	s.shutdownOnce.Do(func() { close(s.shutdownCh) })
}

func (s *PostsService) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.FindAll(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	ret := make([]apidef.Post, 0, len(posts))
	for _, p := range posts {
		ret = append(ret, apidef.PostFromModel(p))
	}
	s.writeJSON(w, http.StatusOK, ret)
}

func (s *PostsService) createPost(w http.ResponseWriter, r *http.Request) {
	var params apidef.NewPostParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}
	if err := params.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.store.Insert(r.Context(), model.Post{
		Title:   params.Title,
		Content: params.Content,
		Author: model.Author{
			FirstName: params.Author.FirstName,
			LastName:  params.Author.LastName,
		},
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, apidef.PostFromModel(created))
}

func (s *PostsService) updatePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var params apidef.UpdatePostParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}
	if params.ID != "" && params.ID != id {
		s.writeError(w, http.StatusBadRequest, "body id does not match path id")
		return
	}
	err := s.store.UpdateByID(r.Context(), id, store.PostUpdate{
		Title:   params.Title,
		Content: params.Content,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *PostsService) deletePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.DeleteByID(r.Context(), id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *PostsService) writeJSON(w http.ResponseWriter, status int, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *PostsService) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, _ := json.Marshal(map[string]string{"error": message})
	_, _ = w.Write(data)
}

func (s *PostsService) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "no such post")
		return
	}
	s.writeError(w, http.StatusInternalServerError, err.Error())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *PostsService) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Printf("%s %s -> %d", r.Method, r.URL.Path, rec.status)
	})
}
