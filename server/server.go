package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/kibaidar1/BullBear-NewsBot/pkg/news"
	"github.com/kibaidar1/BullBear-NewsBot/pkg/store"
)

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	directory Directory
	source    news.Source
	filter    *news.Filter
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
	started    time.Time
}

// Directory provides read access to subscriptions for status reporting
type Directory interface {
	ListSubscriptions(ctx context.Context) ([]store.Subscription, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// New initializes a new server instance
func New(cfg ConfigProvider, directory Directory, source news.Source, filter *news.Filter, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		directory: directory,
		source:    source,
		filter:    filter,
		version:   version,
		debug:     debug,
		router:    routegroup.New(http.NewServeMux()),
		started:   time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("bullbear", "kibaidar1", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /news", s.newsHandler)
	})
}

// statusHandler returns server status with subscription counters
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"uptime":  time.Since(s.started).Truncate(time.Second).String(),
	}

	if subs, err := s.directory.ListSubscriptions(r.Context()); err == nil {
		users := map[int64]struct{}{}
		topics := map[string]struct{}{}
		for _, sub := range subs {
			users[sub.UserID] = struct{}{}
			topics[sub.Topic] = struct{}{}
		}
		status["subscriptions"] = len(subs)
		status["users"] = len(users)
		status["topics"] = len(topics)
	} else {
		log.Printf("[WARN] failed to count subscriptions: %v", err)
	}

	s.renderJSON(w, http.StatusOK, status)
}

// newsHandler runs an on-demand topic search, the same filter-and-score
// pipeline the scheduler uses but without the delivery ledger
func (s *Server) newsHandler(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		http.Error(w, "topic parameter is required", http.StatusBadRequest)
		return
	}

	maxResults := 3
	if v := r.URL.Query().Get("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 50 {
			http.Error(w, "max must be a number between 1 and 50", http.StatusBadRequest)
			return
		}
		maxResults = n
	}

	minScore := news.DefaultMinScore
	if v := r.URL.Query().Get("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			http.Error(w, "min_score must be a number between 0 and 1", http.StatusBadRequest)
			return
		}
		minScore = f
	}

	items, err := news.Search(r.Context(), s.source, s.filter, topic, news.SearchOpts{
		MinScore: minScore,
		Max:      maxResults,
	})
	if err != nil {
		log.Printf("[WARN] news search failed for %q: %v", topic, err)
		http.Error(w, "news search failed", http.StatusBadGateway)
		return
	}

	s.renderJSON(w, http.StatusOK, map[string]interface{}{
		"topic": topic,
		"count": len(items),
		"items": items,
	})
}

func (s *Server) renderJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] failed to encode response: %v", err)
	}
}
