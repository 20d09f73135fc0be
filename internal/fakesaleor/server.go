// Package fakesaleor serves an in-memory Saleor product catalog over GraphQL.
// It answers the catalog's product queries with realistic data so they can be
// exercised end to end without a Saleor instance.
package fakesaleor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/go-saleor-catalog/schema"
)

// Path is where the GraphQL endpoint is mounted, as on a Saleor API.
const Path = "/graphql/"

type config struct {
	logger logrus.FieldLogger
	now    func() time.Time
	token  string
}

// Option configures the fake backend.
type Option func(*config)

// WithLogger logs every request and resolver panic to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) { c.logger = logger }
}

// WithClock replaces time.Now, which decides product availability.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithToken requires every request to carry "Authorization: Bearer <token>".
func WithToken(token string) Option {
	return func(c *config) { c.token = token }
}

func newConfig(opts []Option) *config {
	c := &config{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.logger = l
	}
	return c
}

// NewSchema binds the embedded product schema to resolvers reading store.
func NewSchema(store *Store, opts ...Option) (*graphql.Schema, error) {
	c := newConfig(opts)
	return newSchema(store, c)
}

func newSchema(store *Store, c *config) (*graphql.Schema, error) {
	s, err := graphql.ParseSchema(
		schema.ProductsSDL,
		&queryResolver{store: store, now: c.now},
		graphql.Logger(panicLogger{c.logger}),
		graphql.MaxDepth(12),
	)
	if err != nil {
		return nil, fmt.Errorf("parse products schema: %w", err)
	}
	return s, nil
}

// Handler returns an http.Handler serving store at Path.
func Handler(store *Store, opts ...Option) (http.Handler, error) {
	c := newConfig(opts)
	s, err := newSchema(store, c)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(Path, &relay.Handler{Schema: s})
	var h http.Handler = mux
	if c.token != "" {
		h = requireToken(c.token, h)
	}
	return logRequests(c.logger, h), nil
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts the
// server down gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requireToken(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || got != token {
			http.Error(w, "invalid or missing staff token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(logger logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"request_id": r.Header.Get("X-Request-Id"),
			"duration":   time.Since(start),
		}).Info("graphql request served")
	})
}

// panicLogger reports resolver panics through logrus.
type panicLogger struct {
	logger logrus.FieldLogger
}

func (l panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.logger.WithField("panic", value).Error("graphql: panic occurred")
}
