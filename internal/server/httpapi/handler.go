package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/bookapi/internal/logging"
	"github.com/dmitrijs2005/bookapi/internal/server/services"
)

const defaultMaxBodyBytes = 1 << 20

// HandlerConfig carries the collaborators of Handler. Ready reports whether
// the backing store can serve traffic; nil means always ready.
type HandlerConfig struct {
	Auth         *services.AuthService
	Books        *services.BookService
	Covers       *services.CoverService
	Tokens       TokenValidator
	Logger       logging.Logger
	Metrics      *Metrics
	Ready        func(ctx context.Context) error
	MaxBodyBytes int64
}

type Handler struct {
	auth    *services.AuthService
	books   *services.BookService
	covers  *services.CoverService
	tokens  TokenValidator
	logger  logging.Logger
	metrics *Metrics
	ready   func(ctx context.Context) error
	maxBody int64
}

func NewHandler(cfg HandlerConfig) *Handler {
	h := &Handler{
		auth:    cfg.Auth,
		books:   cfg.Books,
		covers:  cfg.Covers,
		tokens:  cfg.Tokens,
		logger:  cfg.Logger.With("module", "http"),
		metrics: cfg.Metrics,
		ready:   cfg.Ready,
		maxBody: cfg.MaxBodyBytes,
	}
	if h.maxBody <= 0 {
		h.maxBody = defaultMaxBodyBytes
	}
	if h.metrics == nil {
		h.metrics = NewMetrics()
	}
	return h
}

// Routes builds the complete request pipeline.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	bearer := RequireBearer(h.tokens)

	handle := func(pattern string, fn http.HandlerFunc, mws ...Middleware) {
		mux.Handle(pattern, h.metrics.instrument(pattern, Chain(fn, mws...)))
	}

	handle("POST /api/auth/register", h.register)
	handle("POST /api/auth/login", h.login)
	handle("GET /api/auth/me", h.me, bearer)

	handle("GET /api/books", h.listBooks)
	handle("GET /api/books/{isbn}", h.getBook)
	handle("POST /api/books", h.createBook, bearer)
	handle("PUT /api/books/{isbn}", h.updateBook, bearer)
	handle("DELETE /api/books/{isbn}", h.deleteBook, bearer)

	handle("POST /api/books/{isbn}/cover", h.requestCoverUpload, bearer)
	handle("GET /api/books/{isbn}/cover", h.getCoverURL)

	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /readyz", h.readyz)
	mux.Handle("GET /metrics", h.metrics.Handler())

	return Chain(mux, RequestID, WithRequestLogging(h.logger))
}
