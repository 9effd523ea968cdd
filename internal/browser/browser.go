// Package browser wraps chromedp with the session model the task scheduler
// needs: one long-lived isolated session (tab group) per worker, one page per
// task, and resilient interaction primitives on top of each page.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Config controls browser behavior and the Action Layer retry envelope.
// ExtraHeaders are applied to every navigation; some carrier sites serve a
// different page layout without an Accept-Language header.
type Config struct {
	Headless      bool
	UserAgent     string
	ExtraHeaders  map[string]string
	WindowWidth   int
	WindowHeight  int
	NavTimeout    time.Duration
	ActionTimeout time.Duration
	RetryAttempts int
	RetryDelay    time.Duration

	// OnRetry is invoked once per failed action attempt with the action name.
	OnRetry func(action string)
}

func (c Config) withDefaults() Config {
	if c.WindowWidth <= 0 {
		c.WindowWidth = 1200
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = 900
	}
	if c.NavTimeout <= 0 {
		c.NavTimeout = 20 * time.Second
	}
	if c.ActionTimeout <= 0 {
		c.ActionTimeout = 5 * time.Second
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 500 * time.Millisecond
	}
	return c
}

// Browser owns the chromedp exec allocator shared by all sessions.
type Browser struct {
	cfg         Config
	allocator   context.Context
	allocCancel context.CancelFunc
	logger      *zap.Logger
}

// New starts the browser allocator.
func New(cfg Config, logger *zap.Logger) (*Browser, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &Browser{
		cfg:         cfg,
		allocator:   allocCtx,
		allocCancel: allocCancel,
		logger:      logger,
	}, nil
}

// Close tears down the allocator and every session derived from it.
func (b *Browser) Close() {
	b.allocCancel()
}

// NewSession creates an isolated long-lived session. Each pool worker owns
// one session for its lifetime.
func (b *Browser) NewSession() *Session {
	ctx, cancel := chromedp.NewContext(b.allocator)
	return &Session{
		ctx:    ctx,
		cancel: cancel,
		cfg:    b.cfg,
		logger: b.logger,
	}
}

// Session is one isolated browsing context, equivalent to a browser tab
// group. Sessions are not safe for concurrent use; each worker drives its
// own.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    Config
	logger *zap.Logger
}

// Close releases the session and its pages.
func (s *Session) Close() {
	s.cancel()
}

// NewPage opens a fresh page in the session and returns it with a cleanup
// func the caller must invoke regardless of task outcome.
func (s *Session) NewPage(ctx context.Context) (*Page, func(), error) {
	if err := s.ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("session closed: %w", err)
	}
	pageCtx, cancelPage := chromedp.NewContext(s.ctx)
	page := &Page{
		ctx:    pageCtx,
		parent: ctx,
		cfg:    s.cfg,
		logger: s.logger,
	}
	return page, cancelPage, nil
}

// Page is one task-scoped browser page.
type Page struct {
	ctx    context.Context
	parent context.Context
	cfg    Config
	logger *zap.Logger
}

// Navigate drives the page to url and waits for the document body. This is
// the one essential operation of a task: a timeout here fails the task, not
// just the action.
func (p *Page) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.NavTimeout)
	defer cancel()

	var actions []chromedp.Action
	if len(p.cfg.ExtraHeaders) > 0 {
		headers := make(network.Headers, len(p.cfg.ExtraHeaders))
		for k, v := range p.cfg.ExtraHeaders {
			headers[k] = v
		}
		actions = append(actions, network.Enable(), network.SetExtraHTTPHeaders(headers))
	}
	actions = append(actions,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)

	if err := chromedp.Run(ctx, actions...); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// Eval evaluates a JavaScript expression on the page and unmarshals the
// result into out. Extractors use it to harvest timeline tables that have no
// stable per-cell selectors.
func (p *Page) Eval(expr string, out any) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.ActionTimeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, out)); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	return nil
}

// Sleep pauses the task, typically to let a carrier page finish client-side
// rendering. It returns early if the page or run context ends.
func (p *Page) Sleep(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-p.ctx.Done():
	case <-p.parent.Done():
	}
}
