package webapp

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dalfonso89/currency-converter/internal/logger"
)

// ErrNoForm is returned by Submit when the current page has no wired form
var ErrNoForm = errors.New("no form on the current page")

// SubmitHandler handles a submit of the current page's form
type SubmitHandler func(task *Task, form url.Values)

// Client holds what every session shares: the proxy backend, logger and validator
type Client struct {
	backend  Backend
	logger   *logger.Logger
	validate *validator.Validate
}

func NewClient(backend Backend, logger *logger.Logger) *Client {
	return &Client{
		backend:  backend,
		logger:   logger,
		validate: validator.New(),
	}
}

// Session is one running instance of the single-page application
type Session struct {
	client *Client
	view   *View
	router *Router

	mu               sync.Mutex
	cancel           context.CancelFunc
	submit           SubmitHandler
	submitPath       string
	submitGeneration uint64
}

// NewSession creates a session with the three application routes registered
func (client *Client) NewSession() *Session {
	session := &Session{
		client: client,
		view:   NewView(),
	}
	session.router = NewRouter(session.renderNotFound)
	session.router.Add("/", session.renderRates)
	session.router.Add("/exchange", session.renderExchange)
	session.router.Add("/historical", session.renderHistorical)
	return session
}

func (session *Session) View() *View {
	return session.view
}

// Navigate starts a new generation and dispatches path. Work still running
// for an earlier navigation is cancelled and its results are discarded.
func (session *Session) Navigate(ctx context.Context, path string) *Task {
	if path == "" {
		path = "/"
	}

	navigationContext, cancel := context.WithCancel(ctx)

	session.mu.Lock()
	generation := session.view.Begin()
	if session.cancel != nil {
		session.cancel()
	}
	session.cancel = cancel
	session.submit = nil
	session.mu.Unlock()

	session.client.logger.Debugf("Navigating to %s (generation %d)", path, generation)

	task := newTask(session, navigationContext, path, generation)
	session.router.Dispatch(task)
	return task
}

// Load handles the initial page load: highlight the matching menu entry and
// navigate to the full path.
func (session *Session) Load(ctx context.Context, path string) *Task {
	if path == "" {
		path = "/"
	}
	if href, ok := menuItemFor(path); ok {
		session.view.Activate(href)
	}
	return session.Navigate(ctx, path)
}

// Click handles an intercepted link click. Only the trailing segment of href
// is routed, so route paths are single-segment.
func (session *Session) Click(ctx context.Context, href string) *Task {
	session.view.Activate(href)

	path := "/" + href
	if index := strings.LastIndex(href, "/"); index >= 0 {
		path = href[index:]
	}
	return session.Navigate(ctx, path)
}

// Submit hands form to the current page's submit handler
func (session *Session) Submit(ctx context.Context, form url.Values) (*Task, error) {
	session.mu.Lock()
	handler, path, generation := session.submit, session.submitPath, session.submitGeneration
	session.mu.Unlock()

	if handler == nil || generation != session.view.Generation() {
		return nil, ErrNoForm
	}

	task := newTask(session, ctx, path, generation)
	handler(task, form)
	return task, nil
}

// Close cancels outstanding work
func (session *Session) Close() {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.cancel != nil {
		session.cancel()
		session.cancel = nil
	}
}

func (session *Session) wire(generation uint64, path string, handler SubmitHandler) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if generation != session.view.Generation() {
		return
	}
	session.submit = handler
	session.submitPath = path
	session.submitGeneration = generation
}

func (session *Session) unwire(generation uint64) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.submitGeneration == generation {
		session.submit = nil
	}
}
