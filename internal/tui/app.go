package tui

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorix/quorix/internal/auth"
	"github.com/quorix/quorix/internal/event"
	"github.com/quorix/quorix/internal/logging"
	"github.com/quorix/quorix/internal/tui/dashboard"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	deps    dashboard.Deps
	// sessionPath is the session file to watch; empty disables watching.
	sessionPath string
	inbox       *inbox
}

// New creates a new TUI application. deps.Send is replaced by one that
// delivers to the program.
func New(deps dashboard.Deps, sessionPath string) *App {
	if deps.Logger == nil {
		deps.Logger = logging.NopLogger()
	}
	a := &App{deps: deps, sessionPath: sessionPath, inbox: newInbox()}
	a.deps.Send = a.inbox.put
	return a
}

// messageFor translates a bus event into the message the root model handles.
func messageFor(e event.Event) tea.Msg {
	if fc, ok := e.(event.SessionFileChangedEvent); ok {
		return tuimsg.SessionChangedMsg{Removed: fc.Removed}
	}
	return tuimsg.StateChangedMsg{EventType: e.EventType()}
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	model := NewModel(a.deps)
	a.program = tea.NewProgram(model, tea.WithAltScreen())

	go a.inbox.drain(a.program.Send)
	defer a.inbox.close()

	unsubscribe := a.deps.Store.Subscribe(func(e event.Event) {
		a.inbox.put(messageFor(e))
	})
	defer unsubscribe()

	if a.sessionPath != "" {
		bus := a.deps.Store.Bus()
		w, err := auth.NewWatcher(a.sessionPath, func(removed bool) {
			bus.Publish(event.NewSessionFileChangedEvent(a.sessionPath, removed))
		}, a.deps.Logger)
		if err != nil {
			a.deps.Logger.Warn("session watcher disabled", "error", err.Error())
		} else {
			w.Start()
			defer w.Stop()
		}
	}

	// Set up signal handling for graceful shutdown so every feed is stopped
	// before the process exits.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		if _, ok := <-sigChan; ok && a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	final, err := a.program.Run()

	signal.Stop(sigChan)
	close(sigChan)
	if m, ok := final.(Model); ok {
		m.Close()
	}
	return err
}

// inbox queues messages for the program in arrival order. put never blocks,
// so it is safe from inside Update, where tea.Program.Send would deadlock.
type inbox struct {
	mu     sync.Mutex
	queue  []tea.Msg
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

func newInbox() *inbox {
	return &inbox{wake: make(chan struct{}, 1), done: make(chan struct{})}
}

func (b *inbox) put(msg tea.Msg) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, msg)
	b.mu.Unlock()
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// drain hands queued messages to send until close.
func (b *inbox) drain(send func(tea.Msg)) {
	for {
		select {
		case <-b.done:
			return
		case <-b.wake:
		}
		b.mu.Lock()
		batch := b.queue
		b.queue = nil
		b.mu.Unlock()
		for _, msg := range batch {
			send(msg)
		}
	}
}

func (b *inbox) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.done)
	}
}
