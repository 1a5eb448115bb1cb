package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/adamavenir/dispatch/internal/autocomplete"
	"github.com/adamavenir/dispatch/internal/composer"
	"github.com/adamavenir/dispatch/internal/types"
	"github.com/adamavenir/dispatch/internal/watch"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog"
)

// Relay is what the composer view needs from the relay client.
type Relay interface {
	composer.Sender
	autocomplete.Lookuper
}

// Options configure the composer view.
type Options struct {
	Relay       Relay
	RelayURL    string
	Debounce    time.Duration
	Toast       time.Duration
	SendTimeout time.Duration
	WatchDir    string
	Notify      bool
	Logger      zerolog.Logger
}

// Run starts the composer UI and blocks until the user quits.
func Run(opts Options) error {
	model := NewModel(opts)
	defer model.Close()

	title := "dispatch"
	if opts.RelayURL != "" {
		title = "dispatch · " + opts.RelayURL
	}
	fmt.Printf("\033]0;%s\007", title)

	program := tea.NewProgram(model, tea.WithMouseCellMotion())
	model.post = program.Send

	if opts.WatchDir != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		dropDir, err := watch.NewDropDir(opts.WatchDir, watch.DefaultSettle, func(path string) {
			program.Send(droppedFileMsg{path: path})
		}, opts.Logger)
		if err != nil {
			return err
		}
		if err := dropDir.Start(ctx); err != nil {
			return err
		}
		defer dropDir.Close()
	}

	_, err := program.Run()
	return err
}

// Model implements the composer UI.
type Model struct {
	composer      *composer.Composer
	engine        *autocomplete.Engine
	relay         Relay
	logger        zerolog.Logger
	post          func(tea.Msg)
	input         textarea.Model
	historyView   viewport.Model
	zoneManager   *zone.Manager
	toastDuration time.Duration
	sendTimeout   time.Duration
	notifyDesktop bool
	width         int
	height        int
	// Dropdown state: rows from the latest accepted lookup.
	suggestions     []types.Suggestion
	suggestionIndex int
	lastInputValue  string
	lastInputPos    int
	// Toast state; toastSeq invalidates expiry ticks from older toasts.
	toast       *composer.Notice
	toastSeq    int
	hint        string
	historyOpen bool
	helpOpen    bool
	inFlight    int
}

// NewModel creates a composer model with empty state.
func NewModel(opts Options) *Model {
	if opts.Toast <= 0 {
		opts.Toast = 3 * time.Second
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 30 * time.Second
	}

	m := &Model{
		composer:        composer.New(),
		relay:           opts.Relay,
		logger:          opts.Logger.With().Str("component", "chat").Logger(),
		input:           newInputModel(),
		historyView:     viewport.New(0, 0),
		zoneManager:     zone.New(),
		toastDuration:   opts.Toast,
		sendTimeout:     opts.SendTimeout,
		notifyDesktop:   opts.Notify,
		suggestionIndex: -1,
		hint:            defaultHint,
	}
	m.engine = autocomplete.New(opts.Relay, opts.Debounce, func(res autocomplete.Result) {
		if m.post != nil {
			m.post(suggestionsMsg{res: res})
		}
	}, opts.Logger)
	return m
}

// Composer exposes the underlying state, mainly for tests.
func (m *Model) Composer() *composer.Composer {
	return m.composer
}
