package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gauthierbraillon/winelocals/internal/catalog"
	"github.com/gauthierbraillon/winelocals/internal/display"
	"github.com/gauthierbraillon/winelocals/internal/feed"
	"github.com/gauthierbraillon/winelocals/internal/media"
	"github.com/gauthierbraillon/winelocals/internal/player"
	"github.com/gauthierbraillon/winelocals/internal/shell"
)

type itemsLoadedMsg struct {
	items []catalog.FeedItem
}

type clearNoticeMsg struct{}

// Model is the bubbletea model of the terminal feed.
type Model struct {
	ctx   context.Context
	load  LoadFunc
	open  OpenFunc
	opts  feed.Options
	wheel float64

	loading bool
	items   []catalog.FeedItem
	deck    *feed.Deck
	frames  []feed.Frame

	notice    string
	width     int
	height    int
	formatter *display.TerminalFormatter
}

// New creates a model. Init starts the first load.
func New(ctx context.Context, opts Options) *Model {
	wheel := opts.Feed.WheelThreshold
	if wheel <= 0 {
		wheel = feed.DefaultWheelThreshold
	}
	return &Model{
		ctx:       ctx,
		load:      opts.Load,
		open:      opts.Open,
		opts:      opts.Feed,
		wheel:     wheel,
		loading:   true,
		formatter: display.NewTerminalFormatter(),
	}
}

// Init loads the feed.
func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

func (m *Model) fetch() tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		if m.load == nil {
			return itemsLoadedMsg{}
		}
		return itemsLoadedMsg{items: m.load(m.ctx)}
	}
}

func clearNotice() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearNoticeMsg{}
	})
}

// Update handles input and load results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case itemsLoadedMsg:
		m.mount(msg.items)
	case clearNoticeMsg:
		m.notice = ""
	case tea.MouseMsg:
		if m.deck == nil || msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			m.gesture(m.deck.Controller().Wheel(m.wheel))
		case tea.MouseButtonWheelUp:
			m.gesture(m.deck.Controller().Wheel(-m.wheel))
		case tea.MouseButtonLeft:
			m.deck.Controller().TogglePause()
			m.gesture(true)
		}
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return tea.Quit
	case "r":
		m.deck = nil
		return m.fetch()
	}
	if m.deck == nil {
		return nil
	}

	ctrl := m.deck.Controller()
	switch msg.String() {
	case "down", "j", "pgdown":
		m.gesture(ctrl.Next())
	case "up", "k", "pgup":
		m.gesture(ctrl.Prev())
	case " ", "space", "p":
		ctrl.TogglePause()
		m.gesture(true)
	case "enter", "o":
		return m.openActive()
	}
	return nil
}

// mount replaces the deck, restarting playback on the first item.
func (m *Model) mount(items []catalog.FeedItem) {
	m.loading = false
	m.items = items
	sources := make([]media.Source, len(items))
	for i, item := range items {
		sources[i] = item.Source()
	}
	m.deck = feed.NewDeck(sources, m.opts)
	m.frames = m.deck.Sync()
}

func (m *Model) gesture(changed bool) {
	if !changed {
		return
	}
	m.frames = m.deck.Sync()
}

func (m *Model) openActive() tea.Cmd {
	i := m.deck.Controller().Active()
	if i < 0 || m.open == nil {
		return nil
	}
	url := shell.ExperienceURL(m.items[i].Slug)
	if url == "" {
		m.notice = "Passeio sem página"
		return clearNotice()
	}
	if err := m.open(url); err != nil {
		m.notice = fmt.Sprintf("Não foi possível abrir: %v", err)
	} else {
		m.notice = "Abrindo " + url
	}
	return clearNotice()
}

// Active returns the active index, or -1 while nothing is loaded.
func (m *Model) Active() int {
	if m.deck == nil {
		return -1
	}
	return m.deck.Controller().Active()
}

// Playing reports whether the active item is playing.
func (m *Model) Playing() bool {
	i := m.Active()
	if i < 0 || i >= len(m.frames) {
		return false
	}
	f := m.frames[i]
	if f.Update.Surface.Kind == player.SurfaceVideo {
		return m.deck.Playing(i)
	}
	return f.Update.Surface.AutoPlay
}
