package shell

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/winelocals/internal/log"
)

// State is the navigation snapshot rendered by front ends.
type State struct {
	Active  Tab         `json:"active"`
	Profile ProfileView `json:"profileView"`
	NavBar  []NavItem   `json:"navBar"`
}

// Shell switches between tabs. Exactly one tab is active; the web view tab
// is active at startup.
type Shell struct {
	mu       sync.Mutex
	active   Tab
	profile  ProfileView
	onSelect []func(prev, next Tab)
	logger   zerolog.Logger
}

// New creates a shell on the web view tab.
func New() *Shell {
	return &Shell{
		active:  TabWebView,
		profile: ViewOverview,
		logger:  log.WithComponent("shell"),
	}
}

// OnSelect registers a hook run after the active tab changes. Hooks let a
// screen unmount when it is hidden.
func (s *Shell) OnSelect(fn func(prev, next Tab)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSelect = append(s.onSelect, fn)
}

// Select activates tab. Selecting the active tab is a no-op.
func (s *Shell) Select(name string) (Tab, error) {
	tab, err := ParseTab(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	prev := s.active
	if prev == tab {
		s.mu.Unlock()
		return tab, nil
	}
	s.active = tab
	hooks := append([]func(prev, next Tab){}, s.onSelect...)
	s.mu.Unlock()

	s.logger.Debug().Str(log.FieldTab, string(tab)).Str("from", string(prev)).Msg("tab selected")
	for _, fn := range hooks {
		fn(prev, tab)
	}
	return tab, nil
}

// Active returns the active tab.
func (s *Shell) Active() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Open shows a profile sub-view.
func (s *Shell) Open(view ProfileView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = view
}

// Back returns from a profile sub-view to the overview.
func (s *Shell) Back() {
	s.Open(ViewOverview)
}

// Logout resets the profile tab to its overview.
func (s *Shell) Logout() {
	s.Back()
}

// ProfileView returns the visible profile sub-view.
func (s *Shell) ProfileView() ProfileView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// State returns a snapshot.
func (s *Shell) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Active: s.active, Profile: s.profile, NavBar: NavBar}
}
