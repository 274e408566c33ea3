// Package shell holds the app-level navigation state: the bottom tab bar,
// the profile sub-views and the per-screen fetch lifecycle.
package shell

import (
	"errors"
	"fmt"
)

// ErrUnknownTab is returned when selecting a tab that does not exist.
var ErrUnknownTab = errors.New("unknown tab")

// Tab identifies one top-level screen.
type Tab string

const (
	TabWebView Tab = "webview"
	TabFeed    Tab = "feed"
	TabMap     Tab = "map"
	TabProfile Tab = "profile"
)

// NavItem is one button of the bottom bar.
type NavItem struct {
	Tab   Tab    `json:"tab"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// NavBar is the fixed bottom bar, in display order.
var NavBar = []NavItem{
	{Tab: TabWebView, Label: "Wine Locals", Icon: "globe"},
	{Tab: TabFeed, Label: "Shorts", Icon: "play"},
	{Tab: TabMap, Label: "Mapa", Icon: "map"},
	{Tab: TabProfile, Label: "Perfil", Icon: "user"},
}

// ParseTab validates a tab id. "youtube" is accepted as an alias of the feed.
func ParseTab(s string) (Tab, error) {
	if s == "youtube" {
		return TabFeed, nil
	}
	for _, item := range NavBar {
		if string(item.Tab) == s {
			return item.Tab, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// Label returns the nav bar label of t.
func (t Tab) Label() string {
	for _, item := range NavBar {
		if item.Tab == t {
			return item.Label
		}
	}
	return string(t)
}

// ProfileView is a sub-screen of the profile tab.
type ProfileView string

const (
	ViewOverview ProfileView = "overview"
	ViewOrders   ProfileView = "orders"
	ViewVouchers ProfileView = "vouchers"
	ViewSecurity ProfileView = "security"
)

// ParseProfileView validates a profile sub-view id.
func ParseProfileView(s string) (ProfileView, error) {
	switch v := ProfileView(s); v {
	case ViewOverview, ViewOrders, ViewVouchers, ViewSecurity:
		return v, nil
	case "", "profile":
		return ViewOverview, nil
	default:
		return "", fmt.Errorf("unknown profile view %q", s)
	}
}
