package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// teaNavigator adapts the session.Navigator contract to bubbletea: redirect
// decisions made inside the session manager arrive in the update loop as
// navigateMsg values. Path mirrors the web client's route so the public
// allow-list keeps working.
type teaNavigator struct {
	mu   sync.Mutex
	path string
	send func(tea.Msg)
}

func (n *teaNavigator) Path() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *teaNavigator) setPath(p string) {
	n.mu.Lock()
	n.path = p
	n.mu.Unlock()
}

func (n *teaNavigator) dispatch(msg tea.Msg) {
	n.mu.Lock()
	send := n.send
	n.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (n *teaNavigator) GoToLogin() {
	n.dispatch(navigateMsg{target: navLogin})
}

func (n *teaNavigator) GoToStore(storeID string) {
	n.dispatch(navigateMsg{target: navStore, storeID: storeID})
}

func (n *teaNavigator) GoToLanding() {
	n.dispatch(navigateMsg{target: navLanding})
}
