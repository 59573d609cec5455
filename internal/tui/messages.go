package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"menucli/internal/api"
	"menucli/internal/model"
	"menucli/internal/realtime"
	"menucli/internal/session"
	"menucli/internal/state"
)

var errNoStore = errors.New("nenhuma loja carregada")

type navTarget int

const (
	navLogin navTarget = iota
	navLanding
	navStore
)

type navigateMsg struct {
	target  navTarget
	storeID string
}

type stateChangedMsg struct{}

type statusPushMsg struct {
	event realtime.StatusEvent
}

type verifyDoneMsg struct {
	ok bool
}

type loginDoneMsg struct {
	err error
}

type storesLoadedMsg struct {
	stores []model.StoreSummary
}

type storeLoadedMsg struct {
	store *model.Store
}

type storeUpdatedMsg struct {
	store *model.Store
}

type categoriesLoadedMsg struct {
	categories []model.Category
}

type itemsLoadedMsg struct {
	category *model.Category
	items    []model.Item
}

type reorderDoneMsg struct {
	scope string // "categorias" or "itens"
	err   error
}

type menuRenderedMsg struct {
	rendered string
}

type errMsg struct {
	scope string
	err   error
}

const requestTimeout = 15 * time.Second

func verifyCmd(mgr *session.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		// Redirects fire through the navigator into navigateMsg.
		ok, _ := mgr.Verify(ctx, session.VerifyOptions{RedirectToApp: true, RedirectToLogin: true})
		return verifyDoneMsg{ok: ok}
	}
}

func loginCmd(mgr *session.Manager, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := mgr.Login(ctx, email, password, true)
		return loginDoneMsg{err: err}
	}
}

func logoutCmd(mgr *session.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_ = mgr.Logout(ctx)
		return navigateMsg{target: navLogin}
	}
}

func loadStoresCmd(container *state.Container) tea.Cmd {
	return func() tea.Msg {
		user := container.User()
		if user == nil {
			return storesLoadedMsg{}
		}
		return storesLoadedMsg{stores: user.Stores}
	}
}

func loadStoreCmd(client *api.Client, storeID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		st, err := client.Store(ctx, storeID)
		if err != nil {
			return errMsg{scope: "loja", err: err}
		}
		return storeLoadedMsg{store: st}
	}
}

func updateStatusCmd(client *api.Client, storeID string, status model.StoreStatus) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		st, err := client.UpdateStoreStatus(ctx, storeID, status)
		if err != nil {
			return errMsg{scope: "status", err: err}
		}
		return storeUpdatedMsg{store: st}
	}
}

func loadCategoriesCmd(client *api.Client, storeID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		cats, err := client.Categories(ctx, storeID)
		if err != nil {
			return errMsg{scope: "categorias", err: err}
		}
		return categoriesLoadedMsg{categories: cats}
	}
}

// loadItemsCmd drills into one category's item scope. A failure surfaces as
// errMsg and the caller keeps showing the category scope.
func loadItemsCmd(client *api.Client, category model.Category) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		items, err := client.ItemsByCategory(ctx, category.ID)
		if err != nil {
			return errMsg{scope: "itens de " + category.Name, err: err}
		}
		cat := category
		return itemsLoadedMsg{category: &cat, items: items}
	}
}

func joinStoreCmd(rt *realtime.Client, storeID string) tea.Cmd {
	return func() tea.Msg {
		if err := rt.SwitchStore(storeID); err != nil {
			// Pushes are an enhancement; the console still works.
			return stateChangedMsg{}
		}
		return stateChangedMsg{}
	}
}
