package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"menucli/internal/api"
	"menucli/internal/config"
	"menucli/internal/menu"
	"menucli/internal/model"
	"menucli/internal/orderedlist"
	"menucli/internal/realtime"
	"menucli/internal/session"
	"menucli/internal/state"
)

type view int

const (
	viewLogin view = iota
	viewStores
	viewStore
	viewCategories
	viewItems
	viewMenu
)

type appModel struct {
	client *api.Client
	mgr    *session.Manager
	state  *state.Container
	rt     *realtime.Client
	nav    *teaNavigator
	log    *zap.Logger

	width  int
	height int

	view view

	login loginForm

	storesList     list.Model
	categoriesList list.Model
	itemsList      list.Model

	catSync  *orderedlist.Synchronizer[model.Category]
	itemSync *orderedlist.Synchronizer[model.Item]

	selectedStoreID  string
	selectedCategory *model.Category
	menuRendered     string
	statusLine       string
	statusIsError    bool
}

func newAppModel(client *api.Client, mgr *session.Manager, container *state.Container, rt *realtime.Client, nav *teaNavigator, log *zap.Logger) appModel {
	m := appModel{
		client: client,
		mgr:    mgr,
		state:  container,
		rt:     rt,
		nav:    nav,
		log:    log,
		view:   viewLogin,
		login:  newLoginForm(),
	}
	m.storesList = newList("Lojas", "Selecione uma loja")
	m.categoriesList = newList("Categorias", "espaço levanta · enter solta/abre · esc volta")
	m.itemsList = newList("Itens", "espaço levanta · enter solta · esc volta")
	m.nav.setPath("/auth/login")
	return m
}

func (m appModel) Init() tea.Cmd {
	return verifyCmd(m.mgr)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case navigateMsg:
		return m.applyNavigation(msg)

	case stateChangedMsg:
		// Realtime or reducer mutation: repaint from the container.
		return m, nil

	case statusPushMsg:
		if m.state.SetStoreStatus(msg.event.StoreID, msg.event.Status) {
			m.setInfo("status da loja: " + string(msg.event.Status))
		}
		return m, nil

	case verifyDoneMsg:
		if !msg.ok {
			m.view = viewLogin
			m.nav.setPath("/auth/login")
		}
		return m, nil

	case loginDoneMsg:
		if msg.err != nil {
			m.login.applyError(msg.err)
			return m, nil
		}
		m.login.reset()
		return m, nil

	case storesLoadedMsg:
		m.storesList.SetItems(storeListItems(msg.stores))
		return m, nil

	case storeLoadedMsg:
		m.state.SetStore(msg.store)
		m.selectedStoreID = msg.store.ID
		m.view = viewStore
		m.nav.setPath("/manage/" + msg.store.ID)
		rememberStore(msg.store.ID)
		return m, joinStoreCmd(m.rt, msg.store.ID)

	case storeUpdatedMsg:
		m.state.SetStore(msg.store)
		m.setInfo("loja atualizada")
		return m, nil

	case categoriesLoadedMsg:
		m.state.SetCategories(msg.categories)
		m.catSync = orderedlist.NewSynchronizer[model.Category](msg.categories, m.client.UpdateCategoryOrder, m.log)
		m.categoriesList.SetItems(categoryListItems(msg.categories, 0, false))
		m.view = viewCategories
		return m, nil

	case itemsLoadedMsg:
		// Replaces the active orderable scope; the category list stays
		// behind for esc.
		m.state.SetItems(msg.items)
		m.itemSync = orderedlist.NewSynchronizer[model.Item](msg.items, m.client.UpdateItemOrder, m.log)
		m.itemsList.SetItems(itemListItems(msg.items, 0, false))
		m.selectedCategory = msg.category
		m.view = viewItems
		return m, nil

	case reorderDoneMsg:
		return m.applyReorderResult(msg)

	case menuRenderedMsg:
		m.menuRendered = msg.rendered
		m.view = viewMenu
		return m, nil

	case errMsg:
		// Toast analog: named failure on the status line, previous view
		// and list untouched.
		m.setError(msg.scope + ": " + msg.err.Error())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view == viewLogin {
		return m.updateLogin(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace":
		return m.goBack()
	}

	switch m.view {
	case viewStores:
		return m.updateStores(msg)
	case viewStore:
		return m.updateStore(msg)
	case viewCategories:
		return m.updateCategories(msg)
	case viewItems:
		return m.updateItems(msg)
	case viewMenu:
		return m, nil
	}
	return m, nil
}

func (m appModel) goBack() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMenu:
		m.view = viewStore
	case viewItems:
		// Back to the category scope; its list was kept as-is.
		if m.itemSync != nil {
			m.itemSync.Cancel()
		}
		m.selectedCategory = nil
		m.view = viewCategories
	case viewCategories:
		if m.catSync != nil {
			m.catSync.Cancel()
		}
		m.view = viewStore
	case viewStore:
		m.view = viewStores
		m.nav.setPath("/manage")
		return m, loadStoresCmd(m.state)
	}
	return m, nil
}

func (m *appModel) applyNavigation(msg navigateMsg) (tea.Model, tea.Cmd) {
	switch msg.target {
	case navLogin:
		m.view = viewLogin
		m.nav.setPath("/auth/login")
		return *m, nil
	case navLanding:
		m.view = viewStores
		m.nav.setPath("/manage")
		return *m, loadStoresCmd(m.state)
	case navStore:
		m.nav.setPath("/manage/" + msg.storeID)
		return *m, loadStoreCmd(m.client, msg.storeID)
	}
	return *m, nil
}

func (m *appModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewStores:
		m.storesList, cmd = m.storesList.Update(msg)
	case viewCategories:
		m.categoriesList, cmd = m.categoriesList.Update(msg)
	case viewItems:
		m.itemsList, cmd = m.itemsList.Update(msg)
	}
	return *m, cmd
}

func (m *appModel) setError(s string) {
	m.statusLine = s
	m.statusIsError = true
}

func (m *appModel) setInfo(s string) {
	m.statusLine = s
	m.statusIsError = false
}

// Run starts the interactive console against the given backend.
func Run(apiURL string) error {
	log := zap.NewNop()

	client := api.NewClient(apiURL, api.WithLogger(log))
	container := state.NewContainer()
	nav := &teaNavigator{}
	mgr := session.NewManager(client, container, session.CredentialFile{}, state.Persistor{},
		session.WithNavigator(nav), session.WithLogger(log))

	wsURL, err := realtime.URLFromAPI(apiURL)
	if err != nil {
		return err
	}
	rtOpts := []realtime.Option{realtime.WithLogger(log)}
	if deviceID, err := config.EnsureDeviceID(); err == nil {
		rtOpts = append(rtOpts, realtime.WithDeviceID(deviceID))
	}
	rt := realtime.NewClient(wsURL, rtOpts...)

	m := newAppModel(client, mgr, container, rt, nav, log)
	p := tea.NewProgram(m, tea.WithAltScreen())

	nav.send = p.Send
	rt.OnStoreStatus(func(ev realtime.StatusEvent) {
		p.Send(statusPushMsg{event: ev})
	})
	container.Subscribe(func() {
		p.Send(stateChangedMsg{})
	})

	// Best effort; the console works without pushes.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = rt.Connect(ctx)
	cancel()
	defer rt.Close()

	_, err = p.Run()
	return err
}

// rememberStore records the last managed store so the next launch can offer
// it. Best effort; a failed config write never disturbs the session.
func rememberStore(storeID string) {
	cfg, err := config.Load()
	if err != nil {
		return
	}
	if cfg.LastStoreID == storeID {
		return
	}
	cfg.LastStoreID = storeID
	_ = config.Save(cfg)
}

// menuPreviewCmd renders the storefront view for the loaded store.
func menuPreviewCmd(client *api.Client, container *state.Container, width int) tea.Cmd {
	return func() tea.Msg {
		st := container.Store()
		if st == nil {
			return errMsg{scope: "cardápio", err: errNoStore}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		cats, err := client.Categories(ctx, st.ID)
		if err != nil {
			return errMsg{scope: "cardápio", err: err}
		}
		for i := range cats {
			items, err := client.ItemsByCategory(ctx, cats[i].ID)
			if err != nil {
				return errMsg{scope: "cardápio", err: err}
			}
			cats[i].Items = items
		}
		md := menu.Markdown(*st, cats)
		style := "auto"
		if cfg, err := config.Load(); err == nil && cfg.TUI != nil && cfg.TUI.Style != "" {
			style = cfg.TUI.Style
		}
		rendered, err := menu.Render(md, style, width)
		if err != nil {
			return errMsg{scope: "cardápio", err: err}
		}
		return menuRenderedMsg{rendered: rendered}
	}
}
