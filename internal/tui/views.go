package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"menucli/internal/menu"
	"menucli/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	boxStyle   = lipgloss.NewStyle().Padding(1, 2)
)

func (m *appModel) resizeLists() {
	w := m.width - 2
	h := m.height - 4
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.storesList.SetSize(w, h)
	m.categoriesList.SetSize(w, h)
	m.itemsList.SetSize(w, h)
}

func (m *appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return *m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.login.cycleFocus()
		return *m, nil
	case "enter":
		if m.login.busy {
			return *m, nil
		}
		email, password := m.login.values()
		if email == "" || password == "" {
			m.login.errText = "Informe e-mail e senha."
			return *m, nil
		}
		m.login.busy = true
		m.login.errText = ""
		return *m, loginCmd(m.mgr, email, password)
	}
	cmd := m.login.update(msg)
	return *m, cmd
}

func (m *appModel) updateStores(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		if it, ok := m.storesList.SelectedItem().(storeItem); ok {
			return *m, loadStoreCmd(m.client, it.store.ID)
		}
		return *m, nil
	}
	var cmd tea.Cmd
	m.storesList, cmd = m.storesList.Update(msg)
	return *m, cmd
}

func (m *appModel) updateStore(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		return *m, loadCategoriesCmd(m.client, m.selectedStoreID)
	case "m":
		return *m, menuPreviewCmd(m.client, m.state, m.width-4)
	case "o":
		return *m, updateStatusCmd(m.client, m.selectedStoreID, model.StoreStatusOpen)
	case "f":
		return *m, updateStatusCmd(m.client, m.selectedStoreID, model.StoreStatusClosed)
	case "s":
		return *m, updateStatusCmd(m.client, m.selectedStoreID, model.StoreStatusMaintenance)
	case "ctrl+l":
		return *m, logoutCmd(m.mgr)
	}
	return *m, nil
}

func (m *appModel) updateCategories(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sync := m.catSync
	if sync == nil {
		return *m, nil
	}
	switch msg.String() {
	case " ":
		if it, ok := m.categoriesList.SelectedItem().(categoryItem); ok {
			sync.Lift(it.category.ID)
			m.categoriesList.SetItems(categoryListItems(sync.List(), it.category.ID, true))
		}
		return *m, nil
	case "enter":
		it, ok := m.categoriesList.SelectedItem().(categoryItem)
		if !ok {
			return *m, nil
		}
		if _, grabbed := sync.Lifted(); grabbed {
			overID := it.category.ID
			return *m, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
				defer cancel()
				err := sync.Drop(ctx, overID)
				return reorderDoneMsg{scope: "categorias", err: err}
			}
		}
		return *m, loadItemsCmd(m.client, it.category)
	}
	var cmd tea.Cmd
	m.categoriesList, cmd = m.categoriesList.Update(msg)
	return *m, cmd
}

func (m *appModel) updateItems(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sync := m.itemSync
	if sync == nil {
		return *m, nil
	}
	switch msg.String() {
	case " ":
		if it, ok := m.itemsList.SelectedItem().(menuItem); ok {
			sync.Lift(it.item.ID)
			m.itemsList.SetItems(itemListItems(sync.List(), it.item.ID, true))
		}
		return *m, nil
	case "enter":
		it, ok := m.itemsList.SelectedItem().(menuItem)
		if !ok {
			return *m, nil
		}
		if _, grabbed := sync.Lifted(); grabbed {
			overID := it.item.ID
			return *m, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
				defer cancel()
				err := sync.Drop(ctx, overID)
				return reorderDoneMsg{scope: "itens", err: err}
			}
		}
		return *m, nil
	}
	var cmd tea.Cmd
	m.itemsList, cmd = m.itemsList.Update(msg)
	return *m, cmd
}

// applyReorderResult re-renders the active scope from the synchronizer. A
// failed commit keeps the local order on screen and only surfaces the error.
func (m *appModel) applyReorderResult(msg reorderDoneMsg) (tea.Model, tea.Cmd) {
	switch msg.scope {
	case "categorias":
		if m.catSync != nil {
			ordered := m.catSync.List()
			m.state.SetCategories(ordered)
			m.categoriesList.SetItems(categoryListItems(ordered, 0, false))
		}
	case "itens":
		if m.itemSync != nil {
			ordered := m.itemSync.List()
			m.state.SetItems(ordered)
			m.itemsList.SetItems(itemListItems(ordered, 0, false))
		}
	}
	if msg.err != nil {
		m.setError(msg.scope + ": ordem salva localmente, falha ao sincronizar: " + msg.err.Error())
	} else {
		m.setInfo(msg.scope + ": ordem atualizada")
	}
	return *m, nil
}

func (m appModel) View() string {
	var body string
	switch m.view {
	case viewLogin:
		body = m.loginView()
	case viewStores:
		body = m.storesList.View()
	case viewStore:
		body = m.storeView()
	case viewCategories:
		body = m.categoriesList.View()
	case viewItems:
		body = m.itemsView()
	case viewMenu:
		body = m.menuRendered + helpStyle.Render("esc volta · q sai")
	}
	return boxStyle.Render(body) + "\n" + m.statusView()
}

func (m appModel) loginView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("menucli"))
	sb.WriteString("\n\n")
	sb.WriteString(m.login.email.View())
	sb.WriteString("\n")
	sb.WriteString(m.login.password.View())
	sb.WriteString("\n")
	if m.login.errText != "" {
		sb.WriteString("\n" + errStyle.Render(m.login.errText))
	}
	if m.login.busy {
		sb.WriteString("\n" + labelStyle.Render("entrando..."))
	}
	sb.WriteString(helpStyle.Render("\ntab alterna campo · enter entra · ctrl+c sai"))
	return sb.String()
}

func (m appModel) storeView() string {
	st := m.state.Store()
	if st == nil {
		return labelStyle.Render("carregando loja...")
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(st.Name))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("status: ") + menu.StatusLabel(st.Status))
	if st.Address != nil {
		sb.WriteString("\n" + labelStyle.Render("endereço: ") + *st.Address)
	}
	sb.WriteString(helpStyle.Render("\nc categorias · m cardápio · o abre · f fecha · s manutenção · ctrl+l sai da conta · esc volta"))
	return sb.String()
}

func (m appModel) itemsView() string {
	header := ""
	if m.selectedCategory != nil {
		header = titleStyle.Render(m.selectedCategory.Name) + "\n"
	}
	return header + m.itemsList.View()
}

func (m appModel) statusView() string {
	if m.statusLine == "" {
		return ""
	}
	if m.statusIsError {
		return errStyle.Render(m.statusLine)
	}
	return infoStyle.Render(m.statusLine)
}
