package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"menucli/internal/menu"
	"menucli/internal/model"
)

const grabbedMarker = "◆ "

type storeItem struct {
	store model.StoreSummary
}

func (s storeItem) Title() string { return s.store.Name }

func (s storeItem) Description() string {
	if s.store.IsDefault {
		return s.store.Slug + " (padrão)"
	}
	return s.store.Slug
}

func (s storeItem) FilterValue() string { return s.store.Name }

type categoryItem struct {
	category model.Category
	grabbed  bool
}

func (c categoryItem) Title() string {
	if c.grabbed {
		return grabbedMarker + c.category.Name
	}
	return c.category.Name
}

func (c categoryItem) Description() string {
	return fmt.Sprintf("%d itens", len(c.category.Items))
}

func (c categoryItem) FilterValue() string { return c.category.Name }

type menuItem struct {
	item    model.Item
	grabbed bool
}

func (i menuItem) Title() string {
	if i.grabbed {
		return grabbedMarker + i.item.Name
	}
	return i.item.Name
}

func (i menuItem) Description() string {
	return menu.FormatBRL(i.item.Price)
}

func (i menuItem) FilterValue() string { return i.item.Name }

func newList(title, hint string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	if hint != "" {
		l.Title = title + " · " + hint
	}
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	return l
}

func storeListItems(stores []model.StoreSummary) []list.Item {
	items := make([]list.Item, len(stores))
	for i, s := range stores {
		items[i] = storeItem{store: s}
	}
	return items
}

func categoryListItems(cats []model.Category, grabbedID int64, grabbed bool) []list.Item {
	items := make([]list.Item, len(cats))
	for i, c := range cats {
		items[i] = categoryItem{category: c, grabbed: grabbed && c.ID == grabbedID}
	}
	return items
}

func itemListItems(menuItems []model.Item, grabbedID int64, grabbed bool) []list.Item {
	items := make([]list.Item, len(menuItems))
	for i, it := range menuItems {
		items[i] = menuItem{item: it, grabbed: grabbed && it.ID == grabbedID}
	}
	return items
}
