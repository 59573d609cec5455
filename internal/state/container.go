// Package state holds the shared client state: the authenticated user and
// the currently displayed store/menu. All mutation goes through Container
// methods so the TUI, the CLI commands and the realtime listener never race
// on raw fields; readers get copies.
package state

import (
	"sync"

	"menucli/internal/model"
)

type Container struct {
	mu sync.RWMutex

	user       *model.User
	store      *model.Store
	categories []model.Category
	items      []model.Item

	subs []func()
}

func NewContainer() *Container {
	return &Container{}
}

// Subscribe registers fn to run after every state mutation. Used by the TUI
// to repaint; fn must not call back into the container.
func (c *Container) Subscribe(fn func()) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// notify runs the subscribers outside the state lock.
func (c *Container) notify() {
	c.mu.RLock()
	subs := make([]func(), len(c.subs))
	copy(subs, c.subs)
	c.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

func (c *Container) SetUser(u *model.User) {
	c.mu.Lock()
	c.user = cloneUser(u)
	c.mu.Unlock()
	c.notify()
}

func (c *Container) User() *model.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneUser(c.user)
}

func (c *Container) SetStore(s *model.Store) {
	c.mu.Lock()
	if s == nil {
		c.store = nil
	} else {
		cp := *s
		c.store = &cp
	}
	c.mu.Unlock()
	c.notify()
}

func (c *Container) Store() *model.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.store == nil {
		return nil
	}
	cp := *c.store
	return &cp
}

// SetStoreStatus applies a status change for storeID, whether it came from a
// local request or a realtime push. A push for a store other than the one
// currently displayed is ignored.
func (c *Container) SetStoreStatus(storeID string, status model.StoreStatus) bool {
	c.mu.Lock()
	if c.store == nil || c.store.ID != storeID {
		c.mu.Unlock()
		return false
	}
	c.store.Status = status
	c.mu.Unlock()
	c.notify()
	return true
}

func (c *Container) SetCategories(cats []model.Category) {
	c.mu.Lock()
	c.categories = append([]model.Category(nil), cats...)
	c.mu.Unlock()
	c.notify()
}

func (c *Container) Categories() []model.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Category(nil), c.categories...)
}

func (c *Container) SetItems(items []model.Item) {
	c.mu.Lock()
	c.items = append([]model.Item(nil), items...)
	c.mu.Unlock()
	c.notify()
}

func (c *Container) Items() []model.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Item(nil), c.items...)
}

// Reset clears everything (logout / session invalidation).
func (c *Container) Reset() {
	c.mu.Lock()
	c.user = nil
	c.store = nil
	c.categories = nil
	c.items = nil
	c.mu.Unlock()
	c.notify()
}

func cloneUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Stores = append([]model.StoreSummary(nil), u.Stores...)
	return &cp
}
