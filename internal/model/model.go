package model

import "time"

type StoreStatus string

const (
	StoreStatusOpen        StoreStatus = "open"
	StoreStatusClosed      StoreStatus = "closed"
	StoreStatusMaintenance StoreStatus = "maintenance"
)

// Valid reports whether s is one of the known store statuses.
func (s StoreStatus) Valid() bool {
	switch s {
	case StoreStatusOpen, StoreStatusClosed, StoreStatusMaintenance:
		return true
	}
	return false
}

// StoreSummary is the store shape embedded in User (the operator's store
// list). The full Store is fetched separately via /stores/:id.
type StoreSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	IsDefault bool   `json:"isDefault"`
}

type User struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Stores    []StoreSummary `json:"stores,omitempty"`
}

type Store struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Status       StoreStatus `json:"status"`
	Address      *string     `json:"address"`
	InstagramURL *string     `json:"instagramUrl"`
	IfoodURL     *string     `json:"ifoodUrl"`
	BannerURL    *string     `json:"bannerUrl"`
	PhotoURL     *string     `json:"photoUrl"`
	Slug         string      `json:"slug"`
	IsDefault    bool        `json:"isDefault"`
	Views        int         `json:"views"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	Categories   []Category  `json:"categories,omitempty"`
	Addons       []Addon     `json:"addons,omitempty"`
}

type Category struct {
	ID          int64     `json:"id"`
	StoreID     string    `json:"storeId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Items       []Item    `json:"items,omitempty"`
}

type Item struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"categoryId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	PhotoURL    *string   `json:"photoUrl"`
	Views       int       `json:"views"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Addons      []Addon   `json:"addons,omitempty"`
}

type Addon struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderAck is one entry of the server's authoritative answer to an
// update-order call. The server recomputes sibling order values and returns
// only the rows it touched.
type OrderAck struct {
	ID        int64     `json:"id"`
	Order     int       `json:"order"`
	UpdatedAt time.Time `json:"updatedAt"`
}
