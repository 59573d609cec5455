package model

// Categories and items share one reordering implementation; these accessors
// satisfy orderedlist.Orderable.

func (c Category) OrderID() int64  { return c.ID }
func (c Category) OrderIndex() int { return c.Order }

func (i Item) OrderID() int64  { return i.ID }
func (i Item) OrderIndex() int { return i.Order }
