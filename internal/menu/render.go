// Package menu renders a store's categorized menu as markdown for the
// terminal (the storefront view).
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"menucli/internal/model"
)

// Filter keeps only items whose name or description contains query
// (case-insensitive); categories left with no items are dropped. An empty
// query returns the input unchanged.
func Filter(cats []model.Category, query string) []model.Category {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return cats
	}
	var out []model.Category
	for _, cat := range cats {
		var items []model.Item
		for _, it := range cat.Items {
			desc := ""
			if it.Description != nil {
				desc = *it.Description
			}
			if strings.Contains(strings.ToLower(it.Name), query) ||
				strings.Contains(strings.ToLower(desc), query) {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			continue
		}
		kept := cat
		kept.Items = items
		out = append(out, kept)
	}
	return out
}

// Markdown builds the storefront document: store header with status, one
// section per category, and a trailing photo gallery index (the terminal
// stand-in for the lightbox).
func Markdown(store model.Store, cats []model.Category) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", store.Name)
	fmt.Fprintf(&sb, "**%s**", StatusLabel(store.Status))
	if store.Address != nil && strings.TrimSpace(*store.Address) != "" {
		fmt.Fprintf(&sb, " · %s", *store.Address)
	}
	sb.WriteString("\n\n")

	var gallery []string
	for _, cat := range cats {
		fmt.Fprintf(&sb, "## %s\n\n", cat.Name)
		if cat.Description != nil && strings.TrimSpace(*cat.Description) != "" {
			fmt.Fprintf(&sb, "%s\n\n", *cat.Description)
		}
		for _, it := range cat.Items {
			fmt.Fprintf(&sb, "- **%s** — %s", it.Name, FormatBRL(it.Price))
			if it.Description != nil && strings.TrimSpace(*it.Description) != "" {
				fmt.Fprintf(&sb, "\n  %s", *it.Description)
			}
			sb.WriteString("\n")
			if it.PhotoURL != nil && strings.TrimSpace(*it.PhotoURL) != "" {
				gallery = append(gallery, fmt.Sprintf("%d. %s — %s", len(gallery)+1, it.Name, *it.PhotoURL))
			}
		}
		sb.WriteString("\n")
	}

	if len(gallery) > 0 {
		sb.WriteString("## Fotos\n\n")
		for _, line := range gallery {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// StatusLabel is the human label shown for a store status.
func StatusLabel(s model.StoreStatus) string {
	switch s {
	case model.StoreStatusOpen:
		return "Aberto"
	case model.StoreStatusClosed:
		return "Fechado"
	case model.StoreStatusMaintenance:
		return "Em Manutenção"
	}
	return string(s)
}

// FormatBRL renders a price as Brazilian currency ("R$ 1.234,50").
func FormatBRL(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	cents := int64(v*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(d)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped.String(), frac)
}

// Render runs the markdown through glamour. Style "auto" (or empty) picks
// dark/light from the terminal background.
func Render(markdown, style string, width int) (string, error) {
	if style == "" || style == "auto" {
		if termenv.HasDarkBackground() {
			style = "dark"
		} else {
			style = "light"
		}
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
