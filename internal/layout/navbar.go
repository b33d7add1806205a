package layout

import "git.home.luguber.info/inful/sitebuilder/internal/config"

// NavItem is one link of the navigation bar.
type NavItem struct {
	Caption string
	Slug    string
	Href    string // Relative to the site root
	Active  bool
}

// Navbar is the ordered navigation table, built once per build.
type Navbar struct {
	items []NavItem
}

// BuildNavbar builds the navigation bar from the configured table, keeping its order.
func BuildNavbar(items []config.NavItem) Navbar {
	nav := Navbar{items: make([]NavItem, 0, len(items))}
	for _, it := range items {
		nav.items = append(nav.items, NavItem{
			Caption: it.Caption,
			Slug:    it.Slug,
			Href:    it.Slug + ".html",
		})
	}
	return nav
}

// Len returns the number of navigation items.
func (n Navbar) Len() int { return len(n.items) }

// Items returns a copy of the navigation items with the item matching active
// marked. An item matches when its slug equals active; failing that, when its
// caption does. At most one item is marked, and an unmatched active marks none.
func (n Navbar) Items(active string) []NavItem {
	out := make([]NavItem, len(n.items))
	copy(out, n.items)

	if i := n.activeIndex(active); i >= 0 {
		out[i].Active = true
	}
	return out
}

func (n Navbar) activeIndex(active string) int {
	if active == "" {
		return -1
	}
	for i, it := range n.items {
		if it.Slug == active {
			return i
		}
	}
	for i, it := range n.items {
		if it.Caption == active {
			return i
		}
	}
	return -1
}
