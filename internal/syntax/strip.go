package syntax

import "kiln/internal/crateconfig"

// ConfigStripper removes items whose cfg attributes are not all active.
type ConfigStripper struct{}

// Strip returns a crate holding only the active items. crate is left
// untouched.
func (ConfigStripper) Strip(crate *Crate, cfg crateconfig.Set) *Crate {
	out := *crate
	out.Items = make([]*Item, 0, len(crate.Items))
	for _, it := range crate.Items {
		if itemActive(it, cfg) {
			out.Items = append(out.Items, it)
		}
	}
	return &out
}

func itemActive(it *Item, cfg crateconfig.Set) bool {
	for _, a := range it.Attrs {
		if !cfg.Active(a.Pred) {
			return false
		}
	}
	return true
}
