package module

import (
	"fmt"

	phttp "wikipub/internal/platform/net/http"
)

// Set holds uniquely named modules in mount order
type Set struct {
	order []Module
}

// NewSet panics on a nil module or a repeated name; both are wiring bugs
func NewSet(mods ...Module) *Set {
	s := &Set{}
	seen := make(map[string]struct{}, len(mods))
	for i, m := range mods {
		if m == nil {
			panic(fmt.Sprintf("module: nil module at position %d", i))
		}
		name := m.Name()
		if _, dup := seen[name]; dup {
			panic("module: duplicate module name " + name)
		}
		seen[name] = struct{}{}
		s.order = append(s.order, m)
	}
	return s
}

// Mount mounts every module on r in the order given to NewSet
func (s *Set) Mount(r phttp.Router) {
	for _, m := range s.order {
		m.MountRoutes(r)
	}
}

// Names lists module names in mount order
func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	for i, m := range s.order {
		out[i] = m.Name()
	}
	return out
}
