package surface

import "github.com/pthm-cable/metaballs/field"

// AddSource registers a source with the grid. The grid keeps a reference
// but does not own the source. Adding a source twice has no effect.
func (g *Grid) AddSource(s field.Source) {
	for _, existing := range g.sources {
		if existing == s {
			return
		}
	}
	g.sources = append(g.sources, s)
}

// RemoveSource deregisters a source. It reports whether the source was
// registered. Registration order is not preserved.
func (g *Grid) RemoveSource(s field.Source) bool {
	for i, existing := range g.sources {
		if existing == s {
			last := len(g.sources) - 1
			g.sources[i] = g.sources[last]
			g.sources[last] = nil
			g.sources = g.sources[:last]
			return true
		}
	}
	return false
}

// Sources returns the registered sources. The slice must not be modified.
func (g *Grid) Sources() []field.Source { return g.sources }
