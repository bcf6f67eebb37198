package texture

import "fmt"

// Table maps each body to the texture it exclusively owns. Two bodies with the same seed
// still get distinct entries. Built once at scene initialization, then read-only.
type Table struct {
	byName map[string]*Texture
	order  []string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Texture)}
}

// Put binds tex to body name. A name can be bound only once.
func (t *Table) Put(name string, tex *Texture) error {
	if tex == nil {
		return fmt.Errorf("texture for %q is nil", name)
	}
	if _, ok := t.byName[name]; ok {
		return fmt.Errorf("texture for %q already bound", name)
	}
	for other, bound := range t.byName {
		if bound == tex {
			return fmt.Errorf("texture for %q is already owned by %q", name, other)
		}
	}
	t.byName[name] = tex
	t.order = append(t.order, name)
	return nil
}

// Get returns the texture bound to name.
func (t *Table) Get(name string) (*Texture, bool) {
	tex, ok := t.byName[name]
	return tex, ok
}

// Names returns bound body names in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of bound textures.
func (t *Table) Len() int { return len(t.byName) }
