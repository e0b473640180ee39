package domain

// NamePair is one spelling substitution.
type NamePair struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// NameMap is an immutable, ordered substitution table. Later pairs with a
// duplicate From are ignored.
type NameMap struct {
	index map[string]string
}

// NewNameMap builds a NameMap from pairs.
func NewNameMap(pairs ...NamePair) NameMap {
	m := NameMap{index: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		if _, dup := m.index[p.From]; dup {
			continue
		}
		m.index[p.From] = p.To
	}
	return m
}

// Apply returns the canonical spelling of name, or name unchanged.
func (m NameMap) Apply(name string) string {
	if to, ok := m.index[name]; ok {
		return to
	}
	return name
}

// Contains reports whether name is in the map's domain.
func (m NameMap) Contains(name string) bool {
	_, ok := m.index[name]
	return ok
}
