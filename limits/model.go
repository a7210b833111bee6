package limits

// Model represents the effective card limits for a tenant
type Model struct {
	maxUses uint64
	maxOwns uint64
}

// MaxUses returns the inclusive upper bound on a card's accumulated use count
func (m Model) MaxUses() uint64 {
	return m.maxUses
}

// MaxOwns returns the declared upper bound on cards held per character
func (m Model) MaxOwns() uint64 {
	return m.maxOwns
}

// NewModel creates a limits model from explicit values
func NewModel(maxUses uint64, maxOwns uint64) Model {
	return Model{maxUses: maxUses, maxOwns: maxOwns}
}
