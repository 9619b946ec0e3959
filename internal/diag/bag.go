package diag

// Bag keeps the diagnostics of one compilation, up to a limit.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

// NewBag returns a bag holding at most max diagnostics; max <= 0 means no
// limit.
func NewBag(max int) *Bag {
	return &Bag{max: max}
}

// Add records d. It returns false when the bag is full; the diagnostic is
// still counted as dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any recorded diagnostic is an error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Len returns the number of stored diagnostics.
func (b *Bag) Len() int {
	return len(b.items)
}

// Dropped returns how many diagnostics did not fit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// Items returns the stored diagnostics. Do not modify the returned slice.
func (b *Bag) Items() []Diagnostic {
	return b.items
}
