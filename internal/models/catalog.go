package models

// Catalog holds the discovered notes keyed by slug, in discovery order.
// A later note with an existing slug replaces the earlier one in place.
type Catalog struct {
	order []string
	notes map[string]*Note
}

// NewCatalog returns a catalog populated with notes.
func NewCatalog(notes ...*Note) *Catalog {
	c := &Catalog{notes: make(map[string]*Note, len(notes))}
	for _, n := range notes {
		c.Add(n)
	}
	return c
}

// Add inserts or replaces the note under its slug.
func (c *Catalog) Add(n *Note) {
	if _, ok := c.notes[n.Slug()]; !ok {
		c.order = append(c.order, n.Slug())
	}
	c.notes[n.Slug()] = n
}

// Get returns the note with the given slug.
func (c *Catalog) Get(slug string) (*Note, bool) {
	n, ok := c.notes[slug]
	return n, ok
}

// Notes returns all notes in discovery order.
func (c *Catalog) Notes() []*Note {
	out := make([]*Note, 0, len(c.order))
	for _, s := range c.order {
		out = append(out, c.notes[s])
	}
	return out
}

// Len returns the number of notes.
func (c *Catalog) Len() int { return len(c.order) }
