package reviewboard

import (
	"context"
	"sort"
	"strings"
)

// Catalog maps repository display names to their server-side ids.
// Lookups are case-insensitive; on duplicate names the last entry
// fetched wins the id while the first-seen display casing is kept.
type Catalog struct {
	ids   map[string]int    // keyed by lower-cased name
	names map[string]string // lower-cased name -> display casing
}

func newCatalog() *Catalog {
	return &Catalog{
		ids:   make(map[string]int),
		names: make(map[string]string),
	}
}

func (c *Catalog) put(name string, id int) {
	key := strings.ToLower(name)
	if _, seen := c.names[key]; !seen {
		c.names[key] = name
	}
	c.ids[key] = id
}

// Lookup resolves a repository name to its id, ignoring case.
func (c *Catalog) Lookup(name string) (int, bool) {
	id, ok := c.ids[strings.ToLower(name)]
	return id, ok
}

// Names returns the display names sorted case-insensitively.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.names))
	for _, name := range c.names {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// Len returns the number of distinct repository names.
func (c *Catalog) Len() int { return len(c.ids) }

// Repositories walks the paginated repository listing into a Catalog.
// Pagination follows the response's embedded next-page link and stops
// when it is absent. A first page with zero results yields an empty
// catalog.
func (c *Connection) Repositories(ctx context.Context) (*Catalog, error) {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return nil, err
	}

	catalog := newCatalog()
	next := c.repositoriesURL()
	for next != "" {
		var env listEnvelope
		if err := c.getXML(ctx, next, &env); err != nil {
			return nil, err
		}
		next = ""
		if env.Total > 0 {
			for _, it := range env.Repositories {
				catalog.put(it.Name, it.ID)
			}
			next = env.Links.Next.Href
		}
	}
	return catalog, nil
}
