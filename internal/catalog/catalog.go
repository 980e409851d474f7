// Package catalog keeps the list of programs the operator can pick from.
package catalog

import (
	"sync"

	"smoking_chamber/internal/models"
)

// Loader supplies user-defined programs. It may return an empty slice and
// reports failures by returning nothing.
type Loader interface {
	LoadPrograms() []models.SmokingProgram
}

// LoaderFunc adapts a plain function to Loader.
type LoaderFunc func() []models.SmokingProgram

func (f LoaderFunc) LoadPrograms() []models.SmokingProgram { return f() }

// Catalog is the built-in programs followed by the loaded ones. Every entry
// is a private copy, so nothing outside can change a program after refresh.
type Catalog struct {
	mu       sync.RWMutex
	loader   Loader
	programs []models.SmokingProgram
}

// New returns an empty catalog; call Refresh to fill it.
func New(loader Loader) *Catalog {
	return &Catalog{loader: loader}
}

// Refresh rebuilds the catalog from scratch.
func (c *Catalog) Refresh() {
	programs := BuiltIns()
	if c.loader != nil {
		for _, p := range c.loader.LoadPrograms() {
			p = p.Clone()
			p.IsBuiltIn = false
			programs = append(programs, p)
		}
	}

	c.mu.Lock()
	c.programs = programs
	c.mu.Unlock()
}

// Len returns the number of programs.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}

// At returns a copy of the program at index i.
func (c *Catalog) At(i int) (models.SmokingProgram, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.programs) {
		return models.SmokingProgram{}, false
	}
	return c.programs[i].Clone(), true
}

// Names returns the program names in catalog order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.programs))
	for i, p := range c.programs {
		out[i] = p.Name
	}
	return out
}
