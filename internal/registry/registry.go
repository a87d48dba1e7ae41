// Package registry maps protocol identifiers to their composers.
//
// The registry is the single indirection point of the engine: supporting a
// new protocol means registering one Descriptor, nothing else changes.
// Registration happens in package init functions and the table is
// immutable afterwards; dispatch at packet-build time goes through Resolve,
// listings for display go through List.
package registry

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"firestige.xyz/kestrel/internal/config"
	"firestige.xyz/kestrel/internal/core"
)

// Network carries the resolved outer-header addresses into a composer, so
// fillers can build pseudo-header checksums against the addresses actually
// on the wire (which may have been drawn randomly).
type Network struct {
	SrcIP [4]byte
	DstIP [4]byte
}

// Composer builds one protocol's payload region.
//
// Size returns the payload length implied by cfg and validates every
// protocol precondition; it must be a pure function of cfg. Fill writes
// exactly that many bytes into payload, reading only cfg's own sub-record
// plus the globals, and computes whatever checksums the protocol mandates.
// Fill must not fail: anything that could go wrong is rejected by Size
// before a single byte is written.
type Composer interface {
	// Proto returns the IPv4 protocol number written to the outer header.
	Proto() uint8
	Size(cfg *config.Config) (int, error)
	Fill(payload []byte, cfg *config.Config, net Network, rng *rand.Rand)
}

// Descriptor ties a protocol identifier to its composer and the strings
// shown by listings.
type Descriptor struct {
	ID          string
	Name        string
	Description string
	Composer    Composer
}

// Registry is an identifier-to-composer table. The zero value is not
// usable; call New.
type Registry struct {
	mu    sync.RWMutex
	table map[string]Descriptor
	order []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{table: make(map[string]Descriptor)}
}

// Register adds a descriptor. Duplicate identifiers are an initialization
// bug, reported as core.ErrDuplicateProtocol.
func (r *Registry) Register(d Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.table[d.ID]; exists {
		return fmt.Errorf("%w: %s", core.ErrDuplicateProtocol, d.ID)
	}
	if d.Composer == nil {
		return fmt.Errorf("descriptor %q has no composer", d.ID)
	}
	r.table[d.ID] = d
	r.order = append(r.order, d.ID)
	return nil
}

// MustRegister is Register for init functions: a duplicate identifier is
// unrecoverable there, so it panics.
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Resolve returns the descriptor for id. An unregistered identifier is a
// caller error reported as core.ErrUnknownProtocol, never a fallback.
func (r *Registry) Resolve(id string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, exists := r.table[id]
	if !exists {
		return Descriptor{}, fmt.Errorf("%w: %s", core.ErrUnknownProtocol, id)
	}
	return d, nil
}

// List returns every descriptor in registration order. For display only;
// dispatch goes through Resolve.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.table[id])
	}
	return out
}

// Default is the process-wide registry the built-in protocol modules
// register into.
var Default = New()
