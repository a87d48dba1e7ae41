// Package compose implements the packet composition engine: the outer
// IPv4 header plus delegation to per-protocol payload fillers resolved
// through the module registry.
//
// Composition is all-or-nothing. Every validation — identifier lookup,
// payload sizing, address resolution — happens before a single byte is
// written, so an error never leaves a half-built packet in the buffer.
package compose

import (
	"fmt"
	"math/rand/v2"

	"firestige.xyz/kestrel/internal/buffer"
	"firestige.xyz/kestrel/internal/config"
	"firestige.xyz/kestrel/internal/core"
	"firestige.xyz/kestrel/internal/registry"
)

// Engine composes packets into one reusable buffer.
//
// An Engine is single-threaded: composition may relocate the buffer's
// backing storage, so concurrent drivers need one Engine each. The
// configuration may be shared read-only between them.
type Engine struct {
	buf *buffer.Manager
	reg *registry.Registry
	rng *rand.Rand
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRegistry selects a registry other than the process default.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) { e.reg = r }
}

// WithSeed fixes the random source, making "random" fields reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, 0)) }
}

// New returns an Engine backed by a fresh buffer and the default registry.
func New(opts ...Option) *Engine {
	e := &Engine{
		buf: buffer.NewManager(),
		reg: registry.Default,
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compose builds one packet for the given protocol identifier and returns
// a view of it. The view aliases the engine's buffer and is valid only
// until the next Compose call; callers needing persistence must copy.
//
// Steps, uniform across protocols: resolve the composer, size the payload
// from cfg, reserve header+payload bytes, write the outer IPv4 header
// (whose Total Length depends on the payload size, hence sizing first),
// then let the filler write the payload region.
func (e *Engine) Compose(id string, cfg *config.Config) ([]byte, error) {
	desc, err := e.reg.Resolve(id)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", core.ErrInvalidConfig)
	}
	if !cfg.Net.DstIP.Set() {
		return nil, fmt.Errorf("%w: net.dst_ip is required", core.ErrInvalidConfig)
	}

	payloadLen, err := desc.Composer.Size(cfg)
	if err != nil {
		return nil, err
	}
	total := IPv4HeaderLen + payloadLen
	if total > MaxPacketLen {
		return nil, fmt.Errorf("%w: %s needs %d bytes", core.ErrPayloadTooLarge, id, total)
	}

	src, err := cfg.Net.SrcIP.Resolve([4]byte{}, e.rng)
	if err != nil {
		return nil, fmt.Errorf("%w: net.src_ip: %v", core.ErrInvalidConfig, err)
	}
	dst, err := cfg.Net.DstIP.Resolve([4]byte{}, e.rng)
	if err != nil {
		return nil, fmt.Errorf("%w: net.dst_ip: %v", core.ErrInvalidConfig, err)
	}

	b := e.buf.Ensure(total)
	writeIPv4(b[:IPv4HeaderLen], cfg, desc.Composer.Proto(), total, src, dst, e.rng)
	desc.Composer.Fill(b[IPv4HeaderLen:total], cfg, registry.Network{SrcIP: src, DstIP: dst}, e.rng)
	return b[:total], nil
}
