package registry

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/kestrel/internal/config"
	"firestige.xyz/kestrel/internal/core"
)

type nopComposer struct{ proto uint8 }

func (c nopComposer) Proto() uint8 { return c.proto }

func (nopComposer) Size(*config.Config) (int, error) { return 4, nil }

func (nopComposer) Fill([]byte, *config.Config, Network, *rand.Rand) {}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(Descriptor{
		ID:          "nop",
		Name:        "NOP",
		Description: "does nothing",
		Composer:    nopComposer{proto: 253},
	}))

	d, err := r.Resolve("nop")
	require.NoError(t, err)
	assert.Equal(t, "NOP", d.Name)
	assert.Equal(t, uint8(253), d.Composer.Proto())
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := New()
	_, err := r.Resolve("never-registered")
	assert.ErrorIs(t, err, core.ErrUnknownProtocol)
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	r := New()
	d := Descriptor{ID: "dup", Name: "Dup", Composer: nopComposer{}}
	require.NoError(t, r.Register(d))

	err := r.Register(d)
	assert.ErrorIs(t, err, core.ErrDuplicateProtocol)

	assert.Panics(t, func() { r.MustRegister(d) })
}

func TestRegistry_NilComposerRejected(t *testing.T) {
	r := New()
	assert.Error(t, r.Register(Descriptor{ID: "empty"}))
}

func TestRegistry_ListKeepsRegistrationOrder(t *testing.T) {
	r := New()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, r.Register(Descriptor{ID: id, Name: id, Composer: nopComposer{}}))
	}

	var ids []string
	for _, d := range r.List() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}
