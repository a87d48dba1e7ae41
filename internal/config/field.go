package config

import (
	"fmt"
	"math/rand/v2"
	"net"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Provenance records how a field value was obtained. A deliberate zero is
// distinguishable from "not configured" and from "randomize this", so zero
// never doubles as a randomization sentinel.
type Provenance uint8

const (
	// FromDefault means the field was absent; the consumer supplies its default.
	FromDefault Provenance = iota
	// FromLiteral means the user supplied an explicit value, written verbatim.
	FromLiteral
	// FromRandom means the user asked for a fresh random value per composition.
	FromRandom
)

// randomKeyword is the configuration value requesting per-packet randomization.
const randomKeyword = "random"

type unsigned interface {
	~uint8 | ~uint16 | ~uint32
}

// Field is an unsigned header field with provenance. The zero Field is
// FromDefault, so absent configuration keys need no special handling.
type Field[T unsigned] struct {
	value T
	prov  Provenance
}

// Lit returns a field holding an explicit literal value.
func Lit[T unsigned](v T) Field[T] {
	return Field[T]{value: v, prov: FromLiteral}
}

// Rand returns a field requesting per-composition randomization.
func Rand[T unsigned]() Field[T] {
	return Field[T]{prov: FromRandom}
}

// Provenance reports how the field was populated.
func (f Field[T]) Provenance() Provenance {
	return f.prov
}

// Set reports whether the field was configured at all, literally or randomly.
func (f Field[T]) Set() bool {
	return f.prov != FromDefault
}

// Resolve returns the wire value for this composition: the literal verbatim,
// a uniform draw over the field's full range for FromRandom, or def.
// Random draws come from rng so a seeded engine stays reproducible in tests.
func (f Field[T]) Resolve(def T, rng *rand.Rand) T {
	switch f.prov {
	case FromLiteral:
		return f.value
	case FromRandom:
		return T(rng.Uint64())
	default:
		return def
	}
}

// MarshalYAML renders the field the way the loader accepts it: the literal
// value, the "random" keyword, or nothing at all.
func (f Field[T]) MarshalYAML() (interface{}, error) {
	switch f.prov {
	case FromLiteral:
		return uint64(f.value), nil
	case FromRandom:
		return randomKeyword, nil
	default:
		return nil, nil
	}
}

// Shorthand aliases used throughout the protocol sub-records.
type (
	U8  = Field[uint8]
	U16 = Field[uint16]
	U32 = Field[uint32]
)

// Addr is an IPv4 address field with the same three provenance states as
// Field: empty string = default, "random" = randomize per composition,
// anything else must parse as a dotted quad.
type Addr string

// Resolve returns the four address bytes for this composition.
func (a Addr) Resolve(def [4]byte, rng *rand.Rand) ([4]byte, error) {
	switch a {
	case "":
		return def, nil
	case randomKeyword:
		var out [4]byte
		v := rng.Uint32()
		out[0] = byte(v >> 24)
		out[1] = byte(v >> 16)
		out[2] = byte(v >> 8)
		out[3] = byte(v)
		return out, nil
	default:
		ip := net.ParseIP(string(a))
		if ip = ip.To4(); ip == nil {
			return [4]byte{}, fmt.Errorf("not an IPv4 address: %q", a)
		}
		var out [4]byte
		copy(out[:], ip)
		return out, nil
	}
}

// Set reports whether the address was configured.
func (a Addr) Set() bool {
	return a != ""
}

// Valid reports whether the address can resolve: empty, the "random"
// keyword, or a parseable dotted quad.
func (a Addr) Valid() error {
	if !a.Set() || a == randomKeyword {
		return nil
	}
	ip := net.ParseIP(string(a))
	if ip.To4() == nil {
		return fmt.Errorf("not an IPv4 address: %q", a)
	}
	return nil
}

// FieldDecodeHook converts raw configuration values into Field provenance:
// integers (including hex strings) become literals, the "random" keyword
// becomes a randomization request. Wired into viper's Unmarshal.
func FieldDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		switch to {
		case reflect.TypeOf(U8{}):
			v, prov, err := parseFieldValue(data, 8)
			if err != nil {
				return nil, err
			}
			return Field[uint8]{value: uint8(v), prov: prov}, nil
		case reflect.TypeOf(U16{}):
			v, prov, err := parseFieldValue(data, 16)
			if err != nil {
				return nil, err
			}
			return Field[uint16]{value: uint16(v), prov: prov}, nil
		case reflect.TypeOf(U32{}):
			v, prov, err := parseFieldValue(data, 32)
			if err != nil {
				return nil, err
			}
			return Field[uint32]{value: uint32(v), prov: prov}, nil
		}
		return data, nil
	}
}

// parseFieldValue interprets a raw YAML scalar as a field value of the
// given bit width.
func parseFieldValue(data interface{}, bits int) (uint64, Provenance, error) {
	var raw uint64
	switch v := data.(type) {
	case string:
		s := strings.TrimSpace(v)
		if strings.EqualFold(s, randomKeyword) {
			return 0, FromRandom, nil
		}
		parsed, err := strconv.ParseUint(s, 0, bits)
		if err != nil {
			return 0, FromDefault, fmt.Errorf("invalid field value %q: %w", v, err)
		}
		raw = parsed
	case int:
		if v < 0 {
			return 0, FromDefault, fmt.Errorf("field value must not be negative: %d", v)
		}
		raw = uint64(v)
	case int64:
		if v < 0 {
			return 0, FromDefault, fmt.Errorf("field value must not be negative: %d", v)
		}
		raw = uint64(v)
	case uint64:
		raw = v
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return 0, FromDefault, fmt.Errorf("field value must be a non-negative integer: %v", v)
		}
		raw = uint64(v)
	default:
		return 0, FromDefault, fmt.Errorf("unsupported field value type %T", data)
	}
	if bits < 64 && raw >= uint64(1)<<bits {
		return 0, FromDefault, fmt.Errorf("field value %d exceeds %d bits", raw, bits)
	}
	return raw, FromLiteral, nil
}
