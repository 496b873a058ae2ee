package cluster

import (
	"fmt"
	"hash/fnv"

	"github.com/spaolacci/murmur3"
)

// PageHasher maps a page identifier to the 32-bit digest used for node
// placement. Implementations must be deterministic: the same identifier
// produces the same digest on every call and across process restarts,
// so routing decisions are reproducible.
type PageHasher interface {
	// Sum32 returns the placement digest for the given page identifier.
	Sum32(id string) uint32

	// Name returns the name this hasher is selected by in configuration.
	Name() string
}

// Murmur3Hasher places pages using the 32-bit MurmurHash3 sum. It is
// the default placement hash.
type Murmur3Hasher struct{}

// Sum32 returns the 32-bit MurmurHash3 digest of id.
func (Murmur3Hasher) Sum32(id string) uint32 {
	return murmur3.Sum32([]byte(id))
}

// Name returns "murmur3".
func (Murmur3Hasher) Name() string { return "murmur3" }

// FNVHasher places pages using the 32-bit FNV-1a sum. Switching an
// existing deployment between hashers changes every page's placement,
// so the hasher must be chosen before any pages are allocated.
type FNVHasher struct{}

// Sum32 returns the 32-bit FNV-1a digest of id.
func (FNVHasher) Sum32(id string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return h.Sum32()
}

// Name returns "fnv".
func (FNVHasher) Name() string { return "fnv" }

// HasherByName resolves a configured hash name to a PageHasher. The
// empty string selects the default MurmurHash3 hasher. Unknown names
// are an error rather than a silent fallback, since a misspelled hash
// name would otherwise change where every page lands.
func HasherByName(name string) (PageHasher, error) {
	switch name {
	case "", "murmur3":
		return Murmur3Hasher{}, nil
	case "fnv", "fnv1a":
		return FNVHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown page hash %q", name)
	}
}
