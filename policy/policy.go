// Package policy implements the replacement-policy layer that decides which
// resident key to evict when the cache engine runs out of room. Three
// policies share one contract: LRU, LFU and FIFO.
package policy

// Policy is the common contract every replacement policy satisfies. The
// cache engine drives a Policy but never inspects its internal structure.
type Policy interface {
	// Get registers an access to k and reports whether it is resident.
	Get(k string) (ok bool)
	// Set records k as resident, updating an existing key in place or
	// inserting a new one. If the policy is already at capacity when a new
	// key is inserted, it first evicts one victim and returns its key.
	Set(k string) (victim string, evicted bool)
	// Delete removes k unconditionally and reports whether it was present.
	Delete(k string) bool
	// Has reports residency without registering an access.
	Has(k string) bool
	// Size reports the number of resident keys.
	Size() int
	// Clear drops all resident keys.
	Clear()
	// Keys returns a stable snapshot of resident keys.
	Keys() []string
	// Evict removes and returns the policy's chosen victim, independent of
	// capacity. Used by the engine when the memory bound, not the key-count
	// bound, forces a removal.
	Evict() (victim string, ok bool)
}

// New builds the Policy named by kind with the given capacity. Capacity 0
// means the policy accepts no keys: every Set is a no-op, every Get/Has
// reports absence.
func New(kind Kind, capacity int) Policy {
	switch kind {
	case LFU:
		return newLFU(capacity)
	case FIFO:
		return newFIFO(capacity)
	default:
		return newLRU(capacity)
	}
}

// Kind names a replacement policy.
type Kind string

// Supported replacement policies.
const (
	LRU  Kind = "LRU"
	LFU  Kind = "LFU"
	FIFO Kind = "FIFO"
)

// Valid reports whether k names a supported policy.
func (k Kind) Valid() bool {
	switch k {
	case LRU, LFU, FIFO:
		return true
	default:
		return false
	}
}
