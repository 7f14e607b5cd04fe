// Package environment holds the frozen, fully-elaborated program that the
// mmb exporter walks. Nothing in this package writes bytes; it only exposes
// read-only access to sorts, terms, theorems and their proofs in source
// order.
package environment

// AtomID is an interned name identifier, unique per environment.
type AtomID uint32

// SortID indexes into Environment.Sorts.
type SortID uint8

// TermID indexes into Environment.Terms.
type TermID uint32

// ThmID indexes into Environment.Thms.
type ThmID uint32

// Modifiers is a bitmask of sort/declaration modifiers (pure, strict,
// provable, free for sorts; local/public visibility for declarations).
type Modifiers uint8

const (
	ModPure     Modifiers = 1 << 0
	ModStrict   Modifiers = 1 << 1
	ModProvable Modifiers = 1 << 2
	ModFree     Modifiers = 1 << 3
	ModLocal    Modifiers = 1 << 4
	ModPub      Modifiers = 1 << 5
)

// Bits returns the modifier byte as stored in the sort modifier table.
func (m Modifiers) Bits() uint8 { return uint8(m) }
