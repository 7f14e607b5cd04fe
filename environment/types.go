package environment

// TypeKind distinguishes a freshly-bound variable from a regular one.
type TypeKind uint8

const (
	// TypeBound introduces a new bound variable of the given sort.
	TypeBound TypeKind = iota
	// TypeReg is a regular variable whose Deps bitmask records which
	// preceding bound variables it may depend on.
	TypeReg
)

// Type is the type of a single binder argument. For TypeBound, Deps is
// unused: the actual dependency bit is assigned positionally by the binder
// writer (see mmb.WriteBinders). For TypeReg, Deps is a 55-bit mask over
// preceding bound variables and is taken verbatim.
type Type struct {
	Kind TypeKind
	Sort SortID
	Deps uint64
}

// Bound constructs a Type::Bound(sort).
func Bound(s SortID) Type { return Type{Kind: TypeBound, Sort: s} }

// Reg constructs a Type::Reg(sort, deps).
func Reg(s SortID, deps uint64) Type { return Type{Kind: TypeReg, Sort: s, Deps: deps} }

// Binder is one (name, Type) pair in an argument list.
type Binder struct {
	Name AtomID
	Ty   Type
}
