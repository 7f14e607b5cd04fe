package environment

// Sort is a declared sort together with its modifier mask.
type Sort struct {
	Atom AtomID
	Span Span
	Mods Modifiers
}

// TermKind distinguishes an abstract term constructor from one with a
// definition.
type TermKind int

const (
	// KindTerm is an abstract (undefined) term constructor.
	KindTerm TermKind = iota
	// KindDef is a definition; Value is nil only while the declaration is
	// still being elaborated; by the time it reaches the exporter it must
	// be present.
	KindDef
)

// Term is a term or definition declaration.
type Term struct {
	Atom    AtomID
	Span    Span
	Args    []Binder
	Ret     Type
	Vis     Modifiers
	Kind    TermKind
	Value   *Expr // set when Kind == KindDef
	Missing bool  // true if Kind == KindDef but Value was never elaborated
}

// ThmKind distinguishes an axiom from a proved theorem.
type ThmKind int

const (
	// KindAxiom is an assumed statement with no proof.
	KindAxiom ThmKind = iota
	// KindThm is a theorem with a proof. Proof is nil only while the
	// declaration is still being elaborated.
	KindThm
)

// Hyp is one named hypothesis of a theorem.
type Hyp struct {
	Name AtomID
	Expr ExprNode
}

// Thm is a theorem or axiom declaration.
type Thm struct {
	Atom    AtomID
	Span    Span
	Args    []Binder
	Hyps    []Hyp
	Ret     ExprNode
	Heap    []ExprNode
	Vis     Modifiers
	Kind    ThmKind
	Proof   *Proof // set when Kind == KindThm
	Missing bool   // true if Kind == KindThm but Proof was never elaborated
}

// TraceKind distinguishes the declaration-trace entry kinds. Only Sort and
// Decl produce exporter output; Global and OutputString are recorded for
// fidelity with the source order but are skipped.
type TraceKind int

const (
	TraceSort TraceKind = iota
	TraceDecl
	TraceGlobal
	TraceOutputString
)

// TraceEntry is one entry of the declaration trace, in source order.
type TraceEntry struct {
	Kind TraceKind
	Atom AtomID // valid for TraceSort and TraceDecl
}

// DeclKey identifies whether an atom names a term or a theorem.
type DeclKey struct {
	IsTerm bool
	Term   TermID
	Thm    ThmID
}

// AtomData is the per-atom metadata: its name, and what it denotes.
type AtomData struct {
	Name string
	Sort *SortID
	Decl *DeclKey
}
