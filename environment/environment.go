package environment

import "fmt"

// Environment is the frozen, fully-elaborated program the exporter walks.
// It is read-only: nothing in the mmb package ever mutates it. Build one
// with a Builder, then pass it to mmb.NewExporter.
type Environment struct {
	sorts []Sort
	terms []Term
	thms  []Thm
	trace []TraceEntry
	atoms []AtomData
}

// Sorts returns the declared sorts in source order.
func (e *Environment) Sorts() []Sort { return e.sorts }

// Terms returns the declared terms/definitions in source order.
func (e *Environment) Terms() []Term { return e.terms }

// Thms returns the declared axioms/theorems in source order.
func (e *Environment) Thms() []Thm { return e.thms }

// Trace returns the full declaration trace in source order.
func (e *Environment) Trace() []TraceEntry { return e.trace }

// Sort looks up a sort by id.
func (e *Environment) Sort(id SortID) *Sort { return &e.sorts[id] }

// Term looks up a term by id.
func (e *Environment) Term(id TermID) *Term { return &e.terms[id] }

// Thm looks up a theorem by id.
func (e *Environment) Thm(id ThmID) *Thm { return &e.thms[id] }

// Data returns the metadata for atom a.
func (e *Environment) Data(a AtomID) *AtomData { return &e.atoms[a] }

// Name returns the textual name of atom a.
func (e *Environment) Name(a AtomID) string { return e.atoms[a].Name }

// Builder incrementally constructs an Environment. It performs no
// elaboration of its own; it exists to give producers (parsers, tests,
// fixtures) a convenient, validated way to hand the exporter a consistent
// Environment.
type Builder struct {
	env Environment
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Intern registers a new atom name and returns its id. Names are not
// deduplicated: callers that need sharing must track ids themselves, as a
// real elaborator's atom table would.
func (b *Builder) Intern(name string) AtomID {
	id := AtomID(len(b.env.atoms))
	b.env.atoms = append(b.env.atoms, AtomData{Name: name})
	return id
}

// AddSort declares a new sort for the given atom and records it in the
// trace. It returns the assigned SortID.
func (b *Builder) AddSort(atom AtomID, span Span, mods Modifiers) SortID {
	id := SortID(len(b.env.sorts))
	b.env.sorts = append(b.env.sorts, Sort{Atom: atom, Span: span, Mods: mods})
	b.env.atoms[atom].Sort = sortIDPtr(id)
	b.env.trace = append(b.env.trace, TraceEntry{Kind: TraceSort, Atom: atom})
	return id
}

func sortIDPtr(id SortID) *SortID { return &id }

// AddTerm declares a new term/definition and records it in the trace.
func (b *Builder) AddTerm(t Term) TermID {
	id := TermID(len(b.env.terms))
	b.env.terms = append(b.env.terms, t)
	b.env.atoms[t.Atom].Decl = &DeclKey{IsTerm: true, Term: id}
	b.env.trace = append(b.env.trace, TraceEntry{Kind: TraceDecl, Atom: t.Atom})
	return id
}

// AddThm declares a new axiom/theorem and records it in the trace.
func (b *Builder) AddThm(t Thm) ThmID {
	id := ThmID(len(b.env.thms))
	b.env.thms = append(b.env.thms, t)
	b.env.atoms[t.Atom].Decl = &DeclKey{IsTerm: false, Thm: id}
	b.env.trace = append(b.env.trace, TraceEntry{Kind: TraceDecl, Atom: t.Atom})
	return id
}

// AddGlobal/AddOutputString record trace-only entries that the exporter
// skips, preserved here purely for source-order fidelity.
func (b *Builder) AddGlobal()       { b.env.trace = append(b.env.trace, TraceEntry{Kind: TraceGlobal}) }
func (b *Builder) AddOutputString() { b.env.trace = append(b.env.trace, TraceEntry{Kind: TraceOutputString}) }

// Build validates basic structural invariants and freezes the environment.
func (b *Builder) Build() (*Environment, error) {
	if len(b.env.sorts) > 128 {
		return nil, fmt.Errorf("too many sorts: %d (max 128)", len(b.env.sorts))
	}
	return &b.env, nil
}
