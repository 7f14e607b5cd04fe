package environment

// ExprNode is one node of a term/theorem's expression heap. A well-formed
// heap is topologically ordered: an ExprRef never points at or past its own
// slot.
type ExprNode interface{ isExprNode() }

// ExprRef denotes sharing of heap slot Index: the node has already been
// built (or is in the process of being built) at that position.
type ExprRef struct{ Index uint32 }

// ExprDummy introduces a fresh dummy variable of the given sort. Name is
// carried for debugging only; it plays no role in the wire encoding.
type ExprDummy struct {
	Name AtomID
	Sort SortID
}

// ExprApp applies a term constructor to a list of argument expressions.
type ExprApp struct {
	Term     TermID
	Children []ExprNode
}

func (ExprRef) isExprNode()   {}
func (ExprDummy) isExprNode() {}
func (ExprApp) isExprNode()   {}

// Expr is a term definition's value: a heap of shared subexpressions and the
// root node.
type Expr struct {
	Heap []ExprNode
	Head ExprNode
}
