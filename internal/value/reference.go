package value

// maxResolveDepth bounds reference-chain resolution so a pathological or
// (in principle illegal) cyclic chain cannot recurse forever (spec.md §9:
// "detect cycles defensively during resolve with a bounded depth").
const maxResolveDepth = 10000

// Reference is an indirection to a Value (spec.md §3). It supports
// multi-level dereferencing and an optional link back to the LinkedList
// node it was produced from, so list-traversal assignment ("this
// reference came from walking list X") can mutate the node in place.
type Reference struct {
	target   Value
	listNode *LLNode
}

func NewReference(target Value) *Reference {
	return &Reference{target: target}
}

// NewListReference builds a Reference bound to a linked-list node, so
// Store can write through to the node's payload.
func NewListReference(node *LLNode) *Reference {
	return &Reference{target: node.Value, listNode: node}
}

func (r *Reference) Kind() Kind { return KindReference }

func (r *Reference) DeepCopy() Value {
	if r.target == nil {
		return &Reference{}
	}
	return &Reference{target: r.target.DeepCopy()}
}

func (r *Reference) Display() string {
	if r.target == nil {
		return "null"
	}
	return r.target.Display()
}

// Resolve follows the reference chain to the first non-Reference target.
func (r *Reference) Resolve() Value {
	var cur Value = r
	for i := 0; i < maxResolveDepth; i++ {
		ref, ok := cur.(*Reference)
		if !ok {
			return cur
		}
		if ref.target == nil {
			return nil
		}
		cur = ref.target
	}
	return cur
}

// ResolveObj returns the non-Reference Value node (identical to Resolve;
// named separately per spec.md §3's distinct accessor contract).
func (r *Reference) ResolveObj() Value {
	return r.Resolve()
}

// ResolveRef returns the deepest Reference that directly owns a
// non-Reference target.
func (r *Reference) ResolveRef() *Reference {
	cur := r
	for i := 0; i < maxResolveDepth; i++ {
		next, ok := cur.target.(*Reference)
		if !ok {
			return cur
		}
		cur = next
	}
	return cur
}

// Store writes v into the reference, updating the bound list node's
// payload too if this reference was produced by traversing a LinkedList.
func (r *Reference) Store(v Value) {
	r.target = v
	if r.listNode != nil {
		r.listNode.Value = v
	}
}

// Target returns the immediate target without following the chain.
func (r *Reference) Target() Value { return r.target }

// ListNode returns the bound linked-list node, or nil.
func (r *Reference) ListNode() *LLNode { return r.listNode }
