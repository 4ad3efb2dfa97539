package parsec

// New declares a named, retained Ref parser with no body yet. Use it
// anywhere a recursive grammar needs to refer to itself or a sibling
// rule before that rule's body exists; call Define once the body is
// ready, and Undefine/Delete (or Cleanup) when done with it.
func New(name string) *Parser {
	p := newParser(TagRef)
	p.Name = name
	p.retained = true
	return p
}

// Define binds ref's body. Defining an already-defined ref is a usage
// error: the declare-then-define protocol is single-assignment.
func Define(ref *Parser, body *Parser) {
	if ref.Tag != TagRef {
		usagePanic("Define called on a non-Ref parser %q", ref.Name)
	}
	if ref.defined {
		usagePanic("parser %q already defined", ref.Name)
	}
	ref.body = body
	ref.defined = true
}

// Undefine clears ref's body, breaking the cycle it may participate
// in so Delete can safely walk the rest of the ownership DAG. Safe to
// call more than once.
func Undefine(ref *Parser) {
	ref.body = nil
	ref.defined = false
}

// Delete marks p, and every parser it owns (i.e. every reachable child
// that is not itself retained), as deleted. Retained parsers reached
// through a Ref are never touched — they are released only by an
// explicit Delete/Cleanup of their own. Delete is idempotent on an
// already-deleted tree.
func Delete(p *Parser) {
	visited := map[*Parser]bool{}
	deleteOwned(p, visited)
}

func deleteOwned(p *Parser, visited map[*Parser]bool) {
	if p == nil || visited[p] {
		return
	}
	visited[p] = true
	p.deleted = true
	if p.Tag == TagRef {
		// A Ref's body is referenced, not owned, by whoever holds
		// the Ref: deleting the Ref never cascades into its body.
		return
	}
	for _, c := range p.children {
		if c != nil && !c.retained {
			deleteOwned(c, visited)
		}
	}
	if p.inner != nil && !p.inner.retained {
		deleteOwned(p.inner, visited)
	}
}

// Cleanup undefines and deletes every retained parser in list. It is
// the counterpart to New: breaking every cycle first, then freeing.
// A parser already deleted, whether earlier in this batch or by an
// earlier Delete/Cleanup, is skipped rather than re-deleted, so a
// repeated Cleanup of the same retained parsers does nothing.
func Cleanup(list []*Parser) {
	for _, p := range list {
		if !p.retained {
			usagePanic("Cleanup given a non-retained parser %q", p.Name)
		}
	}
	for _, p := range list {
		Undefine(p)
	}
	seenDeleted := map[*Parser]bool{}
	for _, p := range list {
		if p.deleted {
			if seenDeleted[p] {
				continue
			}
			seenDeleted[p] = true
			continue
		}
		Delete(p)
		seenDeleted[p] = true
	}
}

// Copy produces a structurally identical deep copy of p. Retained
// sub-parsers (reached through a Ref) are shared, not cloned;
// unretained sub-parsers are cloned recursively.
func Copy(p *Parser) *Parser {
	return copyParser(p, map[*Parser]*Parser{})
}

func copyParser(p *Parser, seen map[*Parser]*Parser) *Parser {
	if p == nil {
		return nil
	}
	if p.retained {
		return p // shared reference, never cloned
	}
	if c, ok := seen[p]; ok {
		return c
	}
	c := new(Parser)
	*c = *p
	seen[p] = c

	c.inner = copyParser(p.inner, seen)
	if p.children != nil {
		c.children = make([]*Parser, len(p.children))
		for i, ch := range p.children {
			c.children[i] = copyParser(ch, seen)
		}
	}
	if p.dtors != nil {
		c.dtors = append([]Destructor(nil), p.dtors...)
	}
	return c
}

// Optimise returns an equivalent, possibly-flattened Parser: an
// unretained Or nested directly inside an Or is merged into its
// parent's alternatives, and an Or left with a single alternative is
// replaced by that alternative. And nodes keep their structure (only
// their children are optimised), and no node is made Predictive. Optimise
// is idempotent: Optimise(Optimise(p)) accepts the same inputs with
// the same outputs as Optimise(p).
func Optimise(p *Parser) *Parser {
	return optimise(p, map[*Parser]*Parser{})
}

func optimise(p *Parser, seen map[*Parser]*Parser) *Parser {
	if p == nil {
		return nil
	}
	if c, ok := seen[p]; ok {
		return c
	}
	out := new(Parser)
	*out = *p
	seen[p] = out

	switch p.Tag {
	case TagOr:
		flat := make([]*Parser, 0, len(p.children))
		for _, ch := range p.children {
			oc := optimise(ch, seen)
			if oc.Tag == TagOr && !oc.retained {
				flat = append(flat, oc.children...)
			} else {
				flat = append(flat, oc)
			}
		}
		if len(flat) == 1 {
			return flat[0]
		}
		out.children = flat
		return out
	case TagAnd:
		out.children = make([]*Parser, len(p.children))
		for i, ch := range p.children {
			out.children[i] = optimise(ch, seen)
		}
		return out
	default:
		out.inner = optimise(p.inner, seen)
		return out
	}
}
