package types

import "sync/atomic"

// Handle identifies one node instance. Two structurally equal nodes built
// separately never share a handle, which is what alias assignment and cycle
// detection key on.
type Handle uint64

var lastHandle atomic.Uint64

func nextHandle() Handle {
	return Handle(lastHandle.Add(1))
}

// ident is embedded by every node to carry its handle.
type ident struct {
	h Handle
}

func newIdent() ident {
	return ident{h: nextHandle()}
}

// Handle returns the node's identity.
func (i ident) Handle() Handle {
	return i.h
}

// Visited is the set of nodes on the current evaluation path.
type Visited map[Handle]struct{}

// Enter marks h as visited. It reports false if h is already on the path.
func (v Visited) Enter(h Handle) bool {
	if _, ok := v[h]; ok {
		return false
	}
	v[h] = struct{}{}
	return true
}

// Leave removes h from the path.
func (v Visited) Leave(h Handle) {
	delete(v, h)
}

// guard evaluates fn with h on the path, returning unknown when h is
// already being evaluated further up.
func (v Visited) guard(h Handle, fn func() any) any {
	if !v.Enter(h) {
		return nil
	}
	defer v.Leave(h)
	return fn()
}
