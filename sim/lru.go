// Recency-ordered list policies. LRU is the builtin reference implementation
// of the eviction contract; FIFO shares the same intrusive list but ignores
// accesses. Both link handles through the policy-private fields of the arena
// records, so the list itself allocates nothing per object.

package sim

// handleList is an intrusive doubly-linked list of handles ordered from
// least to most recently linked. Links live in CacheObject.PolicyPrev /
// PolicyNext inside the bound table's arena.
type handleList struct {
	table *ObjectTable
	head  Handle // least recently used end
	tail  Handle // most recently used end
}

func newHandleList() handleList {
	return handleList{head: InvalidHandle, tail: InvalidHandle}
}

// pushTail links h at the MRU end. h must not already be linked.
func (l *handleList) pushTail(h Handle) {
	obj := l.table.Get(h)
	obj.PolicyPrev = l.tail
	obj.PolicyNext = InvalidHandle
	if l.tail != InvalidHandle {
		l.table.Get(l.tail).PolicyNext = h
	} else {
		l.head = h
	}
	l.tail = h
}

// unlink detaches h wherever it sits in the list.
func (l *handleList) unlink(h Handle) {
	obj := l.table.Get(h)
	if obj.PolicyPrev != InvalidHandle {
		l.table.Get(obj.PolicyPrev).PolicyNext = obj.PolicyNext
	} else {
		l.head = obj.PolicyNext
	}
	if obj.PolicyNext != InvalidHandle {
		l.table.Get(obj.PolicyNext).PolicyPrev = obj.PolicyPrev
	} else {
		l.tail = obj.PolicyPrev
	}
	obj.PolicyPrev = InvalidHandle
	obj.PolicyNext = InvalidHandle
}

// LRUPolicy is the builtin recency-ordered reference policy. EvictCandidate
// names the LRU end without removing it; removal is the engine's job, signaled
// back through OnRemove.
type LRUPolicy struct {
	list handleList
}

// NewLRU creates an empty LRU policy state.
func NewLRU() *LRUPolicy {
	return &LRUPolicy{list: newHandleList()}
}

// BindTable gives the intrusive list access to the arena records.
func (p *LRUPolicy) BindTable(t *ObjectTable) {
	p.list.table = t
}

func (p *LRUPolicy) OnAdmit(h Handle) {
	p.list.pushTail(h)
}

// OnAccess moves h to the MRU end. O(1): unlink and relink by handle.
func (p *LRUPolicy) OnAccess(h Handle) {
	p.list.unlink(h)
	p.list.pushTail(h)
}

func (p *LRUPolicy) EvictCandidate() (Handle, bool) {
	if p.list.head == InvalidHandle {
		return InvalidHandle, false
	}
	return p.list.head, true
}

func (p *LRUPolicy) OnRemove(h Handle) {
	p.list.unlink(h)
}

// FIFOPolicy evicts in insertion order. Same intrusive list as LRU with
// accesses ignored.
type FIFOPolicy struct {
	list handleList
}

// NewFIFO creates an empty FIFO policy state.
func NewFIFO() *FIFOPolicy {
	return &FIFOPolicy{list: newHandleList()}
}

func (p *FIFOPolicy) BindTable(t *ObjectTable) {
	p.list.table = t
}

func (p *FIFOPolicy) OnAdmit(h Handle) {
	p.list.pushTail(h)
}

func (p *FIFOPolicy) OnAccess(Handle) {}

func (p *FIFOPolicy) EvictCandidate() (Handle, bool) {
	if p.list.head == InvalidHandle {
		return InvalidHandle, false
	}
	return p.list.head, true
}

func (p *FIFOPolicy) OnRemove(h Handle) {
	p.list.unlink(h)
}
