package policy

import "container/list"

// lruPolicy orders resident keys from most to least recently used using a
// doubly linked list plus an index from key to node, giving O(1) access,
// insertion and eviction.
type lruPolicy struct {
	capacity int
	ll       *list.List
	index    map[string]*list.Element
}

func newLRU(capacity int) *lruPolicy {
	return &lruPolicy{
		capacity: capacity,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

func (p *lruPolicy) Get(k string) bool {
	el, ok := p.index[k]
	if !ok {
		return false
	}
	p.ll.MoveToFront(el)
	return true
}

func (p *lruPolicy) Set(k string) (string, bool) {
	if p.capacity <= 0 {
		return "", false
	}

	if el, ok := p.index[k]; ok {
		p.ll.MoveToFront(el)
		return "", false
	}

	var victim string
	var evicted bool
	if p.Size() >= p.capacity {
		victim, evicted = p.Evict()
	}

	el := p.ll.PushFront(k)
	p.index[k] = el
	return victim, evicted
}

func (p *lruPolicy) Delete(k string) bool {
	el, ok := p.index[k]
	if !ok {
		return false
	}
	p.ll.Remove(el)
	delete(p.index, k)
	return true
}

func (p *lruPolicy) Has(k string) bool {
	_, ok := p.index[k]
	return ok
}

func (p *lruPolicy) Size() int {
	return p.ll.Len()
}

func (p *lruPolicy) Clear() {
	p.ll.Init()
	p.index = make(map[string]*list.Element)
}

func (p *lruPolicy) Keys() []string {
	keys := make([]string, 0, p.ll.Len())
	for el := p.ll.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(string))
	}
	return keys
}

func (p *lruPolicy) Evict() (string, bool) {
	el := p.ll.Back()
	if el == nil {
		return "", false
	}
	victim := el.Value.(string)
	p.ll.Remove(el)
	delete(p.index, victim)
	return victim, true
}
