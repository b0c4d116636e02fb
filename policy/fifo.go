package policy

import "container/list"

// fifoPolicy evicts in strict insertion order, ignoring accesses entirely.
// Updating an existing key's value never changes its position.
type fifoPolicy struct {
	capacity int
	ll       *list.List
	index    map[string]*list.Element
}

func newFIFO(capacity int) *fifoPolicy {
	return &fifoPolicy{
		capacity: capacity,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

func (p *fifoPolicy) Get(k string) bool {
	_, ok := p.index[k]
	return ok
}

func (p *fifoPolicy) Set(k string) (string, bool) {
	if p.capacity <= 0 {
		return "", false
	}

	if _, ok := p.index[k]; ok {
		return "", false
	}

	var victim string
	var evicted bool
	if p.Size() >= p.capacity {
		victim, evicted = p.Evict()
	}

	el := p.ll.PushBack(k)
	p.index[k] = el
	return victim, evicted
}

func (p *fifoPolicy) Delete(k string) bool {
	el, ok := p.index[k]
	if !ok {
		return false
	}
	p.ll.Remove(el)
	delete(p.index, k)
	return true
}

func (p *fifoPolicy) Has(k string) bool {
	_, ok := p.index[k]
	return ok
}

func (p *fifoPolicy) Size() int {
	return p.ll.Len()
}

func (p *fifoPolicy) Clear() {
	p.ll.Init()
	p.index = make(map[string]*list.Element)
}

func (p *fifoPolicy) Keys() []string {
	keys := make([]string, 0, p.ll.Len())
	for el := p.ll.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(string))
	}
	return keys
}

func (p *fifoPolicy) Evict() (string, bool) {
	el := p.ll.Front()
	if el == nil {
		return "", false
	}
	victim := el.Value.(string)
	p.ll.Remove(el)
	delete(p.index, victim)
	return victim, true
}
