package store

import (
	"bytes"

	"github.com/google/btree"
)

// ascendItems returns a snapshot of all btree items within [start, end) in
// ascending order. A nil bound is open.
func ascendItems(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(i btree.Item) bool {
		items = append(items, i)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// descendItems returns a snapshot of all btree items within [start, end) in
// descending order. A nil bound is open.
func descendItems(bt *btree.BTree, start, end []byte) []btree.Item {
	items := ascendItems(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// mergeIterator combines the cached items with the iterator of the backing
// store. Cached items shadow parent values with the same key, and deleted
// items hide them.
type mergeIterator struct {
	items   []btree.Item
	parent  Iterator
	reverse bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []btree.Item, parent Iterator, reverse bool) (*mergeIterator, error) {
	it := &mergeIterator{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	if err := it.skipDeleted(); err != nil {
		return nil, err
	}
	return it, nil
}

// source marks where the current item comes from
type source int32

const (
	none source = iota
	cached
	parent
	both
)

func (m *mergeIterator) current() source {
	hasCached := len(m.items) > 0
	hasParent := m.parent != nil && m.parent.Valid()
	switch {
	case !hasCached && !hasParent:
		return none
	case !hasParent:
		return cached
	case !hasCached:
		return parent
	}

	cmp := bytes.Compare(m.items[0].(keyer).Key(), m.parent.Key())
	if m.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return cached
	case cmp > 0:
		return parent
	default:
		return both
	}
}

// skipDeleted advances over all deleted items together with the parent
// values they hide.
func (m *mergeIterator) skipDeleted() error {
	for {
		src := m.current()
		if src != cached && src != both {
			return nil
		}
		if _, ok := m.items[0].(deletedItem); !ok {
			return nil
		}
		m.items = m.items[1:]
		if src == both {
			if err := m.parent.Next(); err != nil {
				return err
			}
		}
	}
}

// Valid implements Iterator and returns true iff it can be read
func (m *mergeIterator) Valid() bool {
	return m.current() != none
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
func (m *mergeIterator) Next() error {
	switch m.current() {
	case cached:
		m.items = m.items[1:]
	case both:
		m.items = m.items[1:]
		if err := m.parent.Next(); err != nil {
			return err
		}
	case parent:
		if err := m.parent.Next(); err != nil {
			return err
		}
	default:
		panic("advanced past the end")
	}
	return m.skipDeleted()
}

// Key returns the key of the cursor.
func (m *mergeIterator) Key() []byte {
	switch m.current() {
	case cached, both:
		return m.items[0].(keyer).Key()
	case parent:
		return m.parent.Key()
	default:
		panic("advanced past the end")
	}
}

// Value returns the value of the cursor.
func (m *mergeIterator) Value() []byte {
	switch m.current() {
	case cached, both:
		return m.items[0].(setItem).value
	case parent:
		return m.parent.Value()
	default:
		panic("advanced past the end")
	}
}

// Close releases the Iterator.
func (m *mergeIterator) Close() {
	if m.parent != nil {
		m.parent.Close()
	}
	m.items = nil
}
