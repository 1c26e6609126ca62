// Package container implements the append-only sequence a persister keeps
// its published records in: a singly-linked list, not a slice, so that a
// *Node handed to a scanner remains valid and keeps pointing at the same
// record no matter how many further records are appended after it.
package container

import "github.com/zyy1659949090/logpersist/idxts"

// LogRecord is one (index/timestamp, value) pair stored in a Container.
type LogRecord[E any] struct {
	IdxTs idxts.IdxTs
	Value E
}

// Node is one link in the Container's chain. Appending further records
// never moves or invalidates an existing *Node: Next simply returns nil
// until a new node is linked after it.
type Node[E any] struct {
	Record LogRecord[E]
	next   *Node[E]
}

// Next returns the node appended after this one, or nil if this is still
// the last node in the Container.
func (n *Node[E]) Next() *Node[E] { return n.next }

// Container is the append-only backbone of a persisted log. All methods
// assume the caller is holding whatever lock the persister uses to
// serialize container mutation and reads; Container itself does no
// locking.
type Container[E any] struct {
	size uint64
	head *Node[E]
	back *Node[E]
}

// PushBack appends rec as a new last node and returns it.
func (c *Container[E]) PushBack(rec LogRecord[E]) *Node[E] {
	var n = &Node[E]{Record: rec}
	if c.back != nil {
		c.back.next = n
	} else {
		c.head = n
	}
	c.back = n
	c.size++
	return n
}

// Size returns the number of records currently stored.
func (c *Container[E]) Size() uint64 { return c.size }

// LastIdxTs returns the IdxTs of the last pushed record, or the zero value
// if the Container is empty.
func (c *Container[E]) LastIdxTs() idxts.IdxTs {
	if c.back == nil {
		return idxts.IdxTs{}
	}
	return c.back.Record.IdxTs
}

// Front returns the first node, or nil if the Container is empty.
func (c *Container[E]) Front() *Node[E] { return c.head }
