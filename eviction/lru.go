// This file implements LRU eviction for the hot tier.

package eviction

import "time"

// lruNode is one key inside the recency list. A doubly-linked list keeps
// usage order so reorder-on-access and evict-from-tail are both O(1).
type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

type lru struct {
	// nodes maps keys to their list nodes for O(1) lookup.
	nodes map[string]*lruNode

	// head is the most recently used key, tail the least.
	head *lruNode
	tail *lruNode
}

func newLRU() *lru {
	return &lru{nodes: make(map[string]*lruNode)}
}

// OnAdd treats insertion as a use: the new key starts at the front.
// Re-adding a tracked key (replace) also refreshes its position.
func (l *lru) OnAdd(k string, _ Meta) {
	if n, ok := l.nodes[k]; ok {
		l.unlink(n)
		l.pushFront(n)
		return
	}
	n := &lruNode{key: k}
	l.nodes[k] = n
	l.pushFront(n)
}

// OnAccess moves the key to the front: it just became the most recently used.
func (l *lru) OnAccess(k string, _ time.Time) {
	if n, ok := l.nodes[k]; ok {
		l.unlink(n)
		l.pushFront(n)
	}
}

// Evict removes and returns the least recently used key (the tail).
func (l *lru) Evict() string {
	if l.tail == nil {
		return ""
	}
	n := l.tail
	l.unlink(n)
	delete(l.nodes, n.key)
	return n.key
}

func (l *lru) Remove(k string) {
	if n, ok := l.nodes[k]; ok {
		l.unlink(n)
		delete(l.nodes, k)
	}
}

func (l *lru) pushFront(n *lruNode) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

func (l *lru) unlink(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
