package memory

import (
	"bytes"
	"encoding/json"
	"sort"
)

// node is either a leaf holding raw JSON or an interior node with ordered children.
// Empty interior nodes are never kept in the tree.
// rev is the sequence of the last write that passed through the node; cache
// holds the encoded value of an interior node until the next such write.
type node struct {
	leaf     json.RawMessage
	keys     []string
	children map[string]*node
	rev      uint64
	cache    json.RawMessage
}

func newInterior() *node {
	return &node{children: map[string]*node{}}
}

func buildNode(raw json.RawMessage) (*node, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return &node{leaf: append(json.RawMessage(nil), trimmed...)}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := newInterior()
	for _, k := range keys {
		child, err := buildNode(fields[k])
		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}
		n.put(k, child)
	}
	if len(n.keys) == 0 {
		return nil, nil
	}
	return n, nil
}

func (n *node) interior() bool {
	return n.children != nil
}

func (n *node) put(key string, child *node) {
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

func (n *node) delete(key string) {
	if _, ok := n.children[key]; !ok {
		return
	}
	delete(n.children, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
}

func (n *node) value() json.RawMessage {
	if n == nil {
		return nil
	}
	if !n.interior() {
		return n.leaf
	}
	if n.cache != nil {
		return n.cache
	}
	fields := make(map[string]json.RawMessage, len(n.keys))
	for k, c := range n.children {
		fields[k] = c.value()
	}
	n.cache, _ = json.Marshal(fields)
	return n.cache
}

// touch stamps every node from the root down to segments with rev and drops
// their cached encodings.
func touch(root *node, segments []string, rev uint64) {
	cur := root
	cur.rev, cur.cache = rev, nil
	for _, s := range segments {
		if !cur.interior() {
			return
		}
		cur = cur.children[s]
		if cur == nil {
			return
		}
		cur.rev, cur.cache = rev, nil
	}
}

func (n *node) lookup(segments []string) *node {
	cur := n
	for _, s := range segments {
		if cur == nil || !cur.interior() {
			return nil
		}
		cur = cur.children[s]
	}
	return cur
}

// setAt replaces the node at segments (relative to parent); a nil child removes it.
// Interior nodes left without children are pruned on the way back up.
func setAt(parent *node, segments []string, child *node) {
	key := segments[0]
	if len(segments) == 1 {
		if child == nil {
			parent.delete(key)
			return
		}
		parent.put(key, child)
		return
	}

	next := parent.children[key]
	if next == nil || !next.interior() {
		if child == nil {
			return
		}
		next = newInterior()
		parent.put(key, next)
	}
	setAt(next, segments[1:], child)
	if len(next.keys) == 0 {
		parent.delete(key)
	}
}
