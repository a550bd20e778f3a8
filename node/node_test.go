package node_test

import (
	"testing"

	"github.com/cyrup-ai/go-yyaml/node"
	"github.com/cyrup-ai/go-yyaml/schema"
)

func scalar(d *node.Document, value string) node.ID {
	id := d.Alloc()
	*d.Node(id) = node.Node{Kind: node.StringKind, Tag: schema.StrTag, Value: value}
	return id
}

func intScalar(d *node.Document, v int64) node.ID {
	id := d.Alloc()
	*d.Node(id) = node.Node{Kind: node.IntKind, Tag: schema.IntTag, Int: v}
	return id
}

func TestEqualScalars(t *testing.T) {
	d := node.NewDocument()
	a := scalar(d, "x")
	b := scalar(d, "x")
	c := scalar(d, "y")
	if !d.Equal(a, b) {
		t.Fatal("identical strings must compare equal")
	}
	if d.Equal(a, c) {
		t.Fatal("different strings must not compare equal")
	}
	if d.Equal(a, intScalar(d, 1)) {
		t.Fatal("different kinds must not compare equal")
	}
}

func TestEqualIntWidths(t *testing.T) {
	d := node.NewDocument()
	a := intScalar(d, 7)
	b := d.Alloc()
	*d.Node(b) = node.Node{Kind: node.IntKind, Tag: schema.IntTag, Uint: 7, IsUint: true}
	if !d.Equal(a, b) {
		t.Fatal("int64(7) and uint64(7) must compare equal")
	}
}

func TestEqualSequences(t *testing.T) {
	d := node.NewDocument()
	mk := func(values ...string) node.ID {
		var items []node.ID
		for _, v := range values {
			items = append(items, scalar(d, v))
		}
		id := d.Alloc()
		*d.Node(id) = node.Node{Kind: node.SequenceKind, Tag: schema.SeqTag, Seq: items}
		return id
	}
	if !d.Equal(mk("a", "b"), mk("a", "b")) {
		t.Fatal("equal sequences must compare equal")
	}
	if d.Equal(mk("a", "b"), mk("b", "a")) {
		t.Fatal("sequence order is significant")
	}
	if d.Equal(mk("a"), mk("a", "a")) {
		t.Fatal("sequence length is significant")
	}
}

func TestEqualMappingsUnordered(t *testing.T) {
	d := node.NewDocument()
	mk := func(pairs ...[2]string) node.ID {
		var keys, values []node.ID
		for _, p := range pairs {
			keys = append(keys, scalar(d, p[0]))
			values = append(values, scalar(d, p[1]))
		}
		id := d.Alloc()
		*d.Node(id) = node.Node{Kind: node.MappingKind, Tag: schema.MapTag, Keys: keys, Values: values}
		return id
	}
	a := mk([2]string{"x", "1"}, [2]string{"y", "2"})
	b := mk([2]string{"y", "2"}, [2]string{"x", "1"})
	c := mk([2]string{"x", "1"}, [2]string{"y", "3"})
	if !d.Equal(a, b) {
		t.Fatal("mappings compare as unordered key sets")
	}
	if d.Equal(a, c) {
		t.Fatal("differing values must not compare equal")
	}
}

func TestEqualCycles(t *testing.T) {
	d := node.NewDocument()
	a := d.Alloc()
	b := d.Alloc()
	*d.Node(a) = node.Node{Kind: node.SequenceKind, Tag: schema.SeqTag, Seq: []node.ID{a}}
	*d.Node(b) = node.Node{Kind: node.SequenceKind, Tag: schema.SeqTag, Seq: []node.ID{b}}
	// Must terminate; revisited pairs are assumed equal.
	if !d.Equal(a, b) {
		t.Fatal("isomorphic cycles must compare equal")
	}
}
