// Package node defines the composed document tree: an arena of nodes
// addressed by stable IDs. Aliases resolve to shared IDs, so a document may
// form a graph, including cycles; traversals must treat IDs as references,
// not owned children.
package node

import (
	"math/big"

	"github.com/cyrup-ai/go-yyaml/token"
)

// ID is a stable index into a document's node arena.
type ID int

// InvalidID marks an absent node reference.
const InvalidID ID = -1

// Kind is the identifier of a node variant.
type Kind int

const (
	// UnknownKind zero value, never present in a composed document
	UnknownKind Kind = iota
	// NullKind the null node
	NullKind
	// BoolKind a boolean node
	BoolKind
	// IntKind an integer node
	IntKind
	// FloatKind a floating point node, including infinities and NaN
	FloatKind
	// StringKind a string node
	StringKind
	// SequenceKind an ordered collection with duplicates allowed
	SequenceKind
	// MappingKind an insertion-ordered, key-unique collection
	MappingKind
	// TaggedKind a node wrapped by a non-schema tag
	TaggedKind
)

// String kind identifier to text
func (k Kind) String() string {
	switch k {
	case NullKind:
		return "Null"
	case BoolKind:
		return "Bool"
	case IntKind:
		return "Int"
	case FloatKind:
		return "Float"
	case StringKind:
		return "String"
	case SequenceKind:
		return "Sequence"
	case MappingKind:
		return "Mapping"
	case TaggedKind:
		return "Tagged"
	}
	return "Unknown"
}

// Node is one element of the document tree. Scalar nodes keep the raw
// lexical text in Value alongside the decoded representation so the
// original form (int vs float, base, casing) survives composition.
type Node struct {
	Kind  Kind
	Tag   string
	Style token.ScalarStyle
	Value string

	Bool   bool
	Int    int64
	Uint   uint64
	IsUint bool
	Big    *big.Int
	Float  float64

	Seq    []ID
	Keys   []ID
	Values []ID
	Inner  ID

	Anchor string
	Pos    *token.Position
}

// Document owns the node arena for one composed document together with its
// anchor table and directive table. Documents are immutable once composed.
type Document struct {
	nodes []Node

	Root       ID
	Anchors    map[string]ID
	Version    string
	TagHandles map[string]string
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		Root:       InvalidID,
		Anchors:    map[string]ID{},
		TagHandles: map[string]string{},
	}
}

// Alloc reserves a new node and returns its ID.
func (d *Document) Alloc() ID {
	d.nodes = append(d.nodes, Node{Inner: InvalidID})
	return ID(len(d.nodes) - 1)
}

// Node returns the node stored under id. The pointer is invalidated by the
// next Alloc.
func (d *Document) Node(id ID) *Node {
	return &d.nodes[id]
}

// Len returns the number of allocated nodes.
func (d *Document) Len() int {
	return len(d.nodes)
}

func bigOf(n *Node) *big.Int {
	if n.Big != nil {
		return n.Big
	}
	if n.IsUint {
		return new(big.Int).SetUint64(n.Uint)
	}
	return big.NewInt(n.Int)
}

// Equal reports structural equality of two subtrees, the relation used for
// duplicate-key detection. Mappings compare as unordered key sets; shared
// and cyclic references are assumed equal when revisited.
func (d *Document) Equal(a, b ID) bool {
	return d.equal(a, b, map[[2]ID]bool{})
}

func (d *Document) equal(a, b ID, seen map[[2]ID]bool) bool {
	if a == b {
		return true
	}
	pair := [2]ID{a, b}
	if seen[pair] {
		return true
	}
	seen[pair] = true
	na, nb := d.Node(a), d.Node(b)
	if na.Kind != nb.Kind {
		return false
	}
	switch na.Kind {
	case NullKind:
		return true
	case BoolKind:
		return na.Bool == nb.Bool
	case IntKind:
		return bigOf(na).Cmp(bigOf(nb)) == 0
	case FloatKind:
		return na.Float == nb.Float
	case StringKind:
		return na.Value == nb.Value
	case TaggedKind:
		return na.Tag == nb.Tag && d.equal(na.Inner, nb.Inner, seen)
	case SequenceKind:
		if len(na.Seq) != len(nb.Seq) {
			return false
		}
		for i := range na.Seq {
			if !d.equal(na.Seq[i], nb.Seq[i], seen) {
				return false
			}
		}
		return true
	case MappingKind:
		if len(na.Keys) != len(nb.Keys) {
			return false
		}
		for i, ka := range na.Keys {
			found := false
			for j, kb := range nb.Keys {
				if d.equal(ka, kb, seen) {
					if !d.equal(na.Values[i], nb.Values[j], seen) {
						return false
					}
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	return false
}

// Children appends the IDs directly referenced by id to dst.
func (d *Document) Children(id ID, dst []ID) []ID {
	n := d.Node(id)
	switch n.Kind {
	case SequenceKind:
		dst = append(dst, n.Seq...)
	case MappingKind:
		dst = append(dst, n.Keys...)
		dst = append(dst, n.Values...)
	case TaggedKind:
		if n.Inner != InvalidID {
			dst = append(dst, n.Inner)
		}
	}
	return dst
}
