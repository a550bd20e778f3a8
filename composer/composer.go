// Package composer assembles parser events into document trees, resolving
// anchors, aliases and tags, and enforcing the duplicate-key rule and the
// expansion/depth limits.
package composer

import (
	"fmt"
	"io"
	"math"

	"github.com/cyrup-ai/go-yyaml/errors"
	"github.com/cyrup-ai/go-yyaml/node"
	"github.com/cyrup-ai/go-yyaml/parser"
	"github.com/cyrup-ai/go-yyaml/schema"
	"github.com/cyrup-ai/go-yyaml/token"
)

// Config carries the composer's resource limits and policy switches.
type Config struct {
	// MaxExpansion bounds the total materialization cost of alias
	// expansions per document.
	MaxExpansion uint64
	// MaxDepth bounds node nesting during composition.
	MaxDepth int
	// AllowDuplicateKeys switches duplicate mapping keys from an error to
	// last-wins.
	AllowDuplicateKeys bool
	// StrictAnchors upgrades anchor redefinition from a collected warning
	// to an error.
	StrictAnchors bool
	// LegacyBools additionally resolves yes/no/on/off as booleans.
	LegacyBools bool
}

// DefaultConfig returns the standard limits.
func DefaultConfig() Config {
	return Config{
		MaxExpansion: 10_000_000,
		MaxDepth:     10_000,
	}
}

// Composer pulls events from a parser and builds one document per Compose
// call.
type Composer struct {
	parser *parser.Parser
	cfg    Config

	doc       *node.Document
	expansion uint64
	sizes     map[node.ID]uint64

	ev      *parser.Event
	evValid bool
	started bool
	done    bool

	warnings []error
}

// New creates a composer over src. It fails if src is not valid UTF-8.
func New(src []byte, cfg Config) (*Composer, error) {
	p, err := parser.New(src)
	if err != nil {
		return nil, err
	}
	return &Composer{parser: p, cfg: cfg}, nil
}

// Warnings returns non-fatal findings collected so far: anchor
// redefinitions outside strict mode and %YAML versions other than 1.2.
func (c *Composer) Warnings() []error {
	return c.warnings
}

func (c *Composer) peekEvent() (*parser.Event, error) {
	if !c.evValid {
		ev, err := c.parser.Parse()
		if err != nil {
			return nil, err
		}
		c.ev = ev
		c.evValid = true
	}
	return c.ev, nil
}

func (c *Composer) skipEvent() {
	c.evValid = false
}

func (c *Composer) expect(t parser.EventType) (*parser.Event, error) {
	ev, err := c.peekEvent()
	if err != nil {
		return nil, err
	}
	if ev.Type != t {
		return nil, errors.ErrSyntax(errors.UnexpectedToken,
			fmt.Sprintf("expected %s event but found %s", t, ev.Type), ev.Token)
	}
	c.skipEvent()
	return ev, nil
}

// Compose returns the next document of the stream, or io.EOF after the last
// one. Errors are fatal: the stream cannot be resumed afterwards.
func (c *Composer) Compose() (*node.Document, error) {
	if c.done {
		return nil, io.EOF
	}
	if !c.started {
		if _, err := c.expect(parser.StreamStartEvent); err != nil {
			return nil, err
		}
		c.started = true
	}
	ev, err := c.peekEvent()
	if err != nil {
		return nil, err
	}
	if ev.Type == parser.StreamEndEvent {
		c.skipEvent()
		c.done = true
		return nil, io.EOF
	}
	docEv, err := c.expect(parser.DocumentStartEvent)
	if err != nil {
		return nil, err
	}
	c.doc = node.NewDocument()
	c.expansion = 0
	c.sizes = map[node.ID]uint64{}
	if docEv.Version != nil {
		c.doc.Version = fmt.Sprintf("%d.%d", docEv.Version.Major, docEv.Version.Minor)
		if docEv.Version.Minor != 2 {
			c.warnings = append(c.warnings, errors.ErrSyntax(errors.InvalidDirective,
				fmt.Sprintf("YAML version %s is accepted but resolved with 1.2 rules", c.doc.Version),
				docEv.Token))
		}
	}
	for _, d := range docEv.TagDirectives {
		c.doc.TagHandles[d.Handle] = d.Prefix
	}
	root, err := c.composeNode(0)
	if err != nil {
		return nil, err
	}
	if _, err := c.expect(parser.DocumentEndEvent); err != nil {
		return nil, err
	}
	c.doc.Root = root
	doc := c.doc
	c.doc = nil
	return doc, nil
}

func (c *Composer) composeNode(depth int) (node.ID, error) {
	if depth > c.cfg.MaxDepth {
		ev, err := c.peekEvent()
		if err != nil {
			return node.InvalidID, err
		}
		return node.InvalidID, errors.ErrSyntax(errors.DepthLimit,
			fmt.Sprintf("nesting exceeds the configured depth limit of %d", c.cfg.MaxDepth), ev.Token)
	}
	ev, err := c.peekEvent()
	if err != nil {
		return node.InvalidID, err
	}
	switch ev.Type {
	case parser.AliasEvent:
		return c.composeAlias(ev)
	case parser.ScalarEvent:
		return c.composeScalar(ev)
	case parser.SequenceStartEvent:
		return c.composeSequence(ev, depth)
	case parser.MappingStartEvent:
		return c.composeMapping(ev, depth)
	}
	return node.InvalidID, errors.ErrSyntax(errors.UnexpectedToken,
		fmt.Sprintf("unexpected %s event while composing a node", ev.Type), ev.Token)
}

func (c *Composer) composeAlias(ev *parser.Event) (node.ID, error) {
	c.skipEvent()
	id, ok := c.doc.Anchors[ev.Value]
	if !ok {
		return node.InvalidID, errors.ErrSyntax(errors.UndefinedAlias,
			fmt.Sprintf("undefined alias *%s", ev.Value), ev.Token)
	}
	c.expansion = satAdd(c.expansion, c.expandedSize(id))
	if c.expansion > c.cfg.MaxExpansion {
		return node.InvalidID, errors.ErrSyntax(errors.ExpansionLimit,
			fmt.Sprintf("alias expansion exceeds the configured limit of %d nodes", c.cfg.MaxExpansion), ev.Token)
	}
	if ev.Anchor != "" {
		if err := c.register(ev.Anchor, id, ev.Token); err != nil {
			return node.InvalidID, err
		}
	}
	return id, nil
}

func (c *Composer) composeScalar(ev *parser.Event) (node.ID, error) {
	c.skipEvent()
	built, customTag, err := c.resolveScalar(ev)
	if err != nil {
		return node.InvalidID, err
	}
	id := c.doc.Alloc()
	*c.doc.Node(id) = built
	if customTag != "" {
		inner := id
		id = c.doc.Alloc()
		*c.doc.Node(id) = node.Node{
			Kind:  node.TaggedKind,
			Tag:   customTag,
			Inner: inner,
			Pos:   ev.Start,
		}
	}
	if ev.Anchor != "" {
		c.doc.Node(id).Anchor = ev.Anchor
		if err := c.register(ev.Anchor, id, ev.Token); err != nil {
			return node.InvalidID, err
		}
	}
	return id, nil
}

// resolveScalar applies tag resolution to a scalar event. A non-schema tag
// is returned separately; the caller wraps the scalar in a tagged node.
func (c *Composer) resolveScalar(ev *parser.Event) (node.Node, string, error) {
	n := node.Node{
		Kind:  node.StringKind,
		Tag:   schema.StrTag,
		Style: ev.Style,
		Value: ev.Value,
		Pos:   ev.Start,
	}
	switch {
	case ev.Implicit:
		// Untagged plain scalar: Core Schema resolution.
		r := schema.Resolve(ev.Value)
		applyResult(&n, r)
		if ev.Style == token.PlainStyle && ev.Value == "<<" {
			n.Tag = schema.MergeTag
		}
		if c.cfg.LegacyBools && r.Kind == schema.StringKind {
			if b, ok := schema.IsLegacyBool(ev.Value); ok {
				n.Kind = node.BoolKind
				n.Tag = schema.BoolTag
				n.Bool = b
			}
		}
		return n, "", nil
	case ev.QuotedImplicit, ev.Tag == "", ev.Tag == "!":
		// Untagged non-plain scalars and the '!' non-specific tag are
		// always strings.
		return n, "", nil
	}
	switch ev.Tag {
	case schema.StrTag:
		return n, "", nil
	case schema.NullTag:
		r := schema.Resolve(ev.Value)
		if r.Kind != schema.NullKind {
			return n, "", c.typeMismatch(ev, "null")
		}
		applyResult(&n, r)
		return n, "", nil
	case schema.BoolTag:
		r := schema.Resolve(ev.Value)
		if r.Kind != schema.BoolKind {
			return n, "", c.typeMismatch(ev, "bool")
		}
		applyResult(&n, r)
		return n, "", nil
	case schema.IntTag:
		r := schema.Resolve(ev.Value)
		switch r.Kind {
		case schema.IntKind, schema.UintKind, schema.BigIntKind:
			applyResult(&n, r)
			return n, "", nil
		}
		return n, "", c.typeMismatch(ev, "int")
	case schema.FloatTag:
		r := schema.Resolve(ev.Value)
		switch r.Kind {
		case schema.FloatKind:
			applyResult(&n, r)
			return n, "", nil
		case schema.IntKind:
			n.Kind = node.FloatKind
			n.Tag = schema.FloatTag
			n.Float = float64(r.Int)
			return n, "", nil
		case schema.UintKind:
			n.Kind = node.FloatKind
			n.Tag = schema.FloatTag
			n.Float = float64(r.Uint)
			return n, "", nil
		}
		return n, "", c.typeMismatch(ev, "float")
	}
	// Non-schema tag: keep the raw string and let the consumer decide.
	return n, ev.Tag, nil
}

func (c *Composer) typeMismatch(ev *parser.Event, want string) error {
	return errors.ErrSyntax(errors.TypeMismatch,
		fmt.Sprintf("cannot interpret %q as %s for tag %s", ev.Value, want, ev.Tag), ev.Token)
}

func applyResult(n *node.Node, r schema.Result) {
	n.Tag = r.Tag
	switch r.Kind {
	case schema.NullKind:
		n.Kind = node.NullKind
	case schema.BoolKind:
		n.Kind = node.BoolKind
		n.Bool = r.Bool
	case schema.IntKind:
		n.Kind = node.IntKind
		n.Int = r.Int
	case schema.UintKind:
		n.Kind = node.IntKind
		n.Uint = r.Uint
		n.IsUint = true
	case schema.BigIntKind:
		n.Kind = node.IntKind
		n.Big = r.Big
	case schema.FloatKind:
		n.Kind = node.FloatKind
		n.Float = r.Float
	default:
		n.Kind = node.StringKind
	}
}

// collectionIDs allocates the collection node and, for a non-schema tag,
// its tagged wrapper. The anchor is registered before the children are
// composed so references back into the collection resolve.
func (c *Composer) collectionIDs(ev *parser.Event, schemaTag string) (inner, outer node.ID, err error) {
	inner = c.doc.Alloc()
	outer = inner
	if ev.Tag != "" && ev.Tag != "!" && ev.Tag != schemaTag {
		outer = c.doc.Alloc()
		*c.doc.Node(outer) = node.Node{
			Kind:  node.TaggedKind,
			Tag:   ev.Tag,
			Inner: inner,
			Pos:   ev.Start,
		}
	}
	if ev.Anchor != "" {
		if err := c.register(ev.Anchor, outer, ev.Token); err != nil {
			return node.InvalidID, node.InvalidID, err
		}
	}
	return inner, outer, nil
}

func (c *Composer) composeSequence(ev *parser.Event, depth int) (node.ID, error) {
	c.skipEvent()
	inner, outer, err := c.collectionIDs(ev, schema.SeqTag)
	if err != nil {
		return node.InvalidID, err
	}
	var items []node.ID
	for {
		next, err := c.peekEvent()
		if err != nil {
			return node.InvalidID, err
		}
		if next.Type == parser.SequenceEndEvent {
			c.skipEvent()
			break
		}
		item, err := c.composeNode(depth + 1)
		if err != nil {
			return node.InvalidID, err
		}
		items = append(items, item)
	}
	n := c.doc.Node(inner)
	n.Kind = node.SequenceKind
	n.Tag = schema.SeqTag
	n.Seq = items
	n.Pos = ev.Start
	if outer == inner {
		n.Anchor = ev.Anchor
	}
	// A size computed while the collection was still open is stale.
	delete(c.sizes, inner)
	delete(c.sizes, outer)
	return outer, nil
}

func (c *Composer) composeMapping(ev *parser.Event, depth int) (node.ID, error) {
	c.skipEvent()
	inner, outer, err := c.collectionIDs(ev, schema.MapTag)
	if err != nil {
		return node.InvalidID, err
	}
	var keys, values []node.ID
	for {
		next, err := c.peekEvent()
		if err != nil {
			return node.InvalidID, err
		}
		if next.Type == parser.MappingEndEvent {
			c.skipEvent()
			break
		}
		keyToken := next.Token
		key, err := c.composeNode(depth + 1)
		if err != nil {
			return node.InvalidID, err
		}
		value, err := c.composeNode(depth + 1)
		if err != nil {
			return node.InvalidID, err
		}
		dup := -1
		for i := range keys {
			if c.doc.Equal(keys[i], key) {
				dup = i
				break
			}
		}
		if dup >= 0 {
			if !c.cfg.AllowDuplicateKeys {
				return node.InvalidID, errors.ErrSyntax(errors.DuplicateKey,
					"mapping key is already defined earlier in this mapping", keyToken)
			}
			values[dup] = value
			continue
		}
		keys = append(keys, key)
		values = append(values, value)
	}
	n := c.doc.Node(inner)
	n.Kind = node.MappingKind
	n.Tag = schema.MapTag
	n.Keys = keys
	n.Values = values
	n.Pos = ev.Start
	if outer == inner {
		n.Anchor = ev.Anchor
	}
	delete(c.sizes, inner)
	delete(c.sizes, outer)
	return outer, nil
}

func (c *Composer) register(name string, id node.ID, tk *token.Token) error {
	if _, ok := c.doc.Anchors[name]; ok {
		e := errors.ErrSyntax(errors.DuplicateAnchor,
			fmt.Sprintf("anchor &%s is defined more than once; the latest definition wins", name), tk)
		if c.cfg.StrictAnchors {
			return e
		}
		c.warnings = append(c.warnings, e)
	}
	c.doc.Anchors[name] = id
	return nil
}

// expandedSize is the materialization cost of referencing id: the node
// count of its subtree with shared nodes counted once per reference, which
// is what an expansion into a tree would allocate. A node reached through
// its own subtree counts once, so cyclic structures stay referencable.
func (c *Composer) expandedSize(id node.ID) uint64 {
	if v, ok := c.sizes[id]; ok {
		return v
	}
	c.sizes[id] = 1
	total := uint64(1)
	for _, child := range c.doc.Children(id, nil) {
		total = satAdd(total, c.expandedSize(child))
	}
	c.sizes[id] = total
	return total
}

func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
