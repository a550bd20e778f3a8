package parser

import (
	"fmt"
	"strings"

	"github.com/cyrup-ai/go-yyaml/token"
)

// EventType is the identifier of a parsing event.
type EventType int

const (
	// NoEvent placeholder for an unset event
	NoEvent EventType = iota
	// StreamStartEvent emitted once before any document
	StreamStartEvent
	// StreamEndEvent emitted once after the last document
	StreamEndEvent
	// DocumentStartEvent emitted at the start of each document
	DocumentStartEvent
	// DocumentEndEvent emitted at the end of each document
	DocumentEndEvent
	// AliasEvent a reference to a previously anchored node
	AliasEvent
	// ScalarEvent a scalar node
	ScalarEvent
	// SequenceStartEvent opens a sequence node
	SequenceStartEvent
	// SequenceEndEvent closes a sequence node
	SequenceEndEvent
	// MappingStartEvent opens a mapping node
	MappingStartEvent
	// MappingEndEvent closes a mapping node
	MappingEndEvent
)

// String event type identifier to text
func (t EventType) String() string {
	switch t {
	case StreamStartEvent:
		return "StreamStart"
	case StreamEndEvent:
		return "StreamEnd"
	case DocumentStartEvent:
		return "DocumentStart"
	case DocumentEndEvent:
		return "DocumentEnd"
	case AliasEvent:
		return "Alias"
	case ScalarEvent:
		return "Scalar"
	case SequenceStartEvent:
		return "SequenceStart"
	case SequenceEndEvent:
		return "SequenceEnd"
	case MappingStartEvent:
		return "MappingStart"
	case MappingEndEvent:
		return "MappingEnd"
	}
	return "None"
}

// CollectionStyle distinguishes block and flow collections.
type CollectionStyle int

const (
	// BlockStyle indentation-delimited collection
	BlockStyle CollectionStyle = iota
	// FlowStyle bracket-delimited collection
	FlowStyle
)

// VersionDirective is a parsed %YAML directive.
type VersionDirective struct {
	Major int
	Minor int
}

// TagDirective is a parsed %TAG directive.
type TagDirective struct {
	Handle string
	Prefix string
}

// Event is one element of the flat event sequence describing a document.
// Start events and their matching End events are strictly nested; Alias is
// a leaf.
type Event struct {
	Type  EventType
	Start *token.Position
	End   *token.Position

	// Anchor and Tag qualify node events. Tag carries the fully resolved
	// form (shorthands already expanded through the directive table).
	Anchor string
	Tag    string

	// Scalar payload.
	Value          string
	Style          token.ScalarStyle
	Implicit       bool // untagged plain scalar / document without marker
	QuotedImplicit bool // untagged non-plain scalar

	CollectionStyle CollectionStyle

	Version       *VersionDirective
	TagDirectives []TagDirective

	// Token is the source token the event was produced from, kept for
	// error reporting downstream.
	Token *token.Token
}

func escapeValue(v string) string {
	r := strings.NewReplacer("\\", "\\\\", "\n", "\\n", "\t", "\\t", "\r", "\\r")
	return r.Replace(v)
}

func (e *Event) properties() string {
	var sb strings.Builder
	if e.Anchor != "" {
		sb.WriteString(" &")
		sb.WriteString(e.Anchor)
	}
	if e.Tag != "" {
		sb.WriteString(" <")
		sb.WriteString(e.Tag)
		sb.WriteString(">")
	}
	return sb.String()
}

// String renders the event in the compact test-suite notation
// (+STR, +DOC, +MAP, =VAL, ...).
func (e *Event) String() string {
	switch e.Type {
	case StreamStartEvent:
		return "+STR"
	case StreamEndEvent:
		return "-STR"
	case DocumentStartEvent:
		if e.Implicit {
			return "+DOC"
		}
		return "+DOC ---"
	case DocumentEndEvent:
		if e.Implicit {
			return "-DOC"
		}
		return "-DOC ..."
	case SequenceStartEvent:
		if e.CollectionStyle == FlowStyle {
			return "+SEQ []" + e.properties()
		}
		return "+SEQ" + e.properties()
	case SequenceEndEvent:
		return "-SEQ"
	case MappingStartEvent:
		if e.CollectionStyle == FlowStyle {
			return "+MAP {}" + e.properties()
		}
		return "+MAP" + e.properties()
	case MappingEndEvent:
		return "-MAP"
	case AliasEvent:
		return "=ALI *" + e.Value
	case ScalarEvent:
		indicator := ":"
		switch e.Style {
		case token.SingleQuotedStyle:
			indicator = "'"
		case token.DoubleQuotedStyle:
			indicator = "\""
		case token.LiteralStyle:
			indicator = "|"
		case token.FoldedStyle:
			indicator = ">"
		}
		return fmt.Sprintf("=VAL%s %s%s", e.properties(), indicator, escapeValue(e.Value))
	}
	return "???"
}
