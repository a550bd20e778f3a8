package token

import "fmt"

// Type is the identifier of a token.
type Type int

const (
	// UnknownType type identifier for invalid or unscanned tokens
	UnknownType Type = iota
	// StreamStartType type identifier for the start of the token stream
	StreamStartType
	// StreamEndType type identifier for the end of the token stream
	StreamEndType
	// VersionDirectiveType type identifier for a %YAML directive
	VersionDirectiveType
	// TagDirectiveType type identifier for a %TAG directive
	TagDirectiveType
	// DocumentStartType type identifier for the '---' marker
	DocumentStartType
	// DocumentEndType type identifier for the '...' marker
	DocumentEndType
	// BlockSequenceStartType synthetic token opening an indentation-delimited sequence
	BlockSequenceStartType
	// BlockMappingStartType synthetic token opening an indentation-delimited mapping
	BlockMappingStartType
	// BlockEndType synthetic token closing a block collection
	BlockEndType
	// FlowSequenceStartType type identifier for '['
	FlowSequenceStartType
	// FlowSequenceEndType type identifier for ']'
	FlowSequenceEndType
	// FlowMappingStartType type identifier for '{'
	FlowMappingStartType
	// FlowMappingEndType type identifier for '}'
	FlowMappingEndType
	// BlockEntryType type identifier for the '-' indicator
	BlockEntryType
	// FlowEntryType type identifier for ','
	FlowEntryType
	// KeyType type identifier for an explicit or detected mapping key
	KeyType
	// ValueType type identifier for ':'
	ValueType
	// AliasType type identifier for '*name'
	AliasType
	// AnchorType type identifier for '&name'
	AnchorType
	// TagType type identifier for '!', '!!suffix' and '!handle!suffix'
	TagType
	// ScalarType type identifier for scalar content in any style
	ScalarType
)

// String type identifier to text
func (t Type) String() string {
	switch t {
	case UnknownType:
		return "Unknown"
	case StreamStartType:
		return "StreamStart"
	case StreamEndType:
		return "StreamEnd"
	case VersionDirectiveType:
		return "VersionDirective"
	case TagDirectiveType:
		return "TagDirective"
	case DocumentStartType:
		return "DocumentStart"
	case DocumentEndType:
		return "DocumentEnd"
	case BlockSequenceStartType:
		return "BlockSequenceStart"
	case BlockMappingStartType:
		return "BlockMappingStart"
	case BlockEndType:
		return "BlockEnd"
	case FlowSequenceStartType:
		return "FlowSequenceStart"
	case FlowSequenceEndType:
		return "FlowSequenceEnd"
	case FlowMappingStartType:
		return "FlowMappingStart"
	case FlowMappingEndType:
		return "FlowMappingEnd"
	case BlockEntryType:
		return "BlockEntry"
	case FlowEntryType:
		return "FlowEntry"
	case KeyType:
		return "Key"
	case ValueType:
		return "Value"
	case AliasType:
		return "Alias"
	case AnchorType:
		return "Anchor"
	case TagType:
		return "Tag"
	case ScalarType:
		return "Scalar"
	}
	return ""
}

// ScalarStyle style of a scalar token.
type ScalarStyle int

const (
	// AnyStyle placeholder used before a style is known
	AnyStyle ScalarStyle = iota
	// PlainStyle unquoted scalar
	PlainStyle
	// SingleQuotedStyle scalar written in single quotes
	SingleQuotedStyle
	// DoubleQuotedStyle scalar written in double quotes
	DoubleQuotedStyle
	// LiteralStyle block scalar introduced by '|'
	LiteralStyle
	// FoldedStyle block scalar introduced by '>'
	FoldedStyle
)

// String style identifier to text
func (s ScalarStyle) String() string {
	switch s {
	case PlainStyle:
		return "Plain"
	case SingleQuotedStyle:
		return "SingleQuoted"
	case DoubleQuotedStyle:
		return "DoubleQuoted"
	case LiteralStyle:
		return "Literal"
	case FoldedStyle:
		return "Folded"
	}
	return "Any"
}

// Position of a token in the source text. Line and Column are 1-based,
// Offset counts decoded characters from the beginning of the input.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String position to text
func (p *Position) String() string {
	return fmt.Sprintf("[line:%d,column:%d,offset:%d]", p.Line, p.Column, p.Offset)
}

// Token is one lexical unit of the input. Value carries the decoded scalar
// content, the anchor/alias name or the tag suffix depending on Type.
// Origin preserves the raw source text including surrounding whitespace so
// error excerpts can reproduce the input verbatim.
type Token struct {
	Type   Type
	Style  ScalarStyle
	Value  string
	Handle string // tag handle or %TAG directive handle
	Major  int    // %YAML directive major version
	Minor  int    // %YAML directive minor version
	Origin string
	Error  string // message for invalid tokens
	Start  *Position
	End    *Position
	Next   *Token
	Prev   *Token
}

// NextType returns the type of the following token.
func (t *Token) NextType() Type {
	if t.Next != nil {
		return t.Next.Type
	}
	return UnknownType
}

// PreviousType returns the type of the preceding token.
func (t *Token) PreviousType() Type {
	if t.Prev != nil {
		return t.Prev.Type
	}
	return UnknownType
}

// Tokens token collection
type Tokens []*Token

func (t *Tokens) add(tk *Token) {
	tokens := *t
	if len(tokens) != 0 {
		last := tokens[len(tokens)-1]
		last.Next = tk
		tk.Prev = last
	}
	tokens = append(tokens, tk)
	*t = tokens
}

// Add append tokens to the collection keeping prev/next links.
func (t *Tokens) Add(tks ...*Token) {
	for _, tk := range tks {
		t.add(tk)
	}
}

// InvalidToken returns the first token carrying a scan error, if any.
func (t Tokens) InvalidToken() *Token {
	for _, tk := range t {
		if tk.Error != "" {
			return tk
		}
	}
	return nil
}

// Dump prints the token collection for debugging.
func (t Tokens) Dump() {
	for _, tk := range t {
		fmt.Printf("- %s %q %s\n", tk.Type, tk.Value, tk.Start)
	}
}

func span(start, end *Position) (*Position, *Position) {
	if end == nil {
		end = start
	}
	return start, end
}

// StreamStart creates the token opening the stream.
func StreamStart(pos *Position) *Token {
	return &Token{Type: StreamStartType, Start: pos, End: pos}
}

// StreamEnd creates the token closing the stream.
func StreamEnd(pos *Position) *Token {
	return &Token{Type: StreamEndType, Start: pos, End: pos}
}

// VersionDirective creates a token for '%YAML major.minor'.
func VersionDirective(major, minor int, org string, start, end *Position) *Token {
	start, end = span(start, end)
	return &Token{Type: VersionDirectiveType, Major: major, Minor: minor, Origin: org, Start: start, End: end}
}

// TagDirective creates a token for '%TAG handle prefix'.
func TagDirective(handle, prefix, org string, start, end *Position) *Token {
	start, end = span(start, end)
	return &Token{Type: TagDirectiveType, Handle: handle, Value: prefix, Origin: org, Start: start, End: end}
}

// DocumentStart creates a token for the '---' marker.
func DocumentStart(org string, start, end *Position) *Token {
	start, end = span(start, end)
	return &Token{Type: DocumentStartType, Value: "---", Origin: org, Start: start, End: end}
}

// DocumentEnd creates a token for the '...' marker.
func DocumentEnd(org string, start, end *Position) *Token {
	start, end = span(start, end)
	return &Token{Type: DocumentEndType, Value: "...", Origin: org, Start: start, End: end}
}

// BlockSequenceStart creates the synthetic token opening a block sequence.
func BlockSequenceStart(pos *Position) *Token {
	return &Token{Type: BlockSequenceStartType, Start: pos, End: pos}
}

// BlockMappingStart creates the synthetic token opening a block mapping.
func BlockMappingStart(pos *Position) *Token {
	return &Token{Type: BlockMappingStartType, Start: pos, End: pos}
}

// BlockEnd creates the synthetic token closing a block collection.
func BlockEnd(pos *Position) *Token {
	return &Token{Type: BlockEndType, Start: pos, End: pos}
}

// FlowSequenceStart creates a token for '['.
func FlowSequenceStart(org string, pos *Position) *Token {
	return &Token{Type: FlowSequenceStartType, Value: "[", Origin: org, Start: pos, End: pos}
}

// FlowSequenceEnd creates a token for ']'.
func FlowSequenceEnd(org string, pos *Position) *Token {
	return &Token{Type: FlowSequenceEndType, Value: "]", Origin: org, Start: pos, End: pos}
}

// FlowMappingStart creates a token for '{'.
func FlowMappingStart(org string, pos *Position) *Token {
	return &Token{Type: FlowMappingStartType, Value: "{", Origin: org, Start: pos, End: pos}
}

// FlowMappingEnd creates a token for '}'.
func FlowMappingEnd(org string, pos *Position) *Token {
	return &Token{Type: FlowMappingEndType, Value: "}", Origin: org, Start: pos, End: pos}
}

// BlockEntry creates a token for the '-' indicator.
func BlockEntry(org string, pos *Position) *Token {
	return &Token{Type: BlockEntryType, Value: "-", Origin: org, Start: pos, End: pos}
}

// FlowEntry creates a token for ','.
func FlowEntry(org string, pos *Position) *Token {
	return &Token{Type: FlowEntryType, Value: ",", Origin: org, Start: pos, End: pos}
}

// Key creates a token for an explicit '?' key or a detected simple key.
func Key(org string, pos *Position) *Token {
	return &Token{Type: KeyType, Value: "?", Origin: org, Start: pos, End: pos}
}

// Value creates a token for ':'.
func Value(org string, pos *Position) *Token {
	return &Token{Type: ValueType, Value: ":", Origin: org, Start: pos, End: pos}
}

// Alias creates a token for '*name'.
func Alias(name, org string, start, end *Position) *Token {
	start, end = span(start, end)
	return &Token{Type: AliasType, Value: name, Origin: org, Start: start, End: end}
}

// Anchor creates a token for '&name'.
func Anchor(name, org string, start, end *Position) *Token {
	start, end = span(start, end)
	return &Token{Type: AnchorType, Value: name, Origin: org, Start: start, End: end}
}

// Tag creates a token for a tag property. The handle is "!", "!!" or
// "!name!" for shorthands, empty for verbatim tags.
func Tag(handle, suffix, org string, start, end *Position) *Token {
	start, end = span(start, end)
	return &Token{Type: TagType, Handle: handle, Value: suffix, Origin: org, Start: start, End: end}
}

// Scalar creates a token for scalar content.
func Scalar(value string, style ScalarStyle, org string, start, end *Position) *Token {
	start, end = span(start, end)
	return &Token{Type: ScalarType, Style: style, Value: value, Origin: org, Start: start, End: end}
}

// Invalid creates a placeholder token for source text that could not be
// scanned. The message is carried on the token so errors can render it.
func Invalid(msg, org string, pos *Position) *Token {
	return &Token{Type: UnknownType, Error: msg, Origin: org, Start: pos, End: pos}
}
