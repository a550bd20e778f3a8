// Package parser drives a state machine over the token stream and emits the
// flat event sequence (stream/document/collection/scalar/alias) consumed by
// the composer.
package parser

import (
	"fmt"
	"io"

	"github.com/cyrup-ai/go-yyaml/errors"
	"github.com/cyrup-ai/go-yyaml/scanner"
	"github.com/cyrup-ai/go-yyaml/token"
)

type state int

const (
	parseStreamStartState state = iota
	parseImplicitDocumentStartState
	parseDocumentStartState
	parseDocumentContentState
	parseDocumentEndState
	parseBlockNodeState
	parseBlockSequenceFirstEntryState
	parseBlockSequenceEntryState
	parseIndentlessSequenceEntryState
	parseBlockMappingFirstKeyState
	parseBlockMappingKeyState
	parseBlockMappingValueState
	parseFlowSequenceFirstEntryState
	parseFlowSequenceEntryState
	parseFlowSequenceEntryMappingKeyState
	parseFlowSequenceEntryMappingValueState
	parseFlowSequenceEntryMappingEndState
	parseFlowMappingFirstKeyState
	parseFlowMappingKeyState
	parseFlowMappingValueState
	parseFlowMappingEmptyValueState
	parseEndState
)

// Parser converts tokens into events. It pulls tokens lazily from the
// scanner, one lookahead token at a time.
type Parser struct {
	scanner *scanner.Scanner
	state   state
	states  []state

	// contexts holds the tokens opening the currently nested constructs so
	// errors can point back at them.
	contexts []*token.Token

	tk      *token.Token
	tkValid bool

	version           *VersionDirective
	tagDirectives     []TagDirective
	streamEndProduced bool
}

// New creates a parser over src. It fails if src is not valid UTF-8.
func New(src []byte) (*Parser, error) {
	var s scanner.Scanner
	if err := s.Init(src); err != nil {
		return nil, err
	}
	return &Parser{scanner: &s, state: parseStreamStartState}, nil
}

// ParseBytes parses src eagerly and returns the full event sequence.
func ParseBytes(src []byte) ([]*Event, error) {
	p, err := New(src)
	if err != nil {
		return nil, err
	}
	var events []*Event
	for {
		ev, err := p.Parse()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
}

// Parse returns the next event. The end of the event sequence is indicated
// by io.EOF after the StreamEnd event has been returned.
func (p *Parser) Parse() (*Event, error) {
	if p.streamEndProduced {
		return nil, io.EOF
	}
	ev, err := p.stateMachine()
	if err != nil {
		return nil, err
	}
	if ev.Type == StreamEndEvent {
		p.streamEndProduced = true
	}
	return ev, nil
}

func (p *Parser) peekToken() (*token.Token, error) {
	if !p.tkValid {
		tk, err := p.scanner.Scan()
		if err != nil {
			return nil, err
		}
		p.tk = tk
		p.tkValid = true
	}
	return p.tk, nil
}

func (p *Parser) skipToken() {
	p.tkValid = false
}

func (p *Parser) pushState(s state) {
	p.states = append(p.states, s)
}

func (p *Parser) popState() state {
	s := p.states[len(p.states)-1]
	p.states = p.states[:len(p.states)-1]
	return s
}

func (p *Parser) pushContext(tk *token.Token) {
	p.contexts = append(p.contexts, tk)
}

func (p *Parser) popContext() {
	if len(p.contexts) > 0 {
		p.contexts = p.contexts[:len(p.contexts)-1]
	}
}

func (p *Parser) unexpected(msg string, tk *token.Token) error {
	kind := errors.UnexpectedToken
	if tk.Type == token.StreamEndType {
		kind = errors.UnexpectedEOF
	}
	err := errors.ErrSyntax(kind, msg, tk)
	if len(p.contexts) > 0 {
		err = err.WithContext(p.contexts[len(p.contexts)-1])
	}
	return err
}

func (p *Parser) stateMachine() (*Event, error) {
	switch p.state {
	case parseStreamStartState:
		return p.parseStreamStart()
	case parseImplicitDocumentStartState:
		return p.parseDocumentStart(true)
	case parseDocumentStartState:
		return p.parseDocumentStart(false)
	case parseDocumentContentState:
		return p.parseDocumentContent()
	case parseDocumentEndState:
		return p.parseDocumentEnd()
	case parseBlockNodeState:
		return p.parseNode(true, false)
	case parseBlockSequenceFirstEntryState:
		return p.parseBlockSequenceEntry(true)
	case parseBlockSequenceEntryState:
		return p.parseBlockSequenceEntry(false)
	case parseIndentlessSequenceEntryState:
		return p.parseIndentlessSequenceEntry()
	case parseBlockMappingFirstKeyState:
		return p.parseBlockMappingKey(true)
	case parseBlockMappingKeyState:
		return p.parseBlockMappingKey(false)
	case parseBlockMappingValueState:
		return p.parseBlockMappingValue()
	case parseFlowSequenceFirstEntryState:
		return p.parseFlowSequenceEntry(true)
	case parseFlowSequenceEntryState:
		return p.parseFlowSequenceEntry(false)
	case parseFlowSequenceEntryMappingKeyState:
		return p.parseFlowSequenceEntryMappingKey()
	case parseFlowSequenceEntryMappingValueState:
		return p.parseFlowSequenceEntryMappingValue()
	case parseFlowSequenceEntryMappingEndState:
		return p.parseFlowSequenceEntryMappingEnd()
	case parseFlowMappingFirstKeyState:
		return p.parseFlowMappingKey(true)
	case parseFlowMappingKeyState:
		return p.parseFlowMappingKey(false)
	case parseFlowMappingValueState:
		return p.parseFlowMappingValue(false)
	case parseFlowMappingEmptyValueState:
		return p.parseFlowMappingValue(true)
	}
	return nil, io.EOF
}

func (p *Parser) parseStreamStart() (*Event, error) {
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if tk.Type != token.StreamStartType {
		return nil, p.unexpected("did not find expected stream start", tk)
	}
	p.skipToken()
	p.state = parseImplicitDocumentStartState
	return &Event{Type: StreamStartEvent, Start: tk.Start, End: tk.End, Token: tk}, nil
}

func (p *Parser) parseDocumentStart(implicit bool) (*Event, error) {
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if !implicit {
		for tk.Type == token.DocumentEndType {
			p.skipToken()
			tk, err = p.peekToken()
			if err != nil {
				return nil, err
			}
		}
	}
	if implicit &&
		tk.Type != token.VersionDirectiveType &&
		tk.Type != token.TagDirectiveType &&
		tk.Type != token.DocumentStartType &&
		tk.Type != token.StreamEndType {
		if err := p.processDirectives(nil, nil); err != nil {
			return nil, err
		}
		p.pushState(parseDocumentEndState)
		p.state = parseBlockNodeState
		return &Event{
			Type:     DocumentStartEvent,
			Start:    tk.Start,
			End:      tk.Start,
			Implicit: true,
			Token:    tk,
		}, nil
	}
	if tk.Type != token.StreamEndType {
		start := tk.Start
		var version *VersionDirective
		var directives []TagDirective
		if err := p.processDirectives(&version, &directives); err != nil {
			return nil, err
		}
		tk, err = p.peekToken()
		if err != nil {
			return nil, err
		}
		if tk.Type == token.StreamEndType {
			// Directives with no document behind them still produce one
			// document; its content is an empty scalar.
			p.pushState(parseDocumentEndState)
			p.state = parseDocumentContentState
			return &Event{
				Type:          DocumentStartEvent,
				Start:         start,
				End:           tk.Start,
				Implicit:      true,
				Version:       version,
				TagDirectives: directives,
				Token:         tk,
			}, nil
		}
		if tk.Type != token.DocumentStartType {
			return nil, p.unexpected("did not find expected '---' document start", tk)
		}
		p.skipToken()
		p.pushState(parseDocumentEndState)
		p.state = parseDocumentContentState
		return &Event{
			Type:          DocumentStartEvent,
			Start:         start,
			End:           tk.End,
			Version:       version,
			TagDirectives: directives,
			Token:         tk,
		}, nil
	}
	p.skipToken()
	p.state = parseEndState
	return &Event{Type: StreamEndEvent, Start: tk.Start, End: tk.End, Token: tk}, nil
}

func (p *Parser) parseDocumentContent() (*Event, error) {
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	switch tk.Type {
	case token.VersionDirectiveType, token.TagDirectiveType,
		token.DocumentStartType, token.DocumentEndType, token.StreamEndType:
		p.state = p.popState()
		return p.processEmptyScalar(tk.Start, tk), nil
	}
	return p.parseNode(true, false)
}

func (p *Parser) parseDocumentEnd() (*Event, error) {
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	implicit := true
	if tk.Type == token.DocumentEndType {
		p.skipToken()
		implicit = false
	}
	p.version = nil
	p.tagDirectives = p.tagDirectives[:0]
	p.state = parseDocumentStartState
	return &Event{
		Type:     DocumentEndEvent,
		Start:    tk.Start,
		End:      tk.End,
		Implicit: implicit,
		Token:    tk,
	}, nil
}

var defaultTagDirectives = []TagDirective{
	{Handle: "!", Prefix: "!"},
	{Handle: "!!", Prefix: "tag:yaml.org,2002:"},
}

// processDirectives consumes directive tokens in front of a document and
// fills the per-document directive table. A %YAML version other than 1.x is
// rejected; 1.1 is accepted and resolved with 1.2 rules.
func (p *Parser) processDirectives(version **VersionDirective, directives *[]TagDirective) error {
	for {
		tk, err := p.peekToken()
		if err != nil {
			return err
		}
		switch tk.Type {
		case token.VersionDirectiveType:
			if p.version != nil {
				return errors.ErrSyntax(errors.InvalidDirective,
					"found duplicate %YAML directive", tk)
			}
			if tk.Major != 1 {
				return errors.ErrSyntax(errors.InvalidDirective,
					fmt.Sprintf("found incompatible YAML version %d.%d", tk.Major, tk.Minor), tk)
			}
			p.version = &VersionDirective{Major: tk.Major, Minor: tk.Minor}
			if version != nil {
				*version = p.version
			}
			p.skipToken()
		case token.TagDirectiveType:
			directive := TagDirective{Handle: tk.Handle, Prefix: tk.Value}
			for _, d := range p.tagDirectives {
				if d.Handle == directive.Handle {
					return errors.ErrSyntax(errors.InvalidDirective,
						fmt.Sprintf("found duplicate %%TAG directive for handle %q", directive.Handle), tk)
				}
			}
			p.tagDirectives = append(p.tagDirectives, directive)
			if directives != nil {
				*directives = append(*directives, directive)
			}
			p.skipToken()
		default:
			for _, d := range defaultTagDirectives {
				exists := false
				for _, t := range p.tagDirectives {
					if t.Handle == d.Handle {
						exists = true
						break
					}
				}
				if !exists {
					p.tagDirectives = append(p.tagDirectives, d)
				}
			}
			return nil
		}
	}
}

func (p *Parser) resolveTag(tk *token.Token) (string, error) {
	if tk.Handle == "" {
		// verbatim tag
		return tk.Value, nil
	}
	for _, d := range p.tagDirectives {
		if d.Handle == tk.Handle {
			return d.Prefix + tk.Value, nil
		}
	}
	return "", errors.ErrSyntax(errors.InvalidDirective,
		fmt.Sprintf("found undefined tag handle %q", tk.Handle), tk)
}

func (p *Parser) processEmptyScalar(pos *token.Position, tk *token.Token) *Event {
	return &Event{
		Type:     ScalarEvent,
		Start:    pos,
		End:      pos,
		Style:    token.PlainStyle,
		Implicit: true,
		Token:    tk,
	}
}

// parseNode parses a complete node: properties followed by an alias, a
// scalar or a collection start. indentlessSequence permits the
// 'key:\n- item' form where the sequence shares its parent's indentation.
func (p *Parser) parseNode(block, indentlessSequence bool) (*Event, error) {
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if tk.Type == token.AliasType {
		p.skipToken()
		p.state = p.popState()
		return &Event{
			Type:  AliasEvent,
			Start: tk.Start,
			End:   tk.End,
			Value: tk.Value,
			Token: tk,
		}, nil
	}

	start := tk.Start
	var anchor string
	var tag string
	var hasTag bool
	var tagToken *token.Token

	if tk.Type == token.AnchorType {
		anchor = tk.Value
		p.skipToken()
		tk, err = p.peekToken()
		if err != nil {
			return nil, err
		}
		if tk.Type == token.TagType {
			tagToken = tk
			hasTag = true
			p.skipToken()
			tk, err = p.peekToken()
			if err != nil {
				return nil, err
			}
		}
	} else if tk.Type == token.TagType {
		tagToken = tk
		hasTag = true
		p.skipToken()
		tk, err = p.peekToken()
		if err != nil {
			return nil, err
		}
		if tk.Type == token.AnchorType {
			anchor = tk.Value
			p.skipToken()
			tk, err = p.peekToken()
			if err != nil {
				return nil, err
			}
		}
	}
	if hasTag {
		tag, err = p.resolveTag(tagToken)
		if err != nil {
			return nil, err
		}
	}

	if tk.Type == token.AliasType {
		if hasTag {
			return nil, p.unexpected("an alias node cannot carry a tag", tk)
		}
		// An anchored alias is resolved by the composer; the alias target
		// has to exist already, so '&a *a' fails there.
		p.skipToken()
		p.state = p.popState()
		return &Event{
			Type:   AliasEvent,
			Start:  start,
			End:    tk.End,
			Anchor: anchor,
			Value:  tk.Value,
			Token:  tk,
		}, nil
	}

	switch tk.Type {
	case token.ScalarType:
		p.skipToken()
		p.state = p.popState()
		return &Event{
			Type:           ScalarEvent,
			Start:          start,
			End:            tk.End,
			Anchor:         anchor,
			Tag:            tag,
			Value:          tk.Value,
			Style:          tk.Style,
			Implicit:       !hasTag && tk.Style == token.PlainStyle,
			QuotedImplicit: !hasTag && tk.Style != token.PlainStyle,
			Token:          tk,
		}, nil
	case token.FlowSequenceStartType:
		p.pushContext(tk)
		p.state = parseFlowSequenceFirstEntryState
		return &Event{
			Type:            SequenceStartEvent,
			Start:           start,
			End:             tk.End,
			Anchor:          anchor,
			Tag:             tag,
			CollectionStyle: FlowStyle,
			Token:           tk,
		}, nil
	case token.FlowMappingStartType:
		p.pushContext(tk)
		p.state = parseFlowMappingFirstKeyState
		return &Event{
			Type:            MappingStartEvent,
			Start:           start,
			End:             tk.End,
			Anchor:          anchor,
			Tag:             tag,
			CollectionStyle: FlowStyle,
			Token:           tk,
		}, nil
	}
	if block {
		switch tk.Type {
		case token.BlockSequenceStartType:
			p.pushContext(tk)
			p.state = parseBlockSequenceFirstEntryState
			return &Event{
				Type:            SequenceStartEvent,
				Start:           start,
				End:             tk.End,
				Anchor:          anchor,
				Tag:             tag,
				CollectionStyle: BlockStyle,
				Token:           tk,
			}, nil
		case token.BlockMappingStartType:
			p.pushContext(tk)
			p.state = parseBlockMappingFirstKeyState
			return &Event{
				Type:            MappingStartEvent,
				Start:           start,
				End:             tk.End,
				Anchor:          anchor,
				Tag:             tag,
				CollectionStyle: BlockStyle,
				Token:           tk,
			}, nil
		}
	}
	if indentlessSequence && tk.Type == token.BlockEntryType {
		p.state = parseIndentlessSequenceEntryState
		return &Event{
			Type:            SequenceStartEvent,
			Start:           start,
			End:             tk.End,
			Anchor:          anchor,
			Tag:             tag,
			CollectionStyle: BlockStyle,
			Token:           tk,
		}, nil
	}
	if anchor != "" || hasTag {
		// Properties without content stand for an empty scalar, as in
		// 'key: !!str' or a bare '&a'.
		p.state = p.popState()
		return &Event{
			Type:     ScalarEvent,
			Start:    start,
			End:      start,
			Anchor:   anchor,
			Tag:      tag,
			Style:    token.PlainStyle,
			Implicit: !hasTag,
			Token:    tk,
		}, nil
	}
	return nil, p.unexpected("did not find expected node content", tk)
}

func (p *Parser) parseBlockSequenceEntry(first bool) (*Event, error) {
	if first {
		if _, err := p.peekToken(); err != nil {
			return nil, err
		}
		p.skipToken() // BlockSequenceStart
	}
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	switch tk.Type {
	case token.BlockEntryType:
		p.skipToken()
		next, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		if next.Type == token.BlockEntryType || next.Type == token.BlockEndType {
			p.state = parseBlockSequenceEntryState
			return p.processEmptyScalar(tk.End, tk), nil
		}
		p.pushState(parseBlockSequenceEntryState)
		return p.parseNode(true, false)
	case token.BlockEndType:
		p.skipToken()
		p.popContext()
		p.state = p.popState()
		return &Event{Type: SequenceEndEvent, Start: tk.Start, End: tk.End, Token: tk}, nil
	}
	return nil, p.unexpected("did not find expected '-' indicator", tk)
}

func (p *Parser) parseIndentlessSequenceEntry() (*Event, error) {
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if tk.Type == token.BlockEntryType {
		p.skipToken()
		next, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		switch next.Type {
		case token.BlockEntryType, token.KeyType, token.ValueType, token.BlockEndType:
			p.state = parseIndentlessSequenceEntryState
			return p.processEmptyScalar(tk.End, tk), nil
		}
		p.pushState(parseIndentlessSequenceEntryState)
		return p.parseNode(true, false)
	}
	p.state = p.popState()
	return &Event{Type: SequenceEndEvent, Start: tk.Start, End: tk.Start, Token: tk}, nil
}

func (p *Parser) parseBlockMappingKey(first bool) (*Event, error) {
	if first {
		if _, err := p.peekToken(); err != nil {
			return nil, err
		}
		p.skipToken() // BlockMappingStart
	}
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	switch tk.Type {
	case token.KeyType:
		p.skipToken()
		next, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		switch next.Type {
		case token.KeyType, token.ValueType, token.BlockEndType:
			p.state = parseBlockMappingValueState
			return p.processEmptyScalar(tk.End, tk), nil
		}
		p.pushState(parseBlockMappingValueState)
		return p.parseNode(true, true)
	case token.ValueType:
		// A value with no key, as in ': v'. The key is an empty scalar.
		p.state = parseBlockMappingValueState
		return p.processEmptyScalar(tk.Start, tk), nil
	case token.BlockEndType:
		p.skipToken()
		p.popContext()
		p.state = p.popState()
		return &Event{Type: MappingEndEvent, Start: tk.Start, End: tk.End, Token: tk}, nil
	}
	return nil, p.unexpected("did not find expected key", tk)
}

func (p *Parser) parseBlockMappingValue() (*Event, error) {
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if tk.Type == token.ValueType {
		p.skipToken()
		next, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		switch next.Type {
		case token.KeyType, token.ValueType, token.BlockEndType:
			p.state = parseBlockMappingKeyState
			return p.processEmptyScalar(tk.End, tk), nil
		}
		p.pushState(parseBlockMappingKeyState)
		return p.parseNode(true, true)
	}
	p.state = parseBlockMappingKeyState
	return p.processEmptyScalar(tk.Start, tk), nil
}

func (p *Parser) parseFlowSequenceEntry(first bool) (*Event, error) {
	if first {
		if _, err := p.peekToken(); err != nil {
			return nil, err
		}
		p.skipToken() // FlowSequenceStart
	}
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if tk.Type != token.FlowSequenceEndType {
		if !first {
			if tk.Type != token.FlowEntryType {
				return nil, p.unexpected("did not find expected ',' or ']'", tk)
			}
			p.skipToken()
			tk, err = p.peekToken()
			if err != nil {
				return nil, err
			}
		}
		if tk.Type == token.KeyType {
			// '[ key: value ]' expands to a single-pair flow mapping.
			p.skipToken()
			p.state = parseFlowSequenceEntryMappingKeyState
			return &Event{
				Type:            MappingStartEvent,
				Start:           tk.Start,
				End:             tk.End,
				CollectionStyle: FlowStyle,
				Token:           tk,
			}, nil
		}
		if tk.Type != token.FlowSequenceEndType {
			p.pushState(parseFlowSequenceEntryState)
			return p.parseNode(false, false)
		}
	}
	p.skipToken()
	p.popContext()
	p.state = p.popState()
	return &Event{Type: SequenceEndEvent, Start: tk.Start, End: tk.End, Token: tk}, nil
}

func (p *Parser) parseFlowSequenceEntryMappingKey() (*Event, error) {
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	switch tk.Type {
	case token.ValueType, token.FlowEntryType, token.FlowSequenceEndType:
		p.state = parseFlowSequenceEntryMappingValueState
		return p.processEmptyScalar(tk.Start, tk), nil
	}
	p.pushState(parseFlowSequenceEntryMappingValueState)
	return p.parseNode(false, false)
}

func (p *Parser) parseFlowSequenceEntryMappingValue() (*Event, error) {
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if tk.Type == token.ValueType {
		p.skipToken()
		next, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		if next.Type != token.FlowEntryType && next.Type != token.FlowSequenceEndType {
			p.pushState(parseFlowSequenceEntryMappingEndState)
			return p.parseNode(false, false)
		}
		p.state = parseFlowSequenceEntryMappingEndState
		return p.processEmptyScalar(tk.End, tk), nil
	}
	p.state = parseFlowSequenceEntryMappingEndState
	return p.processEmptyScalar(tk.Start, tk), nil
}

func (p *Parser) parseFlowSequenceEntryMappingEnd() (*Event, error) {
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	p.state = parseFlowSequenceEntryState
	return &Event{Type: MappingEndEvent, Start: tk.Start, End: tk.Start, Token: tk}, nil
}

func (p *Parser) parseFlowMappingKey(first bool) (*Event, error) {
	if first {
		if _, err := p.peekToken(); err != nil {
			return nil, err
		}
		p.skipToken() // FlowMappingStart
	}
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if tk.Type != token.FlowMappingEndType {
		if !first {
			if tk.Type != token.FlowEntryType {
				return nil, p.unexpected("did not find expected ',' or '}'", tk)
			}
			p.skipToken()
			tk, err = p.peekToken()
			if err != nil {
				return nil, err
			}
		}
		if tk.Type == token.KeyType {
			p.skipToken()
			next, err := p.peekToken()
			if err != nil {
				return nil, err
			}
			switch next.Type {
			case token.ValueType, token.FlowEntryType, token.FlowMappingEndType:
				p.state = parseFlowMappingValueState
				return p.processEmptyScalar(tk.End, tk), nil
			}
			p.pushState(parseFlowMappingValueState)
			return p.parseNode(false, false)
		}
		if tk.Type != token.FlowMappingEndType {
			// An entry with no ':' at all, as in '{a}': the node is the
			// key and its value is empty.
			p.pushState(parseFlowMappingEmptyValueState)
			return p.parseNode(false, false)
		}
	}
	p.skipToken()
	p.popContext()
	p.state = p.popState()
	return &Event{Type: MappingEndEvent, Start: tk.Start, End: tk.End, Token: tk}, nil
}

func (p *Parser) parseFlowMappingValue(empty bool) (*Event, error) {
	tk, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if empty {
		p.state = parseFlowMappingKeyState
		return p.processEmptyScalar(tk.Start, tk), nil
	}
	if tk.Type == token.ValueType {
		p.skipToken()
		next, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		if next.Type != token.FlowEntryType && next.Type != token.FlowMappingEndType {
			p.pushState(parseFlowMappingKeyState)
			return p.parseNode(false, false)
		}
		tk = next
	}
	p.state = parseFlowMappingKeyState
	return p.processEmptyScalar(tk.Start, tk), nil
}
