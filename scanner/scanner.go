// Package scanner converts a character stream into a token stream while
// tracking indentation, simple-key candidacy and flow-nesting depth.
// Synthetic BlockMappingStart/BlockSequenceStart/BlockEnd tokens are
// produced from indentation transitions; they never appear in the source.
package scanner

import (
	"fmt"
	"io"

	"github.com/cyrup-ai/go-yyaml/errors"
	"github.com/cyrup-ai/go-yyaml/token"
)

// simpleKey is a candidate for a Key token that may be injected
// retroactively once a ':' is seen on the same line.
type simpleKey struct {
	possible    bool
	required    bool
	tokenNumber int
	pos         *token.Position
}

// Scanner holds the scanner's internal state while processing a given text.
// It must be initialized via Init before use.
type Scanner struct {
	src    []rune
	idx    int
	line   int
	column int
	offset int

	// orgStart marks where the raw text of the next token begins, so every
	// token's Origin covers the whitespace and comments preceding it and
	// concatenating origins reproduces the input.
	orgStart int

	tokens       token.Tokens
	head         int
	tokensParsed int
	lastScanned  *token.Token

	indent  int
	indents []int

	simpleKeys     []simpleKey
	flowLevel      int
	allowSimpleKey bool

	streamStartProduced bool
	streamEndProduced   bool
}

// Init prepares the scanner to tokenize src. It fails if src is not valid
// UTF-8.
func (s *Scanner) Init(src []byte) error {
	runes, err := decode(src)
	if err != nil {
		return err
	}
	s.src = runes
	s.idx = 0
	s.line = 1
	s.column = 1
	s.offset = 0
	s.orgStart = 0
	s.tokens = s.tokens[:0]
	s.head = 0
	s.tokensParsed = 0
	s.lastScanned = nil
	s.indent = 0
	s.indents = s.indents[:0]
	s.simpleKeys = s.simpleKeys[:0]
	s.flowLevel = 0
	s.allowSimpleKey = true
	s.streamStartProduced = false
	s.streamEndProduced = false
	return nil
}

// Scan returns the next token. The end of the stream is indicated by io.EOF
// after the StreamEnd token has been returned.
func (s *Scanner) Scan() (*token.Token, error) {
	if s.streamEndProduced {
		return nil, io.EOF
	}
	for s.needMoreTokens() {
		if err := s.fetchNextToken(); err != nil {
			return nil, err
		}
	}
	tk := s.tokens[s.head]
	s.head++
	s.tokensParsed++
	if s.head == len(s.tokens) {
		s.tokens = s.tokens[:0]
		s.head = 0
	}
	if tk.Type == token.StreamEndType {
		s.streamEndProduced = true
	}
	if s.lastScanned != nil {
		s.lastScanned.Next = tk
		tk.Prev = s.lastScanned
	}
	s.lastScanned = tk
	return tk, nil
}

func (s *Scanner) peek(k int) rune {
	if s.idx+k < len(s.src) {
		return s.src[s.idx+k]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.idx >= len(s.src) {
		return
	}
	if s.src[s.idx] == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	s.idx++
	s.offset++
}

func (s *Scanner) advanceN(n int) {
	for i := 0; i < n; i++ {
		s.advance()
	}
}

func (s *Scanner) mark() *token.Position {
	return &token.Position{Line: s.line, Column: s.column, Offset: s.offset}
}

// origin returns the raw source consumed since the previous token was cut.
func (s *Scanner) origin() string {
	org := string(s.src[s.orgStart:s.idx])
	s.orgStart = s.idx
	return org
}

func (s *Scanner) push(tk *token.Token) {
	s.tokens = append(s.tokens, tk)
}

// insert places a token at an absolute token number, shifting queued tokens
// right. Used to inject Key and BlockMappingStart tokens retroactively at a
// simple-key position.
func (s *Scanner) insert(number int, tk *token.Token) {
	pos := s.head + (number - s.tokensParsed)
	s.tokens = append(s.tokens, nil)
	copy(s.tokens[pos+1:], s.tokens[pos:])
	s.tokens[pos] = tk
}

func (s *Scanner) queued() int {
	return len(s.tokens) - s.head
}

func (s *Scanner) needMoreTokens() bool {
	if s.queued() == 0 {
		return true
	}
	// The next queued token may still receive a Key in front of it.
	for i := range s.simpleKeys {
		if s.simpleKeys[i].possible && s.simpleKeys[i].tokenNumber == s.tokensParsed {
			return true
		}
	}
	return false
}

func (s *Scanner) errInvalid(kind errors.Kind, msg string, pos *token.Position) error {
	return errors.ErrSyntax(kind, msg, token.Invalid(msg, s.origin(), pos))
}

func (s *Scanner) fetchNextToken() error {
	if !s.streamStartProduced {
		return s.fetchStreamStart()
	}
	if err := s.scanToNextToken(); err != nil {
		return err
	}
	if err := s.staleSimpleKeys(); err != nil {
		return err
	}
	if s.flowLevel == 0 {
		if err := s.unrollIndent(s.column); err != nil {
			return err
		}
	}
	c := s.peek(0)
	if c == 0 {
		return s.fetchStreamEnd()
	}
	if s.column == 1 && c == '%' {
		return s.fetchDirective()
	}
	if s.column == 1 && c == '-' && s.peek(1) == '-' && s.peek(2) == '-' && isBlankz(s.peek(3)) {
		return s.fetchDocumentIndicator(token.DocumentStartType)
	}
	if s.column == 1 && c == '.' && s.peek(1) == '.' && s.peek(2) == '.' && isBlankz(s.peek(3)) {
		return s.fetchDocumentIndicator(token.DocumentEndType)
	}
	switch c {
	case '[':
		return s.fetchFlowCollectionStart(token.FlowSequenceStartType)
	case '{':
		return s.fetchFlowCollectionStart(token.FlowMappingStartType)
	case ']':
		return s.fetchFlowCollectionEnd(token.FlowSequenceEndType)
	case '}':
		return s.fetchFlowCollectionEnd(token.FlowMappingEndType)
	case ',':
		return s.fetchFlowEntry()
	case '-':
		if isBlankz(s.peek(1)) {
			return s.fetchBlockEntry()
		}
	case '?':
		if s.flowLevel > 0 || isBlankz(s.peek(1)) {
			return s.fetchKey()
		}
	case ':':
		if s.flowLevel > 0 || isBlankz(s.peek(1)) {
			return s.fetchValue()
		}
	case '*':
		return s.fetchAnchor(token.AliasType)
	case '&':
		return s.fetchAnchor(token.AnchorType)
	case '!':
		return s.fetchTag()
	case '|':
		if s.flowLevel == 0 {
			return s.fetchBlockScalar(token.LiteralStyle)
		}
	case '>':
		if s.flowLevel == 0 {
			return s.fetchBlockScalar(token.FoldedStyle)
		}
	case '\'':
		return s.fetchFlowScalar(token.SingleQuotedStyle)
	case '"':
		return s.fetchFlowScalar(token.DoubleQuotedStyle)
	case '\t':
		return s.errInvalid(errors.TabInIndent,
			"found a tab character where an indentation space is expected", s.mark())
	case '@', '`':
		return s.errInvalid(errors.InvalidCharacter,
			fmt.Sprintf("%q is a reserved indicator and cannot start a token", c), s.mark())
	case bom:
		return s.errInvalid(errors.InvalidCharacter,
			"byte order mark is not allowed in the middle of the stream", s.mark())
	}
	if s.isPlainStart(c) {
		return s.fetchPlainScalar()
	}
	return s.errInvalid(errors.InvalidCharacter,
		fmt.Sprintf("found a character %q that cannot start any token", c), s.mark())
}

func (s *Scanner) isPlainStart(c rune) bool {
	switch c {
	case 0, ' ', '\t', '\n', '-', '?', ':', ',', '[', ']', '{', '}',
		'#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`', bom:
		switch c {
		case '-':
			return !isBlankz(s.peek(1))
		case '?', ':':
			return s.flowLevel == 0 && !isBlankz(s.peek(1))
		}
		return false
	}
	return true
}

// scanToNextToken skips whitespace, comments and line breaks between
// tokens. A line break in block context re-enables simple keys.
func (s *Scanner) scanToNextToken() error {
	for {
		c := s.peek(0)
		switch {
		case c == ' ':
			s.advance()
		case c == '\t' && (s.flowLevel > 0 || !s.allowSimpleKey):
			s.advance()
		case c == '#':
			for !isBreak(s.peek(0)) && s.peek(0) != 0 {
				s.advance()
			}
		case isBreak(c):
			s.advance()
			if s.flowLevel == 0 {
				s.allowSimpleKey = true
			}
		default:
			return nil
		}
	}
}

func (s *Scanner) staleSimpleKeys() error {
	for i := range s.simpleKeys {
		key := &s.simpleKeys[i]
		if !key.possible {
			continue
		}
		if key.pos.Line == s.line && s.offset-key.pos.Offset <= 1024 {
			continue
		}
		if key.required {
			return s.errInvalid(errors.UnexpectedToken,
				"could not find expected ':' for the mapping key", key.pos)
		}
		key.possible = false
	}
	return nil
}

func (s *Scanner) saveSimpleKey() error {
	if !s.allowSimpleKey {
		return nil
	}
	required := s.flowLevel == 0 && s.indent == s.column
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeys[len(s.simpleKeys)-1] = simpleKey{
		possible:    true,
		required:    required,
		tokenNumber: s.tokensParsed + s.queued(),
		pos:         s.mark(),
	}
	return nil
}

func (s *Scanner) removeSimpleKey() error {
	key := &s.simpleKeys[len(s.simpleKeys)-1]
	if key.possible && key.required {
		return s.errInvalid(errors.UnexpectedToken,
			"could not find expected ':' for the mapping key", key.pos)
	}
	key.possible = false
	return nil
}

// rollIndent opens a block collection if the column is deeper than the
// current indentation level. number places the synthetic token at a
// specific queue position; -1 appends.
func (s *Scanner) rollIndent(column, number int, typ token.Type, pos *token.Position) {
	if s.flowLevel > 0 {
		return
	}
	if s.indent >= column {
		return
	}
	s.indents = append(s.indents, s.indent)
	s.indent = column
	var tk *token.Token
	if typ == token.BlockSequenceStartType {
		tk = token.BlockSequenceStart(pos)
	} else {
		tk = token.BlockMappingStart(pos)
	}
	if number == -1 {
		s.push(tk)
	} else {
		s.insert(number, tk)
	}
}

// unrollIndent closes block collections whose indentation level is deeper
// than the column. A dedent that lands between two open levels is an error.
func (s *Scanner) unrollIndent(column int) error {
	if s.flowLevel > 0 {
		return nil
	}
	popped := false
	for s.indent > column {
		s.push(token.BlockEnd(s.mark()))
		s.indent = s.indents[len(s.indents)-1]
		s.indents = s.indents[:len(s.indents)-1]
		popped = true
	}
	if popped && s.indent < column && s.peek(0) != 0 {
		return s.errInvalid(errors.InvalidIndent,
			fmt.Sprintf("invalid dedent to column %d: no block collection is open at this indentation", column),
			s.mark())
	}
	return nil
}

func (s *Scanner) unrollAll() {
	if s.flowLevel > 0 {
		return
	}
	for s.indent > 0 {
		s.push(token.BlockEnd(s.mark()))
		s.indent = s.indents[len(s.indents)-1]
		s.indents = s.indents[:len(s.indents)-1]
	}
}

func (s *Scanner) fetchStreamStart() error {
	s.simpleKeys = append(s.simpleKeys, simpleKey{})
	s.allowSimpleKey = true
	s.streamStartProduced = true
	s.push(token.StreamStart(s.mark()))
	return nil
}

func (s *Scanner) fetchStreamEnd() error {
	s.unrollAll()
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false
	tk := token.StreamEnd(s.mark())
	tk.Origin = s.origin()
	s.push(tk)
	return nil
}

func (s *Scanner) fetchDirective() error {
	s.unrollAll()
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false
	return s.scanDirective()
}

func (s *Scanner) fetchDocumentIndicator(typ token.Type) error {
	s.unrollAll()
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false
	start := s.mark()
	s.advanceN(3)
	end := s.mark()
	if typ == token.DocumentStartType {
		s.push(token.DocumentStart(s.origin(), start, end))
	} else {
		s.push(token.DocumentEnd(s.origin(), start, end))
	}
	return nil
}

func (s *Scanner) fetchFlowCollectionStart(typ token.Type) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.flowLevel++
	s.simpleKeys = append(s.simpleKeys, simpleKey{})
	s.allowSimpleKey = true
	start := s.mark()
	s.advance()
	if typ == token.FlowSequenceStartType {
		s.push(token.FlowSequenceStart(s.origin(), start))
	} else {
		s.push(token.FlowMappingStart(s.origin(), start))
	}
	return nil
}

func (s *Scanner) fetchFlowCollectionEnd(typ token.Type) error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	if s.flowLevel > 0 {
		s.flowLevel--
		s.simpleKeys = s.simpleKeys[:len(s.simpleKeys)-1]
	}
	s.allowSimpleKey = false
	start := s.mark()
	s.advance()
	if typ == token.FlowSequenceEndType {
		s.push(token.FlowSequenceEnd(s.origin(), start))
	} else {
		s.push(token.FlowMappingEnd(s.origin(), start))
	}
	return nil
}

func (s *Scanner) fetchFlowEntry() error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = true
	start := s.mark()
	s.advance()
	s.push(token.FlowEntry(s.origin(), start))
	return nil
}

func (s *Scanner) fetchBlockEntry() error {
	if s.flowLevel > 0 {
		return s.errInvalid(errors.MixedBlockFlow,
			"block sequence entries are not allowed inside a flow collection", s.mark())
	}
	if !s.allowSimpleKey {
		return s.errInvalid(errors.UnexpectedToken,
			"block sequence entries are not allowed in this context", s.mark())
	}
	s.rollIndent(s.column, -1, token.BlockSequenceStartType, s.mark())
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = true
	start := s.mark()
	s.advance()
	s.push(token.BlockEntry(s.origin(), start))
	return nil
}

func (s *Scanner) fetchKey() error {
	if s.flowLevel == 0 {
		if !s.allowSimpleKey {
			return s.errInvalid(errors.UnexpectedToken,
				"mapping keys are not allowed in this context", s.mark())
		}
		s.rollIndent(s.column, -1, token.BlockMappingStartType, s.mark())
	}
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = s.flowLevel == 0
	start := s.mark()
	s.advance()
	s.push(token.Key(s.origin(), start))
	return nil
}

func (s *Scanner) fetchValue() error {
	key := &s.simpleKeys[len(s.simpleKeys)-1]
	if key.possible {
		s.insert(key.tokenNumber, token.Key("", key.pos))
		s.rollIndent(key.pos.Column, key.tokenNumber, token.BlockMappingStartType, key.pos)
		key.possible = false
		s.allowSimpleKey = false
	} else {
		if s.flowLevel == 0 {
			if !s.allowSimpleKey {
				return s.errInvalid(errors.UnexpectedToken,
					"mapping values are not allowed in this context", s.mark())
			}
			s.rollIndent(s.column, -1, token.BlockMappingStartType, s.mark())
		}
		s.allowSimpleKey = s.flowLevel == 0
	}
	start := s.mark()
	s.advance()
	s.push(token.Value(s.origin(), start))
	return nil
}

func (s *Scanner) fetchAnchor(typ token.Type) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false
	start := s.mark()
	indicator := s.peek(0)
	s.advance()
	nameStart := s.idx
	for isAnchorChar(s.peek(0)) {
		s.advance()
	}
	name := string(s.src[nameStart:s.idx])
	if name == "" || !(isBlankz(s.peek(0)) || isFlowIndicator(s.peek(0))) {
		return s.errInvalid(errors.InvalidCharacter,
			fmt.Sprintf("while scanning an %q property: did not find expected alphabetic or numeric character", indicator),
			s.mark())
	}
	end := s.mark()
	if typ == token.AliasType {
		s.push(token.Alias(name, s.origin(), start, end))
	} else {
		s.push(token.Anchor(name, s.origin(), start, end))
	}
	return nil
}

func (s *Scanner) fetchTag() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false
	return s.scanTag()
}

func (s *Scanner) fetchBlockScalar(style token.ScalarStyle) error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = true
	return s.scanBlockScalar(style)
}

func (s *Scanner) fetchFlowScalar(style token.ScalarStyle) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false
	return s.scanFlowScalar(style)
}

func (s *Scanner) fetchPlainScalar() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.allowSimpleKey = false
	return s.scanPlainScalar()
}

func (s *Scanner) scanDirective() error {
	start := s.mark()
	s.advance() // '%'
	nameStart := s.idx
	for c := s.peek(0); c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'; c = s.peek(0) {
		s.advance()
	}
	name := string(s.src[nameStart:s.idx])
	switch name {
	case "YAML":
		return s.scanVersionDirective(start)
	case "TAG":
		return s.scanTagDirective(start)
	}
	// Unknown directives are skipped, matching the reference processors.
	for !isBreak(s.peek(0)) && s.peek(0) != 0 {
		s.advance()
	}
	s.origin()
	return nil
}

func (s *Scanner) scanVersionDirective(start *token.Position) error {
	for isBlank(s.peek(0)) {
		s.advance()
	}
	major, ok := s.scanDirectiveNumber()
	if !ok || s.peek(0) != '.' {
		return s.errInvalid(errors.InvalidDirective,
			"while scanning a %YAML directive: did not find expected version number", s.mark())
	}
	s.advance() // '.'
	minor, ok := s.scanDirectiveNumber()
	if !ok {
		return s.errInvalid(errors.InvalidDirective,
			"while scanning a %YAML directive: did not find expected version number", s.mark())
	}
	if err := s.endDirectiveLine("%YAML"); err != nil {
		return err
	}
	s.push(token.VersionDirective(major, minor, s.origin(), start, s.mark()))
	return nil
}

func (s *Scanner) scanDirectiveNumber() (int, bool) {
	num := 0
	found := false
	for c := s.peek(0); c >= '0' && c <= '9'; c = s.peek(0) {
		num = num*10 + int(c-'0')
		found = true
		s.advance()
	}
	return num, found
}

func (s *Scanner) scanTagDirective(start *token.Position) error {
	for isBlank(s.peek(0)) {
		s.advance()
	}
	if s.peek(0) != '!' {
		return s.errInvalid(errors.InvalidDirective,
			"while scanning a %TAG directive: did not find expected tag handle", s.mark())
	}
	handleStart := s.idx
	s.advance()
	for isAnchorChar(s.peek(0)) {
		s.advance()
	}
	if s.peek(0) == '!' {
		s.advance()
	}
	handle := string(s.src[handleStart:s.idx])
	if !isBlank(s.peek(0)) {
		return s.errInvalid(errors.InvalidDirective,
			"while scanning a %TAG directive: did not find expected whitespace after the handle", s.mark())
	}
	for isBlank(s.peek(0)) {
		s.advance()
	}
	prefix, err := s.scanTagURI(true)
	if err != nil {
		return err
	}
	if prefix == "" {
		return s.errInvalid(errors.InvalidDirective,
			"while scanning a %TAG directive: did not find expected tag prefix", s.mark())
	}
	if err := s.endDirectiveLine("%TAG"); err != nil {
		return err
	}
	s.push(token.TagDirective(handle, prefix, s.origin(), start, s.mark()))
	return nil
}

func (s *Scanner) endDirectiveLine(directive string) error {
	for isBlank(s.peek(0)) {
		s.advance()
	}
	if s.peek(0) == '#' {
		for !isBreak(s.peek(0)) && s.peek(0) != 0 {
			s.advance()
		}
	}
	if !isBreak(s.peek(0)) && s.peek(0) != 0 {
		return s.errInvalid(errors.InvalidDirective,
			fmt.Sprintf("while scanning a %s directive: did not find expected comment or line break", directive),
			s.mark())
	}
	return nil
}

func (s *Scanner) scanTag() error {
	start := s.mark()
	s.advance() // '!'
	var handle, suffix string
	switch {
	case s.peek(0) == '<':
		s.advance()
		uri, err := s.scanTagURI(true)
		if err != nil {
			return err
		}
		if s.peek(0) != '>' {
			return s.errInvalid(errors.InvalidCharacter,
				"while scanning a verbatim tag: did not find the expected '>'", s.mark())
		}
		s.advance()
		suffix = uri
	case s.peek(0) == '!':
		s.advance()
		handle = "!!"
		var err error
		suffix, err = s.scanTagURI(false)
		if err != nil {
			return err
		}
		if suffix == "" {
			return s.errInvalid(errors.InvalidCharacter,
				"while scanning a tag: did not find expected tag suffix", s.mark())
		}
	default:
		wordStart := s.idx
		for isAnchorChar(s.peek(0)) {
			s.advance()
		}
		word := string(s.src[wordStart:s.idx])
		if s.peek(0) == '!' && word != "" {
			handle = "!" + word + "!"
			s.advance()
			var err error
			suffix, err = s.scanTagURI(false)
			if err != nil {
				return err
			}
			if suffix == "" {
				return s.errInvalid(errors.InvalidCharacter,
					"while scanning a tag: did not find expected tag suffix", s.mark())
			}
		} else {
			handle = "!"
			rest, err := s.scanTagURI(false)
			if err != nil {
				return err
			}
			suffix = word + rest
		}
	}
	if !isBlankz(s.peek(0)) {
		return s.errInvalid(errors.InvalidCharacter,
			fmt.Sprintf("while scanning a tag: found unexpected character %q", s.peek(0)),
			s.mark())
	}
	s.push(token.Tag(handle, suffix, s.origin(), start, s.mark()))
	return nil
}

// scanTagURI consumes tag characters, decoding %-escapes. When leadBang is
// true a leading '!' is allowed (verbatim tags and %TAG prefixes).
func (s *Scanner) scanTagURI(leadBang bool) (string, error) {
	var out []rune
	if leadBang && s.peek(0) == '!' {
		out = append(out, '!')
		s.advance()
	}
	for {
		c := s.peek(0)
		if c == '%' {
			if !isHex(s.peek(1)) || !isHex(s.peek(2)) {
				return "", s.errInvalid(errors.InvalidCharacter,
					"while scanning a tag: did not find a valid %-escape", s.mark())
			}
			out = append(out, rune(hexValue(s.peek(1))<<4|hexValue(s.peek(2))))
			s.advanceN(3)
			continue
		}
		if !isTagChar(c) {
			return string(out), nil
		}
		out = append(out, c)
		s.advance()
	}
}

func (s *Scanner) scanBlockScalar(style token.ScalarStyle) error {
	start := s.mark()
	indicator := s.peek(0)
	s.advance() // '|' or '>'

	chomping := 0 // -1 strip, 0 clip, +1 keep
	increment := 0
	if c := s.peek(0); c == '+' || c == '-' {
		if c == '+' {
			chomping = 1
		} else {
			chomping = -1
		}
		s.advance()
		if c := s.peek(0); c >= '1' && c <= '9' {
			increment = int(c - '0')
			s.advance()
		}
	} else if c >= '1' && c <= '9' {
		increment = int(c - '0')
		s.advance()
		if c := s.peek(0); c == '+' || c == '-' {
			if c == '+' {
				chomping = 1
			} else {
				chomping = -1
			}
			s.advance()
		}
	} else if c == '0' {
		return s.errInvalid(errors.InvalidBlockScalarHeader,
			"while scanning a block scalar: the indentation indicator must be in 1..9", s.mark())
	}
	for isBlank(s.peek(0)) {
		s.advance()
	}
	if s.peek(0) == '#' {
		for !isBreak(s.peek(0)) && s.peek(0) != 0 {
			s.advance()
		}
	}
	if !isBreak(s.peek(0)) && s.peek(0) != 0 {
		return s.errInvalid(errors.InvalidBlockScalarHeader,
			fmt.Sprintf("while scanning a %q block scalar header: did not find expected comment or line break", indicator),
			s.mark())
	}
	if isBreak(s.peek(0)) {
		s.advance()
	}

	indent := 0
	if increment > 0 {
		if s.indent > 0 {
			indent = s.indent + increment
		} else {
			indent = increment + 1
		}
	}

	var value []rune
	var leadingBreaks int
	var trailingBreaks []rune
	leadingBlank, trailingBlank := false, false

	breaks, maxIndent, err := s.scanBlockScalarBreaks(&indent)
	if err != nil {
		return err
	}
	trailingBreaks = breaks
	if increment == 0 && indent == 0 {
		indent = maxIndent
		if indent <= s.indent {
			indent = s.indent + 1
		}
	}

	for s.column == indent && s.peek(0) != 0 {
		// A content line at the scalar's indentation.
		trailingBlank = isBlank(s.peek(0))
		if style == token.FoldedStyle && leadingBreaks == 1 && !leadingBlank && !trailingBlank {
			if len(trailingBreaks) == 0 {
				value = append(value, ' ')
			}
		} else if leadingBreaks > 0 {
			value = append(value, '\n')
		}
		value = append(value, trailingBreaks...)
		leadingBreaks = 0
		trailingBreaks = nil
		leadingBlank = isBlank(s.peek(0))
		for !isBreak(s.peek(0)) && s.peek(0) != 0 {
			value = append(value, s.peek(0))
			s.advance()
		}
		if s.peek(0) == 0 {
			break
		}
		s.advance() // the line break
		leadingBreaks = 1
		breaks, _, err := s.scanBlockScalarBreaks(&indent)
		if err != nil {
			return err
		}
		trailingBreaks = breaks
	}

	switch chomping {
	case -1:
		// strip: drop every trailing break
	case 0:
		if leadingBreaks > 0 {
			value = append(value, '\n')
		}
	case 1:
		if leadingBreaks > 0 {
			value = append(value, '\n')
		}
		value = append(value, trailingBreaks...)
	}

	s.push(token.Scalar(string(value), style, s.origin(), start, s.mark()))
	return nil
}

// scanBlockScalarBreaks consumes the indentation and blank lines in front of
// the next content line. It returns one '\n' per blank line and the deepest
// column observed, which determines auto-detected indentation.
func (s *Scanner) scanBlockScalarBreaks(indent *int) ([]rune, int, error) {
	var breaks []rune
	maxIndent := 0
	for {
		for (*indent == 0 || s.column < *indent) && s.peek(0) == ' ' {
			s.advance()
		}
		if s.column > maxIndent {
			maxIndent = s.column
		}
		if (*indent == 0 || s.column < *indent) && s.peek(0) == '\t' {
			return nil, 0, s.errInvalid(errors.TabInIndent,
				"while scanning a block scalar: found a tab character where an indentation space is expected",
				s.mark())
		}
		if !isBreak(s.peek(0)) {
			return breaks, maxIndent, nil
		}
		s.advance()
		breaks = append(breaks, '\n')
	}
}

func (s *Scanner) scanFlowScalar(style token.ScalarStyle) error {
	start := s.mark()
	quote := s.peek(0)
	s.advance()

	var value []rune
	var spaces []rune
	pendingBreaks := 0

	flush := func() {
		if pendingBreaks == 1 {
			value = append(value, ' ')
		} else if pendingBreaks > 1 {
			for i := 1; i < pendingBreaks; i++ {
				value = append(value, '\n')
			}
		} else {
			value = append(value, spaces...)
		}
		spaces = spaces[:0]
		pendingBreaks = 0
	}

	for {
		if s.column == 1 &&
			(s.peek(0) == '-' && s.peek(1) == '-' && s.peek(2) == '-' ||
				s.peek(0) == '.' && s.peek(1) == '.' && s.peek(2) == '.') &&
			isBlankz(s.peek(3)) {
			return s.errInvalid(errors.UnterminatedQuote,
				"while scanning a quoted scalar: found unexpected document indicator", s.mark())
		}
		c := s.peek(0)
		if c == 0 {
			return s.errInvalid(errors.UnterminatedQuote,
				"while scanning a quoted scalar: found unexpected end of stream", s.mark())
		}
		if isBlank(c) || isBreak(c) {
			if isBlank(c) {
				if pendingBreaks == 0 {
					spaces = append(spaces, c)
				}
				s.advance()
			} else {
				pendingBreaks++
				spaces = spaces[:0]
				s.advance()
			}
			continue
		}
		if quote == '\'' && c == '\'' {
			if s.peek(1) == '\'' {
				flush()
				value = append(value, '\'')
				s.advanceN(2)
				continue
			}
			flush()
			s.advance()
			break
		}
		if quote == '"' && c == '"' {
			flush()
			s.advance()
			break
		}
		if quote == '"' && c == '\\' {
			if isBreak(s.peek(1)) {
				// Escaped line break: continuation, eats following spaces.
				s.advanceN(2)
				spaces = spaces[:0]
				pendingBreaks = 0
				for isBlank(s.peek(0)) {
					s.advance()
				}
				continue
			}
			flush()
			esc, err := s.scanEscape()
			if err != nil {
				return err
			}
			value = append(value, esc)
			continue
		}
		flush()
		value = append(value, c)
		s.advance()
	}

	s.push(token.Scalar(string(value), style, s.origin(), start, s.mark()))
	return nil
}

func (s *Scanner) scanEscape() (rune, error) {
	pos := s.mark()
	s.advance() // '\\'
	c := s.peek(0)
	var out rune
	switch c {
	case '0':
		out = 0
	case 'a':
		out = '\a'
	case 'b':
		out = '\b'
	case 't', '\t':
		out = '\t'
	case 'n':
		out = '\n'
	case 'v':
		out = '\v'
	case 'f':
		out = '\f'
	case 'r':
		out = '\r'
	case 'e':
		out = '\x1b'
	case ' ':
		out = ' '
	case '"':
		out = '"'
	case '/':
		out = '/'
	case '\\':
		out = '\\'
	case 'N':
		out = '\u0085'
	case '_':
		out = '\u00a0'
	case 'L':
		out = '\u2028'
	case 'P':
		out = '\u2029'
	case 'x', 'u', 'U':
		width := 2
		if c == 'u' {
			width = 4
		} else if c == 'U' {
			width = 8
		}
		code := 0
		for i := 1; i <= width; i++ {
			h := s.peek(i)
			if !isHex(h) {
				return 0, s.errInvalid(errors.InvalidEscape,
					fmt.Sprintf("while scanning a double-quoted scalar: did not find %d expected hexadecimal digits", width),
					pos)
			}
			code = code<<4 | hexValue(h)
		}
		s.advanceN(width + 1)
		return rune(code), nil
	default:
		return 0, s.errInvalid(errors.InvalidEscape,
			fmt.Sprintf("while scanning a double-quoted scalar: found unknown escape character %q", c),
			pos)
	}
	s.advance()
	return out, nil
}

func (s *Scanner) scanPlainScalar() error {
	start := s.mark()
	end := s.mark()
	indent := s.indent + 1

	var value []rune
	var spaces []rune
	pendingBreaks := 0

	flush := func() {
		if pendingBreaks == 1 {
			value = append(value, ' ')
		} else if pendingBreaks > 1 {
			for i := 1; i < pendingBreaks; i++ {
				value = append(value, '\n')
			}
		} else {
			value = append(value, spaces...)
		}
		spaces = spaces[:0]
		pendingBreaks = 0
	}

scan:
	for {
		if s.column == 1 &&
			(s.peek(0) == '-' && s.peek(1) == '-' && s.peek(2) == '-' ||
				s.peek(0) == '.' && s.peek(1) == '.' && s.peek(2) == '.') &&
			isBlankz(s.peek(3)) {
			break
		}
		if s.peek(0) == '#' {
			break
		}
		for {
			c := s.peek(0)
			if isBlankz(c) {
				break
			}
			if s.flowLevel > 0 && isFlowIndicator(c) {
				break scan
			}
			if c == ':' && (isBlankz(s.peek(1)) || s.flowLevel > 0 && isFlowIndicator(s.peek(1))) {
				break scan
			}
			flush()
			value = append(value, c)
			s.advance()
			end = s.mark()
		}
		if !isBlank(s.peek(0)) && !isBreak(s.peek(0)) {
			break
		}
		for {
			c := s.peek(0)
			if isBlank(c) {
				if pendingBreaks == 0 {
					spaces = append(spaces, c)
				}
				s.advance()
			} else if isBreak(c) {
				pendingBreaks++
				spaces = spaces[:0]
				s.advance()
			} else {
				break
			}
		}
		if s.peek(0) == 0 {
			break
		}
		if s.flowLevel == 0 && pendingBreaks > 0 && s.column < indent {
			break
		}
	}

	if pendingBreaks > 0 {
		s.allowSimpleKey = true
	}
	s.push(token.Scalar(string(value), token.PlainStyle, s.origin(), start, end))
	return nil
}
