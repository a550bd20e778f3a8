// Package errors defines the loader's error taxonomy. Every error points at
// the offending token and renders with an annotated source excerpt.
package errors

import (
	"fmt"

	"golang.org/x/xerrors"

	"github.com/cyrup-ai/go-yyaml/printer"
	"github.com/cyrup-ai/go-yyaml/token"
)

var (
	// ColoredErr error with syntax highlight
	ColoredErr = true
	// WithSourceCode error with source code
	WithSourceCode = true
)

// Kind classifies an error.
type Kind int

const (
	// UnknownKind default classification
	UnknownKind Kind = iota
	// InvalidCharacter a character that cannot appear at this point
	InvalidCharacter
	// InvalidIndent a dedent to a column that is not an open block level
	InvalidIndent
	// UnterminatedQuote a quoted scalar without its closing quote
	UnterminatedQuote
	// InvalidEscape a malformed escape sequence in a double-quoted scalar
	InvalidEscape
	// InvalidBlockScalarHeader a malformed '|' or '>' header
	InvalidBlockScalarHeader
	// TabInIndent a tab character used as block indentation
	TabInIndent
	// UnexpectedToken a token the grammar does not allow here
	UnexpectedToken
	// UnexpectedEOF input ended inside an open construct
	UnexpectedEOF
	// MixedBlockFlow block structure inside a flow collection
	MixedBlockFlow
	// InvalidDirective a malformed or unsupported %YAML/%TAG directive
	InvalidDirective
	// UndefinedAlias an alias without a previously registered anchor
	UndefinedAlias
	// DuplicateAnchor an anchor name registered twice in one document
	DuplicateAnchor
	// DuplicateKey a mapping key equal to an earlier key
	DuplicateKey
	// TypeMismatch scalar content that cannot satisfy its explicit tag
	TypeMismatch
	// ExpansionLimit alias expansion exceeded the configured budget
	ExpansionLimit
	// DepthLimit nesting exceeded the configured depth
	DepthLimit
	// SelfReferentialAlias an alias evaluated inside its own anchor
	SelfReferentialAlias
	// InvalidUTF8 input is not valid UTF-8
	InvalidUTF8
)

// String kind identifier to text
func (k Kind) String() string {
	switch k {
	case InvalidCharacter:
		return "InvalidCharacter"
	case InvalidIndent:
		return "InvalidIndent"
	case UnterminatedQuote:
		return "UnterminatedQuote"
	case InvalidEscape:
		return "InvalidEscape"
	case InvalidBlockScalarHeader:
		return "InvalidBlockScalarHeader"
	case TabInIndent:
		return "TabInIndent"
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnexpectedEOF:
		return "UnexpectedEof"
	case MixedBlockFlow:
		return "MixedBlockFlow"
	case InvalidDirective:
		return "InvalidDirective"
	case UndefinedAlias:
		return "UndefinedAlias"
	case DuplicateAnchor:
		return "DuplicateAnchor"
	case DuplicateKey:
		return "DuplicateKey"
	case TypeMismatch:
		return "TypeMismatch"
	case ExpansionLimit:
		return "ExpansionLimit"
	case DepthLimit:
		return "DepthLimit"
	case SelfReferentialAlias:
		return "SelfReferentialAlias"
	case InvalidUTF8:
		return "InvalidUtf8"
	}
	return "Unknown"
}

// Wrapf wrap error for stack trace
func Wrapf(err error, msg string, args ...interface{}) error {
	return &wrapError{
		err:     xerrors.Errorf(msg, args...),
		nextErr: err,
		frame:   xerrors.Caller(1),
	}
}

type wrapError struct {
	err     error
	nextErr error
	frame   xerrors.Frame
}

func (e *wrapError) Error() string {
	return fmt.Sprintf("%s: %s", e.err.Error(), e.nextErr.Error())
}

func (e *wrapError) Unwrap() error {
	return e.nextErr
}

func (e *wrapError) Format(state fmt.State, verb rune) {
	xerrors.FormatError(e, state, verb)
}

func (e *wrapError) FormatError(p xerrors.Printer) error {
	p.Print(e.err)
	if p.Detail() {
		e.frame.Format(p)
	}
	return e.nextErr
}

// SyntaxError is an error bound to a source location. Token points at the
// offending text; ContextToken optionally points at the opening of the
// construct (for instance the '[' matching a missing ']').
type SyntaxError struct {
	Kind         Kind
	Msg          string
	Token        *token.Token
	ContextToken *token.Token
	frame        xerrors.Frame
}

// ErrSyntax create syntax error instance with classification, message and token
func ErrSyntax(kind Kind, msg string, tk *token.Token) *SyntaxError {
	return &SyntaxError{
		Kind:  kind,
		Msg:   msg,
		Token: tk,
		frame: xerrors.Caller(1),
	}
}

// WithContext records the token opening the construct the error belongs to.
func (e *SyntaxError) WithContext(tk *token.Token) *SyntaxError {
	e.ContextToken = tk
	return e
}

// GetMessage returns the bare message without location or source excerpt.
func (e *SyntaxError) GetMessage() string {
	return e.Msg
}

// GetToken returns the offending token.
func (e *SyntaxError) GetToken() *token.Token {
	return e.Token
}

func (e *SyntaxError) headline() string {
	pos := e.Token.Start
	return fmt.Sprintf("%d:%d: %s: %s", pos.Line, pos.Column, e.Kind, e.Msg)
}

func (e *SyntaxError) Error() string {
	var p printer.Printer
	msg := p.PrintErrorMessage(e.headline(), ColoredErr)
	if e.ContextToken != nil {
		pos := e.ContextToken.Start
		msg += fmt.Sprintf("\n%d:%d: while parsing the construct opened here", pos.Line, pos.Column)
	}
	if WithSourceCode && (e.Token.Prev != nil || e.Token.Origin != "") {
		src := p.PrintErrorToken(e.Token, ColoredErr)
		return fmt.Sprintf("%s\n%s", msg, src)
	}
	return msg
}

func (e *SyntaxError) Format(state fmt.State, verb rune) {
	xerrors.FormatError(e, state, verb)
}

// FormatError implements the xerrors formatter so %+v adds the caller frame.
func (e *SyntaxError) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	if p.Detail() {
		e.frame.Format(p)
	}
	return nil
}
