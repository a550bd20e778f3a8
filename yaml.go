// Package yaml loads YAML 1.2 streams into document trees. The pipeline is
// scanner -> parser -> composer; this package exposes the assembled loading
// surface plus the token and event streams for debugging.
package yaml

import (
	"bytes"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/cyrup-ai/go-yyaml/composer"
	"github.com/cyrup-ai/go-yyaml/errors"
	"github.com/cyrup-ai/go-yyaml/lexer"
	"github.com/cyrup-ai/go-yyaml/node"
	"github.com/cyrup-ai/go-yyaml/parser"
	"github.com/cyrup-ai/go-yyaml/schema"
	"github.com/cyrup-ai/go-yyaml/token"
)

var validate = validator.New()

// Loader streams the documents of one YAML input. Documents are composed
// lazily; an error terminates the stream.
type Loader struct {
	composer   *composer.Composer
	docCount   int
	sawContent bool
	done       bool
}

// NewLoader creates a streaming loader over r.
func NewLoader(r io.Reader, opts ...LoaderOption) (*Loader, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read input")
	}
	return NewLoaderBytes(src, opts...)
}

// NewLoaderBytes creates a streaming loader over src.
func NewLoaderBytes(src []byte, opts ...LoaderOption) (*Loader, error) {
	cfg := DefaultLoaderConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrapf(err, "invalid loader configuration")
	}
	c, err := composer.New(src, composer.Config{
		MaxExpansion:       cfg.MaxExpansion,
		MaxDepth:           cfg.MaxDepth,
		AllowDuplicateKeys: cfg.PermitDuplicateKeys,
		StrictAnchors:      cfg.StrictAnchors,
		LegacyBools:        cfg.YAML11Bools,
	})
	if err != nil {
		return nil, err
	}
	return &Loader{
		composer:   c,
		sawContent: len(bytes.TrimSpace(src)) != 0,
	}, nil
}

// Next returns the next document of the stream. io.EOF signals the end.
// After an error the loader produces no further documents.
func (l *Loader) Next() (*node.Document, error) {
	if l.done {
		return nil, io.EOF
	}
	doc, err := l.composer.Compose()
	if err == io.EOF {
		l.done = true
		if l.docCount == 0 && l.sawContent {
			// The input held only comments: one empty document.
			l.docCount++
			return emptyDocument(), nil
		}
		return nil, io.EOF
	}
	if err != nil {
		l.done = true
		return nil, err
	}
	l.docCount++
	return doc, nil
}

// Warnings returns non-fatal findings collected so far, such as anchor
// redefinitions outside strict mode.
func (l *Loader) Warnings() []error {
	return l.composer.Warnings()
}

func emptyDocument() *node.Document {
	doc := node.NewDocument()
	id := doc.Alloc()
	*doc.Node(id) = node.Node{
		Kind: node.NullKind,
		Tag:  schema.NullTag,
		Pos:  &token.Position{Line: 1, Column: 1},
	}
	doc.Root = id
	return doc
}

// Load composes the first document of src. It returns nil without an error
// when the stream holds no documents.
func Load(src []byte, opts ...LoaderOption) (*node.Document, error) {
	l, err := NewLoaderBytes(src, opts...)
	if err != nil {
		return nil, err
	}
	doc, err := l.Next()
	if err == io.EOF {
		return nil, nil
	}
	return doc, err
}

// LoadAll composes every document of src eagerly.
func LoadAll(src []byte, opts ...LoaderOption) ([]*node.Document, error) {
	l, err := NewLoaderBytes(src, opts...)
	if err != nil {
		return nil, err
	}
	var docs []*node.Document
	for {
		doc, err := l.Next()
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
}

// Tokenize exposes the scanner: it returns the token stream of src.
func Tokenize(src []byte) (token.Tokens, error) {
	return lexer.Tokenize(src)
}

// ParseEvents exposes the parser: it returns the event sequence of src.
func ParseEvents(src []byte) ([]*parser.Event, error) {
	return parser.ParseBytes(src)
}

// FormatError renders err, optionally colored and with the annotated source
// excerpt, regardless of the package-level rendering defaults.
func FormatError(err error, colored, withSource bool) string {
	prevColored, prevSource := errors.ColoredErr, errors.WithSourceCode
	errors.ColoredErr, errors.WithSourceCode = colored, withSource
	defer func() {
		errors.ColoredErr, errors.WithSourceCode = prevColored, prevSource
	}()
	return err.Error()
}
