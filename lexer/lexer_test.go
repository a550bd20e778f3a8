package lexer_test

import (
	"strings"
	"testing"

	"golang.org/x/xerrors"

	"github.com/cyrup-ai/go-yyaml/errors"
	"github.com/cyrup-ai/go-yyaml/lexer"
	"github.com/cyrup-ai/go-yyaml/token"
)

func types(tokens token.Tokens) []token.Type {
	out := make([]token.Type, 0, len(tokens))
	for _, tk := range tokens {
		out = append(out, tk.Type)
	}
	return out
}

func equalTypes(a, b []token.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTokenizeTypes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Type
	}{
		{
			name: "plain scalar",
			src:  "hello\n",
			want: []token.Type{token.StreamStartType, token.ScalarType, token.StreamEndType},
		},
		{
			name: "simple mapping",
			src:  "hello: world\n",
			want: []token.Type{
				token.StreamStartType,
				token.BlockMappingStartType, token.KeyType, token.ScalarType,
				token.ValueType, token.ScalarType,
				token.BlockEndType, token.StreamEndType,
			},
		},
		{
			name: "block sequence",
			src:  "- a\n- b\n",
			want: []token.Type{
				token.StreamStartType,
				token.BlockSequenceStartType,
				token.BlockEntryType, token.ScalarType,
				token.BlockEntryType, token.ScalarType,
				token.BlockEndType, token.StreamEndType,
			},
		},
		{
			name: "flow sequence",
			src:  "[1, 2]\n",
			want: []token.Type{
				token.StreamStartType,
				token.FlowSequenceStartType, token.ScalarType,
				token.FlowEntryType, token.ScalarType,
				token.FlowSequenceEndType, token.StreamEndType,
			},
		},
		{
			name: "flow mapping",
			src:  "{a: 1}\n",
			want: []token.Type{
				token.StreamStartType,
				token.FlowMappingStartType, token.KeyType, token.ScalarType,
				token.ValueType, token.ScalarType,
				token.FlowMappingEndType, token.StreamEndType,
			},
		},
		{
			name: "nested mapping in sequence",
			src:  "- provider: openai\n",
			want: []token.Type{
				token.StreamStartType,
				token.BlockSequenceStartType, token.BlockEntryType,
				token.BlockMappingStartType, token.KeyType, token.ScalarType,
				token.ValueType, token.ScalarType,
				token.BlockEndType, token.BlockEndType, token.StreamEndType,
			},
		},
		{
			name: "documents",
			src:  "---\na\n...\n",
			want: []token.Type{
				token.StreamStartType,
				token.DocumentStartType, token.ScalarType, token.DocumentEndType,
				token.StreamEndType,
			},
		},
		{
			name: "anchor and alias",
			src:  "a: &x 1\nb: *x\n",
			want: []token.Type{
				token.StreamStartType,
				token.BlockMappingStartType,
				token.KeyType, token.ScalarType, token.ValueType, token.AnchorType, token.ScalarType,
				token.KeyType, token.ScalarType, token.ValueType, token.AliasType,
				token.BlockEndType, token.StreamEndType,
			},
		},
		{
			name: "tag before block sequence",
			src:  "tuple: !wat\n  - 0\n",
			want: []token.Type{
				token.StreamStartType,
				token.BlockMappingStartType, token.KeyType, token.ScalarType,
				token.ValueType, token.TagType,
				token.BlockSequenceStartType, token.BlockEntryType, token.ScalarType,
				token.BlockEndType, token.BlockEndType, token.StreamEndType,
			},
		},
		{
			name: "directives",
			src:  "%YAML 1.2\n%TAG !e! tag:example.com,2000:\n---\na\n",
			want: []token.Type{
				token.StreamStartType,
				token.VersionDirectiveType, token.TagDirectiveType,
				token.DocumentStartType, token.ScalarType,
				token.StreamEndType,
			},
		},
		{
			name: "explicit key",
			src:  "? a\n: b\n",
			want: []token.Type{
				token.StreamStartType,
				token.BlockMappingStartType, token.KeyType, token.ScalarType,
				token.ValueType, token.ScalarType,
				token.BlockEndType, token.StreamEndType,
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens, err := lexer.Tokenize([]byte(test.src))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := types(tokens); !equalTypes(got, test.want) {
				t.Fatalf("token types mismatch\n got: %v\nwant: %v", got, test.want)
			}
		})
	}
}

func TestTokenizeScalarValues(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		value string
		style token.ScalarStyle
	}{
		{"plain", "hello\n", "hello", token.PlainStyle},
		{"plain multiline fold", "foo\n bar\n", "foo bar", token.PlainStyle},
		{"plain blank line", "foo\n\n bar\n", "foo\nbar", token.PlainStyle},
		{"single quoted", "'it''s'\n", "it's", token.SingleQuotedStyle},
		{"single quoted fold", "'a\n b'\n", "a b", token.SingleQuotedStyle},
		{"double quoted", "\"a b\"\n", "a b", token.DoubleQuotedStyle},
		{"double quoted escapes", `"\u0041\n\t\\"` + "\n", "A\n\t\\", token.DoubleQuotedStyle},
		{"double quoted hex escape", `"\x41"` + "\n", "A", token.DoubleQuotedStyle},
		{"double quoted continuation", "\"a\\\n  b\"\n", "ab", token.DoubleQuotedStyle},
		{"literal", "|\n  x\n  y\n", "x\ny\n", token.LiteralStyle},
		{"literal strip", "|-\n  x\n  y\n", "x\ny", token.LiteralStyle},
		{"literal keep", "|+\n  x\n\n", "x\n\n", token.LiteralStyle},
		{"folded", ">\n  a\n  b\n", "a b\n", token.FoldedStyle},
		{"folded more indented", ">\n  a\n    b\n  c\n", "a\n  b\nc\n", token.FoldedStyle},
		{"folded keep", ">+\n  a\n  b\n\n", "a b\n\n", token.FoldedStyle},
		{"literal explicit indent", "|2\n  x\n", "x\n", token.LiteralStyle},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens, err := lexer.Tokenize([]byte(test.src))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var scalar *token.Token
			for _, tk := range tokens {
				if tk.Type == token.ScalarType {
					scalar = tk
					break
				}
			}
			if scalar == nil {
				t.Fatalf("no scalar token in %v", types(tokens))
			}
			if scalar.Value != test.value {
				t.Fatalf("scalar value = %q; want %q", scalar.Value, test.value)
			}
			if scalar.Style != test.style {
				t.Fatalf("scalar style = %s; want %s", scalar.Style, test.style)
			}
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := lexer.Tokenize([]byte("test: ['x']\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Column -> value of the token starting there.
	want := map[int]string{
		1:  "test",
		5:  ":",
		7:  "[",
		8:  "x",
		11: "]",
	}
	got := map[int]string{}
	for _, tk := range tokens {
		switch tk.Type {
		case token.ScalarType, token.ValueType,
			token.FlowSequenceStartType, token.FlowSequenceEndType:
			got[tk.Start.Column] = tk.Value
		}
	}
	for col, value := range want {
		if got[col] != value {
			t.Fatalf("column %d = %q; want %q (all: %v)", col, got[col], value, got)
		}
	}
}

func TestTokenizeOriginsReproduceSource(t *testing.T) {
	sources := []string{
		"hello: world\n",
		"a:\n  - 1\n  - 2\n# tail comment\n",
		"{x: 1, y: [a, b]}\n",
	}
	for _, src := range sources {
		tokens, err := lexer.Tokenize([]byte(src))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var sb strings.Builder
		for _, tk := range tokens {
			sb.WriteString(tk.Origin)
		}
		if sb.String() != src {
			t.Fatalf("origins = %q; want %q", sb.String(), src)
		}
	}
}

func kindOf(t *testing.T, err error) errors.Kind {
	t.Helper()
	var syntaxErr *errors.SyntaxError
	if !xerrors.As(err, &syntaxErr) {
		t.Fatalf("expected a syntax error but got %T: %v", err, err)
	}
	return syntaxErr.Kind
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind errors.Kind
	}{
		{"unterminated single quote", "'abc\n", errors.UnterminatedQuote},
		{"unterminated double quote", "\"abc", errors.UnterminatedQuote},
		{"invalid escape", `"\q"`, errors.InvalidEscape},
		{"tab indentation", "\ta: 1\n", errors.TabInIndent},
		{"tab indentation after key", "a:\n\tb: 1\n", errors.TabInIndent},
		{"reserved indicator", "@foo\n", errors.InvalidCharacter},
		{"invalid dedent", "a:\n  b: 1\n c: 2\n", errors.InvalidIndent},
		{"block scalar zero indent", "|0\n", errors.InvalidBlockScalarHeader},
		{"block scalar bad header", "| x\n", errors.InvalidBlockScalarHeader},
		{"bad version directive", "%YAML x\n", errors.InvalidDirective},
		{"interior byte order mark", "a: \ufeff\n", errors.InvalidCharacter},
		{"invalid utf8", "a: \xff\n", errors.InvalidUTF8},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := lexer.Tokenize([]byte(test.src))
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := kindOf(t, err); got != test.kind {
				t.Fatalf("error kind = %s; want %s (err: %v)", got, test.kind, err)
			}
		})
	}
}

func TestTokenizeByteOrderMarkAtStart(t *testing.T) {
	tokens, err := lexer.Tokenize([]byte("\ufeffa: 1\n"))
	if err != nil {
		t.Fatalf("a leading BOM must be consumed silently: %v", err)
	}
	if tokens.InvalidToken() != nil {
		t.Fatal("unexpected invalid token")
	}
}
