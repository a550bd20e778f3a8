package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/xerrors"

	"github.com/cyrup-ai/go-yyaml/errors"
	"github.com/cyrup-ai/go-yyaml/parser"
)

func trace(t *testing.T, src string) []string {
	t.Helper()
	events, err := parser.ParseBytes([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.String())
	}
	return out
}

func TestParseEventTraces(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "scalar document",
			src:  "hello\n",
			want: []string{"+STR", "+DOC", "=VAL :hello", "-DOC", "-STR"},
		},
		{
			name: "simple mapping",
			src:  "hello: world\n",
			want: []string{
				"+STR", "+DOC", "+MAP",
				"=VAL :hello", "=VAL :world",
				"-MAP", "-DOC", "-STR",
			},
		},
		{
			name: "typed mapping",
			src:  "hello: world\nint: 42\nbool: true\nnulltest: ~\n",
			want: []string{
				"+STR", "+DOC", "+MAP",
				"=VAL :hello", "=VAL :world",
				"=VAL :int", "=VAL :42",
				"=VAL :bool", "=VAL :true",
				"=VAL :nulltest", "=VAL :~",
				"-MAP", "-DOC", "-STR",
			},
		},
		{
			name: "nested block collections",
			src:  "- provider: openai\n  models:\n    - name: gpt-4\n",
			want: []string{
				"+STR", "+DOC", "+SEQ", "+MAP",
				"=VAL :provider", "=VAL :openai",
				"=VAL :models", "+SEQ", "+MAP",
				"=VAL :name", "=VAL :gpt-4",
				"-MAP", "-SEQ",
				"-MAP", "-SEQ", "-DOC", "-STR",
			},
		},
		{
			name: "indentless sequence",
			src:  "key:\n- a\n- b\n",
			want: []string{
				"+STR", "+DOC", "+MAP",
				"=VAL :key", "+SEQ", "=VAL :a", "=VAL :b", "-SEQ",
				"-MAP", "-DOC", "-STR",
			},
		},
		{
			name: "empty value",
			src:  "a:\nb: c\n",
			want: []string{
				"+STR", "+DOC", "+MAP",
				"=VAL :a", "=VAL :",
				"=VAL :b", "=VAL :c",
				"-MAP", "-DOC", "-STR",
			},
		},
		{
			name: "flow collections",
			src:  "{a: 1, b: [x, y]}\n",
			want: []string{
				"+STR", "+DOC", "+MAP {}",
				"=VAL :a", "=VAL :1",
				"=VAL :b", "+SEQ []", "=VAL :x", "=VAL :y", "-SEQ",
				"-MAP", "-DOC", "-STR",
			},
		},
		{
			name: "flow pair inside sequence",
			src:  "[a: b, c]\n",
			want: []string{
				"+STR", "+DOC", "+SEQ []",
				"+MAP {}", "=VAL :a", "=VAL :b", "-MAP",
				"=VAL :c",
				"-SEQ", "-DOC", "-STR",
			},
		},
		{
			name: "anchors and aliases",
			src:  "first:\n  &alias\n  1\nsecond:\n  *alias\nthird: 3\n",
			want: []string{
				"+STR", "+DOC", "+MAP",
				"=VAL :first", "=VAL &alias :1",
				"=VAL :second", "=ALI *alias",
				"=VAL :third", "=VAL :3",
				"-MAP", "-DOC", "-STR",
			},
		},
		{
			name: "tagged sequence",
			src:  "tuple: !wat\n  - 0\n  - 0\n",
			want: []string{
				"+STR", "+DOC", "+MAP",
				"=VAL :tuple", "+SEQ <!wat>", "=VAL :0", "=VAL :0", "-SEQ",
				"-MAP", "-DOC", "-STR",
			},
		},
		{
			name: "core tag shorthand",
			src:  "a: !!str 42\n",
			want: []string{
				"+STR", "+DOC", "+MAP",
				"=VAL :a", "=VAL <tag:yaml.org,2002:str> :42",
				"-MAP", "-DOC", "-STR",
			},
		},
		{
			name: "tag directive",
			src:  "%TAG !e! tag:example.com,2000:\n---\n!e!foo bar\n",
			want: []string{
				"+STR", "+DOC ---",
				"=VAL <tag:example.com,2000:foo> :bar",
				"-DOC", "-STR",
			},
		},
		{
			name: "multi document",
			src:  "---\na: 1\n...\n---\nb: 2\n",
			want: []string{
				"+STR",
				"+DOC ---", "+MAP", "=VAL :a", "=VAL :1", "-MAP", "-DOC ...",
				"+DOC ---", "+MAP", "=VAL :b", "=VAL :2", "-MAP", "-DOC",
				"-STR",
			},
		},
		{
			name: "bare document marker",
			src:  "---\n",
			want: []string{"+STR", "+DOC ---", "=VAL :", "-DOC", "-STR"},
		},
		{
			name: "empty stream",
			src:  "",
			want: []string{"+STR", "-STR"},
		},
		{
			name: "explicit key",
			src:  "? a\n: b\n",
			want: []string{
				"+STR", "+DOC", "+MAP",
				"=VAL :a", "=VAL :b",
				"-MAP", "-DOC", "-STR",
			},
		},
		{
			name: "block scalar value",
			src:  "text: >+\n  a\n  b\n\n",
			want: []string{
				"+STR", "+DOC", "+MAP",
				"=VAL :text", "=VAL >a b\\n\\n",
				"-MAP", "-DOC", "-STR",
			},
		},
		{
			name: "quoted scalars",
			src:  "a: 'x'\nb: \"y\"\n",
			want: []string{
				"+STR", "+DOC", "+MAP",
				"=VAL :a", "=VAL 'x",
				"=VAL :b", "=VAL \"y",
				"-MAP", "-DOC", "-STR",
			},
		},
		{
			name: "directives only",
			src:  "%YAML 1.2\n",
			want: []string{"+STR", "+DOC", "=VAL :", "-DOC", "-STR"},
		},
		{
			name: "anchored alias",
			src:  "aref: &aref *other\n",
			want: []string{
				"+STR", "+DOC", "+MAP",
				"=VAL :aref", "=ALI *other",
				"-MAP", "-DOC", "-STR",
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := trace(t, test.src)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Fatalf("event trace mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseEventNesting(t *testing.T) {
	sources := []string{
		"a: [1, {b: c}, [d]]\n",
		"- - - deep\n",
		"? [complex, key]\n: value\n",
		"---\nx\n---\ny\n",
	}
	for _, src := range sources {
		events, err := parser.ParseBytes([]byte(src))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", src, err)
		}
		depth := 0
		for i, ev := range events {
			switch ev.Type {
			case parser.StreamStartEvent, parser.DocumentStartEvent,
				parser.SequenceStartEvent, parser.MappingStartEvent:
				depth++
			case parser.StreamEndEvent, parser.DocumentEndEvent,
				parser.SequenceEndEvent, parser.MappingEndEvent:
				depth--
			}
			if depth < 0 {
				t.Fatalf("unbalanced events for %q at index %d", src, i)
			}
		}
		if depth != 0 {
			t.Fatalf("events do not balance for %q: depth %d", src, depth)
		}
		if events[0].Type != parser.StreamStartEvent {
			t.Fatalf("first event is %s", events[0].Type)
		}
		if events[len(events)-1].Type != parser.StreamEndEvent {
			t.Fatalf("last event is %s", events[len(events)-1].Type)
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

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind errors.Kind
	}{
		{"unclosed flow sequence", "[1, 2\n", errors.UnexpectedEOF},
		{"unclosed flow mapping", "{a: 1\n", errors.UnexpectedEOF},
		{"unexpected flow end", "]\n", errors.UnexpectedToken},
		{"content after document end", "...\nb: 2\n", errors.UnexpectedToken},
		{"incompatible version", "%YAML 2.0\n---\na\n", errors.InvalidDirective},
		{"duplicate version directive", "%YAML 1.2\n%YAML 1.2\n---\na\n", errors.InvalidDirective},
		{"duplicate tag directive", "%TAG !e! a:\n%TAG !e! b:\n---\na\n", errors.InvalidDirective},
		{"undefined tag handle", "a: !x!y b\n", errors.InvalidDirective},
		{"block entry in flow", "[- a]\n", errors.MixedBlockFlow},
		{"tagged alias", "a: !!str *x\n", errors.UnexpectedToken},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := parser.ParseBytes([]byte(test.src))
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := kindOf(t, err); got != test.kind {
				t.Fatalf("error kind = %s; want %s (err: %v)", got, test.kind, err)
			}
		})
	}
}

func TestParseVersionDirective(t *testing.T) {
	events, err := parser.ParseBytes([]byte("%YAML 1.2\n---\na\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var doc *parser.Event
	for _, ev := range events {
		if ev.Type == parser.DocumentStartEvent {
			doc = ev
			break
		}
	}
	if doc == nil || doc.Version == nil {
		t.Fatal("document start event must carry the version directive")
	}
	if doc.Version.Major != 1 || doc.Version.Minor != 2 {
		t.Fatalf("version = %d.%d; want 1.2", doc.Version.Major, doc.Version.Minor)
	}
}

func TestParseAcceptsYAML11(t *testing.T) {
	if _, err := parser.ParseBytes([]byte("%YAML 1.1\n---\na\n")); err != nil {
		t.Fatalf("%%YAML 1.1 must be accepted: %v", err)
	}
}
