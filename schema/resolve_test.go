package schema_test

import (
	"math"
	"testing"

	"github.com/cyrup-ai/go-yyaml/schema"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		value string
		kind  schema.Kind
		tag   string
	}{
		{"", schema.NullKind, schema.NullTag},
		{"~", schema.NullKind, schema.NullTag},
		{"null", schema.NullKind, schema.NullTag},
		{"Null", schema.NullKind, schema.NullTag},
		{"NULL", schema.NullKind, schema.NullTag},
		{"true", schema.BoolKind, schema.BoolTag},
		{"True", schema.BoolKind, schema.BoolTag},
		{"FALSE", schema.BoolKind, schema.BoolTag},
		{"0", schema.IntKind, schema.IntTag},
		{"42", schema.IntKind, schema.IntTag},
		{"-7", schema.IntKind, schema.IntTag},
		{"+7", schema.IntKind, schema.IntTag},
		{"007", schema.IntKind, schema.IntTag},
		{"0x1A", schema.IntKind, schema.IntTag},
		{"-0x10", schema.IntKind, schema.IntTag},
		{"0o17", schema.IntKind, schema.IntTag},
		{"18446744073709551615", schema.UintKind, schema.IntTag},
		{"123456789012345678901234567890", schema.BigIntKind, schema.IntTag},
		{"0.5", schema.FloatKind, schema.FloatTag},
		{".5", schema.FloatKind, schema.FloatTag},
		{"5.", schema.FloatKind, schema.FloatTag},
		{"1e3", schema.FloatKind, schema.FloatTag},
		{"-2E-2", schema.FloatKind, schema.FloatTag},
		{".inf", schema.FloatKind, schema.FloatTag},
		{"-.inf", schema.FloatKind, schema.FloatTag},
		{"+.Inf", schema.FloatKind, schema.FloatTag},
		{".nan", schema.FloatKind, schema.FloatTag},
		{".NaN", schema.FloatKind, schema.FloatTag},
		{"yes", schema.StringKind, schema.StrTag},
		{"on", schema.StringKind, schema.StrTag},
		{"no", schema.StringKind, schema.StrTag},
		{"truthy", schema.StringKind, schema.StrTag},
		{"0xZZ", schema.StringKind, schema.StrTag},
		{"0o8", schema.StringKind, schema.StrTag},
		{"-", schema.StringKind, schema.StrTag},
		{".", schema.StringKind, schema.StrTag},
		{"1.2.3", schema.StringKind, schema.StrTag},
		{"1e", schema.StringKind, schema.StrTag},
		{"e3", schema.StringKind, schema.StrTag},
		{"hello", schema.StringKind, schema.StrTag},
	}
	for _, test := range tests {
		t.Run(test.value, func(t *testing.T) {
			got := schema.Resolve(test.value)
			if got.Kind != test.kind {
				t.Fatalf("Resolve(%q).Kind = %s; want %s", test.value, got.Kind, test.kind)
			}
			if got.Tag != test.tag {
				t.Fatalf("Resolve(%q).Tag = %s; want %s", test.value, got.Tag, test.tag)
			}
		})
	}
}

func TestResolveValues(t *testing.T) {
	if got := schema.Resolve("42"); got.Int != 42 {
		t.Fatalf("expected 42 but got %d", got.Int)
	}
	if got := schema.Resolve("-0x10"); got.Int != -16 {
		t.Fatalf("expected -16 but got %d", got.Int)
	}
	if got := schema.Resolve("0o17"); got.Int != 15 {
		t.Fatalf("expected 15 but got %d", got.Int)
	}
	if got := schema.Resolve("18446744073709551615"); got.Uint != math.MaxUint64 {
		t.Fatalf("expected max uint64 but got %d", got.Uint)
	}
	if got := schema.Resolve("123456789012345678901234567890"); got.Big.String() != "123456789012345678901234567890" {
		t.Fatalf("unexpected big integer %s", got.Big)
	}
	if got := schema.Resolve("1e3"); got.Float != 1000 {
		t.Fatalf("expected 1000 but got %f", got.Float)
	}
	if got := schema.Resolve("-.inf"); !math.IsInf(got.Float, -1) {
		t.Fatalf("expected -inf but got %f", got.Float)
	}
	if got := schema.Resolve(".nan"); !math.IsNaN(got.Float) {
		t.Fatalf("expected NaN but got %f", got.Float)
	}
	if got := schema.Resolve("true"); !got.Bool {
		t.Fatal("expected true")
	}
}

func TestIsLegacyBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
		ok    bool
	}{
		{"yes", true, true},
		{"Yes", true, true},
		{"ON", true, true},
		{"no", false, true},
		{"Off", false, true},
		{"true", false, false},
		{"y", false, false},
	}
	for _, test := range tests {
		got, ok := schema.IsLegacyBool(test.value)
		if got != test.want || ok != test.ok {
			t.Fatalf("IsLegacyBool(%q) = (%v, %v); want (%v, %v)", test.value, got, ok, test.want, test.ok)
		}
	}
}
