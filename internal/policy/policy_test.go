package policy

import "testing"

func TestDefaultPolicyMatchesCaseInsensitively(t *testing.T) {
	p := Default()
	if !p.IsSource("JAVA.IO.BUFFEREDREADER.READLINE") {
		t.Fatal("expected case-insensitive source match")
	}
	if !p.IsSink("java.sql.Statement.executeQuery") {
		t.Fatal("expected sink match")
	}
	if !p.IsCombinator("java.lang.StringBuilder.append") {
		t.Fatal("expected combinator match")
	}
	if p.IsSource("java.lang.Math.abs") {
		t.Fatal("unrelated method must not match as a source")
	}
}

func TestWithOverridesLayersOverDefaults(t *testing.T) {
	base := Default()
	extended := base.WithOverrides([]string{"com.example.ReadInput"}, nil, nil)

	if !extended.IsSource("com.example.ReadInput") {
		t.Fatal("expected the override to be recognized as a source")
	}
	if !extended.IsSource("java.util.Scanner.nextLine") {
		t.Fatal("expected built-in defaults to still be recognized")
	}
	if base.IsSource("com.example.ReadInput") {
		t.Fatal("WithOverrides must not mutate the receiver")
	}
}
