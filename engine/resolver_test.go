package engine

import "testing"

func TestResolveExactMatches(t *testing.T) {
	resolver := NewResolver()

	tests := []struct {
		mention string
		symbol  string
	}{
		{"Apple", "AAPL"},
		{"apple", "AAPL"},
		{"Apple Inc.", "AAPL"},
		{"Microsoft Corporation", "MSFT"},
		{"AAPL", "AAPL"},
		{"tsla", "TSLA"},
		{"Federal Reserve", "FED"},
		{"the Fed", "FED"},
		{"S&P 500", "SPX"},
	}

	for _, tt := range tests {
		t.Run(tt.mention, func(t *testing.T) {
			res, ok := resolver.Resolve(tt.mention)
			if !ok {
				t.Fatalf("Resolve(%q) not found, want %s", tt.mention, tt.symbol)
			}
			if res.Symbol != tt.symbol {
				t.Errorf("Resolve(%q) = %s, want %s", tt.mention, res.Symbol, tt.symbol)
			}
			if res.Confidence != 1.0 {
				t.Errorf("Resolve(%q) confidence = %.2f, want 1.0", tt.mention, res.Confidence)
			}
		})
	}
}

func TestResolveFuzzyMatches(t *testing.T) {
	resolver := NewResolver()

	tests := []struct {
		mention string
		symbol  string
	}{
		{"Aple", "AAPL"},
		{"Microsft", "MSFT"},
		{"Teslaa", "TSLA"},
	}

	for _, tt := range tests {
		t.Run(tt.mention, func(t *testing.T) {
			res, ok := resolver.Resolve(tt.mention)
			if !ok {
				t.Fatalf("Resolve(%q) not found, want fuzzy match %s", tt.mention, tt.symbol)
			}
			if res.Symbol != tt.symbol {
				t.Errorf("Resolve(%q) = %s, want %s", tt.mention, res.Symbol, tt.symbol)
			}
			if res.Confidence >= 1.0 || res.Confidence < similarityThreshold {
				t.Errorf("Resolve(%q) confidence = %.2f, want in [%.2f, 1.0)", tt.mention, res.Confidence, similarityThreshold)
			}
		})
	}
}

func TestResolveUnknownEntity(t *testing.T) {
	resolver := NewResolver()

	for _, mention := range []string{"Zzyx Corp", "Quuxbar Industries", ""} {
		if res, ok := resolver.Resolve(mention); ok {
			t.Errorf("Resolve(%q) = %s, want no match", mention, res.Symbol)
		}
	}
}

func TestResolveMemoizes(t *testing.T) {
	resolver := NewResolver()

	first, ok := resolver.Resolve("Apple")
	if !ok {
		t.Fatal("Resolve(Apple) not found")
	}
	second, ok := resolver.Resolve("apple inc")
	if !ok {
		t.Fatal("Resolve(apple inc) not found")
	}
	if first.Symbol != second.Symbol {
		t.Errorf("normalized forms disagree: %s vs %s", first.Symbol, second.Symbol)
	}

	// Negative results are memoized too and stay negative
	if _, ok := resolver.Resolve("Zzyx"); ok {
		t.Error("Resolve(Zzyx) should not match")
	}
	if _, ok := resolver.Resolve("Zzyx"); ok {
		t.Error("memoized Resolve(Zzyx) should still not match")
	}
}

func TestKnownSymbol(t *testing.T) {
	if !KnownSymbol("AAPL") {
		t.Error("KnownSymbol(AAPL) = false, want true")
	}
	if !KnownSymbol("aapl") {
		t.Error("KnownSymbol(aapl) = false, want true")
	}
	if KnownSymbol("ZZZZ") {
		t.Error("KnownSymbol(ZZZZ) = true, want false")
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"apple", "aple", 1},
	}

	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
