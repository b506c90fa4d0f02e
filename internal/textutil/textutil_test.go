package textutil

import "testing"

func TestBrandKeyFolds(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"LG", "lg", true},
		{" Hisense ", "HISENSE", true},
		{"Samsung", "Sony", false},
		{"", "", true},
	}
	for _, tt := range tests {
		if got := BrandKey(tt.a) == BrandKey(tt.b); got != tt.same {
			t.Errorf("BrandKey(%q) == BrandKey(%q) = %v, want %v", tt.a, tt.b, got, tt.same)
		}
	}
}

func TestBrandSetContains(t *testing.T) {
	set := NewBrandSet("Samsung", "Sony", "", "LG")
	if !set.Contains("samsung") || !set.Contains("LG") {
		t.Fatal("expected folded membership")
	}
	if set.Contains("TCL") || set.Contains("") {
		t.Fatal("unexpected membership")
	}
	if name, ok := set.Configured(" samsung"); !ok || name != "Samsung" {
		t.Fatalf("Configured = %q, %v", name, ok)
	}
	var empty BrandSet
	if empty.Contains("Samsung") {
		t.Fatal("nil set should contain nothing")
	}
}

func TestOrDash(t *testing.T) {
	if OrDash("") != "-" || OrDash("KSF") != "KSF" {
		t.Fatal("unexpected OrDash output")
	}
}
