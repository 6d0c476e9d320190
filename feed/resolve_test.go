package feed

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		article  Article
		wantKind ResolvedKind
		wantText string
	}{
		{
			name:     "full content preferred",
			article:  Article{Content: "full text", Summary: "brief"},
			wantKind: KindFull,
			wantText: "full text",
		},
		{
			name:     "summary fallback",
			article:  Article{Summary: "brief"},
			wantKind: KindSummary,
			wantText: "brief",
		},
		{
			name:     "absent when nothing present",
			article:  Article{Title: "headline only"},
			wantKind: KindAbsent,
		},
		{
			name:     "whitespace content counts as missing",
			article:  Article{Content: "   \n\t", Summary: "brief"},
			wantKind: KindSummary,
			wantText: "brief",
		},
		{
			name:     "whitespace everywhere is absent",
			article:  Article{Content: " ", Summary: "\n"},
			wantKind: KindAbsent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.article)
			if got.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Text != tt.wantText {
				t.Errorf("text = %q, want %q", got.Text, tt.wantText)
			}
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	a := Article{Content: "same text"}
	first := Resolve(a)
	for i := 0; i < 10; i++ {
		if got := Resolve(a); got != first {
			t.Fatalf("resolution changed between calls: %+v vs %+v", got, first)
		}
	}
}
