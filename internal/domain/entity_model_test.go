package domain

import "testing"

func TestEntityDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		entity Entity
		want   string
	}{
		{"stored name wins", Entity{ID: "ent_cmh1", Name: "Command House"}, "Command House"},
		{"slug fallback", Entity{ID: "ent_cmh1"}, "CMH1"},
		{"non slug id unchanged", Entity{ID: "acme"}, "acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entity.DisplayName(); got != tt.want {
				t.Fatalf("DisplayName returned %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategoryIsOffer(t *testing.T) {
	if !(&ParentCategory{Name: "Offer Warmup REPORTING"}).IsOffer() {
		t.Fatal("IsOffer returned false for an offer category")
	}
	if (&ParentCategory{Name: "IP 1 REPORTING"}).IsOffer() {
		t.Fatal("IsOffer returned true for a non-offer category")
	}
}
