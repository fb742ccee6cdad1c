package interval

import (
	"testing"
)

func TestParse(t *testing.T) {
	t.Run("mixed tokens", func(t *testing.T) {
		got := Parse("5-10,15,NO,20-18")
		want := []Range{{5, 10}, {15, 15}, {18, 20}}
		if len(got) != len(want) {
			t.Fatalf("Parse returned %d ranges, want %d", len(got), len(want))
		}
		for i, r := range got {
			if r != want[i] {
				t.Fatalf("Parse range %d = %v, want %v", i, r, want[i])
			}
		}
	})

	t.Run("empty and NO", func(t *testing.T) {
		if got := Parse(""); got != nil {
			t.Fatalf("Parse(\"\") = %v, want nil", got)
		}
		if got := Parse("no"); got != nil {
			t.Fatalf("Parse(\"no\") = %v, want nil", got)
		}
		if got := Parse(" NO "); got != nil {
			t.Fatalf("Parse(\" NO \") = %v, want nil", got)
		}
	})

	t.Run("garbage tokens skipped", func(t *testing.T) {
		got := Parse("abc,5,x-y,7-9")
		want := []Range{{5, 5}, {7, 9}}
		if len(got) != len(want) {
			t.Fatalf("Parse returned %v, want %v", got, want)
		}
		for i, r := range got {
			if r != want[i] {
				t.Fatalf("Parse range %d = %v, want %v", i, r, want[i])
			}
		}
	})
}

func TestMerge(t *testing.T) {
	t.Run("adjacent ranges coalesce", func(t *testing.T) {
		got := Merge([]Range{{6, 10}, {1, 5}})
		if len(got) != 1 || got[0] != (Range{1, 10}) {
			t.Fatalf("Merge returned %v, want [{1 10}]", got)
		}
	})

	t.Run("gap keeps ranges apart", func(t *testing.T) {
		got := Merge([]Range{{1, 5}, {7, 10}})
		if len(got) != 2 || got[0] != (Range{1, 5}) || got[1] != (Range{7, 10}) {
			t.Fatalf("Merge returned %v, want [{1 5} {7 10}]", got)
		}
	})

	t.Run("contained range absorbed", func(t *testing.T) {
		got := Merge([]Range{{1, 20}, {5, 10}})
		if len(got) != 1 || got[0] != (Range{1, 20}) {
			t.Fatalf("Merge returned %v, want [{1 20}]", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := Merge(nil); got != nil {
			t.Fatalf("Merge(nil) = %v, want nil", got)
		}
	})
}

func TestRenderRoundTrip(t *testing.T) {
	specs := []string{
		"1-10",
		"5",
		"1-2,6-7,9-10",
		"3,8,15-20",
	}
	for _, spec := range specs {
		if got := Render(Merge(Parse(spec))); got != spec {
			t.Fatalf("round trip of %q produced %q", spec, got)
		}
	}
}

func TestComplement(t *testing.T) {
	t.Run("example from limit forms", func(t *testing.T) {
		if got := Complement("1-10", []string{"3-5", "8"}); got != "1-2,6-7,9-10" {
			t.Fatalf("Complement returned %q, want \"1-2,6-7,9-10\"", got)
		}
	})

	t.Run("empty total", func(t *testing.T) {
		if got := Complement("", []string{"1-5"}); got != "" {
			t.Fatalf("Complement returned %q, want \"\"", got)
		}
		if got := Complement("NO", []string{"1-5"}); got != "" {
			t.Fatalf("Complement returned %q, want \"\"", got)
		}
	})

	t.Run("no exclusions returns total verbatim", func(t *testing.T) {
		if got := Complement("1-10,20", []string{"", "NO"}); got != "1-10,20" {
			t.Fatalf("Complement returned %q, want \"1-10,20\"", got)
		}
	})

	t.Run("full exclusion", func(t *testing.T) {
		if got := Complement("1-10", []string{"1-10"}); got != "" {
			t.Fatalf("Complement returned %q, want \"\"", got)
		}
	})

	t.Run("exclusion beyond total bounds", func(t *testing.T) {
		if got := Complement("5-10", []string{"1-6", "9-20"}); got != "7-8" {
			t.Fatalf("Complement returned %q, want \"7-8\"", got)
		}
	})

	// Cardinality check: for contained exclusions, complement plus excluded
	// members must add up to the total. Multi-value tokens only, so token
	// counting matches true cardinality here.
	t.Run("cardinality invariant", func(t *testing.T) {
		cases := []struct {
			total    string
			excluded string
		}{
			{"1-100", "10-20"},
			{"1-100", "1-3,50-60,98-100"},
			{"1-50,60-90", "5-10,70-80"},
			{"1-30", "2-3,5-6,8-9,11-12"},
		}
		for _, c := range cases {
			comp := Complement(c.total, []string{c.excluded})
			got := CountMembers(comp) + CountMembers(c.excluded)
			if want := CountMembers(c.total); got != want {
				t.Fatalf("complement of %q minus %q: members %d, want %d (complement %q)",
					c.total, c.excluded, got, want, comp)
			}
		}
	})
}

func TestCountMembers(t *testing.T) {
	cases := []struct {
		spec string
		want int
	}{
		{"", 0},
		{"NO", 0},
		{"5", 1},
		{"5-10", 6},
		{"5-10,15,20-25", 13},
		{"1-3,junk,7", 4},
	}
	for _, c := range cases {
		if got := CountMembers(c.spec); got != c.want {
			t.Fatalf("CountMembers(%q) = %d, want %d", c.spec, got, c.want)
		}
	}
}
