// Package interval implements the range-set arithmetic used by limit
// records: parsing textual specs like "5-10,15,20-25", merging, complements
// and member counting. All functions follow a never-fails contract:
// malformed tokens are skipped and invalid input degrades to an empty
// result instead of an error.
package interval

import (
	"strconv"
	"strings"
)

// Range is a closed integer interval. Start <= End always holds for ranges
// produced by this package.
type Range struct {
	Start int
	End   int
}

// Len returns the number of integers covered by the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// EmptyToken is the case-insensitive literal denoting an empty range set.
const EmptyToken = "NO"

// Parse splits spec on commas and converts each token into a Range. A bare
// integer n becomes [n,n]; "a-b" becomes [min,max] (reversed bounds are
// auto-corrected). Empty tokens, "NO" tokens and tokens that fail integer
// parsing are skipped. The result is neither merged nor sorted.
func Parse(spec string) []Range {
	if strings.EqualFold(strings.TrimSpace(spec), EmptyToken) {
		return nil
	}

	var ranges []Range
	for _, part := range strings.Split(spec, ",") {
		p := strings.TrimSpace(part)
		if p == "" || strings.EqualFold(p, EmptyToken) {
			continue
		}

		if strings.Contains(p, "-") {
			bounds := strings.SplitN(p, "-", 2)
			start, err1 := strconv.Atoi(strings.TrimSpace(bounds[0]))
			end, err2 := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err1 != nil || err2 != nil {
				continue
			}
			if start > end {
				start, end = end, start
			}
			ranges = append(ranges, Range{Start: start, End: end})
			continue
		}

		val, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		ranges = append(ranges, Range{Start: val, End: val})
	}
	return ranges
}

// Merge sorts ranges by start and coalesces overlapping or adjacent ones.
// Adjacency uses a gap threshold of 1, so [1,5] and [6,10] merge into
// [1,10]. The input slice is not modified.
func Merge(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Start < sorted[j-1].Start; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	merged := make([]Range, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start <= current.End+1 {
			if next.End > current.End {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// Complement returns the portions of totalSpec not covered by any of the
// excluded specs, rendered back to compact string form. An empty total
// yields "". When nothing is excluded the total spec is returned verbatim.
func Complement(totalSpec string, excluded []string) string {
	total := Parse(totalSpec)
	if len(total) == 0 {
		return ""
	}

	var all []Range
	for _, spec := range excluded {
		all = append(all, Parse(spec)...)
	}
	if len(all) == 0 {
		return totalSpec
	}

	exclusions := Merge(all)

	var complement []Range
	for _, r := range total {
		currentStart := r.Start
		for _, ex := range exclusions {
			if ex.End < currentStart || ex.Start > r.End {
				continue
			}
			if currentStart < ex.Start {
				end := ex.Start - 1
				if end > r.End {
					end = r.End
				}
				complement = append(complement, Range{Start: currentStart, End: end})
			}
			if ex.End+1 > currentStart {
				currentStart = ex.End + 1
			}
		}
		if currentStart <= r.End {
			complement = append(complement, Range{Start: currentStart, End: r.End})
		}
	}

	return Render(complement)
}

// Render formats ranges in the compact comma form: single values as "n",
// wider ranges as "s-e". An empty list renders as "".
func Render(ranges []Range) string {
	if len(ranges) == 0 {
		return ""
	}

	parts := make([]string, len(ranges))
	for i, r := range ranges {
		if r.Start == r.End {
			parts[i] = strconv.Itoa(r.Start)
		} else {
			parts[i] = strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
		}
	}
	return strings.Join(parts, ",")
}

// CountMembers counts the integers described by spec at the token level:
// "s-e" contributes e-s+1, a bare numeric token contributes exactly 1, and
// "NO", empty or unparsable tokens contribute 0. The bare-token rule is a
// deliberate quirk kept from the limit forms; do not replace it with full
// range cardinality.
func CountMembers(spec string) int {
	sum := 0
	for _, part := range strings.Split(spec, ",") {
		p := strings.TrimSpace(part)
		if p == "" || strings.EqualFold(p, EmptyToken) {
			continue
		}

		if strings.Contains(p, "-") {
			bounds := strings.SplitN(p, "-", 2)
			start, err1 := strconv.Atoi(strings.TrimSpace(bounds[0]))
			end, err2 := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err1 == nil && err2 == nil {
				sum += end - start + 1
			}
			continue
		}

		if _, err := strconv.Atoi(p); err == nil {
			sum++
		}
	}
	return sum
}
