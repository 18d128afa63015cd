package allowlist

// wildcardMatch reports whether target matches pattern, where '*' in the
// pattern matches any run of characters (including '/') and every other
// byte matches itself. Two cursors walk the strings; on a mismatch the
// target cursor backtracks to just past the most recent '*' anchor, so the
// worst case is linear in pattern length times target length and the
// single-wildcard alphabet keeps it effectively linear.
func wildcardMatch(pattern, target string) bool {
	pi, ti := 0, 0
	star, mark := -1, 0
	for ti < len(target) {
		switch {
		case pi < len(pattern) && pattern[pi] == '*':
			star = pi
			mark = ti
			pi++
		case pi < len(pattern) && pattern[pi] == target[ti]:
			pi++
			ti++
		case star >= 0:
			mark++
			ti = mark
			pi = star + 1
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
