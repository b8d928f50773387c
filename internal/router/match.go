package router

// matchPath reports whether the route's pattern consumes every segment of
// the request path.
func (rt *Route) matchPath(segs []string) bool {
	// Every pattern segment consumes at least one URI segment, so a
	// pattern longer than the path can never match.
	if len(rt.segments) > len(segs) {
		return false
	}
	return matchSegments(rt.segments, segs)
}

// matchSegments matches pattern segments against URI segments.
//
// A "**" segment absorbs at least one URI segment. As the final pattern
// segment it absorbs everything that remains. Otherwise its span ends at
// the first URI segment, scanning left to right, that both satisfies the
// following pattern segment and leaves a tail the rest of the pattern can
// consume; matching then resumes two pattern segments ahead.
func matchSegments(pattern []patternSegment, segs []string) bool {
	if len(pattern) == 0 {
		return len(segs) == 0
	}

	s := pattern[0]
	if s.kind == segmentMulti {
		if len(segs) == 0 {
			return false
		}
		if len(pattern) == 1 {
			return true
		}
		next := pattern[1]
		// segs[0] is always absorbed by the multi wildcard; candidates
		// for ending its span start at the second remaining segment.
		for j := 1; j < len(segs); j++ {
			if next.matchOne(segs[j]) && matchSegments(pattern[2:], segs[j+1:]) {
				return true
			}
		}
		return false
	}

	if len(segs) == 0 || !s.matchOne(segs[0]) {
		return false
	}
	return matchSegments(pattern[1:], segs[1:])
}
