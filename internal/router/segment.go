package router

import (
	"fmt"
	"strings"

	"github.com/vyrodovalexey/avrouter/internal/util"
)

// segmentKind identifies how a pattern segment matches a URI segment.
type segmentKind int

const (
	// segmentLiteral matches by exact string equality.
	segmentLiteral segmentKind = iota

	// segmentStar ("*") matches exactly one URI segment, any content.
	segmentStar

	// segmentMulti ("**") matches one or more consecutive URI segments.
	segmentMulti

	// segmentPartial is a literal with a leading and/or trailing "*",
	// matched by suffix, prefix, or substring.
	segmentPartial
)

// patternSegment is one compiled segment of a route path.
type patternSegment struct {
	kind    segmentKind
	literal string

	// Partial wildcard markers: a leading "*" means the URI segment must
	// end with the literal, a trailing "*" means it must start with it,
	// both mean it must contain it.
	leading  bool
	trailing bool
}

// compilePath validates a route path and compiles it into pattern segments.
func compilePath(path string) ([]patternSegment, error) {
	if path == "" {
		return nil, util.NewConfigError("path", "route path must not be empty")
	}
	if !strings.HasPrefix(path, "/") {
		return nil, util.NewConfigError("path", fmt.Sprintf("route path %q must start with /", path))
	}

	raw := splitPath(path)
	segments := make([]patternSegment, 0, len(raw))
	for i, seg := range raw {
		if seg == "**" && i+1 < len(raw) && (raw[i+1] == "*" || raw[i+1] == "**") {
			return nil, util.NewConfigError("path", "** followed by another wildcard is unsupported")
		}
		segments = append(segments, compileSegment(seg))
	}

	return segments, nil
}

// compileSegment classifies a single path segment.
func compileSegment(seg string) patternSegment {
	switch seg {
	case "*":
		return patternSegment{kind: segmentStar}
	case "**":
		return patternSegment{kind: segmentMulti}
	}

	leading := strings.HasPrefix(seg, "*")
	trailing := strings.HasSuffix(seg, "*")
	if !leading && !trailing {
		return patternSegment{kind: segmentLiteral, literal: seg}
	}

	core := seg
	if leading {
		core = core[1:]
	}
	if trailing {
		core = core[:len(core)-1]
	}

	return patternSegment{
		kind:     segmentPartial,
		literal:  core,
		leading:  leading,
		trailing: trailing,
	}
}

// matchOne reports whether a single URI segment satisfies this pattern
// segment. A multi wildcard never matches a single segment directly; its
// span is handled by matchSegments.
func (s patternSegment) matchOne(seg string) bool {
	switch s.kind {
	case segmentStar:
		return true
	case segmentLiteral:
		return seg == s.literal
	case segmentPartial:
		switch {
		case s.leading && s.trailing:
			return strings.Contains(seg, s.literal)
		case s.leading:
			return strings.HasSuffix(seg, s.literal)
		default:
			return strings.HasPrefix(seg, s.literal)
		}
	default:
		return false
	}
}

// splitPath splits a path into its segments, discarding the empty segment
// produced by the leading slash. The root path "/" yields zero segments.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// splitRequestPath extracts the matchable path segments from a raw request
// URI. The path ends at the first occurrence of "?", "&", or "#"; the
// remainder is discarded rather than parsed.
func splitRequestPath(uri string) []string {
	if i := strings.IndexAny(uri, "?&#"); i >= 0 {
		uri = uri[:i]
	}
	return splitPath(uri)
}
