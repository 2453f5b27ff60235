package rollbar

import "strings"

// scrubReplacement substitutes every scrubbed value.
const scrubReplacement = "********"

// Scrubber redacts sensitive values from a serialized tree. Same shape in
// and out; implementations must not mutate the input.
type Scrubber interface {
	Scrub(tree any) any
}

// fieldScrubber redacts any mapping entry whose key matches one of the
// configured field names, case-insensitively, at any depth.
type fieldScrubber struct {
	fields map[string]struct{}
}

func newFieldScrubber(fields []string) *fieldScrubber {
	s := &fieldScrubber{fields: make(map[string]struct{}, len(fields))}
	for _, f := range fields {
		s.fields[strings.ToLower(f)] = struct{}{}
	}
	return s
}

func (s *fieldScrubber) Scrub(tree any) any {
	switch t := tree.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			if _, hit := s.fields[strings.ToLower(k)]; hit {
				out[k] = scrubReplacement
				continue
			}
			out[k] = s.Scrub(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = s.Scrub(v)
		}
		return out
	default:
		return tree
	}
}
