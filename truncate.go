package rollbar

// Truncator shrinks an encoded payload that exceeds the collector's size
// limit. The result is never larger than the input and keeps the fields
// needed for response correlation intact.
type Truncator interface {
	Truncate(p EncodedPayload) EncodedPayload
}

// stringLimits are applied in order until the payload fits: each pass trims
// every string in the decoded tree to the given rune count and re-encodes.
var stringLimits = []int{1024, 512, 256}

// sizeTruncator decodes, trims long strings, and re-encodes. Payloads at or
// under maxSize pass through untouched.
type sizeTruncator struct {
	maxSize int
	enc     Encoder
}

func newSizeTruncator(maxSize int, enc Encoder) *sizeTruncator {
	return &sizeTruncator{maxSize: maxSize, enc: enc}
}

func (t *sizeTruncator) Truncate(p EncodedPayload) EncodedPayload {
	if t.maxSize <= 0 || p.Size() <= t.maxSize {
		return p
	}

	var tree any
	if err := t.enc.Decode(p, &tree); err != nil {
		return p
	}

	for _, limit := range stringLimits {
		tree = trimStrings(tree, limit)
		out, err := t.enc.Encode(tree)
		if err != nil {
			return p
		}
		if out.Size() > p.Size() {
			// a strategy must never grow the payload
			return p
		}
		if out.Size() <= t.maxSize {
			return out
		}
		p = out
	}
	return p
}

func trimStrings(tree any, limit int) any {
	switch t := tree.(type) {
	case string:
		r := []rune(t)
		if len(r) > limit {
			return string(r[:limit])
		}
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = trimStrings(v, limit)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = trimStrings(v, limit)
		}
		return out
	default:
		return tree
	}
}
