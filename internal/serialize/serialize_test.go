package serialize

import (
	"reflect"
	"testing"
)

type node struct {
	Name string `json:"name"`
	Next *node  `json:"next"`
}

type secret struct{ id string }

func (s *secret) SerializeValue() string { return "secret:" + s.id }

func TestSerialize_Scalars(t *testing.T) {
	s := New()
	for _, v := range []any{"str", 42, 1.5, true} {
		if got := s.Serialize(v); got != v {
			t.Errorf("Serialize(%v) = %v, want unchanged", v, got)
		}
	}
	if got := s.Serialize(nil); got != nil {
		t.Errorf("Serialize(nil) = %v, want nil", got)
	}
}

func TestSerialize_NullKeysDropped(t *testing.T) {
	s := New()
	got := s.Serialize(map[string]any{"a": nil, "b": 1})
	want := map[string]any{"b": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Serialize() = %#v, want %#v", got, want)
	}
}

func TestSerialize_NullKeysKeptWhenAllowlisted(t *testing.T) {
	s := New("a")
	got := s.Serialize(map[string]any{"a": nil, "b": 1})
	want := map[string]any{"a": nil, "b": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Serialize() = %#v, want %#v", got, want)
	}
}

func TestSerialize_EmptyContainers(t *testing.T) {
	s := New()
	if got := s.Serialize(map[string]any{}); !reflect.DeepEqual(got, map[string]any{}) {
		t.Errorf("empty map = %#v, want empty map", got)
	}
	if got := s.Serialize([]any{}); !reflect.DeepEqual(got, []any{}) {
		t.Errorf("empty slice = %#v, want empty slice", got)
	}
}

func TestSerialize_SelfReferentialMap(t *testing.T) {
	m := map[string]any{"x": 1}
	m["self"] = m

	got := New().Serialize(m)
	tree, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("Serialize() = %T, want map", got)
	}
	if tree["self"] != CircularSentinel {
		t.Errorf("self = %v, want sentinel", tree["self"])
	}
	if tree["x"] != 1 {
		t.Errorf("x = %v, want 1", tree["x"])
	}
}

func TestSerialize_PointerCycle(t *testing.T) {
	a := &node{Name: "a"}
	b := &node{Name: "b", Next: a}
	a.Next = b

	got := New().Serialize(a)
	tree, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("Serialize() = %T, want map", got)
	}
	// a is top-level: plain member map. b is a member: wrapped object.
	wrapped, ok := tree["next"].(map[string]any)
	if !ok {
		t.Fatalf("next = %#v, want wrapped object", tree["next"])
	}
	if wrapped["class"] != "serialize.node" {
		t.Errorf("class = %v, want serialize.node", wrapped["class"])
	}
	inner, ok := wrapped["value"].(map[string]any)
	if !ok {
		t.Fatalf("value = %#v, want map", wrapped["value"])
	}
	// the back-edge to a must be the sentinel, not another descent
	if inner["next"] != CircularSentinel {
		t.Errorf("back edge = %v, want sentinel", inner["next"])
	}
}

func TestSerialize_TopLevelRevisit(t *testing.T) {
	a := &node{Name: "a"}
	s := New()

	visited := make(Visited)
	first := s.SerializeWith(a, visited)
	if _, ok := first.(map[string]any); !ok {
		t.Fatalf("first pass = %T, want map", first)
	}

	// the same object threaded through the same visited set is an ancestor
	second := s.SerializeWith(a, visited)
	if second != CircularSentinel {
		t.Errorf("second pass = %v, want sentinel", second)
	}
}

func TestSerialize_IdentityNotValueEquality(t *testing.T) {
	// two distinct but equal objects must both be serialized
	a := &node{Name: "same"}
	b := &node{Name: "same"}
	got := New().Serialize(map[string]any{"a": a, "b": b})
	tree := got.(map[string]any)
	for _, key := range []string{"a", "b"} {
		if tree[key] == CircularSentinel {
			t.Errorf("%s collapsed to sentinel; identity must not be value equality", key)
		}
	}
}

func TestSerialize_EachNodeVisitedOnce(t *testing.T) {
	a := &node{Name: "a"}
	b := &node{Name: "b", Next: a}
	a.Next = b

	_, visited := New().SerializeTracked(a)
	// a and b are the only tracked references
	if visited.Len() != 2 {
		t.Errorf("visited %d identities, want 2", visited.Len())
	}
}

func TestSerialize_CustomSerializable(t *testing.T) {
	sec := &secret{id: "k1"}
	got := New().Serialize(map[string]any{"cred": sec})
	tree := got.(map[string]any)
	if tree["cred"] != "secret:k1" {
		t.Errorf("cred = %v, want custom representation", tree["cred"])
	}

	// a revisited custom-serializable member yields the sentinel
	got = New().Serialize([]any{sec, sec})
	seq := got.([]any)
	if seq[0] != "secret:k1" || seq[1] != CircularSentinel {
		t.Errorf("sequence = %#v, want [secret:k1 %s]", seq, CircularSentinel)
	}
}

func TestSerialize_NestedMixed(t *testing.T) {
	got := New().Serialize(map[string]any{
		"list":  []any{1, "two", nil},
		"inner": map[string]any{"keep": true, "drop": nil},
	})
	want := map[string]any{
		"list":  []any{1, "two", nil},
		"inner": map[string]any{"keep": true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Serialize() = %#v, want %#v", got, want)
	}
}

func TestSerialize_SelfReferentialSlice(t *testing.T) {
	s := make([]any, 2)
	s[0] = "head"
	s[1] = s

	got := New().Serialize(s)
	seq, ok := got.([]any)
	if !ok {
		t.Fatalf("Serialize() = %T, want slice", got)
	}
	if seq[0] != "head" {
		t.Errorf("seq[0] = %v, want head", seq[0])
	}
	if seq[1] != CircularSentinel {
		t.Errorf("seq[1] = %v, want sentinel", seq[1])
	}
}

func TestSerialize_JSONTagNames(t *testing.T) {
	type tagged struct {
		UserID  string `json:"user_id"`
		Skipped string `json:"-"`
		Plain   int
	}
	got := New().Serialize(tagged{UserID: "u1", Skipped: "x", Plain: 3})
	want := map[string]any{"user_id": "u1", "Plain": 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Serialize() = %#v, want %#v", got, want)
	}
}
