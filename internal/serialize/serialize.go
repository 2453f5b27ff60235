// Package serialize converts arbitrary Go values, including self-referential
// object graphs, into plain acyclic trees of scalars, []any sequences and
// map[string]any mappings suitable for wire encoding.
//
// Cycle safety comes from an identity-keyed visited set scoped to a single
// Serialize call: every reference identity is recorded before its members are
// descended into, and any revisit yields the CircularSentinel marker instead
// of recursing again. Identity means the same underlying object, never value
// equality, so two distinct but equal values are not confused.
package serialize

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// CircularSentinel replaces any reference whose identity was already visited
// in the current serialization call, breaking cycles.
const CircularSentinel = "CircularType"

// Serializable lets a value provide its own wire representation. Members
// implementing it are replaced by the returned string instead of being
// descended into.
type Serializable interface {
	SerializeValue() string
}

// identity names one reference: allocation address plus, for slices, the
// length. The length keeps two subslices of one backing array from being
// mistaken for a revisit of each other.
type identity struct {
	addr   uintptr
	length int
}

// Visited is the set of reference identities seen during one Serialize call.
// It is local to that call and must never be shared across concurrent calls.
type Visited map[identity]struct{}

// Len reports how many distinct references have been visited.
func (v Visited) Len() int { return len(v) }

// Serializer produces plain trees. The zero value is usable; New configures
// the keys whose null values survive mapping serialization.
type Serializer struct {
	keepNull map[string]struct{}
}

// New returns a Serializer. Mapping keys listed in keepNullKeys retain their
// entries even when the value is null; all other null-valued keys are omitted.
func New(keepNullKeys ...string) *Serializer {
	s := &Serializer{}
	if len(keepNullKeys) > 0 {
		s.keepNull = make(map[string]struct{}, len(keepNullKeys))
		for _, k := range keepNullKeys {
			s.keepNull[k] = struct{}{}
		}
	}
	return s
}

// Serialize converts value into a plain tree using a fresh visited set.
func (s *Serializer) Serialize(value any) any {
	out, _ := s.SerializeTracked(value)
	return out
}

// SerializeTracked is Serialize plus the visited set accumulated during the
// call, returned for introspection by tests and debug tooling.
func (s *Serializer) SerializeTracked(value any) (any, Visited) {
	visited := make(Visited)
	return s.SerializeWith(value, visited), visited
}

// SerializeWith threads an explicit visited set through the call, allowing
// recursive sub-calls that belong to the same top-level serialization to
// share cycle state. A value whose identity is already present serializes
// to the sentinel immediately.
//
// A top-level object serializes to a plain mapping of its members; the
// {class, value} wrapping applies only to objects encountered as members.
func (s *Serializer) SerializeWith(value any, visited Visited) any {
	v := indirectInterface(reflect.ValueOf(value))
	if !v.IsValid() {
		return nil
	}

	if _, ok := asSerializable(v); !ok {
		elem := v
		if elem.Kind() == reflect.Pointer && !elem.IsNil() {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct {
			if _, circular := mark(v, visited); circular {
				return CircularSentinel
			}
			return s.walkFields(elem, visited)
		}
	}

	return s.walk(v, visited)
}

// walk serializes one member value. Classification order: null,
// custom-serializable, sequence/mapping, nested object, scalar passthrough.
func (s *Serializer) walk(v reflect.Value, visited Visited) any {
	v = indirectInterface(v)
	if !v.IsValid() {
		return nil
	}

	if sv, ok := asSerializable(v); ok {
		id, tracked := refIdentity(v)
		if tracked {
			if _, seen := visited[id]; seen {
				return CircularSentinel
			}
			visited[id] = struct{}{}
		}
		return sv.SerializeValue()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		if _, circular := mark(v, visited); circular {
			return CircularSentinel
		}
		return s.walkMap(v, visited)

	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if _, circular := mark(v, visited); circular {
			return CircularSentinel
		}
		return s.walkSeq(v, visited)

	case reflect.Array:
		return s.walkSeq(v, visited)

	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		if _, circular := mark(v, visited); circular {
			return CircularSentinel
		}
		elem := v.Elem()
		if elem.Kind() == reflect.Struct {
			return wrapObject(typeName(v), s.walkFields(elem, visited))
		}
		return s.walk(elem, visited)

	case reflect.Struct:
		return wrapObject(typeName(v), s.walkFields(v, visited))

	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		// not representable on the wire
		return nil

	default:
		return v.Interface()
	}
}

// walkMap serializes a keyed mapping. Keys are stringified and iterated in
// sorted order so output is deterministic. Keys holding null are omitted
// unless allowlisted via New.
func (s *Serializer) walkMap(v reflect.Value, visited Visited) map[string]any {
	out := make(map[string]any, v.Len())

	keys := make([]string, 0, v.Len())
	byName := make(map[string]reflect.Value, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		name := keyString(iter.Key())
		keys = append(keys, name)
		byName[name] = iter.Value()
	}
	sort.Strings(keys)

	for _, name := range keys {
		member := s.walk(byName[name], visited)
		if member == nil && !s.keepsNull(name) {
			continue
		}
		out[name] = member
	}
	return out
}

func (s *Serializer) walkSeq(v reflect.Value, visited Visited) []any {
	out := make([]any, v.Len())
	for i := 0; i < v.Len(); i++ {
		out[i] = s.walk(v.Index(i), visited)
	}
	return out
}

// walkFields serializes the exported fields of a struct, in declaration
// order, into a mapping. Field names honor json tags when present. Fields
// holding null are omitted unless allowlisted, the same rule as mappings.
func (s *Serializer) walkFields(v reflect.Value, visited Visited) map[string]any {
	t := v.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := fieldName(f)
		if name == "-" {
			continue
		}
		member := s.walk(v.Field(i), visited)
		if member == nil && !s.keepsNull(name) {
			continue
		}
		out[name] = member
	}
	return out
}

func (s *Serializer) keepsNull(key string) bool {
	_, ok := s.keepNull[key]
	return ok
}

// mark records v's identity, reporting whether it was already present.
func mark(v reflect.Value, visited Visited) (marked, circular bool) {
	id, tracked := refIdentity(v)
	if !tracked {
		return false, false
	}
	if _, seen := visited[id]; seen {
		return false, true
	}
	visited[id] = struct{}{}
	return true, false
}

func refIdentity(v reflect.Value) (identity, bool) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map:
		if v.IsNil() {
			return identity{}, false
		}
		return identity{addr: v.Pointer(), length: -1}, true
	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 {
			return identity{}, false
		}
		return identity{addr: v.Pointer(), length: v.Len()}, true
	default:
		return identity{}, false
	}
}

func asSerializable(v reflect.Value) (Serializable, bool) {
	if !v.CanInterface() {
		return nil, false
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, false
	}
	sv, ok := v.Interface().(Serializable)
	return sv, ok
}

func wrapObject(class string, members map[string]any) map[string]any {
	return map[string]any{
		"class": class,
		"value": members,
	}
}

func indirectInterface(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		return v.Elem()
	}
	return v
}

func typeName(v reflect.Value) string {
	t := v.Type()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

func keyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
