// Package check provides strict-type validation for dynamically-typed
// configuration and payload fields. All checks are pure: they either
// return nil or an error wrapping ErrInvalidArgument, and never mutate
// their input.
package check

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrInvalidArgument is the sentinel wrapped by every validation failure.
// Callers distinguish validation errors from other failures with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// String validates that value is a string. A nil value fails unless
// allowNull is true. If exactLen is positive the string must have exactly
// that many bytes; the offending value is included in the error message.
func String(value any, name string, exactLen int, allowNull bool) error {
	if value == nil {
		if allowNull {
			return nil
		}
		return fmt.Errorf("%w: %s must not be null", ErrInvalidArgument, name)
	}

	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: %s must be a string", ErrInvalidArgument, name)
	}

	if exactLen > 0 && len(s) != exactLen {
		return fmt.Errorf("%w: %s must be %d characters long, %q given",
			ErrInvalidArgument, name, exactLen, s)
	}
	return nil
}

// Boolean validates that value is a bool. A nil value fails unless
// allowNull is true.
func Boolean(value any, name string, allowNull bool) error {
	if value == nil {
		if allowNull {
			return nil
		}
		return fmt.Errorf("%w: %s must not be null", ErrInvalidArgument, name)
	}

	if _, ok := value.(bool); !ok {
		return fmt.Errorf("%w: %s must be a boolean", ErrInvalidArgument, name)
	}
	return nil
}

// Integer validates that value is an integer of any width or signedness.
// A nil value fails unless allowNull is true. minimum and maximum are
// optional inclusive bounds; pass nil to leave a bound unconstrained.
func Integer(value any, name string, minimum, maximum *int64, allowNull bool) error {
	if value == nil {
		if allowNull {
			return nil
		}
		return fmt.Errorf("%w: %s must not be null", ErrInvalidArgument, name)
	}

	n, ok := asInt64(value)
	if !ok {
		return fmt.Errorf("%w: %s must be an integer", ErrInvalidArgument, name)
	}

	if minimum != nil && n < *minimum {
		return fmt.Errorf("%w: %s must be >= %d, %d given",
			ErrInvalidArgument, name, *minimum, n)
	}
	if maximum != nil && n > *maximum {
		return fmt.Errorf("%w: %s must be <= %d, %d given",
			ErrInvalidArgument, name, *maximum, n)
	}
	return nil
}

// Bound is a convenience constructor for Integer's optional bounds.
func Bound(n int64) *int64 {
	return &n
}

func asInt64(value any) (int64, bool) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > uint64(1<<63-1) {
			return 0, false
		}
		return int64(u), true
	default:
		return 0, false
	}
}
