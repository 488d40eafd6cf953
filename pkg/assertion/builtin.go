package assertion

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Equal reports whether two values are deeply equal. A type's
// own Equal method takes precedence; nil and empty slices or
// maps are treated alike.
func Equal(expected, actual any) bool {
	return cmp.Equal(expected, actual, cmpopts.EquateEmpty())
}

// Format renders a value the way it is shown to the learner.
// Strings are quoted so trailing newlines stay visible.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	case []string:
		return fmt.Sprintf("%q", x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}

// evaluateEquals checks that the value deeply equals the
// expected value.
func evaluateEquals(
	assertion Definition,
	value any,
) (bool, string) {
	if Equal(assertion.Value, value) {
		return true, fmt.Sprintf("equals %s", Format(value))
	}
	return false, mismatch(assertion.Value, value)
}

// evaluateNotEquals checks that the value differs from the
// expected value.
func evaluateNotEquals(
	assertion Definition,
	value any,
) (bool, string) {
	if Equal(assertion.Value, value) {
		return false, fmt.Sprintf(
			"expected anything but %s",
			Format(assertion.Value),
		)
	}
	return true, fmt.Sprintf(
		"%s differs from %s",
		Format(value), Format(assertion.Value),
	)
}

// evaluateNotNil checks that the value is present.
func evaluateNotNil(
	_ Definition,
	value any,
) (bool, string) {
	if isNil(value) {
		return false, "value is nil"
	}
	return true, "value is not nil"
}

// evaluateContains checks that the value, a collection or a
// string, holds the expected element.
func evaluateContains(
	assertion Definition,
	value any,
) (bool, string) {
	found, err := contains(value, assertion.Value)
	if err != nil {
		return false, err.Error()
	}
	if found {
		return true, fmt.Sprintf(
			"%s contains %s",
			Format(value), Format(assertion.Value),
		)
	}
	return false, fmt.Sprintf(
		"%s does not contain %s",
		Format(value), Format(assertion.Value),
	)
}

// evaluateNotContains checks that the expected element is not a
// member of the value.
func evaluateNotContains(
	assertion Definition,
	value any,
) (bool, string) {
	found, err := contains(value, assertion.Value)
	if err != nil {
		return false, err.Error()
	}
	if found {
		return false, fmt.Sprintf(
			"%s unexpectedly contains %s",
			Format(value), Format(assertion.Value),
		)
	}
	return true, fmt.Sprintf(
		"%s does not contain %s",
		Format(value), Format(assertion.Value),
	)
}

// evaluateLength checks the number of elements in the value.
func evaluateLength(
	assertion Definition,
	value any,
) (bool, string) {
	want, ok := toInt(assertion.Value)
	if !ok {
		return false, "expected value is not a number"
	}
	got, ok := length(value)
	if !ok {
		return false, fmt.Sprintf(
			"value of type %T has no length", value,
		)
	}
	if got == want {
		return true, fmt.Sprintf("length %d", got)
	}
	return false, fmt.Sprintf(
		"expected length %d, got %d", want, got,
	)
}

func mismatch(expected, actual any) string {
	msg := fmt.Sprintf(
		"expected %s, got %s",
		Format(expected), Format(actual),
	)
	if d := explain(expected, actual); d != "" {
		msg += "\n" + d
	}
	return msg
}

// explain adds detail to a mismatch: the differing types, or a
// structural diff for composite values.
func explain(expected, actual any) (out string) {
	if expected == nil || actual == nil {
		return ""
	}
	te, ta := reflect.TypeOf(expected), reflect.TypeOf(actual)
	if te != ta {
		return fmt.Sprintf("types differ: %s vs %s", te, ta)
	}
	switch te.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
	default:
		return ""
	}
	if _, ok := expected.(fmt.Stringer); ok {
		return ""
	}

	defer func() {
		if recover() != nil {
			out = ""
		}
	}()
	return "diff (-expected +actual):\n" +
		cmp.Diff(expected, actual, cmpopts.EquateEmpty())
}

func contains(container, element any) (bool, error) {
	if s, ok := container.(string); ok {
		sub, ok := element.(string)
		if !ok {
			return false, fmt.Errorf(
				"cannot look for %T in a string", element,
			)
		}
		return strings.Contains(s, sub), nil
	}

	rv := reflect.ValueOf(container)
	if !rv.IsValid() {
		return false, fmt.Errorf("container is nil")
	}

	if m := rv.MethodByName("Contains"); m.IsValid() {
		mt := m.Type()
		if mt.NumIn() == 1 && mt.NumOut() == 1 &&
			mt.Out(0).Kind() == reflect.Bool {
			ev := reflect.ValueOf(element)
			if !ev.IsValid() || !ev.Type().AssignableTo(mt.In(0)) {
				return false, nil
			}
			return m.Call([]reflect.Value{ev})[0].Bool(), nil
		}
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if Equal(rv.Index(i).Interface(), element) {
				return true, nil
			}
		}
		return false, nil
	case reflect.Map:
		ev := reflect.ValueOf(element)
		if !ev.IsValid() || !ev.Type().AssignableTo(rv.Type().Key()) {
			return false, nil
		}
		return rv.MapIndex(ev).IsValid(), nil
	}

	return false, fmt.Errorf(
		"value of type %T is not a collection", container,
	)
}

func length(v any) (int, bool) {
	if l, ok := v.(interface{ Len() int }); ok {
		return l.Len(), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map,
		reflect.String, reflect.Chan:
		return rv.Len(), true
	}
	return 0, false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice,
		reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// toInt converts an expected value to int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err == nil {
			return i, true
		}
	}
	return 0, false
}
