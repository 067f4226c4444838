package split

import "reflect"

// Flatten expands nested slices and arrays into a single ordered list. Strings
// and other scalars, including nil, are leaves.
func Flatten(values ...any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = appendFlat(out, v)
	}
	return out
}

func appendFlat(out []any, v any) []any {
	if v == nil {
		return append(out, nil)
	}
	rv := reflect.ValueOf(v)
	if !isSequence(rv) {
		return append(out, v)
	}
	for i := 0; i < rv.Len(); i++ {
		out = appendFlat(out, rv.Index(i).Interface())
	}
	return out
}

func isSequence(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice:
		// []byte is treated as opaque data, not a list of points.
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	default:
		return false
	}
}

func isSequenceValue(v any) bool {
	return v != nil && isSequence(reflect.ValueOf(v))
}
