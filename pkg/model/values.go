package model

// CopyValue returns a deep copy of a JSON-like value (maps, slices and scalars).
//
// Values shared between a descriptor and the objects built from it must be copied,
// so that merging into an object never alters the descriptor.
func CopyValue(v interface{}) interface{} {
	switch typed := v.(type) {
	case map[string]interface{}:
		return CopyMap(typed)
	case []interface{}:
		cp := make([]interface{}, len(typed))
		for i, e := range typed {
			cp[i] = CopyValue(e)
		}
		return cp
	case Object:
		return Object(CopyMap(typed))
	default:
		return v
	}
}

// CopyMap returns a deep copy of a JSON-like map. A nil map yields nil.
func CopyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	cp := make(map[string]interface{}, len(m))
	for k, e := range m {
		cp[k] = CopyValue(e)
	}
	return cp
}

// AsMap tells if a value is a plain nested object and returns it
func AsMap(v interface{}) (map[string]interface{}, bool) {
	switch typed := v.(type) {
	case map[string]interface{}:
		return typed, true
	case Object:
		return typed, true
	default:
		return nil, false
	}
}

func isTrue(v interface{}) bool {
	b, ok := v.(bool)
	return ok && b
}
