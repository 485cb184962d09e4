package reg

import "reflect"

// deepCopy returns an independent copy of value. Value types copy by
// assignment already; pointers, slices, maps and structs containing them
// are walked with reflection so that two registers (or a register and
// its behind snapshot) never alias the same backing storage.
func deepCopy[T any](value T) T {
	return deepCopyAny(value).(T)
}

// deepCopyAny is the untyped entry point used when cloning a register's
// erased value, where the static type parameter is not available.
func deepCopyAny(value any) any {
	if value == nil {
		return nil
	}
	v := reflect.ValueOf(value)
	return deepCopyValue(v).Interface()
}

func deepCopyValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopyValue(v.Elem()))
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopyValue(v.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopyValue(v.Index(i)))
		}
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(deepCopyValue(iter.Key()), deepCopyValue(iter.Value()))
		}
		return out

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			field := v.Field(i)
			if !out.Field(i).CanSet() {
				// Unexported field: reflect cannot set it without unsafe,
				// so it stays zero-valued in the clone. User types stored
				// in a register should keep their interesting state
				// exported if they rely on Register's clone semantics.
				continue
			}
			out.Field(i).Set(deepCopyValue(field))
		}
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(deepCopyValue(v.Elem()))
		return out

	default:
		// Bool, numeric, string, chan, func, unsafe pointer: copy by value.
		return v
	}
}
