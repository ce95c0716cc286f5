package layering

import "reflect"

// MergeLayers composes values ordered from strongest to weakest, returning a
// new value that keeps populated data from stronger layers while filling any
// gaps from weaker ones. Maps merge key-wise, structs field-wise; slices and
// scalars are taken whole from the strongest layer that sets them.
func MergeLayers[T any](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}

	merged := deepCopy(reflect.ValueOf(layers[len(layers)-1]))
	for i := len(layers) - 2; i >= 0; i-- {
		merged = overlay(reflect.ValueOf(layers[i]), merged)
	}

	if !merged.IsValid() {
		return zero
	}
	if merged.Type() != reflect.TypeOf(zero) {
		// The merged value might be addressable when T is not; convert back.
		result := reflect.New(reflect.TypeOf(zero)).Elem()
		result.Set(merged.Convert(reflect.TypeOf(zero)))
		return result.Interface().(T)
	}
	return merged.Interface().(T)
}

// Clone returns a deep copy of value so callers can hand out snapshots
// without sharing mutable state.
func Clone[T any](value T) T {
	cloned := deepCopy(reflect.ValueOf(value))
	if !cloned.IsValid() {
		var zero T
		return zero
	}
	return cloned.Interface().(T)
}

// overlay lays top over base, recursing into pointers, structs, maps, and
// arrays. Nil or missing data in top defers to base.
func overlay(top, base reflect.Value) reflect.Value {
	if !top.IsValid() {
		return deepCopy(base)
	}

	switch top.Kind() {
	case reflect.Pointer:
		if top.IsNil() {
			return deepCopy(base)
		}
		var baseElem reflect.Value
		if base.IsValid() && base.Kind() == reflect.Pointer && !base.IsNil() {
			baseElem = base.Elem()
		}
		merged := overlay(top.Elem(), baseElem)
		result := reflect.New(top.Type().Elem())
		result.Elem().Set(merged)
		return result
	case reflect.Interface:
		if top.IsNil() {
			return deepCopy(base)
		}
		var baseElem reflect.Value
		if base.IsValid() && !base.IsNil() {
			baseElem = base.Elem()
		}
		merged := overlay(top.Elem(), baseElem)
		return merged.Convert(top.Type())
	case reflect.Struct:
		result := reflect.New(top.Type()).Elem()
		var baseStruct reflect.Value
		if base.IsValid() && base.Type() == top.Type() {
			baseStruct = base
		}
		for i := 0; i < top.NumField(); i++ {
			field := result.Field(i)
			if !field.CanSet() {
				continue
			}
			var baseField reflect.Value
			if baseStruct.IsValid() {
				baseField = baseStruct.Field(i)
			}
			field.Set(overlay(top.Field(i), baseField))
		}
		return result
	case reflect.Map:
		if top.IsNil() {
			return deepCopy(base)
		}
		result := reflect.MakeMapWithSize(top.Type(), top.Len())
		if base.IsValid() && base.Kind() == reflect.Map && !base.IsNil() {
			iter := base.MapRange()
			for iter.Next() {
				result.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
			}
		}
		iter := top.MapRange()
		for iter.Next() {
			key := iter.Key()
			value := iter.Value()
			if existing := result.MapIndex(key); existing.IsValid() {
				result.SetMapIndex(key, overlay(value, existing))
				continue
			}
			result.SetMapIndex(key, deepCopy(value))
		}
		return result
	case reflect.Slice:
		if top.IsNil() {
			return deepCopy(base)
		}
		result := reflect.MakeSlice(top.Type(), top.Len(), top.Len())
		for i := 0; i < top.Len(); i++ {
			result.Index(i).Set(deepCopy(top.Index(i)))
		}
		return result
	case reflect.Array:
		result := reflect.New(top.Type()).Elem()
		for i := 0; i < top.Len(); i++ {
			var baseElem reflect.Value
			if base.IsValid() && base.Kind() == reflect.Array && base.Len() > i {
				baseElem = base.Index(i)
			}
			result.Index(i).Set(overlay(top.Index(i), baseElem))
		}
		return result
	default:
		return deepCopy(top)
	}
}

func deepCopy(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(deepCopy(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := deepCopy(v.Elem())
		if !elem.IsValid() {
			return reflect.Zero(v.Type())
		}
		return elem.Convert(v.Type())
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			field := clone.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(deepCopy(v.Field(i)))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(deepCopy(v.Index(i)))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(deepCopy(v.Index(i)))
		}
		return clone
	default:
		return reflect.ValueOf(v.Interface())
	}
}
