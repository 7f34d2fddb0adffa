package sandboxes

import (
	"fmt"
	"reflect"

	"github.com/reusee/starlarkutil"
	"go.starlark.net/starlark"
)

// toStarlarkValue converts a host value into its sandbox representation.
// Arguments passed to the entry function go through here.
func toStarlarkValue(v any) starlark.Value {
	switch v := v.(type) {

	case nil:
		return starlark.None

	case bool:
		return starlark.Bool(v)

	case []byte:
		return starlark.Bytes(v)
	case string:
		return starlark.String(v)

	case int:
		return starlark.MakeInt(v)
	case int8:
		return starlark.MakeInt(int(v))
	case int16:
		return starlark.MakeInt(int(v))
	case int32:
		return starlark.MakeInt(int(v))
	case int64:
		return starlark.MakeInt64(v)

	case uint:
		return starlark.MakeUint(v)
	case uint8:
		return starlark.MakeUint(uint(v))
	case uint16:
		return starlark.MakeUint(uint(v))
	case uint32:
		return starlark.MakeUint(uint(v))
	case uint64:
		return starlark.MakeUint64(v)

	case float32:
		return starlark.Float(v)
	case float64:
		return starlark.Float(v)

	case []any:
		elems := make([]starlark.Value, len(v))
		for i, e := range v {
			elems[i] = toStarlarkValue(e)
		}
		return starlark.NewList(elems)

	case map[string]any:
		d := starlark.NewDict(len(v))
		for k, val := range v {
			d.SetKey(starlark.String(k), toStarlarkValue(val))
		}
		return d

	case map[any]any:
		d := starlark.NewDict(len(v))
		for k, val := range v {
			d.SetKey(toStarlarkValue(k), toStarlarkValue(val))
		}
		return d

	}

	value := reflect.ValueOf(v)
	switch value.Kind() {

	case reflect.Slice, reflect.Array:
		l := value.Len()
		elems := make([]starlark.Value, l)
		for i := range l {
			elems[i] = toStarlarkValue(value.Index(i).Interface())
		}
		return starlark.NewList(elems)

	case reflect.Map:
		d := starlark.NewDict(value.Len())
		iter := value.MapRange()
		for iter.Next() {
			d.SetKey(
				toStarlarkValue(iter.Key().Interface()),
				toStarlarkValue(iter.Value().Interface()),
			)
		}
		return d

	case reflect.Pointer, reflect.Interface:
		elem := value.Elem()
		if !elem.IsValid() {
			return starlark.None
		}
		return toStarlarkValue(elem.Interface())

	case reflect.Func:
		return starlarkutil.MakeFunc("", value.Interface())

	}

	panic(fmt.Errorf("unsupported argument type: %T", v))
}

// fromStarlarkValue converts a sandbox value back into a host value,
// preserving nested structure exactly.
func fromStarlarkValue(v starlark.Value) any {
	switch v := v.(type) {

	case starlark.NoneType:
		return nil

	case starlark.Bool:
		return bool(v)

	case starlark.Int:
		if n, ok := v.Int64(); ok {
			return n
		}
		return v.String()

	case starlark.Float:
		return float64(v)

	case starlark.String:
		return string(v)

	case starlark.Bytes:
		return []byte(v)

	case starlark.Tuple:
		elems := make([]any, v.Len())
		for i := range v.Len() {
			elems[i] = fromStarlarkValue(v.Index(i))
		}
		return elems

	case *starlark.List:
		elems := make([]any, v.Len())
		for i := range v.Len() {
			elems[i] = fromStarlarkValue(v.Index(i))
		}
		return elems

	case *starlark.Set:
		elems := make([]any, 0, v.Len())
		iter := v.Iterate()
		defer iter.Done()
		var elem starlark.Value
		for iter.Next(&elem) {
			elems = append(elems, fromStarlarkValue(elem))
		}
		return elems

	case *starlark.Dict:
		m := make(map[any]any, v.Len())
		for _, item := range v.Items() {
			m[fromStarlarkValue(item[0])] = fromStarlarkValue(item[1])
		}
		return m

	}

	return v.String()
}
