package warehouse

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"time"
	"unicode/utf8"
)

// ToJSONValue converts a driver-returned value into a JSON-safe one: string,
// number, bool, nil, []any, or map[string]any. It is total — no input panics
// or errors, unknown types fall through to their string representation — and
// idempotent on its own output.
func ToJSONValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil

	// Native numerics pass through untouched.
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return x

	case bool:
		return x
	case string:
		return x

	// Drivers hand back DECIMAL columns as json.Number or big.* values.
	// Converting to float accepts precision loss.
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case *big.Int:
		if x == nil {
			return nil
		}
		if x.IsInt64() {
			return x.Int64()
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	case *big.Float:
		if x == nil {
			return nil
		}
		f, _ := x.Float64()
		return f
	case *big.Rat:
		if x == nil {
			return nil
		}
		f, _ := x.Float64()
		return f

	case time.Time:
		return x.Format(time.RFC3339Nano)

	// Bytes: UTF-8 text stays text, anything else becomes lowercase hex so
	// binary blobs never corrupt the JSON payload.
	case []byte:
		return bytesToJSON(x)
	case sql.RawBytes:
		return bytesToJSON(x)

	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = ToJSONValue(val)
		}
		return out

	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = ToJSONValue(val)
		}
		return out
	}

	return reflectToJSON(v)
}

func bytesToJSON(b []byte) any {
	if utf8.Valid(b) {
		return string(b)
	}
	return hex.EncodeToString(b)
}

// reflectToJSON handles the long tail: typed maps and slices, pointers, and
// whatever else a driver invents. The final fallback is fmt's rendering.
func reflectToJSON(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return ToJSONValue(rv.Elem().Interface())

	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = ToJSONValue(iter.Value().Interface())
		}
		return out

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return bytesToJSON(b)
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = ToJSONValue(rv.Index(i).Interface())
		}
		return out
	}

	return fmt.Sprintf("%v", v)
}
