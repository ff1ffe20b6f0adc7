package vm

import (
	"strconv"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

func newArrayLibrary() *Library {
	lib := newLibrary("Array", "Queries on array values.")

	lib.Methods["ContainsIndex"] = valueMethod("Checks whether an array has an element at an index.", []string{"array", "index"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			arr, ok := args[0].(ArrayValue)
			if !ok {
				return BooleanValue(false)
			}
			_, found := arr.Get(args[1].String())
			return BooleanValue(found)
		})

	lib.Methods["ContainsValue"] = valueMethod("Checks whether an array holds a value.", []string{"array", "value"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			arr, ok := args[0].(ArrayValue)
			if !ok {
				return BooleanValue(false)
			}
			for _, key := range arr.Keys() {
				v, _ := arr.Get(key)
				if v.IsEqualTo(args[1]) {
					return BooleanValue(true)
				}
			}
			return BooleanValue(false)
		})

	lib.Methods["GetAllIndices"] = valueMethod("Gets an array of all indices, keyed from 1.", []string{"array"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			indices := NewArrayValue(nil)
			arr, ok := args[0].(ArrayValue)
			if !ok {
				return indices
			}
			for i, key := range arr.Keys() {
				indices = indices.With(strconv.Itoa(i+1), StringValue(key))
			}
			return indices
		})

	lib.Methods["GetItemCount"] = valueMethod("Gets the number of elements in an array.", []string{"array"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			if arr, ok := args[0].(ArrayValue); ok {
				return NumberValue(arr.Len())
			}
			return NumberValue(0)
		})

	return lib
}
