package hcl

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// ctyToNative converts a cty.Value into the closest native Go value:
// objects and maps become map[string]any, lists, sets and tuples become
// []any, numbers become int64 when they are whole and float64 otherwise.
func ctyToNative(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsKnown() {
		return nil, fmt.Errorf("cannot convert unknown value to a native Go value")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil

	case ty == cty.Bool:
		return val.True(), nil

	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			nativeV, err := ctyToNative(v)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", k.AsString(), err)
			}
			out[k.AsString()] = nativeV
		}
		return out, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			nativeV, err := ctyToNative(v)
			if err != nil {
				return nil, err
			}
			out = append(out, nativeV)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported cty type %s", ty.FriendlyName())
	}
}
