// internal/nodeid/address.go
package nodeid

import (
	"fmt"
	"reflect"
	"strings"
)

// KindProduct is the leading segment of every product node address.
const KindProduct = "product"

// ForProduct builds the canonical address of a product node,
// `product.<adapter>.<name>`.
func ForProduct(adapterType, name string) *Address {
	return &Address{Path: []PathSegment{
		NewPathSegment(KindProduct),
		NewPathSegment(adapterType),
		NewPathSegment(name),
	}}
}

// IsProduct reports whether the address follows the three-segment
// `product.<adapter>.<name>` form.
func (a *Address) IsProduct() bool {
	return a != nil && len(a.Path) == 3 && a.Path[0].Name == KindProduct
}

// AdapterType returns the adapter segment of a product address, or "" when
// the address is not a product.
func (a *Address) AdapterType() string {
	if !a.IsProduct() {
		return ""
	}
	return a.Path[1].Name
}

// ProductName returns the instance-name segment of a product address, or ""
// when the address is not a product.
func (a *Address) ProductName() string {
	if !a.IsProduct() {
		return ""
	}
	return a.Path[2].Name
}

// String serializes the Address into its canonical path string representation.
func (a *Address) String() string {
	if a == nil {
		return ""
	}

	var sb strings.Builder
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteRune('.')
		}
		sb.WriteString(segment.Name)
		if segment.Index != -1 {
			sb.WriteString(fmt.Sprintf("[%d]", segment.Index))
		}
	}

	return sb.String()
}

// Equal checks for deep equality between two Address pointers.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return reflect.DeepEqual(a.Path, other.Path)
}
