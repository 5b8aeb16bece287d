// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer helps with the optional fields of catalog entries.

Unknown values (a series still publishing, an unscored title) travel as nil
pointers; these helpers build and normalize them without boilerplate.
*/
package pointer

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// Positive returns p when it points at a value above zero, nil otherwise.
// Catalogs report an unknown chapter count as 0 or null.
func Positive[T ~int | ~int64 | ~float64](p *T) *T {
	if p == nil || *p <= 0 {
		return nil
	}
	return p
}
