// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with generic helpers
used by the catalog and reader packages.
*/
package slice

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}

// Filter returns only the elements for which predicate is true.
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}
	return result
}

// UniqueBy returns the distinct non-zero keys of input in first-seen order.
func UniqueBy[T any, K comparable](input []T, key func(T) K) []K {
	var zero K
	seen := make(map[K]struct{}, len(input))
	result := make([]K, 0, len(input))

	for _, v := range input {
		k := key(v)
		if k == zero {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, k)
	}
	return result
}
