package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// SortedKeys is GetKeys in ascending order, for deterministic iteration.
func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Integer](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

// Clamp limits num to [lo, hi]. When hi < lo, lo wins.
func Clamp[A constraints.Integer](num, lo, hi A) A {
	return Max(lo, Min(num, hi))
}

func Contains[A comparable](items []A, item A) bool {
	for _, v := range items {
		if v == item {
			return true
		}
	}
	return false
}
