// Package test contains assertion helpers shared by package tests.
package test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava12/mage"
)

// ExpectErrorCode fails the test unless e is (or wraps) *mage.Error with expected code.
func ExpectErrorCode(t *testing.T, expected int, e error) {
	t.Helper()
	require.Error(t, e, "expecting error code %d", expected)
	for _, me := range Errors(e) {
		if me.Code == expected {
			return
		}
	}
	require.Failf(t, "wrong error", "expecting error code %d, got %v", expected, e)
}

// ExpectErrorCodes fails the test unless e contains exactly given codes (in any order).
func ExpectErrorCodes(t *testing.T, e error, expected ...int) {
	t.Helper()
	codes := make([]int, 0, len(expected))
	for _, me := range Errors(e) {
		codes = append(codes, me.Code)
	}
	sort.Ints(codes)
	sorted := append([]int(nil), expected...)
	sort.Ints(sorted)
	require.Equal(t, sorted, codes, "error: %v", e)
}

// Errors extracts all *mage.Error values from e, looking through wrappers and error lists.
func Errors(e error) []*mage.Error {
	if e == nil {
		return nil
	}

	switch x := e.(type) {
	case *mage.Error:
		return []*mage.Error{x}
	case interface{ Unwrap() []error }:
		var res []*mage.Error
		for _, ee := range x.Unwrap() {
			res = append(res, Errors(ee)...)
		}
		return res
	case interface{ Unwrap() error }:
		return Errors(x.Unwrap())
	}
	return nil
}
