/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/
package jsonschema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/acronis/go-jsonschema/document"
)

func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("Values are not equal: expected=%v actual=%v", expected, actual)
	}
}

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func assertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Errorf("Expected error containing %q, but got nil", substr)
		return
	}
	if !strings.Contains(fmt.Sprint(err), substr) {
		t.Errorf("Expected error containing %q, got: %q", substr, err.Error())
	}
}

func assertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if err == nil {
		t.Errorf("Expected error matching %v, but got nil", target)
		return
	}
	if !errors.Is(err, target) {
		t.Errorf("Expected error matching %v, got: %q", target, err.Error())
	}
}

func assertPanicsWithError(t *testing.T, expectedMsg string, f func()) {
	t.Helper()
	defer func() {
		recovered := recover()
		if recovered == nil {
			t.Errorf("Expected panic with error: %q, but no panic occurred", expectedMsg)
			return
		}
		if fmt.Sprint(recovered) != expectedMsg {
			t.Errorf("Expected panic with error: %q, got: %v", expectedMsg, recovered)
		}
	}()
	f()
}

// mustDecode parses JSON into the ordered document form used throughout the
// tests.
func mustDecode(t *testing.T, src string) any {
	t.Helper()
	v, err := document.Decode([]byte(src))
	if err != nil {
		t.Fatalf("Failed to decode %q: %v", src, err)
	}
	return v
}

// mustCompileJSON compiles a schema given as JSON text.
func mustCompileJSON(t *testing.T, src string, opts ...CompileOption) *Validator {
	t.Helper()
	v, err := Compile(mustDecode(t, src), opts...)
	if err != nil {
		t.Fatalf("Failed to compile %q: %v", src, err)
	}
	return v
}

// keywordsOf projects records onto their keyword names, keeping order.
func keywordsOf(records []ErrorRecord) []string {
	if records == nil {
		return nil
	}
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].Keyword
	}
	return out
}

// pointersOf projects records onto their instance pointers, keeping order.
func pointersOf(records []ErrorRecord) []string {
	if records == nil {
		return nil
	}
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].Pointer()
	}
	return out
}
