package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestGetCode(t *testing.T) {
	if code := GetCode(nil); code != "" {
		t.Fatalf("expected empty code for nil error, got %q", code)
	}

	wrapped := fmt.Errorf("load employee: %w", NotFound("employee not found"))
	if code := GetCode(wrapped); code != CodeNotFound {
		t.Fatalf("expected %q, got %q", CodeNotFound, code)
	}
	if !IsNotFound(wrapped) {
		t.Fatalf("expected wrapped error to be not found")
	}

	if code := GetCode(errors.New("boom")); code != CodeInternal {
		t.Fatalf("expected %q for plain error, got %q", CodeInternal, code)
	}
}

func TestFieldsOf(t *testing.T) {
	err := fmt.Errorf("create: %w", Validation(map[string][]string{"Name": {"Name is mandatory"}}))

	fields := FieldsOf(err)
	if len(fields["Name"]) != 1 || fields["Name"][0] != "Name is mandatory" {
		t.Fatalf("unexpected fields: %v", fields)
	}

	if FieldsOf(errors.New("boom")) != nil {
		t.Fatalf("expected nil fields for plain error")
	}
}
