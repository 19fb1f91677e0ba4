package errors

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeUnitNotFound, "unit not found")
		if err.Error() != "[UNIT_NOT_FOUND] unit not found" {
			t.Errorf("expected [UNIT_NOT_FOUND] unit not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		expected := "[INTERNAL_ERROR] internal failure: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeClassification, "no recognized kind")
		if !IsCode(err, CodeClassification) {
			t.Error("expected IsCode to return true for CodeClassification")
		}
		if IsCode(err, CodeUnitNotFound) {
			t.Error("expected IsCode to return false for CodeUnitNotFound")
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		if !IsCode(err, CodeInternal) {
			t.Error("expected IsCode to return true for wrapped CodeInternal")
		}
	})

	t.Run("WithContext", func(t *testing.T) {
		err := New(CodeUnsupportedType, "no resolver case").
			WithContext(CtxType, "conditional").
			WithContext(CtxSymbol, "Foo")
		if err.Context[CtxType] != "conditional" {
			t.Errorf("expected type context to survive, got %v", err.Context)
		}
	})
}
