package games

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMatchesByKind(t *testing.T) {
	err := NotFound("get", "abc")
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected not found to match sentinel")
	}
	if errors.Is(err, ErrForbidden) {
		t.Fatal("expected kinds to differ")
	}
	wrapped := fmt.Errorf("handler: %w", err)
	if KindOf(wrapped) != KindNotFound {
		t.Fatalf("expected kind through wrapping, got %q", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatal("expected plain errors to have no kind")
	}
}

func TestErrorMessageIncludesOpAndCause(t *testing.T) {
	cause := errors.New("unique constraint")
	err := Conflict("create", "g1", cause)
	msg := err.Error()
	if !strings.HasPrefix(msg, "create: ") || !strings.Contains(msg, "unique constraint") {
		t.Fatalf("unexpected message %q", msg)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be unwrappable")
	}
	if ErrValidation.Error() != string(KindValidation) {
		t.Fatalf("expected bare sentinel to print its kind, got %q", ErrValidation.Error())
	}
}
