package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	if meta := MetadataFor(CodeAuthRequired); meta.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("expected 401 for auth required, got %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(CodeNoStoreSelected); meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for no store selected, got %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(CodeDependency); !meta.Retryable {
		t.Fatal("expected dependency errors to be retryable")
	}
	if meta := MetadataFor(Code("BOGUS")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected fallback to internal metadata, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesChain(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "fetch cart")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause in chain")
	}
	if got := err.Error(); got != "DEPENDENCY_ERROR: fetch cart" {
		t.Fatalf("unexpected error string %q", got)
	}
}

func TestAsUnwrapsThroughFmt(t *testing.T) {
	t.Parallel()

	inner := New(CodeNoStoreSelected, "no active store")
	outer := fmt.Errorf("dispatch: %w", inner)

	typed := As(outer)
	if typed == nil || typed.Code() != CodeNoStoreSelected {
		t.Fatalf("expected typed error through wrapping, got %v", typed)
	}
	if !IsCode(outer, CodeNoStoreSelected) {
		t.Fatal("IsCode should match through wrapping")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeDependency, stdErrors.New("boom"), "clear cart")
	dump := Dump(err)

	if dump.Code != CodeDependency {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %d", len(dump.Chain))
	}
}
