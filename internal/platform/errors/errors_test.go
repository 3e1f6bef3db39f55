package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeInvalidSample, "sentinel")
	err := WithMetadata(CodeInvalidSample, "x is NaN", map[string]string{"x": "NaN"})
	if !stderrors.Is(err, sentinel) {
		t.Fatal("expected errors.Is to match by code")
	}
	if stderrors.Is(err, New(CodeInvalidFrame, "other")) {
		t.Fatal("expected different code not to match")
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(CodeInvalidFrame, "decode frame", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	if got := err.Error(); got != "decode frame: boom" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestCodeOfAndMetadataOf(t *testing.T) {
	inner := WithMetadata(CodeInvalidSample, "bad", map[string]string{"y": "Inf"})
	wrapped := fmt.Errorf("ingest: %w", inner)
	if got := CodeOf(wrapped); got != CodeInvalidSample {
		t.Fatalf("CodeOf = %q, want %q", got, CodeInvalidSample)
	}
	if got := MetadataOf(wrapped)["y"]; got != "Inf" {
		t.Fatalf("metadata y = %q, want Inf", got)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf(plain) = %q, want %q", got, CodeUnknown)
	}
	if MetadataOf(nil) != nil {
		t.Fatal("expected nil metadata for nil error")
	}
}

func TestUserMessageFallback(t *testing.T) {
	if got := Code("SOMETHING_ELSE").UserMessage(); got != "internal error" {
		t.Fatalf("UserMessage = %q", got)
	}
}
