package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNotFoundErrorMessage(t *testing.T) {
	err := NewNotFound("editor", "ed-123")
	want := "editor ed-123 not found"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	if !IsNotFound(err) {
		t.Fatalf("expected IsNotFound to match")
	}
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	base := NewInvalidInput("payload is not a data URL", nil)
	wrapped := fmt.Errorf("parse candidate: %w", base)

	if !IsInvalidInput(wrapped) {
		t.Fatalf("expected IsInvalidInput through wrapping")
	}
	if GetErrorClass(wrapped) != ClassInvalidInput {
		t.Fatalf("expected ClassInvalidInput, got %v", GetErrorClass(wrapped))
	}
}

func TestReadErrorCarriesFileAndCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewRead("photo.jpg", "decode", cause)

	if !IsRead(err) {
		t.Fatalf("expected IsRead to match")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause preserved through Unwrap")
	}
	if got := err.Error(); got != "read photo.jpg: decode: unexpected EOF" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewNotFound("attachment", "a1"), http.StatusNotFound},
		{NewInvalidInput("empty batch", nil), http.StatusBadRequest},
		{NewRead("x.png", "open", errors.New("boom")), http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestGetErrorClassDefaultsToInternal(t *testing.T) {
	if GetErrorClass(errors.New("mystery")) != ClassInternal {
		t.Fatalf("expected unknown errors to classify as internal")
	}
	if GetErrorClass(nil) != ClassInternal {
		t.Fatalf("expected nil to classify as internal")
	}
}
