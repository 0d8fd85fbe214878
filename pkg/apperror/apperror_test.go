package apperror

import (
	"errors"
	"fmt"
	"testing"
)

var errSample = Validation("SAMPLE", "sample failed")

func TestSentinelMatching(t *testing.T) {
	cause := errors.New("driver exploded")

	tests := []struct {
		name string
		err  error
	}{
		{name: "sentinel", err: errSample},
		{name: "wrapped cause", err: errSample.Wrap(cause)},
		{name: "custom message", err: errSample.WithMessage("sample failed for row 3")},
		{name: "fmt wrapped", err: fmt.Errorf("outer: %w", errSample)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, errSample) {
				t.Fatalf("errors.Is(%v, errSample) = false", tt.err)
			}
			if KindOf(tt.err) != KindValidation {
				t.Errorf("KindOf = %v, want validation", KindOf(tt.err))
			}
			appErr, ok := As(tt.err)
			if !ok || appErr.Code != "SAMPLE" {
				t.Errorf("As = %+v, %v", appErr, ok)
			}
		})
	}
}

func TestDistinctSentinelsDoNotMatch(t *testing.T) {
	other := Validation("SAMPLE", "sample failed")
	if errors.Is(errSample, other) {
		t.Fatal("distinct sentinels with equal fields must not match")
	}
	if errors.Is(errSample.WithMessage("x"), other) {
		t.Fatal("copy of one sentinel must not match another")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := NotFound("MISSING", "row missing").Wrap(cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if err.Error() != "row missing: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("plain")) != 0 {
		t.Fatal("plain errors have no kind")
	}
	if KindAuthentication.String() != "authentication" {
		t.Errorf("String() = %q", KindAuthentication.String())
	}
}
