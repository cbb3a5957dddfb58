package errors

import (
	"testing"
)

func TestFieldErrors(t *testing.T) {
	err := Append(
		Field("Amount", ErrAmount, "must be positive"),
		Field("Taker", ErrEmpty, ""),
		AppendField(nil, "Taker", ErrInput),
	)

	if got := FieldErrors(err, "Amount"); len(got) != 1 {
		t.Fatalf("want one Amount error, got %d", len(got))
	}
	if got := FieldErrors(err, "Taker"); len(got) != 2 {
		t.Fatalf("want two Taker errors, got %d", len(got))
	}
	if got := FieldErrors(err, "Maker"); len(got) != 0 {
		t.Fatalf("want no Maker errors, got %d", len(got))
	}
	if !ErrAmount.Is(err) {
		t.Fatal("grouped field error must match its root error")
	}
	if got, want := Field("Amount", ErrAmount, "must be %d", 1).Error(), `field "Amount": must be 1: invalid amount`; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if Field("Amount", nil, "ignored") != nil {
		t.Fatal("nil error must produce no field error")
	}
}
