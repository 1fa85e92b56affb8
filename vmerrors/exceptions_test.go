package vmerrors

import "testing"

func TestArrayIndexMessage(t *testing.T) {
	if got := ArrayIndexMessage(3, 3); got != "3 not in [0,3]" {
		t.Errorf("ArrayIndexMessage(3,3) = %q, want %q", got, "3 not in [0,3]")
	}
}

func TestExceptionError(t *testing.T) {
	exc := New(NullPointer, nil, "")
	if exc.Error() != "NullPointerException" {
		t.Errorf("Error() = %q, want %q", exc.Error(), "NullPointerException")
	}
	exc2 := New(ArrayIndexOutOfBounds, nil, "%s", ArrayIndexMessage(5, 3))
	want := "ArrayIndexOutOfBoundsException: 5 not in [0,3]"
	if exc2.Error() != want {
		t.Errorf("Error() = %q, want %q", exc2.Error(), want)
	}
}

func TestFatalError(t *testing.T) {
	err := Fatalf("unknown opcode 0x%02x", 0xFE)
	if err.Error() != "fatal: unknown opcode 0xfe" {
		t.Errorf("Error() = %q", err.Error())
	}
}
