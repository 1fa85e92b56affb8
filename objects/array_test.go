package heapobj

import "testing"

func TestNewPrimitiveArrayKinds(t *testing.T) {
	cases := []struct {
		kind ArrayKind
		tag  Tag
	}{
		{ArrByte, TagByteArray},
		{ArrInt, TagIntArray},
		{ArrLong, TagLongArray},
		{ArrBoolean, TagBooleanArray},
		{ArrDouble, TagDoubleArray},
	}
	for _, tc := range cases {
		a := NewPrimitiveArray(tc.kind, 5)
		if a.Length != 5 {
			t.Errorf("%v: Length = %d, want 5", tc.kind, a.Length)
		}
		if a.ObjTag() != tc.tag {
			t.Errorf("%v: ObjTag() = %v, want %v", tc.kind, a.ObjTag(), tc.tag)
		}
	}
}

func TestNewObjectArrayAllNull(t *testing.T) {
	a := NewObjectArray(nil, 3)
	if len(a.Refs) != 3 {
		t.Fatalf("len(Refs) = %d, want 3", len(a.Refs))
	}
	for i, v := range a.Refs {
		if !v.IsNull() {
			t.Errorf("element %d not null", i)
		}
	}
}
