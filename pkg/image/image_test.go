package image

import "testing"

func TestNewZeroFilled(t *testing.T) {
	img := New(4, 5, 3)

	if img.Rows() != 4 || img.Columns() != 5 || img.Channels() != 3 {
		t.Fatalf("Expected shape (4, 5, 3), got (%d, %d, %d)",
			img.Rows(), img.Columns(), img.Channels())
	}

	if len(img.Data()) != 4*5*3 {
		t.Fatalf("Expected buffer length %d, got %d", 4*5*3, len(img.Data()))
	}

	for i, v := range img.Data() {
		if v != 0 {
			t.Fatalf("Expected zero-filled buffer, got %f at index %d", v, i)
		}
	}
}

func TestValLayout(t *testing.T) {
	// Element (col, row, ch) must map to ((row*W)+col)*C + ch.
	img := New(3, 4, 2)
	img.SetVal(2, 1, 1, 7.5)

	idx := (1*4+2)*2 + 1
	if img.Data()[idx] != 7.5 {
		t.Errorf("Expected value at linear index %d, buffer is %v", idx, img.Data())
	}

	if img.Val(2, 1, 1) != 7.5 {
		t.Errorf("Val(2, 1, 1) = %f; want 7.5", img.Val(2, 1, 1))
	}
}

func TestAddVal(t *testing.T) {
	img := New(2, 2, 1)
	img.AddVal(1, 0, 0, 2)
	img.AddVal(1, 0, 0, 3)

	if img.Val(1, 0, 0) != 5 {
		t.Errorf("AddVal accumulated %f; want 5", img.Val(1, 0, 0))
	}
}

func TestFromDataCopies(t *testing.T) {
	src := []float32{1, 2, 3, 4}
	img := FromData(src, 2, 2, 1)

	src[0] = 99
	if img.Val(0, 0, 0) != 1 {
		t.Errorf("FromData must copy: element changed to %f after source mutation",
			img.Val(0, 0, 0))
	}
}

func TestCopyIsIndependent(t *testing.T) {
	img := New(2, 2, 1)
	img.SetVal(0, 0, 0, 1)

	dup := img.Copy()
	dup.SetVal(0, 0, 0, 2)

	if img.Val(0, 0, 0) != 1 {
		t.Errorf("Copy aliases the original buffer")
	}
}
