package fennecs

import "testing"

func TestStorageAppendGrowsByPowerOfTwo(t *testing.T) {
	s := newStorage[int]()
	if s.Cap() != initialCapacity {
		t.Fatalf("initial cap = %d, want %d", s.Cap(), initialCapacity)
	}
	for i := 0; i < 9; i++ {
		if _, err := s.Append(i, 1); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if s.Len() != 9 {
		t.Fatalf("len = %d, want 9", s.Len())
	}
	if s.Cap() != 16 {
		t.Fatalf("cap = %d, want 16 (next power of two >= 9)", s.Cap())
	}
}

func TestStorageAppendTypeMismatch(t *testing.T) {
	s := newStorage[int]()
	if _, err := s.Append("nope", 1); err != ErrTypeMismatch {
		t.Fatalf("err = %v, want ErrTypeMismatch", err)
	}
}

func TestStorageDeleteSwapsTailIntoHole(t *testing.T) {
	s := newStorage[int]()
	for i := 0; i < 5; i++ {
		s.Append(i, 1)
	}
	// delete row 1 (value 1); tail element (value 4) is disjoint from the hole and swaps in.
	s.Delete(1, 1)
	if s.Len() != 4 {
		t.Fatalf("len = %d, want 4", s.Len())
	}
	want := []int{0, 4, 2, 3}
	for i, w := range want {
		if s.data[i] != w {
			t.Fatalf("data[%d] = %d, want %d (data=%v)", i, s.data[i], w, s.data[:s.count])
		}
	}
}

func TestStorageDeleteLastRowIsTrivial(t *testing.T) {
	s := newStorage[int]()
	for i := 0; i < 3; i++ {
		s.Append(i, 1)
	}
	s.Delete(2, 1)
	if s.Len() != 2 || s.data[0] != 0 || s.data[1] != 1 {
		t.Fatalf("data = %v, want [0 1]", s.data[:s.count])
	}
}

func TestStorageCompactShrinksToFit(t *testing.T) {
	s := newStorage[int]()
	for i := 0; i < 20; i++ {
		s.Append(i, 1)
	}
	s.Delete(0, 18)
	s.Compact()
	if s.Cap() != 2 {
		t.Fatalf("cap after compact = %d, want 2 (next pow2 >= count %d)", s.Cap(), s.Len())
	}
}

func TestStorageMigrateEmptiesSource(t *testing.T) {
	src := newStorage[int]()
	dst := newStorage[int]()
	for i := 0; i < 3; i++ {
		src.Append(i, 1)
	}
	dst.Append(99, 1)

	if err := src.Migrate(dst); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if src.Len() != 0 {
		t.Fatalf("src.Len() = %d, want 0", src.Len())
	}
	want := []int{99, 0, 1, 2}
	for i, w := range want {
		if dst.data[i] != w {
			t.Fatalf("dst.data[%d] = %d, want %d", i, dst.data[i], w)
		}
	}
}

func TestStorageMigrateTypeMismatch(t *testing.T) {
	src := newStorage[int]()
	dst := newStorage[string]()
	src.Append(1, 1)
	if err := src.Migrate(dst); err != ErrTypeMismatch {
		t.Fatalf("err = %v, want ErrTypeMismatch", err)
	}
}

func TestSpanAndAsMemory(t *testing.T) {
	s := newStorage[int]()
	for i := 0; i < 4; i++ {
		s.Append(i*10, 1)
	}
	span, err := Span[int](s)
	if err != nil || len(span) != 4 {
		t.Fatalf("Span: %v, %v", span, err)
	}
	mid, err := AsMemory[int](s, 1, 2)
	if err != nil || mid[0] != 10 || mid[1] != 20 {
		t.Fatalf("AsMemory: %v, %v", mid, err)
	}
	if _, err := Span[string](s); err != ErrTypeMismatch {
		t.Fatalf("Span[string] err = %v, want ErrTypeMismatch", err)
	}
}
