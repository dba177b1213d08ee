package blob

import "testing"

func TestStoreLifecycle(t *testing.T) {
	s := NewStore()
	src := []byte{1, 2, 3}
	h := s.Create(src, "image/png")
	if !h.Valid() {
		t.Fatalf("handle %q not valid", h)
	}
	src[0] = 9

	data, mime, ok := s.Open(h)
	if !ok {
		t.Fatal("handle not found")
	}
	if mime != "image/png" {
		t.Fatalf("mime = %q", mime)
	}
	if data[0] != 1 {
		t.Fatal("store aliased caller buffer")
	}

	other := s.Create([]byte{4}, "image/jpeg")
	if other == h {
		t.Fatal("handles must be unique")
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}

	s.Revoke(h)
	s.Revoke(h)
	s.Revoke("")
	if _, _, ok := s.Open(h); ok {
		t.Fatal("revoked handle still resolves")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
}
