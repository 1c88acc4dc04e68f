// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import "testing"

func TestHashStringRoundTrip(t *testing.T) {
	h := DoubleHashH([]byte("vaultd"))

	s := h.String()
	got, err := NewHashFromStr(s)
	if err != nil {
		t.Fatalf("NewHashFromStr(%q): %v", s, err)
	}
	if !got.IsEqual(&h) {
		t.Fatalf("round trip mismatch: got %s want %s", got, h)
	}
}

func TestDoubleHashDeterministic(t *testing.T) {
	a := DoubleHashH([]byte("same input"))
	b := DoubleHashH([]byte("same input"))
	if a != b {
		t.Fatalf("DoubleHashH is not deterministic: %s != %s", a, b)
	}

	c := DoubleHashH([]byte("different input"))
	if a == c {
		t.Fatalf("DoubleHashH collided for distinct inputs")
	}
}

func TestNewHashFromStrTooLong(t *testing.T) {
	tooLong := make([]byte, MaxHashStringSize+1)
	for i := range tooLong {
		tooLong[i] = 'a'
	}
	if _, err := NewHashFromStr(string(tooLong)); err != ErrHashStrSize {
		t.Fatalf("expected ErrHashStrSize, got %v", err)
	}
}

func TestSetBytesWrongLength(t *testing.T) {
	var h Hash
	if err := h.SetBytes([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for wrong-length byte slice")
	}
}

func TestIsEqualNilHandling(t *testing.T) {
	var a, b *Hash
	if !a.IsEqual(b) {
		t.Fatal("two nil hashes should be equal")
	}

	h := DoubleHashH([]byte("x"))
	if h.IsEqual(nil) {
		t.Fatal("a non-nil hash should not equal nil")
	}
}
