// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"
)

func TestVarIntRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000, 0xffffffffffffffff}

	for _, v := range values {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, v); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", v, err)
		}
		if buf.Len() != VarIntSerializeSize(v) {
			t.Fatalf("VarIntSerializeSize(%d) = %d, wrote %d bytes", v, VarIntSerializeSize(v), buf.Len())
		}

		got, err := ReadVarInt(&buf)
		if err != nil {
			t.Fatalf("ReadVarInt after writing %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: wrote %d, read %d", v, got)
		}
	}
}

func TestVarBytesRoundTrip(t *testing.T) {
	payloads := [][]byte{nil, {}, []byte("a"), bytes.Repeat([]byte{0xab}, 512)}

	for _, p := range payloads {
		var buf bytes.Buffer
		if err := WriteVarBytes(&buf, p); err != nil {
			t.Fatalf("WriteVarBytes: %v", err)
		}
		got, err := ReadVarBytes(&buf, uint32(len(p))+1, "payload")
		if err != nil {
			t.Fatalf("ReadVarBytes: %v", err)
		}
		if !bytes.Equal(got, p) {
			t.Fatalf("round trip mismatch: wrote %x, read %x", p, got)
		}
	}
}

func TestReadVarBytesRejectsOversized(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteVarBytes(&buf, bytes.Repeat([]byte{1}, 10))
	if _, err := ReadVarBytes(&buf, 5, "payload"); err == nil {
		t.Fatal("expected an error reading a payload over the max allowed size")
	}
}

func TestReadVarIntRejectsNonCanonical(t *testing.T) {
	// 0xfd discriminant followed by a value that fits in one byte is
	// non-canonical: it should have been encoded directly.
	buf := bytes.NewBuffer([]byte{0xfd, 0x0a, 0x00})
	if _, err := ReadVarInt(buf); err == nil {
		t.Fatal("expected a non-canonical varint error")
	}
}
