package manifest

import "testing"

func TestLineIndexASCII(t *testing.T) {
	src := []byte("name = \"serde\"\nversion = \"1.0\"\n")
	idx := NewLineIndex(src)

	// "serde" starts at byte 8 on line 0.
	pos := idx.Position(8)
	if pos.Line != 0 || pos.Character != 8 {
		t.Fatalf("got %+v, want {0 8}", pos)
	}

	// "version" starts at byte 15, which is line 1, character 0.
	pos = idx.Position(15)
	if pos.Line != 1 || pos.Character != 0 {
		t.Fatalf("got %+v, want {1 0}", pos)
	}
}

func TestLineIndexMultiByte(t *testing.T) {
	// "さ" is one rune, 3 bytes in UTF-8, 1 code unit in UTF-16 (BMP).
	// "😀" is one rune, 4 bytes in UTF-8, 2 code units in UTF-16 (surrogate pair).
	src := []byte("x = \"さ😀y\"\n")
	idx := NewLineIndex(src)

	// byte offset of 'y': "x = \"" (5 bytes) + "さ" (3 bytes) + "😀" (4 bytes) = 12
	yByte := 5 + 3 + 4
	pos := idx.Position(yByte)
	// UTF-16 chars before y: 5 (ascii prefix) + 1 (さ) + 2 (😀 surrogate pair) = 8
	if pos.Line != 0 || pos.Character != 8 {
		t.Fatalf("got %+v, want {0 8}", pos)
	}
}

func TestRangeRoundTripsSubstring(t *testing.T) {
	src := []byte(`serde = "1.0.100"` + "\n")
	idx := NewLineIndex(src)
	nameStart, nameEnd := 0, len("serde")
	r := idx.Range(nameStart, nameEnd)
	if r.Start.Line != 0 || r.Start.Character != 0 || r.End.Character != 5 {
		t.Fatalf("unexpected range: %+v", r)
	}
}
