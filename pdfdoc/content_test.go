package pdfdoc

import (
	"strings"
	"testing"
)

func buildPage(t *testing.T, stream string) *pageBuilder {
	t.Helper()
	pb := newPageBuilder()
	walkContent([]byte(stream), pb.op)
	return pb
}

func TestWalkContentTj(t *testing.T) {
	pb := buildPage(t, "BT /F1 12 Tf 72 720 Td (Hello World) Tj ET")
	if got := cleanText(pb.text.String()); got != "Hello World" {
		t.Errorf("text = %q, want Hello World", got)
	}
	if len(pb.frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(pb.frags))
	}
	f := pb.frags[0]
	if f.Text != "Hello World" {
		t.Errorf("fragment text = %q", f.Text)
	}
	if f.X != 72 || f.Y != 720 {
		t.Errorf("fragment at %v,%v, want 72,720", f.X, f.Y)
	}
	if f.Height != 12 {
		t.Errorf("fragment height = %v, want font size 12", f.Height)
	}
}

func TestWalkContentTJArray(t *testing.T) {
	pb := buildPage(t, "BT /F1 10 Tf [(Hel) -20 (lo)] TJ ET")
	if got := cleanText(pb.text.String()); got != "Hello" {
		t.Errorf("text = %q, want Hello", got)
	}
	if len(pb.frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(pb.frags))
	}
	if pb.frags[1].X <= pb.frags[0].X {
		t.Errorf("second fragment should sit right of the first: %v vs %v",
			pb.frags[1].X, pb.frags[0].X)
	}
}

func TestWalkContentLineOperators(t *testing.T) {
	pb := buildPage(t, "BT /F1 12 Tf 14 TL 72 720 Td (one) Tj T* (two) Tj ET")
	if got := pb.text.String(); !strings.Contains(got, "one\ntwo") {
		t.Errorf("text = %q, want newline between lines", got)
	}
	if len(pb.frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(pb.frags))
	}
	if pb.frags[1].Y != 720-14 {
		t.Errorf("second line Y = %v, want %v", pb.frags[1].Y, 720-14)
	}
}

func TestWalkContentQuoteOperator(t *testing.T) {
	pb := buildPage(t, "BT /F1 12 Tf 72 720 Td (one) Tj (two) ' ET")
	if got := pb.text.String(); !strings.Contains(got, "one\ntwo") {
		t.Errorf("text = %q, want newline from ' operator", got)
	}
}

func TestWalkContentTm(t *testing.T) {
	pb := buildPage(t, "BT /F1 9 Tf 1 0 0 1 100 500 Tm (cell) Tj ET")
	if len(pb.frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(pb.frags))
	}
	if pb.frags[0].X != 100 || pb.frags[0].Y != 500 {
		t.Errorf("fragment at %v,%v, want 100,500", pb.frags[0].X, pb.frags[0].Y)
	}
}

func TestLiteralStringEscapes(t *testing.T) {
	pb := buildPage(t, `BT (a\(b\)c x\040y \\) Tj ET`)
	if got := pb.text.String(); got != `a(b)c x y \` {
		t.Errorf("decoded = %q, want %q", got, `a(b)c x y \`)
	}
}

func TestLiteralStringNested(t *testing.T) {
	pb := buildPage(t, "BT (outer (inner) tail) Tj ET")
	if got := pb.text.String(); got != "outer (inner) tail" {
		t.Errorf("decoded = %q", got)
	}
}

func TestHexString(t *testing.T) {
	// "Hi" in plain bytes, then in UTF-16BE with a BOM.
	pb := buildPage(t, "BT <4869> Tj <FEFF00480069> Tj ET")
	if got := pb.text.String(); got != "HiHi" {
		t.Errorf("decoded = %q, want HiHi", got)
	}
}

func TestInlineImageSkipped(t *testing.T) {
	stream := "BT (before) Tj ET\nBI /W 1 /H 1 ID \x00\xff\x00 EI\nBT 72 720 Td (after) Tj ET"
	pb := newPageBuilder()
	walkContent([]byte(stream), pb.op)
	if got := cleanText(pb.text.String()); got != "before after" {
		t.Errorf("text = %q, want inline image contents dropped", got)
	}
}

func TestCleanText(t *testing.T) {
	if got := cleanText("  a \n\n b\tc  "); got != "a b c" {
		t.Errorf("cleanText = %q, want collapsed", got)
	}
	if got := cleanText(""); got != "" {
		t.Errorf("cleanText(empty) = %q", got)
	}
}

func TestWalkContentDictOperandIgnored(t *testing.T) {
	pb := buildPage(t, "/Span << /ActualText (hidden) >> BDC BT (shown) Tj ET EMC")
	if got := pb.text.String(); got != "shown" {
		t.Errorf("text = %q, want marked-content dict skipped", got)
	}
}
