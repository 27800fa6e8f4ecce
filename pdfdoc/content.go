package pdfdoc

import (
	"encoding/hex"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/unicode/norm"

	"github.com/docsift/docsift/model"
)

// Text returns the text of every page concatenated in page order, with no
// separator between pages.
func (r *Reader) Text() string {
	var sb strings.Builder
	for pageNr := 1; pageNr <= r.ctx.PageCount; pageNr++ {
		sb.WriteString(r.PageText(pageNr))
	}
	return sb.String()
}

// PageText returns the cleaned text of a single page. Pages whose content
// stream cannot be read yield the empty string.
func (r *Reader) PageText(pageNr int) string {
	data := r.pageContent(pageNr)
	if len(data) == 0 {
		return ""
	}
	pb := newPageBuilder()
	walkContent(data, pb.op)
	return cleanText(pb.text.String())
}

// FragmentsByPage returns, per page, the positioned text fragments in
// content stream order. Fragment geometry is approximate: widths are
// estimated from the active font size, which is accurate enough for
// detecting tabular alignment. The source file is re-read, so the layout
// pass always derives from the bytes on disk.
func (r *Reader) FragmentsByPage() ([][]model.TextFragment, error) {
	ctx, err := readContext(r.path)
	if err != nil {
		return nil, err
	}

	out := make([][]model.TextFragment, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		data := pageContent(ctx, pageNr)
		if len(data) == 0 {
			continue
		}
		pb := newPageBuilder()
		walkContent(data, pb.op)
		out[pageNr-1] = pb.frags
	}
	return out, nil
}

func (r *Reader) pageContent(pageNr int) []byte {
	return pageContent(r.ctx, pageNr)
}

func pageContent(ctx *pdfmodel.Context, pageNr int) []byte {
	rd, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil || rd == nil {
		return nil
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil
	}
	return data
}

// --- content stream tokenizer ---

type tokenKind int

const (
	tokString tokenKind = iota
	tokNumber
	tokName
	tokOperator
	tokArray
)

type token struct {
	kind  tokenKind
	str   string
	num   float64
	elems []token
}

type tokenizer struct {
	data []byte
	pos  int
}

func isWhite(b byte) bool {
	switch b {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelim(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (t *tokenizer) skipWhite() {
	for t.pos < len(t.data) {
		b := t.data[t.pos]
		if isWhite(b) {
			t.pos++
			continue
		}
		if b == '%' {
			for t.pos < len(t.data) && t.data[t.pos] != '\n' && t.data[t.pos] != '\r' {
				t.pos++
			}
			continue
		}
		return
	}
}

// next returns the next token. Array tokens are returned whole, with their
// elements nested, so TJ can consume its operand in one step.
func (t *tokenizer) next() (token, bool) {
	t.skipWhite()
	if t.pos >= len(t.data) {
		return token{}, false
	}

	b := t.data[t.pos]
	switch {
	case b == '(':
		t.pos++
		return token{kind: tokString, str: t.literalString()}, true

	case b == '<':
		if t.pos+1 < len(t.data) && t.data[t.pos+1] == '<' {
			t.pos += 2
			t.skipDict()
			return t.next()
		}
		t.pos++
		return token{kind: tokString, str: t.hexString()}, true

	case b == '[':
		t.pos++
		var elems []token
		for {
			t.skipWhite()
			if t.pos >= len(t.data) {
				break
			}
			if t.data[t.pos] == ']' {
				t.pos++
				break
			}
			tok, ok := t.next()
			if !ok {
				break
			}
			elems = append(elems, tok)
		}
		return token{kind: tokArray, elems: elems}, true

	case b == ']':
		t.pos++
		return t.next()

	case b == '/':
		t.pos++
		start := t.pos
		for t.pos < len(t.data) && !isWhite(t.data[t.pos]) && !isDelim(t.data[t.pos]) {
			t.pos++
		}
		return token{kind: tokName, str: string(t.data[start:t.pos])}, true

	case b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
		start := t.pos
		t.pos++
		for t.pos < len(t.data) {
			c := t.data[t.pos]
			if c == '.' || (c >= '0' && c <= '9') {
				t.pos++
				continue
			}
			break
		}
		n, err := strconv.ParseFloat(string(t.data[start:t.pos]), 64)
		if err != nil {
			return t.next()
		}
		return token{kind: tokNumber, num: n}, true

	default:
		start := t.pos
		for t.pos < len(t.data) && !isWhite(t.data[t.pos]) && !isDelim(t.data[t.pos]) {
			t.pos++
		}
		if t.pos == start {
			t.pos++
			return t.next()
		}
		return token{kind: tokOperator, str: string(t.data[start:t.pos])}, true
	}
}

// literalString consumes a ( ... ) string, tracking nested parentheses, and
// returns the decoded text. The opening parenthesis is already consumed.
func (t *tokenizer) literalString() string {
	var sb strings.Builder
	depth := 1
	for t.pos < len(t.data) {
		b := t.data[t.pos]
		switch b {
		case '\\':
			t.pos++
			if t.pos >= len(t.data) {
				return sb.String()
			}
			e := t.data[t.pos]
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case '(', ')', '\\':
				sb.WriteByte(e)
			case '\n':
				// Line continuation: the backslash-newline pair is dropped.
			case '\r':
				if t.pos+1 < len(t.data) && t.data[t.pos+1] == '\n' {
					t.pos++
				}
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2 && t.pos+1 < len(t.data); k++ {
						c := t.data[t.pos+1]
						if c < '0' || c > '7' {
							break
						}
						t.pos++
						val = val*8 + int(c-'0')
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(e)
				}
			}
			t.pos++
		case '(':
			depth++
			sb.WriteByte(b)
			t.pos++
		case ')':
			depth--
			t.pos++
			if depth == 0 {
				return sb.String()
			}
			sb.WriteByte(b)
		default:
			sb.WriteByte(b)
			t.pos++
		}
	}
	return sb.String()
}

// hexString consumes a < ... > string. The opening bracket is already
// consumed.
func (t *tokenizer) hexString() string {
	start := t.pos
	for t.pos < len(t.data) && t.data[t.pos] != '>' {
		t.pos++
	}
	raw := string(t.data[start:t.pos])
	if t.pos < len(t.data) {
		t.pos++
	}

	var hexDigits strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') {
			hexDigits.WriteRune(r)
		}
	}
	h := hexDigits.String()
	if len(h)%2 == 1 {
		h += "0"
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return ""
	}
	return decodeStringBytes(b)
}

// skipDict consumes a << ... >> dictionary, tracking nesting. Inline dicts
// appear in content streams only as operands of operators we ignore.
func (t *tokenizer) skipDict() {
	depth := 1
	for t.pos < len(t.data) && depth > 0 {
		switch {
		case t.data[t.pos] == '<' && t.pos+1 < len(t.data) && t.data[t.pos+1] == '<':
			depth++
			t.pos += 2
		case t.data[t.pos] == '>' && t.pos+1 < len(t.data) && t.data[t.pos+1] == '>':
			depth--
			t.pos += 2
		case t.data[t.pos] == '(':
			t.pos++
			t.literalString()
		default:
			t.pos++
		}
	}
}

// skipInlineImage consumes everything between a BI operator and the
// terminating EI.
func (t *tokenizer) skipInlineImage() {
	for t.pos+1 < len(t.data) {
		if t.data[t.pos] == 'E' && t.data[t.pos+1] == 'I' {
			before := t.pos == 0 || isWhite(t.data[t.pos-1])
			after := t.pos+2 >= len(t.data) || isWhite(t.data[t.pos+2])
			if before && after {
				t.pos += 2
				return
			}
		}
		t.pos++
	}
	t.pos = len(t.data)
}

// decodeStringBytes turns raw PDF string bytes into a Go string, honoring a
// UTF-16BE byte order mark when present.
func decodeStringBytes(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		u := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(u))
	}
	var sb strings.Builder
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// walkContent tokenizes a content stream and invokes emit for every
// operator with its operands in stream order.
func walkContent(data []byte, emit func(op string, args []token)) {
	t := &tokenizer{data: data}
	var stack []token
	for {
		tok, ok := t.next()
		if !ok {
			return
		}
		if tok.kind != tokOperator {
			stack = append(stack, tok)
			continue
		}
		if tok.str == "BI" {
			t.skipInlineImage()
			stack = stack[:0]
			continue
		}
		emit(tok.str, stack)
		stack = stack[:0]
	}
}

// --- text assembly ---

// glyphWidthRatio approximates glyph advance as a fraction of the font
// size. Exact widths live in font programs pdfcpu does not expose here; a
// flat average is sufficient for alignment clustering.
const glyphWidthRatio = 0.5

type pageBuilder struct {
	frags []model.TextFragment
	text  strings.Builder

	x, y         float64
	lineX, lineY float64
	fontSize     float64
	leading      float64
}

func newPageBuilder() *pageBuilder {
	return &pageBuilder{fontSize: 12}
}

func (b *pageBuilder) op(name string, args []token) {
	switch name {
	case "BT":
		b.x, b.y, b.lineX, b.lineY = 0, 0, 0, 0

	case "Tf":
		if n, ok := lastNum(args); ok && n > 0 {
			b.fontSize = n
		}

	case "TL":
		if n, ok := lastNum(args); ok {
			b.leading = n
		}

	case "Td":
		b.moveLine(args)
		b.space()

	case "TD":
		if len(args) == 2 && args[1].kind == tokNumber {
			b.leading = -args[1].num
		}
		b.moveLine(args)
		b.space()

	case "Tm":
		if len(args) == 6 && args[4].kind == tokNumber && args[5].kind == tokNumber {
			b.lineX, b.lineY = args[4].num, args[5].num
			b.x, b.y = b.lineX, b.lineY
		}
		b.space()

	case "T*":
		b.nextLine()
		b.newline()

	case "Tj":
		if len(args) == 1 && args[0].kind == tokString {
			b.show(args[0].str)
		}

	case "'":
		b.nextLine()
		b.newline()
		if len(args) == 1 && args[0].kind == tokString {
			b.show(args[0].str)
		}

	case "\"":
		b.nextLine()
		b.newline()
		if len(args) == 3 && args[2].kind == tokString {
			b.show(args[2].str)
		}

	case "TJ":
		if len(args) != 1 || args[0].kind != tokArray {
			return
		}
		for _, el := range args[0].elems {
			switch el.kind {
			case tokString:
				b.show(el.str)
			case tokNumber:
				// Negative adjustments advance the pen rightward.
				b.x -= el.num / 1000 * b.fontSize
			}
		}
	}
}

func (b *pageBuilder) moveLine(args []token) {
	if len(args) == 2 && args[0].kind == tokNumber && args[1].kind == tokNumber {
		b.lineX += args[0].num
		b.lineY += args[1].num
		b.x, b.y = b.lineX, b.lineY
	}
}

func (b *pageBuilder) nextLine() {
	dy := b.leading
	if dy == 0 {
		dy = b.fontSize * 1.2
	}
	b.lineY -= dy
	b.x, b.y = b.lineX, b.lineY
}

func (b *pageBuilder) show(s string) {
	if s == "" {
		return
	}
	b.text.WriteString(s)
	if strings.TrimSpace(s) != "" {
		w := glyphWidthRatio * b.fontSize * float64(len([]rune(s)))
		b.frags = append(b.frags, model.TextFragment{
			Text:   s,
			X:      b.x,
			Y:      b.y,
			Width:  w,
			Height: b.fontSize,
		})
	}
	b.x += glyphWidthRatio * b.fontSize * float64(len([]rune(s)))
}

func (b *pageBuilder) space() {
	if b.text.Len() > 0 {
		b.text.WriteByte(' ')
	}
}

func (b *pageBuilder) newline() {
	if b.text.Len() > 0 {
		b.text.WriteByte('\n')
	}
}

func lastNum(args []token) (float64, bool) {
	for i := len(args) - 1; i >= 0; i-- {
		if args[i].kind == tokNumber {
			return args[i].num, true
		}
	}
	return 0, false
}

// cleanText collapses whitespace runs to single spaces, drops unprintable
// runes, and normalizes the result to NFC.
func cleanText(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		} else if unicode.IsPrint(r) {
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return norm.NFC.String(strings.TrimSpace(sb.String()))
}
