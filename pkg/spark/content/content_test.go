package content

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestChecksum(t *testing.T) {
	values := make([]int, 0, 7)
	for _, c := range "PJJ123C" {
		values = append(values, int(c)-32)
	}
	// Weighted sum of PJJ123C is 775
	if got := checksum(values, 103); got != 54 {
		t.Errorf("checksum(start 103) = %d, want 54", got)
	}
	if got := checksum(values, code128StartB); got != 55 {
		t.Errorf("checksum(start B) = %d, want 55", got)
	}
}

func TestEncodeCode128(t *testing.T) {
	bits, err := EncodeCode128("Hi")
	if err != nil {
		t.Fatalf("EncodeCode128 failed: %v", err)
	}

	// quiet + start + 2 data + checksum + stop + quiet
	want := 2*code128QuietLen + 5*code128Width
	if len(bits) != want {
		t.Fatalf("len = %d, want %d", len(bits), want)
	}
	for i := 0; i < code128QuietLen; i++ {
		if bits[i] || bits[len(bits)-1-i] {
			t.Fatalf("quiet zone has a bar at %d", i)
		}
	}

	// Start B is 11010010000
	start := bitsString(bits[code128QuietLen : code128QuietLen+code128Width])
	if start != "11010010000" {
		t.Errorf("start symbol = %s", start)
	}
	stopAt := len(bits) - code128QuietLen - code128Width
	if stop := bitsString(bits[stopAt : stopAt+code128Width]); stop != "11000111010" {
		t.Errorf("stop symbol = %s", stop)
	}

	// H = 40, i = 73; (104 + 40 + 146) % 103 = 84
	csAt := stopAt - code128Width
	if got, want := bitsString(bits[csAt:stopAt]), patternString(84); got != want {
		t.Errorf("checksum symbol = %s, want %s", got, want)
	}
}

func TestEncodeCode128Unencodable(t *testing.T) {
	for _, s := range []string{"tab\there", "caf\xc3\xa9", "\x7f"} {
		if _, err := EncodeCode128(s); !errors.Is(err, ErrUnencodable) {
			t.Errorf("EncodeCode128(%q) error = %v, want ErrUnencodable", s, err)
		}
	}
}

func bitsString(bits []bool) string {
	var sb strings.Builder
	for _, b := range bits {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func patternString(v int) string {
	return bitsString(appendSymbol(nil, v))
}

func TestEncodeBMP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	img.Set(2, 1, color.RGBA{R: 9, G: 8, B: 7, A: 255})

	var buf bytes.Buffer
	if err := EncodeBMP(&buf, img); err != nil {
		t.Fatalf("EncodeBMP failed: %v", err)
	}
	b := buf.Bytes()
	le := binary.LittleEndian

	// 3 pixels * 3 bytes = 9, padded to 12 per row
	const stride = 12
	if len(b) != bmpHeaderSize+2*stride {
		t.Fatalf("file size = %d", len(b))
	}
	if string(b[:2]) != "BM" {
		t.Errorf("signature = %q", b[:2])
	}
	checks := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"file size", le.Uint32(b[2:]), uint32(len(b))},
		{"data offset", le.Uint32(b[10:]), bmpHeaderSize},
		{"info size", le.Uint32(b[14:]), bmpInfoHeaderSize},
		{"width", le.Uint32(b[18:]), 3},
		{"height", le.Uint32(b[22:]), 2},
		{"planes", uint32(le.Uint16(b[26:])), 1},
		{"bpp", uint32(le.Uint16(b[28:])), 24},
		{"image size", le.Uint32(b[34:]), 2 * stride},
		{"x resolution", le.Uint32(b[38:]), bmpResolution},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	// Bottom row first, BGR order
	pixels := b[bmpHeaderSize:]
	if got := pixels[6:9]; !bytes.Equal(got, []byte{7, 8, 9}) {
		t.Errorf("bottom-right pixel = %v", got)
	}
	if got := pixels[stride : stride+3]; !bytes.Equal(got, []byte{3, 2, 1}) {
		t.Errorf("top-left pixel = %v", got)
	}
}

func TestBarcodeImage(t *testing.T) {
	img := BarcodeImage([]bool{true, false, true}, DefaultBarcodeHeight)
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != DefaultBarcodeHeight {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if img.GrayAt(0, 19).Y != 0 || img.GrayAt(1, 0).Y != 255 {
		t.Error("unexpected module colours")
	}
}

func TestPage(t *testing.T) {
	out := NewPage().
		Title("Hello, World!").
		Script("hello_world.js", "").
		Style("* { font-family: monospace; }").
		Heading(1, "Hello, World!").
		Break().
		Paragraph("<b>&").
		Link("WebGL Demo", "/webgl").
		Heading(9, "plain").
		String()

	for _, want := range []string{
		"<!DOCTYPE html><html><head><title>Hello, World!</title>",
		`<script type="text/javascript" src="hello_world.js"></script>`,
		`<style type="text/css">* { font-family: monospace; }</style>`,
		"<h1>Hello, World!</h1><br/>",
		"<p>&lt;b&gt;&amp;</p>",
		`<a href="/webgl">WebGL Demo</a>`,
		"<p>plain</p></body></html>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q:\n%s", want, out)
		}
	}
}

func TestPageCanvas(t *testing.T) {
	out := NewPage().Canvas(800, 600, "", true).String()
	if !strings.Contains(out, `<canvas id="canvas" width="800" height="600"></canvas>`) {
		t.Errorf("canvas missing: %s", out)
	}
	if !strings.Contains(out, "getContext('webgl')") {
		t.Errorf("webgl bootstrap missing: %s", out)
	}
}
