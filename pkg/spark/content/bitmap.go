package content

import (
	"encoding/binary"
	"image"
	"image/color"
	"io"

	"github.com/valyala/bytebufferpool"
)

const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
	bmpHeaderSize     = bmpFileHeaderSize + bmpInfoHeaderSize
	bmpBitsPerPixel   = 24
	bmpResolution     = 1000 // pixels per metre
)

// DefaultBarcodeHeight is the row count used for barcode images
const DefaultBarcodeHeight = 20

// EncodeBMP writes img to w as an uncompressed 24-bit Windows bitmap.
// Rows are stored bottom-up and padded to four bytes. The whole file is
// assembled in memory and written with one call.
func EncodeBMP(w io.Writer, img image.Image) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	stride := (width*3 + 3) &^ 3
	dataSize := stride * height

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	var hdr [bmpHeaderSize]byte
	le := binary.LittleEndian
	hdr[0], hdr[1] = 'B', 'M'
	le.PutUint32(hdr[2:], uint32(bmpHeaderSize+dataSize))
	le.PutUint32(hdr[10:], bmpHeaderSize)

	info := hdr[bmpFileHeaderSize:]
	le.PutUint32(info[0:], bmpInfoHeaderSize)
	le.PutUint32(info[4:], uint32(width))
	le.PutUint32(info[8:], uint32(height))
	le.PutUint16(info[12:], 1)
	le.PutUint16(info[14:], bmpBitsPerPixel)
	le.PutUint32(info[20:], uint32(dataSize))
	le.PutUint32(info[24:], bmpResolution)
	le.PutUint32(info[28:], bmpResolution)
	buf.Write(hdr[:])

	row := make([]byte, stride)
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		for x := 0; x < width; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, y)).(color.RGBA)
			row[x*3] = c.B
			row[x*3+1] = c.G
			row[x*3+2] = c.R
		}
		buf.Write(row)
	}

	_, err := w.Write(buf.B)
	return err
}

// BarcodeImage renders barcode modules as a black-on-white image, one
// pixel per module and height rows tall.
func BarcodeImage(bits []bool, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, len(bits), height))
	for x, bar := range bits {
		v := color.Gray{Y: 255}
		if bar {
			v = color.Gray{Y: 0}
		}
		for y := 0; y < height; y++ {
			img.SetGray(x, y, v)
		}
	}
	return img
}
