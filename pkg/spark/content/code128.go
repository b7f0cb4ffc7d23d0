package content

import (
	"errors"
	"fmt"
)

// ErrUnencodable is returned for characters outside Code 128 set B
// (printable ASCII, 32 through 126).
var ErrUnencodable = errors.New("content: character not encodable in code 128 set B")

const (
	code128StartB   = 104
	code128Stop     = 106
	code128Modulus  = 103
	code128Width    = 11
	code128QuietLen = 10
)

// code128Patterns holds the 11-module bar pattern of every Code 128 symbol,
// most significant bit first. Index is the symbol value.
var code128Patterns = [107]uint16{
	0b11011001100, 0b11001101100, 0b11001100110, 0b10010011000, 0b10010001100,
	0b10001001100, 0b10011001000, 0b10011000100, 0b10001100100, 0b11001001000,
	0b11000100100, 0b11001000100, 0b10110011100, 0b10011011100, 0b10011001110,
	0b10111001100, 0b10011101100, 0b10011100110, 0b11001110010, 0b11001011100,
	0b11001001110, 0b11011100100, 0b11001110100, 0b11101101110, 0b11101001100,
	0b11100101100, 0b11100100110, 0b11101100100, 0b11100110100, 0b11100110010,
	0b11011011000, 0b11011000110, 0b11000110110, 0b10100011000, 0b10001011000,
	0b10001000110, 0b10110001000, 0b10001101000, 0b10001100010, 0b11010001000,
	0b11000101000, 0b11000100010, 0b10110111000, 0b10110001110, 0b10001101110,
	0b10111011000, 0b10111000110, 0b10001110110, 0b11101110110, 0b11010001110,
	0b11000101110, 0b11011101000, 0b11011100010, 0b11011101110, 0b11101011000,
	0b11101000110, 0b11100010110, 0b11101101000, 0b11101100010, 0b11100011010,
	0b11101111010, 0b11001000010, 0b11110001010, 0b10100110000, 0b10100001100,
	0b10010110000, 0b10010000110, 0b10000101100, 0b10000100110, 0b10110010000,
	0b10110000100, 0b10011010000, 0b10011000010, 0b10000110100, 0b10000110010,
	0b11000010010, 0b11001010000, 0b11110111010, 0b11000010100, 0b10001111010,
	0b10100111100, 0b10010111100, 0b10010011110, 0b10111100100, 0b10011110100,
	0b10011110010, 0b11110100100, 0b11110010100, 0b11110010010, 0b11011011110,
	0b11011110110, 0b11110110110, 0b10101111000, 0b10100011110, 0b10001011110,
	0b10111101000, 0b10111100010, 0b11110101000, 0b11110100010, 0b10111011110,
	0b10111101110, 0b11101011110, 0b11110101110, 0b11010000100, 0b11010010000,
	0b11010011100, 0b11000111010,
}

// EncodeCode128 encodes s as a Code 128 set B barcode and returns its
// modules, true for a bar. The result is framed by ten-module quiet zones:
//
//	quiet | start B | data... | checksum | stop | quiet
func EncodeCode128(s string) ([]bool, error) {
	values := make([]int, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 32 || c > 126 {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrUnencodable, c, i)
		}
		values = append(values, int(c)-32)
	}

	bits := make([]bool, 0, 2*code128QuietLen+(len(values)+3)*code128Width)
	bits = append(bits, make([]bool, code128QuietLen)...)
	bits = appendSymbol(bits, code128StartB)
	for _, v := range values {
		bits = appendSymbol(bits, v)
	}
	bits = appendSymbol(bits, checksum(values, code128StartB))
	bits = appendSymbol(bits, code128Stop)
	bits = append(bits, make([]bool, code128QuietLen)...)
	return bits, nil
}

// checksum is the weighted modulo-103 sum of the start value and the
// position-weighted symbol values.
func checksum(values []int, start int) int {
	sum := start
	for i, v := range values {
		sum += v * (i + 1)
	}
	return sum % code128Modulus
}

func appendSymbol(bits []bool, value int) []bool {
	p := code128Patterns[value]
	for i := code128Width - 1; i >= 0; i-- {
		bits = append(bits, p>>i&1 == 1)
	}
	return bits
}
