package render

import (
	"fmt"

	"gocv.io/x/gocv"
)

// EncodePNG encodes a Mat as PNG.
func EncodePNG(m gocv.Mat) ([]byte, error) {
	return encode(gocv.PNGFileExt, m)
}

// EncodeJPEG encodes a Mat as JPEG.
func EncodeJPEG(m gocv.Mat) ([]byte, error) {
	return encode(gocv.JPEGFileExt, m)
}

func encode(ext gocv.FileExt, m gocv.Mat) ([]byte, error) {
	if m.Empty() {
		return nil, ErrEmptyFrame
	}
	buf, err := gocv.IMEncode(ext, m)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ext, err)
	}
	defer buf.Close()

	// GetBytes aliases C memory that Close frees.
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
