package ocr

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	_ "image/gif"
	_ "image/jpeg"
)

type opaquer interface {
	Opaque() bool
}

// PrepareImage flattens any alpha channel onto a white background so
// tesseract never sees transparency. Fully opaque images are passed
// through untouched. The returned cleanup removes the temp file when one
// was written; it is non-nil only in that case.
func PrepareImage(path string) (string, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}

	if o, ok := img.(opaquer); ok && o.Opaque() {
		return path, nil, nil
	}

	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)

	tmp, err := os.CreateTemp("", "orderwizard-ocr-*.png")
	if err != nil {
		return "", nil, err
	}
	if err := png.Encode(tmp, flat); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("encode flattened image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}

	name := tmp.Name()
	return name, func() { os.Remove(name) }, nil
}
