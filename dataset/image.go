package dataset

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	_ "golang.org/x/image/webp"
)

// LoadImage opens path on fs, decodes it and converts it to an opaque NRGBA
// image: the Go equivalent of a 3-channel RGB picture.
func LoadImage(fs afero.Fs, path string) (*image.NRGBA, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrImage, path, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrImage, path, err)
	}
	return toRGB(img), nil
}

// toRGB copies img into a fresh NRGBA with alpha forced to opaque. The colour
// channels are kept as decoded; transparency is dropped, not composited.
func toRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

