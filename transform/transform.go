// Package transform builds dataset.Transform functions from image operations.
package transform

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ooddb/ooddb/dataset"
)

// Op is one image-to-image step.
type Op func(img image.Image) image.Image

// Resize scales to exactly w×h. A zero dimension keeps the aspect ratio.
func Resize(w, h int) Op {
	return func(img image.Image) image.Image {
		return imaging.Resize(img, w, h, imaging.Lanczos)
	}
}

// ResizeShorter scales so that the shorter side equals size, keeping the
// aspect ratio.
func ResizeShorter(size int) Op {
	return func(img image.Image) image.Image {
		b := img.Bounds()
		if b.Dx() < b.Dy() {
			return imaging.Resize(img, size, 0, imaging.Lanczos)
		}
		return imaging.Resize(img, 0, size, imaging.Lanczos)
	}
}

// CenterCrop cuts a w×h rectangle out of the centre of the image.
func CenterCrop(w, h int) Op {
	return func(img image.Image) image.Image {
		return imaging.CropCenter(img, w, h)
	}
}

// Fill resizes and crops to cover w×h exactly.
func Fill(w, h int) Op {
	return func(img image.Image) image.Image {
		return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
	}
}

// FlipH mirrors the image horizontally.
func FlipH() Op {
	return func(img image.Image) image.Image { return imaging.FlipH(img) }
}

// apply runs ops in order.
func apply(img image.Image, ops []Op) image.Image {
	for _, op := range ops {
		img = op(img)
	}
	return img
}

// Image returns a transform yielding the processed image.
func Image(ops ...Op) dataset.Transform {
	return func(img image.Image) (any, error) {
		return apply(img, ops), nil
	}
}

// Tensor is an image as float32 values in CHW order.
type Tensor struct {
	Data     []float32
	Channels int
	Height   int
	Width    int
}

// At returns the value of channel c at (x, y).
func (t *Tensor) At(c, y, x int) float32 {
	return t.Data[(c*t.Height+y)*t.Width+x]
}

// Normalization holds per-channel mean and standard deviation applied after
// scaling values to [0, 1].
type Normalization struct {
	Mean [3]float32
	Std  [3]float32
}

// ImageNet is the usual normalization for ImageNet-pretrained backbones.
var ImageNet = &Normalization{
	Mean: [3]float32{0.485, 0.456, 0.406},
	Std:  [3]float32{0.229, 0.224, 0.225},
}

// ToTensor returns a transform producing a 3×H×W *Tensor with values in
// [0, 1], then normalized by norm when it is not nil.
func ToTensor(norm *Normalization, ops ...Op) dataset.Transform {
	return func(img image.Image) (any, error) {
		if norm != nil {
			for c, s := range norm.Std {
				if s == 0 {
					return nil, fmt.Errorf("zero std for channel %d", c)
				}
			}
		}
		src := imaging.Clone(apply(img, ops))
		w, h := src.Bounds().Dx(), src.Bounds().Dy()
		t := &Tensor{Data: make([]float32, 3*w*h), Channels: 3, Height: h, Width: w}
		plane := w * h
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				off := y*src.Stride + x*4
				idx := y*w + x
				for c := 0; c < 3; c++ {
					v := float32(src.Pix[off+c]) / 255
					if norm != nil {
						v = (v - norm.Mean[c]) / norm.Std[c]
					}
					t.Data[c*plane+idx] = v
				}
			}
		}
		return t, nil
	}
}
