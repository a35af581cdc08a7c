package watermark

import (
	"image"

	"github.com/disintegration/imaging"
)

// Composite returns a new image holding overlay alpha-blended over base.
// Neither input is modified. The result has base's size, anchored at the
// origin, and keeps straight (non-premultiplied) color, so base pixels under
// a transparent overlay pixel come through byte for byte.
func Composite(base, overlay image.Image) *image.NRGBA {
	out := imaging.Clone(base)
	over := imaging.Clone(overlay)

	r := out.Bounds().Intersect(over.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := over.Pix[over.PixOffset(r.Min.X, y):over.PixOffset(r.Max.X, y)]
		dst := out.Pix[out.PixOffset(r.Min.X, y):out.PixOffset(r.Max.X, y)]
		for i := 0; i+3 < len(src); i += 4 {
			blendOver(dst[i:i+4], src[i:i+4])
		}
	}
	return out
}

// blendOver composites the straight-alpha pixel src over dst in place.
func blendOver(dst, src []uint8) {
	sa := uint32(src[3])
	switch sa {
	case 0:
		return
	case 0xff:
		copy(dst, src)
		return
	}

	// Both weights are scaled by 0xff.
	ws := sa * 0xff
	wd := uint32(dst[3]) * (0xff - sa)
	total := ws + wd
	for c := 0; c < 3; c++ {
		dst[c] = uint8((uint32(src[c])*ws + uint32(dst[c])*wd + total/2) / total)
	}
	dst[3] = uint8((total + 0x7f) / 0xff)
}

// Flatten returns a fully opaque copy of img. Alpha is discarded rather than
// blended against a background, so every pixel keeps its stored color.
func Flatten(img *image.NRGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		dst := out.Pix[out.PixOffset(b.Min.X, y):out.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(src); i += 4 {
			copy(dst[i:i+3], src[i:i+3])
			dst[i+3] = 0xff
		}
	}
	return out
}
