package composite

import (
	"image"
)

// Draw composites src onto dst over r with op. sp is the source point
// aligned with r.Min. mask, if not nil, scales the result per pixel: it is
// read at the same coordinates as dst.
//
// Pixels of r outside src read as transparent black, so bounded operators
// such as SourceIn clear the destination there.
func Draw(dst *image.RGBA, r image.Rectangle, src *image.RGBA, sp image.Point, mask *image.Alpha, op Op) {
	r = r.Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	fn := FuncFor(op)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		sy := sp.Y + y - r.Min.Y
		for x := r.Min.X; x < r.Max.X; x++ {
			sx := sp.X + x - r.Min.X

			var sr, sg, sb, sa byte
			if (image.Point{X: sx, Y: sy}).In(src.Rect) {
				si := src.PixOffset(sx, sy)
				s := src.Pix[si : si+4 : si+4]
				sr, sg, sb, sa = s[0], s[1], s[2], s[3]
			}

			coverage := byte(255)
			if mask != nil {
				coverage = mask.AlphaAt(x, y).A
				if coverage == 0 {
					continue
				}
			}

			di := dst.PixOffset(x, y)
			d := dst.Pix[di : di+4 : di+4]
			rr, rg, rb, ra := fn(sr, sg, sb, sa, d[0], d[1], d[2], d[3])
			d[0], d[1], d[2], d[3] = Lerp(d[0], d[1], d[2], d[3], rr, rg, rb, ra, coverage)
		}
	}
}

// ColorMatrix transforms every pixel of src into dst, which must have the
// same bounds. m is in row-vector form over straight-alpha channels in
// [0, 1]: out = [r g b a 1] * m. Results are clamped and premultiplied.
func ColorMatrix(dst, src *image.RGBA, m *[5][4]float32) {
	b := src.Rect.Intersect(dst.Rect)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := src.PixOffset(x, y)
			s := src.Pix[si : si+4 : si+4]
			a := float32(s[3]) / 255

			var r, g, bl float32
			if a > 0 {
				r = float32(s[0]) / 255 / a
				g = float32(s[1]) / 255 / a
				bl = float32(s[2]) / 255 / a
			}

			in := [5]float32{r, g, bl, a, 1}
			var out [4]float32
			for col := 0; col < 4; col++ {
				var sum float32
				for row := 0; row < 5; row++ {
					sum += in[row] * m[row][col]
				}
				out[col] = clamp01(sum)
			}

			di := dst.PixOffset(x, y)
			d := dst.Pix[di : di+4 : di+4]
			na := out[3]
			d[0] = toByte(out[0] * na)
			d[1] = toByte(out[1] * na)
			d[2] = toByte(out[2] * na)
			d[3] = toByte(na)
		}
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toByte(v float32) byte {
	return byte(v*255 + 0.5)
}
