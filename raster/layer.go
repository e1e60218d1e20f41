package raster

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/composite"
)

var errStackMismatch = errors.New("raster: pop does not match the innermost push")

type stackKind uint8

const (
	stackClip stackKind = iota
	stackLayer
)

type stackEntry struct {
	kind        stackKind
	prevClip    image.Rectangle
	prevSurface *image.RGBA

	// Layer entries only.
	params canvas.LayerParameters
	world  canvas.Matrix3x2
}

// PushAxisAlignedClip implements canvas.DeviceContext. The clip is the
// device space bounding box of rect, snapped outward to pixels when
// antialiased and to the nearest pixel when aliased.
func (c *Context) PushAxisAlignedClip(rect canvas.RectF, aa canvas.AntialiasMode) {
	c.stack = append(c.stack, stackEntry{kind: stackClip, prevClip: c.clip, prevSurface: c.surface})
	c.clip = c.deviceRect(rect, aa == canvas.AntialiasAliased).Intersect(c.clip)
}

// PopAxisAlignedClip implements canvas.DeviceContext.
func (c *Context) PopAxisAlignedClip() {
	e, ok := c.pop(stackClip)
	if !ok {
		return
	}
	c.clip = e.prevClip
}

// PushLayer implements canvas.DeviceContext. Drawing is redirected to a new
// buffer until the matching PopLayer composites it back.
func (c *Context) PushLayer(p canvas.LayerParameters) {
	c.stack = append(c.stack, stackEntry{
		kind:        stackLayer,
		prevClip:    c.clip,
		prevSurface: c.surface,
		params:      p,
		world:       c.worldTransform(),
	})

	layer := image.NewRGBA(c.base.Rect)
	if p.Options&canvas.LayerOptionsInitializeFromBack != 0 {
		draw.Draw(layer, c.clip, c.surface, c.clip.Min, draw.Src)
	}
	if p.ContentBounds != canvas.InfiniteRect() {
		c.clip = c.deviceRect(p.ContentBounds, p.MaskAntialiasMode == canvas.AntialiasAliased).Intersect(c.clip)
	}
	c.surface = layer
}

// PopLayer implements canvas.DeviceContext.
func (c *Context) PopLayer() {
	e, ok := c.pop(stackLayer)
	if !ok {
		return
	}
	layer, clip := c.surface, c.clip
	c.surface, c.clip = e.prevSurface, e.prevClip
	if clip.Empty() {
		return
	}

	if e.params.Options&canvas.LayerOptionsIgnoreAlpha != 0 {
		for y := clip.Min.Y; y < clip.Max.Y; y++ {
			for x := clip.Min.X; x < clip.Max.X; x++ {
				layer.Pix[layer.PixOffset(x, y)+3] = 255
			}
		}
	}

	mask := c.layerMask(e, clip)
	composite.Draw(c.surface, clip, layer, clip.Min, mask, composite.SourceOver)
}

// layerMask combines opacity, the opacity brush and the geometric mask of a
// layer into per-pixel coverage over clip.
func (c *Context) layerMask(e stackEntry, clip image.Rectangle) *image.Alpha {
	alpha := float64(e.params.Opacity)
	switch b := e.params.OpacityBrush.(type) {
	case nil:
	case *SolidBrush:
		alpha *= clamp01(b.color.A)
	default:
		c.pendingErrs = append(c.pendingErrs, fmt.Errorf("raster: unsupported opacity brush %T", b))
	}
	level := unitByte(clamp01(alpha))

	mask := image.NewAlpha(clip)
	for i := range mask.Pix {
		mask.Pix[i] = level
	}

	switch g := e.params.GeometricMask.(type) {
	case nil:
	case *Polygon:
		coverage := rasterizePolygon(g, e.params.MaskTransform.Multiply(e.world), clip)
		for i, v := range coverage.Pix {
			mask.Pix[i] = byte((uint16(mask.Pix[i])*uint16(v) + 127) / 255)
		}
	default:
		c.pendingErrs = append(c.pendingErrs, fmt.Errorf("raster: unsupported layer geometry %T", g))
	}
	return mask
}

// rasterizePolygon returns the coverage of g under m, with the same bounds
// and layout as clip.
func rasterizePolygon(g *Polygon, m canvas.Matrix3x2, clip image.Rectangle) *image.Alpha {
	out := image.NewAlpha(clip)
	if len(g.Points) < 3 {
		return out
	}
	z := vector.NewRasterizer(clip.Dx(), clip.Dy())
	ox, oy := float32(clip.Min.X), float32(clip.Min.Y)
	for i, p := range g.Points {
		q := m.TransformPoint(p)
		if i == 0 {
			z.MoveTo(q.X-ox, q.Y-oy)
		} else {
			z.LineTo(q.X-ox, q.Y-oy)
		}
	}
	z.ClosePath()

	cov := image.NewAlpha(image.Rect(0, 0, clip.Dx(), clip.Dy()))
	z.Draw(cov, cov.Bounds(), image.Opaque, image.Point{})
	copy(out.Pix, cov.Pix)
	return out
}

func (c *Context) pop(kind stackKind) (stackEntry, bool) {
	n := len(c.stack)
	if n == 0 || c.stack[n-1].kind != kind {
		c.pendingErrs = append(c.pendingErrs, errStackMismatch)
		return stackEntry{}, false
	}
	e := c.stack[n-1]
	c.stack = c.stack[:n-1]
	return e, true
}

// deviceRect returns the device pixel bounding box of r under the world
// transform, unclipped but limited to the base image.
func (c *Context) deviceRect(r canvas.RectF, nearest bool) image.Rectangle {
	minX, minY, maxX, maxY := floatBounds(c.worldTransform(), r)
	if nearest {
		minX, minY = math.Round(minX), math.Round(minY)
		maxX, maxY = math.Round(maxX), math.Round(maxY)
	}
	return rectFromFloats(minX, minY, maxX, maxY, c.base.Rect)
}
