package canvas

import "fmt"

// DrawBitmap uses the context's primitive blend while DrawImage takes an
// explicit composite mode, so a bitmap blit can only stand in for an image
// composite when the two agree. Mismatches always take the effect path: the
// fast path never mutates the primitive blend.

// blendCompositeMode maps a primitive blend to its composite equivalent.
func blendCompositeMode(b PrimitiveBlend) (CompositeMode, bool) {
	switch b {
	case BlendSourceOver:
		return CompositeSourceOver, true
	case BlendCopy:
		return CompositeCopy, true
	case BlendAdd:
		return CompositeAdd, true
	default:
		return 0, false
	}
}

// isBitmapCompositeCompatible reports whether the current primitive blend
// can serve the requested composite mode. A nil composite accepts any
// primitive blend that has an equivalent.
func isBitmapCompositeCompatible(blend PrimitiveBlend, composite *CompositeMode) bool {
	mapped, ok := blendCompositeMode(blend)
	if !ok {
		return false
	}
	return composite == nil || *composite == mapped
}

// isBitmapInterpolationCompatible reports whether the blit primitive samples
// identically to the image primitive for interp. The blit's other modes do
// not match the image primitive pixel for pixel.
func isBitmapInterpolationCompatible(interp Interpolation) bool {
	return interp == InterpolationLinear || interp == InterpolationNearestNeighbor
}

// canUseBitmapPath combines both eligibility checks.
func canUseBitmapPath(blend PrimitiveBlend, composite *CompositeMode, interp Interpolation) bool {
	return isBitmapCompositeCompatible(blend, composite) && isBitmapInterpolationCompatible(interp)
}

// compositeModeFromBlend resolves the composite mode used by the effect path
// when the caller gave none.
func compositeModeFromBlend(b PrimitiveBlend) (CompositeMode, error) {
	if mode, ok := blendCompositeMode(b); ok {
		return mode, nil
	}
	if b == BlendMin {
		return 0, ErrMinBlendNotSupported
	}
	return 0, fmt.Errorf("%w: primitive blend %v has no composite mode", ErrUnsupported, b)
}

// resolveCompositeMode returns the explicit override, or the mode implied by
// the primitive blend.
func resolveCompositeMode(b PrimitiveBlend, composite *CompositeMode) (CompositeMode, error) {
	if composite != nil {
		return *composite, nil
	}
	return compositeModeFromBlend(b)
}
