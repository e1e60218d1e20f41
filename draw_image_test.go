package canvas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/recording"
)

func TestBitmapPathEligibility(t *testing.T) {
	add := canvas.CompositeAdd
	over := canvas.CompositeSourceOver

	tests := []struct {
		name      string
		blend     canvas.PrimitiveBlend
		composite *canvas.CompositeMode
		interp    canvas.Interpolation
		want      bool
	}{
		{"default", canvas.BlendSourceOver, nil, canvas.InterpolationLinear, true},
		{"nearest", canvas.BlendSourceOver, nil, canvas.InterpolationNearestNeighbor, true},
		{"cubic", canvas.BlendSourceOver, nil, canvas.InterpolationCubic, false},
		{"add with matching composite", canvas.BlendAdd, &add, canvas.InterpolationLinear, true},
		{"add with other composite", canvas.BlendAdd, &over, canvas.InterpolationLinear, false},
		{"copy", canvas.BlendCopy, nil, canvas.InterpolationLinear, true},
		{"min", canvas.BlendMin, nil, canvas.InterpolationLinear, false},
		{"max", canvas.BlendMax, nil, canvas.InterpolationLinear, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canvas.CanUseBitmapPath(tt.blend, tt.composite, tt.interp))
		})
	}
}

func TestResolveCompositeMode(t *testing.T) {
	mode, err := canvas.ResolveCompositeMode(canvas.BlendAdd, nil)
	require.NoError(t, err)
	assert.Equal(t, canvas.CompositeAdd, mode)

	mode, err = canvas.ResolveCompositeMode(canvas.BlendMin, canvas.Composite(canvas.CompositeXor))
	require.NoError(t, err)
	assert.Equal(t, canvas.CompositeXor, mode)

	_, err = canvas.ResolveCompositeMode(canvas.BlendMin, nil)
	assert.ErrorIs(t, err, canvas.ErrMinBlendNotSupported)

	_, err = canvas.ResolveCompositeMode(canvas.BlendMax, nil)
	assert.ErrorIs(t, err, canvas.ErrUnsupported)
}

func TestDrawImageTakesBitmapPath(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()
	bmp := recording.NewBitmap(64, 32, 96)

	require.NoError(t, ds.DrawImageAt(canvas.WrapBitmap(bmp), canvas.Vec2(5, 6)))

	assert.Equal(t, 1, rec.Count(recording.CmdDrawBitmap))
	assert.Zero(t, rec.Count(recording.CmdDrawImage))
	assert.Zero(t, rec.Count(recording.CmdCreateEffect))
	cmd := rec.Last(recording.CmdDrawBitmap).(recording.DrawBitmapCommand)
	assert.Equal(t, canvas.RectF{Left: 5, Top: 6, Right: 69, Bottom: 38}, cmd.Dest)
	assert.Equal(t, float32(1), cmd.Opacity)
	assert.Nil(t, cmd.Source)
}

func TestDrawImageBitmapPathSizesInCurrentUnits(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()
	bmp := recording.NewBitmap(64, 32, 192)

	require.NoError(t, ds.DrawImage(canvas.WrapBitmap(bmp)))
	cmd := rec.Last(recording.CmdDrawBitmap).(recording.DrawBitmapCommand)
	assert.Equal(t, canvas.RectF{Right: 32, Bottom: 16}, cmd.Dest)

	require.NoError(t, ds.SetUnits(canvas.UnitsPixels))
	require.NoError(t, ds.DrawImage(canvas.WrapBitmap(bmp)))
	cmd = rec.Last(recording.CmdDrawBitmap).(recording.DrawBitmapCommand)
	assert.Equal(t, canvas.RectF{Right: 64, Bottom: 32}, cmd.Dest)
}

func TestDrawImageBitmapPathWithSourceRect(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()

	opts := canvas.DefaultDrawImageOptions()
	opts.Offset = canvas.Vec2(1, 1)
	opts.SourceRect = &canvas.Rect{X: 2, Y: 2, Width: 10, Height: 5}
	opts.Opacity = 0.5
	require.NoError(t, ds.DrawImageEx(canvas.WrapBitmap(recording.NewBitmap(64, 64, 96)), opts))

	cmd := rec.Last(recording.CmdDrawBitmap).(recording.DrawBitmapCommand)
	assert.Equal(t, canvas.RectF{Left: 1, Top: 1, Right: 11, Bottom: 6}, cmd.Dest)
	require.NotNil(t, cmd.Source)
	assert.Equal(t, canvas.RectF{Left: 2, Top: 2, Right: 12, Bottom: 7}, *cmd.Source)
	assert.Equal(t, float32(0.5), cmd.Opacity, "the blit applies opacity itself")
	assert.Zero(t, rec.Count(recording.CmdCreateEffect))
}

func TestDrawImageToRectIssuesOneBlit(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()

	require.NoError(t, ds.DrawImageToRect(canvas.WrapBitmap(recording.NewBitmap(64, 64, 96)), canvas.NewRect(0, 0, 128, 128)))

	// BeginDraw, SetTextAntialiasMode and the blit.
	require.Len(t, rec.Commands(), 3)
	assert.Equal(t, 1, rec.Count(recording.CmdDrawBitmap))
	cmd := rec.Last(recording.CmdDrawBitmap).(recording.DrawBitmapCommand)
	assert.Equal(t, canvas.RectF{Right: 128, Bottom: 128}, cmd.Dest)
	assert.Equal(t, canvas.Identity(), rec.Transform())
}

func TestDrawImageOpaqueEffectPathHasNoOpacityEffect(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()

	opts := canvas.DefaultDrawImageOptions()
	opts.Interpolation = canvas.InterpolationCubic
	require.NoError(t, ds.DrawImageEx(canvas.WrapBitmap(recording.NewBitmap(8, 8, 96)), opts))

	assert.Zero(t, rec.Count(recording.CmdCreateEffect))
	assert.Zero(t, rec.Count(recording.CmdDrawBitmap))
	cmd := rec.Last(recording.CmdDrawImage).(recording.DrawImageCommand)
	assert.IsType(t, &recording.Bitmap{}, cmd.Image)
	assert.Equal(t, canvas.CompositeSourceOver, cmd.Composite)
	assert.Equal(t, canvas.InterpolationCubic, cmd.Interpolation)
}

func TestDrawImageOpacityEffect(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()
	bmp := recording.NewBitmap(8, 8, 96)

	opts := canvas.DefaultDrawImageOptions()
	opts.Interpolation = canvas.InterpolationCubic
	opts.Opacity = 0.25
	require.NoError(t, ds.DrawImageEx(canvas.WrapBitmap(bmp), opts))

	assert.Equal(t, 1, rec.Count(recording.CmdCreateEffect))
	assert.Equal(t, 1, rec.Count(recording.CmdSetDpiCompensatedEffectInput))
	cmd := rec.Last(recording.CmdDrawImage).(recording.DrawImageCommand)
	fx, ok := cmd.Image.(*recording.Effect)
	require.True(t, ok)
	assert.Equal(t, canvas.EffectColorMatrix, fx.Kind())
	assert.Equal(t, canvas.OpacityColorMatrix(0.25), fx.Matrix)
	require.Len(t, fx.Inputs, 1)
	assert.Same(t, bmp, fx.Inputs[0].Image)
	assert.True(t, fx.Inputs[0].DpiCompensated)
}

func TestDrawImageSourceRectAddsBorder(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()

	opts := canvas.DefaultDrawImageOptions()
	opts.Interpolation = canvas.InterpolationAnisotropic
	opts.Opacity = 0.5
	opts.SourceRect = &canvas.Rect{X: -4, Y: 2, Width: 100, Height: 4}
	require.NoError(t, ds.DrawImageEx(canvas.WrapBitmap(recording.NewBitmap(16, 16, 96)), opts))

	assert.Equal(t, 2, rec.Count(recording.CmdCreateEffect))
	cmd := rec.Last(recording.CmdDrawImage).(recording.DrawImageCommand)
	opacity := cmd.Image.(*recording.Effect)
	assert.Equal(t, canvas.EffectColorMatrix, opacity.Kind())
	border, ok := opacity.Inputs[0].Image.(*recording.Effect)
	require.True(t, ok, "opacity wraps the border effect")
	assert.Equal(t, canvas.EffectBorder, border.Kind())
	assert.False(t, opacity.Inputs[0].DpiCompensated)

	require.NotNil(t, cmd.Source)
	assert.Equal(t, canvas.RectF{Left: 0, Top: 2, Right: 16, Bottom: 6}, *cmd.Source, "source is clamped to the bitmap")
}

func TestDrawImageGenericImage(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()

	fx, err := rec.CreateEffect(canvas.EffectColorMatrix)
	require.NoError(t, err)
	fx.SetInput(0, recording.NewBitmap(4, 4, 96))

	opts := canvas.DefaultDrawImageOptions()
	opts.Offset = canvas.Vec2(3, 4)
	opts.Composite = canvas.Composite(canvas.CompositeXor)
	require.NoError(t, ds.DrawImageEx(canvas.WrapImage(fx.Output()), opts))

	assert.Zero(t, rec.Count(recording.CmdDrawBitmap))
	cmd := rec.Last(recording.CmdDrawImage).(recording.DrawImageCommand)
	assert.Equal(t, canvas.Vector2{X: 3, Y: 4}, cmd.Offset)
	assert.Equal(t, canvas.CompositeXor, cmd.Composite)
	assert.Same(t, fx, cmd.Image)
}

func TestDrawImageToRectEffectPath(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()
	require.NoError(t, ds.SetTransform(canvas.Translation(100, 0)))

	opts := canvas.DefaultDrawImageOptions()
	opts.Interpolation = canvas.InterpolationHighQualityCubic
	opts.DestRect = &canvas.Rect{X: 10, Y: 20, Width: 128, Height: 64}
	require.NoError(t, ds.DrawImageEx(canvas.WrapBitmap(recording.NewBitmap(64, 64, 96)), opts))

	cmd := rec.Last(recording.CmdDrawImage).(recording.DrawImageCommand)
	assert.Equal(t, canvas.Vector2{}, cmd.Offset)
	require.NotNil(t, cmd.Source)
	assert.Equal(t, canvas.RectF{Right: 64, Bottom: 64}, *cmd.Source)
	want := canvas.Scaling(2, 1).Multiply(canvas.Translation(10, 20)).Multiply(canvas.Translation(100, 0))
	assert.Equal(t, want, cmd.Transform)
	assert.Equal(t, canvas.Translation(100, 0), rec.Transform(), "transform is restored")
}

func TestDrawImageToRectRestoresTransformOnFailure(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()
	rec.FailOn(recording.CmdDrawImage, errBoom)

	opts := canvas.DefaultDrawImageOptions()
	opts.Interpolation = canvas.InterpolationCubic
	opts.DestRect = &canvas.Rect{Width: 128, Height: 128}
	err := ds.DrawImageEx(canvas.WrapBitmap(recording.NewBitmap(64, 64, 96)), opts)

	require.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, err, canvas.ErrBackend)
	assert.Equal(t, canvas.Scaling(2, 2), rec.Last(recording.CmdDrawImage).(recording.DrawImageCommand).Transform)
	assert.Equal(t, canvas.Identity(), rec.Transform())
}

func TestDrawImageDegenerateSourceRectDrawsNothing(t *testing.T) {
	for _, interp := range []canvas.Interpolation{canvas.InterpolationLinear, canvas.InterpolationCubic} {
		t.Run(interp.String(), func(t *testing.T) {
			ds, rec := newSession(t, 96)
			defer ds.Close()

			opts := canvas.DefaultDrawImageOptions()
			opts.Interpolation = interp
			opts.Opacity = 0.5
			opts.DestRect = &canvas.Rect{Width: 10, Height: 10}
			opts.SourceRect = &canvas.Rect{X: 1, Y: 1, Width: 0, Height: 5}
			require.NoError(t, ds.DrawImageEx(canvas.WrapBitmap(recording.NewBitmap(8, 8, 96)), opts))

			assert.Zero(t, rec.Count(recording.CmdDrawImage))
			assert.Zero(t, rec.Count(recording.CmdDrawBitmap))
			assert.Zero(t, rec.Count(recording.CmdCreateEffect))
			assert.Zero(t, rec.Count(recording.CmdSetTransform))
		})
	}
}

func TestDrawImageNegativeSourceRectStillDraws(t *testing.T) {
	tests := []struct {
		interp canvas.Interpolation
		cmd    recording.CommandType
	}{
		{canvas.InterpolationLinear, recording.CmdDrawBitmap},
		{canvas.InterpolationCubic, recording.CmdDrawImage},
	}
	for _, tt := range tests {
		t.Run(tt.interp.String(), func(t *testing.T) {
			ds, rec := newSession(t, 96)
			defer ds.Close()

			opts := canvas.DefaultDrawImageOptions()
			opts.Interpolation = tt.interp
			opts.DestRect = &canvas.Rect{Width: 10, Height: 10}
			opts.SourceRect = &canvas.Rect{X: 6, Width: -4, Height: 5}
			require.NoError(t, ds.DrawImageEx(canvas.WrapBitmap(recording.NewBitmap(8, 8, 96)), opts))

			assert.Equal(t, 1, rec.Count(tt.cmd))
		})
	}
}

func TestDrawImageBlendMapping(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()
	require.NoError(t, ds.SetBlend(canvas.BlendAdd))

	opts := canvas.DefaultDrawImageOptions()
	opts.Interpolation = canvas.InterpolationCubic
	require.NoError(t, ds.DrawImageEx(canvas.WrapBitmap(recording.NewBitmap(4, 4, 96)), opts))
	assert.Equal(t, canvas.CompositeAdd, rec.Last(recording.CmdDrawImage).(recording.DrawImageCommand).Composite)
	assert.Equal(t, canvas.BlendAdd, rec.PrimitiveBlend(), "the primitive blend is never changed")
}

func TestDrawImageMinBlend(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()
	require.NoError(t, ds.SetBlend(canvas.BlendMin))
	bmp := canvas.WrapBitmap(recording.NewBitmap(4, 4, 96))

	err := ds.DrawImage(bmp)
	assert.ErrorIs(t, err, canvas.ErrMinBlendNotSupported)
	assert.ErrorIs(t, err, canvas.ErrUnsupported)
	assert.Zero(t, rec.Count(recording.CmdDrawImage))
	assert.Zero(t, rec.Count(recording.CmdDrawBitmap))

	opts := canvas.DefaultDrawImageOptions()
	opts.Opacity = 0.5
	opts.Composite = canvas.Composite(canvas.CompositeSourceOver)
	require.NoError(t, ds.DrawImageEx(bmp, opts))
	assert.Equal(t, 1, rec.Count(recording.CmdDrawImage))
	assert.Equal(t, 1, rec.Count(recording.CmdCreateEffect))
}

func TestDrawImageNil(t *testing.T) {
	ds, _ := newSession(t, 96)
	defer ds.Close()

	assert.ErrorIs(t, ds.DrawImage(nil), canvas.ErrInvalidArgument)
	assert.ErrorIs(t, ds.DrawBitmapEx(nil, canvas.DefaultDrawBitmapOptions()), canvas.ErrInvalidArgument)
}

func TestDrawBitmapExPerspective(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()

	p := canvas.Identity4x4()
	p[0][3] = 0.001
	opts := canvas.DefaultDrawBitmapOptions()
	opts.Interpolation = canvas.InterpolationHighQualityCubic
	opts.Perspective = &p
	require.NoError(t, ds.DrawBitmapEx(canvas.WrapBitmap(recording.NewBitmap(4, 4, 96)), opts))

	cmd := rec.Last(recording.CmdDrawBitmap).(recording.DrawBitmapCommand)
	require.NotNil(t, cmd.Perspective)
	assert.Equal(t, p, *cmd.Perspective)
	assert.Equal(t, canvas.InterpolationHighQualityCubic, cmd.Interpolation, "blits pass any interpolation through")
}
