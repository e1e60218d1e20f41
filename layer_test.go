package canvas_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/recording"
)

func TestLayersCloseInReverseOrder(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()

	a, err := ds.CreateLayer(0.5)
	require.NoError(t, err)
	b, err := ds.CreateLayer(0.5)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())

	assert.ErrorIs(t, a.Close(), canvas.ErrPoppedWrongLayer)
	assert.Equal(t, 2, ds.OpenLayers(), "a failed close leaves the layer open")
	assert.Zero(t, rec.Count(recording.CmdPopLayer))

	require.NoError(t, b.Close())
	require.NoError(t, a.Close())
	assert.Zero(t, ds.OpenLayers())
	assert.Equal(t, 2, rec.Count(recording.CmdPopLayer))

	assert.NoError(t, a.Close(), "closing twice is a no-op")
	assert.Equal(t, 2, rec.Count(recording.CmdPopLayer))
}

func TestLayerIDsAreNotReused(t *testing.T) {
	ds, _ := newSession(t, 96)
	defer ds.Close()

	a, err := ds.CreateLayer(1)
	require.NoError(t, err)
	require.NoError(t, a.Close())
	b, err := ds.CreateLayer(1)
	require.NoError(t, err)
	defer b.Close()

	assert.Greater(t, b.ID(), a.ID())
}

func TestCreateLayerClassification(t *testing.T) {
	clip := canvas.NewRect(1, 2, 3, 4)
	rotation := canvas.Matrix3x2{M11: 0, M12: 1, M21: -1, M22: 0}

	tests := []struct {
		name      string
		transform canvas.Matrix3x2
		opts      canvas.CreateLayerOptions
		wantClip  bool
	}{
		{"opaque clip rect", canvas.Identity(), canvas.CreateLayerOptions{Opacity: 1, ClipRect: &clip}, true},
		{"scaled clip rect", canvas.Scaling(2, 3), canvas.CreateLayerOptions{Opacity: 1, ClipRect: &clip}, true},
		{"rotated clip rect", rotation, canvas.CreateLayerOptions{Opacity: 1, ClipRect: &clip}, false},
		{"translucent clip rect", canvas.Identity(), canvas.CreateLayerOptions{Opacity: 0.5, ClipRect: &clip}, false},
		{"clip rect with options", canvas.Identity(), canvas.CreateLayerOptions{Opacity: 1, ClipRect: &clip, Options: canvas.LayerOptionsIgnoreAlpha}, false},
		{"no clip rect", canvas.Identity(), canvas.CreateLayerOptions{Opacity: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, rec := newSession(t, 96)
			defer ds.Close()
			require.NoError(t, ds.SetTransform(tt.transform))

			layer, err := ds.CreateLayerEx(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClip, layer.IsAxisAlignedClip())
			require.NoError(t, layer.Close())

			if tt.wantClip {
				assert.Equal(t, 1, rec.Count(recording.CmdPushAxisAlignedClip))
				assert.Equal(t, 1, rec.Count(recording.CmdPopAxisAlignedClip))
				assert.Zero(t, rec.Count(recording.CmdPushLayer))
				cmd := rec.Last(recording.CmdPushAxisAlignedClip).(recording.PushAxisAlignedClipCommand)
				assert.Equal(t, clip.Bounds(), cmd.Clip)
			} else {
				assert.Equal(t, 1, rec.Count(recording.CmdPushLayer))
				assert.Equal(t, 1, rec.Count(recording.CmdPopLayer))
				assert.Zero(t, rec.Count(recording.CmdPushAxisAlignedClip))
			}
		})
	}
}

func TestCreateLayerParameters(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()

	brush, err := rec.CreateSolidColorBrush(gputypes.Color{A: 0.5})
	require.NoError(t, err)
	geometryTransform := canvas.Translation(3, 3)
	geometry := "mask"

	layer, err := ds.CreateLayerEx(canvas.CreateLayerOptions{
		Opacity:           0.25,
		OpacityBrush:      canvas.WrapBrush(brush),
		ClipGeometry:      canvas.WrapGeometry(geometry),
		GeometryTransform: &geometryTransform,
		Options:           canvas.LayerOptionsInitializeFromBack,
	})
	require.NoError(t, err)
	defer layer.Close()

	p := rec.Last(recording.CmdPushLayer).(recording.PushLayerCommand).Params
	assert.Equal(t, canvas.InfiniteRect(), p.ContentBounds)
	assert.Equal(t, float32(0.25), p.Opacity)
	assert.Same(t, brush, p.OpacityBrush)
	assert.Equal(t, geometry, p.GeometricMask)
	assert.Equal(t, geometryTransform, p.MaskTransform)
	assert.Equal(t, canvas.LayerOptionsInitializeFromBack, p.Options)
}

func TestCreateLayerShortForms(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()

	l, err := ds.CreateLayerWithClipRect(1, canvas.NewRect(0, 0, 5, 5))
	require.NoError(t, err)
	assert.True(t, l.IsAxisAlignedClip())
	require.NoError(t, l.Close())

	brush, err := rec.CreateSolidColorBrush(gputypes.Color{A: 1})
	require.NoError(t, err)
	l, err = ds.CreateLayerWithBrush(canvas.WrapBrush(brush))
	require.NoError(t, err)
	assert.False(t, l.IsAxisAlignedClip())
	require.NoError(t, l.Close())

	l, err = ds.CreateLayerWithGeometry(0.5, canvas.WrapGeometry("g"))
	require.NoError(t, err)
	p := rec.Last(recording.CmdPushLayer).(recording.PushLayerCommand).Params
	assert.Equal(t, "g", p.GeometricMask)
	assert.Equal(t, canvas.Identity(), p.MaskTransform)
	require.NoError(t, l.Close())
}

func TestCreateLayerBackendFailure(t *testing.T) {
	ds, rec := newSession(t, 96)
	defer ds.Close()
	rec.FailOn(recording.CmdPushLayer, errBoom)

	layer, err := ds.CreateLayer(0.5)
	assert.Nil(t, layer)
	assert.ErrorIs(t, err, canvas.ErrBackend)
	assert.ErrorIs(t, err, errBoom)
	assert.Zero(t, ds.OpenLayers())
}

// openLayerOnDroppedSession pushes a layer and lets the session go out of
// scope, keeping only the layer.
func openLayerOnDroppedSession(t *testing.T) (*canvas.ActiveLayer, *recording.Recorder) {
	t.Helper()
	ds, rec := newSession(t, 96)
	layer, err := ds.CreateLayer(0.5)
	require.NoError(t, err)
	return layer, rec
}

func TestLayerCloseAfterSessionCollected(t *testing.T) {
	layer, rec := openLayerOnDroppedSession(t)

	// The finalizer closes the session, which ends drawing.
	require.Eventually(t, func() bool {
		runtime.GC()
		return rec.Count(recording.CmdEndDraw) == 1
	}, 5*time.Second, 10*time.Millisecond)

	assert.NoError(t, layer.Close())
	assert.Zero(t, rec.Count(recording.CmdPopLayer))
	assert.Equal(t, 1, rec.Count(recording.CmdEndDraw))
	assert.NoError(t, layer.Close())
}
