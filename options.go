package canvas

// SessionOption configures a DrawingSession during creation.
//
// Example:
//
//	ds := canvas.NewDrawingSession(dc,
//	    canvas.WithAdapter(canvas.NewSimpleAdapter(dc)),
//	    canvas.WithOffset(canvas.Vec2(10, 10)))
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	adapter    DrawingSessionAdapter
	owner      Device
	activeFlag *ActiveSessionFlag
	offset     Vector2
	inkAdapter InkAdapter
	config     Config
}

func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		config: DefaultConfig(),
	}
}

// WithAdapter sets the begin/end draw adapter. Sessions without one use a
// no-op adapter, which suits contexts whose drawing is managed elsewhere.
func WithAdapter(a DrawingSessionAdapter) SessionOption {
	return func(o *sessionOptions) {
		o.adapter = a
	}
}

// WithOwner sets the device that owns the session. Without it the device is
// resolved from the context on first use.
func WithOwner(d Device) SessionOption {
	return func(o *sessionOptions) {
		o.owner = d
	}
}

// WithActiveFlag ties the session to a render target's active session flag.
// The flag is set when the session is created and cleared when it closes.
func WithActiveFlag(f *ActiveSessionFlag) SessionOption {
	return func(o *sessionOptions) {
		o.activeFlag = f
	}
}

// WithOffset sets a fixed offset, in DIPs, applied beneath the session's
// transform. Transform and SetTransform never expose it.
func WithOffset(offset Vector2) SessionOption {
	return func(o *sessionOptions) {
		o.offset = offset
	}
}

// WithInkAdapter sets the adapter that creates ink renderers and reports
// the high contrast setting. Defaults to NewInkAdapter(config.Ink).
func WithInkAdapter(a InkAdapter) SessionOption {
	return func(o *sessionOptions) {
		o.inkAdapter = a
	}
}

// WithConfig replaces the default session configuration.
func WithConfig(c Config) SessionOption {
	return func(o *sessionOptions) {
		o.config = c
	}
}
