package recording

import (
	"errors"
	"fmt"

	"github.com/gogpu/canvas"
)

// Playback replays the recorded commands onto dc. Recorded bitmaps,
// effects, brushes and state blocks are recreated on dc the first time a
// command uses them; resource creation commands themselves are not
// replayed. Playback stops at the first failing call.
func (r *Recorder) Playback(dc canvas.DeviceContext) error {
	p := &player{
		dc:      dc,
		bitmaps: make(map[*Bitmap]canvas.Bitmap),
		effects: make(map[*Effect]canvas.Effect),
		blocks:  make(map[canvas.DrawingStateBlock]canvas.DrawingStateBlock),
	}
	for i, c := range r.commands {
		if err := p.play(c); err != nil {
			return fmt.Errorf("recording: playback of command %d (%v): %w", i, c.Type(), err)
		}
	}
	return nil
}

type player struct {
	dc      canvas.DeviceContext
	bitmaps map[*Bitmap]canvas.Bitmap
	effects map[*Effect]canvas.Effect
	blocks  map[canvas.DrawingStateBlock]canvas.DrawingStateBlock
}

var errNilImage = errors.New("recording: nil image")

func (p *player) play(c Command) error {
	switch cmd := c.(type) {
	case BeginDrawCommand:
		p.dc.BeginDraw()
	case EndDrawCommand:
		return p.dc.EndDraw()
	case FlushCommand:
		return p.dc.Flush()
	case ClearCommand:
		p.dc.Clear(cmd.Color)

	case DrawBitmapCommand:
		b, err := p.bitmap(cmd.Bitmap)
		if err != nil {
			return err
		}
		return p.dc.DrawBitmap(b, cmd.Dest, cmd.Opacity, cmd.Interpolation, cmd.Source, cmd.Perspective)
	case DrawImageCommand:
		img, err := p.image(cmd.Image)
		if err != nil {
			return err
		}
		return p.dc.DrawImage(img, cmd.Offset, cmd.Source, cmd.Interpolation, cmd.Composite)

	case PushLayerCommand:
		params := cmd.Params
		if b, ok := params.OpacityBrush.(*SolidBrush); ok {
			nb, err := p.dc.CreateSolidColorBrush(b.color)
			if err != nil {
				return err
			}
			params.OpacityBrush = nb
		}
		p.dc.PushLayer(params)
	case PopLayerCommand:
		p.dc.PopLayer()
	case PushAxisAlignedClipCommand:
		p.dc.PushAxisAlignedClip(cmd.Clip, cmd.Antialias)
	case PopAxisAlignedClipCommand:
		p.dc.PopAxisAlignedClip()

	case SetTransformCommand:
		p.dc.SetTransform(cmd.Matrix)
	case SetUnitModeCommand:
		p.dc.SetUnitMode(cmd.Units)
	case SetAntialiasModeCommand:
		p.dc.SetAntialiasMode(cmd.Mode)
	case SetTextAntialiasModeCommand:
		p.dc.SetTextAntialiasMode(cmd.Mode)
	case SetPrimitiveBlendCommand:
		p.dc.SetPrimitiveBlend(cmd.Blend)
	case SetRenderingControlsCommand:
		p.dc.SetRenderingControls(cmd.Controls)
	case SaveDrawingStateCommand:
		b, err := p.block(cmd.Block)
		if err != nil {
			return err
		}
		p.dc.SaveDrawingState(b)
	case RestoreDrawingStateCommand:
		b, err := p.block(cmd.Block)
		if err != nil {
			return err
		}
		p.dc.RestoreDrawingState(b)

	case CreateEffectCommand, SetDpiCompensatedEffectInputCommand,
		CreateSolidColorBrushCommand, CreateBitmapCommand, CreateDrawingStateBlockCommand:
		// Recreated lazily on first use.
	default:
		return fmt.Errorf("recording: unknown command %T", c)
	}
	return nil
}

func (p *player) bitmap(b canvas.Bitmap) (canvas.Bitmap, error) {
	rb, ok := b.(*Bitmap)
	if !ok {
		return b, nil
	}
	if nb, ok := p.bitmaps[rb]; ok {
		return nb, nil
	}
	nb, err := p.dc.CreateBitmap(rb.image(), rb.DpiValue)
	if err != nil {
		return nil, err
	}
	p.bitmaps[rb] = nb
	return nb, nil
}

func (p *player) image(img canvas.Image) (canvas.Image, error) {
	switch v := img.(type) {
	case nil:
		return nil, errNilImage
	case *Bitmap:
		return p.bitmap(v)
	case *Effect:
		fx, err := p.effect(v)
		if err != nil {
			return nil, err
		}
		return fx.Output(), nil
	default:
		return img, nil
	}
}

func (p *player) effect(e *Effect) (canvas.Effect, error) {
	if fx, ok := p.effects[e]; ok {
		return fx, nil
	}
	fx, err := p.dc.CreateEffect(e.kind)
	if err != nil {
		return nil, err
	}
	for i, in := range e.Inputs {
		if in.Image == nil {
			continue
		}
		if rb, ok := in.Image.(*Bitmap); ok && in.DpiCompensated {
			b, err := p.bitmap(rb)
			if err != nil {
				return nil, err
			}
			if err := p.dc.SetDpiCompensatedEffectInput(fx, i, b); err != nil {
				return nil, err
			}
			continue
		}
		img, err := p.image(in.Image)
		if err != nil {
			return nil, err
		}
		fx.SetInput(i, img)
	}
	if e.matrixSet {
		if err := fx.SetColorMatrix(e.Matrix); err != nil {
			return nil, err
		}
	}
	p.effects[e] = fx
	return fx, nil
}

func (p *player) block(b canvas.DrawingStateBlock) (canvas.DrawingStateBlock, error) {
	if nb, ok := p.blocks[b]; ok {
		return nb, nil
	}
	nb, err := p.dc.CreateDrawingStateBlock()
	if err != nil {
		return nil, err
	}
	p.blocks[b] = nb
	return nb, nil
}
