package recording

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/canvas"
)

// CommandType identifies the type of a command. Each command type
// corresponds to one canvas.DeviceContext call.
type CommandType uint8

const (
	// Lifecycle commands
	CmdBeginDraw CommandType = iota // Begin drawing
	CmdEndDraw                      // End drawing
	CmdFlush                        // Flush pending drawing
	CmdClear                        // Clear the target

	// Drawing commands
	CmdDrawBitmap // Blit a bitmap with the primitive blend
	CmdDrawImage  // Composite an image with an explicit mode

	// Layer commands
	CmdPushLayer           // Push a full layer
	CmdPopLayer            // Pop a full layer
	CmdPushAxisAlignedClip // Push an axis aligned clip
	CmdPopAxisAlignedClip  // Pop an axis aligned clip

	// State commands
	CmdSetTransform         // Set the transform
	CmdSetUnitMode          // Set the unit mode
	CmdSetAntialiasMode     // Set the geometry antialias mode
	CmdSetTextAntialiasMode // Set the text antialias mode
	CmdSetPrimitiveBlend    // Set the primitive blend
	CmdSetRenderingControls // Set effect rendering controls
	CmdSaveDrawingState     // Snapshot state into a block
	CmdRestoreDrawingState  // Restore state from a block

	// Resource commands
	CmdCreateEffect                 // Create an effect
	CmdSetDpiCompensatedEffectInput // Bind a bitmap to an effect input
	CmdCreateSolidColorBrush        // Create a solid color brush
	CmdCreateBitmap                 // Create a bitmap
	CmdCreateDrawingStateBlock      // Create a drawing state block
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdBeginDraw:                    "BeginDraw",
	CmdEndDraw:                      "EndDraw",
	CmdFlush:                        "Flush",
	CmdClear:                        "Clear",
	CmdDrawBitmap:                   "DrawBitmap",
	CmdDrawImage:                    "DrawImage",
	CmdPushLayer:                    "PushLayer",
	CmdPopLayer:                     "PopLayer",
	CmdPushAxisAlignedClip:          "PushAxisAlignedClip",
	CmdPopAxisAlignedClip:           "PopAxisAlignedClip",
	CmdSetTransform:                 "SetTransform",
	CmdSetUnitMode:                  "SetUnitMode",
	CmdSetAntialiasMode:             "SetAntialiasMode",
	CmdSetTextAntialiasMode:         "SetTextAntialiasMode",
	CmdSetPrimitiveBlend:            "SetPrimitiveBlend",
	CmdSetRenderingControls:         "SetRenderingControls",
	CmdSaveDrawingState:             "SaveDrawingState",
	CmdRestoreDrawingState:          "RestoreDrawingState",
	CmdCreateEffect:                 "CreateEffect",
	CmdSetDpiCompensatedEffectInput: "SetDpiCompensatedEffectInput",
	CmdCreateSolidColorBrush:        "CreateSolidColorBrush",
	CmdCreateBitmap:                 "CreateBitmap",
	CmdCreateDrawingStateBlock:      "CreateDrawingStateBlock",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// --------------------------------------------------------------------------
// Lifecycle Commands
// --------------------------------------------------------------------------

// BeginDrawCommand begins drawing.
type BeginDrawCommand struct{}

// Type implements Command.
func (BeginDrawCommand) Type() CommandType { return CmdBeginDraw }

// EndDrawCommand ends drawing.
type EndDrawCommand struct{}

// Type implements Command.
func (EndDrawCommand) Type() CommandType { return CmdEndDraw }

// FlushCommand flushes pending drawing.
type FlushCommand struct{}

// Type implements Command.
func (FlushCommand) Type() CommandType { return CmdFlush }

// ClearCommand fills the target with a color.
type ClearCommand struct {
	Color gputypes.Color
}

// Type implements Command.
func (ClearCommand) Type() CommandType { return CmdClear }

// --------------------------------------------------------------------------
// Drawing Commands
// --------------------------------------------------------------------------

// DrawBitmapCommand blits a bitmap. Source and Perspective are nil when
// not given.
type DrawBitmapCommand struct {
	Bitmap        canvas.Bitmap
	Dest          canvas.RectF
	Opacity       float32
	Interpolation canvas.Interpolation
	Source        *canvas.RectF
	Perspective   *canvas.Matrix4x4

	// Transform is the context transform when the command was issued.
	Transform canvas.Matrix3x2
}

// Type implements Command.
func (DrawBitmapCommand) Type() CommandType { return CmdDrawBitmap }

// DrawImageCommand composites an image. Source is nil when not given.
type DrawImageCommand struct {
	Image         canvas.Image
	Offset        canvas.Vector2
	Source        *canvas.RectF
	Interpolation canvas.Interpolation
	Composite     canvas.CompositeMode

	// Transform is the context transform when the command was issued.
	Transform canvas.Matrix3x2
}

// Type implements Command.
func (DrawImageCommand) Type() CommandType { return CmdDrawImage }

// --------------------------------------------------------------------------
// Layer Commands
// --------------------------------------------------------------------------

// PushLayerCommand pushes a full layer.
type PushLayerCommand struct {
	Params canvas.LayerParameters
}

// Type implements Command.
func (PushLayerCommand) Type() CommandType { return CmdPushLayer }

// PopLayerCommand pops a full layer.
type PopLayerCommand struct{}

// Type implements Command.
func (PopLayerCommand) Type() CommandType { return CmdPopLayer }

// PushAxisAlignedClipCommand pushes an axis aligned clip.
type PushAxisAlignedClipCommand struct {
	Clip      canvas.RectF
	Antialias canvas.AntialiasMode
}

// Type implements Command.
func (PushAxisAlignedClipCommand) Type() CommandType { return CmdPushAxisAlignedClip }

// PopAxisAlignedClipCommand pops an axis aligned clip.
type PopAxisAlignedClipCommand struct{}

// Type implements Command.
func (PopAxisAlignedClipCommand) Type() CommandType { return CmdPopAxisAlignedClip }

// --------------------------------------------------------------------------
// State Commands
// --------------------------------------------------------------------------

// SetTransformCommand sets the transform.
type SetTransformCommand struct {
	Matrix canvas.Matrix3x2
}

// Type implements Command.
func (SetTransformCommand) Type() CommandType { return CmdSetTransform }

// SetUnitModeCommand sets the unit mode.
type SetUnitModeCommand struct {
	Units canvas.Units
}

// Type implements Command.
func (SetUnitModeCommand) Type() CommandType { return CmdSetUnitMode }

// SetAntialiasModeCommand sets the geometry antialias mode.
type SetAntialiasModeCommand struct {
	Mode canvas.AntialiasMode
}

// Type implements Command.
func (SetAntialiasModeCommand) Type() CommandType { return CmdSetAntialiasMode }

// SetTextAntialiasModeCommand sets the text antialias mode.
type SetTextAntialiasModeCommand struct {
	Mode canvas.TextAntialiasMode
}

// Type implements Command.
func (SetTextAntialiasModeCommand) Type() CommandType { return CmdSetTextAntialiasMode }

// SetPrimitiveBlendCommand sets the primitive blend.
type SetPrimitiveBlendCommand struct {
	Blend canvas.PrimitiveBlend
}

// Type implements Command.
func (SetPrimitiveBlendCommand) Type() CommandType { return CmdSetPrimitiveBlend }

// SetRenderingControlsCommand sets effect rendering controls.
type SetRenderingControlsCommand struct {
	Controls canvas.RenderingControls
}

// Type implements Command.
func (SetRenderingControlsCommand) Type() CommandType { return CmdSetRenderingControls }

// SaveDrawingStateCommand snapshots state into a block.
type SaveDrawingStateCommand struct {
	Block canvas.DrawingStateBlock
}

// Type implements Command.
func (SaveDrawingStateCommand) Type() CommandType { return CmdSaveDrawingState }

// RestoreDrawingStateCommand restores state from a block.
type RestoreDrawingStateCommand struct {
	Block canvas.DrawingStateBlock
}

// Type implements Command.
func (RestoreDrawingStateCommand) Type() CommandType { return CmdRestoreDrawingState }

// --------------------------------------------------------------------------
// Resource Commands
// --------------------------------------------------------------------------

// CreateEffectCommand creates an effect.
type CreateEffectCommand struct {
	Kind   canvas.EffectKind
	Effect *Effect
}

// Type implements Command.
func (CreateEffectCommand) Type() CommandType { return CmdCreateEffect }

// SetDpiCompensatedEffectInputCommand binds a bitmap to an effect input
// through DPI compensation.
type SetDpiCompensatedEffectInputCommand struct {
	Effect canvas.Effect
	Index  int
	Bitmap canvas.Bitmap
}

// Type implements Command.
func (SetDpiCompensatedEffectInputCommand) Type() CommandType {
	return CmdSetDpiCompensatedEffectInput
}

// CreateSolidColorBrushCommand creates a solid color brush.
type CreateSolidColorBrushCommand struct {
	Color gputypes.Color
}

// Type implements Command.
func (CreateSolidColorBrushCommand) Type() CommandType { return CmdCreateSolidColorBrush }

// CreateBitmapCommand creates a bitmap.
type CreateBitmapCommand struct {
	Bitmap *Bitmap
}

// Type implements Command.
func (CreateBitmapCommand) Type() CommandType { return CmdCreateBitmap }

// CreateDrawingStateBlockCommand creates a drawing state block.
type CreateDrawingStateBlockCommand struct{}

// Type implements Command.
func (CreateDrawingStateBlockCommand) Type() CommandType { return CmdCreateDrawingStateBlock }
