package canvas

// Internal helpers exposed to the external test package.
var (
	CanUseBitmapPath     = canUseBitmapPath
	ResolveCompositeMode = resolveCompositeMode
	LogicalTransform     = logicalTransform
	DeviceTransform      = deviceTransform
	OffsetInDeviceUnits  = offsetInDeviceUnits
)
