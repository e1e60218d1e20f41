// Package composite implements per-pixel compositing operators on
// premultiplied 8-bit RGBA.
//
// The Porter-Duff operators follow "Compositing Digital Images" (1984).
// Min and Max are the channel-wise primitive blends, and MaskInvert inverts
// the destination color by the source alpha.
package composite

// Op is a compositing operator.
type Op uint8

const (
	SourceOver      Op = iota // S + D*(1-Sa)
	DestinationOver           // S*(1-Da) + D
	SourceIn                  // S*Da
	DestinationIn             // D*Sa
	SourceOut                 // S*(1-Da)
	DestinationOut            // D*(1-Sa)
	SourceAtop                // S*Da + D*(1-Sa)
	DestinationAtop           // S*(1-Da) + D*Sa
	Xor                       // S*(1-Da) + D*(1-Sa)
	Plus                      // min(S+D, 1)
	Copy                      // S
	Min                       // min(S, D) per channel
	Max                       // max(S, D) per channel
	MaskInvert                // (Da-Dc)*Sa + Dc*(1-Sa), alpha Da
)

var opNames = [...]string{
	SourceOver:      "SourceOver",
	DestinationOver: "DestinationOver",
	SourceIn:        "SourceIn",
	DestinationIn:   "DestinationIn",
	SourceOut:       "SourceOut",
	DestinationOut:  "DestinationOut",
	SourceAtop:      "SourceAtop",
	DestinationAtop: "DestinationAtop",
	Xor:             "Xor",
	Plus:            "Plus",
	Copy:            "Copy",
	Min:             "Min",
	Max:             "Max",
	MaskInvert:      "MaskInvert",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "Unknown"
}

// Func combines a premultiplied source pixel with a premultiplied
// destination pixel.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// FuncFor returns the function for op. Unknown operators fall back to
// SourceOver.
func FuncFor(op Op) Func {
	switch op {
	case DestinationOver:
		return destinationOver
	case SourceIn:
		return sourceIn
	case DestinationIn:
		return destinationIn
	case SourceOut:
		return sourceOut
	case DestinationOut:
		return destinationOut
	case SourceAtop:
		return sourceAtop
	case DestinationAtop:
		return destinationAtop
	case Xor:
		return xor
	case Plus:
		return plus
	case Copy:
		return source
	case Min:
		return minBlend
	case Max:
		return maxBlend
	case MaskInvert:
		return maskInvert
	default:
		return sourceOver
	}
}

func sourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addClamp(sr, mulDiv255(dr, invSa)),
		addClamp(sg, mulDiv255(dg, invSa)),
		addClamp(sb, mulDiv255(db, invSa)),
		addClamp(sa, mulDiv255(da, invSa))
}

func destinationOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return sourceOver(dr, dg, db, da, sr, sg, sb, sa)
}

func sourceIn(sr, sg, sb, sa, _, _, _, da byte) (byte, byte, byte, byte) {
	return mulDiv255(sr, da), mulDiv255(sg, da), mulDiv255(sb, da), mulDiv255(sa, da)
}

func destinationIn(_, _, _, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(dr, sa), mulDiv255(dg, sa), mulDiv255(db, sa), mulDiv255(da, sa)
}

func sourceOut(sr, sg, sb, sa, _, _, _, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	return mulDiv255(sr, invDa), mulDiv255(sg, invDa), mulDiv255(sb, invDa), mulDiv255(sa, invDa)
}

func destinationOut(_, _, _, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return mulDiv255(dr, invSa), mulDiv255(dg, invSa), mulDiv255(db, invSa), mulDiv255(da, invSa)
}

func sourceAtop(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addClamp(mulDiv255(sr, da), mulDiv255(dr, invSa)),
		addClamp(mulDiv255(sg, da), mulDiv255(dg, invSa)),
		addClamp(mulDiv255(sb, da), mulDiv255(db, invSa)),
		da
}

func destinationAtop(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	return addClamp(mulDiv255(sr, invDa), mulDiv255(dr, sa)),
		addClamp(mulDiv255(sg, invDa), mulDiv255(dg, sa)),
		addClamp(mulDiv255(sb, invDa), mulDiv255(db, sa)),
		sa
}

func xor(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	invSa := 255 - sa
	return addClamp(mulDiv255(sr, invDa), mulDiv255(dr, invSa)),
		addClamp(mulDiv255(sg, invDa), mulDiv255(dg, invSa)),
		addClamp(mulDiv255(sb, invDa), mulDiv255(db, invSa)),
		addClamp(mulDiv255(sa, invDa), mulDiv255(da, invSa))
}

func plus(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return addClamp(sr, dr), addClamp(sg, dg), addClamp(sb, db), addClamp(sa, da)
}

func source(sr, sg, sb, sa, _, _, _, _ byte) (byte, byte, byte, byte) {
	return sr, sg, sb, sa
}

func minBlend(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return min(sr, dr), min(sg, dg), min(sb, db), min(sa, da)
}

func maxBlend(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return max(sr, dr), max(sg, dg), max(sb, db), max(sa, da)
}

func maskInvert(_, _, _, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	inv := func(dc byte) byte {
		return addClamp(mulDiv255(da-min(dc, da), sa), mulDiv255(dc, invSa))
	}
	return inv(dr), inv(dg), inv(db), da
}

// mulDiv255 multiplies two bytes and divides by 255 with rounding.
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// Lerp mixes the result of an operator back into the destination by
// coverage, so partially covered pixels only partially take the result.
func Lerp(dr, dg, db, da, rr, rg, rb, ra, coverage byte) (byte, byte, byte, byte) {
	if coverage == 255 {
		return rr, rg, rb, ra
	}
	if coverage == 0 {
		return dr, dg, db, da
	}
	inv := 255 - coverage
	return addClamp(mulDiv255(rr, coverage), mulDiv255(dr, inv)),
		addClamp(mulDiv255(rg, coverage), mulDiv255(dg, inv)),
		addClamp(mulDiv255(rb, coverage), mulDiv255(db, inv)),
		addClamp(mulDiv255(ra, coverage), mulDiv255(da, inv))
}
