package value

import "math"

// Family groups units that convert into each other.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyLength
	FamilyAngle
	FamilyTime
	FamilyFrequency
)

func (f Family) String() string {
	switch f {
	case FamilyLength:
		return "length"
	case FamilyAngle:
		return "angle"
	case FamilyTime:
		return "time"
	case FamilyFrequency:
		return "frequency"
	default:
		return "none"
	}
}

// scale expresses each convertible unit in its family base unit: inches,
// degrees, milliseconds and hertz.
var scale = map[Type]struct {
	family Family
	factor float64
}{
	In: {FamilyLength, 1},
	Cm: {FamilyLength, 1 / 2.54},
	Mm: {FamilyLength, 1 / 25.4},
	Pt: {FamilyLength, 1.0 / 72},
	Pc: {FamilyLength, 1.0 / 6},

	Deg:  {FamilyAngle, 1},
	Rad:  {FamilyAngle, 180 / math.Pi},
	Grad: {FamilyAngle, 360.0 / 400},

	Ms: {FamilyTime, 1},
	S:  {FamilyTime, 1000},

	Hz:  {FamilyFrequency, 1},
	KHz: {FamilyFrequency, 1000},
}

// FamilyOf returns the conversion family of t. Number, percentage, em, ex,
// px and generic dimensions belong to no family.
func FamilyOf(t Type) Family {
	if s, ok := scale[t]; ok {
		return s.family
	}
	return FamilyNone
}

// Convert converts magnitude f from unit from to unit to. Identical units
// always succeed; otherwise both units must share a family.
func Convert(f float64, from, to Type) (float64, error) {
	if from == to {
		return f, nil
	}
	src, ok := scale[from]
	if !ok {
		return 0, invalidAccess("", to.String(), "cannot convert from "+from.String())
	}
	dst, ok := scale[to]
	if !ok || dst.family != src.family {
		return 0, invalidAccess("", to.String(), "cannot convert "+src.family.String()+" unit "+from.String())
	}
	return f * src.factor / dst.factor, nil
}
