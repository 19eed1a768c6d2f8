package bitlayout

// Kind identifies how a field's bit window is interpreted.
type Kind int

const (
	KindInvalid Kind = iota
	// KindBool is a single-bit flag.
	KindBool
	// KindUnsigned is an unsigned integer of the field's width.
	KindUnsigned
	// KindSigned is a two's-complement integer of the field's width.
	KindSigned
	// KindReserved is a bit range with no settable value; it reads as absent
	// and its bits stay zero.
	KindReserved
	// KindNested is a tagged sub-layout chosen by a sibling selector field.
	KindNested
)

var kindNames = map[Kind]string{
	KindBool:     "bool",
	KindUnsigned: "unsigned",
	KindSigned:   "signed",
	KindReserved: "reserved",
	KindNested:   "nested",
}

// String returns the wire name of the kind as used in layout descriptions.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}

// ParseKind maps a wire name from a layout description to its Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "bool":
		return KindBool, true
	case "unsigned":
		return KindUnsigned, true
	case "signed":
		return KindSigned, true
	case "reserved":
		return KindReserved, true
	case "nested":
		return KindNested, true
	default:
		return KindInvalid, false
	}
}

// IsScalar reports whether the kind carries a directly encoded value.
func (k Kind) IsScalar() bool {
	return k == KindBool || k == KindUnsigned || k == KindSigned
}
