package bmsad

// Envelope constants. Both are checked exactly; a mismatch aborts the
// decode.
const (
	// Magic is the 4-byte tag opening every resource.
	Magic = "MSAD"

	// Version is the only format revision this codec understands.
	Version uint32 = 0x0200000F
)

// Definition type strings, matched exactly against the envelope type field.
const (
	TypeCharClass = "CharClass"
	TypeActorDef  = "ActorDef"
)

// CharClassMagic is the constant separating the CharClass header from its
// trailing fields. Checked the moment it is read, before anything after it.
const CharClassMagic uint32 = 0xFFFFFFFF
