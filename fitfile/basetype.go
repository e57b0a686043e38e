package fitfile

// FIT base types. Bit 5 of the wire code marks types with an invalid
// sentinel; only the low five bits select the type, so 0x84 and 0x04 are
// both uint16.
type baseType uint8

const (
	baseEnum    baseType = 0x00
	baseSint8   baseType = 0x01
	baseUint8   baseType = 0x02
	baseSint16  baseType = 0x03
	baseUint16  baseType = 0x04
	baseSint32  baseType = 0x05
	baseUint32  baseType = 0x06
	baseString  baseType = 0x07
	baseFloat32 baseType = 0x08
	baseFloat64 baseType = 0x09
	baseUint8z  baseType = 0x0A
	baseUint16z baseType = 0x0B
	baseUint32z baseType = 0x0C
	baseByte    baseType = 0x0D
)

type baseSpec struct {
	name     string
	size     int
	signed   bool
	floating bool
	isString bool
}

var baseSpecs = map[baseType]baseSpec{
	baseEnum:    {name: "enum", size: 1},
	baseSint8:   {name: "sint8", size: 1, signed: true},
	baseUint8:   {name: "uint8", size: 1},
	baseSint16:  {name: "sint16", size: 2, signed: true},
	baseUint16:  {name: "uint16", size: 2},
	baseSint32:  {name: "sint32", size: 4, signed: true},
	baseUint32:  {name: "uint32", size: 4},
	baseString:  {name: "string", size: 1, isString: true},
	baseFloat32: {name: "float32", size: 4, signed: true, floating: true},
	baseFloat64: {name: "float64", size: 8, signed: true, floating: true},
	baseUint8z:  {name: "uint8z", size: 1},
	baseUint16z: {name: "uint16z", size: 2},
	baseUint32z: {name: "uint32z", size: 4},
	baseByte:    {name: "byte", size: 1},
}

// lookupBase resolves a wire base-type code. Codes outside the table fall
// back to single unsigned bytes so unrecognized types still consume their
// declared size instead of failing the record.
func lookupBase(raw uint8) baseSpec {
	if spec, ok := baseSpecs[baseType(raw&0x1F)]; ok {
		return spec
	}
	return baseSpec{name: "unknown", size: 1}
}
