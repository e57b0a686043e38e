package fitfile

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	compressedHeaderMask       = 0x80
	compressedLocalMesgNumMask = 0x60
	mesgDefinitionMask         = 0x40
	localMesgNumMask           = 0x0F

	headerMinSize = 12
	fileSignature = ".FIT"

	// The local message type is a 4-bit code.
	maxLocalTypes = 16
)

// Header holds the fixed leading bytes of a FIT file. DataSize and
// ProfileVersion are always little-endian on the wire regardless of the
// per-message architecture declared later.
type Header struct {
	Size            uint8
	ProtocolVersion uint8
	ProfileVersion  uint16
	DataSize        uint32
	Signature       string
}

// File is the decoded form of one FIT byte buffer: the validated header,
// the routed message buckets, and any non-fatal warnings (CRC mismatches).
type File struct {
	Header   Header
	Messages MessageSet
	Warnings []string
}

type fieldDef struct {
	num  uint8
	size uint8
	base baseSpec
}

type definition struct {
	global uint16
	order  binary.ByteOrder
	fields []fieldDef
}

type decoder struct {
	data     []byte
	pos      int
	defs     [maxLocalTypes]*definition
	messages MessageSet
}

// Decode parses a FIT byte buffer into routed message buckets. It fails only
// on structural problems (short buffer, bad signature); malformed individual
// records are skipped by advancing a single byte and resuming, so slightly
// corrupt real-world files still yield their readable records.
func Decode(data []byte) (*File, error) {
	header, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	d := &decoder{data: data, pos: int(header.Size)}

	// The declared data region ends 2 bytes before the trailing CRC. A
	// lying DataSize must not let the loop walk past the real buffer.
	end := int(header.Size) + int(header.DataSize) - 2
	if end > len(data) {
		end = len(data)
	}
	for d.pos < end {
		if err := d.decodeRecord(); err != nil {
			d.pos++
		}
	}

	return &File{
		Header:   header,
		Messages: d.messages,
		Warnings: checkCRC(data, header),
	}, nil
}

func decodeHeader(data []byte) (Header, error) {
	if len(data) < headerMinSize {
		return Header{}, fmt.Errorf("fit file too short: %d bytes", len(data))
	}
	h := Header{
		Size:            data[0],
		ProtocolVersion: data[1],
		ProfileVersion:  binary.LittleEndian.Uint16(data[2:4]),
		DataSize:        binary.LittleEndian.Uint32(data[4:8]),
		Signature:       string(data[8:12]),
	}
	if h.Signature != fileSignature {
		return Header{}, fmt.Errorf("invalid fit signature %q", h.Signature)
	}
	return h, nil
}

// read returns the next n bytes without copying. The cursor does not move
// on a short read, so the recovery path resumes from the failure point.
func (d *decoder) read(n int) ([]byte, error) {
	if d.pos+n > len(d.data) {
		return nil, fmt.Errorf("record truncated at byte %d", d.pos)
	}
	out := d.data[d.pos : d.pos+n]
	d.pos += n
	return out, nil
}

func (d *decoder) readByte() (byte, error) {
	raw, err := d.read(1)
	if err != nil {
		return 0, err
	}
	return raw[0], nil
}

func (d *decoder) decodeRecord() error {
	headerByte, err := d.readByte()
	if err != nil {
		return err
	}

	switch {
	case headerByte&compressedHeaderMask != 0:
		// Compressed timestamp header: a data record whose local type
		// lives in bits 6-5. The 5-bit time offset is not reconstructed.
		return d.decodeData((headerByte & compressedLocalMesgNumMask) >> 5)
	case headerByte&mesgDefinitionMask != 0:
		return d.decodeDefinition(headerByte & localMesgNumMask)
	default:
		return d.decodeData(headerByte & localMesgNumMask)
	}
}

// decodeDefinition reads a definition record and installs it at its local
// type slot, replacing any earlier definition there wholesale.
func (d *decoder) decodeDefinition(local uint8) error {
	if _, err := d.readByte(); err != nil { // reserved
		return err
	}
	archByte, err := d.readByte()
	if err != nil {
		return err
	}
	var order binary.ByteOrder = binary.LittleEndian
	if archByte != 0 {
		order = binary.BigEndian
	}

	globalRaw, err := d.read(2)
	if err != nil {
		return err
	}
	global := order.Uint16(globalRaw)

	count, err := d.readByte()
	if err != nil {
		return err
	}

	fields := make([]fieldDef, 0, count)
	for i := 0; i < int(count); i++ {
		raw, err := d.read(3)
		if err != nil {
			return err
		}
		fields = append(fields, fieldDef{
			num:  raw[0],
			size: raw[1],
			base: lookupBase(raw[2]),
		})
	}

	d.defs[local] = &definition{global: global, order: order, fields: fields}
	return nil
}

// decodeData reads one data record according to the active definition for
// its local type. A data record arriving before any definition for that
// slot consumes only its header byte; there is nothing to decode it with.
func (d *decoder) decodeData(local uint8) error {
	def := d.defs[local]
	if def == nil {
		return nil
	}

	msg := Message{
		Global: def.global,
		Fields: make(map[uint8]Value, len(def.fields)),
	}
	for _, f := range def.fields {
		raw, err := d.read(int(f.size))
		if err != nil {
			return err
		}
		msg.Fields[f.num] = decodeField(raw, f.base, def.order)
	}

	d.messages.add(msg)
	return nil
}

// decodeField turns one field's raw bytes into a Value. Priority: string,
// exact-width scalar, divisible multi-width sequence (non-divisible tail
// bytes are skipped), otherwise absent. Multi-byte reads use the
// definition's byte order, never a file-global one.
func decodeField(raw []byte, spec baseSpec, order binary.ByteOrder) Value {
	if spec.isString {
		return TextValue(truncateAtNUL(raw))
	}

	switch {
	case len(raw) == spec.size:
		return decodeScalar(raw, spec, order)
	case len(raw) > spec.size:
		if spec.floating {
			// No floating sequences in the consumed messages; an
			// oversized float field is treated as undecodable.
			return AbsentValue()
		}
		n := len(raw) / spec.size
		seq := make([]int64, 0, n)
		for i := 0; i < n; i++ {
			v, _ := decodeScalar(raw[i*spec.size:(i+1)*spec.size], spec, order).Int()
			seq = append(seq, v)
		}
		return SequenceValue(seq)
	default:
		return AbsentValue()
	}
}

func decodeScalar(raw []byte, spec baseSpec, order binary.ByteOrder) Value {
	if spec.floating {
		switch spec.size {
		case 4:
			return RealValue(float64(math.Float32frombits(order.Uint32(raw))))
		case 8:
			return RealValue(math.Float64frombits(order.Uint64(raw)))
		}
		return AbsentValue()
	}

	switch spec.size {
	case 1:
		if spec.signed {
			return ScalarValue(int64(int8(raw[0])))
		}
		return ScalarValue(int64(raw[0]))
	case 2:
		u := order.Uint16(raw)
		if spec.signed {
			return ScalarValue(int64(int16(u)))
		}
		return ScalarValue(int64(u))
	case 4:
		u := order.Uint32(raw)
		if spec.signed {
			return ScalarValue(int64(int32(u)))
		}
		return ScalarValue(int64(u))
	default:
		return AbsentValue()
	}
}

// truncateAtNUL converts string field bytes to text, dropping the first NUL
// and everything after it.
func truncateAtNUL(raw []byte) string {
	for i, b := range raw {
		if b == 0x00 {
			return string(raw[:i])
		}
	}
	return string(raw)
}
