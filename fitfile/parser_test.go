package fitfile

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"strings"
	"testing"

	"github.com/tormoder/fit/dyncrc16"
)

// buildFile assembles a decodable buffer from raw record bytes. The declared
// data size covers the records plus the trailing 2 CRC bytes, matching how
// the decode loop treats the region end.
func buildFile(t *testing.T, records ...[]byte) []byte {
	t.Helper()
	var body bytes.Buffer
	for _, r := range records {
		body.Write(r)
	}
	buf := make([]byte, 12, 12+body.Len()+2)
	buf[0] = 12
	buf[1] = 0x20
	binary.LittleEndian.PutUint16(buf[2:4], 2140)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(body.Len()+2))
	copy(buf[8:12], fileSignature)
	buf = append(buf, body.Bytes()...)
	return append(buf, 0x00, 0x00)
}

// defRecord builds a definition record. Each field is 3 bytes:
// number, size, base type.
func defRecord(local uint8, littleEndian bool, global uint16, fields ...[3]byte) []byte {
	arch := byte(0)
	order := binary.AppendByteOrder(binary.LittleEndian)
	if !littleEndian {
		arch = 1
		order = binary.BigEndian
	}
	rec := []byte{mesgDefinitionMask | local, 0x00, arch}
	rec = order.AppendUint16(rec, global)
	rec = append(rec, byte(len(fields)))
	for _, f := range fields {
		rec = append(rec, f[0], f[1], f[2])
	}
	return rec
}

func dataRecord(local uint8, payload ...byte) []byte {
	return append([]byte{local}, payload...)
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	data := buildFile(t)
	copy(data[8:12], "FTI.")

	if _, err := Decode(data); err == nil {
		t.Fatal("expected error for bad signature")
	} else if !strings.Contains(err.Error(), "signature") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeRejectsShortBuffer(t *testing.T) {
	if _, err := Decode([]byte{12, 0x20, 0, 0}); err == nil {
		t.Fatal("expected error for truncated header")
	}
}

func TestDecodeDefinitionAndData(t *testing.T) {
	data := buildFile(t,
		defRecord(0, true, MesgRecord, [3]byte{7, 4, 0x86}),
		dataRecord(0, 0xE8, 0x03, 0x00, 0x00), // 1000 LE
	)

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(f.Messages.Records) != 1 {
		t.Fatalf("expected 1 record message, got %d", len(f.Messages.Records))
	}
	v, ok := f.Messages.Records[0].Field(7).Int()
	if !ok || v != 1000 {
		t.Fatalf("field 7 = %v (ok=%t), want 1000", v, ok)
	}
}

func TestDecodeBigEndianDefinition(t *testing.T) {
	data := buildFile(t,
		defRecord(3, false, MesgRecord, [3]byte{3, 2, 0x84}),
		dataRecord(3, 0x01, 0x02), // 258 BE
	)

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(f.Messages.Records) != 1 {
		t.Fatalf("expected 1 record message, got %d", len(f.Messages.Records))
	}
	if v, _ := f.Messages.Records[0].Field(3).Int(); v != 258 {
		t.Fatalf("big-endian field = %d, want 258", v)
	}
}

func TestRedefinitionReplacesFieldList(t *testing.T) {
	data := buildFile(t,
		defRecord(0, true, MesgRecord, [3]byte{7, 4, 0x86}),
		dataRecord(0, 0xE8, 0x03, 0x00, 0x00),
		defRecord(0, true, MesgRecord, [3]byte{3, 1, 0x02}),
		dataRecord(0, 0x4D),
	)

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(f.Messages.Records) != 2 {
		t.Fatalf("expected 2 record messages, got %d", len(f.Messages.Records))
	}
	second := f.Messages.Records[1]
	if !second.Field(7).Absent() {
		t.Fatal("field list merged across redefinition: field 7 still present")
	}
	if v, _ := second.Field(3).Int(); v != 77 {
		t.Fatalf("field 3 = %d, want 77", v)
	}
}

func TestArrayFieldDecodesToSequence(t *testing.T) {
	data := buildFile(t,
		defRecord(0, true, MesgRecord, [3]byte{7, 8, 0x86}),
		dataRecord(0, 0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00),
	)

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	seq, ok := f.Messages.Records[0].Field(7).Seq()
	if !ok {
		t.Fatalf("expected sequence, got kind %v", f.Messages.Records[0].Field(7).Kind())
	}
	if !reflect.DeepEqual(seq, []int64{1, 2}) {
		t.Fatalf("sequence = %v, want [1 2]", seq)
	}
}

func TestNonDivisibleArrayFloorsCountAndSkipsTail(t *testing.T) {
	// 7 bytes declared for a 4-byte base type: one element decodes, the
	// 3 tail bytes are consumed but not decoded, and the next field
	// stays aligned.
	data := buildFile(t,
		defRecord(0, true, MesgRecord, [3]byte{7, 7, 0x86}, [3]byte{3, 1, 0x02}),
		dataRecord(0, 0x01, 0x00, 0x00, 0x00, 0xAA, 0xBB, 0xCC, 0x2A),
	)

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	msg := f.Messages.Records[0]
	seq, ok := msg.Field(7).Seq()
	if !ok {
		t.Fatalf("expected sequence, got kind %v", msg.Field(7).Kind())
	}
	if !reflect.DeepEqual(seq, []int64{1}) {
		t.Fatalf("sequence = %v, want [1]", seq)
	}
	if v, _ := msg.Field(3).Int(); v != 42 {
		t.Fatalf("following field = %d, want 42; tail bytes not skipped", v)
	}
}

func TestStringFieldTruncatesAtNUL(t *testing.T) {
	data := buildFile(t,
		defRecord(0, true, MesgRecord, [3]byte{8, 6, 0x07}),
		dataRecord(0, 'f', 'e', 'n', 0x00, 'x', 'y'),
	)

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	s, ok := f.Messages.Records[0].Field(8).Text()
	if !ok || s != "fen" {
		t.Fatalf("string field = %q (ok=%t), want \"fen\"", s, ok)
	}
}

func TestUndersizedFieldDecodesAbsent(t *testing.T) {
	// 2 bytes declared for a 4-byte base type: skipped, not decoded.
	data := buildFile(t,
		defRecord(0, true, MesgRecord, [3]byte{7, 2, 0x86}, [3]byte{3, 1, 0x02}),
		dataRecord(0, 0xAA, 0xBB, 0x2A),
	)

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	msg := f.Messages.Records[0]
	if !msg.Field(7).Absent() {
		t.Fatal("undersized field should decode to absent")
	}
	if v, _ := msg.Field(3).Int(); v != 42 {
		t.Fatalf("following field = %d, want 42; cursor misaligned", v)
	}
}

func TestSignedFieldDecoding(t *testing.T) {
	data := buildFile(t,
		defRecord(0, true, MesgRecord, [3]byte{0, 4, 0x85}),
		dataRecord(0, 0xFF, 0xFF, 0xFF, 0xFF), // -1 as sint32
	)

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if v, _ := f.Messages.Records[0].Field(0).Int(); v != -1 {
		t.Fatalf("sint32 field = %d, want -1", v)
	}
}

func TestCompressedHeaderUsesBits65(t *testing.T) {
	data := buildFile(t,
		defRecord(1, true, MesgRecord, [3]byte{3, 1, 0x02}),
		dataRecord(0x80|(1<<5)|0x1F, 0x63), // compressed header, local 1
	)

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(f.Messages.Records) != 1 {
		t.Fatalf("expected 1 record message, got %d", len(f.Messages.Records))
	}
	if v, _ := f.Messages.Records[0].Field(3).Int(); v != 99 {
		t.Fatalf("field 3 = %d, want 99", v)
	}
}

func TestDataWithoutDefinitionIsSkipped(t *testing.T) {
	data := buildFile(t,
		dataRecord(5), // no definition for local 5 yet
		defRecord(0, true, MesgRecord, [3]byte{3, 1, 0x02}),
		dataRecord(0, 0x10),
	)

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(f.Messages.Records) != 1 {
		t.Fatalf("expected 1 record message, got %d", len(f.Messages.Records))
	}
}

func TestSingleByteRecoveryAfterTruncatedRecord(t *testing.T) {
	// Local 1 declares a 200-byte field; its data record cannot be read
	// to completion. The loop must advance one byte past the failure and
	// still decode the trailing valid record.
	data := buildFile(t,
		defRecord(0, true, MesgRecord, [3]byte{7, 4, 0x86}),
		dataRecord(0, 0x01, 0x00, 0x00, 0x00),
		defRecord(1, true, MesgEvent, [3]byte{0, 200, 0x0D}),
		dataRecord(1, 0xAA), // truncated: only 1 of 200 bytes present
		dataRecord(0, 0xE8, 0x03, 0x00, 0x00),
	)

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(f.Messages.Events) != 0 {
		t.Fatalf("truncated event record should not decode, got %d", len(f.Messages.Events))
	}
	if len(f.Messages.Records) != 2 {
		t.Fatalf("expected 2 record messages after recovery, got %d", len(f.Messages.Records))
	}
	if v, _ := f.Messages.Records[1].Field(7).Int(); v != 1000 {
		t.Fatalf("post-recovery field = %d, want 1000", v)
	}
}

func TestRouterBucketsByGlobalNumber(t *testing.T) {
	data := buildFile(t,
		defRecord(0, true, MesgSession, [3]byte{5, 1, 0x00}),
		dataRecord(0, 0x01),
		defRecord(1, true, MesgLap, [3]byte{11, 2, 0x84}),
		dataRecord(1, 0x2C, 0x01),
		defRecord(2, true, 9999, [3]byte{0, 1, 0x02}), // not consumed
		dataRecord(2, 0x55),
	)

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(f.Messages.Sessions) != 1 || len(f.Messages.Laps) != 1 {
		t.Fatalf("expected 1 session and 1 lap, got %d/%d",
			len(f.Messages.Sessions), len(f.Messages.Laps))
	}
	if len(f.Messages.Records) != 0 || !fitEmptyExceptSessionsLaps(&f.Messages) {
		t.Fatal("unrecognized global message leaked into a bucket")
	}
}

func fitEmptyExceptSessionsLaps(ms *MessageSet) bool {
	return ms.FileID == nil && ms.DeviceInfo == nil && len(ms.Records) == 0 &&
		len(ms.Events) == 0 && len(ms.Monitoring) == 0 && len(ms.HRV) == 0 &&
		len(ms.Stress) == 0 && len(ms.Sleep) == 0
}

func TestFileCRCWarning(t *testing.T) {
	records := append(
		defRecord(0, true, MesgRecord, [3]byte{7, 4, 0x86}),
		dataRecord(0, 0xE8, 0x03, 0x00, 0x00)...,
	)

	// Real-world layout: declared size excludes the trailing CRC.
	buf := make([]byte, 12, 12+len(records)+2)
	buf[0] = 12
	buf[1] = 0x20
	binary.LittleEndian.PutUint16(buf[2:4], 2140)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(records)))
	copy(buf[8:12], fileSignature)
	buf = append(buf, records...)

	crc := dyncrc16.Checksum(buf)
	good := binary.LittleEndian.AppendUint16(append([]byte(nil), buf...), crc)
	f, err := Decode(good)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(f.Warnings) != 0 {
		t.Fatalf("unexpected warnings for valid CRC: %v", f.Warnings)
	}

	bad := binary.LittleEndian.AppendUint16(append([]byte(nil), buf...), crc^0xFFFF)
	f, err = Decode(bad)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(f.Warnings) != 1 || !strings.Contains(f.Warnings[0], "file CRC mismatch") {
		t.Fatalf("expected file CRC warning, got %v", f.Warnings)
	}
}

func TestDecodeIsIdempotent(t *testing.T) {
	data := buildFile(t,
		defRecord(0, true, MesgSession, [3]byte{5, 1, 0x00}, [3]byte{7, 4, 0x86}),
		dataRecord(0, 0x01, 0x60, 0xE3, 0x16, 0x00),
		defRecord(1, true, MesgRecord, [3]byte{3, 1, 0x02}),
		dataRecord(1, 0x8C),
	)

	first, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	second, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("decoding the same buffer twice produced different results")
	}
}
