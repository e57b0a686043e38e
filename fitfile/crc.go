package fitfile

import (
	"encoding/binary"
	"fmt"

	"github.com/tormoder/fit/dyncrc16"
)

const headerSizeWithCRC = 14

// checkCRC verifies the optional header CRC and the trailing file CRC.
// Mismatches are reported as warnings, never as errors: the record stream
// may still be perfectly readable.
func checkCRC(data []byte, h Header) []string {
	var warnings []string

	if h.Size >= headerSizeWithCRC && len(data) >= headerSizeWithCRC {
		stored := binary.LittleEndian.Uint16(data[12:14])
		// A zero header CRC means the writer skipped it.
		if stored != 0 {
			if computed := dyncrc16.Checksum(data[:12]); computed != stored {
				warnings = append(warnings,
					fmt.Sprintf("header CRC mismatch: stored 0x%04X computed 0x%04X", stored, computed))
			}
		}
	}

	crcOffset := int(h.Size) + int(h.DataSize)
	if crcOffset+2 <= len(data) {
		stored := binary.LittleEndian.Uint16(data[crcOffset : crcOffset+2])
		if computed := dyncrc16.Checksum(data[:crcOffset]); computed != stored {
			warnings = append(warnings,
				fmt.Sprintf("file CRC mismatch: stored 0x%04X computed 0x%04X", stored, computed))
		}
	}

	return warnings
}
