// Package trace decodes and encodes binary request traces. Two historical
// record layouts exist in the wild; both are fixed-size, packed, little-endian
// and stored back to back with no delimiter, so record k of a file sits at
// byte offset k * record size.
package trace

import (
	"encoding/binary"
	"fmt"

	"github.com/cache-sim/cache-sim/sim"
)

// Format selects a record layout.
type Format int

const (
	// FormatLegacy: clock:i64, id:u64, size:i64, packed op/tenant u32
	// (op in the low 8 bits, tenant in the upper 24), next_vtime:i64.
	FormatLegacy Format = iota
	// FormatCompact: clock:i64, id:u64, size:i64, op:i8, tenant:u16,
	// next_vtime:i64.
	FormatCompact
)

// Record sizes in bytes. Packed, no padding.
const (
	LegacyRecordSize  = 36
	CompactRecordSize = 35
)

// tenantMask keeps the 24 bits the legacy layout can carry.
const tenantMask = 0xFFFFFF

// String returns the format name used by CLI flags and config files.
func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatCompact:
		return "compact"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat resolves a format name from configuration.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "legacy":
		return FormatLegacy, nil
	case "compact":
		return FormatCompact, nil
	default:
		return 0, fmt.Errorf("unknown trace format %q", name)
	}
}

// RecordSize returns the byte size of one record in this format.
func (f Format) RecordSize() int {
	if f == FormatLegacy {
		return LegacyRecordSize
	}
	return CompactRecordSize
}

// Decode unpacks one record from buf, which must hold exactly RecordSize bytes.
func (f Format) Decode(buf []byte) sim.Request {
	var req sim.Request
	req.ClockTime = int64(binary.LittleEndian.Uint64(buf[0:8]))
	req.ObjID = binary.LittleEndian.Uint64(buf[8:16])
	req.Size = int64(binary.LittleEndian.Uint64(buf[16:24]))
	if f == FormatLegacy {
		packed := binary.LittleEndian.Uint32(buf[24:28])
		req.Op = sim.Operation(packed & 0xFF)
		req.Tenant = packed >> 8
		req.NextAccessVTime = int64(binary.LittleEndian.Uint64(buf[28:36]))
	} else {
		req.Op = sim.Operation(buf[24])
		req.Tenant = uint32(binary.LittleEndian.Uint16(buf[25:27]))
		req.NextAccessVTime = int64(binary.LittleEndian.Uint64(buf[27:35]))
	}
	return req
}

// Encode packs one record into buf, which must hold at least RecordSize bytes.
// Tenant bits beyond what the layout carries are truncated.
func (f Format) Encode(req sim.Request, buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], uint64(req.ClockTime))
	binary.LittleEndian.PutUint64(buf[8:16], req.ObjID)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(req.Size))
	if f == FormatLegacy {
		packed := uint32(req.Op) | (req.Tenant&tenantMask)<<8
		binary.LittleEndian.PutUint32(buf[24:28], packed)
		binary.LittleEndian.PutUint64(buf[28:36], uint64(req.NextAccessVTime))
	} else {
		buf[24] = byte(req.Op)
		binary.LittleEndian.PutUint16(buf[25:27], uint16(req.Tenant))
		binary.LittleEndian.PutUint64(buf[27:35], uint64(req.NextAccessVTime))
	}
}
