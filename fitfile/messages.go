package fitfile

import (
	"fmt"
	"strings"

	"github.com/tormoder/fit"
)

// Global message numbers consumed by the router. Anything else on the wire
// is dropped, which keeps files from newer devices decodable.
const (
	MesgFileID      uint16 = 0
	MesgSession     uint16 = 18
	MesgLap         uint16 = 19
	MesgRecord      uint16 = 20
	MesgEvent       uint16 = 21
	MesgDeviceInfo  uint16 = 23
	MesgMonitoring  uint16 = 55
	MesgHRV         uint16 = 78
	MesgStressLevel uint16 = 227
	MesgSleepLevel  uint16 = 275
)

// Message is one decoded data record: its global message number and the
// decoded value per field number.
type Message struct {
	Global uint16
	Fields map[uint8]Value
}

// Field returns the decoded value for a field number, or an absent value
// when the message never carried that field.
func (m Message) Field(num uint8) Value {
	if v, ok := m.Fields[num]; ok {
		return v
	}
	return AbsentValue()
}

// MessageSet buckets decoded data records by global message number,
// preserving encounter order within each bucket. FileID and DeviceInfo are
// single slots where the last record wins.
type MessageSet struct {
	FileID     *Message
	DeviceInfo *Message
	Sessions   []Message
	Laps       []Message
	Records    []Message
	Events     []Message
	Monitoring []Message
	HRV        []Message
	Stress     []Message
	Sleep      []Message
}

func (s *MessageSet) add(m Message) {
	switch m.Global {
	case MesgFileID:
		s.FileID = &m
	case MesgSession:
		s.Sessions = append(s.Sessions, m)
	case MesgLap:
		s.Laps = append(s.Laps, m)
	case MesgRecord:
		s.Records = append(s.Records, m)
	case MesgEvent:
		s.Events = append(s.Events, m)
	case MesgDeviceInfo:
		s.DeviceInfo = &m
	case MesgMonitoring:
		s.Monitoring = append(s.Monitoring, m)
	case MesgHRV:
		s.HRV = append(s.HRV, m)
	case MesgStressLevel:
		s.Stress = append(s.Stress, m)
	case MesgSleepLevel:
		s.Sleep = append(s.Sleep, m)
	}
}

// Empty reports whether no bucket received a record.
func (s *MessageSet) Empty() bool {
	return s.FileID == nil && s.DeviceInfo == nil &&
		len(s.Sessions) == 0 && len(s.Laps) == 0 && len(s.Records) == 0 &&
		len(s.Events) == 0 && len(s.Monitoring) == 0 && len(s.HRV) == 0 &&
		len(s.Stress) == 0 && len(s.Sleep) == 0
}

// MessageName resolves a global message number to its profile name, falling
// back to a numeric label for globals the profile does not know.
func MessageName(global uint16) string {
	name := fmt.Sprint(fit.MesgNum(global))
	if strings.HasPrefix(name, "MesgNum(") {
		return fmt.Sprintf("global_%d", global)
	}
	return name
}
