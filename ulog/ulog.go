package ulog

import (
	"time"

	"github.com/flightlog/ulog/util"
)

/*
ulog implements a sequential decoder for the self-describing ULog flight-log
format. A stream is a fixed magic/version header followed by length-prefixed,
type-tagged frames. Format-definition frames bootstrap a schema registry,
subscription frames bind numeric message ids to schemas, and data frames are
decoded against the subscription active at that point in the stream.

Decoding is frame-local and self-healing: a frame that cannot be decoded is
skipped via its declared length and surfaced as a Diagnostic record, and
running out of bytes mid-frame is a normal terminal state so that logs still
being appended to decode the same way as sealed files.
*/

////////////////////////////////////////////////////////////////////////////////

// Message type tags.
const (
	TagFlagBits           = 'B'
	TagFormat             = 'F'
	TagInfo               = 'I'
	TagMultiInfo          = 'M'
	TagParameter          = 'P'
	TagParameterDefault   = 'Q'
	TagAddSubscription    = 'A'
	TagRemoveSubscription = 'R'
	TagData               = 'D'
	TagLog                = 'L'
	TagTaggedLog          = 'C'
	TagSync               = 'S'
	TagDropout            = 'O'
)

// nolint:gochecknoglobals
var (
	// File magic: "ULog" followed by 0x01 0x12 0x35.
	magic = []byte{0x55, 0x4c, 0x6f, 0x67, 0x01, 0x12, 0x35}

	syncMagic = []byte{0x2f, 0x73, 0x13, 0x20, 0x25, 0x0c, 0xbb, 0x12}
)

const headerSize = 16

// Header is the fixed file header at the start of every stream.
type Header struct {
	Version   uint8
	Timestamp uint64 // microseconds
}

// Time returns the logging start time.
func (h Header) Time() time.Time {
	return util.ParseMicros(h.Timestamp)
}

// FlagBits carries the compatibility bitsets from the flag bitset frame.
type FlagBits struct {
	Compat          [8]uint8
	Incompat        [8]uint8
	AppendedOffsets [3]uint64
}

const incompatDataAppended = 0x01

// DataAppended reports whether the log carries data appended after the
// regular stream, at the offsets in AppendedOffsets.
func (f FlagBits) DataAppended() bool {
	return f.Incompat[0]&incompatDataAppended != 0
}

// unknownIncompatBits reports whether any incompatibility bit this decoder
// does not understand is set. Such logs cannot be decoded safely.
func (f FlagBits) unknownIncompatBits() bool {
	if f.Incompat[0]&^incompatDataAppended != 0 {
		return true
	}
	for _, b := range f.Incompat[1:] {
		if b != 0 {
			return true
		}
	}
	return false
}
