package ulog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/flightlog/ulog/ulog/schema"
)

/*
Reader is the frame reader and record decoder for a single stream. It pulls
length-prefixed frames sequentially, applies definition and subscription
frames to the session, and yields decoded records for everything else.

Frame-local failures never abort the stream: the offending frame has already
been consumed via its declared length, so the reader yields a Diagnostic and
the next call resumes at the following frame boundary. Running out of bytes,
even mid-frame, terminates with io.EOF; Truncated reports whether the final
frame was cut short, which is expected for logs still being appended to.
*/

////////////////////////////////////////////////////////////////////////////////

// Reader decodes a single ULog stream.
type Reader struct {
	r       io.Reader
	session *Session

	offset    int64
	truncated bool
	syncs     int
	unknown   map[byte]int

	buf []byte
}

// NewReader validates the stream header and returns a reader positioned at
// the first frame. The header is the only structural requirement: a stream
// without a valid magic cannot be decoded at all.
func NewReader(r io.Reader) (*Reader, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, InvalidHeaderError{"stream shorter than file header"}
		}
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	if !bytes.Equal(buf[:len(magic)], magic) {
		return nil, InvalidHeaderError{"bad magic"}
	}
	header := Header{
		Version:   buf[7],
		Timestamp: binary.LittleEndian.Uint64(buf[8:]),
	}
	return &Reader{
		r:       r,
		session: NewSession(header),
		offset:  headerSize,
		unknown: make(map[byte]int),
	}, nil
}

// Header returns the stream header.
func (r *Reader) Header() Header {
	return r.session.Header()
}

// Session returns the session state accumulated so far.
func (r *Reader) Session() *Session {
	return r.session
}

// Truncated reports whether the stream ended mid-frame.
func (r *Reader) Truncated() bool {
	return r.truncated
}

// Offset returns the stream position after the last consumed frame.
func (r *Reader) Offset() int64 {
	return r.offset
}

// SyncCount returns the number of synchronization frames consumed.
func (r *Reader) SyncCount() int {
	return r.syncs
}

// UnknownTags returns the count of skipped frames per unknown type tag.
func (r *Reader) UnknownTags() map[byte]int {
	counts := make(map[byte]int, len(r.unknown))
	for tag, n := range r.unknown {
		counts[tag] = n
	}
	return counts
}

// Next returns the next decoded record. Definition, subscription, sync, and
// unknown frames are consumed internally; frames that fail locally are
// yielded as Diagnostic records. At the end of available bytes Next returns
// io.EOF.
func (r *Reader) Next() (Record, error) {
	for {
		start := r.offset
		tag, payload, err := r.readFrame()
		if err != nil {
			return nil, err
		}
		switch tag {
		case TagFlagBits:
			flags, err := r.applyFlagBits(payload)
			if err != nil {
				return nil, err
			}
			if flags == nil {
				return Diagnostic{Tag: tag, Offset: start, Err: ShortFrameError{tag}}, nil
			}
			continue
		case TagFormat:
			if _, err := r.session.Formats().Define(string(payload)); err != nil {
				return Diagnostic{Tag: tag, Offset: start, Err: err}, nil
			}
			continue
		case TagAddSubscription:
			if err := r.applySubscribe(payload); err != nil {
				return Diagnostic{Tag: tag, Offset: start, Err: err}, nil
			}
			continue
		case TagRemoveSubscription:
			if err := r.applyUnsubscribe(payload); err != nil {
				return Diagnostic{Tag: tag, Offset: start, Err: err}, nil
			}
			continue
		case TagData:
			record, err := r.decodeData(payload)
			if err != nil {
				return Diagnostic{Tag: tag, Offset: start, Err: err}, nil
			}
			return record, nil
		case TagLog:
			record, err := decodeLog(payload)
			if err != nil {
				return Diagnostic{Tag: tag, Offset: start, Err: err}, nil
			}
			return record, nil
		case TagTaggedLog:
			record, err := decodeTaggedLog(payload)
			if err != nil {
				return Diagnostic{Tag: tag, Offset: start, Err: err}, nil
			}
			return record, nil
		case TagDropout:
			if len(payload) < 2 {
				return Diagnostic{Tag: tag, Offset: start, Err: ShortFrameError{tag}}, nil
			}
			ms := binary.LittleEndian.Uint16(payload)
			return Dropout{Duration: time.Duration(ms) * time.Millisecond}, nil
		case TagInfo:
			record, err := r.decodeInfo(payload)
			if err != nil {
				return Diagnostic{Tag: tag, Offset: start, Err: err}, nil
			}
			return record, nil
		case TagMultiInfo:
			record, err := r.decodeMultiInfo(payload)
			if err != nil {
				return Diagnostic{Tag: tag, Offset: start, Err: err}, nil
			}
			return record, nil
		case TagParameter:
			record, err := r.decodeParameter(payload)
			if err != nil {
				return Diagnostic{Tag: tag, Offset: start, Err: err}, nil
			}
			return record, nil
		case TagParameterDefault:
			record, err := r.decodeParameterDefault(payload)
			if err != nil {
				return Diagnostic{Tag: tag, Offset: start, Err: err}, nil
			}
			return record, nil
		case TagSync:
			r.syncs++
			if !bytes.Equal(payload, syncMagic) {
				return Diagnostic{Tag: tag, Offset: start, Err: fmt.Errorf("bad sync frame magic")}, nil
			}
			continue
		default:
			// Forward compatibility: skip by declared length and count.
			r.unknown[tag]++
			continue
		}
	}
}

// readFrame consumes the next frame header and payload. Fewer bytes remaining
// than a complete frame is the truncated terminal state, reported as io.EOF.
func (r *Reader) readFrame() (byte, []byte, error) {
	var header [3]byte
	n, err := io.ReadFull(r.r, header[:])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			r.truncated = n > 0
			return 0, nil, io.EOF
		}
		return 0, nil, fmt.Errorf("failed to read frame header: %w", err)
	}
	size := int(binary.LittleEndian.Uint16(header[:2]))
	tag := header[2]
	if cap(r.buf) < size {
		r.buf = make([]byte, size)
	}
	payload := r.buf[:size]
	if _, err := io.ReadFull(r.r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			r.truncated = true
			return 0, nil, io.EOF
		}
		return 0, nil, fmt.Errorf("failed to read frame payload: %w", err)
	}
	r.offset += int64(3 + size)
	return tag, payload, nil
}

// applyFlagBits parses the flag bitset frame. An incompatibility bit we do
// not understand is the one non-header condition that ends the session: the
// stream cannot be decoded correctly without honoring it.
func (r *Reader) applyFlagBits(payload []byte) (*FlagBits, error) {
	if len(payload) < 40 {
		return nil, nil //nolint:nilnil // caller yields a diagnostic
	}
	var flags FlagBits
	copy(flags.Compat[:], payload[:8])
	copy(flags.Incompat[:], payload[8:16])
	for i := range flags.AppendedOffsets {
		flags.AppendedOffsets[i] = binary.LittleEndian.Uint64(payload[16+8*i:])
	}
	if flags.unknownIncompatBits() {
		return nil, IncompatibleLogError{flags.Incompat}
	}
	r.session.SetFlagBits(flags)
	return &flags, nil
}

func (r *Reader) applySubscribe(payload []byte) error {
	if len(payload) < 4 {
		return ShortFrameError{TagAddSubscription}
	}
	multiID := payload[0]
	msgID := binary.LittleEndian.Uint16(payload[1:3])
	// The schema name is not validated here: resolution failures surface per
	// data frame, where they can be skipped without losing the binding.
	r.session.Subscribe(msgID, string(payload[3:]), multiID)
	return nil
}

func (r *Reader) applyUnsubscribe(payload []byte) error {
	if len(payload) < 2 {
		return ShortFrameError{TagRemoveSubscription}
	}
	msgID := binary.LittleEndian.Uint16(payload)
	if !r.session.Unsubscribe(msgID) {
		return UnknownSubscriptionError{msgID}
	}
	return nil
}

func (r *Reader) decodeData(payload []byte) (Record, error) {
	if len(payload) < 2 {
		return nil, ShortFrameError{TagData}
	}
	msgID := binary.LittleEndian.Uint16(payload)
	sub, ok := r.session.Lookup(msgID)
	if !ok {
		return nil, UnknownSubscriptionError{msgID}
	}
	sch, err := r.session.Formats().Resolve(sub.Schema)
	if err != nil {
		return nil, err
	}
	got := len(payload) - 2
	if got < sch.DataSize() || got > sch.Size() {
		return nil, LengthMismatchError{Schema: sch.Name, Want: sch.Size(), Got: got}
	}
	values, err := sch.Decode(payload[2:])
	if err != nil {
		return nil, err
	}
	var timestamp uint64
	if i := sch.TimestampIndex(); i >= 0 {
		timestamp, _ = values[i].Value.(uint64)
	}
	return Data{
		MsgID:     msgID,
		MultiID:   sub.MultiID,
		Schema:    sub.Schema,
		Timestamp: timestamp,
		Fields:    values,
	}, nil
}

func decodeLog(payload []byte) (Record, error) {
	if len(payload) < 9 {
		return nil, ShortFrameError{TagLog}
	}
	return Log{
		Level:     levelFromByte(payload[0]),
		Timestamp: binary.LittleEndian.Uint64(payload[1:9]),
		Message:   string(payload[9:]),
	}, nil
}

func decodeTaggedLog(payload []byte) (Record, error) {
	if len(payload) < 11 {
		return nil, ShortFrameError{TagTaggedLog}
	}
	return TaggedLog{
		Level:     levelFromByte(payload[0]),
		Tag:       binary.LittleEndian.Uint16(payload[1:3]),
		Timestamp: binary.LittleEndian.Uint64(payload[3:11]),
		Message:   string(payload[11:]),
	}, nil
}

// decodeTypedKeyValue decodes the "key length, typed key, value" layout
// shared by info and parameter frames.
func decodeTypedKeyValue(tag byte, payload []byte) (string, any, error) {
	if len(payload) < 1 {
		return "", nil, ShortFrameError{tag}
	}
	keyLen := int(payload[0])
	if len(payload) < 1+keyLen {
		return "", nil, ShortFrameError{tag}
	}
	field, err := schema.ParseTypedKey(string(payload[1 : 1+keyLen]))
	if err != nil {
		return "", nil, err
	}
	value, err := field.DecodeValue(payload[1+keyLen:])
	if err != nil {
		return "", nil, err
	}
	return field.Name, value, nil
}

func (r *Reader) decodeInfo(payload []byte) (Record, error) {
	key, value, err := decodeTypedKeyValue(TagInfo, payload)
	if err != nil {
		return nil, err
	}
	r.session.setInfo(key, value)
	return Info{Key: key, Value: value}, nil
}

func (r *Reader) decodeMultiInfo(payload []byte) (Record, error) {
	if len(payload) < 1 {
		return nil, ShortFrameError{TagMultiInfo}
	}
	continued := payload[0] != 0
	key, value, err := decodeTypedKeyValue(TagMultiInfo, payload[1:])
	if err != nil {
		return nil, err
	}
	return MultiInfo{Key: key, Value: value, Continued: continued}, nil
}

func (r *Reader) decodeParameter(payload []byte) (Record, error) {
	key, value, err := decodeTypedKeyValue(TagParameter, payload)
	if err != nil {
		return nil, err
	}
	r.session.setParameter(key, value)
	return Parameter{Key: key, Value: value}, nil
}

func (r *Reader) decodeParameterDefault(payload []byte) (Record, error) {
	if len(payload) < 1 {
		return nil, ShortFrameError{TagParameterDefault}
	}
	defaultTypes := payload[0]
	key, value, err := decodeTypedKeyValue(TagParameterDefault, payload[1:])
	if err != nil {
		return nil, err
	}
	r.session.setDefault(key, value)
	return ParameterDefault{
		Key:           key,
		Value:         value,
		SystemWide:    defaultTypes&0x01 != 0,
		Configuration: defaultTypes&0x02 != 0,
	}, nil
}
