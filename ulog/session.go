package ulog

import (
	"github.com/flightlog/ulog/ulog/schema"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

/*
Session state for a single decode session: the format registry, the
subscription table, and the metadata accumulated from header, flag bitset,
info, and parameter frames. A session is owned by exactly one reader and
mutated only by its decode loop; independent sessions share nothing.
*/

////////////////////////////////////////////////////////////////////////////////

// Subscription binds a numeric message id to a schema for the rest of the
// stream, until unsubscribed or rebound.
type Subscription struct {
	MsgID   uint16
	MultiID uint8
	Schema  string
}

// Session aggregates the mutable per-stream decode state.
type Session struct {
	header  Header
	formats *schema.Registry
	subs    map[uint16]Subscription

	flags    *FlagBits
	infos    map[string]any
	params   map[string]any
	defaults map[string]any
}

// NewSession returns an empty session for a stream with the given header.
func NewSession(header Header) *Session {
	return &Session{
		header:   header,
		formats:  schema.NewRegistry(),
		subs:     make(map[uint16]Subscription),
		infos:    make(map[string]any),
		params:   make(map[string]any),
		defaults: make(map[string]any),
	}
}

// Header returns the stream header.
func (s *Session) Header() Header {
	return s.header
}

// Formats returns the session's format registry.
func (s *Session) Formats() *schema.Registry {
	return s.formats
}

// Subscribe binds id to the named schema. An existing binding for id is
// overwritten: active capture tools are known to reuse ids.
func (s *Session) Subscribe(id uint16, name string, multiID uint8) {
	s.subs[id] = Subscription{MsgID: id, MultiID: multiID, Schema: name}
}

// Unsubscribe removes the binding for id, reporting whether one existed.
func (s *Session) Unsubscribe(id uint16) bool {
	_, ok := s.subs[id]
	delete(s.subs, id)
	return ok
}

// Lookup returns the active subscription for id.
func (s *Session) Lookup(id uint16) (Subscription, bool) {
	sub, ok := s.subs[id]
	return sub, ok
}

// Subscriptions returns the active subscriptions ordered by message id.
func (s *Session) Subscriptions() []Subscription {
	subs := maps.Values(s.subs)
	slices.SortFunc(subs, func(a, b Subscription) int {
		return int(a.MsgID) - int(b.MsgID)
	})
	return subs
}

// SetFlagBits stores the stream's flag bitsets.
func (s *Session) SetFlagBits(flags FlagBits) {
	s.flags = &flags
}

// FlagBits returns the stream's flag bitsets, if a flag bitset frame has been
// seen.
func (s *Session) FlagBits() (FlagBits, bool) {
	if s.flags == nil {
		return FlagBits{}, false
	}
	return *s.flags, true
}

func (s *Session) setInfo(key string, value any) {
	s.infos[key] = value
}

func (s *Session) setParameter(key string, value any) {
	s.params[key] = value
}

func (s *Session) setDefault(key string, value any) {
	s.defaults[key] = value
}

// Infos returns a copy of the accumulated info values.
func (s *Session) Infos() map[string]any {
	return maps.Clone(s.infos)
}

// Parameters returns a copy of the accumulated parameter values.
func (s *Session) Parameters() map[string]any {
	return maps.Clone(s.params)
}

// ParameterDefaults returns a copy of the accumulated parameter defaults.
func (s *Session) ParameterDefaults() map[string]any {
	return maps.Clone(s.defaults)
}
