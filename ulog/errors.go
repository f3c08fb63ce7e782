package ulog

import "fmt"

// InvalidHeaderError indicates a stream that does not begin with the ULog
// magic and header. Decoding cannot proceed at all.
type InvalidHeaderError struct {
	Reason string
}

func (e InvalidHeaderError) Error() string {
	return "invalid ulog header: " + e.Reason
}

func (e InvalidHeaderError) Is(err error) bool {
	_, ok := err.(InvalidHeaderError)
	return ok
}

// IncompatibleLogError indicates a flag bitset frame with an incompatibility
// bit this decoder does not understand.
type IncompatibleLogError struct {
	Incompat [8]uint8
}

func (e IncompatibleLogError) Error() string {
	return fmt.Sprintf("log requires unsupported incompatibility bits: %v", e.Incompat)
}

func (e IncompatibleLogError) Is(err error) bool {
	_, ok := err.(IncompatibleLogError)
	return ok
}

// UnknownSubscriptionError indicates a frame referencing a message id with no
// active subscription.
type UnknownSubscriptionError struct {
	MsgID uint16
}

func (e UnknownSubscriptionError) Error() string {
	return fmt.Sprintf("no subscription for message id %d", e.MsgID)
}

func (e UnknownSubscriptionError) Is(err error) bool {
	_, ok := err.(UnknownSubscriptionError)
	return ok
}

// LengthMismatchError indicates a data frame whose declared payload length
// disagrees with the size predicted by its schema.
type LengthMismatchError struct {
	Schema string
	Want   int
	Got    int
}

func (e LengthMismatchError) Error() string {
	return fmt.Sprintf("payload length %d does not match schema %s size %d", e.Got, e.Schema, e.Want)
}

func (e LengthMismatchError) Is(err error) bool {
	_, ok := err.(LengthMismatchError)
	return ok
}

// ShortFrameError indicates a frame whose payload is smaller than its fixed
// layout requires.
type ShortFrameError struct {
	Tag byte
}

func (e ShortFrameError) Error() string {
	return fmt.Sprintf("short payload for %q frame", e.Tag)
}

func (e ShortFrameError) Is(err error) bool {
	_, ok := err.(ShortFrameError)
	return ok
}
