package track

import "errors"

// Sentinel kinds for track decoding errors.
var (
	ErrEmptyTrack     = errors.New("empty track file")
	ErrUnknownFormat  = errors.New("unknown track format")
	ErrMalformedTrack = errors.New("malformed track file")
)
