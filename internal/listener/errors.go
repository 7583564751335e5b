package listener

import "errors"

// ErrUndefinedCoordinate is returned when a frame names a tracked landmark
// but carries no usable coordinate for it. It signals a broken upstream feed.
var ErrUndefinedCoordinate = errors.New("undefined coordinate")
