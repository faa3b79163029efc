package purchase

import "errors"

var (
	ErrTerminalState = errors.New("purchase: already in a terminal state")
	ErrInvalidStatus = errors.New("purchase: invalid target status")
)
