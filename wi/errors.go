package wi

import "github.com/pkg/errors"

var (
	ErrLoopStopped = errors.New("loop stopped")
	ErrLoopRunning = errors.New("loop already running")
)
