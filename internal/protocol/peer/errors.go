package peer

import "errors"

var (
	// ErrAlreadyStarted 节点已启动
	ErrAlreadyStarted = errors.New("peer: already started")

	// ErrNotStarted 节点未启动
	ErrNotStarted = errors.New("peer: not started")
)
