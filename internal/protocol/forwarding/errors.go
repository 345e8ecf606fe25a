package forwarding

import "errors"

var (
	// ErrNoCandidates 没有可尝试的下一跳（已是归属节点）
	ErrNoCandidates = errors.New("forwarding: no candidates")

	// ErrExchange 一次请求/响应交换失败
	ErrExchange = errors.New("forwarding: exchange failed")
)
