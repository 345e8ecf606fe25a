package topicstore

import "errors"

var (
	// ErrClosed 存储已关闭
	ErrClosed = errors.New("topicstore: closed")

	// ErrEmptyTopic 主题名为空
	ErrEmptyTopic = errors.New("topicstore: empty topic")
)
