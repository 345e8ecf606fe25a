package wire

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dep2p/go-hypercube/pkg/types"
)

// Request 一次请求
type Request struct {
	// ID 请求标识，可为空
	ID string

	// Command 命令
	Command Command
}

// NewRequest 创建带随机 ID 的请求
func NewRequest(cmd Command) Request {
	return Request{ID: NewID(), Command: cmd}
}

// NewID 生成请求 ID
func NewID() string {
	return uuid.NewString()
}

// rawRequest 请求的线上形式
type rawRequest struct {
	Command string  `json:"command"`
	Topic   *string `json:"topic"`
	Message *string `json:"message,omitempty"`
	ID      string  `json:"id,omitempty"`
}

// MarshalJSON 实现 json.Marshaler
func (r Request) MarshalJSON() ([]byte, error) {
	if r.Command == nil {
		return nil, fmt.Errorf("%w: nil command", ErrMalformed)
	}
	topic := r.Command.Topic()
	raw := rawRequest{
		Command: r.Command.Verb().String(),
		Topic:   &topic,
		ID:      r.ID,
	}
	if p, ok := r.Command.(Publish); ok {
		raw.Message = &p.Message
	}
	return json.Marshal(raw)
}

// UnmarshalJSON 实现 json.Unmarshaler
//
// 未知命令返回 ErrUnknownCommand，其余问题返回 ErrMalformed。
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw rawRequest
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw.Command == "" {
		return fmt.Errorf("%w: missing command", ErrMalformed)
	}

	verb, err := types.ParseVerb(raw.Command)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, raw.Command)
	}
	if raw.Topic == nil || *raw.Topic == "" {
		return fmt.Errorf("%w: missing topic", ErrMalformed)
	}
	if verb == types.VerbPublish && raw.Message == nil {
		return fmt.Errorf("%w: missing message", ErrMalformed)
	}

	var message string
	if raw.Message != nil {
		message = *raw.Message
	}
	cmd, err := NewCommand(verb, *raw.Topic, message)
	if err != nil {
		return err
	}
	r.ID = raw.ID
	r.Command = cmd
	return nil
}
