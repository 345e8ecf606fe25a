package wire

import (
	"encoding/json"
	"fmt"

	"github.com/dep2p/go-hypercube/pkg/types"
)

// Response 一次响应
//
// Messages 非 nil 时为消息列表响应，否则为状态响应。
type Response struct {
	Status   types.Status
	Messages []string
}

// StatusResponse 构造状态响应
func StatusResponse(s types.Status) Response {
	return Response{Status: s}
}

// MessagesResponse 构造消息列表响应，nil 视为空列表
func MessagesResponse(msgs []string) Response {
	if msgs == nil {
		msgs = []string{}
	}
	return Response{Messages: msgs}
}

// IsMessages 是否为消息列表响应
func (r Response) IsMessages() bool {
	return r.Messages != nil
}

// String 便于日志输出
func (r Response) String() string {
	if r.IsMessages() {
		return fmt.Sprintf("messages(%d)", len(r.Messages))
	}
	return r.Status.String()
}

type rawResponse struct {
	Status   *string   `json:"status,omitempty"`
	Messages *[]string `json:"messages,omitempty"`
}

// MarshalJSON 实现 json.Marshaler
func (r Response) MarshalJSON() ([]byte, error) {
	if r.IsMessages() {
		return json.Marshal(rawResponse{Messages: &r.Messages})
	}
	s := r.Status.String()
	return json.Marshal(rawResponse{Status: &s})
}

// UnmarshalJSON 实现 json.Unmarshaler
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw rawResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	switch {
	case raw.Messages != nil:
		*r = MessagesResponse(*raw.Messages)
	case raw.Status != nil:
		*r = StatusResponse(types.Status(*raw.Status))
	default:
		return ErrBadResponse
	}
	return nil
}
