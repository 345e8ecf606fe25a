package types

import "fmt"

// ============================================================================
//                              Verb - 主题操作动词
// ============================================================================

// Verb 主题操作动词（线协议中的 command 字段）
type Verb string

const (
	// VerbCreate 创建主题
	VerbCreate Verb = "CREATE"
	// VerbPublish 向主题追加消息
	VerbPublish Verb = "PUBLISH"
	// VerbDelete 删除主题
	VerbDelete Verb = "DELETE"
	// VerbSubscribe 订阅（仅检查主题是否存在）
	VerbSubscribe Verb = "SUBSCRIBE"
	// VerbPull 拉取主题的完整消息缓冲
	VerbPull Verb = "PULL"
)

// Verbs 返回所有动词
func Verbs() []Verb {
	return []Verb{VerbCreate, VerbPublish, VerbDelete, VerbSubscribe, VerbPull}
}

// ParseVerb 解析动词
//
// 区分大小写，只接受全大写形式。
func ParseVerb(s string) (Verb, error) {
	v := Verb(s)
	switch v {
	case VerbCreate, VerbPublish, VerbDelete, VerbSubscribe, VerbPull:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVerb, s)
	}
}

// String 返回动词字符串
func (v Verb) String() string {
	return string(v)
}

// ============================================================================
//                              Status - 响应状态
// ============================================================================

// Status 响应状态（线协议中的 status 字段）
type Status string

const (
	// StatusCreated 主题已创建
	StatusCreated Status = "Topic created"
	// StatusAlreadyExists 主题已存在（CREATE 幂等）
	StatusAlreadyExists Status = "Topic already exists"
	// StatusPublished 消息已发布
	StatusPublished Status = "Message published"
	// StatusDeleted 主题已删除
	StatusDeleted Status = "Topic deleted"
	// StatusSubscribed 订阅成功
	StatusSubscribed Status = "Subscribed"
	// StatusNotFound 主题不存在
	StatusNotFound Status = "Topic not found"
	// StatusForwardingFailed 所有转发尝试均失败
	StatusForwardingFailed Status = "Failed to forward request"
	// StatusMalformed 无法解码的请求
	StatusMalformed Status = "Malformed request"
	// StatusUnknownAction 未知的 command
	StatusUnknownAction Status = "Unknown action"
	// StatusInternalError 本地存储故障
	StatusInternalError Status = "Internal error"
	// StatusUnreachable 客户端无法完成往返（仅客户端本地产生，不上线）
	StatusUnreachable Status = "Peer unreachable"
)

// String 返回状态字符串
func (s Status) String() string {
	return string(s)
}

// IsNotFound 检查是否为主题不存在
func (s Status) IsNotFound() bool {
	return s == StatusNotFound
}

// IsFailure 检查是否为路由或传输层失败（与主题语义无关）
func (s Status) IsFailure() bool {
	switch s {
	case StatusForwardingFailed, StatusMalformed, StatusUnknownAction, StatusInternalError, StatusUnreachable:
		return true
	default:
		return false
	}
}
