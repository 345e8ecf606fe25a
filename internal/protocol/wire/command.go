package wire

import "github.com/dep2p/go-hypercube/pkg/types"

// Command 协议命令
//
// 封闭的变体集合：CreateTopic、Publish、DeleteTopic、Subscribe、Pull。
// 处理方用类型 switch 分派，每个变体只携带自己需要的字段。
type Command interface {
	// Verb 返回命令动词
	Verb() types.Verb

	// Topic 返回目标主题
	Topic() string

	command()
}

// CreateTopic 创建主题
type CreateTopic struct{ Name string }

// Publish 向主题追加一条消息
type Publish struct {
	Name    string
	Message string
}

// DeleteTopic 删除主题
type DeleteTopic struct{ Name string }

// Subscribe 检查主题是否存在
type Subscribe struct{ Name string }

// Pull 拉取主题当前全部消息
type Pull struct{ Name string }

func (CreateTopic) Verb() types.Verb { return types.VerbCreate }
func (Publish) Verb() types.Verb     { return types.VerbPublish }
func (DeleteTopic) Verb() types.Verb { return types.VerbDelete }
func (Subscribe) Verb() types.Verb   { return types.VerbSubscribe }
func (Pull) Verb() types.Verb        { return types.VerbPull }

func (c CreateTopic) Topic() string { return c.Name }
func (c Publish) Topic() string     { return c.Name }
func (c DeleteTopic) Topic() string { return c.Name }
func (c Subscribe) Topic() string   { return c.Name }
func (c Pull) Topic() string        { return c.Name }

func (CreateTopic) command() {}
func (Publish) command()     {}
func (DeleteTopic) command() {}
func (Subscribe) command()   {}
func (Pull) command()        {}

// NewCommand 按动词构造命令，message 仅对 PUBLISH 生效
func NewCommand(verb types.Verb, topic, message string) (Command, error) {
	switch verb {
	case types.VerbCreate:
		return CreateTopic{Name: topic}, nil
	case types.VerbPublish:
		return Publish{Name: topic, Message: message}, nil
	case types.VerbDelete:
		return DeleteTopic{Name: topic}, nil
	case types.VerbSubscribe:
		return Subscribe{Name: topic}, nil
	case types.VerbPull:
		return Pull{Name: topic}, nil
	default:
		return nil, ErrUnknownCommand
	}
}
