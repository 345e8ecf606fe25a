package topicstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/util/logger"
	"github.com/dep2p/go-hypercube/pkg/types"
)

var log = logger.Logger("topicstore")

// op 投递给存储协程的一次操作
type op struct {
	fn    func(Engine)
	reply chan struct{}
}

// Store 由单个协程独占的主题表
type Store struct {
	engine Engine
	ops    chan op

	closeOnce sync.Once
	closing   chan struct{}
	done      chan struct{}
	closeErr  error
}

// New 创建存储并启动存储协程
func New(engine Engine, queueSize int) *Store {
	s := &Store{
		engine:  engine,
		ops:     make(chan op, queueSize),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.loop()
	return s
}

// NewFromConfig 按配置选择引擎并创建存储
func NewFromConfig(cfg config.StoreConfig) (*Store, error) {
	var (
		eng Engine
		err error
	)
	switch cfg.Engine {
	case config.EngineMemory, "":
		eng = NewMemoryEngine()
	case config.EngineBadger:
		eng, err = NewBadgerEngine()
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownEngine, cfg.Engine)
	}
	log.Debug("主题存储已创建", "engine", cfg.Engine, "queue", cfg.QueueSize)
	return New(eng, cfg.QueueSize), nil
}

func (s *Store) loop() {
	defer close(s.done)
	for {
		select {
		case o := <-s.ops:
			o.fn(s.engine)
			close(o.reply)
		case <-s.closing:
			s.closeErr = s.engine.Close()
			return
		}
	}
}

// do 在存储协程中执行 fn 并等待完成
//
// ctx 只约束排队等待；一旦被存储协程取出，fn 总会执行完。
func (s *Store) do(ctx context.Context, fn func(Engine)) error {
	o := op{fn: fn, reply: make(chan struct{})}
	select {
	case s.ops <- o:
	case <-s.closing:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-o.reply:
		return nil
	case <-s.done:
		// 关闭与出队竞争时，操作可能未执行
		select {
		case <-o.reply:
			return nil
		default:
			return ErrClosed
		}
	}
}

// Create 创建主题
func (s *Store) Create(ctx context.Context, topic string) (types.Status, error) {
	if topic == "" {
		return "", ErrEmptyTopic
	}
	var (
		created bool
		err     error
	)
	if derr := s.do(ctx, func(e Engine) { created, err = e.Create(topic) }); derr != nil {
		return "", derr
	}
	if err != nil {
		return "", err
	}
	if !created {
		return types.StatusAlreadyExists, nil
	}
	return types.StatusCreated, nil
}

// Publish 向主题追加消息
func (s *Store) Publish(ctx context.Context, topic, message string) (types.Status, error) {
	if topic == "" {
		return "", ErrEmptyTopic
	}
	var (
		ok  bool
		err error
	)
	if derr := s.do(ctx, func(e Engine) { ok, err = e.Append(topic, message) }); derr != nil {
		return "", derr
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return types.StatusNotFound, nil
	}
	return types.StatusPublished, nil
}

// Delete 删除主题及其全部消息
func (s *Store) Delete(ctx context.Context, topic string) (types.Status, error) {
	if topic == "" {
		return "", ErrEmptyTopic
	}
	var (
		ok  bool
		err error
	)
	if derr := s.do(ctx, func(e Engine) { ok, err = e.Delete(topic) }); derr != nil {
		return "", derr
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return types.StatusNotFound, nil
	}
	return types.StatusDeleted, nil
}

// Subscribe 检查主题是否存在，不记录订阅者
func (s *Store) Subscribe(ctx context.Context, topic string) (types.Status, error) {
	if topic == "" {
		return "", ErrEmptyTopic
	}
	var (
		ok  bool
		err error
	)
	if derr := s.do(ctx, func(e Engine) { ok, err = e.Exists(topic) }); derr != nil {
		return "", derr
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return types.StatusNotFound, nil
	}
	return types.StatusSubscribed, nil
}

// Pull 返回主题当前全部消息，不消费
//
// 主题不存在时 found 为 false。
func (s *Store) Pull(ctx context.Context, topic string) (messages []string, found bool, err error) {
	if topic == "" {
		return nil, false, ErrEmptyTopic
	}
	var eerr error
	if derr := s.do(ctx, func(e Engine) { messages, found, eerr = e.Messages(topic) }); derr != nil {
		return nil, false, derr
	}
	if eerr != nil {
		return nil, false, eerr
	}
	if found && messages == nil {
		messages = []string{}
	}
	return messages, found, nil
}

// Count 返回主题数
func (s *Store) Count(ctx context.Context) (int, error) {
	var (
		n   int
		err error
	)
	if derr := s.do(ctx, func(e Engine) { n, err = e.Count() }); derr != nil {
		return 0, derr
	}
	return n, err
}

// Close 停止存储协程并关闭引擎
//
// 已排队但尚未执行的操作返回 ErrClosed。
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.closing)
	})
	<-s.done
	return s.closeErr
}
