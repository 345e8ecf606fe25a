package topicstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const (
	prefixTopic   byte = 't'
	prefixMessage byte = 'm'
)

// badgerEngine 基于 BadgerDB 内存模式的引擎
type badgerEngine struct {
	db *badger.DB
}

// NewBadgerEngine 打开一个内存模式的 BadgerDB
func NewBadgerEngine() (Engine, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithMemTableSize(16 << 20).
		WithNumMemtables(2).
		WithBlockCacheSize(8 << 20).
		WithLogger(&badgerLogger{log.With("engine", "badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("topicstore: open badger: %w", err)
	}
	return &badgerEngine{db: db}, nil
}

func topicKey(topic string) []byte {
	k := make([]byte, 0, 1+len(topic))
	k = append(k, prefixTopic)
	return append(k, topic...)
}

// messagePrefix 带长度前缀，避免主题 "a" 的消息键与主题 "ab" 的重叠
func messagePrefix(topic string) []byte {
	k := make([]byte, 0, 5+len(topic)+8)
	k = append(k, prefixMessage)
	k = binary.BigEndian.AppendUint32(k, uint32(len(topic)))
	return append(k, topic...)
}

func messageKey(topic string, seq uint64) []byte {
	return binary.BigEndian.AppendUint64(messagePrefix(topic), seq)
}

// count 读取主题的消息数
func count(txn *badger.Txn, topic string) (uint64, bool, error) {
	item, err := txn.Get(topicKey(topic))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var n uint64
	err = item.Value(func(v []byte) error {
		if len(v) != 8 {
			return fmt.Errorf("topicstore: corrupt counter for %q", topic)
		}
		n = binary.BigEndian.Uint64(v)
		return nil
	})
	return n, true, err
}

func encodeCount(n uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, n)
}

func (e *badgerEngine) Create(topic string) (bool, error) {
	created := false
	err := e.db.Update(func(txn *badger.Txn) error {
		_, ok, err := count(txn, topic)
		if err != nil || ok {
			return err
		}
		created = true
		return txn.Set(topicKey(topic), encodeCount(0))
	})
	return created, err
}

func (e *badgerEngine) Exists(topic string) (bool, error) {
	var ok bool
	err := e.db.View(func(txn *badger.Txn) error {
		var err error
		_, ok, err = count(txn, topic)
		return err
	})
	return ok, err
}

func (e *badgerEngine) Append(topic, message string) (bool, error) {
	appended := false
	err := e.db.Update(func(txn *badger.Txn) error {
		n, ok, err := count(txn, topic)
		if err != nil || !ok {
			return err
		}
		if err := txn.Set(messageKey(topic, n), []byte(message)); err != nil {
			return err
		}
		appended = true
		return txn.Set(topicKey(topic), encodeCount(n+1))
	})
	return appended, err
}

func (e *badgerEngine) Messages(topic string) ([]string, bool, error) {
	var (
		out   []string
		found bool
	)
	err := e.db.View(func(txn *badger.Txn) error {
		n, ok, err := count(txn, topic)
		if err != nil || !ok {
			return err
		}
		found = true
		out = make([]string, 0, n)

		prefix := messagePrefix(topic)
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 100})
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			v, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			out = append(out, string(v))
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, found, nil
}

func (e *badgerEngine) Delete(topic string) (bool, error) {
	var keys [][]byte
	found := false
	err := e.db.View(func(txn *badger.Txn) error {
		_, ok, err := count(txn, topic)
		if err != nil || !ok {
			return err
		}
		found = true
		keys = append(keys, topicKey(topic))

		prefix := messagePrefix(topic)
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil || !found {
		return false, err
	}

	// 大主题可能超过单个事务上限，使用 WriteBatch 分批删除
	wb := e.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return false, err
		}
	}
	if err := wb.Flush(); err != nil {
		return false, err
	}
	return true, nil
}

func (e *badgerEngine) Count() (int, error) {
	n := 0
	err := e.db.View(func(txn *badger.Txn) error {
		prefix := []byte{prefixTopic}
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func (e *badgerEngine) Close() error {
	return e.db.Close()
}

// badgerLogger 把 badger 日志转给 slog
type badgerLogger struct {
	log *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}
