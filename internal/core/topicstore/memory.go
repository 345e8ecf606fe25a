package topicstore

// memoryEngine 基于 map 的引擎
type memoryEngine struct {
	topics map[string][]string
}

// NewMemoryEngine 创建内存引擎
func NewMemoryEngine() Engine {
	return &memoryEngine{topics: make(map[string][]string)}
}

func (e *memoryEngine) Create(topic string) (bool, error) {
	if _, ok := e.topics[topic]; ok {
		return false, nil
	}
	e.topics[topic] = []string{}
	return true, nil
}

func (e *memoryEngine) Exists(topic string) (bool, error) {
	_, ok := e.topics[topic]
	return ok, nil
}

func (e *memoryEngine) Append(topic, message string) (bool, error) {
	buf, ok := e.topics[topic]
	if !ok {
		return false, nil
	}
	e.topics[topic] = append(buf, message)
	return true, nil
}

func (e *memoryEngine) Messages(topic string) ([]string, bool, error) {
	buf, ok := e.topics[topic]
	if !ok {
		return nil, false, nil
	}
	// 调用方在存储协程之外读取，必须复制
	out := make([]string, len(buf))
	copy(out, buf)
	return out, true, nil
}

func (e *memoryEngine) Delete(topic string) (bool, error) {
	if _, ok := e.topics[topic]; !ok {
		return false, nil
	}
	delete(e.topics, topic)
	return true, nil
}

func (e *memoryEngine) Count() (int, error) {
	return len(e.topics), nil
}

func (e *memoryEngine) Close() error {
	e.topics = nil
	return nil
}
