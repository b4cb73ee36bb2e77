package subpub

import (
	"runtime/debug"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Callback — колл-бэк подписчика; data передаётся как есть.
type Callback[T any] func(data T)

// FaultHandler узнаёт об ошибке подписчика после того, как она залогирована.
type FaultHandler func(channel, name string, err error)

// Registry хранит для каждого канала упорядоченный список подписчиков и
// синхронно доставляет им данные в порядке подписки.
//
// Registry можно использовать из нескольких горутин. Во время вызова
// колл-бэков мьютексы не удерживаются, поэтому колл-бэк может сам
// подписываться, отписываться и вызывать Emit.
type Registry[T any] struct {
	mu      sync.RWMutex         // защищает topics
	topics  map[string]*topic[T] // канал -> подписчики, каналы не удаляются
	log     logrus.FieldLogger
	onFault FaultHandler
}

// New создаёт пустой Registry.
func New[T any](opts ...Option) *Registry[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry[T]{
		topics:  make(map[string]*topic[T]),
		log:     o.logger,
		onFault: o.onFault,
	}
}

// Subscribe добавляет подписку name в конец канала channel, создавая канал
// при первом обращении. Имена не обязаны быть уникальными, cb может быть
// nil: такие подписки Emit пропускает.
func (r *Registry[T]) Subscribe(name, channel string, cb Callback[T]) {
	t := r.getOrCreateTopic(channel)
	t.add(subscription[T]{name: name, callback: cb})
}

// Unsubscribe удаляет из channel все подписки с именем name и сообщает,
// было ли что-то удалено. Для неизвестного канала — false без изменений.
func (r *Registry[T]) Unsubscribe(name, channel string) bool {
	t, ok := r.lookup(channel)
	if !ok {
		return false
	}
	return t.removeByName(name) > 0
}

// Emit вызывает всех подписчиков channel с data в порядке подписки.
//
// Список подписчиков снимается до первого вызова: подписки, добавленные во
// время Emit, им не вызываются, а удалённые во время Emit — вызываются.
// Паника колл-бэка перехватывается и логируется, доставка продолжается со
// следующего подписчика. Emit в неизвестный канал ничего не делает.
func (r *Registry[T]) Emit(channel string, data T) {
	t, ok := r.lookup(channel)
	if !ok {
		return
	}
	for _, s := range t.snapshot() {
		if s.callback == nil {
			continue
		}
		r.deliver(channel, s, data)
	}
}

// Channels возвращает отсортированные имена всех каналов, у которых
// когда-либо был подписчик.
func (r *Registry[T]) Channels() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.topics))
	for name := range r.topics {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Subscribers возвращает имена подписок channel в порядке доставки или nil,
// если канала нет.
func (r *Registry[T]) Subscribers(channel string) []string {
	t, ok := r.lookup(channel)
	if !ok {
		return nil
	}
	subs := t.snapshot()
	names := make([]string, len(subs))
	for i, s := range subs {
		names[i] = s.name
	}
	return names
}

// deliver вызывает один колл-бэк; паника превращается в залогированную ошибку.
func (r *Registry[T]) deliver(channel string, s subscription[T], data T) {
	defer func() {
		if v := recover(); v != nil {
			r.fault(channel, s.name, newPanicError(v, debug.Stack()))
		}
	}()
	s.callback(data)
}

func (r *Registry[T]) fault(channel, name string, err error) {
	r.log.WithFields(logrus.Fields{
		"channel":    channel,
		"subscriber": name,
	}).WithError(err).Error("subscriber callback failed")

	if r.onFault == nil {
		return
	}
	defer func() {
		if v := recover(); v != nil {
			r.log.WithFields(logrus.Fields{
				"channel":    channel,
				"subscriber": name,
			}).WithError(newPanicError(v, debug.Stack())).Error("fault handler failed")
		}
	}()
	r.onFault(channel, name, err)
}

func (r *Registry[T]) lookup(channel string) (*topic[T], bool) {
	r.mu.RLock()
	t, ok := r.topics[channel]
	r.mu.RUnlock()
	return t, ok
}

// getOrCreateTopic возвращает тему или создаёт новую.
func (r *Registry[T]) getOrCreateTopic(channel string) *topic[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.topics[channel]
	if !ok {
		t = newTopic[T]()
		r.topics[channel] = t
	}
	return t
}
