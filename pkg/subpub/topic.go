package subpub

import (
	"slices"
	"sync"
)

// topic хранит упорядоченный список подписок одного канала.
type topic[T any] struct {
	mu   sync.Mutex        // защищает subs
	subs []subscription[T] // порядок доставки = порядок Subscribe
}

func newTopic[T any]() *topic[T] {
	return &topic[T]{}
}

func (t *topic[T]) add(s subscription[T]) {
	t.mu.Lock()
	t.subs = append(t.subs, s)
	t.mu.Unlock()
}

// removeByName удаляет все подписки с именем name, сохраняя порядок
// остальных, и возвращает число удалённых.
func (t *topic[T]) removeByName(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	before := len(t.subs)
	t.subs = slices.DeleteFunc(t.subs, func(s subscription[T]) bool {
		return s.name == name
	})
	return before - len(t.subs)
}

// snapshot возвращает копию подписок: её можно обходить, пока subs меняется.
func (t *topic[T]) snapshot() []subscription[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.subs)
}
