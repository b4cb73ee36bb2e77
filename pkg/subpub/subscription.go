package subpub

// subscription — одна запись (имя, колл-бэк) канала.
type subscription[T any] struct {
	name     string      // ключ для Unsubscribe, не уникален
	callback Callback[T] // может быть nil
}
