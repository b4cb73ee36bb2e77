// Package subpub — синхронная шина событий внутри процесса.
//
// Подписчики регистрируют именованные колл-бэки на строковых каналах; Emit
// передаёт значение всем колл-бэкам канала по очереди, в горутине
// вызывающего. Имя нужно только для отписки и может повторяться:
// Unsubscribe удаляет все подписки с этим именем.
//
//	reg := subpub.New[string]()
//	reg.Subscribe("audit", "orders", func(msg string) { fmt.Println(msg) })
//	reg.Emit("orders", "created")
//	reg.Unsubscribe("audit", "orders")
package subpub
