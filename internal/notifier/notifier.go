// Package notifier содержит интерфейс отправки уведомлений и его реализации.
//
// Отправка всегда fire-and-forget: вызывающий логирует ошибку и продолжает
// работу, повторных попыток нет.
package notifier

// Notifier отправляет одно уведомление получателю.
// Реализация сама решает, что такое получатель: email-адрес или номер WhatsApp.
type Notifier interface {
	Send(recipient, subject, body string) error
}
