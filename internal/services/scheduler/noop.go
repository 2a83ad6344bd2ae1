package services

// NoopPublisher используется, когда брокер сообщений не настроен:
// события истечения отбрасываются, журнал уведомлений остаётся
// единственным следом перехода.
type NoopPublisher struct{}

// Publish ничего не делает и всегда успешен.
func (NoopPublisher) Publish(_ string, _ any) error {
	return nil
}
