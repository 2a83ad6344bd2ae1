package cache

import "time"

// Noop кеш-заглушка: используется, когда Redis выключен в конфиге.
type Noop struct{}

// Get всегда сообщает о промахе.
func (Noop) Get(_ string, _ any) (bool, error) { return false, nil }

// Set ничего не сохраняет.
func (Noop) Set(_ string, _ any, _ time.Duration) error { return nil }

// Invalidate ничего не делает.
func (Noop) Invalidate(_ string) error { return nil }
