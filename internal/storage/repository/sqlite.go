// Package repository реализует хранилище подписок и журнала уведомлений
// поверх встраиваемой базы SQLite.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound запись с таким идентификатором отсутствует.
var ErrNotFound = errors.New("subscription not found")

// Форматы хранения дат. Все моменты времени лежат в TEXT-колонках:
// календарные даты — как 2006-01-02, метки времени — как RFC3339.
const (
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02T15:04:05Z07:00"
)

// Storage обёртка над *sql.DB с методами доступа к данным.
type Storage struct {
	DB *sql.DB
}

// New открывает файл базы данных и проверяет соединение.
// busy_timeout сериализует конкурирующие записи, foreign_keys включает
// проверку ссылки notifications -> subscriptions.
func New(storagePath string) (*Storage, error) {
	const op = "storage.repository.New"

	db, err := sql.Open("sqlite3", storagePath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{DB: db}, nil
}

// Close закрывает соединение с базой.
func (s *Storage) Close() error {
	return s.DB.Close()
}
