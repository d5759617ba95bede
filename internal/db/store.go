package db

import (
	"context"
	"errors"
	"fmt"

	"Portfolio/internal/models"
)

var ErrUnknownSection = errors.New("db: unknown section")

// Backend хранит по одному Record на раздел.
// Update атомарен в пределах раздела: fn видит последнее сохранённое
// состояние, и параллельные Update одного раздела не теряют изменений.
type Backend interface {
	Get(ctx context.Context, sec models.Section) (models.Record, error)
	Update(ctx context.Context, sec models.Section, fn func(*models.Record) error) (models.Record, error)
	Close() error
}

func checkSection(sec models.Section) error {
	if !sec.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSection, sec)
	}
	return nil
}
