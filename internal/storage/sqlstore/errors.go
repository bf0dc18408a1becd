package sqlstore

import (
	"fmt"

	"github.com/mmynk/settleup/internal/storage"
)

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
}
