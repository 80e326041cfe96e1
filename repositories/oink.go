//go:generate go run go.uber.org/mock/mockgen -source=oink.go -destination=../mocks/mock_oink_repository.go -package=mocks
package repositories

import (
	"chat-local/domain"
	"chat-local/errors"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"
)

const OinksKey = "oinks"

type IOinkRepository interface {
	List() []domain.Oink
	Append(oink domain.Oink) error
	MarkViewed(id string) (bool, error)
}

// OinkRepository stores oinks as one ordered JSON array, newest first.
type OinkRepository struct {
	mu    sync.Mutex
	store IBlobStore
	log   *slog.Logger
}

func NewOinkRepository(store IBlobStore, log *slog.Logger) *OinkRepository {
	return &OinkRepository{store: store, log: log}
}

// List falls back to an empty list when the blob can't be read.
func (o *OinkRepository) List() []domain.Oink {
	o.mu.Lock()
	defer o.mu.Unlock()
	oinks, err := o.load()
	if err != nil {
		o.log.Warn("Oinks unreadable, listing none", "key", OinksKey, "error", err)
		return []domain.Oink{}
	}
	return oinks
}

// Append refuses to write when the stored list can't be read, so a transient
// failure never replaces the history.
func (o *OinkRepository) Append(oink domain.Oink) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	oinks, err := o.load()
	if err != nil {
		return err
	}
	return o.save(append([]domain.Oink{oink}, oinks...))
}

func (o *OinkRepository) MarkViewed(id string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	oinks, err := o.load()
	if err != nil {
		return false, err
	}
	_, idx, ok := lo.FindIndexOf(oinks, func(oink domain.Oink) bool { return oink.ID == id })
	if !ok || oinks[idx].Viewed {
		return false, nil
	}
	oinks[idx].Viewed = true
	return true, o.save(oinks)
}

// load returns an empty list only when nothing was ever stored.
func (o *OinkRepository) load() ([]domain.Oink, error) {
	bytes, err := o.store.Get(OinksKey)
	if goerrors.Is(err, errors.ErrKeyNotFound) {
		return []domain.Oink{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", OinksKey, err)
	}
	var oinks []domain.Oink
	if err = json.Unmarshal(bytes, &oinks); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", OinksKey, err)
	}
	if oinks == nil {
		oinks = []domain.Oink{}
	}
	return oinks, nil
}

func (o *OinkRepository) save(oinks []domain.Oink) error {
	bytes, err := json.Marshal(oinks)
	if err != nil {
		return err
	}
	return o.store.Set(OinksKey, bytes)
}
