package repositories

import (
	"chat-local/domain"
	"chat-local/mocks"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestOinkRepository_AppendListMarkViewed(t *testing.T) {
	req := require.New(t)
	store := NewMemoryStore()
	repository := NewOinkRepository(store, logs.GetLoggerFromLevel(slog.LevelDebug))
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	// Given nothing stored
	req.Empty(repository.List())

	// When two oinks are appended
	first := domain.Oink{ID: "o1", FromUserID: "me", TargetID: "u_alex", DisplayName: "Me", Time: at}
	second := domain.Oink{ID: "o2", FromUserID: "u_sam", TargetID: "me", DisplayName: "Sam", Time: at.Add(time.Minute)}
	req.NoError(repository.Append(first))
	req.NoError(repository.Append(second))

	// Then newest comes first
	req.Equal([]domain.Oink{second, first}, repository.List())

	// When one is viewed
	changed, err := repository.MarkViewed("o1")
	req.NoError(err)
	req.True(changed)

	changed, err = repository.MarkViewed("o1")
	req.NoError(err)
	req.False(changed)

	changed, err = repository.MarkViewed("missing")
	req.NoError(err)
	req.False(changed)

	req.True(repository.List()[1].Viewed)
}

func TestOinkRepository_MalformedBlob(t *testing.T) {
	req := require.New(t)
	store := NewMemoryStore()
	repository := NewOinkRepository(store, logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(store.Set(OinksKey, []byte("garbage")))

	req.Empty(repository.List())

	// Writing over it is refused, the blob is left for inspection
	req.Error(repository.Append(domain.Oink{ID: "o1", FromUserID: "me", TargetID: "u_alex"}))
	v, err := store.Get(OinksKey)
	req.NoError(err)
	req.Equal([]byte("garbage"), v)
}

func TestOinkRepository_ReadFailure_NeverOverwrites(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIBlobStore(ctrl)
	repository := NewOinkRepository(store, logs.GetLoggerFromLevel(slog.LevelDebug))
	unavailable := fmt.Errorf("store unavailable")

	// Given the store can't be read for now
	store.EXPECT().Get(OinksKey).Return(nil, unavailable).Times(3)
	store.EXPECT().Set(gomock.Any(), gomock.Any()).Times(0)

	// Then writes fail instead of replacing the history
	err := repository.Append(domain.Oink{ID: "o1", FromUserID: "me", TargetID: "u_alex"})
	req.ErrorIs(err, unavailable)
	_, err = repository.MarkViewed("o1")
	req.ErrorIs(err, unavailable)

	// And listing still degrades to empty
	req.Empty(repository.List())
}
