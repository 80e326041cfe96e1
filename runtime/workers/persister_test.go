package workers

import (
	"chat-local/domain"
	"chat-local/mocks"
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	someMessages = map[domain.ChatID][]domain.Message{"u_alex": {{ID: "m1", Text: "hi"}}}
	someChats    = []domain.ChatRoom{{ID: "u_alex", LastMessage: "hi"}}
)

func TestPersister_CoalescesWithinInterval(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockISnapshotRepository(ctrl)
	source := mocks.NewMockSnapshotSource(ctrl)
	clock := clockwork.NewFakeClock()
	persister := NewPersister(logs.GetLoggerFromLevel(slog.LevelDebug), clock, repository, 500*time.Millisecond)
	persister.Attach(source)

	var writes atomic.Int32
	source.EXPECT().Snapshot().Return(someMessages, someChats).AnyTimes()
	repository.EXPECT().Persist(someMessages, someChats).DoAndReturn(
		func(map[domain.ChatID][]domain.Message, []domain.ChatRoom) error {
			writes.Add(1)
			return nil
		}).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = persister.Run(ctx)
		close(done)
	}()

	// When three mutations happen in a burst
	persister.MarkDirty()
	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	req.NoError(clock.BlockUntilContext(waitCtx, 1))
	persister.MarkDirty()
	persister.MarkDirty()

	// Then nothing is written before the window closes
	req.Zero(writes.Load())

	clock.Advance(500 * time.Millisecond)
	req.Eventually(func() bool { return writes.Load() >= 1 }, time.Second, 5*time.Millisecond)

	// And the marks made during the window are flushed by the next window or at shutdown
	cancel()
	<-done
	req.LessOrEqual(writes.Load(), int32(2))
}

func TestPersister_FlushesOnShutdown(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockISnapshotRepository(ctrl)
	source := mocks.NewMockSnapshotSource(ctrl)
	clock := clockwork.NewFakeClock()
	persister := NewPersister(slog.Default(), clock, repository, time.Hour)
	persister.Attach(source)

	source.EXPECT().Snapshot().Return(someMessages, someChats).Times(1)
	repository.EXPECT().Persist(someMessages, someChats).Return(nil).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- persister.Run(ctx) }()

	// Given a pending change far from its flush deadline
	persister.MarkDirty()
	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	req.NoError(clock.BlockUntilContext(waitCtx, 1))

	// When shutting down
	cancel()

	// Then it is written before Run returns
	req.NoError(<-done)
}

func TestPersister_NothingPending_NoWriteOnShutdown(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockISnapshotRepository(ctrl)
	persister := NewPersister(slog.Default(), clockwork.NewFakeClock(), repository, time.Second)
	persister.Attach(mocks.NewMockSnapshotSource(ctrl))

	repository.EXPECT().Persist(gomock.Any(), gomock.Any()).Times(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.NoError(persister.Run(ctx))
}

func TestPersister_ZeroInterval_WritesImmediately(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockISnapshotRepository(ctrl)
	source := mocks.NewMockSnapshotSource(ctrl)
	persister := NewPersister(slog.Default(), clockwork.NewFakeClock(), repository, 0)
	persister.Attach(source)

	written := make(chan struct{})
	source.EXPECT().Snapshot().Return(someMessages, someChats)
	repository.EXPECT().Persist(someMessages, someChats).DoAndReturn(
		func(map[domain.ChatID][]domain.Message, []domain.ChatRoom) error {
			close(written)
			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = persister.Run(ctx) }()

	persister.MarkDirty()

	select {
	case <-written:
	case <-time.After(time.Second):
		req.Fail("persister should have written without waiting")
	}
}

func TestPersister_Flush_WriteFailureIsSwallowed(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockISnapshotRepository(ctrl)
	source := mocks.NewMockSnapshotSource(ctrl)
	persister := NewPersister(slog.Default(), clockwork.NewFakeClock(), repository, time.Second)
	persister.Attach(source)

	source.EXPECT().Snapshot().Return(someMessages, someChats)
	repository.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(fmt.Errorf("quota exceeded"))

	req.NotPanics(persister.Flush)
}

func TestPersister_Flush_WithoutSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockISnapshotRepository(ctrl)
	persister := NewPersister(slog.Default(), clockwork.NewFakeClock(), repository, time.Second)

	repository.EXPECT().Persist(gomock.Any(), gomock.Any()).Times(0)

	persister.Flush()
}
