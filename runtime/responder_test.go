package runtime

import (
	"chat-local/contract"
	"chat-local/domain"
	"chat-local/mocks"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type delivered struct {
	mu       sync.Mutex
	messages map[domain.ChatID][]domain.Message
}

func (d *delivered) deliver(id domain.ChatID, m domain.Message, claim func() bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !claim() {
		return
	}
	d.record(id, m)
}

func (d *delivered) record(id domain.ChatID, m domain.Message) {
	if d.messages == nil {
		d.messages = map[domain.ChatID][]domain.Message{}
	}
	d.messages[id] = append(d.messages[id], m)
}

func (d *delivered) count(id domain.ChatID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.messages[id])
}

func (d *delivered) get(id domain.ChatID) []domain.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.Message(nil), d.messages[id]...)
}

func TestResponder_DeliversAfterDelay(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	behavior := mocks.NewMockPeerBehavior(ctrl)
	clock := clockwork.NewFakeClock()
	sink := &delivered{}
	responder := NewResponder(logs.GetLoggerFromLevel(slog.LevelDebug), clock, behavior, sink.deliver)

	behavior.EXPECT().Reply(domain.ChatID("u_alex")).Return(contract.Reply{Text: "hey!", Delay: 3 * time.Second}, true)

	// When a local message goes to a private conversation
	req.True(responder.MaybeScheduleReply("u_alex", true))
	req.Equal(1, responder.Pending("u_alex"))

	// Then nothing arrives before the delay
	clock.Advance(2 * time.Second)
	req.Never(func() bool { return sink.count("u_alex") > 0 }, 50*time.Millisecond, 10*time.Millisecond)

	// And exactly one reply arrives after it
	clock.Advance(time.Second)
	req.Eventually(func() bool { return sink.count("u_alex") == 1 }, time.Second, 5*time.Millisecond)

	reply := sink.get("u_alex")[0]
	req.Equal("u_alex", reply.SenderID)
	req.Equal("hey!", reply.Text)
	req.NotEmpty(reply.ID)
	req.Equal(clock.Now().UnixMilli(), reply.Timestamp)
	req.Zero(responder.Pending("u_alex"))
}

func TestResponder_SkipsRemoteAndPublic(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	behavior := mocks.NewMockPeerBehavior(ctrl)
	responder := NewResponder(slog.Default(), clockwork.NewFakeClock(), behavior, func(domain.ChatID, domain.Message, func() bool) {})

	// Then the behavior is never even asked
	behavior.EXPECT().Reply(gomock.Any()).Times(0)

	req.False(responder.MaybeScheduleReply("u_alex", false))
	req.False(responder.MaybeScheduleReply("room_travel", true))
}

func TestResponder_BehaviorDeclines(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	behavior := mocks.NewMockPeerBehavior(ctrl)
	responder := NewResponder(slog.Default(), clockwork.NewFakeClock(), behavior, func(domain.ChatID, domain.Message, func() bool) {})

	behavior.EXPECT().Reply(gomock.Any()).Return(contract.Reply{}, false)

	req.False(responder.MaybeScheduleReply("u_alex", true))
	req.Zero(responder.Pending("u_alex"))
}

func TestResponder_Cancel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	behavior := mocks.NewMockPeerBehavior(ctrl)
	clock := clockwork.NewFakeClock()
	sink := &delivered{}
	responder := NewResponder(slog.Default(), clock, behavior, sink.deliver)

	behavior.EXPECT().Reply(gomock.Any()).Return(contract.Reply{Text: "late", Delay: 5 * time.Second}, true).Times(3)

	// Given two replies pending for alex and one for sam
	responder.MaybeScheduleReply("u_alex", true)
	responder.MaybeScheduleReply("u_alex", true)
	responder.MaybeScheduleReply("u_sam", true)

	// When alex's conversation is torn down
	req.Equal(2, responder.Cancel("u_alex"))
	req.Zero(responder.Cancel("u_alex"))

	clock.Advance(10 * time.Second)

	// Then only sam gets an answer
	req.Eventually(func() bool { return sink.count("u_sam") == 1 }, time.Second, 5*time.Millisecond)
	req.Zero(sink.count("u_alex"))
}

func TestResponder_Stop(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	behavior := mocks.NewMockPeerBehavior(ctrl)
	clock := clockwork.NewFakeClock()
	sink := &delivered{}
	responder := NewResponder(slog.Default(), clock, behavior, sink.deliver)

	behavior.EXPECT().Reply(gomock.Any()).Return(contract.Reply{Text: "x", Delay: time.Second}, true).AnyTimes()

	responder.MaybeScheduleReply("u_alex", true)
	responder.Stop()

	// Then nothing pending fires and nothing new is accepted
	req.False(responder.MaybeScheduleReply("u_alex", true))
	clock.Advance(time.Minute)
	req.Never(func() bool { return sink.count("u_alex") > 0 }, 50*time.Millisecond, 10*time.Millisecond)
}

func TestResponder_ZeroDelay(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	behavior := mocks.NewMockPeerBehavior(ctrl)
	clock := clockwork.NewFakeClock()
	sink := &delivered{}
	responder := NewResponder(slog.Default(), clock, behavior, sink.deliver)

	behavior.EXPECT().Reply(gomock.Any()).Return(contract.Reply{Text: "now", Delay: -time.Second}, true)

	req.True(responder.MaybeScheduleReply("u_alex", true))
	clock.Advance(0)

	req.Eventually(func() bool { return sink.count("u_alex") == 1 }, time.Second, 5*time.Millisecond)
}

func TestResponder_CancelWhileFiring_DropsReply(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	behavior := mocks.NewMockPeerBehavior(ctrl)
	clock := clockwork.NewFakeClock()
	sink := &delivered{}
	firing := make(chan struct{})
	release := make(chan struct{})

	// Given a delivery that stalls after its timer fired and before it records
	responder := NewResponder(slog.Default(), clock, behavior, func(id domain.ChatID, m domain.Message, claim func() bool) {
		close(firing)
		<-release
		sink.deliver(id, m, claim)
	})
	behavior.EXPECT().Reply(gomock.Any()).Return(contract.Reply{Text: "late", Delay: time.Second}, true)

	req.True(responder.MaybeScheduleReply("u_alex", true))
	clock.Advance(time.Second)
	<-firing

	// When the conversation is cancelled in that window
	req.Equal(1, responder.Cancel("u_alex"))
	close(release)

	// Then the reply never lands
	req.Never(func() bool { return sink.count("u_alex") > 0 }, 50*time.Millisecond, 10*time.Millisecond)
}

func TestResponder_StopWhileFiring_DropsReply(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	behavior := mocks.NewMockPeerBehavior(ctrl)
	clock := clockwork.NewFakeClock()
	sink := &delivered{}
	firing := make(chan struct{})
	release := make(chan struct{})

	responder := NewResponder(slog.Default(), clock, behavior, func(id domain.ChatID, m domain.Message, claim func() bool) {
		close(firing)
		<-release
		sink.deliver(id, m, claim)
	})
	behavior.EXPECT().Reply(gomock.Any()).Return(contract.Reply{Text: "late", Delay: time.Second}, true)

	req.True(responder.MaybeScheduleReply("u_alex", true))
	clock.Advance(time.Second)
	<-firing

	responder.Stop()
	close(release)

	req.Never(func() bool { return sink.count("u_alex") > 0 }, 50*time.Millisecond, 10*time.Millisecond)
}
