package services

import (
	"chat-local/domain"
	"chat-local/errors"
	"chat-local/repositories"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
)

// OinkService records "poke" notifications between members.
type OinkService struct {
	log        *slog.Logger
	repository repositories.IOinkRepository
	clock      clockwork.Clock
}

func NewOinkService(log *slog.Logger, repository repositories.IOinkRepository, clock clockwork.Clock) *OinkService {
	return &OinkService{log: log, repository: repository, clock: clock}
}

// Send records that from oinked target. The stored display name and avatar
// are the sender's, which is what the target gets to see.
func (o *OinkService) Send(from, target domain.Profile) (domain.Oink, error) {
	oink := domain.Oink{
		ID:          uuid.NewString(),
		FromUserID:  from.ID,
		TargetID:    target.ID,
		DisplayName: from.DisplayName,
		Avatar:      from.Avatar,
		Time:        o.clock.Now().UTC(),
	}
	if err := domain.ValidateOink(oink); err != nil {
		return domain.Oink{}, fmt.Errorf("%w: %v", errors.ErrInvalidOink, err)
	}
	if err := o.repository.Append(oink); err != nil {
		return domain.Oink{}, err
	}
	o.log.Debug("Oink sent", "from", from.ID, "target", target.ID)
	return oink, nil
}

func (o *OinkService) List() []domain.Oink {
	return o.repository.List()
}

// Received lists the oinks addressed to userID, newest first.
func (o *OinkService) Received(userID string) []domain.Oink {
	return lo.Filter(o.repository.List(), func(oink domain.Oink, _ int) bool {
		return oink.TargetID == userID
	})
}

// Sent lists the oinks userID sent, newest first.
func (o *OinkService) Sent(userID string) []domain.Oink {
	return lo.Filter(o.repository.List(), func(oink domain.Oink, _ int) bool {
		return oink.FromUserID == userID
	})
}

func (o *OinkService) Unviewed(userID string) int {
	return lo.CountBy(o.Received(userID), func(oink domain.Oink) bool { return !oink.Viewed })
}

func (o *OinkService) MarkViewed(id string) (bool, error) {
	return o.repository.MarkViewed(id)
}
