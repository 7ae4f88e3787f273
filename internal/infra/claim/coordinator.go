package claim

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/coachly/call-scheduler/internal/models"
)

// ======================================================
// Slot Claim Coordinator
// ======================================================
//
// Serializa confirmações concorrentes sobre a agenda de um coach.
// O lock Redis por coach enfileira processos rivais ANTES da
// transação; a verificação com SELECT ... FOR UPDATE dentro de
// ConfirmEventClaimed continua sendo a fonte de verdade, então a
// perda do Redis degrada latência, nunca corretude.

type Store interface {
	ConfirmEventClaimed(
		ctx context.Context,
		ev *models.SchedulableEvent,
		note *models.SchedulingNote,
		jobs []models.ReminderJob,
		token *models.BookingToken,
	) error
}

type Coordinator struct {
	store  Store
	locker *redis.Client

	lockTTL   time.Duration
	retryWait time.Duration
	maxWait   time.Duration
}

func NewCoordinator(store Store, locker *redis.Client) *Coordinator {
	return &Coordinator{
		store:     store,
		locker:    locker,
		lockTTL:   5 * time.Second,
		retryWait: 50 * time.Millisecond,
		maxWait:   2 * time.Second,
	}
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
end
return 0
`)

// Confirm adquire o lock do coach, executa o compare-and-set no
// banco e libera. Quem perde a corrida recebe slot_conflict do
// próprio store.
func (c *Coordinator) Confirm(
	ctx context.Context,
	ev *models.SchedulableEvent,
	note *models.SchedulingNote,
	jobs []models.ReminderJob,
	token *models.BookingToken,
) error {

	if c.locker == nil {
		return c.store.ConfirmEventClaimed(ctx, ev, note, jobs, token)
	}

	key := fmt.Sprintf("claim:coach:%d", ev.HostUserID)
	owner := uuid.NewString()

	if err := c.acquire(ctx, key, owner); err != nil {
		// sem lock ainda temos o CAS transacional
		return c.store.ConfirmEventClaimed(ctx, ev, note, jobs, token)
	}
	defer releaseScript.Run(context.Background(), c.locker, []string{key}, owner)

	return c.store.ConfirmEventClaimed(ctx, ev, note, jobs, token)
}

func (c *Coordinator) acquire(ctx context.Context, key, owner string) error {
	deadline := time.Now().Add(c.maxWait)

	for {
		ok, err := c.locker.SetNX(ctx, key, owner, c.lockTTL).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("claim lock busy: %s", key)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryWait):
		}
	}
}
