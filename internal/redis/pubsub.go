package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SchedulePubSub broadcasts schedule changes so other processes (display
// boards, admin UIs) can refresh their views.
type SchedulePubSub struct {
	rdb     *redis.Client
	channel string
}

func NewSchedulePubSub(rdb *redis.Client) *SchedulePubSub {
	return &SchedulePubSub{
		rdb:     rdb,
		channel: ChannelScheduleChanged(),
	}
}

type scheduleChangedMsg struct {
	Type     string  `json:"type"`
	CourtIDs []int64 `json:"court_ids"`
	TsUnix   int64   `json:"ts_unix"`
}

func (p *SchedulePubSub) PublishScheduleChanged(ctx context.Context, courtIDs ...int64) error {
	msg := scheduleChangedMsg{
		Type:     "schedule_changed",
		CourtIDs: courtIDs,
		TsUnix:   time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *SchedulePubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, courtIDs []int64)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg scheduleChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &msg); err == nil &&
				len(msg.CourtIDs) > 0 {
				handler(ctx, msg.CourtIDs)
			}
		}
	}
}
