package cli

import (
	"context"
	"fmt"

	redisadapter "github.com/aretw0/gamestate/pkg/adapters/redis"
	"github.com/aretw0/gamestate/pkg/domain"
)

// Emit publishes one event on Redis and returns the number of receivers.
func Emit(ctx context.Context, addr, prefix string, e domain.Event) (int64, error) {
	client := redisadapter.NewClient(addr, "", 0)
	defer client.Close()

	pub := redisadapter.NewPublisher(client, redisadapter.WithPrefix(prefix))
	n, err := pub.Publish(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("emit %s: %w", e.String(), err)
	}
	return n, nil
}
