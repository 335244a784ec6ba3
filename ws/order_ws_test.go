package ws

import (
	"context"
	"testing"
	"time"

	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishNeverBlocksOnFullQueue(t *testing.T) {
	// Run is not started, so nothing drains the queue
	hub := NewOrderHub(nil)
	queued := cap(hub.broadcast)

	done := make(chan []error)
	go func() {
		var errs []error
		for i := 0; i < queued+5; i++ {
			errs = append(errs, hub.Publish(context.Background(), services.OrderEvent{OrderID: uint(i + 1)}))
		}
		done <- errs
	}()

	select {
	case errs := <-done:
		for _, err := range errs[:queued] {
			assert.NoError(t, err)
		}
		for _, err := range errs[queued:] {
			assert.ErrorIs(t, err, ErrHubBusy)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked with a full queue")
	}
}

func TestPublishAfterShutdownIsNoop(t *testing.T) {
	hub := NewOrderHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	for i := 0; i < cap(hub.broadcast)+1; i++ {
		require.NoError(t, hub.Publish(context.Background(), services.OrderEvent{OrderID: 1}))
	}
}
