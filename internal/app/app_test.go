package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alimikegami/pos-microservices/payment-service/config"
	"github.com/alimikegami/pos-microservices/payment-service/internal/infrastructure/message-queue/kafka"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPublisherClosed = errors.New("publisher closed")

type trackingPublisher struct {
	mu        sync.Mutex
	closed    bool
	published int
	lateErr   error
}

func (p *trackingPublisher) Publish(ctx context.Context, key string, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.lateErr = errPublisherClosed
		return errPublisherClosed
	}
	p.published++
	return nil
}

func (p *trackingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func TestCreateApp_WithoutBroker(t *testing.T) {
	app := CreateApp(nil, &config.Config{})

	require.NotNil(t, app.Server)
	assert.Equal(t, kafka.NoopPublisher{}, app.publisher)
}

func TestStopServer_BeforeStart(t *testing.T) {
	app := CreateApp(nil, &config.Config{})

	assert.NoError(t, app.StopServer())
}

func TestStopServer_DrainsRequestsBeforeClosingPublisher(t *testing.T) {
	app := CreateApp(nil, &config.Config{})
	publisher := &trackingPublisher{}
	app.publisher = publisher

	entered := make(chan struct{})
	release := make(chan struct{})
	app.Server.GET("/slow", func(c echo.Context) error {
		close(entered)
		<-release
		if err := app.publisher.Publish(c.Request().Context(), "ORD-1", "payment_status_changed", nil); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	app.Server.Listener = ln

	go app.Server.Start("")

	respCh := make(chan *http.Response, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/slow")
		if err == nil {
			resp.Body.Close()
		}
		respCh <- resp
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}

	stopped := make(chan error, 1)
	go func() { stopped <- app.StopServer() }()

	time.Sleep(50 * time.Millisecond)
	close(release)

	require.NoError(t, <-stopped)

	resp := <-respCh
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	assert.True(t, publisher.closed)
	assert.Equal(t, 1, publisher.published)
	assert.NoError(t, publisher.lateErr)
}
