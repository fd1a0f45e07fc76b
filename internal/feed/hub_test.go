package feed

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"burgerstock/internal/fulfillment"
	"burgerstock/internal/logging"
	"burgerstock/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(logging.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	hub.Publish(Event{Type: EventRestock})
	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	// Publishing after shutdown must not block.
	hub.Publish(Event{Type: EventRestock})
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/stock"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestSubscriberReceivesSnapshotAndChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	snapshot := func(context.Context) ([]models.StockItem, error) {
		return []models.StockItem{{Name: "Buns", Quantity: decimal.NewFromInt(10)}}, nil
	}
	hub := NewHub(logging.Nop(), snapshot)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	router := gin.New()
	router.GET("/ws/stock", hub.ServeWS)
	srv := httptest.NewServer(router)

	conn := dial(t, srv)

	ev := readEvent(t, conn)
	assert.Equal(t, EventSnapshot, ev.Type)
	require.Len(t, ev.Items, 1)
	assert.Equal(t, "Buns", ev.Items[0].Name)

	hub.StockRestocked(models.StockItem{Name: "Cola", Quantity: decimal.NewFromInt(15)}, decimal.NewFromInt(5))
	ev = readEvent(t, conn)
	assert.Equal(t, EventRestock, ev.Type)
	require.Len(t, ev.Items, 1)
	assert.True(t, ev.Items[0].Quantity.Equal(decimal.NewFromInt(15)))

	// Rejected orders are not published; the next message is the committed one.
	hub.OrderProcessed(fulfillment.Outcome{Err: &models.NotFoundError{Name: "Root Beer"}})
	hub.OrderProcessed(fulfillment.Outcome{Receipt: &fulfillment.Receipt{
		Record: &models.OrderRecord{ID: 3, OrderType: models.OrderTypeDrink, Customizations: "Cola x1"},
		Stock:  []models.StockItem{{Name: "Cola", Quantity: decimal.NewFromInt(14)}},
	}})
	ev = readEvent(t, conn)
	assert.Equal(t, EventOrder, ev.Type)
	require.NotNil(t, ev.Order)
	assert.Equal(t, "Cola x1", ev.Order.Customizations)

	// Shutting the hub down closes the subscriber.
	cancel()
	<-stopped
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	conn.Close()
	srv.Close()
}

func TestDisconnectedSubscriberIsRemoved(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(logging.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	router := gin.New()
	router.GET("/ws/stock", hub.ServeWS)
	srv := httptest.NewServer(router)

	conn := dial(t, srv)
	// Give ServeWS time to register before the client goes away.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	// Publishing afterwards must not panic on a closed send channel.
	time.Sleep(50 * time.Millisecond)
	hub.Publish(Event{Type: EventRestock})

	srv.Close()
	cancel()
	<-stopped
}
