package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thereayou/pairchat/internal/broker"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10
)

// Client — одно живое соединение участника
type Client struct {
	ID     uuid.UUID
	Conn   *websocket.Conn
	Broker *broker.Broker

	send          chan []byte
	maxFrameBytes int64
	closeOnce     sync.Once
}

func NewClient(conn *websocket.Conn, b *broker.Broker, maxFrameBytes int64) *Client {
	return &Client{
		ID:            uuid.New(),
		Conn:          conn,
		Broker:        b,
		send:          make(chan []byte, 256),
		maxFrameBytes: maxFrameBytes,
	}
}

// ReadPump читает события от клиента и передает их брокеру
func (c *Client) ReadPump() {
	defer func() {
		c.Broker.Unregister(c.ID)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.maxFrameBytes)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var env broker.Envelope
		err := c.Conn.ReadJSON(&env)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.Broker.Dispatch(c.ID, &env)
	}
}

// WritePump отправляет события клиенту
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Брокер закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.Conn.WriteMessage(websocket.TextMessage, message)

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send сериализует событие и ставит его в исходящую очередь.
// json.RawMessage в data проходит без изменений.
func (c *Client) Send(evt broker.EventType, data interface{}) error {
	env := broker.Envelope{
		Type:      evt,
		Timestamp: time.Now(),
	}

	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return err
		}
		env.Data = jsonData
	}

	msgData, err := json.Marshal(env)
	if err != nil {
		return err
	}

	select {
	case c.send <- msgData:
		return nil
	default:
		return ErrClientQueueFull
	}
}

// Close закрывает исходящую очередь, останавливая WritePump
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
