package broker

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType определяет типы событий
type EventType string

const (
	// Входящие события
	EventJoinQueue   EventType = "join_queue"
	EventCreateRoom  EventType = "create_room"
	EventJoinRoom    EventType = "join_room"
	EventSendMessage EventType = "send_message"
	EventTypingStart EventType = "typing_start"
	EventTypingStop  EventType = "typing_stop"
	EventLeaveChat   EventType = "leave_chat"

	// Исходящие события
	EventMatchFound          EventType = "match_found"
	EventRoomCreated         EventType = "room_created"
	EventStartChat           EventType = "start_chat"
	EventReceiveMessage      EventType = "receive_message"
	EventPartnerTyping       EventType = "partner_typing"
	EventPartnerLeft         EventType = "partner_left"
	EventPartnerDisconnected EventType = "partner_disconnected"
	EventError               EventType = "error"
)

// Envelope — кадр протокола поверх WebSocket
type Envelope struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// JoinQueuePayload структура для join_queue
type JoinQueuePayload struct {
	Role string `json:"role"`
	Tag  string `json:"tag"`
}

// JoinRoomPayload структура для join_room
type JoinRoomPayload struct {
	Code string `json:"code"`
}

// MatchFoundPayload структура для match_found
type MatchFoundPayload struct {
	SessionID uuid.UUID `json:"session_id"`
}

// RoomCreatedPayload структура для room_created
type RoomCreatedPayload struct {
	Code string `json:"code"`
}

// TypingPayload структура для partner_typing
type TypingPayload struct {
	Typing bool `json:"typing"`
}

// ErrorPayload структура для error
type ErrorPayload struct {
	Error string `json:"error"`
}

// Peer — транспортный конец участника. Брокер владеет только
// идентификаторами; доставка исходящих событий идет через этот интерфейс.
type Peer interface {
	// Send сериализует data и отправляет событие участнику.
	// json.RawMessage проходит без изменений.
	Send(evt EventType, data interface{}) error

	// Close закрывает исходящую очередь участника.
	Close()
}
