package broker

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
)

// Broker — единая точка входа для событий участников. Все состояние
// (реестр, очереди, комнаты, сессии) принадлежит одной горутине Run:
// события обрабатываются строго по одному, поэтому подбор пары и
// развал сессии атомарны без блокировок.
type Broker struct {
	registry *registry
	queue    *matchQueue
	rooms    *roomDirectory
	sessions map[uuid.UUID]*session

	register   chan *registration
	unregister chan uuid.UUID
	events     chan *inboundEvent
	stats      chan chan Stats

	ctx    context.Context
	cancel context.CancelFunc
}

type registration struct {
	id   uuid.UUID
	peer Peer
}

type inboundEvent struct {
	from uuid.UUID
	env  *Envelope
}

// Stats — диагностические счетчики брокера
type Stats struct {
	Clients  int `json:"clients"`
	Waiting  int `json:"waiting"`
	Rooms    int `json:"rooms"`
	Sessions int `json:"sessions"`
}

// New создает новый Broker с парой взаимодополняющих ролей
func New(roleA, roleB string) *Broker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Broker{
		registry:   newRegistry(),
		queue:      newMatchQueue(roleA, roleB),
		rooms:      newRoomDirectory(),
		sessions:   make(map[uuid.UUID]*session),
		register:   make(chan *registration),
		unregister: make(chan uuid.UUID),
		events:     make(chan *inboundEvent),
		stats:      make(chan chan Stats),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает цикл обработки событий
func (b *Broker) Run() {
	for {
		select {
		case <-b.ctx.Done():
			return

		case reg := <-b.register:
			b.registry.register(reg.id, reg.peer)
			log.Printf("Client registered: %s", reg.id)

		case id := <-b.unregister:
			b.handleDisconnect(id)

		case evt := <-b.events:
			b.handleEvent(evt.from, evt.env)

		case reply := <-b.stats:
			reply <- Stats{
				Clients:  b.registry.count(),
				Waiting:  b.queue.size(),
				Rooms:    b.rooms.count(),
				Sessions: len(b.sessions),
			}
		}
	}
}

// Stop останавливает цикл обработки
func (b *Broker) Stop() {
	b.cancel()
}

// Register регистрирует новое соединение
func (b *Broker) Register(id uuid.UUID, peer Peer) {
	select {
	case b.register <- &registration{id: id, peer: peer}:
	case <-b.ctx.Done():
	}
}

// Unregister запускает каскад очистки для соединения
func (b *Broker) Unregister(id uuid.UUID) {
	select {
	case b.unregister <- id:
	case <-b.ctx.Done():
	}
}

// Dispatch передает входящее событие на обработку
func (b *Broker) Dispatch(from uuid.UUID, env *Envelope) {
	select {
	case b.events <- &inboundEvent{from: from, env: env}:
	case <-b.ctx.Done():
	}
}

// Stats возвращает текущие счетчики
func (b *Broker) Stats() Stats {
	reply := make(chan Stats, 1)
	select {
	case b.stats <- reply:
		return <-reply
	case <-b.ctx.Done():
		return Stats{}
	}
}

func (b *Broker) handleEvent(from uuid.UUID, env *Envelope) {
	c := b.registry.lookup(from)
	if c == nil {
		// Событие от уже снесенного соединения — ожидаемая гонка
		return
	}

	switch env.Type {
	case EventJoinQueue:
		b.handleJoinQueue(c, env.Data)

	case EventCreateRoom:
		b.handleCreateRoom(c)

	case EventJoinRoom:
		b.handleJoinRoom(c, env.Data)

	case EventSendMessage:
		b.handleSendMessage(c, env.Data)

	case EventTypingStart:
		b.handleTyping(c, true)

	case EventTypingStop:
		b.handleTyping(c, false)

	case EventLeaveChat:
		b.teardownSession(c, EventPartnerLeft)

	default:
		log.Printf("Unknown event type: %s", env.Type)
	}
}

// busy — участник уже ждет, держит комнату или состоит в сессии
func (c *connection) busy() bool {
	return c.queueKey != "" || c.roomCode != "" || c.sessionID != uuid.Nil
}

func (b *Broker) handleJoinQueue(c *connection, data json.RawMessage) {
	if c.busy() {
		log.Printf("join_queue ignored: client %s is already active", c.id)
		return
	}

	var payload JoinQueuePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		b.sendError(c, ErrInvalidMessage.Error())
		return
	}

	comp, ok := b.queue.complement(payload.Role)
	if !ok {
		b.sendError(c, ErrInvalidRole.Error())
		return
	}

	// Снимаем голову противоположного списка. Дисконнект вычищает
	// ожидающих из очереди, но на всякий случай пропускаем записи,
	// которых уже нет в реестре.
	for {
		waiterID, ok := b.queue.pop(comp, payload.Tag)
		if !ok {
			break
		}

		waiter := b.registry.lookup(waiterID)
		if waiter == nil {
			continue
		}

		waiter.queueKey = ""
		b.formSession(waiter, c, "")
		return
	}

	c.queueKey = b.queue.push(payload.Role, payload.Tag, c.id)
	log.Printf("Client %s queued (role=%s, tag=%s)", c.id, payload.Role, payload.Tag)
}

func (b *Broker) handleCreateRoom(c *connection) {
	if c.busy() {
		log.Printf("create_room ignored: client %s is already active", c.id)
		return
	}

	r := b.rooms.create(c.id)
	c.roomCode = r.code

	log.Printf("Room created: %s by %s", r.code, c.id)
	b.deliver(c, EventRoomCreated, RoomCreatedPayload{Code: r.code})
}

func (b *Broker) handleJoinRoom(c *connection, data json.RawMessage) {
	if c.busy() {
		log.Printf("join_room ignored: client %s is already active", c.id)
		return
	}

	var payload JoinRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		b.sendError(c, ErrInvalidMessage.Error())
		return
	}

	r, err := b.rooms.join(payload.Code, c.id)
	if err != nil {
		log.Printf("Room join failed: %s (%v)", payload.Code, err)
		b.sendError(c, err.Error())
		return
	}

	creator := b.registry.lookup(r.creator())
	if creator == nil {
		// Создатель исчез, а каскад комнату не убрал — сюда попадать
		// не должны, но лучше похоронить комнату, чем отдать ее.
		b.rooms.delete(r.code)
		c.roomCode = ""
		b.sendError(c, ErrRoomNotFound.Error())
		return
	}

	c.roomCode = r.code
	log.Printf("Client %s joined room %s", c.id, r.code)
	b.formSession(creator, c, r.code)
}

// formSession объединяет двух участников в сессию и уведомляет обоих.
// Для пары из очереди — match_found, для рандеву — start_chat.
func (b *Broker) formSession(first, second *connection, roomCode string) {
	s := newSession(first.id, second.id, roomCode)
	b.sessions[s.id] = s
	first.sessionID = s.id
	second.sessionID = s.id

	log.Printf("Session formed: %s (%s + %s)", s.id, first.id, second.id)

	if roomCode == "" {
		payload := MatchFoundPayload{SessionID: s.id}
		b.deliver(first, EventMatchFound, payload)
		b.deliver(second, EventMatchFound, payload)
	} else {
		b.deliver(first, EventStartChat, nil)
		b.deliver(second, EventStartChat, nil)
	}
}

// handleSendMessage пересылает полезную нагрузку второму участнику
// сессии без каких-либо изменений. Нет сессии — no-op.
func (b *Broker) handleSendMessage(c *connection, data json.RawMessage) {
	peer := b.sessionPeer(c)
	if peer == nil {
		return
	}

	var payload interface{}
	if len(data) > 0 {
		payload = data
	}
	b.deliver(peer, EventReceiveMessage, payload)
}

func (b *Broker) handleTyping(c *connection, typing bool) {
	peer := b.sessionPeer(c)
	if peer == nil {
		return
	}
	b.deliver(peer, EventPartnerTyping, TypingPayload{Typing: typing})
}

// sessionPeer возвращает соединение второго участника сессии или nil
func (b *Broker) sessionPeer(c *connection) *connection {
	if c.sessionID == uuid.Nil {
		return nil
	}

	s, ok := b.sessions[c.sessionID]
	if !ok {
		return nil
	}

	peerID, ok := s.peerOf(c.id)
	if !ok {
		return nil
	}
	return b.registry.lookup(peerID)
}

// teardownSession разваливает сессию участника: уведомляет второго,
// чистит ссылки с обеих сторон и удаляет комнату-источник, чтобы ее
// код больше никогда не сработал. Нет сессии — no-op.
func (b *Broker) teardownSession(c *connection, notice EventType) {
	if c.sessionID == uuid.Nil {
		return
	}

	s, ok := b.sessions[c.sessionID]
	if !ok {
		c.sessionID = uuid.Nil
		return
	}

	peer := b.sessionPeer(c)

	delete(b.sessions, s.id)
	c.sessionID = uuid.Nil
	c.roomCode = ""

	if s.roomCode != "" {
		b.rooms.delete(s.roomCode)
	}

	if peer != nil {
		peer.sessionID = uuid.Nil
		peer.roomCode = ""
		b.deliver(peer, notice, nil)
	}

	log.Printf("Session dissolved: %s", s.id)
}

// handleDisconnect — каскад очистки при разрыве соединения.
// Все три шага безусловны и идемпотентны: участник может занимать
// максимум одно из состояний {очередь, комната, сессия}.
func (b *Broker) handleDisconnect(id uuid.UUID) {
	c := b.registry.lookup(id)
	if c == nil {
		return
	}

	if c.queueKey != "" {
		b.queue.remove(c.queueKey, c.id)
		c.queueKey = ""
	}

	if c.roomCode != "" && c.sessionID == uuid.Nil {
		// Комната без сессии — создатель ждал второго участника
		b.rooms.delete(c.roomCode)
		c.roomCode = ""
	}

	b.teardownSession(c, EventPartnerDisconnected)

	b.registry.unregister(id)
	c.peer.Close()

	log.Printf("Client unregistered: %s", id)
}

func (b *Broker) deliver(c *connection, evt EventType, data interface{}) {
	if err := c.peer.Send(evt, data); err != nil {
		log.Printf("Failed to deliver %s to client %s: %v", evt, c.id, err)
	}
}

func (b *Broker) sendError(c *connection, msg string) {
	b.deliver(c, EventError, ErrorPayload{Error: msg})
}
