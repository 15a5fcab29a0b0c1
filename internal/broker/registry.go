package broker

import "github.com/google/uuid"

// connection — запись реестра для одного живого участника.
// Реестр владеет записью; очереди и сессии держат только идентификаторы.
type connection struct {
	id   uuid.UUID
	peer Peer

	// Текущее состояние: участник может быть максимум в одном из трех.
	sessionID uuid.UUID // uuid.Nil — нет сессии
	queueKey  string    // "" — не в очереди
	roomCode  string    // "" — не в комнате
}

// registry — реестр живых соединений
type registry struct {
	conns map[uuid.UUID]*connection
}

func newRegistry() *registry {
	return &registry{conns: make(map[uuid.UUID]*connection)}
}

// register добавляет соединение. Повторная регистрация того же
// идентификатора заменяет peer (не должно случаться, но безопасно).
func (r *registry) register(id uuid.UUID, peer Peer) *connection {
	c := &connection{id: id, peer: peer}
	r.conns[id] = c
	return c
}

// lookup возвращает запись или nil для неизвестного идентификатора
func (r *registry) lookup(id uuid.UUID) *connection {
	return r.conns[id]
}

// unregister удаляет запись. Неизвестный идентификатор — no-op.
func (r *registry) unregister(id uuid.UUID) {
	delete(r.conns, id)
}

func (r *registry) count() int {
	return len(r.conns)
}
