package broker

import (
	"time"

	"github.com/google/uuid"
)

// session — сформированная пара, независимо от стратегии подбора.
// roomCode не пустой только для сессий из рандеву — тогда при
// развале сессии комната удаляется вместе с ней.
type session struct {
	id        uuid.UUID
	a, b      uuid.UUID
	roomCode  string
	createdAt time.Time
}

func newSession(a, b uuid.UUID, roomCode string) *session {
	return &session{
		id:        uuid.New(),
		a:         a,
		b:         b,
		roomCode:  roomCode,
		createdAt: time.Now(),
	}
}

// peerOf возвращает второго участника сессии.
// Для чужого идентификатора — (uuid.Nil, false).
func (s *session) peerOf(id uuid.UUID) (uuid.UUID, bool) {
	switch id {
	case s.a:
		return s.b, true
	case s.b:
		return s.a, true
	default:
		return uuid.Nil, false
	}
}
