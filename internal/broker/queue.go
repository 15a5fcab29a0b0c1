package broker

import (
	"fmt"

	"github.com/google/uuid"
)

// matchQueue — FIFO-списки ожидания по паре (роль, тег).
// Роли бинарны и взаимно дополняют друг друга: запрос с одной ролью
// ищет голову списка противоположной роли с тем же тегом.
type matchQueue struct {
	roleA, roleB string
	waiting      map[string][]uuid.UUID
}

func newMatchQueue(roleA, roleB string) *matchQueue {
	return &matchQueue{
		roleA:   roleA,
		roleB:   roleB,
		waiting: make(map[string][]uuid.UUID),
	}
}

// complement возвращает противоположную роль.
// Вторым значением — валидность переданной роли.
func (q *matchQueue) complement(role string) (string, bool) {
	switch role {
	case q.roleA:
		return q.roleB, true
	case q.roleB:
		return q.roleA, true
	default:
		return "", false
	}
}

func (q *matchQueue) key(role, tag string) string {
	return fmt.Sprintf("%s|%s", role, tag)
}

// pop снимает голову списка (role, tag) — строгий FIFO.
// Пустой список — (uuid.Nil, false).
func (q *matchQueue) pop(role, tag string) (uuid.UUID, bool) {
	k := q.key(role, tag)
	list := q.waiting[k]
	if len(list) == 0 {
		return uuid.Nil, false
	}

	id := list[0]
	if len(list) == 1 {
		delete(q.waiting, k)
	} else {
		q.waiting[k] = list[1:]
	}
	return id, true
}

// push добавляет участника в хвост списка (role, tag) и возвращает ключ
// списка — соединение запоминает его для снятия при дисконнекте.
func (q *matchQueue) push(role, tag string, id uuid.UUID) string {
	k := q.key(role, tag)
	q.waiting[k] = append(q.waiting[k], id)
	return k
}

// remove убирает участника из списка по ключу.
// Отсутствие в списке — no-op.
func (q *matchQueue) remove(key string, id uuid.UUID) {
	list := q.waiting[key]
	for i, waiting := range list {
		if waiting == id {
			list = append(list[:i], list[i+1:]...)
			if len(list) == 0 {
				delete(q.waiting, key)
			} else {
				q.waiting[key] = list
			}
			return
		}
	}
}

// size — суммарное число ожидающих по всем спискам
func (q *matchQueue) size() int {
	total := 0
	for _, list := range q.waiting {
		total += len(list)
	}
	return total
}
