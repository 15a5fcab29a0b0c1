package broker

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"

	"github.com/google/uuid"
)

const codeLength = 6

// room — слот рандеву по коду
type room struct {
	code      string
	occupants []uuid.UUID
	locked    bool
}

func (r *room) creator() uuid.UUID {
	return r.occupants[0]
}

// roomDirectory — таблица открытых комнат по коду
type roomDirectory struct {
	rooms map[string]*room
}

func newRoomDirectory() *roomDirectory {
	return &roomDirectory{rooms: make(map[string]*room)}
}

// create открывает комнату для создателя и возвращает ее.
// Код генерируется заново, пока не найдется незанятый.
func (d *roomDirectory) create(creatorID uuid.UUID) *room {
	var code string
	for {
		code = generateCode()
		if _, ok := d.rooms[code]; !ok {
			break
		}
	}

	r := &room{
		code:      code,
		occupants: []uuid.UUID{creatorID},
	}
	d.rooms[code] = r
	return r
}

// join добавляет второго участника и запирает комнату.
// После запирания комната не принимает никого, даже если место
// формально освободится.
func (d *roomDirectory) join(code string, joinerID uuid.UUID) (*room, error) {
	r, ok := d.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}

	if r.locked || len(r.occupants) >= 2 {
		return nil, ErrRoomFull
	}

	r.occupants = append(r.occupants, joinerID)
	r.locked = true
	return r, nil
}

// delete удаляет комнату. Неизвестный код — no-op.
func (d *roomDirectory) delete(code string) {
	delete(d.rooms, code)
}

func (d *roomDirectory) get(code string) *room {
	return d.rooms[code]
}

func (d *roomDirectory) count() int {
	return len(d.rooms)
}

// generateCode возвращает случайный 6-значный цифровой код
func generateCode() string {
	limit := big.NewInt(1)
	for i := 0; i < codeLength; i++ {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		log.Panic("Failed to generate room code:", err)
	}
	return fmt.Sprintf("%0*d", codeLength, n)
}
