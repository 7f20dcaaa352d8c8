package invoicing

import (
	"time"

	"github.com/google/uuid"
)

func newID() uuid.UUID {
	return uuid.New()
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func payersNamed(names ...string) []Payer {
	out := make([]Payer, 0, len(names))
	for _, n := range names {
		p, err := NewPayer(newID(), n, "", Address{})
		if err != nil {
			panic(err)
		}
		out = append(out, *p)
	}
	return out
}
