package clock

import "time"

// Clock abstrai o "agora" para que as regras de antecedência
// sejam determinísticas nos testes.
type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed devolve sempre o mesmo instante.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time {
	return f.Instant
}

func FixedAt(t time.Time) Fixed {
	return Fixed{Instant: t}
}
