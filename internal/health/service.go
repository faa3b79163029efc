package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type CheckFunc func(ctx context.Context) error

// Check is one dependency check. A failing non-critical check degrades the
// service without marking it down.
type Check struct {
	Name     string
	Fn       CheckFunc
	Critical bool
}

type State string

const (
	StateOK       State = "ok"
	StateDegraded State = "degraded"
	StateDown     State = "down"
)

type Result struct {
	At     time.Time         `json:"at"`
	OK     bool              `json:"ok"`
	State  State             `json:"state"`
	Checks map[string]string `json:"checks"`
}

// Service runs its checks at most once per ttl.
type Service struct {
	mu sync.Mutex

	checks []Check
	ttl    time.Duration

	nextCheckAt time.Time
	lastResult  Result
}

func NewService(ttl time.Duration, checks ...Check) *Service {
	return &Service{ttl: ttl, checks: checks, lastResult: Result{Checks: map[string]string{}}}
}

func (s *Service) Check(ctx context.Context) Result {
	s.mu.Lock()
	if time.Now().Before(s.nextCheckAt) {
		res := s.lastResult
		s.mu.Unlock()
		return res
	}
	s.mu.Unlock()

	res := Result{At: time.Now().UTC(), OK: true, State: StateOK, Checks: make(map[string]string, len(s.checks))}
	for _, c := range s.checks {
		err := errInvalidCheck
		if c.Fn != nil {
			err = c.Fn(ctx)
		}
		if err == nil {
			res.Checks[c.Name] = "ok"
			continue
		}
		res.Checks[c.Name] = err.Error()
		if c.Critical {
			res.OK = false
			res.State = StateDown
		} else if res.State == StateOK {
			res.State = StateDegraded
		}
	}

	s.mu.Lock()
	s.lastResult = res
	s.nextCheckAt = time.Now().Add(s.ttl)
	s.mu.Unlock()

	return res
}

var errInvalidCheck = fmt.Errorf("invalid check")
