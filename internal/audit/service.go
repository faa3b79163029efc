package audit

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"coinshop/kit/broker"
)

// Entry is one line of the audit trail.
type Entry struct {
	At      time.Time       `json:"at"`
	Event   string          `json:"event"`
	OrderID string          `json:"order_id,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

type partitioned interface {
	PartitionKey() string
}

// Service appends every recorded event to a JSON lines file. Without a file
// it only logs.
type Service struct {
	fileMu sync.Mutex
	f      *os.File
	now    func() time.Time
}

func NewService() *Service {
	return &Service{now: func() time.Time { return time.Now().UTC() }}
}

func NewServiceWithFile(path string) (*Service, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Error().Err(err).Str("layer", "service").Str("component", "audit").Str("method", "NewServiceWithFile").Str("path", path).Msg("mkdir failed")
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Error().Err(err).Str("layer", "service").Str("component", "audit").Str("method", "NewServiceWithFile").Str("path", path).Msg("open failed")
		return nil, err
	}
	s := NewService()
	s.f = f
	return s, nil
}

func (s *Service) Close() error {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// Record is a broker.Handler.
func (s *Service) Record(ctx context.Context, evt broker.Event) error {
	if evt == nil {
		return errors.New("audit: nil event")
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	entry := Entry{At: s.now(), Event: evt.Name(), Payload: payload}
	if p, ok := evt.(partitioned); ok {
		entry.OrderID = p.PartitionKey()
	}

	log.Ctx(ctx).Info().Str("component", "audit").Str("event", entry.Event).Str("order_id", entry.OrderID).Msg("audit")

	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	if s.f == nil {
		return nil
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if _, err := s.f.Write(append(line, '\n')); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("layer", "service").Str("component", "audit").Str("method", "Record").Str("event", entry.Event).Msg("write failed")
		return err
	}
	return nil
}
