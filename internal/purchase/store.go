package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"coinshop/kit/broker"
	"coinshop/kit/db"
)

// Persisted keys. Both are rewritten together on every mutation.
const (
	KeyHistory = "purchaseHistory"
	KeyBalance = "totalCoins"

	lockName      = "purchases"
	orderLockName = "order-ids"
)

type Option func(*Store)

func WithPublisher(p PublisherContract) Option {
	return func(s *Store) { s.bus = p }
}

func WithLocker(l db.Locker) Option {
	return func(s *Store) { s.locker = l }
}

// AllowTerminalOverwrite lets UpdateStatus move a success/failed record to
// the other terminal status.
func AllowTerminalOverwrite(allow bool) Option {
	return func(s *Store) { s.allowOverwrite = allow }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store keeps the purchase list and the derived balance. Every mutation is a
// read-modify-write of the whole list under a lock, and the balance is always
// recomputed from the list, never adjusted incrementally.
type Store struct {
	kv             db.KV
	locker         db.Locker
	bus            PublisherContract
	allowOverwrite bool
	now            func() time.Time
}

func NewStore(kv db.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		locker: db.NewLocalLocker(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create records p as pending. Order ids are unique across customers, so a
// gateway never sees the same id twice.
func (s *Store) Create(ctx context.Context, p Purchase) (Summary, error) {
	if strings.TrimSpace(p.ID) == "" {
		return Summary{}, errors.Join(db.ErrInvalid, errors.New("purchase id is required"))
	}
	if p.Amount < 0 || p.Price < 0 {
		return Summary{}, errors.Join(db.ErrInvalid, errors.New("amount and price must not be negative"))
	}
	logger := log.Ctx(ctx).With().Str("layer", "store").Str("component", "purchase").Str("method", "Create").Str("order_id", p.ID).Logger()
	k := keysFor(ctx)

	unlock, err := s.locker.Lock(ctx, k.lock)
	if err != nil {
		return Summary{}, err
	}
	defer unlock()

	list, err := s.load(ctx, k)
	if err != nil {
		return Summary{}, err
	}
	for _, existing := range list {
		if existing.ID == p.ID {
			logger.Info().Msg("duplicate id")
			return Summary{}, errors.Join(db.ErrConflict, fmt.Errorf("purchase %s already exists", p.ID))
		}
	}

	// always taken after the customer lock
	unlockOrders, err := s.locker.Lock(ctx, orderLockName)
	if err != nil {
		return Summary{}, err
	}
	defer unlockOrders()

	_, err = s.kv.Get(ctx, orderKey(p.ID))
	switch {
	case err == nil:
		logger.Info().Msg("order id taken by another customer")
		return Summary{}, errors.Join(db.ErrConflict, fmt.Errorf("purchase %s already exists", p.ID))
	case !db.IsNotFound(err):
		return Summary{}, err
	}

	p.Status = StatusPending
	p.ErrorMessage = ""
	if p.Date.IsZero() {
		p.Date = s.now()
	}

	list = append([]Purchase{p}, list...)
	owner := CustomerFrom(ctx)
	if owner == "" {
		owner = "shared"
	}
	sum, err := s.save(ctx, k, list, map[string][]byte{orderKey(p.ID): []byte(owner)})
	if err != nil {
		return Summary{}, err
	}

	s.publish(ctx, ToPurchaseCreatedEvent(p))
	return sum, nil
}

// Get returns db.ErrNotFound for an unknown id.
func (s *Store) Get(ctx context.Context, id string) (Purchase, error) {
	list, err := s.load(ctx, keysFor(ctx))
	if err != nil {
		return Purchase{}, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return Purchase{}, db.ErrNotFound
}

func (s *Store) GetAll(ctx context.Context) ([]Purchase, error) {
	return s.load(ctx, keysFor(ctx))
}

// UpdateStatus moves a pending record to success or failed. An unknown id is
// not an error and leaves the store untouched. errorMessage is only kept for
// failed.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status, errorMessage string) (Summary, error) {
	if !status.Terminal() {
		return Summary{}, errors.Join(ErrInvalidStatus, fmt.Errorf("cannot move to %q", status))
	}
	logger := log.Ctx(ctx).With().Str("layer", "store").Str("component", "purchase").Str("method", "UpdateStatus").Str("order_id", id).Logger()
	k := keysFor(ctx)

	unlock, err := s.locker.Lock(ctx, k.lock)
	if err != nil {
		return Summary{}, err
	}
	defer unlock()

	list, err := s.load(ctx, k)
	if err != nil {
		return Summary{}, err
	}

	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		logger.Info().Msg("unknown order id, ignoring")
		return Summary{Balance: Balance(list), PurchaseHistory: list}, nil
	}

	current := list[idx]
	if current.Status.Terminal() && !s.allowOverwrite {
		if current.Status == status {
			return Summary{Balance: Balance(list), PurchaseHistory: list}, nil
		}
		logger.Warn().Str("from", string(current.Status)).Str("to", string(status)).Msg("refusing to leave terminal state")
		return Summary{}, errors.Join(ErrTerminalState, fmt.Errorf("purchase %s is %s", id, current.Status))
	}

	current.Status = status
	current.ErrorMessage = ""
	if status == StatusFailed {
		current.ErrorMessage = errorMessage
	}
	list[idx] = current

	sum, err := s.save(ctx, k, list, nil)
	if err != nil {
		return Summary{}, err
	}

	switch status {
	case StatusSuccess:
		s.publish(ctx, ToPurchaseSucceededEvent(current, sum.Balance))
	case StatusFailed:
		s.publish(ctx, ToPurchaseFailedEvent(current, sum.Balance))
	}
	return sum, nil
}

// AggregateBalance prefers the persisted total and derives it from the list
// when it is missing or unreadable.
func (s *Store) AggregateBalance(ctx context.Context) (int64, error) {
	return s.balance(ctx, keysFor(ctx), nil)
}

// Summary reads history and balance under the customer's lock so both come
// from the same write.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	k := keysFor(ctx)
	unlock, err := s.locker.Lock(ctx, k.lock)
	if err != nil {
		return Summary{}, err
	}
	defer unlock()

	list, err := s.load(ctx, k)
	if err != nil {
		return Summary{}, err
	}
	balance, err := s.balance(ctx, k, list)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Balance: balance, PurchaseHistory: list}, nil
}

// balance derives from list when given, loading it otherwise.
func (s *Store) balance(ctx context.Context, k keys, list []Purchase) (int64, error) {
	raw, err := s.kv.Get(ctx, k.balance)
	switch {
	case err == nil:
		if v, perr := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64); perr == nil {
			return v, nil
		}
		log.Ctx(ctx).Warn().Str("layer", "store").Str("component", "purchase").Str("method", "AggregateBalance").Msg("stored balance unreadable, deriving")
	case !db.IsNotFound(err):
		return 0, err
	}

	if list == nil {
		if list, err = s.load(ctx, k); err != nil {
			return 0, err
		}
	}
	return Balance(list), nil
}

// Reset drops the customer's history and balance. Their order ids stay
// reserved.
func (s *Store) Reset(ctx context.Context) error {
	k := keysFor(ctx)
	unlock, err := s.locker.Lock(ctx, k.lock)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.kv.Delete(ctx, k.history, k.balance); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("layer", "store").Str("component", "purchase").Str("method", "Reset").Msg("delete failed")
		return err
	}
	return nil
}

func (s *Store) load(ctx context.Context, k keys) ([]Purchase, error) {
	raw, err := s.kv.Get(ctx, k.history)
	if db.IsNotFound(err) {
		return []Purchase{}, nil
	}
	if err != nil {
		return nil, err
	}

	var list []Purchase
	if err := json.Unmarshal(raw, &list); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("layer", "store").Str("component", "purchase").Str("method", "load").Msg("history unreadable")
		return nil, errors.Join(db.ErrInternal, err)
	}
	if list == nil {
		list = []Purchase{}
	}
	// records written before status existed
	for i := range list {
		if list[i].Status == "" {
			list[i].Status = StatusPending
		}
	}
	return list, nil
}

// save writes history, balance and any extra entries in one Put.
func (s *Store) save(ctx context.Context, k keys, list []Purchase, extra map[string][]byte) (Summary, error) {
	raw, err := json.Marshal(list)
	if err != nil {
		return Summary{}, errors.Join(db.ErrInternal, err)
	}
	balance := Balance(list)

	entries := map[string][]byte{
		k.history: raw,
		k.balance: []byte(strconv.FormatInt(balance, 10)),
	}
	for key, v := range extra {
		entries[key] = v
	}
	err = s.kv.Put(ctx, entries)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("layer", "store").Str("component", "purchase").Str("method", "save").Msg("put failed")
		return Summary{}, err
	}
	return Summary{Balance: balance, PurchaseHistory: list}, nil
}

func (s *Store) publish(ctx context.Context, evt broker.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, evt)
}
