package service

import (
	"context"
	"sync"
	"time"

	"betsbot/events"
	"betsbot/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetOrCreate(ctx context.Context, discordID int64, username string, initialBalance int64) (*models.User, bool, error) {
	args := m.Called(ctx, discordID, username, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) AddBalance(ctx context.Context, discordID int64, amount int64) (int64, error) {
	args := m.Called(ctx, discordID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) DeductStake(ctx context.Context, discordID int64, amount int64) (int64, error) {
	args := m.Called(ctx, discordID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) AdjustBalance(ctx context.Context, discordID int64, delta int64) (int64, error) {
	args := m.Called(ctx, discordID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetTopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByMessage(ctx context.Context, messageID int64) ([]*models.Bet, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByMessageAndUser(ctx context.Context, messageID, discordID int64) (*models.Bet, error) {
	args := m.Called(ctx, messageID, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) MarkResolved(ctx context.Context, messageID int64) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MockBetRepository) DeleteByMessage(ctx context.Context, messageID int64) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// MockHighestBetRepository is a mock implementation of HighestBetRepository
type MockHighestBetRepository struct {
	mock.Mock
}

func (m *MockHighestBetRepository) Get(ctx context.Context) (*models.HighestBet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HighestBet), args.Error(1)
}

func (m *MockHighestBetRepository) UpdateIfHigher(ctx context.Context, record *models.HighestBet) (bool, error) {
	args := m.Called(ctx, record)
	return args.Bool(0), args.Error(1)
}

// MockPendingStakeRepository is a mock implementation of PendingStakeRepository
type MockPendingStakeRepository struct {
	mock.Mock
}

func (m *MockPendingStakeRepository) Upsert(ctx context.Context, stake *models.PendingStake) error {
	args := m.Called(ctx, stake)
	return args.Error(0)
}

func (m *MockPendingStakeRepository) GetByUser(ctx context.Context, discordID int64) (*models.PendingStake, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingStake), args.Error(1)
}

func (m *MockPendingStakeRepository) Delete(ctx context.Context, discordID int64) error {
	args := m.Called(ctx, discordID)
	return args.Error(0)
}

func (m *MockPendingStakeRepository) DeleteExpired(ctx context.Context, now time.Time) ([]*models.PendingStake, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PendingStake), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// RecordingEventBus captures published events for assertions
type RecordingEventBus struct {
	mu     sync.Mutex
	Events []events.Event
}

func (b *RecordingEventBus) Publish(event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Events = append(b.Events, event)
}

// EventsOfType returns the captured events with the given type
func (b *RecordingEventBus) EventsOfType(eventType events.EventType) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var matched []events.Event
	for _, e := range b.Events {
		if e.Type() == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	userRepo           UserRepository
	betRepo            BetRepository
	highestBetRepo     HighestBetRepository
	pendingStakeRepo   PendingStakeRepository
	balanceHistoryRepo BalanceHistoryRepository
	eventBus           *RecordingEventBus
}

// SetRepositories wires the mock repositories the getters hand back
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, betRepo BetRepository, highestBetRepo HighestBetRepository, pendingStakeRepo PendingStakeRepository, balanceHistoryRepo BalanceHistoryRepository) {
	m.userRepo = userRepo
	m.betRepo = betRepo
	m.highestBetRepo = highestBetRepo
	m.pendingStakeRepo = pendingStakeRepo
	m.balanceHistoryRepo = balanceHistoryRepo
	m.eventBus = &RecordingEventBus{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) BetRepository() BetRepository {
	return m.betRepo
}

func (m *MockUnitOfWork) HighestBetRepository() HighestBetRepository {
	return m.highestBetRepo
}

func (m *MockUnitOfWork) PendingStakeRepository() PendingStakeRepository {
	return m.pendingStakeRepo
}

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.balanceHistoryRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// PublishedEvents returns the events captured by the mock's event bus
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	if m.eventBus == nil {
		return nil
	}
	return m.eventBus.Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
