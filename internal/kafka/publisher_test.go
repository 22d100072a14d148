package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/cargaexpress/booking/internal/db/mocks"
	"github.com/cargaexpress/booking/internal/repository"
	mock_storage "github.com/cargaexpress/booking/internal/storage/mocks"
)

type recordedMessage struct {
	topic string
	key   string
	value string
}

type fakeProducer struct {
	mu       sync.Mutex
	messages []recordedMessage
	err      error
}

func (p *fakeProducer) SendMessage(ctx context.Context, topic string, key, value []byte) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, recordedMessage{topic: topic, key: string(key), value: string(value)})
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func newPublisherFixture(t *testing.T, producer Producer) (*Publisher, *mock_database.MockDB, *mock_database.MockTx, *mock_storage.MockOutboxTaskRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockDB := mock_database.NewMockDB(ctrl)
	mockTx := mock_database.NewMockTx(ctrl)
	repo := mock_storage.NewMockOutboxTaskRepository(ctrl)

	p := NewPublisher(mockDB, repo, producer, PublisherConfig{
		PollInterval: 10 * time.Millisecond,
		BatchSize:    5,
		MaxAttempts:  3,
	})
	return p, mockDB, mockTx, repo
}

func TestPublisher_ProcessBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers claimed tasks", func(t *testing.T) {
		producer := &fakeProducer{}
		p, mockDB, mockTx, repo := newPublisherFixture(t, producer)

		task := &repository.OutboxTask{
			ID:      uuid.New(),
			Status:  repository.TaskStatusCreated,
			Payload: []byte(`{"shipment_id":"ship-1","new_status":"ACCEPTED_BY_DRIVER"}`),
			Topic:   "audit_logs",
		}

		mockDB.EXPECT().BeginTx(ctx).Return(mockTx, nil)
		repo.EXPECT().GetProcessableTasks(ctx, mockTx, 5).Return([]*repository.OutboxTask{task}, nil)
		repo.EXPECT().UpdateTaskStatusTx(ctx, mockTx, task.ID, repository.TaskStatusProcessing, 0, nil, nil).Return(nil)
		mockTx.EXPECT().Commit(ctx).Return(nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		repo.EXPECT().
			UpdateTaskStatus(ctx, mockDB, task.ID, repository.TaskStatusDone, 0, nil, gomock.Not(gomock.Nil())).
			Return(nil)

		require.NoError(t, p.processBatch(ctx))

		require.Len(t, producer.messages, 1)
		assert.Equal(t, "audit_logs", producer.messages[0].topic)
		assert.Equal(t, task.ID.String(), producer.messages[0].key)
	})

	t.Run("marks failed delivery with the error", func(t *testing.T) {
		sendErr := errors.New("broker unreachable")
		p, mockDB, mockTx, repo := newPublisherFixture(t, &fakeProducer{err: sendErr})

		task := &repository.OutboxTask{ID: uuid.New(), Topic: "audit_logs", Attempts: 1}

		mockDB.EXPECT().BeginTx(ctx).Return(mockTx, nil)
		repo.EXPECT().GetProcessableTasks(ctx, mockTx, 5).Return([]*repository.OutboxTask{task}, nil)
		repo.EXPECT().UpdateTaskStatusTx(ctx, mockTx, task.ID, repository.TaskStatusProcessing, 1, nil, nil).Return(nil)
		mockTx.EXPECT().Commit(ctx).Return(nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		repo.EXPECT().
			UpdateTaskStatus(ctx, mockDB, task.ID, repository.TaskStatusFailed, 2, gomock.Not(gomock.Nil()), nil).
			DoAndReturn(func(_ context.Context, _ interface{}, _ uuid.UUID, _ repository.TaskStatus, _ int, lastError *string, _ *time.Time) error {
				assert.Equal(t, sendErr.Error(), *lastError)
				return nil
			})

		require.NoError(t, p.processBatch(ctx))
	})

	t.Run("empty batch commits and does nothing", func(t *testing.T) {
		p, mockDB, mockTx, repo := newPublisherFixture(t, &fakeProducer{})

		mockDB.EXPECT().BeginTx(ctx).Return(mockTx, nil)
		repo.EXPECT().GetProcessableTasks(ctx, mockTx, 5).Return(nil, nil)
		mockTx.EXPECT().Commit(ctx).Return(nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		require.NoError(t, p.processBatch(ctx))
	})

	t.Run("claim failure surfaces", func(t *testing.T) {
		p, mockDB, mockTx, repo := newPublisherFixture(t, &fakeProducer{})

		mockDB.EXPECT().BeginTx(ctx).Return(mockTx, nil)
		repo.EXPECT().GetProcessableTasks(ctx, mockTx, 5).Return(nil, errors.New("lock timeout"))
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		assert.Error(t, p.processBatch(ctx))
	})
}
