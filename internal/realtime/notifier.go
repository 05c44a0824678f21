package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"volunteerHub/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// Таблицы, по которым рассылаются события изменений
const TableTasks = "tasks"
const TableVolunteers = "task_volunteers"
const TableProfiles = "profiles"
const TableMessages = "task_messages"

const OpInsert = "insert"
const OpUpdate = "update"
const OpDelete = "delete"

// Event - уведомление об изменении строки. Подписчик сам решает,
// перечитывать строку или выбрасывать её из кеша.
type Event struct {
	Op string    `json:"op"`
	ID uuid.UUID `json:"id"`
}

type Publisher interface {
	Publish(ctx context.Context, table string, ev Event) error
}

// Notifier - шина изменений поверх Redis pub/sub: мутации публикуют
// событие в канал своей таблицы после коммита
type Notifier struct {
	client rueidis.Client
}

func NewNotifier(addr string) (*Notifier, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		logger.Error("Realtime: Не удалось подключиться к Redis", err)
		return nil, fmt.Errorf("подключение к redis: %w", err)
	}

	logger.Info("Realtime: Подключение к Redis установлено")
	return &Notifier{client: client}, nil
}

func (n *Notifier) Close() {
	n.client.Close()
	logger.Info("Realtime: Соединение с Redis закрыто")
}

func channelFor(table string) string {
	return "realtime:" + table
}

func (n *Notifier) Publish(ctx context.Context, table string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("сериализация события: %w", err)
	}

	cmd := n.client.B().Publish().Channel(channelFor(table)).Message(string(payload)).Build()
	if err := n.client.Do(ctx, cmd).Error(); err != nil {
		logger.Error("Realtime: Не удалось опубликовать событие", err,
			zap.String("table", table),
			zap.String("op", ev.Op))
		return fmt.Errorf("публикация события: %w", err)
	}

	logger.Debug("Realtime: Событие опубликовано",
		zap.String("table", table),
		zap.String("op", ev.Op),
		zap.String("id", ev.ID.String()))
	return nil
}

// Subscribe блокируется до отмены контекста, при обрыве соединения
// переподключается. Каждое сообщение канала таблицы передаётся в handler.
func (n *Notifier) Subscribe(ctx context.Context, table string, handler func(Event)) {
	channel := channelFor(table)

	for {
		err := n.client.Receive(ctx, n.client.B().Subscribe().Channel(channel).Build(),
			func(msg rueidis.PubSubMessage) {
				var ev Event
				if err := json.Unmarshal([]byte(msg.Message), &ev); err != nil {
					logger.Warn("Realtime: Непонятное событие", zap.Error(err), zap.String("payload", msg.Message))
					return
				}
				handler(ev)
			})

		if ctx.Err() != nil {
			logger.Info("Realtime: Подписка остановлена", zap.String("table", table))
			return
		}

		logger.Warn("Realtime: Подписка оборвалась, переподключение",
			zap.String("table", table),
			zap.Error(err))
		time.Sleep(time.Second)
	}
}

// NopPublisher - заглушка для тестов и запуска без Redis
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, table string, ev Event) error {
	return nil
}
