package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"volunteerHub/internal/logger"

	"go.uber.org/zap"
)

// функция структурирования задач - внешний сервис, здесь только клиент к ней

var ErrRateLimited = errors.New("лимит запросов к функции исчерпан")
var ErrQuotaExhausted = errors.New("квота функции исчерпана")

// TaskDraft - структурированный черновик задачи из свободного текста
type TaskDraft struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Urgency      string   `json:"urgency"`
	TimeNeeded   string   `json:"time_needed"`
	LocationName *string  `json:"location_name,omitempty"`
	LocationLat  *float64 `json:"location_lat,omitempty"`
	LocationLng  *float64 `json:"location_lng,omitempty"`
}

type Client struct {
	url    string
	client *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// StructureTask отправляет расшифрованный текст и получает черновик задачи.
// Коды 429 и 402 переводятся в сентинельные ошибки, остальные неуспехи
// оборачиваются вместе с телом {error}.
func (c *Client) StructureTask(ctx context.Context, transcribedText string) (*TaskDraft, error) {
	body, err := json.Marshal(map[string]string{"transcribedText": transcribedText})
	if err != nil {
		return nil, fmt.Errorf("сериализация запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Error("Assist: Функция недоступна", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("вызов функции: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(raw, &payload)

		logger.Warn("Assist: Функция вернула ошибку",
			zap.Int("status", resp.StatusCode),
			zap.String("error", payload.Error))

		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return nil, ErrRateLimited
		case http.StatusPaymentRequired:
			return nil, ErrQuotaExhausted
		}
		return nil, fmt.Errorf("функция вернула %d: %s", resp.StatusCode, payload.Error)
	}

	var draft TaskDraft
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		return nil, fmt.Errorf("разбор ответа: %w", err)
	}

	logger.Info("Assist: Черновик задачи получен", zap.Duration("ms", time.Since(start)))
	return &draft, nil
}
