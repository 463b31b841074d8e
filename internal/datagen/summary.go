package datagen

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/uuid"
)

// Summary перечисляет идентификаторы всех строк, созданных за один
// прогон генератора. По нему выполняются верификация и очистка.
type Summary struct {
	RunID        uuid.UUID `json:"run_id"`
	Seed         int64     `json:"seed"`
	GeneratedAt  time.Time `json:"generated_at"`
	UserIDs      []int64   `json:"user_ids"`
	ProductIDs   []int64   `json:"product_ids"`
	OrderIDs     []int64   `json:"order_ids"`
	OrderItemIDs []int64   `json:"order_item_ids"`
	ReviewIDs    []int64   `json:"review_ids"`
}

func newSummary(seed int64) (*Summary, error) {
	runID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("datagen: failed to generate run id: %w", err)
	}
	return &Summary{
		RunID:        runID,
		Seed:         seed,
		GeneratedAt:  time.Now().UTC(),
		UserIDs:      make([]int64, 0),
		ProductIDs:   make([]int64, 0),
		OrderIDs:     make([]int64, 0),
		OrderItemIDs: make([]int64, 0),
		ReviewIDs:    make([]int64, 0),
	}, nil
}

func (s *Summary) UserCount() int      { return len(s.UserIDs) }
func (s *Summary) ProductCount() int   { return len(s.ProductIDs) }
func (s *Summary) OrderCount() int     { return len(s.OrderIDs) }
func (s *Summary) OrderItemCount() int { return len(s.OrderItemIDs) }
func (s *Summary) ReviewCount() int    { return len(s.ReviewIDs) }

func (s *Summary) String() string {
	return fmt.Sprintf("Summary{users=%d, products=%d, orders=%d, orderItems=%d, reviews=%d}",
		s.UserCount(), s.ProductCount(), s.OrderCount(), s.OrderItemCount(), s.ReviewCount())
}

// Save сохраняет сводку в JSON-файл, чтобы cleanup/verify могли работать
// отдельным запуском CLI.
func (s *Summary) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("datagen: failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("datagen: failed to write summary file: %w", err)
	}
	return nil
}

// LoadSummary читает сводку из JSON-файла.
func LoadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("datagen: failed to read summary file: %w", err)
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("datagen: failed to unmarshal summary: %w", err)
	}
	return &s, nil
}
