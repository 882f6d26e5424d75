package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"climate-hub/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// persistedList is an append-ordered list mirrored to a JSON file after every
// mutation. An empty path keeps it in memory only.
type persistedList[T any] struct {
	mu    sync.RWMutex
	path  string
	items []T
}

type persistedState[T any] struct {
	Items   []T `json:"items"`
	Version int `json:"version"`
}

func openPersistedList[T any](path string) (*persistedList[T], error) {
	l := &persistedList[T]{path: path}
	if path == "" {
		return l, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var state persistedState[T]
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	l.items = state.Items
	return l, nil
}

// saveLocked writes the list through a temp file so a crash never leaves a
// truncated store behind. Callers hold mu.
func (l *persistedList[T]) saveLocked() error {
	if l.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(persistedState[T]{Items: l.items}, "", "  ")
	if err != nil {
		return err
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, l.path)
}

// newestFirst copies the list in reverse insertion order.
func (l *persistedList[T]) newestFirst(keep func(T) bool) []T {
	out := make([]T, 0, len(l.items))
	for i := len(l.items) - 1; i >= 0; i-- {
		if keep == nil || keep(l.items[i]) {
			out = append(out, l.items[i])
		}
	}
	return out
}

// LocalReportStore keeps reports in memory, persisted to a JSON file.
type LocalReportStore struct {
	list *persistedList[models.Report]
}

// NewLocalReportStore loads path if it exists. An empty path never touches disk.
func NewLocalReportStore(path string) (*LocalReportStore, error) {
	list, err := openPersistedList[models.Report](path)
	if err != nil {
		return nil, err
	}
	return &LocalReportStore{list: list}, nil
}

func (s *LocalReportStore) Create(_ context.Context, r *models.Report) error {
	prepareReport(r)

	s.list.mu.Lock()
	defer s.list.mu.Unlock()
	s.list.items = append(s.list.items, *r)
	if err := s.list.saveLocked(); err != nil {
		s.list.items = s.list.items[:len(s.list.items)-1]
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (s *LocalReportStore) List(_ context.Context, filter models.ReportFilter) ([]models.Report, error) {
	s.list.mu.RLock()
	defer s.list.mu.RUnlock()
	return s.list.newestFirst(filter.Matches), nil
}

func (s *LocalReportStore) Get(_ context.Context, id primitive.ObjectID) (models.Report, error) {
	s.list.mu.RLock()
	defer s.list.mu.RUnlock()
	for _, r := range s.list.items {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Report{}, ErrNotFound
}

func (s *LocalReportStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.ReportStatus) (models.Report, error) {
	s.list.mu.Lock()
	defer s.list.mu.Unlock()
	for i := range s.list.items {
		if s.list.items[i].ID != id {
			continue
		}
		prev := s.list.items[i]
		s.list.items[i].Status = status
		s.list.items[i].UpdatedAt = now()
		if err := s.list.saveLocked(); err != nil {
			s.list.items[i] = prev
			return models.Report{}, fmt.Errorf("save report: %w", err)
		}
		return s.list.items[i], nil
	}
	return models.Report{}, ErrNotFound
}

func (s *LocalReportStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.list.mu.Lock()
	defer s.list.mu.Unlock()
	for i := range s.list.items {
		if s.list.items[i].ID != id {
			continue
		}
		prev := s.list.items
		kept := make([]models.Report, 0, len(prev)-1)
		kept = append(kept, prev[:i]...)
		kept = append(kept, prev[i+1:]...)
		s.list.items = kept
		if err := s.list.saveLocked(); err != nil {
			s.list.items = prev
			return fmt.Errorf("save reports: %w", err)
		}
		return nil
	}
	return ErrNotFound
}

func (s *LocalReportStore) Stats(_ context.Context) (models.ReportStats, error) {
	s.list.mu.RLock()
	defer s.list.mu.RUnlock()
	stats := models.NewReportStats()
	for _, r := range s.list.items {
		stats.Add(r)
	}
	return stats, nil
}

// LocalFaqStore keeps FAQ messages in memory, persisted to a JSON file.
type LocalFaqStore struct {
	list *persistedList[models.Faq]
}

func NewLocalFaqStore(path string) (*LocalFaqStore, error) {
	list, err := openPersistedList[models.Faq](path)
	if err != nil {
		return nil, err
	}
	return &LocalFaqStore{list: list}, nil
}

func (s *LocalFaqStore) Create(_ context.Context, f *models.Faq) error {
	prepareFaq(f)

	s.list.mu.Lock()
	defer s.list.mu.Unlock()
	s.list.items = append(s.list.items, *f)
	if err := s.list.saveLocked(); err != nil {
		s.list.items = s.list.items[:len(s.list.items)-1]
		return fmt.Errorf("save faq: %w", err)
	}
	return nil
}

func (s *LocalFaqStore) List(_ context.Context) ([]models.Faq, error) {
	s.list.mu.RLock()
	defer s.list.mu.RUnlock()
	return s.list.newestFirst(nil), nil
}

// LocalOrderStore keeps orders in memory, persisted to a JSON file.
type LocalOrderStore struct {
	list *persistedList[models.Order]
}

func NewLocalOrderStore(path string) (*LocalOrderStore, error) {
	list, err := openPersistedList[models.Order](path)
	if err != nil {
		return nil, err
	}
	return &LocalOrderStore{list: list}, nil
}

func (s *LocalOrderStore) Create(_ context.Context, o *models.Order) error {
	prepareOrder(o)

	s.list.mu.Lock()
	defer s.list.mu.Unlock()
	s.list.items = append(s.list.items, *o)
	if err := s.list.saveLocked(); err != nil {
		s.list.items = s.list.items[:len(s.list.items)-1]
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func (s *LocalOrderStore) Get(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.list.mu.RLock()
	defer s.list.mu.RUnlock()
	for _, o := range s.list.items {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, ErrNotFound
}

func (s *LocalOrderStore) ExpirePending(_ context.Context, cutoff time.Time) (int64, error) {
	s.list.mu.Lock()
	defer s.list.mu.Unlock()

	var changed []int
	for i, o := range s.list.items {
		if o.Status == models.OrderPending && o.CreatedAt.Before(cutoff) {
			s.list.items[i].Status = models.OrderExpired
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return 0, nil
	}
	if err := s.list.saveLocked(); err != nil {
		for _, i := range changed {
			s.list.items[i].Status = models.OrderPending
		}
		return 0, fmt.Errorf("save orders: %w", err)
	}
	return int64(len(changed)), nil
}
