package badger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/ragkit/internal/interfaces"
)

// variableRecord is the stored form of a variable. Name is the lowercased key.
type variableRecord struct {
	Name        string `badgerhold:"key"`
	Value       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r variableRecord) pair() interfaces.KeyValuePair {
	return interfaces.KeyValuePair{
		Key:         r.Name,
		Value:       r.Value,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// KVStorage holds the variables that {key} config references and
// driver API key lookups resolve against
type KVStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

func NewKVStorage(db *BadgerDB, logger arbor.ILogger) interfaces.KeyValueStorage {
	return &KVStorage{db: db, logger: logger}
}

func variableName(key string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(key))
	if name == "" {
		return "", errors.New("variable name is required")
	}
	return name, nil
}

func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	name, err := variableName(key)
	if err != nil {
		return "", err
	}

	var record variableRecord
	if err := s.db.Store().Get(name, &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return "", interfaces.ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to read variable %s: %w", name, err)
	}
	return record.Value, nil
}

// Set upserts a variable, keeping the original creation time
func (s *KVStorage) Set(ctx context.Context, key string, value string, description string) error {
	name, err := variableName(key)
	if err != nil {
		return err
	}

	now := time.Now()
	record := variableRecord{
		Name:        name,
		Value:       value,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var existing variableRecord
	if err := s.db.Store().Get(name, &existing); err == nil {
		record.CreatedAt = existing.CreatedAt
	}

	if err := s.db.Store().Upsert(name, &record); err != nil {
		return fmt.Errorf("failed to store variable %s: %w", name, err)
	}

	s.logger.Debug().Str("key", name).Msg("Variable stored")
	return nil
}

func (s *KVStorage) Delete(ctx context.Context, key string) error {
	name, err := variableName(key)
	if err != nil {
		return err
	}

	if err := s.db.Store().Delete(name, &variableRecord{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return interfaces.ErrKeyNotFound
		}
		return fmt.Errorf("failed to delete variable %s: %w", name, err)
	}
	return nil
}

// List returns every variable ordered by name
func (s *KVStorage) List(ctx context.Context) ([]interfaces.KeyValuePair, error) {
	records, err := s.all()
	if err != nil {
		return nil, err
	}

	pairs := make([]interfaces.KeyValuePair, 0, len(records))
	for _, record := range records {
		pairs = append(pairs, record.pair())
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return pairs, nil
}

// GetAll returns name -> value for config key reference resolution
func (s *KVStorage) GetAll(ctx context.Context) (map[string]string, error) {
	records, err := s.all()
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(records))
	for _, record := range records {
		values[record.Name] = record.Value
	}
	return values, nil
}

func (s *KVStorage) all() ([]variableRecord, error) {
	var records []variableRecord
	if err := s.db.Store().Find(&records, nil); err != nil {
		return nil, fmt.Errorf("failed to list variables: %w", err)
	}
	return records, nil
}
