package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/kv"
)

// Service loads and saves settings and vocabularies. Every change is
// persisted immediately.
type Service struct {
	store kv.Store
	mu    sync.Mutex
}

// NewService creates a settings service.
func NewService(store kv.Store) *Service {
	return &Service{store: store}
}

// Get returns the stored settings. Fields missing from the stored document
// keep their defaults.
func (s *Service) Get(ctx context.Context) (AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Service) load(ctx context.Context) (AppSettings, error) {
	current := Defaults()
	if _, err := s.store.Get(ctx, kv.KeySettings, &current); err != nil {
		return Defaults(), fmt.Errorf("load settings: %w", err)
	}
	return current, nil
}

// Update validates and saves the whole settings struct.
func (s *Service) Update(ctx context.Context, next AppSettings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, kv.KeySettings, next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Set changes a single setting from its string form.
func (s *Service) Set(ctx context.Context, key, value string) (AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return current, err
	}
	if err := current.apply(key, value); err != nil {
		return current, err
	}
	if err := current.Validate(); err != nil {
		return current, err
	}
	if err := s.store.Set(ctx, kv.KeySettings, current); err != nil {
		return current, fmt.Errorf("save settings: %w", err)
	}
	return current, nil
}

// Terms returns the terms of a vocabulary, seeding defaults on first use.
func (s *Service) Terms(ctx context.Context, v Vocabulary) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terms(ctx, v)
}

func (s *Service) terms(ctx context.Context, v Vocabulary) ([]string, error) {
	key := v.key()
	if key == "" {
		return nil, ErrUnknownVocab
	}
	var terms []string
	found, err := s.store.Get(ctx, key, &terms)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", v, err)
	}
	if !found {
		return v.defaults(), nil
	}
	if terms == nil {
		terms = []string{}
	}
	return terms, nil
}

// AddTerm appends a term. Terms are unique ignoring case.
func (s *Service) AddTerm(ctx context.Context, v Vocabulary, term string) ([]string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyTerm
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	terms, err := s.terms(ctx, v)
	if err != nil {
		return nil, err
	}
	if indexOf(terms, term) >= 0 {
		return terms, ErrDuplicateTerm
	}
	terms = append(terms, term)
	return terms, s.saveTerms(ctx, v, terms)
}

// RemoveTerm deletes a term, matching case-insensitively.
func (s *Service) RemoveTerm(ctx context.Context, v Vocabulary, term string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms, err := s.terms(ctx, v)
	if err != nil {
		return nil, err
	}
	i := indexOf(terms, strings.TrimSpace(term))
	if i < 0 {
		return terms, ErrTermNotFound
	}
	terms = append(terms[:i:i], terms[i+1:]...)
	return terms, s.saveTerms(ctx, v, terms)
}

func (s *Service) saveTerms(ctx context.Context, v Vocabulary, terms []string) error {
	if err := s.store.Set(ctx, v.key(), terms); err != nil {
		return fmt.Errorf("save %s: %w", v, err)
	}
	return nil
}

func indexOf(terms []string, term string) int {
	for i, t := range terms {
		if strings.EqualFold(t, term) {
			return i
		}
	}
	return -1
}
