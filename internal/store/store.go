// Package store persists the admin dataset (guidelines, knowledge base,
// system prompts) as a single JSON document on disk.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redaktor-ai/textserver/internal/domain"
	"github.com/redaktor-ai/textserver/internal/prompt"
	"go.uber.org/zap"
)

// Store is a file-backed admin-data store. All reads return copies; the
// document is rewritten atomically on every mutation.
type Store struct {
	mu     sync.RWMutex
	path   string
	data   domain.AdminData
	logger *zap.Logger
}

// New loads the admin document from path, seeding a default dataset when
// the file does not exist yet.
func New(path string, logger *zap.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger.Named("store"),
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("parse admin data %s: %w", path, err)
		}
	case os.IsNotExist(err):
		s.data = defaultData()
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		s.logger.Info("seeded default admin data", zap.String("path", path))
	default:
		return nil, fmt.Errorf("read admin data %s: %w", path, err)
	}

	if s.data.Guidelines == nil {
		s.data.Guidelines = []domain.Guideline{}
	}
	if s.data.KnowledgeBase == nil {
		s.data.KnowledgeBase = []domain.KnowledgeBaseArticle{}
	}
	if s.data.SystemPrompts == nil {
		s.data.SystemPrompts = []domain.SystemPrompt{}
	}
	return s, nil
}

// defaultData seeds one active prompt template and no guidelines or
// articles.
func defaultData() domain.AdminData {
	return domain.AdminData{
		Guidelines:    []domain.Guideline{},
		KnowledgeBase: []domain.KnowledgeBaseArticle{},
		SystemPrompts: []domain.SystemPrompt{
			{
				ID:        "default",
				Content:   prompt.DefaultTemplate,
				Version:   1,
				CreatedAt: time.Now().UTC(),
				IsActive:  true,
			},
		},
		ActivePromptID: "default",
	}
}

// persistLocked writes the document via a temp-file rename. Callers
// hold the write lock (or have exclusive access during New).
func (s *Store) persistLocked() error {
	payload, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal admin data: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".admin-data-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace admin data: %w", err)
	}
	return nil
}

// GetData returns a deep copy of the full admin document.
func (s *Store) GetData() domain.AdminData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyData(s.data)
}

// ReplaceData swaps in a new full document, as the admin UI saves the
// whole dataset at once. Prompts lacking IDs get generated ones; when no
// prompt is active the first one becomes active.
func (s *Store) ReplaceData(data domain.AdminData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data.Guidelines == nil {
		data.Guidelines = []domain.Guideline{}
	}
	if data.KnowledgeBase == nil {
		data.KnowledgeBase = []domain.KnowledgeBaseArticle{}
	}
	if data.SystemPrompts == nil {
		data.SystemPrompts = []domain.SystemPrompt{}
	}

	for i := range data.Guidelines {
		if data.Guidelines[i].ID == "" {
			data.Guidelines[i].ID = uuid.NewString()
		}
		if data.Guidelines[i].CreatedAt.IsZero() {
			data.Guidelines[i].CreatedAt = time.Now().UTC()
		}
	}
	for i := range data.KnowledgeBase {
		if data.KnowledgeBase[i].ID == "" {
			data.KnowledgeBase[i].ID = uuid.NewString()
		}
		if data.KnowledgeBase[i].CreatedAt.IsZero() {
			data.KnowledgeBase[i].CreatedAt = time.Now().UTC()
		}
	}
	for i := range data.SystemPrompts {
		if data.SystemPrompts[i].ID == "" {
			data.SystemPrompts[i].ID = uuid.NewString()
		}
		if data.SystemPrompts[i].CreatedAt.IsZero() {
			data.SystemPrompts[i].CreatedAt = time.Now().UTC()
		}
	}

	if data.ActivePromptID == "" || !promptExists(data.SystemPrompts, data.ActivePromptID) {
		data.ActivePromptID = ""
		if len(data.SystemPrompts) > 0 {
			data.ActivePromptID = data.SystemPrompts[0].ID
		}
	}
	syncActiveFlags(&data)

	prev := s.data
	s.data = data
	if err := s.persistLocked(); err != nil {
		s.data = prev
		return err
	}
	return nil
}

// GetGuidelines returns a copy of the guidelines.
func (s *Store) GetGuidelines() []domain.Guideline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Guideline, len(s.data.Guidelines))
	copy(out, s.data.Guidelines)
	return out
}

// GetKnowledgeBase returns a copy of the knowledge-base articles.
func (s *Store) GetKnowledgeBase() []domain.KnowledgeBaseArticle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.KnowledgeBaseArticle, len(s.data.KnowledgeBase))
	copy(out, s.data.KnowledgeBase)
	return out
}

// GetActivePromptTemplate returns the content of the active system
// prompt. ErrNoActiveTemplate when no prompt is active.
func (s *Store) GetActivePromptTemplate() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.data.SystemPrompts {
		if p.ID == s.data.ActivePromptID {
			return p.Content, nil
		}
	}
	return "", domain.ErrNoActiveTemplate
}

// SetActivePrompt switches the active template by ID.
func (s *Store) SetActivePrompt(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !promptExists(s.data.SystemPrompts, id) {
		return fmt.Errorf("system prompt %q: %w", id, domain.ErrNoActiveTemplate)
	}

	prev := s.data.ActivePromptID
	s.data.ActivePromptID = id
	syncActiveFlags(&s.data)
	if err := s.persistLocked(); err != nil {
		s.data.ActivePromptID = prev
		syncActiveFlags(&s.data)
		return err
	}
	return nil
}

func promptExists(prompts []domain.SystemPrompt, id string) bool {
	for _, p := range prompts {
		if p.ID == id {
			return true
		}
	}
	return false
}

// syncActiveFlags keeps the per-prompt IsActive flags consistent with
// ActivePromptID.
func syncActiveFlags(data *domain.AdminData) {
	for i := range data.SystemPrompts {
		data.SystemPrompts[i].IsActive = data.SystemPrompts[i].ID == data.ActivePromptID
	}
}

func copyData(in domain.AdminData) domain.AdminData {
	out := domain.AdminData{
		Guidelines:     make([]domain.Guideline, len(in.Guidelines)),
		KnowledgeBase:  make([]domain.KnowledgeBaseArticle, len(in.KnowledgeBase)),
		SystemPrompts:  make([]domain.SystemPrompt, len(in.SystemPrompts)),
		ActivePromptID: in.ActivePromptID,
	}
	copy(out.Guidelines, in.Guidelines)
	copy(out.KnowledgeBase, in.KnowledgeBase)
	copy(out.SystemPrompts, in.SystemPrompts)
	return out
}
