package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"site-assistant/models"
)

// ContextStore persists the single business context document
type ContextStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, content string) error
}

// BusinessContext is the process-wide business description given to the
// model on every chat request. Updates replace it in full.
type BusinessContext struct {
	store ContextStore

	mu      sync.RWMutex
	content string
}

// NewBusinessContext creates a context backed by store
func NewBusinessContext(store ContextStore) *BusinessContext {
	return &BusinessContext{store: store}
}

// LoadBusinessContext creates a context and reads its initial value from store
func LoadBusinessContext(ctx context.Context, store ContextStore) (*BusinessContext, error) {
	bc := NewBusinessContext(store)
	content, err := store.Load(ctx)
	if err != nil {
		return bc, fmt.Errorf("failed to load business context: %w", err)
	}
	bc.content = content
	if content != "" {
		slog.Info("Business context loaded", "length", len(content))
	}
	return bc, nil
}

// Get returns the current business context
func (b *BusinessContext) Get() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content
}

// Replace persists content and then swaps it in
func (b *BusinessContext) Replace(ctx context.Context, content string) error {
	if err := b.store.Save(ctx, content); err != nil {
		return fmt.Errorf("failed to save business context: %w", err)
	}

	b.mu.Lock()
	b.content = content
	b.mu.Unlock()

	slog.Info("Business context updated", "length", len(content))
	return nil
}

// FileContextStore keeps the business context in a flat text file
type FileContextStore struct {
	path string
}

// NewFileContextStore creates a store writing to path
func NewFileContextStore(path string) *FileContextStore {
	return &FileContextStore{path: path}
}

// Load reads the file, returning "" if it does not exist yet
func (s *FileContextStore) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Save overwrites the file with content
func (s *FileContextStore) Save(_ context.Context, content string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, []byte(content), 0o644)
}

const (
	businessContextCollection = "business_context"
	businessContextDocumentID = "business_context"
)

// MongoContextStore keeps the business context as one MongoDB document
type MongoContextStore struct {
	collection *mongo.Collection
}

// NewMongoContextStore creates a store in the given database
func NewMongoContextStore(db *mongo.Database) *MongoContextStore {
	return &MongoContextStore{collection: db.Collection(businessContextCollection)}
}

// Load returns the stored content, or "" when no document exists
func (s *MongoContextStore) Load(ctx context.Context) (string, error) {
	var doc models.BusinessContextDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": businessContextDocumentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

// Save upserts the document with content
func (s *MongoContextStore) Save(ctx context.Context, content string) error {
	doc := models.BusinessContextDocument{
		ID:        businessContextDocumentID,
		Content:   content,
		UpdatedAt: time.Now(),
	}
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": businessContextDocumentID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}
