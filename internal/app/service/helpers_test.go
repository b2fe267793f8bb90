package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/repository"
	"github.com/chitram/chitram-backend/internal/db"
	"github.com/chitram/chitram-backend/internal/events"
	"github.com/chitram/chitram-backend/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memStorage is an in-memory storage.Storage with injectable failures.
type memStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	saveErr   error
	deleteErr error
	copyErr   error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Save(_ context.Context, folder storage.Folder, contentType string, body io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	key := storage.NewKey(folder, storage.ExtensionFor(contentType))
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return key, nil
}

func (m *memStorage) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return fmt.Errorf("%w: %q", storage.ErrObjectNotFound, key)
	}
	delete(m.objects, key)
	return nil
}

func (m *memStorage) Copy(_ context.Context, srcKey string, dst storage.Folder) (string, error) {
	if m.copyErr != nil {
		return "", m.copyErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[srcKey]
	if !ok {
		return "", fmt.Errorf("%w: %q", storage.ErrObjectNotFound, srcKey)
	}
	key := storage.NewKey(dst, path.Ext(srcKey))
	m.objects[key] = data
	return key, nil
}

func (m *memStorage) URL(key string) string {
	return "/uploads/" + key
}

func (m *memStorage) has(key string) bool {
	ok, _ := m.Exists(context.Background(), key)
	return ok
}

func (m *memStorage) count(folder storage.Folder) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.objects {
		if strings.HasPrefix(key, string(folder)+"/") {
			n++
		}
	}
	return n
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func jpeg(name string) *Upload {
	body := []byte("\xff\xd8\xff fake jpeg")
	return &Upload{Filename: name, ContentType: "image/jpeg", Size: int64(len(body)), Body: bytes.NewReader(body)}
}

type testEnv struct {
	db        *gorm.DB
	store     *memStorage
	publisher *recordingPublisher

	applicationRepo repository.ApplicationRepository
	artistRepo      repository.ArtistRepository
	artworkRepo     repository.ArtworkRepository
	orderRepo       repository.OrderRepository
	messageRepo     repository.MessageRepository
	pageViewRepo    repository.PageViewRepository

	applications ApplicationService
	artists      ArtistService
	artworks     ArtworkService
	orders       OrderService
	messages     MessageService
	stats        StatsService
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	env := &testEnv{
		db:              testDB,
		store:           newMemStorage(),
		publisher:       &recordingPublisher{},
		applicationRepo: repository.NewApplicationRepository(testDB),
		artistRepo:      repository.NewArtistRepository(testDB),
		artworkRepo:     repository.NewArtworkRepository(testDB),
		orderRepo:       repository.NewOrderRepository(testDB),
		messageRepo:     repository.NewMessageRepository(testDB),
		pageViewRepo:    repository.NewPageViewRepository(testDB),
	}
	env.applications = NewApplicationService(env.applicationRepo, env.artistRepo, env.store, env.publisher)
	env.artists = NewArtistService(env.artistRepo, env.artworkRepo, env.store, env.publisher)
	env.artworks = NewArtworkService(env.artworkRepo, env.artistRepo, env.store, env.publisher, testDB)
	env.orders = NewOrderService(env.orderRepo, env.artworkRepo, env.publisher)
	env.messages = NewMessageService(env.messageRepo, env.publisher)
	env.stats = NewStatsService(env.pageViewRepo, env.artistRepo, env.artworkRepo, env.orderRepo, env.messageRepo, env.applicationRepo)
	return env
}

func (env *testEnv) createArtist(t *testing.T, name, email string) *model.Artist {
	t.Helper()
	artist, err := env.artists.Create(context.Background(), ArtistInput{FullName: name, Age: 30, Email: email}, nil)
	require.NoError(t, err)
	return artist
}

func (env *testEnv) createArtwork(t *testing.T, artistID, name string, cost float64) *model.Artwork {
	t.Helper()
	artwork, err := env.artworks.Create(context.Background(), ArtworkInput{
		ArtistID: artistID,
		Name:     name,
		Category: "painting",
		Cost:     cost,
	}, jpeg(name+".jpg"))
	require.NoError(t, err)
	return artwork
}

func (env *testEnv) artist(t *testing.T, id string) *model.Artist {
	t.Helper()
	artist, err := env.artistRepo.FindByID(id)
	require.NoError(t, err)
	return artist
}
