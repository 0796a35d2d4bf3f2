package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/pkg/filter"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type PilgrimRepository interface {
	Create(ctx context.Context, pilgrim domain.Pilgrim) (domain.Pilgrim, error)
	Update(ctx context.Context, pilgrim domain.Pilgrim) (domain.Pilgrim, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Pilgrim, error)
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Pilgrim, error)
	List(ctx context.Context, sel filter.Selection, search string, page, limit int) (domain.PilgrimPage, error)
}

// PilgrimCache is a best-effort read-through cache. Getters report a miss
// on any failure.
type PilgrimCache interface {
	GetPilgrim(ctx context.Context, id uint) (domain.Pilgrim, bool)
	SetPilgrim(ctx context.Context, p domain.Pilgrim)
	GetPage(ctx context.Context, query string) (domain.PilgrimPage, int64, bool)
	SetPage(ctx context.Context, version int64, query string, page domain.PilgrimPage)
	InvalidateLists(ctx context.Context) error
	InvalidateDetails(ctx context.Context, ids ...uint) error
}

type PhotoStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

// Photo is an uploaded pilgrim picture. Its content type is sniffed, never
// taken from the client.
type Photo struct {
	Data []byte
}

type ListQuery struct {
	Filter filter.Selection
	Search string
	Page   int
	Limit  int
}

func (q ListQuery) normalize() ListQuery {
	q.Search = strings.TrimSpace(q.Search)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	q.Limit = min(q.Limit, MaxPageLimit)

	return q
}

// cacheKey hashes the encoded query so arbitrary search text stays a safe
// redis key.
func (q ListQuery) cacheKey() string {
	v := q.Filter.Values()
	v.Set("q", q.Search)
	v.Set("page", fmt.Sprint(q.Page))
	v.Set("limit", fmt.Sprint(q.Limit))
	sum := sha256.Sum256([]byte(v.Encode()))

	return hex.EncodeToString(sum[:])
}

type PilgrimService struct {
	repo   PilgrimRepository
	cache  PilgrimCache
	photos PhotoStore
}

func NewPilgrimService(repo PilgrimRepository, cache PilgrimCache, photos PhotoStore) *PilgrimService {
	return &PilgrimService{
		repo:   repo,
		cache:  cache,
		photos: photos,
	}
}

func (s *PilgrimService) Get(ctx context.Context, id uint) (domain.Pilgrim, error) {
	if p, ok := s.cache.GetPilgrim(ctx, id); ok {
		return p, nil
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Pilgrim{}, fmt.Errorf("s.repo.FindByID -> %w", classify(err))
	}
	s.cache.SetPilgrim(ctx, p)

	return p, nil
}

func (s *PilgrimService) List(ctx context.Context, q ListQuery) (domain.PilgrimPage, error) {
	q = q.normalize()
	key := q.cacheKey()
	page, version, ok := s.cache.GetPage(ctx, key)
	if ok {
		return page, nil
	}

	page, err := s.repo.List(ctx, q.Filter, q.Search, q.Page, q.Limit)
	if err != nil {
		return domain.PilgrimPage{}, fmt.Errorf("s.repo.List -> %w", err)
	}
	s.cache.SetPage(ctx, version, key, page)

	return page, nil
}

func (s *PilgrimService) Create(ctx context.Context, pilgrim domain.Pilgrim, photo *Photo) (domain.Pilgrim, error) {
	pilgrim.ID = 0
	pilgrim.Source = domain.SourceManual
	pilgrim.ImportHistoryID = nil
	pilgrim.TagIDs = domain.NormalizeIDs(pilgrim.TagIDs)
	pilgrim.SupervisorIDs = domain.NormalizeIDs(pilgrim.SupervisorIDs)
	if err := pilgrim.Validate(); err != nil {
		return domain.Pilgrim{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if photo != nil {
		key, err := s.storePhoto(ctx, *photo)
		if err != nil {
			return domain.Pilgrim{}, err
		}
		pilgrim.PhotoKey = key
	}

	created, err := s.repo.Create(ctx, pilgrim)
	if err != nil {
		s.dropPhoto(ctx, pilgrim.PhotoKey)
		return domain.Pilgrim{}, fmt.Errorf("s.repo.Create -> %w", err)
	}
	s.invalidate(ctx)

	return created, nil
}

// Update replaces the editable fields of an existing pilgrim. The stored
// photo is kept unless a new one is supplied.
func (s *PilgrimService) Update(ctx context.Context, pilgrim domain.Pilgrim, photo *Photo) (domain.Pilgrim, error) {
	pilgrim.TagIDs = domain.NormalizeIDs(pilgrim.TagIDs)
	pilgrim.SupervisorIDs = domain.NormalizeIDs(pilgrim.SupervisorIDs)
	if err := pilgrim.Validate(); err != nil {
		return domain.Pilgrim{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	current, err := s.repo.FindByID(ctx, pilgrim.ID)
	if err != nil {
		return domain.Pilgrim{}, fmt.Errorf("s.repo.FindByID -> %w", classify(err))
	}
	pilgrim.PhotoKey = current.PhotoKey
	if photo != nil {
		key, err := s.storePhoto(ctx, *photo)
		if err != nil {
			return domain.Pilgrim{}, err
		}
		pilgrim.PhotoKey = key
	}

	updated, err := s.repo.Update(ctx, pilgrim)
	if err != nil {
		if pilgrim.PhotoKey != current.PhotoKey {
			s.dropPhoto(ctx, pilgrim.PhotoKey)
		}
		return domain.Pilgrim{}, fmt.Errorf("s.repo.Update -> %w", classify(err))
	}
	if updated.PhotoKey != current.PhotoKey {
		s.dropPhoto(ctx, current.PhotoKey)
	}
	s.invalidate(ctx, updated.ID)

	return updated, nil
}

func (s *PilgrimService) Delete(ctx context.Context, id uint) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", classify(err))
	}
	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", classify(err))
	}
	s.dropPhoto(ctx, current.PhotoKey)
	s.invalidate(ctx, id)

	return nil
}

// PhotoURL returns a short-lived link to the pilgrim's photo.
func (s *PilgrimService) PhotoURL(ctx context.Context, id uint) (string, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if p.PhotoKey == "" {
		return "", fmt.Errorf("%w: pilgrim %d has no photo", ErrNotFound, id)
	}

	url, err := s.photos.URL(ctx, p.PhotoKey)
	if err != nil {
		return "", fmt.Errorf("s.photos.URL -> %w", err)
	}

	return url, nil
}

func (s *PilgrimService) storePhoto(ctx context.Context, photo Photo) (string, error) {
	mt := mimetype.Detect(photo.Data)
	if err := domain.ValidatePhoto(mt.String(), int64(len(photo.Data))); err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}

	key := "pilgrims/" + uuid.NewString() + mt.Extension()
	if err := s.photos.Put(ctx, key, mt.String(), photo.Data); err != nil {
		return "", fmt.Errorf("s.photos.Put -> %w", err)
	}

	return key, nil
}

func (s *PilgrimService) dropPhoto(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.photos.Delete(ctx, key); err != nil {
		zap.L().Warn("failed to delete pilgrim photo", zap.String("key", key), zap.Error(err))
	}
}

func (s *PilgrimService) invalidate(ctx context.Context, ids ...uint) {
	invalidatePilgrims(ctx, s.cache, ids...)
}

// invalidatePilgrims must only run after the write has been committed.
func invalidatePilgrims(ctx context.Context, cache PilgrimCache, ids ...uint) {
	if err := cache.InvalidateLists(ctx); err != nil {
		zap.L().Warn("failed to invalidate pilgrim lists", zap.Error(err))
	}
	if len(ids) == 0 {
		return
	}
	if err := cache.InvalidateDetails(ctx, ids...); err != nil {
		zap.L().Warn("failed to invalidate pilgrim details", zap.Uints("ids", ids), zap.Error(err))
	}
}
