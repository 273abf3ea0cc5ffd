package unit

import (
	"context"
	"fmt"
	"time"

	"expense-backoffice/internal/cache"
	"expense-backoffice/internal/logger"
	"expense-backoffice/internal/models"
)

// Lister birimleri upstream'den çeker. *apiclient.Client bunu sağlar.
type Lister interface {
	ListUnits(ctx context.Context, businessID uint) ([]models.Unit, error)
}

// Store işletme birim listesini Redis'te önbelleğe alır. Kayıtlar kullanıcı
// bazındadır: her kullanıcı listeyi en az bir kez kendi token'ıyla
// upstream'den okur. Redis kapalıysa her çağrı upstream'e gider.
type Store struct {
	ttl time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl}
}

func cacheKey(businessID, userID uint) string {
	return fmt.Sprintf("units:business:%d:user:%d", businessID, userID)
}

func businessPattern(businessID uint) string {
	return fmt.Sprintf("units:business:%d:user:*", businessID)
}

func (s *Store) List(ctx context.Context, up Lister, businessID, userID uint) ([]models.Unit, error) {
	log := logger.WithComponent("unit")
	key := cacheKey(businessID, userID)

	var units []models.Unit
	found, err := cache.GetObject(ctx, key, &units)
	if err != nil {
		log.Warn().Err(err).Uint("business_id", businessID).Msg("birim önbelleği okunamadı")
	}
	if found {
		return units, nil
	}

	units, err = up.ListUnits(ctx, businessID)
	if err != nil {
		return nil, err
	}
	sortUnits(units)

	if err := cache.SetObject(ctx, key, units, s.ttl); err != nil {
		log.Warn().Err(err).Uint("business_id", businessID).Msg("birim önbelleği yazılamadı")
	}
	return units, nil
}

func (s *Store) Catalog(ctx context.Context, up Lister, businessID, userID uint) (*Catalog, error) {
	units, err := s.List(ctx, up, businessID, userID)
	if err != nil {
		return nil, err
	}
	return NewCatalog(units), nil
}

// Invalidate işletmenin tüm kullanıcılarına ait listeleri siler.
func (s *Store) Invalidate(ctx context.Context, businessID uint) {
	if err := cache.DeleteMatching(ctx, businessPattern(businessID)); err != nil {
		log := logger.WithComponent("unit")
		log.Warn().Err(err).Uint("business_id", businessID).Msg("birim önbelleği silinemedi")
	}
}
