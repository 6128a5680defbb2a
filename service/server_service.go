// file: service/server_service.go

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sn-inventory-api/model"
	"sn-inventory-api/repository"
	"time"
)

// ServerService handles inventory lookups, utilizing a cache-aside strategy
// for detail reads. Inventory records change rarely, so a short cache TTL is
// a safe trade against lookup latency.
type ServerService struct {
	repo  repository.IServerRepository
	cache ICacheClient
}

// NewServerService creates a new ServerService. The cache client may be nil,
// in which case every read goes to the database.
func NewServerService(repo repository.IServerRepository, cache ICacheClient) *ServerService {
	return &ServerService{repo: repo, cache: cache}
}

// SearchSN returns up to 20 serial numbers matching the keyword.
func (s *ServerService) SearchSN(keyword string) ([]string, error) {
	return s.repo.SearchSN(keyword)
}

// GetBySN retrieves a single inventory record, trying the cache first.
func (s *ServerService) GetBySN(sn string) (*model.Server, error) {
	cacheKey := fmt.Sprintf("server:%s", sn)
	ctx := context.Background()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			server := &model.Server{}
			if err := json.Unmarshal([]byte(cached), server); err == nil {
				return server, nil
			}
		}
	}

	server, err := s.repo.GetBySN(sn)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(server); err == nil {
			s.cache.Set(ctx, cacheKey, data, 10*time.Minute)
		}
	}

	return server, nil
}
