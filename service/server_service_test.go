// file: service/server_service_test.go

package service

import (
	"sn-inventory-api/model"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockServerRepo struct{ mock.Mock }

func (m *mockServerRepo) SearchSN(keyword string) ([]string, error) {
	args := m.Called(keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockServerRepo) GetBySN(sn string) (*model.Server, error) {
	args := m.Called(sn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Server), args.Error(1)
}

func TestServerService_SearchSN(t *testing.T) {
	mockRepo := new(mockServerRepo)
	serverService := NewServerService(mockRepo, nil)

	mockRepo.On("SearchSN", "A1").Return([]string{"SN-A1B2C3D4"}, nil).Once()

	sns, err := serverService.SearchSN("A1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"SN-A1B2C3D4"}, sns)
	mockRepo.AssertExpectations(t)
}

func TestServerService_GetBySN_CacheAside(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	mockRepo := new(mockServerRepo)
	serverService := NewServerService(mockRepo, cache)

	server := &model.Server{ID: 1, SN: "SN-A1B2C3D4", Vendor: "Dell"}

	// First read misses the cache and hits the repository.
	mockRepo.On("GetBySN", "SN-A1B2C3D4").Return(server, nil).Once()

	got, err := serverService.GetBySN("SN-A1B2C3D4")
	assert.NoError(t, err)
	assert.Equal(t, "Dell", got.Vendor)

	// Second read is served from the cache; the repository mock would fail
	// the test if it were called again.
	got, err = serverService.GetBySN("SN-A1B2C3D4")
	assert.NoError(t, err)
	assert.Equal(t, "Dell", got.Vendor)
	mockRepo.AssertExpectations(t)
}

func TestServerService_GetBySN_NilCache(t *testing.T) {
	mockRepo := new(mockServerRepo)
	serverService := NewServerService(mockRepo, nil)

	server := &model.Server{ID: 1, SN: "SN-A1B2C3D4"}
	mockRepo.On("GetBySN", "SN-A1B2C3D4").Return(server, nil).Twice()

	for i := 0; i < 2; i++ {
		got, err := serverService.GetBySN("SN-A1B2C3D4")
		assert.NoError(t, err)
		assert.Equal(t, "SN-A1B2C3D4", got.SN)
	}
	mockRepo.AssertExpectations(t)
}
