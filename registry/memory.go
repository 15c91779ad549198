package registry

import (
	"sync"

	"github.com/siherrmann/vecstore/model"
)

// MemoryMetadataService keeps database metadata in process memory.
type MemoryMetadataService struct {
	mu    sync.RWMutex
	infos map[string]*model.DatabaseInfo
}

// NewMemoryMetadataService creates an empty in-memory metadata service.
func NewMemoryMetadataService() *MemoryMetadataService {
	return &MemoryMetadataService{
		infos: make(map[string]*model.DatabaseInfo),
	}
}

func (s *MemoryMetadataService) Put(info *model.DatabaseInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *info
	s.infos[info.Name] = &stored

	return nil
}

func (s *MemoryMetadataService) Get(name string) (*model.DatabaseInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.infos[name]
	if !ok {
		return nil, nil
	}

	found := *info
	return &found, nil
}

func (s *MemoryMetadataService) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.infos, name)

	return nil
}

func (s *MemoryMetadataService) List() ([]*model.DatabaseInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]*model.DatabaseInfo, 0, len(s.infos))
	for _, info := range s.infos {
		found := *info
		infos = append(infos, &found)
	}

	return infos, nil
}

func (s *MemoryMetadataService) Close() error {
	return nil
}
