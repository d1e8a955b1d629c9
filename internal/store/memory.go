// Package store 提供数据集的内存存储。
// 诊断是一次性计算，数据集只在进程生命周期内保留，不做持久化。
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liuxx839/ffe/internal/model"
)

// ErrDatasetNotFound 数据集不存在
var ErrDatasetNotFound = errors.New("dataset not found")

// MemoryStore 内存数据集存储
type MemoryStore struct {
	datasets map[string]*model.Dataset
	mu       sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		datasets: make(map[string]*model.Dataset),
	}
}

// AddDataset 保存一个新数据集并分配ID
func (s *MemoryStore) AddDataset(fileName, schemaName string, records []*model.SalesRecord) *model.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds := &model.Dataset{
		ID:         uuid.New().String(),
		FileName:   fileName,
		SchemaName: schemaName,
		UploadedAt: time.Now(),
		Records:    records,
	}
	s.datasets[ds.ID] = ds
	return ds
}

// GetDataset 获取单个数据集
func (s *MemoryStore) GetDataset(id string) (*model.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, ErrDatasetNotFound
	}
	return ds, nil
}

// ListDatasets 按上传时间倒序列出全部数据集
func (s *MemoryStore) ListDatasets() []*model.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Dataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		result = append(result, ds)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadedAt.After(result[j].UploadedAt)
	})
	return result
}

// DeleteDataset 删除数据集
func (s *MemoryStore) DeleteDataset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return ErrDatasetNotFound
	}
	delete(s.datasets, id)
	return nil
}

// Count 数据集数量
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}
