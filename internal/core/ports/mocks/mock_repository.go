package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/ports"
)

// --- MockMetadataSource ---

// MockMetadataSource is a mock implementation of AssetMetadataSource.
// Assets without registered regions get metadata built by the default func.
type MockMetadataSource struct {
	mu       sync.RWMutex
	regions  map[string][]domain.Region
	failures map[string]error
	empty    map[string]bool
	calls    []string
	Default  func(asset domain.Asset) []domain.Region

	saveFailures map[string]error
	saved        []string
}

// NewMockMetadataSource creates a new mock metadata source
func NewMockMetadataSource() *MockMetadataSource {
	return &MockMetadataSource{
		regions:  make(map[string][]domain.Region),
		failures: make(map[string]error),
		empty:    make(map[string]bool),

		saveFailures: make(map[string]error),
	}
}

// ReturnNil makes fetches for assetID return no metadata and no error
func (m *MockMetadataSource) ReturnNil(assetID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.empty[assetID] = true
}

// SetRegions registers the regions returned for an asset id
func (m *MockMetadataSource) SetRegions(assetID string, regions []domain.Region) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions[assetID] = regions
}

// SetFailure makes the next fetches for assetID fail with err
func (m *MockMetadataSource) SetFailure(assetID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[assetID] = err
}

func (m *MockMetadataSource) GetAssetMetadata(ctx context.Context, asset domain.Asset) (*domain.AssetMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, asset.ID)
	if err, ok := m.failures[asset.ID]; ok {
		return nil, err
	}
	if m.empty[asset.ID] {
		return nil, nil
	}

	regions, ok := m.regions[asset.ID]
	if !ok && m.Default != nil {
		regions = m.Default(asset)
	}

	return &domain.AssetMetadata{
		Asset:   asset,
		Regions: regions,
		Version: "test",
	}, nil
}

// SaveAssetMetadata stores the regions so later fetches return them
func (m *MockMetadataSource) SaveAssetMetadata(ctx context.Context, meta *domain.AssetMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.saveFailures[meta.Asset.ID]; ok {
		return err
	}
	m.regions[meta.Asset.ID] = append([]domain.Region{}, meta.Regions...)
	delete(m.empty, meta.Asset.ID)
	m.saved = append(m.saved, meta.Asset.ID)
	return nil
}

// SetSaveFailure makes saves for assetID fail with err
func (m *MockMetadataSource) SetSaveFailure(assetID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveFailures[assetID] = err
}

// Regions returns the stored regions of an asset
func (m *MockMetadataSource) Regions(assetID string) []domain.Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Region{}, m.regions[assetID]...)
}

// Saved returns the ids of every saved asset, in save order
func (m *MockMetadataSource) Saved() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.saved...)
}

// GetCalls returns the asset ids fetched so far, sorted
func (m *MockMetadataSource) GetCalls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := append([]string{}, m.calls...)
	sort.Strings(calls)
	return calls
}

// --- MockBinaryReader ---

type MockBinaryReader struct {
	mu       sync.Mutex
	data     []byte
	failures map[string]error
}

func NewMockBinaryReader(data []byte) *MockBinaryReader {
	return &MockBinaryReader{
		data:     data,
		failures: make(map[string]error),
	}
}

func (m *MockBinaryReader) SetFailure(assetID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[assetID] = err
}

func (m *MockBinaryReader) GetAssetArray(ctx context.Context, asset domain.Asset) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failures[asset.ID]; ok {
		return nil, err
	}
	return append([]byte{}, m.data...), nil
}

// --- MockStorage ---

// WriteCall records a single write made against MockStorage
type WriteCall struct {
	Path string
	Data []byte
}

// MockStorage records every call in arrival order
type MockStorage struct {
	mu          sync.Mutex
	containers  []string
	binary      []WriteCall
	text        []WriteCall
	failSuffix  string
	failError   error
	failOnMkdir bool
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

// FailWritesTo makes any write whose path ends with suffix fail with err
func (m *MockStorage) FailWritesTo(suffix string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSuffix = suffix
	m.failError = err
}

// FailContainers makes CreateContainer fail for paths ending with suffix
func (m *MockStorage) FailContainers(suffix string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSuffix = suffix
	m.failError = err
	m.failOnMkdir = true
}

func (m *MockStorage) shouldFail(path string, mkdir bool) error {
	if m.failSuffix == "" || m.failOnMkdir != mkdir {
		return nil
	}
	if strings.HasSuffix(path, m.failSuffix) {
		if m.failError != nil {
			return m.failError
		}
		return fmt.Errorf("write failed for %s", path)
	}
	return nil
}

func (m *MockStorage) CreateContainer(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.containers = append(m.containers, path)
	return m.shouldFail(path, true)
}

func (m *MockStorage) WriteBinary(ctx context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.binary = append(m.binary, WriteCall{Path: path, Data: append([]byte{}, data...)})
	return m.shouldFail(path, false)
}

func (m *MockStorage) WriteText(ctx context.Context, path string, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = append(m.text, WriteCall{Path: path, Data: []byte(text)})
	return m.shouldFail(path, false)
}

// Containers returns the container paths in call order
func (m *MockStorage) Containers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.containers...)
}

// BinaryWrites returns the binary writes in call order
func (m *MockStorage) BinaryWrites() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]WriteCall{}, m.binary...)
}

// TextWrites returns the text writes in call order
func (m *MockStorage) TextWrites() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]WriteCall{}, m.text...)
}

// Text returns the last text written to a path ending with suffix
func (m *MockStorage) Text(suffix string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.text) - 1; i >= 0; i-- {
		if strings.HasSuffix(m.text[i].Path, suffix) {
			return string(m.text[i].Data), true
		}
	}
	return "", false
}

// --- MockProjectRepository ---

type MockProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]*domain.Project
	tagSaves int
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{
		projects: make(map[string]*domain.Project),
	}
}

func (m *MockProjectRepository) Add(path string, project *domain.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[path] = project
}

func (m *MockProjectRepository) Load(ctx context.Context, path string) (*domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[path]
	if !ok {
		return nil, fmt.Errorf("project not found: %s", path)
	}
	cp := *p
	cp.Tags = append([]domain.Tag{}, p.Tags...)
	return &cp, nil
}

// SaveTags replaces the tags of a stored project
func (m *MockProjectRepository) SaveTags(ctx context.Context, path string, tags []domain.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[path]
	if !ok {
		return fmt.Errorf("project not found: %s", path)
	}
	cp := *p
	cp.Tags = append([]domain.Tag{}, tags...)
	m.projects[path] = &cp
	m.tagSaves++
	return nil
}

// TagSaves returns how many times tags were saved
func (m *MockProjectRepository) TagSaves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tagSaves
}

// --- MockStorageFactory ---

// MockStorageFactory hands out one storage for every connection
type MockStorageFactory struct {
	mu      sync.Mutex
	Storage *MockStorage
	err     error
	calls   []domain.Connection
}

func NewMockStorageFactory(storage *MockStorage) *MockStorageFactory {
	return &MockStorageFactory{Storage: storage}
}

// SetShouldFail makes ForConnection return err
func (m *MockStorageFactory) SetShouldFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockStorageFactory) ForConnection(ctx context.Context, conn *domain.Connection) (ports.StorageSink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conn != nil {
		m.calls = append(m.calls, *conn)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.Storage, nil
}

// GetCalls returns the connections resolved so far
func (m *MockStorageFactory) GetCalls() []domain.Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Connection{}, m.calls...)
}
