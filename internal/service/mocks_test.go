package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/folio-next/internal/models"
	"github.com/folio-next/internal/queue"
)

var errStoreDown = errors.New("store down")

type mockSettingRepo struct {
	store map[string]models.JSON
}

func newMockSettingRepo() *mockSettingRepo {
	return &mockSettingRepo{store: map[string]models.JSON{}}
}

func (m *mockSettingRepo) GetByKey(_ context.Context, key string) (*models.Setting, error) {
	value, ok := m.store[key]
	if !ok {
		return nil, nil
	}
	return &models.Setting{Key: key, ValueJSON: value}, nil
}

func (m *mockSettingRepo) Upsert(_ context.Context, key string, value models.JSON) (*models.Setting, error) {
	m.store[key] = value
	return &models.Setting{Key: key, ValueJSON: value}, nil
}

type mockProfileSettingRepo struct {
	mu       sync.Mutex
	record   *models.ProfileSettings
	getErr   error
	writeErr error
	writes   int
}

func newMockProfileSettingRepo() *mockProfileSettingRepo {
	return &mockProfileSettingRepo{}
}

func (m *mockProfileSettingRepo) seedConstruction(active bool, until *time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensure()
	m.record.IsUnderConstruction = active
	m.record.ConstructionActiveUntil = until
}

func (m *mockProfileSettingRepo) snapshot() *models.ProfileSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record == nil {
		return nil
	}
	copied := *m.record
	return &copied
}

func (m *mockProfileSettingRepo) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *mockProfileSettingRepo) ensure() {
	if m.record == nil {
		m.record = &models.ProfileSettings{Key: "profile"}
	}
}

func (m *mockProfileSettingRepo) Get(_ context.Context) (*models.ProfileSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.record == nil {
		return nil, nil
	}
	copied := *m.record
	return &copied, nil
}

func (m *mockProfileSettingRepo) write(apply func(record *models.ProfileSettings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.ensure()
	apply(m.record)
	m.writes++
	return nil
}

func (m *mockProfileSettingRepo) SaveConstruction(_ context.Context, state models.ConstructionState) error {
	return m.write(func(record *models.ProfileSettings) {
		record.IsUnderConstruction = state.IsActive
		record.ConstructionActiveUntil = state.ActiveUntil
	})
}

func (m *mockProfileSettingRepo) ExtendConstruction(_ context.Context, until time.Time) error {
	return m.write(func(record *models.ProfileSettings) {
		record.ConstructionActiveUntil = &until
	})
}

func (m *mockProfileSettingRepo) SaveProfileImage(_ context.Context, url string) error {
	return m.write(func(record *models.ProfileSettings) {
		record.ProfileImageURL = url
	})
}

func (m *mockProfileSettingRepo) SaveCV(_ context.Context, url, name string) error {
	return m.write(func(record *models.ProfileSettings) {
		record.CVFileURL = url
		record.CVFileName = name
	})
}

type mockAdminRepo struct {
	admins    map[uint]*models.Admin
	nextID    uint
	updateErr error
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: map[uint]*models.Admin{}, nextID: 1}
}

func (m *mockAdminRepo) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	for _, admin := range m.admins {
		if admin.Username == username {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockAdminRepo) GetByID(_ context.Context, id uint) (*models.Admin, error) {
	admin, ok := m.admins[id]
	if !ok {
		return nil, nil
	}
	copied := *admin
	return &copied, nil
}

func (m *mockAdminRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.admins)), nil
}

func (m *mockAdminRepo) Create(_ context.Context, admin *models.Admin) error {
	admin.ID = m.nextID
	m.nextID++
	copied := *admin
	m.admins[admin.ID] = &copied
	return nil
}

func (m *mockAdminRepo) Update(_ context.Context, admin *models.Admin) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	copied := *admin
	m.admins[admin.ID] = &copied
	return nil
}

type mockDeactivator struct {
	calls int
	err   error
}

func (m *mockDeactivator) Deactivate(_ context.Context) error {
	m.calls++
	return m.err
}

type mockAssetCleaner struct {
	payloads []queue.AssetCleanupPayload
	delays   []time.Duration
}

func (m *mockAssetCleaner) EnqueueAssetCleanup(payload queue.AssetCleanupPayload, delay time.Duration) error {
	m.payloads = append(m.payloads, payload)
	m.delays = append(m.delays, delay)
	return nil
}

// fakeNow 可手动推进的时钟
type fakeNow struct {
	mu  sync.Mutex
	cur time.Time
}

func newFakeNow(start time.Time) *fakeNow {
	return &fakeNow{cur: start}
}

func (f *fakeNow) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cur
}

func (f *fakeNow) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cur = f.cur.Add(d)
}
