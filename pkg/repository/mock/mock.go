package mock

import (
	"context"
	"time"

	"github.com/permitdesk/permitdesk/pkg/models"
)

// Test helpers and mocks: in-memory repositories keyed by id, with
// injectable errors for failure paths.

type Mocks struct {
	Packages  *PackageRepo
	Documents *DocumentRepo
	Users     *UserRepo
	Settings  *SettingRepo
}

func NewMocks() *Mocks {
	docs := &DocumentRepo{rows: map[int64]models.PackageDocument{}}
	return &Mocks{
		Packages:  &PackageRepo{rows: map[int64]models.PermitPackage{}, docs: docs},
		Documents: docs,
		Users:     &UserRepo{rows: map[int64]models.User{}},
		Settings:  &SettingRepo{rows: map[string]models.Setting{}},
	}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

type PackageRepo struct {
	rows   map[int64]models.PermitPackage
	nextID int64
	docs   *DocumentRepo

	CreateErr error
	UpdateErr error
	ListErr   error
}

func (m *PackageRepo) CreatePackage(ctx context.Context, p *models.PermitPackage) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.nextID++
	p.ID = m.nextID
	p.Created = now()
	p.Updated = p.Created
	m.rows[p.ID] = *p
	return p.ID, nil
}

func (m *PackageRepo) GetPackage(ctx context.Context, id int64) (*models.PermitPackage, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *PackageRepo) ListPackages(ctx context.Context) ([]models.PermitPackage, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]models.PermitPackage, 0, len(m.rows))
	for id := int64(1); id <= m.nextID; id++ {
		if p, ok := m.rows[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *PackageRepo) UpdatePackage(ctx context.Context, p *models.PermitPackage) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.rows[p.ID]; !ok {
		return nil
	}
	p.Updated = now()
	m.rows[p.ID] = *p
	return nil
}

// DeletePackage mirrors the real repo's cascade: the package's documents
// go with it.
func (m *PackageRepo) DeletePackage(ctx context.Context, id int64) (bool, error) {
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	if m.docs != nil {
		m.docs.deleteByPackage(id)
	}
	return true, nil
}

type DocumentRepo struct {
	rows   map[int64]models.PackageDocument
	nextID int64

	CreateErr error
	UpdateErr error
}

func (m *DocumentRepo) CreateDocument(ctx context.Context, d *models.PackageDocument) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.nextID++
	d.ID = m.nextID
	m.rows[d.ID] = *d
	return d.ID, nil
}

func (m *DocumentRepo) GetDocument(ctx context.Context, id int64) (*models.PackageDocument, error) {
	d, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *DocumentRepo) ListByPackage(ctx context.Context, packageID int64) ([]models.PackageDocument, error) {
	out := make([]models.PackageDocument, 0)
	for id := int64(1); id <= m.nextID; id++ {
		if d, ok := m.rows[id]; ok && d.PackageID == packageID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *DocumentRepo) UpdateDocument(ctx context.Context, d *models.PackageDocument) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.rows[d.ID]; !ok {
		return nil
	}
	m.rows[d.ID] = *d
	return nil
}

func (m *DocumentRepo) DeleteDocument(ctx context.Context, id int64) (bool, error) {
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *DocumentRepo) deleteByPackage(packageID int64) {
	for id, d := range m.rows {
		if d.PackageID == packageID {
			delete(m.rows, id)
		}
	}
}

type UserRepo struct {
	rows   map[int64]models.User
	nextID int64

	CreateErr error
}

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.nextID++
	u.ID = m.nextID
	u.Updated = now()
	m.rows[u.ID] = *u
	return u.ID, nil
}

func (m *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) ListPendingUsers(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0)
	for id := int64(1); id <= m.nextID; id++ {
		if u, ok := m.rows[id]; ok && !u.Approved {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *UserRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if _, ok := m.rows[u.ID]; !ok {
		return nil
	}
	u.Updated = now()
	m.rows[u.ID] = *u
	return nil
}

func (m *UserRepo) DeleteUser(ctx context.Context, id int64) error {
	delete(m.rows, id)
	return nil
}

type SettingRepo struct {
	rows map[string]models.Setting
}

func (m *SettingRepo) UpsertSetting(ctx context.Context, key, value string) error {
	m.rows[key] = models.Setting{Key: key, Value: value, Updated: now()}
	return nil
}

func (m *SettingRepo) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	s, ok := m.rows[key]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *SettingRepo) ListSettings(ctx context.Context) ([]models.Setting, error) {
	out := make([]models.Setting, 0, len(m.rows))
	for _, s := range m.rows {
		out = append(out, s)
	}
	return out, nil
}
