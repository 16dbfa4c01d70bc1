package repository

import (
	"context"

	"github.com/permitdesk/permitdesk/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
// Get* methods return (nil, nil) when the row does not exist; Delete* methods
// report whether a row existed to delete.

type PackageRepo interface {
	CreatePackage(ctx context.Context, p *models.PermitPackage) (int64, error)
	GetPackage(ctx context.Context, id int64) (*models.PermitPackage, error)
	ListPackages(ctx context.Context) ([]models.PermitPackage, error)
	UpdatePackage(ctx context.Context, p *models.PermitPackage) error
	DeletePackage(ctx context.Context, id int64) (bool, error)
}

type DocumentRepo interface {
	CreateDocument(ctx context.Context, d *models.PackageDocument) (int64, error)
	GetDocument(ctx context.Context, id int64) (*models.PackageDocument, error)
	ListByPackage(ctx context.Context, packageID int64) ([]models.PackageDocument, error)
	UpdateDocument(ctx context.Context, d *models.PackageDocument) error
	DeleteDocument(ctx context.Context, id int64) (bool, error)
}

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListPendingUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type SettingRepo interface {
	UpsertSetting(ctx context.Context, key, value string) error
	GetSetting(ctx context.Context, key string) (*models.Setting, error)
	ListSettings(ctx context.Context) ([]models.Setting, error)
}
