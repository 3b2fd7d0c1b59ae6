package repository

import (
	"errors"

	"go-erp-sync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository stores backend accounts. Lookups load the role and the
// privileges tokens are issued with.
type UserRepository interface {
	FindByEmail(email string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	Create(user *model.User) error
	SetPasswordHash(id uuid.UUID, hash string) error
	// RotateSession opens a new session and returns its marker; tokens
	// naming the previous one stop validating.
	RotateSession(id uuid.UUID) (string, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) withGrants() *gorm.DB {
	return r.db.Preload("Role").Preload("Privileges")
}

func (r *userRepo) find(query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.withGrants().Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	return r.find("email = ?", email)
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	return r.find("id = ?", id)
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) SetPasswordHash(id uuid.UUID, hash string) error {
	return r.update(id, "password_hash", hash)
}

func (r *userRepo) RotateSession(id uuid.UUID) (string, error) {
	session := uuid.NewString()
	if err := r.update(id, "session", session); err != nil {
		return "", err
	}
	return session, nil
}

func (r *userRepo) update(id uuid.UUID, column string, value interface{}) error {
	res := r.db.Model(&model.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
