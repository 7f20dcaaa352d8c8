package models

import (
	"github.com/facturator/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	PublicID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Username     string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password;type:varchar(255);not null"`
	NIF          string    `gorm:"column:nif;type:varchar(50)"`
	Address      string    `gorm:"type:varchar(300)"`
	ZipCode      string    `gorm:"type:varchar(20)"`
	City         string    `gorm:"type:varchar(100)"`
	Province     string    `gorm:"type:varchar(100)"`
	Email        string    `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.aggregateRoot(),
		PublicID:          m.PublicID,
		Username:          m.Username,
		PasswordHash:      m.PasswordHash,
		Profile: identity.Profile{
			NIF:      m.NIF,
			Address:  m.Address,
			ZipCode:  m.ZipCode,
			City:     m.City,
			Province: m.Province,
			Email:    m.Email,
		},
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.PublicID = u.PublicID
	m.Username = u.Username
	m.PasswordHash = u.PasswordHash
	m.NIF = u.Profile.NIF
	m.Address = u.Profile.Address
	m.ZipCode = u.Profile.ZipCode
	m.City = u.Profile.City
	m.Province = u.Profile.Province
	m.Email = u.Profile.Email
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
