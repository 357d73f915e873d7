package database

import (
	"errors"
	"fmt"

	"go-jewel-backoffice/internal/auth"
	"go-jewel-backoffice/internal/models"

	"gorm.io/gorm"
)

var ErrInvalidRole = errors.New("role must be admin or staff")

// SeedUser creates u with a bcrypt hash of password, or resets the password,
// role and permission flags when the username already exists.
func SeedUser(u models.User, password string) (*models.User, error) {
	if u.Username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	if u.Role != "admin" && u.Role != "staff" {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidRole, u.Role)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	var existing models.User
	err = DB.Where("username = ?", u.Username).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		u.ID = 0
		u.Password = hashed
		if err := DB.Create(&u).Error; err != nil {
			return nil, err
		}
		return &u, nil
	case err != nil:
		return nil, err
	}

	err = DB.Model(&existing).Updates(map[string]interface{}{
		"password":             hashed,
		"role":                 u.Role,
		"staff_code":           u.StaffCode,
		"can_edit_bills":       u.CanEditBills,
		"can_edit_stock":       u.CanEditStock,
		"can_authorize_nongst": u.CanAuthorizeNonGST,
	}).Error
	if err != nil {
		return nil, err
	}
	DB.First(&existing, existing.ID)
	return &existing, nil
}
