package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/grievance_system/internal/core/lifecycle"
	"github.com/grievance_system/internal/core/priority"
	"github.com/grievance_system/internal/models"
	"github.com/grievance_system/pkg/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.OpenInMemory(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(gormDB) })
	return gormDB
}

func seedUser(t *testing.T, gormDB *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{Name: "User " + email, Email: email, Phone: "5550000000", PasswordHash: "hash", Role: role}
	require.NoError(t, gormDB.Create(user).Error)
	return user
}

func seedComplaint(t *testing.T, gormDB *gorm.DB, userID uint, status lifecycle.Status, level priority.Level, createdAt time.Time) *models.Complaint {
	t.Helper()
	complaint := &models.Complaint{
		UserID:      userID,
		Title:       "Title",
		Description: "Description",
		Category:    "roads",
		Priority:    level,
		Status:      status,
		Version:     1,
		CreatedAt:   createdAt,
	}
	require.NoError(t, gormDB.Create(complaint).Error)
	return complaint
}
