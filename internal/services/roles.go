package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/varsityhub/backend/internal/models"
)

// canModerate reports whether the user holds an admin or moderator role.
// Moderators may hard-delete content they do not own.
func canModerate(ctx context.Context, db *gorm.DB, userID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ? AND role IN ?", userID, []string{models.RoleAdmin, models.RoleModerator}).
		Count(&count).Error
	if err != nil {
		return false, storeErr("check roles", err)
	}
	return count > 0, nil
}
