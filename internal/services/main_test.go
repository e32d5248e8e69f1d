package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/varsityhub/backend/internal/models"
)

var testDB *gorm.DB

// TestMain starts one Postgres container shared by the whole package.
func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("varsityhub_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		log.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("failed to get connection string: %v", err)
	}

	testDB, err = gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}

	if err := migrateAll(testDB); err != nil {
		log.Fatalf("failed to migrate test database: %v", err)
	}

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %v", err)
	}
	os.Exit(code)
}

func migrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Institution{},
		&models.Course{},
		&models.Enrollment{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
		&models.Post{},
		&models.PostComment{},
		&models.PostLike{},
		&models.Note{},
		&models.NoteLike{},
		&models.SyncMeta{},
	)
}

func createUser(t *testing.T, name string) models.User {
	t.Helper()
	user := models.User{
		Email:    fmt.Sprintf("%s-%s@example.ac.za", name, uuid.NewString()[:8]),
		Password: "not-a-real-hash",
		FullName: name,
	}
	require.NoError(t, testDB.Create(&user).Error)
	return user
}

func createModerator(t *testing.T, name string) models.User {
	t.Helper()
	user := createUser(t, name)
	require.NoError(t, testDB.Create(&models.UserRole{UserID: user.ID, Role: models.RoleModerator}).Error)
	return user
}

func createInstitution(t *testing.T, name string) models.Institution {
	t.Helper()
	inst := models.Institution{Name: name + " " + uuid.NewString()[:8]}
	require.NoError(t, testDB.Create(&inst).Error)
	return inst
}

func createCourse(t *testing.T, code string) models.Course {
	t.Helper()
	inst := createInstitution(t, "Test University")
	course := models.Course{
		Code:          code,
		Name:          code + " Course",
		InstitutionID: inst.ID,
	}
	require.NoError(t, testDB.Create(&course).Error)
	return course
}
