package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/varsityhub/backend/internal/models"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error
	GetDB() *gorm.DB
}

type service struct {
	db *gorm.DB
}

var (
	database   = os.Getenv("DB_NAME")
	password   = os.Getenv("DB_PASSWORD")
	username   = os.Getenv("DB_USER")
	port       = os.Getenv("DB_PORT")
	host       = os.Getenv("DB_HOST")
	dbInstance *service
)

func New() Service {
	// Reuse Connection
	if dbInstance != nil {
		return dbInstance
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		host, username, password, database, port, os.Getenv("DB_SSLMODE"),
	)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("✅ Database connected successfully")

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("✅ Database migrations completed")

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	seedInstitutions(db)

	dbInstance = &service{
		db: db,
	}

	return dbInstance
}

// Migrate creates or updates every table. Exposed so tests can run it
// against their own database.
func Migrate(db *gorm.DB) error {
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

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Health checks the health of the database connection by pinging the database.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats := make(map[string]string)

	sqlDB, err := s.db.DB()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db error: %v", err)
		return stats
	}

	err = sqlDB.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := sqlDB.Stats()
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	stats["idle"] = fmt.Sprintf("%d", dbStats.Idle)

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	log.Printf("Disconnected from database: %s", database)
	return sqlDB.Close()
}

// seedInstitutions loads the South African universities list on first run.
func seedInstitutions(db *gorm.DB) {
	var count int64
	db.Model(&models.Institution{}).Count(&count)
	if count > 0 {
		return
	}

	for _, inst := range institutionSeed {
		if err := db.Create(&inst).Error; err != nil {
			log.Printf("Failed to seed institution %s: %v", inst.Name, err)
		}
	}
	log.Printf("✅ Seeded %d institutions", len(institutionSeed))
}

var institutionSeed = []models.Institution{
	// Traditional universities
	{Name: "University of Cape Town", ShortName: "UCT", Province: "Western Cape"},
	{Name: "University of the Witwatersrand", ShortName: "Wits", Province: "Gauteng"},
	{Name: "Stellenbosch University", ShortName: "SU", Province: "Western Cape"},
	{Name: "University of Pretoria", ShortName: "UP", Province: "Gauteng"},
	{Name: "University of KwaZulu-Natal", ShortName: "UKZN", Province: "KwaZulu-Natal"},
	{Name: "Rhodes University", ShortName: "RU", Province: "Eastern Cape"},
	{Name: "University of Fort Hare", ShortName: "UFH", Province: "Eastern Cape"},
	{Name: "University of the Western Cape", ShortName: "UWC", Province: "Western Cape"},
	{Name: "University of Limpopo", ShortName: "UL", Province: "Limpopo"},
	{Name: "North-West University", ShortName: "NWU", Province: "North West"},
	{Name: "University of the Free State", ShortName: "UFS", Province: "Free State"},
	{Name: "University of South Africa", ShortName: "UNISA", Province: "Gauteng"},
	{Name: "University of Zululand", ShortName: "UNIZULU", Province: "KwaZulu-Natal"},
	{Name: "University of Venda", ShortName: "UNIVEN", Province: "Limpopo"},
	// Universities of technology
	{Name: "Cape Peninsula University of Technology", ShortName: "CPUT", Province: "Western Cape"},
	{Name: "Central University of Technology", ShortName: "CUT", Province: "Free State"},
	{Name: "Durban University of Technology", ShortName: "DUT", Province: "KwaZulu-Natal"},
	{Name: "Mangosuthu University of Technology", ShortName: "MUT", Province: "KwaZulu-Natal"},
	{Name: "Tshwane University of Technology", ShortName: "TUT", Province: "Gauteng"},
	{Name: "Vaal University of Technology", ShortName: "VUT", Province: "Gauteng"},
	// Comprehensive universities
	{Name: "University of Johannesburg", ShortName: "UJ", Province: "Gauteng"},
	{Name: "Nelson Mandela University", ShortName: "NMU", Province: "Eastern Cape"},
	{Name: "Walter Sisulu University", ShortName: "WSU", Province: "Eastern Cape"},
	{Name: "Sol Plaatje University", ShortName: "SPU", Province: "Northern Cape"},
	{Name: "University of Mpumalanga", ShortName: "UMP", Province: "Mpumalanga"},
}
