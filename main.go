package main

import (
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/saadraza/portfolio-backend/api"
	"github.com/saadraza/portfolio-backend/config"
	"github.com/saadraza/portfolio-backend/database"
	"github.com/saadraza/portfolio-backend/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using process environment")
	}

	c := config.New()

	dsn := config.GetString(c, "DATABASE_URL", "")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_USER", "postgres"),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_NAME", "portfolio"),
			config.GetString(c, "DB_PORT", "5432"),
			config.GetString(c, "DB_SSLMODE", "disable"),
		)
	}

	gormLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		log.Fatal().Err(err).Msg("Error enabling pgcrypto extension")
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating schema")
	}

	currentDB := database.New(db)

	if config.GetBool(c, "APP_SEED", false) {
		log.Info().Msg("Seeding database...")
		err := currentDB.Seed(database.SeedOptions{
			AdminUsername: config.GetString(c, "ADMIN_USERNAME", "admin"),
			AdminEmail:    config.GetString(c, "ADMIN_EMAIL", "admin@localhost"),
			AdminPassword: config.GetString(c, "ADMIN_PASSWORD", ""),
			BcryptCost:    config.GetInt(c, "BCRYPT_COST", 12),
			WithSamples:   config.GetBool(c, "APP_SEED_SAMPLES", true),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Error seeding database")
		}
	}

	mailer := services.NewMailer(services.MailerConfig{
		APIKey:     config.GetString(c, "RESEND_API_KEY", ""),
		FromEmail:  config.GetString(c, "RESEND_FROM_EMAIL", ""),
		AdminEmail: config.GetString(c, "ADMIN_NOTIFICATION_EMAIL", ""),
	})
	if !mailer.Enabled() {
		log.Warn().Msg("Email delivery not configured; notifications will be skipped")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, mailer)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
