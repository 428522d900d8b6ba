package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"parceltrack/cmd"
	httpadapter "parceltrack/internal/adapters/in/http"
	"parceltrack/internal/adapters/out/identity"
	"parceltrack/internal/adapters/out/postgres/accountrepo"
	"parceltrack/internal/adapters/out/postgres/parcelrepo"
	"parceltrack/internal/adapters/out/rabbitmq"
	"parceltrack/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	dispatcher := mustConnectBroker(configs, logger)

	root := cmd.NewCompositionRoot(configs, gormDB, dispatcher)

	jobManager := jobs.NewJobManager(dispatcher, logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&root, configs)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),
		AMQPUrl:    goDotEnvVariable("AMQP_URL"),
		JWTSecret:  goDotEnvVariable("JWT_SECRET"),
		JWTTtl:     goDotEnvVariable("JWT_TTL"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	// TranslateError maps driver errors onto gorm sentinels; the parcel
	// repository relies on gorm.ErrDuplicatedKey for tracking ID collisions.
	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = gormDB.AutoMigrate(&parcelrepo.ParcelDTO{}, &accountrepo.AccountDTO{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func mustConnectBroker(configs cmd.Config, logger *slog.Logger) *rabbitmq.EventDispatcher {
	conn, err := amqp.Dial(configs.AMQPUrl)
	if err != nil {
		log.Fatalf("Failed to connect to message broker: %v", err)
	}

	dispatcher, err := rabbitmq.NewEventDispatcher(conn, logger)
	if err != nil {
		log.Fatalf("Failed to set up event dispatcher: %v", err)
	}

	return dispatcher
}

func startWebServer(root *cmd.CompositionRoot, configs cmd.Config) {
	ttl, err := time.ParseDuration(configs.JWTTtl)
	if err != nil {
		log.Fatalf("Invalid JWT_TTL: %v", err)
	}
	tokens, err := identity.NewJWTTokenService(configs.JWTSecret, ttl)
	if err != nil {
		log.Fatalf("Failed to set up token service: %v", err)
	}

	createParcel := root.CreateCreateParcelCommandHandler()
	updateStatus := root.CreateUpdateParcelStatusCommandHandler()
	cancelParcel := root.CreateCancelParcelCommandHandler()
	setFlag := root.CreateSetParcelFlagCommandHandler()
	assignPersonnel := root.CreateAssignPersonnelCommandHandler()
	getParcel := root.CreateGetParcelQueryHandler()
	trackParcel := root.CreateGetParcelByTrackingIDQueryHandler()
	listParcels := root.CreateListParcelsQueryHandler()
	parcelStats := root.CreateGetParcelStatsQueryHandler()

	server := httpadapter.NewServer(
		&createParcel,
		&updateStatus,
		&cancelParcel,
		&setFlag,
		&assignPersonnel,
		getParcel,
		trackParcel,
		listParcels,
		parcelStats,
	)

	e := echo.New()
	server.RegisterRoutes(e, tokens)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}
