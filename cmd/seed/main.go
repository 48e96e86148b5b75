// Command seed loads a handful of sample partners into the store. It is a
// development helper; the upsert path keeps re-runs idempotent.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	syncapp "github.com/partnerbridge/backend/internal/application/sync"
	"github.com/partnerbridge/backend/internal/infrastructure/config"
	"github.com/partnerbridge/backend/internal/infrastructure/logger"
	"github.com/partnerbridge/backend/internal/infrastructure/persistence"
)

type samplePartner struct {
	externalID  string
	name        string
	vat         string
	email       string
	phone       string
	street      string
	city        string
	countryCode string
}

var samplePartners = []samplePartner{
	{
		externalID:  "ext-1001",
		name:        "Comercial Andina",
		vat:         "20123456789",
		email:       "ventas@andina.pe",
		phone:       "+51 1 555-0101",
		street:      "Av. Los Olivos 123",
		city:        "Lima",
		countryCode: "PE",
	},
	{
		externalID:  "ext-1002",
		name:        "Servicios Amazonia",
		vat:         "10456789123",
		email:       "contacto@amazonia.pe",
		phone:       "+51 1 555-0102",
		street:      "Jr. Amazonas 456",
		city:        "Iquitos",
		countryCode: "PE",
	},
	{
		externalID:  "ext-1003",
		name:        "Insumos Pacifico",
		vat:         "20567891234",
		email:       "ventas@pacifico.pe",
		phone:       "+51 1 555-0103",
		street:      "Av. Grau 789",
		city:        "Trujillo",
		countryCode: "PE",
	},
}

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, gormlogger.Warn))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	service := syncapp.NewPartnerService(persistence.NewGormPartnerRepository(db.DB), log)

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, sample := range samplePartners {
		req := syncapp.UpsertPartnerRequest{
			ExternalID:  sample.externalID,
			Name:        ptr(sample.name),
			Vat:         ptr(sample.vat),
			Email:       ptr(sample.email),
			Phone:       ptr(sample.phone),
			Street:      ptr(sample.street),
			City:        ptr(sample.city),
			CountryCode: ptr(sample.countryCode),
			Score:       float64(int(rng.Float64()*75+20)) / 100,
		}

		_, created, err := service.Upsert(ctx, req)
		if err != nil {
			log.Fatal("Failed to seed partner",
				zap.String("external_id", sample.externalID),
				zap.Error(err),
			)
		}
		log.Info("Partner seeded",
			zap.String("external_id", sample.externalID),
			zap.Bool("created", created),
		)
	}

	log.Info("Sample data loaded", zap.Int("count", len(samplePartners)))
}

func ptr(s string) *string { return &s }
