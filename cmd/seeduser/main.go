// cmd/seeduser: creates or updates a demo account and, when Redis is
// configured, its saved biller profile.
// Usage: go run ./cmd/seeduser -email demo@invoicegen.local -password demo1234
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"invoicegen/internal/config"
	"invoicegen/internal/infra"
	"invoicegen/internal/invoice"
	"invoicegen/internal/model"
	"invoicegen/internal/numbering"
	"invoicegen/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	email := flag.String("email", "demo@invoicegen.local", "account email")
	password := flag.String("password", "demo1234", "account password")
	company := flag.String("company", "Demo Traders", "company name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	ctx := context.Background()
	acc := &model.Account{Email: strings.ToLower(strings.TrimSpace(*email)), PasswordHash: string(hash), CompanyName: *company}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "company_name", "updated_at"}),
	}).Create(acc).Error
	if err != nil {
		log.Fatal().Err(err).Msg("upsert account")
	}

	// re-read: on conflict the generated id is not the stored one
	stored, err := repository.NewAccountRepository(db).FindByEmail(ctx, *email)
	if err != nil {
		log.Fatal().Err(err).Msg("reload account")
	}

	if cfg.RedisURL != "" {
		rdb, err := infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect")
		}
		defer rdb.Close()
		store := numbering.Scoped(infra.NewRedisStore(rdb), stored.ID.String())
		_, err = numbering.NewPolicy(store, cfg.InvoiceNumberPrefix).SaveBiller(ctx, invoice.Company{
			Name:    *company,
			Address: "1 Demo Street, Bengaluru",
			Email:   *email,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("save biller")
		}
	}

	fmt.Printf("account %s (%s) ready, password %q\n", stored.Email, stored.ID, *password)
}
