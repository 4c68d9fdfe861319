package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/config"
	"github.com/2beens/fitnesstracker/internal/db"

	log "github.com/sirupsen/logrus"
)

// create_admin adds an account with the staff and superuser flags set. The flags are stored
// and reported only; any authenticated account may write the catalog. The password is read
// from FITNESS_ADMIN_PASSWORD when the flag is omitted.
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	email := flag.String("email", "", "admin account email")
	password := flag.String("password", "", "admin account password")
	flag.Parse()

	if *email == "" {
		log.Fatalln("admin email not specified")
	}
	if *password == "" {
		*password = os.Getenv("FITNESS_ADMIN_PASSWORD")
	}
	if *password == "" {
		log.Fatalln("admin password not specified, use -password or FITNESS_ADMIN_PASSWORD")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	secrets, err := config.LoadSecrets(ctx, ".env")
	if err != nil {
		log.Fatalf("load secrets: %s", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	if _, err := db.Migrate(ctx, dbPool); err != nil {
		log.Fatalf("migrate db: %s", err)
	}

	account, err := auth.NewService(auth.NewRepo(dbPool)).CreateAdminAccount(ctx, *email, *password)
	if err != nil {
		log.Fatalf("create admin account: %s", err)
	}

	log.Infof("admin account created: id=%d email=%s", account.ID, account.Email)
}
