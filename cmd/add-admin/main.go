package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/config"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/ids"
	"github.com/cmlabs-hris/dtr-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	log.SetFlags(0)
	var (
		dsn      = flag.String("dsn", "", "PostgreSQL DSN (defaults to the DB_* environment)")
		name     = flag.String("name", "", "Admin first name")
		surname  = flag.String("surname", "", "Admin surname")
		email    = flag.String("email", "", "Admin email")
		password = flag.String("password", "", "Admin password")
	)
	flag.Parse()

	if *name == "" || *surname == "" || *email == "" || *password == "" {
		log.Fatal("usage: add-admin -name NAME -surname SURNAME -email EMAIL -password PASSWORD [-dsn DSN]")
	}

	if *dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		*dsn = cfg.DatabaseURL()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(*dsn, 2)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	admin, err := postgresql.NewUserRepository(db).Create(ctx, user.User{
		ID:           ids.NewUserID(),
		Name:         strings.TrimSpace(*name),
		Surname:      strings.TrimSpace(*surname),
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: string(hashed),
		Role:         user.RoleAdmin,
		Approval:     user.ApprovalApproved,
	})
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}

	fmt.Printf("Admin created successfully: %s (%s) id=%s\n", admin.FullName(), admin.Email, admin.ID)
}
