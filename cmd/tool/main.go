// Command tool holds operator chores for user-service.
//
//	tool create-admin -email admin@example.com -password '...'
//	tool token -user-id 1 -role admin -ttl 30m
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/baechuer/user-service/internal/application/users"
	"github.com/baechuer/user-service/internal/config"
	"github.com/baechuer/user-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/user-service/internal/infrastructure/memory"
	"github.com/baechuer/user-service/internal/infrastructure/security"
	"github.com/baechuer/user-service/internal/logger"
)

type Cfg struct {
	DBAddr     string `envconfig:"DB_ADDR"`
	JWTSecret  string `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer  string `envconfig:"JWT_ISSUER" default:"user-service"`
	BcryptCost int    `envconfig:"BCRYPT_COST" default:"12"`
	Migrate    bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

func main() {
	logger.Init()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	cmds := map[string]func(Cfg, []string, io.Writer) error{
		"create-admin": createAdmin,
		"token":        token,
	}
	cmd, ok := cmds[args[0]]
	if !ok {
		usage(stderr)
		return 2
	}

	var cfg Cfg
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 1
	}
	// envconfig accepts a set-but-empty variable as present
	if cfg.JWTSecret == "" {
		fmt.Fprintln(stderr, "config: JWT_SECRET is required")
		return 1
	}

	if err := cmd(cfg, args[1:], stdout); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: tool <create-admin|token> [flags]")
}

func createAdmin(cfg Cfg, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cfg.DBAddr == "" {
		return fmt.Errorf("DB_ADDR is required")
	}

	sqlDB, err := config.NewDB(cfg.DBAddr, false)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	gdb, err := postgres.Open(sqlDB, false)
	if err != nil {
		return err
	}
	if cfg.Migrate {
		if err := postgres.Migrate(gdb); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	svc := users.NewService(
		postgres.NewUserRepo(gdb),
		security.NewBcryptHasher(cfg.BcryptCost),
		security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer),
		memory.NoopPublisher{},
		users.Config{},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	u, created, err := svc.EnsureAdmin(ctx, *email, *password)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "created admin id=%d email=%s\n", u.ID, u.Email)
	} else {
		fmt.Fprintf(out, "user already exists id=%d email=%s role=%s\n", u.ID, u.Email, u.Role)
	}
	return nil
}

func token(cfg Cfg, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	userID := fs.Int64("user-id", 0, "subject user id")
	role := fs.String("role", "admin", "role claim")
	ttl := fs.Duration("ttl", 30*time.Minute, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID <= 0 {
		return fmt.Errorf("-user-id must be a positive integer")
	}

	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)
	tok, err := signer.SignAccessToken(strconv.FormatInt(*userID, 10), *role, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, tok)
	return nil
}
