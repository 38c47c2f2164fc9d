// cmd/seeduser/main.go creates or refreshes the root user.
// Uso: go run ./cmd/seeduser -email admin@local -password secreto
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/martingh15/proyecto-backend/internal/config"
	"github.com/martingh15/proyecto-backend/internal/infra"
	"github.com/martingh15/proyecto-backend/internal/model"
	"github.com/martingh15/proyecto-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	email := flag.String("email", "admin@local", "e-mail, also used as username")
	password := flag.String("password", os.Getenv("SEED_PASSWORD"), "password (default $SEED_PASSWORD)")
	nombre := flag.String("nombre", "Administrador", "display name")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "seeduser: -password or SEED_PASSWORD is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(cfg)

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	if err := infra.SeedRoles(db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed roles")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	ctx := context.Background()
	usuarios := repository.NewUsuarioRepository(db)
	roles, err := repository.NewRolRepository(db).FindByNombres(ctx, []string{model.RolRoot, model.RolAdministrador})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load roles")
	}

	u, err := usuarios.FindByEmail(ctx, *email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = &model.Usuario{
			ID:           uuid.New(),
			Username:     *email,
			Nombre:       *nombre,
			Email:        *email,
			PasswordHash: string(hash),
			Habilitado:   true,
		}
		if err := usuarios.Create(ctx, u); err != nil {
			log.Fatal().Err(err).Msg("failed to create user")
		}
	case err != nil:
		log.Fatal().Err(err).Msg("failed to look up user")
	default:
		u.PasswordHash = string(hash)
		u.Habilitado = true
		if err := usuarios.Update(ctx, u); err != nil {
			log.Fatal().Err(err).Msg("failed to update user")
		}
	}

	if err := usuarios.ReemplazarRoles(ctx, u, roles); err != nil {
		log.Fatal().Err(err).Msg("failed to assign roles")
	}
	fmt.Printf("Usuario '%s' creado/actualizado con roles root y administrador\n", *email)
}
