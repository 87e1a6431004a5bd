// cmd/seed/main.go: creates the roles, an admin and an operator account and,
// on an empty catalog, a handful of demo categories and products.
// Usage: go run ./cmd/seed
// Re-running is safe: existing roles and users are left untouched.
package main

import (
	"context"
	"os"
	"time"

	"dscatalog/internal/config"
	"dscatalog/internal/dto"
	"dscatalog/internal/infra"
	"dscatalog/internal/model"
	"dscatalog/internal/repository"
	"dscatalog/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const demoPassword = "123456"

type seedUser struct {
	firstName, lastName, email string
	authorities                []string
}

var seedUsers = []seedUser{
	{"Alex", "Brown", "alex@gmail.com", []string{model.RoleOperator}},
	{"Maria", "Green", "maria@gmail.com", []string{model.RoleOperator, model.RoleAdmin}},
}

type seedProduct struct {
	name, description, price, imgURL string
	categories                       []string
}

var seedCategories = []string{"Livros", "Eletrônicos", "Computadores"}

var seedProducts = []seedProduct{
	{"The Lord of the Rings", "Fantasy novel in three volumes.", "90.5",
		"https://raw.githubusercontent.com/devsuperior/dscatalog-resources/master/backend/img/1-big.jpg", []string{"Livros"}},
	{"Smart TV 50", "4K television with streaming apps.", "2190.0",
		"https://raw.githubusercontent.com/devsuperior/dscatalog-resources/master/backend/img/2-big.jpg", []string{"Eletrônicos"}},
	{"Macbook Pro", "Laptop with 16GB of memory.", "1250.0",
		"https://raw.githubusercontent.com/devsuperior/dscatalog-resources/master/backend/img/3-big.jpg", []string{"Eletrônicos", "Computadores"}},
	{"PC Gamer", "Desktop for games and streaming.", "1200.0",
		"https://raw.githubusercontent.com/devsuperior/dscatalog-resources/master/backend/img/4-big.jpg", []string{"Computadores"}},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	ctx := context.Background()
	uow := repository.NewUnitOfWork(db)

	roles, err := seedRoles(ctx, uow)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding roles failed")
	}
	users := service.NewUserService(uow)
	for _, u := range seedUsers {
		if err := seedAccount(ctx, uow, users, roles, u); err != nil {
			log.Fatal().Err(err).Str("email", u.email).Msg("seeding user failed")
		}
	}
	if err := seedCatalog(ctx, uow); err != nil {
		log.Fatal().Err(err).Msg("seeding catalog failed")
	}
	log.Info().Msg("seed complete")
}

// seedRoles makes sure every known authority exists and returns them by name.
func seedRoles(ctx context.Context, uow repository.UnitOfWork) (map[string]model.Role, error) {
	out := make(map[string]model.Role)
	err := uow.Write(ctx, func(r repository.Repositories) error {
		for _, authority := range []string{model.RoleOperator, model.RoleAdmin} {
			role, err := r.Roles.FindByAuthority(ctx, authority)
			if repository.IsNotFound(err) {
				role = &model.Role{Authority: authority}
				err = r.Roles.Create(ctx, role)
			}
			if err != nil {
				return err
			}
			out[authority] = *role
		}
		return nil
	})
	return out, err
}

func seedAccount(ctx context.Context, uow repository.UnitOfWork, users service.UserService, roles map[string]model.Role, u seedUser) error {
	err := uow.Read(ctx, func(r repository.Repositories) error {
		_, err := r.Users.FindByEmail(ctx, u.email)
		return err
	})
	if err == nil {
		log.Info().Str("email", u.email).Msg("user exists, skipped")
		return nil
	}
	if !repository.IsNotFound(err) {
		return err
	}

	req := dto.UserInsertDTO{
		UserDTO:  dto.UserDTO{FirstName: u.firstName, LastName: u.lastName, Email: u.email},
		Password: demoPassword,
	}
	for _, a := range u.authorities {
		req.Roles = append(req.Roles, dto.RoleDTO{ID: roles[a].ID, Authority: a})
	}
	created, err := users.Insert(ctx, req)
	if err != nil {
		return err
	}
	log.Info().Int64("id", created.ID).Str("email", created.Email).Msgf("user created with password %q", demoPassword)
	return nil
}

// seedCatalog inserts the demo categories and products into an empty catalog.
func seedCatalog(ctx context.Context, uow repository.UnitOfWork) error {
	return uow.Write(ctx, func(r repository.Repositories) error {
		_, total, err := r.Categories.FindAll(ctx, dto.PageRequest{Size: 1})
		if err != nil {
			return err
		}
		if total > 0 {
			log.Info().Int64("categories", total).Msg("catalog not empty, demo data skipped")
			return nil
		}

		byName := make(map[string]model.Category, len(seedCategories))
		for _, name := range seedCategories {
			c := &model.Category{Name: name}
			if err := r.Categories.Create(ctx, c); err != nil {
				return err
			}
			byName[name] = *c
		}
		for _, sp := range seedProducts {
			p := &model.Product{
				Name:        sp.name,
				Description: sp.description,
				Price:       decimal.RequireFromString(sp.price),
				ImgURL:      sp.imgURL,
				Date:        time.Date(2020, 7, 13, 20, 50, 7, 0, time.UTC),
			}
			for _, cn := range sp.categories {
				p.Categories = append(p.Categories, byName[cn])
			}
			if err := r.Products.Create(ctx, p); err != nil {
				return err
			}
		}
		log.Info().Int("categories", len(seedCategories)).Int("products", len(seedProducts)).Msg("demo catalog created")
		return nil
	})
}
