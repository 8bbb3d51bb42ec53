package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/auth"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

const defaultTimeout = 30 * time.Second

// demoCatalog — стартовый набор товаров для разработки и демо.
var demoCatalog = []catalog.ProductInput{
	{Name: "Mechanical Keyboard", Category: "peripherals", PriceMinor: 899900, Stock: 25, Image: "keyboard.png"},
	{Name: "Wireless Mouse", Category: "peripherals", PriceMinor: 249900, Stock: 40, Image: "mouse.png"},
	{Name: "27\" Monitor", Category: "displays", PriceMinor: 2199900, Stock: 12, Image: "monitor.png"},
	{Name: "USB-C Dock", Category: "accessories", PriceMinor: 649900, Stock: 18, Image: "dock.png"},
	{Name: "Laptop Stand", Category: "accessories", PriceMinor: 159900, Stock: 30, Image: "stand.png"},
	{Name: "Noise Cancelling Headphones", Category: "audio", PriceMinor: 1499900, Stock: 15, Image: "headphones.png"},
}

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	dsn := strings.TrimSpace(os.Getenv("STOREFRONT_POSTGRES_DSN"))
	if dsn == "" {
		fail("STOREFRONT_POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		fail("open postgres store: %v", err)
	}
	defer store.Close()

	if err := store.MigrateUp(ctx, 0); err != nil {
		fail("apply migrations: %v", err)
	}

	authService := auth.NewService(postgres.NewUserRepository(store))
	seedUser(ctx, authService, auth.RegisterInput{
		Name:     envOrDefault("STOREFRONT_ADMIN_NAME", "admin"),
		Email:    envOrDefault("STOREFRONT_ADMIN_EMAIL", "admin@storefront.local"),
		Password: envOrDefault("STOREFRONT_ADMIN_PASSWORD", "admin123"),
		Role:     domain.RoleAdmin,
	})
	seedUser(ctx, authService, auth.RegisterInput{
		Name:     "client",
		Email:    "client@storefront.local",
		Password: "client123",
		Role:     domain.RoleClient,
	})

	productRepo := postgres.NewProductRepository(store)
	count, err := productRepo.Count()
	if err != nil {
		fail("count products: %v", err)
	}
	if count > 0 {
		log.WithField("count", count).Info("каталог уже заполнен, товары не добавляем")
		return
	}

	catalogService := catalog.NewService(productRepo)
	for _, input := range demoCatalog {
		product, err := catalogService.Create(ctx, input)
		if err != nil {
			fail("seed product %q: %v", input.Name, err)
		}
		log.WithFields(log.Fields{
			"product_id": product.ID,
			"name":       product.Name,
		}).Info("товар добавлен")
	}

	log.Info("демо-данные загружены")
}

func seedUser(ctx context.Context, authService *auth.Service, input auth.RegisterInput) {
	user, err := authService.Register(ctx, input)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			log.WithField("name", input.Name).Info("пользователь уже существует")
			return
		}
		fail("seed user %q: %v", input.Name, err)
	}
	log.WithFields(log.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("пользователь создан")
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
