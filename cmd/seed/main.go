package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"digital-storefront/internal/config"
	"digital-storefront/internal/domain/model"
	"digital-storefront/internal/domain/ports/repository"
	pg "digital-storefront/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	products := pg.NewProductRepo(pool)

	// If products already exist, do nothing
	existing, err := products.ListAvailable(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list products: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d products already present. No changes.\n", len(existing))
		for _, p := range existing {
			fmt.Printf("  - %s (price=%d cents)\n", p.Name, p.PriceCents)
		}
		return
	}

	// Seed a few sample products for testing the webhook flow
	seed := []struct {
		Name  string
		Desc  string
		Price int64
		File  string
	}{
		{"Gopher Wallpaper Pack", "20 desktop wallpapers", 4_99, "assets/wallpapers.zip"},
		{"Intro to Webhooks (ebook)", "PDF + EPUB bundle", 19_99, "assets/webhooks-ebook.zip"},
		{"Storefront Icon Set", "300 SVG icons", 9_99, "assets/icons.zip"},
	}

	for _, s := range seed {
		p := &model.Product{
			ID:          uuid.NewString(),
			Name:        s.Name,
			Description: s.Desc,
			PriceCents:  s.Price,
			FilePath:    s.File,
			IsAvailable: true,
			CreatedAt:   time.Now().UTC(),
		}
		if err := products.Save(ctx, repository.NoTX, p); err != nil {
			log.Fatalf("create product %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, price=%d cents)\n", p.Name, p.ID, p.PriceCents)
	}

	fmt.Println("Seeding complete.")
}
