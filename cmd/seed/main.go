// seed carga un catálogo de productos de demostración en la base de datos.
//
// Uso: go run ./cmd/seed
// Respeta DATABASE_URL / DB_* igual que el servidor. Los productos que ya
// existen (nombre duplicado) se omiten sin error.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := postgres.NewProductRepository(pool)
	now := time.Now().UTC()

	demo := []struct {
		name     string
		quantity int64
		price    string
	}{
		{"Ciment 50kg", 120, "8.50"},
		{"Fer à béton 12mm", 300, "6.75"},
		{"Tôle ondulée 3m", 80, "12.00"},
		{"Peinture blanche 25L", 40, "35.00"},
		{"Clous 5kg", 150, "4.25"},
	}

	created := 0
	for _, d := range demo {
		price, err := decimal.NewFromString(d.price)
		if err != nil {
			fmt.Fprintf(os.Stderr, "precio inválido %q: %v\n", d.price, err)
			os.Exit(1)
		}
		p := &entity.Product{
			Name:      d.name,
			Quantity:  d.quantity,
			Price:     price,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(p); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				fmt.Printf("omitido (ya existe): %s\n", d.name)
				continue
			}
			fmt.Fprintf(os.Stderr, "insertar %q: %v\n", d.name, err)
			os.Exit(1)
		}
		created++
		fmt.Printf("creado #%d %s (stock %d)\n", p.ID, p.Name, p.Quantity)
	}
	fmt.Printf("listo: %d productos nuevos\n", created)
}
