package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/config"
	"github.com/vmarins/oohplanner/internal/db"
	"github.com/vmarins/oohplanner/internal/models"
	"github.com/vmarins/oohplanner/internal/observability"
)

var (
	itemsPerMarket = flag.Int("items", 40, "inventory items per market")
	seed           = flag.Int64("seed", time.Now().UnixNano(), "rng seed")
)

func main() {
	flag.Parse()

	logger, err := observability.InitLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.Load()
	pg, err := db.InitPostgres(cfg.PostgresDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime, cfg.DBConnMaxIdleTime)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect postgres: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	r := rand.New(rand.NewSource(*seed))

	var existing int
	if err := pg.DB.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM inventory_items`).Scan(&existing); err != nil {
		logger.Fatal("count inventory", zap.Error(err))
	}
	if existing > 0 {
		fmt.Printf("inventory already seeded (%d items), nothing to do\n", existing)
		return
	}

	total := 0
	for _, m := range markets {
		for i := 0; i < *itemsPerMarket; i++ {
			item := randomItem(r, m)
			if err := pg.InsertInventoryItem(context.Background(), &item); err != nil {
				logger.Fatal("insert inventory item", zap.Error(err))
			}
			total++
		}
	}

	fmt.Printf("seeded %d inventory items across %d markets\n", total, len(markets))
}

type market struct {
	Name   string
	State  string
	Region string
}

var markets = []market{
	{"São Paulo", "SP", "Sudeste"},
	{"Rio de Janeiro", "RJ", "Sudeste"},
	{"Belo Horizonte", "MG", "Sudeste"},
	{"Curitiba", "PR", "Sul"},
	{"Porto Alegre", "RS", "Sul"},
	{"Salvador", "BA", "Nordeste"},
	{"Recife", "PE", "Nordeste"},
	{"Brasília", "DF", "Centro-Oeste"},
}

var taxonomies = []string{"Varejo", "Automotivo", "Financeiro", "Bebidas", "Telecom", "Farmacêutico"}

var exhibitors = []string{
	"Eletromidia", "JCDecaux", "Otima", "Bancah", "Central de Outdoor",
	"Clear Channel", "Midia Urbana SP", "Painel Norte",
}

// format templates with plausible price bands and whether a digital variant exists
var formats = []struct {
	Name       string
	MinPrice   float64
	MaxPrice   float64
	HasDigital bool
}{
	{"Outdoor", 900, 2500, false},
	{"Empena", 6000, 15000, false},
	{"Painel Rodoviário", 3000, 8000, false},
	{"Painel LED", 2500, 7000, true},
	{"Abrigo de Ônibus", 500, 1200, true},
	{"MUB", 400, 900, false},
	{"Banca de Jornal", 350, 800, false},
	{"Totem", 450, 1100, true},
	{"Relógio de Rua", 600, 1400, true},
	{"Metrô - Plataforma", 1800, 4500, true},
	{"Shopping Center", 1200, 3200, true},
	{"Backbus", 700, 1600, false},
}

var clusters = []string{"Premium", "Fluxo", "Bairro", "Centro"}
var periodicities = []string{"Bissemanal", "Mensal"}

func randomItem(r *rand.Rand, m market) models.InventoryItem {
	f := formats[r.Intn(len(formats))]
	digital := f.HasDigital && r.Intn(3) == 0
	tablePrice := f.MinPrice + r.Float64()*(f.MaxPrice-f.MinPrice)
	// negotiated prices sit below table, typical agency discounts run 10-35%
	negotiated := tablePrice * (0.65 + r.Float64()*0.25)
	minQty := r.Intn(5) + 1
	maxQty := minQty + r.Intn(10) + 1
	capacity := maxQty + r.Intn(5)

	item := models.InventoryItem{
		Taxonomy:            taxonomies[r.Intn(len(taxonomies))],
		Market:              m.Name,
		State:               m.State,
		Region:              m.Region,
		Exhibitor:           exhibitors[r.Intn(len(exhibitors))],
		Format:              f.Name,
		Digital:             digital,
		Static:              !digital,
		TableUnitPrice:      float64(int(tablePrice*100)) / 100,
		NegotiatedUnitPrice: float64(int(negotiated*100)) / 100,
		MinQty:              minQty,
		MaxQty:              maxQty,
		Rank:                r.Intn(12) + 1,
		Cluster:             clusters[r.Intn(len(clusters))],
		Periodicity:         periodicities[r.Intn(len(periodicities))],
	}
	for i := range item.WeeklyCapacity {
		item.WeeklyCapacity[i] = capacity
	}
	return item
}
