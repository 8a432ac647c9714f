package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/models"
)

// Postgres wraps a postgres DB connection.
type Postgres struct {
	DB *sql.DB
}

// schemaSQL sets up the necessary tables if they don't exist.
const schemaSQL = `CREATE TABLE IF NOT EXISTS inventory_items (
    id SERIAL PRIMARY KEY,
    taxonomy TEXT NOT NULL,
    market TEXT NOT NULL,
    state TEXT,
    exhibitor TEXT NOT NULL,
    format TEXT NOT NULL,
    digital BOOLEAN NOT NULL DEFAULT FALSE,
    static BOOLEAN NOT NULL DEFAULT TRUE,
    table_unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
    negotiated_unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
    min_qty INT NOT NULL DEFAULT 0,
    max_qty INT NOT NULL DEFAULT 0,
    rank INT NOT NULL DEFAULT 0,
    weight DOUBLE PRECISION NOT NULL DEFAULT 0,
    weekly_capacity INT[] NOT NULL DEFAULT '{0,0,0,0}',
    region TEXT,
    cluster TEXT,
    periodicity TEXT,
    flight TEXT
);

CREATE INDEX IF NOT EXISTS idx_inventory_taxonomy_market ON inventory_items (taxonomy, market);
CREATE INDEX IF NOT EXISTS idx_inventory_exhibitor ON inventory_items (exhibitor);
CREATE INDEX IF NOT EXISTS idx_inventory_format ON inventory_items (format);
`

// InitPostgres connects to Postgres with connection pooling configuration.
func InitPostgres(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (*Postgres, error) {
	// Register the otelsql wrapper for postgres
	driverName, err := otelsql.Register("postgres",
		otelsql.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.connection_string", dsn),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	p := &Postgres{DB: db}
	if err := p.ensureSchema(); err != nil {
		return nil, err
	}
	zap.L().Info("Connected to Postgres with connection pooling",
		zap.Int("max_open_conns", maxOpenConns),
		zap.Int("max_idle_conns", maxIdleConns),
		zap.Duration("conn_max_lifetime", connMaxLifetime))
	return p, nil
}

// Close terminates the Postgres connection.
func (p *Postgres) Close() {
	if p != nil && p.DB != nil {
		if err := p.DB.Close(); err != nil {
			zap.L().Error("postgres close", zap.Error(err))
		}
	}
}

// ensureSchema creates the required tables if they do not exist.
func (p *Postgres) ensureSchema() error {
	ctx := context.Background()
	if _, err := p.DB.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const inventoryColumns = `id, taxonomy, market, state, exhibitor, format, digital, static,
    table_unit_price, negotiated_unit_price, min_qty, max_qty, rank, weight,
    weekly_capacity, region, cluster, periodicity, flight`

// inventoryQuery builds the SELECT for a filter. Every string facet of
// models.InventoryFilter is pushed into the WHERE clause unless empty or
// the wildcard sentinel, keeping the contract identical to
// models.InventoryFilter.Matches.
func inventoryQuery(filter models.InventoryFilter) (string, []interface{}) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items`
	var conds []string
	var args []interface{}

	addFacet := func(column, value string) {
		if value == "" || strings.EqualFold(value, models.FilterAll) {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("LOWER(%s) = LOWER($%d)", column, len(args)))
	}
	addFacet("taxonomy", filter.Taxonomy)
	addFacet("market", filter.Market)
	addFacet("state", filter.State)
	addFacet("exhibitor", filter.Exhibitor)
	addFacet("format", filter.Format)
	addFacet("region", filter.Region)
	addFacet("cluster", filter.Cluster)
	addFacet("periodicity", filter.Periodicity)
	addFacet("flight", filter.Flight)
	if filter.Digital != nil {
		args = append(args, *filter.Digital)
		conds = append(conds, fmt.Sprintf("digital = $%d", len(args)))
	}
	if filter.Static != nil {
		args = append(args, *filter.Static)
		conds = append(conds, fmt.Sprintf("static = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"
	return query, args
}

// LoadInventory retrieves inventory items matching the filter. Empty or
// wildcard facets are not pushed into the WHERE clause.
func (p *Postgres) LoadInventory(ctx context.Context, filter models.InventoryFilter) ([]models.InventoryItem, error) {
	query, args := inventoryQuery(filter)

	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []models.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

func scanInventoryItem(rows *sql.Rows) (models.InventoryItem, error) {
	var item models.InventoryItem
	var state, region, cluster, periodicity, flight sql.NullString
	var capacity []int64
	if err := rows.Scan(&item.ID, &item.Taxonomy, &item.Market, &state, &item.Exhibitor,
		&item.Format, &item.Digital, &item.Static, &item.TableUnitPrice,
		&item.NegotiatedUnitPrice, &item.MinQty, &item.MaxQty, &item.Rank, &item.Weight,
		pq.Array(&capacity), &region, &cluster, &periodicity, &flight); err != nil {
		return item, fmt.Errorf("scan inventory item: %w", err)
	}
	if state.Valid {
		item.State = state.String
	}
	if region.Valid {
		item.Region = region.String
	}
	if cluster.Valid {
		item.Cluster = cluster.String
	}
	if periodicity.Valid {
		item.Periodicity = periodicity.String
	}
	if flight.Valid {
		item.Flight = flight.String
	}
	for i := 0; i < len(capacity) && i < len(item.WeeklyCapacity); i++ {
		item.WeeklyCapacity[i] = int(capacity[i])
	}
	return item, nil
}

// InsertInventoryItem inserts a new inventory item and returns the generated ID.
func (p *Postgres) InsertInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	capacity := make([]int64, len(item.WeeklyCapacity))
	for i, c := range item.WeeklyCapacity {
		capacity[i] = int64(c)
	}
	err := p.DB.QueryRowContext(ctx, `INSERT INTO inventory_items (
        taxonomy, market, state, exhibitor, format, digital, static,
        table_unit_price, negotiated_unit_price, min_qty, max_qty, rank, weight,
        weekly_capacity, region, cluster, periodicity, flight) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18
    ) RETURNING id`,
		item.Taxonomy, item.Market, item.State, item.Exhibitor, item.Format,
		item.Digital, item.Static, item.TableUnitPrice, item.NegotiatedUnitPrice,
		item.MinQty, item.MaxQty, item.Rank, item.Weight, pq.Array(capacity),
		item.Region, item.Cluster, item.Periodicity, item.Flight).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// UpdateInventoryItem updates an existing inventory item.
func (p *Postgres) UpdateInventoryItem(ctx context.Context, item models.InventoryItem) error {
	capacity := make([]int64, len(item.WeeklyCapacity))
	for i, c := range item.WeeklyCapacity {
		capacity[i] = int64(c)
	}
	_, err := p.DB.ExecContext(ctx, `UPDATE inventory_items SET
        taxonomy=$1, market=$2, state=$3, exhibitor=$4, format=$5, digital=$6,
        static=$7, table_unit_price=$8, negotiated_unit_price=$9, min_qty=$10,
        max_qty=$11, rank=$12, weight=$13, weekly_capacity=$14, region=$15,
        cluster=$16, periodicity=$17, flight=$18 WHERE id=$19`,
		item.Taxonomy, item.Market, item.State, item.Exhibitor, item.Format,
		item.Digital, item.Static, item.TableUnitPrice, item.NegotiatedUnitPrice,
		item.MinQty, item.MaxQty, item.Rank, item.Weight, pq.Array(capacity),
		item.Region, item.Cluster, item.Periodicity, item.Flight, item.ID)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	return nil
}

// DeleteInventoryItem removes an inventory item by ID.
func (p *Postgres) DeleteInventoryItem(ctx context.Context, id int) error {
	_, err := p.DB.ExecContext(ctx, `DELETE FROM inventory_items WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}

// ListFacetValues returns the distinct values of a facet column, used to
// populate selection dropdowns. Only known columns are accepted.
func (p *Postgres) ListFacetValues(ctx context.Context, facet string) ([]string, error) {
	switch facet {
	case "taxonomy", "market", "state", "exhibitor", "format", "region", "cluster":
	default:
		return nil, fmt.Errorf("unknown facet %q", facet)
	}
	rows, err := p.DB.QueryContext(ctx, fmt.Sprintf(`SELECT DISTINCT %s FROM inventory_items ORDER BY %s`, facet, facet))
	if err != nil {
		return nil, fmt.Errorf("query facet values: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan facet value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return values, nil
}
