package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
)

// Store reads sales history, stock and vendor data from SQL tables:
//
//	sales_history(product_id, sale_date, units_sold)
//	inventory(product_id, current_stock)
//	product_info(product_id, vendor_name, vendor_email, lead_time_days)
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

type salesRow struct {
	Date  time.Time       `db:"sale_date"`
	Units sql.NullFloat64 `db:"units_sold"`
}

// SalesHistory returns the product's rows by date. A product without any
// rows is reported as ErrProductNotFound, matching the workbook store.
func (s *Store) SalesHistory(ctx context.Context, product string) ([]domain.SalesRecord, error) {
	query := s.db.Rebind(`
		SELECT sale_date, units_sold
		FROM sales_history
		WHERE product_id = ?
		ORDER BY sale_date
	`)

	var rows []salesRow
	err := s.db.withPermit(ctx, func() error {
		return s.db.SelectContext(ctx, &rows, query, product)
	})
	if err != nil {
		return nil, fmt.Errorf("error getting sales history for %s: %w", product, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no sales history for %s: %w", product, domain.ErrProductNotFound)
	}

	records := make([]domain.SalesRecord, 0, len(rows))
	for _, r := range rows {
		rec := domain.SalesRecord{Date: r.Date}
		if r.Units.Valid {
			units := r.Units.Float64
			rec.UnitsSold = &units
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) CurrentStock(ctx context.Context, product string) (float64, bool, error) {
	query := s.db.Rebind(`SELECT current_stock FROM inventory WHERE product_id = ? LIMIT 1`)

	var stock float64
	err := s.db.withPermit(ctx, func() error {
		return s.db.GetContext(ctx, &stock, query, product)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("error getting current stock for %s: %w", product, err)
	}
	return stock, true, nil
}

type productInfoRow struct {
	Product     string         `db:"product_id"`
	VendorName  sql.NullString `db:"vendor_name"`
	VendorEmail sql.NullString `db:"vendor_email"`
	LeadTime    sql.NullInt64  `db:"lead_time_days"`
}

func (s *Store) ProductInfo(ctx context.Context, product string) (*domain.ProductInfo, bool, error) {
	query := s.db.Rebind(`
		SELECT product_id, vendor_name, vendor_email, lead_time_days
		FROM product_info
		WHERE product_id = ?
		LIMIT 1
	`)

	var row productInfoRow
	err := s.db.withPermit(ctx, func() error {
		return s.db.GetContext(ctx, &row, query, product)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("error getting product info for %s: %w", product, err)
	}

	info := &domain.ProductInfo{
		Product:     row.Product,
		VendorName:  row.VendorName.String,
		VendorEmail: row.VendorEmail.String,
	}
	if row.LeadTime.Valid {
		days := int(row.LeadTime.Int64)
		info.LeadTimeDays = &days
	}
	return info, true, nil
}

// Catalog lists every product with recorded sales.
func (s *Store) Catalog(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT product_id FROM sales_history ORDER BY product_id`

	var products []string
	err := s.db.withPermit(ctx, func() error {
		return s.db.SelectContext(ctx, &products, query)
	})
	if err != nil {
		return nil, fmt.Errorf("error getting catalog: %w", err)
	}
	return products, nil
}

var _ repository.Store = (*Store)(nil)
