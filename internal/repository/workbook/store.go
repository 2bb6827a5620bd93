package workbook

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Config describes the layout of the sales/inventory workbook.
type Config struct {
	Path             string
	Products         []string // one sales sheet per product, named after it
	InventorySheet   string
	ProductInfoSheet string
	// DayFirst reads slash dates as DD/MM/YYYY instead of MM/DD/YYYY.
	DayFirst bool
}

// Store reads sales history, stock and vendor data from an XLSX workbook.
// The file is reopened on every call so a refreshed workbook is picked up
// without a restart.
type Store struct {
	cfg Config
}

// New creates a workbook-backed store.
func New(cfg Config) *Store {
	if cfg.InventorySheet == "" {
		cfg.InventorySheet = "Inventory"
	}
	if cfg.ProductInfoSheet == "" {
		cfg.ProductInfoSheet = "Product_Info"
	}
	return &Store{cfg: cfg}
}

// readSheet returns all rows of sheet with raw (unformatted) cell values.
// found is false when the workbook has no such sheet.
func (s *Store) readSheet(ctx context.Context, sheet string) (rows [][]string, found bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	f, err := excelize.OpenFile(s.cfg.Path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open workbook %s: %w", s.cfg.Path, err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up sheet %s: %w", sheet, err)
	}
	if idx == -1 {
		return nil, false, nil
	}

	rows, err = f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	return rows, true, nil
}

// SalesHistory returns the rows of the product's sheet in sheet order. Rows
// whose date cannot be parsed are dropped; rows with a missing or
// non-numeric Units_Sold are kept with a nil value.
func (s *Store) SalesHistory(ctx context.Context, product string) ([]domain.SalesRecord, error) {
	rows, found, err := s.readSheet(ctx, product)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no sales sheet for %s: %w", product, domain.ErrProductNotFound)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	idxDate := columnIndex(header, "date")
	idxUnits := columnIndex(header, "units_sold", "units sold", "sales")
	if idxDate < 0 || idxUnits < 0 {
		return nil, fmt.Errorf("sheet %s must have Date and Units_Sold columns", product)
	}

	layouts := dateLayouts(s.cfg.DayFirst)
	records := make([]domain.SalesRecord, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		date, ok := parseDate(cell(row, idxDate), layouts)
		if !ok {
			skipped++
			continue
		}
		rec := domain.SalesRecord{Date: date}
		if units, ok := parseNumber(cell(row, idxUnits)); ok {
			rec.UnitsSold = &units
		}
		records = append(records, rec)
	}

	if skipped > 0 {
		log.Debug().Str("product", product).Int("rows", skipped).Msg("workbook: dropped rows with unparseable dates")
	}
	return records, nil
}

// CurrentStock looks the product up in the inventory sheet.
func (s *Store) CurrentStock(ctx context.Context, product string) (float64, bool, error) {
	rows, found, err := s.readSheet(ctx, s.cfg.InventorySheet)
	if err != nil || !found || len(rows) == 0 {
		return 0, false, err
	}

	header := rows[0]
	idxProduct := columnIndex(header, "product_id", "product")
	idxStock := columnIndex(header, "current_stock", "stock")
	if idxProduct < 0 || idxStock < 0 {
		return 0, false, fmt.Errorf("sheet %s must have Product_ID and Current_Stock columns", s.cfg.InventorySheet)
	}

	for _, row := range rows[1:] {
		if cell(row, idxProduct) != product {
			continue
		}
		stock, ok := parseNumber(cell(row, idxStock))
		if !ok {
			return 0, false, fmt.Errorf("invalid current stock %q for %s", cell(row, idxStock), product)
		}
		return stock, true, nil
	}
	return 0, false, nil
}

// ProductInfo looks the product up in the product info sheet. A blank or
// non-numeric lead time leaves LeadTimeDays nil.
func (s *Store) ProductInfo(ctx context.Context, product string) (*domain.ProductInfo, bool, error) {
	rows, found, err := s.readSheet(ctx, s.cfg.ProductInfoSheet)
	if err != nil || !found || len(rows) == 0 {
		return nil, false, err
	}

	header := rows[0]
	idxProduct := columnIndex(header, "product_id", "product")
	if idxProduct < 0 {
		return nil, false, fmt.Errorf("sheet %s must have a Product_ID column", s.cfg.ProductInfoSheet)
	}
	idxVendor := columnIndex(header, "vendor_name", "vendor")
	idxEmail := columnIndex(header, "vendor_email", "email")
	idxLead := columnIndex(header, "lead time", "lead_time_days")

	for _, row := range rows[1:] {
		if cell(row, idxProduct) != product {
			continue
		}
		info := &domain.ProductInfo{
			Product:     product,
			VendorName:  cell(row, idxVendor),
			VendorEmail: cell(row, idxEmail),
		}
		if lead, ok := parseNumber(cell(row, idxLead)); ok {
			days := int(lead)
			info.LeadTimeDays = &days
		}
		return info, true, nil
	}
	return nil, false, nil
}

// Catalog returns the configured product list.
func (s *Store) Catalog(ctx context.Context) ([]string, error) {
	out := make([]string, len(s.cfg.Products))
	copy(out, s.cfg.Products)
	return out, nil
}

var _ repository.Store = (*Store)(nil)
