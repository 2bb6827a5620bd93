package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/metrics"
	"github.com/andresuchdata/stockcast/internal/notify"
	"github.com/andresuchdata/stockcast/internal/replenishment"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/rs/zerolog/log"
)

// Forecaster produces a demand forecast for a product.
type Forecaster interface {
	Forecast(ctx context.Context, product string) (domain.ForecastResult, error)
}

// Options tunes a ReplenishmentService. Zero values select defaults.
type Options struct {
	DefaultLeadTime int
	OverviewWorkers int
	Metrics         *metrics.Recorder
	Now             func() time.Time
}

type ReplenishmentService struct {
	store      repository.Store
	forecaster Forecaster
	leadTimes  *replenishment.LeadTimeResolver
	notifier   notify.Notifier
	metrics    *metrics.Recorder
	now        func() time.Time
	workers    int
}

func NewReplenishmentService(store repository.Store, forecaster Forecaster, notifier notify.Notifier, opts Options) *ReplenishmentService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OverviewWorkers <= 0 {
		opts.OverviewWorkers = 4
	}
	return &ReplenishmentService{
		store:      store,
		forecaster: forecaster,
		leadTimes:  replenishment.NewLeadTimeResolver(store, opts.DefaultLeadTime),
		notifier:   notifier,
		metrics:    opts.Metrics,
		now:        opts.Now,
		workers:    opts.OverviewWorkers,
	}
}

// Products lists the catalog.
func (s *ReplenishmentService) Products(ctx context.Context) ([]string, error) {
	return s.store.Catalog(ctx)
}

// Status computes the replenishment decision for one product.
func (s *ReplenishmentService) Status(ctx context.Context, product string, horizon replenishment.Horizon) (*domain.DecisionPayload, error) {
	stock, found, err := s.store.CurrentStock(ctx, product)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%s not found in inventory: %w", product, domain.ErrProductNotFound)
	}

	forecast, err := s.forecaster.Forecast(ctx, product)
	if err != nil {
		return nil, err
	}

	leadTime := s.leadTimes.LeadTime(ctx, product)

	payload := replenishment.Decide(replenishment.DecisionInput{
		CurrentStock: stock,
		Forecast:     forecast.Values,
		LeadTime:     leadTime,
		Horizon:      horizon,
	})
	s.metrics.RecordDecision(product, payload.Alert, payload.DaysCovered)

	return &payload, nil
}

// ReorderInput is a request to notify a product's vendor.
type ReorderInput struct {
	Product      string
	Quantity     int
	DeliveryDate string // defaults to today plus the lead time
}

// SendReorder notifies the product's vendor once. A channel failure is
// returned as ErrNotificationFailure together with a failed result.
func (s *ReplenishmentService) SendReorder(ctx context.Context, in ReorderInput) (domain.NotificationResult, error) {
	info, found, err := s.store.ProductInfo(ctx, in.Product)
	if err != nil {
		return domain.NotificationResult{}, err
	}
	if !found {
		return domain.NotificationResult{}, fmt.Errorf("%s not found in product info: %w", in.Product, domain.ErrProductNotFound)
	}

	deliveryDate := in.DeliveryDate
	if deliveryDate == "" {
		lead := info.LeadTime(s.leadTimes.Default())
		deliveryDate = s.now().AddDate(0, 0, lead).Format(time.DateOnly)
	}

	req := domain.ReorderRequest{
		Product:              in.Product,
		Quantity:             in.Quantity,
		VendorName:           info.VendorName,
		VendorEmail:          info.VendorEmail,
		ExpectedDeliveryDate: deliveryDate,
	}

	if s.notifier == nil {
		err := errors.New("no notification channel configured")
		return domain.NotificationResult{Message: err.Error()}, fmt.Errorf("%w: %v", domain.ErrNotificationFailure, err)
	}

	err = s.notifier.Send(ctx, req)
	s.metrics.RecordNotification(s.notifier.Channel(), err)
	if err != nil {
		log.Error().Err(err).Str("product", in.Product).Str("channel", s.notifier.Channel()).Msg("reorder: notification failed")
		return domain.NotificationResult{Message: err.Error()}, fmt.Errorf("%w: %v", domain.ErrNotificationFailure, err)
	}

	log.Info().
		Str("product", in.Product).
		Int("quantity", in.Quantity).
		Str("vendor", info.VendorName).
		Str("delivery_date", deliveryDate).
		Msg("reorder: vendor notified")

	return domain.NotificationResult{Success: true, Message: successMessage(s.notifier.Channel())}, nil
}

func successMessage(channel string) string {
	if channel == notify.ChannelEmail {
		return "Email sent successfully."
	}
	return fmt.Sprintf("Reorder request sent via %s.", channel)
}
