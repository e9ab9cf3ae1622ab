package loads

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vtruck/internal/api"
	"vtruck/internal/domain"
	"vtruck/internal/services/catalog"
)

// bidFetchLimit bounds concurrent bid lookups when listing loads.
const bidFetchLimit = 4

// Service posts and tracks a shipper's loads.
type Service struct {
	api     domain.LoadAPI
	catalog *catalog.Catalog
	maps    domain.Maps
	log     *zap.Logger
}

// New constructs a loads Service. maps may be nil, in which case state ids
// and missing coordinates are not resolved.
func New(api domain.LoadAPI, cat *catalog.Catalog, maps domain.Maps, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: api, catalog: cat, maps: maps, log: log.Named("loads")}
}

// Post validates form through every wizard step and posts the load.
//
// Steps:
//  1. Run the three step flow; the first failing step is reported.
//  2. Fill missing coordinates from place details.
//  3. Resolve pickup and drop state ids; failures leave them empty.
//  4. POST /load with total_amt equal to amount.
func (s *Service) Post(ctx context.Context, form domain.LoadForm) (domain.NewLoad, error) {
	if err := PostWizard(&form).Run(); err != nil {
		return domain.NewLoad{}, err
	}
	weight, _ := positive(form.Weight)
	amount, _ := positive(form.Amount)

	pick := s.locate(ctx, form.Pickup)
	drop := s.locate(ctx, form.Dropoff)
	ids := s.stateIDs(ctx, pick, drop)

	priceType := form.PriceType
	if priceType == "" {
		priceType = domain.PriceFixed
	}
	load := domain.NewLoad{
		PickupLocation:  strings.TrimSpace(form.Pickup.Description),
		DropoffLocation: strings.TrimSpace(form.Dropoff.Description),
		PickLat:         pick.Lat,
		PickLng:         pick.Lng,
		DropLat:         drop.Lat,
		DropLng:         drop.Lng,
		PickStateID:     ids[0],
		DropStateID:     ids[1],
		MaterialName:    strings.TrimSpace(form.Material),
		Weight:          weight.InexactFloat64(),
		Description:     strings.TrimSpace(form.Description),
		Amount:          amount,
		AmountType:      priceType,
		TotalAmount:     amount,
		LoadType:        domain.LoadTypePost,
		VisibleHours:    visibleHours(&form),
		VehicleType:     form.VehicleType.ID,
	}
	if err := s.api.CreateLoad(ctx, load); err != nil {
		return domain.NewLoad{}, fmt.Errorf("post load: %w", err)
	}
	s.log.Info("load posted", zap.String("material", load.MaterialName))
	return load, nil
}

// locate returns p's coordinates, asking the maps client for them when the
// place carries only an id.
func (s *Service) locate(ctx context.Context, p domain.Place) domain.Point {
	if !p.Point.IsZero() || p.PlaceID == "" || s.maps == nil {
		return p.Point
	}
	pt, err := s.maps.PlaceDetails(ctx, p.PlaceID)
	if err != nil {
		s.log.Warn("place details failed", zap.String("place_id", p.PlaceID), zap.Error(err))
		return p.Point
	}
	return pt
}

// stateIDs reverse geocodes each point and matches the state name against
// the backend's state list. Unresolved entries stay empty.
func (s *Service) stateIDs(ctx context.Context, points ...domain.Point) []domain.ID {
	out := make([]domain.ID, len(points))
	if s.maps == nil || s.catalog == nil {
		return out
	}
	states, err := s.catalog.States(ctx)
	if err != nil {
		s.log.Warn("state list unavailable", zap.Error(err))
		return out
	}
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range points {
		if p.IsZero() {
			continue
		}
		g.Go(func() error {
			name, err := s.maps.ReverseGeocodeState(gctx, p)
			if err != nil {
				s.log.Warn("reverse geocode failed", zap.Error(err))
				return nil
			}
			if id, ok := catalog.MatchState(states, name); ok {
				out[i] = id
			} else {
				s.log.Debug("state not in catalog", zap.String("state", name))
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// MyLoads lists posted loads with the given status, each with its bids.
// A load whose bids cannot be fetched is listed with none.
func (s *Service) MyLoads(ctx context.Context, status domain.LoadStatus) ([]domain.LoadOverview, error) {
	loads, err := s.api.MyLoads(ctx, domain.LoadFilter{Status: status, Type: domain.LoadTypePost})
	if err != nil {
		return nil, fmt.Errorf("my loads: %w", err)
	}

	out := make([]domain.LoadOverview, len(loads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bidFetchLimit)
	for i, l := range loads {
		out[i].Load = l
		g.Go(func() error {
			bids, err := s.api.LoadBids(gctx, l.ID)
			if err != nil {
				s.log.Debug("bids unavailable", zap.String("load_id", l.ID.String()), zap.Error(err))
				return nil
			}
			out[i].Bids = bids
			out[i].Accepted = domain.SummariseAccepted(bids)
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}

// Details fetches one load with its bids.
func (s *Service) Details(ctx context.Context, id domain.ID) (domain.LoadOverview, error) {
	load, err := s.api.Load(ctx, id)
	if err != nil {
		return domain.LoadOverview{}, fmt.Errorf("load %s: %w", id, err)
	}
	o := domain.LoadOverview{Load: load}
	bids, err := s.api.LoadBids(ctx, id)
	if err != nil {
		s.log.Debug("bids unavailable", zap.String("load_id", id.String()), zap.Error(err))
		return o, nil
	}
	o.Bids = bids
	o.Accepted = domain.SummariseAccepted(bids)
	return o, nil
}

// Bids lists the bids placed on a load.
func (s *Service) Bids(ctx context.Context, loadID domain.ID) ([]domain.Bid, error) {
	bids, err := s.api.LoadBids(ctx, loadID)
	if err != nil {
		return nil, fmt.Errorf("bids for load %s: %w", loadID, err)
	}
	return bids, nil
}

// AcceptBid accepts a bid, assigning the load to the bidder.
func (s *Service) AcceptBid(ctx context.Context, bidID domain.ID) error {
	if err := s.api.AcceptBid(ctx, bidID); err != nil {
		return fmt.Errorf("accept bid %s: %w", bidID, err)
	}
	s.log.Info("bid accepted", zap.String("bid_id", bidID.String()))
	return nil
}

// Watch polls a load's bids every interval and calls fn once for each bid
// it has not reported before, oldest first. It returns when ctx is done or
// the session is rejected.
func (s *Service) Watch(ctx context.Context, loadID domain.ID, interval time.Duration, fn func(domain.Bid)) error {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	seen := make(map[domain.ID]bool)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		bids, err := s.api.LoadBids(ctx, loadID)
		switch {
		case err == nil:
			for _, b := range oldestFirst(bids) {
				if !seen[b.ID] {
					seen[b.ID] = true
					fn(b)
				}
			}
		case api.IsUnauthorized(err) || errors.Is(err, api.ErrNoSession):
			return fmt.Errorf("watch load %s: %w", loadID, err)
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			s.log.Warn("poll bids failed", zap.String("load_id", loadID.String()), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func oldestFirst(bids []domain.Bid) []domain.Bid {
	out := slices.Clone(bids)
	slices.SortStableFunc(out, func(a, b domain.Bid) int { return strings.Compare(a.CreatedAt, b.CreatedAt) })
	return out
}

// Compile-time assertion that Service implements domain.LoadService.
var _ domain.LoadService = (*Service)(nil)
