package orderservice

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/metrics"
	"github.com/GlebRadaev/smmpanel/pkg/validate"
)

type MassOrderResult struct {
	Count       int
	TotalCharge decimal.Decimal
	OrderIDs    []int64
	Skipped     int
}

type massLine struct {
	serviceID int
	link      string
	quantity  int
}

// parseMassLine reads a "serviceId|link|quantity" line.
func parseMassLine(raw string) (massLine, bool) {
	parts := strings.Split(strings.TrimSpace(raw), "|")
	if len(parts) != 3 {
		return massLine{}, false
	}
	serviceID, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return massLine{}, false
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || quantity <= 0 {
		return massLine{}, false
	}
	link := strings.TrimSpace(parts[1])
	if !validate.IsLink(link) {
		return massLine{}, false
	}
	return massLine{serviceID: serviceID, link: link, quantity: quantity}, true
}

// PlaceMassOrder places one order per valid line with a single debit of their total.
// Lines that cannot be parsed, name an unknown or inactive service, or order a quantity
// outside the service limits are skipped.
func (s *Service) PlaceMassOrder(ctx context.Context, accountID int, lines []string) (*MassOrderResult, error) {
	result, err := s.placeMassOrder(ctx, accountID, lines)
	if err != nil {
		metrics.OrderFailures.WithLabelValues(domain.Code(err)).Inc()
		zap.L().Info("mass order rejected", zap.Int("account_id", accountID), zap.Error(err))
		return nil, err
	}
	metrics.OrdersPlaced.WithLabelValues("mass").Add(float64(result.Count))
	zap.L().Info("mass order placed",
		zap.Int("account_id", accountID),
		zap.Int("count", result.Count),
		zap.Int("skipped", result.Skipped),
		zap.String("total", domain.FormatMoney(result.TotalCharge)),
	)
	return result, nil
}

func (s *Service) placeMassOrder(ctx context.Context, accountID int, lines []string) (*MassOrderResult, error) {
	parsed := make([]massLine, 0, len(lines))
	for _, raw := range lines {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if line, ok := parseMassLine(raw); ok {
			parsed = append(parsed, line)
		} else {
			zap.L().Debug("mass order line skipped", zap.String("line", raw))
		}
	}

	services, err := s.resolveServices(ctx, parsed)
	if err != nil {
		return nil, err
	}

	type pricedLine struct {
		line   massLine
		svc    *domain.Service
		charge decimal.Decimal
	}
	valid := make([]pricedLine, 0, len(parsed))
	total := decimal.Zero
	for _, line := range parsed {
		svc := services[line.serviceID]
		if svc == nil || !svc.IsActive || line.quantity < svc.Min || line.quantity > svc.Max {
			continue
		}
		charge := domain.Charge(line.quantity, svc.Rate)
		valid = append(valid, pricedLine{line: line, svc: svc, charge: charge})
		total = total.Add(charge)
	}
	if len(valid) == 0 {
		return nil, domain.Validationf("no valid order lines")
	}

	var (
		buyer  *domain.Account
		orders []domain.Order
	)
	err = s.withRetry(ctx, func() error {
		acc, err := s.loadBuyer(ctx, accountID, total)
		if err != nil {
			return err
		}
		first, err := s.allocate(ctx, len(valid))
		if err != nil {
			return err
		}
		buyer = acc
		orders = make([]domain.Order, len(valid))
		for i, v := range valid {
			orders[i] = newOrder(first+int64(i), accountID, v.svc, v.line.link, v.line.quantity, v.charge)
		}
		return s.commit(ctx, acc, orders, total)
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, buyer, orders)

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.OrderID
	}
	return &MassOrderResult{
		Count:       len(orders),
		TotalCharge: total,
		OrderIDs:    ids,
		Skipped:     len(lines) - len(orders) - countBlank(lines),
	}, nil
}

// resolveServices looks every distinct service of the batch up concurrently.
// Unknown services map to nil.
func (s *Service) resolveServices(ctx context.Context, lines []massLine) (map[int]*domain.Service, error) {
	var (
		mu       sync.Mutex
		services = make(map[int]*domain.Service)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxMassLookup)
	seen := make(map[int]struct{})
	for _, line := range lines {
		if _, ok := seen[line.serviceID]; ok {
			continue
		}
		seen[line.serviceID] = struct{}{}
		serviceID := line.serviceID
		g.Go(func() error {
			svc, err := s.catalog.FindByServiceID(gctx, serviceID)
			if err != nil {
				return err
			}
			mu.Lock()
			services[serviceID] = svc
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, classify(err)
	}
	return services, nil
}

func countBlank(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			n++
		}
	}
	return n
}
