package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/fyplan/internal/catalog"
	"github.com/alexanderramin/fyplan/internal/db"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/pager"
	"github.com/alexanderramin/fyplan/internal/repository"
)

// DefaultPageSize is the number of health centers per dashboard page.
const DefaultPageSize = 4

type dashboardService struct {
	resolver *catalog.Resolver
	uow      db.UnitOfWork
	pageSize int
	observer UseCaseObserver
	now      func() time.Time
}

func NewDashboardService(
	resolver *catalog.Resolver,
	uow db.UnitOfWork,
	pageSize int,
	observers ...UseCaseObserver,
) DashboardService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &dashboardService{
		resolver: resolver,
		uow:      uow,
		pageSize: pageSize,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Build assembles the dashboard for the session's hospital. page is clamped
// into range, so any value is accepted.
func (s *dashboardService) Build(ctx context.Context, session domain.Session, page int) (d *Dashboard, err error) {
	fields := map[string]any{"hospital": session.Hospital, "page": page}
	done := track(ctx, s.observer, "build-dashboard", fields)
	defer func() { done(err) }()

	if !session.Completed || !session.HasFacility() {
		return nil, ErrOnboardingIncomplete
	}

	res := s.resolver.Resolve(session.Hospital)
	centers, pg := pager.Slice(res.SubFacilities, page, s.pageSize)
	fields["page"] = pg.Number

	names := make([]string, 0, len(centers)+1)
	names = append(names, session.Hospital)
	names = append(names, centers...)

	var counts map[string]int
	err = s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		counts, err = repository.NewSQLitePlanRepo(tx).CountByFacility(ctx, names)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("counting plans: %w", err)
	}

	now := s.now()
	start := domain.FiscalYearStart(now.Year(), int(now.Month()))
	d = &Dashboard{
		Hospital: FacilityCard{
			Name:  session.Hospital,
			Plans: counts[domain.NormalizeName(session.Hospital)],
		},
		District:     session.District,
		Province:     session.Province,
		Programs:     res.Programs,
		TotalCenters: len(res.SubFacilities),
		Page:         pg,
		Window:       pager.Window(pg.Number, pg.TotalPages),
		FiscalYear:   domain.FiscalYearLabel(start),
		Periods:      domain.ReportingPeriods(start),
	}
	for _, name := range centers {
		d.HealthCenters = append(d.HealthCenters, FacilityCard{
			Name:  name,
			Plans: counts[domain.NormalizeName(name)],
		})
	}
	return d, nil
}
