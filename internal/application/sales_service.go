package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
	repo "github.com/abhishekverma0700/eduavaa/internal/domain/repository"
)

const defaultSalesMaxRows = 500

type SalesService struct {
	Repo    repo.LedgerRepository
	Admins  AdminAuthorizer
	MaxRows int
	Logger  *logrus.Logger
}

func NewSalesService(r repo.LedgerRepository, admins AdminAuthorizer, maxRows int, logger *logrus.Logger) *SalesService {
	if maxRows <= 0 {
		maxRows = defaultSalesMaxRows
	}
	return &SalesService{Repo: r, Admins: admins, MaxRows: maxRows, Logger: logger}
}

// ListSales returns every grant with buyer data, newest first. Callers not
// on the admin list are refused before the store is read.
func (s *SalesService) ListSales(ctx context.Context, caller string) ([]entity.Sale, error) {
	if s.Admins == nil || !s.Admins.IsAdmin(caller) {
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"caller": caller, "audit": "admin_denied"}).Warn("sales report denied")
		}
		return nil, ErrForbidden
	}
	sales, err := s.Repo.ListAllGrantsJoined(ctx, s.MaxRows)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].UserName = sales[i].DisplayName()
	}
	return sales, nil
}
