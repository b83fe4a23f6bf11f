package scheduler

import (
	"context"
	"time"

	"github.com/jwlim/finstat-backend/internal/app/service"
	"github.com/jwlim/finstat-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RefreshScheduler 저장된 회사의 재무제표를 주기적으로 갱신하는 스케줄러
type RefreshScheduler struct {
	cron             *cron.Cron
	statementService service.StatementService
	spec             string
}

// NewRefreshScheduler 재무제표 갱신 스케줄러 생성
func NewRefreshScheduler(statementService service.StatementService, spec string) *RefreshScheduler {
	return &RefreshScheduler{
		cron:             cron.New(),
		statementService: statementService,
		spec:             spec,
	}
}

// Start 스케줄러 시작
func (s *RefreshScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.refreshAll)
	if err != nil {
		logger.Error("Failed to add cron job for statement refresh", err)
		return err
	}

	s.cron.Start()
	logger.Info("Statement refresh scheduler started successfully", map[string]interface{}{
		"spec": s.spec,
	})

	return nil
}

// Stop 스케줄러 중지
func (s *RefreshScheduler) Stop() {
	logger.Info("Stopping statement refresh scheduler...", nil)
	s.cron.Stop()
	logger.Info("Statement refresh scheduler stopped", nil)
}

// refreshAll 저장된 모든 회사의 최신 재무제표를 갱신한다
// 이미 최신 연도가 저장된 회사는 FetchAndSave 내부에서 건너뛴다
func (s *RefreshScheduler) refreshAll() {
	logger.Info("Starting scheduled statement refresh", nil)

	companies, err := s.statementService.ListCompanies()
	if err != nil {
		logger.Error("Failed to list companies for scheduled refresh", err)
		return
	}

	refreshed := 0
	for _, company := range companies {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		result, err := s.statementService.FetchAndSave(ctx, company.CorpName, "")
		cancel()
		if err != nil {
			logger.Warn("Failed to refresh statements", map[string]interface{}{
				"corp_name": company.CorpName,
				"error":     err.Error(),
			})
			continue
		}
		if result.Fetched {
			refreshed++
		}
	}

	logger.Info("Scheduled statement refresh completed", map[string]interface{}{
		"companies": len(companies),
		"refreshed": refreshed,
	})
}
