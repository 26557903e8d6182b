package plans

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"credit-server/internal/domain/plan"
	otelinfra "credit-server/internal/infrastructure/observability/otel"
)

// PlanApplicationService プランカタログアプリケーションサービス
type PlanApplicationService struct {
	planRepo plan.PlanRepository
	logger   *otelinfra.Logger
	tracer   trace.Tracer
}

// NewPlanApplicationService 新しいPlanApplicationServiceを作成
func NewPlanApplicationService(
	planRepo plan.PlanRepository,
	logger *otelinfra.Logger,
) *PlanApplicationService {
	return &PlanApplicationService{
		planRepo: planRepo,
		logger:   logger,
		tracer:   otel.Tracer("plan-service"),
	}
}

// ListPlans 購入可能なプラン一覧を定義順で取得
func (s *PlanApplicationService) ListPlans(ctx context.Context) (*ListPlansResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PlanApplicationService.ListPlans")
	defer span.End()

	planList, err := s.planRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to list plans", err, nil)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	dtos := make([]*PlanDTO, 0, len(planList))
	for _, p := range planList {
		dtos = append(dtos, &PlanDTO{
			PlanID:   p.PlanID(),
			Name:     p.Name(),
			Price:    p.Price(),
			Credits:  p.Credits(),
			Features: p.Features(),
		})
	}

	span.SetAttributes(attribute.Int("plan_count", len(dtos)))
	span.SetStatus(otelcodes.Ok, "plans listed")

	return &ListPlansResponse{Plans: dtos}, nil
}
