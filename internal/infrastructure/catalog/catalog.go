package catalog

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"credit-server/internal/domain/plan"
)

// PlanCatalog インメモリ実装のPlanRepository
//
// カタログは起動時に固定され、実行中に変化しない。
type PlanCatalog struct {
	plans  []*plan.Plan
	byID   map[string]*plan.Plan
	tracer trace.Tracer
}

// NewPlanCatalog 既定のプラン一覧でカタログを作成
func NewPlanCatalog() *PlanCatalog {
	return NewPlanCatalogWithPlans(defaultPlans())
}

// NewPlanCatalogWithPlans 指定されたプラン一覧でカタログを作成
func NewPlanCatalogWithPlans(plans []*plan.Plan) *PlanCatalog {
	byID := make(map[string]*plan.Plan, len(plans))
	for _, p := range plans {
		byID[p.PlanID()] = p
	}
	return &PlanCatalog{
		plans:  plans,
		byID:   byID,
		tracer: otel.Tracer("plan-catalog"),
	}
}

// List 全プランを定義順で取得
func (c *PlanCatalog) List(ctx context.Context) ([]*plan.Plan, error) {
	_, span := c.tracer.Start(ctx, "PlanCatalog.List")
	defer span.End()

	span.SetAttributes(attribute.Int("catalog.plan_count", len(c.plans)))
	span.SetStatus(otelcodes.Ok, "plans listed")

	plans := make([]*plan.Plan, len(c.plans))
	copy(plans, c.plans)
	return plans, nil
}

// FindByID プランIDでプランを取得
func (c *PlanCatalog) FindByID(ctx context.Context, planID string) (*plan.Plan, error) {
	_, span := c.tracer.Start(ctx, "PlanCatalog.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("catalog.plan_id", planID))

	p, ok := c.byID[planID]
	if !ok {
		span.SetStatus(otelcodes.Ok, "plan not found")
		return nil, plan.ErrPlanNotFound
	}

	span.SetStatus(otelcodes.Ok, "plan found")
	return p, nil
}

// defaultPlans 既定のプラン一覧（価格は最小通貨単位）
func defaultPlans() []*plan.Plan {
	return []*plan.Plan{
		plan.MustNewPlan("basic", "Basic", 1000, 100, []string{
			"100 text generations",
			"50 image generations",
			"Standard support",
			"Access to basic models",
		}),
		plan.MustNewPlan("pro", "Pro", 2000, 500, []string{
			"500 text generations",
			"200 image generations",
			"Priority support",
			"Access to pro models",
			"Faster response time",
		}),
		plan.MustNewPlan("premium", "Premium", 3000, 1000, []string{
			"1000 text generations",
			"500 image generations",
			"24/7 VIP support",
			"Access to premium models",
			"Dedicated account manager",
		}),
	}
}
