package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/yieldway/internal/clock"
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
	"github.com/railzwaylabs/yieldway/internal/rule/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  ruledomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
}

func NewService(p ServiceParam) ruledomain.Service {
	return &Service{
		log:   p.Log.Named("rule.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  repository.NewRepository(p.DB),
	}
}

func (s *Service) Create(ctx context.Context, rule *ruledomain.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	now := s.clock.Now(ctx).UTC()
	rule.ID = s.genID.Generate()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	if err := s.repo.Insert(ctx, rule); err != nil {
		return err
	}
	s.log.Info("pricing rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("kind", string(rule.Kind)),
	)
	return nil
}

func (s *Service) Update(ctx context.Context, rule *ruledomain.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	existing, err := s.repo.Get(ctx, rule.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ruledomain.ErrRuleNotFound
	}

	// Performance counters belong to the evaluator; a config write never
	// resets them.
	rule.Applications = existing.Applications
	rule.RevenueImpact = existing.RevenueImpact
	rule.SuccessRate = existing.SuccessRate
	rule.LastAppliedAt = existing.LastAppliedAt
	rule.CreatedAt = existing.CreatedAt
	rule.UpdatedAt = s.clock.Now(ctx).UTC()

	return s.repo.Update(ctx, rule)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*ruledomain.Rule, error) {
	rule, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruledomain.ErrRuleNotFound
	}
	return rule, nil
}

func (s *Service) List(ctx context.Context) ([]ruledomain.Rule, error) {
	return s.repo.List(ctx)
}

func (s *Service) ActiveForHotel(ctx context.Context, hotelID snowflake.ID, at time.Time) ([]ruledomain.Rule, error) {
	rules, err := s.repo.ListForHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	active := make([]ruledomain.Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.Active && rule.ValidAt(at) {
			active = append(active, rule)
		}
	}
	return active, nil
}
