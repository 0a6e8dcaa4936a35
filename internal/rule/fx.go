package rule

import (
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
	"github.com/railzwaylabs/yieldway/internal/rule/repository"
	"github.com/railzwaylabs/yieldway/internal/rule/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("rule.service",
	fx.Provide(func(db *gorm.DB) ruledomain.Repository {
		return repository.NewRepository(db)
	}),
	fx.Provide(service.NewService),
	fx.Provide(service.NewEvaluator),
)
