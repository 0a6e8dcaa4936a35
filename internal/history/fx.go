package history

import (
	historydomain "github.com/railzwaylabs/yieldway/internal/history/domain"
	"github.com/railzwaylabs/yieldway/internal/history/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("history",
	fx.Provide(func(db *gorm.DB) historydomain.Repository {
		return repository.NewRepository(db)
	}),
)
