package booking

import (
	bookingdomain "github.com/railzwaylabs/yieldway/internal/booking/domain"
	"github.com/railzwaylabs/yieldway/internal/booking/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("booking",
	fx.Provide(func(db *gorm.DB) bookingdomain.Repository {
		return repository.NewRepository(db)
	}),
)
