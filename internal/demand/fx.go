package demand

import (
	"github.com/railzwaylabs/yieldway/internal/demand/service"
	"go.uber.org/fx"
)

var Module = fx.Module("demand.analyzer",
	fx.Provide(service.NewAnalyzer),
)
