package providers

import (
	"github.com/stormline/roofcrm/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
)
