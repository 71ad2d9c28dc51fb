package content

import "go.uber.org/fx"

var Module = fx.Module("proposal.content",
	fx.Provide(NewDefaultResolver),
)
