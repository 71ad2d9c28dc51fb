package reference

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/stormline/roofcrm/internal/config"
	"github.com/stormline/roofcrm/internal/reference/domain"
	"go.uber.org/zap"
)

// PricingHolder serves the current catalog and swaps it atomically when
// pricing.yml changes. In-flight generations keep the snapshot they started with.
type PricingHolder struct {
	current atomic.Pointer[domain.Catalog]
	log     *zap.Logger
	source  string
}

// NewPricingHolder loads pricing.yml from the configured search paths. A missing
// file is not an error: the built-in catalog is served instead.
func NewPricingHolder(cfg config.Config, log *zap.Logger) (*PricingHolder, error) {
	return newPricingHolder(cfg.Pricing.ConfigPaths, cfg.Pricing.WatchConfig, log)
}

func newPricingHolder(paths []string, watch bool, log *zap.Logger) (*PricingHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	holder := &PricingHolder{log: log.Named("reference.pricing")}

	v := viper.New()
	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("ROOFCRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read pricing config: %w", err)
		}
		holder.current.Store(DefaultCatalog())
		holder.source = "builtin"
		holder.log.Info("pricing catalog loaded", zap.String("source", holder.source))
		return holder, nil
	}

	catalog, err := decodeCatalog(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(catalog)
	holder.source = v.ConfigFileUsed()
	holder.log.Info("pricing catalog loaded", zap.String("source", holder.source))

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodeCatalog(v)
			if err != nil {
				holder.log.Warn("invalid pricing config ignored", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.current.Store(updated)
			holder.log.Info("pricing catalog reloaded", zap.String("file", e.Name))
		})
		v.WatchConfig()
	}

	return holder, nil
}

// decodeCatalog reads the pricing section; any section the file omits falls
// back to the built-in value.
func decodeCatalog(v *viper.Viper) (*domain.Catalog, error) {
	var spec domain.CatalogSpec
	if err := v.UnmarshalKey("pricing", &spec); err != nil {
		return nil, fmt.Errorf("decode pricing config: %w", err)
	}
	catalog, err := domain.NewCatalog(withDefaults(spec))
	if err != nil {
		return nil, fmt.Errorf("validate pricing config: %w", err)
	}
	return catalog, nil
}

func withDefaults(spec domain.CatalogSpec) domain.CatalogSpec {
	def := DefaultSpec()
	if len(spec.Materials) == 0 {
		spec.Materials = def.Materials
	}
	if len(spec.Regions) == 0 {
		spec.Regions = def.Regions
	}
	if spec.Rates == (domain.Rates{}) {
		spec.Rates = def.Rates
	}
	if len(spec.AreaPitch.Values) == 0 && spec.AreaPitch.Default == 0 {
		spec.AreaPitch = def.AreaPitch
	}
	if len(spec.LaborPitch.Values) == 0 && spec.LaborPitch.Default == 0 {
		spec.LaborPitch = def.LaborPitch
	}
	if len(spec.Stories) == 0 {
		spec.Stories = def.Stories
	}
	if spec.StoriesDefault == 0 {
		spec.StoriesDefault = def.StoriesDefault
	}
	return spec
}

// Current implements domain.CatalogSource.
func (h *PricingHolder) Current() *domain.Catalog {
	return h.current.Load()
}

// Source reports where the active catalog came from.
func (h *PricingHolder) Source() string {
	return h.source
}
