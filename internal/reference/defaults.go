package reference

import "github.com/stormline/roofcrm/internal/reference/domain"

// DefaultSpec is the built-in catalog used when no pricing.yml is mounted.
func DefaultSpec() domain.CatalogSpec {
	return domain.CatalogSpec{
		Materials: []domain.MaterialOption{
			{
				ID:             "three-tab-economy",
				Grade:          domain.GradeEconomy,
				Brand:          "GAF Royal Sovereign",
				PricePerSquare: 95,
				WarrantyYears:  25,
				Features:       []string{"3-tab profile", "60 mph wind rating", "Algae resistance"},
			},
			{
				ID:             "architectural-standard",
				Grade:          domain.GradeStandard,
				Brand:          "GAF Timberline HDZ",
				PricePerSquare: 125,
				WarrantyYears:  30,
				Features:       []string{"Dimensional architectural shingle", "130 mph wind rating", "StainGuard algae protection"},
			},
			{
				ID:             "designer-premium",
				Grade:          domain.GradePremium,
				Brand:          "CertainTeed Grand Manor",
				PricePerSquare: 185,
				WarrantyYears:  50,
				Features:       []string{"Super-heavyweight designer shingle", "Class 4 impact resistance", "Lifetime limited warranty"},
			},
			{
				ID:             "synthetic-slate-luxury",
				Grade:          domain.GradeLuxury,
				Brand:          "DaVinci Single-Width Slate",
				PricePerSquare: 425,
				WarrantyYears:  50,
				Features:       []string{"Polymer slate, no natural cleft breakage", "Class A fire rating", "Class 4 impact resistance", "110 mph wind rating"},
			},
		},
		Regions: []domain.RegionalPricing{
			{State: "PA", LaborRateMultiplier: 1.00, PermitFeeBase: 150, TaxRate: 0.06},
			{State: "NJ", LaborRateMultiplier: 1.15, PermitFeeBase: 200, TaxRate: 0.06625},
			{State: "NY", LaborRateMultiplier: 1.25, PermitFeeBase: 250, TaxRate: 0.08},
			{State: "OH", LaborRateMultiplier: 0.95, PermitFeeBase: 125, TaxRate: 0.0575},
			{State: "MD", LaborRateMultiplier: 1.10, PermitFeeBase: 175, TaxRate: 0.06},
			{State: "DE", LaborRateMultiplier: 1.05, PermitFeeBase: 150, TaxRate: 0},
			{State: "VA", LaborRateMultiplier: 1.00, PermitFeeBase: 150, TaxRate: 0.053},
			{State: "TX", LaborRateMultiplier: 0.90, PermitFeeBase: 100, TaxRate: 0.0625},
			{State: "OK", LaborRateMultiplier: 0.90, PermitFeeBase: 100, TaxRate: 0.045},
			{State: "CO", LaborRateMultiplier: 1.05, PermitFeeBase: 175, TaxRate: 0.029},
			{State: "FL", LaborRateMultiplier: 0.95, PermitFeeBase: 200, TaxRate: 0.06},
			{State: domain.DefaultRegionCode, LaborRateMultiplier: 1.00, PermitFeeBase: 150, TaxRate: 0.06},
		},
		Rates: domain.Rates{
			BaseLaborPerSquare:    85,
			TearOffPerSquare:      45,
			DisposalPerSquare:     25,
			PermitPerSquare:       2,
			MiscFeeRate:           0.08,
			UnderlaymentPerSquare: 15,
			IceWaterCoverage:      0.15,
			IceWaterUnitPrice:     45,
			StarterRidgeShare:     0.6,
			FlashingShare:         0.4,
		},
		// Sloped area per unit of footprint. Used only to estimate squares.
		AreaPitch: domain.MultiplierTable{
			Values: map[string]float64{
				"flat":  1.00,
				"2/12":  1.01,
				"3/12":  1.03,
				"4/12":  1.05,
				"5/12":  1.08,
				"6/12":  1.12,
				"7/12":  1.16,
				"8/12":  1.20,
				"9/12":  1.25,
				"10/12": 1.30,
				"11/12": 1.36,
				"12/12": 1.41,
			},
			Default: 1.15,
		},
		// Installation difficulty. Not interchangeable with AreaPitch.
		LaborPitch: domain.MultiplierTable{
			Values: map[string]float64{
				"flat":  1.00,
				"2/12":  1.00,
				"3/12":  1.00,
				"4/12":  1.00,
				"5/12":  1.00,
				"6/12":  1.05,
				"7/12":  1.10,
				"8/12":  1.15,
				"9/12":  1.20,
				"10/12": 1.30,
				"11/12": 1.40,
				"12/12": 1.50,
			},
			Default: 1.10,
		},
		Stories:        map[int]float64{1: 1.00, 2: 1.15, 3: 1.30},
		StoriesDefault: 1.00,
	}
}

// DefaultCatalog builds the built-in catalog. It panics only if DefaultSpec is
// itself invalid, which the package tests guard against.
func DefaultCatalog() *domain.Catalog {
	c, err := domain.NewCatalog(DefaultSpec())
	if err != nil {
		panic(err)
	}
	return c
}

// StaticSource always returns the same catalog.
type StaticSource struct {
	catalog *domain.Catalog
}

func NewStaticSource(c *domain.Catalog) *StaticSource {
	return &StaticSource{catalog: c}
}

func (s *StaticSource) Current() *domain.Catalog { return s.catalog }
