package reference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stormline/roofcrm/internal/reference/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writePricing(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pricing.yml"), []byte(body), 0o600))
	return dir
}

func TestDefaultCatalogIsValid(t *testing.T) {
	_, err := domain.NewCatalog(DefaultSpec())
	require.NoError(t, err)

	c := DefaultCatalog()
	assert.Len(t, c.Materials(), 4)
	assert.Equal(t, 0.06, c.Region("pa").TaxRate)
	assert.Equal(t, c.Region(domain.DefaultRegionCode), c.Region("ZZ"))
}

func TestPricingHolderFallsBackToBuiltin(t *testing.T) {
	h, err := newPricingHolder([]string{t.TempDir()}, false, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "builtin", h.Source())
	require.NotNil(t, h.Current())
	assert.Equal(t, DefaultCatalog().Region("NY"), h.Current().Region("NY"))
}

func TestPricingHolderReadsFile(t *testing.T) {
	dir := writePricing(t, `
pricing:
  regions:
    - state: PA
      labor_rate_multiplier: 1.2
      permit_fee_base: 300
      tax_rate: 0.07
    - state: DEFAULT
      labor_rate_multiplier: 1
      permit_fee_base: 150
      tax_rate: 0.05
`)

	h, err := newPricingHolder([]string{dir}, false, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pricing.yml"), h.Source())

	c := h.Current()
	pa := c.Region("PA")
	assert.Equal(t, 1.2, pa.LaborRateMultiplier)
	assert.Equal(t, 0.07, pa.TaxRate)
	// TX is only in the built-in table, so the file's DEFAULT applies.
	assert.Equal(t, 0.05, c.Region("TX").TaxRate)
	assert.Equal(t, []string{"PA"}, c.States())

	// sections the file omits keep their built-in values
	assert.Equal(t, DefaultCatalog().Materials(), c.Materials())
	assert.Equal(t, DefaultCatalog().Rates(), c.Rates())
	assert.Equal(t, 1.12, c.AreaPitchFactor("6/12"))
}

func TestPricingHolderRejectsInvalidFile(t *testing.T) {
	dir := writePricing(t, `
pricing:
  regions:
    - state: PA
      labor_rate_multiplier: 1.2
      permit_fee_base: 300
      tax_rate: 0.07
`)

	_, err := newPricingHolder([]string{dir}, false, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingDefaultRegion)
}
