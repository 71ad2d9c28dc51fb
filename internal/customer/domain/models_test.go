package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyFullAddress(t *testing.T) {
	tests := []struct {
		name string
		p    Property
		want string
	}{
		{"full", Property{Address: "12 Oak Ln", City: "Lancaster", State: "PA", Zip: "17601"}, "12 Oak Ln, Lancaster, PA 17601"},
		{"street only", Property{Address: " 12 Oak Ln "}, "12 Oak Ln"},
		{"empty", Property{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.FullAddress())
		})
	}
}

func TestInsuranceHasCarrier(t *testing.T) {
	var nilPolicy *Insurance
	assert.False(t, nilPolicy.HasCarrier())
	assert.False(t, (&Insurance{Carrier: "  "}).HasCarrier())
	assert.True(t, (&Insurance{Carrier: "State Farm"}).HasCarrier())
}
