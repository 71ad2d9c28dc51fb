package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatProposalNumber(t *testing.T) {
	issued := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		template string
		seq      int64
		want     string
		wantErr  bool
	}{
		{"default", DefaultProposalNumberTemplate, 42, "PR-202603-00042", false},
		{"plain seq", "P{YY}{DD}-{SEQ}", 7, "P2609-7", false},
		{"wider than pad", "PR-{SEQ2}", 1234, "PR-1234", false},
		{"empty template", "", 1, "", true},
		{"zero seq", DefaultProposalNumberTemplate, 0, "", true},
		{"unknown token", "PR-{QUARTER}-{SEQ}", 1, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatProposalNumber(tt.template, issued, tt.seq)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUSD(t *testing.T) {
	assert.Equal(t, "$12,345", USD(12345))
	assert.Equal(t, "$0", USD(0))
	assert.Equal(t, "$999", USD(999))
	assert.Equal(t, "$1,234,567", USD(1234567))
	assert.Equal(t, "-$2,500", USD(-2500))
}
