package geolocation

import (
	"context"
	"ongkir-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestReportLocate(t *testing.T) {
	tests := []struct {
		name    string
		report  Report
		want    domain.Coordinates
		wantErr error
	}{
		{"position", Report{Lat: ptr(-6.1754), Lon: ptr(106.8272)}, domain.Coordinates{Lat: -6.1754, Lon: 106.8272}, nil},
		{"denied", Report{Error: "permission_denied"}, domain.Coordinates{}, domain.ErrGeolocationDenied},
		{"unsupported", Report{Error: "UNSUPPORTED"}, domain.Coordinates{}, domain.ErrGeolocationUnsupported},
		{"timeout", Report{Error: "timeout"}, domain.Coordinates{}, domain.ErrGeolocationUnavailable},
		{"unavailable", Report{Error: "position_unavailable"}, domain.Coordinates{}, domain.ErrGeolocationUnavailable},
		{"missing", Report{Lat: ptr(1)}, domain.Coordinates{}, domain.ErrGeolocationUnavailable},
		{"out of range", Report{Lat: ptr(91), Lon: ptr(0)}, domain.Coordinates{}, domain.ErrGeolocationUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.report.Locate(context.Background())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReportLocateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Report{Lat: ptr(0), Lon: ptr(0)}.Locate(ctx)
	require.ErrorIs(t, err, domain.ErrGeolocationUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
