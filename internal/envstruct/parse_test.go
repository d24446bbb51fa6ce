package envstruct_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/repforge/repforge/internal/envstruct"
)

func TestPopulate(t *testing.T) {
	tests := []struct {
		name      string
		v         any
		lookupEnv func(string) (string, bool)
		want      any
		wantErr   error
	}{
		{
			name:      "nil",
			v:         nil,
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      nil,
			wantErr:   envstruct.ErrInvalidValue,
		},
		{
			name:      "not pointer",
			v:         struct{}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      nil,
			wantErr:   envstruct.ErrInvalidValue,
		},
		{
			name:      "empty struct",
			v:         &struct{}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      &struct{}{},
			wantErr:   nil,
		},
		{
			name: "empty env",
			v: &struct { //nolint:exhaustruct // populated later
				Addr string `env:"ADDR"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      nil,
			wantErr:   envstruct.ErrEnvNotSet,
		},
		{
			name: "env is set",
			v: &struct { //nolint:exhaustruct // populated later
				Addr string `env:"ADDR"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "localhost:8080", true },
			want: &struct {
				Addr string `env:"ADDR"`
			}{Addr: "localhost:8080"},
			wantErr: nil,
		},
		{
			name: "picks correct env variable",
			v: &struct { //nolint:exhaustruct // populated later
				SyncURL    string `env:"SYNC_URL"`
				SyncToken  string `env:"SYNC_TOKEN"`
				Unbound    string
				UnboundTwo int
			}{},
			lookupEnv: func(s string) (string, bool) { return strings.ToLower(s), true },
			want: &struct {
				SyncURL    string `env:"SYNC_URL"`
				SyncToken  string `env:"SYNC_TOKEN"`
				Unbound    string
				UnboundTwo int
			}{SyncURL: "sync_url", SyncToken: "sync_token", Unbound: "", UnboundTwo: 0},
			wantErr: nil,
		},
		{
			name: "handles default value",
			v: &struct { //nolint:exhaustruct // populated later
				CacheTTL string `env:"CACHE_TTL" envDefault:"1h"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want: &struct {
				CacheTTL string `env:"CACHE_TTL" envDefault:"1h"`
			}{CacheTTL: "1h"},
			wantErr: nil,
		},
		{
			name: "parses int, bool, and duration",
			v: &struct { //nolint:exhaustruct // populated later
				Size     int           `env:"SIZE" envDefault:"42"`
				Enabled  bool          `env:"ENABLED" envDefault:"true"`
				Interval time.Duration `env:"INTERVAL" envDefault:"90s"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want: &struct {
				Size     int           `env:"SIZE" envDefault:"42"`
				Enabled  bool          `env:"ENABLED" envDefault:"true"`
				Interval time.Duration `env:"INTERVAL" envDefault:"90s"`
			}{Size: 42, Enabled: true, Interval: 90 * time.Second},
			wantErr: nil,
		},
		{
			name: "rejects malformed int",
			v: &struct { //nolint:exhaustruct // populated later
				Size int `env:"SIZE" envDefault:"not-a-number"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      nil,
			wantErr:   strconv.ErrSyntax,
		},
		{
			name: "rejects unsupported field type",
			v: &struct { //nolint:exhaustruct // populated later
				MET float64 `env:"MET"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "1.5", true },
			want:      nil,
			wantErr:   envstruct.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := envstruct.Populate(tt.v, tt.lookupEnv)

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Populate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Populate() unexpected error = %v", err)
				}
				if diff := cmp.Diff(tt.want, tt.v); diff != "" {
					t.Errorf("Populate() mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
