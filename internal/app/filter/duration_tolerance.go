package filter

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19dl/internal/domain/source"
	"github.com/osa030/19dl/internal/domain/track"
)

const (
	DurationToleranceFilterName = "duration_tolerance_filter"

	CodeDurationOutOfTolerance = "duration_out_of_tolerance"
	CodeDurationUnknown        = "duration_unknown"
)

// DurationToleranceConfig represents the configuration for DurationToleranceFilter.
type DurationToleranceConfig struct {
	Tolerance float64 `yaml:"tolerance" mapstructure:"tolerance" default:"0.1" validate:"gt=0,lt=1"`
}

// DurationToleranceFilter accepts candidates whose length is close to the track length.
// The ratio candidate/track must lie strictly inside (1-tolerance, 1+tolerance).
type DurationToleranceFilter struct {
	config *DurationToleranceConfig
}

// NewDurationToleranceFilter creates a duration filter with the given tolerance.
func NewDurationToleranceFilter(tolerance float64) *DurationToleranceFilter {
	return &DurationToleranceFilter{
		config: &DurationToleranceConfig{Tolerance: tolerance},
	}
}

func (f *DurationToleranceFilter) Name() string {
	return DurationToleranceFilterName
}

func (f *DurationToleranceFilter) Description() string {
	return "Accepts candidates whose duration is within the tolerance of the track duration"
}

func (f *DurationToleranceFilter) ReturnCodes() []string {
	return []string{CodeDurationOutOfTolerance, CodeDurationUnknown}
}

func (f *DurationToleranceFilter) ValidateConfig(settings map[string]any) error {
	var config DurationToleranceConfig

	// Decode map[string]any to struct using mapstructure
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &config,
		TagName: "mapstructure",
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}

	if err := decoder.Decode(settings); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}

	if err := defaults.Set(&config); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	f.config = &config
	zlog.Info().Msgf("duration tolerance filter config: %+v", config)
	return nil
}

func (f *DurationToleranceFilter) Check(ctx context.Context, t *track.Track, c source.Candidate) Result {
	if f.config == nil {
		return Accept()
	}

	ratio, ok := c.DurationRatio(t.DurationSeconds())
	if !ok {
		return Reject(CodeDurationUnknown)
	}

	tol := f.config.Tolerance
	if ratio <= 1-tol || ratio >= 1+tol {
		return Reject(CodeDurationOutOfTolerance)
	}
	return Accept()
}

func init() {
	Register(DurationToleranceFilterName, func() Filter {
		return &DurationToleranceFilter{}
	})
}
