package filter

import (
	"context"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19dl/internal/domain/source"
	"github.com/osa030/19dl/internal/domain/track"
)

const (
	ExcludedKeywordsFilterName = "excluded_keywords_filter"

	CodeExcludedKeyword = "excluded_keyword"
)

// ExcludedKeywordsConfig represents the configuration for ExcludedKeywordsFilter.
type ExcludedKeywordsConfig struct {
	Keywords []string `yaml:"keywords" mapstructure:"keywords" default:"[\"live\",\"karaoke\",\"instrumental\",\"cover\"]" validate:"dive,required"`
}

// ExcludedKeywordsFilter rejects alternate versions of a song.
// A candidate is rejected when its title contains a keyword as a whole word
// and the track name does not.
type ExcludedKeywordsFilter struct {
	patterns []*regexp.Regexp
}

// NewExcludedKeywordsFilter creates a keyword filter for the given keywords.
func NewExcludedKeywordsFilter(keywords []string) *ExcludedKeywordsFilter {
	return &ExcludedKeywordsFilter{patterns: compileKeywords(keywords)}
}

// Name returns the filter name.
func (f *ExcludedKeywordsFilter) Name() string {
	return ExcludedKeywordsFilterName
}

// Description returns the filter description.
func (f *ExcludedKeywordsFilter) Description() string {
	return "Rejects live, karaoke and other alternate versions unless the track itself is one"
}

// ReturnCodes returns possible return codes.
func (f *ExcludedKeywordsFilter) ReturnCodes() []string {
	return []string{CodeExcludedKeyword}
}

// ValidateConfig validates the filter configuration.
func (f *ExcludedKeywordsFilter) ValidateConfig(settings map[string]any) error {
	var config ExcludedKeywordsConfig

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

	f.patterns = compileKeywords(config.Keywords)
	zlog.Info().Msgf("excluded keywords filter config: %+v", config)
	return nil
}

// Check rejects candidates carrying a keyword absent from the track name.
func (f *ExcludedKeywordsFilter) Check(ctx context.Context, t *track.Track, c source.Candidate) Result {
	for _, p := range f.patterns {
		if p.MatchString(c.Title) && !p.MatchString(t.Name) {
			return Reject(CodeExcludedKeyword)
		}
	}
	return Accept()
}

// compileKeywords builds case-insensitive whole-word patterns.
func compileKeywords(keywords []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return patterns
}

func init() {
	Register(ExcludedKeywordsFilterName, func() Filter {
		return &ExcludedKeywordsFilter{}
	})
}
