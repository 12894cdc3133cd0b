package filter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/19dl/internal/domain/source"
	"github.com/osa030/19dl/internal/domain/track"
)

func TestDurationToleranceFilter_Check(t *testing.T) {
	tests := []struct {
		name          string
		tolerance     float64
		trackDuration time.Duration
		candidate     float64
		wantAccepted  bool
		wantCode      string
	}{
		{
			name:          "inside lower bound",
			tolerance:     0.1,
			trackDuration: 200 * time.Second,
			candidate:     181,
			wantAccepted:  true,
		},
		{
			name:          "exactly at lower bound",
			tolerance:     0.1,
			trackDuration: 200 * time.Second,
			candidate:     180,
			wantAccepted:  false,
			wantCode:      CodeDurationOutOfTolerance,
		},
		{
			name:          "exactly at upper bound",
			tolerance:     0.1,
			trackDuration: 200 * time.Second,
			candidate:     220,
			wantAccepted:  false,
			wantCode:      CodeDurationOutOfTolerance,
		},
		{
			name:          "inside upper bound",
			tolerance:     0.1,
			trackDuration: 200 * time.Second,
			candidate:     219,
			wantAccepted:  true,
		},
		{
			name:          "truncated track duration",
			tolerance:     0.1,
			trackDuration: 245999 * time.Millisecond,
			candidate:     245,
			wantAccepted:  true,
		},
		{
			name:          "zero track duration",
			tolerance:     0.1,
			trackDuration: 0,
			candidate:     200,
			wantAccepted:  false,
			wantCode:      CodeDurationUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDurationToleranceFilter(tt.tolerance)
			trk := &track.Track{ID: "t", Name: "Song", Duration: tt.trackDuration}

			result := f.Check(context.Background(), trk, source.Candidate{ID: "v", Duration: tt.candidate})
			assert.Equal(t, tt.wantAccepted, result.Accepted)
			assert.Equal(t, tt.wantCode, result.Code)
		})
	}
}

func TestDurationToleranceFilter_ValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		wantErr  bool
		expected float64
	}{
		{
			name:     "default tolerance",
			settings: nil,
			expected: 0.1,
		},
		{
			name:     "custom tolerance",
			settings: map[string]any{"tolerance": 0.25},
			expected: 0.25,
		},
		{
			name:     "tolerance out of range",
			settings: map[string]any{"tolerance": 1.5},
			wantErr:  true,
		},
		{
			name:     "wrong type",
			settings: map[string]any{"tolerance": "wide"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &DurationToleranceFilter{}
			err := f.ValidateConfig(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, f.config.Tolerance, 1e-9)
		})
	}
}

func TestExcludedKeywordsFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		keywords     []string
		trackName    string
		title        string
		wantAccepted bool
	}{
		{
			name:         "studio version accepted",
			keywords:     []string{"live"},
			trackName:    "Song",
			title:        "Song (Official Audio)",
			wantAccepted: true,
		},
		{
			name:         "live version rejected",
			keywords:     []string{"live"},
			trackName:    "Song",
			title:        "Song (LIVE at Budokan)",
			wantAccepted: false,
		},
		{
			name:         "keyword in track name",
			keywords:     []string{"live"},
			trackName:    "Song - Live",
			title:        "Song (Live)",
			wantAccepted: true,
		},
		{
			name:         "whole words only",
			keywords:     []string{"live"},
			trackName:    "Song",
			title:        "Deliver Me",
			wantAccepted: true,
		},
		{
			name:         "no keywords",
			keywords:     nil,
			trackName:    "Song",
			title:        "Song (Karaoke)",
			wantAccepted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewExcludedKeywordsFilter(tt.keywords)
			result := f.Check(context.Background(), &track.Track{Name: tt.trackName}, source.Candidate{Title: tt.title})
			assert.Equal(t, tt.wantAccepted, result.Accepted)
			if !tt.wantAccepted {
				assert.Equal(t, CodeExcludedKeyword, result.Code)
			}
		})
	}
}

func TestExcludedKeywordsFilter_ValidateConfig(t *testing.T) {
	f := &ExcludedKeywordsFilter{}
	require.NoError(t, f.ValidateConfig(nil))
	assert.Len(t, f.patterns, 4)

	require.NoError(t, f.ValidateConfig(map[string]any{"keywords": []any{"remix"}}))
	assert.Len(t, f.patterns, 1)

	assert.Error(t, f.ValidateConfig(map[string]any{"keywords": []any{""}}))
}

type stubSettings map[string]map[string]any

func (s stubSettings) IsFilterEnabled(name string) bool {
	_, ok := s[name]
	return ok
}

func (s stubSettings) GetFilterSettings(name string) map[string]any {
	return s[name]
}

func TestBuild(t *testing.T) {
	chain, err := Build(0.1, stubSettings{})
	require.NoError(t, err)
	require.Len(t, chain.Filters(), 1)
	assert.Equal(t, DurationToleranceFilterName, chain.Filters()[0].Name())

	chain, err = Build(0.1, stubSettings{
		ExcludedKeywordsFilterName: {"keywords": []any{"live"}},
	})
	require.NoError(t, err)
	require.Len(t, chain.Filters(), 2)
	assert.Equal(t, ExcludedKeywordsFilterName, chain.Filters()[1].Name())

	_, err = Build(0.1, stubSettings{
		ExcludedKeywordsFilterName: {"keywords": "live"},
	})
	assert.Error(t, err)
}

func TestChain_Execute(t *testing.T) {
	chain := NewChain()
	chain.Add(NewDurationToleranceFilter(0.1))
	chain.Add(NewExcludedKeywordsFilter([]string{"live"}))

	trk := &track.Track{Name: "Song", Duration: 200 * time.Second}

	result := chain.Execute(context.Background(), trk, source.Candidate{Title: "Song (Live)", Duration: 200})
	assert.False(t, result.Accepted)
	assert.Equal(t, CodeExcludedKeyword, result.Code)

	result = chain.Execute(context.Background(), trk, source.Candidate{Title: "Song (Live)", Duration: 100})
	assert.Equal(t, CodeDurationOutOfTolerance, result.Code)

	result = chain.Execute(context.Background(), trk, source.Candidate{Title: "Song", Duration: 201})
	assert.True(t, result.Accepted)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{DurationToleranceFilterName, ExcludedKeywordsFilterName}, Names())
}
