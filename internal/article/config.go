package article

import (
	"fmt"
	"strings"
)

// FontProfile lists font-name fragments per typographic role. Matching is a
// case-insensitive substring search over a line's font names.
type FontProfile struct {
	BodySerif   []string `mapstructure:"body_serif" yaml:"body_serif" json:"body_serif"`
	DisplaySans []string `mapstructure:"display_sans" yaml:"display_sans" json:"display_sans"`
	BoldWeight  []string `mapstructure:"bold_weight" yaml:"bold_weight" json:"bold_weight"`
}

// DefaultFontProfile matches the Minion body and Univers display faces of
// the Bouwen met Staal layout.
func DefaultFontProfile() FontProfile {
	return FontProfile{
		BodySerif:   []string{"minion"},
		DisplaySans: []string{"univers"},
		BoldWeight:  []string{"bold", "black", "heavy", "semibold", "demi"},
	}
}

func containsAny(name string, fragments []string) bool {
	for _, f := range fragments {
		if f != "" && strings.Contains(name, strings.ToLower(f)) {
			return true
		}
	}
	return false
}

// Config holds the tunable constants of the extraction.
type Config struct {
	MinFontSize float64 `mapstructure:"min_font_size" yaml:"min_font_size" json:"min_font_size"`
	MaxFontSize float64 `mapstructure:"max_font_size" yaml:"max_font_size" json:"max_font_size"`

	ColumnGap        float64 `mapstructure:"column_gap" yaml:"column_gap" json:"column_gap"`                         // points between column references
	AnchorWidthRatio float64 `mapstructure:"anchor_width_ratio" yaml:"anchor_width_ratio" json:"anchor_width_ratio"` // of the median line width
	MaxColumns       int     `mapstructure:"max_columns" yaml:"max_columns" json:"max_columns"`

	WrapWidth int `mapstructure:"wrap_width" yaml:"wrap_width" json:"wrap_width"`

	HyphenMinChars   int     `mapstructure:"hyphen_min_chars" yaml:"hyphen_min_chars" json:"hyphen_min_chars"`
	HyphenMinPer1000 float64 `mapstructure:"hyphen_min_per_1000" yaml:"hyphen_min_per_1000" json:"hyphen_min_per_1000"`

	Fonts FontProfile `mapstructure:"fonts" yaml:"fonts" json:"fonts"`
}

// DefaultConfig returns the settings tuned for three-column magazine pages
// with 9pt body text.
func DefaultConfig() Config {
	return Config{
		MinFontSize:      8.5,
		MaxFontSize:      9.5,
		ColumnGap:        60,
		AnchorWidthRatio: 0.6,
		MaxColumns:       3,
		WrapWidth:        80,
		HyphenMinChars:   2000,
		HyphenMinPer1000: 1.0,
		Fonts:            DefaultFontProfile(),
	}
}

// Validate reports settings that cannot produce a meaningful extraction.
func (c Config) Validate() error {
	switch {
	case c.MinFontSize <= 0 || c.MaxFontSize < c.MinFontSize:
		return fmt.Errorf("%w: font size band [%v, %v]", ErrConfiguration, c.MinFontSize, c.MaxFontSize)
	case c.ColumnGap <= 0:
		return fmt.Errorf("%w: column gap %v", ErrConfiguration, c.ColumnGap)
	case c.AnchorWidthRatio < 0 || c.AnchorWidthRatio > 1:
		return fmt.Errorf("%w: anchor width ratio %v", ErrConfiguration, c.AnchorWidthRatio)
	case c.MaxColumns < 1:
		return fmt.Errorf("%w: max columns %d", ErrConfiguration, c.MaxColumns)
	case c.WrapWidth < 0:
		return fmt.Errorf("%w: wrap width %d", ErrConfiguration, c.WrapWidth)
	case len(c.Fonts.BodySerif) == 0 && len(c.Fonts.DisplaySans) == 0:
		return fmt.Errorf("%w: font profile has no families", ErrConfiguration)
	}
	return nil
}
