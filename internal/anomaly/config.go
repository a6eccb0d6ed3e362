package anomaly

// Config controls how ridership series are bucketed and scored. Zero values
// fall back to the defaults, so a partially filled literal is safe.
type Config struct {
	DateColumn    string  `yaml:"date_column" json:"date_column"`
	ValueColumn   string  `yaml:"value_column" json:"value_column"`
	StationColumn string  `yaml:"station_column" json:"station_column"`
	Frequency     string  `yaml:"frequency" json:"frequency"`
	Window        int     `yaml:"window" json:"window"`
	ZThreshold    float64 `yaml:"z_threshold" json:"z_threshold"`
	MinPeriods    int     `yaml:"min_periods" json:"min_periods"`
}

// DefaultConfig returns the scoring configuration used for the turnstile
// feed: daily buckets, a 14-observation window and a three-sigma cutoff.
func DefaultConfig() Config {
	return Config{
		DateColumn:    "fecha",
		ValueColumn:   "pax_total",
		StationColumn: "estacion",
		Frequency:     "D",
		Window:        14,
		ZThreshold:    3.0,
		MinPeriods:    7,
	}
}

// normalized fills unset fields from DefaultConfig.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.DateColumn == "" {
		c.DateColumn = def.DateColumn
	}
	if c.ValueColumn == "" {
		c.ValueColumn = def.ValueColumn
	}
	if c.StationColumn == "" {
		c.StationColumn = def.StationColumn
	}
	if c.Frequency == "" {
		c.Frequency = def.Frequency
	}
	if c.Window <= 0 {
		c.Window = def.Window
	}
	if c.ZThreshold <= 0 {
		c.ZThreshold = def.ZThreshold
	}
	if c.MinPeriods <= 0 {
		c.MinPeriods = def.MinPeriods
	}
	return c
}
