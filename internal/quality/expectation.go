package quality

// Range bounds a numeric column inclusively. Either bound may be nil, in
// which case that side is unchecked.
type Range struct {
	Min *float64 `yaml:"min" json:"min,omitempty"`
	Max *float64 `yaml:"max" json:"max,omitempty"`
}

// Expectation declares the required shape of a dataset. Constructed once
// per dataset type (usually from the dataset spec file) and never mutated;
// validation calls receive it by value.
type Expectation struct {
	Name            string              `yaml:"name" json:"name" validate:"required"`
	ExpectedColumns []string            `yaml:"expected_columns" json:"expected_columns"`
	NonNullColumns  []string            `yaml:"non_null_columns" json:"non_null_columns,omitempty"`
	NumericColumns  []string            `yaml:"numeric_columns" json:"numeric_columns,omitempty"`
	AllowedValues   map[string][]string `yaml:"allowed_values" json:"allowed_values,omitempty"`
	ValueRanges     map[string]Range    `yaml:"value_ranges" json:"value_ranges,omitempty"`
	UniqueKeys      [][]string          `yaml:"unique_keys" json:"unique_keys,omitempty"`
	MinRows         int                 `yaml:"min_rows" json:"min_rows"`
}

// minRows returns the effective row-count floor. An unset value means one
// row: a dataset that exists is expected to carry data.
func (e Expectation) minRows() int {
	if e.MinRows == 0 {
		return 1
	}
	return e.MinRows
}
