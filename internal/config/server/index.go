package server

// IndexServerConfig holds the ANN graph construction parameters.
type IndexServerConfig struct {
	DegreeBound         int `mapstructure:"degree_bound"         yaml:"degree_bound"`
	ConstructionBreadth int `mapstructure:"construction_breadth" yaml:"construction_breadth"`
	SearchBreadth       int `mapstructure:"search_breadth"       yaml:"search_breadth"`
}
