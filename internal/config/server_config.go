package config

// ServerConfig controls the feed API server.
type ServerConfig struct {
	ListenAddress string `json:"listen_address,omitempty" yaml:"listen_address,omitempty"`
}

// NewDefaultServerConfig creates a ServerConfig with default values
func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddress: DefaultListenAddress,
	}
}
