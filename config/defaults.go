package config

// DefaultConfig returns the default configuration values.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			DebounceMS: DefaultDebounceMS,
		},
		Device: DeviceConfig{
			Backend:  DefaultBackend,
			VcsaPath: DefaultVcsaPath,
			Cols:     DefaultCols,
			Rows:     DefaultRows,
		},
		Log: LogConfig{
			File: DefaultLogPath(),
		},
	}
}
