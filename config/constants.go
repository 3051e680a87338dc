package config

const (
	// DefaultConfigDirName is the directory name under the home directory.
	DefaultConfigDirName = ".termpix"
	// DefaultConfigFileName is the default config file name.
	DefaultConfigFileName = "config.yaml"
	// DefaultLogFileName is the default log file name.
	DefaultLogFileName = "termpix.log"

	// DefaultBackend is the default output backend.
	DefaultBackend = "ansi"
	// DefaultDebounceMS is the pointer-redraw coalescing window in
	// milliseconds, one frame at roughly 60 Hz.
	DefaultDebounceMS = 16
	// DefaultVcsaPath is the capture device of the current virtual console.
	DefaultVcsaPath = "/dev/vcsa"
	// DefaultCols is the fallback surface width when the device size
	// cannot be probed.
	DefaultCols = 80
	// DefaultRows is the fallback surface height, sized to a VGA console.
	DefaultRows = 25
)
