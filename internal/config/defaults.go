package config

const (
	defaultConfigPath     = "~/.config/comicbatch/config.toml"
	defaultOutputPrefix   = "comic"
	defaultMaxSize        = 100_000_000
	defaultTitleNumbering = TitleNumberingAlways
	defaultMaxWidth       = 1600
	defaultMaxHeight      = 2000
	defaultQuality        = 60
	defaultWorkers        = 1
	maxWorkers            = 64
	defaultBackend        = BackendNative
	defaultConvertBinary  = "convert"
	defaultImg2PDFBinary  = "img2pdf"
	defaultWorkspaceDir   = ".comicbatch"
	defaultLogFormat      = "console"
	defaultLogLevel       = "warn"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Output: Output{
			Prefix:         defaultOutputPrefix,
			MaxSize:        defaultMaxSize,
			TitleNumbering: defaultTitleNumbering,
		},
		Pages: Pages{
			MaxWidth:  defaultMaxWidth,
			MaxHeight: defaultMaxHeight,
			Quality:   defaultQuality,
		},
		Processing: Processing{
			Workers:       defaultWorkers,
			Backend:       defaultBackend,
			ConvertBinary: defaultConvertBinary,
			Img2PDFBinary: defaultImg2PDFBinary,
		},
		Workspace: Workspace{
			DirName: defaultWorkspaceDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
