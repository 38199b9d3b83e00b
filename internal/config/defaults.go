package config

const (
	defaultConfigPath       = "~/.config/setupam/config.toml"
	projectConfigFile       = "setupam.toml"
	dotEnvFile              = ".env"
	ledgerFileName          = "ledger.db"
	logFileName             = "setupam.log"
	defaultSourceDir        = "."
	defaultTargetDir        = "."
	defaultLogDir           = "~/.local/share/setupam/logs"
	defaultStateDir         = "~/.local/share/setupam"
	defaultAudioFormat      = "wav"
	defaultPromptExtension  = "txt"
	defaultMetadataFile     = "etc/README"
	defaultTestRatio        = 0.1
	defaultManifestEncoding = "iso-8859-1"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	defaultLogMaxSizeMB     = 20
	defaultLogMaxBackups    = 5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir: defaultSourceDir,
			TargetDir: defaultTargetDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		Corpus: Corpus{
			AudioFormat:      defaultAudioFormat,
			PromptExtension:  defaultPromptExtension,
			MetadataFile:     defaultMetadataFile,
			TestRatio:        defaultTestRatio,
			ManifestEncoding: defaultManifestEncoding,
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
			MaxSizeMB:     defaultLogMaxSizeMB,
			MaxBackups:    defaultLogMaxBackups,
		},
	}
}
