package config

const (
	defaultDataDir                  = "~/.local/share/airguide/data"
	defaultLogDir                   = "~/.local/share/airguide/logs"
	defaultTMDBBaseURL              = "https://api.themoviedb.org/3"
	defaultTMDBLanguage             = "es-MX"
	defaultWatchRegion              = "MX"
	defaultRequestIntervalMS        = 250
	defaultCooldownDays             = 7
	defaultOverflowToleranceMinutes = 15
	defaultMovieRuntime             = 90
	defaultEpisodeRuntime           = 45
	defaultCooldownBackend          = "sqlite"
	defaultPoolTargetSize           = 1000
	defaultMaxResultsPerSlot        = 50
	defaultKeywordSearchLimit       = 3
	defaultPageLimit                = 3
	defaultRefreshIntervalHours     = 24
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// defaultProviders lists the subscribed streaming services by TMDB provider
// id for the default watch region.
func defaultProviders() map[string]int64 {
	return map[string]int64{
		"netflix":         8,
		"prime":           119,
		"disney":          337,
		"hbo_max":         384,
		"paramount":       531,
		"apple_tv":        2,
		"google_play":     3,
		"mubi":            11,
		"plex":            538,
		"pluto_tv":        300,
		"tubi":            283,
		"vix":             457,
		"youtube_premium": 188,
		"mgm_amazon":      583,
		"universal_amazon": 582,
		"mercado_play":    423,
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:           defaultTMDBBaseURL,
			Language:          defaultTMDBLanguage,
			WatchRegion:       defaultWatchRegion,
			RequestIntervalMS: defaultRequestIntervalMS,
		},
		Providers: defaultProviders(),
		Scheduling: Scheduling{
			CooldownDays:             defaultCooldownDays,
			OverflowToleranceMinutes: defaultOverflowToleranceMinutes,
			DefaultMovieRuntime:      defaultMovieRuntime,
			DefaultEpisodeRuntime:    defaultEpisodeRuntime,
			CooldownBackend:          defaultCooldownBackend,
		},
		Discovery: Discovery{
			PoolTargetSize:       defaultPoolTargetSize,
			MaxResultsPerSlot:    defaultMaxResultsPerSlot,
			KeywordSearchLimit:   defaultKeywordSearchLimit,
			PageLimit:            defaultPageLimit,
			RefreshIntervalHours: defaultRefreshIntervalHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
