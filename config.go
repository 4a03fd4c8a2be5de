package tourcms

import "github.com/wisatago/tourcms/internal/runtimeconfig"

var (
	ErrSiteURLRequired               = runtimeconfig.ErrSiteURLRequired
	ErrSiteURLInvalid                = runtimeconfig.ErrSiteURLInvalid
	ErrStorageDriverRequired         = runtimeconfig.ErrStorageDriverRequired
	ErrProviderEndpointRequired      = runtimeconfig.ErrProviderEndpointRequired
	ErrTranslationAttemptsInvalid    = runtimeconfig.ErrTranslationAttemptsInvalid
	ErrTranslationConcurrencyInvalid = runtimeconfig.ErrTranslationConcurrencyInvalid
	ErrMarkdownContentDirRequired    = runtimeconfig.ErrMarkdownContentDirRequired
	ErrLoggingProviderRequired       = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown        = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid           = runtimeconfig.ErrLoggingLevelInvalid
)

type (
	Config            = runtimeconfig.Config
	StorageConfig     = runtimeconfig.StorageConfig
	TranslationConfig = runtimeconfig.TranslationConfig
	CacheConfig       = runtimeconfig.CacheConfig
	MarkdownConfig    = runtimeconfig.MarkdownConfig
	LoggingConfig     = runtimeconfig.LoggingConfig
	Features          = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
