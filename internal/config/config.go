// Package config loads the analyzer's own ambient knobs: archive layout
// conventions, the default analysis timeout, and the lexicons the
// mutation classifier and validation collector use. This is
// configuration for the analyzer binary itself, never for the
// out-of-scope HTTP surface or report renderers.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every tunable the core pipeline reads at analysis time.
type Config struct {
	Archive    ArchiveConfig    `mapstructure:"archive"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Lexicon    LexiconConfig    `mapstructure:"lexicon"`
}

// ArchiveConfig describes the conventional layout the walker expects
// inside a WAR, and the suffixes it treats as class/jar entries.
type ArchiveConfig struct {
	ClassesPrefix string `mapstructure:"classes_prefix"`
	LibPrefix     string `mapstructure:"lib_prefix"`
	ClassSuffix   string `mapstructure:"class_suffix"`
	JarSuffix     string `mapstructure:"jar_suffix"`
}

// AnalysisConfig bounds one analysis run.
type AnalysisConfig struct {
	TimeoutSeconds int  `mapstructure:"timeout_seconds"`
	Concurrency    int  `mapstructure:"concurrency"`
}

// LexiconConfig holds the tunable token lists the mutation classifier
// and validation collector match against. Exposed so implementers can
// retune broad tokens ("set", "post") that risk over-reporting, without
// touching the classifier code itself.
type LexiconConfig struct {
	MutatingNames      []string `mapstructure:"mutating_names"`
	PersistenceCalls   []string `mapstructure:"persistence_calls"`
	RepositoryVerbs    []string `mapstructure:"repository_verbs"`
	RepositoryPrefixes []string `mapstructure:"repository_prefixes"`
	ServiceVerbs       []string `mapstructure:"service_verbs"`
	ServiceOperations  []string `mapstructure:"service_operations"`
	ValidationCalls    []string `mapstructure:"validation_calls"`
}

// Load reads a YAML config from path, falling back to defaults for any
// field it does not set. A missing file is not an error — it simply
// means every field takes its default.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WARSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = "warscope.yaml"
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("archive.classes_prefix", "WEB-INF/classes/")
	v.SetDefault("archive.lib_prefix", "WEB-INF/lib/")
	v.SetDefault("archive.class_suffix", ".class")
	v.SetDefault("archive.jar_suffix", ".jar")

	v.SetDefault("analysis.timeout_seconds", 300)
	v.SetDefault("analysis.concurrency", 1)

	v.SetDefault("lexicon.mutating_names", []string{
		"create", "save", "update", "modify", "edit", "delete", "remove",
		"insert", "add", "set", "put", "post", "patch", "persist", "merge",
		"store", "write", "commit", "submit", "process", "execute", "apply",
	})
	v.SetDefault("lexicon.persistence_calls", []string{
		"save", "saveall", "saveandflush", "delete", "deleteall",
		"deletebyid", "persist", "merge", "remove", "update", "flush",
		"clear", "refresh", "createquery", "createnativequery",
		"createnamedquery",
	})
	v.SetDefault("lexicon.repository_verbs", []string{
		"save", "update", "delete", "remove", "create", "insert", "modify",
		"edit",
	})
	v.SetDefault("lexicon.repository_prefixes", []string{
		"deleteallby", "removeby", "deleteby", "updateby", "saveby",
	})
	v.SetDefault("lexicon.service_verbs", []string{
		"process", "handle", "execute", "perform", "apply", "commit", "submit",
	})
	v.SetDefault("lexicon.service_operations", []string{
		"approve", "reject", "cancel", "activate", "deactivate", "enable",
		"disable", "publish", "unpublish", "archive", "restore", "validate",
		"confirm", "complete", "finalize", "authorize", "authenticate",
		"register", "enroll", "subscribe", "unsubscribe", "transfer",
		"import", "export", "sync", "migrate",
	})
	v.SetDefault("lexicon.validation_calls", []string{
		"validate", "check", "verify", "assert", "validator",
		"constraintviolation", "validationfactory",
	})
}

// normalize ensures the configured prefixes end with a slash and
// suffixes start with a dot, adding one only where it is missing, the
// way the archive walker expects to concatenate/compare them.
func (c *Config) normalize() {
	c.Archive.ClassesPrefix = ensureSuffix(c.Archive.ClassesPrefix, "/")
	c.Archive.LibPrefix = ensureSuffix(c.Archive.LibPrefix, "/")
	c.Archive.ClassSuffix = ensurePrefix(c.Archive.ClassSuffix, ".")
	c.Archive.JarSuffix = ensurePrefix(c.Archive.JarSuffix, ".")
	if c.Analysis.TimeoutSeconds <= 0 {
		c.Analysis.TimeoutSeconds = 300
	}
	if c.Analysis.Concurrency <= 0 {
		c.Analysis.Concurrency = 1
	}
}

func ensureSuffix(s, suffix string) string {
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, suffix) {
		return s
	}
	return s + suffix
}

func ensurePrefix(s, prefix string) string {
	if s == "" {
		return s
	}
	if strings.HasPrefix(s, prefix) {
		return s
	}
	return prefix + s
}
