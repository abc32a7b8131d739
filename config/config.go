// Package config loads the preprocessing configuration from a YAML file, environment
// variables (prefixed with CONLL_) and defaults.
package config

import (
	"strings"

	"github.com/gomlx/go-conll/internal/files"
	"github.com/gomlx/go-conll/sequence"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix of the environment variables read, e.g. CONLL_SEQUENCE_MAX_LENGTH.
const EnvPrefix = "CONLL"

// Config stores all configuration of the preprocessing pipeline.
type Config struct {
	Corpus     CorpusConfig     `mapstructure:"corpus"`
	Embeddings EmbeddingsConfig `mapstructure:"embeddings"`
	Sequence   SequenceConfig   `mapstructure:"sequence"`
	Hub        HubConfig        `mapstructure:"hub"`
	Output     OutputConfig     `mapstructure:"output"`
}

// CorpusConfig points to the CoNLL files of each split. Only Train is required.
//
// If Hub.Repo is set, the paths are file names inside that repository.
type CorpusConfig struct {
	Train      string `mapstructure:"train"`
	Validation string `mapstructure:"validation"`
	Test       string `mapstructure:"test"`

	KeepDocStart bool `mapstructure:"keep_doc_start"`
}

// EmbeddingsConfig points to the pretrained vector table. Empty Path disables it.
type EmbeddingsConfig struct {
	Path string `mapstructure:"path"`

	// VocabularyOnly keeps only the vectors of vocabulary words in memory.
	VocabularyOnly bool `mapstructure:"vocabulary_only"`
}

// SequenceConfig sets the fixed length and the padding and truncation sides.
type SequenceConfig struct {
	MaxLength  int    `mapstructure:"max_length"`
	Padding    string `mapstructure:"padding"`
	Truncating string `mapstructure:"truncating"`
}

// HubConfig configures downloading the corpus and vectors from HuggingFace Hub.
type HubConfig struct {
	// Repo id, e.g. "owner/conll2003". Empty means corpus and vector paths are local files.
	Repo     string `mapstructure:"repo"`
	Type     string `mapstructure:"type"`
	Revision string `mapstructure:"revision"`
	CacheDir string `mapstructure:"cache_dir"`
	Token    string `mapstructure:"token"`

	// EmbeddingsRepo, if set, is where Embeddings.Path is downloaded from instead of Repo.
	EmbeddingsRepo string `mapstructure:"embeddings_repo"`

	MaxParallel int `mapstructure:"max_parallel"`
}

// OutputConfig says where results are written. Empty paths disable the output.
type OutputConfig struct {
	Vocabulary string `mapstructure:"vocabulary"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("corpus.train", "")
	v.SetDefault("corpus.validation", "")
	v.SetDefault("corpus.test", "")
	v.SetDefault("corpus.keep_doc_start", false)

	v.SetDefault("embeddings.path", "")
	v.SetDefault("embeddings.vocabulary_only", true)

	v.SetDefault("sequence.max_length", sequence.DefaultMaxLength)
	v.SetDefault("sequence.padding", string(sequence.Pre))
	v.SetDefault("sequence.truncating", string(sequence.Pre))

	v.SetDefault("hub.repo", "")
	v.SetDefault("hub.type", "datasets")
	v.SetDefault("hub.revision", "main")
	v.SetDefault("hub.cache_dir", "")
	v.SetDefault("hub.token", "")
	v.SetDefault("hub.embeddings_repo", "")
	v.SetDefault("hub.max_parallel", 4)

	v.SetDefault("output.vocabulary", "")
}

// Load reads the configuration. If configPath is empty, it looks for "conll.yaml" in the
// current directory and uses only defaults and environment if there is none.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("conll")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to decode configuration")
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if _, err := cfg.SequenceOptions(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandPaths resolves "~" and environment variables in local paths.
func (c *Config) expandPaths() error {
	paths := []*string{&c.Hub.CacheDir, &c.Output.Vocabulary}
	if c.Hub.Repo == "" {
		paths = append(paths, &c.Corpus.Train, &c.Corpus.Validation, &c.Corpus.Test)
	}
	if c.Hub.Repo == "" && c.Hub.EmbeddingsRepo == "" {
		paths = append(paths, &c.Embeddings.Path)
	}
	for _, p := range paths {
		expanded, err := files.ExpandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// SequenceOptions returns the validated padding options.
func (c *Config) SequenceOptions() (sequence.Options, error) {
	var opts sequence.Options
	padding, err := sequence.ParseSide(c.Sequence.Padding)
	if err != nil {
		return opts, errors.WithMessage(err, "sequence.padding")
	}
	truncating, err := sequence.ParseSide(c.Sequence.Truncating)
	if err != nil {
		return opts, errors.WithMessage(err, "sequence.truncating")
	}
	opts = sequence.Options{MaxLength: c.Sequence.MaxLength, Padding: padding, Truncating: truncating}
	if err = opts.Validate(); err != nil {
		return opts, errors.WithMessage(err, "sequence")
	}
	return opts, nil
}
