package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"perceptron/common"
	"perceptron/core/ml"
	"perceptron/core/trainer"
)

const (
	EnvPrefix      = "perceptron"
	ConfigName     = "perceptron_config"
	ConfigPathEnv  = "PERCEPTRON_CFG_PATH"
	DefaultDataset = "./irisDataset/preprocessedStdSetosa.data"
)

type DatasetConfig struct {
	Path            string `mapstructure:"path" yaml:"path"`
	TrainingSetSize int    `mapstructure:"training_set_size" yaml:"training_set_size"`
	TestSetSize     int    `mapstructure:"test_set_size" yaml:"test_set_size"`
}

type PerceptronConfig struct {
	LearningRate float64   `mapstructure:"learning_rate" yaml:"learning_rate"`
	Bias         float64   `mapstructure:"bias" yaml:"bias"`
	Weights      []float64 `mapstructure:"weights" yaml:"weights"`
}

type TrainingConfig struct {
	Epochs int `mapstructure:"epochs" yaml:"epochs"`
}

type LogConfig struct {
	Path           string `mapstructure:"path" yaml:"path"`
	Level          string `mapstructure:"level" yaml:"level"`
	BriefMode      string `mapstructure:"brief_mode" yaml:"brief_mode"`
	RotationTime   int    `mapstructure:"rotation_time" yaml:"rotation_time"`
	RotationSize   int    `mapstructure:"rotation_size" yaml:"rotation_size"`
	RotationMaxAge int    `mapstructure:"rotation_max_age" yaml:"rotation_max_age"`
	ShowLine       bool   `mapstructure:"show_line" yaml:"show_line"`
	Console        bool   `mapstructure:"console" yaml:"console"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

type HistoryConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type LocalConfig struct {
	Dataset    DatasetConfig    `mapstructure:"dataset" yaml:"dataset"`
	Perceptron PerceptronConfig `mapstructure:"perceptron" yaml:"perceptron"`
	Training   TrainingConfig   `mapstructure:"training" yaml:"training"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics" yaml:"metrics"`
	History    HistoryConfig    `mapstructure:"history" yaml:"history"`
}

func setDefaults(v *viper.Viper) {
	seed := ml.DefaultWeights()

	v.SetDefault("dataset.path", DefaultDataset)
	v.SetDefault("dataset.training_set_size", 120)
	v.SetDefault("dataset.test_set_size", 30)
	v.SetDefault("perceptron.learning_rate", ml.DefaultLearningRate)
	v.SetDefault("perceptron.bias", seed.Bias)
	v.SetDefault("perceptron.weights", seed.Features[:])
	v.SetDefault("training.epochs", trainer.DefaultEpochs)
	v.SetDefault("log.path", "./perceptron.log")
	v.SetDefault("log.brief_mode", "")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.rotation_time", 24)
	v.SetDefault("log.rotation_size", 30)
	v.SetDefault("log.rotation_max_age", 7)
	v.SetDefault("log.show_line", true)
	v.SetDefault("log.console", false)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("history.path", "")
}

// InitLocalConfig reads the config file named by the command's --config flag,
// or perceptron_config.yaml under $PERCEPTRON_CFG_PATH. A missing file falls
// back to the defaults; env vars like PERCEPTRON_TRAINING_EPOCHS override both.
func InitLocalConfig(cmd *cobra.Command) (*LocalConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	altPath := os.Getenv(ConfigPathEnv)
	if altPath == "" {
		altPath = "."
	}
	v.AddConfigPath(altPath)
	v.SetConfigName(ConfigName)

	flag := cmd.Flags().Lookup("config")
	if flag == nil {
		return nil, fmt.Errorf("cmd %s has no config flag", cmd.Name())
	}
	cmdSetConfigFile := flag.Value.String()
	if cmdSetConfigFile != "" {
		v.SetConfigFile(cmdSetConfigFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cmdSetConfigFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	lc := &LocalConfig{}
	if err := v.Unmarshal(lc); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := lc.Validate(); err != nil {
		return nil, err
	}
	return lc, nil
}

func (lc *LocalConfig) Validate() error {
	if lc.Dataset.Path == "" {
		return errors.New("dataset.path is empty")
	}
	if lc.Dataset.TrainingSetSize <= 0 {
		return errors.Errorf("dataset.training_set_size must be positive, got %d", lc.Dataset.TrainingSetSize)
	}
	if lc.Dataset.TestSetSize <= 0 {
		return errors.Errorf("dataset.test_set_size must be positive, got %d", lc.Dataset.TestSetSize)
	}
	if lc.Perceptron.LearningRate <= 0 {
		return errors.Errorf("perceptron.learning_rate must be positive, got %v", lc.Perceptron.LearningRate)
	}
	if len(lc.Perceptron.Weights) != ml.FeatureNum {
		return errors.Errorf("perceptron.weights needs %d values, got %d", ml.FeatureNum, len(lc.Perceptron.Weights))
	}
	if lc.Training.Epochs <= 0 {
		return errors.Errorf("training.epochs must be positive, got %d", lc.Training.Epochs)
	}
	return nil
}

func (lc *LocalConfig) SeedWeights() ml.Weights {
	w := ml.Weights{Bias: lc.Perceptron.Bias}
	copy(w.Features[:], lc.Perceptron.Weights)
	return w
}

func (lc *LocalConfig) TrainerConfig() trainer.Config {
	return trainer.Config{
		Epochs:       lc.Training.Epochs,
		LearningRate: lc.Perceptron.LearningRate,
		Seed:         lc.SeedWeights(),
	}
}

func (lc *LocalConfig) LogConfig() *common.LogConfig {
	return &common.LogConfig{
		BriefMode:      lc.Log.BriefMode,
		LogPath:        lc.Log.Path,
		LogLevel:       common.ParseLevel(lc.Log.Level),
		RotationMaxAge: lc.Log.RotationMaxAge,
		RotationTime:   lc.Log.RotationTime,
		RotationSize:   lc.Log.RotationSize,
		ShowLine:       lc.Log.ShowLine,
		LogInConsole:   lc.Log.Console,
	}
}
