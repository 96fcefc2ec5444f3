package config

import (
	"errors"
	"fmt"
	"os"

	"battlemap-engine/internal/fog"
	"battlemap-engine/internal/grid"
	"battlemap-engine/internal/room"
	"battlemap-engine/pkg/logger"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath - переменная окружения с путём к файлу конфигурации
const EnvConfigPath = "MAPGEOM_CONFIG"

// Log - настройки логгера
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Storage - где лежат журналы фигур тумана
type Storage struct {
	Dir string `yaml:"dir"`
	// FogLog - имя файла журнала внутри Dir
	FogLog string `yaml:"fog_log"`
}

// Config хранит параметры запуска движка (mapgeom.yaml)
type Config struct {
	Log     Log          `yaml:"log"`
	Grid    grid.Config  `yaml:"grid"`
	Fog     fog.Policy   `yaml:"fog"`
	Room    room.Options `yaml:"room"`
	Storage Storage      `yaml:"storage"`
}

// Default создает конфиг по умолчанию
func Default() Config {
	return Config{
		Log: Log{Level: "info", Format: "text"},
		Grid: grid.Config{
			Kind:     grid.KindSquare,
			CellSize: 50,
		},
		Room: room.DefaultOptions(),
		Storage: Storage{
			Dir:    "./data",
			FogLog: "fog.fogl",
		},
	}
}

// Load читает YAML поверх значений по умолчанию.
// Пустой path - берём MAPGEOM_CONFIG; если и он пуст, возвращаем Default.
// Отсутствующий файл, заданный через переменную окружения, не считается ошибкой.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate проверяет значения, которые движок не умеет исправить сам
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if c.Room.Resolution < 0 {
		return fmt.Errorf("room.resolution must not be negative, got %v", c.Room.Resolution)
	}
	return nil
}

// LoggerOptions - настройки для logger.Init
func (c Config) LoggerOptions() logger.Options {
	return logger.Options{Level: c.Log.Level, Format: c.Log.Format}
}
