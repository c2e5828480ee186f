package helpers

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/alaaharoun/livetranslate-server/pkg/factory"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ReadYamlConfigFile parses the config file and fills in defaults.
// A missing file is fine when optional is set, every setting then has a default.
func ReadYamlConfigFile(cnfFile string, optional bool) (*config.AppConfig, error) {
	appCnf := new(config.AppConfig)

	yamlFile, err := os.ReadFile(cnfFile)
	switch {
	case err == nil:
		if err = yaml.Unmarshal(yamlFile, appCnf); err != nil {
			return nil, err
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	appCnf.RootWorkingDir = wd

	// credentials are read while building the config, so the env file goes first
	if err = LoadEnvFile(appCnf.Client.EnvFile); err != nil {
		return nil, err
	}
	return config.New(appCnf)
}

// LoadEnvFile loads variables from a dotenv file without overriding the
// ones already exported. An empty name means ".env" and may be absent.
func LoadEnvFile(name string) error {
	if name == "" {
		err := godotenv.Load()
		if err != nil && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(name)
}

func PrepareServer(ctx context.Context, appCnf *config.AppConfig) error {
	return factory.ConnectBackends(ctx, appCnf)
}
