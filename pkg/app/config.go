// Copyright 2025 The Autopeer Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package app

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"

	"github.com/autopeer-io/roadsense/pkg/log"
)

const (
	configFlagName = "config"
	envPrefix      = "ROADSENSE"
)

var cfgFile string

func addConfigFlag(basename string, fs *pflag.FlagSet) {
	fs.StringVarP(&cfgFile, configFlagName, "c", cfgFile,
		fmt.Sprintf("Read configuration from the specified YAML file (e.g. /etc/roadsense/%s.yaml).", basename))
}

func (a *App) readConfig() error {
	a.viper.SetEnvPrefix(envPrefix)
	a.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.viper.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}

	a.viper.SetConfigFile(cfgFile)
	a.viper.SetConfigType("yaml")
	if err := a.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", cfgFile, err)
	}
	return nil
}

func (a *App) watchConfig() {
	a.viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		log.Info("Configuration file changed", "file", e.Name)
		a.onReload()
	})
	a.viper.WatchConfig()
}
