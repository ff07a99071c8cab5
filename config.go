//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/BurntSushi/toml"

	"github.com/runepad/runepad/types"
)

// Config holds the optional settings read from ~/.runepad.toml.
type Config struct {
	DefaultLanguage string `toml:"default_language"`
	Prompt          string `toml:"prompt"`
	ResultsRegister string `toml:"results_register"`
}

// loadConfig reads the named TOML file if it exists and fills in defaults.
func loadConfig(path string) Config {
	config := Config{}
	if _, err := toml.DecodeFile(path, &config); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Output(1, err.Error())
	}
	if config.DefaultLanguage == "" {
		config.DefaultLanguage = types.LanguageJavaScript
	}
	if config.Prompt == "" {
		config.Prompt = "> "
	}
	if config.ResultsRegister == "" {
		config.ResultsRegister = types.ResultsRegister
	}
	return config
}
