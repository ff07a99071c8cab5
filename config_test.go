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
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	config := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if config.DefaultLanguage != "javascript" {
		t.Errorf("DefaultLanguage = %q", config.DefaultLanguage)
	}
	if config.Prompt != "> " {
		t.Errorf("Prompt = %q", config.Prompt)
	}
	if config.ResultsRegister != "r" {
		t.Errorf("ResultsRegister = %q", config.ResultsRegister)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runepad.toml")
	content := "default_language = \"starlark\"\nprompt = \">> \"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	config := loadConfig(path)
	if config.DefaultLanguage != "starlark" {
		t.Errorf("DefaultLanguage = %q", config.DefaultLanguage)
	}
	if config.Prompt != ">> " {
		t.Errorf("Prompt = %q", config.Prompt)
	}
	if config.ResultsRegister != "r" {
		t.Errorf("unset keys should keep their defaults, got %q", config.ResultsRegister)
	}
}
