// Copyright 2026 GridLink
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

package server

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the server's startup settings. Values come from an optional
// YAML file pointed at by GRIDLINK_CONFIG, with environment variables taking
// precedence over the file and built-in defaults filling the rest.
type Config struct {
	Port           string   `yaml:"port"`
	StorageDir     string   `yaml:"storageDir"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

func loadConfig() Config {
	cfg := Config{
		Port:           "9494",
		StorageDir:     defaultStorageDir(),
		AllowedOrigins: []string{"*"},
	}

	if path := os.Getenv("GRIDLINK_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			srvLog.Warn("could not read config file, using defaults", map[string]interface{}{"path": path, "error": err.Error()})
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			srvLog.Warn("could not parse config file, using defaults", map[string]interface{}{"path": path, "error": err.Error()})
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.StorageDir = getEnv("GRIDLINK_STORAGE_DIR", cfg.StorageDir)
	return cfg
}

// defaultStorageDir is the per-user home for the persisted collections.
func defaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gridlink"
	}
	return filepath.Join(home, ".gridlink")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
