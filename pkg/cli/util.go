/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cli

import (
	"go.uber.org/zap"

	"github.com/harvatechs/ariv/internal/config"
	"github.com/harvatechs/ariv/internal/registry"
)

func newLogger(cfg *config.Config) (*zap.SugaredLogger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(config.ZapLevel(cfg.LogLevel))
	base, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return base.Sugar(), nil
}

func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	if cfg.ModelsYAMLPath != "" {
		return registry.LoadFile(cfg.ModelsYAMLPath)
	}
	return registry.LoadDefault()
}
