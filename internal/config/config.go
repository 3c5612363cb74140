// Package config loads the miner's runtime settings from a .env file in the
// project root, overridable by environment variables of the same name.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MinerConfig holds the settings a gpuminer driver needs to reach a
// template source and a tip-change notifier, and to size its GPU batches.
type MinerConfig struct {
	RPCAddress    string
	TipAddress    string
	RPCUser       string
	RPCPassword   string
	GPUBatchSize  uint32
	WorkgroupSize uint32 // 0 means autotune
}

var (
	minerConfig  *MinerConfig
	configLoaded bool
)

// defaultGPUBatchSize matches the factory's default lane count.
const defaultGPUBatchSize = 1 << 16

// LoadMinerConfig loads configuration from .env in the project root, then
// applies environment-variable overrides. The result is cached after the
// first call.
func LoadMinerConfig() (*MinerConfig, error) {
	if minerConfig != nil && configLoaded {
		return minerConfig, nil
	}

	cfg := &MinerConfig{GPUBatchSize: defaultGPUBatchSize}

	projectRoot := findProjectRoot()
	envPath := filepath.Join(projectRoot, ".env")

	data, err := os.ReadFile(envPath)
	if err == nil {
		parseEnvFile(string(data), cfg)
	}

	if v := os.Getenv("GPUMINER_RPC_ADDRESS"); v != "" {
		cfg.RPCAddress = v
	}
	if v := os.Getenv("GPUMINER_TIP_ADDRESS"); v != "" {
		cfg.TipAddress = v
	}
	if v := os.Getenv("GPUMINER_RPC_USER"); v != "" {
		cfg.RPCUser = v
	}
	if v := os.Getenv("GPUMINER_RPC_PASSWORD"); v != "" {
		cfg.RPCPassword = v
	}
	if v := os.Getenv("GPUMINER_BATCH_SIZE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.GPUBatchSize = uint32(n)
		}
	}
	if v := os.Getenv("GPUMINER_WORKGROUP_SIZE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.WorkgroupSize = uint32(n)
		}
	}

	minerConfig = cfg
	configLoaded = true
	return cfg, nil
}

func parseEnvFile(content string, cfg *MinerConfig) {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "GPUMINER_RPC_ADDRESS":
			cfg.RPCAddress = value
		case "GPUMINER_TIP_ADDRESS":
			cfg.TipAddress = value
		case "GPUMINER_RPC_USER":
			cfg.RPCUser = value
		case "GPUMINER_RPC_PASSWORD":
			cfg.RPCPassword = value
		case "GPUMINER_BATCH_SIZE":
			if n, err := strconv.ParseUint(value, 10, 32); err == nil {
				cfg.GPUBatchSize = uint32(n)
			}
		case "GPUMINER_WORKGROUP_SIZE":
			if n, err := strconv.ParseUint(value, 10, 32); err == nil {
				cfg.WorkgroupSize = uint32(n)
			}
		}
	}
}

func findProjectRoot() string {
	cwd, _ := os.Getwd()
	if _, err := os.Stat(filepath.Join(cwd, ".env")); err == nil {
		return cwd
	}
	for {
		if _, err := os.Stat(filepath.Join(cwd, "go.mod")); err == nil {
			return cwd
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			return cwd
		}
		cwd = parent
	}
}

// MustGetMinerConfig loads the configuration and panics if the RPC address
// required to fetch block templates is not set.
func MustGetMinerConfig() MinerConfig {
	cfg, err := LoadMinerConfig()
	if err != nil {
		panic("failed to load gpuminer configuration: " + err.Error())
	}
	if cfg.RPCAddress == "" {
		panic("GPUMINER_RPC_ADDRESS must be set in .env or the environment")
	}
	return *cfg
}
