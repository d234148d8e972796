package main

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"

	"github.com/OliveiraNt/maned-bridge/cmd"
	"github.com/OliveiraNt/maned-bridge/internal/config"
	"github.com/OliveiraNt/maned-bridge/internal/infrastructure/repository"
	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

const appDir = "maned-bridge"

const initialConfig = `# maned-bridge configuration
cluster_name: mqtt-broker
placement:
  server: []
#  dial_timeout: 5s
#http:
#  port: 8080
#audit:
#  brokers: ["localhost:9092"]
#  topic: maned-bridge-audit
`

// configCandidates lists config file locations in lookup order for goos.
func configCandidates(goos, home string, getenv func(string) string) []string {
	var candidates []string
	appendCandidates := func(dir string) {
		for _, n := range []string{"config.yml", "config.yaml"} {
			candidates = append(candidates, filepath.Join(dir, n))
		}
	}

	appendCandidates(".")
	switch goos {
	case "windows":
		if appdata := getenv("APPDATA"); appdata != "" {
			appendCandidates(filepath.Join(appdata, appDir))
		}
		if home != "" {
			appendCandidates(filepath.Join(home, appDir))
		}
	default:
		if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
			appendCandidates(filepath.Join(xdg, appDir))
		}
		if home != "" {
			appendCandidates(filepath.Join(home, ".config", appDir))
		}
		appendCandidates(filepath.Join("/etc", appDir))
	}
	return candidates
}

// findConfigPath returns the first existing candidate, or seeds
// ./config.yml with a commented template.
func findConfigPath() string {
	home, _ := os.UserHomeDir()
	candidates := configCandidates(runtime.GOOS, home, os.Getenv)
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	createPath := candidates[0]
	if err := os.WriteFile(createPath, []byte(initialConfig), 0644); err != nil {
		utils.Logger.Warn("could not seed config file", "path", createPath, "err", err)
	}
	return createPath
}

func main() {
	_ = godotenv.Load()
	utils.InitLogger()

	configPath := os.Getenv(config.EnvPrefix + "CONFIG")
	if configPath == "" {
		configPath = findConfigPath()
	}

	repo := repository.NewConfigRepository(configPath)
	defer repo.Close()

	if err := repo.LoadFromFile(); err != nil {
		utils.Logger.Warn("failed to load config file", "path", configPath, "err", err)
	} else {
		utils.Logger.Info("configuration loaded", "path", configPath, "cluster", repo.Current().ClusterName)
	}

	utils.SetLogLevel(repo.Current().LogLevel)
	repo.OnChange(func(old, cur config.BrokerConfig) {
		if old.LogLevel != cur.LogLevel {
			utils.SetLogLevel(cur.LogLevel)
		}
	})
	if err := repo.Watch(); err != nil {
		utils.Logger.Fatal("failed to start config watcher", "err", err)
	}

	cmd.StartWeb(repo)
}
