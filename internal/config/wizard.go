package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"

	"github.com/longkt99/scribe/internal/governance"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .scribe.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to scribe! Let's configure your workspace.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Model.
	modelPrompt := promptui.Prompt{
		Label:   "OpenAI model",
		Default: cfg.Model,
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}
	cfg.Model = model

	// 2. Default role. Empty keeps governance off for solo use.
	rolePrompt := promptui.Select{
		Label: "Default role (solo = no governance)",
		Items: []string{"solo", "admin", "editor", "junior", "client", "viewer"},
	}
	_, roleStr, err := rolePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("role selection: %w", err)
	}
	if roleStr != "solo" {
		cfg.DefaultRole = string(governance.Role(roleStr))
	}

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("port must be within 1-65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running scribe run.\n", envVar)
	}

	configPath := ".scribe.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
