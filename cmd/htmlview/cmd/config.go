package cmd

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/htmlview/cmd/htmlview/internal/config"
	"github.com/go-drift/htmlview/pkg/blockengine"
)

func init() {
	RegisterCommand(&Command{
		Name:  "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration used by render, with defaults filled in.

Settings are read from htmlview.yaml in the config directory when the file
exists. Unknown keys, negative sizes, unparsable colors and engine version
pins that the linked engine cannot satisfy are reported as errors.`,
		Usage: "htmlview config",
		Run:   runConfig,
	})
}

func runConfig(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q\n\nUsage: htmlview config", args[0])
	}
	cfg, err := config.Resolve(global.configDir, blockengine.Version)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg.Effective())
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = stdout.Write(out)
	return err
}
