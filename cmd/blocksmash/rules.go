package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective rules configuration",
	Long: `Print the rules configuration after resolution: custom path, user
config, local configs directory, or the embedded default.`,
	RunE: runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	rules, err := loadRules()
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(rules)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
