package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"perceptron/core/config"
)

func showConfig(cmd *cobra.Command) error {
	lc, err := config.InitLocalConfig(cmd)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(lc)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func configCMD() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd)
		},
	}
	flagList := []string{
		"config",
	}
	attachFlags(configCmd, flagList)
	return configCmd
}
