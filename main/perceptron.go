package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var flags *pflag.FlagSet

var (
	cfgPathFlag       string
	inputFlag         string
	outputFlag        string
	positiveClassFlag string
	shuffleSeedFlag   int64
)

func init() {
	resetFlags()
}

// Explicitly define a method to facilitate tests
func resetFlags() {
	flags = &pflag.FlagSet{}

	flags.StringVarP(&cfgPathFlag, "config", "c", "",
		"config file, default perceptron_config.yaml under $PERCEPTRON_CFG_PATH")
	flags.StringVarP(&inputFlag, "input", "i", "",
		"raw iris csv to standardize")
	flags.StringVarP(&outputFlag, "output", "o", "",
		"standardized output file, stdout if empty")
	flags.StringVar(&positiveClassFlag, "positive-class", "Iris-setosa",
		"class name labeled 1.0, every other class is 0.0")
	flags.Int64Var(&shuffleSeedFlag, "shuffle-seed", 0,
		"permute rows with this seed before writing, 0 keeps file order")
}

func attachFlags(cmd *cobra.Command, names []string) {
	cmdFlags := cmd.Flags()
	for _, name := range names {
		if flag := flags.Lookup(name); flag != nil {
			cmdFlags.AddFlag(flag)
		} else {
			panic(fmt.Errorf("Could not find flag '%s' to attach to command '%s'", name, cmd.Name()))
		}
	}
}

func newMainCmd() *cobra.Command {
	mainCmd := &cobra.Command{
		Use:          "perceptron",
		Short:        "delta rule perceptron for the iris dataset",
		SilenceUsage: true,
	}
	mainCmd.AddCommand(trainCMD())
	mainCmd.AddCommand(standardizeCMD())
	mainCmd.AddCommand(configCMD())
	return mainCmd
}

func main() {
	if newMainCmd().Execute() != nil {
		os.Exit(1)
	}
}
