package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"perceptron/common"
	"perceptron/core/dataset"
)

func standardize(cmd *cobra.Command) error {
	if inputFlag == "" {
		return errors.New("input is required")
	}
	in, err := os.Open(inputFlag)
	if err != nil {
		return errors.Wrapf(err, "open %s", inputFlag)
	}
	defer in.Close()

	var out io.Writer = cmd.OutOrStdout()
	if outputFlag != "" {
		f, err := os.Create(outputFlag)
		if err != nil {
			return errors.Wrapf(err, "create %s", outputFlag)
		}
		defer f.Close()
		out = f
	}

	s := dataset.NewStandardizer(positiveClassFlag, shuffleSeedFlag, common.GetLogger(common.MODULE_DATASET))
	scale, err := s.Standardize(in, out)
	if err != nil {
		return err
	}
	cmd.PrintErrf("mean %v\nstddev %v\n", scale.Mean, scale.StdDev)
	return nil
}

func standardizeCMD() *cobra.Command {
	standardizeCmd := &cobra.Command{
		Use:   "standardize",
		Short: "standardize the raw iris csv",
		Long:  "rescale every feature of the raw iris csv to zero mean and unit variance and write the format train reads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return standardize(cmd)
		},
	}
	flagList := []string{
		"input",
		"output",
		"positive-class",
		"shuffle-seed",
	}
	attachFlags(standardizeCmd, flagList)
	return standardizeCmd
}
