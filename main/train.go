package main

import (
	"log"

	"github.com/spf13/cobra"

	"perceptron/core/config"
	"perceptron/node"
)

func train(cmd *cobra.Command) error {
	lc, err := config.InitLocalConfig(cmd)
	if err != nil {
		return err
	}

	log.Printf("train on %s for %d epochs", lc.Dataset.Path, lc.Training.Epochs)

	nodeInstance := node.TrainerNode{}
	if err := nodeInstance.Init(lc, cmd.OutOrStdout()); err != nil {
		return err
	}
	defer nodeInstance.Close()

	_, err = nodeInstance.Start()
	return err
}

func trainCMD() *cobra.Command {
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "train and evaluate the perceptron",
		Long:  "alternate evaluation on the test set and one online training pass over the training set for a fixed number of epochs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return train(cmd)
		},
	}
	flagList := []string{
		"config",
	}
	attachFlags(trainCmd, flagList)
	return trainCmd
}
