package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/yhkim82/clearparser-sub000/alg/linear"
	"github.com/yhkim82/clearparser-sub000/alg/linear/model"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var trainConfigFile string

// TrainInstances fits a one-vs-all model on an instance file.
func TrainInstances(ctx context.Context, trainer linear.Trainer, filename string) (*model.OvAModel, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	problem, err := linear.ReadInstances(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if allOut {
		log.Println("Read", len(problem.Instances), "instances,", problem.Labels, "labels,", problem.Features, "features from", filename)
	}
	return train(ctx, trainer, problem, 0, 0)
}

func writeModel(m *model.OvAModel, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := m.Write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func Train(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"i", "m"}); err != nil {
		return err
	}
	configFile = locate(trainConfigFile)
	config, err := LoadTrainerConfigFile(configFile)
	if err != nil {
		return err
	}
	trainer, err := config.Trainer()
	if err != nil {
		return err
	}
	if allOut {
		log.Printf("Config File:\t\t%s", configFile)
		log.Printf("Algorithm:\t\t%s", config.Algorithm.Name)
		log.Printf("Threads:\t\t%d", trainer.NumThreads)
	}
	m, err := TrainInstances(context.Background(), trainer, instFile)
	if err != nil {
		return err
	}
	if err := writeModel(m, modelFile); err != nil {
		return err
	}
	if allOut {
		log.Println("Wrote model to", modelFile)
	}
	return nil
}

func TrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Train,
		UsageLine: "train <file options> [arguments]",
		Short:     "trains a one-vs-all model on an instance file",
		Long: `
trains a one-vs-all linear model on instances written by deptrain -i,
one "label feature feature ..." line per instance

	$ ./clearparser train -i <instances> -m <model.gz> [-c <trainer config>]

`,
		Flag: *flag.NewFlagSet("train", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&instFile, "i", "", "Instance file")
	cmd.Flag.StringVar(&modelFile, "m", "", "Output model file (gzip)")
	cmd.Flag.StringVar(&trainConfigFile, "c", "dep.trainer.yaml", "Trainer Configuration File")
	return cmd
}
