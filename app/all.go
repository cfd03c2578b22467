package app

import (
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var AppCommands = []func() *commander.Command{
	DepTrainCmd,
	DepDevCmd,
	DepParseCmd,
	SRLTrainCmd,
	SRLParseCmd,
	TrainCmd,
	DepEvalCmd,
}

func AllCommands() *commander.Command {
	cmd := &commander.Command{
		UsageLine: os.Args[0],
		Short:     "transition-based dependency parser and semantic role labeler",
		Flag:      *flag.NewFlagSet("app", flag.ExitOnError),
	}
	for _, newCmd := range AppCommands {
		app := newCmd()
		app.Run = NewAppWrapCommand(app.Run)
		app.Flag.IntVar(&CPUs, NUM_CPUS_FLAG, 0, "Max CPUS to use (runtime.GOMAXPROCS); 0 = all")
		cmd.Subcommands = append(cmd.Subcommands, app)
	}
	return cmd
}
