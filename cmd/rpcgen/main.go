// rpcgen compiles endpoint declarations into a names file and a typed
// subscriber surface.
package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/chazu/rpcgen/pkg/config"
)

const versionStr = "0.1.0"

// globalState holds everything the commands touch outside the process, so
// tests can swap in an in-memory filesystem and buffers.
type globalState struct {
	fs     afero.Fs
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	env    map[string]string
	logger *logrus.Logger
}

func newGlobalState(fs afero.Fs, stdin io.Reader, stdout, stderr io.Writer, env map[string]string) *globalState {
	return &globalState{
		fs:     fs,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		env:    env,
		logger: &logrus.Logger{
			Out:       stderr,
			Formatter: new(logrus.TextFormatter),
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.InfoLevel,
		},
	}
}

// execute runs the root command with args and returns the exit status.
func execute(gs *globalState, args []string) int {
	cmd := newRootCommand(gs)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		gs.logger.Error(err)
		return 1
	}
	return 0
}

func main() {
	gs := newGlobalState(afero.NewOsFs(), os.Stdin, os.Stdout, os.Stderr, config.EnvMap(os.Environ()))
	os.Exit(execute(gs, os.Args[1:]))
}
