package main

import (
	"fmt"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chazu/rpcgen/pkg/compiler"
	"github.com/chazu/rpcgen/pkg/config"
	"github.com/chazu/rpcgen/pkg/decl"
	"github.com/chazu/rpcgen/pkg/diag"
)

// configEnv names the config file when -c is not given.
const configEnv = "RPCGEN_CONFIG"

type rootCommand struct {
	gs         *globalState
	cmd        *cobra.Command
	configFile string
	dryRun     bool
}

func newRootCommand(gs *globalState) *cobra.Command {
	c := &rootCommand{gs: gs}
	c.cmd = &cobra.Command{
		Use:   "rpcgen [flags] <path>...",
		Short: "compile endpoint declarations into names and subscriber code",
		Long: `rpcgen reads endpoint declarations from Go sources (//rpc: directives),
HCL manifests and JSON descriptor documents, and writes a names file plus a
typed subscriber surface. A "-" path reads a JSON descriptor from stdin.`,
		Version:       versionStr,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.run,
	}
	c.cmd.SetIn(gs.stdin)
	c.cmd.SetOut(gs.stdout)
	c.cmd.SetErr(gs.stderr)
	c.cmd.SetVersionTemplate("rpcgen version {{.Version}}\n")

	flags := c.cmd.Flags()
	flags.SortFlags = false
	flags.AddFlagSet(config.FlagSet())
	flags.BoolVar(&c.dryRun, "dry-run", false, "report what would be written without writing it")
	flags.StringVarP(&c.configFile, "config", "c", "", "JSON config file (default: $"+configEnv+")")

	c.cmd.AddCommand(getVersionCmd(gs))
	return c.cmd
}

func (c *rootCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	logger := c.gs.logger
	logger.SetLevel(cfg.Level())

	opts := cfg.Options()
	comp := compiler.New(c.gs.fs, logger, opts)
	set, err := c.load(comp, args)
	if err != nil {
		return err
	}

	out, compileErr := comp.Compile(set)
	if out == nil {
		return compileErr
	}
	out.Diagnostics.Report(logger)

	if c.dryRun {
		for _, a := range out.Artifacts() {
			fmt.Fprintf(c.gs.stdout, "would write %s (%d bytes)\n", filepath.Join(opts.Output, a.Name), len(a.Code))
		}
	} else {
		written, err := comp.Write(out)
		if err != nil {
			return err
		}
		for _, p := range written {
			logger.WithField("file", p).Info("Generated.")
		}
	}

	if compileErr != nil {
		return compileErr
	}
	if n := out.Diagnostics.Count(diag.Error); n > 0 {
		return errors.Errorf("%d declaration error(s)", n)
	}
	if n := out.Diagnostics.Count(diag.Warning); n > 0 && cfg.Strict.Bool {
		return errors.Errorf("%d warning(s) in strict mode", n)
	}
	logger.WithFields(logrus.Fields{
		"entries": out.Registry.Len(),
		"scopes":  len(out.Registry.Scopes()),
	}).Debug("Done.")
	return nil
}

// loadConfig layers defaults, the config file, the environment and the
// command-line flags, then validates the result.
func (c *rootCommand) loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	flagConf, err := config.FromFlags(flags)
	if err != nil {
		return config.Config{}, err
	}
	envConf, err := config.FromEnv(c.gs.env)
	if err != nil {
		return config.Config{}, err
	}

	var fileConf config.Config
	path := c.configFile
	if !flags.Changed("config") {
		path = c.gs.env[configEnv]
	}
	if path != "" {
		if fileConf, err = config.ReadFile(c.gs.fs, path); err != nil {
			return config.Config{}, err
		}
	}

	cfg := config.Consolidate(config.NewConfig(), fileConf, envConf, flagConf)
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Annotate(err, "invalid configuration")
	}
	return cfg, nil
}

// load reads every path argument. A "-" reads a JSON descriptor from stdin,
// at most once.
func (c *rootCommand) load(comp *compiler.Compiler, args []string) (decl.Set, error) {
	var set decl.Set
	var paths []string
	stdinRead := false
	for _, arg := range args {
		if arg != "-" {
			paths = append(paths, arg)
			continue
		}
		if stdinRead {
			continue
		}
		stdinRead = true
		s, err := decl.Parse(c.gs.stdin)
		if err != nil {
			return decl.Set{}, errors.Annotate(err, "reading stdin")
		}
		set.Merge(*s)
	}
	if len(paths) > 0 {
		s, err := comp.Load(paths...)
		if err != nil {
			return decl.Set{}, err
		}
		set.Merge(s)
	}
	return set, nil
}
