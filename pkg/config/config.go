// Package config consolidates compiler settings from defaults, a JSON config
// file, the environment and command-line flags, in increasing precedence.
package config

import (
	"encoding/json"
	"strings"

	"github.com/juju/errors"
	"github.com/mstoykov/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	null "gopkg.in/guregu/null.v3"

	"github.com/chazu/rpcgen/pkg/codegen"
	"github.com/chazu/rpcgen/pkg/compiler"
	"github.com/chazu/rpcgen/pkg/decl"
	"github.com/chazu/rpcgen/pkg/resolve"
	"github.com/chazu/rpcgen/pkg/scan"
)

// Config is the full set of compiler settings. Only valid fields take part
// in Apply.
type Config struct {
	Package         null.String `json:"package" envconfig:"RPCGEN_PACKAGE"`
	NamesPackage    null.String `json:"namesPackage" envconfig:"RPCGEN_NAMES_PACKAGE"`
	Root            null.String `json:"root" envconfig:"RPCGEN_ROOT"`
	RuntimePath     null.String `json:"runtimePath" envconfig:"RPCGEN_RUNTIME_PATH"`
	CallbackType    null.String `json:"callbackType" envconfig:"RPCGEN_CALLBACK_TYPE"`
	Output          null.String `json:"output" envconfig:"RPCGEN_OUTPUT"`
	NamesFile       null.String `json:"namesFile" envconfig:"RPCGEN_NAMES_FILE"`
	SubscribersFile null.String `json:"subscribersFile" envconfig:"RPCGEN_SUBSCRIBERS_FILE"`
	SourcePackage   null.String `json:"sourcePackage" envconfig:"RPCGEN_SOURCE_PACKAGE"`
	Strict          null.Bool   `json:"strict" envconfig:"RPCGEN_STRICT"`
	LogLevel        null.String `json:"logLevel" envconfig:"RPCGEN_LOG_LEVEL"`
}

// NewConfig returns the defaults.
func NewConfig() Config {
	return Config{
		Root:            null.NewString(codegen.DefaultRoot, false),
		Output:          null.NewString(".", false),
		NamesFile:       null.NewString(codegen.DefaultNamesFile, false),
		SubscribersFile: null.NewString(codegen.DefaultSubscribersFile, false),
		Strict:          null.NewBool(false, false),
		LogLevel:        null.NewString(logrus.InfoLevel.String(), false),
	}
}

// Apply returns c with every valid field of cfg copied over.
func (c Config) Apply(cfg Config) Config {
	if cfg.Package.Valid {
		c.Package = cfg.Package
	}
	if cfg.NamesPackage.Valid {
		c.NamesPackage = cfg.NamesPackage
	}
	if cfg.Root.Valid {
		c.Root = cfg.Root
	}
	if cfg.RuntimePath.Valid {
		c.RuntimePath = cfg.RuntimePath
	}
	if cfg.CallbackType.Valid {
		c.CallbackType = cfg.CallbackType
	}
	if cfg.Output.Valid {
		c.Output = cfg.Output
	}
	if cfg.NamesFile.Valid {
		c.NamesFile = cfg.NamesFile
	}
	if cfg.SubscribersFile.Valid {
		c.SubscribersFile = cfg.SubscribersFile
	}
	if cfg.SourcePackage.Valid {
		c.SourcePackage = cfg.SourcePackage
	}
	if cfg.Strict.Valid {
		c.Strict = cfg.Strict
	}
	if cfg.LogLevel.Valid {
		c.LogLevel = cfg.LogLevel
	}
	return c
}

// ReadFile reads a JSON config file from fs.
func ReadFile(fs afero.Fs, path string) (Config, error) {
	var cfg Config
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return cfg, errors.Annotatef(err, "reading config %s", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Annotatef(err, "parsing config %s", path)
	}
	return cfg, nil
}

// FromEnv reads the RPCGEN_* variables of env.
func FromEnv(env map[string]string) (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}); err != nil {
		return cfg, errors.Annotate(err, "reading environment")
	}
	return cfg, nil
}

// EnvMap turns KEY=value pairs, as returned by os.Environ, into a map.
func EnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// FlagSet returns the flags that map onto Config fields.
func FlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringP("package", "p", "", "package clause of the subscribers file")
	flags.String("names-package", "", "package clause of the names file (default: --package, then \""+codegen.DefaultNamesPackage+"\")")
	flags.String("root", codegen.DefaultRoot, "name of the root subscriber type")
	flags.String("runtime-path", "", "import path of the rpc runtime used by generated code")
	flags.String("callback-type", "", "request callback type whose type argument names the result type")
	flags.StringP("output", "o", ".", "output directory")
	flags.String("names-file", codegen.DefaultNamesFile, "file name of the names artifact")
	flags.String("subscribers-file", codegen.DefaultSubscribersFile, "file name of the subscribers artifact")
	flags.String("source-package", "", "import path of the scanned Go package")
	flags.Bool("strict", false, "treat warnings as errors")
	flags.String("log-level", logrus.InfoLevel.String(), "log level (debug, info, warn, error)")
	return flags
}

// FromFlags reads the flags of FlagSet. Only flags that were set on the
// command line are valid.
func FromFlags(flags *pflag.FlagSet) (Config, error) {
	var cfg Config
	var err error
	str := func(name string) null.String {
		if err != nil {
			return null.String{}
		}
		var v string
		v, err = flags.GetString(name)
		return null.NewString(v, flags.Changed(name))
	}
	cfg.Package = str("package")
	cfg.NamesPackage = str("names-package")
	cfg.Root = str("root")
	cfg.RuntimePath = str("runtime-path")
	cfg.CallbackType = str("callback-type")
	cfg.Output = str("output")
	cfg.NamesFile = str("names-file")
	cfg.SubscribersFile = str("subscribers-file")
	cfg.SourcePackage = str("source-package")
	cfg.LogLevel = str("log-level")
	if err != nil {
		return Config{}, errors.Trace(err)
	}

	strict, err := flags.GetBool("strict")
	if err != nil {
		return Config{}, errors.Trace(err)
	}
	cfg.Strict = null.NewBool(strict, flags.Changed("strict"))
	return cfg, nil
}

// Consolidate layers the configs from lowest to highest precedence.
func Consolidate(defaults, file, env, flags Config) Config {
	return defaults.Apply(file).Apply(env).Apply(flags)
}

// Validate checks the fields that have a fixed syntax.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel.String); err != nil {
		return errors.NewNotValid(err, "log level")
	}
	if c.CallbackType.String != "" {
		if _, err := decl.ParseType(c.CallbackType.String); err != nil {
			return errors.NewNotValid(err, "callback type")
		}
	}
	return nil
}

// Level returns the configured log level, info if it does not parse.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel.String)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Options converts c into compiler options. c should be validated first.
func (c Config) Options() compiler.Options {
	opts := compiler.Options{
		Output: c.Output.String,
		Codegen: codegen.Options{
			Package:         c.Package.String,
			NamesPackage:    c.NamesPackage.String,
			Root:            c.Root.String,
			RuntimePath:     c.RuntimePath.String,
			NamesFile:       c.NamesFile.String,
			SubscribersFile: c.SubscribersFile.String,
		},
		Scan: scan.Options{SourcePackage: c.SourcePackage.String},
	}
	if c.CallbackType.String != "" {
		if t, err := decl.ParseType(c.CallbackType.String); err == nil {
			opts.Resolve = resolve.Options{CallbackType: t}
		}
	}
	return opts
}
