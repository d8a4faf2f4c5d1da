// Package compiler runs the registry pipeline: load declarations, resolve
// them, build the registry, generate the artifacts and write them out.
package compiler

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/chazu/rpcgen/pkg/codegen"
	"github.com/chazu/rpcgen/pkg/decl"
	"github.com/chazu/rpcgen/pkg/diag"
	"github.com/chazu/rpcgen/pkg/manifest"
	"github.com/chazu/rpcgen/pkg/registry"
	"github.com/chazu/rpcgen/pkg/resolve"
	"github.com/chazu/rpcgen/pkg/scan"
)

// Options configures every stage of the pipeline.
type Options struct {
	Scan    scan.Options
	Resolve resolve.Options
	Codegen codegen.Options
	// Output is the directory artifacts are written to.
	Output string
}

// Output is the outcome of one compilation.
type Output struct {
	Registry    *registry.Registry
	Names       *codegen.Artifact
	Subscribers *codegen.Artifact
	// Diagnostics holds the resolver's diagnostics followed by the
	// generators'.
	Diagnostics diag.List
}

// Artifacts returns the artifacts that were produced.
func (o *Output) Artifacts() []*codegen.Artifact {
	var out []*codegen.Artifact
	for _, a := range []*codegen.Artifact{o.Names, o.Subscribers} {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

// Compiler runs the pipeline against a filesystem.
type Compiler struct {
	fs     afero.Fs
	logger logrus.FieldLogger
	opts   Options
}

// New returns a compiler reading and writing through fs.
func New(fs afero.Fs, logger logrus.FieldLogger, opts Options) *Compiler {
	return &Compiler{fs: fs, logger: logger, opts: opts}
}

// Load reads every declaration source under paths. A directory is walked
// for Go files, HCL manifests and JSON descriptor documents. Go test files
// and generated files are skipped.
func (c *Compiler) Load(paths ...string) (decl.Set, error) {
	var set decl.Set
	files, err := c.findSources(paths)
	if err != nil {
		return set, err
	}
	for _, file := range files {
		s, err := c.loadFile(file)
		if err != nil {
			return decl.Set{}, err
		}
		c.logger.WithField("file", file).WithField("declarations", s.Len()).Debug("Loaded declarations.")
		set.Merge(s)
	}
	c.logger.WithField("files", len(files)).WithField("declarations", set.Len()).Debug("Loading complete.")
	return set, nil
}

func (c *Compiler) loadFile(file string) (decl.Set, error) {
	data, err := afero.ReadFile(c.fs, file)
	if err != nil {
		return decl.Set{}, errors.Annotatef(err, "reading %s", file)
	}
	switch filepath.Ext(file) {
	case ".go":
		return scan.Source(file, data, c.opts.Scan)
	case manifest.Extension:
		return manifest.Parse(file, data)
	case ".json":
		s, err := decl.ParseFile(file, data)
		if err != nil {
			return decl.Set{}, err
		}
		return *s, nil
	}
	return decl.Set{}, errors.NotSupportedf("declaration source %s", file)
}

// findSources expands paths into a sorted, duplicate-free list of files.
func (c *Compiler) findSources(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, path := range paths {
		info, err := c.fs.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NotFoundf("declaration source %s", path)
			}
			return nil, errors.Annotatef(err, "accessing %s", path)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		err = afero.Walk(c.fs, path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if p != path && (strings.HasPrefix(info.Name(), ".") || info.Name() == "testdata") {
					return filepath.SkipDir
				}
				return nil
			}
			if isSource(info.Name()) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Annotatef(err, "walking %s", path)
		}
	}
	sort.Strings(files)
	return files, nil
}

func isSource(name string) bool {
	switch filepath.Ext(name) {
	case ".go":
		return !strings.HasSuffix(name, "_test.go") && !strings.HasSuffix(name, "_gen.go")
	case manifest.Extension, ".json":
		return true
	}
	return false
}

// Compile resolves set, builds the registry and generates the artifacts.
// When only the subscriber surface fails, the error is returned with an
// Output that still holds the names artifact.
func (c *Compiler) Compile(set decl.Set) (*Output, error) {
	endpoints, ds := resolve.Resolve(set, c.opts.Resolve)
	c.logger.WithField("endpoints", len(endpoints)).Debug("Resolved declarations.")

	reg := registry.Build(endpoints)
	c.logger.WithField("scopes", len(reg.Scopes())).WithField("entries", reg.Len()).Debug("Built registry.")

	out := &Output{Registry: reg, Diagnostics: ds}
	res, err := codegen.Generate(reg, c.opts.Codegen)
	if res != nil {
		out.Names = res.Names
		out.Subscribers = res.Subscribers
		out.Diagnostics.Append(res.Diagnostics)
	}
	if err != nil {
		return out, errors.Trace(err)
	}
	return out, nil
}

// Write stores every artifact of out in the output directory and returns
// the paths written.
func (c *Compiler) Write(out *Output) ([]string, error) {
	artifacts := out.Artifacts()
	if len(artifacts) == 0 {
		return nil, nil
	}
	dir := c.opts.Output
	if dir == "" {
		dir = "."
	}
	if err := c.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Annotatef(err, "creating %s", dir)
	}

	var written []string
	for _, a := range artifacts {
		p := filepath.Join(dir, a.Name)
		if err := afero.WriteFile(c.fs, p, a.Code, 0o644); err != nil {
			return written, errors.Annotatef(err, "writing %s", p)
		}
		c.logger.WithField("file", p).WithField("bytes", len(a.Code)).Debug("Wrote artifact.")
		written = append(written, p)
	}
	return written, nil
}
