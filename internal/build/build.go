// Package build drives the compile pipeline: discover root contract sources,
// invoke the compiler, persist artifacts.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/funckit/funckit/internal/artifact"
	"github.com/funckit/funckit/internal/compiler"
	"github.com/funckit/funckit/internal/logging"
	"github.com/funckit/funckit/internal/opcode"
)

const (
	sourceExt    = ".fc"
	interfaceExt = ".tlb"

	// shared include files live here and are never compiled as roots
	importsDir = "imports"
)

type Config struct {
	// ContractsDir is scanned for root .fc sources.
	ContractsDir string
}

func NewDefaultConfig() Config {
	return Config{
		ContractsDir: "contracts",
	}
}

type Orchestrator struct {
	config   Config
	compiler compiler.Compiler
	store    *artifact.Store
	logger   logging.Logger
}

func NewOrchestrator(config Config, comp compiler.Compiler, store *artifact.Store, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		config:   config,
		compiler: comp,
		store:    store,
		logger:   logger,
	}
}

// Discover lists the root contract sources under the contracts directory.
// Files inside imports/ are shared includes, not roots; they are attached to
// every compilation unit in lexical order.
func (o *Orchestrator) Discover() ([]compiler.Source, error) {
	includes, err := listFiles(filepath.Join(o.config.ContractsDir, importsDir))
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(o.config.ContractsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read contracts directory: %w", err)
	}

	var sources []compiler.Source
	for _, entry := range entries {
		if entry.IsDir() {
			// contracts may live in per-contract subdirectories
			if entry.Name() == importsDir {
				continue
			}
			nested, err := listFiles(filepath.Join(o.config.ContractsDir, entry.Name()))
			if err != nil {
				return nil, err
			}
			for _, path := range nested {
				sources = append(sources, compiler.Source{Path: path, Includes: includes})
			}
			continue
		}
		if !strings.HasSuffix(entry.Name(), sourceExt) {
			continue
		}
		sources = append(sources, compiler.Source{
			Path:     filepath.Join(o.config.ContractsDir, entry.Name()),
			Includes: includes,
		})
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })
	return sources, nil
}

// Run compiles every discovered root contract. The first compiler diagnostic
// aborts the whole run; builds are all-or-nothing.
func (o *Orchestrator) Run(ctx context.Context) error {
	sources, err := o.Discover()
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no contract sources found in %s", o.config.ContractsDir)
	}

	for _, src := range sources {
		if err := o.buildOne(ctx, src); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) buildOne(ctx context.Context, src compiler.Source) error {
	name := src.Name()
	logger := o.logger.With().Str(logging.FieldContract, name).Logger()

	if err := o.store.Remove(name); err != nil {
		return err
	}

	o.reportOpCodes(src, logger)

	code, err := o.compiler.Compile(ctx, src)
	if err != nil {
		return fmt.Errorf("failed to compile %q: %w", name, err)
	}

	if err := o.store.Write(name, code); err != nil {
		return err
	}
	exists, err := o.store.Exists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("artifact for %q missing after write", name)
	}

	logger.Info().
		Str(logging.FieldArtifact, o.store.Path(name)).
		Int("codeSize", len(code)).
		Msg("contract compiled")
	return nil
}

// reportOpCodes prints the derived op-code pairs for operator visibility.
// A missing interface description is a warning, never an error.
func (o *Orchestrator) reportOpCodes(src compiler.Source, logger logging.Logger) {
	tlbPath := strings.TrimSuffix(src.Path, sourceExt) + interfaceExt

	text, err := os.ReadFile(tlbPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Msg("no interface description (.tlb) found, skipping op-code report")
		} else {
			logger.Warn().Err(err).Msg("failed to read interface description")
		}
		return
	}

	for _, pair := range opcode.Extract(string(text)) {
		logger.Info().
			Str(logging.FieldOpCode, pair.Name).
			Uint32("query", pair.Query).
			Uint32("response", pair.Response).
			Msgf("op %s: query=0x%08x response=0x%08x", pair.Name, pair.Query, pair.Response)
	}
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), sourceExt) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
