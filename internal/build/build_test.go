package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/funckit/funckit/internal/artifact"
	"github.com/funckit/funckit/internal/compiler"
	"github.com/funckit/funckit/internal/logging"
	"github.com/stretchr/testify/require"
)

type stubCompiler struct {
	compiled []string
	code     []byte
	failOn   string
}

func (c *stubCompiler) Compile(_ context.Context, src compiler.Source) ([]byte, error) {
	if src.Name() == c.failOn {
		return nil, errors.New("syntax error at line 1")
	}
	c.compiled = append(c.compiled, src.Name())
	return c.code, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestOrchestrator(t *testing.T, comp compiler.Compiler) (*Orchestrator, Config, *artifact.Store) {
	t.Helper()
	cfg := Config{
		ContractsDir: filepath.Join(t.TempDir(), "contracts"),
	}
	store := artifact.NewStore(filepath.Join(t.TempDir(), "build"))
	return NewOrchestrator(cfg, comp, store, logging.Nop()), cfg, store
}

func TestDiscoverRootsAndIncludes(t *testing.T) {
	t.Parallel()

	orch, cfg, _ := newTestOrchestrator(t, &stubCompiler{})
	writeFile(t, filepath.Join(cfg.ContractsDir, "bravo.fc"), "")
	writeFile(t, filepath.Join(cfg.ContractsDir, "alpha.fc"), "")
	writeFile(t, filepath.Join(cfg.ContractsDir, "notes.md"), "")
	writeFile(t, filepath.Join(cfg.ContractsDir, "imports", "stdlib.fc"), "")
	writeFile(t, filepath.Join(cfg.ContractsDir, "nested", "charlie.fc"), "")

	sources, err := orch.Discover()
	require.NoError(t, err)
	require.Len(t, sources, 3)
	require.Equal(t, "alpha", sources[0].Name())
	require.Equal(t, "bravo", sources[1].Name())
	require.Equal(t, "charlie", sources[2].Name())

	for _, src := range sources {
		require.Equal(t, []string{filepath.Join(cfg.ContractsDir, "imports", "stdlib.fc")}, src.Includes)
	}
}

func TestRunWritesArtifacts(t *testing.T) {
	t.Parallel()

	comp := &stubCompiler{code: []byte{0xb5, 0xee}}
	orch, cfg, store := newTestOrchestrator(t, comp)
	writeFile(t, filepath.Join(cfg.ContractsDir, "counter.fc"), "")

	require.NoError(t, orch.Run(context.Background()))

	code, err := store.Read("counter")
	require.NoError(t, err)
	require.Equal(t, []byte{0xb5, 0xee}, code)
}

func TestRunRemovesStaleArtifactFirst(t *testing.T) {
	t.Parallel()

	comp := &stubCompiler{code: []byte{0x02}, failOn: "counter"}
	orch, cfg, store := newTestOrchestrator(t, comp)
	writeFile(t, filepath.Join(cfg.ContractsDir, "counter.fc"), "")

	// stale artifact from a previous build must not survive a failed compile
	require.NoError(t, store.Write("counter", []byte{0x01}))

	require.Error(t, orch.Run(context.Background()))

	exists, err := store.Exists("counter")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestRunFailFastAbortsRemainingBuilds(t *testing.T) {
	t.Parallel()

	comp := &stubCompiler{code: []byte{0x01}, failOn: "bravo"}
	orch, cfg, store := newTestOrchestrator(t, comp)
	writeFile(t, filepath.Join(cfg.ContractsDir, "alpha.fc"), "")
	writeFile(t, filepath.Join(cfg.ContractsDir, "bravo.fc"), "")
	writeFile(t, filepath.Join(cfg.ContractsDir, "charlie.fc"), "")

	err := orch.Run(context.Background())
	require.ErrorContains(t, err, "bravo")

	// alpha built, charlie never reached
	require.Equal(t, []string{"alpha"}, comp.compiled)
	exists, err := store.Exists("charlie")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestRunEmptyContractsDirFails(t *testing.T) {
	t.Parallel()

	orch, cfg, _ := newTestOrchestrator(t, &stubCompiler{code: []byte{0x01}})
	require.NoError(t, os.MkdirAll(cfg.ContractsDir, 0o755))

	require.Error(t, orch.Run(context.Background()))
}

func TestRunReportsOpCodesWithoutEnforcing(t *testing.T) {
	t.Parallel()

	comp := &stubCompiler{code: []byte{0x01}}
	orch, cfg, _ := newTestOrchestrator(t, comp)
	writeFile(t, filepath.Join(cfg.ContractsDir, "counter.fc"), "")
	writeFile(t, filepath.Join(cfg.ContractsDir, "counter.tlb"),
		"increment query_id:uint64 = InternalMsgBody;\n")

	// presence of a .tlb file must not change the build outcome
	require.NoError(t, orch.Run(context.Background()))
	require.Equal(t, []string{"counter"}, comp.compiled)
}
