// Package bridge injects the flags produced by the nested sub-build's
// configure step into the primary build's targets.
package bridge

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Mode is the kind of invocation the bridge serves.
type Mode int

const (
	// ModeBuild injects the manifest into every target.
	ModeBuild Mode = iota
	// ModeList only enumerates targets. The sub-build may not be configured,
	// so nothing is read.
	ModeList
)

// Paths locates the sub-build output and the two nested source trees whose
// revisions are stamped into the build.
type Paths struct {
	// ManifestDir is the sub-build's binary directory holding the generated
	// cxx_flags, include_dirs and definitions files.
	ManifestDir string
	NuttX       string
	Firmware    string
}

// Bridge memoizes the sub-build manifest for the lifetime of the process.
// It implements ports.PreCompileHook.
type Bridge struct {
	reader    ports.ManifestReader
	revisions ports.RevisionReader
	paths     Paths
	mode      Mode

	mu       sync.Mutex
	manifest *domain.ExternalBuildManifest
	loads    singleflight.Group
}

// New creates a Bridge.
func New(reader ports.ManifestReader, revisions ports.RevisionReader, paths Paths, mode Mode) *Bridge {
	return &Bridge{
		reader:    reader,
		revisions: revisions,
		paths:     paths,
		mode:      mode,
	}
}

// Manifest returns the sub-build manifest, loading it on first use.
// Concurrent first callers share one load. A failed load is not cached, so
// no caller ever observes a partial manifest. A caller whose ctx ends while
// it waits gets ctx.Err() and the shared load carries on for the others.
func (b *Bridge) Manifest(ctx context.Context) (domain.ExternalBuildManifest, error) {
	if m, ok := b.cached(); ok {
		return m, nil
	}

	ch := b.loads.DoChan("manifest", func() (any, error) {
		if m, ok := b.cached(); ok {
			return m, nil
		}
		// Shared by every waiting caller, so detached from the cancellation
		// of the one that started it.
		m, err := b.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		b.mu.Lock()
		b.manifest = &m
		b.mu.Unlock()
		return m, nil
	})

	select {
	case <-ctx.Done():
		return domain.ExternalBuildManifest{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.ExternalBuildManifest{}, res.Err
		}
		return res.Val.(domain.ExternalBuildManifest).Clone(), nil
	}
}

func (b *Bridge) cached() (domain.ExternalBuildManifest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.manifest == nil {
		return domain.ExternalBuildManifest{}, false
	}
	return b.manifest.Clone(), true
}

func (b *Bridge) load(ctx context.Context) (domain.ExternalBuildManifest, error) {
	m, err := b.reader.Read(b.paths.ManifestDir)
	if err != nil {
		return domain.ExternalBuildManifest{}, err
	}

	var nuttx, firmware string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nuttx, err = b.revisions.Head(gctx, b.paths.NuttX)
		return err
	})
	g.Go(func() error {
		var err error
		firmware, err = b.revisions.Head(gctx, b.paths.Firmware)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.ExternalBuildManifest{}, zerr.Wrap(err, "failed to read sub-build revisions")
	}

	m.VersionDefines = []string{
		fmt.Sprintf("NUTTX_GIT_VERSION=%q", domain.ShortRevision(nuttx)),
		fmt.Sprintf("PX4_GIT_VERSION=%q", domain.ShortRevision(firmware)),
	}
	return m, nil
}

// PreCompile adds the manifest to target: include directories are appended,
// the manifest definitions and flags are put in front of the target's own
// compiler flags, and the version definitions are appended to its defines.
func (b *Bridge) PreCompile(ctx context.Context, target *domain.Target) error {
	if b.mode == ModeList {
		return nil
	}

	m, err := b.Manifest(ctx)
	if err != nil {
		return zerr.With(err, "target", target.Name.String())
	}

	target.Includes = append(target.Includes, m.IncludeDirs...)
	target.CXXFlags = slices.Concat(m.Definitions, m.CXXFlags, target.CXXFlags)
	target.Defines = append(target.Defines, m.VersionDefines...)
	return nil
}
