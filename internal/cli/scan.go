package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/llehouerou/crateq/internal/errmsg"
	"github.com/llehouerou/crateq/internal/library"
)

func (a *app) runScan(args []string) error {
	fs := a.newFlagSet("scan")
	full := fs.Bool("full", false, "reread every file, ignoring modification times")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	sources := fs.Args()
	if len(sources) == 0 {
		sources = a.cfg.LibrarySources
	}
	if len(sources) == 0 {
		return usageError("no directory given and no library_sources configured")
	}
	for i, src := range sources {
		abs, err := filepath.Abs(src)
		if err != nil {
			return fail(errmsg.OpLibraryScan, src, err)
		}
		sources[i] = abs
	}

	lib := a.state.Library()
	scan := lib.Scan
	if *full {
		scan = lib.FullScan
	}

	progress := make(chan library.ScanProgress)
	done := make(chan error, 1)
	go func() {
		done <- scan(sources, progress)
	}()

	var stats *library.ScanStats
	phase := ""
	for p := range progress {
		if p.Phase != phase {
			phase = p.Phase
			slog.Debug("scan", "phase", phase)
		}
		if p.CurrentFile != "" {
			slog.Debug("scan", "file", p.CurrentFile)
		}
		if p.Stats != nil {
			stats = p.Stats
		}
	}
	if err := <-done; err != nil {
		return fail(errmsg.OpLibraryScan, "", err)
	}

	if stats != nil {
		a.printScanStats(stats)
	}
	return nil
}

func (a *app) printScanStats(stats *library.ScanStats) {
	added, updated, removed := stats.Totals()
	failed := 0
	for _, src := range stats.BySource {
		failed += len(src.Failed)
	}

	fmt.Fprintln(a.stdout, a.theme.success.Render(fmt.Sprintf(
		"%s added, %s updated, %s removed",
		plural(added, "track"), plural(updated, "track"), plural(removed, "track"))))
	if failed > 0 {
		fmt.Fprintln(a.stdout, a.theme.warning.Render(plural(failed, "unreadable file")))
	}
}
