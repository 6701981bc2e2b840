package cli

import (
	"fmt"

	"github.com/llehouerou/crateq/internal/errmsg"
)

func (a *app) runTracks(args []string) error {
	fs := a.newFlagSet("tracks")
	limit := fs.Int("limit", a.search.Limit, "maximum number of tracks printed (0: all)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageError("unexpected argument %q", fs.Arg(0))
	}

	tracks, err := a.state.Library().All()
	if err != nil {
		return fail(errmsg.OpLibraryLoad, "", err)
	}
	a.printTracks(tracks, *limit)
	return nil
}

func (a *app) runCrates(args []string) error {
	if len(args) > 0 {
		return usageError("unexpected argument %q", args[0])
	}

	summaries, err := a.state.Crates().Summaries()
	if err != nil {
		return fail(errmsg.OpCrateLoad, "", err)
	}

	t := newTable(
		column{title: "ID", align: alignRight},
		column{title: "NAME", maxWidth: 40},
		column{title: "TRACKS", align: alignRight},
		column{title: "TIME", align: alignRight},
		column{title: "FLAGS"},
	)
	tracks := 0
	for _, s := range summaries {
		flags := ""
		if s.Locked {
			flags = "locked"
		}
		if s.AutoDJSource {
			if flags != "" {
				flags += ","
			}
			flags += "auto-dj"
		}
		t.add(
			fmt.Sprint(s.ID),
			s.Name,
			fmt.Sprint(s.TrackCount),
			formatDuration(s.TrackDuration),
			flags,
		)
		tracks += s.TrackCount
	}
	t.render(a.stdout, a.theme)
	fmt.Fprintln(a.stdout, a.theme.muted.Render(
		plural(len(summaries), "crate")+", "+plural(tracks, "membership")))
	return nil
}
