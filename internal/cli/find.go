package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/llehouerou/crateq/internal/errmsg"
	"github.com/llehouerou/crateq/internal/keys"
	"github.com/llehouerou/crateq/internal/library"
	"github.com/llehouerou/crateq/internal/searchquery"
)

// textColumns are searched by -text.
var textColumns = []string{
	library.ColumnArtist,
	library.ColumnAlbumArtist,
	library.ColumnAlbum,
	library.ColumnTitle,
	library.ColumnGenre,
	library.ColumnComposer,
	library.ColumnGrouping,
	library.ColumnComment,
}

var numericColumns = map[string]bool{
	library.ColumnBpm:         true,
	library.ColumnDuration:    true,
	library.ColumnYear:        true,
	library.ColumnTrackNumber: true,
	library.ColumnBitrate:     true,
	library.ColumnPlayed:      true,
	library.ColumnTimesPlayed: true,
	library.ColumnRating:      true,
	library.ColumnKeyID:       true,
}

var stringColumns = map[string]bool{
	library.ColumnArtist:      true,
	library.ColumnTitle:       true,
	library.ColumnAlbum:       true,
	library.ColumnAlbumArtist: true,
	library.ColumnGenre:       true,
	library.ColumnComposer:    true,
	library.ColumnGrouping:    true,
	library.ColumnComment:     true,
	library.ColumnLocation:    true,
	library.ColumnFileType:    true,
	library.ColumnKey:         true,
}

var errNotAKey = errors.New("not a key")

// preloader is implemented by nodes that load data before matching.
type preloader interface {
	Preload() error
}

// query collects the filters given on the command line, in order.
type query struct {
	nodes      []searchquery.Node
	preloaders []preloader
}

func (q *query) add(n searchquery.Node) {
	q.nodes = append(q.nodes, n)
	if p, ok := n.(preloader); ok {
		q.preloaders = append(q.preloaders, p)
	}
}

// node returns the conjunction of all filters.
func (q *query) node() searchquery.Node {
	return searchquery.And(q.nodes...)
}

func (q *query) preload() error {
	for _, p := range q.preloaders {
		if err := p.Preload(); err != nil {
			return err
		}
	}
	return nil
}

// registerFilters declares one flag per leaf kind. Every occurrence adds a
// filter.
func (a *app) registerFilters(fs *flag.FlagSet, q *query) {
	text := func(name, usage string, columns []string, mode searchquery.StringMatch) {
		fs.Func(name, usage, func(s string) error {
			q.add(searchquery.NewTextFilter(columns, s, mode))
			return nil
		})
	}
	text("text", "text in any of artist, album, title, genre, composer, grouping, comment", textColumns, searchquery.Contains)
	text("artist", "text in artist", []string{library.ColumnArtist}, searchquery.Contains)
	text("title", "text in title", []string{library.ColumnTitle}, searchquery.Contains)
	text("album", "text in album", []string{library.ColumnAlbum}, searchquery.Contains)
	text("genre", "text in genre", []string{library.ColumnGenre}, searchquery.Contains)
	text("comment", "text in comment", []string{library.ColumnComment}, searchquery.Contains)
	text("exact-artist", "whole artist, case and accent insensitive", []string{library.ColumnArtist}, searchquery.Equals)

	fs.Func("empty", "`column` without a value", func(s string) error {
		switch {
		case numericColumns[s]:
			q.add(searchquery.NewNullNumericFilter([]string{s}))
		case stringColumns[s]:
			q.add(searchquery.NewNullOrEmptyTextFilter([]string{s}))
		default:
			return fmt.Errorf("unknown column %q", s)
		}
		return nil
	})
	fs.Func("num", "`column=arg` numeric comparison: 3, >=3, 2-4, or \"\" for no value", func(s string) error {
		column, arg, ok := strings.Cut(s, "=")
		if !ok || !numericColumns[column] {
			return fmt.Errorf("expected numeric column=arg, got %q", s)
		}
		switch column {
		case library.ColumnDuration:
			q.add(searchquery.NewDurationFilter([]string{column}, arg))
		case library.ColumnYear:
			q.add(searchquery.NewYearFilter(arg))
		default:
			q.add(searchquery.NewNumericFilter([]string{column}, arg))
		}
		return nil
	})
	fs.Func("duration", "duration: 3:30, 3m30s, >4m, 3m-5m", func(s string) error {
		q.add(searchquery.NewDurationFilter([]string{library.ColumnDuration}, s))
		return nil
	})
	fs.Func("year", "year: 1994, >=1990, 1990-1999", func(s string) error {
		q.add(searchquery.NewYearFilter(s))
		return nil
	})

	fs.Func("bpm", "BPM, also matching half and double tempo: 120, >=124, 120-128", func(s string) error {
		q.add(searchquery.NewBpmFilter(s, false, false))
		return nil
	})
	fs.Func("fuzzy-bpm", "BPM within the configured relative range", func(s string) error {
		q.add(searchquery.NewBpmFilter(s, true, false))
		return nil
	})
	fs.Func("not-bpm", "exclude tracks with this BPM", func(s string) error {
		q.add(searchquery.Not(searchquery.NewBpmFilter(s, false, true)))
		return nil
	})

	key := func(name, usage string, fuzzy bool) {
		fs.Func(name, usage, func(s string) error {
			k := keys.Parse(s)
			if !k.Valid() && !strings.EqualFold(s, "none") {
				return errNotAKey
			}
			q.add(searchquery.NewKeyFilter(k, fuzzy))
			return nil
		})
	}
	key("key", "key in traditional, Camelot or Open Key notation, or none", a.search.FuzzyKey)
	key("fuzzy-key", "key or a harmonically compatible one", true)

	crates := a.state.Crates()
	fs.Func("crate", "track in a crate whose name matches the LIKE `pattern`", func(s string) error {
		q.add(searchquery.NewCrateFilter(crates, s))
		return nil
	})
	fs.BoolFunc("no-crate", "track in no crate", func(string) error {
		q.add(searchquery.NewNoCrateFilter(crates))
		return nil
	})
}

func (a *app) runFind(args []string) error {
	fs := a.newFlagSet("find")
	q := &query{}
	a.registerFilters(fs, q)
	printSQL := fs.Bool("sql", false, "print the WHERE clause instead of searching")
	memory := fs.Bool("memory", false, "evaluate the filters in memory instead of in SQLite")
	check := fs.Bool("check", false, "evaluate both ways and report disagreements")
	limit := fs.Int("limit", a.search.Limit, "maximum number of tracks printed (0: all)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageError("unexpected argument %q", fs.Arg(0))
	}

	node := q.node()
	if *printSQL {
		fmt.Fprintln(a.stdout, node.ToSQL())
		return nil
	}

	switch {
	case *check:
		return a.checkSearch(q, node)
	case *memory:
		tracks, err := a.searchMemory(q, node)
		if err != nil {
			return err
		}
		a.printTracks(tracks, *limit)
	default:
		tracks, err := a.state.Library().Query(node)
		if err != nil {
			return fail(errmsg.OpSearchRun, node.ToSQL(), err)
		}
		a.printTracks(tracks, *limit)
	}
	return nil
}

func (a *app) searchMemory(q *query, node searchquery.Node) ([]library.Track, error) {
	if err := q.preload(); err != nil {
		return nil, fail(errmsg.OpCrateMemberIDs, "", err)
	}
	all, err := a.state.Library().All()
	if err != nil {
		return nil, fail(errmsg.OpLibraryLoad, "", err)
	}
	return searchquery.Filter(all, node), nil
}

// checkSearch runs the search both ways and lists the tracks selected by
// only one of them.
func (a *app) checkSearch(q *query, node searchquery.Node) error {
	inMemory, err := a.searchMemory(q, node)
	if err != nil {
		return err
	}
	inSQL, err := a.state.Library().Query(node)
	if err != nil {
		return fail(errmsg.OpSearchRun, node.ToSQL(), err)
	}

	memoryIDs := trackIDSet(inMemory)
	sqlIDs := trackIDSet(inSQL)

	var onlyMemory, onlySQL []library.Track
	for _, t := range inMemory {
		if !sqlIDs[t.ID] {
			onlyMemory = append(onlyMemory, t)
		}
	}
	for _, t := range inSQL {
		if !memoryIDs[t.ID] {
			onlySQL = append(onlySQL, t)
		}
	}

	if len(onlyMemory) == 0 && len(onlySQL) == 0 {
		fmt.Fprintln(a.stdout, a.theme.success.Render(
			"memory and SQL agree on "+plural(len(inSQL), "track")))
		return nil
	}

	fmt.Fprintln(a.stdout, a.theme.muted.Render("WHERE "+node.ToSQL()))
	if len(onlyMemory) > 0 {
		fmt.Fprintln(a.stdout, a.theme.warning.Render("only in memory:"))
		a.printTracks(onlyMemory, 0)
	}
	if len(onlySQL) > 0 {
		fmt.Fprintln(a.stdout, a.theme.warning.Render("only in SQL:"))
		a.printTracks(onlySQL, 0)
	}
	return fail(errmsg.OpSearchRun, "", fmt.Errorf(
		"%d tracks disagree", len(onlyMemory)+len(onlySQL)))
}

func trackIDSet(tracks []library.Track) map[int64]bool {
	ids := make(map[int64]bool, len(tracks))
	for _, t := range tracks {
		ids[t.ID] = true
	}
	return ids
}
