package cli

import (
	"fmt"
	"strconv"

	"github.com/llehouerou/crateq/internal/crates"
	"github.com/llehouerou/crateq/internal/errmsg"
	"github.com/llehouerou/crateq/internal/library"
)

func (a *app) runCrate(args []string) error {
	if len(args) == 0 {
		return usageError("missing crate command")
	}
	sub, args := args[0], args[1:]

	switch sub {
	case "create":
		return a.crateCreate(args)
	case "rename":
		return a.crateRename(args)
	case "delete":
		return a.crateDelete(args)
	case "lock":
		return a.crateSetLocked(args, true)
	case "unlock":
		return a.crateSetLocked(args, false)
	case "autodj":
		return a.crateAutoDJ(args)
	case "add":
		return a.crateAddTracks(args)
	case "remove":
		return a.crateRemoveTracks(args)
	case "tracks":
		return a.crateTracks(args)
	case "repair":
		return a.crateRepair(args)
	default:
		return usageError("unknown crate command %q", sub)
	}
}

func wantArgs(args []string, n int, names string) error {
	if len(args) != n {
		return usageError("expected %s", names)
	}
	return nil
}

// crateByName resolves a crate from its exact name.
func (a *app) crateByName(op errmsg.Op, name string) (*crates.Crate, error) {
	c, err := a.state.Crates().GetByName(name)
	if err != nil {
		return nil, fail(op, name, err)
	}
	return c, nil
}

func (a *app) crateCreate(args []string) error {
	if err := wantArgs(args, 1, "NAME"); err != nil {
		return err
	}
	id, err := a.state.Crates().Create(args[0])
	if err != nil {
		return fail(errmsg.OpCrateCreate, args[0], err)
	}
	fmt.Fprintln(a.stdout, a.theme.success.Render(fmt.Sprintf("created crate %d %q", id, args[0])))
	return nil
}

func (a *app) crateRename(args []string) error {
	if err := wantArgs(args, 2, "NAME NEW_NAME"); err != nil {
		return err
	}
	c, err := a.crateByName(errmsg.OpCrateRename, args[0])
	if err != nil {
		return err
	}
	if err := a.state.Crates().Rename(c.ID, args[1]); err != nil {
		return fail(errmsg.OpCrateRename, c.Name, err)
	}
	fmt.Fprintln(a.stdout, a.theme.success.Render(fmt.Sprintf("renamed %q to %q", c.Name, args[1])))
	return nil
}

func (a *app) crateDelete(args []string) error {
	if err := wantArgs(args, 1, "NAME"); err != nil {
		return err
	}
	c, err := a.crateByName(errmsg.OpCrateDelete, args[0])
	if err != nil {
		return err
	}
	if err := a.state.Crates().Delete(c.ID); err != nil {
		return fail(errmsg.OpCrateDelete, c.Name, err)
	}
	fmt.Fprintln(a.stdout, a.theme.success.Render(fmt.Sprintf("deleted crate %q", c.Name)))
	return nil
}

func (a *app) crateSetLocked(args []string, locked bool) error {
	if err := wantArgs(args, 1, "NAME"); err != nil {
		return err
	}
	c, err := a.crateByName(errmsg.OpCrateLock, args[0])
	if err != nil {
		return err
	}
	if err := a.state.Crates().SetLocked(c.ID, locked); err != nil {
		return fail(errmsg.OpCrateLock, c.Name, err)
	}
	state := "unlocked"
	if locked {
		state = "locked"
	}
	fmt.Fprintln(a.stdout, a.theme.success.Render(fmt.Sprintf("%s crate %q", state, c.Name)))
	return nil
}

func (a *app) crateAutoDJ(args []string) error {
	if err := wantArgs(args, 2, "NAME on|off"); err != nil {
		return err
	}
	var source bool
	switch args[1] {
	case "on":
		source = true
	case "off":
	default:
		return usageError("expected on or off, got %q", args[1])
	}

	c, err := a.crateByName(errmsg.OpCrateAutoDJ, args[0])
	if err != nil {
		return err
	}
	if err := a.state.Crates().SetAutoDJSource(c.ID, source); err != nil {
		return fail(errmsg.OpCrateAutoDJ, c.Name, err)
	}
	fmt.Fprintln(a.stdout, a.theme.success.Render(fmt.Sprintf("auto-DJ source %s for %q", args[1], c.Name)))
	return nil
}

func parseTrackIDs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, usageError("expected NAME TRACK_ID...")
	}
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, usageError("invalid track id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (a *app) crateAddTracks(args []string) error {
	if len(args) == 0 {
		return usageError("expected NAME TRACK_ID...")
	}
	ids, err := parseTrackIDs(args[1:])
	if err != nil {
		return err
	}
	c, err := a.crateByName(errmsg.OpCrateAddTrack, args[0])
	if err != nil {
		return err
	}
	n, err := a.state.Crates().AddTracks(c.ID, ids)
	if err != nil {
		return fail(errmsg.OpCrateAddTrack, c.Name, err)
	}
	fmt.Fprintln(a.stdout, a.theme.success.Render(fmt.Sprintf("added %s to %q", plural(n, "track"), c.Name)))
	return nil
}

func (a *app) crateRemoveTracks(args []string) error {
	if len(args) == 0 {
		return usageError("expected NAME TRACK_ID...")
	}
	ids, err := parseTrackIDs(args[1:])
	if err != nil {
		return err
	}
	c, err := a.crateByName(errmsg.OpCrateRemove, args[0])
	if err != nil {
		return err
	}
	n, err := a.state.Crates().RemoveTracks(c.ID, ids)
	if err != nil {
		return fail(errmsg.OpCrateRemove, c.Name, err)
	}
	fmt.Fprintln(a.stdout, a.theme.success.Render(fmt.Sprintf("removed %s from %q", plural(n, "track"), c.Name)))
	return nil
}

func (a *app) crateTracks(args []string) error {
	if err := wantArgs(args, 1, "NAME"); err != nil {
		return err
	}
	c, err := a.crateByName(errmsg.OpCrateMemberIDs, args[0])
	if err != nil {
		return err
	}
	ids, err := a.state.Crates().TrackIDs(c.ID)
	if err != nil {
		return fail(errmsg.OpCrateMemberIDs, c.Name, err)
	}

	lib := a.state.Library()
	tracks := make([]library.Track, 0, len(ids))
	for _, id := range ids {
		t, err := lib.Get(id)
		if err != nil {
			return fail(errmsg.OpTrackLoad, strconv.FormatInt(id, 10), err)
		}
		tracks = append(tracks, *t)
	}
	a.printTracks(tracks, 0)
	return nil
}

func (a *app) crateRepair(args []string) error {
	if len(args) > 0 {
		return usageError("unexpected argument %q", args[0])
	}
	n, err := a.state.Crates().Repair()
	if err != nil {
		return fail(errmsg.OpCrateRepair, "", err)
	}
	if n == 0 {
		fmt.Fprintln(a.stdout, a.theme.muted.Render("crates are consistent"))
		return nil
	}
	fmt.Fprintln(a.stdout, a.theme.warning.Render("repaired "+plural(n, "row")))
	return nil
}
