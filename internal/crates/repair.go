package crates

import (
	"log/slog"
)

type repairStep struct {
	query string
	msg   string
}

var repairSteps = []repairStep{
	{
		query: `DELETE FROM crates WHERE name IS NULL OR TRIM(name) = ''`,
		msg:   "deleted crates with empty names",
	},
	{
		query: `UPDATE crates SET locked = 0 WHERE locked NOT IN (0, 1)`,
		msg:   "fixed invalid locked flags",
	},
	{
		query: `UPDATE crates SET autodj_source = 0 WHERE autodj_source NOT IN (0, 1)`,
		msg:   "fixed invalid auto-DJ flags",
	},
	{
		query: `DELETE FROM crate_tracks WHERE crate_id NOT IN (SELECT id FROM crates)`,
		msg:   "deleted memberships of missing crates",
	},
	{
		query: `DELETE FROM crate_tracks WHERE track_id NOT IN (SELECT id FROM library_tracks)`,
		msg:   "deleted memberships of missing tracks",
	},
}

// Repair fixes inconsistent crate rows left by older or foreign writers.
// It returns the total number of rows fixed.
func (s *Storage) Repair() (int, error) {
	var total int
	for _, step := range repairSteps {
		res, err := s.db.Exec(step.query)
		if err != nil {
			return total, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		if n > 0 {
			slog.Warn("crate repair: "+step.msg, "rows", n)
			total += int(n)
		}
	}
	return total, nil
}
