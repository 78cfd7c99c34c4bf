package installer

import "github.com/arthur-debert/outsider/pkg/filesystem"

// PlannedCopy is one declared file with its resolved destination
type PlannedCopy struct {
	Source string
	Origin string
	Dest   string
	// Present is false when the source is missing and install would skip it
	Present bool
}

// Plan resolves every entry without copying anything or reading the ledger
func (i *Installer) Plan() ([]PlannedCopy, error) {
	plan := make([]PlannedCopy, 0, len(i.unit.Entries))
	for _, entry := range i.unit.Entries {
		dest, err := i.Destination(entry)
		if err != nil {
			return nil, err
		}
		origin := i.unit.SourcePath(entry.Source)
		plan = append(plan, PlannedCopy{
			Source:  entry.Source,
			Origin:  origin,
			Dest:    dest,
			Present: filesystem.Exists(i.fs, origin),
		})
	}
	return plan, nil
}
