package ledger

import "sort"

// Claim is one unit's ownership of a destination
type Claim struct {
	// Unit is the identity (name+version) of the claiming unit
	Unit string `yaml:"unit" json:"unit"`
	// Origin is the absolute source path the destination was copied from
	Origin string `yaml:"origin" json:"origin"`
}

// Ledger maps a destination path to its claims in install order
type Ledger map[string][]Claim

// Placement is a file a unit has just installed
type Placement struct {
	Dest   string
	Origin string
}

// Release reports the outcome of releasing one destination
type Release struct {
	Dest string
	// WasLast is true when the released claim was the most recent one,
	// meaning the file on disk came from the releasing unit
	WasLast bool
	// Remaining are the claims still held on Dest, oldest first
	Remaining []Claim
}

// New returns an empty ledger
func New() Ledger {
	return make(Ledger)
}

// Claim records that unit installed origin at dest. A previous claim by the
// same unit is dropped, so a re-install moves the claim to the end.
func (l Ledger) Claim(dest, unit, origin string) {
	claims := withoutUnit(l[dest], unit)
	l[dest] = append(claims, Claim{Unit: unit, Origin: origin})
}

// Release removes every claim held by unit and returns, per affected
// destination, whether unit was the last claimant and what remains.
// Destinations left without claims are removed.
func (l Ledger) Release(unit string) []Release {
	var releases []Release

	for _, dest := range l.ClaimedBy(unit) {
		owner, _ := l.Owner(dest)
		wasLast := owner.Unit == unit
		remaining := withoutUnit(l[dest], unit)
		if len(remaining) == 0 {
			delete(l, dest)
		} else {
			l[dest] = remaining
		}

		releases = append(releases, Release{
			Dest:      dest,
			WasLast:   wasLast,
			Remaining: append([]Claim(nil), remaining...),
		})
	}

	return releases
}

// Destinations returns the claimed destinations, sorted
func (l Ledger) Destinations() []string {
	dests := make([]string, 0, len(l))
	for dest := range l {
		dests = append(dests, dest)
	}
	sort.Strings(dests)
	return dests
}

// ClaimedBy returns the destinations unit holds a claim on, sorted
func (l Ledger) ClaimedBy(unit string) []string {
	var dests []string
	for _, dest := range l.Destinations() {
		if holds(l[dest], unit) {
			dests = append(dests, dest)
		}
	}
	return dests
}

// Owner returns the most recent claim on dest
func (l Ledger) Owner(dest string) (Claim, bool) {
	claims := l[dest]
	if len(claims) == 0 {
		return Claim{}, false
	}
	return claims[len(claims)-1], true
}

// prune drops destinations without claims
func (l Ledger) prune() {
	for dest, claims := range l {
		if len(claims) == 0 {
			delete(l, dest)
		}
	}
}

func holds(claims []Claim, unit string) bool {
	for _, c := range claims {
		if c.Unit == unit {
			return true
		}
	}
	return false
}

func withoutUnit(claims []Claim, unit string) []Claim {
	out := make([]Claim, 0, len(claims))
	for _, c := range claims {
		if c.Unit != unit {
			out = append(out, c)
		}
	}
	return out
}
