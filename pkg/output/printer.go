package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arthur-debert/outsider/pkg/installer"
	"github.com/arthur-debert/outsider/pkg/ledger"
)

// Printer writes notifications and listings in one format. It implements
// installer.Notifier.
type Printer struct {
	w      io.Writer
	format Format
	st     styles
	enc    *json.Encoder
}

var _ installer.Notifier = (*Printer)(nil)

// New returns a Printer on w. FormatAuto is resolved against w.
func New(w io.Writer, format Format) *Printer {
	format = resolveFormat(w, format)
	return &Printer{
		w:      w,
		format: format,
		st:     newStyles(w, format),
		enc:    json.NewEncoder(w),
	}
}

// Format returns the resolved format
func (p *Printer) Format() Format {
	return p.format
}

type eventJSON struct {
	Event  string `json:"event"`
	Source string `json:"source,omitempty"`
	Dest   string `json:"dest"`
	Unit   string `json:"unit,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (p *Printer) Installed(source, dest string) {
	if p.format == FormatJSON {
		_ = p.enc.Encode(eventJSON{Event: "installed", Source: source, Dest: dest})
		return
	}
	fmt.Fprintf(p.w, "%s %s to %s\n",
		p.st.success.Render("Installed"), source, p.st.path.Render(dest))
}

func (p *Printer) Removed(dest string) {
	if p.format == FormatJSON {
		_ = p.enc.Encode(eventJSON{Event: "removed", Dest: dest})
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", p.st.success.Render("Removed"), p.st.path.Render(dest))
}

func (p *Printer) Restored(dest, unit string) {
	if p.format == FormatJSON {
		_ = p.enc.Encode(eventJSON{Event: "restored", Dest: dest, Unit: unit})
		return
	}
	fmt.Fprintf(p.w, "%s %s from %s\n",
		p.st.success.Render("Restored"), p.st.path.Render(dest), p.st.unit.Render(unit))
}

// Problems reports removals that failed or were left to another unit
func (p *Printer) Problems(removals []installer.Removal) {
	for _, rm := range removals {
		switch {
		case rm.Err != nil:
			if p.format == FormatJSON {
				_ = p.enc.Encode(eventJSON{Event: "failed", Dest: rm.Dest, Error: rm.Err.Error()})
				continue
			}
			fmt.Fprintf(p.w, "%s %s: %v\n", p.st.err.Render("Failed"), p.st.path.Render(rm.Dest), rm.Err)
		case !rm.WasLast:
			if p.format == FormatJSON {
				_ = p.enc.Encode(eventJSON{Event: "kept", Dest: rm.Dest, Unit: rm.Owner})
				continue
			}
			fmt.Fprintf(p.w, "%s %s %s\n", p.st.muted.Render("Kept"), p.st.path.Render(rm.Dest),
				p.st.muted.Render("(owned by "+rm.Owner+")"))
		}
	}
}

type planJSON struct {
	Source  string `json:"source"`
	Origin  string `json:"origin"`
	Dest    string `json:"dest"`
	Present bool   `json:"present"`
}

// Plan lists resolved destinations
func (p *Printer) Plan(identity string, userInstall bool, plan []installer.PlannedCopy) {
	if p.format == FormatJSON {
		for _, c := range plan {
			_ = p.enc.Encode(planJSON{Source: c.Source, Origin: c.Origin, Dest: c.Dest, Present: c.Present})
		}
		return
	}

	mode := "global"
	if userInstall {
		mode = "per-user"
	}
	fmt.Fprintf(p.w, "%s %s\n", p.st.heading.Render(identity), p.st.muted.Render("("+mode+" install)"))
	if len(plan) == 0 {
		fmt.Fprintln(p.w, p.st.muted.Render("  no files declared"))
		return
	}
	for _, c := range plan {
		line := fmt.Sprintf("  %s -> %s", c.Source, p.st.path.Render(c.Dest))
		if !c.Present {
			line += " " + p.st.warning.Render("(missing, skipped)")
		}
		fmt.Fprintln(p.w, line)
	}
}

type claimJSON struct {
	Dest   string         `json:"dest"`
	Claims []ledger.Claim `json:"claims"`
}

// Ledger lists every destination with its claims, oldest first. The last
// claim is the one whose file is on disk.
func (p *Printer) Ledger(path string, l ledger.Ledger) {
	if p.format == FormatJSON {
		for _, dest := range l.Destinations() {
			_ = p.enc.Encode(claimJSON{Dest: dest, Claims: l[dest]})
		}
		return
	}

	fmt.Fprintln(p.w, p.st.heading.Render(path))
	if len(l) == 0 {
		fmt.Fprintln(p.w, p.st.muted.Render("  no claims"))
		return
	}
	for _, dest := range l.Destinations() {
		fmt.Fprintf(p.w, "  %s\n", p.st.path.Render(dest))
		owner, _ := l.Owner(dest)
		for _, c := range l[dest] {
			marker := " "
			if c == owner {
				marker = "*"
			}
			fmt.Fprintf(p.w, "    %s %s %s\n", marker, p.st.unit.Render(c.Unit), p.st.muted.Render(c.Origin))
		}
	}
}

// Warn prints a warning line
func (p *Printer) Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.format == FormatJSON {
		_ = p.enc.Encode(map[string]string{"warning": msg})
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", p.st.warning.Render("Warning:"), msg)
}
