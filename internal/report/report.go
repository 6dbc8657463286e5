// Package report prints particle states for people and machines.
//
// Reporters receive copies of the particle list and never modify it.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/loader"
	"github.com/san-kum/gravsim/internal/nbody"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)
)

// Table writes one aligned row per particle.
func Table(w io.Writer, particles []nbody.Particle) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMASS\tX\tY\tZ\tVX\tVY\tVZ")

	for _, p := range particles {
		fmt.Fprintf(tw, "%s\t%.4e\t%.6e\t%.6e\t%.6e\t%.6e\t%.6e\t%.6e\n",
			p.Name,
			p.Mass,
			p.Position.X, p.Position.Y, p.Position.Z,
			p.Velocity.X, p.Velocity.Y, p.Velocity.Z,
		)
	}

	return tw.Flush()
}

// Styled renders a bordered panel with one block per particle.
func Styled(title string, particles []nbody.Particle) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	for i, p := range particles {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(nameStyle.Render(p.Name))
		b.WriteString(" ")
		b.WriteString(labelStyle.Render("mass "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.4e kg", p.Mass)))
		b.WriteString("\n  ")
		b.WriteString(labelStyle.Render("pos "))
		b.WriteString(valueStyle.Render(p.Position.String()))
		b.WriteString("\n  ")
		b.WriteString(labelStyle.Render("vel "))
		b.WriteString(valueStyle.Render(p.Velocity.String()))
	}

	return panelStyle.Render(b.String())
}

// JSON writes the particles as an indented array of records.
func JSON(w io.Writer, particles []nbody.Particle) error {
	recs := make([]loader.Record, len(particles))
	for i, p := range particles {
		recs[i] = loader.FromParticle(p)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// Summary compares two states of the same system body by body. Bodies are
// matched by position in the slice.
func Summary(w io.Writer, before, after []nbody.Particle) error {
	if len(before) != len(after) {
		return fmt.Errorf("report: state sizes differ (%d vs %d)", len(before), len(after))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDISPLACEMENT (m)\tSPEED BEFORE (m/s)\tSPEED AFTER (m/s)")

	for i := range before {
		fmt.Fprintf(tw, "%s\t%.6e\t%.6e\t%.6e\n",
			before[i].Name,
			before[i].Position.Distance(after[i].Position),
			before[i].Velocity.Norm(),
			after[i].Velocity.Norm(),
		)
	}

	return tw.Flush()
}
