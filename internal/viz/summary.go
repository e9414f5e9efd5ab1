package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravfield/internal/field"
	"github.com/san-kum/gravfield/internal/gravity"
	"github.com/san-kum/gravfield/internal/render"
)

// Summary renders a boxed overview of a finished run: source, grids and the
// global ranges in both SI and display units.
func Summary(id string, src gravity.PointMass, spacings []float64, u, gz field.Range) string {
	var b strings.Builder
	b.WriteString(Title.Render("point mass survey"))
	b.WriteString("  ")
	b.WriteString(Subtle.Render(id))
	b.WriteString("\n\n")

	b.WriteString(KeyValue("mass", fmt.Sprintf("%.4g kg", src.Mass)) + "\n")
	b.WriteString(KeyValue("source", src.Location.String()) + "\n")

	grids := make([]string, len(spacings))
	for i, s := range spacings {
		grids[i] = render.FormatMetres(s) + " m"
	}
	b.WriteString(KeyValue("grids", strings.Join(grids, ", ")) + "\n\n")

	b.WriteString(KeyValue("U ", fmt.Sprintf("[%.6e, %.6e] J/kg", u.Min, u.Max)) + "\n")
	b.WriteString(Subtle.Render(fmt.Sprintf("    [%.3f, %.3f] µJ/kg",
		gravity.ToMicroJoulePerKg(u.Min), gravity.ToMicroJoulePerKg(u.Max))) + "\n")
	b.WriteString(KeyValue("gz", fmt.Sprintf("[%.6e, %.6e] m/s²", gz.Min, gz.Max)) + "\n")
	b.WriteString(Subtle.Render(fmt.Sprintf("    [%.4f, %.4f] mGal",
		gravity.ToMilliGal(gz.Min), gravity.ToMilliGal(gz.Max))))

	return Panel.Render(b.String())
}
