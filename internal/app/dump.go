package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dshills/inlineview/internal/renderer"
	"github.com/dshills/inlineview/internal/renderer/backend"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	frameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Dump writes the current geometry as a table, followed by the overlay
// markup and one painted frame.
func (app *Application) Dump(w io.Writer) error {
	var b strings.Builder

	state := app.engine.State().Get()
	b.WriteString(titleStyle.Render("inlineview: " + state.String()))
	b.WriteString("\n")
	b.WriteString(app.geometryTable())
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Overlay"))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(app.overlay.Tree().Get().HTML()))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Frame"))
	b.WriteString("\n")
	b.WriteString(frameStyle.Render(app.paintFrame()))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (app *Application) geometryTable() string {
	rows := [][]string{
		{"theme", app.themes.Current().Name},
	}
	if d := app.edit.Get(); d != nil {
		rows = append(rows, []string{"edit", d.String()})
	}

	geo := app.engine.Geometry().Get()
	if geo == nil {
		rows = append(rows, []string{"geometry", "hidden"})
	} else {
		rows = append(rows,
			[]string{"code", geo.CodeRect.String()},
			[]string{"preview", geo.EditRect.String()},
			[]string{"clip", geo.Clip.String()},
			[]string{"gap", strconv.Itoa(geo.Gap)},
			[]string{"preview left", strconv.Itoa(geo.PreviewLeft)},
			[]string{"preview width", strconv.Itoa(geo.PreviewWidth)},
			[]string{"scroll", fmt.Sprintf("code %d, preview %d", geo.CodeScrollLeft, geo.PreviewScrollLeft)},
			[]string{"max content width", strconv.Itoa(geo.MaxContentWidth)},
			[]string{"insertion", strconv.FormatBool(geo.IsInsertion)},
			[]string{"shadow", strconv.FormatBool(geo.ShouldShowShadow)},
		)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("field", "value").
		Rows(rows...).
		String()
}

// paintFrame paints one frame into memory and returns its rows.
func (app *Application) paintFrame() string {
	nb := backend.NewNullBackend(app.opts.Width, app.opts.Height)
	p := renderer.New(app.graph, nb, app.editor, app.preview, app.engine, app.themes, renderer.DefaultOptions())
	p.Start()
	defer p.Dispose()

	rows := make([]string, app.opts.Height)
	for y := range rows {
		rows[y] = strings.TrimRight(nb.Row(y), " ")
	}
	return strings.Join(rows, "\n")
}
