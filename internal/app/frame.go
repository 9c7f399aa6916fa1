package app

import (
	"slices"

	"github.com/dshills/copyline/internal/renderer"
)

// frame snapshots the document for the renderer. Only notices raised since
// the last key press are shown.
func (app *Application) frame() renderer.Frame {
	view := app.doc.View

	title := app.doc.Name()
	if app.doc.IsModified() {
		title += " *"
	}
	f := renderer.Frame{
		Text:       view.Text(),
		Selections: view.Selections(),
		Title:      title,
	}

	keys := view.RegionKeys()
	slices.Sort(keys)
	for _, k := range keys {
		ranges := view.Regions(k)
		if len(ranges) == 0 {
			continue
		}
		style, _ := view.RegionStyle(k)
		f.Regions = append(f.Regions, renderer.Region{Key: k, Ranges: ranges, Style: style})
	}

	if notices := view.Notices(); len(notices) > app.noticeMark {
		f.Status = notices[len(notices)-1]
	}
	if p := view.ActivePrompt(); p != nil {
		f.Prompt = &renderer.PromptLine{Label: p.Label(), Text: p.Text(), Selected: p.Selected()}
	}
	return f
}

func (app *Application) render() {
	app.renderer.Render(app.frame())
}
