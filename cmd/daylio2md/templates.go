package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/daylio2md/internal/render"
)

// newTemplatesCmd creates the templates command.
func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available Markdown templates",
		Long: `List the templates convert can use with --template.

Templates are looked up in .daylio2md/templates/ in the working directory,
then in the templates/ folder of the config directory, then among the
built-ins. A project or global template with a built-in's name replaces it.`,
		Args: cobra.NoArgs,
		RunE: runTemplates,
	}
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	templates, err := render.ListTemplates()
	if err != nil {
		return fail(printer, err)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"templates": templates,
			"engines":   render.Engines(),
		})
	}

	rows := make([][]string, 0, len(templates))
	for _, tmpl := range templates {
		source := tmpl.Source
		if tmpl.Overrides != "" {
			source += " (overrides " + tmpl.Overrides + ")"
		}
		rows = append(rows, []string{tmpl.Name, tmpl.Engine, source, tmpl.Description})
	}
	printer.Table([]string{"Name", "Engine", "Source", "Description"}, rows)
	return nil
}
