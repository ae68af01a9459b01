package main

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"litreview-ai/internal/prompt"
)

// templateReport describes one prompt template as the service will use it.
type templateReport struct {
	Name         string   `json:"name"`
	Path         string   `json:"path,omitempty"`
	Placeholders []string `json:"placeholders"`
	// Unknown placeholders are left in the prompt verbatim.
	Unknown []string `json:"unknown,omitempty"`
	// Appended lists required values the template lacks a placeholder for.
	Appended  []string `json:"appended,omitempty"`
	FieldKeys []string `json:"fieldKeys,omitempty"`
}

func (a *app) newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Check the configured prompt templates",
		Long: `template lists the placeholders of the extraction and summary templates,
flags placeholders that will not be filled, and shows the output keys the
extraction template asks the model for. Reply keys outside that list are not
kept on records.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newReviewService()
			if err != nil {
				return err
			}
			extraction, err := effectiveTemplate(a.cfg.ExtractionTemplatePath, prompt.DefaultExtractionTemplate)
			if err != nil {
				return err
			}
			summary, err := effectiveTemplate(a.cfg.SummaryTemplatePath, prompt.DefaultSummaryTemplate)
			if err != nil {
				return err
			}

			reports := []templateReport{
				checkTemplate("extraction", a.cfg.ExtractionTemplatePath, extraction,
					[]string{prompt.PlaceholderSource}, prompt.PlaceholderSource),
				checkTemplate("summary", a.cfg.SummaryTemplatePath, summary,
					[]string{prompt.PlaceholderFolderName, prompt.PlaceholderRecordCount, prompt.PlaceholderRecords}, prompt.PlaceholderRecords),
			}
			reports[0].FieldKeys = svc.FieldKeys()

			return render(cmd.OutOrStdout(), a.output, reports, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "TEMPLATE\tSOURCE\tPLACEHOLDERS\tUNKNOWN\tAPPENDED\tFIELD KEYS")
				for _, r := range reports {
					src := r.Path
					if src == "" {
						src = "built-in"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Name, src,
						dashIfEmpty(r.Placeholders), dashIfEmpty(r.Unknown), dashIfEmpty(r.Appended), dashIfEmpty(r.FieldKeys))
				}
			})
		},
	}
}

func effectiveTemplate(path, fallback string) (string, error) {
	tpl, err := readTemplate(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(tpl) == "" {
		return fallback, nil
	}
	return tpl, nil
}

func checkTemplate(name, path, tpl string, known []string, required string) templateReport {
	r := templateReport{Name: name, Path: path, Placeholders: prompt.Placeholders(tpl)}
	for _, p := range r.Placeholders {
		if !slices.Contains(known, p) {
			r.Unknown = append(r.Unknown, p)
		}
	}
	if !slices.Contains(r.Placeholders, required) {
		r.Appended = []string{required}
	}
	return r
}

func dashIfEmpty(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
