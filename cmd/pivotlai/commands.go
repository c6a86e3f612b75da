package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/pivotlai"
	"github.com/ZaguanLabs/pivotlai/cache"
	"github.com/ZaguanLabs/pivotlai/processor"
	"github.com/ZaguanLabs/pivotlai/server"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// TranslateOutput is the --json form of a plain text translation.
type TranslateOutput struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Status     string `json:"status"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	Hops       int    `json:"hops"`
	Error      string `json:"error,omitempty"`
	ElapsedMs  int64  `json:"elapsed_ms"`
}

// ContentOutput is the --json form of an HTML or paragraph translation.
type ContentOutput struct {
	Content         string `json:"content"`
	TotalNodes      int    `json:"total_nodes"`
	TranslatedCount int    `json:"translated_count"`
	FailedCount     int    `json:"failed_count"`
	ElapsedMs       int64  `json:"elapsed_ms"`
}

func (a *app) newTranslateCommand() *cobra.Command {
	var (
		from, to, output    string
		jsonOut, html, text bool
		dryRun              bool
	)

	cmd := &cobra.Command{
		Use:   "translate [text | file]",
		Short: "Translate text, pivoting when the pair is not supported directly",
		Long: `Translate the argument (or stdin) from --from to --to.

With --html or --text the argument names a file whose HTML text nodes or
paragraphs are translated one by one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" {
				return errors.New("--to is required")
			}
			if html && text {
				return errors.New("--html and --text are mutually exclusive")
			}

			contentType := ""
			switch {
			case html:
				contentType = processor.ContentTypeHTML
			case text:
				contentType = processor.ContentTypeText
			}

			input, inputName, err := a.readInput(args, contentType != "")
			if err != nil {
				return err
			}

			if dryRun {
				return a.dryRun(input, inputName, contentType, to, jsonOut)
			}

			ctx := cmd.Context()
			source := strings.TrimSpace(from)
			if source == "" {
				source = a.detect(cmd, input)
			}
			target := strings.TrimSpace(to)

			b, err := a.newBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()
			o := a.newOrchestrator(b)

			out := a.stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			start := time.Now()

			if contentType != "" {
				result, err := o.TranslateContent(ctx, input, contentType, source, target)
				if err != nil {
					return fmt.Errorf("translation failed: %w", err)
				}
				elapsed := time.Since(start)

				if jsonOut {
					return writeJSON(out, ContentOutput{
						Content:         result.Content,
						TotalNodes:      result.TotalNodes,
						TranslatedCount: result.TranslatedCount,
						FailedCount:     result.FailedCount,
						ElapsedMs:       elapsed.Milliseconds(),
					})
				}

				fmt.Fprint(out, result.Content)
				a.logger.WithFields(log.Fields{
					"file":       inputName,
					"nodes":      result.TotalNodes,
					"translated": result.TranslatedCount,
					"failed":     result.FailedCount,
					"elapsed":    elapsed.Round(time.Millisecond),
				}).Info("content translated")
				return nil
			}

			res := o.TranslateResult(ctx, input, source, target)
			elapsed := time.Since(start)

			if jsonOut {
				jo := TranslateOutput{
					ID:         res.ID,
					Text:       res.Text,
					Status:     string(res.Status),
					SourceLang: source,
					TargetLang: target,
					Hops:       len(res.Hops),
					ElapsedMs:  elapsed.Milliseconds(),
				}
				if res.Err != nil {
					jo.Error = res.Err.Error()
				}
				return writeJSON(out, jo)
			}

			fmt.Fprintln(out, res.Text)
			if !res.OK() {
				fmt.Fprintf(a.stderr, "warning: %v; original text returned\n", res.Err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&from, "from", "", "source language (detected when empty)")
	f.StringVar(&to, "to", "", "target language")
	f.StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	f.BoolVar(&jsonOut, "json", false, "print the result as JSON")
	f.BoolVar(&html, "html", false, "translate an HTML file node by node")
	f.BoolVar(&text, "text", false, "translate a text file paragraph by paragraph")
	f.BoolVar(&dryRun, "dry-run", false, "list what would be translated without calling the backend")
	f.Int("concurrency", 0, "texts translated at once for --html and --text")
	_ = a.v.BindPFlag("concurrency", f.Lookup("concurrency"))

	return cmd
}

// detect guesses the language of input, defaulting to English.
func (a *app) detect(cmd *cobra.Command, input string) pivotlai.LanguageCode {
	p := pivotlai.NewPipeline(nil, a.newDetector(), pivotlai.WithPipelineLogger(a.logger))
	report, err := p.Submit(cmd.Context(), input)
	if err != nil {
		return "en"
	}
	if report.Warning != nil {
		fmt.Fprintf(a.stderr, "warning: %v\n", report.Warning)
	}
	return p.State().DetectedLang
}

// dryRun lists the nodes a content translation would send.
func (a *app) dryRun(input, inputName, contentType, target string, jsonOut bool) error {
	var proc pivotlai.ContentProcessor = processor.NewTextProcessor()
	if contentType == processor.ContentTypeHTML {
		proc = processor.NewHTMLProcessor()
	}

	_, nodes, err := proc.Extract(input)
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}

	if jsonOut {
		type dryRunOutput struct {
			InputFile  string   `json:"input_file"`
			TargetLang string   `json:"target_lang"`
			NodeCount  int      `json:"node_count"`
			Texts      []string `json:"texts"`
		}

		texts := make([]string, len(nodes))
		for i, n := range nodes {
			texts[i] = n.Text
		}

		return writeJSON(a.stdout, dryRunOutput{
			InputFile:  inputName,
			TargetLang: target,
			NodeCount:  len(nodes),
			Texts:      texts,
		})
	}

	fmt.Fprintf(a.stdout, "Dry run: %s -> %s\n", inputName, target)
	fmt.Fprintf(a.stdout, "Found %d translatable text nodes:\n\n", len(nodes))

	for i, node := range nodes {
		text := node.Text
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		fmt.Fprintf(a.stdout, "%3d. %q\n", i+1, text)
		if node.Context != "" {
			fmt.Fprintf(a.stdout, "     Context: %s\n", node.Context)
		}
	}

	return nil
}

func (a *app) newDetectCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "detect [text]",
		Short: "Detect the language of text",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _, err := a.readInput(args, false)
			if err != nil {
				return err
			}

			p := pivotlai.NewPipeline(nil, a.newDetector(), pivotlai.WithPipelineLogger(a.logger))
			report, err := p.Submit(cmd.Context(), input)
			if err != nil {
				return err
			}
			state := p.State()

			if jsonOut {
				return writeJSON(a.stdout, map[string]any{
					"language":   state.DetectedLang,
					"name":       state.DetectedName,
					"confidence": report.Detection.Confidence,
					"defaulted":  report.Defaulted,
				})
			}

			if report.Warning != nil {
				fmt.Fprintf(a.stderr, "warning: %v\n", report.Warning)
			}
			fmt.Fprintf(a.stdout, "%s (%s)\n", state.DetectedName, state.DetectedLang)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the detection as JSON")
	return cmd
}

func (a *app) newSummarizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize [text]",
		Short: "Summarize English text",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _, err := a.readInput(args, false)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			b, err := a.newBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			opts := []pivotlai.PipelineOption{pivotlai.WithPipelineLogger(a.logger)}
			if b.summarizer != nil {
				opts = append(opts, pivotlai.WithSummarizer(b.summarizer))
			}
			p := pivotlai.NewPipeline(a.newOrchestrator(b), a.newDetector(), opts...)

			if _, err := p.Submit(ctx, input); err != nil {
				return err
			}
			summary, err := p.Summarize(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, summary)
			return nil
		},
	}
}

func (a *app) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := a.newBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			s := server.New(server.Config{
				Orchestrator: a.newOrchestrator(b),
				Detector:     a.newDetector(),
				Summarizer:   b.summarizer,
				Logger:       a.logger,
			})
			return s.Run(ctx, a.v.GetString("addr"))
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	_ = a.v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *app) newLanguagesCommand() *cobra.Command {
	var all, jsonOut bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported language codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			langs := pivotlai.Languages()
			if all {
				langs = langs[:0]
				for _, code := range pivotlai.KnownLanguageCodes() {
					langs = append(langs, pivotlai.Language{Code: code, Name: pivotlai.GetLanguageName(code)})
				}
			}

			if jsonOut {
				return writeJSON(a.stdout, langs)
			}
			for _, l := range langs {
				fmt.Fprintf(a.stdout, "%-4s %s\n", l.Code, l.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include display-only languages")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")
	return cmd
}

func (a *app) newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Export or import the hop cache",
		Long: `Export writes every cached hop translation to a JSON file; import loads
such a file into the configured cache. Both need --redis-url to act on a
shared cache; the in-memory cache only lives for one command.`,
	}

	export := &cobra.Command{
		Use:   "export <file>",
		Short: "Export cached translations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, closeFn, err := a.openCache(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			enumerable, ok := c.(cache.Enumerable)
			if !ok {
				return errors.New("configured cache cannot be enumerated")
			}

			n, err := cache.NewExporter(enumerable).ExportToFile(ctx, args[0], map[string]string{
				"exported_by": pivotlai.UserAgent(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Exported %d entries to %s\n", n, args[0])
			return nil
		},
	}

	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Import cached translations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeFn, err := a.openCache(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := cache.NewImporter(c).ImportFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Imported %d entries (%d skipped, %d failed)\n",
				result.Imported, result.Skipped, result.Failed)
			return nil
		},
	}

	cmd.AddCommand(export, imp)
	return cmd
}

// openCache opens the configured cache without building a backend.
func (a *app) openCache(cmd *cobra.Command) (pivotlai.TranslationCache, func(), error) {
	b := &backend{}
	c, err := a.newCache(cmd.Context(), b)
	if err != nil {
		return nil, nil, err
	}
	return c, b.Close, nil
}

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.stdout, "%s %s\n", pivotlai.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(a.stdout, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(a.stdout, "  built:   %s\n", buildDate)
			}
			return nil
		},
	}
}
