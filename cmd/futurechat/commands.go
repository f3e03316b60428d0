package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"futurechat/internal/server"
)

var (
	jsonOutput bool
	corpusPath string
	serveAddr  string
)

// askCmd answers one message
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Answer a single message",
	Example: `  futurechat ask "Сколько будет 15 + 27?"
  futurechat ask --json привет`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		reply := a.engine.Respond(ctx, joinArgs(args))
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), reply)
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
		return nil
	},
}

// teachCmd adds a reply to the knowledge table
var teachCmd = &cobra.Command{
	Use:   "teach [topic] [info]",
	Short: "Teach the knowledge table something new",
	Long: `Appends info under topic. A topic matching an existing phrase extends
that entry; otherwise a new entry is created. The table is saved to the
configured knowledge store.`,
	Example: `  futurechat teach собаки "собаки очень умные и преданные животные"`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.engine.Teach(ctx, args[0], joinArgs(args[1:]))
		if err != nil {
			return err
		}
		switch {
		case !res.Added:
			fmt.Fprintf(cmd.OutOrStdout(), "ℹ️  Already known under %q\n", res.Key)
		case res.Created:
			fmt.Fprintf(cmd.OutOrStdout(), "✅ New topic %q\n", res.Key)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Added to %q\n", res.Key)
		}
		return nil
	},
}

// trainCmd trains the external matcher
var trainCmd = &cobra.Command{
	Use:   "train [prompt] [reply]",
	Short: "Train the external matcher with a dialogue pair or a YAML corpus",
	Example: `  futurechat train "Как погода?" "Сегодня солнечно!"
  futurechat train --corpus corpus/russian.yml`,
	Args: func(cmd *cobra.Command, args []string) error {
		if corpusPath != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		adapter := a.engine.Matcher()
		if !adapter.Enabled() {
			return fmt.Errorf("external matcher unavailable (%s)", adapter.Status())
		}
		if corpusPath != "" {
			n, err := trainCorpusFile(ctx, adapter, corpusPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Trained %d pairs from %s\n", n, corpusPath)
			return nil
		}
		if !adapter.Train(ctx, args[0], args[1]) {
			return fmt.Errorf("training failed, see logs")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %q -> %q\n", args[0], args[1])
		return nil
	},
}

// serveCmd runs the HTTP surface
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP",
	Long: `Endpoints:
  POST /chat     {"message": "..."} -> {"response": "...", "source": "..."}
  POST /teach    {"topic": "...", "info": "..."}
  GET  /stats    knowledge and history counters
  GET  /healthz  liveness
  GET  /metrics  Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		webCfg := *cfg
		if cfg.Server.Name != "" {
			webCfg.Name = cfg.Server.Name
		}
		if serveAddr != "" {
			webCfg.Server.Addr = serveAddr
		}

		a, err := newApp(ctx, &webCfg)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "🚀 %s on http://%s\n", webCfg.Name, webCfg.Server.Addr)
		srv := server.New(a.engine, server.Config{
			Addr:         webCfg.Server.Addr,
			ReadTimeout:  webCfg.GetReadTimeout(),
			WriteTimeout: webCfg.GetWriteTimeout(),
		})
		return srv.ListenAndServe(ctx)
	},
}

// statsCmd prints knowledge and matcher counters
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge table and matcher status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), a.engine.Stats())
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.engine.StatsText())
		return nil
	},
}

// versionCmd prints the configured identity
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", cfg.Name, cfg.Version)
	},
}

func init() {
	askCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full reply as JSON")
	statsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print stats as JSON")
	trainCmd.Flags().StringVar(&corpusPath, "corpus", "", "YAML corpus of conversations")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
