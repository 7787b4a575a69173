// Command agentingest replays captured agent CLI output through the
// ingestion pipeline.
//
// Commands:
//   - replay: classify and normalize a stream-json capture
//   - split: tolerant schema-free line splitting
//   - schema: print the normalized event JSON schema
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bazelment/yoloswe/agentingest/agentstream"
	"github.com/bazelment/yoloswe/agentingest/claude"
	"github.com/bazelment/yoloswe/agentingest/cursor"
	"github.com/bazelment/yoloswe/agentingest/ingest"
	"github.com/bazelment/yoloswe/agentingest/jsonl"
	"github.com/bazelment/yoloswe/agentingest/ndjson"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agentingest",
		Short: "Classify and normalize agent CLI JSONL streams",
		Long: `agentingest replays captured agent CLI output (stream-json)
through the bounded ingestion pipeline, printing one classified record
per input line.

Use 'replay' for typed per-agent classification and normalization.
Use 'split' for tolerant schema-free access to each line's JSON.`,
	}

	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newSplitCmd())
	rootCmd.AddCommand(newSchemaCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// fileConfig is the optional YAML config accepted by --config.
type fileConfig struct {
	MaxLineBytes     int    `yaml:"max_line_bytes"`
	MaxRawBytesTotal int64  `yaml:"max_raw_bytes_total"`
	CaptureRaw       string `yaml:"capture_raw"`
	ErrorDetail      string `yaml:"error_detail"`
}

func (fc fileConfig) toConfig() (ingest.Config, error) {
	cfg := ingest.Config{
		MaxLineBytes:     fc.MaxLineBytes,
		MaxRawBytesTotal: fc.MaxRawBytesTotal,
	}
	switch fc.CaptureRaw {
	case "", "none":
		cfg.CaptureRaw = ingest.CaptureNone
	case "line":
		cfg.CaptureRaw = ingest.CaptureLine
	case "json":
		cfg.CaptureRaw = ingest.CaptureJSON
	case "both":
		cfg.CaptureRaw = ingest.CaptureBoth
	default:
		return cfg, fmt.Errorf("unknown capture_raw value %q", fc.CaptureRaw)
	}
	switch fc.ErrorDetail {
	case "", "redacted":
		cfg.ErrorDetail = ingest.RedactedSummaryOnly
	case "full":
		cfg.ErrorDetail = ingest.FullDetails
	default:
		return cfg, fmt.Errorf("unknown error_detail value %q", fc.ErrorDetail)
	}
	return cfg, nil
}

type replayFlags struct {
	agent        string
	configPath   string
	maxLineBytes int
	fullDetails  bool
	trace        bool
}

func newReplayCmd() *cobra.Command {
	flags := &replayFlags{}

	cmd := &cobra.Command{
		Use:   "replay [file]",
		Short: "Classify and normalize a stream-json capture",
		Long: `Replay reads a stream-json capture (or stdin) line by line,
classifies each line with the selected agent's protocol parser, and
prints one normalized event per successfully parsed line. Failed lines
are reported with their taxonomy code and never abort the replay.`,
		Example: `  agentingest replay --agent claude session.jsonl
  cursor-agent chat -p "fix it" --output-format stream-json | agentingest replay --agent cursor`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.agent, "agent", "claude", "Agent protocol: claude or cursor")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "YAML ingestion config file")
	cmd.Flags().IntVar(&flags.maxLineBytes, "max-line-bytes", 0, "Per-line byte budget (default 64 KiB)")
	cmd.Flags().BoolVar(&flags.fullDetails, "full-details", false, "Include raw line content in error output")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "Input is a trace file; unwrap each entry's inner message")

	return cmd
}

func runReplay(args []string, flags *replayFlags) error {
	src, closer, err := openInput(args)
	if err != nil {
		return err
	}
	defer closer()

	cfg := ingest.Config{MaxLineBytes: flags.maxLineBytes}
	if flags.configPath != "" {
		data, err := os.ReadFile(flags.configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		if cfg, err = fc.toConfig(); err != nil {
			return err
		}
		if flags.maxLineBytes > 0 {
			cfg.MaxLineBytes = flags.maxLineBytes
		}
	}
	if flags.fullDetails {
		cfg.ErrorDetail = ingest.FullDetails
	}
	cfg.Sink = ingest.ErrorSinkFunc(func(rec ingest.ErrorRecord) {
		slog.Warn("line failed classification",
			"line", rec.Line,
			"code", rec.Code,
			"parser", rec.Parser,
			"detail", rec.Details)
	})

	if flags.trace {
		src = unwrapTraceStream(src, cfg.MaxLineBytes)
	}

	out := json.NewEncoder(os.Stdout)

	switch flags.agent {
	case "claude":
		session := ingest.NewSession(src, claude.NewParser(), cfg)
		return replayEvents(session, claude.Adapter{}, out)
	case "cursor":
		session := ingest.NewSession(src, cursor.NewParser(), cfg)
		return replayEvents(session, cursor.Adapter{}, out)
	default:
		return fmt.Errorf("unknown agent %q (want claude or cursor)", flags.agent)
	}
}

func replayEvents[E any](session *ingest.Session[E], adapter agentstream.Adapter[E], out *json.Encoder) error {
	for {
		rec, ok := session.Next()
		if !ok {
			return nil
		}
		if rec.Err != nil {
			if rec.Err.Terminal() {
				return rec.Err
			}
			continue // already delivered to the sink
		}
		if !rec.HasEvent {
			continue
		}
		ev := adapter.Normalize(rec.Line, rec.Event)
		if rec.Raw != nil {
			ev.RawLine = rec.Raw.Line
		}
		if err := out.Encode(ev); err != nil {
			return err
		}
	}
}

// unwrapTraceStream rewrites a trace file into raw protocol lines so
// the session sees the same stream a live agent would produce. Lines
// that are not trace entries pass through unchanged.
func unwrapTraceStream(src io.Reader, maxLineBytes int) io.Reader {
	pr, pw := io.Pipe()
	go func() {
		r := ndjson.NewReader(src, maxLineBytes)
		for {
			rec, ok := r.Next()
			if !ok {
				pw.Close()
				return
			}
			switch rec := rec.(type) {
			case ndjson.Line:
				line := claude.UnwrapTrace(rec.Bytes)
				if _, err := pw.Write(append(line, '\n')); err != nil {
					return
				}
			case ndjson.TooLong:
				// Oversized entries are dropped; the blank keeps downstream
				// line numbers aligned with the trace file.
				if _, err := pw.Write([]byte{'\n'}); err != nil {
					return
				}
			case ndjson.ReadError:
				pw.CloseWithError(rec.Err)
				return
			}
		}
	}()
	return pr
}

func newSplitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split [file]",
		Short: "Tolerant schema-free line splitting",
		Long: `Split decodes every line of the input as generic JSON and prints
each outcome: the decoded value, or the raw line and decode error.
Unlike replay, it numbers every physical line and classifies blanks.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, closer, err := openInput(args)
			if err != nil {
				return err
			}
			defer closer()

			data, err := io.ReadAll(src)
			if err != nil {
				return err
			}

			out := json.NewEncoder(os.Stdout)
			for _, result := range jsonl.Split(string(data)) {
				if result.Err != nil {
					if err := out.Encode(map[string]any{
						"line":  result.Line,
						"error": result.Err.Cause.Error(),
						"raw":   result.Err.Raw,
					}); err != nil {
						return err
					}
					continue
				}
				if err := out.Encode(map[string]any{
					"line":  result.Line,
					"value": result.Value,
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the normalized event JSON schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := agentstream.EventSchema()
			if err != nil {
				return err
			}
			fmt.Println(string(raw))
			return nil
		},
	}
}

func openInput(args []string) (io.Reader, func(), error) {
	if len(args) == 0 {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
