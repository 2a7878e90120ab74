// Command evaluate scores a dream narrative offline and prints the evaluation
// as JSON.
//
// Usage:
//
//	evaluate [flags] [file]
//
// The narrative is read from file, or from stdin when no file is given.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dreamnft/dreamnft-server/internal/authenticity"
	domainerrors "github.com/dreamnft/dreamnft-server/internal/errors"
	"github.com/dreamnft/dreamnft-server/internal/insight"
	"github.com/dreamnft/dreamnft-server/internal/pattern"
	"github.com/dreamnft/dreamnft-server/internal/scoring"
)

// Exit codes.
const (
	exitOK         = 0
	exitError      = 1
	exitInputShort = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type output struct {
	Evaluation *scoring.DreamEvaluation `json:"evaluation"`
	Insights   *insight.Report          `json:"insights,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	hasAudio := fs.Bool("audio", false, "Dream has an audio recording")
	hasImage := fs.Bool("image", false, "Dream has an image")
	tags := fs.String("tags", "", "Comma-separated user tags")
	likes := fs.Int("likes", 0, "Like count")
	comments := fs.Int("comments", 0, "Comment count")
	validate := fs.Bool("validate", false, "Require the minimum text length for authenticity validation")
	withInsights := fs.Bool("insights", false, "Include interpretation, keywords, sentiment and summary")
	seed := fs.Uint64("seed", 0, "Seed for the authenticity uncertainty term (0 disables it)")
	maxTags := fs.Int("max-tags", 0, "Maximum AI tags (default 10)")
	minLength := fs.Int("min-length", 0, "Minimum characters when -validate is set (default 20)")
	sequential := fs.Bool("sequential", false, "Run the evaluators one after another")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	text, err := readNarrative(fs.Arg(0), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "evaluate: %v\n", err)
		return exitError
	}

	opts := scoring.DefaultOptions()
	if *maxTags > 0 {
		opts.MaxTagCount = *maxTags
	}
	if *minLength > 0 {
		opts.MinTextLengthForValidation = *minLength
	}
	if *seed != 0 {
		opts.Noise = authenticity.NewSeededNoise(*seed)
	}
	opts.Parallel = !*sequential

	engine := scoring.New(pattern.NewDefault(), opts)
	eval, err := engine.Evaluate(context.Background(), scoring.Request{
		Text: text,
		Metadata: scoring.Metadata{
			HasAudio:     *hasAudio,
			HasImage:     *hasImage,
			UserTags:     splitTags(*tags),
			Likes:        *likes,
			CommentCount: *comments,
		},
		ValidateAuthenticity: *validate,
	})

	code := exitOK
	out := output{Evaluation: eval}
	switch {
	case err == nil:
	case eval != nil && errors.Is(err, domainerrors.ErrInputTooShort):
		out.Error = err.Error()
		code = exitInputShort
	default:
		fmt.Fprintf(stderr, "evaluate: %v\n", err)
		return exitError
	}

	if *withInsights {
		report := insight.Build(engine.Snapshot(text), eval.Emotions, eval.Themes)
		out.Insights = &report
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "evaluate: write output: %v\n", err)
		return exitError
	}
	return code
}

func readNarrative(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read narrative: %w", err)
	}
	return string(b), nil
}

func splitTags(s string) []string {
	var tags []string
	for t := range strings.SplitSeq(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
