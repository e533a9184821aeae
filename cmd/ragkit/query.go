package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ternarybob/ragkit/internal/app"
	"github.com/ternarybob/ragkit/internal/models"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a natural language question about some content",
	Long: `Query literal text or stored task memory using natural language.

Content is read from --content, from --file ("-" for stdin), or from a memory
namespace given by --memory and --namespace.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var (
	queryContent   string
	queryFile      string
	queryMemory    string
	queryNamespace string
)

func init() {
	queryCmd.Flags().StringVar(&queryContent, "content", "", "Literal text to query")
	queryCmd.Flags().StringVarP(&queryFile, "file", "f", "", "Read literal text from a file, - for stdin")
	queryCmd.Flags().StringVar(&queryMemory, "memory", "", "Memory name holding the content")
	queryCmd.Flags().StringVar(&queryNamespace, "namespace", "", "Artifact namespace within the memory")
}

func runQuery(cmd *cobra.Command, args []string) error {
	content, err := queryContentValue(cmd)
	if err != nil {
		return err
	}

	values := map[string]any{
		"query":   args[0],
		"content": content,
	}

	logger.Debug().Str("question", args[0]).Msg("Running query")

	return withApp(func(ctx context.Context, application *app.App) error {
		output, err := application.QueryTool.Run(ctx, values)
		if err != nil {
			return err
		}
		return printArtifact(cmd.OutOrStdout(), output)
	})
}

// queryContentValue builds the content value from flags: a string or a memory reference
func queryContentValue(cmd *cobra.Command) (any, error) {
	literal := cmd.Flags().Changed("content")
	fromFile := queryFile != ""
	reference := queryMemory != "" || queryNamespace != ""

	selected := 0
	for _, set := range []bool{literal, fromFile, reference} {
		if set {
			selected++
		}
	}
	if selected != 1 {
		return nil, errors.New("exactly one of --content, --file or --memory/--namespace is required")
	}

	switch {
	case literal:
		return queryContent, nil
	case fromFile:
		return readContentFile(cmd, queryFile)
	default:
		return map[string]any{
			"memory_name":        queryMemory,
			"artifact_namespace": queryNamespace,
		}, nil
	}
}

func readContentFile(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return string(data), nil
}

// printArtifact writes the artifact text. Error artifacts are returned as command errors.
func printArtifact(w io.Writer, artifact models.Artifact) error {
	if errArtifact, ok := artifact.(*models.ErrorArtifact); ok {
		return errors.New(errArtifact.Message())
	}
	_, err := fmt.Fprintln(w, artifact.String())
	return err
}
