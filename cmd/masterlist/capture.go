package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-vh/masterlist/internal/models"
)

var captureCmd = &cobra.Command{
	Use:   "capture [text]",
	Short: "Turn free text into tasks or a view",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCapture,
}

var (
	captureView string
	captureRaw  string
)

func init() {
	captureCmd.Flags().StringVar(&captureView, "view", "", "View context (list, today, routines, library, journal)")
	captureCmd.Flags().StringVar(&captureRaw, "raw", "", "Path to a raw model-output JSON file ('-' for stdin); skips the model call")
}

func runCapture(cmd *cobra.Command, args []string) error {
	text := ""
	if len(args) > 0 {
		text = args[0]
	}

	body := map[string]interface{}{
		"text":         text,
		"view_context": captureView,
	}

	if captureRaw != "" {
		raw, err := readRawObject(captureRaw)
		if err != nil {
			return err
		}
		body["raw"] = raw
	} else if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text required unless --raw is given")
	}

	resp, err := apiPost("/capture", body)
	if err != nil {
		return err
	}

	var result struct {
		Kind         string          `json:"kind"`
		Command      json.RawMessage `json:"command"`
		CreatedTasks []models.Task   `json:"created_tasks"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return err
	}

	switch result.Kind {
	case "apply_view":
		var view models.ApplyView
		if err := json.Unmarshal(result.Command, &view); err != nil {
			return err
		}
		fmt.Printf("Saved view %q\n", view.ViewName)
		if view.Description != "" {
			fmt.Printf("  %s\n", view.Description)
		}
		fmt.Printf("  tags=%v status=%v scope=%s\n", view.Filters.Tags, view.Filters.Status, view.Filters.DateScope)
	default:
		fmt.Printf("Created %d task(s):\n", len(result.CreatedTasks))
		for _, t := range result.CreatedTasks {
			fmt.Printf("  %s  %s\n", truncateID(t.ID), renderTaskLine(t))
		}
	}
	return nil
}

// readRawObject loads a raw model-output object from a file or stdin.
func readRawObject(path string) (map[string]interface{}, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read raw object: %w", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse raw object: %w", err)
	}
	return raw, nil
}
