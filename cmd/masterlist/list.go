package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/noah-vh/masterlist/internal/models"
	"github.com/noah-vh/masterlist/internal/vocab"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks through the faceted filter engine",
	RunE:  runList,
}

var (
	listTags   []string
	listStatus []string
	listScope  string
	listSearch string
	listToday  bool
)

func init() {
	listCmd.Flags().StringArrayVar(&listTags, "tag", nil, "Require a tag (repeatable; tasks must carry all of them)")
	listCmd.Flags().StringSliceVar(&listStatus, "status", nil, "Filter by status (active, waiting_on, someday_maybe, archived)")
	listCmd.Flags().StringVar(&listScope, "scope", "", "Date scope (today, this_week, overdue)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Title substring match (today list only)")
	listCmd.Flags().BoolVar(&listToday, "today", false, "Use the today-list ordering (status ladder)")
}

var (
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	titleStyle = lipgloss.NewStyle().Bold(true)

	statusActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // Green
	statusWaiting = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // Yellow
	statusSomeday = lipgloss.NewStyle().Foreground(lipgloss.Color("4")) // Blue
	statusArchive = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // Gray
)

func runList(cmd *cobra.Command, args []string) error {
	params := url.Values{}
	if len(listTags) > 0 {
		params.Set("tags", strings.Join(listTags, ","))
	}
	if len(listStatus) > 0 {
		params.Set("status", strings.Join(listStatus, ","))
	}
	if listScope != "" {
		params.Set("scope", listScope)
	}
	if listToday {
		params.Set("today", "1")
		if listSearch != "" {
			params.Set("q", listSearch)
		}
	}

	path := "/tasks"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := apiGet(path)
	if err != nil {
		return err
	}

	var tasks []models.Task
	if err := json.Unmarshal(resp, &tasks); err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks match")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDATE\tTAGS")
	for _, t := range tasks {
		date := ""
		if t.ActionDate != nil {
			date = t.ActionDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncateID(t.ID),
			renderTitle(t),
			formatStatus(t.Status),
			date,
			renderTags(t.Tags),
		)
	}
	return w.Flush()
}

// renderTaskLine is the single-line rendering used after a capture.
func renderTaskLine(t models.Task) string {
	line := renderTitle(t)
	if len(t.Tags) > 0 {
		line += "  " + renderTags(t.Tags)
	}
	if t.ActionDate != nil {
		line += "  " + t.ActionDate.Format("2006-01-02")
	}
	return line
}

func renderTitle(t models.Task) string {
	title := truncate(t.Title, 48)
	if t.IsCompleted {
		return doneStyle.Render(title)
	}
	return titleStyle.Render(title)
}

func formatStatus(s models.Status) string {
	switch s {
	case models.StatusActive:
		return statusActive.Render("● active")
	case models.StatusWaitingOn:
		return statusWaiting.Render("● waiting")
	case models.StatusSomedayMaybe:
		return statusSomeday.Render("● someday")
	case models.StatusArchived:
		return statusArchive.Render("● archived")
	default:
		return string(s)
	}
}

// renderTags colors canonical tags with their vocabulary color and
// leaves unknown tags plain.
func renderTags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		if entry, ok := vocab.Lookup(tag); ok {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(entry.Color))
			parts = append(parts, style.Render(tag))
			continue
		}
		parts = append(parts, tag)
	}
	return strings.Join(parts, " ")
}
