// Command orbiter is the thin CLI that exercises the animation core
// headlessly: no 3D editor, no GUI, only the library wired to a reference
// OSC sink and an optional live telemetry dashboard.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/schollz/orbiter/internal/memstore"
	"github.com/schollz/orbiter/internal/models"
	"github.com/schollz/orbiter/internal/monitor"
	"github.com/schollz/orbiter/internal/multitrack"
	"github.com/schollz/orbiter/internal/oscsink"
	"github.com/schollz/orbiter/internal/spatial"
	"github.com/schollz/orbiter/internal/store"
	"github.com/schollz/orbiter/internal/transport"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var debugLog string

func main() {
	root := &cobra.Command{
		Use:   "orbiter",
		Short: "Real-time spatial-audio animation engine",
	}
	root.PersistentFlags().StringVar(&debugLog, "debug", "", "If set, write debug logs to this file; empty disables logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if debugLog == "" {
			log.SetOutput(io.Discard)
			return
		}
		f, err := os.OpenFile(debugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Printf("could not open debug log %q: %v", debugLog, err)
			return
		}
		log.SetOutput(f)
		log.SetFlags(log.Lshortfile | log.Ltime)
	}

	root.AddCommand(newModelsCmd(), newRunCmd(), newMonitorCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newModelsCmd() *cobra.Command {
	var category string
	var query string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List registered animation models",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := models.NewBuiltinRegistry()
			list := registry.List(models.Filter{Category: category, Query: query})

			if asJSON {
				type row struct {
					Type, DisplayName, Category, Description string
					Tags                                     []string
				}
				rows := make([]row, 0, len(list))
				for _, m := range list {
					meta := m.Metadata()
					rows = append(rows, row{meta.Type, meta.DisplayName, meta.Category, meta.Description, meta.Tags})
				}
				out, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			for _, m := range list {
				meta := m.Metadata()
				fmt.Printf("%-16s %-12s %s\n", meta.Type, meta.Category, meta.Description)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&query, "query", "", "case-insensitive substring filter")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newMonitorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Live telemetry dashboard for a running engine (demo data)",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := models.NewBuiltinRegistry()
			project, animID, trackIDs := demoScene()
			tport := transport.New(registry, project, nil, project, spatial.Envelope{})
			if err := tport.Play(animID, trackIDs); err != nil {
				return err
			}
			defer tport.StopEngine()

			p := tea.NewProgram(monitor.New(tport, registry), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

func newRunCmd() *cobra.Command {
	var host string
	var port int
	var seconds int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play a demo animation and stream it over OSC",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := models.NewBuiltinRegistry()
			project, animID, trackIDs := demoScene()
			sink := oscsink.New(host, port)
			tport := transport.New(registry, project, sink, project, spatial.Envelope{})

			if err := tport.Play(animID, trackIDs); err != nil {
				return err
			}
			fmt.Printf("streaming %q to %s:%d for %ds (ctrl-c to stop early)\n", animID, host, port, seconds)
			time.Sleep(time.Duration(seconds) * time.Second)

			tport.StopAll()
			tport.StopEngine()
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "localhost", "OSC destination host")
	cmd.Flags().IntVar(&port, "port", 57120, "OSC destination port")
	cmd.Flags().IntVar(&seconds, "seconds", 10, "how long to run before stopping")
	return cmd
}

// demoScene builds a small in-memory project: three tracks orbiting their
// shared barycentre on a circular path.
func demoScene() (*memstore.Store, string, []string) {
	project := memstore.New()
	tracks := []store.Track{
		{ID: "track-1", Position: spatial.Position{X: 1}},
		{ID: "track-2", Position: spatial.Position{X: -1}},
		{ID: "track-3", Position: spatial.Position{Y: 1}},
	}
	trackIDs := make([]string, 0, len(tracks))
	for i, t := range tracks {
		t.ExternalIndex = &[]int{i}[0]
		project.AddTrack(t)
		trackIDs = append(trackIDs, t.ID)
	}

	anim := store.Animation{
		ID: "demo-circular", DisplayName: "Demo circular formation",
		ModelType: "circular", Duration: 8, Loop: true,
		Mode: multitrack.Barycentric, Variant: multitrack.Isobarycentric,
		Parameters: models.Params{
			"radiusX": models.Scalar(2),
			"radiusY": models.Scalar(2),
			"speed":   models.Scalar(0.25),
		},
	}
	project.AddAnimation(anim)
	return project, anim.ID, trackIDs
}
