package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/tangential/tangential/pkg/config"
	"github.com/tangential/tangential/pkg/export"
	"github.com/tangential/tangential/pkg/layout"
	"github.com/tangential/tangential/pkg/store"
	"github.com/tangential/tangential/pkg/treeindex"
	"github.com/tangential/tangential/pkg/ui"
	"github.com/tangential/tangential/pkg/watcher"
)

func main() {
	dbPath := flag.String("db", "", "Path to the tangential database (default: user data dir)")
	configPath := flag.String("config", "", "Path to the config file")
	treeID := flag.String("tree", "", "Tree ID to export (required with -export-svg/-export-png)")
	exportSVG := flag.String("export-svg", "", "Render the tree layout to an SVG file and exit")
	exportPNG := flag.String("export-png", "", "Render the tree layout to a PNG file and exit")
	version := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *version {
		fmt.Println("tgl version 0.1.0")
		os.Exit(0)
	}

	cfgFile := *configPath
	if cfgFile == "" {
		var err error
		cfgFile, err = config.DefaultPath()
		if err != nil {
			fmt.Printf("Error locating config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	path := *dbPath
	if path == "" {
		path = cfg.DBPath
	}
	if path == "" {
		path, err = store.DefaultPath()
		if err != nil {
			fmt.Printf("Error locating database: %v\n", err)
			os.Exit(1)
		}
	}

	st, err := store.Open(path)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if *exportSVG != "" || *exportPNG != "" {
		if err := runExport(st, cfg.Layout, *treeID, *exportSVG, *exportPNG); err != nil {
			fmt.Printf("Error exporting: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println("tgl needs a terminal; use -export-svg/-export-png for headless rendering.")
		os.Exit(1)
	}

	m := ui.NewModel(st, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())

	w, err := watcher.Watch(path, cfg.Debounce(), func() {
		p.Send(ui.DBChanged())
	})
	if err == nil {
		defer w.Close()
	}

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running tangential viewer: %v\n", err)
		os.Exit(1)
	}
}

// runExport renders one tree's layout headlessly.
func runExport(st *store.Store, layoutCfg layout.Config, treeID, svgPath, pngPath string) error {
	if treeID == "" {
		return fmt.Errorf("-tree is required when exporting")
	}

	ctx := context.Background()
	nodes, err := st.ListNodes(ctx, treeID)
	if err != nil {
		return err
	}

	idx := treeindex.Build(nodes)
	res := layout.Compute(idx, layoutCfg, "", nil)

	labels := make(map[string]string, len(nodes))
	for i := range nodes {
		labels[nodes[i].ID] = nodes[i].Title()
	}
	snap := export.Snapshot{Result: res, Labels: labels}

	if svgPath != "" {
		if err := export.SaveSVG(svgPath, snap); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", svgPath)
	}
	if pngPath != "" {
		if err := export.SavePNG(pngPath, snap); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", pngPath)
	}
	return nil
}
