package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// viewerFlags holds command line overrides of the config file
type viewerFlags struct {
	configPath string
	dbPath     string
	pageSize   int
	slideshow  bool
	noStats    bool
	debug      bool
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &viewerFlags{}

	rootCmd := &cobra.Command{
		Use:           "lightview [flags] <image|directory|archive>...",
		Short:         "Paged image gallery with a lightbox viewer",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debugMode = flags.debug
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd, flags, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&flags.dbPath, "db", "", "Counter and rating database path")
	rootCmd.Flags().IntVar(&flags.pageSize, "page-size", -1, "Items per gallery page, 0 for a single page")
	rootCmd.Flags().BoolVar(&flags.slideshow, "slideshow", true, "Offer the slideshow in the lightbox")
	rootCmd.Flags().BoolVar(&flags.noStats, "no-stats", false, "Do not open the counter and rating database")

	rootCmd.AddCommand(newConfigCommand(flags))
	return rootCmd
}

// newConfigCommand prints the effective configuration
func newConfigCommand(flags *viewerFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveConfigPath(flags.configPath)
			result := loadConfigFromPath(path)
			data, err := toml.Marshal(result.Config)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s (%s)\n", path, result.Status)
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "# warning: %s\n", w)
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func resolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return getConfigPath()
}

// applyFlags overrides config values with explicitly set flags
func applyFlags(cmd *cobra.Command, config *Config) {
	flags := cmd.Flags()
	if flags.Changed("page-size") {
		if size, err := flags.GetInt("page-size"); err == nil && size >= 0 {
			config.PageSize = size
		}
	}
	if flags.Changed("db") {
		if path, err := flags.GetString("db"); err == nil {
			config.DatabasePath = path
		}
	}
	if flags.Changed("slideshow") {
		if enabled, err := flags.GetBool("slideshow"); err == nil {
			config.SlideshowEnabled = enabled
		}
	}
}

// collectionTitle names what was opened, for the window and lightbox header
func collectionTitle(args []string) string {
	switch len(args) {
	case 0:
		return ""
	case 1:
		return filepath.Base(filepath.Clean(args[0]))
	default:
		return fmt.Sprintf("%s (+%d more)", filepath.Base(filepath.Clean(args[0])), len(args)-1)
	}
}

func runViewer(cmd *cobra.Command, flags *viewerFlags, args []string) error {
	if err := InitGraphics(); err != nil {
		log.Printf("Warning: Failed to initialize fonts: %v", err)
	}

	configPath := resolveConfigPath(flags.configPath)
	result := loadConfigFromPath(configPath)
	config := result.Config
	applyFlags(cmd, &config)
	debugLog("Config %s loaded (%s)", configPath, result.Status)

	paths, err := collectImages(args, config.SortMethod)
	if err != nil {
		return fmt.Errorf("collect images: %w", err)
	}
	if len(paths) == 0 {
		return errors.New("no image files specified")
	}
	debugLog("Collected %d images", len(paths))

	var store *Store
	if !flags.noStats {
		store, err = OpenStore(config.DatabasePath)
		if err != nil {
			log.Printf("Warning: Counters and ratings disabled: %v", err)
			store = nil
		} else {
			defer func() {
				if err := store.Close(); err != nil {
					log.Printf("Warning: Failed to close store: %v", err)
				}
			}()
		}
	}

	title := collectionTitle(args)
	g := NewGame(GameOptions{
		Config:       &config,
		ConfigPath:   configPath,
		ConfigStatus: result,
		Title:        title,
		Paths:        paths,
		Store:        store,
		Slideshow:    config.SlideshowEnabled,
	})

	ebiten.SetWindowTitle("Lightview - " + title)
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowSizeLimits(minWidth, minHeight, -1, -1)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if config.Fullscreen {
		g.savedWinW, g.savedWinH = config.WindowWidth, config.WindowHeight
		ebiten.SetFullscreen(true)
	}

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}
