package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pctl/internal/config"
	"pctl/internal/gateway"
	"pctl/internal/models"
	"pctl/internal/snapshot"
	"pctl/internal/state"
	"pctl/internal/util"
)

var globalConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "pctl",
	Short: "Project Control - track projects, memos and checklists",
	Long: `Project Control (pctl) is a client for the Project Control service.
It tracks projects with memos, checklist details, reference infos and categories,
synchronized through a hosted data service with user accounts.`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute(cfg *config.Config) error {
	globalConfig = cfg
	return rootCmd.Execute()
}

// newLogger builds the shared logger; PCTL_DEBUG enables verbose output
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if os.Getenv("PCTL_DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// newClient builds a gateway client from the loaded config
func newClient() (*gateway.Client, error) {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("error getting config directory: %w", err)
	}

	if globalConfig == nil || globalConfig.ServiceURL == "" {
		return nil, fmt.Errorf("service URL not configured, run 'pctl config set --service-url <url>' first")
	}

	sessions := models.NewSessionStore(configDir)
	return gateway.NewClient(globalConfig.ServiceURL, globalConfig.APIKey, sessions, newLogger()), nil
}

// newManager builds an authenticated state manager with the snapshot store
// attached.
func newManager() (*state.Manager, *gateway.Client, error) {
	client, err := newClient()
	if err != nil {
		return nil, nil, err
	}
	if !client.Authenticated() {
		return nil, nil, fmt.Errorf("you are not logged in, run 'pctl auth login' first")
	}

	log := newLogger()
	mgr := state.NewManager(client, log)

	snapPath := globalConfig.SnapshotPath
	if snapPath == "" {
		snapPath, err = snapshot.DefaultPath()
	}
	if err == nil {
		if snap, serr := snapshot.Open(snapPath); serr == nil {
			mgr.SetSnapshot(snap)
		} else {
			log.WithError(serr).Warn("snapshot store unavailable")
		}
	}

	return mgr, client, nil
}

// loadTree refreshes from the service, falling back to the local snapshot
// when the service is unreachable.
func loadTree(ctx context.Context, mgr *state.Manager) error {
	err := mgr.Refresh(ctx)
	if err == nil {
		return nil
	}

	if snapErr := mgr.LoadSnapshot(); snapErr == nil {
		fmt.Println("Warning: service unreachable, showing local snapshot:", err)
		return nil
	}
	return err
}

// resolveProject finds a project by id or by (case-insensitive) name
func resolveProject(mgr *state.Manager, arg string) (*models.ProjectTree, error) {
	if util.IsUUID(arg) {
		if p, ok := mgr.Project(arg); ok {
			return p, nil
		}
		return nil, fmt.Errorf("project not found: %s", arg)
	}

	for _, p := range mgr.Tree() {
		if strings.EqualFold(p.Project.Name, arg) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("project not found: %s", arg)
}

// resolveMemo finds a memo inside a project by id or title
func resolveMemo(project *models.ProjectTree, arg string) (*models.MemoTree, error) {
	for i := range project.Memos {
		memo := &project.Memos[i]
		if memo.Memo.ID == arg || strings.EqualFold(memo.Memo.Title, arg) {
			return memo, nil
		}
	}
	return nil, fmt.Errorf("memo not found: %s", arg)
}

// configFilePath returns the path of the global config file
func configFilePath() (string, error) {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

func init() {
	// Add all commands
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(memoCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(configCmd)
}
