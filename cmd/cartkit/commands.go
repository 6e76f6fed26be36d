package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cartdark/cartkit/internal/settings"
	"github.com/cartdark/cartkit/pkg"
	"github.com/cartdark/cartkit/pkg/cart"
	"github.com/cartdark/cartkit/pkg/cart/loader"
	"github.com/cartdark/cartkit/pkg/cart/packsync"
	"github.com/cartdark/cartkit/pkg/cart/scaffold"
	"github.com/cartdark/cartkit/pkg/cart/schema"
)

var (
	newTemplate    string
	newDir         string
	newWidth       int
	newHeight      int
	newFormat      string
	newNoReadme    bool
	newNoGitignore bool
	renameValidate bool

	errCheckFailed = errors.New("project check failed")
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a project from a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runNew,
}

var openCmd = &cobra.Command{
	Use:   "open <project-root | file.cart>",
	Short: "Load a project descriptor and print it",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

var locateCmd = &cobra.Command{
	Use:   "locate <project-root>",
	Short: "Print the project's descriptor path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := loader.New(logger).LocateDescriptor(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <project-root>",
	Short: "Check the descriptor and the manifest against the project tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportIssues(cmd, pkg.CheckProjectWithLogger(args[0], logger))
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <project-root>",
	Short: "Rewrite pack.json in canonical formatting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportChange(cmd, "formatted", "no manifest")(packsync.New(logger).FormatOnly(args[0]))
	},
}

var regenResCmd = &cobra.Command{
	Use:   "regen-res <project-root>",
	Short: "Reset the res/ chunks of pack.json to the canonical definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportChange(cmd, "regenerated", "no manifest or res/ directory")(packsync.New(logger).RegenerateResourceChunks(args[0]))
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Apply a file rename or delete to pack.json",
}

var syncRenameCmd = &cobra.Command{
	Use:   "rename <project-root> <old-path> <new-path>",
	Short: "Follow a rename or move",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		if err := reportChange(cmd, "updated", "unchanged")(packsync.New(logger).OnFileRenamed(root, absPath(args[1]), absPath(args[2]))); err != nil {
			return err
		}
		if renameValidate {
			return reportIssues(cmd, pkg.CheckProjectWithLogger(root, logger))
		}
		return nil
	},
}

var syncDeleteCmd = &cobra.Command{
	Use:   "delete <project-root> <path>",
	Short: "Follow a deletion",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportChange(cmd, "updated", "unchanged")(packsync.New(logger).OnFileDeleted(args[0], absPath(args[1])))
	},
}

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Edit the script list of pack.json",
}

var scriptAddCmd = &cobra.Command{
	Use:   "add <project-root> <path>",
	Short: "Add a script to the script list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportChange(cmd, "listed", "no manifest")(packsync.New(logger).AddScriptToManifest(args[0], absPath(args[1])))
	},
}

var scriptRemoveCmd = &cobra.Command{
	Use:   "remove <project-root> <path>",
	Short: "Remove a script from the script list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportChange(cmd, "removed", "not listed")(packsync.New(logger).RemoveScriptFromManifest(args[0], absPath(args[1])))
	},
}

func init() {
	newCmd.Flags().StringVarP(&newTemplate, "template", "t", scaffold.TemplateMinimal,
		"Template ("+strings.Join(scaffold.Templates(), ", ")+")")
	newCmd.Flags().StringVarP(&newDir, "dir", "d", "", "Parent directory (defaults to the last used location)")
	newCmd.Flags().IntVar(&newWidth, "width", 0, "Display width in pixels")
	newCmd.Flags().IntVar(&newHeight, "height", 0, "Display height in pixels")
	newCmd.Flags().StringVar(&newFormat, "format", "", "Pixel format ("+pixelFormats()+")")
	newCmd.Flags().BoolVar(&newNoReadme, "no-readme", false, "Do not write README.md")
	newCmd.Flags().BoolVar(&newNoGitignore, "no-gitignore", false, "Do not write .gitignore")

	syncRenameCmd.Flags().BoolVar(&renameValidate, "validate", false, "Check the project after updating the manifest")

	syncCmd.AddCommand(syncRenameCmd, syncDeleteCmd)
	scriptCmd.AddCommand(scriptAddCmd, scriptRemoveCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	parent := newDir
	if parent == "" {
		parent = settings.LastProjectLocation(store)
	}
	parent = absPath(parent)

	display := cfg.Scaffold.Display()
	if cmd.Flags().Changed("width") {
		display.Width = newWidth
	}
	if cmd.Flags().Changed("height") {
		display.Height = newHeight
	}
	if cmd.Flags().Changed("format") {
		display.PixelFormat = schema.PixelFormat(newFormat)
	}
	files := cfg.Scaffold.FileOptions()
	files.Readme = files.Readme && !newNoReadme
	files.IgnoreFile = files.IgnoreFile && !newNoGitignore

	project, err := pkg.CreateProject(newTemplate, args[0], parent, display, files, logger)
	if err != nil {
		return err
	}
	rememberLocation(parent)

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", project.Root)
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	target := absPath(args[0])

	var project *pkg.Project
	var err error
	if cart.IsFile(target) {
		project, err = pkg.OpenProjectFromDescriptorWithLogger(target, logger)
	} else {
		project, err = pkg.OpenProjectWithLogger(target, logger)
	}
	if err != nil {
		return err
	}
	rememberLocation(filepath.Dir(project.Root))

	d := project.Descriptor
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project:    %s\n", d.Name)
	fmt.Fprintf(out, "Descriptor: %s\n", project.DescriptorPath)
	fmt.Fprintf(out, "Template:   %s\n", d.TemplateID)
	fmt.Fprintf(out, "ID:         %s\n", d.ProjectID)
	fmt.Fprintf(out, "Display:    %dx%d %s\n", d.Display.Width, d.Display.Height, d.Display.PixelFormat)
	if d.Bootstrap != nil {
		fmt.Fprintf(out, "Bootstrap:  %s\n", d.Bootstrap.Mode)
		for _, layer := range d.Bootstrap.Layers {
			fmt.Fprintf(out, "  layer %d: %s alpha=%d enabled=%t\n", layer.ID, layer.CollectionPath, layer.Alpha, layer.Enabled)
		}
	}
	return nil
}

// reportChange prints the outcome of a synchronizer operation.
func reportChange(cmd *cobra.Command, changedMsg, unchangedMsg string) func(bool, error) error {
	return func(changed bool, err error) error {
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintln(cmd.OutOrStdout(), changedMsg)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), unchangedMsg)
		}
		return nil
	}
}

func reportIssues(cmd *cobra.Command, issues []packsync.Issue) error {
	out := cmd.OutOrStdout()
	if len(issues) == 0 {
		fmt.Fprintln(out, "✓ no issues")
		return nil
	}
	for _, issue := range issues {
		fmt.Fprintf(out, "✗ %s\n", issue)
	}
	return fmt.Errorf("%w: %d issue(s)", errCheckFailed, len(issues))
}

func rememberLocation(dir string) {
	if err := store.Set(settings.KeyLastProjectLocation, dir); err != nil {
		logger.Warn("⚠️ Could not remember project location", "error", err)
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func pixelFormats() string {
	names := make([]string, len(schema.PixelFormats))
	for i, f := range schema.PixelFormats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
