package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/task"
)

var packageCmd = &cobra.Command{
	Use:     "package",
	Aliases: []string{"pkg"},
	Short:   "Manage packages",
	Long: `Packages group tasks across columns. The catalog declares packages
with a description, color and team; tasks may also name packages that are
not declared.`,
}

var packageListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List packages with their task counts",
	Args:    cobra.NoArgs,
	RunE:    runPackageList,
}

var packageAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Declare a package",
	Args:  cobra.ExactArgs(1),
	RunE:  runPackageAdd,
}

var packageDeleteCmd = &cobra.Command{
	Use:     "delete NAME",
	Aliases: []string{"rm"},
	Short:   "Remove a package from the catalog",
	Long:    `Removes a declared package. Fails while tasks still reference it.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runPackageDelete,
}

var packageTemplateCmd = &cobra.Command{
	Use:   "template NAME",
	Short: "Declare the packages of a built-in template",
	Long:  `Adds the packages of a template (` + strings.Join(board.TemplateNames(), ", ") + `), skipping names already declared.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPackageTemplate,
}

var packageShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "List the tasks of a package in display order",
	Args:  cobra.ExactArgs(1),
	RunE:  runPackageShow,
}

var packageReorderCmd = &cobra.Command{
	Use:   "reorder NAME ID INDEX",
	Short: "Move a task to a position within its package",
	Long:  `Stores a display order for the package. INDEX is 0-based and clamped.`,
	Args:  cobra.ExactArgs(3), //nolint:mnd // name, id, index
	RunE:  runPackageReorder,
}

func init() {
	packageAddCmd.Flags().String("description", "", "package description")
	packageAddCmd.Flags().String("color", "", "package color")
	packageAddCmd.Flags().String("team", "", "owning team")
	packageCmd.AddCommand(packageListCmd, packageAddCmd, packageDeleteCmd,
		packageTemplateCmd, packageShowCmd, packageReorderCmd)
	rootCmd.AddCommand(packageCmd)
}

func runPackageList(_ *cobra.Command, _ []string) error {
	_, _, b, err := loadBoard()
	if err != nil {
		return err
	}
	pkgs := b.PackageSummaries()

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, pkgs)
	case output.FormatCompact:
		output.PackageCatalogCompact(os.Stdout, pkgs)
	default:
		output.PackageCatalogTable(os.Stdout, pkgs)
	}
	return nil
}

func runPackageAdd(cmd *cobra.Command, args []string) error {
	p := board.Package{Name: strings.TrimSpace(args[0])}
	p.Description, _ = cmd.Flags().GetString("description")
	p.Color, _ = cmd.Flags().GetString("color")
	p.Team, _ = cmd.Flags().GetString("team")

	if err := updateBoard(func(b *board.Board) error { return b.AddPackage(p) }); err != nil {
		return err
	}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, p)
	}
	output.Messagef(os.Stdout, "Added package %q", p.Name)
	return nil
}

func runPackageDelete(_ *cobra.Command, args []string) error {
	name := args[0]
	if err := updateBoard(func(b *board.Board) error { return b.DeletePackage(name) }); err != nil {
		return err
	}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"status": "deleted", "name": name})
	}
	output.Messagef(os.Stdout, "Deleted package %q", name)
	return nil
}

func runPackageTemplate(_ *cobra.Command, args []string) error {
	var added []board.Package
	if err := updateBoard(func(b *board.Board) error {
		var err error
		added, err = b.ApplyTemplate(args[0])
		return err
	}); err != nil {
		return err
	}
	if outputFormat() == output.FormatJSON {
		if added == nil {
			added = []board.Package{}
		}
		return output.JSON(os.Stdout, added)
	}
	output.Messagef(os.Stdout, "Added %d package(s) from template %q", len(added), args[0])
	return nil
}

func runPackageShow(_ *cobra.Command, args []string) error {
	_, _, b, err := loadBoard()
	if err != nil {
		return err
	}
	tasks, err := b.PackageTasks(args[0])
	if err != nil {
		return err
	}
	return renderPackageView(b, []board.PackageGroup{{Name: args[0], Tasks: tasks}})
}

func runPackageReorder(_ *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[2])
	if err != nil {
		return clierr.Newf(clierr.InvalidInput, "invalid index %q", args[2])
	}

	var order []*task.Task
	if err := updateBoard(func(b *board.Board) error {
		t, _, err := b.ResolveTask(args[1])
		if err != nil {
			return err
		}
		order, err = b.ReorderWithinPackage(args[0], t.ID, index)
		return err
	}); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, board.PackageGroup{Name: args[0], Tasks: order})
	}
	output.Messagef(os.Stdout, "Reordered package %q", args[0])
	return nil
}

// updateBoard loads the config and applies fn to the stored board.
func updateBoard(fn func(*board.Board) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, err = openStore(cfg).Update(fn)
	return err
}
