package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop the collection and reseed it from the catalog",
	Long: `Drop the collection index together with every stored record, recreate it and
insert the catalog again. Asks for confirmation on a terminal; pass --yes otherwise.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !resetYes && !isInteractive() {
		return domain.ErrConfirmationRequired
	}

	cred, err := credential()
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	confirmed := resetYes
	if !confirmed {
		count, countErr := a.collection.Count(cmd.Context())
		if countErr != nil {
			logger.Warn("Failed to count records before reset", zap.Error(countErr))
		}
		confirmed, err = confirmReset(resetQuestion(a.collection.Name(), count, countErr))
		if err != nil {
			return fmt.Errorf("confirm reset: %w", err)
		}
		if !confirmed {
			showInfo(cmd.OutOrStdout(), "Reset cancelled.")
			return nil
		}
	}

	svc := a.collection.WithProgress(newProgress(os.Stderr, "Reseeding"))
	n, err := svc.Reset(cmd.Context(), cred, confirmed)
	if err != nil {
		return err
	}
	showSuccess(cmd.OutOrStdout(), fmt.Sprintf("Database has been reset! %d records stored in %s.", n, a.collection.Name()))
	return nil
}
