package cmd

import (
	"github.com/ismyyear/lockin/internal/cache"
	"github.com/ismyyear/lockin/internal/repository"
	"github.com/ismyyear/lockin/internal/service"
	"github.com/spf13/cobra"
)

func StreaksCmd() *cobra.Command {
	streaksCmd := &cobra.Command{
		Use:   "streaks",
		Short: "Maintain the streak columns stored on users",
	}

	var userID string
	recompute := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute current and longest streak from check-in history",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			checkins := service.NewCheckinService(
				repository.NewCheckinRepository(database),
				repository.NewUserRepository(database),
				cache.Noop{},
			)

			if userID != "" {
				summary, err := checkins.RecomputeStreaks(cmd.Context(), userID)
				if err != nil {
					return err
				}
				cmd.Printf("%s: current=%d longest=%d\n", userID, summary.CurrentStreak, summary.LongestStreak)
				return nil
			}

			n, err := checkins.RecomputeAllStreaks(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("updated streaks for %d users\n", n)
			return nil
		},
	}
	recompute.Flags().StringVar(&userID, "user", "", "only recompute this user id")

	streaksCmd.AddCommand(recompute)
	return streaksCmd
}
