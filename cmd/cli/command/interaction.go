package command

import (
	"fmt"
	"strconv"

	"moviehub/cmd/cli/dto"

	"github.com/spf13/cobra"
)

var rateCmd = &cobra.Command{
	Use:   "rate [movie-id] [value]",
	Short: "Rate a movie (1-5)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid rating: %w", err)
		}
		if value < 1 || value > 5 {
			return fmt.Errorf("rating must be between 1 and 5")
		}

		c, err := requireLogin()
		if err != nil {
			return err
		}
		if err := c.RateMovie(cmd.Context(), args[0], value); err != nil {
			return fmt.Errorf("failed to rate movie: %w", err)
		}

		success("Rated %d/5", value)
		return nil
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review [movie-id] [text]",
	Short: "Write or replace your review of a movie",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spoiler, _ := cmd.Flags().GetBool("spoiler")

		c, err := requireLogin()
		if err != nil {
			return err
		}
		if err := c.UpsertReview(cmd.Context(), args[0], dto.ReviewRequest{Content: args[1], IsSpoiler: spoiler}); err != nil {
			return fmt.Errorf("failed to save review: %w", err)
		}

		success("Review saved")
		return nil
	},
}

var wishlistCmd = &cobra.Command{
	Use:   "wishlist [movie-id]",
	Short: "Add a movie to your wishlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireLogin()
		if err != nil {
			return err
		}
		if err := c.AddToWishlist(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to update wishlist: %w", err)
		}

		success("On your wishlist")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rateCmd, reviewCmd, wishlistCmd)

	reviewCmd.Flags().Bool("spoiler", false, "Mark the review as containing spoilers")
}
