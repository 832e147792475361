package command

import (
	"fmt"
	"strings"

	"moviehub/cmd/cli/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var movieCmd = &cobra.Command{
	Use:   "movie",
	Short: "Browse the movie catalog",
}

var listMoviesCmd = &cobra.Command{
	Use:   "list",
	Short: "List movies by popularity",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")

		list, err := newClient().ListMovies(cmd.Context(), page, limit)
		if err != nil {
			return fmt.Errorf("failed to list movies: %w", err)
		}
		if len(list.Items) == 0 {
			fmt.Println("No movies on this page.")
			return nil
		}

		for i, m := range list.Items {
			rank := (list.Page-1)*list.Limit + i + 1
			fmt.Printf("%3d. %s %s  %s\n", rank, color.New(color.Bold).Sprint(m.Title), year(m), stars(m))
			color.HiBlack("     %s", m.ID)
		}
		return nil
	},
}

var getMovieCmd = &cobra.Command{
	Use:   "get [movie-id]",
	Short: "Show one movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newClient().GetMovie(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get movie: %w", err)
		}
		if m == nil {
			return fmt.Errorf("movie %s not found", args[0])
		}

		color.New(color.Bold).Printf("%s %s\n", m.Title, year(*m))
		fmt.Println(stars(*m))
		if len(m.Genres) > 0 {
			names := make([]string, 0, len(m.Genres))
			for _, g := range m.Genres {
				names = append(names, g.Name)
			}
			fmt.Printf("Genres: %s\n", strings.Join(names, ", "))
		}
		if m.Description != nil {
			fmt.Printf("\n%s\n", *m.Description)
		}
		return nil
	},
}

var reviewsCmd = &cobra.Command{
	Use:   "reviews [movie-id]",
	Short: "Read reviews of a movie, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		cursor, _ := cmd.Flags().GetString("cursor")
		spoilers, _ := cmd.Flags().GetBool("spoilers")

		page, err := newClient().Reviews(cmd.Context(), args[0], cursor, limit)
		if err != nil {
			return fmt.Errorf("failed to list reviews: %w", err)
		}
		if len(page.Items) == 0 {
			fmt.Println("No reviews yet.")
			return nil
		}

		for _, r := range page.Items {
			color.Cyan("%s · %s", r.User.Name, r.CreatedAt.Format("2006-01-02"))
			if r.IsSpoiler && !spoilers {
				color.Yellow("  [spoiler hidden, use --spoilers]")
			} else {
				fmt.Printf("  %s\n", r.Content)
			}
		}
		if page.HasNextPage && page.NextCursor != nil {
			color.HiBlack("more: --cursor %s", *page.NextCursor)
		}
		return nil
	},
}

func year(m dto.Movie) string {
	if m.ReleaseDate == nil || len(*m.ReleaseDate) < 4 {
		return ""
	}
	return "(" + (*m.ReleaseDate)[:4] + ")"
}

func stars(m dto.Movie) string {
	if m.RatingCount == 0 {
		return "not rated yet"
	}
	return fmt.Sprintf("★ %.1f/5 (%d ratings)", m.AverageRating, m.RatingCount)
}

func init() {
	movieCmd.AddCommand(listMoviesCmd, getMovieCmd, reviewsCmd)
	rootCmd.AddCommand(movieCmd)

	listMoviesCmd.Flags().IntP("page", "p", 1, "Page number")
	listMoviesCmd.Flags().IntP("limit", "l", 20, "Movies per page (max 100)")

	reviewsCmd.Flags().IntP("limit", "l", 10, "Reviews per page (max 50)")
	reviewsCmd.Flags().StringP("cursor", "c", "", "Continue after this review id")
	reviewsCmd.Flags().Bool("spoilers", false, "Show reviews marked as spoilers")
}
