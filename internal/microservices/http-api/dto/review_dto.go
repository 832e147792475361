package dto

import (
	"time"

	"moviehub/internal/microservices/http-api/service"
)

type RateMovieRequest struct {
	Value *int `json:"value" binding:"required"`
}

type ReviewRequest struct {
	Content   string `json:"content"`
	IsSpoiler *bool  `json:"isSpoiler"`
}

// OKResponse is the body of every successful mutation.
type OKResponse struct {
	OK bool `json:"ok"`
}

type ReviewAuthor struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

type ReviewResponse struct {
	ID        string       `json:"id"`
	MovieID   string       `json:"movieId"`
	Content   string       `json:"content"`
	IsSpoiler bool         `json:"isSpoiler"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	User      ReviewAuthor `json:"user"`
}

type ReviewPageResponse struct {
	Items       []ReviewResponse `json:"items"`
	NextCursor  *string          `json:"nextCursor"`
	HasNextPage bool             `json:"hasNextPage"`
}

func FromReviewPage(page *service.ReviewPage) ReviewPageResponse {
	resp := ReviewPageResponse{
		Items:       make([]ReviewResponse, 0, len(page.Items)),
		HasNextPage: page.HasNextPage,
	}
	if page.NextCursor != "" {
		cursor := page.NextCursor
		resp.NextCursor = &cursor
	}
	for _, item := range page.Items {
		resp.Items = append(resp.Items, ReviewResponse{
			ID:        item.Review.ID,
			MovieID:   item.Review.MovieID,
			Content:   item.Review.Content,
			IsSpoiler: item.Review.IsSpoiler,
			CreatedAt: item.Review.CreatedAt,
			UpdatedAt: item.Review.UpdatedAt,
			User: ReviewAuthor{
				ID:        item.User.ID,
				Name:      item.User.Name,
				AvatarURL: item.User.AvatarURL,
			},
		})
	}
	return resp
}
